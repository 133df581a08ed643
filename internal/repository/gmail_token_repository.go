package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/unclebandit/jobseeker-backend/internal/model"
)

type GmailTokenRepositoryInterface interface {
	Upsert(ctx context.Context, token *model.GmailToken) error
}

type GmailTokenRepository struct {
	DB *sqlx.DB
}

// Upsert keeps the previous refresh token when the provider omits a new one.
func (r *GmailTokenRepository) Upsert(ctx context.Context, token *model.GmailToken) error {
	query := `
        INSERT INTO gmail_tokens (user_id, access_token, refresh_token, token_type, expiry, updated_at)
        VALUES (:user_id, :access_token, :refresh_token, :token_type, :expiry, NOW())
        ON CONFLICT (user_id) DO UPDATE SET
            access_token = EXCLUDED.access_token,
            refresh_token = COALESCE(NULLIF(EXCLUDED.refresh_token, ''), gmail_tokens.refresh_token),
            token_type = EXCLUDED.token_type,
            expiry = EXCLUDED.expiry,
            updated_at = NOW()
    `
	_, err := r.DB.NamedExecContext(ctx, query, token)
	return err
}

var _ GmailTokenRepositoryInterface = (*GmailTokenRepository)(nil)
