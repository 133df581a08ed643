package service

import (
	"context"

	"go.uber.org/zap"

	appErrors "github.com/unclebandit/jobseeker-backend/internal/errors"
	"github.com/unclebandit/jobseeker-backend/internal/model"
	"github.com/unclebandit/jobseeker-backend/internal/repository"
)

// TokenExchanger is the identity provider that trades an authorization code for tokens.
type TokenExchanger interface {
	Exchange(ctx context.Context, code, redirectURI string) (*model.GmailToken, error)
}

type GmailService struct {
	Exchanger TokenExchanger
	TokenRepo repository.GmailTokenRepositoryInterface
	Logger    *zap.Logger
}

// ConnectGmail exchanges code and stores the tokens. Storing them is a
// critical write: if it fails the whole call fails.
func (s *GmailService) ConnectGmail(ctx context.Context, userID, code, redirectURI string) error {
	tok, err := s.Exchanger.Exchange(ctx, code, redirectURI)
	if err != nil {
		return err
	}
	tok.UserID = userID

	var book Bookkeeping
	book.Record("gmail_tokens", true, s.TokenRepo.Upsert(ctx, tok))
	if err := book.Err(); err != nil {
		s.logger().Error("failed to store gmail token", zap.String("user_id", userID), zap.Error(err))
		return appErrors.NewPersistenceError("store gmail token", err)
	}

	if tok.RefreshToken == "" {
		s.logger().Warn("provider returned no refresh token", zap.String("user_id", userID))
	}
	s.logger().Info("gmail connected", zap.String("user_id", userID))
	return nil
}

func (s *GmailService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
