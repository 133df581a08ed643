package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	appErrors "github.com/unclebandit/jobseeker-backend/internal/errors"
	"github.com/unclebandit/jobseeker-backend/internal/model"
)

type CampaignRepositoryInterface interface {
	GetByID(ctx context.Context, id int) (*model.Campaign, error)
	CountClickedRecipients(ctx context.Context, campaignID int) (int, error)

	// Recipients
	AddRecipient(ctx context.Context, rec *model.CampaignRecipient) error
	MarkRecipientClicked(ctx context.Context, clickTrackingID string) (*model.CampaignRecipient, error)
	MarkRecipientOpened(ctx context.Context, trackingID string) (*model.CampaignRecipient, error)
}

type CampaignRepository struct {
	DB *sqlx.DB
}

const recipientColumns = `id, campaign_id, email, tracking_id, click_tracking_id, status, opened_at, clicked_at, created_at`

// ====================== Campaigns ======================

func (r *CampaignRepository) GetByID(ctx context.Context, id int) (*model.Campaign, error) {
	query := `
        SELECT id, name, status, sent_count, opened_count, clicked_count, created_at, updated_at
        FROM campaigns WHERE id=$1
    `
	var c model.Campaign
	if err := r.DB.GetContext(ctx, &c, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NewCampaignNotFound(id)
		}
		return nil, err
	}
	return &c, nil
}

func (r *CampaignRepository) CountClickedRecipients(ctx context.Context, campaignID int) (int, error) {
	var n int
	err := r.DB.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM campaign_recipients WHERE campaign_id=$1 AND clicked_at IS NOT NULL`,
		campaignID,
	)
	return n, err
}

// ====================== Recipients ======================

// AddRecipient links a dispatched message to its campaign and bumps sent_count in one transaction.
func (r *CampaignRepository) AddRecipient(ctx context.Context, rec *model.CampaignRecipient) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if rec.Status == "" {
		rec.Status = string(model.StatusSent)
	}
	query := `
        INSERT INTO campaign_recipients (campaign_id, email, tracking_id, click_tracking_id, status, created_at)
        VALUES ($1, $2, $3, $4, $5, NOW())
        RETURNING id, created_at
    `
	if err := tx.QueryRowxContext(ctx, query,
		rec.CampaignID, rec.Email, rec.TrackingID, rec.ClickTrackingID, rec.Status,
	).Scan(&rec.ID, &rec.CreatedAt); err != nil {
		return fmt.Errorf("insert campaign recipient: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE campaigns SET sent_count = sent_count + 1, updated_at = NOW() WHERE id = $1`,
		rec.CampaignID,
	)
	if err != nil {
		return fmt.Errorf("increment sent_count: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return appErrors.NewCampaignNotFound(rec.CampaignID)
	}
	return tx.Commit()
}

// MarkRecipientClicked sets clicked_at only if it is still NULL and, when that
// update lands, increments the campaign's clicked_count in the same transaction.
// Returns nil, nil when the id is unknown or was already clicked.
func (r *CampaignRepository) MarkRecipientClicked(ctx context.Context, clickTrackingID string) (*model.CampaignRecipient, error) {
	return r.markOnce(ctx,
		`UPDATE campaign_recipients SET status = 'clicked', clicked_at = NOW()
         WHERE click_tracking_id = $1 AND clicked_at IS NULL
         RETURNING `+recipientColumns,
		`UPDATE campaigns SET clicked_count = clicked_count + 1, updated_at = NOW() WHERE id = $1`,
		clickTrackingID,
	)
}

// MarkRecipientOpened is the open-beacon counterpart of MarkRecipientClicked.
// A recipient that already clicked keeps its clicked status.
func (r *CampaignRepository) MarkRecipientOpened(ctx context.Context, trackingID string) (*model.CampaignRecipient, error) {
	return r.markOnce(ctx,
		`UPDATE campaign_recipients
         SET status = CASE WHEN status = 'sent' THEN 'opened' ELSE status END, opened_at = NOW()
         WHERE tracking_id = $1 AND opened_at IS NULL
         RETURNING `+recipientColumns,
		`UPDATE campaigns SET opened_count = opened_count + 1, updated_at = NOW() WHERE id = $1`,
		trackingID,
	)
}

func (r *CampaignRepository) markOnce(ctx context.Context, markQuery, counterQuery, id string) (*model.CampaignRecipient, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var rec model.CampaignRecipient
	if err := tx.GetContext(ctx, &rec, markQuery, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, counterQuery, rec.CampaignID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &rec, nil
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)
