package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/unclebandit/jobseeker-backend/internal/model"
)

// Ledger names a table holding SentRecords.
type Ledger string

const (
	TrackingLedger Ledger = "email_tracking"
	HistoryLedger  Ledger = "email_history"
)

type EmailRepositoryInterface interface {
	Insert(ctx context.Context, ledger Ledger, rec *model.SentRecord) error
	AdvanceStatus(ctx context.Context, ledger Ledger, trackingID string, status model.EmailStatus) (bool, error)
	GetByTrackingID(ctx context.Context, trackingID string) (*model.SentRecord, error)
	SyncLedgers(ctx context.Context, trackingID string) (int64, error)
}

type EmailRepository struct {
	DB *sqlx.DB
}

var statusTimestampColumn = map[model.EmailStatus]string{
	model.StatusOpened:  "opened_at",
	model.StatusClicked: "clicked_at",
}

func (r *EmailRepository) Insert(ctx context.Context, ledger Ledger, rec *model.SentRecord) error {
	if ledger != TrackingLedger && ledger != HistoryLedger {
		return fmt.Errorf("unknown ledger %q", ledger)
	}
	query := fmt.Sprintf(`
        INSERT INTO %s (user_id, recipient_email, subject, status, tracking_id, domain, provider_message_id, sent_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id
    `, ledger)
	return r.DB.QueryRowxContext(ctx, query,
		rec.UserID, rec.RecipientEmail, rec.Subject, rec.Status,
		rec.TrackingID, rec.Domain, rec.ProviderMessageID, rec.SentAt,
	).Scan(&rec.ID)
}

// AdvanceStatus moves a record forward to status and stamps the matching
// timestamp. It reports false when nothing moved (unknown id or a status
// that is already equal or further along).
func (r *EmailRepository) AdvanceStatus(ctx context.Context, ledger Ledger, trackingID string, status model.EmailStatus) (bool, error) {
	column, ok := statusTimestampColumn[status]
	if !ok {
		return false, fmt.Errorf("cannot advance to status %q", status)
	}
	if ledger != TrackingLedger && ledger != HistoryLedger {
		return false, fmt.Errorf("unknown ledger %q", ledger)
	}

	query := fmt.Sprintf(`
        UPDATE %s SET status = $2, %s = COALESCE(%s, NOW()), updated_at = NOW()
        WHERE tracking_id = $1 AND status = ANY($3)
    `, ledger, column, column)
	res, err := r.DB.ExecContext(ctx, query, trackingID, status, pq.Array(status.PriorStatuses()))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *EmailRepository) GetByTrackingID(ctx context.Context, trackingID string) (*model.SentRecord, error) {
	query := `
        SELECT id, user_id, recipient_email, subject, status, tracking_id, domain, provider_message_id, sent_at, opened_at, clicked_at
        FROM email_tracking WHERE tracking_id=$1
    `
	var rec model.SentRecord
	if err := r.DB.GetContext(ctx, &rec, query, trackingID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

const statusRank = `CASE %s WHEN 'sent' THEN 0 WHEN 'opened' THEN 1 WHEN 'clicked' THEN 2 ELSE -1 END`

const ledgerColumns = `user_id, recipient_email, subject, status, tracking_id, domain, provider_message_id, sent_at, opened_at, clicked_at`

// SyncLedgers converges the two ledgers for one tracking id. A row missing
// from either side is copied from the other, then whichever side is behind
// is moved forward. Backward moves are never applied.
func (r *EmailRepository) SyncLedgers(ctx context.Context, trackingID string) (int64, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	queries := []string{
		backfillQuery(HistoryLedger, TrackingLedger),
		backfillQuery(TrackingLedger, HistoryLedger),
		forwardQuery(HistoryLedger, TrackingLedger),
		forwardQuery(TrackingLedger, HistoryLedger),
	}

	var total int64
	for _, q := range queries {
		res, err := tx.ExecContext(ctx, q, trackingID)
		if err != nil {
			return 0, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		total += n
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return total, nil
}

// backfillQuery copies the row for $1 from src into dst when dst has none.
func backfillQuery(dst, src Ledger) string {
	conflict := ""
	if dst == TrackingLedger {
		conflict = "ON CONFLICT (tracking_id) DO NOTHING"
	}
	return fmt.Sprintf(`
        INSERT INTO %[1]s (%[3]s)
        SELECT %[3]s FROM (
            SELECT * FROM %[2]s s
            WHERE s.tracking_id = $1
              AND NOT EXISTS (SELECT 1 FROM %[1]s d WHERE d.tracking_id = s.tracking_id)
            ORDER BY s.id
            LIMIT 1
        ) src
        %[4]s
    `, dst, src, ledgerColumns, conflict)
}

// forwardQuery moves dst up to src's status when src is further along.
func forwardQuery(dst, src Ledger) string {
	return fmt.Sprintf(`
        UPDATE %[1]s d
        SET status = s.status,
            opened_at = COALESCE(d.opened_at, s.opened_at),
            clicked_at = COALESCE(d.clicked_at, s.clicked_at),
            updated_at = NOW()
        FROM %[2]s s
        WHERE s.tracking_id = d.tracking_id
          AND d.tracking_id = $1
          AND %[3]s < %[4]s
    `, dst, src, fmt.Sprintf(statusRank, "d.status"), fmt.Sprintf(statusRank, "s.status"))
}

var _ EmailRepositoryInterface = (*EmailRepository)(nil)
