package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/unclebandit/jobseeker-backend/internal/queue"
)

// LedgerSyncer converges the tracking and history ledgers for one message.
type LedgerSyncer interface {
	SyncLedgers(ctx context.Context, trackingID string) (int64, error)
}

// Worker consumes tracking events and keeps the two ledgers converged.
type Worker struct {
	Ledgers LedgerSyncer
	Timeout time.Duration
	Logger  *zap.Logger
}

// Constructor
func NewWorker(ledgers LedgerSyncer, logger *zap.Logger) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Worker{Ledgers: ledgers, Timeout: 10 * time.Second, Logger: logger}
}

// Handle processes one queue payload. Malformed payloads are dropped; sync
// failures are returned so the queue can retry.
func (w *Worker) Handle(payload any) error {
	ev, err := queue.DecodeEvent(payload)
	if err != nil {
		w.Logger.Warn("dropping malformed event", zap.Error(err))
		return nil
	}
	if ev.TrackingID == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), w.Timeout)
	defer cancel()

	n, err := w.Ledgers.SyncLedgers(ctx, ev.TrackingID)
	if err != nil {
		return err
	}
	if n > 0 {
		w.Logger.Info("ledgers synced",
			zap.String("tracking_id", ev.TrackingID),
			zap.String("event", ev.Type),
			zap.Int64("rows", n),
		)
	}
	return nil
}

// Start subscribes the worker to tracking events on q.
func (w *Worker) Start(q queue.Queue) error {
	return q.Subscribe(queue.TopicEmailEvents, w.Handle)
}
