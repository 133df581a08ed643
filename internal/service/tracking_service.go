package service

import (
	"context"
	"errors"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	appErrors "github.com/unclebandit/jobseeker-backend/internal/errors"
	"github.com/unclebandit/jobseeker-backend/internal/metrics"
	"github.com/unclebandit/jobseeker-backend/internal/model"
	"github.com/unclebandit/jobseeker-backend/internal/queue"
	"github.com/unclebandit/jobseeker-backend/internal/repository"
)

// TrackingService records open and click callbacks.
type TrackingService struct {
	EmailRepo    repository.EmailRepositoryInterface
	CampaignRepo repository.CampaignRepositoryInterface
	Queue        queue.Queue
	Metrics      *metrics.Metrics
	Logger       *zap.Logger

	// Recent holds ids recorded within the dedupe window. Optional.
	Recent *cache.Cache
}

func NewTrackingService(
	emailRepo repository.EmailRepositoryInterface,
	campaignRepo repository.CampaignRepositoryInterface,
	q queue.Queue,
	m *metrics.Metrics,
	logger *zap.Logger,
	dedupeWindow time.Duration,
) *TrackingService {
	s := &TrackingService{
		EmailRepo:    emailRepo,
		CampaignRepo: campaignRepo,
		Queue:        q,
		Metrics:      m,
		Logger:       logger,
	}
	if dedupeWindow > 0 {
		s.Recent = cache.New(dedupeWindow, 2*dedupeWindow)
	}
	return s
}

// RecordClick marks the campaign recipient behind clickID as clicked. An
// unknown or already-clicked id is a no-op. It reports whether anything changed.
func (s *TrackingService) RecordClick(ctx context.Context, clickID string) (bool, error) {
	key := "click:" + clickID
	if s.seen(key) {
		s.Metrics.TrackingEvent("click", "duplicate")
		return false, nil
	}

	rec, err := s.CampaignRepo.MarkRecipientClicked(ctx, clickID)
	if err != nil {
		s.Metrics.TrackingEvent("click", "error")
		return false, appErrors.NewPersistenceError("mark recipient clicked", err)
	}
	s.remember(key)

	if rec == nil {
		s.Metrics.TrackingEvent("click", "noop")
		s.logger().Debug("click ignored", zap.String("click_id", clickID))
		return false, nil
	}

	s.advanceLedgers(ctx, rec.TrackingID, model.StatusClicked)
	s.publish(model.EventEmailClicked, rec.TrackingID)
	s.Metrics.TrackingEvent("click", "recorded")
	s.logger().Info("click recorded",
		zap.String("click_id", clickID),
		zap.Int("campaign_id", rec.CampaignID),
	)
	return true, nil
}

// RecordOpen moves the message behind trackingID from sent to opened in each
// ledger independently and marks its campaign recipient opened once. It fails
// only when neither ledger could be written.
func (s *TrackingService) RecordOpen(ctx context.Context, trackingID string) (bool, error) {
	key := "open:" + trackingID
	if s.seen(key) {
		s.Metrics.TrackingEvent("open", "duplicate")
		return false, nil
	}

	var (
		book  Bookkeeping
		moved bool
	)
	for _, ledger := range []repository.Ledger{repository.TrackingLedger, repository.HistoryLedger} {
		ok, err := s.EmailRepo.AdvanceStatus(ctx, ledger, trackingID, model.StatusOpened)
		book.Record(string(ledger), false, err)
		moved = moved || ok
	}
	if failed := book.Failed(); len(failed) == 2 {
		s.Metrics.TrackingEvent("open", "error")
		return false, appErrors.NewPersistenceError("advance ledgers", errors.Join(failed[0].Err, failed[1].Err))
	}
	for _, f := range book.Failed() {
		s.Metrics.BookkeepingFailed(f.Target)
		s.logger().Error("failed to advance ledger",
			zap.String("ledger", f.Target),
			zap.String("tracking_id", trackingID),
			zap.Error(f.Err),
		)
	}

	rec, err := s.CampaignRepo.MarkRecipientOpened(ctx, trackingID)
	if err != nil {
		s.Metrics.BookkeepingFailed("campaign_recipients")
		s.logger().Error("failed to mark recipient opened", zap.String("tracking_id", trackingID), zap.Error(err))
	}
	s.remember(key)

	changed := moved || rec != nil
	if !changed {
		s.Metrics.TrackingEvent("open", "noop")
		return false, nil
	}
	s.publish(model.EventEmailOpened, trackingID)
	s.Metrics.TrackingEvent("open", "recorded")
	return true, nil
}

func (s *TrackingService) advanceLedgers(ctx context.Context, trackingID string, status model.EmailStatus) {
	s.advance(ctx, repository.TrackingLedger, trackingID, status)
	s.advance(ctx, repository.HistoryLedger, trackingID, status)
}

func (s *TrackingService) advance(ctx context.Context, ledger repository.Ledger, trackingID string, status model.EmailStatus) {
	if _, err := s.EmailRepo.AdvanceStatus(ctx, ledger, trackingID, status); err != nil {
		s.Metrics.BookkeepingFailed(string(ledger))
		s.logger().Error("failed to advance ledger",
			zap.String("ledger", string(ledger)),
			zap.String("tracking_id", trackingID),
			zap.String("status", string(status)),
			zap.Error(err),
		)
	}
}

func (s *TrackingService) publish(eventType, trackingID string) {
	if s.Queue == nil {
		return
	}
	err := s.Queue.Publish(queue.TopicEmailEvents, model.TrackingEvent{
		Type:       eventType,
		TrackingID: trackingID,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		s.logger().Warn("failed to publish tracking event", zap.String("type", eventType), zap.Error(err))
	}
}

func (s *TrackingService) seen(key string) bool {
	if s.Recent == nil {
		return false
	}
	_, found := s.Recent.Get(key)
	return found
}

func (s *TrackingService) remember(key string) {
	if s.Recent != nil {
		s.Recent.SetDefault(key, struct{}{})
	}
}

func (s *TrackingService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
