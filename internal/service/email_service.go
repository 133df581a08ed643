package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/unclebandit/jobseeker-backend/internal/mailer"
	"github.com/unclebandit/jobseeker-backend/internal/metrics"
	"github.com/unclebandit/jobseeker-backend/internal/model"
	"github.com/unclebandit/jobseeker-backend/internal/queue"
	"github.com/unclebandit/jobseeker-backend/internal/repository"
)

type EmailService struct {
	Composer     *mailer.Composer
	Sender       mailer.Sender
	EmailRepo    repository.EmailRepositoryInterface
	CampaignRepo repository.CampaignRepositoryInterface
	Queue        queue.Queue
	Metrics      *metrics.Metrics
	Logger       *zap.Logger
	Now          func() time.Time
}

type SendEmailInput struct {
	UserID     string
	To         string
	Subject    string
	Body       string
	FromName   string
	CampaignID *int
}

type SendEmailResult struct {
	MessageID   string
	TrackingID  string
	Bookkeeping Bookkeeping
}

// SendEmail composes, delivers and records one message. Delivery happens at
// most once; once the provider accepts the message, bookkeeping failures are
// logged and reported in the result but do not fail the call.
func (s *EmailService) SendEmail(ctx context.Context, in SendEmailInput) (*SendEmailResult, error) {
	msg := s.Composer.Compose(mailer.Draft{
		To:          in.To,
		Subject:     in.Subject,
		Body:        in.Body,
		FromName:    in.FromName,
		TrackClicks: in.CampaignID != nil,
	})

	providerID, err := s.Sender.Send(ctx, &msg)
	if err != nil {
		s.Metrics.EmailFailed(s.Sender.Name())
		s.logger().Warn("delivery failed",
			zap.String("transport", s.Sender.Name()),
			zap.String("tracking_id", msg.TrackingID),
			zap.Error(err),
		)
		return nil, err
	}
	s.Metrics.EmailSent(s.Sender.Name())

	// The message is out; a caller hanging up must not abort its records.
	book := s.RecordSent(context.WithoutCancel(ctx), in.UserID, &msg, providerID, in.CampaignID)
	return &SendEmailResult{
		MessageID:   providerID,
		TrackingID:  msg.TrackingID,
		Bookkeeping: book,
	}, nil
}

// RecordSent writes the sent record to both ledgers independently, links the
// campaign recipient when there is one, and publishes a sent event.
func (s *EmailService) RecordSent(ctx context.Context, userID string, msg *model.Message, providerID string, campaignID *int) Bookkeeping {
	rec := model.SentRecord{
		UserID:            userID,
		RecipientEmail:    msg.To,
		Subject:           msg.Subject,
		Status:            model.StatusSent,
		TrackingID:        msg.TrackingID,
		Domain:            model.DomainFragment(msg.To),
		ProviderMessageID: providerID,
		SentAt:            s.now(),
	}

	var book Bookkeeping
	for _, ledger := range []repository.Ledger{repository.TrackingLedger, repository.HistoryLedger} {
		row := rec
		book.Record(string(ledger), false, s.EmailRepo.Insert(ctx, ledger, &row))
	}

	if campaignID != nil {
		err := s.CampaignRepo.AddRecipient(ctx, &model.CampaignRecipient{
			CampaignID:      *campaignID,
			Email:           msg.To,
			TrackingID:      msg.TrackingID,
			ClickTrackingID: msg.ClickTrackingID,
			Status:          string(model.StatusSent),
		})
		book.Record("campaign_recipients", false, err)
	}

	if s.Queue != nil {
		book.Record(queue.TopicEmailEvents, false, s.Queue.Publish(queue.TopicEmailEvents, model.TrackingEvent{
			Type:       model.EventEmailSent,
			TrackingID: msg.TrackingID,
			OccurredAt: rec.SentAt,
		}))
	}

	for _, f := range book.Failed() {
		s.Metrics.BookkeepingFailed(f.Target)
		s.logger().Error("bookkeeping write failed after delivery",
			zap.String("target", f.Target),
			zap.String("tracking_id", msg.TrackingID),
			zap.String("provider_message_id", providerID),
			zap.Error(f.Err),
		)
	}
	return book
}

func (s *EmailService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *EmailService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
