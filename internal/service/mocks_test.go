package service

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/unclebandit/jobseeker-backend/internal/model"
	"github.com/unclebandit/jobseeker-backend/internal/repository"
	"github.com/unclebandit/jobseeker-backend/internal/scraper"
)

type MockEmailRepo struct{ mock.Mock }

func (m *MockEmailRepo) Insert(ctx context.Context, ledger repository.Ledger, rec *model.SentRecord) error {
	return m.Called(ctx, ledger, rec).Error(0)
}

func (m *MockEmailRepo) AdvanceStatus(ctx context.Context, ledger repository.Ledger, trackingID string, status model.EmailStatus) (bool, error) {
	args := m.Called(ctx, ledger, trackingID, status)
	return args.Bool(0), args.Error(1)
}

func (m *MockEmailRepo) GetByTrackingID(ctx context.Context, trackingID string) (*model.SentRecord, error) {
	args := m.Called(ctx, trackingID)
	rec, _ := args.Get(0).(*model.SentRecord)
	return rec, args.Error(1)
}

func (m *MockEmailRepo) SyncLedgers(ctx context.Context, trackingID string) (int64, error) {
	args := m.Called(ctx, trackingID)
	return int64(args.Int(0)), args.Error(1)
}

type MockCampaignRepo struct{ mock.Mock }

func (m *MockCampaignRepo) GetByID(ctx context.Context, id int) (*model.Campaign, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*model.Campaign)
	return c, args.Error(1)
}

func (m *MockCampaignRepo) CountClickedRecipients(ctx context.Context, campaignID int) (int, error) {
	args := m.Called(ctx, campaignID)
	return args.Int(0), args.Error(1)
}

func (m *MockCampaignRepo) AddRecipient(ctx context.Context, rec *model.CampaignRecipient) error {
	return m.Called(ctx, rec).Error(0)
}

func (m *MockCampaignRepo) MarkRecipientClicked(ctx context.Context, clickTrackingID string) (*model.CampaignRecipient, error) {
	args := m.Called(ctx, clickTrackingID)
	rec, _ := args.Get(0).(*model.CampaignRecipient)
	return rec, args.Error(1)
}

func (m *MockCampaignRepo) MarkRecipientOpened(ctx context.Context, trackingID string) (*model.CampaignRecipient, error) {
	args := m.Called(ctx, trackingID)
	rec, _ := args.Get(0).(*model.CampaignRecipient)
	return rec, args.Error(1)
}

type MockSender struct{ mock.Mock }

func (m *MockSender) Send(ctx context.Context, msg *model.Message) (string, error) {
	args := m.Called(ctx, msg)
	return args.String(0), args.Error(1)
}

func (m *MockSender) Name() string { return "mock" }

type MockConfigRepo struct{ mock.Mock }

func (m *MockConfigRepo) ListAutoScrapeEnabled(ctx context.Context) ([]model.ScraperConfig, error) {
	args := m.Called(ctx)
	configs, _ := args.Get(0).([]model.ScraperConfig)
	return configs, args.Error(1)
}

func (m *MockConfigRepo) TouchLastRun(ctx context.Context, id string, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

type MockInvoker struct{ mock.Mock }

func (m *MockInvoker) Validate() error { return m.Called().Error(0) }

func (m *MockInvoker) Invoke(ctx context.Context, cfg model.ScraperConfig) (*scraper.Outcome, error) {
	args := m.Called(ctx, cfg)
	out, _ := args.Get(0).(*scraper.Outcome)
	return out, args.Error(1)
}

type MockTokenRepo struct{ mock.Mock }

func (m *MockTokenRepo) Upsert(ctx context.Context, token *model.GmailToken) error {
	return m.Called(ctx, token).Error(0)
}

type MockExchanger struct{ mock.Mock }

func (m *MockExchanger) Exchange(ctx context.Context, code, redirectURI string) (*model.GmailToken, error) {
	args := m.Called(ctx, code, redirectURI)
	tok, _ := args.Get(0).(*model.GmailToken)
	return tok, args.Error(1)
}

// memCampaignRepo applies the same conditional-update rule as the SQL
// repository, under a mutex, so concurrent callers can be exercised.
type memCampaignRepo struct {
	mu         sync.Mutex
	campaign   model.Campaign
	recipients map[string]*model.CampaignRecipient
}

func newMemCampaignRepo(campaignID int, recipients ...model.CampaignRecipient) *memCampaignRepo {
	r := &memCampaignRepo{
		campaign:   model.Campaign{ID: campaignID, Name: "spring outreach", Status: "active"},
		recipients: map[string]*model.CampaignRecipient{},
	}
	for i := range recipients {
		rec := recipients[i]
		r.recipients[rec.ClickTrackingID] = &rec
		r.campaign.SentCount++
	}
	return r
}

func (r *memCampaignRepo) GetByID(_ context.Context, id int) (*model.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.campaign
	return &c, nil
}

func (r *memCampaignRepo) CountClickedRecipients(_ context.Context, _ int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, rec := range r.recipients {
		if rec.ClickedAt != nil {
			n++
		}
	}
	return n, nil
}

func (r *memCampaignRepo) AddRecipient(_ context.Context, rec *model.CampaignRecipient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *rec
	r.recipients[rec.ClickTrackingID] = &cp
	r.campaign.SentCount++
	return nil
}

func (r *memCampaignRepo) MarkRecipientClicked(_ context.Context, clickID string) (*model.CampaignRecipient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.recipients[clickID]
	if !ok || rec.ClickedAt != nil {
		return nil, nil
	}
	now := time.Now()
	rec.ClickedAt = &now
	rec.Status = string(model.StatusClicked)
	r.campaign.ClickedCount++
	cp := *rec
	return &cp, nil
}

func (r *memCampaignRepo) MarkRecipientOpened(_ context.Context, trackingID string) (*model.CampaignRecipient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.recipients {
		if rec.TrackingID == trackingID && rec.OpenedAt == nil {
			now := time.Now()
			rec.OpenedAt = &now
			r.campaign.OpenedCount++
			cp := *rec
			return &cp, nil
		}
	}
	return nil, nil
}

var (
	_ repository.EmailRepositoryInterface         = (*MockEmailRepo)(nil)
	_ repository.CampaignRepositoryInterface      = (*MockCampaignRepo)(nil)
	_ repository.CampaignRepositoryInterface      = (*memCampaignRepo)(nil)
	_ repository.ScraperConfigRepositoryInterface = (*MockConfigRepo)(nil)
	_ repository.GmailTokenRepositoryInterface    = (*MockTokenRepo)(nil)
)
