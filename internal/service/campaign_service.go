package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/unclebandit/jobseeker-backend/internal/repository"
)

type CampaignService struct {
	CampaignRepo repository.CampaignRepositoryInterface
	Logger       *zap.Logger
}

type CampaignDetails struct {
	ID        int            `json:"id"`
	Name      string         `json:"name"`
	Status    string         `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt *time.Time     `json:"updated_at"`
	Stats     map[string]int `json:"stats"`
}

// GetCampaignDetailsWithStats returns the stored counters next to the
// clicked-recipient count they must agree with.
func (s *CampaignService) GetCampaignDetailsWithStats(ctx context.Context, campaignID int) (*CampaignDetails, error) {
	campaign, err := s.CampaignRepo.GetByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	clicked, err := s.CampaignRepo.CountClickedRecipients(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if clicked != campaign.ClickedCount && s.Logger != nil {
		s.Logger.Warn("clicked_count drift",
			zap.Int("campaign_id", campaignID),
			zap.Int("clicked_count", campaign.ClickedCount),
			zap.Int("clicked_recipients", clicked),
		)
	}

	return &CampaignDetails{
		ID:        campaign.ID,
		Name:      campaign.Name,
		Status:    campaign.Status,
		CreatedAt: campaign.CreatedAt,
		UpdatedAt: campaign.UpdatedAt,
		Stats: map[string]int{
			"sent":               campaign.SentCount,
			"opened":             campaign.OpenedCount,
			"clicked":            campaign.ClickedCount,
			"clicked_recipients": clicked,
		},
	}, nil
}
