package model

import "time"

type Campaign struct {
	ID           int        `db:"id" json:"id"`
	Name         string     `db:"name" json:"name"`
	Status       string     `db:"status" json:"status"`
	SentCount    int        `db:"sent_count" json:"sent_count"`
	OpenedCount  int        `db:"opened_count" json:"opened_count"`
	ClickedCount int        `db:"clicked_count" json:"clicked_count"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// CampaignRecipient links one dispatched message to its campaign.
// OpenedAt and ClickedAt are written at most once.
type CampaignRecipient struct {
	ID              int        `db:"id" json:"id"`
	CampaignID      int        `db:"campaign_id" json:"campaign_id"`
	Email           string     `db:"email" json:"email"`
	TrackingID      string     `db:"tracking_id" json:"tracking_id"`
	ClickTrackingID string     `db:"click_tracking_id" json:"click_tracking_id"`
	Status          string     `db:"status" json:"status"`
	OpenedAt        *time.Time `db:"opened_at" json:"opened_at,omitempty"`
	ClickedAt       *time.Time `db:"clicked_at" json:"clicked_at,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
}
