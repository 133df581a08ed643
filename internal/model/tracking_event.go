package model

import "time"

const (
	EventEmailSent    = "email.sent"
	EventEmailOpened  = "email.opened"
	EventEmailClicked = "email.clicked"
)

// TrackingEvent is published whenever a ledger status changes.
type TrackingEvent struct {
	Type       string    `json:"type"`
	TrackingID string    `json:"tracking_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
