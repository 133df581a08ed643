package model

// Message is the composed email handed to a delivery transport. From is the
// encoded sender header; FromName and FromAddress are its parts.
type Message struct {
	To              string `json:"to"`
	Subject         string `json:"subject"`
	HTML            string `json:"html"`
	From            string `json:"from"`
	FromName        string `json:"from_name"`
	FromAddress     string `json:"from_address"`
	TrackingID      string `json:"tracking_id"`
	ClickTrackingID string `json:"click_tracking_id,omitempty"`
}
