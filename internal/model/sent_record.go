package model

import (
	"strings"
	"time"
)

type EmailStatus string

const (
	StatusSent    EmailStatus = "sent"
	StatusOpened  EmailStatus = "opened"
	StatusClicked EmailStatus = "clicked"
)

func (s EmailStatus) rank() int {
	switch s {
	case StatusSent:
		return 0
	case StatusOpened:
		return 1
	case StatusClicked:
		return 2
	}
	return -1
}

// CanAdvanceTo reports whether s may move forward to next. Statuses never regress.
func (s EmailStatus) CanAdvanceTo(next EmailStatus) bool {
	return s.rank() >= 0 && s.rank() < next.rank()
}

// PriorStatuses returns every status that may advance to s.
func (s EmailStatus) PriorStatuses() []string {
	var prior []string
	for _, st := range []EmailStatus{StatusSent, StatusOpened, StatusClicked} {
		if st.CanAdvanceTo(s) {
			prior = append(prior, string(st))
		}
	}
	return prior
}

// SentRecord is one dispatched message as stored in both the tracking and history ledgers.
type SentRecord struct {
	ID                int         `db:"id" json:"id"`
	UserID            string      `db:"user_id" json:"user_id"`
	RecipientEmail    string      `db:"recipient_email" json:"recipient_email"`
	Subject           string      `db:"subject" json:"subject"`
	Status            EmailStatus `db:"status" json:"status"`
	TrackingID        string      `db:"tracking_id" json:"tracking_id"`
	Domain            string      `db:"domain" json:"domain"`
	ProviderMessageID string      `db:"provider_message_id" json:"provider_message_id"`
	SentAt            time.Time   `db:"sent_at" json:"sent_at"`
	OpenedAt          *time.Time  `db:"opened_at" json:"opened_at,omitempty"`
	ClickedAt         *time.Time  `db:"clicked_at" json:"clicked_at,omitempty"`
}

// DomainFragment returns the text between '@' and the first '.' after it,
// so "a@b.com" yields "b".
func DomainFragment(address string) string {
	at := strings.Index(address, "@")
	if at < 0 {
		return ""
	}
	host := address[at+1:]
	if dot := strings.Index(host, "."); dot >= 0 {
		return host[:dot]
	}
	return host
}
