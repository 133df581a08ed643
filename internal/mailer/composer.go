package mailer

import (
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"strings"

	"github.com/unclebandit/jobseeker-backend/internal/model"
	"github.com/unclebandit/jobseeker-backend/internal/tracking"
)

const DefaultSenderName = "JobSeeker"

// Draft is the caller-supplied part of a message.
type Draft struct {
	To          string
	Subject     string
	Body        string
	FromName    string
	TrackClicks bool
}

type Composer struct {
	Issuer      tracking.Issuer
	FromAddress string
	// TrackingURL is the base URL serving track-email-open and track-email-click.
	TrackingURL string
}

// Compose injects an open beacon and builds the sender header. When
// TrackClicks is set, absolute links are routed through the click relay
// under a second identifier.
func (c *Composer) Compose(d Draft) model.Message {
	trackingID := c.Issuer.NewID()

	name := strings.TrimSpace(d.FromName)
	if name == "" {
		name = DefaultSenderName
	}

	body := d.Body
	msg := model.Message{
		To:          d.To,
		Subject:     d.Subject,
		From:        (&mail.Address{Name: name, Address: c.FromAddress}).String(),
		FromName:    name,
		FromAddress: c.FromAddress,
		TrackingID:  trackingID,
	}

	if d.TrackClicks {
		msg.ClickTrackingID = c.Issuer.NewID()
		body = RewriteLinks(body, c.TrackingURL, msg.ClickTrackingID)
	}

	msg.HTML = body + Beacon(c.TrackingURL, trackingID)
	return msg
}

// Beacon is the invisible 1x1 image that reports an open.
func Beacon(trackingURL, trackingID string) string {
	return fmt.Sprintf(
		`<img src="%s/track-email-open?id=%s" width="1" height="1" style="display:none" alt="" />`,
		trackingURL, url.QueryEscape(trackingID),
	)
}

// ClickURL routes dest through the click relay.
func ClickURL(trackingURL, clickID, dest string) string {
	return fmt.Sprintf("%s/track-email-click?id=%s&url=%s",
		trackingURL, url.QueryEscape(clickID), url.QueryEscape(dest))
}

var hrefPattern = regexp.MustCompile(`href="(https?://[^"]+)"`)

func RewriteLinks(body, trackingURL, clickID string) string {
	return hrefPattern.ReplaceAllStringFunc(body, func(m string) string {
		dest := hrefPattern.FindStringSubmatch(m)[1]
		return fmt.Sprintf(`href="%s"`, ClickURL(trackingURL, clickID, dest))
	})
}
