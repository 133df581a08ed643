package mailer

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"gopkg.in/gomail.v2"

	appErrors "github.com/unclebandit/jobseeker-backend/internal/errors"
	"github.com/unclebandit/jobseeker-backend/internal/model"
)

// SMTPSender delivers over SMTP. The provider id is the Message-ID it stamps.
type SMTPSender struct {
	Host     string
	Port     int
	Username string
	Password string

	dial func(d *gomail.Dialer, m ...*gomail.Message) error
}

func NewSMTPSender(host string, port int, username, password string) *SMTPSender {
	return &SMTPSender{Host: host, Port: port, Username: username, Password: password}
}

func (s *SMTPSender) Name() string { return "smtp" }

func (s *SMTPSender) Send(ctx context.Context, msg *model.Message) (string, error) {
	if s.Host == "" {
		return "", appErrors.NewConfigurationError("SMTP_HOST")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name, addr := msg.FromName, msg.FromAddress
	if addr == "" {
		parsed, err := mail.ParseAddress(msg.From)
		if err != nil {
			return "", fmt.Errorf("invalid sender %q: %w", msg.From, err)
		}
		name, addr = parsed.Name, parsed.Address
	}
	messageID := fmt.Sprintf("<%s@%s>", msg.TrackingID, senderDomain(addr))

	m := gomail.NewMessage()
	m.SetAddressHeader("From", addr, name)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetHeader("Message-ID", messageID)
	m.SetBody("text/html", msg.HTML)

	d := gomail.NewDialer(s.Host, s.Port, s.Username, s.Password)
	send := s.dial
	if send == nil {
		send = func(d *gomail.Dialer, m ...*gomail.Message) error { return d.DialAndSend(m...) }
	}
	if err := send(d, m); err != nil {
		return "", &appErrors.UpstreamError{Service: "smtp", Err: err}
	}
	return messageID, nil
}

func senderDomain(addr string) string {
	if at := strings.LastIndex(addr, "@"); at >= 0 {
		return addr[at+1:]
	}
	return "localhost"
}
