package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	appErrors "github.com/unclebandit/jobseeker-backend/internal/errors"
	"github.com/unclebandit/jobseeker-backend/internal/model"
)

// ResendSender delivers through the Resend HTTP API.
type ResendSender struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
}

func NewResendSender(apiKey, baseURL string) *ResendSender {
	return &ResendSender{
		APIKey:  apiKey,
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *ResendSender) Name() string { return "resend" }

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type resendResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

func (s *ResendSender) Send(ctx context.Context, msg *model.Message) (string, error) {
	if s.APIKey == "" {
		return "", appErrors.NewConfigurationError("RESEND_API_KEY")
	}

	payload, err := json.Marshal(resendRequest{
		From:    msg.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		HTML:    msg.HTML,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return "", &appErrors.UpstreamError{Service: "resend", Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var out resendResponse
		detail := string(body)
		if json.Unmarshal(body, &out) == nil && out.Message != "" {
			detail = out.Message
		}
		return "", &appErrors.UpstreamError{Service: "resend", Status: resp.StatusCode, Body: detail}
	}

	var out resendResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", &appErrors.UpstreamError{Service: "resend", Status: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return out.ID, nil
}
