package scraper

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

// Outcome is what the scrape-recruiters function reports for one config.
type Outcome struct {
	Success bool   `json:"success"`
	Added   int    `json:"added"`
	Skipped int    `json:"skipped"`
	Error   string `json:"error,omitempty"`
}

type request struct {
	ConfigID   string   `json:"config_id"`
	UserID     string   `json:"user_id"`
	Platform   string   `json:"platform"`
	Countries  []string `json:"countries"`
	Queries    []string `json:"queries"`
	MaxResults int      `json:"max_results"`
}

// Client invokes the scrape-recruiters edge function synchronously.
type Client struct {
	FunctionsURL string
	ServiceKey   string
	HTTPClient   *http.Client
}

func NewClient(functionsURL, serviceKey string, timeout time.Duration) *Client {
	return &Client{
		FunctionsURL: strings.TrimRight(functionsURL, "/"),
		ServiceKey:   serviceKey,
		HTTPClient:   &http.Client{Timeout: timeout},
	}
}

// Validate reports the first missing setting.
func (c *Client) Validate() error {
	if c.FunctionsURL == "" {
		return appErrors.NewConfigurationError("BACKEND_URL")
	}
	if c.ServiceKey == "" {
		return appErrors.NewConfigurationError("BACKEND_SERVICE_ROLE_KEY")
	}
	return nil
}

func (c *Client) Invoke(ctx context.Context, cfg model.ScraperConfig) (*Outcome, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(request{
		ConfigID:   cfg.ID,
		UserID:     cfg.UserID,
		Platform:   cfg.Platform,
		Countries:  cfg.TargetCountries,
		Queries:    cfg.SearchQueries,
		MaxResults: cfg.MaxResults,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.FunctionsURL+"/scrape-recruiters", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.ServiceKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &appErrors.UpstreamError{Service: "scrape-recruiters", Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &appErrors.UpstreamError{Service: "scrape-recruiters", Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var out Outcome
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &appErrors.UpstreamError{Service: "scrape-recruiters", Status: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	if !out.Success {
		msg := out.Error
		if msg == "" {
			msg = "scrape reported failure"
		}
		return nil, &appErrors.UpstreamError{Service: "scrape-recruiters", Status: resp.StatusCode, Body: msg}
	}
	return &out, nil
}
