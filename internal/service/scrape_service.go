package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	appErrors "github.com/unclebandit/jobseeker-backend/internal/errors"
	"github.com/unclebandit/jobseeker-backend/internal/metrics"
	"github.com/unclebandit/jobseeker-backend/internal/model"
	"github.com/unclebandit/jobseeker-backend/internal/repository"
	"github.com/unclebandit/jobseeker-backend/internal/scraper"
)

// ScrapeInvoker runs the downstream scrape for one config.
type ScrapeInvoker interface {
	Validate() error
	Invoke(ctx context.Context, cfg model.ScraperConfig) (*scraper.Outcome, error)
}

type ScrapeService struct {
	ConfigRepo repository.ScraperConfigRepositoryInterface
	Invoker    ScrapeInvoker
	// Concurrency bounds in-flight invocations; 1 runs configs one after another.
	Concurrency int
	Metrics     *metrics.Metrics
	Logger      *zap.Logger
	Now         func() time.Time
}

type ConfigResult struct {
	ConfigID string `json:"config_id"`
	Platform string `json:"platform"`
	Success  bool   `json:"success"`
	Added    int    `json:"added"`
	Skipped  int    `json:"skipped"`
	Error    string `json:"error,omitempty"`
}

type configFailure struct {
	ConfigID string `json:"config_id"`
	Platform string `json:"platform"`
	Success  bool   `json:"success"`
	Error    string `json:"error"`
}

// MarshalJSON drops the counts from failed results, which report only the error.
func (r ConfigResult) MarshalJSON() ([]byte, error) {
	if !r.Success {
		return json.Marshal(configFailure{ConfigID: r.ConfigID, Platform: r.Platform, Error: r.Error})
	}
	type success ConfigResult
	return json.Marshal(success(r))
}

type AutoScrapeSummary struct {
	Success    bool           `json:"success"`
	Message    string         `json:"message"`
	TotalAdded int            `json:"total_added"`
	Results    []ConfigResult `json:"results"`
}

// RunAutoScrape invokes the scrape for every config with both enablement
// flags set. One config failing never stops the others; its failure is
// reported in its result.
func (s *ScrapeService) RunAutoScrape(ctx context.Context) (*AutoScrapeSummary, error) {
	// Runs to completion once started; each downstream call has its own timeout.
	ctx = context.WithoutCancel(ctx)

	if err := s.Invoker.Validate(); err != nil {
		return nil, err
	}

	configs, err := s.ConfigRepo.ListAutoScrapeEnabled(ctx)
	if err != nil {
		return nil, appErrors.NewPersistenceError("list scraper configs", err)
	}
	if len(configs) == 0 {
		return &AutoScrapeSummary{
			Success: true,
			Message: "No auto-scrape configs enabled",
			Results: []ConfigResult{},
		}, nil
	}

	start := time.Now()
	results := make([]ConfigResult, len(configs))

	var g errgroup.Group
	g.SetLimit(max(1, s.Concurrency))
	for i, cfg := range configs {
		g.Go(func() error {
			results[i] = s.runOne(ctx, cfg)
			return nil
		})
	}
	g.Wait()
	s.Metrics.ObserveScrape(time.Since(start).Seconds())

	summary := &AutoScrapeSummary{
		Success: true,
		Message: fmt.Sprintf("Processed %d configs", len(configs)),
		Results: results,
	}
	for _, r := range results {
		summary.TotalAdded += r.Added
	}

	s.logger().Info("auto-scrape finished",
		zap.Int("configs", len(configs)),
		zap.Int("total_added", summary.TotalAdded),
		zap.Duration("took", time.Since(start)),
	)
	return summary, nil
}

func (s *ScrapeService) runOne(ctx context.Context, cfg model.ScraperConfig) ConfigResult {
	result := ConfigResult{ConfigID: cfg.ID, Platform: cfg.Platform}

	if err := s.ConfigRepo.TouchLastRun(ctx, cfg.ID, s.now()); err != nil {
		s.logger().Warn("failed to stamp last run", zap.String("config_id", cfg.ID), zap.Error(err))
	}

	out, err := s.Invoker.Invoke(ctx, cfg)
	if err != nil {
		s.Metrics.ScrapeResult(cfg.Platform, false)
		s.logger().Error("auto-scrape failed for config",
			zap.String("config_id", cfg.ID),
			zap.String("platform", cfg.Platform),
			zap.Error(err),
		)
		result.Error = err.Error()
		return result
	}

	s.Metrics.ScrapeResult(cfg.Platform, true)
	result.Success = true
	result.Added = out.Added
	result.Skipped = out.Skipped
	return result
}

func (s *ScrapeService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *ScrapeService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
