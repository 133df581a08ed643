package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/unclebandit/jobseeker-backend/internal/model"
)

type ScraperConfigRepositoryInterface interface {
	ListAutoScrapeEnabled(ctx context.Context) ([]model.ScraperConfig, error)
	TouchLastRun(ctx context.Context, id string, at time.Time) error
}

type ScraperConfigRepository struct {
	DB *sqlx.DB
}

// ListAutoScrapeEnabled returns configs where both enablement flags are set.
func (r *ScraperConfigRepository) ListAutoScrapeEnabled(ctx context.Context) ([]model.ScraperConfig, error) {
	query := `
        SELECT id, user_id, platform, is_enabled, auto_scrape_enabled, target_countries, search_queries, max_results, last_run_at
        FROM scraper_configs
        WHERE is_enabled = TRUE AND auto_scrape_enabled = TRUE
        ORDER BY id
    `
	configs := []model.ScraperConfig{}
	if err := r.DB.SelectContext(ctx, &configs, query); err != nil {
		return nil, err
	}
	return configs, nil
}

func (r *ScraperConfigRepository) TouchLastRun(ctx context.Context, id string, at time.Time) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE scraper_configs SET last_run_at=$1 WHERE id=$2`, at, id)
	return err
}

var _ ScraperConfigRepositoryInterface = (*ScraperConfigRepository)(nil)
