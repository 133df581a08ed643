package model

import (
	"time"

	"github.com/lib/pq"
)

type ScraperConfig struct {
	ID                string         `db:"id" json:"id"`
	UserID            string         `db:"user_id" json:"user_id"`
	Platform          string         `db:"platform" json:"platform"`
	IsEnabled         bool           `db:"is_enabled" json:"is_enabled"`
	AutoScrapeEnabled bool           `db:"auto_scrape_enabled" json:"auto_scrape_enabled"`
	TargetCountries   pq.StringArray `db:"target_countries" json:"target_countries"`
	SearchQueries     pq.StringArray `db:"search_queries" json:"search_queries"`
	MaxResults        int            `db:"max_results" json:"max_results"`
	LastRunAt         *time.Time     `db:"last_run_at" json:"last_run_at,omitempty"`
}
