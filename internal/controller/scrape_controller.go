package controller

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/unclebandit/jobseeker-backend/internal/service"
)

type AutoScraper interface {
	RunAutoScrape(ctx context.Context) (*service.AutoScrapeSummary, error)
}

type ScrapeController struct {
	Service AutoScraper
	Logger  *zap.Logger
}

func (c *ScrapeController) AutoScrape(w http.ResponseWriter, r *http.Request) {
	summary, err := c.Service.RunAutoScrape(r.Context())
	if err != nil {
		if c.Logger != nil {
			c.Logger.Error("auto-scrape failed", zap.Error(err))
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
