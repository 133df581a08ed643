package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry(), "jobseeker")

	m.EmailSent("resend")
	m.EmailSent("resend")
	m.TrackingEvent("click", "recorded")
	m.ScrapeResult("linkedin", false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.EmailsSent.WithLabelValues("resend")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TrackingEvents.WithLabelValues("click", "recorded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScrapeResults.WithLabelValues("linkedin", "failure")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.EmailSent("resend")
		m.EmailFailed("resend")
		m.TrackingEvent("open", "noop")
		m.BookkeepingFailed("email_history")
		m.ScrapeResult("indeed", true)
		m.ObserveScrape(1)
	})
}
