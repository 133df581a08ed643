package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics. A nil *Metrics records nothing.
type Metrics struct {
	EmailsSent          *prometheus.CounterVec
	EmailsFailed        *prometheus.CounterVec
	TrackingEvents      *prometheus.CounterVec
	BookkeepingFailures *prometheus.CounterVec
	ScrapeResults       *prometheus.CounterVec
	ScrapeLatency       prometheus.Histogram
}

// New creates and registers all application metrics on reg.
func New(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		EmailsSent: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "emails_sent_total",
			Help:      "Messages accepted by a delivery transport",
		}, []string{"transport"}),
		EmailsFailed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "emails_failed_total",
			Help:      "Messages a delivery transport rejected",
		}, []string{"transport"}),
		TrackingEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tracking_events_total",
			Help:      "Open and click callbacks by outcome",
		}, []string{"event", "outcome"}),
		BookkeepingFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookkeeping_failures_total",
			Help:      "Best-effort writes that failed",
		}, []string{"ledger"}),
		ScrapeResults: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auto_scrape_results_total",
			Help:      "Per-config auto-scrape outcomes",
		}, []string{"platform", "outcome"}),
		ScrapeLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "auto_scrape_duration_seconds",
			Help:      "Duration of a full auto-scrape fan-out",
			Buckets:   []float64{.1, .5, 1, 5, 15, 30, 60, 120, 300},
		}),
	}
}

func (m *Metrics) EmailSent(transport string) {
	if m == nil {
		return
	}
	m.EmailsSent.WithLabelValues(transport).Inc()
}

func (m *Metrics) EmailFailed(transport string) {
	if m == nil {
		return
	}
	m.EmailsFailed.WithLabelValues(transport).Inc()
}

func (m *Metrics) TrackingEvent(event, outcome string) {
	if m == nil {
		return
	}
	m.TrackingEvents.WithLabelValues(event, outcome).Inc()
}

func (m *Metrics) BookkeepingFailed(ledger string) {
	if m == nil {
		return
	}
	m.BookkeepingFailures.WithLabelValues(ledger).Inc()
}

func (m *Metrics) ScrapeResult(platform string, ok bool) {
	if m == nil {
		return
	}
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	m.ScrapeResults.WithLabelValues(platform, outcome).Inc()
}

func (m *Metrics) ObserveScrape(seconds float64) {
	if m == nil {
		return
	}
	m.ScrapeLatency.Observe(seconds)
}
