package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	PagesCrawledTotal *prometheus.CounterVec
	ErrorsTotal       *prometheus.CounterVec
	ScrapeDuration    *prometheus.HistogramVec
}

// NewMetrics registers the application metrics on the default registry.
func NewMetrics() *Metrics {
	return NewMetricsWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsWithRegistry registers the metrics on a caller-supplied
// registry. Tests use this to avoid duplicate registration panics.
func NewMetricsWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		PagesCrawledTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "crawler_pages_crawled_total",
			Help: "The total number of pages processed by the crawl orchestrator",
		}, nil),
		ErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "crawler_errors_total",
			Help: "The total number of errors encountered",
		}, []string{"type"}), // e.g. 'search_failed', 'scrape_failed', 'cache_error', 'batch_timeout'
		ScrapeDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "crawler_scrape_duration_seconds",
			Help:    "Duration of individual scrape operations",
			Buckets: prometheus.DefBuckets,
		}, []string{"outcome"}),
	}
}

func (m *Metrics) IncPagesCrawledTotal() {
	m.PagesCrawledTotal.WithLabelValues().Inc()
}

func (m *Metrics) IncErrorsTotal(errorType string) {
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}

func (m *Metrics) ObserveScrapeDuration(outcome string, d time.Duration) {
	m.ScrapeDuration.WithLabelValues(outcome).Observe(d.Seconds())
}
