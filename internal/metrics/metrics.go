package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Overview result labels
const (
	OverviewCache       = "cache"
	OverviewGenerated   = "generated"
	OverviewFallback    = "fallback"
	OverviewUnavailable = "unavailable"
)

var (
	once sync.Once

	// DashboardBuildsTotal counts assembled dashboard documents.
	DashboardBuildsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "bankpulse",
		Subsystem: "dashboard",
		Name:      "builds_total",
		Help:      "Total number of dashboard documents assembled from the scraper artifacts.",
	})

	// DashboardBuildDurationSeconds is the time spent assembling one document.
	DashboardBuildDurationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "bankpulse",
		Subsystem: "dashboard",
		Name:      "build_duration_seconds",
		Help:      "Time to read the artifacts and assemble the dashboard document.",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	})

	// OverviewResultsTotal counts overview lookups by where the text came from.
	OverviewResultsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bankpulse",
		Subsystem: "overview",
		Name:      "results_total",
		Help:      "Total number of AI overview lookups, labeled by result (cache, generated, fallback, unavailable).",
	}, []string{"result"})

	// ScraperRunsTotal counts finished scraper runs by outcome.
	ScraperRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bankpulse",
		Subsystem: "scraper",
		Name:      "runs_total",
		Help:      "Total number of scraper pipeline runs, labeled by result.",
	}, []string{"result"})

	// ScraperRunning is 1 while a scraper run is active.
	ScraperRunning = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "bankpulse",
		Subsystem: "scraper",
		Name:      "running",
		Help:      "Whether a scraper pipeline run is currently active.",
	})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bankpulse",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests, labeled by route template and status code.",
	}, []string{"route", "code"})
)

// Register registers the service metrics with the default Prometheus registry.
// Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			DashboardBuildsTotal,
			DashboardBuildDurationSeconds,
			OverviewResultsTotal,
			ScraperRunsTotal,
			ScraperRunning,
			HTTPRequestsTotal,
		)
	})
}
