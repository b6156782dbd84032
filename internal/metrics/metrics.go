package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for landsync
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    prometheus.CounterVec
	HTTPRequestDuration  prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.GaugeVec

	// Sync pipeline metrics
	SyncRunsTotal       prometheus.CounterVec
	SyncDuration        prometheus.HistogramVec
	RecordsUpserted     prometheus.CounterVec
	SourceFailuresTotal prometheus.CounterVec
	BatchFailuresTotal  prometheus.CounterVec

	// Cache metrics
	CacheHitsTotal   prometheus.CounterVec
	CacheMissesTotal prometheus.CounterVec
}

// NewMetricsRegistry initializes and returns a new MetricsRegistry with all metrics
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		HTTPRequestsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "landsync_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "landsync_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: *promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "landsync_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		SyncRunsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "landsync_sync_runs_total",
				Help: "Per-city sync attempts by outcome",
			},
			[]string{"source_city", "status"},
		),
		SyncDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "landsync_sync_duration_seconds",
				Help:    "Duration of one city's fetch-parse-normalize-upsert cycle",
				Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
			},
			[]string{"source_city"},
		),
		RecordsUpserted: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "landsync_records_upserted_total",
				Help: "Land records written to the store per source city",
			},
			[]string{"source_city"},
		),
		SourceFailuresTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "landsync_source_failures_total",
				Help: "Failed per-city sync attempts by error stage",
			},
			[]string{"source_city", "stage"},
		),
		BatchFailuresTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "landsync_batch_failures_total",
				Help: "Individual upsert batch failures that did not abort the city sync",
			},
			[]string{"source_city"},
		),

		CacheHitsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "landsync_cache_hits_total",
				Help: "Cache hits by key prefix",
			},
			[]string{"prefix"},
		),
		CacheMissesTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "landsync_cache_misses_total",
				Help: "Cache misses by key prefix",
			},
			[]string{"prefix"},
		),
	}
}
