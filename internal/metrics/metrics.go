package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for the import service
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec

	// Database Metrics
	DBQueriesTotal  *prometheus.CounterVec
	DBQueryDuration *prometheus.HistogramVec

	// Cache Metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	// Import Metrics
	MappingsAnalyzedTotal *prometheus.CounterVec
	MappingConfidence     *prometheus.HistogramVec
	UnmappedColumnsTotal  *prometheus.CounterVec
	ValidationErrorsTotal *prometheus.CounterVec
	TransferChunksTotal   *prometheus.CounterVec
	TransferRowsTotal     *prometheus.CounterVec
	TransferJobDuration   *prometheus.HistogramVec
	HintRequestsTotal     *prometheus.CounterVec

	// Worker Metrics
	RunsPrunedTotal prometheus.Counter
}

// NewMetricsRegistry registers every metric on reg. Pass prometheus.DefaultRegisterer
// in the server and a fresh prometheus.NewRegistry() in tests.
func NewMetricsRegistry(reg prometheus.Registerer) *MetricsRegistry {
	factory := promauto.With(reg)

	return &MetricsRegistry{
		// HTTP Metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contactimport_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "contactimport_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "contactimport_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		// Database Metrics
		DBQueriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contactimport_db_queries_total",
				Help: "Total destination store queries by operation and table",
			},
			[]string{"operation", "table"},
		),
		DBQueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "contactimport_db_query_duration_seconds",
				Help:    "Destination store query time in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"operation"},
		),

		// Cache Metrics
		CacheHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contactimport_cache_hits_total",
				Help: "Total cache hits by cache name",
			},
			[]string{"cache"},
		),
		CacheMissesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contactimport_cache_misses_total",
				Help: "Total cache misses by cache name",
			},
			[]string{"cache"},
		),

		// Import Metrics
		MappingsAnalyzedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contactimport_mappings_analyzed_total",
				Help: "Mapping analyses run per destination table",
			},
			[]string{"table"},
		),
		MappingConfidence: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "contactimport_mapping_confidence",
				Help:    "Aggregate confidence of mapping analyses",
				Buckets: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1},
			},
			[]string{"table"},
		),
		UnmappedColumnsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contactimport_unmapped_columns_total",
				Help: "Source columns dropped without a mapping or overflow",
			},
			[]string{"table"},
		),
		ValidationErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contactimport_validation_errors_total",
				Help: "Field level validation failures",
			},
			[]string{"table"},
		),
		TransferChunksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contactimport_transfer_chunks_total",
				Help: "Transfer chunks processed by outcome",
			},
			[]string{"table", "status"},
		),
		TransferRowsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contactimport_transfer_rows_total",
				Help: "Rows processed by transfer outcome",
			},
			[]string{"table", "outcome"},
		),
		TransferJobDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "contactimport_transfer_job_duration_seconds",
				Help:    "Transfer run execution time in seconds",
				Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300, 600},
			},
			[]string{"table", "dry_run"},
		),
		HintRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contactimport_hint_requests_total",
				Help: "External mapping hint requests by result",
			},
			[]string{"result"},
		),

		// Worker Metrics
		RunsPrunedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "contactimport_runs_pruned_total",
				Help: "Import history rows removed by the retention worker",
			},
		),
	}
}
