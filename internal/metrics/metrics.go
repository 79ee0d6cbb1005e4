package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal     prometheus.CounterVec
	HTTPRequestDuration   prometheus.HistogramVec
	HTTPRequestSize       prometheus.HistogramVec
	HTTPResponseSize      prometheus.HistogramVec
	HTTPActiveConnections prometheus.GaugeVec

	// Cache metrics
	CacheHitsTotal       prometheus.CounterVec
	CacheMissesTotal     prometheus.CounterVec
	CacheOperationsTotal prometheus.CounterVec

	// Rate limiting metrics
	RateLimitExceededTotal prometheus.CounterVec

	// Database metrics
	DatabaseQueryDuration prometheus.HistogramVec
	DatabaseQueriesTotal  prometheus.CounterVec

	// Upload metrics
	DatasetUploadsTotal prometheus.CounterVec
	DatasetUploadBytes  prometheus.HistogramVec

	// Dashboard pipeline metrics
	PipelineRunsTotal     prometheus.CounterVec
	PipelineStepDuration  prometheus.HistogramVec
	VerificationFailures  prometheus.CounterVec
	VerificationScore     prometheus.HistogramVec

	// LLM metrics
	LLMCallsTotal    prometheus.CounterVec
	LLMCallDuration  prometheus.HistogramVec
	LLMFallbackTotal prometheus.CounterVec

	// Error metrics
	ErrorsTotal prometheus.CounterVec
}

var (
	instance *Metrics
	once     sync.Once
)

// Initialize creates and registers all Prometheus metrics
func Initialize() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			// HTTP metrics
			HTTPRequestsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "http_requests_total",
					Help: "Total number of HTTP requests",
				},
				[]string{"method", "path", "status"},
			),
			HTTPRequestDuration: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "http_request_duration_seconds",
					Help:    "HTTP request latency in seconds",
					Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
				},
				[]string{"method", "path", "status"},
			),
			HTTPRequestSize: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "http_request_size_bytes",
					Help:    "HTTP request body size in bytes",
					Buckets: prometheus.ExponentialBuckets(100, 10, 7),
				},
				[]string{"method", "path"},
			),
			HTTPResponseSize: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "http_response_size_bytes",
					Help:    "HTTP response size in bytes",
					Buckets: prometheus.ExponentialBuckets(100, 10, 7),
				},
				[]string{"method", "path", "status"},
			),
			HTTPActiveConnections: *promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Name: "http_active_connections",
					Help: "Number of currently active HTTP connections",
				},
				[]string{"method", "path"},
			),

			// Cache metrics
			CacheHitsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "cache_hits_total",
					Help: "Total number of cache hits",
				},
				[]string{"cache_name"},
			),
			CacheMissesTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "cache_misses_total",
					Help: "Total number of cache misses",
				},
				[]string{"cache_name"},
			),
			CacheOperationsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "cache_operations_total",
					Help: "Total number of cache operations",
				},
				[]string{"operation", "cache_name"},
			),

			// Rate limiting metrics
			RateLimitExceededTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "rate_limit_exceeded_total",
					Help: "Total number of rate limit violations",
				},
				[]string{"endpoint", "method"},
			),

			// Database metrics
			DatabaseQueryDuration: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "database_query_duration_seconds",
					Help:    "Database query latency in seconds",
					Buckets: []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5, 5},
				},
				[]string{"query_type", "table"},
			),
			DatabaseQueriesTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "database_queries_total",
					Help: "Total number of database queries",
				},
				[]string{"query_type", "table", "status"},
			),

			// Upload metrics
			DatasetUploadsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "dataset_uploads_total",
					Help: "Total number of dataset uploads",
				},
				[]string{"status"},
			),
			DatasetUploadBytes: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "dataset_upload_bytes",
					Help:    "Uploaded CSV size in bytes",
					Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
				},
				[]string{"status"},
			),

			// Dashboard pipeline metrics
			PipelineRunsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "dashboard_pipeline_runs_total",
					Help: "Total number of dashboard generation runs",
				},
				[]string{"dashboard_type", "status"},
			),
			PipelineStepDuration: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "dashboard_pipeline_step_duration_seconds",
					Help:    "Dashboard pipeline step latency in seconds",
					Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
				},
				[]string{"step"},
			),
			VerificationFailures: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "dashboard_verification_failures_total",
					Help: "Total number of failed dashboard verification checks",
				},
				[]string{"check", "required"},
			),
			VerificationScore: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "dashboard_verification_score",
					Help:    "Dashboard verification score distribution",
					Buckets: []float64{.5, .6, .7, .8, .9, .95, .99, 1},
				},
				[]string{"dashboard_type"},
			),

			// LLM metrics
			LLMCallsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "llm_calls_total",
					Help: "Total number of LLM completions",
				},
				[]string{"purpose", "status"},
			),
			LLMCallDuration: *promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "llm_call_duration_seconds",
					Help:    "LLM completion latency in seconds",
					Buckets: []float64{.25, .5, 1, 2.5, 5, 10, 30, 60},
				},
				[]string{"purpose"},
			),
			LLMFallbackTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "llm_fallback_total",
					Help: "Total number of deterministic fallbacks after LLM failures",
				},
				[]string{"purpose"},
			),

			// Error metrics
			ErrorsTotal: *promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "errors_total",
					Help: "Total number of errors by type",
				},
				[]string{"error_type", "endpoint"},
			),
		}
	})
	return instance
}

// Get returns the global metrics instance
func Get() *Metrics {
	if instance == nil {
		return Initialize()
	}
	return instance
}
