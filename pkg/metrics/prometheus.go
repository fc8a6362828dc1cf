// Package metrics provides Prometheus metrics for the Aithena pipeline service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the Aithena service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Pipeline metrics, one series per use case.
	pipelineRuns      *prometheus.CounterVec
	pipelineLatency   *prometheus.HistogramVec
	structuredErrors  *prometheus.CounterVec
	tokensExtracted   prometheus.Histogram
	invitesGenerated  prometheus.Counter
	candidatePoolSize prometheus.Gauge

	// Model client metrics.
	modelRequests  *prometheus.CounterVec
	modelLatency   *prometheus.HistogramVec
	modelFallbacks prometheus.Counter

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "aithena",
		subsystem:        "pipeline",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// latencyBuckets covers model round trips measured in milliseconds.
var latencyBuckets = []float64{5, 25, 100, 250, 500, 1000, 2500, 5000, 10000, 20000, 30000}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.pipelineRuns = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "runs_total",
			Help:      "Pipeline runs by use case and the path that produced the answer",
		},
		[]string{"use_case", "path"},
	)

	m.pipelineLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "latency_milliseconds",
			Help:      "End-to-end pipeline latency in milliseconds",
			Buckets:   latencyBuckets,
		},
		[]string{"use_case"},
	)

	m.structuredErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "structured_errors_total",
			Help:      "Model replies that failed extraction or the shape check",
		},
		[]string{"use_case", "kind"},
	)

	m.tokensExtracted = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "tokens_extracted",
		Help:      "Number of course tokens returned per extraction",
		Buckets:   []float64{0, 1, 3, 5, 10, 20, 50},
	})

	m.invitesGenerated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "invites_generated_total",
		Help:      "Total number of invitations returned",
	})

	m.candidatePoolSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "candidate_pool_size",
		Help:      "Number of candidates in the loaded pool",
	})

	m.modelRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: "model",
			Name:      "requests_total",
			Help:      "Generative model calls by model and outcome",
		},
		[]string{"model", "outcome"},
	)

	m.modelLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: "model",
			Name:      "latency_milliseconds",
			Help:      "Generative model call latency in milliseconds",
			Buckets:   latencyBuckets,
		},
		[]string{"model"},
	)

	m.modelFallbacks = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "model",
		Name:      "fallbacks_total",
		Help:      "Times a later model identifier was tried after a failure",
	})

	// HTTP Performance Metrics - User experience indicators
	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: "http",
			Name:      "request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds (user experience)",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_component_total",
			Help:      "Total number of errors by component",
		},
		[]string{"component", "error_type"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: "http",
			Name:      "errors_by_endpoint_total",
			Help:      "Total number of errors by endpoint",
		},
		[]string{"endpoint", "method", "error_type"},
	)

	// System Performance Metrics
	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "memory_usage_bytes",
		Help:      "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "goroutine_count",
		Help:      "Number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "gc_pause_time_milliseconds",
		Help:      "GC pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// Pipeline paths.
const (
	PathModel    = "model"
	PathFallback = "fallback"
	PathRaw      = "raw"
	PathError    = "error"
)

// RecordPipelineRun counts one use-case run ending on path.
func RecordPipelineRun(useCase, path string) {
	globalManager.pipelineRuns.WithLabelValues(useCase, path).Inc()
}

// RecordPipelineLatency records end-to-end latency for a use case.
func RecordPipelineLatency(useCase string, latencyMs float64) {
	globalManager.pipelineLatency.WithLabelValues(useCase).Observe(latencyMs)
}

// RecordStructuredError counts a reply that could not be used.
// kind is one of no_json, malformed, shape.
func RecordStructuredError(useCase, kind string) {
	globalManager.structuredErrors.WithLabelValues(useCase, kind).Inc()
}

// RecordTokensExtracted records the size of an extracted token set.
func RecordTokensExtracted(count int) {
	globalManager.tokensExtracted.Observe(float64(count))
}

// RecordInvitesGenerated adds n to the invitations counter.
func RecordInvitesGenerated(n int) {
	globalManager.invitesGenerated.Add(float64(n))
}

// UpdateCandidatePoolSize sets the loaded pool size.
func UpdateCandidatePoolSize(count int) {
	globalManager.candidatePoolSize.Set(float64(count))
}

// RecordModelRequest counts one model call. outcome is "success" or an
// HTTP status code / "transport".
func RecordModelRequest(model, outcome string) {
	globalManager.modelRequests.WithLabelValues(model, outcome).Inc()
}

// RecordModelLatency records a single model call latency.
func RecordModelLatency(model string, latencyMs float64) {
	globalManager.modelLatency.WithLabelValues(model).Observe(latencyMs)
}

// RecordModelFallback increments the fallback counter.
func RecordModelFallback() {
	globalManager.modelFallbacks.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
