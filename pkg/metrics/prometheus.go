// Package metrics provides Prometheus metrics for the memtree service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Outcome labels for distance computations.
const (
	OutcomeOK         = "ok"
	OutcomeNotFound   = "not_found"
	OutcomeDegenerate = "degenerate"
	OutcomeInvalid    = "invalid"
	OutcomeError      = "error"
)

// Sub-millisecond buckets: a single distance over an in-memory tree is cheap.
var computeBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 5, 25}

// Manager manages all Prometheus metrics for the memtree service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Engine metrics
	distanceComputations *prometheus.CounterVec
	distanceLatency      *prometheus.HistogramVec

	// Recommendation metrics
	recommendationsServed    prometheus.Counter
	recommendationCandidates prometheus.Histogram

	// State gauges
	treeNodes    prometheus.Gauge
	profileCount prometheus.Gauge

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Worker Metrics
	workerActiveCount       prometheus.Gauge
	workerJobs              prometheus.Counter
	workerErrors            prometheus.Counter
	workerProcessingLatency prometheus.Histogram

	// Error Metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "memtree",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// RefreshInterval returns how often gauges should be refreshed by callers.
func (m *Manager) RefreshInterval() time.Duration { return m.refreshInterval }

// Enabled reports whether recording is on.
func (m *Manager) Enabled() bool { return m.enabled }

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
		Buckets:     buckets,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.distanceComputations = auto.NewCounterVec(
		m.counterOpts("distance_computations_total", "Distance computations by metric and outcome"),
		[]string{"metric", "outcome"},
	)
	m.distanceLatency = auto.NewHistogramVec(
		m.histogramOpts("distance_latency_milliseconds", "Distance computation latency in milliseconds", computeBuckets),
		[]string{"metric"},
	)

	m.recommendationsServed = auto.NewCounter(
		m.counterOpts("recommendations_total", "Total number of recommendation lists served"),
	)
	m.recommendationCandidates = auto.NewHistogram(
		m.histogramOpts("recommendation_candidates", "Candidates evaluated per recommendation request",
			[]float64{1, 5, 10, 25, 50, 100, 250, 1000}),
	)

	m.treeNodes = auto.NewGauge(m.gaugeOpts("tree_nodes", "Number of nodes in the loaded hierarchy"))
	m.profileCount = auto.NewGauge(m.gaugeOpts("profiles", "Number of stored user profiles"))

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)

	m.workerActiveCount = auto.NewGauge(m.gaugeOpts("worker_active_count", "Workers currently evaluating jobs"))
	m.workerJobs = auto.NewCounter(m.counterOpts("worker_jobs_total", "Total number of jobs evaluated by workers"))
	m.workerErrors = auto.NewCounter(m.counterOpts("worker_errors_total", "Total number of failed worker jobs"))
	m.workerProcessingLatency = auto.NewHistogram(
		m.histogramOpts("worker_processing_latency_milliseconds", "Worker job latency in milliseconds", computeBuckets),
	)

	m.errorRateByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Errors by component and type"),
		[]string{"component", "error_type"},
	)
	m.errorRateByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "Errors by type and severity"),
		[]string{"error_type", "severity"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Errors by HTTP endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)
	m.errorLatency = auto.NewHistogramVec(
		m.histogramOpts("error_latency_milliseconds", "Latency of failed operations in milliseconds", m.histogramBuckets),
		[]string{"component", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_bytes", "Allocated heap bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutines", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(
		m.histogramOpts("system_gc_pause_milliseconds", "Average GC pause in milliseconds",
			[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}),
	)
}

// RecordDistance counts one computation and observes its latency.
func (m *Manager) RecordDistance(metric, outcome string, latencyMs float64) {
	if !m.enabled {
		return
	}
	m.distanceComputations.WithLabelValues(metric, outcome).Inc()
	m.distanceLatency.WithLabelValues(metric).Observe(latencyMs)
}

// RecordRecommendation counts a served list and its candidate count.
func (m *Manager) RecordRecommendation(candidates int) {
	if !m.enabled {
		return
	}
	m.recommendationsServed.Inc()
	m.recommendationCandidates.Observe(float64(candidates))
}

// RecordDistance records a distance computation on the global manager.
func RecordDistance(metric, outcome string, latencyMs float64) {
	globalManager.RecordDistance(metric, outcome, latencyMs)
}

// RecordRecommendation records a served recommendation list.
func RecordRecommendation(candidates int) {
	globalManager.RecordRecommendation(candidates)
}

// UpdateTreeNodes sets the hierarchy size.
func UpdateTreeNodes(count int) {
	globalManager.treeNodes.Set(float64(count))
}

// UpdateProfileCount sets the number of stored profiles.
func UpdateProfileCount(count int) {
	globalManager.profileCount.Set(float64(count))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// UpdateWorkerActiveCount sets the number of busy workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

// RecordWorkerJob counts a finished job and its latency.
func RecordWorkerJob(latencyMs float64) {
	globalManager.workerJobs.Inc()
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// RecordErrorByComponent records an error by component.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error by type and severity.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error by endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of a failed operation.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// UpdateSystemMemoryUsage sets the allocated heap bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// RefreshInterval returns the sampling interval of the global manager.
func RefreshInterval() time.Duration {
	return globalManager.RefreshInterval()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
