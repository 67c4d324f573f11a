// Package metrics provides Prometheus metrics for the pennant prediction service.
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

// Outcome label values shared by several counters.
const (
	ResultApplied    = "applied"
	ResultRejected   = "rejected"
	ResultSaved      = "saved"
	ResultIncomplete = "incomplete"
	ResultFailed     = "failed"
	ResultFound      = "found"
	ResultAbsent     = "absent"
	ResultDiscarded  = "discarded"
)

// Manager manages all Prometheus metrics for the pennant service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Editor session metrics
	sessionsOpened  prometheus.Counter
	sessionsActive  prometheus.Gauge
	sessionsExpired prometheus.Counter
	moves           *prometheus.CounterVec
	loads           *prometheus.CounterVec
	submissions     *prometheus.CounterVec
	titleSaves      *prometheus.CounterVec

	// Repository metrics
	repositoryLatency *prometheus.HistogramVec
	repositoryErrors  *prometheus.CounterVec

	// Archive metrics
	archiveExports *prometheus.CounterVec
	archiveObjects prometheus.Counter

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec
	errorLatency        *prometheus.HistogramVec

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
		namespace:        "pennant",
		subsystem:        "predictions",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	// A disabled manager still hands out working collectors, registered on a
	// private registry nobody scrapes.
	if !m.enabled {
		m.registry = prometheus.NewRegistry()
	}

	m.initializeMetrics()

	return m
}

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
		Buckets:     buckets,
		ConstLabels: m.customLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	// Editor sessions
	m.sessionsOpened = auto.NewCounter(m.counterOpts("sessions_opened_total",
		"Total number of standings editor sessions opened"))
	m.sessionsActive = auto.NewGauge(m.gaugeOpts("sessions_active",
		"Current number of open standings editor sessions"))
	m.sessionsExpired = auto.NewCounter(m.counterOpts("sessions_expired_total",
		"Total number of editor sessions closed for inactivity"))
	m.moves = auto.NewCounterVec(m.counterOpts("moves_total",
		"Total number of relocation requests by outcome"), []string{"result"})
	m.loads = auto.NewCounterVec(m.counterOpts("prediction_loads_total",
		"Total number of persisted prediction loads by outcome"), []string{"result"})
	m.submissions = auto.NewCounterVec(m.counterOpts("submissions_total",
		"Total number of standings submissions by outcome"), []string{"result"})
	m.titleSaves = auto.NewCounterVec(m.counterOpts("title_saves_total",
		"Total number of award sheet saves by outcome"), []string{"result"})

	// Repository
	m.repositoryLatency = auto.NewHistogramVec(m.histogramOpts("repository_latency_milliseconds",
		"Repository operation latency in milliseconds", m.histogramBuckets), []string{"driver", "operation"})
	m.repositoryErrors = auto.NewCounterVec(m.counterOpts("repository_errors_total",
		"Total number of failed repository operations"), []string{"driver", "operation"})

	// Archive
	m.archiveExports = auto.NewCounterVec(m.counterOpts("archive_exports_total",
		"Total number of season archive exports by outcome"), []string{"result"})
	m.archiveObjects = auto.NewCounter(m.counterOpts("archive_objects_total",
		"Total number of objects written to the archive bucket"))

	// HTTP
	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total",
		"Total number of HTTP requests by endpoint and method"), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", m.histogramBuckets), []string{"endpoint", "method", "status_code"})

	// Errors
	m.errorRateByType = auto.NewCounterVec(m.counterOpts("errors_by_type_total",
		"Total number of errors by type and severity"), []string{"error_type", "severity"})
	m.errorRateByEndpoint = auto.NewCounterVec(m.counterOpts("errors_by_endpoint_total",
		"Total number of errors by endpoint"), []string{"endpoint", "method", "error_type"})
	m.errorLatency = auto.NewHistogramVec(m.histogramOpts("error_latency_milliseconds",
		"Latency of failed requests in milliseconds", m.histogramBuckets), []string{"component", "error_type"})

	// System
	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes",
		"System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count",
		"Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts("system_gc_pause_time_milliseconds",
		"GC pause time in milliseconds", []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}))
}

// RecordSessionOpened counts a new editor session and raises the active gauge.
func RecordSessionOpened() {
	globalManager.sessionsOpened.Inc()
	globalManager.sessionsActive.Inc()
}

// RecordSessionClosed lowers the active session gauge.
func RecordSessionClosed() {
	globalManager.sessionsActive.Dec()
}

// RecordSessionExpired counts a session reaped for inactivity.
func RecordSessionExpired() {
	globalManager.sessionsExpired.Inc()
	globalManager.sessionsActive.Dec()
}

// UpdateActiveSessions sets the active session gauge.
func UpdateActiveSessions(count int) {
	globalManager.sessionsActive.Set(float64(count))
}

// RecordMove counts a relocation request; result is ResultApplied or ResultRejected.
func RecordMove(result string) {
	globalManager.moves.WithLabelValues(result).Inc()
}

// RecordLoad counts a persisted prediction load by outcome.
func RecordLoad(result string) {
	globalManager.loads.WithLabelValues(result).Inc()
}

// RecordSubmission counts a standings submission by outcome.
func RecordSubmission(result string) {
	globalManager.submissions.WithLabelValues(result).Inc()
}

// RecordTitleSave counts an award sheet save by outcome.
func RecordTitleSave(result string) {
	globalManager.titleSaves.WithLabelValues(result).Inc()
}

// RecordRepositoryLatency records a repository operation latency.
func RecordRepositoryLatency(driver, operation string, latencyMs float64) {
	globalManager.repositoryLatency.WithLabelValues(driver, operation).Observe(latencyMs)
}

// RecordRepositoryError counts a failed repository operation.
func RecordRepositoryError(driver, operation string) {
	globalManager.repositoryErrors.WithLabelValues(driver, operation).Inc()
}

// RecordArchiveExport counts a season export by outcome.
func RecordArchiveExport(result string) {
	globalManager.archiveExports.WithLabelValues(result).Inc()
}

// RecordArchiveObject counts one object written to the archive.
func RecordArchiveObject() {
	globalManager.archiveObjects.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByType records errors by type and severity.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records errors by endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of failed operations.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// UpdateSystemMemoryUsage sets the system memory usage.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom registry served on /metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// RefreshInterval returns how often polled gauges should be resampled.
func RefreshInterval() time.Duration {
	return globalManager.refreshInterval
}
