// Package metrics provides Prometheus metrics for the drain dashboard service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the dashboard service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Dataset Metrics - Load pipeline health
	datasetRowsLoaded   *prometheus.GaugeVec
	datasetRowsRejected *prometheus.CounterVec
	datasetLoadDuration prometheus.Histogram
	datasetReloads      prometheus.Counter
	datasetReloadErrors prometheus.Counter
	datasetLoadedAtUnix prometheus.Gauge

	// Aggregation Metrics - Core pipeline activity
	aggregations        prometheus.Counter
	aggregationDuration prometheus.Histogram
	emptyResults        prometheus.Counter

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
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
		namespace:        "draindash",
		subsystem:        "dashboard",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	// Dataset Metrics - Load pipeline health
	m.datasetRowsLoaded = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "dataset_rows_loaded",
			Help:      "Rows currently held in the dataset snapshot, by table",
		},
		[]string{"table"},
	)

	m.datasetRowsRejected = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "dataset_rows_rejected_total",
			Help:      "Rows dropped during load because they failed validation, by reason",
		},
		[]string{"table", "reason"},
	)

	m.datasetLoadDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dataset_load_duration_milliseconds",
		Help:      "Histogram of CSV load duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.datasetReloads = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dataset_reloads_total",
		Help:      "Total number of successful dataset loads, including the initial one",
	})

	m.datasetReloadErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dataset_reload_errors_total",
		Help:      "Total number of failed dataset reloads (previous snapshot kept)",
	})

	m.datasetLoadedAtUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dataset_loaded_at_unix_seconds",
		Help:      "Unix timestamp of the snapshot currently being served",
	})

	// Aggregation Metrics - Core pipeline activity
	m.aggregations = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "aggregations_total",
		Help:      "Total number of filter+aggregate pipeline runs",
	})

	m.aggregationDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "aggregation_duration_milliseconds",
		Help:      "Histogram of filter+aggregate pipeline duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.emptyResults = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "empty_results_total",
		Help:      "Total number of filter selections that matched zero cleanings",
	})

	// HTTP Performance Metrics
	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_errors_total",
			Help:      "Total number of HTTP responses with status >= 400, by endpoint",
		},
		[]string{"endpoint", "method", "error_type"},
	)

	// System Performance Metrics
	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_bytes",
		Help:      "Current heap allocation in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutines",
		Help:      "Current number of goroutines",
	})
}

// GetRegistry returns the custom Prometheus registry used by the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level helpers recording on the global manager.

// UpdateDatasetRows sets the number of loaded rows for a table.
func UpdateDatasetRows(table string, rows int) {
	if globalManager.enabled {
		globalManager.datasetRowsLoaded.WithLabelValues(table).Set(float64(rows))
	}
}

// RecordRowRejected counts a row dropped during load.
func RecordRowRejected(table, reason string) {
	if globalManager.enabled {
		globalManager.datasetRowsRejected.WithLabelValues(table, reason).Inc()
	}
}

// RecordDatasetLoadDuration records how long a full CSV load took.
func RecordDatasetLoadDuration(ms float64) {
	if globalManager.enabled {
		globalManager.datasetLoadDuration.Observe(ms)
	}
}

// RecordDatasetReload counts a successful dataset load.
func RecordDatasetReload() {
	if globalManager.enabled {
		globalManager.datasetReloads.Inc()
	}
}

// RecordDatasetReloadError counts a failed dataset reload.
func RecordDatasetReloadError() {
	if globalManager.enabled {
		globalManager.datasetReloadErrors.Inc()
	}
}

// UpdateDatasetLoadedAt records the timestamp of the served snapshot.
func UpdateDatasetLoadedAt(unixSeconds int64) {
	if globalManager.enabled {
		globalManager.datasetLoadedAtUnix.Set(float64(unixSeconds))
	}
}

// RecordAggregation counts a filter+aggregate run and its duration.
func RecordAggregation(ms float64) {
	if globalManager.enabled {
		globalManager.aggregations.Inc()
		globalManager.aggregationDuration.Observe(ms)
	}
}

// RecordEmptyResult counts a selection that matched zero cleanings.
func RecordEmptyResult() {
	if globalManager.enabled {
		globalManager.emptyResults.Inc()
	}
}

// RecordHTTPRequest counts an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

// RecordHTTPRequestDuration records the duration of an HTTP request.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, ms float64) {
	if globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(ms)
	}
}

// RecordHTTPError counts an HTTP error response.
func RecordHTTPError(endpoint, method, errorType string) {
	if globalManager.enabled {
		globalManager.httpErrors.WithLabelValues(endpoint, method, errorType).Inc()
	}
}

// UpdateSystemMemoryUsage sets the current heap allocation.
func UpdateSystemMemoryUsage(bytes uint64) {
	if globalManager.enabled {
		globalManager.systemMemoryUsage.Set(float64(bytes))
	}
}

// UpdateSystemGoroutineCount sets the current goroutine count.
func UpdateSystemGoroutineCount(count int) {
	if globalManager.enabled {
		globalManager.systemGoroutineCount.Set(float64(count))
	}
}
