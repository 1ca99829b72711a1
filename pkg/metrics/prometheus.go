// Package metrics provides Prometheus metrics for the fraud triage service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Prediction metrics
	predictions      *prometheus.CounterVec
	predictionErrors prometheus.Counter
	batchRows        prometheus.Counter
	inferenceLatency prometheus.Histogram

	// Alert lifecycle metrics
	alertsEnqueued prometheus.Counter
	alertsResolved prometheus.Counter
	alertQueueSize prometheus.Gauge

	// Feedback log metrics
	feedbackRecorded prometheus.Counter
	feedbackFailures prometheus.Counter

	// Historical data metrics
	historicalFallbacks prometheus.Counter
	historicalRows      prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error tracking
	errorsByComponent *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid the default Go collectors.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "fraudtriage",
		subsystem:        "api",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.predictions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "predictions_total",
		Help:      "Total number of single-transaction predictions by outcome",
	}, []string{"outcome"})

	m.predictionErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "prediction_errors_total",
		Help:      "Total number of predictions that failed",
	})

	m.batchRows = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "batch_rows_total",
		Help:      "Total number of rows classified through the batch endpoint",
	})

	m.inferenceLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "inference_latency_milliseconds",
		Help:      "Histogram of model inference latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.alertsEnqueued = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "alerts_enqueued_total",
		Help:      "Total number of fraud alerts added to the pending queue",
	})

	m.alertsResolved = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "alerts_resolved_total",
		Help:      "Total number of alerts removed from the queue after feedback",
	})

	m.alertQueueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "alert_queue_size",
		Help:      "Current number of alerts pending analyst review",
	})

	m.feedbackRecorded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "feedback_records_total",
		Help:      "Total number of analyst verdicts appended to the feedback log",
	})

	m.feedbackFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "feedback_failures_total",
		Help:      "Total number of feedback appends that failed",
	})

	m.historicalFallbacks = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "historical_fallbacks_total",
		Help:      "Total number of historical data loads that fell back to cached or empty data",
	})

	m.historicalRows = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "historical_sample_rows",
		Help:      "Number of rows in the cached historical sample",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by endpoint, method and status",
	}, []string{"endpoint", "method", "status"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "Histogram of HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})

	m.errorsByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_by_component_total",
		Help:      "Total number of errors by component and reason",
	}, []string{"component", "reason"})
}

// Package-level helpers operating on the global manager.

// RecordPrediction counts one single-transaction prediction by outcome
// ("fraud" or "legitimate").
func RecordPrediction(outcome string) {
	globalManager.predictions.WithLabelValues(outcome).Inc()
}

// RecordPredictionError counts one failed prediction.
func RecordPredictionError() {
	globalManager.predictionErrors.Inc()
}

// RecordBatchRows counts rows classified through the batch endpoint.
func RecordBatchRows(n int) {
	globalManager.batchRows.Add(float64(n))
}

// RecordInferenceLatency records one model evaluation duration.
func RecordInferenceLatency(latencyMs float64) {
	globalManager.inferenceLatency.Observe(latencyMs)
}

// RecordAlertEnqueued counts one alert added to the queue.
func RecordAlertEnqueued() {
	globalManager.alertsEnqueued.Inc()
}

// RecordAlertsResolved counts alerts removed from the queue.
func RecordAlertsResolved(n int) {
	globalManager.alertsResolved.Add(float64(n))
}

// UpdateAlertQueueSize sets the pending-alert gauge.
func UpdateAlertQueueSize(size int) {
	globalManager.alertQueueSize.Set(float64(size))
}

// RecordFeedbackRecorded counts one durable feedback append.
func RecordFeedbackRecorded() {
	globalManager.feedbackRecorded.Inc()
}

// RecordFeedbackFailure counts one failed feedback append.
func RecordFeedbackFailure() {
	globalManager.feedbackFailures.Inc()
}

// RecordHistoricalFallback counts one fail-soft historical load.
func RecordHistoricalFallback() {
	globalManager.historicalFallbacks.Inc()
}

// UpdateHistoricalRows sets the cached-sample gauge.
func UpdateHistoricalRows(n int) {
	globalManager.historicalRows.Set(float64(n))
}

// RecordHTTPRequest counts one HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records one HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByComponent counts one component error by reason.
func RecordErrorByComponent(component, reason string) {
	globalManager.errorsByComponent.WithLabelValues(component, reason).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
