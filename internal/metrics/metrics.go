package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics (ops endpoints only)
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vigil_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vigil_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint", "status"},
	)

	// Signal store metrics
	SignalUpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vigil_signal_updates_total",
			Help: "Total number of channel value updates",
		},
		[]string{"channel"},
	)

	// Evaluation metrics
	EvaluationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vigil_evaluations_total",
			Help: "Total number of alert evaluations",
		},
	)

	EvaluationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vigil_evaluation_duration_seconds",
			Help:    "Time taken to evaluate one snapshot against thresholds",
			Buckets: []float64{.000001, .00001, .0001, .001, .01, .1},
		},
	)

	AlertsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vigil_alerts_total",
			Help: "Total number of alerts emitted by the poller",
		},
		[]string{"channel", "kind"},
	)

	// Poller metrics
	PollTicksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vigil_poll_ticks_total",
			Help: "Total number of background poll iterations",
		},
	)

	SourceReadErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vigil_source_read_errors_total",
			Help: "Total number of failed reads from the telemetry source",
		},
	)

	// Alert sink metrics
	AlertPublishTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vigil_alert_publish_total",
			Help: "Total number of alerts published to sinks",
		},
		[]string{"sink", "status"}, // status: success, failed
	)

	AlertPublishDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vigil_alert_publish_duration_seconds",
			Help:    "Time taken to publish an alert to a sink",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
	)

	KafkaBytesWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vigil_kafka_bytes_written_total",
			Help: "Total bytes written to Kafka",
		},
	)

	// Panic recovery
	PanicsRecovered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vigil_panics_recovered_total",
			Help: "Total number of panics recovered",
		},
		[]string{"component"},
	)
)
