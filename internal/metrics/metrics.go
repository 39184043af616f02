// Package metrics provides Prometheus metrics collection for the inference
// service. Counters, gauges, and histograms cover prediction volume, scoring
// failures, approval rates, and request latency, exposed on the /metrics
// endpoint of the serving mux.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the inference service.
type Metrics struct {
	// Prediction metrics
	PredictionsTotal   prometheus.Counter   // Total number of predictions served
	PredictionFailures prometheus.Counter   // Total number of failed predictions
	ApprovalsTotal     prometheus.Counter   // Total number of approved opportunities
	PredictionLatency  prometheus.Histogram // End-to-end prediction latency in seconds
	PredictionScores   prometheus.Histogram // Distribution of prediction scores
	FallbackUse        prometheus.Counter   // Times the rule model served in place of the trained model
	InferenceTimeouts  prometheus.Counter   // Subprocess inference timeouts

	// Batch metrics
	BatchRequests prometheus.Counter   // Total number of batch requests
	BatchSize     prometheus.Histogram // Distribution of batch request sizes

	// System metrics
	ErrorsTotal prometheus.Counter // Total number of errors encountered
}

// New creates and registers all metrics using the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates metrics with a custom registry (useful for testing).
// This allows isolated metric collection in tests without affecting the
// global Prometheus registry.
func NewWithRegistry(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)
	return &Metrics{
		PredictionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "ml_predictions_total",
			Help: "Total number of predictions served",
		}),
		PredictionFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "ml_prediction_failures_total",
			Help: "Total number of failed predictions",
		}),
		ApprovalsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "ml_approvals_total",
			Help: "Total number of opportunities approved by the decision policy",
		}),
		PredictionLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ml_prediction_latency_seconds",
			Help:    "End-to-end prediction latency in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		}),
		PredictionScores: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ml_prediction_scores",
			Help:    "Distribution of prediction scores",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		}),
		FallbackUse: factory.NewCounter(prometheus.CounterOpts{
			Name: "ml_fallback_use_total",
			Help: "Total number of times the rule model served in place of the trained model",
		}),
		InferenceTimeouts: factory.NewCounter(prometheus.CounterOpts{
			Name: "ml_inference_timeouts_total",
			Help: "Total number of subprocess inference timeouts",
		}),
		BatchRequests: factory.NewCounter(prometheus.CounterOpts{
			Name: "ml_batch_requests_total",
			Help: "Total number of batch prediction requests",
		}),
		BatchSize: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ml_batch_size",
			Help:    "Distribution of batch prediction request sizes",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
		ErrorsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "errors_total",
			Help: "Total number of errors encountered",
		}),
	}
}
