// Package metrics defines the Prometheus instruments exposed on the
// /metrics endpoint: prediction volume and latency, validation failures,
// model load outcomes, and the audit trail's write health.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values for PredictionsTotal.
const (
	OutcomeOK      = "ok"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

// Result label values for ModelLoads.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics holds all Prometheus instruments for the serving API.
type Metrics struct {
	PredictionsTotal   *prometheus.CounterVec // predictions by version and outcome
	PredictionLatency  prometheus.Histogram   // end-to-end prediction handling latency
	ValidationFailures *prometheus.CounterVec // rejected feature vectors by failure kind
	ModelLoads         *prometheus.CounterVec // artifact load attempts by version and result
	ModelsLoaded       prometheus.Gauge       // versions currently resident in the registry
	AuditWriteFailures prometheus.Counter     // prediction records that could not be persisted
	RateLimited        prometheus.Counter     // requests rejected by the rate limiter
}

// New creates and registers all instruments on the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates the instruments against a caller-supplied
// registerer, which keeps tests isolated from the global registry.
func NewWithRegistry(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)
	return &Metrics{
		PredictionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "predictions_total",
			Help: "Total prediction requests by model version and outcome",
		}, []string{"version", "outcome"}),
		PredictionLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "prediction_latency_seconds",
			Help:    "End-to-end prediction handling latency in seconds",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}),
		ValidationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "validation_failures_total",
			Help: "Total rejected feature vectors by validation failure kind",
		}, []string{"kind"}),
		ModelLoads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "model_loads_total",
			Help: "Total artifact load attempts by version and result",
		}, []string{"version", "result"}),
		ModelsLoaded: factory.NewGauge(prometheus.GaugeOpts{
			Name: "models_loaded",
			Help: "Number of model versions currently loaded in the registry",
		}),
		AuditWriteFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "audit_write_failures_total",
			Help: "Total prediction records that could not be written to the audit store",
		}),
		RateLimited: factory.NewCounter(prometheus.CounterOpts{
			Name: "rate_limited_total",
			Help: "Total requests rejected by the per-client rate limiter",
		}),
	}
}
