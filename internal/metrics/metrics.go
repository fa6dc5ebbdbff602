// Package metrics provides Prometheus metrics for model calls
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"screen2html/internal/pipeline"
)

// Metrics holds the stage metrics and implements pipeline.Observer
type Metrics struct {
	StageCallsTotal    *prometheus.CounterVec
	StageDuration      *prometheus.HistogramVec
	StageOutputChars   *prometheus.HistogramVec
	StageCallsInFlight prometheus.Gauge
	SessionsActive     prometheus.Gauge
}

// NewMetrics creates the metrics and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		StageCallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "screen2html_stage_calls_total",
				Help: "Total number of model calls by stage and status",
			},
			[]string{"stage", "status"},
		),
		StageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "screen2html_stage_duration_seconds",
				Help:    "Duration of model calls in seconds",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80, 160},
			},
			[]string{"stage"},
		),
		StageOutputChars: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "screen2html_stage_output_chars",
				Help:    "Length of successful stage outputs in characters",
				Buckets: prometheus.ExponentialBuckets(256, 2, 8),
			},
			[]string{"stage"},
		),
		StageCallsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "screen2html_stage_calls_in_flight",
				Help: "Number of model calls currently waiting on the model",
			},
		),
		SessionsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "screen2html_sessions_active",
				Help: "Number of live sessions",
			},
		),
	}
}

// StageStarted implements pipeline.Observer
func (m *Metrics) StageStarted(pipeline.Stage) {
	m.StageCallsInFlight.Inc()
}

// StageFinished implements pipeline.Observer
func (m *Metrics) StageFinished(stage pipeline.Stage, output string, err error, elapsed time.Duration) {
	m.StageCallsInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}
	m.StageCallsTotal.WithLabelValues(stage.String(), status).Inc()
	m.StageDuration.WithLabelValues(stage.String()).Observe(elapsed.Seconds())
	if err == nil {
		m.StageOutputChars.WithLabelValues(stage.String()).Observe(float64(len(output)))
	}
}
