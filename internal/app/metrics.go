package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the pipeline's Prometheus collectors.
type Metrics struct {
	runs     *prometheus.CounterVec
	duration prometheus.Histogram
	lines    prometheus.Histogram
}

// NewMetrics registers pipeline collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quotecard",
			Name:      "pipeline_runs_total",
			Help:      "Card pipeline runs by outcome and failing stage.",
		}, []string{"outcome", "stage"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quotecard",
			Name:      "pipeline_run_duration_seconds",
			Help:      "Wall time of a full card pipeline run.",
			Buckets:   prometheus.DefBuckets,
		}),
		lines: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quotecard",
			Name:      "card_lines",
			Help:      "Display lines per composed card.",
			Buckets:   prometheus.LinearBuckets(1, 1, 8),
		}),
	}
}

func (m *Metrics) observeSuccess(seconds float64, lines int) {
	if m == nil {
		return
	}

	m.runs.WithLabelValues("success", "").Inc()
	m.duration.Observe(seconds)
	m.lines.Observe(float64(lines))
}

func (m *Metrics) observeFailure(seconds float64, stage Stage) {
	if m == nil {
		return
	}

	m.runs.WithLabelValues("failure", string(stage)).Inc()
	m.duration.Observe(seconds)
}
