package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/operator-framework/subsetsum/pkg/subsetsum"
)

// metrics is a Tracer recording every solve in Prometheus.
type metrics struct {
	solves    *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	solutions *prometheus.HistogramVec
	truncated *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)
	return &metrics{
		solves: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "subsetsum_solve_total",
			Help: "Number of completed solves by strategy",
		}, []string{"algorithm"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "subsetsum_solve_duration_seconds",
			Help:    "Solve duration by strategy",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"algorithm"}),
		solutions: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "subsetsum_solutions",
			Help:    "Number of solutions returned per solve",
			Buckets: []float64{0, 1, 10, 100, 1000, 10000},
		}, []string{"algorithm"}),
		truncated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "subsetsum_solve_truncated_total",
			Help: "Solves whose surplus solutions were dropped",
		}, []string{"algorithm"}),
	}
}

func (m *metrics) Trace(r subsetsum.Report) {
	alg := r.Selected.String()
	m.solves.WithLabelValues(alg).Inc()
	m.duration.WithLabelValues(alg).Observe(r.Duration.Seconds())
	m.solutions.WithLabelValues(alg).Observe(float64(r.Solutions))
	if r.Truncated {
		m.truncated.WithLabelValues(alg).Inc()
	}
}
