package graphviscosity

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	edges      *prometheus.CounterVec
	iterations *prometheus.HistogramVec
	duration   prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)
	return &metrics{
		edges: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wavespeed_edges_evaluated_total",
			Help: "Edges evaluated by kernel width",
		}, []string{"kernel"}),
		iterations: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wavespeed_newton_iterations",
			Help:    "Quadratic Newton steps per edge, -1 when the iteration is disabled",
			Buckets: []float64{-1, 0, 1, 2, 3, 4, 6, 8},
		}, []string{"kernel"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "wavespeed_evaluate_duration_seconds",
			Help:    "Wall time of one Evaluate call",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10), // 0.1ms to ~26s
		}),
	}
}

// WithMetrics registers the evaluator's collectors with reg
func WithMetrics(reg prometheus.Registerer) Option {
	return func(ev *Evaluator) { ev.metrics = newMetrics(reg) }
}

// observe records a bucket's histogram of Newton steps
func (m *metrics) observe(kernel string, histogram map[int]int) {
	if m == nil {
		return
	}
	for it, count := range histogram {
		m.edges.WithLabelValues(kernel).Add(float64(count))
		obs := m.iterations.WithLabelValues(kernel)
		for n := 0; n < count; n++ {
			obs.Observe(float64(it))
		}
	}
}

func (m *metrics) observeDuration(seconds float64) {
	if m == nil {
		return
	}
	m.duration.Observe(seconds)
}

func kernelName(width int) string {
	if width == 1 {
		return "scalar"
	}
	return "lanes" + strconv.Itoa(width)
}
