package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// TransitionMetrics records engine activity segmented by transition name and
// outcome ("ok", "rejected", "unauthorized", "error").
type TransitionMetrics struct {
	total   *prometheus.CounterVec
	latency *prometheus.HistogramVec
}

var (
	transitionsOnce sync.Once
	transitionsReg  *TransitionMetrics
)

// Transitions returns the lazily-initialised transition metrics registry.
func Transitions() *TransitionMetrics {
	transitionsOnce.Do(func() {
		transitionsReg = &TransitionMetrics{
			total: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "dealchain",
				Subsystem: "engine",
				Name:      "transitions_total",
				Help:      "Total transitions processed segmented by name and outcome.",
			}, []string{"transition", "outcome"}),
			latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "dealchain",
				Subsystem: "engine",
				Name:      "transition_duration_seconds",
				Help:      "Wall-clock duration of transition processing.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"transition"}),
		}
		prometheus.MustRegister(transitionsReg.total, transitionsReg.latency)
	})
	return transitionsReg
}

// Observe records one processed transition.
func (m *TransitionMetrics) Observe(transition, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.total.WithLabelValues(transition, outcome).Inc()
	m.latency.WithLabelValues(transition).Observe(elapsed.Seconds())
}
