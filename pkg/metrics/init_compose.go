package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initComposeMetrics() {
	r.ComposesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "nodeglow_composes_total",
			Help: "Total number of visual state compositions",
		},
		[]string{"mode"},
	)

	r.ComposeDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nodeglow_compose_duration_seconds",
			Help:    "Visual state composition duration in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
		[]string{"mode"},
	)

	r.ComposeNodes = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nodeglow_compose_nodes",
			Help:    "Number of nodes per composition",
			Buckets: []float64{10, 50, 100, 500, 1000, 5000},
		},
	)
}
