package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initPlacementMetrics() {
	r.PlacementsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "nodeglow_placements_total",
			Help: "Total number of label placement passes",
		},
	)

	r.PlacementDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nodeglow_placement_duration_seconds",
			Help:    "Label placement pass duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		},
	)

	r.PlacementLabels = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nodeglow_placement_labels",
			Help:    "Number of labels per placement pass",
			Buckets: []float64{10, 50, 100, 500, 1000, 5000},
		},
	)

	r.PlacementMoved = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nodeglow_placement_moved_labels",
			Help:    "Number of labels repositioned away from their default spot per pass",
			Buckets: []float64{0, 5, 10, 50, 100, 500},
		},
	)
}
