package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initDistanceMetrics() {
	r.DistanceTraversalsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "nodeglow_distance_traversals_total",
			Help: "Total number of breadth-first distance traversals",
		},
	)

	r.DistanceTraversalDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nodeglow_distance_traversal_duration_seconds",
			Help:    "Breadth-first traversal duration in seconds",
			Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1.0},
		},
	)

	r.DistanceNodesVisited = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nodeglow_distance_nodes_visited",
			Help:    "Number of nodes visited per traversal",
			Buckets: []float64{10, 50, 100, 500, 1000, 5000},
		},
	)

	r.DistancePairHitsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "nodeglow_distance_pair_hits_total",
			Help: "Total number of distance pairs served from the pair cache",
		},
	)

	r.DistancePairMissesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "nodeglow_distance_pair_misses_total",
			Help: "Total number of distance pairs that required traversal",
		},
	)
}
