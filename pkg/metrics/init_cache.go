package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initCacheMetrics() {
	r.CacheHitsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "nodeglow_cache_hits_total",
			Help: "Total number of artifact cache hits",
		},
		[]string{"key_type"},
	)

	r.CacheMissesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "nodeglow_cache_misses_total",
			Help: "Total number of artifact cache misses",
		},
		[]string{"key_type"},
	)

	r.CacheSetsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "nodeglow_cache_sets_total",
			Help: "Total number of artifact cache writes",
		},
		[]string{"key_type"},
	)

	r.CacheSetBytes = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nodeglow_cache_set_bytes",
			Help:    "Size of cached artifacts in bytes",
			Buckets: []float64{100, 1000, 10000, 100000, 1000000},
		},
		[]string{"key_type"},
	)
}
