// Package metrics exposes Prometheus metrics for the widget runtime and
// the HTTP server, and bridges the observability hooks onto them.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// Compose Metrics
	ComposesTotal   *prometheus.CounterVec
	ComposeDuration *prometheus.HistogramVec
	ComposeNodes    prometheus.Histogram

	// Placement Metrics
	PlacementsTotal   prometheus.Counter
	PlacementDuration prometheus.Histogram
	PlacementLabels   prometheus.Histogram
	PlacementMoved    prometheus.Histogram

	// Distance Metrics
	DistanceTraversalsTotal   prometheus.Counter
	DistanceTraversalDuration prometheus.Histogram
	DistanceNodesVisited      prometheus.Histogram
	DistancePairHitsTotal     prometheus.Counter
	DistancePairMissesTotal   prometheus.Counter

	// Cache Metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec
	CacheSetsTotal   *prometheus.CounterVec
	CacheSetBytes    *prometheus.HistogramVec

	// Session Metrics
	SessionsActive     prometheus.Gauge
	SessionsTotal      prometheus.Counter
	SessionEventsTotal *prometheus.CounterVec

	// HTTP Metrics
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	HTTPRequestsInFlight  prometheus.Gauge
	HTTPResponseSizeBytes *prometheus.HistogramVec

	// System Metrics
	UptimeSeconds    prometheus.Gauge
	GoRoutines       prometheus.Gauge
	MemoryAllocBytes prometheus.Gauge

	registry *prometheus.Registry
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	// Initialize all metrics
	r.initComposeMetrics()
	r.initPlacementMetrics()
	r.initDistanceMetrics()
	r.initCacheMetrics()
	r.initSessionMetrics()
	r.initHTTPMetrics()
	r.initSystemMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
