package metrics

import (
	"runtime"
	"time"
)

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordCompose records a visual state composition
func (r *Registry) RecordCompose(mode string, nodeCount int, duration time.Duration) {
	r.ComposesTotal.WithLabelValues(mode).Inc()
	r.ComposeDuration.WithLabelValues(mode).Observe(duration.Seconds())
	r.ComposeNodes.Observe(float64(nodeCount))
}

// RecordPlacement records a label placement pass
func (r *Registry) RecordPlacement(labelCount, moved int, duration time.Duration) {
	r.PlacementsTotal.Inc()
	r.PlacementDuration.Observe(duration.Seconds())
	r.PlacementLabels.Observe(float64(labelCount))
	r.PlacementMoved.Observe(float64(moved))
}

// RecordTraversal records a breadth-first distance traversal
func (r *Registry) RecordTraversal(visited int, duration time.Duration) {
	r.DistanceTraversalsTotal.Inc()
	r.DistanceTraversalDuration.Observe(duration.Seconds())
	r.DistanceNodesVisited.Observe(float64(visited))
}

// RecordSessionCreated records a new viewer session
func (r *Registry) RecordSessionCreated() {
	r.SessionsTotal.Inc()
	r.SessionsActive.Inc()
}

// RecordSessionClosed records a deleted or expired viewer session
func (r *Registry) RecordSessionClosed() {
	r.SessionsActive.Dec()
}

// RecordSessionEvent records one interaction event by kind
func (r *Registry) RecordSessionEvent(kind string) {
	r.SessionEventsTotal.WithLabelValues(kind).Inc()
}

// UpdateSystemMetrics refreshes uptime and runtime gauges
func (r *Registry) UpdateSystemMetrics(startedAt time.Time) {
	r.UptimeSeconds.Set(time.Since(startedAt).Seconds())
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	r.MemoryAllocBytes.Set(float64(m.Alloc))
}
