package metrics

import (
	"context"
	"time"

	"github.com/nodeglow/nodeglow/pkg/observability"
)

// InstallHooks registers hook implementations that feed the registry, so
// compose, placement, distance, and cache events show up as Prometheus
// metrics. Call once at startup.
func InstallHooks(r *Registry) {
	observability.SetComposeHooks(&composeBridge{r})
	observability.SetPlacementHooks(&placementBridge{r})
	observability.SetDistanceHooks(&distanceBridge{r})
	observability.SetCacheHooks(&cacheBridge{r})
}

type composeBridge struct {
	reg *Registry
}

func (h *composeBridge) OnComposeStart(ctx context.Context, mode string, nodeCount int) {}

func (h *composeBridge) OnComposeComplete(ctx context.Context, mode string, nodeCount, linkCount int, duration time.Duration) {
	h.reg.RecordCompose(mode, nodeCount, duration)
}

type placementBridge struct {
	reg *Registry
}

func (h *placementBridge) OnResolveStart(ctx context.Context, labelCount int) {}

func (h *placementBridge) OnResolveComplete(ctx context.Context, labelCount, moved int, duration time.Duration) {
	h.reg.RecordPlacement(labelCount, moved, duration)
}

type distanceBridge struct {
	reg *Registry
}

func (h *distanceBridge) OnCacheHit(ctx context.Context, a, b string) {
	h.reg.DistancePairHitsTotal.Inc()
}

func (h *distanceBridge) OnCacheMiss(ctx context.Context, a, b string) {
	h.reg.DistancePairMissesTotal.Inc()
}

func (h *distanceBridge) OnTraversal(ctx context.Context, source string, visited int, duration time.Duration) {
	h.reg.RecordTraversal(visited, duration)
}

type cacheBridge struct {
	reg *Registry
}

func (h *cacheBridge) OnCacheHit(ctx context.Context, keyType string) {
	h.reg.CacheHitsTotal.WithLabelValues(keyType).Inc()
}

func (h *cacheBridge) OnCacheMiss(ctx context.Context, keyType string) {
	h.reg.CacheMissesTotal.WithLabelValues(keyType).Inc()
}

func (h *cacheBridge) OnCacheSet(ctx context.Context, keyType string, size int) {
	h.reg.CacheSetsTotal.WithLabelValues(keyType).Inc()
	h.reg.CacheSetBytes.WithLabelValues(keyType).Observe(float64(size))
}

var (
	_ observability.ComposeHooks   = (*composeBridge)(nil)
	_ observability.PlacementHooks = (*placementBridge)(nil)
	_ observability.DistanceHooks  = (*distanceBridge)(nil)
	_ observability.CacheHooks     = (*cacheBridge)(nil)
)
