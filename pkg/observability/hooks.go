// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks
// at startup to receive events about effect composition, label placement,
// distance traversal, and cache operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetComposeHooks(&myComposeHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Distance().OnTraversal(ctx, source, visited, duration)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Compose Hooks
// =============================================================================

// ComposeHooks receives events from visual state composition.
type ComposeHooks interface {
	// OnComposeStart records the beginning of a full state recomputation.
	OnComposeStart(ctx context.Context, mode string, nodeCount int)

	// OnComposeComplete records a finished recomputation.
	OnComposeComplete(ctx context.Context, mode string, nodeCount, linkCount int, duration time.Duration)
}

// =============================================================================
// Placement Hooks
// =============================================================================

// PlacementHooks receives events from label placement resolution.
type PlacementHooks interface {
	// OnResolveStart records the beginning of a placement pass.
	OnResolveStart(ctx context.Context, labelCount int)

	// OnResolveComplete records a finished placement pass. moved counts
	// labels repositioned away from their default spot.
	OnResolveComplete(ctx context.Context, labelCount, moved int, duration time.Duration)
}

// =============================================================================
// Distance Hooks
// =============================================================================

// DistanceHooks receives events from hop-distance queries.
type DistanceHooks interface {
	// OnCacheHit records a distance pair served from cache.
	OnCacheHit(ctx context.Context, a, b string)

	// OnCacheMiss records a distance pair that required traversal.
	OnCacheMiss(ctx context.Context, a, b string)

	// OnTraversal records a breadth-first pass. visited counts nodes
	// reached, including the source.
	OnTraversal(ctx context.Context, source string, visited int, duration time.Duration)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopComposeHooks is a no-op implementation of ComposeHooks.
type NoopComposeHooks struct{}

func (NoopComposeHooks) OnComposeStart(context.Context, string, int)                        {}
func (NoopComposeHooks) OnComposeComplete(context.Context, string, int, int, time.Duration) {}

// NoopPlacementHooks is a no-op implementation of PlacementHooks.
type NoopPlacementHooks struct{}

func (NoopPlacementHooks) OnResolveStart(context.Context, int)                        {}
func (NoopPlacementHooks) OnResolveComplete(context.Context, int, int, time.Duration) {}

// NoopDistanceHooks is a no-op implementation of DistanceHooks.
type NoopDistanceHooks struct{}

func (NoopDistanceHooks) OnCacheHit(context.Context, string, string)              {}
func (NoopDistanceHooks) OnCacheMiss(context.Context, string, string)             {}
func (NoopDistanceHooks) OnTraversal(context.Context, string, int, time.Duration) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	composeHooks   ComposeHooks   = NoopComposeHooks{}
	placementHooks PlacementHooks = NoopPlacementHooks{}
	distanceHooks  DistanceHooks  = NoopDistanceHooks{}
	cacheHooks     CacheHooks     = NoopCacheHooks{}
	hooksMu        sync.RWMutex
)

// SetComposeHooks registers custom composition hooks.
// This should be called once at application startup before any composition.
func SetComposeHooks(h ComposeHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		composeHooks = h
	}
}

// SetPlacementHooks registers custom placement hooks.
// This should be called once at application startup before any placement.
func SetPlacementHooks(h PlacementHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		placementHooks = h
	}
}

// SetDistanceHooks registers custom distance hooks.
// This should be called once at application startup before any queries.
func SetDistanceHooks(h DistanceHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		distanceHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Compose returns the registered composition hooks.
func Compose() ComposeHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return composeHooks
}

// Placement returns the registered placement hooks.
func Placement() PlacementHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return placementHooks
}

// Distance returns the registered distance hooks.
func Distance() DistanceHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return distanceHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	composeHooks = NoopComposeHooks{}
	placementHooks = NoopPlacementHooks{}
	distanceHooks = NoopDistanceHooks{}
	cacheHooks = NoopCacheHooks{}
}
