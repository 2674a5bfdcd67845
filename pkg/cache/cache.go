// Package cache provides pluggable byte caching for computed artifacts.
//
// The widget caches three kinds of artifacts: bulk distance maps, resolved
// label layouts, and composed effect states for discrete interaction
// signals. All are stored as serialized bytes under keys built by a
// [Keyer], so every consumer derives identical keys from identical inputs.
//
// # Backends
//
//   - [MemoryCache]: in-process map with TTL, for single-process widgets
//   - [FileCache]: sha256-sharded files, for CLI runs across invocations
//   - [RedisCache]: shared cache for multi-instance server deployments
//   - [NullCache]: disables caching
//
// A miss is (nil, false, nil); errors are reserved for backend failures.
// Transient backend failures come back wrapped with [Retryable] so callers
// can run them through [RetryWithBackoff].
package cache

import (
	"context"
	"time"
)

// Cache stores serialized computation results keyed by strings.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves data for a key. The second return reports whether the
	// key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under a key. A non-positive ttl stores without
	// expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
