package cache

// ScopedKeyer wraps a Keyer with a prefix so callers sharing one backend
// keep separate namespaces. The server uses it to give each viewer session
// its own cache scope.
//
// Example usage:
//
//	// Session-scoped keys
//	sessionKeyer := NewScopedKeyer(NewDefaultKeyer(), "sess:abc123:")
//
//	// Shared keys for anonymous viewers
//	globalKeyer := NewDefaultKeyer()
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// DistanceKey generates a prefixed key for a bulk distance map.
func (k *ScopedKeyer) DistanceKey(graphHash, source string) string {
	return k.prefix + k.inner.DistanceKey(graphHash, source)
}

// LayoutKey generates a prefixed key for a label layout.
func (k *ScopedKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(graphHash, opts)
}

// StateKey generates a prefixed key for an effect state.
func (k *ScopedKeyer) StateKey(graphHash string, opts StateKeyOpts) string {
	return k.prefix + k.inner.StateKey(graphHash, opts)
}

// Ensure ScopedKeyer implements Keyer.
var _ Keyer = (*ScopedKeyer)(nil)
