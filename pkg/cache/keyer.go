package cache

// Keyer builds cache keys for the widget's computed artifacts. Keys embed a
// graph content hash, so replacing the graph naturally orphans stale
// entries instead of serving them.
type Keyer interface {
	// DistanceKey keys a bulk distance map by graph content and source
	// node.
	DistanceKey(graphHash, source string) string

	// LayoutKey keys a resolved label layout.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string

	// StateKey keys a composed effect state. Only discrete signals are
	// part of the key; hover depends on a continuous pointer position and
	// is never cached.
	StateKey(graphHash string, opts StateKeyOpts) string
}

// LayoutKeyOpts are the inputs that change a label layout for the same
// graph. PositionsHash covers node coordinates, which live outside the
// graph content hash because the physics engine rewrites them freely.
type LayoutKeyOpts struct {
	Zoom          float64 `json:"zoom"`
	OptionsHash   string  `json:"options_hash,omitempty"`
	PositionsHash string  `json:"positions_hash,omitempty"`
}

// StateKeyOpts are the discrete interaction signals that shape an effect
// state.
type StateKeyOpts struct {
	Layer       string `json:"layer,omitempty"`
	Audience    string `json:"audience,omitempty"`
	Selected    string `json:"selected,omitempty"`
	OptionsHash string `json:"options_hash,omitempty"`
}

// DefaultKeyer is the standard key scheme. Distance keys are plain
// concatenation for log readability; layout and state keys hash their
// option sets.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// DistanceKey generates a key for a bulk distance map.
func (k *DefaultKeyer) DistanceKey(graphHash, source string) string {
	return "dist:" + graphHash + ":" + source
}

// LayoutKey generates a key for a resolved label layout.
func (k *DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// StateKey generates a key for a composed effect state.
func (k *DefaultKeyer) StateKey(graphHash string, opts StateKeyOpts) string {
	return hashKey("state", graphHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
