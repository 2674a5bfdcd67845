package effects

// =============================================================================
// Effect State - Render Targets
// =============================================================================

// NodeEffect is the render target for one node. The renderer applies it
// however it likes, typically through an animated transition.
type NodeEffect struct {
	Scale   float64 `json:"scale"`
	Opacity float64 `json:"opacity"`

	// Blurred asks the renderer to blur the node. The blur amount is a
	// renderer concern; the composer only decides yes or no.
	Blurred bool `json:"blurred,omitempty"`

	// Hidden marks subnodes whose layer is not focused. Scale and opacity
	// are still populated so unhiding needs no recompute.
	Hidden bool `json:"hidden,omitempty"`
}

// LinkEffect is the render target for one link. Source and Target repeat the
// link's endpoints so a state consumer needs no side channel to the graph.
type LinkEffect struct {
	Source      string  `json:"source"`
	Target      string  `json:"target"`
	Opacity     float64 `json:"opacity"`
	StrokeWidth float64 `json:"stroke_width"`
	Hidden      bool    `json:"hidden,omitempty"`
}

// EffectState is one complete render-attribute snapshot. Links parallels
// Graph.Links order.
type EffectState struct {
	Mode  Mode                  `json:"mode"`
	Nodes map[string]NodeEffect `json:"nodes"`
	Links []LinkEffect          `json:"links"`
}
