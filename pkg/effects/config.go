package effects

// =============================================================================
// Default Values - Single Source of Truth
// =============================================================================

const (
	// DefaultHoverRadius is the pointer distance, in canvas units, at which
	// hover influence fades out completely.
	DefaultHoverRadius = 100.0

	// DefaultMaxHoverScale is the hovered node's scale with the pointer
	// dead on it.
	DefaultMaxHoverScale = 1.3

	// DefaultOpacity is the resting opacity of every node.
	DefaultOpacity = 1.0

	// DefaultAudienceOpacity is the opacity of nodes dimmed by the
	// audience filter.
	DefaultAudienceOpacity = 0.3

	// DefaultLinkBaseWidth is the stroke width of a full-strength link
	// before endpoint scaling.
	DefaultLinkBaseWidth = 2.0

	// DefaultLinkDimmedMultiplier dims every link relative to its fainter
	// endpoint.
	DefaultLinkDimmedMultiplier = 0.6
)

// DefaultDistanceScaling is the base scale per hop from the hovered node.
var DefaultDistanceScaling = DistanceScaling{
	Hop1:    0.9,
	Hop2:    0.7,
	Hop3:    0.5,
	Farther: 0.3,
}

// DefaultLayerScaling is the scale table for layer focus.
var DefaultLayerScaling = LayerScaling{
	Active:       1.0,
	Hop1:         0.7,
	Hop2:         0.5,
	Farther:      0.3,
	Disconnected: 0.5,
}

// DefaultSelectionScaling is the multiplier table for selection.
var DefaultSelectionScaling = SelectionScaling{
	Unconnected:  0.6,
	Self:         1.5,
	Hop1:         1.2,
	Hop2:         0.8,
	FartherFloor: 0.5,
	FartherDecay: 0.15,
}

// =============================================================================
// Scaling Tables
// =============================================================================

// DistanceScaling maps hop distance from the hovered node to the base value
// blended toward 1 by pointer proximity. Scale and opacity share the table.
type DistanceScaling struct {
	Hop1    float64
	Hop2    float64
	Hop3    float64
	Farther float64 // Hop 4 and beyond, including unreachable
}

// LayerScaling maps a node's relation to the focused layer to its scale and
// opacity. Hop tiers apply to nodes connected to at least one in-layer node;
// Disconnected applies to nodes that cannot reach the layer at all.
type LayerScaling struct {
	Active       float64
	Hop1         float64
	Hop2         float64
	Farther      float64 // Connected but three or more hops out
	Disconnected float64
}

// SelectionScaling maps hop distance from the selected node to a scale
// multiplier applied on top of whatever the other signals produced. Beyond
// Hop2 the multiplier decays by FartherDecay per hop down to FartherFloor.
type SelectionScaling struct {
	Unconnected  float64
	Self         float64
	Hop1         float64
	Hop2         float64
	FartherFloor float64
	FartherDecay float64
}

// =============================================================================
// Config
// =============================================================================

// Config tunes the composer. The zero value of any field means "use the
// default", so Config{} is a fully working configuration.
type Config struct {
	HoverRadius   float64
	MaxHoverScale float64

	Distance  DistanceScaling
	Layer     LayerScaling
	Selection SelectionScaling

	// DefaultOpacity is the resting opacity restored when no mode dims a
	// node.
	DefaultOpacity float64

	// AudienceOpacity is applied to nodes outside the active audience.
	AudienceOpacity float64

	LinkBaseWidth        float64
	LinkDimmedMultiplier float64
}

func (c Config) withDefaults() Config {
	if c.HoverRadius == 0 {
		c.HoverRadius = DefaultHoverRadius
	}
	if c.MaxHoverScale == 0 {
		c.MaxHoverScale = DefaultMaxHoverScale
	}
	if c.DefaultOpacity == 0 {
		c.DefaultOpacity = DefaultOpacity
	}
	if c.AudienceOpacity == 0 {
		c.AudienceOpacity = DefaultAudienceOpacity
	}
	if c.LinkBaseWidth == 0 {
		c.LinkBaseWidth = DefaultLinkBaseWidth
	}
	if c.LinkDimmedMultiplier == 0 {
		c.LinkDimmedMultiplier = DefaultLinkDimmedMultiplier
	}
	c.Distance = c.Distance.withDefaults()
	c.Layer = c.Layer.withDefaults()
	c.Selection = c.Selection.withDefaults()
	return c
}

func (t DistanceScaling) withDefaults() DistanceScaling {
	if t.Hop1 == 0 {
		t.Hop1 = DefaultDistanceScaling.Hop1
	}
	if t.Hop2 == 0 {
		t.Hop2 = DefaultDistanceScaling.Hop2
	}
	if t.Hop3 == 0 {
		t.Hop3 = DefaultDistanceScaling.Hop3
	}
	if t.Farther == 0 {
		t.Farther = DefaultDistanceScaling.Farther
	}
	return t
}

func (t LayerScaling) withDefaults() LayerScaling {
	if t.Active == 0 {
		t.Active = DefaultLayerScaling.Active
	}
	if t.Hop1 == 0 {
		t.Hop1 = DefaultLayerScaling.Hop1
	}
	if t.Hop2 == 0 {
		t.Hop2 = DefaultLayerScaling.Hop2
	}
	if t.Farther == 0 {
		t.Farther = DefaultLayerScaling.Farther
	}
	if t.Disconnected == 0 {
		t.Disconnected = DefaultLayerScaling.Disconnected
	}
	return t
}

func (t SelectionScaling) withDefaults() SelectionScaling {
	if t.Unconnected == 0 {
		t.Unconnected = DefaultSelectionScaling.Unconnected
	}
	if t.Self == 0 {
		t.Self = DefaultSelectionScaling.Self
	}
	if t.Hop1 == 0 {
		t.Hop1 = DefaultSelectionScaling.Hop1
	}
	if t.Hop2 == 0 {
		t.Hop2 = DefaultSelectionScaling.Hop2
	}
	if t.FartherFloor == 0 {
		t.FartherFloor = DefaultSelectionScaling.FartherFloor
	}
	if t.FartherDecay == 0 {
		t.FartherDecay = DefaultSelectionScaling.FartherDecay
	}
	return t
}
