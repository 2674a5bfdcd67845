package widget

import (
	"io"
	"os"
	"slices"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	json "github.com/goccy/go-json"

	"github.com/nodeglow/nodeglow/pkg/cache"
	"github.com/nodeglow/nodeglow/pkg/effects"
	"github.com/nodeglow/nodeglow/pkg/errors"
	"github.com/nodeglow/nodeglow/pkg/labels"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Server
// =============================================================================

const (
	// DefaultAudience is the audience tag a fresh widget reports to the
	// renderer as its initial filter hint. The composer itself starts in
	// Normal mode; applying the hint is the client's call.
	DefaultAudience = "current_focus"

	// DefaultAudienceBlurAmount is the blur radius hint, in pixels, carried
	// to the renderer for nodes flagged Blurred. The core only emits the
	// flag.
	DefaultAudienceBlurAmount = 2.0

	// DefaultDisplayWidth is the default canvas width in pixels.
	DefaultDisplayWidth = 900

	// DefaultDisplayHeight is the default canvas height in pixels.
	DefaultDisplayHeight = 600

	// DefaultTheme is the default display theme.
	DefaultTheme = "light"

	// DefaultCacheTTL is how long computed artifacts stay cached.
	DefaultCacheTTL = time.Hour
)

// DefaultPreferredPositions is the default label direction preference order.
var DefaultPreferredPositions = []string{"bottom", "right", "top", "left"}

// ValidThemes is the set of supported display themes.
var ValidThemes = map[string]bool{
	"light": true,
	"dark":  true,
}

// =============================================================================
// Options - Widget Configuration
// =============================================================================

// HopScaling is the hover base value per hop from the hovered node.
type HopScaling struct {
	Hop1    float64 `json:"hop1,omitempty" toml:"hop1"`
	Hop2    float64 `json:"hop2,omitempty" toml:"hop2"`
	Hop3    float64 `json:"hop3,omitempty" toml:"hop3"`
	Farther float64 `json:"farther,omitempty" toml:"farther"`
}

// LayerScaling is the scale and opacity table for layer focus.
type LayerScaling struct {
	Active       float64 `json:"active,omitempty" toml:"active"`
	Hop1         float64 `json:"hop1,omitempty" toml:"hop1"`
	Hop2         float64 `json:"hop2,omitempty" toml:"hop2"`
	Farther      float64 `json:"farther,omitempty" toml:"farther"`
	Disconnected float64 `json:"disconnected,omitempty" toml:"disconnected"`
}

// SelectionScaling is the scale multiplier table for selection.
type SelectionScaling struct {
	Unconnected  float64 `json:"unconnected,omitempty" toml:"unconnected"`
	Self         float64 `json:"self,omitempty" toml:"self"`
	Hop1         float64 `json:"hop1,omitempty" toml:"hop1"`
	Hop2         float64 `json:"hop2,omitempty" toml:"hop2"`
	FartherFloor float64 `json:"farther_floor,omitempty" toml:"farther_floor"`
	FartherDecay float64 `json:"farther_decay,omitempty" toml:"farther_decay"`
}

// DisplayOptions are render hints passed through to clients untouched.
type DisplayOptions struct {
	Width  int    `json:"width,omitempty" toml:"width"`
	Height int    `json:"height,omitempty" toml:"height"`
	Theme  string `json:"theme,omitempty" toml:"theme"`
}

// Duration wraps time.Duration so config files can say "90s" or "1h"
// instead of integer nanoseconds, in both TOML and JSON.
type Duration struct {
	time.Duration
}

// UnmarshalText parses "300ms", "1.5h", and friends via time.ParseDuration.
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText renders the duration in time.Duration's string form.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Options contains all configuration for a widget instance.
// This struct supports JSON serialization for API requests and TOML for
// config files. Zero fields take defaults.
type Options struct {
	// Hover options
	HoverRadius     float64    `json:"hover_radius,omitempty" toml:"hover_radius"`
	MaxHoverScale   float64    `json:"max_hover_scale,omitempty" toml:"max_hover_scale"`
	DistanceScaling HopScaling `json:"distance_scaling" toml:"distance_scaling"`

	// Layer focus options
	LayerScaling LayerScaling `json:"layer_scaling" toml:"layer_scaling"`

	// Audience options
	AudienceOpacityReduced float64 `json:"audience_opacity_reduced,omitempty" toml:"audience_opacity_reduced"`
	AudienceBlurAmount     float64 `json:"audience_blur_amount,omitempty" toml:"audience_blur_amount"`
	DefaultAudience        string  `json:"default_audience,omitempty" toml:"default_audience"`

	// Selection options
	SelectionScaling SelectionScaling `json:"selection_scaling" toml:"selection_scaling"`

	// Label options
	PreferredPositions    []string `json:"preferred_positions,omitempty" toml:"preferred_positions"`
	MinDistance           float64  `json:"min_distance,omitempty" toml:"min_distance"`
	MaxDistance           float64  `json:"max_distance,omitempty" toml:"max_distance"`
	Padding               float64  `json:"padding,omitempty" toml:"padding"`
	PositioningIterations int      `json:"positioning_iterations,omitempty" toml:"positioning_iterations"`
	CellSize              float64  `json:"cell_size,omitempty" toml:"cell_size"`
	FontSize              float64  `json:"font_size,omitempty" toml:"font_size"`
	FontWidthRatio        float64  `json:"font_width_ratio,omitempty" toml:"font_width_ratio"`
	FontHeightRatio       float64  `json:"font_height_ratio,omitempty" toml:"font_height_ratio"`
	MetricsCacheSize      int      `json:"metrics_cache_size,omitempty" toml:"metrics_cache_size"`

	// Link options
	LinkBaseWidth        float64 `json:"link_base_width,omitempty" toml:"link_base_width"`
	LinkDimmedMultiplier float64 `json:"link_dimmed_multiplier,omitempty" toml:"link_dimmed_multiplier"`

	// General options
	DefaultOpacity float64        `json:"default_opacity,omitempty" toml:"default_opacity"`
	Display        DisplayOptions `json:"display" toml:"display"`
	CacheTTL       Duration       `json:"cache_ttl" toml:"cache_ttl"`

	// Runtime options (not serialized)
	Logger   *log.Logger     `json:"-" toml:"-"`
	Measurer labels.Measurer `json:"-" toml:"-"`
	Cache    cache.Cache     `json:"-" toml:"-"`
	Keyer    cache.Keyer     `json:"-" toml:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-" toml:"-"`
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateTheme checks that a display theme is valid.
func ValidateTheme(theme string) error {
	if !ValidThemes[theme] {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid theme: %q (must be one of: light, dark)", theme)
	}
	return nil
}

// ValidatePositions checks that all label positions are valid directions.
func ValidatePositions(positions []string) error {
	for _, p := range positions {
		if !labels.ValidDirections[labels.Direction(p)] {
			return errors.New(errors.ErrCodeInvalidConfig, "invalid label position: %q (must be one of: bottom, right, top, left)", p)
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks enum fields and fills every zero field, so a
// serialized Options shows the effective configuration.
// This method is idempotent - calling it multiple times has the same effect
// as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if len(o.PreferredPositions) == 0 {
		o.PreferredPositions = DefaultPreferredPositions
	}
	if err := ValidatePositions(o.PreferredPositions); err != nil {
		return err
	}

	if o.Display.Theme == "" {
		o.Display.Theme = DefaultTheme
	}
	if err := ValidateTheme(o.Display.Theme); err != nil {
		return err
	}

	o.setHoverDefaults()
	o.setLayerDefaults()
	o.setAudienceDefaults()
	o.setSelectionDefaults()
	o.setLabelDefaults()
	o.setGeneralDefaults()

	// Logger default
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

func (o *Options) setHoverDefaults() {
	if o.HoverRadius == 0 {
		o.HoverRadius = effects.DefaultHoverRadius
	}
	if o.MaxHoverScale == 0 {
		o.MaxHoverScale = effects.DefaultMaxHoverScale
	}
	if o.DistanceScaling.Hop1 == 0 {
		o.DistanceScaling.Hop1 = effects.DefaultDistanceScaling.Hop1
	}
	if o.DistanceScaling.Hop2 == 0 {
		o.DistanceScaling.Hop2 = effects.DefaultDistanceScaling.Hop2
	}
	if o.DistanceScaling.Hop3 == 0 {
		o.DistanceScaling.Hop3 = effects.DefaultDistanceScaling.Hop3
	}
	if o.DistanceScaling.Farther == 0 {
		o.DistanceScaling.Farther = effects.DefaultDistanceScaling.Farther
	}
}

func (o *Options) setLayerDefaults() {
	if o.LayerScaling.Active == 0 {
		o.LayerScaling.Active = effects.DefaultLayerScaling.Active
	}
	if o.LayerScaling.Hop1 == 0 {
		o.LayerScaling.Hop1 = effects.DefaultLayerScaling.Hop1
	}
	if o.LayerScaling.Hop2 == 0 {
		o.LayerScaling.Hop2 = effects.DefaultLayerScaling.Hop2
	}
	if o.LayerScaling.Farther == 0 {
		o.LayerScaling.Farther = effects.DefaultLayerScaling.Farther
	}
	if o.LayerScaling.Disconnected == 0 {
		o.LayerScaling.Disconnected = effects.DefaultLayerScaling.Disconnected
	}
}

func (o *Options) setAudienceDefaults() {
	if o.AudienceOpacityReduced == 0 {
		o.AudienceOpacityReduced = effects.DefaultAudienceOpacity
	}
	if o.AudienceBlurAmount == 0 {
		o.AudienceBlurAmount = DefaultAudienceBlurAmount
	}
	if o.DefaultAudience == "" {
		o.DefaultAudience = DefaultAudience
	}
}

func (o *Options) setSelectionDefaults() {
	if o.SelectionScaling.Unconnected == 0 {
		o.SelectionScaling.Unconnected = effects.DefaultSelectionScaling.Unconnected
	}
	if o.SelectionScaling.Self == 0 {
		o.SelectionScaling.Self = effects.DefaultSelectionScaling.Self
	}
	if o.SelectionScaling.Hop1 == 0 {
		o.SelectionScaling.Hop1 = effects.DefaultSelectionScaling.Hop1
	}
	if o.SelectionScaling.Hop2 == 0 {
		o.SelectionScaling.Hop2 = effects.DefaultSelectionScaling.Hop2
	}
	if o.SelectionScaling.FartherFloor == 0 {
		o.SelectionScaling.FartherFloor = effects.DefaultSelectionScaling.FartherFloor
	}
	if o.SelectionScaling.FartherDecay == 0 {
		o.SelectionScaling.FartherDecay = effects.DefaultSelectionScaling.FartherDecay
	}
}

func (o *Options) setLabelDefaults() {
	if o.MinDistance == 0 {
		o.MinDistance = labels.DefaultMinDistance
	}
	if o.MaxDistance == 0 {
		o.MaxDistance = labels.DefaultMaxDistance
	}
	if o.Padding == 0 {
		o.Padding = labels.DefaultPadding
	}
	if o.PositioningIterations == 0 {
		o.PositioningIterations = labels.DefaultIterations
	}
	if o.CellSize == 0 {
		o.CellSize = labels.DefaultCellSize
	}
	if o.FontSize == 0 {
		o.FontSize = labels.DefaultFontSize
	}
	if o.FontWidthRatio == 0 {
		o.FontWidthRatio = labels.DefaultWidthRatio
	}
	if o.FontHeightRatio == 0 {
		o.FontHeightRatio = labels.DefaultHeightRatio
	}
	if o.MetricsCacheSize == 0 {
		o.MetricsCacheSize = labels.DefaultCacheSize
	}
}

func (o *Options) setGeneralDefaults() {
	if o.LinkBaseWidth == 0 {
		o.LinkBaseWidth = effects.DefaultLinkBaseWidth
	}
	if o.LinkDimmedMultiplier == 0 {
		o.LinkDimmedMultiplier = effects.DefaultLinkDimmedMultiplier
	}
	if o.DefaultOpacity == 0 {
		o.DefaultOpacity = effects.DefaultOpacity
	}
	if o.Display.Width == 0 {
		o.Display.Width = DefaultDisplayWidth
	}
	if o.Display.Height == 0 {
		o.Display.Height = DefaultDisplayHeight
	}
	if o.CacheTTL.Duration == 0 {
		o.CacheTTL.Duration = DefaultCacheTTL
	}
}

// Merged returns a copy of o with the JSON overlay applied on top. Fields
// absent from the overlay keep o's values. The copy is unvalidated so the
// next ValidateAndSetDefaults re-checks overlaid enum fields.
func (o Options) Merged(overlay []byte) (Options, error) {
	merged := o
	merged.validated = false
	// Detach the slice so a shorter overlay list cannot write through to
	// o's backing array.
	merged.PreferredPositions = slices.Clone(o.PreferredPositions)
	if len(overlay) > 0 {
		if err := json.Unmarshal(overlay, &merged); err != nil {
			return Options{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode options")
		}
	}
	return merged, nil
}

// effectsConfig maps the options onto the composer configuration.
func (o *Options) effectsConfig() effects.Config {
	return effects.Config{
		HoverRadius:   o.HoverRadius,
		MaxHoverScale: o.MaxHoverScale,
		Distance: effects.DistanceScaling{
			Hop1:    o.DistanceScaling.Hop1,
			Hop2:    o.DistanceScaling.Hop2,
			Hop3:    o.DistanceScaling.Hop3,
			Farther: o.DistanceScaling.Farther,
		},
		Layer: effects.LayerScaling{
			Active:       o.LayerScaling.Active,
			Hop1:         o.LayerScaling.Hop1,
			Hop2:         o.LayerScaling.Hop2,
			Farther:      o.LayerScaling.Farther,
			Disconnected: o.LayerScaling.Disconnected,
		},
		Selection: effects.SelectionScaling{
			Unconnected:  o.SelectionScaling.Unconnected,
			Self:         o.SelectionScaling.Self,
			Hop1:         o.SelectionScaling.Hop1,
			Hop2:         o.SelectionScaling.Hop2,
			FartherFloor: o.SelectionScaling.FartherFloor,
			FartherDecay: o.SelectionScaling.FartherDecay,
		},
		DefaultOpacity:       o.DefaultOpacity,
		AudienceOpacity:      o.AudienceOpacityReduced,
		LinkBaseWidth:        o.LinkBaseWidth,
		LinkDimmedMultiplier: o.LinkDimmedMultiplier,
	}
}

// labelsConfig maps the options onto the placement engine configuration.
func (o *Options) labelsConfig() labels.Config {
	preferred := make([]labels.Direction, 0, len(o.PreferredPositions))
	for _, p := range o.PreferredPositions {
		preferred = append(preferred, labels.Direction(p))
	}
	return labels.Config{
		FontSize:    o.FontSize,
		WidthRatio:  o.FontWidthRatio,
		HeightRatio: o.FontHeightRatio,
		Padding:     o.Padding,
		MinDistance: o.MinDistance,
		MaxDistance: o.MaxDistance,
		CellSize:    o.CellSize,
		Iterations:  o.PositioningIterations,
		Preferred:   preferred,
		CacheSize:   o.MetricsCacheSize,
	}
}

// LayoutKeyOpts returns cache key options for label layout computation.
func (o *Options) LayoutKeyOpts(zoom float64, positionsHash string) cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Zoom:          zoom,
		OptionsHash:   o.labelOptionsHash(),
		PositionsHash: positionsHash,
	}
}

// StateKeyOpts returns cache key options for effect state composition.
func (o *Options) StateKeyOpts(layer, audience, selected string) cache.StateKeyOpts {
	return cache.StateKeyOpts{
		Layer:       layer,
		Audience:    audience,
		Selected:    selected,
		OptionsHash: o.effectsOptionsHash(),
	}
}

func (o *Options) labelOptionsHash() string {
	data, _ := json.Marshal(o.labelsConfig())
	return cache.Hash(data)
}

func (o *Options) effectsOptionsHash() string {
	data, _ := json.Marshal(o.effectsConfig())
	return cache.Hash(data)
}

// =============================================================================
// TOML Loading
// =============================================================================

// LoadOptions reads a TOML config file. Values present in the file override
// defaults; everything else falls back when ValidateAndSetDefaults runs.
func LoadOptions(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	var opts Options
	if err := toml.Unmarshal(data, &opts); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return &opts, nil
}
