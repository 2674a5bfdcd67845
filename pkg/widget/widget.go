// Package widget ties one knowledge graph to its interaction core: the
// distance index, the visual state composer, and the label placement engine.
//
// Architecture:
//
//	RawGraph ──▶ graph.FromRaw ──▶ Widget
//	                                 ├── distance.Index   (hop counts)
//	                                 ├── effects.Composer (scale/opacity state)
//	                                 └── labels.Engine    (label layout)
//
// A Widget is the unit the server and CLI hand out: events flow in through
// the pass-through methods (Hover, FocusLayer, Select, ...), artifacts flow
// out through State, PlaceLabels, Distances, and Snapshot. Computed
// artifacts are cached under content-addressed keys so identical graphs in
// identical interaction states share work across sessions.
//
// Usage:
//
//	w, err := widget.New(g, widget.Options{Cache: fileCache})
//	if err != nil {
//		return err
//	}
//	w.Select("node_a")
//	state := w.State(ctx)       // scales and opacities per node
//	labels := w.PlaceLabels(ctx) // resolved label positions
package widget

import (
	"context"
	"sync"

	json "github.com/goccy/go-json"

	"github.com/nodeglow/nodeglow/pkg/cache"
	"github.com/nodeglow/nodeglow/pkg/effects"
	"github.com/nodeglow/nodeglow/pkg/graph"
	"github.com/nodeglow/nodeglow/pkg/graph/distance"
	"github.com/nodeglow/nodeglow/pkg/labels"
	"github.com/nodeglow/nodeglow/pkg/observability"
)

// =============================================================================
// Wire Types
// =============================================================================

// Position is a node coordinate pushed in from the physics simulation.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Placement is one resolved label: final coordinates plus the box metrics
// the renderer needs to draw it.
type Placement struct {
	NodeID    string           `json:"node_id"`
	Text      string           `json:"text"`
	X         float64          `json:"x"`
	Y         float64          `json:"y"`
	Direction labels.Direction `json:"direction"`
	Width     float64          `json:"width"`
	Height    float64          `json:"height"`
}

// CacheInfo reports which artifacts of a snapshot came from cache.
type CacheInfo struct {
	StateHit  bool `json:"state_hit"`
	LayoutHit bool `json:"layout_hit"`
}

// Result is a complete widget snapshot: the visual state, the resolved
// labels, and graph statistics, ready to serialize to a client.
type Result struct {
	GraphID   string               `json:"graph_id"`
	GraphHash string               `json:"graph_hash"`
	Mode      string               `json:"mode"`
	Effects   *effects.EffectState `json:"effects"`
	Labels    []Placement          `json:"labels"`
	Stats     graph.Stats          `json:"stats"`
	CacheInfo CacheInfo            `json:"cache_info"`
}

// =============================================================================
// Widget
// =============================================================================

// Widget owns the interaction state for one graph and serves its computed
// artifacts. All methods are safe for concurrent use.
type Widget struct {
	mu sync.Mutex

	id   string
	opts Options

	graph    *graph.Graph
	index    *distance.Index
	composer *effects.Composer
	engine   *labels.Engine

	zoom        float64
	contentHash string

	cache cache.Cache
	keyer cache.Keyer
}

// New builds a Widget around a loaded graph. A nil graph yields an empty
// widget that composes empty artifacts until ReplaceData loads one. Options
// are validated and defaulted; a nil Options.Cache disables artifact
// caching rather than failing.
func New(g *graph.Graph, opts Options) (*Widget, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if g == nil {
		g = graph.New()
	}

	c := opts.Cache
	if c == nil {
		c = cache.NewNullCache()
	}
	k := opts.Keyer
	if k == nil {
		k = cache.NewDefaultKeyer()
	}

	idx := distance.New(g)
	w := &Widget{
		id:          g.ID(),
		opts:        opts,
		graph:       g,
		index:       idx,
		composer:    effects.New(g, idx, opts.effectsConfig()),
		engine:      labels.New(opts.labelsConfig(), opts.Measurer),
		zoom:        1,
		contentHash: contentHash(g),
		cache:       c,
		keyer:       k,
	}

	w.opts.Logger.Debug("widget created",
		"graph", w.id,
		"nodes", g.NodeCount(),
		"links", g.LinkCount(),
		"hash", w.contentHash[:12])
	return w, nil
}

// =============================================================================
// Accessors
// =============================================================================

// ID returns the widget's graph id. It is assigned at creation and stays
// stable across ReplaceData, so server registrations survive data reloads.
func (w *Widget) ID() string { return w.id }

// Graph returns the currently bound graph.
func (w *Widget) Graph() *graph.Graph {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.graph
}

// Options returns a copy of the effective (validated, defaulted) options.
func (w *Widget) Options() Options {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.opts
}

// GraphHash returns the content hash of the bound graph's topology. Node
// positions are excluded; they are covered separately by layout cache keys.
func (w *Widget) GraphHash() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.contentHash
}

// Zoom returns the current zoom scale.
func (w *Widget) Zoom() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.zoom
}

// Mode returns the composer's active interaction mode set.
func (w *Widget) Mode() effects.Mode {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.composer.Mode()
}

// Stats returns summary statistics for the bound graph.
func (w *Widget) Stats() graph.Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.graph.Stats()
}

// =============================================================================
// Data Updates
// =============================================================================

// ReplaceData swaps the widget's graph for a freshly ingested one. The
// distance index is rebuilt, the composer rebinds (interaction state
// referring to vanished nodes degrades per composer rules), and the label
// engine restarts with empty text metrics at the current zoom.
func (w *Widget) ReplaceData(raw graph.RawGraph) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	g, err := graph.FromRaw(raw)
	if err != nil {
		return err
	}

	w.graph = g
	w.index = distance.New(g)
	w.composer.Rebind(g, w.index)
	w.engine = labels.New(w.opts.labelsConfig(), w.opts.Measurer)
	w.engine.SetZoom(w.zoom)
	w.contentHash = contentHash(g)

	w.opts.Logger.Debug("graph data replaced",
		"graph", w.id,
		"nodes", g.NodeCount(),
		"links", g.LinkCount(),
		"hash", w.contentHash[:12])
	return nil
}

// ApplyPositions writes physics-simulation coordinates onto the bound
// graph's nodes. Unknown node ids are ignored. Returns the number of nodes
// updated.
func (w *Widget) ApplyPositions(positions map[string]Position) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	applied := 0
	for id, p := range positions {
		if n, ok := w.graph.Node(id); ok {
			n.X = p.X
			n.Y = p.Y
			applied++
		}
	}

	w.opts.Logger.Debug("positions applied",
		"graph", w.id,
		"updated", applied,
		"ignored", len(positions)-applied)
	return applied
}

// SetZoom updates the zoom scale for label sizing. Non-positive scales are
// ignored. Changing the scale invalidates the label engine's text metrics.
func (w *Widget) SetZoom(scale float64) {
	if scale <= 0 {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.zoom = scale
	w.engine.SetZoom(scale)
}

// =============================================================================
// Interaction Events
// =============================================================================

// Hover marks a node as hovered at the given pointer distance. Distances
// beyond the configured hover radius still register the hover but scale the
// node less.
func (w *Widget) Hover(nodeID string, pointerDistance float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.composer.SetHover(nodeID, pointerDistance)
}

// HoverEnd clears the hover target.
func (w *Widget) HoverEnd() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.composer.ClearHover()
}

// FocusLayer focuses a layer, or clears layer focus when id is empty or
// matches the already focused layer.
func (w *Widget) FocusLayer(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.composer.FocusLayer(id)
}

// SetAudience filters the graph by audience tag, or clears the filter when
// id is empty.
func (w *Widget) SetAudience(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.composer.SetAudience(id)
}

// Select selects a node; selecting the selected node again deselects it.
func (w *Widget) Select(nodeID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.composer.Select(nodeID)
}

// ClearSelection drops the current selection, if any.
func (w *Widget) ClearSelection() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.composer.ClearSelection()
}

// =============================================================================
// Artifacts
// =============================================================================

// State composes the visual state for the current interaction mode.
func (w *Widget) State(ctx context.Context) *effects.EffectState {
	st, _ := w.StateWithCacheInfo(ctx)
	return st
}

// StateWithCacheInfo is State plus a flag reporting whether the state came
// from cache. Hover states are never cached: pointer distance varies
// continuously, so cached entries would almost never be reused.
func (w *Widget) StateWithCacheInfo(ctx context.Context) (*effects.EffectState, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stateLocked(ctx)
}

func (w *Widget) stateLocked(ctx context.Context) (*effects.EffectState, bool) {
	cacheable := !w.composer.Mode().Has(effects.ModeHovering)

	var key string
	if cacheable {
		key = w.keyer.StateKey(w.contentHash, w.opts.StateKeyOpts(
			w.composer.FocusedLayer(),
			w.composer.Audience(),
			w.composer.Selected(),
		))
		if data, found, err := w.cache.Get(ctx, key); err == nil && found {
			var st effects.EffectState
			if err := json.Unmarshal(data, &st); err == nil {
				observability.Cache().OnCacheHit(ctx, "state")
				return &st, true
			}
		}
		observability.Cache().OnCacheMiss(ctx, "state")
	}

	st := w.composer.Compose()

	if cacheable {
		if data, err := json.Marshal(st); err == nil {
			// Cache write failures degrade to recomputation, not errors.
			_ = w.cache.Set(ctx, key, data, w.opts.CacheTTL.Duration)
			observability.Cache().OnCacheSet(ctx, "state", len(data))
		}
	}

	w.opts.Logger.Debug("state composed",
		"graph", w.id,
		"mode", st.Mode.String(),
		"nodes", len(st.Nodes))
	return st, false
}

// PlaceLabels measures and resolves label positions for every labeled node.
func (w *Widget) PlaceLabels(ctx context.Context) []Placement {
	ps, _ := w.PlaceLabelsWithCacheInfo(ctx)
	return ps
}

// PlaceLabelsWithCacheInfo is PlaceLabels plus a flag reporting whether the
// layout came from cache. The cache key covers graph content, zoom, label
// options, and current node positions, so any position change recomputes.
func (w *Widget) PlaceLabelsWithCacheInfo(ctx context.Context) ([]Placement, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.placeLabelsLocked(ctx)
}

func (w *Widget) placeLabelsLocked(ctx context.Context) ([]Placement, bool) {
	key := w.keyer.LayoutKey(w.contentHash, w.opts.LayoutKeyOpts(w.zoom, w.positionsHashLocked()))

	if data, found, err := w.cache.Get(ctx, key); err == nil && found {
		var ps []Placement
		if err := json.Unmarshal(data, &ps); err == nil {
			observability.Cache().OnCacheHit(ctx, "layout")
			return ps, true
		}
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	ls := w.engine.Labels(w.graph.Nodes())
	w.engine.Resolve(ls)

	ps := make([]Placement, 0, len(ls))
	for _, l := range ls {
		ps = append(ps, Placement{
			NodeID:    l.NodeID,
			Text:      l.Text,
			X:         l.X,
			Y:         l.Y,
			Direction: l.Direction,
			Width:     l.Width,
			Height:    l.Height,
		})
	}

	if data, err := json.Marshal(ps); err == nil {
		_ = w.cache.Set(ctx, key, data, w.opts.CacheTTL.Duration)
		observability.Cache().OnCacheSet(ctx, "layout", len(data))
	}

	w.opts.Logger.Debug("labels placed",
		"graph", w.id,
		"labels", len(ps),
		"zoom", w.zoom)
	return ps, false
}

// Distances returns hop counts from source to every reachable node,
// including source itself at zero. The second return reports a cache hit.
func (w *Widget) Distances(ctx context.Context, source string) (map[string]int, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	key := w.keyer.DistanceKey(w.contentHash, source)
	if data, found, err := w.cache.Get(ctx, key); err == nil && found {
		var m map[string]int
		if err := json.Unmarshal(data, &m); err == nil {
			observability.Cache().OnCacheHit(ctx, "dist")
			return m, true
		}
	}
	observability.Cache().OnCacheMiss(ctx, "dist")

	m := w.index.DistancesFrom(source)

	if data, err := json.Marshal(m); err == nil {
		_ = w.cache.Set(ctx, key, data, w.opts.CacheTTL.Duration)
		observability.Cache().OnCacheSet(ctx, "dist", len(data))
	}
	return m, false
}

// Snapshot composes the visual state and resolves labels in one pass,
// returning everything a client needs to draw the current frame.
func (w *Widget) Snapshot(ctx context.Context) *Result {
	w.mu.Lock()
	defer w.mu.Unlock()

	res := &Result{
		GraphID:   w.id,
		GraphHash: w.contentHash,
		Stats:     w.graph.Stats(),
	}

	st, stateHit := w.stateLocked(ctx)
	res.Effects = st
	res.Mode = st.Mode.String()
	res.CacheInfo.StateHit = stateHit

	ls, layoutHit := w.placeLabelsLocked(ctx)
	res.Labels = ls
	res.CacheInfo.LayoutHit = layoutHit

	return res
}

// =============================================================================
// Content Hashing
// =============================================================================

// nodeDigest is a node's identity for content hashing: the fields that feed
// state or layout computation. Coordinates are deliberately absent, they
// change every physics tick and are hashed separately for layout keys.
type nodeDigest struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Size     float64  `json:"size,omitempty"`
	Layer    string   `json:"layer,omitempty"`
	Type     string   `json:"type,omitempty"`
	Audience []string `json:"audience,omitempty"`
	Subnode  bool     `json:"subnode,omitempty"`
}

// positionDigest is one node's coordinates for layout cache keys.
type positionDigest struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// contentHash digests the graph's topology. Nodes() and Links() are stable
// insertion order, so equal graphs hash equal.
func contentHash(g *graph.Graph) string {
	nodes := g.Nodes()
	digest := struct {
		Nodes []nodeDigest  `json:"nodes"`
		Links []*graph.Link `json:"links"`
	}{
		Nodes: make([]nodeDigest, 0, len(nodes)),
		Links: g.Links(),
	}
	for _, n := range nodes {
		digest.Nodes = append(digest.Nodes, nodeDigest{
			ID:       n.ID,
			Label:    n.Label,
			Size:     n.Size,
			Layer:    n.Layer,
			Type:     n.Type,
			Audience: n.Audience,
			Subnode:  n.Subnode,
		})
	}

	data, err := json.Marshal(digest)
	if err != nil {
		return ""
	}
	return cache.Hash(data)
}

func (w *Widget) positionsHashLocked() string {
	nodes := w.graph.Nodes()
	ps := make([]positionDigest, 0, len(nodes))
	for _, n := range nodes {
		ps = append(ps, positionDigest{ID: n.ID, X: n.X, Y: n.Y})
	}

	data, err := json.Marshal(ps)
	if err != nil {
		return ""
	}
	return cache.Hash(data)
}
