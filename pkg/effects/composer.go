package effects

import (
	"context"
	"math"
	"time"

	"github.com/nodeglow/nodeglow/pkg/graph"
	"github.com/nodeglow/nodeglow/pkg/graph/distance"
	"github.com/nodeglow/nodeglow/pkg/observability"
)

// =============================================================================
// Composer
// =============================================================================

// Composer turns interaction signals into render attributes. Signals arrive
// through the Set/Clear methods; Compose reads the graph and distance index
// and emits a fresh EffectState.
type Composer struct {
	cfg   Config
	graph *graph.Graph
	dist  *distance.Index

	hoverID       string
	hoverDistance float64
	layerID       string
	audienceID    string
	selectedID    string
}

// New builds a composer over a graph and its distance index. Zero-valued
// cfg fields fall back to package defaults.
func New(g *graph.Graph, idx *distance.Index, cfg Config) *Composer {
	return &Composer{
		cfg:   cfg.withDefaults(),
		graph: g,
		dist:  idx,
	}
}

// Rebind points the composer at a replacement graph and index, keeping the
// active modes. Hover and selection targets that no longer exist are
// cleared; layer and audience ids are plain tags and survive as-is.
func (c *Composer) Rebind(g *graph.Graph, idx *distance.Index) {
	c.graph = g
	c.dist = idx
	if c.hoverID != "" {
		if _, ok := g.Node(c.hoverID); !ok {
			c.ClearHover()
		}
	}
	if c.selectedID != "" {
		if _, ok := g.Node(c.selectedID); !ok {
			c.ClearSelection()
		}
	}
}

// =============================================================================
// Interaction Signals
// =============================================================================

// SetHover records the hover target and the pointer's distance to it, in
// the node coordinate space. Hover is suppressed while a layer focus or
// audience filter is active. An empty id clears the hover; negative
// distances clamp to zero.
func (c *Composer) SetHover(nodeID string, pointerDistance float64) {
	if nodeID == "" {
		c.ClearHover()
		return
	}
	if c.layerID != "" || c.audienceID != "" {
		return
	}
	c.hoverID = nodeID
	c.hoverDistance = math.Max(0, pointerDistance)
}

// ClearHover drops the hover target, typically on pointer-out or when the
// pointer leaves the canvas.
func (c *Composer) ClearHover() {
	c.hoverID = ""
	c.hoverDistance = 0
}

// FocusLayer activates focus on a layer id and cancels any live hover. An
// empty id clears the focus; normal mode returns only once every other
// mode has cleared too.
func (c *Composer) FocusLayer(id string) {
	c.layerID = id
	if id != "" {
		c.ClearHover()
	}
}

// SetAudience activates the audience filter and cancels any live hover. An
// empty id clears the filter.
func (c *Composer) SetAudience(id string) {
	c.audienceID = id
	if id != "" {
		c.ClearHover()
	}
}

// Select marks a node as selected. An empty id clears the selection.
func (c *Composer) Select(nodeID string) {
	c.selectedID = nodeID
}

// ClearSelection drops the selected node.
func (c *Composer) ClearSelection() {
	c.selectedID = ""
}

// Mode reports the set of currently active modes, derived from the live
// signals so it can never drift from them.
func (c *Composer) Mode() Mode {
	var m Mode
	if c.hoverID != "" {
		m |= ModeHovering
	}
	if c.layerID != "" {
		m |= ModeLayerFocus
	}
	if c.audienceID != "" {
		m |= ModeAudienceFilter
	}
	if c.selectedID != "" {
		m |= ModeSelected
	}
	return m
}

// FocusedLayer reports the active layer id, or "" when none.
func (c *Composer) FocusedLayer() string { return c.layerID }

// Audience reports the active audience id, or "" when none.
func (c *Composer) Audience() string { return c.audienceID }

// Selected reports the selected node id, or "" when none.
func (c *Composer) Selected() string { return c.selectedID }

// =============================================================================
// Composition
// =============================================================================

// Compose rewrites the full effect state from the live signals. Nodes start
// at scale 1 and the default opacity, then each active signal adjusts them:
// hover blends toward the distance table by pointer proximity, layer focus
// tiers nodes by hops to the focused layer, the audience filter dims and
// blurs non-members, and selection multiplies scale by hop distance. Link
// attributes always derive from their endpoints afterwards.
func (c *Composer) Compose() *EffectState {
	ctx := context.Background()
	mode := c.Mode()
	nodes := c.graph.Nodes()
	links := c.graph.Links()
	observability.Compose().OnComposeStart(ctx, mode.String(), len(nodes))
	start := time.Now()

	state := &EffectState{
		Mode:  mode,
		Nodes: make(map[string]NodeEffect, len(nodes)),
	}
	for _, n := range nodes {
		state.Nodes[n.ID] = NodeEffect{Scale: 1, Opacity: c.cfg.DefaultOpacity}
	}

	if c.hoverID != "" {
		c.applyHover(state)
	}
	if c.layerID != "" {
		c.applyLayer(state, nodes)
	}
	if c.audienceID != "" {
		c.applyAudience(state, nodes, c.relatedSet())
	}
	if c.selectedID != "" {
		c.applySelection(state)
	}
	c.applyVisibility(state, nodes)
	c.composeLinks(state, links)

	observability.Compose().OnComposeComplete(ctx, mode.String(), len(nodes), len(links), time.Since(start))
	return state
}

// applyHover interpolates the hovered node between 1 and the max hover
// scale by pointer proximity, and every other node between its hop-distance
// base and 1 by the same factor. Opacity follows the same curve for the
// non-hovered nodes; the hovered node keeps the default opacity.
func (c *Composer) applyHover(state *EffectState) {
	p := math.Max(0, 1-c.hoverDistance/c.cfg.HoverRadius)
	for id, eff := range state.Nodes {
		if id == c.hoverID {
			eff.Scale = 1 + (c.cfg.MaxHoverScale-1)*p
			state.Nodes[id] = eff
			continue
		}
		base := c.hoverBase(c.dist.Distance(c.hoverID, id))
		v := base + (1-base)*(1-p)
		eff.Scale = v
		eff.Opacity = v
		state.Nodes[id] = eff
	}
}

func (c *Composer) hoverBase(hop int) float64 {
	switch hop {
	case 1:
		return c.cfg.Distance.Hop1
	case 2:
		return c.cfg.Distance.Hop2
	case 3:
		return c.cfg.Distance.Hop3
	default:
		return c.cfg.Distance.Farther
	}
}

// applyLayer gives in-layer nodes the active value, tiers connected nodes
// by their fewest hops to any in-layer node, and leaves everything that
// cannot reach the layer at the flat disconnected value.
func (c *Composer) applyLayer(state *EffectState, nodes []*graph.Node) {
	var members []string
	for _, n := range nodes {
		if n.Layer == c.layerID {
			members = append(members, n.ID)
		}
	}
	for _, n := range nodes {
		v := c.cfg.Layer.Disconnected
		if n.Layer == c.layerID {
			v = c.cfg.Layer.Active
		} else if d := c.hopsToLayer(n.ID, members); d < distance.Unreachable {
			switch d {
			case 1:
				v = c.cfg.Layer.Hop1
			case 2:
				v = c.cfg.Layer.Hop2
			default:
				v = c.cfg.Layer.Farther
			}
		}
		eff := state.Nodes[n.ID]
		eff.Scale = v
		eff.Opacity = v
		state.Nodes[n.ID] = eff
	}
}

// hopsToLayer returns the fewest hops from the node to any layer member.
// One hop is the minimum possible for a non-member, so the scan stops early
// when it finds one.
func (c *Composer) hopsToLayer(id string, members []string) int {
	best := distance.Unreachable
	for _, m := range members {
		if d := c.dist.Distance(id, m); d < best {
			best = d
			if best == 1 {
				break
			}
		}
	}
	return best
}

// applyAudience dims and blurs nodes outside the active audience. Members
// of the selected node's related set are exempt whatever their tags.
func (c *Composer) applyAudience(state *EffectState, nodes []*graph.Node, related map[string]bool) {
	for _, n := range nodes {
		if n.HasAudience(c.audienceID) || related[n.ID] {
			continue
		}
		eff := state.Nodes[n.ID]
		eff.Opacity = c.cfg.AudienceOpacity
		eff.Blurred = true
		state.Nodes[n.ID] = eff
	}
}

// relatedSet is the selected node plus every node one hop from it.
func (c *Composer) relatedSet() map[string]bool {
	if c.selectedID == "" {
		return nil
	}
	related := map[string]bool{c.selectedID: true}
	for _, n := range c.graph.Nodes() {
		if n.ID == c.selectedID {
			continue
		}
		if c.dist.Distance(c.selectedID, n.ID) == 1 {
			related[n.ID] = true
		}
	}
	return related
}

// applySelection multiplies every node's scale by its hop-distance tier
// from the selected node.
func (c *Composer) applySelection(state *EffectState) {
	for id, eff := range state.Nodes {
		hop := 0
		if id != c.selectedID {
			hop = c.dist.Distance(c.selectedID, id)
		}
		eff.Scale *= c.selectionMultiplier(hop)
		state.Nodes[id] = eff
	}
}

func (c *Composer) selectionMultiplier(hop int) float64 {
	switch {
	case hop == 0:
		return c.cfg.Selection.Self
	case hop == 1:
		return c.cfg.Selection.Hop1
	case hop == 2:
		return c.cfg.Selection.Hop2
	case hop >= distance.Unreachable:
		return c.cfg.Selection.Unconnected
	default:
		return math.Max(c.cfg.Selection.FartherFloor, 1-float64(hop)*c.cfg.Selection.FartherDecay)
	}
}

// applyVisibility hides subnodes unless their layer is the focused one.
func (c *Composer) applyVisibility(state *EffectState, nodes []*graph.Node) {
	for _, n := range nodes {
		if !n.Subnode {
			continue
		}
		if c.layerID != "" && n.Layer == c.layerID {
			continue
		}
		eff := state.Nodes[n.ID]
		eff.Hidden = true
		state.Nodes[n.ID] = eff
	}
}

// composeLinks derives link attributes from the endpoint effects: opacity
// follows the fainter endpoint, stroke width follows link strength boosted
// by the larger endpoint scale.
func (c *Composer) composeLinks(state *EffectState, links []*graph.Link) {
	state.Links = make([]LinkEffect, len(links))
	for i, l := range links {
		src := state.Nodes[l.SourceID]
		dst := state.Nodes[l.TargetID]
		state.Links[i] = LinkEffect{
			Source:      l.SourceID,
			Target:      l.TargetID,
			Opacity:     math.Min(src.Opacity, dst.Opacity) * c.cfg.LinkDimmedMultiplier,
			StrokeWidth: math.Sqrt(l.Strength) * c.cfg.LinkBaseWidth * math.Max(src.Scale, dst.Scale),
			Hidden:      src.Hidden || dst.Hidden,
		}
	}
}
