package effects

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/nodeglow/nodeglow/pkg/graph"
	"github.com/nodeglow/nodeglow/pkg/graph/distance"
	"github.com/nodeglow/nodeglow/pkg/observability"
)

func mustGraph(t *testing.T, raw graph.RawGraph) *graph.Graph {
	t.Helper()
	g, err := graph.FromRaw(raw)
	if err != nil {
		t.Fatalf("FromRaw: %v", err)
	}
	return g
}

func newComposer(t *testing.T, raw graph.RawGraph, cfg Config) *Composer {
	t.Helper()
	g := mustGraph(t, raw)
	return New(g, distance.New(g), cfg)
}

func node(id string) graph.RawNode { return graph.RawNode{ID: id, Label: "Node " + id} }

func layerNode(id, layer string) graph.RawNode {
	n := node(id)
	n.Layer = layer
	return n
}

func audienceNode(id string, tags ...string) graph.RawNode {
	n := node(id)
	n.Audience = tags
	return n
}

func link(src, dst string) graph.RawLink {
	return graph.RawLink{Source: graph.Endpoint(src), Target: graph.Endpoint(dst)}
}

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

// checkNode asserts one node's scale and opacity.
func checkNode(t *testing.T, state *EffectState, id string, scale, opacity float64) {
	t.Helper()
	eff, ok := state.Nodes[id]
	if !ok {
		t.Fatalf("node %s missing from state", id)
	}
	if !almostEqual(eff.Scale, scale) {
		t.Errorf("node %s scale = %v, want %v", id, eff.Scale, scale)
	}
	if !almostEqual(eff.Opacity, opacity) {
		t.Errorf("node %s opacity = %v, want %v", id, eff.Opacity, opacity)
	}
}

// chainRaw builds a - b - c - d - e with f isolated.
func chainRaw() graph.RawGraph {
	return graph.RawGraph{
		Nodes: []graph.RawNode{node("a"), node("b"), node("c"), node("d"), node("e"), node("f")},
		Links: []graph.RawLink{link("a", "b"), link("b", "c"), link("c", "d"), link("d", "e")},
	}
}

func TestComposeNormal(t *testing.T) {
	c := newComposer(t, graph.RawGraph{
		Nodes: []graph.RawNode{node("a"), node("b")},
		Links: []graph.RawLink{link("a", "b")},
	}, Config{})

	state := c.Compose()

	if state.Mode != ModeNormal {
		t.Errorf("mode = %v, want normal", state.Mode)
	}
	checkNode(t, state, "a", 1, 1)
	checkNode(t, state, "b", 1, 1)
	for id, eff := range state.Nodes {
		if eff.Blurred || eff.Hidden {
			t.Errorf("node %s blurred=%v hidden=%v, want false/false", id, eff.Blurred, eff.Hidden)
		}
	}

	if len(state.Links) != 1 {
		t.Fatalf("len(Links) = %d, want 1", len(state.Links))
	}
	l := state.Links[0]
	if l.Source != "a" || l.Target != "b" {
		t.Errorf("link endpoints = %s-%s, want a-b", l.Source, l.Target)
	}
	if !almostEqual(l.Opacity, 0.6) {
		t.Errorf("link opacity = %v, want 0.6", l.Opacity)
	}
	// Default strength 0.5: sqrt(0.5) * 2 * 1.
	if !almostEqual(l.StrokeWidth, math.Sqrt(0.5)*2) {
		t.Errorf("link width = %v, want %v", l.StrokeWidth, math.Sqrt(0.5)*2)
	}
}

func TestComposeHoverAtZeroDistance(t *testing.T) {
	c := newComposer(t, graph.RawGraph{
		Nodes: []graph.RawNode{node("a"), node("b"), node("c")},
		Links: []graph.RawLink{link("a", "b"), link("b", "c")},
	}, Config{})

	c.SetHover("a", 0)
	state := c.Compose()

	if state.Mode != ModeHovering {
		t.Fatalf("mode = %v, want hovering", state.Mode)
	}
	checkNode(t, state, "a", 1.3, 1)
	checkNode(t, state, "b", 0.9, 0.9)
	checkNode(t, state, "c", 0.7, 0.7)
}

func TestComposeHoverMidProximity(t *testing.T) {
	c := newComposer(t, graph.RawGraph{
		Nodes: []graph.RawNode{node("a"), node("b"), node("c"), node("z")},
		Links: []graph.RawLink{link("a", "b"), link("b", "c")},
	}, Config{})

	// Half the hover radius: proximity 0.5, every value halfway home.
	c.SetHover("a", 50)
	state := c.Compose()

	checkNode(t, state, "a", 1.15, 1)
	checkNode(t, state, "b", 0.95, 0.95)
	checkNode(t, state, "c", 0.85, 0.85)
	checkNode(t, state, "z", 0.65, 0.65)
}

func TestComposeHoverBeyondRadius(t *testing.T) {
	c := newComposer(t, graph.RawGraph{
		Nodes: []graph.RawNode{node("a"), node("b")},
		Links: []graph.RawLink{link("a", "b")},
	}, Config{})

	c.SetHover("a", 250)
	state := c.Compose()

	if state.Mode != ModeHovering {
		t.Fatalf("mode = %v, want hovering", state.Mode)
	}
	checkNode(t, state, "a", 1, 1)
	checkNode(t, state, "b", 1, 1)
}

func TestComposeHoverDistanceTiers(t *testing.T) {
	c := newComposer(t, chainRaw(), Config{})

	c.SetHover("a", 0)
	state := c.Compose()

	checkNode(t, state, "b", 0.9, 0.9)
	checkNode(t, state, "c", 0.7, 0.7)
	checkNode(t, state, "d", 0.5, 0.5)
	checkNode(t, state, "e", 0.3, 0.3) // four hops: farther tier
	checkNode(t, state, "f", 0.3, 0.3) // unreachable: same tier
}

func TestHoverSuppressedByLayerAndAudience(t *testing.T) {
	c := newComposer(t, graph.RawGraph{
		Nodes: []graph.RawNode{layerNode("a", "core"), node("b")},
		Links: []graph.RawLink{link("a", "b")},
	}, Config{})

	c.FocusLayer("core")
	c.SetHover("a", 0)
	if c.Mode() != ModeLayerFocus {
		t.Errorf("mode = %v, want layer_focus", c.Mode())
	}

	c.FocusLayer("")
	c.SetAudience("general")
	c.SetHover("a", 0)
	if c.Mode() != ModeAudienceFilter {
		t.Errorf("mode = %v, want audience_filter", c.Mode())
	}

	// Both cleared: hover accepted again.
	c.SetAudience("")
	c.SetHover("a", 0)
	if c.Mode() != ModeHovering {
		t.Errorf("mode = %v, want hovering", c.Mode())
	}
}

func TestFocusLayerCancelsHover(t *testing.T) {
	c := newComposer(t, graph.RawGraph{
		Nodes: []graph.RawNode{layerNode("a", "core"), node("b")},
		Links: []graph.RawLink{link("a", "b")},
	}, Config{})

	c.SetHover("b", 0)
	c.FocusLayer("core")

	if c.Mode().Has(ModeHovering) {
		t.Errorf("mode = %v, hover should be cancelled by layer focus", c.Mode())
	}
	state := c.Compose()
	checkNode(t, state, "a", 1, 1)     // in layer
	checkNode(t, state, "b", 0.7, 0.7) // one hop out, not the stale hover value
}

func TestComposeLayerFocus(t *testing.T) {
	c := newComposer(t, graph.RawGraph{
		Nodes: []graph.RawNode{
			layerNode("a", "core"),
			layerNode("b", "core"),
			layerNode("c", "edge"),
			node("d"),
			node("e"),
			node("f"),
		},
		Links: []graph.RawLink{link("c", "a"), link("d", "c"), link("e", "d")},
	}, Config{})

	c.FocusLayer("core")
	state := c.Compose()

	if state.Mode != ModeLayerFocus {
		t.Fatalf("mode = %v, want layer_focus", state.Mode)
	}
	checkNode(t, state, "a", 1, 1)
	checkNode(t, state, "b", 1, 1) // in layer even without links
	checkNode(t, state, "c", 0.7, 0.7)
	checkNode(t, state, "d", 0.5, 0.5)
	checkNode(t, state, "e", 0.3, 0.3) // connected, three hops out
	checkNode(t, state, "f", 0.5, 0.5) // disconnected beats farther
}

func TestComposeLayerFocusEmptyLayer(t *testing.T) {
	c := newComposer(t, graph.RawGraph{
		Nodes: []graph.RawNode{node("a"), node("b")},
		Links: []graph.RawLink{link("a", "b")},
	}, Config{})

	c.FocusLayer("ghost")
	state := c.Compose()

	checkNode(t, state, "a", 0.5, 0.5)
	checkNode(t, state, "b", 0.5, 0.5)
}

func TestComposeAudienceFilter(t *testing.T) {
	c := newComposer(t, graph.RawGraph{
		Nodes: []graph.RawNode{
			audienceNode("a", "expert"),
			node("b"), // defaults to ["general"]
			audienceNode("c", "expert", "general"),
		},
	}, Config{})

	c.SetAudience("expert")
	state := c.Compose()

	if state.Mode != ModeAudienceFilter {
		t.Fatalf("mode = %v, want audience_filter", state.Mode)
	}
	checkNode(t, state, "a", 1, 1)
	checkNode(t, state, "b", 1, 0.3)
	checkNode(t, state, "c", 1, 1)
	if state.Nodes["b"].Blurred != true {
		t.Error("node b should be blurred")
	}
	if state.Nodes["a"].Blurred || state.Nodes["c"].Blurred {
		t.Error("audience members should not be blurred")
	}
}

func TestAudienceExemptsSelectionRelatedSet(t *testing.T) {
	c := newComposer(t, graph.RawGraph{
		Nodes: []graph.RawNode{
			audienceNode("a", "expert"),
			node("b"),
			node("c"),
		},
		Links: []graph.RawLink{link("a", "b")},
	}, Config{})

	c.SetAudience("expert")
	c.Select("a")
	state := c.Compose()

	if got, want := state.Mode.String(), "audience_filter|selected"; got != want {
		t.Fatalf("mode = %q, want %q", got, want)
	}

	// b carries only the default tag but sits in a's related set.
	checkNode(t, state, "b", 1.2, 1)
	if state.Nodes["b"].Blurred {
		t.Error("related node b should not be blurred")
	}

	// c is neither a member nor related.
	checkNode(t, state, "c", 0.6, 0.3)
	if !state.Nodes["c"].Blurred {
		t.Error("node c should be blurred")
	}
}

func TestComposeSelection(t *testing.T) {
	c := newComposer(t, chainRaw(), Config{})

	c.Select("a")
	state := c.Compose()

	if state.Mode != ModeSelected {
		t.Fatalf("mode = %v, want selected", state.Mode)
	}
	checkNode(t, state, "a", 1.5, 1)
	checkNode(t, state, "b", 1.2, 1)
	checkNode(t, state, "c", 0.8, 1)
	checkNode(t, state, "d", 0.55, 1) // 1 - 3*0.15
	checkNode(t, state, "e", 0.5, 1)  // floor
	checkNode(t, state, "f", 0.6, 1)  // unconnected

	// Non-increasing along the chain for hop >= 1.
	hops := []string{"b", "c", "d", "e"}
	for i := 1; i < len(hops); i++ {
		prev, cur := state.Nodes[hops[i-1]].Scale, state.Nodes[hops[i]].Scale
		if cur > prev+1e-9 {
			t.Errorf("scale grew with hop distance: %s=%v > %s=%v", hops[i], cur, hops[i-1], prev)
		}
	}

	c.ClearSelection()
	state = c.Compose()
	for id, eff := range state.Nodes {
		if !almostEqual(eff.Scale, 1) {
			t.Errorf("node %s scale = %v after clear, want 1", id, eff.Scale)
		}
	}
}

func TestSelectionMultipliesLayerScale(t *testing.T) {
	c := newComposer(t, graph.RawGraph{
		Nodes: []graph.RawNode{layerNode("a", "core"), node("b"), node("c")},
		Links: []graph.RawLink{link("a", "b")},
	}, Config{})

	c.FocusLayer("core")
	c.Select("a")
	state := c.Compose()

	if got, want := state.Mode.String(), "layer_focus|selected"; got != want {
		t.Fatalf("mode = %q, want %q", got, want)
	}
	checkNode(t, state, "a", 1.5, 1)    // 1.0 * 1.5
	checkNode(t, state, "b", 0.84, 0.7) // 0.7 * 1.2
	checkNode(t, state, "c", 0.3, 0.5)  // 0.5 * 0.6
}

func TestSubnodeHiddenOutsideItsLayer(t *testing.T) {
	strength := 1.0
	sub := layerNode("s", "deep")
	sub.Subnode = true
	c := newComposer(t, graph.RawGraph{
		Nodes: []graph.RawNode{node("n"), sub},
		Links: []graph.RawLink{{Source: "n", Target: "s", Strength: &strength}},
	}, Config{})

	state := c.Compose()
	if !state.Nodes["s"].Hidden {
		t.Error("subnode should be hidden in normal mode")
	}
	if state.Nodes["n"].Hidden {
		t.Error("regular node should never be hidden")
	}
	checkNode(t, state, "s", 1, 1) // attributes still populated
	if !state.Links[0].Hidden {
		t.Error("link to a hidden subnode should be hidden")
	}

	c.FocusLayer("deep")
	state = c.Compose()
	if state.Nodes["s"].Hidden {
		t.Error("subnode should be visible while its layer is focused")
	}
	if state.Links[0].Hidden {
		t.Error("link should be visible while the subnode is")
	}
	checkNode(t, state, "s", 1, 1)
	checkNode(t, state, "n", 0.7, 0.7)

	c.FocusLayer("other")
	state = c.Compose()
	if !state.Nodes["s"].Hidden {
		t.Error("subnode should hide again when another layer is focused")
	}
}

func TestLinkDerivation(t *testing.T) {
	strength := 1.0
	c := newComposer(t, graph.RawGraph{
		Nodes: []graph.RawNode{node("a"), node("b")},
		Links: []graph.RawLink{{Source: "a", Target: "b", Strength: &strength}},
	}, Config{})

	c.SetHover("a", 0)
	state := c.Compose()

	l := state.Links[0]
	// Fainter endpoint is b at 0.9.
	if !almostEqual(l.Opacity, 0.9*0.6) {
		t.Errorf("link opacity = %v, want %v", l.Opacity, 0.9*0.6)
	}
	// Larger endpoint scale is the hovered 1.3.
	if !almostEqual(l.StrokeWidth, 2*1.3) {
		t.Errorf("link width = %v, want %v", l.StrokeWidth, 2*1.3)
	}
}

func TestClearingAllModesRestoresBaseline(t *testing.T) {
	c := newComposer(t, graph.RawGraph{
		Nodes: []graph.RawNode{
			layerNode("a", "core"),
			audienceNode("b", "expert"),
			node("c"),
		},
		Links: []graph.RawLink{link("a", "b"), link("b", "c")},
	}, Config{})

	c.FocusLayer("core")
	c.SetAudience("expert")
	c.Select("b")

	// Release one mode at a time; normal only returns at the end.
	c.FocusLayer("")
	if c.Mode() == ModeNormal {
		t.Fatal("mode normal while audience and selection still active")
	}
	c.SetAudience("")
	if c.Mode() == ModeNormal {
		t.Fatal("mode normal while selection still active")
	}
	c.ClearSelection()
	if c.Mode() != ModeNormal {
		t.Fatalf("mode = %v after clearing everything, want normal", c.Mode())
	}

	state := c.Compose()
	for id, eff := range state.Nodes {
		if !almostEqual(eff.Scale, 1) || !almostEqual(eff.Opacity, 1) || eff.Blurred {
			t.Errorf("node %s = %+v, want scale 1 opacity 1 unblurred", id, eff)
		}
	}
}

func TestComposeUnknownHoverTarget(t *testing.T) {
	c := newComposer(t, graph.RawGraph{
		Nodes: []graph.RawNode{node("a"), node("b")},
		Links: []graph.RawLink{link("a", "b")},
	}, Config{})

	c.SetHover("ghost", 0)
	state := c.Compose()

	// Every real node sits in the farthest tier; nothing crashes.
	checkNode(t, state, "a", 0.3, 0.3)
	checkNode(t, state, "b", 0.3, 0.3)
}

func TestRebind(t *testing.T) {
	c := newComposer(t, graph.RawGraph{
		Nodes: []graph.RawNode{node("a"), node("b")},
		Links: []graph.RawLink{link("a", "b")},
	}, Config{})

	c.Select("b")
	c.SetHover("a", 10)

	// b survives the swap, so the selection does too.
	g2 := mustGraph(t, graph.RawGraph{Nodes: []graph.RawNode{node("a"), node("b"), node("x")}})
	c.Rebind(g2, distance.New(g2))
	if got, want := c.Mode().String(), "hovering|selected"; got != want {
		t.Errorf("mode = %q after rebind, want %q", got, want)
	}

	// Neither target exists now.
	g3 := mustGraph(t, graph.RawGraph{Nodes: []graph.RawNode{node("x")}})
	c.Rebind(g3, distance.New(g3))
	if c.Mode() != ModeNormal {
		t.Errorf("mode = %v after rebind to disjoint graph, want normal", c.Mode())
	}
}

func TestCustomConfig(t *testing.T) {
	c := newComposer(t, graph.RawGraph{
		Nodes: []graph.RawNode{node("a"), node("b"), node("c")},
		Links: []graph.RawLink{link("a", "b"), link("b", "c")},
	}, Config{
		HoverRadius:   200,
		MaxHoverScale: 2.0,
		Distance:      DistanceScaling{Hop1: 0.5},
	})

	c.SetHover("a", 100)
	state := c.Compose()

	checkNode(t, state, "a", 1.5, 1)     // 1 + (2-1)*0.5
	checkNode(t, state, "b", 0.75, 0.75) // custom hop1 0.5
	checkNode(t, state, "c", 0.85, 0.85) // hop2 falls back to 0.7
}

// recordingComposeHooks captures compose notifications.
type recordingComposeHooks struct {
	observability.NoopComposeHooks
	started  int
	finished int
	mode     string
	nodes    int
	links    int
}

func (h *recordingComposeHooks) OnComposeStart(_ context.Context, mode string, nodeCount int) {
	h.started++
	h.mode = mode
	h.nodes = nodeCount
}

func (h *recordingComposeHooks) OnComposeComplete(_ context.Context, _ string, _, linkCount int, _ time.Duration) {
	h.finished++
	h.links = linkCount
}

func TestComposeNotifiesHooks(t *testing.T) {
	hooks := &recordingComposeHooks{}
	observability.SetComposeHooks(hooks)
	t.Cleanup(observability.Reset)

	c := newComposer(t, graph.RawGraph{
		Nodes: []graph.RawNode{node("a"), node("b")},
		Links: []graph.RawLink{link("a", "b")},
	}, Config{})

	c.Select("a")
	c.Compose()

	if hooks.started != 1 || hooks.finished != 1 {
		t.Errorf("hook calls = %d start, %d complete, want 1 each", hooks.started, hooks.finished)
	}
	if hooks.mode != "selected" {
		t.Errorf("mode = %q, want %q", hooks.mode, "selected")
	}
	if hooks.nodes != 2 || hooks.links != 1 {
		t.Errorf("counts = %d nodes, %d links, want 2 and 1", hooks.nodes, hooks.links)
	}
}
