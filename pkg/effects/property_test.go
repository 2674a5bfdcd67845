package effects

import (
	"fmt"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/nodeglow/nodeglow/pkg/graph"
	"github.com/nodeglow/nodeglow/pkg/graph/distance"
)

// propertyComposer builds a composer over a small mixed graph: two layers,
// two audiences, a four-node chain, and an isolated node. No subnodes, so
// the baseline state is scale 1, opacity 1, unblurred everywhere.
func propertyComposer() *Composer {
	raw := graph.RawGraph{
		Nodes: []graph.RawNode{
			{ID: "n0", Label: "n0", Layer: "alpha", Audience: []string{"expert"}},
			{ID: "n1", Label: "n1", Layer: "alpha"},
			{ID: "n2", Label: "n2", Layer: "beta", Audience: []string{"expert", "general"}},
			{ID: "n3", Label: "n3"},
			{ID: "n4", Label: "n4"},
		},
		Links: []graph.RawLink{
			{Source: "n0", Target: "n1"},
			{Source: "n1", Target: "n2"},
			{Source: "n2", Target: "n3"},
		},
	}
	g, err := graph.FromRaw(raw)
	if err != nil {
		panic(err)
	}
	return New(g, distance.New(g), Config{})
}

// applyEvent maps a small int onto one interaction signal.
func applyEvent(c *Composer, ev int) {
	switch ev % 10 {
	case 0:
		c.SetHover("n0", 25)
	case 1:
		c.SetHover("n3", 180)
	case 2:
		c.ClearHover()
	case 3:
		c.FocusLayer("alpha")
	case 4:
		c.FocusLayer("")
	case 5:
		c.SetAudience("expert")
	case 6:
		c.SetAudience("")
	case 7:
		c.Select("n2")
	case 8:
		c.Select("n4")
	case 9:
		c.ClearSelection()
	}
}

// TestComposerInvariants verifies properties that must hold under any
// sequence of interaction events.
func TestComposerInvariants(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20

	properties := gopter.NewProperties(parameters)

	eventsGen := gen.SliceOf(gen.IntRange(0, 9))

	// Property 1: clearing every mode restores the baseline
	properties.Property("clearing all modes restores baseline", prop.ForAll(
		func(events []int) bool {
			c := propertyComposer()
			for _, ev := range events {
				applyEvent(c, ev)
			}
			c.ClearHover()
			c.FocusLayer("")
			c.SetAudience("")
			c.ClearSelection()

			if c.Mode() != ModeNormal {
				return false
			}
			state := c.Compose()
			for _, eff := range state.Nodes {
				if eff.Scale != 1 || eff.Opacity != 1 || eff.Blurred || eff.Hidden {
					return false
				}
			}
			return true
		},
		eventsGen,
	))

	// Property 2: link attributes never exceed their endpoint bounds
	properties.Property("links stay within endpoint bounds", prop.ForAll(
		func(events []int) bool {
			c := propertyComposer()
			for _, ev := range events {
				applyEvent(c, ev)
			}
			state := c.Compose()
			for _, l := range state.Links {
				src, dst := state.Nodes[l.Source], state.Nodes[l.Target]
				if l.Opacity > math.Min(src.Opacity, dst.Opacity)+1e-9 {
					return false
				}
				if l.StrokeWidth < 0 {
					return false
				}
			}
			return true
		},
		eventsGen,
	))

	// Property 3: hover keeps every node between its tier base and the max
	properties.Property("hover scales stay within configured bounds", prop.ForAll(
		func(d float64) bool {
			c := propertyComposer()
			c.SetHover("n0", d)
			state := c.Compose()
			for id, eff := range state.Nodes {
				if id == "n0" {
					if eff.Scale < 1-1e-9 || eff.Scale > DefaultMaxHoverScale+1e-9 {
						return false
					}
					continue
				}
				if eff.Scale < DefaultDistanceScaling.Farther-1e-9 || eff.Scale > 1+1e-9 {
					return false
				}
				if eff.Opacity != eff.Scale {
					return false
				}
			}
			return true
		},
		gen.Float64Range(0, 500),
	))

	// Property 4: hover influence is monotone in pointer distance
	properties.Property("hovered scale never grows with pointer distance", prop.ForAll(
		func(d1, d2 float64) bool {
			near, far := math.Min(d1, d2), math.Max(d1, d2)
			c := propertyComposer()

			c.SetHover("n0", near)
			nearState := c.Compose()
			c.SetHover("n0", far)
			farState := c.Compose()

			if farState.Nodes["n0"].Scale > nearState.Nodes["n0"].Scale+1e-9 {
				return false
			}
			// Neighbors relax back toward 1 as the pointer recedes.
			return farState.Nodes["n1"].Scale >= nearState.Nodes["n1"].Scale-1e-9
		},
		gen.Float64Range(0, 300),
		gen.Float64Range(0, 300),
	))

	// Property 5: selection scaling never increases with hop distance
	properties.Property("selection multipliers are non-increasing past hop 1", prop.ForAll(
		func(size int) bool {
			var raw graph.RawGraph
			for i := 0; i < size; i++ {
				raw.Nodes = append(raw.Nodes, graph.RawNode{ID: fmt.Sprintf("c%d", i), Label: "c"})
			}
			for i := 0; i+1 < size; i++ {
				raw.Links = append(raw.Links, graph.RawLink{
					Source: graph.Endpoint(fmt.Sprintf("c%d", i)),
					Target: graph.Endpoint(fmt.Sprintf("c%d", i+1)),
				})
			}
			g, err := graph.FromRaw(raw)
			if err != nil {
				panic(err)
			}
			c := New(g, distance.New(g), Config{})
			c.Select("c0")
			state := c.Compose()

			prev := math.Inf(1)
			for i := 1; i < size; i++ {
				cur := state.Nodes[fmt.Sprintf("c%d", i)].Scale
				if cur > prev+1e-9 {
					return false
				}
				prev = cur
			}
			return true
		},
		gen.IntRange(3, 10),
	))

	properties.TestingRun(t)
}
