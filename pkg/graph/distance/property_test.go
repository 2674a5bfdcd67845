package distance

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/nodeglow/nodeglow/pkg/graph"
)

const propertyNodeCount = 12

// propertyGraph builds a graph over a fixed node set. Consecutive ints in
// edgePairs become undirected edges between node indices, so random int
// slices explore sparse and dense connectivity.
func propertyGraph(edgePairs []int) (*graph.Graph, []string) {
	ids := make([]string, propertyNodeCount)
	var raw graph.RawGraph
	for i := range ids {
		ids[i] = fmt.Sprintf("n%d", i)
		raw.Nodes = append(raw.Nodes, graph.RawNode{ID: ids[i], Label: "Node " + ids[i]})
	}
	for i := 0; i+1 < len(edgePairs); i += 2 {
		raw.Links = append(raw.Links, graph.RawLink{
			Source: graph.Endpoint(ids[edgePairs[i]%propertyNodeCount]),
			Target: graph.Endpoint(ids[edgePairs[i+1]%propertyNodeCount]),
		})
	}
	g, err := graph.FromRaw(raw)
	if err != nil {
		panic(err)
	}
	return g, ids
}

// TestDistanceInvariants uses property-based testing to verify invariants
// that should hold for any link structure, including self links, duplicate
// links, and disconnected components.
func TestDistanceInvariants(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20

	properties := gopter.NewProperties(parameters)

	edgeGen := gen.SliceOf(gen.IntRange(0, propertyNodeCount-1))

	// Property 1: distance is symmetric
	properties.Property("distance is symmetric", prop.ForAll(
		func(edgePairs []int, ai, bi int) bool {
			g, ids := propertyGraph(edgePairs)
			ix := New(g)
			a, b := ids[ai], ids[bi]
			return ix.Distance(a, b) == ix.Distance(b, a)
		},
		edgeGen,
		gen.IntRange(0, propertyNodeCount-1),
		gen.IntRange(0, propertyNodeCount-1),
	))

	// Property 2: self distance is zero
	properties.Property("self distance is zero", prop.ForAll(
		func(edgePairs []int, ai int) bool {
			g, ids := propertyGraph(edgePairs)
			return New(g).Distance(ids[ai], ids[ai]) == 0
		},
		edgeGen,
		gen.IntRange(0, propertyNodeCount-1),
	))

	// Property 3: repeated queries are stable
	properties.Property("repeated queries return the same value", prop.ForAll(
		func(edgePairs []int, ai, bi int) bool {
			g, ids := propertyGraph(edgePairs)
			ix := New(g)
			a, b := ids[ai], ids[bi]
			first := ix.Distance(a, b)
			return ix.Distance(a, b) == first && ix.Distance(a, b) == first
		},
		edgeGen,
		gen.IntRange(0, propertyNodeCount-1),
		gen.IntRange(0, propertyNodeCount-1),
	))

	// Property 4: triangle inequality (with the sentinel acting as +inf cap)
	properties.Property("triangle inequality holds", prop.ForAll(
		func(edgePairs []int, ai, bi, ci int) bool {
			g, ids := propertyGraph(edgePairs)
			ix := New(g)
			a, b, c := ids[ai], ids[bi], ids[ci]
			ab, bc, ac := ix.Distance(a, b), ix.Distance(b, c), ix.Distance(a, c)
			if ab == Unreachable || bc == Unreachable {
				return true
			}
			return ac <= ab+bc
		},
		edgeGen,
		gen.IntRange(0, propertyNodeCount-1),
		gen.IntRange(0, propertyNodeCount-1),
		gen.IntRange(0, propertyNodeCount-1),
	))

	// Property 5: bulk pass agrees with pair queries
	properties.Property("DistancesFrom agrees with Distance", prop.ForAll(
		func(edgePairs []int, ai int) bool {
			g, ids := propertyGraph(edgePairs)
			ix := New(g)
			a := ids[ai]
			dist := ix.DistancesFrom(a)
			for _, id := range ids {
				d, reached := dist[id]
				if !reached {
					d = Unreachable
				}
				if id == a {
					d = 0
				}
				if ix.Distance(a, id) != d {
					return false
				}
			}
			return true
		},
		edgeGen,
		gen.IntRange(0, propertyNodeCount-1),
	))

	// Property 6: invalidate then requery is stable
	properties.Property("invalidate preserves answers for unchanged graphs", prop.ForAll(
		func(edgePairs []int, ai, bi int) bool {
			g, ids := propertyGraph(edgePairs)
			ix := New(g)
			a, b := ids[ai], ids[bi]
			before := ix.Distance(a, b)
			ix.Invalidate()
			return ix.Distance(a, b) == before
		},
		edgeGen,
		gen.IntRange(0, propertyNodeCount-1),
		gen.IntRange(0, propertyNodeCount-1),
	))

	properties.TestingRun(t)
}
