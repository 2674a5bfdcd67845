package graph

import (
	"encoding/hex"
	"slices"

	"github.com/google/uuid"
)

// =============================================================================
// Graph - Normalized Model
// =============================================================================

// Graph is the normalized, validated knowledge graph consumed by the core
// algorithms. Build one with FromRaw or FromJSON; the zero value is usable
// only as an empty placeholder (Loaded reports false).
//
// Graph is safe for concurrent reads but not concurrent writes.
type Graph struct {
	id        string
	nodes     []*Node
	nodeByID  map[string]*Node
	links     []*Link
	layers    []Layer
	timeRange *TimeRange
	synthetic int
	loaded    bool
}

// New creates an empty graph with a fresh instance id. Use FromRaw to build
// a populated graph.
func New() *Graph {
	return &Graph{
		id:       NewID(),
		nodeByID: make(map[string]*Node),
	}
}

// NewID returns a graph instance id of the form "kg_" followed by eight hex
// characters. Ids distinguish widget instances embedded in the same page.
func NewID() string {
	u := uuid.New()
	return "kg_" + hex.EncodeToString(u[:4])
}

// ID returns the graph instance id.
func (g *Graph) ID() string { return g.id }

// Loaded reports whether graph data has been ingested.
func (g *Graph) Loaded() bool { return g.loaded }

// =============================================================================
// Accessors
// =============================================================================

// Nodes returns the nodes in stable input order. The slice is a copy; the
// pointed-to nodes are shared.
func (g *Graph) Nodes() []*Node {
	return slices.Clone(g.nodes)
}

// Node returns the node with the given id, or false when unknown.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodeByID[id]
	return n, ok
}

// Links returns all links, explicit first, then synthesized parent links, in
// stable order. The slice is a copy; the pointed-to links are shared.
func (g *Graph) Links() []*Link {
	return slices.Clone(g.links)
}

// Layers returns the layer definitions in input order.
func (g *Graph) Layers() []Layer {
	return slices.Clone(g.layers)
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// LinkCount returns the number of links, synthesized parent links included.
func (g *Graph) LinkCount() int { return len(g.links) }

// AddLayer appends a layer definition. Later compositions pick up the new
// layer immediately; existing nodes referencing its id need no change.
func (g *Graph) AddLayer(l Layer) {
	g.layers = append(g.layers, l)
}

// =============================================================================
// Timeline
// =============================================================================

// TimeRange returns the timeline extent and whether one is known. The range
// is auto-computed from node timespans at ingestion unless overridden.
func (g *Graph) TimeRange() (TimeRange, bool) {
	if g.timeRange == nil {
		return TimeRange{}, false
	}
	return *g.timeRange, true
}

// SetTimeRange overrides the auto-computed timeline extent.
func (g *Graph) SetTimeRange(start, end int) {
	g.timeRange = &TimeRange{Start: start, End: end}
}

// autoTimeRange computes the timeline extent as the min and max over all
// nonzero timespan years. Zero years are treated as absent. Does nothing
// when an extent is already set or no node carries a timespan.
func (g *Graph) autoTimeRange() {
	if g.timeRange != nil {
		return
	}
	var years []int
	for _, n := range g.nodes {
		if n.Timespan == nil {
			continue
		}
		if n.Timespan.Start != 0 {
			years = append(years, n.Timespan.Start)
		}
		if n.Timespan.End != 0 {
			years = append(years, n.Timespan.End)
		}
	}
	if len(years) == 0 {
		return
	}
	g.timeRange = &TimeRange{Start: slices.Min(years), End: slices.Max(years)}
}

// =============================================================================
// Stats
// =============================================================================

// Stats summarizes a loaded graph. Loaded is false for an empty graph and
// all other fields are then zero.
type Stats struct {
	Loaded             bool           `json:"loaded"`
	GraphID            string         `json:"graph_id,omitempty"`
	NodeCount          int            `json:"node_count,omitempty"`
	LinkCount          int            `json:"link_count,omitempty"`
	SyntheticLinkCount int            `json:"synthetic_link_count,omitempty"`
	LayerCount         int            `json:"layer_count,omitempty"`
	SubnodeCount       int            `json:"subnode_count,omitempty"`
	Audiences          map[string]int `json:"audiences,omitempty"`
	TimeRange          *TimeRange     `json:"timeline_range,omitempty"`
}

// Stats returns summary statistics for the graph.
func (g *Graph) Stats() Stats {
	if !g.loaded {
		return Stats{}
	}
	s := Stats{
		Loaded:             true,
		GraphID:            g.id,
		NodeCount:          len(g.nodes),
		LinkCount:          len(g.links),
		SyntheticLinkCount: g.synthetic,
		LayerCount:         len(g.layers),
		Audiences:          make(map[string]int),
	}
	for _, n := range g.nodes {
		if n.Subnode {
			s.SubnodeCount++
		}
		for _, tag := range n.Audience {
			s.Audiences[tag]++
		}
	}
	if g.timeRange != nil {
		tr := *g.timeRange
		s.TimeRange = &tr
	}
	return s
}
