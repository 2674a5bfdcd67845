package graph

import (
	"slices"

	json "github.com/goccy/go-json"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Defaults applied during ingestion when a field is absent.
const (
	// DefaultNodeSize is the base radius assigned to nodes without a size.
	DefaultNodeSize = 10.0

	// DefaultLinkStrength is assigned to links (including synthesized
	// parent links) without an explicit strength.
	DefaultLinkStrength = 0.5

	// DefaultAudience is the audience tag assigned to nodes without one.
	DefaultAudience = "general"
)

// =============================================================================
// Node
// =============================================================================

// Node is a vertex in the knowledge graph.
//
// X and Y are owned by the external physics simulation: the core reads them
// but never moves nodes. Position updates arrive through the widget's
// ApplyPositions boundary.
type Node struct {
	ID          string    `json:"id"`
	Label       string    `json:"label"`
	X           float64   `json:"x,omitempty"`
	Y           float64   `json:"y,omitempty"`
	Size        float64   `json:"size,omitempty"`     // Base radius, default 10
	Layer       string    `json:"layer,omitempty"`    // Category tag, matches Layer.ID
	Type        string    `json:"type,omitempty"`     // Free-form kind tag
	Audience    []string  `json:"audience,omitempty"` // Tag set, default ["general"]
	Parents     []string  `json:"parents,omitempty"`  // Normalized from parent_node/parent_nodes
	Subnode     bool      `json:"subnode,omitempty"`
	Timespan    *Timespan `json:"timespan,omitempty"`
	Description string    `json:"description,omitempty"`
}

// HasAudience reports whether the node carries the given audience tag.
func (n *Node) HasAudience(tag string) bool {
	return slices.Contains(n.Audience, tag)
}

// HasAnyAudience reports whether the node carries at least one of the given
// audience tags. An empty tag set matches nothing.
func (n *Node) HasAnyAudience(tags []string) bool {
	for _, tag := range tags {
		if slices.Contains(n.Audience, tag) {
			return true
		}
	}
	return false
}

// =============================================================================
// Link
// =============================================================================

// Link is an undirected connection between two nodes. SourceID and TargetID
// record the input orientation (parent to child for synthesized links), but
// all core algorithms treat links as unordered pairs.
type Link struct {
	SourceID string  `json:"source"`
	TargetID string  `json:"target"`
	Strength float64 `json:"strength,omitempty"` // In [0,1], default 0.5

	// Synthetic marks links synthesized from parent declarations rather
	// than listed in the raw link array.
	Synthetic bool `json:"synthetic,omitempty"`
}

// Touches reports whether either endpoint is the given node id.
func (l *Link) Touches(id string) bool {
	return l.SourceID == id || l.TargetID == id
}

// IsSelf reports whether both endpoints are the same node. Self links are
// legal (a node may declare itself as parent) and ignored by traversal.
func (l *Link) IsSelf() bool { return l.SourceID == l.TargetID }

// =============================================================================
// Layer
// =============================================================================

// Layer is a named node category. Color drives the renderer's node color
// table; the core only matches Layer.ID against Node.Layer.
type Layer struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Color string `json:"color,omitempty"` // Hex string, e.g. "#2780e3"
}

// =============================================================================
// Timespan
// =============================================================================

// Timespan is a node's lifetime as a year range.
type Timespan struct {
	Start int `json:"start,omitempty"`
	End   int `json:"end,omitempty"`
}

// TimeRange is the graph-level timeline extent, auto-computed from node
// timespans or set explicitly via Graph.SetTimeRange.
type TimeRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// =============================================================================
// Endpoint - Duck-Typed Link Endpoint
// =============================================================================

// Endpoint is a link endpoint id that unmarshals from either a plain string
// or an object carrying an "id" field. Physics engines rewrite endpoints to
// node object references after binding, so re-ingested data may carry either
// shape.
type Endpoint string

// UnmarshalJSON accepts "a" or {"id": "a"} and normalizes to the string id.
func (e *Endpoint) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*e = Endpoint(s)
		return nil
	}
	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*e = Endpoint(obj.ID)
	return nil
}
