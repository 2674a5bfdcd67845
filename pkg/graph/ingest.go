package graph

import (
	"slices"

	json "github.com/goccy/go-json"

	"github.com/nodeglow/nodeglow/pkg/errors"
)

// =============================================================================
// Raw Wire Types
// =============================================================================

// RawGraph is the tolerant wire format accepted at the ingestion boundary.
type RawGraph struct {
	Nodes  []RawNode `json:"nodes"`
	Links  []RawLink `json:"links"`
	Layers []Layer   `json:"layers"`
}

// RawNode mirrors the client node format. Pointer fields distinguish absent
// from zero so ingestion can apply defaults. Both parent formats are
// accepted: parent_node (single, possibly null) and parent_nodes (list).
type RawNode struct {
	ID          string    `json:"id"`
	Label       string    `json:"label"`
	X           float64   `json:"x"`
	Y           float64   `json:"y"`
	Size        *float64  `json:"size"`
	Layer       string    `json:"layer"`
	Type        string    `json:"type"`
	Audience    []string  `json:"audience"`
	ParentNode  *string   `json:"parent_node"`
	ParentNodes []string  `json:"parent_nodes"`
	Subnode     bool      `json:"subnode"`
	Timespan    *Timespan `json:"timespan"`
	Description string    `json:"description"`
}

// RawLink mirrors the client link format. Endpoints accept plain string ids
// or node objects.
type RawLink struct {
	Source   Endpoint `json:"source"`
	Target   Endpoint `json:"target"`
	Strength *float64 `json:"strength"`
}

// =============================================================================
// Ingestion API
// =============================================================================

// FromRaw validates raw data and builds a normalized Graph.
//
// Validation covers required id and label fields, unique node ids, parent
// references, and link endpoints. Defaults are applied for absent size,
// audience, and strength. Each parent declaration synthesizes one link from
// parent to child; a self-parent yields a self link, which traversal ignores.
func FromRaw(raw RawGraph) (*Graph, error) {
	g := New()
	if err := g.load(raw); err != nil {
		return nil, err
	}
	return g, nil
}

// FromJSON decodes node-link JSON bytes and builds a normalized Graph.
func FromJSON(data []byte) (*Graph, error) {
	raw, err := ParseRaw(data)
	if err != nil {
		return nil, err
	}
	return FromRaw(raw)
}

// ParseRaw decodes node-link JSON bytes into the raw wire format without
// validating. Use FromRaw to validate and normalize.
func ParseRaw(data []byte) (RawGraph, error) {
	var raw RawGraph
	if err := json.Unmarshal(data, &raw); err != nil {
		return RawGraph{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode graph data")
	}
	return raw, nil
}

// =============================================================================
// Internal Implementation
// =============================================================================

func (g *Graph) load(raw RawGraph) error {
	seen := make(map[string]struct{}, len(raw.Nodes))
	nodes := make([]*Node, 0, len(raw.Nodes))

	for i, rn := range raw.Nodes {
		if rn.ID == "" {
			return errors.New(errors.ErrCodeInvalidNode, "node %d is missing required 'id' field", i)
		}
		if rn.Label == "" {
			return errors.New(errors.ErrCodeInvalidNode, "node %s is missing required 'label' field", rn.ID)
		}
		if err := errors.ValidateNodeID(rn.ID); err != nil {
			return err
		}
		if _, dup := seen[rn.ID]; dup {
			return errors.New(errors.ErrCodeDuplicateNode, "duplicate node id: %s", rn.ID)
		}
		seen[rn.ID] = struct{}{}

		n, err := nodeFromRaw(rn)
		if err != nil {
			return err
		}
		nodes = append(nodes, n)
	}

	for _, n := range nodes {
		for _, parent := range n.Parents {
			if _, ok := seen[parent]; !ok {
				return errors.New(errors.ErrCodeUnknownRef,
					"node %s references unknown parent: %s", n.ID, parent)
			}
		}
	}

	links := make([]*Link, 0, len(raw.Links))
	for i, rl := range raw.Links {
		src, tgt := string(rl.Source), string(rl.Target)
		if src == "" {
			return errors.New(errors.ErrCodeInvalidLink, "link %d is missing required 'source' field", i)
		}
		if tgt == "" {
			return errors.New(errors.ErrCodeInvalidLink, "link %d is missing required 'target' field", i)
		}
		if _, ok := seen[src]; !ok {
			return errors.New(errors.ErrCodeUnknownRef,
				"link %d references unknown source node: %s", i, src)
		}
		if _, ok := seen[tgt]; !ok {
			return errors.New(errors.ErrCodeUnknownRef,
				"link %d references unknown target node: %s", i, tgt)
		}

		strength := DefaultLinkStrength
		if rl.Strength != nil {
			strength = *rl.Strength
		}
		if err := errors.ValidateStrength(strength); err != nil {
			return err
		}
		links = append(links, &Link{SourceID: src, TargetID: tgt, Strength: strength})
	}

	// Parent declarations become links so hierarchy participates in
	// distance, placement, and effects like any explicit connection.
	synthetic := 0
	for _, n := range nodes {
		for _, parent := range n.Parents {
			links = append(links, &Link{
				SourceID:  parent,
				TargetID:  n.ID,
				Strength:  DefaultLinkStrength,
				Synthetic: true,
			})
			synthetic++
		}
	}

	g.nodes = nodes
	g.nodeByID = make(map[string]*Node, len(nodes))
	for _, n := range nodes {
		g.nodeByID[n.ID] = n
	}
	g.links = links
	g.layers = slices.Clone(raw.Layers)
	g.synthetic = synthetic
	g.autoTimeRange()
	g.loaded = true
	return nil
}

// nodeFromRaw normalizes one raw node: defaults for size and audience, and
// parent_node/parent_nodes merged into Parents with duplicates dropped.
func nodeFromRaw(rn RawNode) (*Node, error) {
	n := &Node{
		ID:          rn.ID,
		Label:       rn.Label,
		X:           rn.X,
		Y:           rn.Y,
		Size:        DefaultNodeSize,
		Layer:       rn.Layer,
		Type:        rn.Type,
		Subnode:     rn.Subnode,
		Description: rn.Description,
	}
	if rn.Size != nil {
		n.Size = *rn.Size
	}

	if len(rn.Audience) > 0 {
		for _, tag := range rn.Audience {
			if err := errors.ValidateAudienceTag(tag); err != nil {
				return nil, err
			}
		}
		n.Audience = slices.Clone(rn.Audience)
	} else {
		n.Audience = []string{DefaultAudience}
	}

	if rn.ParentNode != nil && *rn.ParentNode != "" {
		n.Parents = append(n.Parents, *rn.ParentNode)
	}
	for _, parent := range rn.ParentNodes {
		if parent != "" && !slices.Contains(n.Parents, parent) {
			n.Parents = append(n.Parents, parent)
		}
	}

	if rn.Timespan != nil {
		ts := *rn.Timespan
		n.Timespan = &ts
	}
	return n, nil
}
