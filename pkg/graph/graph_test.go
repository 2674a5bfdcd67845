package graph

import (
	"strings"
	"testing"
)

func TestNewID(t *testing.T) {
	id := NewID()

	if !strings.HasPrefix(id, "kg_") {
		t.Errorf("id %q missing kg_ prefix", id)
	}
	if len(id) != len("kg_")+8 {
		t.Errorf("id length = %d, want %d", len(id), len("kg_")+8)
	}

	// Instance ids must differ between graphs on the same page.
	if NewID() == id {
		t.Error("consecutive ids collide")
	}
}

func TestTimeRangeAuto(t *testing.T) {
	tests := []struct {
		name      string
		raw       RawGraph
		wantSet   bool
		wantStart int
		wantEnd   int
	}{
		{
			name: "FromTimespans",
			raw: RawGraph{
				Nodes: []RawNode{
					{ID: "a", Label: "A", Timespan: &Timespan{Start: 2020, End: 2022}},
					{ID: "b", Label: "B", Timespan: &Timespan{Start: 2021, End: 2023}},
				},
			},
			wantSet:   true,
			wantStart: 2020,
			wantEnd:   2023,
		},
		{
			name: "NoTimespans",
			raw: RawGraph{
				Nodes: []RawNode{{ID: "a", Label: "A"}},
			},
			wantSet: false,
		},
		{
			name: "ZeroYearsIgnored",
			raw: RawGraph{
				Nodes: []RawNode{
					{ID: "a", Label: "A", Timespan: &Timespan{Start: 2020}},
					{ID: "b", Label: "B", Timespan: &Timespan{}},
				},
			},
			wantSet:   true,
			wantStart: 2020,
			wantEnd:   2020,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := FromRaw(tt.raw)
			if err != nil {
				t.Fatalf("FromRaw: %v", err)
			}

			tr, ok := g.TimeRange()
			if ok != tt.wantSet {
				t.Fatalf("TimeRange() set = %v, want %v", ok, tt.wantSet)
			}
			if !ok {
				return
			}
			if tr.Start != tt.wantStart || tr.End != tt.wantEnd {
				t.Errorf("range = [%d, %d], want [%d, %d]", tr.Start, tr.End, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestSetTimeRange(t *testing.T) {
	g, err := FromRaw(RawGraph{
		Nodes: []RawNode{
			{ID: "a", Label: "A", Timespan: &Timespan{Start: 2020, End: 2022}},
		},
	})
	if err != nil {
		t.Fatalf("FromRaw: %v", err)
	}

	g.SetTimeRange(2015, 2025)

	tr, ok := g.TimeRange()
	if !ok {
		t.Fatal("TimeRange() not set after SetTimeRange")
	}
	if tr.Start != 2015 || tr.End != 2025 {
		t.Errorf("range = [%d, %d], want [2015, 2025]", tr.Start, tr.End)
	}
}

func TestStats(t *testing.T) {
	g, err := FromRaw(RawGraph{
		Nodes: []RawNode{
			{ID: "a", Label: "A", Audience: []string{"expert"}, Timespan: &Timespan{Start: 2020, End: 2022}},
			{ID: "b", Label: "B", Subnode: true, ParentNode: strptr("a")},
			{ID: "c", Label: "C"},
		},
		Links: []RawLink{
			{Source: "a", Target: "c"},
		},
		Layers: []Layer{{ID: "l1", Name: "Layer 1"}},
	})
	if err != nil {
		t.Fatalf("FromRaw: %v", err)
	}

	s := g.Stats()

	if !s.Loaded {
		t.Error("Loaded = false")
	}
	if s.GraphID != g.ID() {
		t.Errorf("GraphID = %q, want %q", s.GraphID, g.ID())
	}
	if s.NodeCount != 3 {
		t.Errorf("NodeCount = %d, want 3", s.NodeCount)
	}
	if s.LinkCount != 2 {
		t.Errorf("LinkCount = %d, want 2", s.LinkCount)
	}
	if s.SyntheticLinkCount != 1 {
		t.Errorf("SyntheticLinkCount = %d, want 1", s.SyntheticLinkCount)
	}
	if s.LayerCount != 1 {
		t.Errorf("LayerCount = %d, want 1", s.LayerCount)
	}
	if s.SubnodeCount != 1 {
		t.Errorf("SubnodeCount = %d, want 1", s.SubnodeCount)
	}
	if s.Audiences["expert"] != 1 || s.Audiences["general"] != 2 {
		t.Errorf("Audiences = %v, want expert:1 general:2", s.Audiences)
	}
	if s.TimeRange == nil || s.TimeRange.Start != 2020 || s.TimeRange.End != 2022 {
		t.Errorf("TimeRange = %+v, want [2020, 2022]", s.TimeRange)
	}
}

func TestStatsUnloaded(t *testing.T) {
	s := New().Stats()

	if s.Loaded {
		t.Error("Loaded = true for empty graph")
	}
	if s.NodeCount != 0 || s.GraphID != "" {
		t.Errorf("unloaded stats should be zero, got %+v", s)
	}
}

func TestAddLayer(t *testing.T) {
	g, err := FromRaw(RawGraph{
		Nodes: []RawNode{{ID: "a", Label: "A", Layer: "new"}},
	})
	if err != nil {
		t.Fatalf("FromRaw: %v", err)
	}

	g.AddLayer(Layer{ID: "new", Name: "New Layer", Color: "#3fb618"})

	layers := g.Layers()
	if len(layers) != 1 || layers[0].ID != "new" {
		t.Errorf("layers = %+v, want one layer with id new", layers)
	}
	if g.Stats().LayerCount != 1 {
		t.Errorf("LayerCount = %d, want 1", g.Stats().LayerCount)
	}
}

func TestNodeAudienceHelpers(t *testing.T) {
	n := &Node{ID: "a", Audience: []string{"general", "expert"}}

	if !n.HasAudience("expert") {
		t.Error("HasAudience(expert) = false")
	}
	if n.HasAudience("novice") {
		t.Error("HasAudience(novice) = true")
	}
	if !n.HasAnyAudience([]string{"novice", "general"}) {
		t.Error("HasAnyAudience with one match = false")
	}
	if n.HasAnyAudience(nil) {
		t.Error("HasAnyAudience(nil) = true, empty set should match nothing")
	}
}

func TestAccessorsCopy(t *testing.T) {
	g, err := FromRaw(RawGraph{
		Nodes: []RawNode{
			{ID: "a", Label: "A"},
			{ID: "b", Label: "B"},
		},
	})
	if err != nil {
		t.Fatalf("FromRaw: %v", err)
	}

	nodes := g.Nodes()
	nodes[0] = nil

	if got := g.Nodes()[0]; got == nil || got.ID != "a" {
		t.Error("mutating the returned slice must not affect the graph")
	}
}
