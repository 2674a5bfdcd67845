package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"

	"github.com/nodeglow/nodeglow/pkg/graph"
	"github.com/nodeglow/nodeglow/pkg/widget"
)

// =============================================================================
// Wire Types
// =============================================================================

// CreateGraphRequest loads a graph into a new widget. Options overlay the
// server's base template field by field; absent fields keep the template
// values.
type CreateGraphRequest struct {
	Data    graph.RawGraph  `json:"data"`
	Options json.RawMessage `json:"options,omitempty"`
}

// GraphResponse describes one hosted widget. Options echoes the effective,
// fully defaulted configuration.
type GraphResponse struct {
	GraphID string         `json:"graph_id"`
	Stats   graph.Stats    `json:"stats"`
	Options widget.Options `json:"options"`
}

// GraphSummary is one row of the graph listing.
type GraphSummary struct {
	GraphID string      `json:"graph_id"`
	Stats   graph.Stats `json:"stats"`
}

// ListGraphsResponse is the graph listing body.
type ListGraphsResponse struct {
	Graphs []GraphSummary `json:"graphs"`
	Count  int            `json:"count"`
}

// PositionsRequest carries physics coordinates for a batch of nodes.
type PositionsRequest struct {
	Positions map[string]widget.Position `json:"positions"`
}

// PositionsResponse reports how many of the pushed coordinates matched
// known nodes.
type PositionsResponse struct {
	GraphID string `json:"graph_id"`
	Applied int    `json:"applied"`
	Total   int    `json:"total"`
}

// =============================================================================
// Handlers
// =============================================================================

// handleCreateGraph serves POST /api/v1/graphs.
func (s *Server) handleCreateGraph(w http.ResponseWriter, r *http.Request) {
	var req CreateGraphRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	opts, err := s.baseOpts.Merged(req.Options)
	if err != nil {
		writeError(w, err)
		return
	}
	opts.Cache = s.cache
	opts.Keyer = s.keyer
	opts.Logger = s.logger

	g, err := graph.FromRaw(req.Data)
	if err != nil {
		writeError(w, err)
		return
	}

	wdg, err := widget.New(g, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	s.register(wdg)

	s.logger.Info("graph loaded", "graph", wdg.ID(),
		"nodes", wdg.Stats().NodeCount, "links", wdg.Stats().LinkCount)
	writeJSON(w, http.StatusCreated, GraphResponse{
		GraphID: wdg.ID(),
		Stats:   wdg.Stats(),
		Options: wdg.Options(),
	})
}

// handleListGraphs serves GET /api/v1/graphs.
func (s *Server) handleListGraphs(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	graphs := make([]GraphSummary, 0, len(s.widgets))
	for id, wdg := range s.widgets {
		graphs = append(graphs, GraphSummary{GraphID: id, Stats: wdg.Stats()})
	}
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, ListGraphsResponse{Graphs: graphs, Count: len(graphs)})
}

// handleGetGraph serves GET /api/v1/graphs/{graphID}.
func (s *Server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	wdg, err := s.widget(chi.URLParam(r, "graphID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, GraphResponse{
		GraphID: wdg.ID(),
		Stats:   wdg.Stats(),
		Options: wdg.Options(),
	})
}

// handleDeleteGraph serves DELETE /api/v1/graphs/{graphID}.
func (s *Server) handleDeleteGraph(w http.ResponseWriter, r *http.Request) {
	graphID := chi.URLParam(r, "graphID")
	if !s.unregister(graphID) {
		writeError(w, graphNotFound(graphID))
		return
	}
	s.logger.Info("graph removed", "graph", graphID)
	w.WriteHeader(http.StatusNoContent)
}

// handleReplaceData serves PUT /api/v1/graphs/{graphID}/data. The body is
// the raw node-link payload itself.
func (s *Server) handleReplaceData(w http.ResponseWriter, r *http.Request) {
	wdg, err := s.widget(chi.URLParam(r, "graphID"))
	if err != nil {
		writeError(w, err)
		return
	}

	var raw graph.RawGraph
	if err := decodeBody(r, &raw); err != nil {
		writeError(w, err)
		return
	}
	if err := wdg.ReplaceData(raw); err != nil {
		writeError(w, err)
		return
	}

	stats := wdg.Stats()
	s.stream.Publish(wdg.ID(), StreamEvent{Event: "graph_updated", Data: map[string]any{
		"graph_id": wdg.ID(),
		"nodes":    stats.NodeCount,
		"links":    stats.LinkCount,
	}})
	writeJSON(w, http.StatusOK, GraphSummary{GraphID: wdg.ID(), Stats: stats})
}

// handlePositions serves POST /api/v1/graphs/{graphID}/positions. Unknown
// node ids are counted but otherwise ignored, matching the tolerance of the
// physics boundary.
func (s *Server) handlePositions(w http.ResponseWriter, r *http.Request) {
	wdg, err := s.widget(chi.URLParam(r, "graphID"))
	if err != nil {
		writeError(w, err)
		return
	}

	var req PositionsRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	applied := wdg.ApplyPositions(req.Positions)
	writeJSON(w, http.StatusOK, PositionsResponse{
		GraphID: wdg.ID(),
		Applied: applied,
		Total:   len(req.Positions),
	})
}
