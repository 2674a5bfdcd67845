package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nodeglow/nodeglow/pkg/effects"
	"github.com/nodeglow/nodeglow/pkg/errors"
	"github.com/nodeglow/nodeglow/pkg/session"
	"github.com/nodeglow/nodeglow/pkg/widget"
)

// sessionHeader carries the optional viewer session id. Events arriving
// with it are appended to that session's interaction trail.
const sessionHeader = "X-Session-ID"

// Event type values accepted by the events endpoint.
const (
	EventTypeHover    = "hover"
	EventTypeHoverEnd = "hover_end"
	EventTypeLayer    = "layer"
	EventTypeAudience = "audience"
	EventTypeSelect   = "select"
	EventTypeDeselect = "deselect"
	EventTypeZoom     = "zoom"
)

// =============================================================================
// Wire Types
// =============================================================================

// EventRequest is one interaction event. Which fields matter depends on
// Type: hover and select take node_id (hover also distance), layer takes
// layer_id, audience takes audience_id, zoom takes scale. Empty layer_id or
// audience_id clears the respective filter.
type EventRequest struct {
	Type       string  `json:"type"`
	NodeID     string  `json:"node_id,omitempty"`
	LayerID    string  `json:"layer_id,omitempty"`
	AudienceID string  `json:"audience_id,omitempty"`
	Distance   float64 `json:"distance,omitempty"`
	Scale      float64 `json:"scale,omitempty"`
}

// EventResponse reports the interaction mode after the event was applied.
type EventResponse struct {
	GraphID string `json:"graph_id"`
	Mode    string `json:"mode"`
}

// StateResponse is the composed visual state.
type StateResponse struct {
	GraphID string               `json:"graph_id"`
	Mode    string               `json:"mode"`
	Effects *effects.EffectState `json:"effects"`
	Cached  bool                 `json:"cached"`
}

// LabelsResponse is the resolved label layout.
type LabelsResponse struct {
	GraphID string             `json:"graph_id"`
	Labels  []widget.Placement `json:"labels"`
	Cached  bool               `json:"cached"`
}

// DistancesResponse maps reachable node ids to hop counts from the source.
type DistancesResponse struct {
	GraphID   string         `json:"graph_id"`
	Source    string         `json:"source"`
	Distances map[string]int `json:"distances"`
	Cached    bool           `json:"cached"`
}

// =============================================================================
// Handlers
// =============================================================================

// handleEvents serves POST /api/v1/graphs/{graphID}/events.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	wdg, err := s.widget(chi.URLParam(r, "graphID"))
	if err != nil {
		writeError(w, err)
		return
	}

	var req EventRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := s.applyEvent(wdg, req); err != nil {
		writeError(w, err)
		return
	}
	s.recordSessionEvent(r, req)

	mode := wdg.Mode().String()
	s.stream.Publish(wdg.ID(), StreamEvent{Event: "state_changed", Data: map[string]any{
		"graph_id": wdg.ID(),
		"mode":     mode,
		"event":    req.Type,
	}})
	writeJSON(w, http.StatusOK, EventResponse{GraphID: wdg.ID(), Mode: mode})
}

// applyEvent dispatches one event onto the widget.
func (s *Server) applyEvent(wdg *widget.Widget, req EventRequest) error {
	switch req.Type {
	case EventTypeHover:
		if req.NodeID == "" {
			return errors.New(errors.ErrCodeInvalidEvent, "hover event requires node_id")
		}
		wdg.Hover(req.NodeID, req.Distance)
	case EventTypeHoverEnd:
		wdg.HoverEnd()
	case EventTypeLayer:
		wdg.FocusLayer(req.LayerID)
	case EventTypeAudience:
		wdg.SetAudience(req.AudienceID)
	case EventTypeSelect:
		if req.NodeID == "" {
			return errors.New(errors.ErrCodeInvalidEvent, "select event requires node_id")
		}
		wdg.Select(req.NodeID)
	case EventTypeDeselect:
		wdg.ClearSelection()
	case EventTypeZoom:
		if req.Scale <= 0 {
			return errors.New(errors.ErrCodeInvalidEvent, "zoom event requires a positive scale")
		}
		wdg.SetZoom(req.Scale)
	default:
		return errors.New(errors.ErrCodeInvalidEvent, "unknown event type: %q", req.Type)
	}
	return nil
}

// recordSessionEvent appends the event to the viewer session named by the
// request header, when one is present. Recording is best effort: a missing
// or expired session only logs. Zoom events are not part of the trail since
// they carry no interaction target.
func (s *Server) recordSessionEvent(r *http.Request, req EventRequest) {
	sessionID := r.Header.Get(sessionHeader)
	if sessionID == "" || req.Type == EventTypeZoom {
		return
	}

	kind, target := sessionKind(req)

	sess, err := s.sessions.Get(r.Context(), sessionID)
	if err != nil || sess == nil {
		s.logger.Debug("event not recorded", "session", sessionID, "err", err)
		return
	}
	sess.Record(session.EventRecord{Kind: kind, Target: target, Distance: req.Distance})
	if err := s.sessions.Set(r.Context(), sess); err != nil {
		s.logger.Warn("session update failed", "session", sessionID, "err", err)
		return
	}
	s.metrics.RecordSessionEvent(kind)
}

// sessionKind maps an API event onto its trail kind and target.
func sessionKind(req EventRequest) (kind, target string) {
	switch req.Type {
	case EventTypeHover:
		return session.EventHover, req.NodeID
	case EventTypeHoverEnd:
		return session.EventHoverEnd, ""
	case EventTypeLayer:
		return session.EventLayer, req.LayerID
	case EventTypeAudience:
		return session.EventAudience, req.AudienceID
	case EventTypeSelect:
		return session.EventSelect, req.NodeID
	case EventTypeDeselect:
		return session.EventDeselect, ""
	default:
		return req.Type, ""
	}
}

// handleState serves GET /api/v1/graphs/{graphID}/state.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	wdg, err := s.widget(chi.URLParam(r, "graphID"))
	if err != nil {
		writeError(w, err)
		return
	}

	state, cached := wdg.StateWithCacheInfo(r.Context())
	writeJSON(w, http.StatusOK, StateResponse{
		GraphID: wdg.ID(),
		Mode:    state.Mode.String(),
		Effects: state,
		Cached:  cached,
	})
}

// handleLabels serves GET /api/v1/graphs/{graphID}/labels.
func (s *Server) handleLabels(w http.ResponseWriter, r *http.Request) {
	wdg, err := s.widget(chi.URLParam(r, "graphID"))
	if err != nil {
		writeError(w, err)
		return
	}

	labels, cached := wdg.PlaceLabelsWithCacheInfo(r.Context())
	writeJSON(w, http.StatusOK, LabelsResponse{
		GraphID: wdg.ID(),
		Labels:  labels,
		Cached:  cached,
	})
}

// handleDistances serves GET /api/v1/graphs/{graphID}/distances?source=id.
func (s *Server) handleDistances(w http.ResponseWriter, r *http.Request) {
	wdg, err := s.widget(chi.URLParam(r, "graphID"))
	if err != nil {
		writeError(w, err)
		return
	}

	source := r.URL.Query().Get("source")
	if source == "" {
		writeErrorCode(w, errors.ErrCodeInvalidEvent, "missing required query parameter: source")
		return
	}

	distances, cached := wdg.Distances(r.Context(), source)
	writeJSON(w, http.StatusOK, DistancesResponse{
		GraphID:   wdg.ID(),
		Source:    source,
		Distances: distances,
		Cached:    cached,
	})
}

// handleSnapshot serves GET /api/v1/graphs/{graphID}/snapshot.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	wdg, err := s.widget(chi.URLParam(r, "graphID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wdg.Snapshot(r.Context()))
}
