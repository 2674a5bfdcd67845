package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nodeglow/nodeglow/pkg/errors"
	"github.com/nodeglow/nodeglow/pkg/session"
)

// CreateSessionRequest opens a viewer session against a hosted graph.
type CreateSessionRequest struct {
	GraphID string `json:"graph_id"`
}

// handleCreateSession serves POST /api/v1/sessions.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if _, err := s.widget(req.GraphID); err != nil {
		writeError(w, err)
		return
	}

	sess, err := session.New(req.GraphID, session.DefaultTTL)
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "create session"))
		return
	}
	if err := s.sessions.Set(r.Context(), sess); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "store session"))
		return
	}

	s.metrics.RecordSessionCreated()
	s.logger.Info("session created", "session", sess.ID, "graph", sess.GraphID)
	writeJSON(w, http.StatusCreated, sess)
}

// handleGetSession serves GET /api/v1/sessions/{sessionID}.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	sess, err := s.sessions.Get(r.Context(), sessionID)
	switch {
	case err == session.ErrExpired:
		writeErrorCode(w, errors.ErrCodeSessionExpired, "session expired: %s", sessionID)
		return
	case err != nil:
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "load session"))
		return
	case sess == nil:
		writeErrorCode(w, errors.ErrCodeSessionNotFound, "session not found: %s", sessionID)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// handleDeleteSession serves DELETE /api/v1/sessions/{sessionID}.
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if err := s.sessions.Delete(r.Context(), sessionID); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "delete session"))
		return
	}
	s.metrics.RecordSessionClosed()
	w.WriteHeader(http.StatusNoContent)
}
