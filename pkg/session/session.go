// Package session tracks viewer sessions for served widgets.
//
// A session ties one viewer to one graph and records the interaction
// events the server replayed into the widget (hover, layer focus, audience
// filter, selection). Sessions expire after a TTL and never store graph
// data, only the event trail.
//
// Two backends implement the Store interface:
//   - memory: In-memory storage for single-process deployments and tests
//   - mongo: MongoDB-backed storage for multi-instance deployments
//
// # Usage
//
// Create a session store:
//
//	// Development
//	store := NewMemoryStore()
//
//	// Production
//	store, err := NewMongoStore(ctx, "mongodb://localhost:27017", "nodeglow", "sessions")
//
// Manage sessions:
//
//	sess, err := session.New(graphID, session.DefaultTTL)
//	if err != nil {
//	    return err
//	}
//	store.Set(ctx, sess)
//
//	sess, err = store.Get(ctx, sessionID)
//	if err != nil {
//	    return err // includes ErrExpired
//	}
//	if sess == nil {
//	    // Session not found
//	}
package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"slices"
	"time"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("not found")

	// ErrExpired is returned when a session has exceeded its TTL.
	ErrExpired = errors.New("expired")
)

// Default durations and bounds.
const (
	// DefaultTTL is the default session duration.
	DefaultTTL = 24 * time.Hour

	// MaxEvents bounds the recorded event trail per session. Older events
	// are dropped first.
	MaxEvents = 500
)

// Event kinds recorded by the server.
const (
	EventHover    = "hover"
	EventHoverEnd = "hover_end"
	EventLayer    = "layer"
	EventAudience = "audience"
	EventSelect   = "select"
	EventDeselect = "deselect"
)

// EventRecord is one interaction event. Target carries the node, layer, or
// audience id the event referred to; Distance carries the pointer distance
// for hover events and is zero otherwise.
type EventRecord struct {
	At       time.Time `json:"at" bson:"at"`
	Kind     string    `json:"kind" bson:"kind"`
	Target   string    `json:"target,omitempty" bson:"target,omitempty"`
	Distance float64   `json:"distance,omitempty" bson:"distance,omitempty"`
}

// Session stores one viewer's interaction trail against a graph.
type Session struct {
	ID          string        `json:"id" bson:"_id"`
	GraphID     string        `json:"graph_id" bson:"graph_id"`
	CreatedAt   time.Time     `json:"created_at" bson:"created_at"`
	ExpiresAt   time.Time     `json:"expires_at" bson:"expires_at"`
	LastEventAt time.Time     `json:"last_event_at,omitempty" bson:"last_event_at,omitempty"`
	Events      []EventRecord `json:"events,omitempty" bson:"events,omitempty"`
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Record appends an event and advances LastEventAt. The trail is capped at
// MaxEvents; the oldest events fall off.
func (s *Session) Record(ev EventRecord) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	s.Events = append(s.Events, ev)
	if len(s.Events) > MaxEvents {
		s.Events = slices.Clone(s.Events[len(s.Events)-MaxEvents:])
	}
	s.LastEventAt = ev.At
}

// Clone returns a deep copy, so stores and callers never share event
// slices.
func (s *Session) Clone() *Session {
	c := *s
	c.Events = slices.Clone(s.Events)
	return &c
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist.
	// Returns nil, ErrExpired if the session exists but has expired.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, session *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, sessionID string) error

	// Cleanup removes expired sessions (optional, may be a no-op for
	// backends with native expiry).
	Cleanup(ctx context.Context) error
}

// GenerateID creates a cryptographically secure random session ID.
func GenerateID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// New creates a session for a graph with the given TTL.
func New(graphID string, ttl time.Duration) (*Session, error) {
	id, err := GenerateID()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &Session{
		ID:        id,
		GraphID:   graphID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}, nil
}
