package server

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

// heartbeatInterval is how often the stream emits a keepalive frame so
// proxies don't reap idle connections.
const heartbeatInterval = 30 * time.Second

// =============================================================================
// Events
// =============================================================================

// StreamEvent is one server-sent event frame.
type StreamEvent struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// =============================================================================
// Broadcaster
// =============================================================================

type streamClient struct {
	graphID string
	ch      chan StreamEvent
}

// Broadcaster fans out stream events to connected clients. Clients subscribe
// to a single graph id; events published for that graph reach only its
// subscribers. Channels are buffered so a slow consumer drops frames instead
// of blocking the publisher.
type Broadcaster struct {
	mu      sync.RWMutex
	clients map[string]*streamClient
	logger  *log.Logger
}

// NewBroadcaster creates a ready-to-use broadcaster.
func NewBroadcaster(logger *log.Logger) *Broadcaster {
	if logger == nil {
		logger = log.Default()
	}
	return &Broadcaster{
		clients: make(map[string]*streamClient),
		logger:  logger,
	}
}

// Subscribe registers a client for one graph's events and returns its
// channel.
func (b *Broadcaster) Subscribe(graphID, clientID string) chan StreamEvent {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan StreamEvent, 64)
	b.clients[clientID] = &streamClient{graphID: graphID, ch: ch}
	b.logger.Debug("stream client subscribed", "graph", graphID, "client", clientID, "total", len(b.clients))
	return ch
}

// Unsubscribe removes a client and closes its channel.
func (b *Broadcaster) Unsubscribe(clientID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if c, ok := b.clients[clientID]; ok {
		close(c.ch)
		delete(b.clients, clientID)
		b.logger.Debug("stream client unsubscribed", "graph", c.graphID, "client", clientID, "remaining", len(b.clients))
	}
}

// Publish sends an event to every client subscribed to graphID. Full client
// channels drop the frame.
func (b *Broadcaster) Publish(graphID string, event StreamEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, c := range b.clients {
		if c.graphID != graphID {
			continue
		}
		select {
		case c.ch <- event:
		default:
			b.logger.Warn("dropping stream event for slow client", "event", event.Event, "client", id)
		}
	}
}

// ClientCount returns the number of connected clients across all graphs.
func (b *Broadcaster) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

// =============================================================================
// HTTP Handler
// =============================================================================

// handleStream serves GET /api/v1/graphs/{graphID}/stream as a Server-Sent
// Events stream of interaction updates for one graph.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	graphID := chi.URLParam(r, "graphID")
	if _, err := s.widget(graphID); err != nil {
		writeError(w, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	clientID := uuid.New().String()
	ch := s.stream.Subscribe(graphID, clientID)
	defer s.stream.Unsubscribe(clientID)

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return

		case evt, open := <-ch:
			if !open {
				return
			}
			if err := writeStreamEvent(w, flusher, evt); err != nil {
				return
			}

		case t := <-heartbeat.C:
			hb := StreamEvent{Event: "heartbeat", Data: map[string]int64{"t": t.Unix()}}
			if err := writeStreamEvent(w, flusher, hb); err != nil {
				return
			}
		}
	}
}

// writeStreamEvent formats and flushes a single SSE frame.
func writeStreamEvent(w http.ResponseWriter, flusher http.Flusher, evt StreamEvent) error {
	data, err := json.Marshal(evt.Data)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", evt.Event, data); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}
