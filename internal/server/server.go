// Package server exposes the widget runtime over HTTP.
//
// One server process hosts many widgets, each bound to a graph loaded
// through the API. Clients push interaction events and physics positions
// in, pull composed states, label layouts, and distances out, and can hold
// a Server-Sent Events stream open for change notifications. Computed
// artifacts share one cache across all widgets, keyed by graph content, so
// two widgets showing the same graph reuse each other's work.
//
// Routes live under /api/v1; /healthz and /metrics sit at the root.
package server

import (
	"context"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nodeglow/nodeglow/pkg/cache"
	"github.com/nodeglow/nodeglow/pkg/errors"
	"github.com/nodeglow/nodeglow/pkg/metrics"
	"github.com/nodeglow/nodeglow/pkg/session"
	"github.com/nodeglow/nodeglow/pkg/widget"
)

// Default server timing values.
const (
	// DefaultAddr is the default listen address.
	DefaultAddr = ":8971"

	// readTimeout bounds request reads. Writes are unbounded; the event
	// stream holds responses open indefinitely.
	readTimeout = 15 * time.Second

	// idleTimeout reaps keepalive connections.
	idleTimeout = 60 * time.Second

	// maxBodyBytes caps request bodies. Graph payloads are the largest
	// accepted input.
	maxBodyBytes = 16 << 20

	// sweepInterval is how often expired sessions are cleaned up and
	// system gauges refreshed.
	sweepInterval = time.Minute
)

// Config assembles a Server. Zero fields take defaults.
type Config struct {
	// Addr is the listen address, DefaultAddr when empty.
	Addr string

	// BaseOptions is the widget options template. Per-graph options sent
	// at creation override individual fields.
	BaseOptions widget.Options

	// Cache backs computed artifacts for all widgets. Nil disables
	// artifact caching.
	Cache cache.Cache

	// Sessions stores viewer sessions. Nil falls back to the in-memory
	// store.
	Sessions session.Store

	// Metrics is the Prometheus registry. Nil falls back to the process
	// default registry.
	Metrics *metrics.Registry

	// Logger receives server logs. Nil falls back to log.Default().
	Logger *log.Logger
}

// Server hosts widgets over HTTP.
type Server struct {
	addr     string
	baseOpts widget.Options
	cache    cache.Cache
	keyer    cache.Keyer
	sessions session.Store
	metrics  *metrics.Registry
	stream   *Broadcaster
	logger   *log.Logger

	mu      sync.RWMutex
	widgets map[string]*widget.Widget

	httpServer *http.Server
	started    time.Time
}

// New creates a Server from cfg.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Cache == nil {
		cfg.Cache = cache.NewNullCache()
	}
	if cfg.Sessions == nil {
		cfg.Sessions = session.NewMemoryStore()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.DefaultRegistry()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}

	return &Server{
		addr:     cfg.Addr,
		baseOpts: cfg.BaseOptions,
		cache:    cfg.Cache,
		keyer:    cache.NewDefaultKeyer(),
		sessions: cfg.Sessions,
		metrics:  cfg.Metrics,
		stream:   NewBroadcaster(cfg.Logger),
		logger:   cfg.Logger,
		widgets:  make(map[string]*widget.Widget),
		started:  time.Now(),
	}
}

// Router builds the chi handler tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logMiddleware)
	r.Use(s.metricsMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestSize(maxBodyBytes))

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics",
		promhttp.HandlerFor(s.metrics.GetPrometheusRegistry(), promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/graphs", func(r chi.Router) {
			r.Post("/", s.handleCreateGraph)
			r.Get("/", s.handleListGraphs)

			r.Route("/{graphID}", func(r chi.Router) {
				r.Get("/", s.handleGetGraph)
				r.Delete("/", s.handleDeleteGraph)
				r.Put("/data", s.handleReplaceData)
				r.Post("/positions", s.handlePositions)
				r.Post("/events", s.handleEvents)
				r.Get("/state", s.handleState)
				r.Get("/labels", s.handleLabels)
				r.Get("/distances", s.handleDistances)
				r.Get("/snapshot", s.handleSnapshot)
				r.Get("/stream", s.handleStream)
			})
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleCreateSession)
			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", s.handleGetSession)
				r.Delete("/", s.handleDeleteSession)
			})
		})
	})

	return r
}

// Start runs the HTTP server until ctx is canceled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:        s.addr,
		Handler:     s.Router(),
		ReadTimeout: readTimeout,
		IdleTimeout: idleTimeout,
	}

	go s.sweep(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return s.httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// sweep periodically cleans expired sessions and refreshes system gauges.
func (s *Server) sweep(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.sessions.Cleanup(ctx); err != nil {
				s.logger.Warn("session cleanup failed", "err", err)
			}
			s.metrics.UpdateSystemMetrics(s.started)
		}
	}
}

// =============================================================================
// Widget Registry
// =============================================================================

func graphNotFound(graphID string) error {
	return errors.New(errors.ErrCodeGraphNotFound, "graph not found: %s", graphID)
}

// widget looks up a registered widget by graph id.
func (s *Server) widget(graphID string) (*widget.Widget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.widgets[graphID]
	if !ok {
		return nil, graphNotFound(graphID)
	}
	return w, nil
}

// register adds a widget to the registry.
func (s *Server) register(w *widget.Widget) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.widgets[w.ID()] = w
}

// unregister removes a widget, reporting whether it was present.
func (s *Server) unregister(graphID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.widgets[graphID]; !ok {
		return false
	}
	delete(s.widgets, graphID)
	return true
}

// widgetCount returns the number of hosted widgets.
func (s *Server) widgetCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.widgets)
}

// =============================================================================
// Health
// =============================================================================

// HealthResponse is the /healthz body.
type HealthResponse struct {
	Status     string `json:"status"`
	Service    string `json:"service"`
	Uptime     string `json:"uptime"`
	Graphs     int    `json:"graphs"`
	Streams    int    `json:"streams"`
	Goroutines int    `json:"goroutines"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:     "ok",
		Service:    "nodeglow",
		Uptime:     time.Since(s.started).Round(time.Second).String(),
		Graphs:     s.widgetCount(),
		Streams:    s.stream.ClientCount(),
		Goroutines: runtime.NumGoroutine(),
	})
}
