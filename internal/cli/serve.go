package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nodeglow/nodeglow/internal/server"
	"github.com/nodeglow/nodeglow/pkg/cache"
	"github.com/nodeglow/nodeglow/pkg/metrics"
	"github.com/nodeglow/nodeglow/pkg/session"
	"github.com/nodeglow/nodeglow/pkg/widget"
)

// serveParams collects the serve command's flag values.
type serveParams struct {
	addr        string
	config      string
	cacheKind   string
	cacheDir    string
	redisURL    string
	sessionKind string
	mongoURI    string
	mongoDB     string
}

// serveCommand creates the serve command for hosting graphs over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var p serveParams

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Host graph widgets over HTTP",
		Long: `Host graph widgets over HTTP.

The server accepts graph data on POST /api/v1/graphs, replays interaction
events into each graph's widget, and serves composed visual states, label
layouts, and hop distances. Connected viewers receive state changes over
a server-sent event stream; Prometheus metrics are exposed on /metrics.

Widget options for every hosted graph come from a TOML file passed via
--config; each POST may overlay its own options on top of that base.

Composed states and layouts are cached in the configured backend. The
memory backend suits a single process; redis shares artifacts between
instances, keyed by graph content so identical graphs share entries.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), p)
		},
	}

	cmd.Flags().StringVarP(&p.addr, "addr", "a", server.DefaultAddr, "listen address")
	cmd.Flags().StringVar(&p.config, "config", "", "widget options TOML file")
	cmd.Flags().StringVar(&p.cacheKind, "cache", "memory", "artifact cache backend: memory, file, redis, none")
	cmd.Flags().StringVar(&p.cacheDir, "cache-dir", "", "directory for the file cache backend")
	cmd.Flags().StringVar(&p.redisURL, "redis-url", "redis://localhost:6379/0", "redis URL for the redis cache backend")
	cmd.Flags().StringVar(&p.sessionKind, "sessions", "memory", "session store backend: memory, mongo")
	cmd.Flags().StringVar(&p.mongoURI, "mongo-uri", "mongodb://localhost:27017", "MongoDB URI for the mongo session backend")
	cmd.Flags().StringVar(&p.mongoDB, "mongo-db", "nodeglow", "MongoDB database for the mongo session backend")

	return cmd
}

// runServe wires the cache, session store, and metrics together and runs the
// server until ctx is cancelled.
func (c *CLI) runServe(ctx context.Context, p serveParams) error {
	opts := widget.Options{}
	if p.config != "" {
		loaded, err := widget.LoadOptions(p.config)
		if err != nil {
			return err
		}
		opts = *loaded
	}

	artifacts, err := newServeCache(p)
	if err != nil {
		return err
	}
	defer func() { _ = artifacts.Close() }()

	sessions, cleanup, err := newSessionStore(ctx, p)
	if err != nil {
		return err
	}
	defer cleanup()

	reg := metrics.DefaultRegistry()
	metrics.InstallHooks(reg)

	srv := server.New(server.Config{
		Addr:        p.addr,
		BaseOptions: opts,
		Cache:       artifacts,
		Sessions:    sessions,
		Metrics:     reg,
		Logger:      c.Logger,
	})

	printInfo("Serving knowledge graphs")
	printKeyValue("Address", p.addr)
	printKeyValue("Cache", p.cacheKind)
	printKeyValue("Sessions", p.sessionKind)
	if strings.HasPrefix(p.addr, ":") {
		printNextStep("Check health", fmt.Sprintf("curl http://localhost%s/healthz", p.addr))
	}
	printNewline()

	return srv.Start(ctx)
}

// newServeCache builds the artifact cache backend selected by --cache.
func newServeCache(p serveParams) (cache.Cache, error) {
	switch p.cacheKind {
	case "memory":
		return cache.NewMemoryCache(), nil
	case "file":
		dir := p.cacheDir
		if dir == "" {
			d, err := cacheDir()
			if err != nil {
				return nil, fmt.Errorf("resolve cache dir: %w", err)
			}
			dir = d
		}
		return cache.NewFileCache(dir)
	case "redis":
		return cache.NewRedisCache(p.redisURL)
	case "none":
		return cache.NewNullCache(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q (valid: memory, file, redis, none)", p.cacheKind)
	}
}

// newSessionStore builds the session store selected by --sessions. The
// returned cleanup closes backend connections and is safe to call always.
func newSessionStore(ctx context.Context, p serveParams) (session.Store, func(), error) {
	switch p.sessionKind {
	case "memory":
		return session.NewMemoryStore(), func() {}, nil
	case "mongo":
		store, err := session.NewMongoStore(ctx, p.mongoURI, p.mongoDB, "sessions")
		if err != nil {
			return nil, nil, fmt.Errorf("connect session store: %w", err)
		}
		cleanup := func() { _ = store.Close(context.Background()) }
		return store, cleanup, nil
	default:
		return nil, nil, fmt.Errorf("unknown session backend %q (valid: memory, mongo)", p.sessionKind)
	}
}
