// Package pkg provides the core libraries for Nodeglow knowledge-graph
// interaction.
//
// # Overview
//
// Nodeglow is the interaction core behind a knowledge-graph widget: it takes
// the graph a client renders, replays the viewer's interactions against it
// (hovering, layer focus, audience filtering, selection), and hands back the
// visual state and label layout the renderer should draw. The pkg directory
// is organized into four main areas:
//
//  1. [graph] - Data model (ingestion, normalization, hop distances)
//  2. [effects] / [labels] - Composition (visual state, label placement)
//  3. [widget] - Orchestration (options, caching, the embeddable facade)
//  4. [cache] / [session] - Infrastructure (artifact caches, viewer sessions)
//
// # Architecture
//
// The typical data flow through Nodeglow:
//
//	Node-link JSON (from the rendering client)
//	         ↓
//	    [graph] package (validate + normalize + synthesize parent links)
//	         ↓
//	    [graph/distance] package (hop-distance index, lazy BFS)
//	         ↓
//	    [effects] package (compose scale/opacity per interaction mode)
//	    [labels] package (collision-free label placement)
//	         ↓
//	    EffectState + Placements (JSON back to the renderer)
//
// # Quick Start
//
// Ingest a graph and read the composed state for a hover:
//
//	import (
//	    "context"
//	    "github.com/nodeglow/nodeglow/pkg/graph"
//	    "github.com/nodeglow/nodeglow/pkg/widget"
//	)
//
//	// 1. Ingest the client's node-link JSON
//	g, _ := graph.FromJSON(data)
//
//	// 2. Bind it to a widget
//	w, _ := widget.New(g, widget.Options{})
//
//	// 3. Replay an interaction
//	w.Hover("orchestrator", 12.5)
//
//	// 4. Read what the renderer should draw
//	state := w.State(context.Background())
//	placements := w.PlaceLabels(context.Background())
//
// # Main Packages
//
// ## Data Model
//
// [graph] - Normalized graph model and ingestion. Accepts the client's
// node-link JSON (string or object link endpoints, single or multi parent
// declarations), validates references, applies defaults, and synthesizes
// parent links.
//
// [graph/distance] - Hop-distance index over the undirected link structure.
// BFS runs lazily per source and memoizes pairs; bulk maps feed the
// composers.
//
// ## Composition
//
// [effects] - Visual state composition. One pass per interaction produces
// scale, opacity, blur, and link emphasis for every node, blending hover
// falloff, layer focus tiers, audience filtering, and selection multipliers.
//
// [labels] - Label placement around nodes. Candidate directions score
// against a spatial collision grid; zoom scales the geometry and the
// measurer abstracts real text metrics from the estimator fallback.
//
// ## Orchestration
//
// [widget] - The embeddable facade used by the CLI, server, and tests.
// Binds one graph to its distance index, composer, and placement engine;
// carries Options (TOML config files, JSON API overlays) and caches
// computed artifacts.
//
// ## Infrastructure
//
// [cache] - Artifact caches keyed by graph content: memory, file, Redis,
// and null backends behind one interface, with scoped keyers for
// per-session namespaces.
//
// [session] - Viewer sessions holding interaction trails. Memory and
// MongoDB stores with TTL expiry.
//
// [metrics] - Prometheus registry covering compose, placement, distance,
// cache, session, and HTTP subsystems.
//
// [observability] - Instrumentation hook points the core packages call
// without importing any metrics backend.
//
// [errors] - Structured error codes shared by the API surface and CLI.
//
// [buildinfo] - Build metadata stamped at link time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                 # All tests
//	go test ./pkg/effects/...         # Specific package
//	go test -run Example              # Examples only
//
// Backend integration tests are skipped unless their backing service is
// reachable: set NODEGLOW_REDIS_URL for the Redis cache tests and
// NODEGLOW_MONGO_URI for the MongoDB session tests.
//
// [graph]: https://pkg.go.dev/github.com/nodeglow/nodeglow/pkg/graph
// [graph/distance]: https://pkg.go.dev/github.com/nodeglow/nodeglow/pkg/graph/distance
// [effects]: https://pkg.go.dev/github.com/nodeglow/nodeglow/pkg/effects
// [labels]: https://pkg.go.dev/github.com/nodeglow/nodeglow/pkg/labels
// [widget]: https://pkg.go.dev/github.com/nodeglow/nodeglow/pkg/widget
// [cache]: https://pkg.go.dev/github.com/nodeglow/nodeglow/pkg/cache
// [session]: https://pkg.go.dev/github.com/nodeglow/nodeglow/pkg/session
// [metrics]: https://pkg.go.dev/github.com/nodeglow/nodeglow/pkg/metrics
// [observability]: https://pkg.go.dev/github.com/nodeglow/nodeglow/pkg/observability
// [errors]: https://pkg.go.dev/github.com/nodeglow/nodeglow/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/nodeglow/nodeglow/pkg/buildinfo
package pkg
