// Package graph provides the data model and ingestion boundary for
// interactive knowledge graphs.
//
// This package defines the canonical wire format for node-link graph data,
// used for API payloads, caching, and the visualization core.
//
// # Architecture
//
// The package sits at the ingestion boundary between raw client data and the
// normalized model consumed by the core algorithms:
//
//   - [RawGraph], [RawNode], [RawLink]: Wire types tolerant of format variants
//   - [Graph], [Node], [Link], [Layer]: Normalized model (this package)
//   - pkg/graph/distance: Hop-distance queries over the normalized model
//
// Use [FromRaw] or [FromJSON] to convert raw data into a validated Graph.
//
// # Wire Format
//
// Graphs use a node-link JSON format:
//
//	{
//	  "nodes": [{"id": "ml", "label": "Machine Learning", "layer": "field"}],
//	  "links": [{"source": "ml", "target": "stats", "strength": 0.8}],
//	  "layers": [{"id": "field", "name": "Fields", "color": "#2780e3"}]
//	}
//
// Two format variants are normalized during ingestion:
//
//   - Link endpoints may be plain string ids or objects with an "id" field.
//     Physics engines rewrite endpoints to node object references after
//     binding; [Endpoint] accepts both shapes.
//   - Hierarchy may use "parent_node" (single, possibly null) or
//     "parent_nodes" (list). Both merge into [Node.Parents], and each parent
//     relationship synthesizes a link from parent to child.
//
// # Validation
//
// [FromRaw] validates at the boundary: required id and label fields, unique
// node ids, and link or parent references to known nodes. Once built, a Graph
// is trusted by the core algorithms; they never re-validate.
//
// # Concurrency
//
// Graph is safe for concurrent reads. Position updates go through the widget
// layer, which serializes writes.
package graph
