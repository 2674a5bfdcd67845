// Package distance provides cached hop-distance queries over a knowledge
// graph.
//
// An [Index] answers "how many hops from a to b" using breadth-first search
// over the undirected link structure, with a symmetric pair cache so repeated
// queries during interaction (hover, selection) cost a map lookup. Distances
// feed the visual state composer's proximity tiers and selection emphasis.
//
// The index is safe for concurrent readers; [Index.Invalidate] takes the
// write lock and must be called after node or link membership changes.
package distance

import (
	"context"
	"sync"
	"time"

	"github.com/nodeglow/nodeglow/pkg/graph"
	"github.com/nodeglow/nodeglow/pkg/observability"
)

// Unreachable is the distance reported for node pairs with no connecting
// path, including pairs with unknown ids. The sentinel compares greater than
// any realistic hop count, so threshold checks like d <= 2 behave naturally.
const Unreachable = 999

type pair struct{ a, b string }

// Index caches hop distances between node pairs.
//
// The adjacency list is built lazily on the first query: the undirected
// union of all links, self links dropped, endpoints referencing unknown ids
// omitted so traversal simply never reaches them. Cycles terminate via the
// visited set.
type Index struct {
	mu    sync.RWMutex
	graph *graph.Graph
	adj   map[string][]string // nil until first query or after Invalidate
	pairs map[pair]int
}

// New creates an index over g. No adjacency is built until the first query.
func New(g *graph.Graph) *Index {
	return &Index{
		graph: g,
		pairs: make(map[pair]int),
	}
}

// Distance returns the hop count between a and b: 0 when a == b, the cached
// value when present, otherwise one breadth-first pass from a. Both (a, b)
// and (b, a) are cached. Returns Unreachable when no path exists or either
// id is unknown.
func (ix *Index) Distance(a, b string) int {
	if a == b {
		return 0
	}

	ix.mu.RLock()
	d, ok := ix.pairs[pair{a, b}]
	ix.mu.RUnlock()
	if ok {
		observability.Distance().OnCacheHit(context.Background(), a, b)
		return d
	}
	observability.Distance().OnCacheMiss(context.Background(), a, b)

	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.ensureAdjacencyLocked()

	// A concurrent query may have filled the pair while we waited.
	if d, ok := ix.pairs[pair{a, b}]; ok {
		return d
	}

	d = ix.searchLocked(a, b)
	ix.pairs[pair{a, b}] = d
	ix.pairs[pair{b, a}] = d
	return d
}

// DistancesFrom returns hop counts from a to every reachable node in one
// breadth-first pass, including a itself at 0. Unreached ids are absent from
// the result. The pass also populates the pair cache for a.
func (ix *Index) DistancesFrom(a string) map[string]int {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.ensureAdjacencyLocked()

	start := time.Now()
	type entry struct {
		id   string
		hops int
	}
	dist := map[string]int{a: 0}
	queue := []entry{{a, 0}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range ix.adj[cur.id] {
			if _, seen := dist[next]; !seen {
				dist[next] = cur.hops + 1
				queue = append(queue, entry{next, cur.hops + 1})
			}
		}
	}
	observability.Distance().OnTraversal(context.Background(), a, len(dist), time.Since(start))

	for id, d := range dist {
		if id == a {
			continue
		}
		ix.pairs[pair{a, id}] = d
		ix.pairs[pair{id, a}] = d
	}
	return dist
}

// Invalidate clears the pair cache and forces an adjacency rebuild on the
// next query. Callers must invalidate after any node or link membership
// change; staleness is not detected at query time.
func (ix *Index) Invalidate() {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.adj = nil
	ix.pairs = make(map[pair]int)
}

// CachedPairs returns the number of cached directed pair entries.
func (ix *Index) CachedPairs() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.pairs)
}

// ensureAdjacencyLocked builds the undirected adjacency list if absent.
// Callers must hold the write lock.
func (ix *Index) ensureAdjacencyLocked() {
	if ix.adj != nil {
		return
	}
	adj := make(map[string][]string, ix.graph.NodeCount())
	for _, n := range ix.graph.Nodes() {
		adj[n.ID] = nil
	}
	for _, l := range ix.graph.Links() {
		if l.IsSelf() {
			continue
		}
		if _, ok := adj[l.SourceID]; !ok {
			continue
		}
		if _, ok := adj[l.TargetID]; !ok {
			continue
		}
		adj[l.SourceID] = append(adj[l.SourceID], l.TargetID)
		adj[l.TargetID] = append(adj[l.TargetID], l.SourceID)
	}
	ix.adj = adj
}

// searchLocked runs a breadth-first pass from a until b is found or the
// frontier is exhausted. Callers must hold the write lock.
func (ix *Index) searchLocked(a, b string) int {
	start := time.Now()
	type entry struct {
		id   string
		hops int
	}
	visited := map[string]bool{a: true}
	queue := []entry{{a, 0}}
	found := Unreachable

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.id == b {
			found = cur.hops
			break
		}
		for _, next := range ix.adj[cur.id] {
			if !visited[next] {
				visited[next] = true
				queue = append(queue, entry{next, cur.hops + 1})
			}
		}
	}
	observability.Distance().OnTraversal(context.Background(), a, len(visited), time.Since(start))
	return found
}
