package labels

import (
	"context"
	"time"

	"github.com/nodeglow/nodeglow/pkg/graph"
	"github.com/nodeglow/nodeglow/pkg/observability"
)

// Defaults for Config fields left zero.
const (
	DefaultFontSize    = 12.0
	DefaultWidthRatio  = 0.6
	DefaultHeightRatio = 1.1
	DefaultPadding     = 4.0
	DefaultMinDistance = 8.0
	DefaultMaxDistance = 60.0
	DefaultCellSize    = 100.0
	DefaultIterations  = 2
	DefaultCacheSize   = 200
)

// DefaultPreferred is the default direction preference order.
var DefaultPreferred = []Direction{DirBottom, DirRight, DirTop, DirLeft}

// Config tunes the placement engine. Zero fields take the package defaults.
type Config struct {
	FontSize    float64     // Label font size in user units
	WidthRatio  float64     // Estimator width per cell per font unit
	HeightRatio float64     // Estimator height per font unit
	Padding     float64     // Box padding on every side
	MinDistance float64     // Gap between node edge and label box
	MaxDistance float64     // Distance beyond which candidates are penalized
	CellSize    float64     // Spatial hash cell size
	Iterations  int         // Positioning rounds per Resolve
	Preferred   []Direction // Direction preference order
	CacheSize   int         // Metrics cache bound
}

func (c Config) withDefaults() Config {
	if c.FontSize == 0 {
		c.FontSize = DefaultFontSize
	}
	if c.WidthRatio == 0 {
		c.WidthRatio = DefaultWidthRatio
	}
	if c.HeightRatio == 0 {
		c.HeightRatio = DefaultHeightRatio
	}
	if c.Padding == 0 {
		c.Padding = DefaultPadding
	}
	if c.MinDistance == 0 {
		c.MinDistance = DefaultMinDistance
	}
	if c.MaxDistance == 0 {
		c.MaxDistance = DefaultMaxDistance
	}
	if c.CellSize == 0 {
		c.CellSize = DefaultCellSize
	}
	if c.Iterations == 0 {
		c.Iterations = DefaultIterations
	}
	if len(c.Preferred) == 0 {
		c.Preferred = DefaultPreferred
	}
	if c.CacheSize == 0 {
		c.CacheSize = DefaultCacheSize
	}
	return c
}

// Label is a placed node label. X and Y are the label center; Direction
// records which side of the node the label currently occupies.
type Label struct {
	NodeID    string
	Text      string
	X, Y      float64
	Direction Direction
	Width     float64
	Height    float64

	nodeX, nodeY float64
	radius       float64
}

// Empty reports whether the label has no measurable extent. Empty labels
// never participate in conflict detection.
func (l *Label) Empty() bool { return l.Width == 0 && l.Height == 0 }

// Box returns the label's padded bounding box at its current position.
func (l *Label) Box(padding float64) Box {
	return NewBox(l.X, l.Y, l.Width/2+padding, l.Height/2+padding)
}

// boxAt returns the padded box the label would occupy at a candidate center.
func (l *Label) boxAt(x, y, padding float64) Box {
	return NewBox(x, y, l.Width/2+padding, l.Height/2+padding)
}

// =============================================================================
// Engine
// =============================================================================

// Engine measures and places labels. Not safe for concurrent use; the
// widget layer serializes calls.
type Engine struct {
	cfg      Config
	measurer Measurer
	metrics  *metricsCache
	zoom     float64
}

// New creates an engine. measurer may be nil, in which case every extent
// comes from the estimator.
func New(cfg Config, measurer Measurer) *Engine {
	c := cfg.withDefaults()
	return &Engine{
		cfg:      c,
		measurer: measurer,
		metrics:  newMetricsCache(c.CacheSize),
		zoom:     1,
	}
}

// Config returns the engine configuration after defaults.
func (e *Engine) Config() Config { return e.cfg }

// SetZoom records the current zoom scale. A change drops the whole metrics
// cache, since measured extents are zoom-dependent.
func (e *Engine) SetZoom(scale float64) {
	if scale == e.zoom {
		return
	}
	e.zoom = scale
	e.metrics.clear()
}

// MetricsCached returns the number of cached text measurements.
func (e *Engine) MetricsCached() int { return e.metrics.len() }

// Measure returns the extent for a label text, consulting the cache, then
// the measurer, then the estimator. Results land in the cache either way.
func (e *Engine) Measure(text string) Size {
	key := metricsKey{text: text, fontSize: e.cfg.FontSize, zoom: e.zoom}
	if s, ok := e.metrics.get(key); ok {
		return s
	}

	var s Size
	if e.measurer != nil {
		if measured, ok := e.measurer.Measure(text, e.cfg.FontSize); ok {
			s = measured
		} else {
			s = Estimate(text, e.cfg.FontSize, e.cfg.WidthRatio, e.cfg.HeightRatio)
		}
	} else {
		s = Estimate(text, e.cfg.FontSize, e.cfg.WidthRatio, e.cfg.HeightRatio)
	}

	e.metrics.put(key, s)
	return s
}

// Labels builds one label per node at its default spot directly below the
// node, measuring extents as it goes. Order follows the node order.
func (e *Engine) Labels(nodes []*graph.Node) []*Label {
	out := make([]*Label, 0, len(nodes))
	for _, n := range nodes {
		size := e.Measure(n.Label)
		l := &Label{
			NodeID:    n.ID,
			Text:      n.Label,
			Width:     size.Width,
			Height:    size.Height,
			Direction: DirBottom,
			nodeX:     n.X,
			nodeY:     n.Y,
			radius:    n.Size,
		}
		l.X, l.Y = e.candidate(l, DirBottom)
		out = append(out, l)
	}
	return out
}

// Resolve runs the configured number of greedy placement rounds, moving
// conflicting labels in place. Labels are processed in input order; a moved
// label influences every later decision in the same round and the next.
func (e *Engine) Resolve(ls []*Label) {
	observability.Placement().OnResolveStart(context.Background(), len(ls))
	start := time.Now()
	moved := 0

	for iter := 0; iter < e.cfg.Iterations; iter++ {
		g := newGrid(e.cfg.CellSize)
		for i, l := range ls {
			if l.Empty() {
				continue
			}
			g.insert(i, l.Box(e.cfg.Padding))
		}

		for i, l := range ls {
			if l.Empty() {
				continue
			}
			// Cell membership is fixed per round; intersection tests
			// run against live positions so earlier moves count.
			box := l.Box(e.cfg.Padding)
			var conflicts []*Label
			for _, j := range g.candidates(i, box) {
				other := ls[j]
				if !other.Empty() && box.Intersects(other.Box(e.cfg.Padding)) {
					conflicts = append(conflicts, other)
				}
			}
			if len(conflicts) == 0 {
				continue
			}

			dir, x, y := e.bestCandidate(l, conflicts)
			if x != l.X || y != l.Y {
				moved++
			}
			l.X, l.Y = x, y
			l.Direction = dir
		}
	}

	observability.Placement().OnResolveComplete(context.Background(), len(ls), moved, time.Since(start))
}

// candidate returns the label center for a direction: the node center offset
// by node radius + minimum gap + half the label extent along that axis.
func (e *Engine) candidate(l *Label, d Direction) (x, y float64) {
	half := l.Height / 2
	if d.horizontal() {
		half = l.Width / 2
	}
	offset := l.radius + e.cfg.MinDistance + half
	dx, dy := d.vector()
	return l.nodeX + dx*offset, l.nodeY + dy*offset
}

// bestCandidate scores every preferred direction and returns the winner.
// Ties keep the earliest direction in the preference list.
func (e *Engine) bestCandidate(l *Label, conflicts []*Label) (Direction, float64, float64) {
	listLen := len(e.cfg.Preferred)
	best := e.cfg.Preferred[0]
	bestX, bestY := e.candidate(l, best)
	bestScore := e.score(l, conflicts, best, bestX, bestY, 0, listLen)

	for idx := 1; idx < listLen; idx++ {
		d := e.cfg.Preferred[idx]
		x, y := e.candidate(l, d)
		if s := e.score(l, conflicts, d, x, y, idx, listLen); s > bestScore {
			best, bestX, bestY, bestScore = d, x, y, s
		}
	}
	return best, bestX, bestY
}

// score rates one candidate: -100 per conflict still overlapped there,
// +10 per preference-list step from the back, and a linear penalty past the
// maximum label distance.
func (e *Engine) score(l *Label, conflicts []*Label, d Direction, x, y float64, idx, listLen int) float64 {
	box := l.boxAt(x, y, e.cfg.Padding)
	score := 0.0
	for _, c := range conflicts {
		if box.Intersects(c.Box(e.cfg.Padding)) {
			score -= 100
		}
	}
	score += float64(listLen-idx) * 10

	half := l.Height / 2
	if d.horizontal() {
		half = l.Width / 2
	}
	dist := l.radius + e.cfg.MinDistance + half
	if dist > e.cfg.MaxDistance {
		score -= (dist - e.cfg.MaxDistance) * 2
	}
	return score
}
