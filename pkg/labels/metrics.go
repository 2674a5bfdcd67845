package labels

import (
	"github.com/mattn/go-runewidth"
)

// Size is a measured or estimated text extent in user units.
type Size struct {
	Width  float64
	Height float64
}

// Measurer supplies exact text metrics from the rendering layer. Measure
// returns false when no measurement is available for the given text and
// font size, which triggers the estimator fallback.
type Measurer interface {
	Measure(text string, fontSize float64) (Size, bool)
}

// MeasurerFunc adapts a function to the Measurer interface.
type MeasurerFunc func(text string, fontSize float64) (Size, bool)

// Measure calls f.
func (f MeasurerFunc) Measure(text string, fontSize float64) (Size, bool) {
	return f(text, fontSize)
}

// Estimate approximates a text extent from its monospace display width:
// width = cells × fontSize × widthRatio, height = fontSize × heightRatio.
// Display cells count 1 per ASCII rune and 2 per wide (CJK) rune.
func Estimate(text string, fontSize, widthRatio, heightRatio float64) Size {
	if text == "" {
		return Size{}
	}
	cells := float64(runewidth.StringWidth(text))
	return Size{
		Width:  cells * fontSize * widthRatio,
		Height: fontSize * heightRatio,
	}
}

// =============================================================================
// Metrics Cache
// =============================================================================

type metricsKey struct {
	text     string
	fontSize float64
	zoom     float64
}

// metricsCache bounds text measurements per (text, fontSize, zoomScale).
// When the bound is exceeded the oldest inserted key is evicted. The cache
// is cleared whole when the zoom scale changes, since measured extents are
// zoom-dependent.
type metricsCache struct {
	max   int
	items map[metricsKey]Size
	order []metricsKey
}

func newMetricsCache(max int) *metricsCache {
	return &metricsCache{
		max:   max,
		items: make(map[metricsKey]Size, max),
	}
}

func (c *metricsCache) get(k metricsKey) (Size, bool) {
	s, ok := c.items[k]
	return s, ok
}

func (c *metricsCache) put(k metricsKey, s Size) {
	if _, exists := c.items[k]; !exists {
		c.order = append(c.order, k)
	}
	c.items[k] = s

	for len(c.items) > c.max && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.items, oldest)
	}
}

func (c *metricsCache) clear() {
	c.items = make(map[metricsKey]Size, c.max)
	c.order = nil
}

func (c *metricsCache) len() int { return len(c.items) }
