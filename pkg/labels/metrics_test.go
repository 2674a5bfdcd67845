package labels

import (
	"fmt"
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestEstimate(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		fontSize   float64
		wantWidth  float64
		wantHeight float64
	}{
		{name: "ASCII", text: "abc", fontSize: 12, wantWidth: 3 * 12 * 0.6, wantHeight: 12 * 1.1},
		{name: "WithSpace", text: "Node A", fontSize: 12, wantWidth: 6 * 12 * 0.6, wantHeight: 12 * 1.1},
		{name: "Empty", text: "", fontSize: 12, wantWidth: 0, wantHeight: 0},
		{name: "WideGlyphs", text: "日本", fontSize: 10, wantWidth: 4 * 10 * 0.6, wantHeight: 10 * 1.1},
		{name: "LargerFont", text: "ab", fontSize: 20, wantWidth: 2 * 20 * 0.6, wantHeight: 20 * 1.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Estimate(tt.text, tt.fontSize, DefaultWidthRatio, DefaultHeightRatio)
			if !almostEqual(s.Width, tt.wantWidth) {
				t.Errorf("Width = %v, want %v", s.Width, tt.wantWidth)
			}
			if !almostEqual(s.Height, tt.wantHeight) {
				t.Errorf("Height = %v, want %v", s.Height, tt.wantHeight)
			}
		})
	}
}

// countingMeasurer records how many times the rendering layer was asked.
type countingMeasurer struct {
	calls int
	size  Size
	ok    bool
}

func (m *countingMeasurer) Measure(string, float64) (Size, bool) {
	m.calls++
	return m.size, m.ok
}

func TestMeasureUsesCache(t *testing.T) {
	m := &countingMeasurer{size: Size{Width: 42, Height: 13}, ok: true}
	e := New(Config{}, m)

	first := e.Measure("hello")
	second := e.Measure("hello")

	if first != second {
		t.Errorf("cached result differs: %+v vs %+v", first, second)
	}
	if first.Width != 42 {
		t.Errorf("Width = %v, want measured 42", first.Width)
	}
	if m.calls != 1 {
		t.Errorf("measurer calls = %d, want 1", m.calls)
	}
}

func TestMeasureFallsBackToEstimator(t *testing.T) {
	m := &countingMeasurer{ok: false}
	e := New(Config{}, m)

	got := e.Measure("abc")
	want := Estimate("abc", DefaultFontSize, DefaultWidthRatio, DefaultHeightRatio)
	if !almostEqual(got.Width, want.Width) || !almostEqual(got.Height, want.Height) {
		t.Errorf("fallback = %+v, want %+v", got, want)
	}

	// Nil measurer estimates directly.
	e2 := New(Config{}, nil)
	got2 := e2.Measure("abc")
	if !almostEqual(got2.Width, want.Width) {
		t.Errorf("nil measurer = %+v, want %+v", got2, want)
	}
}

func TestZoomChangeClearsCache(t *testing.T) {
	e := New(Config{}, nil)

	e.Measure("one")
	e.Measure("two")
	if e.MetricsCached() != 2 {
		t.Fatalf("cached = %d, want 2", e.MetricsCached())
	}

	// Same zoom: no clear.
	e.SetZoom(1)
	if e.MetricsCached() != 2 {
		t.Errorf("cached = %d after same-zoom set, want 2", e.MetricsCached())
	}

	// New zoom: cache dropped whole.
	e.SetZoom(2)
	if e.MetricsCached() != 0 {
		t.Errorf("cached = %d after zoom change, want 0", e.MetricsCached())
	}
}

func TestMetricsCacheBound(t *testing.T) {
	e := New(Config{CacheSize: 10}, nil)

	for i := 0; i < 15; i++ {
		e.Measure(fmt.Sprintf("text-%d", i))
	}

	if e.MetricsCached() != 10 {
		t.Errorf("cached = %d, want bound 10", e.MetricsCached())
	}

	// Oldest keys evicted, newest retained.
	if _, ok := e.metrics.get(metricsKey{text: "text-0", fontSize: DefaultFontSize, zoom: 1}); ok {
		t.Error("oldest entry should be evicted")
	}
	if _, ok := e.metrics.get(metricsKey{text: "text-14", fontSize: DefaultFontSize, zoom: 1}); !ok {
		t.Error("newest entry should be retained")
	}
}

func TestMeasurerFunc(t *testing.T) {
	f := MeasurerFunc(func(text string, fontSize float64) (Size, bool) {
		return Size{Width: float64(len(text)), Height: fontSize}, true
	})

	s, ok := f.Measure("abcd", 12)
	if !ok || s.Width != 4 || s.Height != 12 {
		t.Errorf("Measure = %+v %v, want {4 12} true", s, ok)
	}
}
