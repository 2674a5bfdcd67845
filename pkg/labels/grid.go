package labels

import "math"

type cellKey struct{ cx, cy int }

// grid is a uniform spatial hash over label boxes. Each label is inserted
// into every cell its box overlaps, so a lookup only returns labels sharing
// at least one cell with the query box.
type grid struct {
	cell  float64
	cells map[cellKey][]int
}

func newGrid(cell float64) *grid {
	return &grid{
		cell:  cell,
		cells: make(map[cellKey][]int),
	}
}

func (g *grid) cellRange(b Box) (x0, x1, y0, y1 int) {
	x0 = int(math.Floor(b.Left / g.cell))
	x1 = int(math.Floor(b.Right / g.cell))
	y0 = int(math.Floor(b.Top / g.cell))
	y1 = int(math.Floor(b.Bottom / g.cell))
	return
}

// insert records the label index in every cell its box overlaps.
func (g *grid) insert(idx int, b Box) {
	x0, x1, y0, y1 := g.cellRange(b)
	for cx := x0; cx <= x1; cx++ {
		for cy := y0; cy <= y1; cy++ {
			key := cellKey{cx, cy}
			g.cells[key] = append(g.cells[key], idx)
		}
	}
}

// candidates returns the label indices sharing at least one cell with the
// box, deduplicated, excluding self.
func (g *grid) candidates(self int, b Box) []int {
	x0, x1, y0, y1 := g.cellRange(b)
	seen := make(map[int]bool)
	var out []int
	for cx := x0; cx <= x1; cx++ {
		for cy := y0; cy <= y1; cy++ {
			for _, idx := range g.cells[cellKey{cx, cy}] {
				if idx == self || seen[idx] {
					continue
				}
				seen[idx] = true
				out = append(out, idx)
			}
		}
	}
	return out
}
