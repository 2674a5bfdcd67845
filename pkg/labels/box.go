package labels

// Box is an axis-aligned rectangle in user units. Coordinates follow the
// canvas convention: y grows downward, so Bottom is numerically larger than
// Top for a normal box. Width and intersection math is orientation-neutral.
type Box struct {
	Left, Right float64
	Top, Bottom float64
}

// NewBox returns the box of the given half extents around a center point.
func NewBox(cx, cy, halfW, halfH float64) Box {
	return Box{
		Left:   cx - halfW,
		Right:  cx + halfW,
		Top:    cy - halfH,
		Bottom: cy + halfH,
	}
}

// Width returns the horizontal span of the box.
func (b Box) Width() float64 { return b.Right - b.Left }

// Height returns the vertical span of the box.
func (b Box) Height() float64 { return b.Bottom - b.Top }

// CenterX returns the horizontal center point of the box.
func (b Box) CenterX() float64 { return (b.Left + b.Right) / 2 }

// CenterY returns the vertical center point of the box.
func (b Box) CenterY() float64 { return (b.Top + b.Bottom) / 2 }

// Intersects reports whether the boxes overlap with positive area.
func (b Box) Intersects(o Box) bool {
	return b.Left < o.Right && b.Right > o.Left &&
		b.Top < o.Bottom && b.Bottom > o.Top
}

// =============================================================================
// Direction
// =============================================================================

// Direction is a placement side relative to a node.
type Direction string

// Placement directions. Bottom means below the node on screen (+y).
const (
	DirBottom Direction = "bottom"
	DirRight  Direction = "right"
	DirTop    Direction = "top"
	DirLeft   Direction = "left"
)

// ValidDirections enumerates accepted placement directions.
var ValidDirections = map[Direction]bool{
	DirBottom: true,
	DirRight:  true,
	DirTop:    true,
	DirLeft:   true,
}

// vector returns the unit offset for the direction in canvas coordinates.
func (d Direction) vector() (dx, dy float64) {
	switch d {
	case DirRight:
		return 1, 0
	case DirTop:
		return 0, -1
	case DirLeft:
		return -1, 0
	default:
		return 0, 1
	}
}

// horizontal reports whether the direction offsets along the x axis.
func (d Direction) horizontal() bool {
	return d == DirLeft || d == DirRight
}
