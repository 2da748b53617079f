package transform

// Overlay size constants, in container pixels.
const (
	DefaultSize = 96.0
	MinSize     = 50.0
)

// Point is a position in container pixels (value type).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (a Point) Add(b Point) Point {
	return Point{a.X + b.X, a.Y + b.Y}
}

func (a Point) Sub(b Point) Point {
	return Point{a.X - b.X, a.Y - b.Y}
}

// Size is a width/height pair in container pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Aspect returns Width/Height, or 1 for a degenerate height.
func (s Size) Aspect() float64 {
	if s.Height == 0 {
		return 1
	}
	return s.Width / s.Height
}

// State is the overlay placement: top-left position, bounding size and
// rotation in degrees. Rotation is never normalized.
type State struct {
	Position Point   `json:"position"`
	Size     Size    `json:"size"`
	Rotation float64 `json:"rotation"`
}

// Default returns the zeroed placement used when the overlay is removed.
func Default() State {
	return State{Size: Size{DefaultSize, DefaultSize}}
}

// Centered returns the default placement centered inside container.
func Centered(container Size) State {
	s := Default()
	s.Position = Point{
		X: (container.Width - s.Size.Width) / 2,
		Y: (container.Height - s.Size.Height) / 2,
	}
	return s
}

// Center returns the midpoint of the bounding box.
func (s State) Center() Point {
	return Point{
		X: s.Position.X + s.Size.Width/2,
		Y: s.Position.Y + s.Size.Height/2,
	}
}
