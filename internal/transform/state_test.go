package transform

import (
	"image"
	"math"
	"testing"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCentered(t *testing.T) {
	tests := []struct {
		container Size
		want      Point
	}{
		{Size{400, 400}, Point{152, 152}},
		{Size{96, 96}, Point{0, 0}},
		{Size{300, 200}, Point{102, 52}},
		{Size{50, 50}, Point{-23, -23}},
	}

	for _, tt := range tests {
		s := Centered(tt.container)
		if s.Position != tt.want {
			t.Errorf("Centered(%v) position = %v, want %v", tt.container, s.Position, tt.want)
		}
		if s.Size != (Size{96, 96}) {
			t.Errorf("Centered(%v) size = %v, want 96x96", tt.container, s.Size)
		}
		if s.Rotation != 0 {
			t.Errorf("Centered(%v) rotation = %v, want 0", tt.container, s.Rotation)
		}
	}
}

func TestDefaultIsZeroed(t *testing.T) {
	s := Default()
	if s.Position != (Point{}) {
		t.Errorf("expected zero position, got %v", s.Position)
	}
	if s.Size.Width != DefaultSize || s.Size.Height != DefaultSize {
		t.Errorf("expected default size, got %v", s.Size)
	}
}

func TestCenter(t *testing.T) {
	s := State{Position: Point{10, 20}, Size: Size{100, 50}}
	if c := s.Center(); c != (Point{60, 45}) {
		t.Errorf("expected center (60,45), got %v", c)
	}
}

func TestMatrixUnrotated(t *testing.T) {
	s := State{Position: Point{10, 20}, Size: Size{100, 50}}
	m := s.Matrix(image.Rect(0, 0, 200, 100))

	p := Apply(m, Point{0, 0})
	if !near(p.X, 10) || !near(p.Y, 20) {
		t.Errorf("top-left maps to %v, want (10,20)", p)
	}
	p = Apply(m, Point{200, 100})
	if !near(p.X, 110) || !near(p.Y, 70) {
		t.Errorf("bottom-right maps to %v, want (110,70)", p)
	}
}

func TestMatrixRotatesAboutCenter(t *testing.T) {
	s := State{Position: Point{0, 0}, Size: Size{100, 100}, Rotation: 90}
	m := s.Matrix(image.Rect(0, 0, 100, 100))

	c := Apply(m, Point{50, 50})
	if !near(c.X, 50) || !near(c.Y, 50) {
		t.Errorf("center moved to %v", c)
	}
	// Clockwise on screen: top-left corner ends up at top-right.
	p := Apply(m, Point{0, 0})
	if !near(p.X, 100) || !near(p.Y, 0) {
		t.Errorf("top-left maps to %v, want (100,0)", p)
	}
}

func TestToLocalInvertsRotation(t *testing.T) {
	s := State{Position: Point{40, 40}, Size: Size{96, 96}, Rotation: 37}
	m := s.Matrix(image.Rect(0, 0, 96, 96))

	for _, local := range []Point{{0, 0}, {96, 0}, {96, 96}, {12, 80}} {
		world := Apply(m, local)
		back := s.ToLocal(world)
		if !near(back.X, local.X) || !near(back.Y, local.Y) {
			t.Errorf("ToLocal(%v) = %v, want %v", world, back, local)
		}
	}
}

func TestBoundsOfRotatedSquare(t *testing.T) {
	s := State{Position: Point{0, 0}, Size: Size{100, 100}, Rotation: 45}
	min, max := s.Bounds()
	half := 50 * math.Sqrt2
	if !near(min.X, 50-half) || !near(max.X, 50+half) {
		t.Errorf("x bounds = [%v, %v]", min.X, max.X)
	}
	if !near(min.Y, 50-half) || !near(max.Y, 50+half) {
		t.Errorf("y bounds = [%v, %v]", min.Y, max.Y)
	}
}
