package transform

import (
	"image"
	"math"

	"golang.org/x/image/math/f64"
)

// Deg2Rad converts degrees to radians.
func Deg2Rad(d float64) float64 {
	return d * math.Pi / 180
}

// Rad2Deg converts radians to degrees.
func Rad2Deg(r float64) float64 {
	return r * 180 / math.Pi
}

// Mul returns a × b for 2D affine matrices (b applied first).
func Mul(a, b f64.Aff3) f64.Aff3 {
	return f64.Aff3{
		a[0]*b[0] + a[1]*b[3], a[0]*b[1] + a[1]*b[4], a[0]*b[2] + a[1]*b[5] + a[2],
		a[3]*b[0] + a[4]*b[3], a[3]*b[1] + a[4]*b[4], a[3]*b[2] + a[4]*b[5] + a[5],
	}
}

func Translate(tx, ty float64) f64.Aff3 {
	return f64.Aff3{1, 0, tx, 0, 1, ty}
}

func Scale(sx, sy float64) f64.Aff3 {
	return f64.Aff3{sx, 0, 0, 0, sy, 0}
}

// Rotate returns a rotation by deg degrees, clockwise in y-down image space.
func Rotate(deg float64) f64.Aff3 {
	c, s := math.Cos(Deg2Rad(deg)), math.Sin(Deg2Rad(deg))
	return f64.Aff3{c, -s, 0, s, c, 0}
}

// Apply maps p through m.
func Apply(m f64.Aff3, p Point) Point {
	return Point{
		X: m[0]*p.X + m[1]*p.Y + m[2],
		Y: m[3]*p.X + m[4]*p.Y + m[5],
	}
}

// Matrix maps pixels of an overlay source image with bounds src into
// container space: scale to Size, rotate about the box center, then move
// to Position.
func (s State) Matrix(src image.Rectangle) f64.Aff3 {
	sw, sh := float64(src.Dx()), float64(src.Dy())
	if sw == 0 || sh == 0 {
		return Translate(s.Position.X, s.Position.Y)
	}
	hw, hh := s.Size.Width/2, s.Size.Height/2

	m := Translate(-float64(src.Min.X), -float64(src.Min.Y))
	m = Mul(Scale(s.Size.Width/sw, s.Size.Height/sh), m)
	m = Mul(Translate(-hw, -hh), m)
	m = Mul(Rotate(s.Rotation), m)
	m = Mul(Translate(s.Position.X+hw, s.Position.Y+hh), m)
	return m
}

// ToLocal maps a container point into the overlay's unrotated box, with
// (0,0) at its top-left corner.
func (s State) ToLocal(p Point) Point {
	c := s.Center()
	d := Apply(Rotate(-s.Rotation), p.Sub(c))
	return Point{d.X + s.Size.Width/2, d.Y + s.Size.Height/2}
}

// Bounds returns the axis-aligned box enclosing the rotated overlay.
func (s State) Bounds() (min, max Point) {
	m := s.Matrix(image.Rect(0, 0, 1, 1))
	corners := [4]Point{{0, 0}, {1, 0}, {0, 1}, {1, 1}}
	min = Point{math.Inf(1), math.Inf(1)}
	max = Point{math.Inf(-1), math.Inf(-1)}
	for _, c := range corners {
		p := Apply(m, c)
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
	}
	return min, max
}
