// Package compose lays out and rasterizes the composition surface: a
// square root holding the base photo, the transformed overlay and an
// optional frame, bottom to top.
package compose

import (
	"image"
	"image/color"
	"math"

	"hatdecor/internal/transform"
)

// Surface is the fixed square root element. Overlay coordinates are
// relative to the inner container, inset by Padding on every side.
type Surface struct {
	Side       int
	Padding    int
	Background color.NRGBA
}

// DefaultSurface matches the default editor canvas.
func DefaultSurface() Surface {
	return Surface{Side: 512, Padding: 16, Background: color.NRGBA{255, 255, 255, 255}}
}

// Container returns the inner container size.
func (s Surface) Container() transform.Size {
	c := float64(s.Side - 2*s.Padding)
	if c < 0 {
		c = 0
	}
	return transform.Size{Width: c, Height: c}
}

// containerRect returns the container in root pixels at scale ss.
func (s Surface) containerRect(ss int) image.Rectangle {
	p := s.Padding * ss
	side := s.Side * ss
	return image.Rect(p, p, side-p, side-p)
}

// Scene is everything the surface draws. A nil Base means no photo has
// been supplied; Overlay and Frame are nil when unselected.
type Scene struct {
	Base      *image.NRGBA
	Overlay   *image.NRGBA
	Transform transform.State
	Frame     *image.NRGBA
}

// LayerKind identifies a layer in the stack.
type LayerKind int

const (
	LayerBackground LayerKind = iota
	LayerPlaceholder
	LayerBase
	LayerOverlay
	LayerFrame
)

func (k LayerKind) String() string {
	switch k {
	case LayerBackground:
		return "background"
	case LayerPlaceholder:
		return "placeholder"
	case LayerBase:
		return "base"
	case LayerOverlay:
		return "overlay"
	case LayerFrame:
		return "frame"
	}
	return "unknown"
}

// Layer describes one layer in root coordinates, for hosts that draw
// natively. Rotation is in degrees about the rect center. Controls are
// set on the overlay layer only; Render leaves them out of exports.
type Layer struct {
	Kind        LayerKind
	Min, Max    transform.Point
	Rotation    float64
	Interactive bool
	Controls    []Control
}

// Layout returns the layer stack bottom to top. The overlay and frame
// are only mounted when a base photo is present.
func (s Surface) Layout(sc Scene) []Layer {
	side := float64(s.Side)
	pad := float64(s.Padding)
	c := s.Container()

	layers := []Layer{{Kind: LayerBackground, Max: transform.Point{X: side, Y: side}}}
	if sc.Base == nil {
		return append(layers, Layer{
			Kind: LayerPlaceholder,
			Min:  transform.Point{X: pad, Y: pad},
			Max:  transform.Point{X: pad + c.Width, Y: pad + c.Height},
		})
	}

	bmin, bmax := containFit(sc.Base.Bounds(), c)
	layers = append(layers, Layer{
		Kind: LayerBase,
		Min:  transform.Point{X: pad + bmin.X, Y: pad + bmin.Y},
		Max:  transform.Point{X: pad + bmax.X, Y: pad + bmax.Y},
	})

	if sc.Overlay != nil {
		st := sc.Transform
		layers = append(layers, Layer{
			Kind:        LayerOverlay,
			Min:         transform.Point{X: pad + st.Position.X, Y: pad + st.Position.Y},
			Max:         transform.Point{X: pad + st.Position.X + st.Size.Width, Y: pad + st.Position.Y + st.Size.Height},
			Rotation:    st.Rotation,
			Interactive: true,
			Controls:    Controls(st.Size),
		})
	}
	if sc.Frame != nil {
		layers = append(layers, Layer{
			Kind: LayerFrame,
			Min:  transform.Point{X: pad, Y: pad},
			Max:  transform.Point{X: pad + c.Width, Y: pad + c.Height},
		})
	}
	return layers
}

// containFit scales src uniformly to fit inside c and centers it
// (object-fit: contain).
func containFit(src image.Rectangle, c transform.Size) (min, max transform.Point) {
	sw, sh := float64(src.Dx()), float64(src.Dy())
	if sw == 0 || sh == 0 {
		return transform.Point{}, transform.Point{}
	}
	scale := math.Min(c.Width/sw, c.Height/sh)
	w, h := sw*scale, sh*scale
	min = transform.Point{X: (c.Width - w) / 2, Y: (c.Height - h) / 2}
	max = transform.Point{X: min.X + w, Y: min.Y + h}
	return min, max
}

// ToContainer converts a root-space point to container space.
func (s Surface) ToContainer(p transform.Point) transform.Point {
	pad := float64(s.Padding)
	return transform.Point{X: p.X - pad, Y: p.Y - pad}
}

// InContainer reports whether a container-space point lies inside the
// container, edges included.
func (s Surface) InContainer(p transform.Point) bool {
	c := s.Container()
	return p.X >= 0 && p.Y >= 0 && p.X <= c.Width && p.Y <= c.Height
}

// ToRoot converts a container-space point to root space.
func (s Surface) ToRoot(p transform.Point) transform.Point {
	pad := float64(s.Padding)
	return transform.Point{X: p.X + pad, Y: p.Y + pad}
}
