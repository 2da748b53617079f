package compose

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"hatdecor/internal/transform"
)

// Placeholder is drawn in the empty container before a photo is supplied.
const Placeholder = "Upload an image to get started"

var placeholderColor = color.NRGBA{156, 163, 175, 255}

// Render rasterizes the root at Side×Side. With supersample > 1 the
// layers are drawn at that multiple and filtered down, which keeps
// rotated overlay edges smooth.
func (s Surface) Render(sc Scene, supersample int) *image.NRGBA {
	if supersample < 1 {
		supersample = 1
	}
	ss := supersample
	side := s.Side * ss

	// Work in premultiplied RGBA; the x/image/draw fast paths target it.
	dst := image.NewRGBA(image.Rect(0, 0, side, side))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(s.Background), image.Point{}, draw.Src)

	cr := s.containerRect(ss)
	container := dst.SubImage(cr).(*image.RGBA)

	if sc.Base != nil {
		drawBase(container, cr, sc.Base)
		if sc.Overlay != nil {
			s.drawOverlay(container, sc.Overlay, sc.Transform, ss)
		}
		if sc.Frame != nil {
			draw.CatmullRom.Scale(container, cr, sc.Frame, sc.Frame.Bounds(), draw.Over, nil)
		}
	}

	var out *image.NRGBA
	if ss == 1 {
		out = unpremultiply(dst)
	} else {
		out = Downsample(dst, s.Side)
	}

	// Bitmap text goes on at output scale so it keeps its pixel size.
	if sc.Base == nil {
		cr1 := s.containerRect(1)
		drawPlaceholder(out.SubImage(cr1).(*image.NRGBA), cr1)
	}
	return out
}

func drawBase(dst *image.RGBA, cr image.Rectangle, base *image.NRGBA) {
	c := transform.Size{Width: float64(cr.Dx()), Height: float64(cr.Dy())}
	min, max := containFit(base.Bounds(), c)
	r := image.Rect(
		cr.Min.X+int(math.Round(min.X)), cr.Min.Y+int(math.Round(min.Y)),
		cr.Min.X+int(math.Round(max.X)), cr.Min.Y+int(math.Round(max.Y)),
	)
	if r.Empty() {
		return
	}
	draw.CatmullRom.Scale(dst, r, base, base.Bounds(), draw.Over, nil)
}

// drawOverlay maps the overlay through its transform into root space.
// dst is the container sub-image, so anything outside it is clipped.
func (s Surface) drawOverlay(dst *image.RGBA, overlay *image.NRGBA, st transform.State, ss int) {
	if st.Size.Width <= 0 || st.Size.Height <= 0 {
		return
	}
	pad := float64(s.Padding)
	m := st.Matrix(overlay.Bounds())
	m = transform.Mul(transform.Translate(pad, pad), m)
	m = transform.Mul(transform.Scale(float64(ss), float64(ss)), m)
	draw.BiLinear.Transform(dst, m, overlay, overlay.Bounds(), draw.Over, nil)
}

func drawPlaceholder(dst draw.Image, cr image.Rectangle) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(placeholderColor),
		Face: face,
	}
	w := d.MeasureString(Placeholder).Round()
	x := cr.Min.X + (cr.Dx()-w)/2
	y := cr.Min.Y + (cr.Dy()+face.Ascent)/2
	d.Dot = fixed.P(x, y)
	d.DrawString(Placeholder)
}
