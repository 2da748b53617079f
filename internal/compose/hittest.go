package compose

import "hatdecor/internal/transform"

// Target is what a pointer press landed on.
type Target int

const (
	TargetNone Target = iota
	TargetOverlay
	TargetRemove
	TargetResize
	TargetRotate
)

func (t Target) String() string {
	switch t {
	case TargetOverlay:
		return "overlay"
	case TargetRemove:
		return "remove"
	case TargetResize:
		return "resize"
	case TargetRotate:
		return "rotate"
	}
	return "none"
}

// Handle geometry in overlay-local pixels.
const (
	HandleSize   = 12.0
	RemoveRadius = 10.0
	// remove button sits 8px outside the top-right corner
	RemoveOffset = 8.0
)

type hitRect struct {
	x, y, w, h float64
}

func (r hitRect) contains(p transform.Point) bool {
	return p.X >= r.x && p.X <= r.x+r.w && p.Y >= r.y && p.Y <= r.y+r.h
}

type hitCircle struct {
	cx, cy, r float64
}

func (c hitCircle) contains(p transform.Point) bool {
	dx, dy := p.X-c.cx, p.Y-c.cy
	return dx*dx+dy*dy <= c.r*c.r
}

// Control is an on-overlay affordance, in overlay-local pixels. Hosts
// draw it rotated with the overlay.
type Control struct {
	Target   Target
	Min, Max transform.Point
	Round    bool
}

type controlShapes struct {
	remove hitCircle
	resize hitRect
	rotate hitRect
	body   hitRect
}

func shapes(size transform.Size) controlShapes {
	w, h := size.Width, size.Height
	return controlShapes{
		remove: hitCircle{cx: w + RemoveOffset - RemoveRadius, cy: -RemoveOffset + RemoveRadius, r: RemoveRadius},
		resize: hitRect{x: w - HandleSize, y: h - HandleSize, w: HandleSize, h: HandleSize},
		rotate: hitRect{x: 0, y: h - HandleSize, w: HandleSize, h: HandleSize},
		body:   hitRect{x: 0, y: 0, w: w, h: h},
	}
}

// Controls returns the remove button and the two handles for an overlay
// of the given size, in hit-test priority order.
func Controls(size transform.Size) []Control {
	sh := shapes(size)
	rect := func(t Target, r hitRect) Control {
		return Control{Target: t, Min: transform.Point{X: r.x, Y: r.y}, Max: transform.Point{X: r.x + r.w, Y: r.y + r.h}}
	}
	c := sh.remove
	return []Control{
		{
			Target: TargetRemove,
			Min:    transform.Point{X: c.cx - c.r, Y: c.cy - c.r},
			Max:    transform.Point{X: c.cx + c.r, Y: c.cy + c.r},
			Round:  true,
		},
		rect(TargetResize, sh.resize),
		rect(TargetRotate, sh.rotate),
	}
}

// HitTest reports which part of the overlay a container-space point hits.
// Handles rotate with the overlay and take priority over its body.
func HitTest(p transform.Point, st transform.State) Target {
	l := st.ToLocal(p)
	sh := shapes(st.Size)

	switch {
	case sh.remove.contains(l):
		return TargetRemove
	case sh.resize.contains(l):
		return TargetResize
	case sh.rotate.contains(l):
		return TargetRotate
	case sh.body.contains(l):
		return TargetOverlay
	}
	return TargetNone
}
