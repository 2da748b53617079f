// Package gesture turns pointer positions into overlay transform updates.
//
// An Engine runs at most one gesture at a time. Hosts call a Begin method
// when a handle is pressed, Move for every pointer move in delivery order,
// and End (or Cancel) when the pointer is released. Each Move returns the
// new transform; the engine never mutates caller state.
package gesture

import (
	"errors"
	"fmt"
	"math"

	"hatdecor/internal/transform"
)

// ErrBusy is returned when a gesture is started while another is active.
var ErrBusy = errors.New("gesture: another gesture is active")

// Kind tags the active gesture.
type Kind int

const (
	Idle Kind = iota
	Dragging
	Resizing
	Rotating
)

func (k Kind) String() string {
	switch k {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Resizing:
		return "resizing"
	case Rotating:
		return "rotating"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Handle describes which axes a resize handle grows.
type Handle struct {
	Horizontal bool
	Vertical   bool
}

// BottomRight is the overlay's only resize handle.
var BottomRight = Handle{Horizontal: true, Vertical: true}

// Engine is the gesture state machine. The zero value is idle and ready.
type Engine struct {
	kind  Kind
	start transform.State
	// pointer position at gesture start
	origin transform.Point

	handle Handle
	aspect float64

	center     transform.Point
	startAngle float64 // radians
	lastAngle  float64 // radians, unwrapped
}

// Kind reports the active gesture.
func (e *Engine) Kind() Kind {
	return e.kind
}

// Active reports whether a gesture is in progress.
func (e *Engine) Active() bool {
	return e.kind != Idle
}

func (e *Engine) begin(k Kind, pointer transform.Point, st transform.State) error {
	if e.kind != Idle {
		return fmt.Errorf("%w: cannot start %s while %s", ErrBusy, k, e.kind)
	}
	*e = Engine{kind: k, start: st, origin: pointer}
	return nil
}

// BeginDrag starts repositioning the overlay from the given pointer.
func (e *Engine) BeginDrag(pointer transform.Point, st transform.State) error {
	return e.begin(Dragging, pointer, st)
}

// BeginResize starts an aspect-locked resize from handle h.
func (e *Engine) BeginResize(h Handle, pointer transform.Point, st transform.State) error {
	if err := e.begin(Resizing, pointer, st); err != nil {
		return err
	}
	e.handle = h
	e.aspect = st.Size.Aspect()
	return nil
}

// BeginRotate starts rotating about center. center is the overlay's
// on-screen midpoint, in the same space as pointer.
func (e *Engine) BeginRotate(center, pointer transform.Point, st transform.State) error {
	if err := e.begin(Rotating, pointer, st); err != nil {
		return err
	}
	e.center = center
	e.startAngle = math.Atan2(pointer.Y-center.Y, pointer.X-center.X)
	e.lastAngle = e.startAngle
	return nil
}

// Move feeds one pointer position. container is the live container size.
// It returns the updated transform and true, or the zero State and false
// when no gesture is active.
func (e *Engine) Move(pointer transform.Point, container transform.Size) (transform.State, bool) {
	switch e.kind {
	case Dragging:
		return e.drag(pointer, container), true
	case Resizing:
		return e.resize(pointer), true
	case Rotating:
		return e.rotate(pointer), true
	default:
		return transform.State{}, false
	}
}

// End finishes the active gesture. Calling End while idle does nothing.
func (e *Engine) End() Kind {
	k := e.kind
	*e = Engine{}
	return k
}

// Cancel aborts the active gesture, for teardown paths.
func (e *Engine) Cancel() Kind {
	return e.End()
}

// drag recomputes the position from the gesture origin. Only the
// horizontal axis is kept inside the container.
func (e *Engine) drag(pointer transform.Point, container transform.Size) transform.State {
	st := e.start
	p := st.Position.Add(pointer.Sub(e.origin))
	p.X = math.Min(math.Max(p.X, 0), container.Width-st.Size.Width)
	st.Position = p
	return st
}

// resize derives both dimensions from the start size and the absolute
// pointer delta. Horizontal growth is evaluated last and wins on a
// two-axis handle.
func (e *Engine) resize(pointer transform.Point) transform.State {
	st := e.start
	d := pointer.Sub(e.origin)
	w, h := st.Size.Width, st.Size.Height

	if e.handle.Vertical {
		h = math.Max(transform.MinSize, st.Size.Height+d.Y)
		w = h * e.aspect
	}
	if e.handle.Horizontal {
		w = math.Max(transform.MinSize, st.Size.Width+d.X)
		h = w / e.aspect
	}

	st.Size = transform.Size{Width: w, Height: h}
	return st
}

// rotate accumulates the swept angle so crossing the ±180° seam keeps
// counting instead of jumping back.
func (e *Engine) rotate(pointer transform.Point) transform.State {
	st := e.start
	a := math.Atan2(pointer.Y-e.center.Y, pointer.X-e.center.X)

	e.lastAngle += math.Remainder(a-e.lastAngle, 2*math.Pi)

	st.Rotation = e.start.Rotation + transform.Rad2Deg(e.lastAngle-e.startAngle)
	return st
}
