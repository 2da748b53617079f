package pointer

import (
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/touch"

	"hatdecor/internal/transform"
)

// Type is the phase of a pointer event.
type Type int

const (
	Down Type = iota
	Move
	Up
)

func (t Type) String() string {
	switch t {
	case Down:
		return "down"
	case Move:
		return "move"
	case Up:
		return "up"
	}
	return "unknown"
}

// Source is the input modality that produced an event.
type Source int

const (
	Mouse Source = iota
	Touch
)

func (s Source) String() string {
	if s == Touch {
		return "touch"
	}
	return "mouse"
}

// Event is a normalized pointer event in container coordinates.
type Event struct {
	Type   Type
	Source Source
	Pos    transform.Point
}

// FromMouse converts a platform mouse event. Wheel steps and non-primary
// button presses are not pointer gestures and report false.
func FromMouse(e mouse.Event) (Event, bool) {
	ev := Event{
		Source: Mouse,
		Pos:    transform.Point{X: float64(e.X), Y: float64(e.Y)},
	}
	switch e.Direction {
	case mouse.DirPress:
		if e.Button != mouse.ButtonLeft {
			return Event{}, false
		}
		ev.Type = Down
	case mouse.DirRelease:
		ev.Type = Up
	case mouse.DirNone:
		ev.Type = Move
	default:
		return Event{}, false
	}
	return ev, true
}

// FromTouch converts a platform touch event. Only the first touch sequence
// drives gestures, mirroring touches[0].
func FromTouch(e touch.Event) (Event, bool) {
	if e.Sequence != 0 {
		return Event{}, false
	}
	ev := Event{
		Source: Touch,
		Pos:    transform.Point{X: float64(e.X), Y: float64(e.Y)},
	}
	switch e.Type {
	case touch.TypeBegin:
		ev.Type = Down
	case touch.TypeMove:
		ev.Type = Move
	case touch.TypeEnd:
		ev.Type = Up
	default:
		return Event{}, false
	}
	return ev, true
}

// Channel returns the document-level channel an event is delivered on.
// Down events are routed to hit testing instead and report false.
func (e Event) Channel() (Channel, bool) {
	switch {
	case e.Type == Move && e.Source == Mouse:
		return MouseMove, true
	case e.Type == Up && e.Source == Mouse:
		return MouseUp, true
	case e.Type == Move && e.Source == Touch:
		return TouchMove, true
	case e.Type == Up && e.Source == Touch:
		return TouchEnd, true
	}
	return 0, false
}
