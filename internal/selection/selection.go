package selection

import (
	"fmt"
	"strings"
)

// Category is an asset tab.
type Category int

const (
	Hats Category = iota
	Frames
)

// Categories lists every category in tab order.
var Categories = []Category{Hats, Frames}

func (c Category) String() string {
	switch c {
	case Hats:
		return "hats"
	case Frames:
		return "frames"
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// ParseCategory accepts "hats" or "frames" (case-insensitive).
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hats", "hat":
		return Hats, nil
	case "frames", "frame":
		return Frames, nil
	}
	return 0, fmt.Errorf("selection: unknown category %q", s)
}

// State holds the active tab and the selected overlay and frame refs.
// An empty ref means nothing is selected.
type State struct {
	Active  Category
	Overlay string
	Frame   string
}

// ToggleOverlay selects ref, or clears the selection if ref is already
// selected. It returns the new overlay ref.
func (s *State) ToggleOverlay(ref string) string {
	s.Overlay = toggle(s.Overlay, ref)
	return s.Overlay
}

// ToggleFrame applies the same rule to the frame.
func (s *State) ToggleFrame(ref string) string {
	s.Frame = toggle(s.Frame, ref)
	return s.Frame
}

// Toggle dispatches to the overlay or frame selection for c.
func (s *State) Toggle(c Category, ref string) string {
	if c == Frames {
		return s.ToggleFrame(ref)
	}
	return s.ToggleOverlay(ref)
}

func (s State) HasOverlay() bool { return s.Overlay != "" }
func (s State) HasFrame() bool   { return s.Frame != "" }

func toggle(cur, ref string) string {
	if cur == ref {
		return ""
	}
	return ref
}
