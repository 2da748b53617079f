// Package script replays recorded editor sessions: a JSON list of user
// actions and pointer events applied to an editor in order.
package script

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"hatdecor/internal/selection"
)

// Op names a script step.
type Op string

const (
	OpBase     Op = "base"     // set the base photo ref directly
	OpURL      Op = "url"      // submit a URL, blank is ignored
	OpUpload   Op = "upload"   // read a local file and wait for it
	OpTab      Op = "tab"      // switch the asset category
	OpSelect   Op = "select"   // toggle an asset in the active tab
	OpHat      Op = "hat"      // toggle an overlay regardless of tab
	OpFrame    Op = "frame"    // toggle a frame regardless of tab
	OpRemove   Op = "remove"   // press the overlay remove button
	OpMouse    Op = "mouse"    // raw mouse event
	OpTouch    Op = "touch"    // raw touch event
	OpDrag     Op = "drag"     // press, interpolated moves, release
	OpDownload Op = "download" // export the composition
)

// Phase is the pointer phase of a mouse or touch step.
type Phase string

const (
	PhaseDown Phase = "down"
	PhaseMove Phase = "move"
	PhaseUp   Phase = "up"
)

// Step is one action. Coordinates are root pixels.
type Step struct {
	Op       Op      `json:"op"`
	Ref      string  `json:"ref,omitempty"`
	Path     string  `json:"path,omitempty"`
	Category string  `json:"category,omitempty"`
	Phase    Phase   `json:"phase,omitempty"`
	X        float64 `json:"x,omitempty"`
	Y        float64 `json:"y,omitempty"`

	// drag only
	ToX   float64 `json:"to_x,omitempty"`
	ToY   float64 `json:"to_y,omitempty"`
	Moves int     `json:"moves,omitempty"`
	Touch bool    `json:"touch,omitempty"`
}

// Script is a named sequence of steps. Dir is where relative upload paths
// are resolved; Load sets it to the script's directory.
type Script struct {
	Name  string `json:"name"`
	Steps []Step `json:"steps"`
	Dir   string `json:"-"`
}

// Load reads and validates a script file.
func Load(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("script: open %s: %w", path, err)
	}
	defer f.Close()

	s, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("script: %s: %w", path, err)
	}
	s.Dir = filepath.Dir(path)
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// Parse decodes and validates a script.
func Parse(r io.Reader) (*Script, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var s Script
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	for i, st := range s.Steps {
		if err := st.validate(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
	}
	return &s, nil
}

func (st Step) validate() error {
	switch st.Op {
	case OpBase, OpHat, OpFrame, OpSelect:
		if st.Ref == "" {
			return fmt.Errorf("%s: missing ref", st.Op)
		}
	case OpUpload:
		if st.Path == "" {
			return fmt.Errorf("upload: missing path")
		}
	case OpTab:
		if _, err := selection.ParseCategory(st.Category); err != nil {
			return err
		}
	case OpMouse, OpTouch:
		switch st.Phase {
		case PhaseDown, PhaseMove, PhaseUp:
		default:
			return fmt.Errorf("%s: unknown phase %q", st.Op, st.Phase)
		}
	case OpDrag:
		if st.Moves < 0 {
			return fmt.Errorf("drag: negative moves")
		}
	case OpURL, OpRemove, OpDownload:
	default:
		return fmt.Errorf("unknown op %q", st.Op)
	}
	return nil
}
