package script

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/touch"

	"hatdecor/internal/catalog"
	"hatdecor/internal/editor"
	"hatdecor/internal/selection"
)

// Result summarizes a replay.
type Result struct {
	Steps     int
	Downloads int
	Failures  int
	Final     editor.View
}

// Runner replays scripts against an editor. Asset refs in select, hat and
// frame steps are looked up in Catalog when set, so scripts can use bare
// names like "santa".
type Runner struct {
	Editor  *editor.Editor
	Catalog *catalog.Catalog
	Logger  *slog.Logger
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

// Run applies every step in order. Download failures are counted and
// logged but do not stop the replay, matching an interactive session.
func (r *Runner) Run(ctx context.Context, s *Script) (Result, error) {
	var res Result
	for i, st := range s.Steps {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := r.step(ctx, s, st, &res); err != nil {
			return res, fmt.Errorf("script %s: step %d (%s): %w", s.Name, i, st.Op, err)
		}
		res.Steps++
	}
	res.Final = r.Editor.View()
	r.logger().Info("script replayed", "script", s.Name, "steps", res.Steps,
		"downloads", res.Downloads, "failures", res.Failures)
	return res, nil
}

func (r *Runner) step(ctx context.Context, s *Script, st Step, res *Result) error {
	e := r.Editor
	switch st.Op {
	case OpBase:
		e.SetBaseImage(st.Ref)
	case OpURL:
		e.SubmitURL(st.Ref)
	case OpUpload:
		path := st.Path
		if !filepath.IsAbs(path) && s.Dir != "" {
			path = filepath.Join(s.Dir, path)
		}
		select {
		case <-e.Upload(ctx, path):
		case <-ctx.Done():
			return ctx.Err()
		}
	case OpTab:
		c, err := selection.ParseCategory(st.Category)
		if err != nil {
			return err
		}
		e.SetCategory(c)
	case OpSelect:
		e.Select(r.lookup(e.View().Selection.Active, st.Ref))
	case OpHat:
		e.SelectOverlay(r.lookup(selection.Hats, st.Ref))
	case OpFrame:
		e.SelectFrame(r.lookup(selection.Frames, st.Ref))
	case OpRemove:
		e.RemoveOverlay()
	case OpMouse:
		e.HandleMouse(mouseEvent(st.Phase, st.X, st.Y))
	case OpTouch:
		e.HandleTouch(touchEvent(st.Phase, st.X, st.Y))
	case OpDrag:
		r.drag(st)
	case OpDownload:
		if err := e.Download(); err != nil {
			res.Failures++
			r.logger().Warn("download failed", "script", s.Name, "err", err)
			return nil
		}
		res.Downloads++
	default:
		return fmt.Errorf("unknown op %q", st.Op)
	}
	return nil
}

func (r *Runner) lookup(c selection.Category, ref string) string {
	if r.Catalog == nil {
		return ref
	}
	if found, ok := r.Catalog.Lookup(c, ref); ok {
		return found
	}
	r.logger().Debug("ref not in catalog", "category", c, "ref", ref)
	return ref
}

// drag presses at (X,Y), moves in Moves equal steps to (ToX,ToY) and
// releases there.
func (r *Runner) drag(st Step) {
	n := st.Moves
	if n == 0 {
		n = 1
	}
	send := func(p Phase, x, y float64) {
		if st.Touch {
			r.Editor.HandleTouch(touchEvent(p, x, y))
			return
		}
		r.Editor.HandleMouse(mouseEvent(p, x, y))
	}

	send(PhaseDown, st.X, st.Y)
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		send(PhaseMove, st.X+(st.ToX-st.X)*t, st.Y+(st.ToY-st.Y)*t)
	}
	send(PhaseUp, st.ToX, st.ToY)
}

func mouseEvent(p Phase, x, y float64) mouse.Event {
	ev := mouse.Event{X: float32(x), Y: float32(y), Button: mouse.ButtonLeft}
	switch p {
	case PhaseDown:
		ev.Direction = mouse.DirPress
	case PhaseUp:
		ev.Direction = mouse.DirRelease
	default:
		ev.Direction = mouse.DirNone
		ev.Button = mouse.ButtonNone
	}
	return ev
}

func touchEvent(p Phase, x, y float64) touch.Event {
	ev := touch.Event{X: float32(x), Y: float32(y)}
	switch p {
	case PhaseDown:
		ev.Type = touch.TypeBegin
	case PhaseUp:
		ev.Type = touch.TypeEnd
	default:
		ev.Type = touch.TypeMove
	}
	return ev
}
