// Package editor is the top-level controller. It owns the overlay
// transform, the asset selection and the base photo ref, routes pointer
// input into the gesture engine and feeds the composition surface and
// export pipeline.
package editor

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/touch"

	"hatdecor/internal/catalog"
	"hatdecor/internal/compose"
	"hatdecor/internal/export"
	"hatdecor/internal/gesture"
	"hatdecor/internal/pointer"
	"hatdecor/internal/selection"
	"hatdecor/internal/source"
	"hatdecor/internal/transform"
)

// Options configures an Editor. Zero fields get defaults.
type Options struct {
	Surface     compose.Surface
	Resolver    catalog.Resolver
	Bus         *pointer.Bus
	Pipeline    *export.Pipeline
	Supersample int
	Logger      *slog.Logger
}

// View is a read-only copy of the editor state.
type View struct {
	Base      string
	Selection selection.State
	Transform transform.State
	Gesture   gesture.Kind
}

// Editor serializes every mutation behind one mutex, so upload
// completions arriving on other goroutines are applied in order with
// pointer input.
type Editor struct {
	mu sync.Mutex

	id          string
	surface     compose.Surface
	resolver    catalog.Resolver
	bus         *pointer.Bus
	pipeline    *export.Pipeline
	supersample int
	log         *slog.Logger
	input       source.Input

	base    string
	sel     selection.State
	st      transform.State
	engine  gesture.Engine
	capture *pointer.Capture

	nextSub   int
	observers map[int]func(View)
}

// New creates an editor with no photo, no selection and the default
// transform.
func New(opts Options) *Editor {
	if opts.Surface.Side == 0 {
		opts.Surface = compose.DefaultSurface()
	}
	if opts.Resolver == nil {
		l := &catalog.Loader{}
		opts.Resolver = catalog.NewCache(l.Load)
	}
	if opts.Bus == nil {
		opts.Bus = &pointer.Bus{}
	}
	if opts.Supersample <= 0 {
		opts.Supersample = 1
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Pipeline == nil {
		opts.Pipeline = &export.Pipeline{Sink: &export.MemorySink{}}
	}

	id := uuid.NewString()
	e := &Editor{
		id:          id,
		surface:     opts.Surface,
		resolver:    opts.Resolver,
		bus:         opts.Bus,
		pipeline:    opts.Pipeline,
		supersample: opts.Supersample,
		log:         opts.Logger.With("session", id),
		st:          transform.Default(),
		observers:   make(map[int]func(View)),
	}
	if e.pipeline.Logger == nil {
		e.pipeline.Logger = e.log
	}
	e.input = source.Input{OnImage: e.SetBaseImage, Logger: e.log}
	return e
}

// ID returns the session id used in logs.
func (e *Editor) ID() string { return e.id }

// Bus returns the pointer bus hosts dispatch move and end events to.
func (e *Editor) Bus() *pointer.Bus { return e.bus }

// View returns a copy of the current state.
func (e *Editor) View() View {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.viewLocked()
}

func (e *Editor) viewLocked() View {
	return View{Base: e.base, Selection: e.sel, Transform: e.st, Gesture: e.engine.Kind()}
}

// OnChange registers fn to run after every state change, outside the
// editor lock. It returns a function that unregisters fn.
func (e *Editor) OnChange(fn func(View)) (cancel func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.nextSub
	e.nextSub++
	e.observers[id] = fn
	return func() {
		e.mu.Lock()
		delete(e.observers, id)
		e.mu.Unlock()
	}
}

// update runs fn under the lock and notifies observers if it reports a
// change.
func (e *Editor) update(fn func() bool) {
	e.mu.Lock()
	changed := fn()
	if !changed {
		e.mu.Unlock()
		return
	}
	v := e.viewLocked()
	obs := make([]func(View), 0, len(e.observers))
	for _, o := range e.observers {
		obs = append(obs, o)
	}
	e.mu.Unlock()

	for _, o := range obs {
		o(v)
	}
}

// Container returns the live container size.
func (e *Editor) Container() transform.Size {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.surface.Container()
}

// SetSurface resizes the root, e.g. when the host window changes. The
// transform is left as is; the next selection change recenters against
// the new container.
func (e *Editor) SetSurface(s compose.Surface) {
	e.update(func() bool {
		e.surface = s
		return true
	})
}

// SetBaseImage replaces the base photo ref.
func (e *Editor) SetBaseImage(ref string) {
	e.update(func() bool {
		if e.base == ref {
			return false
		}
		e.base = ref
		e.log.Debug("base image set", "ref", shortRef(ref))
		return true
	})
}

// SubmitURL sets the base photo from a URL; blank input is ignored.
func (e *Editor) SubmitURL(raw string) bool {
	return e.input.SubmitURL(raw)
}

// Upload reads a local file in the background and sets it as the base
// photo when done. Read failures leave the photo unchanged.
func (e *Editor) Upload(ctx context.Context, path string) <-chan struct{} {
	return e.input.Upload(ctx, path)
}

// SetCategory switches the active asset tab.
func (e *Editor) SetCategory(c selection.Category) {
	e.update(func() bool {
		if e.sel.Active == c {
			return false
		}
		e.sel.Active = c
		return true
	})
}

// Select toggles ref in the active tab.
func (e *Editor) Select(ref string) {
	if e.View().Selection.Active == selection.Frames {
		e.SelectFrame(ref)
		return
	}
	e.SelectOverlay(ref)
}

// SelectOverlay toggles the overlay. Selecting a different overlay
// recenters it in the container as measured right now.
func (e *Editor) SelectOverlay(ref string) {
	e.update(func() bool {
		e.cancelLocked()
		prev := e.sel.Overlay
		now := e.sel.ToggleOverlay(ref)
		if now != "" && now != prev {
			e.st = transform.Centered(e.surface.Container())
		}
		e.log.Debug("overlay selected", "ref", shortRef(now))
		return true
	})
}

// SelectFrame toggles the frame.
func (e *Editor) SelectFrame(ref string) {
	e.update(func() bool {
		e.sel.ToggleFrame(ref)
		return true
	})
}

// RemoveOverlay clears the overlay and zeroes its transform.
func (e *Editor) RemoveOverlay() {
	e.update(func() bool {
		e.removeLocked()
		return true
	})
}

func (e *Editor) removeLocked() {
	e.cancelLocked()
	e.st = transform.Default()
	e.sel.Overlay = ""
}

// cancelLocked ends any gesture and detaches its listeners.
func (e *Editor) cancelLocked() {
	if k := e.engine.Cancel(); k != gesture.Idle {
		e.log.Debug("gesture cancelled", "gesture", k)
	}
	e.capture.Release()
	e.capture = nil
}

// Close tears down any in-flight gesture.
func (e *Editor) Close() {
	e.update(func() bool {
		active := e.engine.Active()
		e.cancelLocked()
		return active
	})
}

// Dispatch routes a host pointer event. Down events are hit-tested
// against the overlay; everything else goes to the listener bus.
func (e *Editor) Dispatch(ev pointer.Event) {
	if ev.Type == pointer.Down {
		e.PointerDown(ev)
		return
	}
	e.bus.Dispatch(ev)
}

// HandleMouse dispatches a platform mouse event.
func (e *Editor) HandleMouse(m mouse.Event) {
	if ev, ok := pointer.FromMouse(m); ok {
		e.Dispatch(ev)
	}
}

// HandleTouch dispatches a platform touch event.
func (e *Editor) HandleTouch(t touch.Event) {
	if ev, ok := pointer.FromTouch(t); ok {
		e.Dispatch(ev)
	}
}

// PointerDown starts the gesture for whatever the press hits. ev.Pos is in
// root coordinates. Nothing is interactive until both a photo and an
// overlay are present.
func (e *Editor) PointerDown(ev pointer.Event) compose.Target {
	var target compose.Target
	e.update(func() bool {
		if e.base == "" || !e.sel.HasOverlay() || e.engine.Active() {
			return false
		}
		p := e.surface.ToContainer(ev.Pos)
		// the container clips the overlay, so presses in the padding miss
		if !e.surface.InContainer(p) {
			return false
		}
		target = compose.HitTest(p, e.st)

		var err error
		switch target {
		case compose.TargetRemove:
			e.removeLocked()
			return true
		case compose.TargetResize:
			err = e.engine.BeginResize(gesture.BottomRight, p, e.st)
		case compose.TargetRotate:
			err = e.engine.BeginRotate(e.st.Center(), p, e.st)
		case compose.TargetOverlay:
			err = e.engine.BeginDrag(p, e.st)
		default:
			return false
		}
		if err != nil {
			e.log.Warn("gesture not started", "target", target, "err", err)
			target = compose.TargetNone
			return false
		}
		e.capture = pointer.Acquire(e.bus, e.handleMove, e.handleEnd)
		e.log.Debug("gesture started", "gesture", e.engine.Kind(), "source", ev.Source)
		return true
	})
	return target
}

func (e *Editor) handleMove(ev pointer.Event) {
	e.update(func() bool {
		st, ok := e.engine.Move(e.surface.ToContainer(ev.Pos), e.surface.Container())
		if !ok {
			return false
		}
		e.st = st
		return true
	})
}

func (e *Editor) handleEnd(ev pointer.Event) {
	e.update(func() bool {
		k := e.engine.End()
		e.capture.Release()
		e.capture = nil
		if k != gesture.Idle {
			e.log.Debug("gesture ended", "gesture", k, "rotation", e.st.Rotation)
		}
		return k != gesture.Idle
	})
}

// Scene resolves the current refs into images.
func (e *Editor) Scene(ctx context.Context) (compose.Scene, error) {
	v := e.View()
	var sc compose.Scene
	if v.Base == "" {
		return sc, nil
	}

	var err error
	if sc.Base, err = e.resolver.Resolve(ctx, v.Base); err != nil {
		return compose.Scene{}, fmt.Errorf("editor: base image: %w", err)
	}
	if v.Selection.Overlay != "" {
		if sc.Overlay, err = e.resolver.Resolve(ctx, v.Selection.Overlay); err != nil {
			return compose.Scene{}, fmt.Errorf("editor: overlay %s: %w", shortRef(v.Selection.Overlay), err)
		}
		sc.Transform = v.Transform
	}
	if v.Selection.Frame != "" {
		if sc.Frame, err = e.resolver.Resolve(ctx, v.Selection.Frame); err != nil {
			return compose.Scene{}, fmt.Errorf("editor: frame %s: %w", shortRef(v.Selection.Frame), err)
		}
	}
	return sc, nil
}

// Layout returns the layer stack for a host that draws natively.
func (e *Editor) Layout(ctx context.Context) ([]compose.Layer, error) {
	sc, err := e.Scene(ctx)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	s := e.surface
	e.mu.Unlock()
	return s.Layout(sc), nil
}

// SnapshotContext renders the composition root.
func (e *Editor) SnapshotContext(ctx context.Context) (image.Image, error) {
	sc, err := e.Scene(ctx)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	s, ss := e.surface, e.supersample
	e.mu.Unlock()
	return s.Render(sc, ss), nil
}

// Snapshot implements export.Snapshotter.
func (e *Editor) Snapshot() (image.Image, error) {
	return e.SnapshotContext(context.Background())
}

// ErrNoImage is returned by Download before a photo is supplied.
var ErrNoImage = errors.New("editor: no base image")

// Download exports the composition. Without a photo there is no root and
// nothing is downloaded.
func (e *Editor) Download() error {
	if e.View().Base == "" {
		e.log.Debug("download skipped", "reason", "no base image")
		return ErrNoImage
	}
	return e.pipeline.Download(e)
}

// shortRef trims data URIs for logging.
func shortRef(ref string) string {
	if source.IsDataURI(ref) && len(ref) > 32 {
		return ref[:32] + "..."
	}
	return ref
}
