package gesture

import (
	"errors"
	"math"
	"testing"

	"hatdecor/internal/transform"
)

const eps = 1e-9

func pt(x, y float64) transform.Point {
	return transform.Point{X: x, Y: y}
}

var container400 = transform.Size{Width: 400, Height: 400}

func TestDragWithinBounds(t *testing.T) {
	var e Engine
	st := transform.Centered(container400)

	if err := e.BeginDrag(pt(200, 200), st); err != nil {
		t.Fatal(err)
	}
	// Pointer moves so the reported position is (300, 50).
	got, ok := e.Move(pt(348, 98), container400)
	if !ok {
		t.Fatal("expected move to apply")
	}
	if got.Position != pt(300, 50) {
		t.Errorf("expected position (300,50), got %v", got.Position)
	}
}

func TestDragClampsHorizontalOnly(t *testing.T) {
	tests := []struct {
		name    string
		pointer transform.Point
		want    transform.Point
	}{
		{"right edge", pt(1000, 0), pt(304, 0)},
		{"left edge", pt(-1000, 0), pt(0, 0)},
		{"far below", pt(0, 5000), pt(0, 5000)},
		{"far above", pt(10, -5000), pt(10, -5000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var e Engine
			st := transform.Centered(container400)
			if err := e.BeginDrag(pt(152, 152), st); err != nil {
				t.Fatal(err)
			}
			got, _ := e.Move(tt.pointer, container400)
			if got.Position != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got.Position)
			}
			if got.Position.X < 0 || got.Position.X > container400.Width-got.Size.Width {
				t.Errorf("x escaped container: %v", got.Position.X)
			}
		})
	}
}

func TestDragIsRecomputedFromOrigin(t *testing.T) {
	var e Engine
	st := transform.Centered(container400)
	e.BeginDrag(pt(0, 0), st)

	e.Move(pt(500, 0), container400) // clamped
	got, _ := e.Move(pt(10, 0), container400)
	if got.Position.X != 162 {
		t.Errorf("expected x recomputed from origin (162), got %v", got.Position.X)
	}
}

func TestDragReadsLiveContainer(t *testing.T) {
	var e Engine
	st := transform.Centered(container400)
	e.BeginDrag(pt(0, 0), st)

	got, _ := e.Move(pt(1000, 0), transform.Size{Width: 200, Height: 200})
	if got.Position.X != 104 {
		t.Errorf("expected clamp against 200px container (104), got %v", got.Position.X)
	}
}

func TestResizeHorizontalDelta(t *testing.T) {
	var e Engine
	st := transform.Centered(container400)
	if err := e.BeginResize(BottomRight, pt(248, 248), st); err != nil {
		t.Fatal(err)
	}
	got, _ := e.Move(pt(298, 248), container400)
	if got.Size != (transform.Size{Width: 146, Height: 146}) {
		t.Errorf("expected 146x146, got %v", got.Size)
	}
	if got.Position != st.Position || got.Rotation != st.Rotation {
		t.Errorf("resize changed position or rotation: %+v", got)
	}
}

func TestResizeKeepsAspectAndFloor(t *testing.T) {
	starts := []transform.Size{
		{Width: 96, Height: 96},
		{Width: 120, Height: 80},
		{Width: 80, Height: 160},
		{Width: 300, Height: 100},
	}
	deltas := []float64{-500, -60, -1, 0, 3.5, 47, 400}

	for _, s0 := range starts {
		for _, dx := range deltas {
			var e Engine
			st := transform.State{Size: s0}
			e.BeginResize(Handle{Horizontal: true}, pt(0, 0), st)
			got, _ := e.Move(pt(dx, 0), container400)

			r := s0.Width / s0.Height
			if math.Abs(got.Size.Width/got.Size.Height-r) > eps {
				t.Errorf("start %v dx %v: ratio %v, want %v", s0, dx, got.Size.Width/got.Size.Height, r)
			}
			if got.Size.Width < transform.MinSize {
				t.Errorf("start %v dx %v: width %v below floor", s0, dx, got.Size.Width)
			}
		}
	}
}

func TestResizeSquareStaysAboveFloor(t *testing.T) {
	var e Engine
	e.BeginResize(BottomRight, pt(0, 0), transform.Default())
	got, _ := e.Move(pt(-90, -90), container400)
	if got.Size.Width != 50 || got.Size.Height != 50 {
		t.Errorf("expected 50x50, got %v", got.Size)
	}
}

func TestResizeVerticalOnlyHandle(t *testing.T) {
	var e Engine
	st := transform.State{Size: transform.Size{Width: 200, Height: 100}}
	e.BeginResize(Handle{Vertical: true}, pt(0, 0), st)
	got, _ := e.Move(pt(999, 20), container400)
	if got.Size != (transform.Size{Width: 240, Height: 120}) {
		t.Errorf("expected 240x120, got %v", got.Size)
	}
}

func TestResizeTwoAxisHandleIsDrivenHorizontally(t *testing.T) {
	var e Engine
	e.BeginResize(BottomRight, pt(0, 0), transform.Default())
	got, _ := e.Move(pt(10, 200), container400)
	if got.Size.Width != 106 || got.Size.Height != 106 {
		t.Errorf("expected horizontal delta to win (106x106), got %v", got.Size)
	}
}

func TestRotateFullSweepIsContinuous(t *testing.T) {
	var e Engine
	st := transform.Default()
	st.Rotation = 30
	center := pt(100, 100)

	if err := e.BeginRotate(center, pt(150, 100), st); err != nil {
		t.Fatal(err)
	}

	var got transform.State
	for deg := 15.0; deg <= 360; deg += 15 {
		a := transform.Deg2Rad(deg)
		got, _ = e.Move(pt(100+50*math.Cos(a), 100+50*math.Sin(a)), container400)
	}
	if math.Abs(got.Rotation-390) > 1e-6 {
		t.Errorf("expected 390 after a full sweep, got %v", got.Rotation)
	}
}

func TestRotateTwoRevolutionsCounterClockwise(t *testing.T) {
	var e Engine
	center := pt(0, 0)
	e.BeginRotate(center, pt(-10, 0), transform.Default())

	var got transform.State
	for deg := 180.0 - 10; deg >= 180-720; deg -= 10 {
		a := transform.Deg2Rad(deg)
		got, _ = e.Move(pt(10*math.Cos(a), 10*math.Sin(a)), container400)
	}
	if math.Abs(got.Rotation+720) > 1e-6 {
		t.Errorf("expected -720, got %v", got.Rotation)
	}
}

func TestRotateQuarterTurn(t *testing.T) {
	var e Engine
	e.BeginRotate(pt(0, 0), pt(10, 0), transform.Default())
	got, _ := e.Move(pt(0, 10), container400)
	if math.Abs(got.Rotation-90) > eps {
		t.Errorf("expected 90, got %v", got.Rotation)
	}
}

func TestSingleActiveGesture(t *testing.T) {
	var e Engine
	st := transform.Default()
	if err := e.BeginDrag(pt(0, 0), st); err != nil {
		t.Fatal(err)
	}
	if err := e.BeginResize(BottomRight, pt(0, 0), st); !errors.Is(err, ErrBusy) {
		t.Errorf("expected ErrBusy, got %v", err)
	}
	if err := e.BeginRotate(pt(0, 0), pt(1, 0), st); !errors.Is(err, ErrBusy) {
		t.Errorf("expected ErrBusy, got %v", err)
	}
	if e.Kind() != Dragging {
		t.Errorf("expected dragging, got %v", e.Kind())
	}

	if k := e.End(); k != Dragging {
		t.Errorf("End returned %v", k)
	}
	if e.Active() {
		t.Error("expected idle after End")
	}
	if err := e.BeginRotate(pt(0, 0), pt(1, 0), st); err != nil {
		t.Errorf("expected rotate to start after End, got %v", err)
	}
}

func TestMoveWhileIdle(t *testing.T) {
	var e Engine
	if _, ok := e.Move(pt(5, 5), container400); ok {
		t.Error("expected idle move to be ignored")
	}
	if k := e.End(); k != Idle {
		t.Errorf("expected End on idle engine to report idle, got %v", k)
	}
}

func TestCancelReturnsToIdle(t *testing.T) {
	var e Engine
	e.BeginResize(BottomRight, pt(0, 0), transform.Default())
	e.Cancel()
	if _, ok := e.Move(pt(10, 10), container400); ok {
		t.Error("expected no update after Cancel")
	}
}
