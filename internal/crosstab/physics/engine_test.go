package physics

import (
	"math"
	"testing"
	"time"

	"github.com/theirongolddev/crosstab/internal/crosstab/geometry"
)

const frame = 16 * time.Millisecond

func newTestEngine() (*Engine, *geometry.Model) {
	m := geometry.NewModel(geometry.DefaultBands())
	m.SetViewport(672, 385)
	m.SetShape(geometry.Shape{Rows: 30, Cols: 30})
	return New(m, DefaultParams()), m
}

func TestBouncy(t *testing.T) {
	tests := []struct {
		name    string
		x, s, d float64
		want    float64
	}{
		{"first pull", 50, 0, 200, 30.625},
		{"zero pull", 0, 0, 200, 0},
		{"negative pull", -10, 0, 200, 0},
		{"no reach", 50, 0, 0, 0},
		{"already at reach", 50, 200, 200, 0},
		{"saturates at vertex", 1e9, 0, 200, 0.7 * 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Bouncy(tt.x, tt.s, tt.d, 0.7)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Bouncy(%v, %v, %v) = %v, want %v", tt.x, tt.s, tt.d, got, tt.want)
			}
		})
	}
}

func TestBouncyMonotonic(t *testing.T) {
	prev := 0.0
	for x := 1.0; x < 1000; x += 7 {
		got := Bouncy(x, 20, 200, 0.7)
		if got < prev {
			t.Fatalf("Bouncy(%v) = %v, smaller than Bouncy at previous pull %v", x, got, prev)
		}
		if 20+got >= 200 {
			t.Fatalf("Bouncy(%v) = %v reaches the limit", x, got)
		}
		prev = got
	}
}

func TestDragAtLeftBound(t *testing.T) {
	e, m := newTestEngine()

	e.Drag(50, 0)

	if got := m.ContentOrigin().X; math.Abs(got-30.625) > 1e-9 {
		t.Errorf("ContentOrigin().X = %v, want 30.625", got)
	}
	if got := m.TitleOrigin().X; got != 0 {
		t.Errorf("TitleOrigin().X = %v, want 0", got)
	}
	if e.State() != TouchDragging {
		t.Errorf("State() = %v, want %v", e.State(), TouchDragging)
	}
}

func TestDragInsideBoundIsLinear(t *testing.T) {
	e, m := newTestEngine()
	m.SetContentOrigin(geometry.Vec{X: -500, Y: -500})

	e.Drag(-120, 80)

	if got := m.ContentOrigin(); got != (geometry.Vec{X: -620, Y: -420}) {
		t.Errorf("ContentOrigin() = %+v, want {-620 -420}", got)
	}
}

func TestDragCrossingBoundSnapsFirst(t *testing.T) {
	e, m := newTestEngine()
	m.SetContentOrigin(geometry.Vec{X: -10})

	e.Drag(60, 0)

	want := Bouncy(50, 0, 200, 0.7)
	if got := m.ContentOrigin().X; math.Abs(got-want) > 1e-9 {
		t.Errorf("ContentOrigin().X = %v, want %v", got, want)
	}
}

func TestDragFarSide(t *testing.T) {
	e, m := newTestEngine()
	right := m.ScrollBound().Right
	m.SetContentOrigin(geometry.Vec{X: -right})

	e.Drag(-50, 0)

	want := -right - 30.625
	if got := m.ContentOrigin().X; math.Abs(got-want) > 1e-9 {
		t.Errorf("ContentOrigin().X = %v, want %v", got, want)
	}
}

func TestDragNeverLeavesReach(t *testing.T) {
	deltas := []float64{1, 10, 100, 1e3, 1e6, 1e12}
	for _, d := range deltas {
		e, m := newTestEngine()
		b := m.ScrollBound()
		for i := 0; i < 50; i++ {
			e.Drag(d, -d)
		}
		o := m.ContentOrigin()
		if o.X >= b.Left+200 || o.X <= b.Left {
			t.Errorf("delta %v: ContentOrigin().X = %v, want in (0, 200)", d, o.X)
		}
		if o.Y <= -b.Bottom-200 {
			t.Errorf("delta %v: ContentOrigin().Y = %v, past reach", d, o.Y)
		}
	}
}

func TestStartFlingThresholds(t *testing.T) {
	e, m := newTestEngine()

	if e.StartFling(50, 0) {
		t.Error("StartFling(50, 0) = true, want false")
	}
	if e.State() != Idle {
		t.Errorf("State() = %v, want idle", e.State())
	}
	if got := m.ContentOrigin(); got != (geometry.Vec{}) {
		t.Errorf("ContentOrigin() = %+v after ignored fling", got)
	}

	if !e.StartFling(-8000, 0) {
		t.Fatal("StartFling(-8000, 0) = false, want true")
	}
	if got := e.fling.speed.Len(); math.Abs(got-6000) > 1e-9 {
		t.Errorf("fling speed = %v, want 6000", got)
	}
	if e.fling.dir.X != -1 {
		t.Errorf("fling direction = %v, want -1", e.fling.dir.X)
	}
	if e.State() != Flinging {
		t.Errorf("State() = %v, want flinging", e.State())
	}
}

func TestFlingConverges(t *testing.T) {
	velocities := []geometry.Vec{
		{X: -6000, Y: -6000},
		{X: 6000},
		{Y: 6000},
		{X: -1000},
		{X: 4000, Y: -3000},
	}
	dts := []time.Duration{frame, 7 * time.Millisecond, 33 * time.Millisecond}

	for _, v := range velocities {
		for _, dt := range dts {
			e, m := newTestEngine()
			m.SetContentOrigin(geometry.Vec{X: -1500, Y: -800})
			e.StartFling(v.X, v.Y)

			ticks := 0
			for e.Advance(dt) {
				ticks++
				if ticks > 500 {
					t.Fatalf("fling %+v at %v did not converge", v, dt)
				}
			}
			if m.OverScroll().Any() {
				t.Errorf("fling %+v at %v ended over-scrolled: %+v", v, dt, m.OverScroll())
			}
			if e.State() != Idle {
				t.Errorf("fling %+v at %v ended in state %v", v, dt, e.State())
			}
		}
	}
}

func TestFlingIntoBoundBouncesBack(t *testing.T) {
	e, m := newTestEngine()
	m.SetContentOrigin(geometry.Vec{X: -20})
	e.StartFling(6000, 0)

	sawOver := false
	for i := 0; i < 500 && e.Advance(frame); i++ {
		if m.OverScroll().Left > 0 {
			sawOver = true
		}
		if m.ContentOrigin().X > 200 {
			t.Fatalf("ContentOrigin().X = %v beyond reach", m.ContentOrigin().X)
		}
	}
	if !sawOver {
		t.Error("fling toward the left bound never over-scrolled")
	}
	if got := m.ContentOrigin().X; got != 0 {
		t.Errorf("ContentOrigin().X = %v, want 0 after bounce back", got)
	}
}

func TestStopFling(t *testing.T) {
	e, m := newTestEngine()
	m.SetContentOrigin(geometry.Vec{X: -1500})
	e.StartFling(-3000, 0)
	e.Advance(frame)

	e.StopFling()
	before := m.ContentOrigin()
	if e.Advance(frame) {
		t.Error("Advance() after StopFling() = true, want false")
	}
	if got := m.ContentOrigin(); got != before {
		t.Errorf("ContentOrigin() moved after stop: %+v -> %+v", before, got)
	}
	if e.Flinging() {
		t.Error("Flinging() = true after stop")
	}
}

func TestQueuedFlingRestartsWithNewestVelocity(t *testing.T) {
	e, m := newTestEngine()
	m.SetContentOrigin(geometry.Vec{X: -1500, Y: -800})

	e.StartFling(-2000, 0)
	e.StartFling(0, -3000)
	e.StartFling(0, 5000)
	if e.fling.depth != 3 {
		t.Fatalf("fling depth = %d, want 3", e.fling.depth)
	}

	e.Advance(frame)
	if e.fling.depth != 1 {
		t.Errorf("fling depth after restart = %d, want 1", e.fling.depth)
	}
	if e.fling.speed.Y != 5000 || e.fling.dir.Y != 1 || e.fling.speed.X != 0 {
		t.Errorf("restarted fling = %+v, want newest velocity (0, 5000)", e.fling)
	}

	for i := 0; i < 500 && e.Advance(frame); i++ {
	}
	if e.Flinging() {
		t.Error("queued fling never finished")
	}
}

func TestSmoothMoveBy(t *testing.T) {
	e, m := newTestEngine()
	m.SetContentOrigin(geometry.Vec{X: -1000, Y: -500})

	if e.SmoothMoveBy(0, 0) {
		t.Error("SmoothMoveBy(0, 0) = true, want false")
	}
	if !e.SmoothMoveBy(-200, 0) {
		t.Fatal("SmoothMoveBy(-200, 0) = false, want true")
	}
	if e.SmoothMoveBy(-10, 0) {
		t.Error("SmoothMoveBy on busy axis = true, want false")
	}
	if !e.SmoothMoveBy(0, 100) {
		t.Error("SmoothMoveBy on free axis = false, want true")
	}
	if e.State() != ProgrammaticAnimating {
		t.Errorf("State() = %v, want animating", e.State())
	}

	prev := m.ContentOrigin().X
	for e.Advance(frame) {
		x := m.ContentOrigin().X
		if x > prev {
			t.Fatalf("animation went backwards: %v -> %v", prev, x)
		}
		prev = x
	}
	if got := m.ContentOrigin(); got != (geometry.Vec{X: -1200, Y: -400}) {
		t.Errorf("ContentOrigin() = %+v, want {-1200 -400}", got)
	}
}

func TestSmoothMoveByTakesOverFling(t *testing.T) {
	e, m := newTestEngine()
	m.SetContentOrigin(geometry.Vec{X: -1500, Y: -800})
	e.StartFling(-3000, -3000)
	e.StartFling(-5000, 0)
	e.Advance(frame)

	start := m.ContentOrigin()
	if !e.SmoothMoveBy(0, 100) {
		t.Fatal("SmoothMoveBy() during a fling = false, want true")
	}
	if e.Flinging() {
		t.Error("Flinging() = true after a smooth move started")
	}
	if e.State() != ProgrammaticAnimating {
		t.Errorf("State() = %v, want animating", e.State())
	}
	for i := 0; e.Advance(frame); i++ {
		if i > 100 {
			t.Fatal("animation never finished")
		}
		if got := m.ContentOrigin().X; got != start.X {
			t.Fatalf("ContentOrigin().X = %v, want %v held while only y animates", got, start.X)
		}
	}
	if got := m.ContentOrigin(); got != (geometry.Vec{X: start.X, Y: start.Y + 100}) {
		t.Errorf("ContentOrigin() = %+v, want %+v", got, geometry.Vec{X: start.X, Y: start.Y + 100})
	}
}

func TestBounceBack(t *testing.T) {
	e, m := newTestEngine()
	e.Drag(80, 80)
	if e.BounceBack() {
		t.Error("BounceBack() while dragging = true, want false")
	}

	e.EndDrag()
	if !e.BounceBack() {
		t.Fatal("BounceBack() = false, want true")
	}
	for i := 0; i < 100 && e.Advance(frame); i++ {
	}
	if got := m.ContentOrigin(); got != (geometry.Vec{}) {
		t.Errorf("ContentOrigin() = %+v, want origin", got)
	}
	if e.BounceBack() {
		t.Error("BounceBack() inside bound = true, want false")
	}
}

func TestHardScrollByClamps(t *testing.T) {
	e, m := newTestEngine()
	e.HardScrollBy(-1e6, 500)

	want := geometry.Vec{X: -m.ScrollBound().Right, Y: 0}
	if got := m.ContentOrigin(); got != want {
		t.Errorf("ContentOrigin() = %+v, want %+v", got, want)
	}
}

func TestNormalize(t *testing.T) {
	p := Params{MinFlingVelocity: 500}.Normalize()
	if p.MinFlingVelocity != 500 {
		t.Errorf("MinFlingVelocity = %v, want 500", p.MinFlingVelocity)
	}
	if p.MaxFlingVelocity != 6000 || p.AnimationDuration != 300*time.Millisecond {
		t.Errorf("Normalize() did not fill defaults: %+v", p)
	}
}

func TestEase(t *testing.T) {
	if got := ease(0); math.Abs(got) > 1e-12 {
		t.Errorf("ease(0) = %v, want 0", got)
	}
	if got := ease(1); math.Abs(got-1) > 1e-12 {
		t.Errorf("ease(1) = %v, want 1", got)
	}
	if got := ease(0.5); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("ease(0.5) = %v, want 0.5", got)
	}
}
