package gesture

import (
	"testing"
	"time"

	"github.com/theirongolddev/crosstab/internal/crosstab/geometry"
	"github.com/theirongolddev/crosstab/internal/crosstab/physics"
)

type modelHit struct {
	m *geometry.Model
}

func (h modelHit) HitTest(x, y int) geometry.Cell {
	vr := h.m.VisibleRange()
	return h.m.HitTest(x, y, vr.Cols(), vr.Rows())
}

func newTestController() (*Controller, *physics.Engine, *geometry.Model) {
	m := geometry.NewModel(geometry.DefaultBands())
	m.SetViewport(672, 385)
	m.SetShape(geometry.Shape{Rows: 30, Cols: 30})
	m.SetContentOrigin(geometry.Vec{X: -700, Y: -350})
	e := physics.New(m, physics.DefaultParams())
	return New(e, modelHit{m}, DefaultParams()), e, m
}

func at(base time.Time, ms int) time.Time {
	return base.Add(time.Duration(ms) * time.Millisecond)
}

func TestTap(t *testing.T) {
	c, _, _ := newTestController()
	var got []geometry.Cell
	c.OnTap(func(cell geometry.Cell) { got = append(got, cell) })

	now := time.Now()
	c.Handle(Event{Action: Press, X: 112 + 150, Y: 35 + 80, Time: now})
	c.Handle(Event{Action: Move, X: 112 + 153, Y: 35 + 82, Time: at(now, 20)})
	c.Handle(Event{Action: Release, X: 112 + 153, Y: 35 + 82, Time: at(now, 40)})

	if len(got) != 1 {
		t.Fatalf("tap callbacks = %d, want 1", len(got))
	}
	if !got[0].IsContent() {
		t.Errorf("tap resolved to %+v, want a content cell", got[0])
	}
	if c.Dragging() {
		t.Error("Dragging() = true after a tap")
	}
	if !c.ConsumeRelease() {
		t.Error("ConsumeRelease() = false after release")
	}
	if c.ConsumeRelease() {
		t.Error("ConsumeRelease() = true on second call")
	}
}

func TestDragFeedsEngine(t *testing.T) {
	c, e, m := newTestController()
	tapped := false
	c.OnTap(func(geometry.Cell) { tapped = true })

	now := time.Now()
	c.Handle(Event{Action: Press, X: 300, Y: 200, Time: now})
	c.Handle(Event{Action: Move, X: 280, Y: 200, Time: at(now, 100)})
	if !c.Dragging() || e.State() != physics.TouchDragging {
		t.Fatalf("Dragging() = %v, State() = %v, want dragging", c.Dragging(), e.State())
	}
	c.Handle(Event{Action: Move, X: 250, Y: 190, Time: at(now, 200)})

	if got := m.ContentOrigin(); got != (geometry.Vec{X: -750, Y: -360}) {
		t.Errorf("ContentOrigin() = %+v, want {-750 -360}", got)
	}

	c.Handle(Event{Action: Release, X: 250, Y: 190, Time: at(now, 400)})
	if tapped {
		t.Error("drag produced a tap")
	}
	if e.State() != physics.Idle {
		t.Errorf("State() = %v after slow release, want idle", e.State())
	}
}

func TestFastReleaseFlings(t *testing.T) {
	c, e, _ := newTestController()

	now := time.Now()
	c.Handle(Event{Action: Press, X: 400, Y: 200, Time: now})
	for i := 1; i <= 5; i++ {
		c.Handle(Event{Action: Move, X: 400 - float64(i*40), Y: 200, Time: at(now, i*10)})
	}
	c.Handle(Event{Action: Release, X: 200, Y: 200, Time: at(now, 50)})

	if !e.Flinging() {
		t.Errorf("Flinging() = false after a 4000 px/s release")
	}
}

func TestPressStopsFling(t *testing.T) {
	c, e, _ := newTestController()
	e.StartFling(-3000, 0)

	c.Handle(Event{Action: Press, X: 300, Y: 200, Time: time.Now()})
	e.Advance(16 * time.Millisecond)

	if e.Flinging() {
		t.Error("Flinging() = true after press")
	}
}

func TestDisabledPassesThrough(t *testing.T) {
	c, _, m := newTestController()
	c.SetDisabled(true)
	before := m.ContentOrigin()

	now := time.Now()
	for _, ev := range []Event{
		{Action: Press, X: 300, Y: 200, Time: now},
		{Action: Move, X: 200, Y: 200, Time: at(now, 10)},
		{Action: Release, X: 200, Y: 200, Time: at(now, 20)},
	} {
		if c.Handle(ev) {
			t.Errorf("Handle(%v) = true while disabled", ev.Action)
		}
	}
	if m.ContentOrigin() != before {
		t.Error("content moved while disabled")
	}
	if c.ConsumeRelease() {
		t.Error("release recorded while disabled")
	}
}

func TestMoveWithoutPress(t *testing.T) {
	c, _, _ := newTestController()
	if c.Handle(Event{Action: Move, X: 1, Y: 1, Time: time.Now()}) {
		t.Error("Handle(Move) without press = true")
	}
}

func TestVelocityWindow(t *testing.T) {
	v := velocityTracker{window: 100 * time.Millisecond}
	now := time.Now()
	v.add(geometry.Vec{X: 0}, now)
	v.add(geometry.Vec{X: 1000}, at(now, 500))
	v.add(geometry.Vec{X: 1010}, at(now, 510))
	v.add(geometry.Vec{X: 1045}, at(now, 530))

	got := v.velocity()
	if got.X < 1499 || got.X > 1501 {
		t.Errorf("velocity().X = %v, want 1500", got.X)
	}
}
