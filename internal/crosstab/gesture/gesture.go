// Package gesture turns a raw pointer stream into drags, flings and taps on
// a cross table.
package gesture

import (
	"math"
	"time"

	"github.com/theirongolddev/crosstab/internal/crosstab/geometry"
	"github.com/theirongolddev/crosstab/internal/crosstab/physics"
)

// Action is the kind of pointer event.
type Action int

const (
	Press Action = iota
	Move
	Release
)

func (a Action) String() string {
	switch a {
	case Press:
		return "press"
	case Move:
		return "move"
	case Release:
		return "release"
	default:
		return "unknown"
	}
}

// Event is a single pointer sample in layout pixels.
type Event struct {
	Action Action
	X, Y   float64
	Time   time.Time
}

// Params tunes gesture recognition.
type Params struct {
	// TouchSlop is how far the pointer may travel before a press becomes a drag.
	TouchSlop float64
	// VelocityWindow is how much recent history the release velocity uses.
	VelocityWindow time.Duration
}

// DefaultParams returns the stock gesture tuning.
func DefaultParams() Params {
	return Params{
		TouchSlop:      8,
		VelocityWindow: 100 * time.Millisecond,
	}
}

// HitTester resolves a point to a cell.
type HitTester interface {
	HitTest(x, y int) geometry.Cell
}

// Controller interprets pointer events for one view.
type Controller struct {
	params  Params
	engine  *physics.Engine
	hit     HitTester
	onTap   func(geometry.Cell)
	onFling func(v geometry.Vec)

	disabled bool
	down     bool
	dragging bool
	released bool
	start    geometry.Vec
	last     geometry.Vec
	velocity velocityTracker
}

// New creates a controller that pushes drags and flings into engine and
// resolves taps through hit.
func New(engine *physics.Engine, hit HitTester, p Params) *Controller {
	if p.TouchSlop < 0 {
		p.TouchSlop = 0
	}
	if p.VelocityWindow <= 0 {
		p.VelocityWindow = DefaultParams().VelocityWindow
	}
	return &Controller{
		params:   p,
		engine:   engine,
		hit:      hit,
		velocity: velocityTracker{window: p.VelocityWindow},
	}
}

// OnTap registers the callback for taps.
func (c *Controller) OnTap(fn func(geometry.Cell)) { c.onTap = fn }

// OnFling registers the callback for releases that started a fling. It
// receives the release velocity after capping.
func (c *Controller) OnFling(fn func(v geometry.Vec)) { c.onFling = fn }

// SetDisabled suppresses all interpretation while set. A gesture in flight is
// abandoned.
func (c *Controller) SetDisabled(disabled bool) {
	c.disabled = disabled
	if disabled {
		c.down = false
		c.dragging = false
		c.engine.EndDrag()
	}
}

// Disabled reports whether interpretation is suppressed.
func (c *Controller) Disabled() bool { return c.disabled }

// Dragging reports whether a drag is in progress.
func (c *Controller) Dragging() bool { return c.dragging }

// ConsumeRelease reports whether a release happened since the last call and
// clears the flag.
func (c *Controller) ConsumeRelease() bool {
	r := c.released
	c.released = false
	return r
}

// Handle interprets ev and reports whether it was consumed.
func (c *Controller) Handle(ev Event) bool {
	if c.disabled {
		return false
	}
	p := geometry.Vec{X: ev.X, Y: ev.Y}

	switch ev.Action {
	case Press:
		c.engine.StopFling()
		c.down = true
		c.dragging = false
		c.start, c.last = p, p
		c.velocity.reset()
		c.velocity.add(p, ev.Time)
		return true

	case Move:
		if !c.down {
			return false
		}
		c.velocity.add(p, ev.Time)
		if !c.dragging {
			if p.Sub(c.start).Len() <= c.params.TouchSlop {
				return true
			}
			c.dragging = true
		}
		d := p.Sub(c.last)
		c.last = p
		c.engine.Drag(d.X, d.Y)
		return true

	case Release:
		if !c.down {
			return false
		}
		c.velocity.add(p, ev.Time)
		wasDragging := c.dragging
		c.down = false
		c.dragging = false
		c.released = true
		c.engine.EndDrag()

		if !wasDragging {
			if c.hit != nil && c.onTap != nil {
				c.onTap(c.hit.HitTest(int(math.Floor(p.X)), int(math.Floor(p.Y))))
			}
			return true
		}
		v := c.velocity.velocity()
		if c.engine.StartFling(v.X, v.Y) && c.onFling != nil {
			c.onFling(capSpeed(v, c.engine.Params().MaxFlingVelocity))
		}
		return true
	}
	return false
}

func capSpeed(v geometry.Vec, max float64) geometry.Vec {
	if l := v.Len(); l > max && l > 0 {
		return v.Scale(max / l)
	}
	return v
}

type sample struct {
	p geometry.Vec
	t time.Time
}

// velocityTracker estimates release velocity from the samples in the
// trailing window.
type velocityTracker struct {
	window  time.Duration
	samples []sample
}

func (v *velocityTracker) reset() { v.samples = v.samples[:0] }

func (v *velocityTracker) add(p geometry.Vec, t time.Time) {
	v.samples = append(v.samples, sample{p: p, t: t})
	cut := 0
	for cut < len(v.samples)-1 && t.Sub(v.samples[cut].t) > v.window {
		cut++
	}
	if cut > 0 {
		v.samples = append(v.samples[:0], v.samples[cut:]...)
	}
}

// velocity returns px/s between the oldest and newest retained samples.
func (v *velocityTracker) velocity() geometry.Vec {
	if len(v.samples) < 2 {
		return geometry.Vec{}
	}
	first, last := v.samples[0], v.samples[len(v.samples)-1]
	dt := last.t.Sub(first.t).Seconds()
	if dt <= 0 {
		return geometry.Vec{}
	}
	return last.p.Sub(first.p).Scale(1 / dt)
}
