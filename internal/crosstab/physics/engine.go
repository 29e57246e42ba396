package physics

import (
	"math"
	"time"

	"github.com/theirongolddev/crosstab/internal/crosstab/geometry"
)

// State is the externally visible phase of the engine.
type State int

const (
	Idle State = iota
	TouchDragging
	ProgrammaticAnimating
	Flinging
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case TouchDragging:
		return "dragging"
	case ProgrammaticAnimating:
		return "animating"
	case Flinging:
		return "flinging"
	default:
		return "unknown"
	}
}

type axis int

const (
	axisX axis = iota
	axisY
)

type animation struct {
	start    float64
	delta    float64
	elapsed  time.Duration
	duration time.Duration
}

// fling holds the driver state. depth counts overlapping requests: 1 while a
// fling runs, more when newer requests wait in pending.
type fling struct {
	depth   int
	held    bool
	dir     geometry.Vec
	speed   geometry.Vec
	resist  geometry.Vec
	pending geometry.Vec
}

// Engine mutates the content origin of a geometry.Model. It is not safe for
// concurrent use; the host drives it from a single loop through Drag,
// StartFling, SmoothMoveBy and Advance.
type Engine struct {
	params  Params
	model   *geometry.Model
	maxOver geometry.Vec

	dragging bool
	fling    fling
	anims    [2]*animation
}

// New creates an engine acting on model.
func New(model *geometry.Model, p Params) *Engine {
	p = p.Normalize()
	return &Engine{
		params:  p,
		model:   model,
		maxOver: geometry.Vec{X: p.MaxOverScroll, Y: p.MaxOverScroll},
	}
}

// Reset drops any drag, fling or animation in progress. The rubber-band
// reach is kept.
func (e *Engine) Reset() {
	e.dragging = false
	e.fling = fling{}
	e.anims = [2]*animation{}
}

// Params returns the active parameters.
func (e *Engine) Params() Params { return e.params }

// SetMaxOverScroll sets the rubber-band reach per axis. Non-positive values
// keep the current reach.
func (e *Engine) SetMaxOverScroll(x, y float64) {
	if x > 0 {
		e.maxOver.X = x
	}
	if y > 0 {
		e.maxOver.Y = y
	}
}

// MaxOverScroll returns the rubber-band reach per axis.
func (e *Engine) MaxOverScroll() geometry.Vec { return e.maxOver }

// State reports the current phase. A drag wins over a running fling or
// animation since it is what the user sees.
func (e *Engine) State() State {
	switch {
	case e.dragging:
		return TouchDragging
	case e.fling.depth > 0:
		return Flinging
	case e.anims[axisX] != nil || e.anims[axisY] != nil:
		return ProgrammaticAnimating
	default:
		return Idle
	}
}

// Dragging reports whether a touch drag is in progress.
func (e *Engine) Dragging() bool { return e.dragging }

// Flinging reports whether a fling is running or queued.
func (e *Engine) Flinging() bool { return e.fling.depth > 0 }

// Animating reports whether a smooth move runs on either axis.
func (e *Engine) Animating() bool { return e.anims[axisX] != nil || e.anims[axisY] != nil }

// Active reports whether Advance has work to do.
func (e *Engine) Active() bool { return e.Flinging() || e.Animating() }

// Drag moves the content by (dx, dy) with rubber-band resistance past the
// bound. Positive values move content right and down.
func (e *Engine) Drag(dx, dy float64) {
	e.dragging = true
	e.bouncyMove(dx, dy)
}

// EndDrag clears the dragging flag.
func (e *Engine) EndDrag() { e.dragging = false }

// HardScrollBy moves the content by (dx, dy) and clamps it into the bound.
func (e *Engine) HardScrollBy(dx, dy float64) {
	o := e.model.ContentOrigin().Add(geometry.Vec{X: dx, Y: dy})
	e.model.SetContentOrigin(e.model.Clamp(o))
}

func (e *Engine) bouncyMove(dx, dy float64) {
	b := e.model.ScrollBound()
	over := e.model.OverScroll()
	o := e.model.ContentOrigin()
	o.X = e.bouncyAxis(o.X, dx, over.Left, over.Right, b.Left, b.Right, e.maxOver.X)
	o.Y = e.bouncyAxis(o.Y, dy, over.Top, over.Bottom, b.Top, b.Bottom, e.maxOver.Y)
	e.model.SetContentOrigin(o)
}

// bouncyAxis applies d to pos on one axis. near and far are the signed
// over-scroll past the positive and negative limits nearLimit and -farLimit.
func (e *Engine) bouncyAxis(pos, d, near, far, nearLimit, farLimit, maxOver float64) float64 {
	switch {
	case d > 0 && near+d > 0:
		pull := d
		if near < 0 {
			pull = near + d
			pos = nearLimit
			near = 0
		}
		pos += Bouncy(pull, near, maxOver, e.params.Damping)
	case d < 0 && far-d > 0:
		pull := -d
		if far < 0 {
			pull = far - d
			pos = -farLimit
			far = 0
		}
		pos -= Bouncy(pull, far, maxOver, e.params.Damping)
	default:
		pos += d
	}
	return math.Max(math.Min(pos, nearLimit+maxOver), -farLimit-maxOver)
}

// StartFling launches a fling with velocity (vx, vy) in px/s. Speeds below
// MinFlingVelocity are ignored and report false; speeds above
// MaxFlingVelocity are scaled down. While a fling runs, a new request is
// queued and replaces any earlier queued one.
func (e *Engine) StartFling(vx, vy float64) bool {
	v := geometry.Vec{X: vx, Y: vy}
	speed := v.Len()
	if speed < e.params.MinFlingVelocity {
		return false
	}
	if speed > e.params.MaxFlingVelocity {
		v = v.Scale(e.params.MaxFlingVelocity / speed)
	}
	e.anims = [2]*animation{}
	if e.fling.depth == 0 {
		e.beginFling(v)
		return true
	}
	e.fling.depth++
	e.fling.pending = v
	return true
}

func (e *Engine) beginFling(v geometry.Vec) {
	e.fling = fling{
		depth: 1,
		held:  true,
		dir:   geometry.Vec{X: sign(v.X), Y: sign(v.Y)},
		speed: geometry.Vec{X: math.Abs(v.X), Y: math.Abs(v.Y)},
	}
	e.fling.resist = e.fling.speed.Scale(e.params.Resistance)
}

// StopFling asks the running fling to end. The next Advance observes it and
// drops any queued request.
func (e *Engine) StopFling() {
	if e.fling.depth > 0 {
		e.fling.held = false
	}
}

// SmoothMoveBy animates the content by (dx, dy). It fails when both deltas
// are zero or when an axis with a nonzero delta is already animating. A
// running fling and any queued request are dropped so only the animation
// moves the content.
func (e *Engine) SmoothMoveBy(dx, dy float64) bool {
	if dx == 0 && dy == 0 {
		return false
	}
	if dx != 0 && e.anims[axisX] != nil || dy != 0 && e.anims[axisY] != nil {
		return false
	}
	e.fling = fling{}
	o := e.model.ContentOrigin()
	if dx != 0 {
		e.anims[axisX] = &animation{start: o.X, delta: dx, duration: e.params.AnimationDuration}
	}
	if dy != 0 {
		e.anims[axisY] = &animation{start: o.Y, delta: dy, duration: e.params.AnimationDuration}
	}
	return true
}

// BounceBack starts an animation that returns every over-scrolled axis to
// the bound. It does nothing while dragging or flinging and reports whether
// an animation started.
func (e *Engine) BounceBack() bool {
	if e.dragging || e.fling.depth > 0 || !e.model.OverScroll().Any() {
		return false
	}
	d := e.model.TitleOrigin().Sub(e.model.ContentOrigin())
	return e.SmoothMoveBy(d.X, d.Y)
}

// Advance runs the fling and animations forward by dt and reports whether
// more frames are needed.
func (e *Engine) Advance(dt time.Duration) bool {
	if dt < 0 {
		dt = 0
	}
	e.advanceAnimations(dt)
	if e.fling.depth > 0 {
		e.advanceFling(dt.Seconds())
	}
	return e.Active()
}

func (e *Engine) advanceAnimations(dt time.Duration) {
	if !e.Animating() {
		return
	}
	o := e.model.ContentOrigin()
	for i, a := range e.anims {
		if a == nil {
			continue
		}
		a.elapsed += dt
		t := 1.0
		if a.duration > 0 {
			t = math.Min(float64(a.elapsed)/float64(a.duration), 1)
		}
		v := a.start + a.delta*ease(t)
		if t >= 1 {
			v = a.start + a.delta
			e.anims[i] = nil
		}
		if axis(i) == axisX {
			o.X = v
		} else {
			o.Y = v
		}
	}
	e.model.SetContentOrigin(o)
}

func (e *Engine) advanceFling(dt float64) {
	f := &e.fling
	if !f.held {
		e.fling = fling{}
		return
	}
	if f.depth > 1 {
		e.beginFling(f.pending)
		return
	}

	e.bouncyMove(f.dir.X*f.speed.X*dt, f.dir.Y*f.speed.Y*dt)
	over := e.model.OverScroll()

	resist := f.resist
	f.speed.X, resist.X = e.overResist(f.speed.X, resist.X, f.resist.X, f.dir.X, over.Left, over.Right, e.maxOver.X)
	f.speed.Y, resist.Y = e.overResist(f.speed.Y, resist.Y, f.resist.Y, f.dir.Y, over.Top, over.Bottom, e.maxOver.Y)
	f.speed.X = math.Max(f.speed.X-resist.X*dt, 0)
	f.speed.Y = math.Max(f.speed.Y-resist.Y*dt, 0)

	b := e.model.ScrollBound()
	step := e.params.BounceBackSpeed * dt
	o := e.model.ContentOrigin()
	if f.speed.X == 0 {
		o.X = snapBack(o.X, over.Left, over.Right, b.Left, b.Right, step)
	}
	if f.speed.Y == 0 {
		o.Y = snapBack(o.Y, over.Top, over.Bottom, b.Top, b.Bottom, step)
	}
	e.model.SetContentOrigin(o)

	if f.speed.X == 0 && f.speed.Y == 0 && !e.model.OverScroll().Any() {
		e.finishFling()
	}
}

// overResist stops or brakes an axis that is moving deeper into its
// over-scroll zone.
func (e *Engine) overResist(speed, resist, normal, dir, near, far, maxOver float64) (float64, float64) {
	if speed <= 0 {
		return speed, resist
	}
	var depth float64
	switch {
	case near > 0 && dir > 0:
		depth = near
	case far > 0 && dir < 0:
		depth = far
	default:
		return speed, resist
	}
	if depth > maxOver/2 {
		return 0, resist
	}
	return speed, resist + normal*e.params.OverScrollResistance*(depth/maxOver)
}

// snapBack moves pos toward the bound by at most step.
func snapBack(pos, near, far, nearLimit, farLimit, step float64) float64 {
	switch {
	case near > 0:
		if near <= step {
			return nearLimit
		}
		return pos - step
	case far > 0:
		if far <= step {
			return -farLimit
		}
		return pos + step
	default:
		return pos
	}
}

func (e *Engine) finishFling() {
	if e.fling.depth > 1 {
		e.beginFling(e.fling.pending)
		return
	}
	e.fling = fling{}
}

func sign(f float64) float64 {
	if f > 0 {
		return 1
	}
	return -1
}
