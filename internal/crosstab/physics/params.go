// Package physics moves the content origin of a cross table: rubber-band
// drags past the scroll bound, velocity flings with resistance and
// snap-back, and eased per-axis animations.
package physics

import (
	"math"
	"time"
)

// Params tunes the scroll physics. Velocities are in px/s.
type Params struct {
	// MinFlingVelocity is the speed below which a fling is ignored.
	MinFlingVelocity float64
	// MaxFlingVelocity caps the fling speed, preserving direction.
	MaxFlingVelocity float64
	// Resistance is the per-second deceleration as a multiple of the
	// initial fling speed.
	Resistance float64
	// OverScrollResistance multiplies Resistance further in proportion to
	// how deep the content sits in the over-scroll zone.
	OverScrollResistance float64
	// BounceBackSpeed is the rate at which a stopped fling returns to the
	// bound.
	BounceBackSpeed float64
	// Damping scales every rubber-band displacement.
	Damping float64
	// MaxOverScroll is the default rubber-band reach on both axes.
	MaxOverScroll float64
	// AnimationDuration is the length of a smooth move.
	AnimationDuration time.Duration
	// FrameInterval is the nominal tick cadence hosts should schedule.
	FrameInterval time.Duration
}

// DefaultParams returns the stock physics.
func DefaultParams() Params {
	return Params{
		MinFlingVelocity:     1000,
		MaxFlingVelocity:     6000,
		Resistance:           1.5,
		OverScrollResistance: 2,
		BounceBackSpeed:      400,
		Damping:              0.7,
		MaxOverScroll:        200,
		AnimationDuration:    300 * time.Millisecond,
		FrameInterval:        16 * time.Millisecond,
	}
}

// Normalize fills zero or negative fields with their defaults.
func (p Params) Normalize() Params {
	d := DefaultParams()
	if p.MinFlingVelocity <= 0 {
		p.MinFlingVelocity = d.MinFlingVelocity
	}
	if p.MaxFlingVelocity < p.MinFlingVelocity {
		p.MaxFlingVelocity = math.Max(d.MaxFlingVelocity, p.MinFlingVelocity)
	}
	if p.Resistance <= 0 {
		p.Resistance = d.Resistance
	}
	if p.OverScrollResistance <= 0 {
		p.OverScrollResistance = d.OverScrollResistance
	}
	if p.BounceBackSpeed <= 0 {
		p.BounceBackSpeed = d.BounceBackSpeed
	}
	if p.Damping <= 0 || p.Damping > 1 {
		p.Damping = d.Damping
	}
	if p.MaxOverScroll <= 0 {
		p.MaxOverScroll = d.MaxOverScroll
	}
	if p.AnimationDuration <= 0 {
		p.AnimationDuration = d.AnimationDuration
	}
	if p.FrameInterval <= 0 {
		p.FrameInterval = d.FrameInterval
	}
	return p
}

// Bouncy returns the displacement produced by pulling x pixels further into
// an over-scroll zone that is already s deep and at most d deep:
//
//	damping * (x - (s/d)*x - x*x/(2d))
//
// The quadratic peaks at x = d-s; larger pulls saturate there, so the result
// never shrinks as x grows and s plus the result stays below d.
func Bouncy(x, s, d, damping float64) float64 {
	if d <= 0 || x <= 0 {
		return 0
	}
	s = math.Max(s, 0)
	if s >= d {
		return 0
	}
	x = math.Min(x, d-s)
	return damping * (x - (s/d)*x - x*x/(2*d))
}

// ease is the accelerate-decelerate curve, monotonic from 0 to 1.
func ease(t float64) float64 {
	return math.Cos((t+1)*math.Pi)/2 + 0.5
}
