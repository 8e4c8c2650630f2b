// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package transition implements the seven wallpaper transition
// effects (spec.md §4.4): state machines that advance a canvas one
// tick closer to a target image, each driven by a cubic Bézier eased
// scalar over a bounded duration.
package transition

import (
	"time"

	"github.com/gviegas/wallbg/linear"
)

// Kind identifies one of the seven transition effects.
type Kind int

// Transition kinds.
const (
	None Kind = iota
	Simple
	Fade
	Wipe
	Grow
	Outer
	Wave
)

// Unit tags one axis of a Position as either an absolute pixel offset
// or a percentage of the output dimension.
type Unit int

// Position units.
const (
	UnitPixel Unit = iota
	UnitPercent
)

// Axis is one coordinate of a Position.
type Axis struct {
	Unit  Unit
	Value float32
}

// resolve returns the axis value in pixels, given the output extent
// along that axis.
func (a Axis) resolve(extent int) float64 {
	if a.Unit == UnitPercent {
		return float64(a.Value) / 100 * float64(extent)
	}
	return float64(a.Value)
}

// Position is the 2-D origin Grow/Outer expand or contract around.
type Position struct {
	X, Y Axis
}

// Resolve returns p in absolute pixel coordinates for an output of
// the given dimensions.
func (p Position) Resolve(width, height int) (x, y float64) {
	return p.X.resolve(width), p.Y.resolve(height)
}

// Descriptor holds every parameter a transition effect may consult;
// only the subset relevant to Kind is read (spec.md §3).
type Descriptor struct {
	Kind     Kind
	Duration time.Duration
	Step     uint8 // non-zero; the per-channel saturating delta per tick
	FPS      uint16
	Angle    float64 // radians
	Position Position
	Bezier   linear.Bezier
	Wave     [2]float32 // amplitude, wavelength / 2π
	InvertY  bool
}

// Transition is a running instance of a Descriptor against one
// canvas/target pair. It is not safe for concurrent use; each
// Animator worker owns its own instance.
type Transition struct {
	desc   Descriptor
	canvas []byte
	target []byte
	width  int
	height int
	chans  int

	start     time.Time
	started   bool
	converged bool

	// handoffStep is set once a geometric effect's time budget
	// elapses; Advance then behaves as Simple with this step for all
	// subsequent calls, guaranteeing byte-exact convergence regardless
	// of rounding in the geometric pass (spec.md §4.4).
	handoffStep uint8
	handoff     bool
}

// New returns a Transition that will morph canvas into target over
// successive Advance calls. canvas and target must have equal length,
// width*height*channels.
func New(desc Descriptor, canvas, target []byte, width, height, channels int) *Transition {
	return &Transition{
		desc:   desc,
		canvas: canvas,
		target: target,
		width:  width,
		height: height,
		chans:  channels,
	}
}

// Converged reports whether the transition has finished: canvas now
// equals target.
func (t *Transition) Converged() bool { return t.converged }

// Rebind repoints the transition at a freshly acquired buffer slice
// before the next Advance call. The pool hands back a different
// physical buffer on every draw (double/triple buffering), but always
// pre-populated with the previous committed contents, so resuming
// in-place on the new slice is equivalent to continuing on the old
// one. len(canvas) must equal the transition's width*height*channels.
func (t *Transition) Rebind(canvas []byte) {
	t.canvas = canvas
}

// fraction returns the elapsed-time fraction of t.desc.Duration,
// clamped to [0,1]. A zero or negative duration is always fully
// elapsed, producing the "duration 0 converges in one tick" boundary
// behavior for every effect.
func (t *Transition) fraction(now time.Time) float64 {
	if t.desc.Duration <= 0 {
		return 1
	}
	if !t.started {
		return 0
	}
	f := float64(now.Sub(t.start)) / float64(t.desc.Duration)
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}

// Advance moves the canvas one tick closer to target and reports
// whether it has converged. now is the timestamp of this tick, used
// to compute elapsed-time fractions for time-driven effects.
func (t *Transition) Advance(now time.Time) bool {
	if t.converged {
		return true
	}
	if !t.started {
		t.start = now
		t.started = true
	}

	if t.handoff {
		t.converged = applySimple(t.canvas, t.target, t.handoffStep)
		return t.converged
	}

	switch t.desc.Kind {
	case None:
		copy(t.canvas, t.target)
		t.converged = true
	case Simple:
		t.converged = applySimple(t.canvas, t.target, t.desc.Step)
	case Fade:
		t.converged = t.advanceFade(now)
	case Wipe:
		t.converged = t.advanceWipe(now)
	case Grow:
		t.converged = t.advanceDisc(now, false)
	case Outer:
		t.converged = t.advanceDisc(now, true)
	case Wave:
		t.converged = t.advanceWave(now)
	default:
		copy(t.canvas, t.target)
		t.converged = true
	}
	return t.converged
}

// beginHandoff switches the transition to a Simple tail with a step
// proportional to the geometric pass's own step, guaranteeing
// eventual byte-exact convergence.
func (t *Transition) beginHandoff(step uint8) {
	t.handoff = true
	t.handoffStep = step
}

// moveByte moves old toward new by at most step, saturating instead
// of overshooting.
func moveByte(old, new, step byte) byte {
	switch {
	case old == new:
		return old
	case old < new:
		if d := new - old; d <= step {
			return new
		}
		return old + step
	default:
		if d := old - new; d <= step {
			return new
		}
		return old - step
	}
}

// applySimple moves every byte of canvas toward target by at most
// step and reports whether canvas now equals target.
func applySimple(canvas, target []byte, step uint8) bool {
	done := true
	for i := range canvas {
		canvas[i] = moveByte(canvas[i], target[i], step)
		if canvas[i] != target[i] {
			done = false
		}
	}
	return done
}

// pixelIndex returns the byte offset of pixel (x,y) in a row-major
// canvas with t.chans channels per pixel.
func (t *Transition) pixelIndex(x, y int) int {
	return (y*t.width + x) * t.chans
}

// movePixel moves all channels of the pixel at (x,y) toward target by
// step.
func (t *Transition) movePixel(x, y int, step uint8) {
	o := t.pixelIndex(x, y)
	for c := 0; c < t.chans; c++ {
		t.canvas[o+c] = moveByte(t.canvas[o+c], t.target[o+c], step)
	}
}
