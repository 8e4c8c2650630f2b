// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package transition

import "time"

// advanceFade blends every byte toward target by s/256, where s ramps
// 0->256 under the Bézier curve over the transition's duration. Once
// time has fully elapsed it hands off to Simple with a step
// proportional to the original, to mop up any rounding (spec.md
// §4.4).
func (t *Transition) advanceFade(now time.Time) bool {
	f := t.fraction(now)
	s := uint32(t.desc.Bezier.Eval(float32(f)) * 256)
	if s > 256 {
		s = 256
	}

	for i := range t.canvas {
		old := uint32(t.canvas[i])
		new := uint32(t.target[i])
		t.canvas[i] = byte((old*(256-s) + new*s) >> 8)
	}

	if f >= 1 {
		t.beginHandoff(t.desc.Step/4 + 4)
		return applySimple(t.canvas, t.target, t.handoffStep)
	}
	return false
}
