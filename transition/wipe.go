// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package transition

import (
	"bytes"
	"math"
	"time"
)

// sweepLine returns the unit normal of the half-plane boundary for
// angle (radians), and the minimum/maximum projections of the
// canvas's four corners onto that normal — the offsets at which the
// sweep has touched, respectively cleared, every pixel.
func sweepLine(angle float64, width, height int) (nx, ny, minProj, maxProj float64) {
	nx, ny = -math.Sin(angle), math.Cos(angle)
	corners := [4][2]float64{
		{0, 0}, {float64(width), 0}, {0, float64(height)}, {float64(width), float64(height)},
	}
	minProj, maxProj = math.Inf(1), math.Inf(-1)
	for _, c := range corners {
		p := c[0]*nx + c[1]*ny
		if p < minProj {
			minProj = p
		}
		if p > maxProj {
			maxProj = p
		}
	}
	return
}

// advanceWipe sweeps a half-plane defined by the transition's angle
// across the canvas; pixels on the swept side move toward target by
// step. The offset ramps from the minimal value that touches one
// corner to the maximal value that clears the opposite one, eased by
// the Bézier curve.
func (t *Transition) advanceWipe(now time.Time) bool {
	f := t.fraction(now)
	nx, ny, minProj, maxProj := sweepLine(t.desc.Angle, t.width, t.height)
	s := float64(t.desc.Bezier.Eval(float32(f)))
	offset := minProj + s*(maxProj-minProj)

	for y := 0; y < t.height; y++ {
		py := y
		if t.desc.InvertY {
			py = t.height - 1 - y
		}
		for x := 0; x < t.width; x++ {
			proj := float64(x)*nx + float64(py)*ny
			if proj > offset {
				continue // not yet swept
			}
			t.movePixel(x, y, t.desc.Step)
		}
	}
	done := bytes.Equal(t.canvas, t.target)

	if f >= 1 && done {
		return true
	}
	if f >= 1 {
		t.beginHandoff(t.desc.Step)
		return applySimple(t.canvas, t.target, t.handoffStep)
	}
	return false
}
