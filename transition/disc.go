// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package transition

import (
	"bytes"
	"math"
	"time"
)

// maxCornerDist returns the distance from (cx,cy) to the farthest
// corner of a width×height canvas.
func maxCornerDist(cx, cy float64, width, height int) float64 {
	corners := [4][2]float64{
		{0, 0}, {float64(width), 0}, {0, float64(height)}, {float64(width), float64(height)},
	}
	var max float64
	for _, c := range corners {
		dx, dy := c[0]-cx, c[1]-cy
		if d := math.Hypot(dx, dy); d > max {
			max = d
		}
	}
	return max
}

// advanceDisc implements both Grow and Outer: a disc centered at the
// transition's position expands or contracts, and pixels inside
// (Grow) or outside (Outer) it move toward target by step. outer
// selects the Outer variant; radius ramps from 0 to maxCornerDist for
// Grow, and in reverse for Outer.
func (t *Transition) advanceDisc(now time.Time, outer bool) bool {
	f := t.fraction(now)
	cx, cy := t.desc.Position.Resolve(t.width, t.height)
	maxDist := maxCornerDist(cx, cy, t.width, t.height)
	s := float64(t.desc.Bezier.Eval(float32(f)))

	var radius float64
	if outer {
		radius = maxDist * (1 - s)
	} else {
		radius = maxDist * s
	}

	for y := 0; y < t.height; y++ {
		py := float64(y)
		if t.desc.InvertY {
			py = float64(t.height - 1 - y)
		}
		for x := 0; x < t.width; x++ {
			dx, dy := float64(x)-cx, py-cy
			inside := dx*dx+dy*dy <= radius*radius
			if inside == outer {
				continue // Grow moves inside, Outer moves outside
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
