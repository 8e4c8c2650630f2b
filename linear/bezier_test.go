// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBezierEndpoints(t *testing.T) {
	b := Bezier{P1: V2{0.25, 0.1}, P2: V2{0.25, 1}}
	assert.InDelta(t, 0, b.Eval(0), 1e-6)
	assert.InDelta(t, 1, b.Eval(1), 1e-6)
}

func TestBezierLinear(t *testing.T) {
	// Control points on the diagonal (x == y) reproduce linear easing.
	b := Bezier{P1: V2{0.3, 0.3}, P2: V2{0.7, 0.7}}
	for _, x := range []float32{0, 0.25, 0.5, 0.75, 1} {
		assert.InDelta(t, x, b.Eval(x), 1e-3)
	}
}

func TestBezierOvershootClamped(t *testing.T) {
	// Overshooting control points must not escape [0,1].
	b := Bezier{P1: V2{0.68, -0.55}, P2: V2{0.27, 1.55}}
	for x := float32(0); x <= 1; x += 0.05 {
		y := b.Eval(x)
		assert.GreaterOrEqual(t, y, float32(0))
		assert.LessOrEqual(t, y, float32(1))
	}
}

func TestV2Dist(t *testing.T) {
	a := V2{0, 0}
	b := V2{3, 4}
	assert.InDelta(t, 5, a.Dist(&b), 1e-6)
}
