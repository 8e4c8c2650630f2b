// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package transition

import (
	"testing"
	"time"

	"github.com/gviegas/wallbg/linear"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	w, h, c = 4, 4, 3
)

func solidCanvas(v byte) []byte {
	b := make([]byte, w*h*c)
	for i := range b {
		b[i] = v
	}
	return b
}

func linearBezier() linear.Bezier {
	return linear.Bezier{P1: linear.V2{0, 0}, P2: linear.V2{1, 1}}
}

func TestNoneConvergesInOneTick(t *testing.T) {
	canvas := solidCanvas(0)
	target := solidCanvas(255)
	tr := New(Descriptor{Kind: None}, canvas, target, w, h, c)
	assert.True(t, tr.Advance(time.Unix(0, 0)))
	assert.Equal(t, target, canvas)
}

func TestSimpleConverges(t *testing.T) {
	canvas := solidCanvas(0)
	target := solidCanvas(10)
	tr := New(Descriptor{Kind: Simple, Step: 3}, canvas, target, w, h, c)
	now := time.Unix(0, 0)
	for i := 0; i < 10; i++ {
		if tr.Advance(now) {
			break
		}
	}
	require.True(t, tr.Converged())
	assert.Equal(t, target, canvas)
}

func TestZeroDurationConvergesInOneFrame(t *testing.T) {
	for _, kind := range []Kind{None, Simple, Fade, Wipe, Grow, Outer, Wave} {
		canvas := solidCanvas(0)
		target := solidCanvas(200)
		desc := Descriptor{
			Kind:     kind,
			Duration: 0,
			Step:     255, // saturating: guarantees full convergence in a single tick
			Bezier:   linearBezier(),
			Position: Position{X: Axis{Value: 2}, Y: Axis{Value: 2}},
			Wave:     [2]float32{1, 4},
		}
		tr := New(desc, canvas, target, w, h, c)
		converged := tr.Advance(time.Unix(0, 0))
		assert.True(t, converged, "kind=%v", kind)
		assert.Equal(t, target, canvas, "kind=%v", kind)
	}
}

func TestFadeConvergesAndHandsOffToSimple(t *testing.T) {
	canvas := solidCanvas(0)
	target := solidCanvas(255)
	desc := Descriptor{Kind: Fade, Duration: 100 * time.Millisecond, Step: 16, Bezier: linearBezier()}
	tr := New(desc, canvas, target, w, h, c)

	start := time.Unix(0, 0)
	tr.Advance(start)
	tr.Advance(start.Add(200 * time.Millisecond)) // past the duration: triggers handoff

	for i := 0; i < 64 && !tr.Converged(); i++ {
		tr.Advance(start.Add(200 * time.Millisecond))
	}
	assert.True(t, tr.Converged())
	assert.Equal(t, target, canvas)
}

func TestWipeConverges(t *testing.T) {
	canvas := solidCanvas(0)
	target := solidCanvas(128)
	desc := Descriptor{Kind: Wipe, Duration: 50 * time.Millisecond, Step: 200, Bezier: linearBezier()}
	tr := New(desc, canvas, target, w, h, c)

	start := time.Unix(0, 0)
	for i := 0; i <= 10 && !tr.Converged(); i++ {
		tr.Advance(start.Add(time.Duration(i) * 10 * time.Millisecond))
	}
	assert.True(t, tr.Converged())
	assert.Equal(t, target, canvas)
}

func TestGrowOuterConverge(t *testing.T) {
	for _, kind := range []Kind{Grow, Outer} {
		canvas := solidCanvas(0)
		target := solidCanvas(64)
		desc := Descriptor{
			Kind:     kind,
			Duration: 50 * time.Millisecond,
			Step:     200,
			Bezier:   linearBezier(),
			Position: Position{X: Axis{Value: 2}, Y: Axis{Value: 2}},
		}
		tr := New(desc, canvas, target, w, h, c)
		start := time.Unix(0, 0)
		for i := 0; i <= 10 && !tr.Converged(); i++ {
			tr.Advance(start.Add(time.Duration(i) * 10 * time.Millisecond))
		}
		assert.True(t, tr.Converged(), "kind=%v", kind)
		assert.Equal(t, target, canvas, "kind=%v", kind)
	}
}

func TestWaveConverges(t *testing.T) {
	canvas := solidCanvas(0)
	target := solidCanvas(90)
	desc := Descriptor{
		Kind: Wave, Duration: 50 * time.Millisecond, Step: 200, Bezier: linearBezier(),
		Wave: [2]float32{1, 2},
	}
	tr := New(desc, canvas, target, w, h, c)
	start := time.Unix(0, 0)
	for i := 0; i <= 10 && !tr.Converged(); i++ {
		tr.Advance(start.Add(time.Duration(i) * 10 * time.Millisecond))
	}
	assert.True(t, tr.Converged())
	assert.Equal(t, target, canvas)
}

func TestPositionResolve(t *testing.T) {
	p := Position{X: Axis{Unit: UnitPercent, Value: 50}, Y: Axis{Unit: UnitPixel, Value: 7}}
	x, y := p.Resolve(200, 100)
	assert.Equal(t, 100.0, x)
	assert.Equal(t, 7.0, y)
}
