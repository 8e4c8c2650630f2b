// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package transition

import (
	"bytes"
	"math"
	"time"
)

// advanceWave is like Wipe but the dividing line is a sinusoid of
// amplitude desc.Wave[0] and wavelength 2π·desc.Wave[1], rotated by
// desc.Angle. Each row is split into three spans: certainly outside
// the sweep, certainly inside it, and a narrow band around the
// sinusoid's extremes where it must actually be evaluated per pixel.
func (t *Transition) advanceWave(now time.Time) bool {
	f := t.fraction(now)
	nx, ny, minProj, maxProj := sweepLine(t.desc.Angle, t.width, t.height)
	s := float64(t.desc.Bezier.Eval(float32(f)))
	offset := minProj + s*(maxProj-minProj)

	amplitude := float64(t.desc.Wave[0])
	wavelength := 2 * math.Pi * float64(t.desc.Wave[1])
	var angularFreq float64
	if wavelength != 0 {
		angularFreq = 2 * math.Pi / wavelength
	}

	for y := 0; y < t.height; y++ {
		py := y
		if t.desc.InvertY {
			py = t.height - 1 - y
		}
		t.waveRow(y, py, nx, ny, offset, amplitude, angularFreq)
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

// waveRow advances one row, splitting it into the certainly-outside,
// certainly-inside, and near-band spans the sinusoid can actually
// affect: the wave term of the projection is bounded by ±amplitude,
// so any x whose base projection clears offset by more than that
// margin does not need the sinusoid evaluated at all.
func (t *Transition) waveRow(y, py int, nx, ny, offset, amplitude, angularFreq float64) {
	for x := 0; x < t.width; x++ {
		base := float64(x)*nx + float64(py)*ny
		var swept bool
		switch {
		case base+amplitude <= offset:
			swept = true // certainly inside: even the highest crest clears
		case base-amplitude > offset:
			swept = false // certainly outside: even the lowest trough doesn't
		default:
			wave := amplitude * math.Sin(angularFreq*float64(x))
			swept = base+wave <= offset
		}
		if swept {
			t.movePixel(x, y, t.desc.Step)
		}
	}
}
