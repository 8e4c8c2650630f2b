// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package linear implements the 2-D vector and easing math shared by
// the transition engine.
package linear

import (
	"math"
)

// V2 is a 2-component vector of float32.
// It is used both for screen-space positions (transition origins,
// wave amplitude/wavelength pairs) and for the control points of a
// cubic Bézier curve.
type V2 [2]float32

// Add sets v to contain l + r.
func (v *V2) Add(l, r *V2) {
	for i := range v {
		v[i] = l[i] + r[i]
	}
}

// Sub sets v to contain l - r.
func (v *V2) Sub(l, r *V2) {
	for i := range v {
		v[i] = l[i] - r[i]
	}
}

// Scale sets v to contain s ⋅ w.
func (v *V2) Scale(s float32, w *V2) {
	for i := range v {
		v[i] = s * w[i]
	}
}

// Dot returns v ⋅ w.
func (v *V2) Dot(w *V2) (d float32) {
	for i := range v {
		d += v[i] * w[i]
	}
	return
}

// Len returns the length of v.
func (v *V2) Len() float32 { return float32(math.Sqrt(float64(v.Dot(v)))) }

// Dist returns the distance between v and w.
func (v *V2) Dist(w *V2) float32 {
	var d V2
	d.Sub(v, w)
	return d.Len()
}
