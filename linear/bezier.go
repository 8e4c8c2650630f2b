// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

// Bezier is a cubic Bézier easing curve anchored at (0,0) and (1,1),
// with two free control points — the same four-parameter shape as a
// CSS cubic-bezier() timing function.
// Eval maps an elapsed-time fraction in [0,1] to an eased value in
// the same range; control points outside the unit square would
// overshoot, so Eval clamps its result to [0,1].
type Bezier struct {
	P1, P2 V2
}

// bezierComponent evaluates a single cubic Bézier component
//
//	B(t) = 3(1-t)²t·p1 + 3(1-t)t²·p2 + t³
//
// for anchors 0 and 1.
func bezierComponent(t, p1, p2 float32) float32 {
	u := 1 - t
	return 3*u*u*t*p1 + 3*u*t*t*p2 + t*t*t
}

// bezierDerivative evaluates the derivative of bezierComponent with
// respect to t.
func bezierDerivative(t, p1, p2 float32) float32 {
	u := 1 - t
	return 3*u*u*p1 + 6*u*t*(p2-p1) + 3*t*t*(1-p2)
}

// newtonIterations is the number of Newton-Raphson refinement steps
// used to solve for t given x. Four iterations is enough to converge
// well within float32 precision for the unit-square domain these
// curves are evaluated over.
const newtonIterations = 4

// solveT returns the curve parameter t such that bezierComponent(t,
// P1[0], P2[0]) ≈ x, using x itself as the initial guess (a good
// approximation since the x component is monotonic for control
// points within the unit square) refined by Newton-Raphson.
func (b *Bezier) solveT(x float32) float32 {
	t := x
	for i := 0; i < newtonIterations; i++ {
		d := bezierDerivative(t, b.P1[0], b.P2[0])
		if d == 0 {
			break
		}
		t -= (bezierComponent(t, b.P1[0], b.P2[0]) - x) / d
		if t < 0 {
			t = 0
		} else if t > 1 {
			t = 1
		}
	}
	return t
}

// Eval returns the eased value for elapsed-time fraction x.
// x is clamped to [0,1] before solving; the returned y is clamped to
// [0,1] as well, guarding against overshoot from control points that
// lie outside the unit square (see SPEC_FULL.md's Bézier easing
// clamps).
func (b *Bezier) Eval(x float32) float32 {
	switch {
	case x <= 0:
		return 0
	case x >= 1:
		return 1
	}
	t := b.solveT(x)
	y := bezierComponent(t, b.P1[1], b.P2[1])
	switch {
	case y < 0:
		return 0
	case y > 1:
		return 1
	}
	return y
}
