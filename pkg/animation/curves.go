package animation

import "math"

// bezierEpsilon is the x precision the solver stops at.
const bezierEpsilon = 1e-7

// unitBezier is a cubic bezier from (0,0) to (1,1) in polynomial form, so x
// and y evaluate with three multiplies each.
type unitBezier struct {
	ax, bx, cx float64
	ay, by, cy float64
}

func newUnitBezier(x1, y1, x2, y2 float64) unitBezier {
	var b unitBezier
	b.cx = 3 * x1
	b.bx = 3*(x2-x1) - b.cx
	b.ax = 1 - b.cx - b.bx
	b.cy = 3 * y1
	b.by = 3*(y2-y1) - b.cy
	b.ay = 1 - b.cy - b.by
	return b
}

func (b unitBezier) x(u float64) float64 { return ((b.ax*u+b.bx)*u + b.cx) * u }
func (b unitBezier) y(u float64) float64 { return ((b.ay*u+b.by)*u + b.cy) * u }
func (b unitBezier) dx(u float64) float64 {
	return (3*b.ax*u+2*b.bx)*u + b.cx
}

// solveX returns the curve parameter whose x is t. Newton steps first; a
// bisection over [0, 1] catches flat spots where Newton stalls.
func (b unitBezier) solveX(t float64) float64 {
	u := t
	for range 8 {
		err := b.x(u) - t
		if math.Abs(err) < bezierEpsilon {
			return u
		}
		d := b.dx(u)
		if math.Abs(d) < 1e-6 {
			break
		}
		u -= err / d
	}

	lo, hi := 0.0, 1.0
	u = clampUnit(t)
	for lo < hi {
		x := b.x(u)
		if math.Abs(x-t) < bezierEpsilon {
			return u
		}
		if t > x {
			lo = u
		} else {
			hi = u
		}
		next := lo + (hi-lo)/2
		if next == u {
			break
		}
		u = next
	}
	return u
}

// CubicBezier returns the easing curve with control points (x1,y1) and
// (x2,y2), as CSS cubic-bezier() defines it. Inputs outside [0, 1] clamp.
func CubicBezier(x1, y1, x2, y2 float64) func(float64) float64 {
	b := newUnitBezier(x1, y1, x2, y2)
	return func(t float64) float64 {
		switch {
		case t <= 0:
			return 0
		case t >= 1:
			return 1
		}
		return b.y(b.solveX(t))
	}
}

func clampUnit(value float64) float64 {
	return math.Max(0, math.Min(1, value))
}
