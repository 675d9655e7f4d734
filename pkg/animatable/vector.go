// Package animatable describes values that can be driven by an animation.
//
// Every animatable value type is represented by a [Kind]: a codec that
// decomposes a value into a fixed-length [Vector] of float64 components and
// reconstructs it again. Animations integrate and interpolate vectors only, so
// springs, easing curves and decay functions work for any kind without
// knowing the concrete Go type.
//
// Built-in kinds cover scalars ([Float64]), points, sizes, rectangles, edge
// insets, colors, 2D affine transforms ([Affine]), 3D transforms
// ([Transform3D]) and free-form vectors ([VectorOf]).
package animatable

import "math"

// Vector is the numeric representation of an animatable value.
// Operations between vectors require equal lengths.
type Vector []float64

// Zero returns a zero vector of length n.
func Zero(n int) Vector {
	return make(Vector, n)
}

// Clone returns a copy of v.
func (v Vector) Clone() Vector {
	out := make(Vector, len(v))
	copy(out, v)
	return out
}

// Add returns v+o.
func (v Vector) Add(o Vector) Vector {
	out := make(Vector, len(v))
	for i := range v {
		out[i] = v[i] + o[i]
	}
	return out
}

// Sub returns v-o.
func (v Vector) Sub(o Vector) Vector {
	out := make(Vector, len(v))
	for i := range v {
		out[i] = v[i] - o[i]
	}
	return out
}

// Scale returns v*s.
func (v Vector) Scale(s float64) Vector {
	out := make(Vector, len(v))
	for i := range v {
		out[i] = v[i] * s
	}
	return out
}

// Lerp interpolates component-wise between v (t = 0) and o (t = 1).
// t is not clamped so overshooting curves extrapolate.
func (v Vector) Lerp(o Vector, t float64) Vector {
	out := make(Vector, len(v))
	for i := range v {
		out[i] = v[i] + (o[i]-v[i])*t
	}
	return out
}

// MagnitudeSquared returns the squared Euclidean length.
func (v Vector) MagnitudeSquared() float64 {
	var sum float64
	for _, c := range v {
		sum += c * c
	}
	return sum
}

// IsZero reports whether every component is zero.
func (v Vector) IsZero() bool {
	for _, c := range v {
		if c != 0 {
			return false
		}
	}
	return true
}

// Equal reports exact component equality.
func (v Vector) Equal(o Vector) bool {
	if len(v) != len(o) {
		return false
	}
	for i := range v {
		if v[i] != o[i] {
			return false
		}
	}
	return true
}

// ApproxEqual reports whether every component differs by at most epsilon.
func (v Vector) ApproxEqual(o Vector, epsilon float64) bool {
	if len(v) != len(o) {
		return false
	}
	for i := range v {
		if math.Abs(v[i]-o[i]) > epsilon {
			return false
		}
	}
	return true
}
