package animatable

import (
	"math"

	"golang.org/x/image/math/f64"

	"github.com/go-drift/anima/pkg/graphics"
)

// Kind converts values of type T to and from their vector representation.
//
// Implementations must be lossless: Reconstruct(Decompose(v)) == v.
// Decompose always returns a vector of length Len.
type Kind[T any] interface {
	// Name identifies the kind in diagnostics.
	Name() string
	// Len is the fixed number of vector components.
	Len() int
	// Decompose returns the vector representation of v.
	Decompose(v T) Vector
	// Reconstruct builds a value from its vector representation.
	Reconstruct(data Vector) T
	// Integralize rounds pixel-aligned components of v to device pixel
	// boundaries for the given scale factor. Idempotent.
	Integralize(v T, scale float64) T
}

// Define creates a Kind from a pair of conversion functions. Components
// listed in pixelAligned are rounded by Integralize; pass nil when the kind
// has no geometric components.
func Define[T any](name string, n int, decompose func(T) Vector, reconstruct func(Vector) T, pixelAligned []bool) Kind[T] {
	return &funcKind[T]{name: name, n: n, decompose: decompose, reconstruct: reconstruct, pixel: pixelAligned}
}

type funcKind[T any] struct {
	name        string
	n           int
	decompose   func(T) Vector
	reconstruct func(Vector) T
	pixel       []bool
}

func (k *funcKind[T]) Name() string { return k.name }
func (k *funcKind[T]) Len() int     { return k.n }

func (k *funcKind[T]) Decompose(v T) Vector { return k.decompose(v) }

func (k *funcKind[T]) Reconstruct(data Vector) T { return k.reconstruct(data) }

func (k *funcKind[T]) Integralize(v T, scale float64) T {
	if k.pixel == nil || scale <= 0 {
		return v
	}
	data := k.decompose(v)
	for i, aligned := range k.pixel {
		if aligned {
			data[i] = roundToPixel(data[i], scale)
		}
	}
	return k.reconstruct(data)
}

func roundToPixel(v, scale float64) float64 {
	return math.Round(v*scale) / scale
}

// ZeroOf returns the zero value of a kind, reconstructed from a zero vector.
func ZeroOf[T any](k Kind[T]) T {
	return k.Reconstruct(Zero(k.Len()))
}

// Equal reports whether a and b have identical vector representations.
func Equal[T any](k Kind[T], a, b T) bool {
	return k.Decompose(a).Equal(k.Decompose(b))
}

// Lerp interpolates between a (t = 0) and b (t = 1) through the vector space
// of k.
func Lerp[T any](k Kind[T], a, b T, t float64) T {
	return k.Reconstruct(k.Decompose(a).Lerp(k.Decompose(b), t))
}

// Integralize is a convenience for k.Integralize(v, scale).
func Integralize[T any](k Kind[T], v T, scale float64) T {
	return k.Integralize(v, scale)
}

func allPixels(n int) []bool {
	out := make([]bool, n)
	for i := range out {
		out[i] = true
	}
	return out
}

// Float64 animates plain scalars such as opacity or progress. Scalars are
// never pixel-aligned; use [Length] for distances.
var Float64 = Define("float64", 1,
	func(v float64) Vector { return Vector{v} },
	func(d Vector) float64 { return d[0] },
	nil,
)

// Length animates a scalar distance in logical pixels.
var Length = Define("length", 1,
	func(v float64) Vector { return Vector{v} },
	func(d Vector) float64 { return d[0] },
	allPixels(1),
)

// Point animates a [graphics.Point].
var Point = Define("point", 2,
	func(p graphics.Point) Vector { return Vector{p.X, p.Y} },
	func(d Vector) graphics.Point { return graphics.Point{X: d[0], Y: d[1]} },
	allPixels(2),
)

// Size animates a [graphics.Size].
var Size = Define("size", 2,
	func(s graphics.Size) Vector { return Vector{s.Width, s.Height} },
	func(d Vector) graphics.Size { return graphics.Size{Width: d[0], Height: d[1]} },
	allPixels(2),
)

// Rect animates a [graphics.Rect] as origin followed by size.
var Rect = Define("rect", 4,
	func(r graphics.Rect) Vector { return Vector{r.Origin.X, r.Origin.Y, r.Size.Width, r.Size.Height} },
	func(d Vector) graphics.Rect { return graphics.RectFromLTWH(d[0], d[1], d[2], d[3]) },
	allPixels(4),
)

// Insets animates [graphics.EdgeInsets].
var Insets = Define("insets", 4,
	func(e graphics.EdgeInsets) Vector { return Vector{e.Left, e.Top, e.Right, e.Bottom} },
	func(d Vector) graphics.EdgeInsets {
		return graphics.EdgeInsets{Left: d[0], Top: d[1], Right: d[2], Bottom: d[3]}
	},
	allPixels(4),
)

// Color animates a [graphics.ColorF] as red, green, blue and alpha.
var Color = Define("color", 4,
	func(c graphics.ColorF) Vector { return Vector{c.R, c.G, c.B, c.A} },
	func(d Vector) graphics.ColorF { return graphics.ColorF{R: d[0], G: d[1], B: d[2], A: d[3]} },
	nil,
)

// Affine animates a 2D affine transform stored row-major as
// [a b tx; c d ty].
var Affine = Define("affine", 6,
	func(m f64.Aff3) Vector { return Vector(m[:]).Clone() },
	func(d Vector) f64.Aff3 {
		var m f64.Aff3
		copy(m[:], d)
		return m
	},
	nil,
)

// Transform3D animates a 4x4 transform matrix component-wise.
var Transform3D = Define("transform3d", 16,
	func(m f64.Mat4) Vector { return Vector(m[:]).Clone() },
	func(d Vector) f64.Mat4 {
		var m f64.Mat4
		copy(m[:], d)
		return m
	},
	nil,
)

// IdentityAffine is the identity 2D transform.
var IdentityAffine = f64.Aff3{1, 0, 0, 0, 1, 0}

// IdentityTransform3D is the identity 3D transform.
var IdentityTransform3D = f64.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 1, 0,
	0, 0, 0, 1,
}

// VectorOf returns a kind for free-form vectors of length n.
func VectorOf(n int) Kind[Vector] {
	return Define("vector", n,
		func(v Vector) Vector { return v.Clone() },
		func(d Vector) Vector { return d.Clone() },
		nil,
	)
}
