// Package graphics defines the value types hosts animate: points, sizes,
// rectangles, edge insets and colors.
package graphics

import "fmt"

// Point is a location in logical pixels.
type Point struct {
	X, Y float64
}

// Add returns p+o.
func (p Point) Add(o Point) Point { return Point{X: p.X + o.X, Y: p.Y + o.Y} }

// Sub returns p-o.
func (p Point) Sub(o Point) Point { return Point{X: p.X - o.X, Y: p.Y - o.Y} }

func (p Point) String() string { return fmt.Sprintf("(%g, %g)", p.X, p.Y) }

// Size is a width and height in logical pixels.
type Size struct {
	Width, Height float64
}

func (s Size) String() string { return fmt.Sprintf("%gx%g", s.Width, s.Height) }

// Rect is an axis-aligned rectangle.
type Rect struct {
	Origin Point
	Size   Size
}

// RectFromLTWH creates a rectangle from its left, top, width and height.
func RectFromLTWH(left, top, width, height float64) Rect {
	return Rect{Origin: Point{X: left, Y: top}, Size: Size{Width: width, Height: height}}
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.Origin.X + r.Size.Width/2, Y: r.Origin.Y + r.Size.Height/2}
}

// MaxX returns the right edge.
func (r Rect) MaxX() float64 { return r.Origin.X + r.Size.Width }

// MaxY returns the bottom edge.
func (r Rect) MaxY() float64 { return r.Origin.Y + r.Size.Height }

func (r Rect) String() string { return fmt.Sprintf("{%v %v}", r.Origin, r.Size) }

// EdgeInsets represents padding on four sides.
type EdgeInsets struct {
	Left, Top, Right, Bottom float64
}

// EdgeInsetsAll creates uniform insets.
func EdgeInsetsAll(v float64) EdgeInsets {
	return EdgeInsets{Left: v, Top: v, Right: v, Bottom: v}
}
