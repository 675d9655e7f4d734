package animation

import "github.com/go-drift/anima/pkg/animatable"

// Tween maps a progress value to a value of kind T between Begin and End.
//
// Drive a float64 [EasingAnimation] from 0 to 1 and use Tween to derive any
// number of values of other kinds from its progress.
//
// See ExampleTween for usage.
type Tween[T any] struct {
	// Begin is the value at progress 0.
	Begin T
	// End is the value at progress 1.
	End T
	// Kind interpolates between Begin and End component-wise.
	Kind animatable.Kind[T]
	// Curve reshapes progress before interpolation. Optional.
	Curve TimingFunction
}

// NewTween creates a tween between begin and end.
func NewTween[T any](kind animatable.Kind[T], begin, end T) *Tween[T] {
	return &Tween[T]{Begin: begin, End: end, Kind: kind}
}

// Evaluate returns the value at progress t. Progress outside [0, 1]
// extrapolates.
func (tw *Tween[T]) Evaluate(t float64) T {
	if tw.Kind == nil {
		return tw.End
	}
	if tw.Curve.curve != nil {
		t = tw.Curve.Solve(t)
	}
	return animatable.Lerp(tw.Kind, tw.Begin, tw.End, t)
}

// Transform returns the value at the progress of a float64 animation.
func (tw *Tween[T]) Transform(progress interface{ Value() float64 }) T {
	return tw.Evaluate(progress.Value())
}

// Reversed returns a tween running from End to Begin.
func (tw *Tween[T]) Reversed() *Tween[T] {
	return &Tween[T]{Begin: tw.End, End: tw.Begin, Kind: tw.Kind, Curve: tw.Curve}
}
