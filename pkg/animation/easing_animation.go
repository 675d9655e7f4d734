package animation

import (
	"fmt"
	"time"

	"github.com/go-drift/anima/pkg/animatable"
)

// EasingAnimation interpolates a value of kind T from its start value to a
// target over a fixed duration, shaped by a [TimingFunction].
//
// Playback can be reversed, in which case the animation runs back towards
// the start value, and it can repeat, optionally flipping direction each
// time.
type EasingAnimation[T any] struct {
	*base

	kind     animatable.Kind[T]
	value    animatable.Vector
	target   animatable.Vector
	from     animatable.Vector
	velocity animatable.Vector
	fraction float64

	// Timing shapes the interpolation. The zero value is linear.
	Timing TimingFunction
	// Duration of one pass. Zero or less applies the target immediately.
	Duration time.Duration
	// IsReversed runs the animation from the target back to the start
	// value.
	IsReversed bool
	// Repeats restarts the animation every time it completes.
	Repeats bool
	// Autoreverses flips IsReversed on each repeat.
	Autoreverses bool
	// AutoStarts starts the animation whenever its target changes while it is
	// not running.
	AutoStarts bool
	// IntegralizeValues rounds delivered values to pixel boundaries of the
	// controller's scale.
	IntegralizeValues bool

	ValueChanged func(T)
	Completion   func(Event[T])
}

// NewEasingAnimation creates an inactive easing animation.
func NewEasingAnimation[T any](ctrl *Controller, kind animatable.Kind[T], timing TimingFunction, duration time.Duration, value, target T) *EasingAnimation[T] {
	a := &EasingAnimation[T]{
		base:     newBase("animation.NewEasingAnimation", ctrl),
		kind:     kind,
		value:    kind.Decompose(value),
		target:   kind.Decompose(target),
		velocity: animatable.Zero(kind.Len()),
		Timing:   timing,
		Duration: duration,
	}
	a.from = a.value.Clone()
	a.bind(a)
	return a
}

// Kind returns the value kind.
func (a *EasingAnimation[T]) Kind() animatable.Kind[T] { return a.kind }

// Value returns the current value.
func (a *EasingAnimation[T]) Value() T { return a.kind.Reconstruct(a.value) }

// SetValue moves the current value. Outside a run it also becomes the start
// value.
func (a *EasingAnimation[T]) SetValue(v T) {
	a.value = a.kind.Decompose(v)
	if a.state != Running {
		a.from = a.value.Clone()
	}
}

// FromValue returns the value interpolation starts from.
func (a *EasingAnimation[T]) FromValue() T { return a.kind.Reconstruct(a.from) }

// Target returns the target value.
func (a *EasingAnimation[T]) Target() T { return a.kind.Reconstruct(a.target) }

// SetTarget retargets the animation. A running animation restarts from its
// current value with a fresh duration and delivers one EventRetargeted. The
// new pass always plays forward, so a reversed animation heads for the new
// target too. Otherwise the change is silent, unless AutoStarts is set.
func (a *EasingAnimation[T]) SetTarget(v T) {
	a.retarget(a.kind.Decompose(v))
}

func (a *EasingAnimation[T]) retarget(target animatable.Vector) {
	if target.Equal(a.target) {
		return
	}
	old := a.target
	a.target = target
	if a.state == Running {
		a.IsReversed = false
		a.fraction = a.startFraction()
		if a.value.Equal(a.target) {
			a.fraction = 1
		}
		a.from = a.value.Clone()
		a.resetClock()
		if a.Completion != nil {
			a.Completion(Retargeted(a.kind.Reconstruct(old), a.kind.Reconstruct(target)))
		}
		a.retargeted()
		return
	}
	if a.AutoStarts && !a.value.Equal(a.target) {
		a.Start(0)
	}
}

// Velocity returns the velocity measured over the last update.
func (a *EasingAnimation[T]) Velocity() T { return a.kind.Reconstruct(a.velocity) }

// FractionComplete returns the linear progress through the current pass in
// [0, 1].
func (a *EasingAnimation[T]) FractionComplete() float64 { return a.fraction }

// SetFractionComplete scrubs the animation. The value follows immediately
// when the animation is not running.
func (a *EasingAnimation[T]) SetFractionComplete(f float64) {
	a.fraction = clampUnit(f)
	if a.state != Running {
		a.value = a.interpolated()
		if a.ValueChanged != nil {
			a.ValueChanged(a.presented())
		}
	}
}

// Start runs the animation after delay. Starting a running animation does
// nothing. An animation that completed its pass starts a new pass from its
// current value; flip IsReversed first to play it back.
func (a *EasingAnimation[T]) Start(delay time.Duration) {
	a.schedule("animation.EasingAnimation.Start", delay, func() {
		if a.atEnd() {
			a.fraction = a.startFraction()
			if !a.IsReversed {
				a.from = a.value.Clone()
			}
		}
		if !a.IsReversed && a.value.Equal(a.target) {
			a.fraction = 1
		}
		a.activate()
		a.Update(0)
	})
}

// Pause stops the animation where it is. Starting it again resumes the
// current pass.
func (a *EasingAnimation[T]) Pause() {
	a.pause()
	a.velocity = animatable.Zero(a.kind.Len())
}

// Stop ends the animation. Stopping immediately snaps the value to pos and
// delivers ValueChanged and EventFinished before returning. Otherwise the
// animation retargets to pos and eases there.
func (a *EasingAnimation[T]) Stop(pos Position, immediately bool) {
	if !immediately {
		a.cancelDelayed()
		a.retarget(a.position(pos))
		return
	}
	a.value = a.position(pos)
	a.target = a.value.Clone()
	a.from = a.value.Clone()
	a.velocity = animatable.Zero(a.kind.Len())
	a.fraction = a.endFraction()
	a.end(a.deliverFinish)
}

func (a *EasingAnimation[T]) position(pos Position) animatable.Vector {
	switch pos {
	case PositionStart:
		return a.from.Clone()
	case PositionEnd:
		return a.target.Clone()
	default:
		return a.value.Clone()
	}
}

// Update advances the animation by dt seconds.
func (a *EasingAnimation[T]) Update(dt float64) {
	if a.state != Running {
		return
	}
	animated := a.Duration > 0
	if dt <= 0 && animated {
		return
	}

	previous := a.value
	if animated {
		step := dt / a.Duration.Seconds()
		if a.IsReversed {
			step = -step
		}
		a.fraction = clampUnit(a.fraction + step)
		a.value = a.interpolated()
	} else {
		a.fraction = a.endFraction()
		a.value = a.endValue()
	}
	if dt > 0 {
		a.velocity = a.value.Sub(previous).Scale(1 / dt)
	}

	finished := a.atEnd() || !animated
	if finished {
		if a.Repeats && animated {
			if a.Autoreverses {
				a.IsReversed = !a.IsReversed
			}
			a.fraction = a.startFraction()
			a.value = a.interpolated()
		} else {
			a.value = a.endValue()
		}
	}

	if finished && (!a.Repeats || !animated) {
		a.velocity = animatable.Zero(a.kind.Len())
		a.end(a.deliverFinish)
		return
	}
	if a.ValueChanged != nil {
		a.ValueChanged(a.presented())
	}
}

func (a *EasingAnimation[T]) interpolated() animatable.Vector {
	return a.from.Lerp(a.target, a.Timing.Solve(a.fraction))
}

func (a *EasingAnimation[T]) startFraction() float64 {
	if a.IsReversed {
		return 1
	}
	return 0
}

func (a *EasingAnimation[T]) endFraction() float64 { return 1 - a.startFraction() }

func (a *EasingAnimation[T]) atEnd() bool {
	if a.IsReversed {
		return a.fraction <= 0
	}
	return a.fraction >= 1
}

func (a *EasingAnimation[T]) endValue() animatable.Vector {
	if a.IsReversed {
		return a.from.Clone()
	}
	return a.target.Clone()
}

func (a *EasingAnimation[T]) presented() T {
	v := a.kind.Reconstruct(a.value)
	if a.IntegralizeValues {
		v = a.kind.Integralize(v, a.ctrl.scale)
	}
	return v
}

func (a *EasingAnimation[T]) deliverFinish() {
	v := a.presented()
	if a.ValueChanged != nil {
		a.ValueChanged(v)
	}
	if a.Completion != nil {
		a.Completion(Finished(v))
	}
}

func (a *EasingAnimation[T]) String() string {
	return fmt.Sprintf("EasingAnimation[%s](id: %d, group: %d, state: %s, value: %v, from: %v, target: %v, fraction: %.3f, %v over %v, reversed: %t, repeats: %t)",
		a.kind.Name(), a.id, a.group, a.state, a.value, a.from, a.target, a.fraction,
		a.Timing, a.Duration, a.IsReversed, a.Repeats)
}
