package animation

import (
	"fmt"
	"time"

	"github.com/go-drift/anima/pkg/animatable"
)

// DecayAnimation lets a value coast from an initial velocity until friction
// brings it to rest, like a scroll view after a fling. Its target is not set
// directly but projected from the current value and velocity.
type DecayAnimation[T any] struct {
	*base

	kind         animatable.Kind[T]
	fn           DecayFunction
	value        animatable.Vector
	velocity     animatable.Vector
	from         animatable.Vector
	fromVelocity animatable.Vector

	// Repeats restarts from the start value and velocity each time the
	// animation comes to rest.
	Repeats bool
	// IntegralizeValues rounds delivered values to pixel boundaries of the
	// controller's scale.
	IntegralizeValues bool

	ValueChanged func(T)
	Completion   func(Event[T])
}

// NewDecayAnimation creates an inactive decay animation at value moving with
// velocity, decelerating at [DecelerationRateNormal].
func NewDecayAnimation[T any](ctrl *Controller, kind animatable.Kind[T], value, velocity T) *DecayAnimation[T] {
	a := &DecayAnimation[T]{
		base:     newBase("animation.NewDecayAnimation", ctrl),
		kind:     kind,
		fn:       NewDecayFunction(DecelerationRateNormal),
		value:    kind.Decompose(value),
		velocity: kind.Decompose(velocity),
	}
	a.from = a.value.Clone()
	a.fromVelocity = a.velocity.Clone()
	a.bind(a)
	return a
}

// Kind returns the value kind.
func (a *DecayAnimation[T]) Kind() animatable.Kind[T] { return a.kind }

// DecayFunction returns the deceleration model.
func (a *DecayAnimation[T]) DecayFunction() DecayFunction { return a.fn }

// SetDecelerationRate changes the per-millisecond deceleration rate.
func (a *DecayAnimation[T]) SetDecelerationRate(rate float64) {
	a.fn = NewDecayFunction(rate)
}

// Value returns the current value.
func (a *DecayAnimation[T]) Value() T { return a.kind.Reconstruct(a.value) }

// SetValue moves the current value. Outside a run it also becomes the start
// value.
func (a *DecayAnimation[T]) SetValue(v T) {
	a.value = a.kind.Decompose(v)
	if a.state != Running {
		a.from = a.value.Clone()
	}
}

// Velocity returns the current velocity.
func (a *DecayAnimation[T]) Velocity() T { return a.kind.Reconstruct(a.velocity) }

// SetVelocity sets the velocity. Outside a run it also becomes the start
// velocity.
func (a *DecayAnimation[T]) SetVelocity(v T) {
	a.velocity = a.kind.Decompose(v)
	if a.state != Running {
		a.fromVelocity = a.velocity.Clone()
	}
}

// Target returns the value the animation will come to rest at.
func (a *DecayAnimation[T]) Target() T {
	return a.kind.Reconstruct(a.fn.Destination(a.value, a.velocity))
}

// SetTarget solves the velocity that brings the animation to rest at v. A
// running animation delivers one EventRetargeted.
func (a *DecayAnimation[T]) SetTarget(v T) {
	dest := a.kind.Decompose(v)
	old := a.fn.Destination(a.value, a.velocity)
	if dest.Equal(old) {
		return
	}
	a.velocity = a.fn.Velocity(a.value, dest)
	if a.state != Running {
		a.fromVelocity = a.velocity.Clone()
		return
	}
	a.resetClock()
	if a.Completion != nil {
		a.Completion(Retargeted(a.kind.Reconstruct(old), v))
	}
	a.retargeted()
}

// Start runs the animation after delay. Starting a running animation does
// nothing.
func (a *DecayAnimation[T]) Start(delay time.Duration) {
	a.schedule("animation.DecayAnimation.Start", delay, func() {
		a.from = a.value.Clone()
		a.fromVelocity = a.velocity.Clone()
		a.activate()
		a.Update(0)
	})
}

// Pause stops the animation where it is and drops its velocity.
func (a *DecayAnimation[T]) Pause() {
	a.pause()
	a.velocity = animatable.Zero(a.kind.Len())
}

// Stop ends the animation. Stopping immediately snaps the value to pos and
// delivers ValueChanged and EventFinished before returning. Otherwise the
// velocity is solved so the animation coasts to pos.
func (a *DecayAnimation[T]) Stop(pos Position, immediately bool) {
	if !immediately {
		a.cancelDelayed()
		a.SetTarget(a.kind.Reconstruct(a.position(pos)))
		return
	}
	a.value = a.position(pos)
	a.velocity = animatable.Zero(a.kind.Len())
	a.end(a.deliverFinish)
}

func (a *DecayAnimation[T]) position(pos Position) animatable.Vector {
	switch pos {
	case PositionStart:
		return a.from.Clone()
	case PositionEnd:
		return a.fn.Destination(a.value, a.velocity)
	default:
		return a.value.Clone()
	}
}

// Update advances the animation by dt seconds. It finishes once the squared
// velocity magnitude drops below 0.1.
func (a *DecayAnimation[T]) Update(dt float64) {
	if a.state != Running {
		return
	}
	if a.velocity.IsZero() {
		a.end(a.deliverFinish)
		return
	}

	a.value, a.velocity = a.fn.Update(a.value, a.velocity, dt)
	a.elapsed += dt

	if a.velocity.MagnitudeSquared() >= decayRestThreshold {
		if a.ValueChanged != nil {
			a.ValueChanged(a.presented())
		}
		return
	}
	if a.Repeats {
		a.value = a.from.Clone()
		a.velocity = a.fromVelocity.Clone()
		a.resetClock()
		if a.ValueChanged != nil {
			a.ValueChanged(a.presented())
		}
		return
	}
	a.velocity = animatable.Zero(a.kind.Len())
	a.end(a.deliverFinish)
}

func (a *DecayAnimation[T]) presented() T {
	v := a.kind.Reconstruct(a.value)
	if a.IntegralizeValues {
		v = a.kind.Integralize(v, a.ctrl.scale)
	}
	return v
}

func (a *DecayAnimation[T]) deliverFinish() {
	v := a.presented()
	if a.ValueChanged != nil {
		a.ValueChanged(v)
	}
	if a.Completion != nil {
		a.Completion(Finished(v))
	}
}

func (a *DecayAnimation[T]) String() string {
	return fmt.Sprintf("DecayAnimation[%s](id: %d, group: %d, state: %s, value: %v, velocity: %v, rate: %g)",
		a.kind.Name(), a.id, a.group, a.state, a.value, a.velocity, a.fn.DecelerationRate())
}
