package animation

import (
	"fmt"
	"time"

	"github.com/go-drift/anima/pkg/animatable"
)

// SpringAnimation animates a value of kind T towards a target with a
// [Spring]. The target may change while the animation runs; the value keeps
// its velocity and heads for the new target.
//
// The animation finishes once it has run for the spring's settling
// duration since it last started or was retargeted.
type SpringAnimation[T any] struct {
	*base

	kind     animatable.Kind[T]
	spring   Spring
	value    animatable.Vector
	velocity animatable.Vector
	target   animatable.Vector
	from     animatable.Vector

	// ValueChanged receives the value after every update.
	ValueChanged func(T)
	// Completion receives finished and retargeted events.
	Completion func(Event[T])
	// IntegralizeValues rounds delivered values to pixel boundaries of the
	// controller's scale.
	IntegralizeValues bool
	// StopsOnCompletion ends the animation when it settles. When false the
	// animation stays registered at its target, reports EventFinished, and
	// animates again as soon as the target changes. Defaults to true.
	StopsOnCompletion bool
}

// NewSpringAnimation creates an inactive spring animation from value to
// target, driven by ctrl.
func NewSpringAnimation[T any](ctrl *Controller, kind animatable.Kind[T], spring Spring, value, target T) *SpringAnimation[T] {
	a := &SpringAnimation[T]{
		base:              newBase("animation.NewSpringAnimation", ctrl),
		kind:              kind,
		spring:            spring,
		value:             kind.Decompose(value),
		velocity:          animatable.Zero(kind.Len()),
		target:            kind.Decompose(target),
		StopsOnCompletion: true,
	}
	a.from = a.value.Clone()
	a.bind(a)
	return a
}

// Kind returns the value kind.
func (a *SpringAnimation[T]) Kind() animatable.Kind[T] { return a.kind }

// Spring returns the spring model.
func (a *SpringAnimation[T]) Spring() Spring { return a.spring }

// SetSpring replaces the spring model. A running animation keeps its value
// and velocity.
func (a *SpringAnimation[T]) SetSpring(s Spring) { a.spring = s }

// SettlingDuration returns the spring's settling duration.
func (a *SpringAnimation[T]) SettlingDuration() time.Duration {
	return a.spring.SettlingDuration()
}

// Value returns the current value.
func (a *SpringAnimation[T]) Value() T { return a.kind.Reconstruct(a.value) }

// SetValue moves the current value. Outside a run it also becomes the
// start position.
func (a *SpringAnimation[T]) SetValue(v T) {
	a.value = a.kind.Decompose(v)
	if a.state != Running {
		a.from = a.value.Clone()
	}
}

// FromValue returns the value the animation last started from.
func (a *SpringAnimation[T]) FromValue() T { return a.kind.Reconstruct(a.from) }

// Target returns the target value.
func (a *SpringAnimation[T]) Target() T { return a.kind.Reconstruct(a.target) }

// SetTarget retargets the animation. A running animation restarts its settle
// clock, keeps its velocity and delivers one EventRetargeted. Setting the
// target of an animation that is not running delivers nothing.
func (a *SpringAnimation[T]) SetTarget(v T) {
	a.retarget(a.kind.Decompose(v))
}

func (a *SpringAnimation[T]) retarget(target animatable.Vector) {
	if target.Equal(a.target) {
		return
	}
	old := a.target
	a.target = target
	if a.state != Running {
		return
	}
	a.resetClock()
	if a.Completion != nil {
		a.Completion(Retargeted(a.kind.Reconstruct(old), a.kind.Reconstruct(target)))
	}
	a.retargeted()
}

// Velocity returns the current velocity in value units per second.
func (a *SpringAnimation[T]) Velocity() T { return a.kind.Reconstruct(a.velocity) }

// SetVelocity sets the velocity, such as the release velocity of a gesture.
func (a *SpringAnimation[T]) SetVelocity(v T) { a.velocity = a.kind.Decompose(v) }

// Start runs the animation after delay. Starting a running animation does
// nothing. A non-animated spring reaches its target immediately.
func (a *SpringAnimation[T]) Start(delay time.Duration) {
	a.schedule("animation.SpringAnimation.Start", delay, func() {
		a.from = a.value.Clone()
		a.activate()
		a.Update(0)
	})
}

// Pause stops the animation at its current value without finishing it.
func (a *SpringAnimation[T]) Pause() {
	a.pause()
	a.velocity = animatable.Zero(a.kind.Len())
}

// Stop ends the animation. Stopping immediately snaps the value to pos and
// delivers ValueChanged and EventFinished before returning. Otherwise the
// animation retargets to pos and settles there.
func (a *SpringAnimation[T]) Stop(pos Position, immediately bool) {
	if !immediately {
		a.cancelDelayed()
		a.retarget(a.position(pos))
		return
	}
	a.value = a.position(pos)
	a.target = a.value.Clone()
	a.velocity = animatable.Zero(a.kind.Len())
	a.end(a.deliverFinish)
}

func (a *SpringAnimation[T]) position(pos Position) animatable.Vector {
	switch pos {
	case PositionStart:
		return a.from.Clone()
	case PositionEnd:
		return a.target.Clone()
	default:
		return a.value.Clone()
	}
}

// Update advances the animation by dt seconds. The controller calls it once
// per frame.
func (a *SpringAnimation[T]) Update(dt float64) {
	if a.state != Running {
		return
	}
	if a.value.Equal(a.target) && a.velocity.IsZero() {
		if a.StopsOnCompletion {
			a.end(a.deliverFinish)
		}
		return
	}

	a.value, a.velocity = a.spring.Update(a.value, a.velocity, a.target, dt)
	a.elapsed += dt

	finished := !a.spring.IsAnimated() || a.elapsed >= a.spring.settlingSeconds()
	if !finished {
		if a.ValueChanged != nil {
			a.ValueChanged(a.presented())
		}
		return
	}

	a.value = a.target.Clone()
	a.velocity = animatable.Zero(a.kind.Len())
	if a.StopsOnCompletion {
		a.end(a.deliverFinish)
		return
	}
	a.deliverFinish()
}

// presented returns the value as delivered to callbacks.
func (a *SpringAnimation[T]) presented() T {
	v := a.kind.Reconstruct(a.value)
	if a.IntegralizeValues {
		v = a.kind.Integralize(v, a.ctrl.scale)
	}
	return v
}

func (a *SpringAnimation[T]) deliverFinish() {
	v := a.presented()
	if a.ValueChanged != nil {
		a.ValueChanged(v)
	}
	if a.Completion != nil {
		a.Completion(Finished(v))
	}
}

func (a *SpringAnimation[T]) String() string {
	return fmt.Sprintf("SpringAnimation[%s](id: %d, group: %d, state: %s, value: %v, target: %v, velocity: %v, %v)",
		a.kind.Name(), a.id, a.group, a.state, a.value, a.target, a.velocity, a.spring)
}
