package animation

import (
	"fmt"
	"time"

	"github.com/go-drift/anima/pkg/animatable"
	"github.com/go-drift/anima/pkg/errors"
)

type keyFrameMode int

const (
	keyFrameMove keyFrameMode = iota
	keyFrameSpring
	keyFrameEasing
	keyFrameDecay
)

func (m keyFrameMode) String() string {
	switch m {
	case keyFrameSpring:
		return "spring"
	case keyFrameEasing:
		return "easing"
	case keyFrameDecay:
		return "decay"
	default:
		return "move"
	}
}

// KeyFrame is one segment of a [KeyFrameAnimation]: after Delay, the value
// travels from wherever the previous segment left it to Target.
type KeyFrame[T any] struct {
	Target T
	Delay  time.Duration

	mode     keyFrameMode
	spring   Spring
	timing   TimingFunction
	duration time.Duration
	decay    DecayFunction
}

// SpringKeyFrame moves to target with spring. It starts from the value's
// current velocity, so a sequence replaced mid-flight continues smoothly.
func SpringKeyFrame[T any](spring Spring, target T, delay time.Duration) KeyFrame[T] {
	return KeyFrame[T]{Target: target, Delay: delay, mode: keyFrameSpring, spring: spring}
}

// EasingKeyFrame interpolates to target over duration.
func EasingKeyFrame[T any](timing TimingFunction, duration time.Duration, target T, delay time.Duration) KeyFrame[T] {
	return KeyFrame[T]{Target: target, Delay: delay, mode: keyFrameEasing, timing: timing, duration: duration}
}

// DecayKeyFrame coasts to target, decelerating at rate.
func DecayKeyFrame[T any](rate float64, target T, delay time.Duration) KeyFrame[T] {
	return KeyFrame[T]{Target: target, Delay: delay, mode: keyFrameDecay, decay: NewDecayFunction(rate)}
}

// MoveKeyFrame jumps to target once its delay has passed.
func MoveKeyFrame[T any](target T, delay time.Duration) KeyFrame[T] {
	return KeyFrame[T]{Target: target, Delay: delay, mode: keyFrameMove}
}

func (k KeyFrame[T]) String() string {
	switch k.mode {
	case keyFrameSpring:
		return fmt.Sprintf("%s(to: %v, delay: %v, %v)", k.mode, k.Target, k.Delay, k.spring)
	case keyFrameEasing:
		return fmt.Sprintf("%s(to: %v, delay: %v, %v over %v)", k.mode, k.Target, k.Delay, k.timing, k.duration)
	case keyFrameDecay:
		return fmt.Sprintf("%s(to: %v, delay: %v, rate: %g)", k.mode, k.Target, k.Delay, k.decay.DecelerationRate())
	default:
		return fmt.Sprintf("%s(to: %v, delay: %v)", k.mode, k.Target, k.Delay)
	}
}

// segment is the progress through the current key frame.
type segment struct {
	begun    bool
	wait     float64
	from     animatable.Vector
	target   animatable.Vector
	fraction float64
	elapsed  float64
}

// KeyFrameAnimation plays a sequence of key frames, each moving the value to
// its own target with a spring, an easing curve, a decay or a jump. It
// finishes once, at the last key frame's target.
type KeyFrameAnimation[T any] struct {
	*base

	kind     animatable.Kind[T]
	frames   []KeyFrame[T]
	index    int
	seg      segment
	value    animatable.Vector
	velocity animatable.Vector
	from     animatable.Vector

	// AutoStarts starts the animation whenever its key frames change while
	// it is not running.
	AutoStarts bool
	// IntegralizeValues rounds delivered values to pixel boundaries of the
	// controller's scale.
	IntegralizeValues bool

	ValueChanged func(T)
	Completion   func(Event[T])
}

// NewKeyFrameAnimation creates an inactive key frame animation starting at
// value.
func NewKeyFrameAnimation[T any](ctrl *Controller, kind animatable.Kind[T], value T, frames ...KeyFrame[T]) *KeyFrameAnimation[T] {
	a := &KeyFrameAnimation[T]{
		base:     newBase("animation.NewKeyFrameAnimation", ctrl),
		kind:     kind,
		frames:   validKeyFrames("animation.NewKeyFrameAnimation", frames),
		value:    kind.Decompose(value),
		velocity: animatable.Zero(kind.Len()),
	}
	a.from = a.value.Clone()
	a.bind(a)
	return a
}

func validKeyFrames[T any](op string, frames []KeyFrame[T]) []KeyFrame[T] {
	for _, k := range frames {
		errors.Precondition(op, k.Delay >= 0, "key frame delay must be >= 0")
	}
	return append([]KeyFrame[T](nil), frames...)
}

// Kind returns the value kind.
func (a *KeyFrameAnimation[T]) Kind() animatable.Kind[T] { return a.kind }

// KeyFrames returns a copy of the key frames.
func (a *KeyFrameAnimation[T]) KeyFrames() []KeyFrame[T] {
	return append([]KeyFrame[T](nil), a.frames...)
}

// CurrentKeyFrame returns the index of the key frame being played. It equals
// len(KeyFrames()) once the sequence is complete.
func (a *KeyFrameAnimation[T]) CurrentKeyFrame() int { return a.index }

// SetKeyFrames replaces the sequence. A running animation plays the new
// sequence from its current value and delivers one EventRetargeted when the
// final target changes.
func (a *KeyFrameAnimation[T]) SetKeyFrames(frames ...KeyFrame[T]) {
	old := a.target()
	a.frames = validKeyFrames("animation.KeyFrameAnimation.SetKeyFrames", frames)
	a.index = 0
	a.seg = segment{}
	if a.state != Running {
		if a.AutoStarts && len(a.frames) > 0 {
			a.Start(0)
		}
		return
	}
	a.resetClock()
	target := a.target()
	if target.Equal(old) {
		return
	}
	if a.Completion != nil {
		a.Completion(Retargeted(a.kind.Reconstruct(old), a.kind.Reconstruct(target)))
	}
	a.retargeted()
}

// Value returns the current value.
func (a *KeyFrameAnimation[T]) Value() T { return a.kind.Reconstruct(a.value) }

// SetValue moves the current value. Outside a run it also becomes the start
// value.
func (a *KeyFrameAnimation[T]) SetValue(v T) {
	a.value = a.kind.Decompose(v)
	if a.state != Running {
		a.from = a.value.Clone()
	}
}

// FromValue returns the value the animation last started from.
func (a *KeyFrameAnimation[T]) FromValue() T { return a.kind.Reconstruct(a.from) }

// Target returns the last key frame's target, or the current value when there
// are no key frames.
func (a *KeyFrameAnimation[T]) Target() T { return a.kind.Reconstruct(a.target()) }

func (a *KeyFrameAnimation[T]) target() animatable.Vector {
	if len(a.frames) == 0 {
		return a.value.Clone()
	}
	return a.kind.Decompose(a.frames[len(a.frames)-1].Target)
}

// Velocity returns the velocity of the current segment.
func (a *KeyFrameAnimation[T]) Velocity() T { return a.kind.Reconstruct(a.velocity) }

// Start runs the animation after delay. Starting a running animation does
// nothing. A paused animation resumes its current key frame; a completed one
// plays the sequence again from its current value.
func (a *KeyFrameAnimation[T]) Start(delay time.Duration) {
	a.schedule("animation.KeyFrameAnimation.Start", delay, func() {
		if a.index >= len(a.frames) {
			a.index = 0
			a.seg = segment{}
		}
		if a.index == 0 && !a.seg.begun {
			a.from = a.value.Clone()
		}
		if a.seg.begun && a.frames[a.index].mode == keyFrameDecay {
			a.velocity = a.frames[a.index].decay.Velocity(a.value, a.seg.target)
		}
		a.activate()
		a.Update(0)
	})
}

// Pause stops the animation inside its current key frame.
func (a *KeyFrameAnimation[T]) Pause() {
	a.pause()
	a.velocity = animatable.Zero(a.kind.Len())
}

// Stop ends the animation. Stopping immediately snaps the value to pos and
// delivers ValueChanged and EventFinished before returning. Otherwise the
// current key frame is retargeted to pos and becomes the last one. A
// non-immediate stop of an animation that is not running only cancels a
// pending start.
func (a *KeyFrameAnimation[T]) Stop(pos Position, immediately bool) {
	if !immediately {
		a.cancelDelayed()
		if a.state != Running || a.index >= len(a.frames) {
			return
		}
		a.retargetCurrent(a.position(pos))
		return
	}
	a.value = a.position(pos)
	a.velocity = animatable.Zero(a.kind.Len())
	a.index = len(a.frames)
	a.seg = segment{}
	a.end(a.deliverFinish)
}

func (a *KeyFrameAnimation[T]) retargetCurrent(to animatable.Vector) {
	old := a.target()
	k := a.frames[a.index]
	k.Target = a.kind.Reconstruct(to)
	k.Delay = 0
	a.frames = append(a.frames[:a.index:a.index], k)
	a.seg = segment{}
	a.resetClock()
	if to.Equal(old) {
		return
	}
	if a.Completion != nil {
		a.Completion(Retargeted(a.kind.Reconstruct(old), a.kind.Reconstruct(to)))
	}
	a.retargeted()
}

func (a *KeyFrameAnimation[T]) position(pos Position) animatable.Vector {
	switch pos {
	case PositionStart:
		return a.from.Clone()
	case PositionEnd:
		return a.target()
	default:
		return a.value.Clone()
	}
}

// Update advances the animation by dt seconds. Key frame delays consume
// frame time; a key frame that completes ends the frame unless it took no
// time, so jumps chain within a single update.
func (a *KeyFrameAnimation[T]) Update(dt float64) {
	if a.state != Running {
		return
	}
	a.elapsed += dt

	changed := false
	remaining := dt
	for a.index < len(a.frames) {
		k := a.frames[a.index]
		if !a.seg.begun {
			a.begin(k)
		}
		if a.seg.wait > 0 {
			if remaining < a.seg.wait {
				a.seg.wait -= remaining
				remaining = 0
				break
			}
			remaining -= a.seg.wait
			a.seg.wait = 0
		}
		done, used := a.step(k, remaining)
		changed = changed || used || done
		if !done {
			break
		}
		a.index++
		a.seg = segment{}
		if used {
			remaining = 0
		}
	}

	if a.index >= len(a.frames) {
		a.velocity = animatable.Zero(a.kind.Len())
		a.end(a.deliverFinish)
		return
	}
	if changed && a.ValueChanged != nil {
		a.ValueChanged(a.presented())
	}
}

func (a *KeyFrameAnimation[T]) begin(k KeyFrame[T]) {
	a.seg = segment{
		begun:  true,
		wait:   k.Delay.Seconds(),
		from:   a.value.Clone(),
		target: a.kind.Decompose(k.Target),
	}
	switch k.mode {
	case keyFrameEasing, keyFrameMove:
		a.velocity = animatable.Zero(a.kind.Len())
	case keyFrameDecay:
		a.velocity = k.decay.Velocity(a.value, a.seg.target)
	}
}

// step advances the current key frame by dt. It reports whether the key
// frame completed and whether it consumed frame time.
func (a *KeyFrameAnimation[T]) step(k KeyFrame[T], dt float64) (done, used bool) {
	switch k.mode {
	case keyFrameSpring:
		if !k.spring.IsAnimated() || (a.value.Equal(a.seg.target) && a.velocity.IsZero()) {
			a.arrive()
			return true, false
		}
		if dt <= 0 {
			return false, false
		}
		a.value, a.velocity = k.spring.Update(a.value, a.velocity, a.seg.target, dt)
		a.seg.elapsed += dt
		if a.seg.elapsed >= k.spring.settlingSeconds() {
			a.arrive()
			return true, true
		}
		return false, true
	case keyFrameEasing:
		if k.duration <= 0 {
			a.arrive()
			return true, false
		}
		if dt <= 0 {
			return false, false
		}
		previous := a.value
		a.seg.fraction = clampUnit(a.seg.fraction + dt/k.duration.Seconds())
		a.value = a.seg.from.Lerp(a.seg.target, k.timing.Solve(a.seg.fraction))
		a.velocity = a.value.Sub(previous).Scale(1 / dt)
		if a.seg.fraction >= 1 {
			a.arrive()
			return true, true
		}
		return false, true
	case keyFrameDecay:
		if a.velocity.IsZero() {
			a.arrive()
			return true, false
		}
		if dt <= 0 {
			return false, false
		}
		a.value, a.velocity = k.decay.Update(a.value, a.velocity, dt)
		if a.velocity.MagnitudeSquared() < decayRestThreshold {
			a.arrive()
			return true, true
		}
		return false, true
	default:
		a.arrive()
		return true, false
	}
}

// arrive settles the current key frame at rest on its target.
func (a *KeyFrameAnimation[T]) arrive() {
	a.value = a.seg.target.Clone()
	a.velocity = animatable.Zero(a.kind.Len())
}

func (a *KeyFrameAnimation[T]) presented() T {
	v := a.kind.Reconstruct(a.value)
	if a.IntegralizeValues {
		v = a.kind.Integralize(v, a.ctrl.scale)
	}
	return v
}

func (a *KeyFrameAnimation[T]) deliverFinish() {
	v := a.presented()
	if a.ValueChanged != nil {
		a.ValueChanged(v)
	}
	if a.Completion != nil {
		a.Completion(Finished(v))
	}
}

func (a *KeyFrameAnimation[T]) String() string {
	return fmt.Sprintf("KeyFrameAnimation[%s](id: %d, group: %d, state: %s, value: %v, target: %v, key frame: %d of %d)",
		a.kind.Name(), a.id, a.group, a.state, a.value, a.target(), a.index, len(a.frames))
}
