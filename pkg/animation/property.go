package animation

import (
	"slices"

	"github.com/go-drift/anima/pkg/animatable"
	"github.com/go-drift/anima/pkg/errors"
)

// PropertyAnimator holds the animations of one owner's properties, keyed by
// name. An owner such as a view keeps a PropertyAnimator and declares its
// animatable properties with [NewProperty].
type PropertyAnimator struct {
	ctrl  *Controller
	props map[string]propertyHandle
}

type propertyHandle interface {
	animation() Animation
	stop(pos Position, immediately bool)
}

// NewPropertyAnimator creates an animator whose properties run on ctrl.
func NewPropertyAnimator(ctrl *Controller) *PropertyAnimator {
	errors.Precondition("animation.NewPropertyAnimator", ctrl != nil, "controller must not be nil")
	return &PropertyAnimator{ctrl: ctrl, props: make(map[string]propertyHandle)}
}

// Controller returns the controller driving the animator's properties.
func (p *PropertyAnimator) Controller() *Controller { return p.ctrl }

// Keys returns the declared property names in sorted order.
func (p *PropertyAnimator) Keys() []string {
	keys := make([]string, 0, len(p.props))
	for k := range p.props {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Animation returns the animation currently attached to key, if any.
func (p *PropertyAnimator) Animation(key string) (Animation, bool) {
	h, ok := p.props[key]
	if !ok {
		return nil, false
	}
	a := h.animation()
	return a, a != nil
}

// StopAll stops every property's animation.
func (p *PropertyAnimator) StopAll(pos Position, immediately bool) {
	for _, k := range p.Keys() {
		p.props[k].stop(pos, immediately)
	}
}

// Property is an animatable property of an owner. Setting it inside a
// [Controller.Animate] block animates it with the block's settings;
// setting it anywhere else applies the value immediately.
type Property[T any] struct {
	animator *PropertyAnimator
	key      string
	kind     animatable.Kind[T]
	current  T
	target   T

	spring *SpringAnimation[T]
	easing *EasingAnimation[T]
	decay  *DecayAnimation[T]

	// Apply receives every value the property takes, animated or not.
	Apply func(T)
	// Completion receives the events of the property's animations.
	Completion func(Event[T])
}

// NewProperty declares the property key on animator with an initial value.
// Declaring an existing key returns the existing property; its kind must
// match.
func NewProperty[T any](animator *PropertyAnimator, key string, kind animatable.Kind[T], initial T) *Property[T] {
	if h, ok := animator.props[key]; ok {
		p, ok := h.(*Property[T])
		errors.Precondition("animation.NewProperty", ok && p.kind.Name() == kind.Name(), "property "+key+" already declared with another kind")
		return p
	}
	p := &Property[T]{animator: animator, key: key, kind: kind, current: initial, target: initial}
	animator.props[key] = p
	return p
}

// Key returns the property's name.
func (p *Property[T]) Key() string { return p.key }

// Value returns the value last applied, which trails Target while an
// animation runs.
func (p *Property[T]) Value() T { return p.current }

// Target returns the value the property is heading to.
func (p *Property[T]) Target() T { return p.target }

// Velocity returns the velocity of the running spring or decay animation,
// or the zero value.
func (p *Property[T]) Velocity() T {
	switch {
	case p.spring != nil:
		return p.spring.Velocity()
	case p.decay != nil:
		return p.decay.Velocity()
	case p.easing != nil:
		return p.easing.Velocity()
	}
	return animatable.ZeroOf(p.kind)
}

// Animation returns the property's current animation, or nil.
func (p *Property[T]) Animation() Animation { return p.animation() }

func (p *Property[T]) animation() Animation {
	switch {
	case p.spring != nil:
		return p.spring
	case p.easing != nil:
		return p.easing
	case p.decay != nil:
		return p.decay
	}
	return nil
}

// Stop stops the property's animation. See [Animation.Stop].
func (p *Property[T]) Stop(pos Position, immediately bool) { p.stop(pos, immediately) }

func (p *Property[T]) stop(pos Position, immediately bool) {
	if a := p.animation(); a != nil {
		a.Stop(pos, immediately)
	}
}

// Set changes the property. Inside a [Controller.Animate] block it animates
// with the block's settings, reusing the running animation when it has the
// same type so velocity carries over. Elsewhere the value applies at once.
func (p *Property[T]) Set(v T) {
	settings, ok := p.animator.ctrl.CurrentSettings()
	if !ok || settings.Type == NonAnimatedType {
		p.setImmediately(v)
		return
	}
	switch settings.Type {
	case SpringType:
		p.animateSpring(v, settings)
	case EasingType:
		p.animateEasing(v, settings)
	case DecayType:
		p.animateDecay(v, settings)
	}
}

func (p *Property[T]) setImmediately(v T) {
	p.detach()
	p.target = v
	p.deliver(v)
}

// detach pauses and drops the running animation.
func (p *Property[T]) detach() {
	if a := p.animation(); a != nil {
		a.Pause()
	}
	p.spring, p.easing, p.decay = nil, nil, nil
}

func (p *Property[T]) deliver(v T) {
	p.current = v
	if p.Apply != nil {
		p.Apply(v)
	}
}

func (p *Property[T]) forward(e Event[T]) {
	if p.Completion != nil {
		p.Completion(e)
	}
}

func (p *Property[T]) animateSpring(v T, s Settings) {
	a := p.spring
	if a == nil {
		p.detach()
		a = NewSpringAnimation(p.animator.ctrl, p.kind, s.Spring, p.current, p.current)
		a.ValueChanged = p.deliver
		a.Completion = p.forward
		p.spring = a
	}
	a.SetSpring(s.Spring)
	a.IntegralizeValues = s.IntegralizeValues
	if len(s.Velocity) == p.kind.Len() {
		a.velocity = s.Velocity.Clone()
	}
	p.target = v
	a.SetTarget(v)
	a.SetGroupID(s.group)
	a.Start(s.Delay)
}

func (p *Property[T]) animateEasing(v T, s Settings) {
	a := p.easing
	if a == nil {
		p.detach()
		a = NewEasingAnimation(p.animator.ctrl, p.kind, s.Timing, s.Duration, p.current, p.current)
		a.ValueChanged = p.deliver
		a.Completion = p.forward
		p.easing = a
	}
	a.Timing = s.Timing
	a.Duration = s.Duration
	a.Repeats = s.Repeats
	a.Autoreverses = s.Autoreverses
	a.IntegralizeValues = s.IntegralizeValues
	p.target = v
	if a.State() != Running {
		a.IsReversed = false
		a.SetValue(a.Value())
		a.fraction = 0
	}
	a.SetTarget(v)
	a.SetGroupID(s.group)
	a.Start(s.Delay)
}

func (p *Property[T]) animateDecay(v T, s Settings) {
	a := p.decay
	if a == nil {
		p.detach()
		a = NewDecayAnimation(p.animator.ctrl, p.kind, p.current, animatable.ZeroOf(p.kind))
		a.ValueChanged = p.deliver
		a.Completion = p.forward
		p.decay = a
	}
	if s.Decay.rate != 0 {
		a.fn = s.Decay
	}
	a.Repeats = s.Repeats
	a.IntegralizeValues = s.IntegralizeValues
	if len(s.Velocity) == p.kind.Len() {
		a.SetVelocity(p.kind.Reconstruct(s.Velocity))
	} else {
		a.SetTarget(v)
	}
	p.target = a.Target()
	a.SetGroupID(s.group)
	a.Start(s.Delay)
}
