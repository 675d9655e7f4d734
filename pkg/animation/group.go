package animation

import (
	"fmt"
	"slices"
	"time"

	"github.com/go-drift/anima/pkg/animatable"
	"github.com/go-drift/anima/pkg/errors"
)

// GroupCompletion observes a group of animations. It is called with
// retargeted set each time a running member changes its target, and once
// with finished set after every member has finished.
type GroupCompletion func(finished, retargeted bool)

type group struct {
	id         GroupID
	completion GroupCompletion
	members    map[ID]Animation
	holds      int
	started    bool
}

// NewGroup allocates a group. Animations join it through SetGroupID and are
// counted once they are started.
func (c *Controller) NewGroup(completion GroupCompletion) GroupID {
	id := newGroupID()
	c.groups[id] = &group{id: id, completion: completion, members: make(map[ID]Animation)}
	return id
}

// GroupMembers returns the started, unfinished members of a group in ID
// order.
func (c *Controller) GroupMembers(id GroupID) []Animation {
	g, ok := c.groups[id]
	if !ok {
		return nil
	}
	out := make([]Animation, 0, len(g.members))
	for _, a := range g.members {
		out = append(out, a)
	}
	slices.SortFunc(out, func(a, b Animation) int {
		switch {
		case a.ID() < b.ID():
			return -1
		case a.ID() > b.ID():
			return 1
		}
		return 0
	})
	return out
}

// StopGroup stops every member of a group immediately at pos. The group's
// completion is called once the last member finished.
func (c *Controller) StopGroup(id GroupID, pos Position) {
	for _, a := range c.GroupMembers(id) {
		a.Stop(pos, true)
	}
}

// joinGroup counts a as a member of group id. IDs never issued by NewGroup
// are reported as precondition errors. Groups that already completed or were
// released are no longer tracked, so their former members run ungrouped.
func (c *Controller) joinGroup(id GroupID, a Animation) {
	if id == 0 {
		return
	}
	g, ok := c.groups[id]
	if !ok {
		if uint64(id) > nextGroupID.Load() {
			errors.Report(&errors.AnimaError{
				Op:        "animation.Controller.joinGroup",
				Kind:      errors.KindPrecondition,
				Err:       fmt.Errorf("unknown group %d", id),
				Animation: fmt.Sprint(a),
			})
			return
		}
		Logger().Debug("group already released, running ungrouped", "id", a.ID(), "group", id)
		return
	}
	g.members[a.ID()] = a
	g.started = true
}

// leaveGroup removes a member without finishing it. A group left empty
// this way is released without calling its completion.
func (c *Controller) leaveGroup(id GroupID, member ID) {
	g, ok := c.groups[id]
	if !ok {
		return
	}
	delete(g.members, member)
	if len(g.members) == 0 && g.holds == 0 {
		delete(c.groups, id)
	}
}

// detachMember removes a finished member and returns its group, or nil if
// it was not a member.
func (c *Controller) detachMember(id GroupID, member ID) *group {
	g, ok := c.groups[id]
	if !ok {
		return nil
	}
	if _, ok := g.members[member]; !ok {
		return nil
	}
	delete(g.members, member)
	return g
}

func (c *Controller) memberRetargeted(id GroupID) {
	g, ok := c.groups[id]
	if !ok || g.completion == nil {
		return
	}
	g.completion(false, true)
}

func (c *Controller) completeIfDone(g *group) {
	if c.groups[g.id] != g || len(g.members) > 0 || g.holds > 0 {
		return
	}
	delete(c.groups, g.id)
	if g.started && g.completion != nil {
		g.completion(true, false)
	}
}

// AnimationType selects how [Controller.Animate] animates properties.
type AnimationType int

const (
	// SpringType animates with a [Spring].
	SpringType AnimationType = iota
	// EasingType animates over a fixed duration with a [TimingFunction].
	EasingType
	// DecayType coasts towards the new value with a [DecayFunction].
	DecayType
	// NonAnimatedType applies values immediately.
	NonAnimatedType
)

func (t AnimationType) String() string {
	switch t {
	case SpringType:
		return "spring"
	case EasingType:
		return "easing"
	case DecayType:
		return "decay"
	case NonAnimatedType:
		return "nonAnimated"
	default:
		return "unknown"
	}
}

// Settings describe how properties set inside [Controller.Animate] are
// animated.
type Settings struct {
	Type   AnimationType
	Spring Spring
	Timing TimingFunction
	// Duration applies to easing animations.
	Duration time.Duration
	Decay    DecayFunction
	Delay    time.Duration
	// Repeats restarts easing and decay animations when they finish.
	Repeats bool
	// Autoreverses flips the direction of repeating easing animations.
	Autoreverses bool
	// IntegralizeValues rounds delivered values to pixel boundaries.
	IntegralizeValues bool
	// Velocity seeds spring and decay animations whose kind has the same
	// number of components, such as the release velocity of a drag.
	Velocity animatable.Vector

	group GroupID
}

// SpringSettings animates with spring.
func SpringSettings(spring Spring) Settings {
	return Settings{Type: SpringType, Spring: spring}
}

// EasingSettings animates over duration with timing.
func EasingSettings(timing TimingFunction, duration time.Duration) Settings {
	return Settings{Type: EasingType, Timing: timing, Duration: duration}
}

// DecaySettings coasts with the default scroll deceleration.
func DecaySettings() Settings {
	return Settings{Type: DecayType, Decay: NewDecayFunction(DecelerationRateNormal)}
}

// NonAnimatedSettings applies values immediately. Inside a block with these
// settings, property changes stop any running animation of the property.
func NonAnimatedSettings() Settings {
	return Settings{Type: NonAnimatedType}
}

// GroupID returns the group of the enclosing [Controller.Animate] block.
func (s Settings) GroupID() GroupID { return s.group }

// Animate runs block with settings as the current animation settings. Every
// property changed through a [PropertyAnimator] inside block animates with
// them and joins a new group, whose ID is returned. completion observes the
// group. If block starts no animation, completion is called with finished
// set before Animate returns.
//
// Blocks nest. The innermost block's settings apply.
func (c *Controller) Animate(settings Settings, block func(), completion GroupCompletion) GroupID {
	id := c.NewGroup(completion)
	g := c.groups[id]
	g.holds++
	g.started = true
	settings.group = id

	c.settings = append(c.settings, settings)
	func() {
		defer func() {
			c.settings = c.settings[:len(c.settings)-1]
			g.holds--
		}()
		block()
	}()

	c.completeIfDone(g)
	return id
}

// CurrentSettings returns the settings of the innermost running
// [Controller.Animate] block.
func (c *Controller) CurrentSettings() (Settings, bool) {
	if len(c.settings) == 0 {
		return Settings{}, false
	}
	return c.settings[len(c.settings)-1], true
}
