package animation

import (
	"time"

	"github.com/go-drift/anima/pkg/errors"
)

// base holds the identity and lifecycle bookkeeping shared by every
// animation kind. Animations embed a *base; it is allocated separately so
// the controller's weak registry can point at it.
type base struct {
	id       ID
	ctrl     *Controller
	group    GroupID
	priority int
	state    State
	elapsed  float64
	started  time.Time
	delayed  *Timer
	self     Animation
}

func newBase(op string, ctrl *Controller) *base {
	errors.Precondition(op, ctrl != nil, "controller must not be nil")
	return &base{id: newID(), ctrl: ctrl}
}

// bind completes construction once the owning animation exists.
func (b *base) bind(self Animation) {
	b.self = self
	b.ctrl.track(b)
}

func (b *base) core() *base { return b }

// ID returns the animation's identity.
func (b *base) ID() ID { return b.id }

// GroupID returns the group the animation reports to, or 0.
func (b *base) GroupID() GroupID { return b.group }

// SetGroupID moves the animation into a group created with
// [Controller.NewGroup]. A running animation leaves its old group without
// finishing it. Starting with an ID NewGroup never issued reports a
// precondition error; an ID whose group already completed is ignored.
func (b *base) SetGroupID(id GroupID) {
	if id == b.group {
		return
	}
	if b.state == Running || b.delayed.Pending() {
		b.ctrl.leaveGroup(b.group, b.id)
		b.ctrl.joinGroup(id, b.self)
	}
	b.group = id
}

// Priority orders animations within a frame. Higher priorities update
// first.
func (b *base) Priority() int { return b.priority }

// SetPriority changes the update order from the next frame on.
func (b *base) SetPriority(p int) { b.priority = p }

// State returns the lifecycle state.
func (b *base) State() State { return b.state }

// IsRunning reports whether the animation is registered and stepping.
func (b *base) IsRunning() bool { return b.state == Running }

// Controller returns the controller driving the animation.
func (b *base) Controller() *Controller { return b.ctrl }

// StartTime returns the clock time the animation last started or was
// retargeted.
func (b *base) StartTime() time.Time { return b.started }

// RunningTime returns the ticked time since the animation last started or
// was retargeted.
func (b *base) RunningTime() time.Duration { return seconds(b.elapsed) }

// HasPendingStart reports whether a delayed start is scheduled.
func (b *base) HasPendingStart() bool { return b.delayed.Pending() }

// schedule runs begin after delay unless the animation is already running.
// Any earlier pending start is canceled first.
func (b *base) schedule(op string, delay time.Duration, begin func()) {
	errors.Precondition(op, delay >= 0, "delay must be >= 0")
	if b.state == Running {
		return
	}
	b.cancelDelayed()
	b.ctrl.joinGroup(b.group, b.self)
	if delay == 0 {
		begin()
		return
	}
	b.delayed = b.ctrl.After(delay, func() {
		b.delayed = nil
		begin()
	})
}

func (b *base) cancelDelayed() {
	if b.delayed != nil {
		b.delayed.Cancel()
		b.delayed = nil
	}
}

// activate registers the animation and resets its running time.
func (b *base) activate() {
	b.state = Running
	b.resetClock()
	b.ctrl.add(b.self)
}

func (b *base) resetClock() {
	b.elapsed = 0
	b.started = b.ctrl.clock.Now()
}

// pause deregisters without finishing.
func (b *base) pause() {
	b.cancelDelayed()
	if b.state == Running {
		b.state = Inactive
		b.ctrl.remove(b.id)
	}
	b.ctrl.leaveGroup(b.group, b.id)
}

// end deregisters, runs complete and then reports the finish to the group.
// The state is Ended before complete runs, so complete may restart the
// animation.
func (b *base) end(complete func()) {
	b.cancelDelayed()
	b.state = Ended
	b.ctrl.remove(b.id)
	g := b.ctrl.detachMember(b.group, b.id)
	if complete != nil {
		complete()
	}
	if g != nil {
		b.ctrl.completeIfDone(g)
	}
}

// abort ends an animation whose update panicked without delivering further
// callbacks.
func (b *base) abort() {
	b.cancelDelayed()
	b.state = Ended
	b.ctrl.remove(b.id)
	if g := b.ctrl.detachMember(b.group, b.id); g != nil {
		b.ctrl.completeIfDone(g)
	}
}

func (b *base) retargeted() {
	b.ctrl.memberRetargeted(b.group)
}
