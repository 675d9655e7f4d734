package animation

import (
	"container/heap"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"
	"weak"

	"github.com/go-drift/anima/pkg/errors"
)

// Controller owns a set of running animations and steps them once per
// frame. Every animation is bound to the controller passed to its
// constructor; there is no global scheduler.
//
// A controller is driven either by the host calling [Controller.Tick] or
// [Controller.TickFrame] from its own frame loop, or by [Controller.Run],
// which pulls frames from a [DisplayLink].
//
// Controllers are not safe for concurrent use. All methods except
// [Controller.Dispatch] must be called on the goroutine that ticks it.
type Controller struct {
	clock  Clock
	source FrameSource
	scale  float64
	fps    float64

	now       float64 // seconds of ticked time
	lastFrame time.Time
	frames    uint64
	ticking   bool
	busy      bool

	active map[ID]*activeEntry
	seq    uint64

	timers   timerQueue
	timerSeq uint64

	registry  map[ID]weak.Pointer[base]
	untracked int

	groups   map[GroupID]*group
	settings []Settings

	mu       sync.Mutex
	dispatch []func()
	wake     chan struct{}
}

type activeEntry struct {
	anim Animation
	seq  uint64
}

// Option configures a [Controller].
type Option func(*Controller)

// WithClock sets the clock used to timestamp animation starts.
func WithClock(c Clock) Option {
	return func(ctrl *Controller) {
		if c != nil {
			ctrl.clock = c
		}
	}
}

// WithFrameSource sets the frame source the controller starts and stops as
// it gains and loses work. Pass nil for hosts that tick unconditionally.
func WithFrameSource(s FrameSource) Option {
	return func(ctrl *Controller) { ctrl.source = s }
}

// WithScale sets the backing scale factor used to integralize values, such
// as 2 for a high density display. Non-positive values are ignored.
func WithScale(scale float64) Option {
	return func(ctrl *Controller) {
		if scale > 0 {
			ctrl.scale = scale
		}
	}
}

// WithFPS sets the refresh rate of the default [DisplayLink].
func WithFPS(fps float64) Option {
	return func(ctrl *Controller) {
		if fps > 0 {
			ctrl.fps = fps
		}
	}
}

// NewController creates a controller. Unless [WithFrameSource] is given it
// drives a [DisplayLink] at 60 frames per second.
func NewController(opts ...Option) *Controller {
	c := &Controller{
		clock:    SystemClock{},
		scale:    1,
		fps:      60,
		active:   make(map[ID]*activeEntry),
		registry: make(map[ID]weak.Pointer[base]),
		groups:   make(map[GroupID]*group),
		wake:     make(chan struct{}, 1),
	}
	c.source = sourceUnset{}
	for _, opt := range opts {
		opt(c)
	}
	if _, ok := c.source.(sourceUnset); ok {
		c.source = NewDisplayLink(c.fps)
	}
	return c
}

// sourceUnset marks that no frame source option was applied.
type sourceUnset struct{}

func (sourceUnset) Start() {}
func (sourceUnset) Stop()  {}

// Clock returns the controller's clock.
func (c *Controller) Clock() Clock { return c.clock }

// FrameSource returns the controller's frame source, which may be nil.
func (c *Controller) FrameSource() FrameSource { return c.source }

// Scale returns the integralization scale factor.
func (c *Controller) Scale() float64 { return c.scale }

// Elapsed returns the total time the controller has been ticked.
func (c *Controller) Elapsed() time.Duration { return seconds(c.now) }

// Frames returns the number of ticks processed.
func (c *Controller) Frames() uint64 { return c.frames }

// ActiveCount returns the number of registered animations.
func (c *Controller) ActiveCount() int { return len(c.active) }

// IsActive reports whether the animation with id is registered.
func (c *Controller) IsActive(id ID) bool {
	_, ok := c.active[id]
	return ok
}

// Active returns the registered animations in update order.
func (c *Controller) Active() []Animation {
	entries := c.snapshot()
	out := make([]Animation, len(entries))
	for i, e := range entries {
		out[i] = e.anim
	}
	return out
}

// HasWork reports whether the controller has registered animations or
// pending delayed starts.
func (c *Controller) HasWork() bool {
	return len(c.active) > 0 || len(c.timers) > 0
}

// PendingTimers returns the number of timers that have not fired.
func (c *Controller) PendingTimers() int { return len(c.timers) }

// Lookup returns the animation with id if it is still reachable. The
// controller holds animations weakly until they start running, so an
// animation nobody references disappears from the registry once collected.
func (c *Controller) Lookup(id ID) (Animation, bool) {
	p, ok := c.registry[id]
	if !ok {
		return nil, false
	}
	b := p.Value()
	if b == nil {
		delete(c.registry, id)
		return nil, false
	}
	return b.self, true
}

// track adds b to the weak registry, pruning collected entries every so
// often so the map does not grow without bound.
func (c *Controller) track(b *base) {
	c.registry[b.id] = weak.Make(b)
	c.untracked++
	if c.untracked < 256 {
		return
	}
	c.untracked = 0
	for id, p := range c.registry {
		if p.Value() == nil {
			delete(c.registry, id)
		}
	}
}

// After runs fn once at least d of controller time has been ticked. The
// returned timer can cancel it. Timers fire at the start of a frame, before
// animations are stepped.
func (c *Controller) After(d time.Duration, fn func()) *Timer {
	errors.Precondition("animation.Controller.After", d >= 0, "delay must be >= 0")
	c.timerSeq++
	t := &Timer{ctrl: c, deadline: c.now + d.Seconds(), seq: c.timerSeq, fn: fn}
	heap.Push(&c.timers, t)
	c.updateFrameSource()
	return t
}

// Dispatch queues fn to run on the controller's goroutine at the start of
// the next frame. It is safe to call from any goroutine.
func (c *Controller) Dispatch(fn func()) {
	if fn == nil {
		return
	}
	c.mu.Lock()
	c.dispatch = append(c.dispatch, fn)
	c.mu.Unlock()
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// Wake returns a channel that receives a value whenever [Controller.Dispatch]
// queues work. Hosts running their own loop can select on it and call
// [Controller.Tick] with a zero delta to drain the queue promptly.
func (c *Controller) Wake() <-chan struct{} { return c.wake }

func (c *Controller) drainDispatch() {
	c.mu.Lock()
	queued := c.dispatch
	c.dispatch = nil
	c.mu.Unlock()
	for _, fn := range queued {
		c.runGuarded("animation.Controller.Dispatch", fn)
	}
}

func (c *Controller) runGuarded(op string, fn func()) {
	defer errors.Recover(op, nil)
	fn()
}

// Tick advances the controller by dt seconds: queued dispatches run first,
// then due timers fire, then every registered animation is updated in
// descending priority order. Animations may start or stop other animations
// from their callbacks; animations registered during a tick are first
// stepped on the next one.
func (c *Controller) Tick(dt float64) {
	if dt < 0 {
		dt = 0
	}
	c.ticking = true
	defer func() {
		c.ticking = false
		c.updateFrameSource()
	}()

	c.drainDispatch()
	c.now += dt
	c.fireTimers()

	for _, e := range c.snapshot() {
		current, ok := c.active[e.anim.ID()]
		if !ok || current != e {
			continue
		}
		if e.anim.State() == Ended {
			c.remove(e.anim.ID())
			continue
		}
		c.step(e.anim, dt)
	}
	c.frames++
}

// TickFrame advances the controller to frame. The delta is measured from the
// previous frame's timestamp, or is the frame's nominal duration for the
// first frame after the controller was idle.
func (c *Controller) TickFrame(f Frame) {
	dt := f.Duration.Seconds()
	if !c.lastFrame.IsZero() {
		dt = f.Timestamp.Sub(c.lastFrame).Seconds()
	}
	c.lastFrame = f.Timestamp
	c.Tick(dt)
}

// Run drives the controller from its [DisplayLink] until ctx is done and
// returns ctx.Err(). The link only runs while the controller has work, and
// dispatched functions wake the loop between frames.
func (c *Controller) Run(ctx context.Context) error {
	link, ok := c.source.(*DisplayLink)
	errors.Precondition("animation.Controller.Run", ok, "frame source must be a *DisplayLink")

	Logger().Debug("controller run loop started", "interval", link.Interval())
	defer func() {
		link.Stop()
		c.busy = false
		c.lastFrame = time.Time{}
		Logger().Debug("controller run loop stopped", "frames", c.frames)
	}()

	c.busy = false
	c.updateFrameSource()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ts := <-link.C():
			c.TickFrame(Frame{Timestamp: ts, Duration: link.Interval()})
		case <-c.wake:
			c.drainDispatch()
			c.updateFrameSource()
		}
	}
}

func (c *Controller) step(a Animation, dt float64) {
	defer errors.Recover("animation.Controller.Tick", func(pe *errors.PanicError) {
		Logger().Warn("animation panicked, stopping it", "id", a.ID(), "panic", pe.Value)
		if h, ok := a.(interface{ core() *base }); ok {
			h.core().abort()
		} else {
			c.remove(a.ID())
		}
		errors.Report(&errors.AnimaError{
			Op:        "animation.Controller.Tick",
			Kind:      errors.KindCallback,
			Animation: fmt.Sprint(a),
			Err:       pe,
		})
	})
	a.Update(dt)
}

func (c *Controller) fireTimers() {
	for len(c.timers) > 0 && c.timers[0].deadline <= c.now {
		t := heap.Pop(&c.timers).(*Timer)
		t.fired = true
		if t.fn != nil {
			c.runGuarded("animation.Timer", t.fn)
		}
	}
}

func (c *Controller) snapshot() []*activeEntry {
	entries := make([]*activeEntry, 0, len(c.active))
	for _, e := range c.active {
		entries = append(entries, e)
	}
	slices.SortFunc(entries, func(a, b *activeEntry) int {
		if pa, pb := a.anim.Priority(), b.anim.Priority(); pa != pb {
			if pa > pb {
				return -1
			}
			return 1
		}
		if a.seq < b.seq {
			return -1
		}
		if a.seq > b.seq {
			return 1
		}
		return 0
	})
	return entries
}

func (c *Controller) add(a Animation) {
	if _, ok := c.active[a.ID()]; ok {
		return
	}
	c.seq++
	c.active[a.ID()] = &activeEntry{anim: a, seq: c.seq}
	Logger().Debug("animation registered", "id", a.ID(), "group", a.GroupID(), "active", len(c.active))
	c.updateFrameSource()
}

func (c *Controller) remove(id ID) {
	if _, ok := c.active[id]; !ok {
		return
	}
	delete(c.active, id)
	Logger().Debug("animation deregistered", "id", id, "active", len(c.active))
	c.updateFrameSource()
}

// updateFrameSource starts the frame source on the idle to busy transition
// and stops it on busy to idle. Transitions inside a tick are settled when
// the tick ends.
func (c *Controller) updateFrameSource() {
	if c.ticking {
		return
	}
	busy := c.HasWork()
	if busy == c.busy {
		return
	}
	c.busy = busy
	if !busy {
		c.lastFrame = time.Time{}
	}
	if c.source == nil {
		return
	}
	if busy {
		c.source.Start()
	} else {
		c.source.Stop()
	}
}
