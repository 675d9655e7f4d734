package animation

import (
	"fmt"
	"sync/atomic"
	"time"
)

// State is the lifecycle state of an animation.
//
//	          Start()              settled / Stop(_, true)
//	Inactive ─────────► Running ─────────────────────────► Ended
//	    ▲                  │
//	    └──────────────────┘
//	          Pause()
//
// Ended animations can be started again.
type State int

const (
	// Inactive means the animation is not registered with its controller.
	Inactive State = iota
	// Running means the animation is stepped on every frame.
	Running
	// Ended means the animation settled or was stopped immediately.
	Ended
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case Inactive:
		return "inactive"
	case Running:
		return "running"
	case Ended:
		return "ended"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Position selects which value an animation stops at.
type Position int

const (
	// PositionCurrent stops at the value the animation currently has.
	PositionCurrent Position = iota
	// PositionStart stops at the value the animation started from.
	PositionStart
	// PositionEnd stops at the target.
	PositionEnd
)

func (p Position) String() string {
	switch p {
	case PositionCurrent:
		return "current"
	case PositionStart:
		return "start"
	case PositionEnd:
		return "end"
	default:
		return fmt.Sprintf("Position(%d)", int(p))
	}
}

// EventKind distinguishes completion events.
type EventKind int

const (
	// EventFinished is delivered once when an animation settles or is
	// stopped immediately.
	EventFinished EventKind = iota
	// EventRetargeted is delivered each time the target of a running
	// animation changes.
	EventRetargeted
)

// Event is passed to an animation's Completion callback.
type Event[T any] struct {
	Kind EventKind
	// Value is the value the animation finished at. Set for EventFinished.
	Value T
	// From and To are the old and new targets. Set for EventRetargeted.
	From, To T
}

// Finished returns a finished event at v.
func Finished[T any](v T) Event[T] {
	return Event[T]{Kind: EventFinished, Value: v}
}

// Retargeted returns a retarget event from one target to another.
func Retargeted[T any](from, to T) Event[T] {
	return Event[T]{Kind: EventRetargeted, From: from, To: to}
}

// IsFinished reports whether the event is a finished event.
func (e Event[T]) IsFinished() bool { return e.Kind == EventFinished }

// IsRetargeted reports whether the event is a retarget event.
func (e Event[T]) IsRetargeted() bool { return e.Kind == EventRetargeted }

func (e Event[T]) String() string {
	if e.IsFinished() {
		return fmt.Sprintf("finished(at: %v)", e.Value)
	}
	return fmt.Sprintf("retargeted(from: %v, to: %v)", e.From, e.To)
}

// ID identifies an animation. IDs are unique for the life of the process.
type ID uint64

// GroupID identifies a batch of animations started together. The zero value
// means no group.
type GroupID uint64

var (
	nextID      atomic.Uint64
	nextGroupID atomic.Uint64
)

func newID() ID { return ID(nextID.Add(1)) }

func newGroupID() GroupID { return GroupID(nextGroupID.Add(1)) }

// Animation is the type-erased contract every animation kind implements. The
// controller steps registered animations through it.
type Animation interface {
	// ID returns the animation's identity.
	ID() ID
	// GroupID returns the group the animation belongs to, or 0.
	GroupID() GroupID
	// Priority orders animations within a frame. Higher priorities are
	// updated first.
	Priority() int
	// State returns the lifecycle state.
	State() State
	// Start runs the animation after delay. Starting a running animation
	// does nothing. A negative delay panics.
	Start(delay time.Duration)
	// Pause stops the animation where it is and deregisters it without
	// completing it.
	Pause()
	// Stop ends the animation. When immediately is true the value snaps to
	// pos and the animation finishes synchronously. Otherwise it retargets to
	// pos and keeps running until it settles there.
	Stop(pos Position, immediately bool)
	// Update advances the animation by dt seconds.
	Update(dt float64)
}
