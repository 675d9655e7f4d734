package animation

import (
	"sync"
	"time"
)

// Frame describes one display refresh.
type Frame struct {
	// Timestamp is when the frame was produced.
	Timestamp time.Time
	// Duration is the nominal interval between frames.
	Duration time.Duration
}

// FrameSource is the display-synchronization primitive a [Controller]
// consumes. The controller calls Start when it gains work and Stop once it
// has none left, so an idle controller causes no wakeups.
//
// Implementations deliver frames by calling [Controller.TickFrame] (or
// [Controller.Tick]) on the controller's goroutine.
type FrameSource interface {
	Start()
	Stop()
}

// DisplayLink is a [FrameSource] backed by a [time.Ticker] for hosts without
// a vsync callback. [Controller.Run] consumes its frames.
type DisplayLink struct {
	interval time.Duration

	mu     sync.Mutex
	ticker *time.Ticker
}

// NewDisplayLink returns a stopped display link firing fps times a second.
// Non-positive rates default to 60.
func NewDisplayLink(fps float64) *DisplayLink {
	if fps <= 0 {
		fps = 60
	}
	return &DisplayLink{interval: time.Duration(float64(time.Second) / fps)}
}

// Interval returns the time between frames.
func (d *DisplayLink) Interval() time.Duration { return d.interval }

// Start begins producing frames. Starting a running link does nothing.
func (d *DisplayLink) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ticker != nil {
		return
	}
	d.ticker = time.NewTicker(d.interval)
	Logger().Debug("display link started", "interval", d.interval)
}

// Stop halts frame production.
func (d *DisplayLink) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ticker == nil {
		return
	}
	d.ticker.Stop()
	d.ticker = nil
	Logger().Debug("display link stopped")
}

// Running reports whether the link is producing frames.
func (d *DisplayLink) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ticker != nil
}

// C returns the channel frames arrive on, or nil while stopped. A nil
// channel blocks forever in a select, which parks an idle [Controller.Run].
func (d *DisplayLink) C() <-chan time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ticker == nil {
		return nil
	}
	return d.ticker.C
}
