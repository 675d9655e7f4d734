package testing

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/go-drift/anima/pkg/animation"
)

// DefaultFrameDuration is the frame interval used by PumpFrames and
// PumpAndSettle, matching a 60Hz display.
const DefaultFrameDuration = time.Second / 60

// ErrSettleTimeout is returned when PumpAndSettle exceeds its timeout.
var ErrSettleTimeout = errors.New("PumpAndSettle timed out: animations did not settle")

// AnimationTester drives an [animation.Controller] frame by frame without a
// display link. It owns a [FakeClock] and a [ManualFrameSource] and keeps
// both in step with the ticked time.
type AnimationTester struct {
	ctrl          *animation.Controller
	clock         *FakeClock
	source        *ManualFrameSource
	frameDuration time.Duration
	frames        int
}

// NewAnimationTester creates a tester. Options are applied after the
// tester's clock and frame source, so they can override either.
func NewAnimationTester(opts ...animation.Option) *AnimationTester {
	clk := NewFakeClock()
	src := &ManualFrameSource{}
	all := append([]animation.Option{animation.WithClock(clk), animation.WithFrameSource(src)}, opts...)
	return &AnimationTester{
		ctrl:          animation.NewController(all...),
		clock:         clk,
		source:        src,
		frameDuration: DefaultFrameDuration,
	}
}

// NewAnimationTesterWithT creates a tester whose engine logs go to t.Log
// for the duration of the test. This is the recommended constructor for
// tests.
func NewAnimationTesterWithT(t *testing.T, opts ...animation.Option) *AnimationTester {
	t.Helper()
	tester := NewAnimationTester(opts...)
	prev := animation.Logger()
	animation.SetLogger(slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { animation.SetLogger(prev) })
	return tester
}

// testWriter forwards log lines to t.Log.
type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// Controller returns the controller under test.
func (t *AnimationTester) Controller() *animation.Controller { return t.ctrl }

// Clock returns the fake clock stamped on animation starts.
func (t *AnimationTester) Clock() *FakeClock { return t.clock }

// Source returns the frame source the controller starts and stops.
func (t *AnimationTester) Source() *ManualFrameSource { return t.source }

// Frames returns how many frames have been pumped.
func (t *AnimationTester) Frames() int { return t.frames }

// SetFrameDuration changes the interval used by PumpFrames and
// PumpAndSettle. Non-positive durations are ignored.
func (t *AnimationTester) SetFrameDuration(d time.Duration) {
	if d > 0 {
		t.frameDuration = d
	}
}

// Pump runs one frame of length d: queued dispatches, due timers, then
// every running animation. Samples recorded during the frame carry its
// number, starting at 1.
func (t *AnimationTester) Pump(d time.Duration) {
	t.frames++
	t.clock.Advance(d)
	t.ctrl.Tick(d.Seconds())
}

// PumpFrames runs n frames of the tester's frame duration.
func (t *AnimationTester) PumpFrames(n int) {
	for range n {
		t.Pump(t.frameDuration)
	}
}

// PumpAndSettle runs frames until the controller is idle or timeout of
// ticked time has passed. Returns ErrSettleTimeout if the controller does
// not settle within timeout.
func (t *AnimationTester) PumpAndSettle(timeout time.Duration) error {
	t.Pump(0)
	var elapsed time.Duration
	for t.ctrl.HasWork() {
		if elapsed >= timeout {
			return ErrSettleTimeout
		}
		t.Pump(t.frameDuration)
		elapsed += t.frameDuration
	}
	return nil
}

// Dispatch queues fn for the next pumped frame, as another goroutine would.
func (t *AnimationTester) Dispatch(fn func()) {
	t.ctrl.Dispatch(fn)
}
