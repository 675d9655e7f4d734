package animation

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-drift/anima/pkg/animatable"
	"github.com/go-drift/anima/pkg/errors"
)

// countingSource records how often the controller starts and stops it.
type countingSource struct {
	starts, stops int
	running       bool
}

func (s *countingSource) Start() { s.starts++; s.running = true }
func (s *countingSource) Stop()  { s.stops++; s.running = false }

func newTestController() (*Controller, *countingSource) {
	src := &countingSource{}
	return NewController(WithFrameSource(src)), src
}

// recordingHandler captures reported errors and panics.
type recordingHandler struct {
	errors []*errors.AnimaError
	panics []*errors.PanicError
}

func (h *recordingHandler) HandleError(err *errors.AnimaError) { h.errors = append(h.errors, err) }
func (h *recordingHandler) HandlePanic(err *errors.PanicError) { h.panics = append(h.panics, err) }

func installHandler(t *testing.T) *recordingHandler {
	t.Helper()
	h := &recordingHandler{}
	errors.SetHandler(h)
	t.Cleanup(func() { errors.SetHandler(nil) })
	return h
}

func TestController_FrameSourceFollowsWork(t *testing.T) {
	ctrl, src := newTestController()
	a := NewSpringAnimation(ctrl, animatable.Float64, Snappy, 0, 10)

	if src.running {
		t.Fatal("expected idle controller not to run its frame source")
	}
	a.Start(0)
	if !src.running || src.starts != 1 {
		t.Fatalf("expected frame source started once, got starts=%d running=%v", src.starts, src.running)
	}
	for range 600 {
		ctrl.Tick(1.0 / 60)
		if a.State() == Ended {
			break
		}
	}
	if src.running || src.stops != 1 {
		t.Errorf("expected frame source stopped once after settling, got stops=%d running=%v", src.stops, src.running)
	}
}

func TestController_FrameSourceRunsForPendingTimers(t *testing.T) {
	ctrl, src := newTestController()
	timer := ctrl.After(100*time.Millisecond, func() {})
	if !src.running {
		t.Fatal("expected pending timer to start the frame source")
	}
	timer.Cancel()
	if src.running {
		t.Error("expected canceled timer to stop the frame source")
	}
}

func TestController_PriorityOrder(t *testing.T) {
	ctrl, _ := newTestController()
	var order []string
	mk := func(name string, priority int) *SpringAnimation[float64] {
		a := NewSpringAnimation(ctrl, animatable.Float64, Smooth, 0, 100)
		a.SetPriority(priority)
		a.ValueChanged = func(float64) { order = append(order, name) }
		return a
	}
	low := mk("low", 0)
	high := mk("high", 10)
	lowLater := mk("lowLater", 0)
	low.Start(0)
	high.Start(0)
	lowLater.Start(0)

	order = nil
	ctrl.Tick(1.0 / 60)

	want := []string{"high", "low", "lowLater"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, order)
		}
	}
}

func TestController_RemovalDuringTick(t *testing.T) {
	ctrl, _ := newTestController()
	victim := NewSpringAnimation(ctrl, animatable.Float64, Smooth, 0, 100)
	victimUpdates := 0
	victim.ValueChanged = func(float64) { victimUpdates++ }

	killer := NewSpringAnimation(ctrl, animatable.Float64, Smooth, 0, 100)
	killer.SetPriority(1)
	armed := false
	killer.ValueChanged = func(float64) {
		if armed && victim.IsRunning() {
			victim.Pause()
		}
	}

	victim.Start(0)
	killer.Start(0)
	armed = true
	victimUpdates = 0

	ctrl.Tick(1.0 / 60)
	if victimUpdates != 0 {
		t.Errorf("expected paused animation to be skipped, got %d updates", victimUpdates)
	}
	if ctrl.IsActive(victim.ID()) {
		t.Error("expected paused animation to be deregistered")
	}
	if !ctrl.IsActive(killer.ID()) {
		t.Error("expected killer animation to stay registered")
	}
}

func TestController_StartFromCompletion(t *testing.T) {
	ctrl, _ := newTestController()
	second := NewSpringAnimation(ctrl, animatable.Float64, NonAnimated, 0, 5)
	first := NewSpringAnimation(ctrl, animatable.Float64, Snappy, 0, 10)
	first.Completion = func(e Event[float64]) {
		if e.IsFinished() {
			second.SetTarget(50)
			second.Start(0)
		}
	}
	first.Start(0)
	for range 600 {
		ctrl.Tick(1.0 / 60)
		if first.State() == Ended {
			break
		}
	}
	if second.Value() != 50 || second.State() != Ended {
		t.Errorf("expected second animation to run from completion, got value %v state %v", second.Value(), second.State())
	}
}

func TestController_RecoversPanickingAnimation(t *testing.T) {
	h := installHandler(t)
	ctrl, _ := newTestController()

	bad := NewSpringAnimation(ctrl, animatable.Float64, Smooth, 0, 100)
	good := NewSpringAnimation(ctrl, animatable.Float64, Smooth, 0, 100)
	bad.SetPriority(1)
	armed := false
	bad.ValueChanged = func(float64) {
		if armed {
			panic("boom")
		}
	}
	goodUpdates := 0
	good.ValueChanged = func(float64) { goodUpdates++ }

	bad.Start(0)
	good.Start(0)
	armed = true
	goodUpdates = 0

	ctrl.Tick(1.0 / 60)

	if len(h.panics) != 1 {
		t.Fatalf("expected 1 reported panic, got %d", len(h.panics))
	}
	if h.panics[0].Value != "boom" {
		t.Errorf("expected panic value boom, got %v", h.panics[0].Value)
	}
	if len(h.errors) != 1 || h.errors[0].Kind != errors.KindCallback || h.errors[0].Animation != bad.String() {
		t.Errorf("expected a callback error naming the stopped animation, got %v", h.errors)
	}
	if len(h.errors) == 1 && !strings.Contains(h.errors[0].Animation, "state: ended") {
		t.Errorf("expected the error to describe the animation after it stopped, got %q", h.errors[0].Animation)
	}
	var pe *errors.PanicError
	if len(h.errors) == 1 && !errors.As(h.errors[0], &pe) {
		t.Error("expected the callback error to wrap the panic")
	}
	if bad.State() != Ended || ctrl.IsActive(bad.ID()) {
		t.Errorf("expected panicking animation to end, state %v", bad.State())
	}
	if goodUpdates != 1 {
		t.Errorf("expected other animations to keep updating, got %d updates", goodUpdates)
	}
}

func TestController_PreconditionsAreNotRecovered(t *testing.T) {
	ctrl, _ := newTestController()
	a := NewSpringAnimation(ctrl, animatable.Float64, Smooth, 0, 100)
	armed := false
	a.ValueChanged = func(float64) {
		if armed {
			a.Start(-time.Second)
		}
	}
	a.Start(0)
	armed = true
	expectPrecondition(t, "nested negative delay", func() { ctrl.Tick(1.0 / 60) })
}

func TestController_Dispatch(t *testing.T) {
	ctrl, _ := newTestController()
	var wg sync.WaitGroup
	var mu sync.Mutex
	ran := 0
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctrl.Dispatch(func() {
				mu.Lock()
				ran++
				mu.Unlock()
			})
		}()
	}
	wg.Wait()

	select {
	case <-ctrl.Wake():
	default:
		t.Error("expected dispatch to signal the wake channel")
	}
	if ran != 0 {
		t.Fatalf("expected dispatched work to wait for a tick, ran %d", ran)
	}
	ctrl.Tick(0)
	if ran != 8 {
		t.Errorf("expected 8 dispatched functions to run, got %d", ran)
	}
}

func TestController_TickFrameUsesTimestamps(t *testing.T) {
	ctrl, _ := newTestController()
	a := NewEasingAnimation(ctrl, animatable.Float64, Linear, time.Second, 0, 100)
	a.Start(0)

	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ctrl.TickFrame(Frame{Timestamp: t0, Duration: 100 * time.Millisecond})
	if got := a.Value(); !approx(got, 10, 1e-9) {
		t.Fatalf("expected first frame to advance by its duration, got %f", got)
	}
	ctrl.TickFrame(Frame{Timestamp: t0.Add(300 * time.Millisecond), Duration: 100 * time.Millisecond})
	if got := a.Value(); !approx(got, 40, 1e-9) {
		t.Errorf("expected second frame to advance by the timestamp delta, got %f", got)
	}
	if d := ctrl.Elapsed() - 400*time.Millisecond; d < -time.Microsecond || d > time.Microsecond {
		t.Errorf("expected 400ms elapsed, got %v", ctrl.Elapsed())
	}
}

func TestController_Lookup(t *testing.T) {
	ctrl, _ := newTestController()
	a := NewSpringAnimation(ctrl, animatable.Float64, Smooth, 0, 1)

	got, ok := ctrl.Lookup(a.ID())
	if !ok || got.ID() != a.ID() {
		t.Fatalf("expected lookup to find animation %d", a.ID())
	}
	if _, ok := got.(*SpringAnimation[float64]); !ok {
		t.Errorf("expected *SpringAnimation[float64], got %T", got)
	}
	if _, ok := ctrl.Lookup(a.ID() + 1000); ok {
		t.Error("expected unknown id to miss")
	}
}

func TestController_ActiveCount(t *testing.T) {
	ctrl, _ := newTestController()
	a := NewSpringAnimation(ctrl, animatable.Float64, Smooth, 0, 1)
	b := NewEasingAnimation(ctrl, animatable.Float64, Linear, time.Second, 0, 1)
	a.Start(0)
	b.Start(0)
	if ctrl.ActiveCount() != 2 {
		t.Fatalf("expected 2 active animations, got %d", ctrl.ActiveCount())
	}
	active := ctrl.Active()
	if active[0].ID() != a.ID() || active[1].ID() != b.ID() {
		t.Errorf("expected registration order, got %v", active)
	}
	a.Stop(PositionCurrent, true)
	if ctrl.ActiveCount() != 1 || ctrl.IsActive(a.ID()) {
		t.Errorf("expected stopped animation removed, active=%d", ctrl.ActiveCount())
	}
}

func TestController_RunStopsOnCancel(t *testing.T) {
	ctrl := NewController(WithFPS(240))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- ctrl.Run(ctx) }()

	finished := false
	ctrl.Dispatch(func() {
		a := NewEasingAnimation(ctrl, animatable.Float64, Linear, 50*time.Millisecond, 0, 1)
		a.Completion = func(e Event[float64]) {
			if e.IsFinished() {
				finished = true
				cancel()
			}
		}
		a.Start(0)
	})

	err := <-done
	if !stderrors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if !finished {
		t.Error("expected the animation to finish before Run returned")
	}
	if link := ctrl.FrameSource().(*DisplayLink); link.Running() {
		t.Error("expected display link stopped after Run returned")
	}
}

func TestController_RunRequiresDisplayLink(t *testing.T) {
	ctrl, _ := newTestController()
	expectPrecondition(t, "manual source", func() { _ = ctrl.Run(context.Background()) })
}

func TestTimer_FiresInDeadlineOrder(t *testing.T) {
	ctrl, _ := newTestController()
	var fired []int
	ctrl.After(30*time.Millisecond, func() { fired = append(fired, 3) })
	ctrl.After(10*time.Millisecond, func() { fired = append(fired, 1) })
	second := ctrl.After(20*time.Millisecond, func() { fired = append(fired, 2) })

	if second.Remaining() != 20*time.Millisecond {
		t.Errorf("expected 20ms remaining, got %v", second.Remaining())
	}
	ctrl.Tick(0.015)
	if len(fired) != 1 || fired[0] != 1 {
		t.Fatalf("expected only first timer, got %v", fired)
	}
	ctrl.Tick(0.05)
	if len(fired) != 3 || fired[1] != 2 || fired[2] != 3 {
		t.Errorf("expected deadline order, got %v", fired)
	}
	if second.Pending() || second.Cancel() {
		t.Error("expected fired timer to be neither pending nor cancelable")
	}
}

func approx(a, b, eps float64) bool {
	d := a - b
	return d < eps && d > -eps
}
