package animation

import (
	"math"
	"testing"
	"time"

	"github.com/go-drift/anima/pkg/animatable"
	"github.com/go-drift/anima/pkg/graphics"
)

func TestDecayFunction_Destination(t *testing.T) {
	fn := NewDecayFunction(DecelerationRateNormal)
	dest := fn.Destination(animatable.Vector{0}, animatable.Vector{1000})
	want := -1000 / (math.Log(DecelerationRateNormal) * 1000)
	if !approx(dest[0], want, 1e-9) || !approx(dest[0], 499.5, 0.01) {
		t.Errorf("expected destination %f, got %f", want, dest[0])
	}

	v := fn.Velocity(animatable.Vector{0}, dest)
	if !approx(v[0], 1000, 1e-9) {
		t.Errorf("expected velocity 1000 to reach the destination, got %f", v[0])
	}
}

func TestDecayFunction_FrameIndependent(t *testing.T) {
	fn := NewDecayFunction(DecelerationRateFast)
	value, velocity := animatable.Vector{10}, animatable.Vector{800}

	oneValue, oneVelocity := fn.Update(value, velocity, 0.1)
	manyValue, manyVelocity := value, velocity
	for range 10 {
		manyValue, manyVelocity = fn.Update(manyValue, manyVelocity, 0.01)
	}
	if !approx(oneValue[0], manyValue[0], 1e-9) || !approx(oneVelocity[0], manyVelocity[0], 1e-9) {
		t.Errorf("expected equal results, got %f/%f and %f/%f", oneValue[0], oneVelocity[0], manyValue[0], manyVelocity[0])
	}
}

func TestDecayFunction_ZeroValueIsNormal(t *testing.T) {
	var fn DecayFunction
	if fn.DecelerationRate() != DecelerationRateNormal {
		t.Errorf("expected normal rate, got %f", fn.DecelerationRate())
	}
	got := fn.Destination(animatable.Vector{0}, animatable.Vector{1000})
	want := NewDecayFunction(DecelerationRateNormal).Destination(animatable.Vector{0}, animatable.Vector{1000})
	if got[0] != want[0] {
		t.Errorf("expected %f, got %f", want[0], got[0])
	}
}

func TestDecayFunction_Preconditions(t *testing.T) {
	expectPrecondition(t, "rate 0", func() { NewDecayFunction(0) })
	expectPrecondition(t, "rate 1", func() { NewDecayFunction(1) })
}

func TestDecayAnimation_ComesToRestAtProjection(t *testing.T) {
	ctrl, _ := newTestController()
	a := NewDecayAnimation(ctrl, animatable.Float64, 0, 1000)
	projected := a.Target()
	var log eventLog[float64]
	a.Completion = log.record

	a.Start(0)
	for range 2000 {
		if a.State() == Ended {
			break
		}
		ctrl.Tick(1.0 / 60)
	}

	if a.State() != Ended || log.finished() != 1 {
		t.Fatalf("expected decay to finish once, got %v (%v)", a.State(), log.events)
	}
	if math.Abs(a.Value()-projected) > 0.5 {
		t.Errorf("expected rest within 0.5 of %f, got %f", projected, a.Value())
	}
	if a.Velocity() != 0 {
		t.Errorf("expected zero velocity at rest, got %f", a.Velocity())
	}
}

func TestDecayAnimation_SetTarget(t *testing.T) {
	ctrl, _ := newTestController()
	a := NewDecayAnimation(ctrl, animatable.Float64, 0, 0)

	a.SetTarget(300)
	if !approx(a.Target(), 300, 1e-9) {
		t.Fatalf("expected projected target 300, got %f", a.Target())
	}
	if a.Velocity() <= 0 {
		t.Fatalf("expected positive solved velocity, got %f", a.Velocity())
	}

	var log eventLog[float64]
	a.Completion = log.record
	a.Start(0)
	ctrl.Tick(0.1)
	a.SetTarget(100)
	r := log.retargeted()
	if len(r) != 1 || r[0].To != 100 || !approx(r[0].From, 300, 1e-6) {
		t.Errorf("expected retargeted(300 -> 100), got %v", log.events)
	}
	if !approx(a.Target(), 100, 1e-9) {
		t.Errorf("expected new projected target 100, got %f", a.Target())
	}
}

func TestDecayAnimation_ZeroVelocityEndsImmediately(t *testing.T) {
	ctrl, _ := newTestController()
	a := NewDecayAnimation(ctrl, animatable.Point, graphics.Point{X: 4, Y: 4}, graphics.Point{})
	var log eventLog[graphics.Point]
	a.Completion = log.record
	a.Start(0)
	if a.State() != Ended || log.finished() != 1 {
		t.Errorf("expected immediate finish, got %v (%v)", a.State(), log.events)
	}
}

func TestDecayAnimation_Repeats(t *testing.T) {
	ctrl, _ := newTestController()
	a := NewDecayAnimation(ctrl, animatable.Float64, 0, 200)
	a.Repeats = true
	var log eventLog[float64]
	a.Completion = log.record
	restarted := false
	previous := 0.0
	a.ValueChanged = func(v float64) {
		if v < previous {
			restarted = true
		}
		previous = v
	}
	a.Start(0)
	tickN(ctrl, 600, 1.0/60)

	if !restarted {
		t.Error("expected the animation to restart from its start value")
	}
	if a.State() != Running || log.finished() != 0 {
		t.Errorf("expected repeating decay to keep running, got %v (%v)", a.State(), log.events)
	}
}

func TestDecayAnimation_StopImmediatelyAtEnd(t *testing.T) {
	ctrl, _ := newTestController()
	a := NewDecayAnimation(ctrl, animatable.Float64, 0, 1000)
	a.Start(0)
	ctrl.Tick(0.1)
	dest := a.Target()

	a.Stop(PositionEnd, true)

	if !approx(a.Value(), dest, 1e-9) || a.State() != Ended {
		t.Errorf("expected snap to %f, got %f (%v)", dest, a.Value(), a.State())
	}
}

func TestDecayAnimation_StopAtStartCoastsBack(t *testing.T) {
	ctrl, _ := newTestController()
	a := NewDecayAnimation(ctrl, animatable.Float64, 0, 1000)
	a.Start(0)
	ctrl.Tick(0.1)

	a.Stop(PositionStart, false)

	if !approx(a.Target(), 0, 1e-9) || a.Velocity() >= 0 {
		t.Errorf("expected velocity reversed towards 0, got target %f velocity %f", a.Target(), a.Velocity())
	}
}

func TestDecayAnimation_DelayedStart(t *testing.T) {
	ctrl, _ := newTestController()
	a := NewDecayAnimation(ctrl, animatable.Float64, 0, 500)
	a.Start(50 * time.Millisecond)
	ctrl.Tick(0.02)
	if a.Value() != 0 || a.IsRunning() {
		t.Fatalf("expected no movement before delay, got %f", a.Value())
	}
	ctrl.Tick(0.04)
	ctrl.Tick(1.0 / 60)
	if a.Value() <= 0 {
		t.Errorf("expected movement after delay, got %f", a.Value())
	}
}
