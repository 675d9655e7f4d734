package animation

import (
	"math"
	"testing"
	"time"

	"github.com/go-drift/anima/pkg/animatable"
	"github.com/go-drift/anima/pkg/errors"
)

func expectPrecondition(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatalf("%s: expected precondition panic", name)
		}
		if _, ok := r.(*errors.PreconditionError); !ok {
			t.Fatalf("%s: expected *errors.PreconditionError, got %T: %v", name, r, r)
		}
	}()
	fn()
}

func TestSpring_DerivedParameters(t *testing.T) {
	s := NewSpring(1, 0.5)

	wantStiffness := math.Pow(4*math.Pi, 2)
	if math.Abs(s.Stiffness()-wantStiffness) > 1e-9 {
		t.Errorf("expected stiffness %f, got %f", wantStiffness, s.Stiffness())
	}
	if math.Abs(s.Damping()-8*math.Pi) > 1e-9 {
		t.Errorf("expected damping %f, got %f", 8*math.Pi, s.Damping())
	}
	if s.Mass() != 1 || s.DampingRatio() != 1 || s.Response() != 0.5 {
		t.Errorf("unexpected parameters: %v", s)
	}
}

func TestSpring_SettlingDuration(t *testing.T) {
	// Critically damped springs settle 25% later than the slightly
	// underdamped estimate.
	omega := 4 * math.Pi
	want := -math.Log(settlingPercentage) / ((1 - epsilon) * omega) * 1.25

	got := Smooth.SettlingDuration().Seconds()
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("expected settling %fs, got %fs", want, got)
	}
}

func TestSpring_SettlingDurationNonAnimated(t *testing.T) {
	if NonAnimated.IsAnimated() {
		t.Fatal("expected NonAnimated spring to report not animated")
	}
	if NonAnimated.SettlingDuration() != time.Second {
		t.Errorf("expected 1s, got %v", NonAnimated.SettlingDuration())
	}
}

func TestSpring_SettlingDurationUndamped(t *testing.T) {
	s := NewSpring(0, 1)
	if s.SettlingDuration() != time.Duration(math.MaxInt64) {
		t.Errorf("expected undamped spring to never settle, got %v", s.SettlingDuration())
	}
}

func TestSpring_Preconditions(t *testing.T) {
	expectPrecondition(t, "negative ratio", func() { NewSpring(-0.1, 0.5) })
	expectPrecondition(t, "negative response", func() { NewSpring(1, -1) })
	expectPrecondition(t, "zero mass", func() { NewSpringWithMass(1, 0.5, 0) })
	expectPrecondition(t, "zero stiffness", func() { NewSpringWithStiffness(1, 0, 1) })
	expectPrecondition(t, "zero ratio with stiffness", func() { NewSpringWithStiffness(0, 100, 1) })
}

func TestSpring_WithStiffness(t *testing.T) {
	s := NewSpringWithStiffness(0.5, 100, 1)
	if s.Stiffness() != 100 {
		t.Errorf("expected stiffness 100, got %f", s.Stiffness())
	}
	if want := 2 * math.Pi / 10; math.Abs(s.Response()-want) > 1e-9 {
		t.Errorf("expected response %f, got %f", want, s.Response())
	}
}

func TestSpring_WithDuration(t *testing.T) {
	s := SpringWithDuration(500*time.Millisecond, 0)
	if s.DampingRatio() != Smooth.DampingRatio() || s.Response() != Smooth.Response() {
		t.Errorf("expected %v, got %v", Smooth, s)
	}
	bouncy := SpringWithDuration(500*time.Millisecond, 0.3)
	if math.Abs(bouncy.DampingRatio()-0.7) > 1e-9 {
		t.Errorf("expected damping ratio 0.7, got %f", bouncy.DampingRatio())
	}
}

func TestSpring_UpdateNonAnimatedSnaps(t *testing.T) {
	value, velocity := NonAnimated.Update(
		animatable.Vector{0, 5}, animatable.Vector{3, 3}, animatable.Vector{100, -20}, 1.0/60)
	if !value.Equal(animatable.Vector{100, -20}) {
		t.Errorf("expected value at target, got %v", value)
	}
	if !velocity.IsZero() {
		t.Errorf("expected zero velocity, got %v", velocity)
	}
}

func TestSpring_UpdateZeroDeltaIsIdentity(t *testing.T) {
	value, velocity := Bouncy.Update(animatable.Vector{1}, animatable.Vector{2}, animatable.Vector{10}, 0)
	if value[0] != 1 || velocity[0] != 2 {
		t.Errorf("expected unchanged state, got value %v velocity %v", value, velocity)
	}
}

func TestSpring_UpdateConverges(t *testing.T) {
	for _, s := range []Spring{Interactive, Bouncy, Smooth, Snappy} {
		value, velocity := animatable.Vector{0}, animatable.Vector{0}
		target := animatable.Vector{100}
		for range 600 {
			value, velocity = s.Update(value, velocity, target, 1.0/60)
		}
		if math.Abs(value[0]-100) > 1e-3 {
			t.Errorf("%v: expected convergence to 100, got %f", s, value[0])
		}
	}
}

func TestSpring_UpdateDeterministic(t *testing.T) {
	a, av := Snappy.Update(animatable.Vector{3, 4}, animatable.Vector{1, 0}, animatable.Vector{9, 9}, 0.02)
	b, bv := Snappy.Update(animatable.Vector{3, 4}, animatable.Vector{1, 0}, animatable.Vector{9, 9}, 0.02)
	if !a.Equal(b) || !av.Equal(bv) {
		t.Errorf("expected identical results, got %v/%v and %v/%v", a, av, b, bv)
	}
}

func TestSpring_UpdateStableForLargeDelta(t *testing.T) {
	value, velocity := Snappy.Update(animatable.Vector{0}, animatable.Vector{0}, animatable.Vector{1}, 10)
	if math.IsNaN(value[0]) || math.IsInf(value[0], 0) || math.Abs(value[0]-1) > 1e-3 {
		t.Errorf("expected stable step near target, got %f (velocity %f)", value[0], velocity[0])
	}
}

func TestRubberband(t *testing.T) {
	if got := rubberband(30, 0, 60, 15); got != 30 {
		t.Errorf("expected in-range value unchanged, got %f", got)
	}
	for _, v := range []float64{61, 100, 1e6} {
		got := rubberband(v, 0, 60, 15)
		if got <= 60 || got >= 75 {
			t.Errorf("rubberband(%f): expected value in (60, 75), got %f", v, got)
		}
	}
	if got := rubberband(-1e6, 0, 60, 15); got >= 0 || got <= -15 {
		t.Errorf("expected value in (-15, 0), got %f", got)
	}
}
