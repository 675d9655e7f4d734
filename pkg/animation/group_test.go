package animation

import (
	"testing"
	"time"

	"github.com/go-drift/anima/pkg/animatable"
	"github.com/go-drift/anima/pkg/errors"
	"github.com/go-drift/anima/pkg/graphics"
)

type groupLog struct {
	finished, retargeted int
}

func (l *groupLog) record(finished, retargeted bool) {
	if finished {
		l.finished++
	}
	if retargeted {
		l.retargeted++
	}
}

func TestGroup_StopGroup(t *testing.T) {
	ctrl, _ := newTestController()
	owner := NewPropertyAnimator(ctrl)
	x := NewProperty(owner, "x", animatable.Length, 0)
	y := NewProperty(owner, "y", animatable.Length, 0)
	color := NewProperty(owner, "color", animatable.Color, graphics.ColorF{})

	before := ctrl.ActiveCount()
	var log groupLog
	id := ctrl.Animate(SpringSettings(Smooth), func() {
		x.Set(100)
		y.Set(-40)
		color.Set(graphics.ColorF{R: 1, A: 1})
	}, log.record)

	if got := len(ctrl.GroupMembers(id)); got != 3 {
		t.Fatalf("expected 3 group members, got %d", got)
	}
	if ctrl.ActiveCount() != before+3 {
		t.Fatalf("expected %d active animations, got %d", before+3, ctrl.ActiveCount())
	}
	ctrl.Tick(1.0 / 60)

	ctrl.StopGroup(id, PositionEnd)

	if ctrl.ActiveCount() != before {
		t.Errorf("expected active count back to %d, got %d", before, ctrl.ActiveCount())
	}
	if log.finished != 1 || log.retargeted != 0 {
		t.Errorf("expected completion(finished) once, got %+v", log)
	}
	if x.Value() != 100 || y.Value() != -40 {
		t.Errorf("expected properties at their targets, got %f, %f", x.Value(), y.Value())
	}
	if ctrl.GroupMembers(id) != nil {
		t.Error("expected finished group to be released")
	}
}

func TestGroup_FinishesAfterLastMember(t *testing.T) {
	ctrl, _ := newTestController()
	owner := NewPropertyAnimator(ctrl)
	fast := NewProperty(owner, "fast", animatable.Float64, 0)
	slow := NewProperty(owner, "slow", animatable.Float64, 0)

	var log groupLog
	ctrl.Animate(EasingSettings(Linear, 200*time.Millisecond), func() {
		fast.Set(1)
	}, nil)
	ctrl.Animate(EasingSettings(Linear, time.Second), func() {
		slow.Set(1)
		ctrl.Animate(EasingSettings(Linear, 100*time.Millisecond), func() {
			fast.Set(2)
		}, nil)
	}, log.record)

	tickN(ctrl, 3, 0.1)
	if fast.Value() != 2 || log.finished != 0 {
		t.Fatalf("expected fast property done and group pending, got %f (%+v)", fast.Value(), log)
	}
	tickN(ctrl, 10, 0.1)
	if slow.Value() != 1 || log.finished != 1 {
		t.Errorf("expected group finished once after slow property, got %f (%+v)", slow.Value(), log)
	}
}

func TestGroup_EmptyBlockCompletesImmediately(t *testing.T) {
	ctrl, _ := newTestController()
	var log groupLog
	ctrl.Animate(SpringSettings(Bouncy), func() {}, log.record)
	if log.finished != 1 {
		t.Errorf("expected immediate completion, got %+v", log)
	}
}

func TestGroup_NonAnimatedCompletesImmediately(t *testing.T) {
	ctrl, _ := newTestController()
	owner := NewPropertyAnimator(ctrl)
	p := NewProperty(owner, "alpha", animatable.Float64, 1)
	var log groupLog
	ctrl.Animate(NonAnimatedSettings(), func() { p.Set(0.5) }, log.record)
	if p.Value() != 0.5 || ctrl.ActiveCount() != 0 || log.finished != 1 {
		t.Errorf("expected immediate application and completion, got %f (%+v)", p.Value(), log)
	}
}

func TestGroup_UnknownIDReportsPrecondition(t *testing.T) {
	h := installHandler(t)
	ctrl, _ := newTestController()
	a := NewEasingAnimation(ctrl, animatable.Float64, Linear, time.Second, 0, 1)
	bogus := ctrl.NewGroup(nil) + 1000
	a.SetGroupID(bogus)
	a.Start(0)

	if len(h.errors) != 1 || h.errors[0].Kind != errors.KindPrecondition {
		t.Fatalf("expected one precondition error, got %v", h.errors)
	}
	if ctrl.GroupMembers(bogus) != nil {
		t.Error("expected unknown group to stay untracked")
	}
	if a.State() != Running {
		t.Errorf("expected animation to run ungrouped, got %v", a.State())
	}
}

func TestGroup_RestartAfterCompletionRunsUngrouped(t *testing.T) {
	h := installHandler(t)
	ctrl, _ := newTestController()
	a := NewEasingAnimation(ctrl, animatable.Float64, Linear, 100*time.Millisecond, 0, 1)
	var log groupLog
	id := ctrl.NewGroup(log.record)
	a.SetGroupID(id)
	a.Start(0)
	ctrl.Tick(0.1)
	if log.finished != 1 || ctrl.GroupMembers(id) != nil {
		t.Fatalf("expected group finished and released, got %+v", log)
	}

	a.SetTarget(2)
	a.Start(0)
	ctrl.Tick(0.1)
	if a.Value() != 2 || log.finished != 1 {
		t.Errorf("expected ungrouped run to 2 without new completions, got %v (%+v)", a.Value(), log)
	}
	if len(h.errors) != 0 {
		t.Errorf("expected no reported errors, got %v", h.errors)
	}
}

func TestGroup_MemberRetarget(t *testing.T) {
	ctrl, _ := newTestController()
	a := NewSpringAnimation(ctrl, animatable.Float64, Smooth, 0, 100)
	b := NewSpringAnimation(ctrl, animatable.Float64, Smooth, 0, 100)
	var log groupLog
	id := ctrl.NewGroup(log.record)
	a.SetGroupID(id)
	b.SetGroupID(id)
	a.Start(0)
	b.Start(0)
	ctrl.Tick(1.0 / 60)

	a.SetTarget(50)
	if log.retargeted != 1 || log.finished != 0 {
		t.Fatalf("expected one retargeted call, got %+v", log)
	}

	a.Stop(PositionEnd, true)
	if log.finished != 0 {
		t.Fatal("expected group to wait for its remaining member")
	}
	b.Stop(PositionEnd, true)
	if log.finished != 1 {
		t.Errorf("expected group finished once, got %+v", log)
	}
}

func TestGroup_PauseReleasesWithoutFinishing(t *testing.T) {
	ctrl, _ := newTestController()
	a := NewSpringAnimation(ctrl, animatable.Float64, Smooth, 0, 100)
	var log groupLog
	id := ctrl.NewGroup(log.record)
	a.SetGroupID(id)
	a.Start(0)
	a.Pause()
	if log.finished != 0 || ctrl.GroupMembers(id) != nil {
		t.Errorf("expected group released without completion, got %+v", log)
	}
}

func TestGroup_RestartInCompletionDefersGroup(t *testing.T) {
	ctrl, _ := newTestController()
	a := NewEasingAnimation(ctrl, animatable.Float64, Linear, 100*time.Millisecond, 0, 1)
	var log groupLog
	id := ctrl.NewGroup(log.record)
	a.SetGroupID(id)
	runs := 0
	a.Completion = func(e Event[float64]) {
		if e.IsFinished() && runs < 1 {
			runs++
			a.SetTarget(0)
			a.Start(0)
		}
	}
	a.Start(0)
	ctrl.Tick(0.1)
	if runs != 1 || log.finished != 0 {
		t.Fatal("expected restarted member to keep the group open")
	}
	tickN(ctrl, 2, 0.1)
	if log.finished != 1 {
		t.Errorf("expected group finished after the second run, got %+v", log)
	}
}

func TestAnimate_NestedSettings(t *testing.T) {
	ctrl, _ := newTestController()
	var outer, inner, after Settings
	ctrl.Animate(SpringSettings(Bouncy), func() {
		outer, _ = ctrl.CurrentSettings()
		ctrl.Animate(EasingSettings(EaseOut, time.Second), func() {
			inner, _ = ctrl.CurrentSettings()
		}, nil)
		after, _ = ctrl.CurrentSettings()
	}, nil)

	if outer.Type != SpringType || inner.Type != EasingType || after.Type != SpringType {
		t.Errorf("expected spring, easing, spring, got %v, %v, %v", outer.Type, inner.Type, after.Type)
	}
	if outer.GroupID() == inner.GroupID() || outer.GroupID() != after.GroupID() {
		t.Error("expected each block to get its own group")
	}
	if _, ok := ctrl.CurrentSettings(); ok {
		t.Error("expected no settings outside Animate")
	}
}

func TestAnimate_PanicUnwindsSettings(t *testing.T) {
	ctrl, _ := newTestController()
	func() {
		defer func() { _ = recover() }()
		ctrl.Animate(SpringSettings(Smooth), func() { panic("block") }, nil)
	}()
	if _, ok := ctrl.CurrentSettings(); ok {
		t.Error("expected settings stack unwound after panic")
	}
}
