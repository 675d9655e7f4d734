// Package testing provides deterministic drivers for animation tests.
//
// # Quick Start
//
// Create a tester, start animations on its controller, and pump frames:
//
//	func TestSlideIn(t *testing.T) {
//	    tester := animatest.NewAnimationTesterWithT(t)
//	    ctrl := tester.Controller()
//
//	    anim := animation.NewSpringAnimation(ctrl, animatable.Float64, animation.Snappy, 0, 100)
//	    anim.Start(0)
//
//	    if err := tester.PumpAndSettle(2 * time.Second); err != nil {
//	        t.Fatal(err)
//	    }
//	    if anim.Value() != 100 {
//	        t.Errorf("expected 100, got %v", anim.Value())
//	    }
//	}
//
// Every pump advances the tester's [FakeClock] by the same amount of time
// the controller is ticked, so animation start times stay consistent with
// ticked time.
//
// # Trace Testing
//
// Record the values an animation delivers and compare them with a golden
// file:
//
//	trace := animatest.NewTrace(tester)
//	anim.ValueChanged = animatest.Recorder(trace, animatable.Float64)
//	tester.PumpFrames(30)
//	trace.MatchesFile(t, "testdata/spring.trace.json")
//
// Update golden files with:
//
//	ANIMA_UPDATE_SNAPSHOTS=1 go test ./...
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import animatest "github.com/go-drift/anima/pkg/testing"
package testing
