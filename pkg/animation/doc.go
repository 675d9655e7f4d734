// Package animation provides physically-modeled property animations driven by
// an explicitly owned frame scheduler.
//
// # Core Components
//
//   - [Controller]: Owns the set of running animations and steps them once per
//     display refresh. Hosts either call [Controller.Tick] from their own frame
//     loop or let [Controller.Run] drive a [DisplayLink].
//
//   - [SpringAnimation]: Animates any [animatable.Kind] with a damped spring.
//     Targets can change mid-flight without losing velocity.
//
//   - [EasingAnimation]: Interpolates over a fixed duration using a
//     [TimingFunction]. Supports reversed, repeating and autoreversing playback.
//
//   - [DecayAnimation]: Decelerates a value from an initial velocity, the way a
//     scroll view coasts after a fling.
//
//   - [KeyFrameAnimation]: Plays a sequence of spring, easing, decay and jump
//     key frames, each with its own target and delay.
//
//   - [PropertyAnimator]: Keeps one animation per named property of an owner
//     and retargets it whenever the property is set inside [Controller.Animate].
//
// # Basic Usage
//
//	ctrl := animation.NewController()
//	anim := animation.NewSpringAnimation(ctrl, animatable.Point, animation.Snappy,
//	    graphics.Point{}, graphics.Point{X: 100, Y: 40})
//	anim.ValueChanged = func(p graphics.Point) { view.SetPosition(p) }
//	anim.Completion = func(e animation.Event[graphics.Point]) {
//	    if e.IsFinished() {
//	        fmt.Println("settled at", e.Value)
//	    }
//	}
//	anim.Start(0)
//
//	// Once per frame, on the UI goroutine:
//	ctrl.Tick(1.0 / 60)
//
// # Threading
//
// Controllers and animations are not safe for concurrent use. Every call must
// happen on the goroutine that ticks the controller, except
// [Controller.Dispatch], which queues work for the next frame from any
// goroutine.
package animation
