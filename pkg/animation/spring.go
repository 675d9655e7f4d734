package animation

import (
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/harmonica"

	"github.com/go-drift/anima/pkg/animatable"
	"github.com/go-drift/anima/pkg/errors"
)

// settlingPercentage is the fraction of the initial displacement at which a
// spring counts as visually at rest.
const settlingPercentage = 0.0001

var logOfSettlingPercentage = math.Log(settlingPercentage)

// Spring determines the timing curve and settling duration of a
// [SpringAnimation].
//
// A spring is parameterized by a damping ratio plus either a response (the
// period of the undamped oscillation, in seconds) or a stiffness. Damping
// ratio 1 is critically damped: the value reaches its target without
// overshooting. Values towards 0 oscillate more.
//
// Springs are immutable values and safe to share between animations.
type Spring struct {
	dampingRatio float64
	response     float64
	stiffness    float64
	mass         float64
	damping      float64
	settling     float64
}

// NewSpring creates a spring with the given damping ratio and response and a
// mass of 1. A response of 0 creates a non-animated spring that jumps to its
// target on the first update.
func NewSpring(dampingRatio, response float64) Spring {
	return NewSpringWithMass(dampingRatio, response, 1)
}

// NewSpringWithMass creates a spring with the given damping ratio, response
// and mass. The derived damping coefficient is rubber-banded into [0, 60] so
// very short responses stay numerically tame.
func NewSpringWithMass(dampingRatio, response, mass float64) Spring {
	errors.Precondition("animation.NewSpring", dampingRatio >= 0, "dampingRatio must be >= 0")
	errors.Precondition("animation.NewSpring", response >= 0, "response must be >= 0")
	errors.Precondition("animation.NewSpring", mass > 0, "mass must be > 0")

	stiffness := stiffnessFor(response, mass)
	return Spring{
		dampingRatio: dampingRatio,
		response:     response,
		stiffness:    stiffness,
		mass:         mass,
		damping:      rubberband(dampingFor(dampingRatio, response, mass), 0, 60, 15),
		settling:     settlingTime(dampingRatio, stiffness, mass),
	}
}

// NewSpringWithStiffness creates a spring from a damping ratio and the spring
// constant k.
func NewSpringWithStiffness(dampingRatio, stiffness, mass float64) Spring {
	errors.Precondition("animation.NewSpringWithStiffness", stiffness > 0, "stiffness must be > 0")
	errors.Precondition("animation.NewSpringWithStiffness", dampingRatio > 0, "dampingRatio must be > 0")
	errors.Precondition("animation.NewSpringWithStiffness", mass > 0, "mass must be > 0")

	response := responseFor(stiffness, mass)
	return Spring{
		dampingRatio: dampingRatio,
		response:     response,
		stiffness:    stiffness,
		mass:         mass,
		damping:      dampingFor(dampingRatio, response, mass),
		settling:     settlingTime(dampingRatio, stiffness, mass),
	}
}

// SpringWithDuration creates a spring with a perceptual duration and bounce.
// Bounce 0 is critically damped, positive values up to 1 add oscillation and
// negative values down to -1 overdamp.
func SpringWithDuration(duration time.Duration, bounce float64) Spring {
	return NewSpring(1-bounce, duration.Seconds())
}

// Predefined springs.
var (
	// Interactive is a slightly underdamped spring for gesture-driven motion
	// such as dragging.
	Interactive = NewSpring(0.8, 0.28)
	// NonAnimated jumps straight to the target.
	NonAnimated = NewSpring(1, 0)
	// Bouncy has a noticeable overshoot.
	Bouncy = NewSpring(0.7, 0.5)
	// Smooth is critically damped.
	Smooth = NewSpring(1, 0.5)
	// Snappy has a small amount of bounce.
	Snappy = NewSpring(0.85, 0.5)
)

// BouncySpring returns a tunable variant of [Bouncy]. extraBounce is
// subtracted from the base damping ratio of 0.7.
func BouncySpring(duration time.Duration, extraBounce float64) Spring {
	return NewSpring(0.7-extraBounce, duration.Seconds())
}

// SmoothSpring returns a tunable variant of [Smooth].
func SmoothSpring(duration time.Duration, extraBounce float64) Spring {
	return NewSpring(1-extraBounce, duration.Seconds())
}

// SnappySpring returns a tunable variant of [Snappy].
func SnappySpring(duration time.Duration, extraBounce float64) Spring {
	return NewSpring(0.85-extraBounce, duration.Seconds())
}

// DampingRatio returns the amount of oscillation.
func (s Spring) DampingRatio() float64 { return s.dampingRatio }

// Response returns the period of the undamped system in seconds.
func (s Spring) Response() float64 { return s.response }

// Stiffness returns the spring constant k.
func (s Spring) Stiffness() float64 { return s.stiffness }

// Mass returns the mass attached to the spring.
func (s Spring) Mass() float64 { return s.mass }

// Damping returns the viscous damping coefficient c.
func (s Spring) Damping() float64 { return s.damping }

// IsAnimated reports whether the spring moves over time. Springs with a
// response of 0 snap to their target.
func (s Spring) IsAnimated() bool { return s.response > 0 }

// SettlingDuration estimates how long the spring takes to come to rest.
// It is used as the completion condition of a [SpringAnimation] and is
// otherwise diagnostic. Undamped springs never settle and report the maximum
// duration.
func (s Spring) SettlingDuration() time.Duration {
	if math.IsInf(s.settling, 1) || s.settling >= math.MaxInt64/float64(time.Second) {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(s.settling * float64(time.Second))
}

// settlingSeconds is SettlingDuration as float seconds, +Inf when undamped.
func (s Spring) settlingSeconds() float64 { return s.settling }

// Update advances value and velocity towards target by dt seconds and
// returns the new value and velocity.
//
// The damped harmonic oscillator is solved in closed form per component, so
// the step is stable for any dt and converges on target asymptotically.
func (s Spring) Update(value, velocity, target animatable.Vector, dt float64) (animatable.Vector, animatable.Vector) {
	if !s.IsAnimated() {
		return target.Clone(), animatable.Zero(len(target))
	}
	if dt <= 0 {
		return value.Clone(), velocity.Clone()
	}

	omega := math.Sqrt(s.stiffness / s.mass)
	zeta := s.damping / (2 * s.mass * omega)
	step := harmonica.NewSpring(dt, omega, zeta)

	newValue := make(animatable.Vector, len(value))
	newVelocity := make(animatable.Vector, len(value))
	for i := range value {
		newValue[i], newVelocity[i] = step.Update(value[i], velocity[i], target[i])
	}
	return newValue, newVelocity
}

func (s Spring) String() string {
	mode := "animated"
	if !s.IsAnimated() {
		mode = "nonAnimated"
	}
	return fmt.Sprintf("Spring(dampingRatio: %g, response: %g, mass: %g, stiffness: %.3f, settling: %.3fs, %s)",
		s.dampingRatio, s.response, s.mass, s.stiffness, s.settling, mode)
}

func stiffnessFor(response, mass float64) float64 {
	return math.Pow(2*math.Pi/response, 2) * mass
}

func responseFor(stiffness, mass float64) float64 {
	return 2 * math.Pi / math.Sqrt(stiffness*mass)
}

func dampingFor(dampingRatio, response, mass float64) float64 {
	return 4 * math.Pi * dampingRatio * mass / response
}

func settlingTime(dampingRatio, stiffness, mass float64) float64 {
	if math.IsInf(stiffness, 1) {
		// A non-animated spring still needs a non-zero settling time so it
		// survives its first frame.
		return 1
	}
	if dampingRatio >= 1 {
		return settlingTime(1-epsilon, stiffness, mass) * 1.25
	}
	naturalFrequency := math.Sqrt(stiffness / mass)
	return -logOfSettlingPercentage / (dampingRatio * naturalFrequency)
}

const epsilon = 2.220446049250313e-16

// rubberband softly limits value to [lower, upper]. Values beyond an edge
// approach edge±interval asymptotically, like an overscrolled scroll view.
func rubberband(value, lower, upper, interval float64) float64 {
	const c = 0.55
	if value >= lower && value <= upper {
		return value
	}
	if value > upper {
		x := value - upper
		return upper + (1-1/(x*c/interval+1))*interval
	}
	x := lower - value
	return lower - (1-1/(x*c/interval+1))*interval
}
