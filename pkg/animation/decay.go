package animation

import (
	"math"

	"github.com/go-drift/anima/pkg/animatable"
	"github.com/go-drift/anima/pkg/errors"
)

// Deceleration rates of a scrolling view coasting after a fling.
const (
	DecelerationRateNormal = 0.998
	DecelerationRateFast   = 0.99
)

// DecayFunction models exponential velocity decay. The value after t
// seconds is solved analytically, so the result does not depend on how a
// span of time is split into frames.
type DecayFunction struct {
	rate  float64
	scale float64 // 1 / (ln(rate) * 1000)
}

// NewDecayFunction returns a decay function with the given per-millisecond
// deceleration rate in (0, 1).
func NewDecayFunction(rate float64) DecayFunction {
	errors.Precondition("animation.NewDecayFunction", rate > 0 && rate < 1, "deceleration rate must be in (0, 1)")
	return DecayFunction{rate: rate, scale: 1 / (math.Log(rate) * 1000)}
}

// DecelerationRate returns the rate velocity is multiplied by per millisecond.
func (f DecayFunction) DecelerationRate() float64 {
	if f.rate == 0 {
		return DecelerationRateNormal
	}
	return f.rate
}

func (f DecayFunction) resolved() DecayFunction {
	if f.rate == 0 {
		return NewDecayFunction(DecelerationRateNormal)
	}
	return f
}

// Update advances value and velocity by dt seconds.
func (f DecayFunction) Update(value, velocity animatable.Vector, dt float64) (animatable.Vector, animatable.Vector) {
	f = f.resolved()
	if dt <= 0 {
		return value.Clone(), velocity.Clone()
	}
	d := math.Pow(f.rate, dt*1000)
	return value.Add(velocity.Scale((d - 1) * f.scale)), velocity.Scale(d)
}

// Destination returns the value a decay starting at value with velocity
// comes to rest at.
func (f DecayFunction) Destination(value, velocity animatable.Vector) animatable.Vector {
	f = f.resolved()
	return value.Sub(velocity.Scale(f.scale))
}

// Velocity returns the initial velocity needed to decay from value to
// destination.
func (f DecayFunction) Velocity(value, destination animatable.Vector) animatable.Vector {
	f = f.resolved()
	return value.Sub(destination).Scale(1 / f.scale)
}

// decayRestThreshold is the squared velocity magnitude below which a decay
// counts as settled.
const decayRestThreshold = 0.1
