package cmd

import (
	"fmt"

	"github.com/go-drift/anima/pkg/animatable"
	"github.com/go-drift/anima/pkg/animation"
)

func init() {
	RegisterCommand(&Command{
		Name:  "decay",
		Short: "Project where a fling comes to rest",
		Long: `Coast from a starting value with an initial velocity, the way a scroll
view decelerates after a fling, and print where it comes to rest.

Give --to instead of --velocity to compute the velocity that lands on a
value.

Flags:
  --from X        Starting value (default: 0)
  --velocity V    Initial velocity in units per second
  --to X          Resting value to solve the velocity for
  --rate R        Per-millisecond deceleration: normal, fast or a number in (0, 1)
  --every N       Print every Nth frame (default: 10)

Usage:
  anima decay --velocity 1200
  anima decay --from 40 --to 640 --rate fast`,
		Usage: "anima decay (--velocity V | --to X) [--from X] [--rate R] [--every N]",
		Run:   runDecay,
	})
}

func runDecay(args []string) error {
	p, err := parseArgs(args, []string{"from", "velocity", "to", "rate", "every"}, nil)
	if err != nil {
		return err
	}
	_, hasVelocity := p.values["velocity"]
	_, hasTarget := p.values["to"]
	if hasVelocity == hasTarget {
		return fmt.Errorf("exactly one of --velocity or --to is required\n\nUsage: anima decay --velocity V")
	}

	rate, err := decayRate(p)
	if err != nil {
		return err
	}
	from, err := p.float("from", 0)
	if err != nil {
		return err
	}
	every, err := p.int("every", 10)
	if err != nil {
		return err
	}
	fn := animation.NewDecayFunction(rate)

	var velocity float64
	if hasVelocity {
		if velocity, err = p.float("velocity", 0); err != nil {
			return err
		}
	} else {
		to, err := p.float("to", 0)
		if err != nil {
			return err
		}
		velocity = fn.Velocity(animatable.Vector{from}, animatable.Vector{to})[0]
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctrl := animation.NewController(append(cfg.ControllerOptions(), animation.WithFrameSource(nil))...)
	anim := animation.NewDecayAnimation(ctrl, animatable.Float64, from, velocity)
	anim.SetDecelerationRate(rate)
	anim.IntegralizeValues = cfg.Integralize

	fmt.Fprintf(stdout, "rate %g, velocity %.4f\n", fn.DecelerationRate(), velocity)
	fmt.Fprintf(stdout, "projected: %.4f\n\n", anim.Target())

	var frames int
	fmt.Fprintf(stdout, "%-6s %-8s %-12s %s\n", "frame", "time", "value", "velocity")
	anim.ValueChanged = func(v float64) {
		frames++
		if frames%every == 0 {
			fmt.Fprintf(stdout, "%-6d %-8.3f %-12.4f %.4f\n", frames, anim.RunningTime().Seconds(), v, anim.Velocity())
		}
	}
	anim.Completion = func(e animation.Event[float64]) {
		if e.IsFinished() {
			fmt.Fprintf(stdout, "\nat rest at %.4f after %d frames (%.3fs)\n", e.Value, frames, anim.RunningTime().Seconds())
		}
	}
	anim.Start(0)

	dt := 1 / cfg.FPS
	for anim.IsRunning() {
		ctrl.Tick(dt)
	}
	return nil
}

func decayRate(p parsedArgs) (float64, error) {
	switch p.values["rate"] {
	case "", "normal":
		return animation.DecelerationRateNormal, nil
	case "fast":
		return animation.DecelerationRateFast, nil
	}
	rate, err := p.float("rate", 0)
	if err != nil {
		return 0, err
	}
	if rate <= 0 || rate >= 1 {
		return 0, fmt.Errorf("--rate must be in (0, 1), got %g", rate)
	}
	return rate, nil
}
