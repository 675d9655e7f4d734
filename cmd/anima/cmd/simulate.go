package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/go-drift/anima/pkg/animatable"
	"github.com/go-drift/anima/pkg/animation"
	"github.com/go-drift/anima/pkg/config"
)

func init() {
	RegisterCommand(&Command{
		Name:  "simulate",
		Short: "Step a spring until it settles",
		Long: `Run a named spring from one value to another and print every frame.

Springs come from anima.yaml; the built-in presets are always available
(see "anima presets").

Flags:
  --from N        Starting value (default: 0)
  --to N          Target value (default: 100)
  --velocity N    Initial velocity in units per second (default: 0)
  --every N       Print every Nth frame (default: 1)
  --realtime      Drive the spring from a display link at the configured fps

Usage:
  anima simulate                     Run the smooth spring from 0 to 100
  anima simulate bouncy --to 320     Run the bouncy spring to 320`,
		Usage: "anima simulate [spring] [--from N] [--to N] [--velocity N] [--every N] [--realtime]",
		Run:   runSimulate,
	})
}

type simulateOptions struct {
	spring   string
	from, to float64
	velocity float64
	every    int
	realtime bool
}

func parseSimulateArgs(args []string) (simulateOptions, error) {
	opts := simulateOptions{spring: "smooth"}
	p, err := parseArgs(args, []string{"from", "to", "velocity", "every"}, []string{"realtime"})
	if err != nil {
		return opts, err
	}
	if name := p.arg(0); name != "" {
		opts.spring = name
	}
	if opts.from, err = p.float("from", 0); err != nil {
		return opts, err
	}
	if opts.to, err = p.float("to", 100); err != nil {
		return opts, err
	}
	if opts.velocity, err = p.float("velocity", 0); err != nil {
		return opts, err
	}
	if opts.every, err = p.int("every", 1); err != nil {
		return opts, err
	}
	opts.realtime = p.switches["realtime"]
	return opts, nil
}

func runSimulate(args []string) error {
	opts, err := parseSimulateArgs(args)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	spring, ok := cfg.Spring(opts.spring)
	if !ok {
		return fmt.Errorf("unknown spring %q (available: %s)", opts.spring, strings.Join(cfg.SpringNames(), ", "))
	}

	fmt.Fprintf(stdout, "%s: %v\n", opts.spring, spring)
	fmt.Fprintf(stdout, "settling duration: %v\n\n", spring.SettlingDuration())

	if opts.realtime {
		return simulateRealtime(cfg, spring, opts)
	}

	ctrl := animation.NewController(append(cfg.ControllerOptions(), animation.WithFrameSource(nil))...)
	anim := newSimulatedSpring(ctrl, cfg, spring, opts)
	anim.Start(0)
	dt := 1 / cfg.FPS
	for anim.IsRunning() {
		ctrl.Tick(dt)
	}
	return nil
}

// simulateRealtime runs the spring against a live display link until it
// settles or the process is interrupted.
func simulateRealtime(cfg *config.Resolved, spring animation.Spring, opts simulateOptions) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	ctrl := animation.NewController(cfg.ControllerOptions()...)
	anim := newSimulatedSpring(ctrl, cfg, spring, opts)
	done := anim.Completion
	anim.Completion = func(e animation.Event[float64]) {
		done(e)
		if e.IsFinished() {
			cancel()
		}
	}
	anim.Start(0)

	if err := ctrl.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func newSimulatedSpring(ctrl *animation.Controller, cfg *config.Resolved, spring animation.Spring, opts simulateOptions) *animation.SpringAnimation[float64] {
	anim := animation.NewSpringAnimation(ctrl, animatable.Float64, spring, opts.from, opts.to)
	anim.SetVelocity(opts.velocity)
	anim.IntegralizeValues = cfg.Integralize

	var frames int
	fmt.Fprintf(stdout, "%-6s %-8s %-12s %s\n", "frame", "time", "value", "velocity")
	anim.ValueChanged = func(v float64) {
		frames++
		if frames%opts.every == 0 {
			fmt.Fprintf(stdout, "%-6d %-8.3f %-12.4f %.4f\n", frames, anim.RunningTime().Seconds(), v, anim.Velocity())
		}
	}
	anim.Completion = func(e animation.Event[float64]) {
		if e.IsFinished() {
			fmt.Fprintf(stdout, "\nsettled at %.4f after %d frames (%.3fs)\n", e.Value, frames, anim.RunningTime().Seconds())
		}
	}
	return anim
}
