package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/go-drift/anima/pkg/animatable"
	"github.com/go-drift/anima/pkg/animation"
	"github.com/go-drift/anima/pkg/config"
	"github.com/go-drift/anima/pkg/graphics"
)

func init() {
	RegisterCommand(&Command{
		Name:  "ease",
		Short: "Sample a timing curve",
		Long: `Run an easing animation and print its value at evenly spaced steps.

The curve is a name from "anima curves" or cubic-bezier(x1, y1, x2, y2).
It defaults to the easing curve and duration configured in anima.yaml.

When --from and --to are colors (palette names or #rrggbb[aa]) the values
are colors, printed as #AARRGGBB next to a perceptual CIE-L*a*b* blend.

Flags:
  --duration D    Animation duration, e.g. 250ms or 0.25 (default: from config)
  --from X        Starting value or color (default: 0)
  --to X          Target value or color (default: 1)
  --steps N       Number of samples (default: 10)

Usage:
  anima ease outBack --to 100
  anima ease "cubic-bezier(0.2, 0, 0, 1)" --duration 400ms
  anima ease linear --from accent --to "#ffffff"`,
		Usage: "anima ease [curve] [--duration D] [--from X] [--to X] [--steps N]",
		Run:   runEase,
	})
}

func runEase(args []string) error {
	p, err := parseArgs(args, []string{"duration", "from", "to", "steps"}, nil)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	timing := cfg.Timing
	if name := p.arg(0); name != "" {
		if timing, err = config.ParseTimingFunction(name); err != nil {
			return err
		}
	}
	duration, err := p.duration("duration", cfg.Duration)
	if err != nil {
		return err
	}
	if duration <= 0 {
		return fmt.Errorf("--duration must be positive")
	}
	steps, err := p.int("steps", 10)
	if err != nil {
		return err
	}

	from, to := p.values["from"], p.values["to"]
	if from == "" {
		from = "0"
	}
	if to == "" {
		to = "1"
	}

	fmt.Fprintf(stdout, "%s over %v\n\n", timing.Name(), duration)

	a, errA := strconv.ParseFloat(from, 64)
	b, errB := strconv.ParseFloat(to, 64)
	if errA == nil && errB == nil {
		sampleEasing(cfg, timing, duration, steps, animatable.Float64, a, b, func(v float64, _ float64) string {
			return strconv.FormatFloat(v, 'f', 4, 64)
		})
		return nil
	}

	fromColor, err := cfg.Color(from)
	if err != nil {
		return fmt.Errorf("--from: %w", err)
	}
	toColor, err := cfg.Color(to)
	if err != nil {
		return fmt.Errorf("--to: %w", err)
	}
	sampleEasing(cfg, timing, duration, steps, animatable.Color, fromColor, toColor, func(c graphics.ColorF, progress float64) string {
		return fmt.Sprintf("%v  lab %v", c.Packed(), fromColor.BlendLab(toColor, progress).Packed())
	})
	return nil
}

// sampleEasing steps an easing animation in steps equal frames, printing the
// value after each.
func sampleEasing[T any](cfg *config.Resolved, timing animation.TimingFunction, duration time.Duration, steps int, kind animatable.Kind[T], from, to T, format func(v T, progress float64) string) {
	ctrl := animation.NewController(append(cfg.ControllerOptions(), animation.WithFrameSource(nil))...)
	anim := animation.NewEasingAnimation(ctrl, kind, timing, duration, from, to)
	anim.IntegralizeValues = cfg.Integralize

	fmt.Fprintf(stdout, "%-5s %-8s %-9s %s\n", "step", "time", "progress", "value")
	fmt.Fprintf(stdout, "%-5d %-8.3f %-9.4f %s\n", 0, 0.0, 0.0, format(from, 0))
	step := 0
	anim.ValueChanged = func(v T) {
		step++
		progress := timing.Solve(anim.FractionComplete())
		fmt.Fprintf(stdout, "%-5d %-8.3f %-9.4f %s\n", step, anim.RunningTime().Seconds(), progress, format(v, progress))
	}
	anim.Start(0)

	dt := duration.Seconds() / float64(steps)
	for anim.IsRunning() {
		ctrl.Tick(dt)
	}
}
