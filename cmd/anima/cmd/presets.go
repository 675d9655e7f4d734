package cmd

import (
	"fmt"
	"strings"

	"github.com/go-drift/anima/pkg/animation"
)

func init() {
	RegisterCommand(&Command{
		Name:  "presets",
		Short: "List configured springs",
		Long: `List the springs available to "anima simulate": the built-in presets
merged with the springs defined in anima.yaml.`,
		Usage: "anima presets",
		Run:   runPresets,
	})
	RegisterCommand(&Command{
		Name:  "curves",
		Short: "List named timing curves",
		Long: `List the timing curve names accepted by "anima ease" and the easing.curve
setting in anima.yaml. Any cubic-bezier(x1, y1, x2, y2) is accepted too.`,
		Usage: "anima curves",
		Run:   runCurves,
	})
}

func runPresets(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected argument %q\n\nUsage: anima presets", args[0])
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Path != "" {
		fmt.Fprintf(stdout, "Config: %s (schema %s)\n\n", cfg.Path, cfg.Schema)
	}

	fmt.Fprintf(stdout, "%-14s %-8s %-9s %-10s %-6s %s\n", "name", "damping", "response", "stiffness", "mass", "settles")
	for _, name := range cfg.SpringNames() {
		s, _ := cfg.Spring(name)
		settles := "immediately"
		if s.IsAnimated() {
			settles = s.SettlingDuration().String()
		}
		fmt.Fprintf(stdout, "%-14s %-8.3f %-9.3f %-10.2f %-6.2f %s\n",
			name, s.DampingRatio(), s.Response(), s.Stiffness(), s.Mass(), settles)
	}
	return nil
}

func runCurves(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected argument %q\n\nUsage: anima curves", args[0])
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	names := animation.TimingFunctionNames()
	fmt.Fprintf(stdout, "Default: %s over %v\n\n", cfg.Timing.Name(), cfg.Duration)
	fmt.Fprintln(stdout, strings.Join(names, "\n"))
	return nil
}
