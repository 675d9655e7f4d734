// Package config loads the optional anima.yaml file that tunes a
// controller and names reusable springs, easing defaults and colors.
//
// A missing file is not an error; every value falls back to a default:
//
//	schema: v1
//	controller:
//	  fps: 120
//	  scale: 2
//	  integralize: true
//	springs:
//	  sheet: {dampingRatio: 0.9, response: 0.35}
//	  stiff: {stiffness: 400, mass: 1, dampingRatio: 0.8}
//	easing:
//	  curve: easeInEaseOut
//	  duration: 250ms
//	palette:
//	  accent: "#3478f6"
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/anima/pkg/animation"
	animaerrors "github.com/go-drift/anima/pkg/errors"
	"github.com/go-drift/anima/pkg/graphics"
)

// FileName is the configuration file looked up in a directory.
const FileName = "anima.yaml"

// SchemaVersion is the newest schema this build reads. Files declaring
// another major version are rejected with [animaerrors.ErrUnsupportedSchema].
const SchemaVersion = "v1.0.0"

// Default values applied by Resolve.
const (
	DefaultFPS      = 60
	DefaultScale    = 1
	DefaultDuration = 300 * time.Millisecond
	DefaultCurve    = "easeInEaseOut"
)

// Config represents the optional anima.yaml configuration.
type Config struct {
	Schema     string                  `yaml:"schema,omitempty"`
	Controller ControllerConfig        `yaml:"controller"`
	Springs    map[string]SpringConfig `yaml:"springs,omitempty"`
	Easing     EasingConfig            `yaml:"easing"`
	Palette    map[string]string       `yaml:"palette,omitempty"`

	path string
}

// ControllerConfig contains controller settings.
type ControllerConfig struct {
	FPS         float64 `yaml:"fps,omitempty"`
	Scale       float64 `yaml:"scale,omitempty"`
	Integralize bool    `yaml:"integralize,omitempty"`
}

// SpringConfig describes a named spring. Either response or stiffness may
// be given; stiffness wins when both are.
type SpringConfig struct {
	DampingRatio *float64 `yaml:"dampingRatio,omitempty"`
	Response     *float64 `yaml:"response,omitempty"`
	Stiffness    *float64 `yaml:"stiffness,omitempty"`
	Mass         *float64 `yaml:"mass,omitempty"`
}

// EasingConfig contains the defaults for easing animations.
type EasingConfig struct {
	Curve    string   `yaml:"curve,omitempty"`
	Duration Duration `yaml:"duration,omitempty"`
}

// Duration is a time.Duration read from either a Go duration string such
// as "250ms" or a number of seconds.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var secs float64
	if err := node.Decode(&secs); err == nil {
		*d = Duration(secs * float64(time.Second))
		return nil
	}
	var s string
	if err := node.Decode(&s); err != nil {
		return fmt.Errorf("line %d: duration must be a string or number", node.Line)
	}
	v, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*d = Duration(v)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Resolved contains resolved configuration values.
type Resolved struct {
	// Path is the file the values were read from, or empty for defaults.
	Path        string
	Schema      string
	FPS         float64
	Scale       float64
	Integralize bool
	Springs     map[string]animation.Spring
	Timing      animation.TimingFunction
	Duration    time.Duration
	Palette     map[string]graphics.ColorF
}

// BuiltinSprings are the springs every resolved configuration starts with.
// Entries under springs: with the same name replace them.
func BuiltinSprings() map[string]animation.Spring {
	return map[string]animation.Spring{
		"interactive": animation.Interactive,
		"bouncy":      animation.Bouncy,
		"smooth":      animation.Smooth,
		"snappy":      animation.Snappy,
		"nonAnimated": animation.NonAnimated,
	}
}

// Load reads and parses the file at path. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	cfg.path = path
	return cfg, nil
}

// Parse decodes anima.yaml content.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return &cfg, nil
}

// LoadOptional reads anima.yaml from dir if present.
func LoadOptional(dir string) (*Config, error) {
	cfg, err := Load(filepath.Join(dir, FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}
	return cfg, nil
}

// Resolve loads anima.yaml from dir (if present) and resolves defaults.
func Resolve(dir string) (*Resolved, error) {
	cfg, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}
	return cfg.Resolve()
}

// Resolve validates the configuration and applies defaults.
func (c *Config) Resolve() (*Resolved, error) {
	schema, err := c.schema()
	if err != nil {
		return nil, err
	}

	r := &Resolved{
		Path:        c.path,
		Schema:      schema,
		FPS:         c.Controller.FPS,
		Scale:       c.Controller.Scale,
		Integralize: c.Controller.Integralize,
		Springs:     BuiltinSprings(),
		Duration:    time.Duration(c.Easing.Duration),
		Palette:     make(map[string]graphics.ColorF),
	}

	switch {
	case r.FPS == 0:
		r.FPS = DefaultFPS
	case r.FPS < 0:
		return nil, c.invalid("controller.fps", fmt.Errorf("must be positive, got %g", r.FPS))
	}
	switch {
	case r.Scale == 0:
		r.Scale = DefaultScale
	case r.Scale < 0:
		return nil, c.invalid("controller.scale", fmt.Errorf("must be positive, got %g", r.Scale))
	}

	for _, name := range sortedKeys(c.Springs) {
		s, err := c.Springs[name].spring()
		if err != nil {
			return nil, c.invalid("springs."+name, err)
		}
		r.Springs[name] = s
	}

	curve := strings.TrimSpace(c.Easing.Curve)
	if curve == "" {
		curve = DefaultCurve
	}
	timing, err := ParseTimingFunction(curve)
	if err != nil {
		return nil, c.invalid("easing.curve", err)
	}
	r.Timing = timing

	switch {
	case r.Duration == 0:
		r.Duration = DefaultDuration
	case r.Duration < 0:
		return nil, c.invalid("easing.duration", fmt.Errorf("must be positive, got %v", r.Duration))
	}

	for _, name := range sortedKeys(c.Palette) {
		color, err := graphics.ParseHex(c.Palette[name])
		if err != nil {
			return nil, c.invalid("palette."+name, err)
		}
		r.Palette[name] = color
	}

	return r, nil
}

func (c *Config) schema() (string, error) {
	v := strings.TrimSpace(c.Schema)
	if v == "" {
		return SchemaVersion, nil
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return "", c.invalid("schema", fmt.Errorf("%q is not a semantic version", c.Schema))
	}
	if semver.Major(v) != semver.Major(SchemaVersion) {
		return "", c.invalid("schema", fmt.Errorf("%w %s (this build reads %s)", animaerrors.ErrUnsupportedSchema, v, semver.Major(SchemaVersion)))
	}
	return semver.Canonical(v), nil
}

func (c *Config) invalid(field string, err error) error {
	return &animaerrors.ConfigError{Path: c.path, Field: field, Err: err}
}

func (s SpringConfig) spring() (animation.Spring, error) {
	ratio := valueOr(s.DampingRatio, 1)
	mass := valueOr(s.Mass, 1)
	if ratio < 0 {
		return animation.Spring{}, fmt.Errorf("dampingRatio must be >= 0, got %g", ratio)
	}
	if mass <= 0 {
		return animation.Spring{}, fmt.Errorf("mass must be > 0, got %g", mass)
	}
	if s.Stiffness != nil {
		if *s.Stiffness <= 0 {
			return animation.Spring{}, fmt.Errorf("stiffness must be > 0, got %g", *s.Stiffness)
		}
		if ratio == 0 {
			return animation.Spring{}, errors.New("dampingRatio must be > 0 when stiffness is given")
		}
		return animation.NewSpringWithStiffness(ratio, *s.Stiffness, mass), nil
	}
	response := valueOr(s.Response, animation.Smooth.Response())
	if response < 0 {
		return animation.Spring{}, fmt.Errorf("response must be >= 0, got %g", response)
	}
	return animation.NewSpringWithMass(ratio, response, mass), nil
}

// ParseTimingFunction resolves a named timing function, such as
// "easeInEaseOut" or "outBounce", or a "cubic-bezier(x1, y1, x2, y2)"
// expression.
func ParseTimingFunction(s string) (animation.TimingFunction, error) {
	s = strings.TrimSpace(s)
	if f, ok := animation.TimingFunctionNamed(s); ok {
		return f, nil
	}
	if args, ok := strings.CutPrefix(s, "cubic-bezier("); ok {
		args, ok = strings.CutSuffix(args, ")")
		if ok {
			var x1, y1, x2, y2 float64
			n, err := fmt.Sscanf(strings.ReplaceAll(args, ",", " "), "%g %g %g %g", &x1, &y1, &x2, &y2)
			if err == nil && n == 4 {
				if x1 < 0 || x1 > 1 || x2 < 0 || x2 > 1 {
					return animation.TimingFunction{}, fmt.Errorf("bezier x coordinates must be in [0, 1]: %s", s)
				}
				return animation.BezierTimingFunction(x1, y1, x2, y2), nil
			}
		}
		return animation.TimingFunction{}, fmt.Errorf("malformed bezier %q", s)
	}
	return animation.TimingFunction{}, fmt.Errorf("unknown timing function %q", s)
}

// ControllerOptions returns the controller options the configuration
// implies.
func (r *Resolved) ControllerOptions() []animation.Option {
	return []animation.Option{animation.WithFPS(r.FPS), animation.WithScale(r.Scale)}
}

// Spring returns a named spring.
func (r *Resolved) Spring(name string) (animation.Spring, bool) {
	s, ok := r.Springs[name]
	return s, ok
}

// SpringNames returns the names of all springs in sorted order.
func (r *Resolved) SpringNames() []string {
	return sortedKeys(r.Springs)
}

// SpringSettings returns animation settings for a named spring.
func (r *Resolved) SpringSettings(name string) (animation.Settings, bool) {
	s, ok := r.Springs[name]
	if !ok {
		return animation.Settings{}, false
	}
	settings := animation.SpringSettings(s)
	settings.IntegralizeValues = r.Integralize
	return settings, true
}

// EasingSettings returns animation settings with the configured easing
// defaults.
func (r *Resolved) EasingSettings() animation.Settings {
	settings := animation.EasingSettings(r.Timing, r.Duration)
	settings.IntegralizeValues = r.Integralize
	return settings
}

// Color returns a palette color by name, or parses s as a hex color.
func (r *Resolved) Color(s string) (graphics.ColorF, error) {
	if c, ok := r.Palette[s]; ok {
		return c, nil
	}
	return graphics.ParseHex(s)
}

// FindConfigDir walks up from dir to the nearest directory containing
// anima.yaml or go.mod. It returns dir itself if neither is found.
func FindConfigDir(dir string) string {
	for d := dir; ; {
		for _, name := range []string{FileName, "go.mod"} {
			if _, err := os.Stat(filepath.Join(d, name)); err == nil {
				return d
			}
		}
		parent := filepath.Dir(d)
		if parent == d {
			return dir
		}
		d = parent
	}
}

func valueOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
