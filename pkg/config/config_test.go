package config

import (
	"math"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/go-drift/anima/pkg/animation"
	animaerrors "github.com/go-drift/anima/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestResolve_Defaults(t *testing.T) {
	r, err := Resolve(t.TempDir())
	if err != nil {
		t.Fatalf("expected defaults without a file, got %v", err)
	}
	if r.Path != "" || r.Schema != SchemaVersion {
		t.Errorf("expected default schema and no path, got %q %q", r.Path, r.Schema)
	}
	if r.FPS != DefaultFPS || r.Scale != DefaultScale || r.Integralize {
		t.Errorf("unexpected controller defaults: %+v", r)
	}
	if r.Timing.Name() != DefaultCurve || r.Duration != DefaultDuration {
		t.Errorf("expected %s over %v, got %s over %v", DefaultCurve, DefaultDuration, r.Timing.Name(), r.Duration)
	}
	want := []string{"bouncy", "interactive", "nonAnimated", "smooth", "snappy"}
	if names := r.SpringNames(); !slices.Equal(names, want) {
		t.Errorf("expected builtin springs %v, got %v", want, names)
	}
}

func TestResolve_File(t *testing.T) {
	dir := writeConfig(t, `
schema: v1.2
controller:
  fps: 120
  scale: 2
  integralize: true
springs:
  sheet: {dampingRatio: 0.9, response: 0.35}
  stiff: {stiffness: 400, dampingRatio: 0.8}
  smooth: {response: 0.25}
easing:
  curve: outCubic
  duration: 250ms
palette:
  accent: "#3478f6"
`)
	r, err := Resolve(dir)
	if err != nil {
		t.Fatal(err)
	}
	if r.Path != filepath.Join(dir, FileName) || r.Schema != "v1.2.0" {
		t.Errorf("unexpected path/schema: %q %q", r.Path, r.Schema)
	}
	if r.FPS != 120 || r.Scale != 2 || !r.Integralize {
		t.Errorf("unexpected controller config: %+v", r)
	}

	sheet, ok := r.Spring("sheet")
	if !ok || sheet.DampingRatio() != 0.9 || sheet.Response() != 0.35 {
		t.Errorf("unexpected sheet spring: %v", sheet)
	}
	stiff, _ := r.Spring("stiff")
	if stiff.Stiffness() != 400 || stiff.Mass() != 1 {
		t.Errorf("unexpected stiff spring: %v", stiff)
	}
	if smooth, _ := r.Spring("smooth"); smooth.Response() != 0.25 || smooth.DampingRatio() != 1 {
		t.Errorf("expected override of builtin smooth, got %v", smooth)
	}

	if r.Timing.Name() != "outCubic" || r.Duration != 250*time.Millisecond {
		t.Errorf("unexpected easing: %s over %v", r.Timing.Name(), r.Duration)
	}
	accent, err := r.Color("accent")
	if err != nil || accent.Hex() != "#3478f6" {
		t.Errorf("expected accent color, got %v (%v)", accent, err)
	}
}

func TestResolve_Settings(t *testing.T) {
	dir := writeConfig(t, "controller: {integralize: true}\neasing: {duration: 0.5}\n")
	r, err := Resolve(dir)
	if err != nil {
		t.Fatal(err)
	}
	easing := r.EasingSettings()
	if easing.Type != animation.EasingType || easing.Duration != 500*time.Millisecond || !easing.IntegralizeValues {
		t.Errorf("unexpected easing settings: %+v", easing)
	}
	spring, ok := r.SpringSettings("bouncy")
	if !ok || spring.Type != animation.SpringType || spring.Spring != animation.Bouncy {
		t.Errorf("unexpected spring settings: %+v", spring)
	}
	if _, ok := r.SpringSettings("missing"); ok {
		t.Error("expected unknown spring to miss")
	}

	ctrl := animation.NewController(r.ControllerOptions()...)
	if ctrl.Scale() != 1 {
		t.Errorf("expected scale 1, got %v", ctrl.Scale())
	}
	link, ok := ctrl.FrameSource().(*animation.DisplayLink)
	if !ok || link.Interval() != time.Second/60 {
		t.Errorf("expected 60fps display link, got %T", ctrl.FrameSource())
	}
}

func TestResolve_UnsupportedSchema(t *testing.T) {
	dir := writeConfig(t, "schema: v2.0.0\n")
	_, err := Resolve(dir)
	if !animaerrors.Is(err, animaerrors.ErrUnsupportedSchema) {
		t.Fatalf("expected ErrUnsupportedSchema, got %v", err)
	}
	var cfgErr *animaerrors.ConfigError
	if !animaerrors.As(err, &cfgErr) || cfgErr.Field != "schema" {
		t.Errorf("expected ConfigError for schema, got %v", err)
	}
}

func TestResolve_Invalid(t *testing.T) {
	tests := []struct {
		name, content, field string
	}{
		{"bad schema", "schema: banana\n", "schema"},
		{"negative fps", "controller: {fps: -1}\n", "controller.fps"},
		{"negative scale", "controller: {scale: -2}\n", "controller.scale"},
		{"zero mass", "springs: {s: {mass: 0}}\n", "springs.s"},
		{"negative ratio", "springs: {s: {dampingRatio: -1}}\n", "springs.s"},
		{"undamped stiffness", "springs: {s: {stiffness: 100, dampingRatio: 0}}\n", "springs.s"},
		{"negative response", "springs: {s: {response: -0.5}}\n", "springs.s"},
		{"unknown curve", "easing: {curve: wobble}\n", "easing.curve"},
		{"negative duration", "easing: {duration: -1s}\n", "easing.duration"},
		{"bad color", "palette: {x: not-a-color}\n", "palette.x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(writeConfig(t, tt.content))
			var cfgErr *animaerrors.ConfigError
			if !animaerrors.As(err, &cfgErr) {
				t.Fatalf("expected ConfigError, got %v", err)
			}
			if cfgErr.Field != tt.field {
				t.Errorf("expected field %s, got %s", tt.field, cfgErr.Field)
			}
		})
	}
}

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	dir := writeConfig(t, "controler: {fps: 30}\n")
	if _, err := Resolve(dir); err == nil {
		t.Error("expected unknown key to be rejected")
	}
}

func TestLoad_BadDuration(t *testing.T) {
	dir := writeConfig(t, "easing: {duration: soon}\n")
	if _, err := Resolve(dir); err == nil {
		t.Error("expected malformed duration to be rejected")
	}
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("expected empty document to parse, got %v", err)
	}
	if _, err := cfg.Resolve(); err != nil {
		t.Errorf("expected empty config to resolve, got %v", err)
	}
}

func TestParseTimingFunction(t *testing.T) {
	f, err := ParseTimingFunction("cubic-bezier(0.42, 0, 0.58, 1)")
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(f.Solve(0.3)-animation.EaseInEaseOut.Solve(0.3)) > 1e-9 {
		t.Error("expected bezier to match easeInEaseOut")
	}
	for _, bad := range []string{"cubic-bezier(1, 2)", "cubic-bezier(2, 0, 0.5, 1)", "cubic-bezier(0,0,1,1"} {
		if _, err := ParseTimingFunction(bad); err == nil {
			t.Errorf("expected %q to be rejected", bad)
		}
	}
}

func TestResolved_Color(t *testing.T) {
	r, err := Resolve(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c, err := r.Color("#ff000080")
	if err != nil {
		t.Fatal(err)
	}
	if c.R != 1 || c.G != 0 || math.Abs(c.A-128.0/255) > 1e-9 {
		t.Errorf("unexpected color %v", c)
	}
	if _, err := r.Color("accent"); err == nil {
		t.Error("expected unknown palette name to fail")
	}
}

func TestFindConfigDir(t *testing.T) {
	root := writeConfig(t, "")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	if got := FindConfigDir(nested); got != root {
		t.Errorf("expected %s, got %s", root, got)
	}
}
