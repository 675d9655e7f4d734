package animation

import (
	"fmt"
	"sort"

	"github.com/tanema/gween/ease"
)

// TimingFunction maps the linear fraction of an [EasingAnimation]'s duration
// to the eased fraction applied to its value. Fractions may leave [0, 1] for
// curves that overshoot, such as the back and elastic families.
type TimingFunction struct {
	name  string
	curve func(float64) float64
}

// NewTimingFunction wraps an arbitrary curve. A nil curve is linear.
func NewTimingFunction(name string, curve func(float64) float64) TimingFunction {
	return TimingFunction{name: name, curve: curve}
}

// BezierTimingFunction returns a cubic bezier timing function.
func BezierTimingFunction(x1, y1, x2, y2 float64) TimingFunction {
	return TimingFunction{
		name:  fmt.Sprintf("bezier(%g, %g, %g, %g)", x1, y1, x2, y2),
		curve: CubicBezier(x1, y1, x2, y2),
	}
}

// EaseTimingFunction adapts a gween easing function.
func EaseTimingFunction(name string, fn ease.TweenFunc) TimingFunction {
	return TimingFunction{
		name: name,
		curve: func(t float64) float64 {
			return float64(fn(float32(t), 0, 1, 1))
		},
	}
}

// Solve returns the eased fraction for a linear fraction t.
func (f TimingFunction) Solve(t float64) float64 {
	if f.curve == nil {
		return t
	}
	if t <= 0 {
		return f.curve(0)
	}
	if t >= 1 {
		return f.curve(1)
	}
	return f.curve(t)
}

// Name identifies the timing function.
func (f TimingFunction) Name() string {
	if f.name == "" {
		return "linear"
	}
	return f.name
}

func (f TimingFunction) String() string { return "TimingFunction(" + f.Name() + ")" }

// Standard timing functions, matching Core Animation's named curves.
var (
	Linear        = TimingFunction{name: "linear"}
	EaseIn        = TimingFunction{name: "easeIn", curve: CubicBezier(0.42, 0, 1, 1)}
	EaseOut       = TimingFunction{name: "easeOut", curve: CubicBezier(0, 0, 0.58, 1)}
	EaseInEaseOut = TimingFunction{name: "easeInEaseOut", curve: CubicBezier(0.42, 0, 0.58, 1)}
	SwiftOut      = TimingFunction{name: "swiftOut", curve: CubicBezier(0.4, 0, 0.2, 1)}
)

var namedTimingFunctions = map[string]TimingFunction{
	"linear":        Linear,
	"easeIn":        EaseIn,
	"easeOut":       EaseOut,
	"easeInEaseOut": EaseInEaseOut,
	"swiftOut":      SwiftOut,
}

func init() {
	for name, fn := range map[string]ease.TweenFunc{
		"inQuad":       ease.InQuad,
		"outQuad":      ease.OutQuad,
		"inOutQuad":    ease.InOutQuad,
		"inCubic":      ease.InCubic,
		"outCubic":     ease.OutCubic,
		"inOutCubic":   ease.InOutCubic,
		"inSine":       ease.InSine,
		"outSine":      ease.OutSine,
		"inOutSine":    ease.InOutSine,
		"inExpo":       ease.InExpo,
		"outExpo":      ease.OutExpo,
		"inOutExpo":    ease.InOutExpo,
		"inCirc":       ease.InCirc,
		"outCirc":      ease.OutCirc,
		"inOutCirc":    ease.InOutCirc,
		"inBack":       ease.InBack,
		"outBack":      ease.OutBack,
		"inOutBack":    ease.InOutBack,
		"inElastic":    ease.InElastic,
		"outElastic":   ease.OutElastic,
		"inOutElastic": ease.InOutElastic,
		"inBounce":     ease.InBounce,
		"outBounce":    ease.OutBounce,
		"inOutBounce":  ease.InOutBounce,
	} {
		namedTimingFunctions[name] = EaseTimingFunction(name, fn)
	}
}

// TimingFunctionNamed looks up a standard or gween timing function by name,
// e.g. "easeInEaseOut" or "outBounce".
func TimingFunctionNamed(name string) (TimingFunction, bool) {
	f, ok := namedTimingFunctions[name]
	return f, ok
}

// TimingFunctionNames lists every name accepted by [TimingFunctionNamed].
func TimingFunctionNames() []string {
	names := make([]string, 0, len(namedTimingFunctions))
	for name := range namedTimingFunctions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
