package graphics

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

const maxByte = 255.0

// Color is a packed 0xAARRGGBB word, the form renderers take.
type Color uint32

// RGBA8 packs byte components.
func RGBA8(r, g, b, a uint8) Color {
	return Color(uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// Float unpacks the color to normalized components.
func (c Color) Float() ColorF {
	return ColorF{
		R: float64(uint8(c>>16)) / maxByte,
		G: float64(uint8(c>>8)) / maxByte,
		B: float64(uint8(c)) / maxByte,
		A: float64(uint8(c>>24)) / maxByte,
	}
}

func (c Color) String() string {
	return fmt.Sprintf("#%08X", uint32(c))
}

// ColorF holds normalized color components as floats so a color can be
// animated without quantizing intermediate values. Components outside [0, 1]
// are allowed while a spring overshoots; Packed clamps them.
type ColorF struct {
	R, G, B, A float64
}

// ParseHex parses "#rrggbb" (opaque) or "#rrggbbaa".
func ParseHex(s string) (ColorF, error) {
	alpha := 1.0
	if len(s) == 9 && s[0] == '#' {
		var a uint8
		if _, err := fmt.Sscanf(s[7:], "%02x", &a); err != nil {
			return ColorF{}, fmt.Errorf("parse alpha of %q: %w", s, err)
		}
		alpha = float64(a) / maxByte
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return ColorF{}, err
	}
	return ColorF{R: c.R, G: c.G, B: c.B, A: alpha}, nil
}

// Packed converts to an ARGB Color, clamping each component.
func (c ColorF) Packed() Color {
	return RGBA8(unitToByte(c.R), unitToByte(c.G), unitToByte(c.B), unitToByte(c.A))
}

// Hex formats the color as #rrggbb, dropping alpha.
func (c ColorF) Hex() string {
	return colorful.Color{R: c.R, G: c.G, B: c.B}.Clamped().Hex()
}

// BlendLab blends towards other in CIE-L*a*b* space, which keeps
// perceived lightness steadier than component-wise RGB blending.
// Alpha is blended linearly.
func (c ColorF) BlendLab(other ColorF, t float64) ColorF {
	from := colorful.Color{R: c.R, G: c.G, B: c.B}.Clamped()
	to := colorful.Color{R: other.R, G: other.G, B: other.B}.Clamped()
	m := from.BlendLab(to, t).Clamped()
	return ColorF{R: m.R, G: m.G, B: m.B, A: c.A + (other.A-c.A)*t}
}

func unitToByte(a float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, a)) * maxByte))
}

// Packed forms of a few fixed colors.
const (
	Transparent = Color(0x00000000)
	Black       = Color(0xFF000000)
	White       = Color(0xFFFFFFFF)
	Red         = Color(0xFFFF0000)
	Blue        = Color(0xFF0000FF)
)
