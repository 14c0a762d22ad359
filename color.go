package compositor

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// Colors used by the fail-visible fallbacks and clears.
var (
	Transparent = color.NRGBA{}
	White       = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	Magenta     = color.NRGBA{R: 255, B: 255, A: 255}
	Blue        = color.NRGBA{B: 255, A: 255}
)

// OpacityToAlpha converts an opacity in [0, 1] to an 8-bit alpha.
func OpacityToAlpha(opacity float64) uint8 {
	return uint8(math.Round(clamp01(opacity) * 255)) //nolint:gosec // clamped to [0, 255]
}

// ModulateAlpha scales the color's alpha by opacity.
func ModulateAlpha(c color.NRGBA, opacity float64) color.NRGBA {
	c.A = uint8(math.Round(clamp01(opacity) * float64(c.A))) //nolint:gosec // clamped to [0, 255]
	return c
}

// Premultiply converts a straight-alpha color to premultiplied 8-bit RGBA.
func Premultiply(c color.NRGBA) color.RGBA {
	a := uint32(c.A)
	return color.RGBA{
		R: uint8((uint32(c.R)*a + 127) / 255), //nolint:gosec // result <= 255
		G: uint8((uint32(c.G)*a + 127) / 255), //nolint:gosec // result <= 255
		B: uint8((uint32(c.B)*a + 127) / 255), //nolint:gosec // result <= 255
		A: c.A,
	}
}

// ParseHexColor parses "#RGB", "#RGBA", "#RRGGBB" or "#RRGGBBAA". The
// leading '#' is optional.
func ParseHexColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	expand := func(v uint64) uint8 { return uint8(v * 17) } //nolint:gosec // v <= 15

	switch len(hex) {
	case 3, 4:
		v, err := strconv.ParseUint(hex, 16, 16)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("compositor: invalid color %q: %w", s, err)
		}
		if len(hex) == 3 {
			v = v<<4 | 0xf
		}
		return color.NRGBA{
			R: expand(v >> 12 & 0xf),
			G: expand(v >> 8 & 0xf),
			B: expand(v >> 4 & 0xf),
			A: expand(v & 0xf),
		}, nil
	case 6, 8:
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("compositor: invalid color %q: %w", s, err)
		}
		if len(hex) == 6 {
			v = v<<8 | 0xff
		}
		b := [4]uint8{}
		for i := range b {
			b[i] = uint8(v >> (24 - 8*i)) //nolint:gosec // truncation intended
		}
		return color.NRGBA{R: b[0], G: b[1], B: b[2], A: b[3]}, nil
	default:
		return color.NRGBA{}, fmt.Errorf("compositor: invalid color %q: want 3, 4, 6 or 8 hex digits", s)
	}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0 || math.IsNaN(v):
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
