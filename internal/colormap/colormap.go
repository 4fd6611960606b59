// Package colormap maps probabilities to HSL-based color strings used by
// the layer render strategies and by export metadata.
package colormap

import (
	"fmt"
	"math"
	"strings"
)

// Lightness values encode the sign of the mapped value independent of
// hue: positive values render light, negative values dark.
const (
	LightnessPositive = 65
	LightnessNegative = 35
)

func lightnessFor(positive bool) int {
	if positive {
		return LightnessPositive
	}
	return LightnessNegative
}

// HSLString builds a CSS hsl() string. Hue is in [0, 360), saturation in
// [0, 100]; lightness is fixed by the sign flag.
func HSLString(hue, saturation int, positive bool) string {
	return fmt.Sprintf("hsl(%d, %d%%, %d%%)", hue, saturation, lightnessFor(positive))
}

// HSLAString builds a CSS hsla() string. It differs from HSLString only
// in the alpha channel.
func HSLAString(hue, saturation int, positive bool, alpha float64) string {
	return fmt.Sprintf("hsla(%d, %d%%, %d%%, %g)", hue, saturation, lightnessFor(positive), alpha)
}

// SaturationFor maps a probability to a saturation percentage relative to
// the layer's maximum-magnitude probability. A change of the maximum
// invalidates previously computed saturations.
func SaturationFor(p, maxAbsP float64) int {
	if maxAbsP == 0 {
		return 0
	}
	return int(math.Round(math.Abs(p) * 100 / maxAbsP))
}

// HSLToRGB converts HSL components (h in [0,360), s and l in [0,100])
// to 8-bit RGB channels.
func HSLToRGB(h, s, l int) (r, g, b uint8) {
	hf := math.Mod(math.Mod(float64(h), 360)+360, 360)
	sf := clamp01(float64(s) / 100)
	lf := clamp01(float64(l) / 100)

	c := (1 - math.Abs(2*lf-1)) * sf
	x := c * (1 - math.Abs(math.Mod(hf/60, 2)-1))
	m := lf - c/2

	var rf, gf, bf float64
	switch {
	case hf < 60:
		rf, gf, bf = c, x, 0
	case hf < 120:
		rf, gf, bf = x, c, 0
	case hf < 180:
		rf, gf, bf = 0, c, x
	case hf < 240:
		rf, gf, bf = 0, x, c
	case hf < 300:
		rf, gf, bf = x, 0, c
	default:
		rf, gf, bf = c, 0, x
	}

	r = uint8(math.Round((rf + m) * 255))
	g = uint8(math.Round((gf + m) * 255))
	b = uint8(math.Round((bf + m) * 255))
	return r, g, b
}

// HSLToHex converts HSL components to a #rrggbb hex string for export
// metadata and swatch rendering.
func HSLToHex(h, s, l int) string {
	r, g, b := HSLToRGB(h, s, l)
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// HexToHSL converts a #rrggbb hex string back to HSL components. The
// round trip through HSLToHex recovers each component within one unit.
func HexToHSL(hex string) (h, s, l int, err error) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return 0, 0, 0, fmt.Errorf("invalid hex color %q", hex)
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		return 0, 0, 0, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}

	rf := float64(r) / 255
	gf := float64(g) / 255
	bf := float64(b) / 255

	max := math.Max(rf, math.Max(gf, bf))
	min := math.Min(rf, math.Min(gf, bf))
	delta := max - min

	lf := (max + min) / 2

	var hf, sf float64
	if delta != 0 {
		sf = delta / (1 - math.Abs(2*lf-1))
		switch max {
		case rf:
			hf = 60 * math.Mod((gf-bf)/delta, 6)
		case gf:
			hf = 60 * ((bf-rf)/delta + 2)
		default:
			hf = 60 * ((rf-gf)/delta + 4)
		}
		if hf < 0 {
			hf += 360
		}
	}

	h = int(math.Round(hf)) % 360
	s = int(math.Round(sf * 100))
	l = int(math.Round(lf * 100))
	return h, s, l, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
