package colormap

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHSLStringLightnessEncodesSign(t *testing.T) {
	for hue := 0; hue < 360; hue += 30 {
		for sat := 0; sat <= 100; sat += 20 {
			pos := HSLString(hue, sat, true)
			neg := HSLString(hue, sat, false)

			assert.Contains(t, pos, "65%)", "positive values use lightness 65")
			assert.Contains(t, neg, "35%)", "negative values use lightness 35")
			assert.Equal(t, fmt.Sprintf("hsl(%d, %d%%, 65%%)", hue, sat), pos)
		}
	}
}

func TestHSLAStringDiffersOnlyInAlpha(t *testing.T) {
	for _, positive := range []bool{true, false} {
		for hue := 0; hue < 360; hue += 45 {
			plain := HSLString(hue, 70, positive)
			alpha := HSLAString(hue, 70, positive, 0.4)

			// hsla(h, s%, l%, a) shares the h, s%, l% interior with hsl(h, s%, l%)
			inner := strings.TrimSuffix(strings.TrimPrefix(plain, "hsl("), ")")
			assert.Equal(t, fmt.Sprintf("hsla(%s, 0.4)", inner), alpha)
		}
	}
}

func TestSaturationFor(t *testing.T) {
	tests := []struct {
		name   string
		p      float64
		maxAbs float64
		want   int
	}{
		{"max value", 0.8, 0.8, 100},
		{"half of max", 0.4, 0.8, 50},
		{"quarter rounded", 0.2, 0.8, 25},
		{"negative magnitude", -0.4, 0.8, 50},
		{"zero probability", 0, 0.8, 0},
		{"zero max", 0.5, 0, 0},
		{"rounding up", 0.335, 1, 34},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SaturationFor(tt.p, tt.maxAbs))
		})
	}
}

func TestHexHSLRoundTrip(t *testing.T) {
	for h := 0; h < 360; h += 15 {
		for _, s := range []int{40, 60, 80, 100} {
			for _, l := range []int{LightnessNegative, LightnessPositive} {
				hex := HSLToHex(h, s, l)
				gotH, gotS, gotL, err := HexToHSL(hex)
				require.NoError(t, err)

				assert.InDelta(t, h, gotH, 1, "hue for %s", hex)
				assert.InDelta(t, s, gotS, 1, "saturation for %s", hex)
				assert.InDelta(t, l, gotL, 1, "lightness for %s", hex)
			}
		}
	}
}

func TestHexToHSLGrey(t *testing.T) {
	h, s, l, err := HexToHSL("#808080")
	require.NoError(t, err)
	assert.Equal(t, 0, h)
	assert.Equal(t, 0, s)
	assert.Equal(t, 50, l)
}

func TestHexToHSLInvalid(t *testing.T) {
	_, _, _, err := HexToHSL("not-a-color")
	assert.Error(t, err)

	_, _, _, err = HexToHSL("#12345")
	assert.Error(t, err)
}

func TestHSLToHexPrimaries(t *testing.T) {
	assert.Equal(t, "#ff0000", HSLToHex(0, 100, 50))
	assert.Equal(t, "#00ff00", HSLToHex(120, 100, 50))
	assert.Equal(t, "#0000ff", HSLToHex(240, 100, 50))
	assert.Equal(t, "#000000", HSLToHex(0, 100, 0))
	assert.Equal(t, "#ffffff", HSLToHex(0, 100, 100))
}
