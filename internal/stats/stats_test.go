package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 2.0, Mean([]float64{1, 2, 3}))
}

func TestStdDev(t *testing.T) {
	assert.Equal(t, 0.0, StdDev([]float64{5, 5, 5}))
	assert.InDelta(t, 2.0, StdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-12)
}

func TestPercentiles(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}

	got := Percentiles(values, []float64{0, 50, 100})
	assert.Equal(t, []float64{1, 3, 5}, got)

	// Interpolated rank between 2 and 3.
	got = Percentiles(values, []float64{37.5})
	assert.InDelta(t, 2.5, got[0], 1e-12)

	// Out-of-range percentiles clamp.
	got = Percentiles(values, []float64{-10, 110})
	assert.Equal(t, []float64{1, 5}, got)

	assert.Equal(t, []float64{0, 0}, Percentiles(nil, []float64{25, 75}))
}

func TestShannonEntropy(t *testing.T) {
	// Uniform over 4 outcomes: 2 bits.
	assert.InDelta(t, 2.0, ShannonEntropy([]float64{1, 1, 1, 1}), 1e-12)

	// Certain outcome: 0 bits.
	assert.Equal(t, 0.0, ShannonEntropy([]float64{1, 0, 0}))

	assert.Equal(t, 0.0, ShannonEntropy(nil))

	// Normalization makes scale irrelevant.
	a := ShannonEntropy([]float64{0.2, 0.8})
	b := ShannonEntropy([]float64{2, 8})
	assert.InDelta(t, a, b, 1e-12)
	assert.False(t, math.IsNaN(a))
}
