// Package stats provides the summary statistics reported for a layer's
// probability distribution.
package stats

import (
	"math"
	"sort"
)

// Sum returns the sum of the values
func Sum(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum
}

// Mean returns the arithmetic mean, 0 for an empty slice
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return Sum(values) / float64(len(values))
}

// StdDev returns the population standard deviation
func StdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := Mean(values)
	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)))
}

// Percentiles calculates multiple percentiles (0-100) with linear
// interpolation between closest ranks. The input is sorted once.
func Percentiles(values []float64, ps []float64) []float64 {
	results := make([]float64, len(ps))
	if len(values) == 0 {
		return results
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := float64(len(sorted))
	for i, p := range ps {
		q := math.Min(math.Max(p, 0), 100) / 100.0
		index := q * (n - 1)
		lower := int(math.Floor(index))
		upper := int(math.Ceil(index))
		if lower == upper {
			results[i] = sorted[lower]
			continue
		}
		weight := index - float64(lower)
		results[i] = sorted[lower]*(1-weight) + sorted[upper]*weight
	}
	return results
}

// ShannonEntropy calculates the Shannon entropy in bits of a
// distribution given as frequencies or probabilities. The values are
// normalized by their sum; non-positive values contribute nothing.
func ShannonEntropy(values []float64) float64 {
	sum := Sum(values)
	if sum == 0 {
		return 0
	}

	var entropy float64
	for _, v := range values {
		if v > 0 {
			p := v / sum
			entropy -= p * math.Log2(p)
		}
	}
	return entropy
}
