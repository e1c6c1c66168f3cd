package cognostics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Slope returns the least squares slope of ys regressed on xs.
// It is NaN when xs holds fewer than two distinct values.
func Slope(xs, ys []float64) float64 {
	if len(xs) != len(ys) || distinct(xs) < 2 {
		return math.NaN()
	}
	_, beta := stat.LinearRegression(xs, ys, nil, false)
	return beta
}

// Round2 rounds v to two decimal places. NaN is returned unchanged.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return math.Round(v*100) / 100
}

// Mean returns the arithmetic mean of values, or NaN when empty.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return stat.Mean(values, nil)
}

// Quantile7 returns the p-quantile of sorted values by linear interpolation
// between order statistics (R type 7). sorted must be in ascending order.
func Quantile7(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 || p < 0 || p > 1 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}

	h := float64(n-1) * p
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return sorted[n-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}

// IQR returns the interquartile range of values, or NaN when empty.
func IQR(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return Quantile7(sorted, 0.75) - Quantile7(sorted, 0.25)
}

func distinct(values []float64) int {
	seen := make(map[float64]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
	}
	return len(seen)
}
