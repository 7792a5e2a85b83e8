package smoothing

import (
	"math"
	"sort"
)

// Median returns the median of xs, averaging the two middle values for
// even lengths. Returns NaN for empty input. NaN entries are not
// filtered here; use MAD or filter beforehand when the input may
// contain missing values.
func Median(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}

	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2.0
}

// MAD computes the median absolute deviation, a robust spread
// statistic: the median of |x - median(x)| over all non-NaN entries.
// Returns NaN when the input is empty or contains only NaN.
func MAD(xs []float64) float64 {
	valid := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) {
			valid = append(valid, x)
		}
	}
	if len(valid) == 0 {
		return math.NaN()
	}

	med := Median(valid)
	deviations := make([]float64, len(valid))
	for i, x := range valid {
		deviations[i] = math.Abs(x - med)
	}
	return Median(deviations)
}

// RollingMedian computes a trailing-window median: out[i] is the median
// of xs[i-window+1..i]. Positions before the window fills, and windows
// containing NaN, yield NaN. Window values below 1 are clamped to 1.
func RollingMedian(xs []float64, window int) []float64 {
	if len(xs) == 0 {
		return nil
	}
	if window < 1 {
		window = 1
	}

	out := make([]float64, len(xs))
	for i := range xs {
		if i < window-1 {
			out[i] = math.NaN()
			continue
		}
		frame := xs[i-window+1 : i+1]
		if hasNaN(frame) {
			out[i] = math.NaN()
			continue
		}
		out[i] = Median(frame)
	}
	return out
}

func hasNaN(xs []float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) {
			return true
		}
	}
	return false
}
