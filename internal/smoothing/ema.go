package smoothing

import "math"

// EMA computes an exponential moving average with decay expressed as a
// span (alpha = 2/(span+1)), using the adjusted finite-window form: each
// output is a weighted mean of all values seen so far, so early outputs
// are not biased toward the first value. NaN entries contribute no
// weight but decay continues past them.
//
// Returns nil for empty input; span values below 1 are clamped to 1.
func EMA(xs []float64, span int) []float64 {
	if len(xs) == 0 {
		return nil
	}
	if span < 1 {
		span = 1
	}

	alpha := 2.0 / (float64(span) + 1.0)
	decay := 1.0 - alpha

	out := make([]float64, len(xs))
	var num, den float64
	for i, x := range xs {
		num *= decay
		den *= decay
		if !math.IsNaN(x) {
			num += x
			den += 1.0
		}
		if den == 0 {
			out[i] = math.NaN()
		} else {
			out[i] = num / den
		}
	}
	return out
}

// ForwardBackwardEMA applies EMA forward, then again over the reversed
// result, eliminating the phase lag a single pass introduces.
func ForwardBackwardEMA(xs []float64, span int) []float64 {
	if len(xs) == 0 {
		return nil
	}

	forward := EMA(xs, span)
	reverse(forward)
	backward := EMA(forward, span)
	reverse(backward)
	return backward
}

func reverse(xs []float64) {
	for i, j := 0, len(xs)-1; i < j; i, j = i+1, j-1 {
		xs[i], xs[j] = xs[j], xs[i]
	}
}
