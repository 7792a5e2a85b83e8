// Package smoothing provides the series statistics used by the
// exploratory tooling: an adjusted exponential moving average and its
// zero-phase forward-backward variant, rolling medians, and the median
// absolute deviation. All functions operate on float64 slices, treat
// NaN as "missing" and never mutate their input.
package smoothing
