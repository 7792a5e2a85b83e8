// Package chart renders region-series line charts: raw daily values
// with a zero-phase smoothed overlay, optionally saved as PNG
// artifacts.
package chart
