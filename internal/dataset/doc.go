// Package dataset fetches the Protezione Civile per-region COVID-19
// CSV and reshapes it into a single region's day-ordered series with
// derived daily-delta and positivity columns.
package dataset
