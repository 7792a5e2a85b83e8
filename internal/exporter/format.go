package exporter

import (
	"fmt"
	"math"
	"strconv"
)

// formatCount formats a counter column value, dropping the fractional
// part the source never carries.
func formatCount(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', 0, 64)
}

// formatRate formats a ratio column with 4 decimal places; NaN becomes
// an empty cell so spreadsheet tools treat it as missing.
func formatRate(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return fmt.Sprintf("%.4f", f)
}
