package smoothing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMedian(t *testing.T) {
	tests := []struct {
		name     string
		input    []float64
		expected float64
	}{
		{name: "odd length", input: []float64{3, 1, 2}, expected: 2},
		{name: "even length averages middle pair", input: []float64{1, 2, 3, 4}, expected: 2.5},
		{name: "single value", input: []float64{9}, expected: 9},
		{name: "unsorted", input: []float64{10, -5, 0, 5, -10}, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Median(tt.input), 1e-12)
		})
	}
}

func TestMedianEmptyReturnsNaN(t *testing.T) {
	assert.True(t, math.IsNaN(Median(nil)))
}

func TestMAD(t *testing.T) {
	tests := []struct {
		name     string
		input    []float64
		expected float64
	}{
		{name: "constant series has zero spread", input: []float64{5, 5, 5, 5}, expected: 0},
		{name: "simple spread", input: []float64{1, 2, 3, 4, 5}, expected: 1},
		{name: "outlier resistant", input: []float64{1, 2, 3, 4, 1000}, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, MAD(tt.input), 1e-12)
		})
	}
}

func TestMADIgnoresNaN(t *testing.T) {
	clean := []float64{1, 2, 3, 4, 5}
	dirty := []float64{1, math.NaN(), 2, 3, math.NaN(), 4, 5}
	assert.InDelta(t, MAD(clean), MAD(dirty), 1e-12)
}

func TestMADNonNegative(t *testing.T) {
	inputs := [][]float64{
		{0},
		{-3, -1, -2},
		{2.5, -2.5, 0.0, 17.25},
	}
	for _, xs := range inputs {
		assert.GreaterOrEqual(t, MAD(xs), 0.0)
	}
}

func TestMADAllNaNReturnsNaN(t *testing.T) {
	assert.True(t, math.IsNaN(MAD([]float64{math.NaN(), math.NaN()})))
	assert.True(t, math.IsNaN(MAD(nil)))
}

func TestRollingMedian(t *testing.T) {
	out := RollingMedian([]float64{1, 2, 3, 4, 5}, 3)
	require.Len(t, out, 5)

	assert.True(t, math.IsNaN(out[0]))
	assert.True(t, math.IsNaN(out[1]))
	assert.InDelta(t, 2.0, out[2], 1e-12)
	assert.InDelta(t, 3.0, out[3], 1e-12)
	assert.InDelta(t, 4.0, out[4], 1e-12)
}

func TestRollingMedianNaNWindow(t *testing.T) {
	out := RollingMedian([]float64{1, math.NaN(), 3, 4, 5}, 3)
	require.Len(t, out, 5)

	// Windows containing the NaN stay undefined
	assert.True(t, math.IsNaN(out[2]))
	assert.True(t, math.IsNaN(out[3]))
	assert.InDelta(t, 4.0, out[4], 1e-12)
}
