package chart

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dpccli/internal/dataset"
)

func testSeries(t *testing.T, region string, days int) *dataset.Series {
	t.Helper()

	records := make([]dataset.Record, 0, days)
	deaths := 0.0
	swabs := 0.0
	for i := 0; i < days; i++ {
		deaths += float64(i % 3)
		swabs += 500
		records = append(records, dataset.Record{
			Date:           time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			Region:         region,
			NewPositives:   float64(100 + 10*(i%7)),
			Deaths:         deaths,
			MolecularSwabs: swabs,
			ICUAdmissions:  float64(i % 4),
		})
	}

	series := dataset.BuildSeries(records, region)
	require.Equal(t, days, series.Len())
	return series
}

func TestRenderSavesNamedPNG(t *testing.T) {
	dir := t.TempDir()
	renderer := NewRenderer(slog.Default())

	opts := DefaultOptions()
	opts.Save = true
	opts.OutputDir = dir

	path, err := renderer.Render(testSeries(t, "Lombardia", 40), opts)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "new-positives_Lombardia_tw=21_sw=7.png"), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestRenderWithoutSaveProducesNoFile(t *testing.T) {
	dir := t.TempDir()
	renderer := NewRenderer(slog.Default())

	opts := DefaultOptions()
	opts.OutputDir = dir

	path, err := renderer.Render(testSeries(t, "Veneto", 30), opts)
	require.NoError(t, err)
	assert.Empty(t, path)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRenderUnknownMetricSkips(t *testing.T) {
	dir := t.TempDir()
	renderer := NewRenderer(slog.Default())

	opts := DefaultOptions()
	opts.Metric = Metric("contagiosita")
	opts.Save = true
	opts.OutputDir = dir

	path, err := renderer.Render(testSeries(t, "Lazio", 30), opts)
	require.NoError(t, err, "unknown metric must not raise")
	assert.Empty(t, path)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no figure may be produced")
}

func TestRenderInvalidWindowsFailFast(t *testing.T) {
	renderer := NewRenderer(slog.Default())
	series := testSeries(t, "Puglia", 30)

	for _, opts := range []Options{
		{Metric: MetricNewPositives, TimeWindow: 0, SmoothWindow: 7},
		{Metric: MetricNewPositives, TimeWindow: 21, SmoothWindow: -1},
	} {
		_, err := renderer.Render(series, opts)
		assert.Error(t, err)
	}
}

func TestRenderEmptySeriesSkips(t *testing.T) {
	renderer := NewRenderer(slog.Default())

	opts := DefaultOptions()
	opts.Save = true
	opts.OutputDir = t.TempDir()

	path, err := renderer.Render(&dataset.Series{Region: "Atlantide"}, opts)
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestRenderPositivityMetric(t *testing.T) {
	dir := t.TempDir()
	renderer := NewRenderer(slog.Default())

	opts := DefaultOptions()
	opts.Metric = MetricPositivity
	opts.Save = true
	opts.OutputDir = dir

	path, err := renderer.Render(testSeries(t, "Campania", 45), opts)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "positivity_Campania_tw=21_sw=7.png"), path)
}

func TestParseMetric(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Metric
		ok       bool
	}{
		{name: "empty defaults to new positives", input: "", expected: MetricNewPositives, ok: true},
		{name: "canonical", input: "deaths-delta", expected: MetricDeathsDelta, ok: true},
		{name: "italian alias", input: "TI", expected: MetricICUAdmissions, ok: true},
		{name: "positivity alias", input: "positività", expected: MetricPositivity, ok: true},
		{name: "unknown", input: "ricoveri", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := ParseMetric(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, m)
			}
		})
	}
}

func TestMetricLabels(t *testing.T) {
	assert.Equal(t, "Nuovi Positivi", MetricNewPositives.Label())
	assert.Equal(t, "Incremento Deceduti", MetricDeathsDelta.Label())
	assert.Equal(t, "Ingressi in TI", MetricICUAdmissions.Label())
	assert.Equal(t, "Tasso di Positività", MetricPositivity.Label())
}
