package chart

import (
	"strings"

	"dpccli/internal/dataset"
)

// Metric selects which column of a region series gets plotted.
type Metric string

const (
	// MetricNewPositives is the default metric (nuovi_positivi).
	MetricNewPositives Metric = "new-positives"
	// MetricDeathsDelta is the derived daily-deaths column.
	MetricDeathsDelta Metric = "deaths-delta"
	// MetricICUAdmissions is the daily ICU-admissions column.
	MetricICUAdmissions Metric = "icu-admissions"
	// MetricPositivity is the derived positivity-rate column.
	MetricPositivity Metric = "positivity"
)

// Metrics lists every valid metric in rendering order.
func Metrics() []Metric {
	return []Metric{MetricNewPositives, MetricDeathsDelta, MetricICUAdmissions, MetricPositivity}
}

// ParseMetric maps a flag spelling to a Metric. The empty string maps
// to the default. The boolean reports whether the spelling was
// recognized.
func ParseMetric(s string) (Metric, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "new-positives", "positivi":
		return MetricNewPositives, true
	case "deaths-delta", "deceduti":
		return MetricDeathsDelta, true
	case "icu-admissions", "ti":
		return MetricICUAdmissions, true
	case "positivity", "positivita", "positività":
		return MetricPositivity, true
	default:
		return "", false
	}
}

// Valid reports whether m is one of the known metrics.
func (m Metric) Valid() bool {
	switch m {
	case MetricNewPositives, MetricDeathsDelta, MetricICUAdmissions, MetricPositivity:
		return true
	}
	return false
}

// Label returns the y-axis label for the metric.
func (m Metric) Label() string {
	switch m {
	case MetricDeathsDelta:
		return "Incremento Deceduti"
	case MetricICUAdmissions:
		return "Ingressi in TI"
	case MetricPositivity:
		return "Tasso di Positività"
	default:
		return "Nuovi Positivi"
	}
}

// Column extracts the metric's values from a series.
func (m Metric) Column(s *dataset.Series) []float64 {
	switch m {
	case MetricDeathsDelta:
		return s.DeathsDelta()
	case MetricICUAdmissions:
		return s.ICUAdmissions()
	case MetricPositivity:
		return s.Positivity()
	default:
		return s.NewPositives()
	}
}
