package dataset

import (
	"math"
	"sort"
	"strings"
	"time"
)

// DisplayDateFormat is the dd-mm-yy format used on charts and exports.
const DisplayDateFormat = "02-01-06"

// Record is one region-day row of the national dataset, restricted to
// the analysis columns. Geographic and identifier columns of the source
// (stato, codice_regione, lat, long, NUTS codes) are dropped at parse
// time.
type Record struct {
	Date           time.Time
	Region         string
	Hospitalized   float64 // ricoverati_con_sintomi
	ICU            float64 // terapia_intensiva
	ICUAdmissions  float64 // ingressi_terapia_intensiva
	NewPositives   float64 // nuovi_positivi
	Deaths         float64 // deceduti (cumulative)
	MolecularSwabs float64 // tamponi_test_molecolare (cumulative)

	// Derived columns, populated by BuildSeries.
	DeathsDelta float64
	SwabsDelta  float64
	Positivity  float64 // NewPositives / SwabsDelta; NaN when SwabsDelta is 0
}

// Series is an immutable day-ordered table of records for one region.
// Rows are sorted ascending by date with one row per calendar day.
type Series struct {
	Region  string
	Records []Record
}

// Len returns the number of days in the series.
func (s *Series) Len() int { return len(s.Records) }

// Empty reports whether the series holds no rows.
func (s *Series) Empty() bool { return len(s.Records) == 0 }

// Dates returns the calendar days of the series in order.
func (s *Series) Dates() []time.Time {
	out := make([]time.Time, len(s.Records))
	for i, r := range s.Records {
		out[i] = r.Date
	}
	return out
}

// DisplayDates returns the dates formatted as dd-mm-yy.
func (s *Series) DisplayDates() []string {
	out := make([]string, len(s.Records))
	for i, r := range s.Records {
		out[i] = r.Date.Format(DisplayDateFormat)
	}
	return out
}

// Column extracts one numeric column by applying f to every record.
func (s *Series) Column(f func(Record) float64) []float64 {
	out := make([]float64, len(s.Records))
	for i, r := range s.Records {
		out[i] = f(r)
	}
	return out
}

// NewPositives returns the nuovi_positivi column.
func (s *Series) NewPositives() []float64 {
	return s.Column(func(r Record) float64 { return r.NewPositives })
}

// DeathsDelta returns the derived daily-deaths column.
func (s *Series) DeathsDelta() []float64 {
	return s.Column(func(r Record) float64 { return r.DeathsDelta })
}

// ICUAdmissions returns the ingressi_terapia_intensiva column.
func (s *Series) ICUAdmissions() []float64 {
	return s.Column(func(r Record) float64 { return r.ICUAdmissions })
}

// Positivity returns the derived positivity-rate column.
func (s *Series) Positivity() []float64 {
	return s.Column(func(r Record) float64 { return r.Positivity })
}

// Tail returns a view of the trailing n days (the whole series when it
// is shorter than n).
func (s *Series) Tail(n int) *Series {
	if n >= len(s.Records) {
		return s
	}
	return &Series{Region: s.Region, Records: s.Records[len(s.Records)-n:]}
}

// BuildSeries filters records to one region (case-insensitive match),
// sorts them ascending by date, collapses duplicate calendar days to
// the last occurrence, and computes the derived columns: daily deaths
// delta and daily molecular-swabs delta (first day clamped to 0), and
// the positivity rate (NaN when the swab delta is 0). An unmatched
// region yields an empty series, not an error.
func BuildSeries(records []Record, region string) *Series {
	var rows []Record
	for _, r := range records {
		if strings.EqualFold(r.Region, region) {
			rows = append(rows, r)
		}
	}
	if len(rows) == 0 {
		return &Series{Region: region}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date.Before(rows[j].Date)
	})

	// Collapse duplicate days, keeping the later occurrence.
	deduped := rows[:0]
	for _, r := range rows {
		day := r.Date.Truncate(24 * time.Hour)
		r.Date = day
		if n := len(deduped); n > 0 && deduped[n-1].Date.Equal(day) {
			deduped[n-1] = r
			continue
		}
		deduped = append(deduped, r)
	}
	rows = deduped

	for i := range rows {
		if i == 0 {
			rows[i].DeathsDelta = 0
			rows[i].SwabsDelta = 0
		} else {
			rows[i].DeathsDelta = rows[i].Deaths - rows[i-1].Deaths
			rows[i].SwabsDelta = rows[i].MolecularSwabs - rows[i-1].MolecularSwabs
		}

		if rows[i].SwabsDelta == 0 {
			rows[i].Positivity = math.NaN()
		} else {
			rows[i].Positivity = rows[i].NewPositives / rows[i].SwabsDelta
		}
	}

	return &Series{Region: rows[0].Region, Records: rows}
}
