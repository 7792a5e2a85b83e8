package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"dpccli/internal/dataset"
)

// seriesHeader is the column order of exported series CSVs.
var seriesHeader = []string{
	"Date", "Region", "Hospitalized", "ICU", "ICUAdmissions",
	"NewPositives", "Deaths", "MolecularSwabs",
	"DeathsDelta", "SwabsDelta", "Positivity",
}

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger}
}

// WriteSeries writes a region series to a CSV file, one row per day in
// series order, with a UTF-8 BOM so Excel opens it cleanly. Dates use
// the dd-mm-yy display format; NaN cells are left empty.
func (w *CSVWriter) WriteSeries(series *dataset.Series, path string) error {
	w.logger.Info("writing series CSV",
		"region", series.Region,
		"rows", series.Len(),
		"path", path)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	// UTF-8 BOM helps Excel recognize the encoding
	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(seriesHeader); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for i, r := range series.Records {
		record := []string{
			r.Date.Format(dataset.DisplayDateFormat),
			r.Region,
			formatCount(r.Hospitalized),
			formatCount(r.ICU),
			formatCount(r.ICUAdmissions),
			formatCount(r.NewPositives),
			formatCount(r.Deaths),
			formatCount(r.MolecularSwabs),
			formatCount(r.DeathsDelta),
			formatCount(r.SwabsDelta),
			formatRate(r.Positivity),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
