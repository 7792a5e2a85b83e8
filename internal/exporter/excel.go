package exporter

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"dpccli/internal/dataset"
	"dpccli/internal/smoothing"
)

const (
	dataSheet  = "Serie"
	chartSheet = "Grafico"
)

// ExcelExporter writes region series workbooks with a native line
// chart comparing raw and smoothed new positives.
type ExcelExporter struct {
	logger *slog.Logger
}

// NewExcelExporter creates a new workbook exporter.
func NewExcelExporter(logger *slog.Logger) *ExcelExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelExporter{logger: logger}
}

// WriteWorkbook writes the series to an xlsx file: a data sheet with
// the date, raw new-positives and smoothed columns, and a chart sheet
// with a line chart over them. smoothWindow is the EMA span in days.
func (e *ExcelExporter) WriteWorkbook(series *dataset.Series, smoothWindow int, path string) error {
	if series.Empty() {
		return fmt.Errorf("cannot export empty series for region %q", series.Region)
	}
	if smoothWindow < 1 {
		return fmt.Errorf("smooth window must be positive, got %d", smoothWindow)
	}

	e.logger.Info("writing series workbook",
		"region", series.Region,
		"rows", series.Len(),
		"path", path)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", dataSheet); err != nil {
		return fmt.Errorf("rename data sheet: %w", err)
	}

	header := []interface{}{"Data", "Nuovi Positivi", fmt.Sprintf("Smoothing (%d giorni)", smoothWindow)}
	if err := f.SetSheetRow(dataSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header row: %w", err)
	}

	raw := series.NewPositives()
	smoothed := smoothing.ForwardBackwardEMA(raw, smoothWindow)
	dates := series.DisplayDates()

	for i := range series.Records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("compute cell name: %w", err)
		}
		row := []interface{}{dates[i], raw[i], excelFloat(smoothed[i])}
		if err := f.SetSheetRow(dataSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if _, err := f.NewSheet(chartSheet); err != nil {
		return fmt.Errorf("create chart sheet: %w", err)
	}

	lastRow := series.Len() + 1
	chart := &excelize.Chart{
		Type: excelize.Line,
		Series: []excelize.ChartSeries{
			{
				Name:       fmt.Sprintf("%s!$B$1", dataSheet),
				Categories: fmt.Sprintf("%s!$A$2:$A$%d", dataSheet, lastRow),
				Values:     fmt.Sprintf("%s!$B$2:$B$%d", dataSheet, lastRow),
			},
			{
				Name:       fmt.Sprintf("%s!$C$1", dataSheet),
				Categories: fmt.Sprintf("%s!$A$2:$A$%d", dataSheet, lastRow),
				Values:     fmt.Sprintf("%s!$C$2:$C$%d", dataSheet, lastRow),
			},
		},
		Title: []excelize.RichTextRun{
			{Text: fmt.Sprintf("Regione %s", series.Region)},
		},
		Legend:    excelize.ChartLegend{Position: "bottom"},
		Dimension: excelize.ChartDimension{Width: 720, Height: 360},
	}
	if err := f.AddChart(chartSheet, "A1", chart); err != nil {
		return fmt.Errorf("add chart: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// excelFloat maps NaN to nil so the cell stays empty instead of
// carrying an invalid number.
func excelFloat(f float64) interface{} {
	if math.IsNaN(f) {
		return nil
	}
	return f
}
