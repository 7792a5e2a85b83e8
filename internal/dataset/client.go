package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"dpccli/internal/config"
)

// ErrBadStatus is returned (wrapped) when the source answers with a
// non-200 status code.
var ErrBadStatus = errors.New("unexpected response status")

// sourceDateFormat is the timestamp format used by the dataset
// ("2020-02-24T18:00:00", no zone).
const sourceDateFormat = "2006-01-02T15:04:05"

// Client fetches the national dataset over HTTP.
type Client struct {
	http   *http.Client
	url    string
	logger *slog.Logger
}

// NewClient creates a dataset client for the configured source.
func NewClient(cfg config.SourceConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		http:   &http.Client{Timeout: cfg.Timeout},
		url:    cfg.URL,
		logger: logger,
	}
}

// FetchNational performs one GET of the source CSV and parses every
// row. Network, status and CSV errors propagate wrapped; there is no
// retry and nothing is cached.
func (c *Client) FetchNational(ctx context.Context) ([]Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	c.logger.InfoContext(ctx, "fetching national dataset", "url", c.url)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch dataset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch dataset: %w: %s", ErrBadStatus, resp.Status)
	}

	records, err := parseCSV(resp.Body, c.logger)
	if err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}

	c.logger.InfoContext(ctx, "fetched national dataset", "rows", len(records))
	return records, nil
}

// RegionSeries fetches the national dataset and reshapes it into the
// series for one region. The match is case-insensitive; an unknown
// region logs a warning and yields an empty series with a nil error.
func (c *Client) RegionSeries(ctx context.Context, region string) (*Series, error) {
	records, err := c.FetchNational(ctx)
	if err != nil {
		return nil, err
	}

	series := BuildSeries(records, region)
	if series.Empty() {
		c.logger.WarnContext(ctx, "no rows matched region",
			"region", DisplayRegionName(region))
	} else {
		c.logger.InfoContext(ctx, "built region series",
			"region", series.Region,
			"days", series.Len())
	}
	return series, nil
}

// DisplayRegionName normalizes arbitrary capitalization to the
// title-cased spelling used by the dataset ("lombardia" -> "Lombardia").
func DisplayRegionName(name string) string {
	return cases.Title(language.Italian).String(strings.ToLower(strings.TrimSpace(name)))
}

// parseCSV reads the dataset CSV, mapping columns by header name the
// way the source publishes them. Rows with an unparseable date are
// skipped with a warning rather than failing the whole fetch.
func parseCSV(r io.Reader, logger *slog.Logger) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}

	required := []string{"data", "denominazione_regione", "nuovi_positivi", "deceduti"}
	for _, name := range required {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
	}

	field := func(row []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}
	number := func(row []string, name string) float64 {
		v, _ := strconv.ParseFloat(field(row, name), 64)
		return v
	}

	var records []Record
	line := 1
	for {
		row, err := reader.Read()
		if err != nil {
			break // EOF or malformed tail
		}
		line++

		date, err := parseDate(field(row, "data"))
		if err != nil {
			logger.Warn("skipping row with bad date", "line", line, "error", err)
			continue
		}

		records = append(records, Record{
			Date:           date,
			Region:         field(row, "denominazione_regione"),
			Hospitalized:   number(row, "ricoverati_con_sintomi"),
			ICU:            number(row, "terapia_intensiva"),
			ICUAdmissions:  number(row, "ingressi_terapia_intensiva"),
			NewPositives:   number(row, "nuovi_positivi"),
			Deaths:         number(row, "deceduti"),
			MolecularSwabs: number(row, "tamponi_test_molecolare"),
		})
	}

	return records, nil
}

// parseDate accepts the source timestamp format plus plain dates, which
// show up in older snapshots.
func parseDate(s string) (time.Time, error) {
	for _, format := range []string{sourceDateFormat, "2006-01-02"} {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", s)
}
