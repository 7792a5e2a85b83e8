package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dpccli/internal/chart"
	"dpccli/internal/config"
	"dpccli/internal/dataset"
	"dpccli/internal/exporter"
	"dpccli/internal/infrastructure"
	"dpccli/internal/progress"
)

func main() {
	region := flag.String("region", "", "region name, any capitalization (required)")
	metricsFlag := flag.String("metrics", string(chart.MetricNewPositives), `comma-separated metrics to render, or "all"`)
	timeWindow := flag.Int("tw", 21, "number of trailing days to plot")
	smoothWindow := flag.Int("sw", 7, "number of days used for smoothing")
	save := flag.Bool("save", true, "write rendered charts as PNG files")
	outputDir := flag.String("out", "", "output directory for artifacts (defaults to config)")
	csvOut := flag.Bool("csv", false, "also export the series as CSV")
	xlsxOut := flag.Bool("xlsx", false, "also export the series as an Excel workbook")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	infrastructure.InitializeLogger(cfg.Logging)
	ctx := infrastructure.ContextWithRunID(context.Background())
	logger := infrastructure.LoggerWithContext(ctx)

	if *region == "" {
		logger.Error("missing required -region flag")
		flag.Usage()
		os.Exit(1)
	}

	if *outputDir == "" {
		*outputDir = cfg.Output.Dir
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		logger.Error("failed to create output directory", "dir", *outputDir, "error", err)
		os.Exit(1)
	}

	metrics := parseMetrics(*metricsFlag)

	client := dataset.NewClient(cfg.Source, logger)
	series, err := client.RegionSeries(ctx, *region)
	if err != nil {
		logger.Error("failed to fetch region series", "region", *region, "error", err)
		os.Exit(1)
	}
	if series.Empty() {
		// Unknown region yields an empty result by contract; nothing to render.
		logger.Warn("nothing to render", "region", dataset.DisplayRegionName(*region))
		return
	}

	renderer := chart.NewRenderer(logger)
	rendered := 0
	for metric := range progress.Bar(metrics, progress.WithPrefix("rendering: ")) {
		opts := chart.Options{
			Metric:       metric,
			TimeWindow:   *timeWindow,
			SmoothWindow: *smoothWindow,
			Save:         *save,
			OutputDir:    *outputDir,
		}
		path, err := renderer.Render(series, opts)
		if err != nil {
			logger.Error("failed to render chart", "metric", string(metric), "error", err)
			os.Exit(1)
		}
		if path != "" {
			rendered++
		}
	}

	if *csvOut {
		path := filepath.Join(*outputDir, fmt.Sprintf("%s_series.csv", series.Region))
		if err := exporter.NewCSVWriter(logger).WriteSeries(series, path); err != nil {
			logger.Error("failed to export CSV", "error", err)
			os.Exit(1)
		}
	}

	if *xlsxOut {
		path := filepath.Join(*outputDir, fmt.Sprintf("%s_series.xlsx", series.Region))
		if err := exporter.NewExcelExporter(logger).WriteWorkbook(series, *smoothWindow, path); err != nil {
			logger.Error("failed to export workbook", "error", err)
			os.Exit(1)
		}
	}

	logger.Info("report complete",
		"region", series.Region,
		"days", series.Len(),
		"charts", rendered)
}

// parseMetrics expands the -metrics flag. Unrecognized names are kept
// verbatim so the renderer can surface its warning and skip them,
// matching the unknown-metric contract.
func parseMetrics(flagValue string) []chart.Metric {
	if strings.EqualFold(strings.TrimSpace(flagValue), "all") {
		return chart.Metrics()
	}

	var metrics []chart.Metric
	for _, part := range strings.Split(flagValue, ",") {
		if m, ok := chart.ParseMetric(part); ok {
			metrics = append(metrics, m)
		} else {
			metrics = append(metrics, chart.Metric(strings.TrimSpace(part)))
		}
	}
	return metrics
}
