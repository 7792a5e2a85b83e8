package chart

import (
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"dpccli/internal/dataset"
	"dpccli/internal/smoothing"
)

// campaniaPopulation is the resident population used for the cases per
// 100k inhabitants annotation (ISTAT, November 2020).
const campaniaPopulation = 5687845

var (
	rawColor    = color.RGBA{R: 214, G: 39, B: 40, A: 255} // matplotlib tab:red
	smoothColor = color.RGBA{A: 255}
)

// Options configures one chart rendering.
type Options struct {
	Metric       Metric
	TimeWindow   int `validate:"gt=0"`
	SmoothWindow int `validate:"gt=0"`
	Save         bool
	OutputDir    string
}

// DefaultOptions returns the defaults: the new-positives metric over a
// 21-day display window with 7-day smoothing, no file output.
func DefaultOptions() Options {
	return Options{
		Metric:       MetricNewPositives,
		TimeWindow:   21,
		SmoothWindow: 7,
	}
}

// Renderer renders region-series charts.
type Renderer struct {
	logger   *slog.Logger
	validate *validator.Validate
}

// NewRenderer creates a chart renderer.
func NewRenderer(logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{
		logger:   logger,
		validate: validator.New(),
	}
}

// Render draws the selected metric of a region series: the raw values
// as a dotted, marked line and the forward-backward EMA as a solid
// line, over the trailing TimeWindow days. When opts.Save is set the
// chart is written to {metric}_{region}_tw={tw}_sw={sw}.png inside
// opts.OutputDir and the path is returned.
//
// Window options are validated before any rendering and fail fast. An
// unrecognized metric or an empty series logs a warning and skips
// rendering with a nil error.
func (r *Renderer) Render(series *dataset.Series, opts Options) (string, error) {
	if err := r.validate.Struct(opts); err != nil {
		return "", fmt.Errorf("invalid chart options: %w", err)
	}

	if !opts.Metric.Valid() {
		r.logger.Warn("unrecognized metric, skipping chart",
			"metric", string(opts.Metric),
			"allowed", Metrics())
		return "", nil
	}
	if series.Empty() {
		r.logger.Warn("empty series, skipping chart", "region", series.Region)
		return "", nil
	}

	values := opts.Metric.Column(series)
	smoothed := smoothing.ForwardBackwardEMA(values, opts.SmoothWindow)

	tail := series.Tail(opts.TimeWindow)
	offset := series.Len() - tail.Len()

	if len(windowXYs(values, offset)) == 0 {
		r.logger.Warn("no finite values in display window, skipping chart",
			"metric", string(opts.Metric),
			"region", series.Region)
		return "", nil
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Regione %s (ultimi %d giorni)", series.Region, opts.TimeWindow)
	p.Y.Label.Text = opts.Metric.Label()

	rawLine, rawPoints, err := plotter.NewLinePoints(windowXYs(values, offset))
	if err != nil {
		return "", fmt.Errorf("build raw series plot: %w", err)
	}
	rawLine.LineStyle.Width = vg.Points(0.8)
	rawLine.LineStyle.Color = rawColor
	rawLine.LineStyle.Dashes = []vg.Length{vg.Points(1), vg.Points(3)}
	rawPoints.GlyphStyle.Color = rawColor
	rawPoints.GlyphStyle.Radius = vg.Points(2.5)
	rawPoints.GlyphStyle.Shape = draw.CircleGlyph{}

	smoothLine, err := plotter.NewLine(windowXYs(smoothed, offset))
	if err != nil {
		return "", fmt.Errorf("build smoothed series plot: %w", err)
	}
	smoothLine.LineStyle.Width = vg.Points(1.5)
	smoothLine.LineStyle.Color = smoothColor

	p.Add(rawLine, rawPoints, smoothLine)
	p.Legend.Add(fmt.Sprintf("smoothing esponenziale (%d giorni)", opts.SmoothWindow), smoothLine)
	p.Legend.Top = true

	for _, note := range r.annotations(series, opts.Metric) {
		p.Legend.Add(note)
	}

	p.NominalX(thinnedLabels(tail.DisplayDates(), opts.TimeWindow)...)

	if !opts.Save {
		return "", nil
	}

	filename := fmt.Sprintf("%s_%s_tw=%d_sw=%d.png",
		opts.Metric, series.Region, opts.TimeWindow, opts.SmoothWindow)
	path := filepath.Join(opts.OutputDir, filename)

	if err := p.Save(12*vg.Inch, 6*vg.Inch, path); err != nil {
		return "", fmt.Errorf("save chart: %w", err)
	}

	r.logger.Info("saved chart",
		"metric", string(opts.Metric),
		"region", series.Region,
		"path", path)
	return path, nil
}

// annotations builds the extra legend lines: a 7-day incidence figure
// for Campania on the default metric, and the rolling positivity
// medians on the positivity metric.
func (r *Renderer) annotations(series *dataset.Series, metric Metric) []string {
	switch metric {
	case MetricNewPositives:
		if series.Region != "Campania" {
			return nil
		}
		var sum float64
		for _, v := range series.Tail(7).NewPositives() {
			sum += v
		}
		incidence := int(math.Round(1e5 * sum / campaniaPopulation))
		return []string{fmt.Sprintf("%d casi / 100mila abitanti", incidence)}

	case MetricPositivity:
		positivity := series.Positivity()
		monthly := last(smoothing.RollingMedian(positivity, 30))
		weekly := last(smoothing.RollingMedian(positivity, 7))
		return []string{
			fmt.Sprintf("rolling median (30 giorni): %.1f%%", 100*monthly),
			fmt.Sprintf("rolling median (7 giorni): %.1f%%", 100*weekly),
		}
	}
	return nil
}

// windowXYs converts the trailing window of a column into plot points,
// dropping NaN entries so axis scaling stays finite. The x coordinate
// is the index within the window.
func windowXYs(values []float64, offset int) plotter.XYs {
	var xys plotter.XYs
	for i := offset; i < len(values); i++ {
		if math.IsNaN(values[i]) {
			continue
		}
		xys = append(xys, plotter.XY{X: float64(i - offset), Y: values[i]})
	}
	return xys
}

// thinnedLabels blanks out date labels so roughly ten remain across the
// window.
func thinnedLabels(labels []string, timeWindow int) []string {
	freq := int(math.Round(float64(timeWindow) / 10.0))
	if freq < 1 {
		freq = 1
	}
	out := make([]string, len(labels))
	for i, l := range labels {
		if i%freq == 0 {
			out[i] = l
		}
	}
	return out
}

func last(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	return xs[len(xs)-1]
}
