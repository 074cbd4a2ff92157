// Package visualize renders explained-variance scree charts and score
// scatter plots with gonum/plot.
//
// The plots are conveniences for inspecting a fit; nothing in the PCA core
// depends on them.
package visualize

import (
	"fmt"
	"image/color"
	"path/filepath"
	"strings"

	"github.com/YuminosukeSato/pcago/dataset"
	"github.com/YuminosukeSato/pcago/decomposition"
	"github.com/YuminosukeSato/pcago/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var (
	barColor        = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	cumulativeColor = color.RGBA{R: 220, G: 80, B: 40, A: 255}
	elbowColor      = color.RGBA{R: 90, G: 90, B: 90, A: 255}
)

type screeConfig struct {
	title     string
	elbow     int
	threshold float64
}

// ScreeOption configures ScreePlot.
type ScreeOption func(*screeConfig)

// WithTitle replaces the default "Scree plot" title.
func WithTitle(title string) ScreeOption {
	return func(c *screeConfig) {
		c.title = title
	}
}

// WithElbow marks component k (1-based) with a vertical dashed line.
func WithElbow(k int) ScreeOption {
	return func(c *screeConfig) {
		c.elbow = k
	}
}

// WithThreshold draws the elbow threshold as a horizontal dashed line.
func WithThreshold(percent float64) ScreeOption {
	return func(c *screeConfig) {
		c.threshold = percent
	}
}

// ScreePlot draws one bar per component with its explained-variance ratio
// and overlays the cumulative variance as a line. Both are in percent.
func ScreePlot(report *decomposition.VarianceReport, opts ...ScreeOption) (*plot.Plot, error) {
	if report == nil || len(report.Ratios) == 0 {
		return nil, errors.NewEmptyInputError("visualize.ScreePlot", "components", 0, 1)
	}

	cfg := screeConfig{title: "Scree plot"}
	for _, opt := range opts {
		opt(&cfg)
	}

	k := len(report.Ratios)
	p := plot.New()
	p.Title.Text = cfg.title
	p.X.Label.Text = "Principal component"
	p.Y.Label.Text = "Explained variance (%)"
	p.Y.Min = 0
	p.Y.Max = 105
	p.Add(plotter.NewGrid())

	bars, err := plotter.NewBarChart(plotter.Values(report.Ratios), vg.Points(18))
	if err != nil {
		return nil, errors.Wrap(err, "scree bars")
	}
	bars.Color = barColor
	bars.LineStyle.Width = 0

	cumulative := make(plotter.XYs, k)
	for j, c := range report.Cumulative {
		cumulative[j].X = float64(j)
		cumulative[j].Y = c
	}
	line, points, err := plotter.NewLinePoints(cumulative)
	if err != nil {
		return nil, errors.Wrap(err, "cumulative line")
	}
	line.Color = cumulativeColor
	points.GlyphStyle.Color = cumulativeColor

	p.Add(bars, line, points)
	p.Legend.Add("ratio", bars)
	p.Legend.Add("cumulative", line, points)
	p.Legend.Top = true
	p.Legend.Left = false

	if cfg.elbow >= 1 && cfg.elbow <= k {
		x := float64(cfg.elbow - 1)
		marker, err := plotter.NewLine(plotter.XYs{{X: x, Y: 0}, {X: x, Y: 100}})
		if err != nil {
			return nil, errors.Wrap(err, "elbow marker")
		}
		marker.Color = elbowColor
		marker.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
		p.Add(marker)
		p.Legend.Add(fmt.Sprintf("elbow (k=%d)", cfg.elbow), marker)
	}

	if cfg.threshold > 0 {
		level, err := plotter.NewLine(plotter.XYs{{X: -0.5, Y: cfg.threshold}, {X: float64(k) - 0.5, Y: cfg.threshold}})
		if err != nil {
			return nil, errors.Wrap(err, "threshold line")
		}
		level.Color = elbowColor
		level.Dashes = []vg.Length{vg.Points(1), vg.Points(2)}
		p.Add(level)
	}

	names := make([]string, k)
	for j := range names {
		names[j] = dataset.ComponentLabel(j)
	}
	p.NominalX(names...)

	return p, nil
}

// ScoresScatter plots the samples in the plane of components i and j
// (0-based columns of scores). labels, when non-nil, annotate each point.
func ScoresScatter(scores mat.Matrix, labels []string, i, j int) (*plot.Plot, error) {
	const op = "visualize.ScoresScatter"

	n, k := scores.Dims()
	if n == 0 {
		return nil, errors.NewEmptyInputError(op, "samples", 0, 1)
	}
	for _, c := range []int{i, j} {
		if c < 0 || c >= k {
			return nil, errors.NewValidationError("component", fmt.Sprintf("must be in [0, %d)", k), c)
		}
	}
	if labels != nil && len(labels) != n {
		return nil, errors.NewDimensionError(op, n, len(labels), 0)
	}

	xys := make(plotter.XYs, n)
	for r := 0; r < n; r++ {
		xys[r].X = scores.At(r, i)
		xys[r].Y = scores.At(r, j)
	}

	p := plot.New()
	p.Title.Text = "Scores"
	p.X.Label.Text = dataset.ComponentLabel(i)
	p.Y.Label.Text = dataset.ComponentLabel(j)
	p.Add(plotter.NewGrid())

	scatter, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, errors.Wrap(err, "scores scatter")
	}
	scatter.GlyphStyle.Color = barColor
	p.Add(scatter)

	if labels != nil {
		annotations, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
		if err != nil {
			return nil, errors.Wrap(err, "score labels")
		}
		p.Add(annotations)
	}

	return p, nil
}

// Save writes p to path at 6×4 inches. The extension picks the format
// (.png, .svg, .pdf, .jpg, .eps, .tif).
func Save(p *plot.Plot, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".svg", ".pdf", ".jpg", ".jpeg", ".eps", ".tif", ".tiff":
	default:
		return errors.NewValidationError("path", "unsupported image format", path)
	}
	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "save plot %s", path)
	}
	return nil
}
