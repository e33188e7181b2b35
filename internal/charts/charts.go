// Package charts renders the exploratory plots of the cleaned dataset with
// gonum/plot and hands them to a Sink.
package charts

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/strokeprep/internal/analysis"
	"github.com/KaramelBytes/strokeprep/internal/table"
	"github.com/KaramelBytes/strokeprep/internal/utils"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// ErrNoData is returned when a chart has nothing to draw.
var ErrNoData = errors.New("no data to plot")

var barColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}

// Chart is a finished plot with its output size.
type Chart struct {
	Name   string
	Plot   *plot.Plot
	Width  vg.Length
	Height vg.Length
}

// Sink receives rendered charts.
type Sink interface {
	Render(c Chart) error
}

// FileSink saves each chart as <Dir>/<Name>.<Format>.
type FileSink struct {
	Dir string
	// Format is any extension plot.Save accepts; empty means png.
	Format string
}

var formats = map[string]bool{"png": true, "svg": true, "pdf": true, "jpg": true, "jpeg": true, "eps": true, "tif": true, "tiff": true}

// ValidFormat reports whether f is an image format FileSink can write.
func ValidFormat(f string) bool { return formats[strings.ToLower(f)] }

// Path returns where chart name is written.
func (s FileSink) Path(name string) string {
	f := s.Format
	if f == "" {
		f = "png"
	}
	return filepath.Join(s.Dir, name+"."+strings.ToLower(f))
}

func (s FileSink) Render(c Chart) error {
	if s.Format != "" && !ValidFormat(s.Format) {
		return fmt.Errorf("unsupported plot format %q", s.Format)
	}
	if err := utils.EnsureDir(s.Dir); err != nil {
		return fmt.Errorf("ensure plots dir: %w", err)
	}
	path := s.Path(c.Name)
	if err := c.Plot.Save(c.Width, c.Height, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// Options names the columns the charts read.
type Options struct {
	AgeColumn      string
	GlucoseColumn  string
	GenderColumn   string
	AgeGroupColumn string
	SmokingColumn  string
	LabelColumn    string
	HistBins       int
}

func DefaultOptions() Options {
	return Options{
		AgeColumn:      "age",
		GlucoseColumn:  "avg_glucose_level",
		GenderColumn:   "gender",
		AgeGroupColumn: "age_group",
		SmokingColumn:  "smoking_status",
		LabelColumn:    "stroke",
		HistBins:       20,
	}
}

// Build assembles the six exploratory charts. A chart whose columns are
// absent from t is skipped.
func Build(t *table.Table, opt Options) ([]Chart, error) {
	var out []Chart
	add := func(c Chart, err error) error {
		if errors.Is(err, ErrNoData) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s: %w", c.Name, err)
		}
		out = append(out, c)
		return nil
	}

	if t.Has(opt.AgeColumn) {
		if err := add(Histogram(t, opt.AgeColumn, opt.HistBins)); err != nil {
			return nil, err
		}
	}
	if t.Has(opt.GenderColumn) && t.Has(opt.LabelColumn) {
		g, err := analysis.GroupBy(t, opt.GenderColumn, opt.LabelColumn, analysis.AggSum)
		if err != nil {
			return nil, err
		}
		if err := add(Bar("strokes_by_gender", "Number of Strokes by Gender", "Stroke Count", g, 6*vg.Inch, 4*vg.Inch)); err != nil {
			return nil, err
		}
	}
	if t.Has(opt.AgeGroupColumn) && t.Has(opt.LabelColumn) {
		g, err := analysis.GroupBy(t, opt.AgeGroupColumn, opt.LabelColumn, analysis.AggMean)
		if err != nil {
			return nil, err
		}
		if err := add(Bar("stroke_rate_by_age_group", "Stroke Rate by Age Group", "Stroke Rate", g, 8*vg.Inch, 4*vg.Inch)); err != nil {
			return nil, err
		}
	}
	if t.Has(opt.AgeColumn) && t.Has(opt.GlucoseColumn) {
		if err := add(Scatter(t, opt.AgeColumn, opt.GlucoseColumn)); err != nil {
			return nil, err
		}
	}
	if m := analysis.Correlations(t); m != nil {
		if err := add(Heatmap(m)); err != nil {
			return nil, err
		}
	}
	if t.Has(opt.SmokingColumn) && t.Has(opt.LabelColumn) {
		g, err := analysis.GroupBy(t, opt.SmokingColumn, opt.LabelColumn, analysis.AggMean)
		if err != nil {
			return nil, err
		}
		if err := add(Bar("stroke_rate_by_smoking", "Stroke Rate by Smoking Status", "Stroke Rate", analysis.SortDesc(g), 8*vg.Inch, 4*vg.Inch)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// RenderAll builds the charts and renders each into sink, returning the
// names rendered in order.
func RenderAll(t *table.Table, opt Options, sink Sink) ([]string, error) {
	cs, err := Build(t, opt)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(cs))
	for _, c := range cs {
		if err := sink.Render(c); err != nil {
			return names, err
		}
		names = append(names, c.Name)
	}
	return names, nil
}

// Histogram plots the distribution of a numeric column.
func Histogram(t *table.Table, column string, bins int) (Chart, error) {
	c := Chart{Name: "age_distribution", Width: 8 * vg.Inch, Height: 4 * vg.Inch}
	col, ok := t.Numeric(column)
	if !ok {
		return c, fmt.Errorf("column %q is not numeric", column)
	}
	vals := plotter.Values(col.Observed())
	if len(vals) == 0 {
		return c, ErrNoData
	}
	if bins <= 0 {
		bins = 20
	}
	h, err := plotter.NewHist(vals, bins)
	if err != nil {
		return c, err
	}
	h.FillColor = barColor
	p := plot.New()
	p.Title.Text = "Age Distribution"
	p.X.Label.Text = "Age"
	p.Y.Label.Text = "Count"
	p.Add(h)
	c.Plot = p
	return c, nil
}

// Bar plots one bar per group. NaN aggregates are drawn as zero.
func Bar(name, title, ylabel string, groups []analysis.GroupValue, w, h vg.Length) (Chart, error) {
	c := Chart{Name: name, Width: w, Height: h}
	if len(groups) == 0 {
		return c, ErrNoData
	}
	vals := make(plotter.Values, len(groups))
	for i, g := range groups {
		if !math.IsNaN(g.Value) {
			vals[i] = g.Value
		}
	}
	bc, err := plotter.NewBarChart(vals, vg.Points(30))
	if err != nil {
		return c, err
	}
	bc.Color = barColor
	bc.LineStyle.Width = 0
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = ylabel
	p.Add(bc)
	p.NominalX(analysis.Keys(groups)...)
	c.Plot = p
	return c, nil
}

// Scatter plots x against y over rows where both are present.
func Scatter(t *table.Table, x, y string) (Chart, error) {
	c := Chart{Name: "age_vs_glucose", Width: 7 * vg.Inch, Height: 5 * vg.Inch}
	xc, ok := t.Numeric(x)
	if !ok {
		return c, fmt.Errorf("column %q is not numeric", x)
	}
	yc, ok := t.Numeric(y)
	if !ok {
		return c, fmt.Errorf("column %q is not numeric", y)
	}
	var xys plotter.XYs
	for i := 0; i < t.Len(); i++ {
		xv, okx := xc.Value(i)
		yv, oky := yc.Value(i)
		if okx && oky {
			xys = append(xys, plotter.XY{X: xv, Y: yv})
		}
	}
	if len(xys) == 0 {
		return c, ErrNoData
	}
	s, err := plotter.NewScatter(xys)
	if err != nil {
		return c, err
	}
	s.GlyphStyle.Color = color.RGBA{R: 31, G: 119, B: 180, A: 153}
	s.GlyphStyle.Radius = vg.Points(2)
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	p := plot.New()
	p.Title.Text = "Age vs Avg Glucose Level"
	p.X.Label.Text = "Age"
	p.Y.Label.Text = "Avg Glucose Level"
	p.Add(s)
	c.Plot = p
	return c, nil
}

type corrGrid struct{ m *analysis.CorrMatrix }

func (g corrGrid) Dims() (c, r int) { n := len(g.m.Columns); return n, n }
func (g corrGrid) X(c int) float64  { return float64(c) }
func (g corrGrid) Y(r int) float64  { return float64(r) }

// Z draws undefined coefficients as zero.
func (g corrGrid) Z(c, r int) float64 {
	v := g.m.Values[r][c]
	if math.IsNaN(v) {
		return 0
	}
	return v
}

// Heatmap draws a correlation matrix on a blue-red scale over [-1, 1].
func Heatmap(m *analysis.CorrMatrix) (Chart, error) {
	c := Chart{Name: "correlation_matrix", Width: 8 * vg.Inch, Height: 6 * vg.Inch}
	if m == nil || len(m.Columns) == 0 {
		return c, ErrNoData
	}
	cm := moreland.SmoothBlueRed()
	cm.SetMin(-1)
	cm.SetMax(1)
	hm := plotter.NewHeatMap(corrGrid{m: m}, cm.Palette(255))
	hm.Min, hm.Max = -1, 1

	ticks := make([]plot.Tick, len(m.Columns))
	for i, name := range m.Columns {
		ticks[i] = plot.Tick{Value: float64(i), Label: name}
	}
	p := plot.New()
	p.Title.Text = "Correlation Matrix (Numerical Features)"
	p.Add(hm)
	p.X.Tick.Marker = plot.ConstantTicks(ticks)
	p.Y.Tick.Marker = plot.ConstantTicks(ticks)
	p.X.Tick.Label.Rotation = math.Pi / 2
	p.X.Tick.Label.XAlign = text.XRight
	p.X.Tick.Label.YAlign = text.YCenter
	c.Plot = p
	return c, nil
}
