package export

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"

	"golang.org/x/image/colornames"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Series is one category's line on a trend chart.
type Series struct {
	Label  string
	Color  string
	Values []float64
}

// ErrNoData is returned when there is nothing to plot.
var ErrNoData = errors.New("export: no data to plot")

// PNG chart size.
const (
	ChartWidth  = 10 * vg.Inch
	ChartHeight = 6 * vg.Inch
)

// WriteTrendPNG renders series over years as a PNG line chart. Missing
// values (NaN) break a line rather than dropping it to zero.
func WriteTrendPNG(w io.Writer, title string, years []int, series []Series) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Год"
	p.Y.Label.Text = "Численность"
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	ticks := make([]plot.Tick, len(years))
	for i, y := range years {
		ticks[i] = plot.Tick{Value: float64(y), Label: strconv.Itoa(y)}
	}
	p.X.Tick.Marker = plot.ConstantTicks(ticks)

	plotted := 0
	for _, s := range series {
		c := Color(s.Color)
		var legend []plot.Thumbnailer
		for _, seg := range segments(years, s.Values) {
			line, points, err := plotter.NewLinePoints(seg)
			if err != nil {
				return fmt.Errorf("export: plot %s: %w", s.Label, err)
			}
			line.Color = c
			line.Width = vg.Points(2)
			points.Color = c
			points.Shape = draw.CircleGlyph{}
			p.Add(line, points)
			if legend == nil {
				legend = []plot.Thumbnailer{line, points}
			}
			plotted++
		}
		if legend != nil {
			p.Legend.Add(s.Label, legend...)
		}
	}
	if plotted == 0 {
		return ErrNoData
	}

	wt, err := p.WriterTo(ChartWidth, ChartHeight, "png")
	if err != nil {
		return fmt.Errorf("export: render chart: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("export: write chart: %w", err)
	}
	return nil
}

// segments splits values into runs of consecutive non-NaN points.
func segments(years []int, values []float64) []plotter.XYs {
	var out []plotter.XYs
	var cur plotter.XYs
	for i, v := range values {
		if i >= len(years) {
			break
		}
		if math.IsNaN(v) {
			if len(cur) > 0 {
				out = append(out, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, plotter.XY{X: float64(years[i]), Y: v})
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

// Color resolves an SVG color name, falling back to black.
func Color(name string) color.Color {
	if c, ok := colornames.Map[name]; ok {
		return c
	}
	return color.Black
}
