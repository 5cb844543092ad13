package components

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"nathanbeddoewebdev/demodash/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// ChartSeries is one line of a TrendChart.
type ChartSeries struct {
	Label  string
	Color  string
	Values []float64
}

// minChartHeight is the smallest plot height worth drawing.
const minChartHeight = 3

// TrendChart renders series over years as an ANSI line chart with a year
// axis and a colored legend. Gaps in a series are drawn as zero since the
// terminal renderer cannot break a line.
func TrendChart(title string, years []int, series []ChartSeries, width, height int) string {
	header := styles.Label.Render(title)
	if len(series) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, header,
			styles.MutedText.Render("Категории не выбраны"))
	}

	data := make([][]float64, 0, len(series))
	colors := make([]asciigraph.AnsiColor, 0, len(series))
	legends := make([]string, 0, len(series))
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range series {
		if len(s.Values) == 0 {
			continue
		}
		vals := make([]float64, len(s.Values))
		for i, v := range s.Values {
			if math.IsNaN(v) {
				v = 0
			}
			vals[i] = v
			lo, hi = math.Min(lo, v), math.Max(hi, v)
		}
		data = append(data, vals)
		colors = append(colors, seriesColor(s.Color))
		legends = append(legends, s.Label)
	}
	if len(data) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, header,
			styles.MutedText.Render("Нет данных"))
	}

	// asciigraph pads every y label to the widest one, then adds " ┤".
	labelWidth := max(len(fmt.Sprintf("%.0f", hi)), len(fmt.Sprintf("%.0f", lo)))
	left := labelWidth + 2
	plotWidth := max(width-left-1, 10)
	plotHeight := max(height-4, minChartHeight)

	chart := asciigraph.PlotMany(data,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Precision(0),
		asciigraph.SeriesColors(colors...),
		asciigraph.SeriesLegends(legends...),
		asciigraph.LabelColor(asciigraph.Default),
	)

	// The axis goes under the last plot row, above the legend.
	lines := strings.Split(chart, "\n")
	axis := styles.MutedText.Render(yearAxis(years, left, plotWidth))
	at := len(lines)
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.ContainsAny(lines[i], "┤┼") {
			at = i + 1
			break
		}
	}
	lines = slices.Insert(lines, at, axis)

	return lipgloss.JoinVertical(lipgloss.Left, header, strings.Join(lines, "\n"))
}

// yearAxis lays years out under a plot whose first column is left and
// which spans plotWidth columns. Labels that would overlap are dropped.
func yearAxis(years []int, left, plotWidth int) string {
	n := len(years)
	if n == 0 || plotWidth <= 0 {
		return ""
	}

	line := []byte(strings.Repeat(" ", left+plotWidth))
	next := 0
	for i, y := range years {
		label := strconv.Itoa(y)
		col := left
		if n > 1 {
			col = left + int(math.Round(float64(i*(plotWidth-1))/float64(n-1)))
		}

		start := col - len(label)/2
		switch {
		case i == 0:
			start = col
		case i == n-1:
			start = col - len(label) + 1
		}
		if start < next || start+len(label) > len(line) {
			continue
		}
		copy(line[start:], label)
		next = start + len(label) + 1
	}
	return strings.TrimRight(string(line), " ")
}

func seriesColor(name string) asciigraph.AnsiColor {
	if c, ok := asciigraph.ColorNames[name]; ok {
		return c
	}
	return asciigraph.Default
}
