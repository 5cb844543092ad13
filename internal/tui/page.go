package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"nathanbeddoewebdev/demodash/internal/category"
	"nathanbeddoewebdev/demodash/internal/export"
	"nathanbeddoewebdev/demodash/internal/report"
	"nathanbeddoewebdev/demodash/internal/tui/components"
	"nathanbeddoewebdev/demodash/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// Page headings.
const (
	titlePrefix  = "Демография Орловской области: "
	trendHeading = "Динамика численности"
	exportHeader = "Экспорт данных"
)

// chartHeight is the trend chart height, legend and axis included.
const chartHeight = 14

// topHeading returns the heading of the top-N section.
func topHeading(year int) string {
	return fmt.Sprintf("Топ-%d по категории (%d год)", report.TopN, year)
}

// Title returns the page title for a location.
func Title(location string) string {
	return titlePrefix + location
}

// RenderPage renders the full report for sel: title, trend chart, one
// top-N table and bar chart per selected category, and the files an export
// would write into exportDir.
func RenderPage(cat *category.Catalog, sel report.Selection, width int, exportDir string) (string, error) {
	lines, err := report.Trend(cat, sel)
	if err != nil {
		return "", err
	}
	tops, err := report.Tops(cat, sel, report.TopN)
	if err != nil {
		return "", err
	}

	width = max(width, 40)
	sections := []string{
		styles.Title.Render(components.Truncate(Title(sel.Location), width)),
		"",
		renderTrend(cat.Reference().Data.Years, lines, width),
		"",
		styles.Label.Render(topHeading(sel.Year)),
	}
	if len(tops) == 0 {
		sections = append(sections, styles.MutedText.Render("Категории не выбраны"))
	}
	for _, t := range tops {
		sections = append(sections, "", renderTop(t, width))
	}

	sections = append(sections, "", styles.Label.Render(exportHeader), renderExportPlan(tops, exportDir))
	return lipgloss.JoinVertical(lipgloss.Left, sections...), nil
}

// renderTrend draws the selected lines. Categories without the location
// are listed under the chart instead of being drawn as zeros.
func renderTrend(years []int, lines []report.Line, width int) string {
	series := make([]components.ChartSeries, 0, len(lines))
	var missing []string
	for _, l := range lines {
		if l.Missing {
			missing = append(missing, l.Label)
			continue
		}
		series = append(series, components.ChartSeries{Label: l.Label, Color: l.Color, Values: l.Values})
	}

	out := components.TrendChart(trendHeading, years, series, width, chartHeight)
	if len(missing) > 0 {
		out = lipgloss.JoinVertical(lipgloss.Left, out,
			styles.WarningText.Render("Нет данных для: "+strings.Join(missing, ", ")))
	}
	return out
}

// renderTop puts the table and the bar chart side by side when there is
// room, otherwise stacks them.
func renderTop(t report.Top, width int) string {
	if width >= 100 {
		half := width/2 - 1
		table := components.TopTable(t.Label, t.Color, t.Year, t.Rows, half)
		bars := components.TopBars(t.Color, t.Rows, half)
		return lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.NewStyle().Width(half).Render(table), "  ", bars)
	}

	table := components.TopTable(t.Label, t.Color, t.Year, t.Rows, width)
	if bars := components.TopBars(t.Color, t.Rows, width); bars != "" {
		return lipgloss.JoinVertical(lipgloss.Left, table, bars)
	}
	return table
}

func renderExportPlan(tops []report.Top, dir string) string {
	if len(tops) == 0 {
		return styles.MutedText.Render("Нечего экспортировать")
	}
	var b strings.Builder
	for i, t := range tops {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(styles.Swatch(t.Color, true) + " ")
		for j, f := range export.DefaultFormats {
			if j > 0 {
				b.WriteString(styles.MutedText.Render("  "))
			}
			b.WriteString(styles.AccentText.Render(filepath.Join(dir, export.FileName(t.Label, f))))
		}
	}
	return b.String()
}

// TrendSeries converts report lines into PNG chart series.
func TrendSeries(lines []report.Line) []export.Series {
	out := make([]export.Series, 0, len(lines))
	for _, l := range lines {
		if l.Missing {
			continue
		}
		out = append(out, export.Series{Label: l.Label, Color: l.Color, Values: l.Values})
	}
	return out
}

// TrendFile returns the PNG path for a location's trend chart.
func TrendFile(dir, location string) string {
	location = pathSeparators.Replace(location)
	return filepath.Join(dir, export.FileName(trendHeading+" "+location, export.PNG))
}

// pathSeparators keeps a location name inside a single file name.
var pathSeparators = strings.NewReplacer("/", "-", `\`, "-")
