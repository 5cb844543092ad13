package components

import (
	"nathanbeddoewebdev/demodash/internal/dataset"
	"nathanbeddoewebdev/demodash/internal/tui/styles"

	"github.com/NimbleMarkets/ntcharts/barchart"
)

// barLabelWidth caps the municipality names drawn beside each bar.
const barLabelWidth = 14

// TopBars renders rows as horizontal bars in the category color, largest
// first. It returns an empty string when there is nothing to draw.
func TopBars(color string, rows []dataset.Ranked, width int) string {
	if len(rows) == 0 || width < barLabelWidth+4 {
		return ""
	}

	style := styles.CategoryStyle(color)
	data := make([]barchart.BarData, len(rows))
	for i, r := range rows {
		label := Truncate(r.Name, barLabelWidth)
		data[i] = barchart.BarData{
			Label: label,
			Values: []barchart.BarValue{
				{Name: label, Value: r.Value, Style: style},
			},
		}
	}

	bc := barchart.New(width, len(rows)+1,
		barchart.WithHorizontalBars(),
		barchart.WithDataSet(data),
	)
	bc.Draw()
	return bc.View()
}
