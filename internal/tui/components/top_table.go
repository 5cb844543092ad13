package components

import (
	"strconv"
	"strings"

	"nathanbeddoewebdev/demodash/internal/dataset"
	"nathanbeddoewebdev/demodash/internal/tui/styles"
)

// valueWidth fits counts up to 99,999,999.
const valueWidth = 10

// TopTable renders a ranked list of municipalities for one category.
//
//	■ Дети 1-6 лет
//	 #  Муниципальное образование        2019
//	 1  г. Орёл                        12,345
func TopTable(label, color string, year int, rows []dataset.Ranked, width int) string {
	var b strings.Builder
	b.WriteString(styles.Swatch(color, true) + " " + styles.Label.Render(Truncate(label, max(width-2, 1))))
	b.WriteString("\n")

	if len(rows) == 0 {
		b.WriteString(styles.MutedText.Render("  нет данных"))
		return b.String()
	}

	nameWidth := max(width-4-valueWidth-1, 8)
	b.WriteString(styles.MutedText.Render(
		" #  " + PadRight(Truncate("Муниципальное образование", nameWidth), nameWidth) +
			" " + PadLeft(strconv.Itoa(year), valueWidth)))

	for i, r := range rows {
		b.WriteString("\n")
		rank := PadLeft(strconv.Itoa(i+1), 2) + "  "
		name := PadRight(Truncate(r.Name, nameWidth), nameWidth)
		b.WriteString(styles.MutedText.Render(rank) + styles.Value.Render(name) +
			" " + styles.CategoryStyle(color).Render(PadLeft(FormatCount(r.Value), valueWidth)))
	}
	return b.String()
}
