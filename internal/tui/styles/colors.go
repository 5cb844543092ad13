// Package styles provides the color palette and style definitions for the
// demodash TUI.
package styles

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

var (
	// Core text
	White   = lipgloss.Color("#E2E2E2")
	Gray    = lipgloss.Color("#888888")
	Muted   = lipgloss.Color("#555555")
	DimGray = lipgloss.Color("#444444")

	// Accent
	Blue = lipgloss.Color("#5FAFFF")

	// Status
	Yellow = lipgloss.Color("#FFD787")
	Red    = lipgloss.Color("#FF8787")
)

// ChartColor maps a category color name to the ANSI color asciigraph uses
// for it, so charts and swatches match. Unknown names map to Gray.
func ChartColor(name string) lipgloss.Color {
	c, ok := asciigraph.ColorNames[name]
	if !ok {
		return Gray
	}
	return lipgloss.Color(strconv.Itoa(int(c)))
}
