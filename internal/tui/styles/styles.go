package styles

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
)

// --- Typography ---

var (
	// Title is the page and window title style.
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(White)

	// Subtitle is used for the right side of the header.
	Subtitle = lipgloss.NewStyle().
			Foreground(Gray)

	// Label is used for section names.
	Label = lipgloss.NewStyle().
		Foreground(Gray).
		Bold(true)

	// Value is used for names and numbers.
	Value = lipgloss.NewStyle().
		Foreground(White)

	// MutedText is for hints, ranks and unselected entries.
	MutedText = lipgloss.NewStyle().
			Foreground(Muted)

	// AccentText is for highlighted interactive elements.
	AccentText = lipgloss.NewStyle().
			Foreground(Blue)

	// ErrorText is for error messages.
	ErrorText = lipgloss.NewStyle().
			Foreground(Red).
			Bold(true)

	// WarningText is for categories without data.
	WarningText = lipgloss.NewStyle().
			Foreground(Yellow).
			Bold(true)
)

// --- Category swatches ---

// CategoryStyle returns the text style of a category's chart color.
func CategoryStyle(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ChartColor(color))
}

// Swatch renders a filled or hollow square in the category color.
func Swatch(color string, selected bool) string {
	if selected {
		return CategoryStyle(color).Render("■")
	}
	return MutedText.Render("□")
}

// --- Sidebar ---

var (
	// Cursor marks the selected row in lists.
	Cursor = lipgloss.NewStyle().
		Foreground(Blue).
		Bold(true)

	// Divider separates the sidebar from the main pane.
	Divider = lipgloss.NewStyle().
		Foreground(DimGray)
)

// YearPicker renders the year between arrows, dimming an arrow when there
// is no year in that direction.
func YearPicker(year int, hasPrev, hasNext bool) string {
	left, right := MutedText.Render("‹"), MutedText.Render("›")
	if hasPrev {
		left = AccentText.Render("‹")
	}
	if hasNext {
		right = AccentText.Render("›")
	}
	return left + " " + Value.Render(strconv.Itoa(year)) + " " + right
}

// --- Panels ---

// Card is a rounded-border panel, used by the settings viewer.
var Card = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(DimGray).
	Padding(0, 1)

// --- Key binding hint styles ---

var (
	// KeyStyle is used for key labels in the footer (e.g. "q").
	KeyStyle = lipgloss.NewStyle().
			Foreground(Blue).
			Bold(true)

	// KeyDescStyle is used for key descriptions in the footer (e.g. "quit").
	KeyDescStyle = lipgloss.NewStyle().
			Foreground(Muted)

	// KeySepStyle is used for separators between key bindings.
	KeySepStyle = lipgloss.NewStyle().
			Foreground(DimGray)
)

// FormatKeyBinding formats a single key binding for the footer.
func FormatKeyBinding(key, desc string) string {
	return KeyStyle.Render(key) + " " + KeyDescStyle.Render(desc)
}
