package components

import (
	"strings"

	"nathanbeddoewebdev/demodash/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// StatusBar renders a one-line message between the content and footer.
// Multi-line messages (wrapped load errors) are joined and truncated.
func StatusBar(width int, message string, isError bool) string {
	if message == "" {
		return ""
	}

	style := styles.MutedText
	if isError {
		style = styles.ErrorText
	}

	message = strings.Join(strings.Fields(message), " ")
	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 2).
		Render(style.Render(Truncate(message, width-4)))
}
