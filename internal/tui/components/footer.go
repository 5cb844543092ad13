package components

import (
	"strings"

	"nathanbeddoewebdev/demodash/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// KeyBinding is one entry of the footer help bar.
type KeyBinding struct {
	Key  string
	Desc string
}

// footerPadding is the horizontal padding on each side of the help bar.
const footerPadding = 2

// Footer renders the key binding help bar. Bindings are kept in order
// until the line is full; the rest are replaced by an ellipsis so the bar
// never wraps.
func Footer(width int, bindings []KeyBinding) string {
	if width < 10 || len(bindings) == 0 {
		return ""
	}

	sep := styles.KeySepStyle.Render("  ")
	more := styles.MutedText.Render("…")
	avail := width - 2*footerPadding

	var b strings.Builder
	used := 0
	for i, kb := range bindings {
		part := styles.FormatKeyBinding(kb.Key, kb.Desc)
		w := ansi.StringWidth(part)
		if i > 0 {
			w += ansi.StringWidth(sep)
		}
		// Leave room for the ellipsis unless this is the last binding.
		reserve := 0
		if i < len(bindings)-1 {
			reserve = ansi.StringWidth(sep) + 1
		}
		if used+w+reserve > avail {
			if i > 0 {
				b.WriteString(sep)
			}
			b.WriteString(more)
			break
		}
		if i > 0 {
			b.WriteString(sep)
		}
		b.WriteString(part)
		used += w
	}

	return lipgloss.NewStyle().
		Width(width).
		Padding(0, footerPadding).
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderTop(true).
		BorderForeground(styles.DimGray).
		Render(b.String())
}
