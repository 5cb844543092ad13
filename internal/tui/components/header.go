// Package components provides reusable render-only building blocks for the
// demodash TUI. They return strings and are composed by the dashboard model.
package components

import (
	"strings"

	"nathanbeddoewebdev/demodash/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// crumbSep separates breadcrumb segments.
const crumbSep = " › "

// Header renders the application header bar: the app name followed by
// the breadcrumb segments on the left and a summary on the right. When
// space runs out, the earliest segments after the app name are dropped
// first, then the last one is truncated.
//
//	demodash › Мценск                 2 из 5 · 2019 год
//	──────────────────────────────────────────────────
func Header(width int, right string, crumbs ...string) string {
	if width < 10 {
		return ""
	}

	innerWidth := width - 4 // account for padding
	if right != "" {
		right = styles.Subtitle.Render(right)
	}
	rightLen := lipgloss.Width(right)
	avail := max(innerWidth-rightLen-1, 1)

	left := renderCrumbs(crumbs)
	for len(crumbs) > 1 && lipgloss.Width(left) > avail {
		crumbs = crumbs[1:]
		left = renderCrumbs(append([]string{"…"}, crumbs...))
	}
	if lipgloss.Width(left) > avail {
		left = Truncate(left, avail)
	}
	gap := max(innerWidth-lipgloss.Width(left)-rightLen, 1)

	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 2).
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderBottom(true).
		BorderForeground(styles.DimGray).
		Render(left + strings.Repeat(" ", gap) + right)
}

func renderCrumbs(crumbs []string) string {
	var b strings.Builder
	b.WriteString(styles.Title.Foreground(styles.Blue).Render("demodash"))
	for i, c := range crumbs {
		b.WriteString(styles.MutedText.Render(crumbSep))
		if i == len(crumbs)-1 {
			b.WriteString(styles.Title.Render(c))
		} else {
			b.WriteString(styles.MutedText.Render(c))
		}
	}
	return b.String()
}
