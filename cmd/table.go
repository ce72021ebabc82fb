package cmd

import (
	"fmt"
	"io"
	"slices"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/abhisek/flashai/internal/ui/theme"
)

// newTable is the bordered table listing commands print. Columns whose
// index is in numeric are right aligned.
func newTable(numeric []int, headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return s.Bold(true).Foreground(theme.Secondary)
			}
			if slices.Contains(numeric, col) {
				s = s.Align(lipgloss.Right)
			}
			return s
		})
}

// printTable writes t, dropping colors when w is not a terminal.
func printTable(w io.Writer, title string, t *table.Table) {
	if title != "" {
		lipgloss.Fprintln(w, theme.Title.Align(lipgloss.Left).Render(title))
	}
	lipgloss.Fprintln(w, t.String())
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

func itoa(n int) string { return fmt.Sprint(n) }
