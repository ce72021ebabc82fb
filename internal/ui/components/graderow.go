package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/flashai/internal/deck"
	"github.com/abhisek/flashai/internal/ui/theme"
)

// GradeRow is the four-button grade selector shown once a card is revealed.
// Number keys pick a grade directly; arrows move and enter confirms.
type GradeRow struct {
	Hints    map[deck.Grade]string
	Selected deck.Grade
}

// NewGradeRow creates a grade row with Good preselected.
func NewGradeRow(hints map[deck.Grade]string) GradeRow {
	return GradeRow{Hints: hints, Selected: deck.Good}
}

// Update handles key input. The second result is true when a grade was chosen.
func (r GradeRow) Update(msg tea.Msg) (GradeRow, deck.Grade, bool) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return r, 0, false
	}

	switch key := kmsg.String(); key {
	case "1", "2", "3", "4":
		g := deck.Grade(key[0] - '0')
		r.Selected = g
		return r, g, true
	case "left", "h":
		if r.Selected > deck.Again {
			r.Selected--
		}
	case "right", "l":
		if r.Selected < deck.Easy {
			r.Selected++
		}
	case "enter":
		return r, r.Selected, true
	}
	return r, 0, false
}

// View renders the row.
func (r GradeRow) View() string {
	parts := make([]string, 0, len(deck.Grades))
	for _, g := range deck.Grades {
		label := fmt.Sprintf("%d %s", int(g), g)
		hint := r.Hints[g]
		c := theme.GradeColors[g-1]

		style := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c).
			Foreground(c).
			Align(lipgloss.Center).
			Width(12)
		if g == r.Selected {
			style = style.Bold(true).Reverse(true)
		}
		parts = append(parts, style.Render(label+"\n"+hint))
	}
	return strings.TrimRight(lipgloss.JoinHorizontal(lipgloss.Top, parts...), "\n")
}
