package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/flashai/internal/ui/components"
	"github.com/abhisek/flashai/internal/ui/theme"
)

const logo = `╭──────╮
│ ?  ✓ │
╰──────╯`

func (h *HomeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, renderTitle(cw, height))

	if len(h.rows) == 0 {
		sections = append(sections, h.renderEmpty(cw))
	} else {
		sections = append(sections, h.renderDecks(cw))
	}

	switch {
	case h.deleting != nil:
		sections = append(sections, lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).
			Foreground(theme.Warning).Bold(true).
			Render(fmt.Sprintf("Delete \"%s\" and its %d cards? (y/n)", h.deleting.Name, h.deleting.Cards)))
	case h.errMsg != "":
		sections = append(sections, lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).
			Foreground(theme.Error).Render(h.errMsg))
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(sections, "\n\n"))
}

func renderTitle(cw, height int) string {
	title := theme.Title.Width(cw).Render("Your Library")
	if height < 20 {
		return title
	}
	art := lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Foreground(theme.Secondary).Render(logo)
	return art + "\n" + title
}

func (h *HomeScreen) renderEmpty(cw int) string {
	msg := theme.Subtitle.Width(cw).Render(
		"No decks yet. Create one from your notes, slides or images.")
	btn := lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(h.cta.View())
	return msg + "\n\n" + btn
}

func (h *HomeScreen) renderDecks(cw int) string {
	rows := h.menu.View(func(i int, selected bool) string {
		return renderRow(h.rows[i], selected, cw-6)
	})
	return components.Panel(rows, cw)
}

func renderRow(r deckRow, selected bool, width int) string {
	nameStyle := theme.Unselected
	prefix := "  "
	if selected {
		nameStyle = theme.Selected
		prefix = "▸ "
	}

	due := lipgloss.NewStyle().Foreground(theme.TextDim).Render("nothing due")
	if r.Due > 0 {
		due = lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(fmt.Sprintf("%d due", r.Due))
	}
	meta := lipgloss.NewStyle().Foreground(theme.TextDim).Render(
		fmt.Sprintf("%d %s · %s · ", r.Cards, plural(r.Cards, "card", "cards"), r.CreatedAt.Format("Jan 2, 2006")))

	line := nameStyle.Render(prefix+r.Name) + "\n" + "  " + meta + due
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Left).Render(line)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
