package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/flashai/internal/ui/theme"
)

// ContentWidth returns the uniform inner width used for centered panels.
func ContentWidth(frameWidth int) int {
	w := frameWidth - 6
	if w > 72 {
		w = 72
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Panel wraps content in a rounded-border box at the given content width.
func Panel(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw-2).
		Align(lipgloss.Center).
		Padding(1, 2).
		Render(content)
}

// CardFace renders one side of a flashcard: a small caption over the text.
// The answer side is drawn with the primary border.
func CardFace(caption, text string, answer bool, cw int) string {
	border := theme.Border
	captionColor := theme.TextDim
	if answer {
		border = theme.Primary
		captionColor = theme.Secondary
	}
	body := lipgloss.NewStyle().Foreground(captionColor).Render(caption) +
		"\n\n" +
		lipgloss.NewStyle().Foreground(theme.Text).Bold(!answer).Render(text)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(cw-2).
		Align(lipgloss.Center).
		Padding(1, 2).
		Render(body)
}
