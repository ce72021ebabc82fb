// Package layout draws the frame around every screen: a header with the
// library counts and a footer with the active screen's key hints.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/flashai/internal/ui/theme"
)

// Below this size the frame is replaced by a resize notice.
const (
	MinWidth  = 80
	MinHeight = 24
)

// KeyHint is one "key action" pair in the footer.
type KeyHint struct {
	Key         string
	Description string
}

var bar = lipgloss.NewStyle().
	Background(theme.BgCard).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(theme.Border).
	Padding(0, 1)

func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

func RenderMinSizeMessage(width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Text).Align(lipgloss.Center).Render(fmt.Sprintf(
			"Terminal too small\n\nFlashAI needs %d x %d, this one is %d x %d.",
			MinWidth, MinHeight, width, height)))
}

// RenderHeader shows the app name, the screen title centered, and the deck
// and due card counts on the right. Due is highlighted when nonzero.
func RenderHeader(title string, decks, due int, width int) string {
	inner := max(width-4, 0)

	name := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("FlashAI")
	dueStyle := lipgloss.NewStyle().Foreground(theme.TextDim)
	if due > 0 {
		dueStyle = dueStyle.Foreground(theme.Accent).Bold(true)
	}
	counts := lipgloss.NewStyle().Foreground(theme.Secondary).Render(fmt.Sprintf("▤ %d %s", decks, plural(decks, "deck", "decks"))) +
		"   " + dueStyle.Render(fmt.Sprintf("● %d due", due))

	// Title is centered on the whole bar, not on the space between the sides.
	centered := lipgloss.PlaceHorizontal(inner, lipgloss.Center, lipgloss.NewStyle().Foreground(theme.Text).Render(title))
	line := overlay(centered, name, counts, inner)
	return bar.Width(width).Render(line)
}

// overlay puts left and right over the edges of a line of the given width,
// keeping at least one space between them and the middle.
func overlay(middle, left, right string, width int) string {
	mid := strings.TrimSpace(middle)
	lw, mw, rw := lipgloss.Width(left), lipgloss.Width(mid), lipgloss.Width(right)
	leftGap := max((width-mw)/2-lw, 1)
	rightGap := max(width-lw-leftGap-mw-rw, 1)
	return left + strings.Repeat(" ", leftGap) + mid + strings.Repeat(" ", rightGap) + right
}

// RenderFooter lists the key hints left to right.
func RenderFooter(hints []KeyHint, width int) string {
	key := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	desc := lipgloss.NewStyle().Foreground(theme.TextDim)

	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = key.Render(h.Key) + " " + desc.Render(h.Description)
	}
	return bar.Width(width).Render(strings.Join(parts, "   "))
}

// RenderFrame stacks header, content and footer, giving the content all
// the rows the bars leave.
func RenderFrame(header, content, footer string, width, height int) string {
	rows := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().Width(width).Height(rows).MaxHeight(rows).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
