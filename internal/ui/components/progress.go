package components

import (
	"charm.land/bubbles/v2/progress"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/flashai/internal/ui/theme"
)

// ProgressBar renders label followed by a bar of done out of total that
// fills the rest of width.
func ProgressBar(label string, done, total, width int) string {
	head := lipgloss.NewStyle().Foreground(theme.Text).Render(label) + "  "

	bar := progress.New(
		progress.WithColors(theme.Secondary),
		progress.WithFillCharacters('█', '░'),
		progress.WithoutPercentage(),
		progress.WithWidth(max(width-lipgloss.Width(head), 4)),
	)
	bar.EmptyColor = theme.Border

	var pct float64
	if total > 0 {
		pct = float64(done) / float64(total)
	}
	return head + bar.ViewAs(pct)
}
