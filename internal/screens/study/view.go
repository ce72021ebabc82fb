package study

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/flashai/internal/session"
	"github.com/abhisek/flashai/internal/ui/components"
	"github.com/abhisek/flashai/internal/ui/theme"
)

func (s *StudyScreen) View(width, height int) string {
	if s.errMsg != "" {
		return renderError(width, s.errMsg)
	}
	if s.sess == nil {
		return renderCentered(width, theme.TextDim, "\n\n\n  Preparing your cards...")
	}

	var body string
	switch s.sess.Phase() {
	case session.PhaseStudying:
		body = s.renderCard(width)
	case session.PhaseBatchSummary:
		body = s.renderSummary(width)
	default:
		body = s.renderNothingDue(width)
	}

	if s.notice != "" {
		body += "\n\n" + lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Inherit(theme.Notice).
			Render(s.notice)
	}
	return body
}

// renderCard renders the progress line, the card and, once revealed, the grade row.
func (s *StudyScreen) renderCard(width int) string {
	card, ok := s.sess.CurrentCard()
	if !ok {
		return ""
	}
	cw := components.ContentWidth(width)
	pos, total := s.sess.Progress()

	var b strings.Builder

	label := fmt.Sprintf("Batch %d  %d/%d", s.sess.BatchNumber(), pos, total)
	if s.sess.Retrying() {
		label += "  (retry)"
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, components.ProgressBar(label, pos-1, total, cw)))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		components.CardFace("QUESTION", card.Front, false, cw)))
	b.WriteString("\n")

	if !s.sess.Revealed() {
		b.WriteString("\n")
		b.WriteString(renderCentered(width, theme.TextDim, "Press space to reveal the answer"))
		return b.String()
	}

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		components.CardFace("ANSWER", card.Back, true, cw)))
	b.WriteString("\n\n")
	b.WriteString(renderCentered(width, theme.TextDim, "How well did you know this?"))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.grades.View()))
	return b.String()
}

// renderSummary renders the batch results and knowledge gaps.
func (s *StudyScreen) renderSummary(width int) string {
	sum := s.summary
	if sum == nil {
		return ""
	}
	cw := components.ContentWidth(width)

	var b strings.Builder
	title := fmt.Sprintf("Batch %d complete", sum.BatchNumber)
	if sum.Retry {
		title = fmt.Sprintf("Batch %d retried", sum.BatchNumber)
	}
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(title))
	b.WriteString("\n\n")

	accStyle := theme.Correct
	if sum.Accuracy < 0.7 {
		accStyle = theme.Incorrect
	}
	b.WriteString(accStyle.Render(fmt.Sprintf("%d%%", int(sum.Accuracy*100+0.5))))
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(" accuracy"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(
		fmt.Sprintf("%d of %d correct   %d to review", sum.Correct, sum.Total, sum.ToReview)))

	gaps, more := sum.VisibleGaps()
	if len(gaps) > 0 {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render("Knowledge gaps"))
		for _, g := range gaps {
			b.WriteString("\n")
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render("• " + truncate(g.Front, cw-8)))
		}
		if more > 0 {
			b.WriteString("\n")
			b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("+%d more", more)))
		}
	}

	b.WriteString("\n\n")
	var actions []string
	if sum.HasMore {
		actions = append(actions, "[n] Next batch")
	}
	actions = append(actions, "[r] Retry batch", "[h] Home")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Render(strings.Join(actions, "   ")))

	return "\n" + lipgloss.PlaceHorizontal(width, lipgloss.Center, components.Panel(b.String(), cw))
}

func (s *StudyScreen) renderNothingDue(width int) string {
	msg := "\n\n\n  No cards are due in this deck."
	if s.all {
		msg = "\n\n\n  This deck has no cards."
	} else {
		msg += "\n\n  Press a to study all cards, or any other key to go back."
	}
	return renderCentered(width, theme.TextDim, msg)
}

func renderCentered(width int, fg color.Color, text string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(fg).
		Render(text)
}

// renderError renders an error message.
func renderError(width int, errMsg string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render(fmt.Sprintf("\n\n\n  %s\n\n  Press any key to go back.", errMsg))
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(strings.ReplaceAll(s, "\n", " "))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-1]) + "…"
}
