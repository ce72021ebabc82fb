// Package history is the screen listing past study sessions.
package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/flashai/internal/screen"
	"github.com/abhisek/flashai/internal/store"
	"github.com/abhisek/flashai/internal/ui/layout"
	"github.com/abhisek/flashai/internal/ui/theme"
)

const queryLimit = 500

type historyLoadedMsg struct {
	Sessions []sessionRecord
	Err      error
}

// sessionRecord is one study session rebuilt from its events.
type sessionRecord struct {
	SessionID string
	DeckID    string
	Started   time.Time
	Graded    int
	Batches   []store.StudyEvent // oldest first
}

// Correct sums correct answers over the session's batches.
func (r sessionRecord) Correct() (correct, seen int) {
	for _, b := range r.Batches {
		correct += b.Correct
		seen += b.CardsGraded
	}
	return correct, seen
}

// HistoryScreen displays past study sessions and their batches.
type HistoryScreen struct {
	eventRepo store.EventRepo
	deckName  func(id string) string
	sessions  []sessionRecord
	selected  int
	expanded  map[int]bool
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen. deckName resolves deck IDs for display.
func New(eventRepo store.EventRepo, deckName func(id string) string) *HistoryScreen {
	return &HistoryScreen{
		eventRepo: eventRepo,
		deckName:  deckName,
		expanded:  make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.eventRepo
	return func() tea.Msg {
		if repo == nil {
			return historyLoadedMsg{}
		}
		events, err := repo.QueryStudyEvents(context.Background(), "", store.QueryOpts{Limit: queryLimit})
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		return historyLoadedMsg{Sessions: groupSessions(events)}
	}
}

// groupSessions folds newest-first events into sessions, newest session first.
func groupSessions(events []store.StudyEvent) []sessionRecord {
	index := make(map[string]int)
	var out []sessionRecord
	for _, e := range events {
		i, ok := index[e.SessionID]
		if !ok {
			i = len(out)
			index[e.SessionID] = i
			out = append(out, sessionRecord{SessionID: e.SessionID, DeckID: e.DeckID})
		}
		r := &out[i]
		switch e.Action {
		case store.StudyActionStart:
			r.Started = e.Timestamp
		case store.StudyActionBatch:
			r.Batches = append([]store.StudyEvent{e}, r.Batches...)
		case store.StudyActionExit:
			r.Graded = e.CardsGraded
		}
		if r.Started.IsZero() || e.Timestamp.Before(r.Started) {
			r.Started = e.Timestamp
		}
	}
	return out
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Batches"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.sessions = msg.Sessions
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.sessions) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No study sessions yet.")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, sess := range s.sessions {
		correct, seen := sess.Correct()
		accuracy := "-"
		if seen > 0 {
			accuracy = fmt.Sprintf("%.0f%%", float64(correct)/float64(seen)*100)
		}

		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		line := fmt.Sprintf("%s%s  %-20s  %d batches  %d cards  %s",
			prefix, sess.Started.Local().Format("Jan 02 15:04"), s.name(sess.DeckID),
			len(sess.Batches), sess.Graded, accuracy)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(renderBatches(sess.Batches, width))
		}
	}

	return b.String()
}

func (s *HistoryScreen) name(deckID string) string {
	if s.deckName != nil {
		if n := s.deckName(deckID); n != "" {
			return n
		}
	}
	return "(deleted deck)"
}

func renderBatches(batches []store.StudyEvent, width int) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true)
	if len(batches) == 0 {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, dim.Render("    No batches finished")) + "\n"
	}

	var b strings.Builder
	for _, e := range batches {
		line := fmt.Sprintf("    Batch %d  %d/%d correct  %d to review", e.BatchNumber, e.Correct, e.BatchSize, e.ToReview)
		style := lipgloss.NewStyle().Foreground(theme.Secondary)
		if e.Retry {
			line += "  retry"
			style = lipgloss.NewStyle().Foreground(theme.Accent)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}
	return b.String()
}
