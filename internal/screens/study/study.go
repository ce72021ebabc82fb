// Package study is the screen that runs a batched study session over a deck.
package study

import (
	"context"
	"errors"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/flashai/internal/deck"
	"github.com/abhisek/flashai/internal/library"
	"github.com/abhisek/flashai/internal/router"
	"github.com/abhisek/flashai/internal/screen"
	"github.com/abhisek/flashai/internal/session"
	"github.com/abhisek/flashai/internal/spacedrep"
	"github.com/abhisek/flashai/internal/store"
	"github.com/abhisek/flashai/internal/ui/components"
	"github.com/abhisek/flashai/internal/ui/layout"
)

// Deps are the collaborators a study screen needs.
type Deps struct {
	Library *library.Service
	Events  store.EventRepo // optional
	Options session.Options
	Log     *zap.Logger
	Now     func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Options.Scheduler == nil {
		d.Options.Scheduler = spacedrep.NewScheduler()
	}
	return d
}

// StudyScreen implements screen.Screen for a study session.
type StudyScreen struct {
	deps      Deps
	deckID    string
	deckName  string
	all       bool
	sessionID string

	sess    *session.Session
	grades  components.GradeRow
	summary *session.BatchSummary

	// graded counts grades applied in this session, across batches.
	graded int
	notice string
	errMsg string
}

var _ screen.Screen = (*StudyScreen)(nil)
var _ screen.KeyHintProvider = (*StudyScreen)(nil)
var _ screen.BackHandler = (*StudyScreen)(nil)
var _ screen.Closer = (*StudyScreen)(nil)

// New creates a study screen for a deck. With all set every card is
// studied; otherwise only the due ones.
func New(deps Deps, deckID string, all bool) *StudyScreen {
	deps = deps.withDefaults()
	s := &StudyScreen{
		deps:      deps,
		deckID:    deckID,
		all:       all,
		sessionID: uuid.NewString(),
	}
	if d, ok := deps.Library.Deck(deckID); ok {
		s.deckName = d.Name
	}
	return s
}

func (s *StudyScreen) Init() tea.Cmd {
	lib, id, now, all := s.deps.Library, s.deckID, s.deps.Now(), s.all
	return func() tea.Msg {
		cards, err := lib.StudyQueue(id, now, all)
		return queueReadyMsg{Cards: cards, Err: err}
	}
}

func (s *StudyScreen) Title() string {
	if s.deckName == "" {
		return "Study"
	}
	return s.deckName
}

// HandlesBack reports that Esc ends the session here rather than in the app.
func (s *StudyScreen) HandlesBack() bool { return true }

func (s *StudyScreen) KeyHints() []layout.KeyHint {
	if s.errMsg != "" || s.sess == nil {
		return []layout.KeyHint{{Key: "any key", Description: "Back"}}
	}
	switch s.sess.Phase() {
	case session.PhaseStudying:
		if !s.sess.Revealed() {
			return []layout.KeyHint{
				{Key: "Space", Description: "Reveal"},
				{Key: "Esc", Description: "Exit"},
			}
		}
		return []layout.KeyHint{
			{Key: "1-4", Description: "Grade"},
			{Key: "←→ Enter", Description: "Choose"},
			{Key: "Esc", Description: "Exit"},
		}
	case session.PhaseBatchSummary:
		hints := []layout.KeyHint{}
		if s.summary != nil && s.summary.HasMore {
			hints = append(hints, layout.KeyHint{Key: "n", Description: "Next batch"})
		}
		return append(hints,
			layout.KeyHint{Key: "r", Description: "Retry batch"},
			layout.KeyHint{Key: "h", Description: "Home"},
		)
	default:
		if !s.all {
			return []layout.KeyHint{
				{Key: "a", Description: "Study all"},
				{Key: "any key", Description: "Back"},
			}
		}
		return []layout.KeyHint{{Key: "any key", Description: "Back"}}
	}
}

func (s *StudyScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case queueReadyMsg:
		return s.handleQueue(msg)
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *StudyScreen) handleQueue(msg queueReadyMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.errMsg = msg.Err.Error()
		return s, nil
	}

	reporter := s.deps.Library.Reporter(context.Background(), s.deckID)
	s.sess = session.Start(msg.Cards, s.deps.Options, reporter)
	if s.sess.Phase() == session.PhaseExited {
		return s, nil
	}

	s.appendEvent(store.StudyEventData{Action: store.StudyActionStart})
	s.deps.Log.Info("study session started",
		zap.String("session_id", s.sessionID),
		zap.String("deck_id", s.deckID),
		zap.Int("cards", len(msg.Cards)),
		zap.Bool("all", s.all))
	s.resetGrades()
	return s, nil
}

func (s *StudyScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" {
		return s, popCmd
	}
	if s.sess == nil {
		return s, nil
	}

	switch s.sess.Phase() {
	case session.PhaseStudying:
		return s.handleStudyingKey(msg, key)
	case session.PhaseBatchSummary:
		return s.handleSummaryKey(key)
	default:
		// Nothing to study.
		if key == "a" && !s.all {
			return s, func() tea.Msg {
				return router.ReplaceScreenMsg{Screen: New(s.deps, s.deckID, true)}
			}
		}
		return s, popCmd
	}
}

func (s *StudyScreen) handleStudyingKey(msg tea.KeyMsg, key string) (screen.Screen, tea.Cmd) {
	if key == "esc" {
		return s.finish()
	}

	if !s.sess.Revealed() {
		switch key {
		case "space", "enter":
			s.sess.Flip()
		}
		return s, nil
	}

	var (
		g      deck.Grade
		chosen bool
	)
	s.grades, g, chosen = s.grades.Update(msg)
	if !chosen {
		return s, nil
	}
	return s.grade(g)
}

func (s *StudyScreen) grade(g deck.Grade) (screen.Screen, tea.Cmd) {
	err := s.sess.Grade(g)
	if errors.Is(err, spacedrep.ErrContractViolation) || errors.Is(err, deck.ErrInvalidGrade) {
		s.deps.Log.Error("grade rejected", zap.Error(err))
		s.notice = "That grade could not be applied."
		return s, nil
	}
	s.graded++
	s.notice = ""
	if err != nil {
		s.reportFailure(err)
	}

	if s.sess.Phase() == session.PhaseBatchSummary {
		sum := s.sess.Summary()
		s.summary = &sum
		s.appendEvent(store.StudyEventData{
			Action:      store.StudyActionBatch,
			BatchNumber: sum.BatchNumber,
			BatchSize:   sum.Total,
			Correct:     sum.Correct,
			ToReview:    sum.ToReview,
			Retry:       sum.Retry,
			CardsGraded: sum.Correct + sum.ToReview,
		})
		return s, nil
	}
	s.resetGrades()
	return s, nil
}

func (s *StudyScreen) handleSummaryKey(key string) (screen.Screen, tea.Cmd) {
	switch key {
	case "n":
		if s.summary == nil || !s.summary.HasMore {
			return s, nil
		}
		s.sess.NextBatch()
	case "r":
		s.sess.RetryBatch()
	case "h", "esc":
		return s.finish()
	default:
		return s, nil
	}

	if s.sess.Phase() == session.PhaseExited {
		return s.finish()
	}
	s.summary = nil
	s.notice = ""
	s.resetGrades()
	return s, nil
}

// finish exits the session, flushing unsaved progress, and leaves the screen.
// A failed flush keeps the screen up with the error.
func (s *StudyScreen) finish() (screen.Screen, tea.Cmd) {
	err := s.sess.Exit()
	s.appendEvent(store.StudyEventData{Action: store.StudyActionExit, CardsGraded: s.graded})
	s.deps.Log.Info("study session ended",
		zap.String("session_id", s.sessionID),
		zap.Int("graded", s.graded),
		zap.Error(err))
	if err != nil {
		s.errMsg = "Your latest progress could not be saved: " + err.Error()
		return s, nil
	}
	return s, popCmd
}

// Close ends a running session when the program quits, flushing unsaved progress.
func (s *StudyScreen) Close() error {
	if s.sess == nil || s.sess.Phase() == session.PhaseExited {
		return nil
	}
	err := s.sess.Exit()
	s.appendEvent(store.StudyEventData{Action: store.StudyActionExit, CardsGraded: s.graded})
	return err
}

func (s *StudyScreen) reportFailure(err error) {
	s.deps.Log.Warn("saving study progress failed", zap.Error(err))
	s.notice = "Progress not saved yet. It will be retried when you leave."
}

func (s *StudyScreen) resetGrades() {
	card, ok := s.sess.CurrentCard()
	if !ok {
		return
	}
	hints := make(map[deck.Grade]string, len(deck.Grades))
	for g, days := range s.deps.Options.Scheduler.Preview(card) {
		hints[g] = spacedrep.FormatInterval(days)
	}
	s.grades = components.NewGradeRow(hints)
}

func (s *StudyScreen) appendEvent(e store.StudyEventData) {
	if s.deps.Events == nil {
		return
	}
	e.SessionID = s.sessionID
	e.DeckID = s.deckID
	if err := s.deps.Events.AppendStudyEvent(context.Background(), e); err != nil {
		s.deps.Log.Warn("append study event failed", zap.String("action", e.Action), zap.Error(err))
	}
}

func popCmd() tea.Msg { return router.PopScreenMsg{} }
