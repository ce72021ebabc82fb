package history

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/flashai/internal/store"
)

var testNow = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

// mockEventRepo serves fixed study events. Other EventRepo methods are unused.
type mockEventRepo struct {
	store.EventRepo
	events []store.StudyEvent
	err    error
}

func (m *mockEventRepo) QueryStudyEvents(context.Context, string, store.QueryOpts) ([]store.StudyEvent, error) {
	return m.events, m.err
}

func ev(seq int64, session string, data store.StudyEventData) store.StudyEvent {
	data.SessionID = session
	data.DeckID = "d1"
	return store.StudyEvent{Sequence: seq, Timestamp: testNow.Add(time.Duration(seq) * time.Minute), StudyEventData: data}
}

// newest first, as the repo returns them
func testEvents() []store.StudyEvent {
	return []store.StudyEvent{
		ev(6, "s2", store.StudyEventData{Action: store.StudyActionExit, CardsGraded: 2}),
		ev(5, "s2", store.StudyEventData{Action: store.StudyActionStart}),
		ev(4, "s1", store.StudyEventData{Action: store.StudyActionExit, CardsGraded: 20}),
		ev(3, "s1", store.StudyEventData{Action: store.StudyActionBatch, BatchNumber: 1, BatchSize: 10, Correct: 9, ToReview: 1, Retry: true, CardsGraded: 10}),
		ev(2, "s1", store.StudyEventData{Action: store.StudyActionBatch, BatchNumber: 1, BatchSize: 10, Correct: 6, ToReview: 4, CardsGraded: 10}),
		ev(1, "s1", store.StudyEventData{Action: store.StudyActionStart}),
	}
}

func loaded(t *testing.T, repo store.EventRepo) *HistoryScreen {
	t.Helper()
	s := New(repo, func(id string) string {
		if id == "d1" {
			return "Biology"
		}
		return ""
	})
	s.Update(s.Init()())
	return s
}

func TestGroupSessions(t *testing.T) {
	sessions := groupSessions(testEvents())
	require.Len(t, sessions, 2)

	assert.Equal(t, "s2", sessions[0].SessionID, "newest session first")
	assert.Empty(t, sessions[0].Batches)
	assert.Equal(t, 2, sessions[0].Graded)

	s1 := sessions[1]
	assert.Equal(t, testNow.Add(time.Minute), s1.Started)
	require.Len(t, s1.Batches, 2)
	assert.False(t, s1.Batches[0].Retry, "batches oldest first")
	correct, seen := s1.Correct()
	assert.Equal(t, 15, correct)
	assert.Equal(t, 20, seen)
}

func TestHistoryScreen_View(t *testing.T) {
	s := loaded(t, &mockEventRepo{events: testEvents()})
	view := s.View(100, 30)
	assert.Contains(t, view, "Biology")
	assert.Contains(t, view, "75%")
	assert.NotContains(t, view, "Batch 1")

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	view = s.View(100, 30)
	assert.Contains(t, view, "6/10 correct")
	assert.Contains(t, view, "retry")
}

func TestHistoryScreen_Empty(t *testing.T) {
	s := loaded(t, &mockEventRepo{})
	if !strings.Contains(s.View(80, 24), "No study sessions") {
		t.Error("expected empty message")
	}
}

func TestHistoryScreen_NilRepo(t *testing.T) {
	s := loaded(t, nil)
	if !s.loaded || len(s.sessions) != 0 {
		t.Error("nil repo should load as empty")
	}
}

func TestHistoryScreen_Error(t *testing.T) {
	s := loaded(t, &mockEventRepo{err: errors.New("db locked")})
	if !strings.Contains(s.View(80, 24), "db locked") {
		t.Error("expected error in view")
	}
}

func TestHistoryScreen_DeletedDeck(t *testing.T) {
	s := New(nil, nil)
	if s.name("gone") != "(deleted deck)" {
		t.Errorf("name = %q", s.name("gone"))
	}
}
