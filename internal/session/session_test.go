package session

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/flashai/internal/deck"
	"github.com/abhisek/flashai/internal/spacedrep"
)

var testNow = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

type recordingReporter struct {
	calls [][]deck.Card
	err   error
}

func (r *recordingReporter) ReportProgress(cards []deck.Card) error {
	r.calls = append(r.calls, cards)
	return r.err
}

func makeCards(n int) []deck.Card {
	cards := make([]deck.Card, n)
	for i := range cards {
		id := fmt.Sprintf("c%d", i)
		cards[i] = deck.NewCard(id, "front "+id, "back "+id, testNow)
	}
	return cards
}

func testOpts(size int, policy RetryPolicy) Options {
	return Options{
		BatchSize: size,
		Retry:     policy,
		Scheduler: spacedrep.WithClock(func() time.Time { return testNow }),
	}
}

func gradeAll(t *testing.T, s *Session, grades ...deck.Grade) {
	t.Helper()
	for _, g := range grades {
		s.Flip()
		require.NoError(t, s.Grade(g))
	}
}

func workingByID(s *Session) map[string]deck.Card {
	out := map[string]deck.Card{}
	for _, c := range s.WorkingDeck() {
		out[c.ID] = c
	}
	return out
}

func TestStart_FirstBatch(t *testing.T) {
	s := Start(makeCards(25), testOpts(10, RetryRestore), nil)

	assert.Equal(t, PhaseStudying, s.Phase())
	assert.False(t, s.Revealed())
	pos, total := s.Progress()
	assert.Equal(t, 1, pos)
	assert.Equal(t, 10, total)
	assert.Equal(t, 1, s.BatchNumber())

	c, ok := s.CurrentCard()
	require.True(t, ok)
	assert.Equal(t, "c0", c.ID)
}

func TestStart_DefaultBatchSize(t *testing.T) {
	s := Start(makeCards(15), Options{}, nil)
	_, total := s.Progress()
	assert.Equal(t, DefaultBatchSize, total)
}

func TestStart_EmptyPoolExits(t *testing.T) {
	rep := &recordingReporter{}
	s := Start(nil, testOpts(10, RetryRestore), rep)

	assert.Equal(t, PhaseExited, s.Phase())
	assert.True(t, s.Exhausted())
	assert.NoError(t, s.Exit())
	assert.Empty(t, rep.calls)
}

func TestStart_CopiesCards(t *testing.T) {
	cards := makeCards(2)
	s := Start(cards, testOpts(10, RetryRestore), nil)
	gradeAll(t, s, deck.Good)

	assert.Equal(t, 0, cards[0].Interval, "caller's cards must not change")
	assert.Empty(t, cards[0].History)
}

func TestSession_ThreeNewCardsGood(t *testing.T) {
	rep := &recordingReporter{}
	s := Start(makeCards(3), testOpts(10, RetryRestore), rep)

	gradeAll(t, s, deck.Good, deck.Good, deck.Good)

	assert.Equal(t, PhaseBatchSummary, s.Phase())
	sum := s.Summary()
	assert.Equal(t, 1.0, sum.Accuracy)
	assert.Equal(t, 0, sum.ToReview)
	assert.False(t, sum.HasMore)
	assert.Empty(t, sum.Gaps)

	require.Len(t, rep.calls, 1)
	for _, c := range rep.calls[0] {
		assert.Equal(t, 1, c.Interval)
		assert.Equal(t, 1, c.Box)
		assert.Equal(t, testNow.Add(24*time.Hour), c.NextReviewDate)
	}
}

func TestSession_TwelveCardsTwoBatches(t *testing.T) {
	rep := &recordingReporter{}
	s := Start(makeCards(12), testOpts(10, RetryRestore), rep)

	gradeAll(t, s,
		deck.Good, deck.Again, deck.Good, deck.Hard, deck.Easy,
		deck.Good, deck.Good, deck.Again, deck.Good, deck.Good,
	)
	require.Equal(t, PhaseBatchSummary, s.Phase())

	sum := s.Summary()
	assert.Equal(t, 10, sum.Total)
	assert.Equal(t, 7, sum.Correct)
	assert.Equal(t, 3, sum.ToReview)
	assert.InDelta(t, 0.7, sum.Accuracy, 1e-9)
	assert.True(t, sum.HasMore)
	gapIDs := []string{sum.Gaps[0].ID, sum.Gaps[1].ID, sum.Gaps[2].ID}
	assert.Equal(t, []string{"c1", "c3", "c7"}, gapIDs)

	s.NextBatch()
	require.Equal(t, PhaseStudying, s.Phase())
	assert.Equal(t, 2, s.BatchNumber())
	pos, total := s.Progress()
	assert.Equal(t, 1, pos)
	assert.Equal(t, 2, total)
	ids := []string{s.Batch()[0].ID, s.Batch()[1].ID}
	assert.Equal(t, []string{"c10", "c11"}, ids)

	gradeAll(t, s, deck.Good, deck.Good)
	assert.False(t, s.Summary().HasMore)

	s.NextBatch()
	assert.Equal(t, PhaseExited, s.Phase())
	assert.True(t, s.Exhausted())
	assert.Len(t, rep.calls, 2)
}

func TestBatchesPartitionDeck(t *testing.T) {
	for _, n := range []int{1, 9, 10, 11, 20, 23} {
		s := Start(makeCards(n), testOpts(10, RetryRestore), nil)
		seen := map[string]int{}
		var sizes []int
		for s.Phase() == PhaseStudying {
			batch := s.Batch()
			sizes = append(sizes, len(batch))
			for _, c := range batch {
				seen[c.ID]++
				s.Flip()
				require.NoError(t, s.Grade(deck.Good))
			}
			s.NextBatch()
		}
		assert.Len(t, seen, n, "n=%d", n)
		for id, count := range seen {
			assert.Equal(t, 1, count, "card %s studied more than once (n=%d)", id, n)
		}
		for i, size := range sizes {
			assert.LessOrEqual(t, size, 10)
			if i < len(sizes)-1 {
				assert.Equal(t, 10, size, "only the last batch may be short")
			}
		}
	}
}

func TestBatches_TwentyFiveCards(t *testing.T) {
	s := Start(makeCards(25), testOpts(10, RetryRestore), nil)

	var sizes []int
	for s.Phase() == PhaseStudying {
		sizes = append(sizes, len(s.Batch()))
		for range s.Batch() {
			s.Flip()
			require.NoError(t, s.Grade(deck.Good))
		}
		require.Equal(t, PhaseBatchSummary, s.Phase())
		if len(sizes) == 3 {
			break
		}
		assert.True(t, s.Summary().HasMore, "batch %d", len(sizes))
		s.NextBatch()
	}

	assert.Equal(t, []int{10, 10, 5}, sizes)
	assert.False(t, s.Summary().HasMore)
	assert.Equal(t, 5, s.Summary().Total)

	s.NextBatch()
	assert.Equal(t, PhaseExited, s.Phase())
	assert.True(t, s.Exhausted())
}

func TestRetryBatch_SameCardsAndOrder(t *testing.T) {
	s := Start(makeCards(5), testOpts(3, RetryRestore), nil)
	before := s.Batch()
	gradeAll(t, s, deck.Again, deck.Good, deck.Hard)

	s.RetryBatch()

	require.Equal(t, PhaseStudying, s.Phase())
	assert.True(t, s.Retrying())
	assert.False(t, s.Revealed())
	pos, total := s.Progress()
	assert.Equal(t, 1, pos)
	assert.Equal(t, 3, total)
	after := s.Batch()
	for i := range before {
		assert.Equal(t, before[i].ID, after[i].ID)
	}
	assert.Equal(t, 1, s.BatchNumber(), "retry is not a new batch")
	assert.Equal(t, 0, s.Summary().ToReview, "grades cleared on retry")
}

func TestRetryRestore_LastGradeWins(t *testing.T) {
	s := Start(makeCards(2), testOpts(10, RetryRestore), nil)
	gradeAll(t, s, deck.Easy, deck.Easy)
	s.RetryBatch()
	gradeAll(t, s, deck.Good, deck.Good)

	for _, c := range s.WorkingDeck() {
		assert.Equal(t, 1, c.Interval, "Good on the original new card")
		assert.Equal(t, []deck.Grade{deck.Good}, c.History)
		assert.Equal(t, 2.5, c.EaseFactor)
	}
}

func TestRetryCompound_AppliesOnTop(t *testing.T) {
	s := Start(makeCards(1), testOpts(10, RetryCompound), nil)
	gradeAll(t, s, deck.Easy)
	s.RetryBatch()
	gradeAll(t, s, deck.Good)

	c := s.WorkingDeck()[0]
	assert.Equal(t, 7, c.Interval, "floor(3*2.5)")
	assert.Equal(t, []deck.Grade{deck.Easy, deck.Good}, c.History)
	assert.Equal(t, 2, c.Box)
}

func TestRetryPractice_LeavesWorkingDeck(t *testing.T) {
	rep := &recordingReporter{}
	s := Start(makeCards(2), testOpts(10, RetryPractice), rep)
	gradeAll(t, s, deck.Good, deck.Again)
	afterFirst := s.WorkingDeck()

	s.RetryBatch()
	gradeAll(t, s, deck.Easy, deck.Easy)

	assert.Equal(t, afterFirst, s.WorkingDeck())
	assert.Equal(t, 1.0, s.Summary().Accuracy)
	assert.Len(t, rep.calls, 1, "nothing new to report after practice")
	assert.False(t, s.Dirty())
}

func TestNoOpTransitions(t *testing.T) {
	rep := &recordingReporter{}
	s := Start(makeCards(3), testOpts(10, RetryRestore), rep)

	// Grade before reveal does nothing.
	require.NoError(t, s.Grade(deck.Good))
	pos, _ := s.Progress()
	assert.Equal(t, 1, pos)
	assert.Empty(t, s.Summary().Gaps)
	assert.Equal(t, 0, s.WorkingDeck()[0].Interval)

	// NextBatch and RetryBatch only act from the summary.
	s.NextBatch()
	s.RetryBatch()
	assert.Equal(t, PhaseStudying, s.Phase())
	assert.Equal(t, 1, s.BatchNumber())
	assert.False(t, s.Retrying())

	// Flip toggles.
	s.Flip()
	assert.True(t, s.Revealed())
	s.Flip()
	assert.False(t, s.Revealed())

	// Nothing works after exit.
	require.NoError(t, s.Exit())
	s.Flip()
	assert.False(t, s.Revealed())
	require.NoError(t, s.Grade(deck.Good))
	_, ok := s.CurrentCard()
	assert.False(t, ok)
	assert.Empty(t, rep.calls)
}

func TestFlipInSummaryIsNoOp(t *testing.T) {
	s := Start(makeCards(1), testOpts(10, RetryRestore), nil)
	gradeAll(t, s, deck.Good)
	s.Flip()
	assert.False(t, s.Revealed())
	assert.Equal(t, PhaseBatchSummary, s.Phase())
}

func TestGradeAdvancesAndHides(t *testing.T) {
	s := Start(makeCards(3), testOpts(10, RetryRestore), nil)
	s.Flip()
	require.NoError(t, s.Grade(deck.Hard))

	assert.False(t, s.Revealed())
	c, _ := s.CurrentCard()
	assert.Equal(t, "c1", c.ID)
	assert.Equal(t, 1, s.Summary().ToReview)
}

func TestExit_FlushesMidBatch(t *testing.T) {
	rep := &recordingReporter{}
	s := Start(makeCards(5), testOpts(10, RetryRestore), rep)
	gradeAll(t, s, deck.Good, deck.Again)

	require.NoError(t, s.Exit())
	require.Len(t, rep.calls, 1)
	assert.Len(t, rep.calls[0], 5)
	assert.Equal(t, 1, rep.calls[0][0].Interval)
	assert.Equal(t, []deck.Grade{deck.Again}, rep.calls[0][1].History)

	require.NoError(t, s.Exit())
	assert.Len(t, rep.calls, 1, "exit is idempotent")
	assert.Equal(t, PhaseExited, s.Phase())
}

func TestExit_NoGradesNoReport(t *testing.T) {
	rep := &recordingReporter{}
	s := Start(makeCards(5), testOpts(10, RetryRestore), rep)
	require.NoError(t, s.Exit())
	assert.Empty(t, rep.calls)
}

func TestExit_AfterBatchReportedDoesNotReportAgain(t *testing.T) {
	rep := &recordingReporter{}
	s := Start(makeCards(2), testOpts(10, RetryRestore), rep)
	gradeAll(t, s, deck.Good, deck.Good)
	require.NoError(t, s.Exit())
	assert.Len(t, rep.calls, 1)
}

func TestReporterError_RetriedOnExit(t *testing.T) {
	rep := &recordingReporter{err: errors.New("disk full")}
	s := Start(makeCards(2), testOpts(10, RetryRestore), rep)

	s.Flip()
	require.NoError(t, s.Grade(deck.Good))
	s.Flip()
	err := s.Grade(deck.Good)
	require.Error(t, err)
	assert.Equal(t, PhaseBatchSummary, s.Phase(), "transition happens despite the error")
	assert.True(t, s.Dirty())

	rep.err = nil
	require.NoError(t, s.Exit())
	assert.Len(t, rep.calls, 2)
	assert.False(t, s.Dirty())
}

func TestReporterError_FlushedWhenPoolRunsOut(t *testing.T) {
	rep := &recordingReporter{err: errors.New("disk full")}
	s := Start(makeCards(2), testOpts(10, RetryRestore), rep)

	s.Flip()
	require.NoError(t, s.Grade(deck.Good))
	s.Flip()
	require.Error(t, s.Grade(deck.Good))

	rep.err = nil
	s.NextBatch()
	require.Equal(t, PhaseExited, s.Phase())
	assert.True(t, s.Exhausted())
	assert.True(t, s.Dirty())

	require.NoError(t, s.Exit())
	require.Len(t, rep.calls, 2)
	assert.False(t, s.Dirty())
	for _, c := range rep.calls[1] {
		assert.Equal(t, []deck.Grade{deck.Good}, c.History, "card %s", c.ID)
	}

	require.NoError(t, s.Exit())
	assert.Len(t, rep.calls, 2, "nothing left to report")
}

func TestGrade_ContractErrorLeavesState(t *testing.T) {
	cards := makeCards(2)
	cards[0].EaseFactor = 0.5
	rep := &recordingReporter{}
	s := Start(cards, testOpts(10, RetryRestore), rep)

	s.Flip()
	err := s.Grade(deck.Good)
	require.ErrorIs(t, err, spacedrep.ErrContractViolation)

	assert.True(t, s.Revealed())
	pos, _ := s.Progress()
	assert.Equal(t, 1, pos)
	assert.Empty(t, s.WorkingDeck()[0].History)
	assert.False(t, s.Dirty())
}

func TestWorkingDeckPreservesIDsAndOrder(t *testing.T) {
	s := Start(makeCards(4), testOpts(2, RetryRestore), nil)
	gradeAll(t, s, deck.Easy, deck.Again)
	s.NextBatch()
	gradeAll(t, s, deck.Hard, deck.Good)

	wd := s.WorkingDeck()
	require.Len(t, wd, 4)
	for i, c := range wd {
		assert.Equal(t, fmt.Sprintf("c%d", i), c.ID)
		assert.Len(t, c.History, 1)
	}
}

func TestVisibleGaps(t *testing.T) {
	s := Start(makeCards(5), testOpts(10, RetryRestore), nil)
	gradeAll(t, s, deck.Again, deck.Again, deck.Hard, deck.Again, deck.Good)

	shown, more := s.Summary().VisibleGaps()
	assert.Len(t, shown, 3)
	assert.Equal(t, 1, more)
}

func TestParseRetryPolicy(t *testing.T) {
	tests := []struct {
		in   string
		want RetryPolicy
		err  bool
	}{
		{"restore", RetryRestore, false},
		{" Compound ", RetryCompound, false},
		{"practice", RetryPractice, false},
		{"bogus", RetryRestore, true},
	}
	for _, tt := range tests {
		got, err := ParseRetryPolicy(tt.in)
		if (err != nil) != tt.err {
			t.Errorf("ParseRetryPolicy(%q) err = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseRetryPolicy(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
