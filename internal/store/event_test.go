package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLLMEvents_AppendQueryGet(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for i, purpose := range []string{"card-gen", "card-gen", "other"} {
		errMsg := ""
		if i == 2 {
			errMsg = "boom"
		}
		require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{
			Provider:     "gemini",
			Model:        "gemini-2.5-flash",
			Purpose:      purpose,
			InputTokens:  100 * (i + 1),
			OutputTokens: 10,
			LatencyMs:    int64(200 * (i + 1)),
			Success:      i != 2,
			ErrorMessage: errMsg,
			RequestBody:  `{"prompt":"x"}`,
			ResponseBody: `{"cards":[]}`,
		}))
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "other", events[0].Purpose, "newest first")
	assert.False(t, events[0].Success)
	assert.Equal(t, "boom", events[0].ErrorMessage)
	assert.Greater(t, events[0].Sequence, events[1].Sequence)

	limited, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	e, err := repo.GetLLMEvent(ctx, events[2].ID)
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, `{"prompt":"x"}`, e.RequestBody)
	assert.Equal(t, `{"cards":[]}`, e.ResponseBody)

	missing, err := repo.GetLLMEvent(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestLLMUsageAggregates(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	add := func(purpose, model string, in, out int, ok bool) {
		require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{
			Provider: "p", Model: model, Purpose: purpose,
			InputTokens: in, OutputTokens: out, LatencyMs: 100, Success: ok,
		}))
	}
	add("card-gen", "m1", 100, 10, true)
	add("card-gen", "m2", 200, 20, true)
	add("other", "m1", 50, 5, false)

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	require.NoError(t, err)
	require.Len(t, byPurpose, 2)
	assert.Equal(t, LLMUsage{Purpose: "card-gen", Calls: 2, InputTokens: 300, OutputTokens: 30, AvgLatencyMs: 100}, byPurpose[0])

	byModel, err := repo.LLMUsageByModel(ctx)
	require.NoError(t, err)
	require.Len(t, byModel, 2, "failed calls are not billed")
	assert.Equal(t, ModelUsage{Model: "m1", Calls: 1, InputTokens: 100, OutputTokens: 10}, byModel[0])
}

func TestStudyEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []StudyEventData{
		{SessionID: "s1", DeckID: "d1", Action: StudyActionStart},
		{SessionID: "s1", DeckID: "d1", Action: StudyActionBatch, BatchNumber: 1, BatchSize: 10, Correct: 7, ToReview: 3, CardsGraded: 10},
		{SessionID: "s1", DeckID: "d1", Action: StudyActionBatch, BatchNumber: 1, BatchSize: 10, Correct: 9, ToReview: 1, Retry: true, CardsGraded: 10},
		{SessionID: "s1", DeckID: "d1", Action: StudyActionExit, CardsGraded: 20},
		{SessionID: "s2", DeckID: "d2", Action: StudyActionBatch, BatchNumber: 1, BatchSize: 2, Correct: 2, CardsGraded: 2},
	}
	for _, e := range events {
		require.NoError(t, repo.AppendStudyEvent(ctx, e))
	}

	d1, err := repo.QueryStudyEvents(ctx, "d1", QueryOpts{})
	require.NoError(t, err)
	require.Len(t, d1, 4)
	assert.Equal(t, StudyActionExit, d1[0].Action)
	assert.True(t, d1[1].Retry)

	all, err := repo.QueryStudyEvents(ctx, "", QueryOpts{})
	require.NoError(t, err)
	assert.Len(t, all, 5)

	totals, err := repo.StudyTotals(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, StudyTotals{Sessions: 2, Batches: 3, Cards: 22, Correct: 18, ToReview: 4}, totals)
	assert.InDelta(t, 18.0/22.0, totals.Accuracy(), 1e-9)

	deckTotals, err := repo.StudyTotals(ctx, "d2")
	require.NoError(t, err)
	assert.Equal(t, 1, deckTotals.Batches)
}

func TestStudyEvents_RejectsUnknownAction(t *testing.T) {
	s := openTestStore(t)
	err := s.EventRepo().AppendStudyEvent(context.Background(), StudyEventData{Action: "pause"})
	assert.Error(t, err)
}

func TestEventsShareSequence(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendStudyEvent(ctx, StudyEventData{SessionID: "s", DeckID: "d", Action: StudyActionStart}))
	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{Provider: "p", Model: "m", Purpose: "x"}))

	study, err := repo.QueryStudyEvents(ctx, "", QueryOpts{})
	require.NoError(t, err)
	llmEvents, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), study[0].Sequence)
	assert.Equal(t, int64(2), llmEvents[0].Sequence)
}
