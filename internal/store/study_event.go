package store

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
)

const studyEventsTable = "study_events"

var studyEventColumns = []string{
	"id", "sequence", "timestamp", "session_id", "deck_id", "action",
	"batch_number", "batch_size", "correct", "to_review", "retry", "cards_graded",
}

func (r *eventRepo) AppendStudyEvent(ctx context.Context, data StudyEventData) error {
	switch data.Action {
	case StudyActionStart, StudyActionBatch, StudyActionExit:
	default:
		return fmt.Errorf("unknown study action %q", data.Action)
	}

	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args, err := sq.Insert(studyEventsTable).
		Columns(studyEventColumns[1:]...).
		Values(
			seqNum,
			time.Now().UnixMilli(),
			data.SessionID,
			data.DeckID,
			data.Action,
			data.BatchNumber,
			data.BatchSize,
			data.Correct,
			data.ToReview,
			data.Retry,
			data.CardsGraded,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save study event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryStudyEvents(ctx context.Context, deckID string, opts QueryOpts) ([]StudyEvent, error) {
	builder := sq.Select(studyEventColumns...).From(studyEventsTable)
	if deckID != "" {
		builder = builder.Where(sq.Eq{"deck_id": deckID})
	}
	builder = applyQueryOpts(builder, opts)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query study events: %w", err)
	}
	defer rows.Close()

	var events []StudyEvent
	for rows.Next() {
		var (
			e  StudyEvent
			ts int64
		)
		if err := rows.Scan(
			&e.ID, &e.Sequence, &ts, &e.SessionID, &e.DeckID, &e.Action,
			&e.BatchNumber, &e.BatchSize, &e.Correct, &e.ToReview, &e.Retry, &e.CardsGraded,
		); err != nil {
			return nil, fmt.Errorf("scan study event: %w", err)
		}
		e.Timestamp = time.UnixMilli(ts)
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepo) StudyTotals(ctx context.Context, deckID string) (StudyTotals, error) {
	builder := sq.Select(
		"COUNT(DISTINCT session_id)",
		"COUNT(*)",
		"COALESCE(SUM(batch_size), 0)",
		"COALESCE(SUM(correct), 0)",
		"COALESCE(SUM(to_review), 0)",
	).
		From(studyEventsTable).
		Where(sq.Eq{"action": StudyActionBatch})
	if deckID != "" {
		builder = builder.Where(sq.Eq{"deck_id": deckID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return StudyTotals{}, fmt.Errorf("build query: %w", err)
	}

	var t StudyTotals
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&t.Sessions, &t.Batches, &t.Cards, &t.Correct, &t.ToReview,
	); err != nil {
		return StudyTotals{}, fmt.Errorf("query study totals: %w", err)
	}
	return t, nil
}
