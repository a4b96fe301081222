package store

import (
	"context"
	"fmt"
	"slices"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var turnColumns = []string{
	"id", "sequence", "timestamp", "session_id", "turn_seq", "role",
	"text", "intent", "confidence", "reply_json", "screen",
}

func (r *eventRepo) AppendTurn(ctx context.Context, data TurnData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	q := r.builder().Insert(tableConversationTurns).
		Columns(turnColumns[1:]...).
		Values(
			seqNum, time.Now().UTC(), data.SessionID, data.TurnSeq, data.Role,
			data.Text, data.Intent, data.Confidence, data.ReplyJSON, data.Screen,
		)
	if err := r.exec(ctx, q); err != nil {
		return fmt.Errorf("save conversation turn: %w", err)
	}
	return nil
}

func (r *eventRepo) RecentTurns(ctx context.Context, limit int) ([]TurnRecord, error) {
	sel := r.builder().Select(turnColumns...).
		From(entsql.Table(tableConversationTurns)).
		OrderBy(entsql.Desc("sequence"))
	if limit > 0 {
		sel.Limit(limit)
	}

	var turns []TurnRecord
	if err := r.scan(ctx, sel, &turns); err != nil {
		return nil, fmt.Errorf("query conversation turns: %w", err)
	}
	slices.Reverse(turns)
	return turns, nil
}
