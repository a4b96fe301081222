package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var packEventColumns = []string{
	"id", "sequence", "timestamp", "goal_id", "pack_id",
	"day_number", "action", "items_played",
}

func (r *eventRepo) AppendPackEvent(ctx context.Context, data PackEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	q := r.builder().Insert(tablePackEvents).
		Columns(packEventColumns[1:]...).
		Values(
			seqNum, time.Now().UTC(), data.GoalID, data.PackID,
			data.DayNumber, data.Action, data.ItemsPlayed,
		)
	if err := r.exec(ctx, q); err != nil {
		return fmt.Errorf("save pack event: %w", err)
	}
	return nil
}

func (r *eventRepo) PackEvents(ctx context.Context, goalID string) ([]PackEvent, error) {
	sel := r.builder().Select(packEventColumns...).
		From(entsql.Table(tablePackEvents)).
		OrderBy(entsql.Asc("sequence"))
	if goalID != "" {
		sel.Where(entsql.EQ("goal_id", goalID))
	}

	var events []PackEvent
	if err := r.scan(ctx, sel, &events); err != nil {
		return nil, fmt.Errorf("query pack events: %w", err)
	}
	return events, nil
}
