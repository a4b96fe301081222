package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// snapshotRepo implements SnapshotRepo on the ent SQL builder.
type snapshotRepo struct {
	drv *entsql.Driver
}

var snapshotColumns = []string{"id", "sequence", "timestamp", "goal_id", "version", "data"}

type snapshotRow struct {
	ID        int       `sql:"id"`
	Sequence  int64     `sql:"sequence"`
	Timestamp time.Time `sql:"timestamp"`
	GoalID    string    `sql:"goal_id"`
	Version   int       `sql:"version"`
	Data      string    `sql:"data"`
}

func (r *snapshotRepo) Save(ctx context.Context, snap *Snapshot) error {
	data, err := json.Marshal(snap.Data)
	if err != nil {
		return fmt.Errorf("marshal snapshot data: %w", err)
	}
	ts := snap.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	query, args := entsql.Dialect(dialect.SQLite).Insert(tableSnapshots).
		Columns(snapshotColumns[1:]...).
		Values(snap.Sequence, ts.UTC(), snap.Data.ActiveGoalID, snap.Data.Version, string(data)).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (r *snapshotRepo) Latest(ctx context.Context) (*Snapshot, error) {
	rows, err := r.query(ctx, entsql.Dialect(dialect.SQLite).
		Select(snapshotColumns...).
		From(entsql.Table(tableSnapshots)).
		OrderBy(entsql.Desc("timestamp"), entsql.Desc("id")).
		Limit(1))
	if err != nil {
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	var data SnapshotData
	if err := json.Unmarshal([]byte(rows[0].Data), &data); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot data: %w", err)
	}
	return &Snapshot{
		ID:        rows[0].ID,
		Sequence:  rows[0].Sequence,
		Timestamp: rows[0].Timestamp,
		Data:      data,
	}, nil
}

func (r *snapshotRepo) Prune(ctx context.Context, keep int) error {
	rows, err := r.query(ctx, entsql.Dialect(dialect.SQLite).
		Select(snapshotColumns...).
		From(entsql.Table(tableSnapshots)).
		OrderBy(entsql.Desc("timestamp"), entsql.Desc("id")).
		Offset(keep).
		Limit(1))
	if err != nil {
		return fmt.Errorf("query snapshots for prune: %w", err)
	}
	if len(rows) == 0 {
		return nil
	}

	query, args := entsql.Dialect(dialect.SQLite).Delete(tableSnapshots).
		Where(entsql.LTE("id", rows[0].ID)).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}

func (r *snapshotRepo) query(ctx context.Context, sel *entsql.Selector) ([]snapshotRow, error) {
	query, args := sel.Query()
	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []snapshotRow
	if err := entsql.ScanSlice(rows, &out); err != nil {
		return nil, err
	}
	return out, nil
}
