package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Snapshot is a serialized copy of journey progress. The newest row is
// loaded at startup; older rows are pruned.
type Snapshot struct {
	ent.Schema
}

func (Snapshot) Fields() []ent.Field {
	return []ent.Field{
		field.Int64("sequence").
			Comment("Highest pack event sequence folded into this snapshot"),
		field.Time("timestamp").
			Default(time.Now),
		field.String("goal_id").
			Default("").
			Comment("Active goal when the snapshot was taken, empty if none"),
		field.Int("version").
			Default(1),
		field.JSON("data", map[string]any{}),
	}
}

func (Snapshot) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("timestamp"),
		index.Fields("goal_id"),
	}
}
