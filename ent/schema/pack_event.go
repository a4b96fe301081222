package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// PackEvent records a learner finishing a day's audio pack.
type PackEvent struct {
	ent.Schema
}

func (PackEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (PackEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("goal_id"),
		field.String("pack_id"),
		field.Int("day_number"),
		field.String("action").
			Comment("completed"),
		field.Int("items_played").
			Default(0).
			Comment("Items reached before the day was marked complete"),
	}
}

func (PackEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("goal_id"),
	}
}
