package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// ConversationTurn is one persisted turn of an assistant conversation.
type ConversationTurn struct {
	ent.Schema
}

func (ConversationTurn) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (ConversationTurn) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			Comment("App session the turn belongs to"),
		field.Int("turn_seq").
			Comment("Position of the turn within its session"),
		field.String("role").
			Comment("user or assistant"),
		field.Text("text").
			Default(""),
		field.String("intent").
			Default(""),
		field.Float("confidence").
			Default(0),
		field.Text("reply_json").
			Default("").
			Comment("Structured reply as JSON, empty for user and fallback turns"),
		field.String("screen").
			Default("").
			Comment("Screen the learner was on when the turn was recorded"),
	}
}

func (ConversationTurn) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id", "turn_seq").Unique(),
	}
}
