package store

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"entgo.io/ent"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	entschema "github.com/abhisek/skillbuilder/ent/schema"
)

// Table names.
const (
	tableLLMRequestEvents  = "llm_request_events"
	tableConversationTurns = "conversation_turns"
	tablePackEvents        = "pack_events"
	tableSnapshots         = "snapshots"
)

// entities maps each table to the ent schema that describes it. The
// migration tables are derived from the schema descriptors directly.
var entities = []struct {
	table  string
	schema ent.Interface
}{
	{tableLLMRequestEvents, entschema.LLMRequestEvent{}},
	{tableConversationTurns, entschema.ConversationTurn{}},
	{tablePackEvents, entschema.PackEvent{}},
	{tableSnapshots, entschema.Snapshot{}},
}

// migrate creates or updates every table.
func migrate(ctx context.Context, drv *entsql.Driver) error {
	tables, err := Tables()
	if err != nil {
		return err
	}
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	return m.Create(ctx, tables...)
}

// Tables returns the migration tables for every entity.
func Tables() ([]*schema.Table, error) {
	tables := make([]*schema.Table, 0, len(entities))
	for _, e := range entities {
		t, err := tableFor(e.table, e.schema)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", e.table, err)
		}
		tables = append(tables, t)
	}
	return tables, nil
}

func tableFor(name string, s ent.Interface) (*schema.Table, error) {
	t := schema.NewTable(name).
		AddPrimary(&schema.Column{Name: "id", Type: field.TypeInt, Increment: true})

	var (
		fields  []ent.Field
		indexes []ent.Index
	)
	for _, m := range s.Mixin() {
		fields = append(fields, m.Fields()...)
		indexes = append(indexes, m.Indexes()...)
	}
	fields = append(fields, s.Fields()...)
	indexes = append(indexes, s.Indexes()...)

	for _, f := range fields {
		d := f.Descriptor()
		if d.Err != nil {
			return nil, fmt.Errorf("field %s: %w", d.Name, d.Err)
		}
		t.AddColumn(columnFor(d))
	}

	for _, idx := range indexes {
		d := idx.Descriptor()
		idxName := name + "_" + strings.Join(d.Fields, "_")
		t.AddIndex(idxName, d.Unique, d.Fields)
	}
	return t, nil
}

func columnFor(d *field.Descriptor) *schema.Column {
	c := &schema.Column{
		Name:     d.Name,
		Type:     d.Info.Type,
		Unique:   d.Unique,
		Nullable: d.Optional,
	}
	if d.Info.Type == field.TypeString && d.Size > 0 {
		c.Size = int64(d.Size)
	}
	// Function defaults such as time.Now are applied at insert time.
	if d.Default != nil && reflect.TypeOf(d.Default).Kind() != reflect.Func {
		c.Default = d.Default
	}
	return c
}
