package snapio

import (
	"context"
	"encoding/json"
	"fmt"

	"strata/internal/objstore"
	"strata/meta"
)

const tableDefPrefix = "_tbl/"

// TableDef is the persisted definition of a table: everything fixed at
// creation time. The current snapshot location is deliberately not part of
// it; that lives in the pointer store and moves only through CAS.
type TableDef struct {
	Database string            `json:"database"`
	Name     string            `json:"name"`
	Engine   string            `json:"engine"`
	Schema   *meta.Schema      `json:"schema"`
	Options  map[string]string `json:"options,omitempty"`
}

// TableDefKey returns the object key for a table definition.
func TableDefKey(db, name string) string {
	return tableDefPrefix + db + "/" + name
}

// WriteTableDef persists a table definition.
func WriteTableDef(ctx context.Context, store objstore.Store, def *TableDef) error {
	payload, err := json.Marshal(def)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return store.Put(ctx, TableDefKey(def.Database, def.Name), seal(payload))
}

// ReadTableDef loads a table definition; the error wraps objstore.ErrNotExist
// when the table was never created.
func ReadTableDef(ctx context.Context, store objstore.Store, db, name string) (*TableDef, error) {
	data, err := store.Get(ctx, TableDefKey(db, name))
	if err != nil {
		return nil, err
	}
	payload, err := unseal(data)
	if err != nil {
		return nil, fmt.Errorf("table %s.%s: %w", db, name, err)
	}
	def := &TableDef{}
	if err := json.Unmarshal(payload, def); err != nil {
		return nil, fmt.Errorf("table %s.%s: %w: %v", db, name, ErrMalformed, err)
	}
	return def, nil
}
