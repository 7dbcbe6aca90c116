package meta

import "fmt"

// ColumnDef describes one column of a table schema.
type ColumnDef struct {
	Name     string `json:"name"`
	Type     Kind   `json:"type"`
	Nullable bool   `json:"nullable"`
}

// Schema is the fixed column layout of a table. It is set at table creation
// and never changes across snapshots.
type Schema struct {
	Columns []ColumnDef `json:"columns"`
}

// NewSchema builds a schema from column definitions. Column names must be
// unique and column types must be concrete (not null).
func NewSchema(cols ...ColumnDef) (*Schema, error) {
	if len(cols) == 0 {
		return nil, fmt.Errorf("%w: schema must have at least one column", ErrInvalidSchema)
	}
	seen := make(map[string]struct{}, len(cols))
	for _, c := range cols {
		if c.Name == "" {
			return nil, fmt.Errorf("%w: empty column name", ErrInvalidSchema)
		}
		if c.Type == KindNull {
			return nil, fmt.Errorf("%w: column %q has no concrete type", ErrInvalidSchema, c.Name)
		}
		if _, dup := seen[c.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate column %q", ErrInvalidSchema, c.Name)
		}
		seen[c.Name] = struct{}{}
	}
	return &Schema{Columns: cols}, nil
}

// Column returns the definition of the named column.
func (s *Schema) Column(name string) (ColumnDef, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnDef{}, false
}

// Index returns the position of the named column, or -1.
func (s *Schema) Index(name string) int {
	for i, c := range s.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Len returns the number of columns.
func (s *Schema) Len() int { return len(s.Columns) }

// Equal reports whether two schemas have identical column layouts.
func (s *Schema) Equal(o *Schema) bool {
	if s == nil || o == nil {
		return s == o
	}
	if len(s.Columns) != len(o.Columns) {
		return false
	}
	for i, c := range s.Columns {
		if c != o.Columns[i] {
			return false
		}
	}
	return true
}
