package meta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSchema(t *testing.T) {
	t.Parallel()

	s, err := NewSchema(
		ColumnDef{Name: "a", Type: KindUInt64},
		ColumnDef{Name: "b", Type: KindString, Nullable: true},
	)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())

	def, ok := s.Column("b")
	require.True(t, ok)
	assert.Equal(t, KindString, def.Type)
	assert.True(t, def.Nullable)

	_, ok = s.Column("missing")
	assert.False(t, ok)
	assert.Equal(t, 0, s.Index("a"))
	assert.Equal(t, -1, s.Index("missing"))
}

func TestNewSchemaRejectsInvalid(t *testing.T) {
	t.Parallel()

	_, err := NewSchema()
	assert.ErrorIs(t, err, ErrInvalidSchema, "empty schema")

	_, err = NewSchema(ColumnDef{Name: "", Type: KindInt64})
	assert.ErrorIs(t, err, ErrInvalidSchema, "empty name")

	_, err = NewSchema(ColumnDef{Name: "a", Type: KindNull})
	assert.ErrorIs(t, err, ErrInvalidSchema, "null type")

	_, err = NewSchema(
		ColumnDef{Name: "a", Type: KindInt64},
		ColumnDef{Name: "a", Type: KindString},
	)
	assert.ErrorIs(t, err, ErrInvalidSchema, "duplicate column")
}

func TestSchemaEqual(t *testing.T) {
	t.Parallel()

	a, err := NewSchema(ColumnDef{Name: "x", Type: KindInt64})
	require.NoError(t, err)
	b, err := NewSchema(ColumnDef{Name: "x", Type: KindInt64})
	require.NoError(t, err)
	c, err := NewSchema(ColumnDef{Name: "x", Type: KindFloat64})
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))
}
