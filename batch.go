package strata

import (
	"context"
	"fmt"
	"io"

	"strata/meta"
)

// Batch is one in-memory unit of incoming data: column vectors in schema
// order, all the same length. Batches are validated against the table schema
// on construction and treated as read-only afterwards.
type Batch struct {
	schema *meta.Schema
	cols   [][]meta.Value
}

// NewBatch builds a batch over schema from column vectors given in schema
// order. Vector lengths must agree and every cell must be null or of the
// column's type; nulls are rejected for non-nullable columns.
func NewBatch(schema *meta.Schema, cols ...[]meta.Value) (*Batch, error) {
	if len(cols) != schema.Len() {
		return nil, fmt.Errorf("%w: %d columns for %d schema columns",
			ErrBatchShape, len(cols), schema.Len())
	}
	rows := -1
	for i, col := range cols {
		def := schema.Columns[i]
		if rows < 0 {
			rows = len(col)
		} else if len(col) != rows {
			return nil, fmt.Errorf("%w: column %q has %d rows, want %d",
				ErrBatchShape, def.Name, len(col), rows)
		}
		for _, v := range col {
			if v.IsNull() {
				if !def.Nullable {
					return nil, fmt.Errorf("%w: null in non-nullable column %q",
						ErrBatchShape, def.Name)
				}
				continue
			}
			if v.Kind != def.Type {
				return nil, fmt.Errorf("%w: %v value in %v column %q",
					ErrBatchShape, v.Kind, def.Type, def.Name)
			}
		}
	}
	return &Batch{schema: schema, cols: cols}, nil
}

// Rows returns the number of rows in the batch.
func (b *Batch) Rows() int {
	if len(b.cols) == 0 {
		return 0
	}
	return len(b.cols[0])
}

// Column returns the vector at schema position i.
func (b *Batch) Column(i int) []meta.Value { return b.cols[i] }

// Schema returns the batch's schema.
func (b *Batch) Schema() *meta.Schema { return b.schema }

// BatchIterator is a pull-based stream of batches. Next returns io.EOF after
// the last batch. The writer pulls one batch at a time, so producers never
// need the whole sequence in memory.
type BatchIterator interface {
	Next(ctx context.Context) (*Batch, error)
}

type sliceIterator struct {
	batches []*Batch
	pos     int
}

// Batches wraps a fixed set of batches as a BatchIterator.
func Batches(batches ...*Batch) BatchIterator {
	return &sliceIterator{batches: batches}
}

func (s *sliceIterator) Next(ctx context.Context) (*Batch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.pos >= len(s.batches) {
		return nil, io.EOF
	}
	b := s.batches[s.pos]
	s.pos++
	return b, nil
}
