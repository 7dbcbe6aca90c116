package strata

import (
	"strata/expr"
	"strata/internal/pruning"
	"strata/meta"
)

// Prune filters snap's blocks against pushed-down predicates using block
// statistics only. It is a pure function of its arguments: no I/O, no shared
// state, deterministic output in snapshot order. Blocks are dropped only
// when some conjunct provably matches no row; anything undecidable keeps the
// block.
func Prune(schema *meta.Schema, filters []expr.Expr, snap *meta.TableSnapshot) ([]*meta.BlockMeta, error) {
	return pruning.New(snap).Apply(schema, filters)
}
