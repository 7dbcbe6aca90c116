// Package pruning decides, per stored block, whether a pushed-down predicate
// can possibly match any of the block's rows, using only the block's
// per-column statistics. The decision errs strictly toward keeping: a block
// is dropped only when some conjunct is provably unsatisfiable over the
// block's value range. Unrecognized expression shapes, missing statistics,
// and incomparable literals all fall back to keeping the block.
package pruning

import (
	"fmt"
	"runtime"
	"sync"

	"strata/expr"
	"strata/meta"
)

// BlockPruner filters one snapshot's block list against pushed-down
// predicates. It holds no mutable state; Apply is safe for concurrent use.
type BlockPruner struct {
	snap *meta.TableSnapshot
}

// New creates a pruner over snap.
func New(snap *meta.TableSnapshot) *BlockPruner {
	return &BlockPruner{snap: snap}
}

// Apply returns the blocks of the snapshot that may contain rows matching
// every filter, in snapshot order. A nil or empty filter set returns every
// block. A filter referencing a column absent from schema is an error.
//
// Each block is judged independently, so evaluation fans out across
// goroutines and the results merge back in snapshot order regardless of
// completion order.
func (p *BlockPruner) Apply(schema *meta.Schema, filters []expr.Expr) ([]*meta.BlockMeta, error) {
	blocks := p.snap.Blocks
	if len(filters) == 0 {
		return append([]*meta.BlockMeta(nil), blocks...), nil
	}

	for _, f := range filters {
		for _, name := range expr.Columns(f) {
			if _, ok := schema.Column(name); !ok {
				return nil, fmt.Errorf("%w: %q", meta.ErrUnknownColumn, name)
			}
		}
	}

	// Pre-flatten the conjunct lists; they are shared read-only by all
	// workers.
	var conjuncts []expr.Expr
	for _, f := range filters {
		conjuncts = appendConjuncts(conjuncts, f)
	}

	keep := make([]bool, len(blocks))
	workers := min(len(blocks), runtime.GOMAXPROCS(0))
	if workers <= 1 {
		for i, b := range blocks {
			keep[i] = !excluded(conjuncts, b)
		}
	} else {
		var wg sync.WaitGroup
		next := make(chan int, len(blocks))
		for i := range blocks {
			next <- i
		}
		close(next)
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range next {
					keep[i] = !excluded(conjuncts, blocks[i])
				}
			}()
		}
		wg.Wait()
	}

	survivors := make([]*meta.BlockMeta, 0, len(blocks))
	for i, b := range blocks {
		if keep[i] {
			survivors = append(survivors, b)
		}
	}
	return survivors, nil
}

// appendConjuncts splits an AND tree into its conjuncts. Anything that is
// not an AND node is a single conjunct, including OR trees, which are then
// handled (kept) by the fallback in excludes.
func appendConjuncts(dst []expr.Expr, e expr.Expr) []expr.Expr {
	if and, ok := e.(expr.And); ok {
		dst = appendConjuncts(dst, and.Left)
		return appendConjuncts(dst, and.Right)
	}
	return append(dst, e)
}

// excluded reports whether any conjunct is provably unsatisfiable over the
// block. All conjuncts must hold for a row to match, so one impossible
// conjunct suffices.
func excluded(conjuncts []expr.Expr, b *meta.BlockMeta) bool {
	for _, c := range conjuncts {
		if excludes(c, b) {
			return true
		}
	}
	return false
}

// excludes reports whether conjunct c rules out every row of the block.
// Only column-literal comparisons are decidable from min/max statistics;
// every other shape returns false.
func excludes(c expr.Expr, b *meta.BlockMeta) bool {
	col, op, lit, ok := asColumnComparison(c)
	if !ok {
		return false
	}
	stats := b.ColStats[col]
	if stats == nil {
		return false
	}
	// Comparisons are never satisfied by null, so a column of only nulls
	// makes any recognized comparison vacuously false.
	if stats.AllNull() {
		return true
	}
	if !stats.HasMinMax() {
		return false
	}

	cmpMin, okMin := meta.Compare(lit, stats.Min)
	cmpMax, okMax := meta.Compare(lit, stats.Max)

	switch op {
	case expr.Gt:
		// No row exceeds lit when max <= lit.
		return okMax && cmpMax >= 0
	case expr.Ge:
		return okMax && cmpMax > 0
	case expr.Lt:
		// No row is below lit when min >= lit.
		return okMin && cmpMin <= 0
	case expr.Le:
		return okMin && cmpMin < 0
	case expr.Eq:
		if okMin && cmpMin < 0 {
			return true
		}
		return okMax && cmpMax > 0
	case expr.Ne:
		// Every non-null row equals lit only when the range collapses to
		// lit itself; null rows never satisfy <> either.
		return okMin && okMax && cmpMin == 0 && cmpMax == 0
	}
	return false
}

// asColumnComparison normalizes a conjunct to (column, op, literal),
// flipping the operator when the literal is on the left.
func asColumnComparison(e expr.Expr) (string, expr.Op, meta.Value, bool) {
	cmp, ok := e.(expr.Compare)
	if !ok {
		return "", 0, meta.Value{}, false
	}
	if col, okL := cmp.Left.(expr.Column); okL {
		if lit, okR := cmp.Right.(expr.Literal); okR {
			return col.Name, cmp.Op, lit.Value, true
		}
	}
	if lit, okL := cmp.Left.(expr.Literal); okL {
		if col, okR := cmp.Right.(expr.Column); okR {
			return col.Name, flip(cmp.Op), lit.Value, true
		}
	}
	return "", 0, meta.Value{}, false
}

func flip(op expr.Op) expr.Op {
	switch op {
	case expr.Gt:
		return expr.Lt
	case expr.Ge:
		return expr.Le
	case expr.Lt:
		return expr.Gt
	case expr.Le:
		return expr.Ge
	}
	return op // Eq and Ne are symmetric
}
