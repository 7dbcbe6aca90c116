// Package expr holds the predicate expressions the query planner pushes down
// to storage. The set of shapes is closed: column references, literals,
// binary comparisons, and the AND/OR connectives. Pruning matches on these
// shapes structurally and keeps any block whose predicate it cannot decide,
// so an expression outside the recognized forms costs performance, never
// correctness.
package expr

import (
	"fmt"

	"strata/meta"
)

// Expr is a pushed-down predicate expression. Implementations are the fixed
// set of types in this package.
type Expr interface {
	isExpr()
}

// Column references a table column by name.
type Column struct {
	Name string
}

// Literal is a constant scalar.
type Literal struct {
	Value meta.Value
}

// Op is a comparison operator.
type Op uint8

const (
	Gt Op = iota
	Ge
	Lt
	Le
	Eq
	Ne
)

func (o Op) String() string {
	switch o {
	case Gt:
		return ">"
	case Ge:
		return ">="
	case Lt:
		return "<"
	case Le:
		return "<="
	case Eq:
		return "="
	case Ne:
		return "<>"
	}
	return fmt.Sprintf("Op(%d)", uint8(o))
}

// Compare applies Op to two subexpressions.
type Compare struct {
	Left  Expr
	Op    Op
	Right Expr
}

// And is the conjunction of two predicates.
type And struct {
	Left, Right Expr
}

// Or is the disjunction of two predicates.
type Or struct {
	Left, Right Expr
}

func (Column) isExpr()  {}
func (Literal) isExpr() {}
func (Compare) isExpr() {}
func (And) isExpr()     {}
func (Or) isExpr()      {}

// Col references a column by name.
func Col(name string) Column { return Column{Name: name} }

// Lit wraps a Go scalar as a literal expression.
func Lit[T int | int64 | uint64 | float64 | string | bool](v T) Literal {
	switch x := any(v).(type) {
	case int:
		return Literal{Value: meta.Int64(int64(x))}
	case int64:
		return Literal{Value: meta.Int64(x)}
	case uint64:
		return Literal{Value: meta.UInt64(x)}
	case float64:
		return Literal{Value: meta.Float64(x)}
	case string:
		return Literal{Value: meta.String(x)}
	case bool:
		return Literal{Value: meta.Bool(x)}
	}
	return Literal{Value: meta.Null()}
}

// LitValue wraps an already-typed scalar as a literal expression.
func LitValue(v meta.Value) Literal { return Literal{Value: v} }

func (c Column) Gt(l Literal) Compare { return Compare{Left: c, Op: Gt, Right: l} }
func (c Column) Ge(l Literal) Compare { return Compare{Left: c, Op: Ge, Right: l} }
func (c Column) Lt(l Literal) Compare { return Compare{Left: c, Op: Lt, Right: l} }
func (c Column) Le(l Literal) Compare { return Compare{Left: c, Op: Le, Right: l} }
func (c Column) Eq(l Literal) Compare { return Compare{Left: c, Op: Eq, Right: l} }
func (c Column) Ne(l Literal) Compare { return Compare{Left: c, Op: Ne, Right: l} }

func (c Compare) And(other Expr) And { return And{Left: c, Right: other} }
func (c Compare) Or(other Expr) Or   { return Or{Left: c, Right: other} }
func (a And) And(other Expr) And     { return And{Left: a, Right: other} }
func (a And) Or(other Expr) Or       { return Or{Left: a, Right: other} }
func (o Or) And(other Expr) And      { return And{Left: o, Right: other} }
func (o Or) Or(other Expr) Or        { return Or{Left: o, Right: other} }

// Columns lists every column name referenced anywhere in the expression,
// without duplicates, in first-reference order.
func Columns(e Expr) []string {
	var names []string
	seen := make(map[string]struct{})
	var walk func(Expr)
	walk = func(e Expr) {
		switch x := e.(type) {
		case Column:
			if _, dup := seen[x.Name]; !dup {
				seen[x.Name] = struct{}{}
				names = append(names, x.Name)
			}
		case Compare:
			walk(x.Left)
			walk(x.Right)
		case And:
			walk(x.Left)
			walk(x.Right)
		case Or:
			walk(x.Left)
			walk(x.Right)
		}
	}
	walk(e)
	return names
}
