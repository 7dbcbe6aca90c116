package meta

import (
	"fmt"
	"math"
	"strconv"
)

// Kind identifies the type of a scalar Value and of a schema column.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt64
	KindUInt64
	KindFloat64
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBool:
		return "Bool"
	case KindInt64:
		return "Int64"
	case KindUInt64:
		return "UInt64"
	case KindFloat64:
		return "Float64"
	case KindString:
		return "String"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Value is a single scalar in a column's type domain. The zero Value is null.
// Statistics bounds, predicate literals, and batch cells all share this
// representation so that every comparison in the engine goes through the
// same ordering.
type Value struct {
	Kind  Kind    `json:"k"`
	Bool  bool    `json:"b,omitempty"`
	Int   int64   `json:"i,omitempty"`
	Uint  uint64  `json:"u,omitempty"`
	Float float64 `json:"f,omitempty"`
	Str   string  `json:"s,omitempty"`
}

func Null() Value             { return Value{Kind: KindNull} }
func Bool(b bool) Value       { return Value{Kind: KindBool, Bool: b} }
func Int64(i int64) Value     { return Value{Kind: KindInt64, Int: i} }
func UInt64(u uint64) Value   { return Value{Kind: KindUInt64, Uint: u} }
func Float64(f float64) Value { return Value{Kind: KindFloat64, Float: f} }
func String(s string) Value   { return Value{Kind: KindString, Str: s} }

func (v Value) IsNull() bool { return v.Kind == KindNull }

func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindInt64:
		return strconv.FormatInt(v.Int, 10)
	case KindUInt64:
		return strconv.FormatUint(v.Uint, 10)
	case KindFloat64:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case KindString:
		return strconv.Quote(v.Str)
	}
	return "?"
}

// Compare orders two values. The second return is false when the pair has no
// defined ordering (nulls, kind mismatch outside the numeric kinds, NaN).
// Callers that cannot order a pair must not draw conclusions from it.
func Compare(a, b Value) (int, bool) {
	if a.IsNull() || b.IsNull() {
		return 0, false
	}
	if a.Kind == b.Kind {
		return compareSameKind(a, b)
	}
	if a.isNumeric() && b.isNumeric() {
		return compareNumeric(a, b)
	}
	return 0, false
}

func (v Value) isNumeric() bool {
	return v.Kind == KindInt64 || v.Kind == KindUInt64 || v.Kind == KindFloat64
}

func compareSameKind(a, b Value) (int, bool) {
	switch a.Kind {
	case KindBool:
		if a.Bool == b.Bool {
			return 0, true
		}
		if !a.Bool {
			return -1, true
		}
		return 1, true
	case KindInt64:
		return cmpOrdered(a.Int, b.Int), true
	case KindUInt64:
		return cmpOrdered(a.Uint, b.Uint), true
	case KindFloat64:
		if math.IsNaN(a.Float) || math.IsNaN(b.Float) {
			return 0, false
		}
		return cmpOrdered(a.Float, b.Float), true
	case KindString:
		return cmpOrdered(a.Str, b.Str), true
	}
	return 0, false
}

func cmpOrdered[T int64 | uint64 | float64 | string](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// compareNumeric orders values across the three numeric kinds without
// rounding either side through a lossy conversion. Large 64-bit integers are
// not representable exactly as float64, so int/uint vs float comparisons
// split into integer-part and fraction-part checks.
func compareNumeric(a, b Value) (int, bool) {
	// Normalize so the int/uint side is first.
	if a.Kind == KindFloat64 && b.Kind != KindFloat64 {
		c, ok := compareNumeric(b, a)
		return -c, ok
	}

	switch {
	case a.Kind == KindInt64 && b.Kind == KindUInt64:
		if a.Int < 0 {
			return -1, true
		}
		return cmpOrdered(uint64(a.Int), b.Uint), true
	case a.Kind == KindUInt64 && b.Kind == KindInt64:
		if b.Int < 0 {
			return 1, true
		}
		return cmpOrdered(a.Uint, uint64(b.Int)), true
	case a.Kind == KindInt64 && b.Kind == KindFloat64:
		return cmpInt64Float64(a.Int, b.Float)
	case a.Kind == KindUInt64 && b.Kind == KindFloat64:
		return cmpUint64Float64(a.Uint, b.Float)
	}
	return 0, false
}

func cmpInt64Float64(i int64, f float64) (int, bool) {
	if math.IsNaN(f) {
		return 0, false
	}
	if f >= maxInt64AsFloat {
		return -1, true
	}
	if f < minInt64AsFloat {
		return 1, true
	}
	trunc := math.Trunc(f)
	ti := int64(trunc)
	if i != ti {
		return cmpOrdered(i, ti), true
	}
	// Equal integer parts; the fraction breaks the tie.
	switch {
	case f > trunc:
		return -1, true
	case f < trunc:
		return 1, true
	}
	return 0, true
}

func cmpUint64Float64(u uint64, f float64) (int, bool) {
	if math.IsNaN(f) {
		return 0, false
	}
	if f < 0 {
		return 1, true
	}
	if f >= maxUint64AsFloat {
		return -1, true
	}
	trunc := math.Trunc(f)
	tu := uint64(trunc)
	if u != tu {
		return cmpOrdered(u, tu), true
	}
	switch {
	case f > trunc:
		return -1, true
	case f < trunc:
		return 1, true
	}
	return 0, true
}

const (
	// Exact float64 representations of 2^63 and 2^64. Any float at or above
	// these exceeds every value of the corresponding integer kind.
	maxInt64AsFloat  = 9223372036854775808.0
	minInt64AsFloat  = -9223372036854775808.0
	maxUint64AsFloat = 18446744073709551616.0
)
