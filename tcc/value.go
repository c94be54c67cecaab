// Package tcc builds translation-unit source text for the lightweight C
// compiler backend: emitted lines, fresh local names, per-unit cached
// register pointers, and expression nodes over them.
package tcc

import "fmt"

// Value is an emitted C expression of a known bit width.
type Value struct {
	expr string
	bits uint
}

// V wraps a raw expression string as a Value. The expression must already
// be parenthesized well enough to compose.
func V(expr string, bits uint) Value {
	return Value{expr: expr, bits: bits}
}

// Expr returns the C expression text.
func (v Value) Expr() string { return v.expr }

// Bits returns the value's width.
func (v Value) Bits() uint { return v.bits }

// IsZero reports whether the value is the zero Value (no expression).
func (v Value) IsZero() bool { return v.expr == "" }

// ctype maps a bit width to the C type emitted for it.
func ctype(bits uint) string {
	switch {
	case bits <= 8:
		return "uint8_t"
	case bits <= 16:
		return "uint16_t"
	case bits <= 32:
		return "uint32_t"
	default:
		return "uint64_t"
	}
}

// stype maps a bit width to the signed C type emitted for it.
func stype(bits uint) string {
	switch {
	case bits <= 8:
		return "int8_t"
	case bits <= 16:
		return "int16_t"
	case bits <= 32:
		return "int32_t"
	default:
		return "int64_t"
	}
}

// literal renders an unsigned constant of the given width.
func literal(v uint64, bits uint) string {
	if bits > 32 {
		return fmt.Sprintf("%#xULL", v)
	}
	return fmt.Sprintf("%#xU", v)
}

// Predicate selects an icmp comparison.
type Predicate int

// Comparison predicates.
const (
	CmpEQ Predicate = iota
	CmpNE
	CmpULT
	CmpULE
	CmpUGT
	CmpUGE
	CmpSLT
	CmpSLE
	CmpSGT
	CmpSGE
)

var cmpOps = [...]string{"==", "!=", "<", "<=", ">", ">=", "<", "<=", ">", ">="}

func (p Predicate) signed() bool { return p >= CmpSLT }
func (p Predicate) op() string   { return cmpOps[p] }
