package tcc

import (
	"fmt"
	"strings"
)

// Channel names a memory channel of the architectural state. arch.Space
// satisfies it.
type Channel interface {
	Name() string
}

// RegSlot describes one register of the packed register block: the C
// identifier of its pointer local, its byte offset, and its width. Fixed
// slots are declared in the unit prologue; the rest are materialized on
// first use.
type RegSlot struct {
	Name   string
	Offset uint
	Bits   uint
	Fixed  bool
}

// Plan lists the register slots of the architectural state, indexed by
// register id.
type Plan struct {
	Slots []RegSlot
}

// Builder accumulates the source text of one translation unit. Pointer
// locals for registers are hoisted to the prologue so they stay visible to
// every instruction of the unit regardless of scope depth.
type Builder struct {
	plan     Plan
	lines    []string
	declMark int
	defined  []bool
	next     int
	depth    int
}

// NewBuilder creates a builder over the given register plan.
func NewBuilder(plan Plan) *Builder {
	return &Builder{
		plan:    plan,
		defined: make([]bool, len(plan.Slots)),
	}
}

// Prologue opens the unit function and declares the fixed register
// pointers plus the cur_pc_val scratch slot.
func (b *Builder) Prologue(name string) {
	b.Appendf("uint32_t %s(uint8_t *regs, void *core_ptr) {", name)
	for i, s := range b.plan.Slots {
		if !s.Fixed {
			continue
		}
		b.declareSlot(uint(i))
	}
	b.Appendf("uint32_t cur_pc_val = 0;")
	b.declMark = len(b.lines)
}

// CloseFunction closes the unit function.
func (b *Builder) CloseFunction() {
	b.Appendf("}")
}

// Appendf appends one formatted source line.
func (b *Builder) Appendf(format string, args ...any) {
	b.lines = append(b.lines, fmt.Sprintf(format, args...))
}

// Label emits a local label.
func (b *Builder) Label(name string) {
	b.Appendf("%s:", name)
}

// OpenScope opens a lexical scope for per-instruction locals.
func (b *Builder) OpenScope() {
	b.Appendf("{")
	b.depth++
}

// CloseScope closes the innermost scope.
func (b *Builder) CloseScope() {
	b.Appendf("}")
	b.depth--
}

// ScopeDepth returns the current scope nesting depth.
func (b *Builder) ScopeDepth() int { return b.depth }

func (b *Builder) fresh() string {
	n := fmt.Sprintf("v%d", b.next)
	b.next++
	return n
}

func (b *Builder) declareSlot(reg uint) {
	s := b.plan.Slots[reg]
	b.Appendf("%s *const %s = (%s *)(regs + %d);", ctype(s.Bits), s.Name, ctype(s.Bits), s.Offset)
	b.defined[reg] = true
}

// ensureReg materializes the pointer local for a register on first use.
// The declaration is inserted at the prologue mark so it has function
// scope.
func (b *Builder) ensureReg(reg uint) {
	if b.defined[reg] {
		return
	}
	s := b.plan.Slots[reg]
	decl := fmt.Sprintf("%s *const %s = (%s *)(regs + %d);", ctype(s.Bits), s.Name, ctype(s.Bits), s.Offset)
	b.lines = append(b.lines[:b.declMark], append([]string{decl}, b.lines[b.declMark:]...)...)
	b.declMark++
	b.defined[reg] = true
}

// DefinedRegs returns the defined-regs vector: entry i is true once the
// pointer local for integer register i has been materialized in this unit.
func (b *Builder) DefinedRegs() [32]bool {
	var v [32]bool
	copy(v[:], b.defined[:32])
	return v
}

// Constant yields a literal of the given width.
func (b *Builder) Constant(v uint64, bits uint) Value {
	return V(literal(v, bits), bits)
}

// Assign materializes v into a fresh local of the given width and returns
// the local.
func (b *Builder) Assign(v Value, bits uint) Value {
	name := b.fresh()
	expr := v.expr
	if v.bits != bits {
		expr = fmt.Sprintf("(%s)%s", ctype(bits), expr)
	}
	b.Appendf("%s %s = %s;", ctype(bits), name, expr)
	return V(name, bits)
}

// Load yields the current value of a register. The level parameter is the
// forward-reference depth; this core always reads the architectural
// current value (level 0).
func (b *Builder) Load(reg uint, level int) Value {
	_ = level
	b.ensureReg(reg)
	s := b.plan.Slots[reg]
	return V("*"+s.Name, s.Bits)
}

// Store writes v to a register.
func (b *Builder) Store(v Value, reg uint) {
	b.ensureReg(reg)
	s := b.plan.Slots[reg]
	expr := v.expr
	if v.bits != s.Bits {
		expr = fmt.Sprintf("(%s)%s", ctype(s.Bits), expr)
	}
	b.Appendf("*%s = %s;", s.Name, expr)
}

// ReadMem emits a channel read of the given width and returns the local
// holding the result.
func (b *Builder) ReadMem(ch Channel, addr Value, bits uint) Value {
	name := b.fresh()
	b.Appendf("%s %s = (%s)read_mem(core_ptr, %s, %s, %d);",
		ctype(bits), name, ctype(bits), ch.Name(), addr.expr, bits)
	return V(name, bits)
}

// WriteMem emits a channel write of v's width.
func (b *Builder) WriteMem(ch Channel, addr Value, v Value) {
	b.Appendf("write_mem(core_ptr, %s, %s, (uint64_t)%s, %d);",
		ch.Name(), addr.expr, v.expr, v.bits)
}

func (b *Builder) binary(op string, x, y Value) Value {
	return V(fmt.Sprintf("(%s %s %s)", x.expr, op, y.expr), x.bits)
}

func (b *Builder) signedBinary(op string, x, y Value) Value {
	st := stype(x.bits)
	expr := fmt.Sprintf("((%s)((%s)%s %s (%s)%s))", ctype(x.bits), st, x.expr, op, st, y.expr)
	return V(expr, x.bits)
}

// Add emits x + y.
func (b *Builder) Add(x, y Value) Value { return b.binary("+", x, y) }

// Sub emits x - y.
func (b *Builder) Sub(x, y Value) Value { return b.binary("-", x, y) }

// Mul emits x * y.
func (b *Builder) Mul(x, y Value) Value { return b.binary("*", x, y) }

// UDiv emits the unsigned quotient x / y.
func (b *Builder) UDiv(x, y Value) Value { return b.binary("/", x, y) }

// SDiv emits the signed quotient x / y.
func (b *Builder) SDiv(x, y Value) Value { return b.signedBinary("/", x, y) }

// URem emits the unsigned remainder x % y.
func (b *Builder) URem(x, y Value) Value { return b.binary("%", x, y) }

// SRem emits the signed remainder x % y.
func (b *Builder) SRem(x, y Value) Value { return b.signedBinary("%", x, y) }

// Shl emits x << y.
func (b *Builder) Shl(x, y Value) Value { return b.binary("<<", x, y) }

// LShr emits the logical right shift x >> y.
func (b *Builder) LShr(x, y Value) Value { return b.binary(">>", x, y) }

// AShr emits the arithmetic right shift of x by y.
func (b *Builder) AShr(x, y Value) Value {
	expr := fmt.Sprintf("((%s)((%s)%s >> %s))", ctype(x.bits), stype(x.bits), x.expr, y.expr)
	return V(expr, x.bits)
}

// And emits x & y.
func (b *Builder) And(x, y Value) Value { return b.binary("&", x, y) }

// Or emits x | y.
func (b *Builder) Or(x, y Value) Value { return b.binary("|", x, y) }

// Xor emits x ^ y.
func (b *Builder) Xor(x, y Value) Value { return b.binary("^", x, y) }

// Not emits the bitwise complement of x.
func (b *Builder) Not(x Value) Value {
	return V(fmt.Sprintf("(~%s)", x.expr), x.bits)
}

// Neg emits the two's complement negation of x.
func (b *Builder) Neg(x Value) Value {
	return V(fmt.Sprintf("((%s)-%s)", ctype(x.bits), x.expr), x.bits)
}

// ICmp emits the comparison p(x, y), yielding 0 or 1.
func (b *Builder) ICmp(p Predicate, x, y Value) Value {
	if p.signed() {
		st := stype(x.bits)
		return V(fmt.Sprintf("((%s)%s %s (%s)%s)", st, x.expr, p.op(), st, y.expr), 32)
	}
	return V(fmt.Sprintf("(%s %s %s)", x.expr, p.op(), y.expr), 32)
}

// Choose emits cond ? x : y. Only the selected arm is evaluated.
func (b *Builder) Choose(cond, x, y Value) Value {
	return V(fmt.Sprintf("(%s ? %s : %s)", cond.expr, x.expr, y.expr), x.bits)
}

// Ext widens v to the given width, sign- or zero-extending.
func (b *Builder) Ext(v Value, bits uint, isSigned bool) Value {
	if isSigned {
		expr := fmt.Sprintf("((%s)(%s)(%s)%s)", ctype(bits), stype(bits), stype(v.bits), v.expr)
		return V(expr, bits)
	}
	return V(fmt.Sprintf("((%s)%s)", ctype(bits), v.expr), bits)
}

// Trunc narrows v to the given width.
func (b *Builder) Trunc(v Value, bits uint) Value {
	return V(fmt.Sprintf("((%s)%s)", ctype(bits), v.expr), bits)
}

// CallF emits a call to a host-callable routine. With bits > 0 the result
// is materialized into a fresh local; with bits == 0 the call is a bare
// statement and the zero Value is returned.
func (b *Builder) CallF(name string, bits uint, args ...Value) Value {
	exprs := make([]string, len(args))
	for i, a := range args {
		exprs[i] = a.expr
	}
	call := fmt.Sprintf("%s(%s)", name, strings.Join(exprs, ", "))
	if bits == 0 {
		b.Appendf("%s;", call)
		return Value{}
	}
	local := b.fresh()
	b.Appendf("%s %s = %s;", ctype(bits), local, call)
	return V(local, bits)
}

// String returns the accumulated source text.
func (b *Builder) String() string {
	return strings.Join(b.lines, "\n") + "\n"
}
