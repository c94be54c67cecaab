package translate

import (
	"fmt"

	"github.com/SanSalvad-or/DBT-RISE-RISCV/arch"
	"github.com/SanSalvad-or/DBT-RISE-RISCV/insts"
	"github.com/SanSalvad-or/DBT-RISE-RISCV/tcc"
)

func (t *Translator) initMulHandlers() {
	t.handlers[insts.OpMUL] = t.trMUL
	t.handlers[insts.OpMULH] = t.mulhHandler(insts.OpMULH, true, true)
	t.handlers[insts.OpMULHSU] = t.mulhHandler(insts.OpMULHSU, true, false)
	t.handlers[insts.OpMULHU] = t.mulhHandler(insts.OpMULHU, false, false)
	t.handlers[insts.OpDIV] = t.trDIV
	t.handlers[insts.OpDIVU] = t.trDIVU
	t.handlers[insts.OpREM] = t.trREM
	t.handlers[insts.OpREMU] = t.trREMU
}

func (t *Translator) trMUL(b *tcc.Builder, ic *instr) Continuation {
	rd, rs1, rs2 := rdOf(ic.word), rs1Of(ic.word), rs2Of(ic.word)
	t.head(b, ic, insts.OpMUL,
		fmt.Sprintf("mul %s, %s, %s", xa(rd), xa(rs1), xa(rs2)))
	if rd != 0 {
		prod := b.Assign(b.Mul(
			b.Ext(t.xLoad(b, rs1), 64, true),
			b.Ext(t.xLoad(b, rs2), 64, true)), 64)
		b.Store(b.Trunc(prod, 32), arch.RegX(rd))
	}
	return t.tailCont(b, ic)
}

// mulhHandler covers the three upper-product forms; the signedness of each
// operand's widening is all that differs.
func (t *Translator) mulhHandler(op insts.Op, s1, s2 bool) handlerFn {
	return func(b *tcc.Builder, ic *instr) Continuation {
		rd, rs1, rs2 := rdOf(ic.word), rs1Of(ic.word), rs2Of(ic.word)
		t.head(b, ic, op,
			fmt.Sprintf("%s %s, %s, %s", op, xa(rd), xa(rs1), xa(rs2)))
		if rd != 0 {
			prod := b.Assign(b.Mul(
				b.Ext(t.xLoad(b, rs1), 64, s1),
				b.Ext(t.xLoad(b, rs2), 64, s2)), 64)
			b.Store(b.Trunc(b.LShr(prod, b.Constant(32, 64)), 32), arch.RegX(rd))
		}
		return t.tailCont(b, ic)
	}
}

func (t *Translator) trDIV(b *tcc.Builder, ic *instr) Continuation {
	rd, rs1, rs2 := rdOf(ic.word), rs1Of(ic.word), rs2Of(ic.word)
	t.head(b, ic, insts.OpDIV,
		fmt.Sprintf("div %s, %s, %s", xa(rd), xa(rs1), xa(rs2)))
	if rd != 0 {
		a := b.Assign(t.xLoad(b, rs1), 32)
		d := b.Assign(t.xLoad(b, rs2), 32)
		zero := b.ICmp(tcc.CmpEQ, d, b.Constant(0, 32))
		ovf := b.And(
			b.ICmp(tcc.CmpEQ, a, b.Constant(0x80000000, 32)),
			b.ICmp(tcc.CmpEQ, d, b.Constant(0xFFFFFFFF, 32)))
		q := b.Choose(zero,
			b.Constant(0xFFFFFFFF, 32),
			b.Choose(ovf, b.Constant(0x80000000, 32), b.SDiv(a, d)))
		b.Store(b.Assign(q, 32), arch.RegX(rd))
	}
	return t.tailCont(b, ic)
}

func (t *Translator) trDIVU(b *tcc.Builder, ic *instr) Continuation {
	rd, rs1, rs2 := rdOf(ic.word), rs1Of(ic.word), rs2Of(ic.word)
	t.head(b, ic, insts.OpDIVU,
		fmt.Sprintf("divu %s, %s, %s", xa(rd), xa(rs1), xa(rs2)))
	if rd != 0 {
		a := b.Assign(t.xLoad(b, rs1), 32)
		d := b.Assign(t.xLoad(b, rs2), 32)
		zero := b.ICmp(tcc.CmpEQ, d, b.Constant(0, 32))
		q := b.Choose(zero, b.Constant(0xFFFFFFFF, 32), b.UDiv(a, d))
		b.Store(b.Assign(q, 32), arch.RegX(rd))
	}
	return t.tailCont(b, ic)
}

func (t *Translator) trREM(b *tcc.Builder, ic *instr) Continuation {
	rd, rs1, rs2 := rdOf(ic.word), rs1Of(ic.word), rs2Of(ic.word)
	t.head(b, ic, insts.OpREM,
		fmt.Sprintf("rem %s, %s, %s", xa(rd), xa(rs1), xa(rs2)))
	if rd != 0 {
		a := b.Assign(t.xLoad(b, rs1), 32)
		d := b.Assign(t.xLoad(b, rs2), 32)
		zero := b.ICmp(tcc.CmpEQ, d, b.Constant(0, 32))
		ovf := b.And(
			b.ICmp(tcc.CmpEQ, a, b.Constant(0x80000000, 32)),
			b.ICmp(tcc.CmpEQ, d, b.Constant(0xFFFFFFFF, 32)))
		r := b.Choose(zero, a,
			b.Choose(ovf, b.Constant(0, 32), b.SRem(a, d)))
		b.Store(b.Assign(r, 32), arch.RegX(rd))
	}
	return t.tailCont(b, ic)
}

func (t *Translator) trREMU(b *tcc.Builder, ic *instr) Continuation {
	rd, rs1, rs2 := rdOf(ic.word), rs1Of(ic.word), rs2Of(ic.word)
	t.head(b, ic, insts.OpREMU,
		fmt.Sprintf("remu %s, %s, %s", xa(rd), xa(rs1), xa(rs2)))
	if rd != 0 {
		a := b.Assign(t.xLoad(b, rs1), 32)
		d := b.Assign(t.xLoad(b, rs2), 32)
		zero := b.ICmp(tcc.CmpEQ, d, b.Constant(0, 32))
		r := b.Choose(zero, a, b.URem(a, d))
		b.Store(b.Assign(r, 32), arch.RegX(rd))
	}
	return t.tailCont(b, ic)
}
