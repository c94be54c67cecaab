package translate

import (
	"fmt"

	"github.com/SanSalvad-or/DBT-RISE-RISCV/arch"
	"github.com/SanSalvad-or/DBT-RISE-RISCV/insts"
	"github.com/SanSalvad-or/DBT-RISE-RISCV/tcc"
)

func (t *Translator) initDoubleHandlers() {
	t.handlers[insts.OpFLD] = t.trFLD
	t.handlers[insts.OpFSD] = t.trFSD
	t.handlers[insts.OpFMADDD] = t.fusedDHandler(insts.OpFMADDD, fuseMADD)
	t.handlers[insts.OpFMSUBD] = t.fusedDHandler(insts.OpFMSUBD, fuseMSUB)
	t.handlers[insts.OpFNMADDD] = t.fusedDHandler(insts.OpFNMADDD, fuseNMADD)
	t.handlers[insts.OpFNMSUBD] = t.fusedDHandler(insts.OpFNMSUBD, fuseNMSUB)
	t.handlers[insts.OpFADDD] = t.arithDHandler(insts.OpFADDD, "fadd_d")
	t.handlers[insts.OpFSUBD] = t.arithDHandler(insts.OpFSUBD, "fsub_d")
	t.handlers[insts.OpFMULD] = t.arithDHandler(insts.OpFMULD, "fmul_d")
	t.handlers[insts.OpFDIVD] = t.arithDHandler(insts.OpFDIVD, "fdiv_d")
	t.handlers[insts.OpFSQRTD] = t.trFSQRTD
	t.handlers[insts.OpFSGNJD] = t.sgnjDHandler(insts.OpFSGNJD)
	t.handlers[insts.OpFSGNJND] = t.sgnjDHandler(insts.OpFSGNJND)
	t.handlers[insts.OpFSGNJXD] = t.sgnjDHandler(insts.OpFSGNJXD)
	t.handlers[insts.OpFMIND] = t.selDHandler(insts.OpFMIND, selMin)
	t.handlers[insts.OpFMAXD] = t.selDHandler(insts.OpFMAXD, selMax)
	t.handlers[insts.OpFCVTSD] = t.trFCVTSD
	t.handlers[insts.OpFCVTDS] = t.trFCVTDS
	t.handlers[insts.OpFEQD] = t.cmpDHandler(insts.OpFEQD, cmpFEQ)
	t.handlers[insts.OpFLTD] = t.cmpDHandler(insts.OpFLTD, cmpFLT)
	t.handlers[insts.OpFLED] = t.cmpDHandler(insts.OpFLED, cmpFLE)
	t.handlers[insts.OpFCLASSD] = t.trFCLASSD
	t.handlers[insts.OpFCVTWD] = t.cvtWDHandler(insts.OpFCVTWD, cvtToSigned)
	t.handlers[insts.OpFCVTWUD] = t.cvtWDHandler(insts.OpFCVTWUD, cvtToUnsigned)
	t.handlers[insts.OpFCVTDW] = t.cvtDWHandler(insts.OpFCVTDW, cvtFromSigned)
	t.handlers[insts.OpFCVTDWU] = t.cvtDWHandler(insts.OpFCVTDWU, cvtFromUnsigned)
}

func (t *Translator) trFLD(b *tcc.Builder, ic *instr) Continuation {
	rd, rs1, imm := rdOf(ic.word), rs1Of(ic.word), immI(ic.word)
	t.head(b, ic, insts.OpFLD,
		fmt.Sprintf("fld %s, %d(%s)", fa(rd), int32(imm), xa(rs1)))
	addr := b.Assign(b.Add(t.xLoad(b, rs1), b.Constant(uint64(imm), 32)), 32)
	v := b.ReadMem(arch.SpaceMem, addr, 64)
	b.Store(v, arch.RegF(rd))
	return t.tailCont(b, ic)
}

func (t *Translator) trFSD(b *tcc.Builder, ic *instr) Continuation {
	rs1, rs2, imm := rs1Of(ic.word), rs2Of(ic.word), immS(ic.word)
	t.head(b, ic, insts.OpFSD,
		fmt.Sprintf("fsd %s, %d(%s)", fa(rs2), int32(imm), xa(rs1)))
	addr := b.Assign(b.Add(t.xLoad(b, rs1), b.Constant(uint64(imm), 32)), 32)
	b.WriteMem(arch.SpaceMem, addr, t.fLoad(b, rs2))
	return t.tailCont(b, ic)
}

func (t *Translator) fusedDHandler(op insts.Op, fuse uint64) handlerFn {
	return func(b *tcc.Builder, ic *instr) Continuation {
		rd, rs1, rs2, rs3 := rdOf(ic.word), rs1Of(ic.word), rs2Of(ic.word), rs3Of(ic.word)
		rm := rmOf(ic.word)
		t.head(b, ic, op,
			fmt.Sprintf("%s %s, %s, %s, %s", op, fa(rd), fa(rs1), fa(rs2), fa(rs3)))
		res := b.CallF("fmadd_d", 64,
			t.fLoad(b, rs1), t.fLoad(b, rs2), t.fLoad(b, rs3),
			b.Constant(fuse, 32), t.rmValue(b, rm))
		b.Store(res, arch.RegF(rd))
		t.updateFFlags(b)
		return t.tailCont(b, ic)
	}
}

func (t *Translator) arithDHandler(op insts.Op, callee string) handlerFn {
	return func(b *tcc.Builder, ic *instr) Continuation {
		rd, rs1, rs2 := rdOf(ic.word), rs1Of(ic.word), rs2Of(ic.word)
		rm := rmOf(ic.word)
		t.head(b, ic, op,
			fmt.Sprintf("%s %s, %s, %s", op, fa(rd), fa(rs1), fa(rs2)))
		res := b.CallF(callee, 64,
			t.fLoad(b, rs1), t.fLoad(b, rs2), t.rmValue(b, rm))
		b.Store(res, arch.RegF(rd))
		t.updateFFlags(b)
		return t.tailCont(b, ic)
	}
}

func (t *Translator) trFSQRTD(b *tcc.Builder, ic *instr) Continuation {
	rd, rs1 := rdOf(ic.word), rs1Of(ic.word)
	rm := rmOf(ic.word)
	t.head(b, ic, insts.OpFSQRTD, fmt.Sprintf("fsqrt.d %s, %s", fa(rd), fa(rs1)))
	res := b.CallF("fsqrt_d", 64, t.fLoad(b, rs1), t.rmValue(b, rm))
	b.Store(res, arch.RegF(rd))
	t.updateFFlags(b)
	return t.tailCont(b, ic)
}

func (t *Translator) sgnjDHandler(op insts.Op) handlerFn {
	return func(b *tcc.Builder, ic *instr) Continuation {
		rd, rs1, rs2 := rdOf(ic.word), rs1Of(ic.word), rs2Of(ic.word)
		t.head(b, ic, op,
			fmt.Sprintf("%s %s, %s, %s", op, fa(rd), fa(rs1), fa(rs2)))
		a := b.Assign(t.fLoad(b, rs1), 64)
		c := b.Assign(t.fLoad(b, rs2), 64)
		signMask := b.Constant(0x8000000000000000, 64)
		magMask := b.Constant(0x7FFFFFFFFFFFFFFF, 64)
		var sign tcc.Value
		switch op {
		case insts.OpFSGNJD:
			sign = b.And(c, signMask)
		case insts.OpFSGNJND:
			sign = b.And(b.Not(c), signMask)
		default:
			sign = b.And(b.Xor(a, c), signMask)
		}
		b.Store(b.Or(sign, b.And(a, magMask)), arch.RegF(rd))
		return t.tailCont(b, ic)
	}
}

func (t *Translator) selDHandler(op insts.Op, sel uint64) handlerFn {
	return func(b *tcc.Builder, ic *instr) Continuation {
		rd, rs1, rs2 := rdOf(ic.word), rs1Of(ic.word), rs2Of(ic.word)
		t.head(b, ic, op,
			fmt.Sprintf("%s %s, %s, %s", op, fa(rd), fa(rs1), fa(rs2)))
		res := b.CallF("fsel_d", 64,
			t.fLoad(b, rs1), t.fLoad(b, rs2), b.Constant(sel, 32))
		b.Store(res, arch.RegF(rd))
		t.updateFFlags(b)
		return t.tailCont(b, ic)
	}
}

// trFCVTSD narrows double to single; the result is NaN-boxed.
func (t *Translator) trFCVTSD(b *tcc.Builder, ic *instr) Continuation {
	rd, rs1 := rdOf(ic.word), rs1Of(ic.word)
	rm := rmOf(ic.word)
	t.head(b, ic, insts.OpFCVTSD, fmt.Sprintf("fcvt.s.d %s, %s", fa(rd), fa(rs1)))
	res := b.CallF("fconv_d2f", 32, t.fLoad(b, rs1), t.rmValue(b, rm))
	b.Store(t.boxS(b, res), arch.RegF(rd))
	t.updateFFlags(b)
	return t.tailCont(b, ic)
}

// trFCVTDS widens single to double from the unboxed payload.
func (t *Translator) trFCVTDS(b *tcc.Builder, ic *instr) Continuation {
	rd, rs1 := rdOf(ic.word), rs1Of(ic.word)
	rm := rmOf(ic.word)
	t.head(b, ic, insts.OpFCVTDS, fmt.Sprintf("fcvt.d.s %s, %s", fa(rd), fa(rs1)))
	res := b.CallF("fconv_f2d", 64, t.unboxS(b, rs1), t.rmValue(b, rm))
	b.Store(res, arch.RegF(rd))
	t.updateFFlags(b)
	return t.tailCont(b, ic)
}

func (t *Translator) cmpDHandler(op insts.Op, sel uint64) handlerFn {
	return func(b *tcc.Builder, ic *instr) Continuation {
		rd, rs1, rs2 := rdOf(ic.word), rs1Of(ic.word), rs2Of(ic.word)
		t.head(b, ic, op,
			fmt.Sprintf("%s %s, %s, %s", op, xa(rd), fa(rs1), fa(rs2)))
		res := b.CallF("fcmp_d", 32,
			t.fLoad(b, rs1), t.fLoad(b, rs2), b.Constant(sel, 32))
		if rd != 0 {
			b.Store(res, arch.RegX(rd))
		}
		t.updateFFlags(b)
		return t.tailCont(b, ic)
	}
}

func (t *Translator) trFCLASSD(b *tcc.Builder, ic *instr) Continuation {
	rd, rs1 := rdOf(ic.word), rs1Of(ic.word)
	t.head(b, ic, insts.OpFCLASSD, fmt.Sprintf("fclass.d %s, %s", xa(rd), fa(rs1)))
	res := b.CallF("fclass_d", 32, t.fLoad(b, rs1))
	if rd != 0 {
		b.Store(res, arch.RegX(rd))
	}
	return t.tailCont(b, ic)
}

func (t *Translator) cvtWDHandler(op insts.Op, sel uint64) handlerFn {
	return func(b *tcc.Builder, ic *instr) Continuation {
		rd, rs1 := rdOf(ic.word), rs1Of(ic.word)
		rm := rmOf(ic.word)
		t.head(b, ic, op, fmt.Sprintf("%s %s, %s", op, xa(rd), fa(rs1)))
		res := b.CallF("fcvt_64_32", 32,
			t.fLoad(b, rs1), b.Constant(sel, 32), t.rmValue(b, rm))
		if rd != 0 {
			b.Store(res, arch.RegX(rd))
		}
		t.updateFFlags(b)
		return t.tailCont(b, ic)
	}
}

func (t *Translator) cvtDWHandler(op insts.Op, sel uint64) handlerFn {
	return func(b *tcc.Builder, ic *instr) Continuation {
		rd, rs1 := rdOf(ic.word), rs1Of(ic.word)
		rm := rmOf(ic.word)
		t.head(b, ic, op, fmt.Sprintf("%s %s, %s", op, fa(rd), xa(rs1)))
		res := b.CallF("fcvt_32_64", 64,
			t.xLoad(b, rs1), b.Constant(sel, 32), t.rmValue(b, rm))
		b.Store(res, arch.RegF(rd))
		t.updateFFlags(b)
		return t.tailCont(b, ic)
	}
}
