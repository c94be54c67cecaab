package translate

import (
	"fmt"

	"github.com/SanSalvad-or/DBT-RISE-RISCV/arch"
	"github.com/SanSalvad-or/DBT-RISE-RISCV/insts"
	"github.com/SanSalvad-or/DBT-RISE-RISCV/tcc"
)

// Softfloat selector conventions shared by the F and D handlers: fused ops
// FMADD=0/FMSUB=1/FNMADD=2/FNMSUB=3; compares EQ=0/LE=1/LT=2; min/max
// select 0/1; conversions to-int signed=0/unsigned=1, from-int signed=2/
// unsigned=3.
const (
	fuseMADD  = 0
	fuseMSUB  = 1
	fuseNMADD = 2
	fuseNMSUB = 3

	cmpFEQ = 0
	cmpFLE = 1
	cmpFLT = 2

	selMin = 0
	selMax = 1

	cvtToSigned     = 0
	cvtToUnsigned   = 1
	cvtFromSigned   = 2
	cvtFromUnsigned = 3
)

func (t *Translator) initFloatHandlers() {
	t.handlers[insts.OpFLW] = t.trFLW
	t.handlers[insts.OpFSW] = t.trFSW
	t.handlers[insts.OpFMADDS] = t.fusedSHandler(insts.OpFMADDS, fuseMADD)
	t.handlers[insts.OpFMSUBS] = t.fusedSHandler(insts.OpFMSUBS, fuseMSUB)
	t.handlers[insts.OpFNMADDS] = t.fusedSHandler(insts.OpFNMADDS, fuseNMADD)
	t.handlers[insts.OpFNMSUBS] = t.fusedSHandler(insts.OpFNMSUBS, fuseNMSUB)
	t.handlers[insts.OpFADDS] = t.arithSHandler(insts.OpFADDS, "fadd_s")
	t.handlers[insts.OpFSUBS] = t.arithSHandler(insts.OpFSUBS, "fsub_s")
	t.handlers[insts.OpFMULS] = t.arithSHandler(insts.OpFMULS, "fmul_s")
	t.handlers[insts.OpFDIVS] = t.arithSHandler(insts.OpFDIVS, "fdiv_s")
	t.handlers[insts.OpFSQRTS] = t.trFSQRTS
	t.handlers[insts.OpFSGNJS] = t.sgnjSHandler(insts.OpFSGNJS)
	t.handlers[insts.OpFSGNJNS] = t.sgnjSHandler(insts.OpFSGNJNS)
	t.handlers[insts.OpFSGNJXS] = t.sgnjSHandler(insts.OpFSGNJXS)
	t.handlers[insts.OpFMINS] = t.selSHandler(insts.OpFMINS, selMin)
	t.handlers[insts.OpFMAXS] = t.selSHandler(insts.OpFMAXS, selMax)
	t.handlers[insts.OpFCVTWS] = t.cvtWSHandler(insts.OpFCVTWS, cvtToSigned)
	t.handlers[insts.OpFCVTWUS] = t.cvtWSHandler(insts.OpFCVTWUS, cvtToUnsigned)
	t.handlers[insts.OpFEQS] = t.cmpSHandler(insts.OpFEQS, cmpFEQ)
	t.handlers[insts.OpFLTS] = t.cmpSHandler(insts.OpFLTS, cmpFLT)
	t.handlers[insts.OpFLES] = t.cmpSHandler(insts.OpFLES, cmpFLE)
	t.handlers[insts.OpFCLASSS] = t.trFCLASSS
	t.handlers[insts.OpFCVTSW] = t.cvtSWHandler(insts.OpFCVTSW, cvtFromSigned)
	t.handlers[insts.OpFCVTSWU] = t.cvtSWHandler(insts.OpFCVTSWU, cvtFromUnsigned)
	t.handlers[insts.OpFMVXW] = t.trFMVXW
	t.handlers[insts.OpFMVWX] = t.trFMVWX
}

func (t *Translator) trFLW(b *tcc.Builder, ic *instr) Continuation {
	rd, rs1, imm := rdOf(ic.word), rs1Of(ic.word), immI(ic.word)
	t.head(b, ic, insts.OpFLW,
		fmt.Sprintf("flw %s, %d(%s)", fa(rd), int32(imm), xa(rs1)))
	addr := b.Assign(b.Add(t.xLoad(b, rs1), b.Constant(uint64(imm), 32)), 32)
	v := b.ReadMem(arch.SpaceMem, addr, 32)
	b.Store(t.boxS(b, v), arch.RegF(rd))
	return t.tailCont(b, ic)
}

func (t *Translator) trFSW(b *tcc.Builder, ic *instr) Continuation {
	rs1, rs2, imm := rs1Of(ic.word), rs2Of(ic.word), immS(ic.word)
	t.head(b, ic, insts.OpFSW,
		fmt.Sprintf("fsw %s, %d(%s)", fa(rs2), int32(imm), xa(rs1)))
	addr := b.Assign(b.Add(t.xLoad(b, rs1), b.Constant(uint64(imm), 32)), 32)
	b.WriteMem(arch.SpaceMem, addr, b.Trunc(t.fLoad(b, rs2), 32))
	return t.tailCont(b, ic)
}

func (t *Translator) fusedSHandler(op insts.Op, fuse uint64) handlerFn {
	return func(b *tcc.Builder, ic *instr) Continuation {
		rd, rs1, rs2, rs3 := rdOf(ic.word), rs1Of(ic.word), rs2Of(ic.word), rs3Of(ic.word)
		rm := rmOf(ic.word)
		t.head(b, ic, op,
			fmt.Sprintf("%s %s, %s, %s, %s", op, fa(rd), fa(rs1), fa(rs2), fa(rs3)))
		res := b.CallF("fmadd_s", 32,
			t.unboxS(b, rs1), t.unboxS(b, rs2), t.unboxS(b, rs3),
			b.Constant(fuse, 32), t.rmValue(b, rm))
		b.Store(t.boxS(b, res), arch.RegF(rd))
		t.updateFFlags(b)
		return t.tailCont(b, ic)
	}
}

func (t *Translator) arithSHandler(op insts.Op, callee string) handlerFn {
	return func(b *tcc.Builder, ic *instr) Continuation {
		rd, rs1, rs2 := rdOf(ic.word), rs1Of(ic.word), rs2Of(ic.word)
		rm := rmOf(ic.word)
		t.head(b, ic, op,
			fmt.Sprintf("%s %s, %s, %s", op, fa(rd), fa(rs1), fa(rs2)))
		res := b.CallF(callee, 32,
			t.unboxS(b, rs1), t.unboxS(b, rs2), t.rmValue(b, rm))
		b.Store(t.boxS(b, res), arch.RegF(rd))
		t.updateFFlags(b)
		return t.tailCont(b, ic)
	}
}

func (t *Translator) trFSQRTS(b *tcc.Builder, ic *instr) Continuation {
	rd, rs1 := rdOf(ic.word), rs1Of(ic.word)
	rm := rmOf(ic.word)
	t.head(b, ic, insts.OpFSQRTS, fmt.Sprintf("fsqrt.s %s, %s", fa(rd), fa(rs1)))
	res := b.CallF("fsqrt_s", 32, t.unboxS(b, rs1), t.rmValue(b, rm))
	b.Store(t.boxS(b, res), arch.RegF(rd))
	t.updateFFlags(b)
	return t.tailCont(b, ic)
}

// sgnjSHandler emits the sign-bit mux for FSGNJ/FSGNJN/FSGNJX.
func (t *Translator) sgnjSHandler(op insts.Op) handlerFn {
	return func(b *tcc.Builder, ic *instr) Continuation {
		rd, rs1, rs2 := rdOf(ic.word), rs1Of(ic.word), rs2Of(ic.word)
		t.head(b, ic, op,
			fmt.Sprintf("%s %s, %s, %s", op, fa(rd), fa(rs1), fa(rs2)))
		a := b.Assign(t.unboxS(b, rs1), 32)
		c := b.Assign(t.unboxS(b, rs2), 32)
		signMask := b.Constant(0x80000000, 32)
		magMask := b.Constant(0x7FFFFFFF, 32)
		var sign tcc.Value
		switch op {
		case insts.OpFSGNJS:
			sign = b.And(c, signMask)
		case insts.OpFSGNJNS:
			sign = b.And(b.Not(c), signMask)
		default:
			sign = b.And(b.Xor(a, c), signMask)
		}
		res := b.Assign(b.Or(sign, b.And(a, magMask)), 32)
		b.Store(t.boxS(b, res), arch.RegF(rd))
		return t.tailCont(b, ic)
	}
}

func (t *Translator) selSHandler(op insts.Op, sel uint64) handlerFn {
	return func(b *tcc.Builder, ic *instr) Continuation {
		rd, rs1, rs2 := rdOf(ic.word), rs1Of(ic.word), rs2Of(ic.word)
		t.head(b, ic, op,
			fmt.Sprintf("%s %s, %s, %s", op, fa(rd), fa(rs1), fa(rs2)))
		res := b.CallF("fsel_s", 32,
			t.unboxS(b, rs1), t.unboxS(b, rs2), b.Constant(sel, 32))
		b.Store(t.boxS(b, res), arch.RegF(rd))
		t.updateFFlags(b)
		return t.tailCont(b, ic)
	}
}

func (t *Translator) cvtWSHandler(op insts.Op, sel uint64) handlerFn {
	return func(b *tcc.Builder, ic *instr) Continuation {
		rd, rs1 := rdOf(ic.word), rs1Of(ic.word)
		rm := rmOf(ic.word)
		t.head(b, ic, op, fmt.Sprintf("%s %s, %s", op, xa(rd), fa(rs1)))
		res := b.CallF("fcvt_s", 32,
			t.unboxS(b, rs1), b.Constant(sel, 32), t.rmValue(b, rm))
		if rd != 0 {
			b.Store(res, arch.RegX(rd))
		}
		t.updateFFlags(b)
		return t.tailCont(b, ic)
	}
}

func (t *Translator) cvtSWHandler(op insts.Op, sel uint64) handlerFn {
	return func(b *tcc.Builder, ic *instr) Continuation {
		rd, rs1 := rdOf(ic.word), rs1Of(ic.word)
		rm := rmOf(ic.word)
		t.head(b, ic, op, fmt.Sprintf("%s %s, %s", op, fa(rd), xa(rs1)))
		res := b.CallF("fcvt_s", 32,
			t.xLoad(b, rs1), b.Constant(sel, 32), t.rmValue(b, rm))
		b.Store(t.boxS(b, res), arch.RegF(rd))
		t.updateFFlags(b)
		return t.tailCont(b, ic)
	}
}

func (t *Translator) cmpSHandler(op insts.Op, sel uint64) handlerFn {
	return func(b *tcc.Builder, ic *instr) Continuation {
		rd, rs1, rs2 := rdOf(ic.word), rs1Of(ic.word), rs2Of(ic.word)
		t.head(b, ic, op,
			fmt.Sprintf("%s %s, %s, %s", op, xa(rd), fa(rs1), fa(rs2)))
		res := b.CallF("fcmp_s", 32,
			t.unboxS(b, rs1), t.unboxS(b, rs2), b.Constant(sel, 32))
		if rd != 0 {
			b.Store(res, arch.RegX(rd))
		}
		t.updateFFlags(b)
		return t.tailCont(b, ic)
	}
}

func (t *Translator) trFCLASSS(b *tcc.Builder, ic *instr) Continuation {
	rd, rs1 := rdOf(ic.word), rs1Of(ic.word)
	t.head(b, ic, insts.OpFCLASSS, fmt.Sprintf("fclass.s %s, %s", xa(rd), fa(rs1)))
	res := b.CallF("fclass_s", 32, t.unboxS(b, rs1))
	if rd != 0 {
		b.Store(res, arch.RegX(rd))
	}
	return t.tailCont(b, ic)
}

func (t *Translator) trFMVXW(b *tcc.Builder, ic *instr) Continuation {
	rd, rs1 := rdOf(ic.word), rs1Of(ic.word)
	t.head(b, ic, insts.OpFMVXW, fmt.Sprintf("fmv.x.w %s, %s", xa(rd), fa(rs1)))
	if rd != 0 {
		b.Store(b.Trunc(t.fLoad(b, rs1), 32), arch.RegX(rd))
	}
	return t.tailCont(b, ic)
}

func (t *Translator) trFMVWX(b *tcc.Builder, ic *instr) Continuation {
	rd, rs1 := rdOf(ic.word), rs1Of(ic.word)
	t.head(b, ic, insts.OpFMVWX, fmt.Sprintf("fmv.w.x %s, %s", fa(rd), xa(rs1)))
	b.Store(t.boxS(b, t.xLoad(b, rs1)), arch.RegF(rd))
	return t.tailCont(b, ic)
}
