package translate

import (
	"fmt"

	"github.com/SanSalvad-or/DBT-RISE-RISCV/arch"
	"github.com/SanSalvad-or/DBT-RISE-RISCV/insts"
	"github.com/SanSalvad-or/DBT-RISE-RISCV/tcc"
)

func (t *Translator) initCompressedHandlers() {
	t.handlers[insts.OpCADDI4SPN] = t.trCADDI4SPN
	t.handlers[insts.OpCFLD] = t.trCFLD
	t.handlers[insts.OpCLW] = t.trCLW
	t.handlers[insts.OpCFLW] = t.trCFLW
	t.handlers[insts.OpCFSD] = t.trCFSD
	t.handlers[insts.OpCSW] = t.trCSW
	t.handlers[insts.OpCFSW] = t.trCFSW
	t.handlers[insts.OpDII] = t.trDII
	t.handlers[insts.OpCADDI] = t.trCADDI
	t.handlers[insts.OpCNOP] = t.trCNOP
	t.handlers[insts.OpCJAL] = t.trCJAL
	t.handlers[insts.OpCLI] = t.trCLI
	t.handlers[insts.OpCLUI] = t.trCLUI
	t.handlers[insts.OpCADDI16SP] = t.trCADDI16SP
	t.handlers[insts.OpCSRLI] = t.cShiftHandler(insts.OpCSRLI, (*tcc.Builder).LShr)
	t.handlers[insts.OpCSRAI] = t.cShiftHandler(insts.OpCSRAI, (*tcc.Builder).AShr)
	t.handlers[insts.OpCANDI] = t.trCANDI
	t.handlers[insts.OpCSUB] = t.cArithHandler(insts.OpCSUB, (*tcc.Builder).Sub)
	t.handlers[insts.OpCXOR] = t.cArithHandler(insts.OpCXOR, (*tcc.Builder).Xor)
	t.handlers[insts.OpCOR] = t.cArithHandler(insts.OpCOR, (*tcc.Builder).Or)
	t.handlers[insts.OpCAND] = t.cArithHandler(insts.OpCAND, (*tcc.Builder).And)
	t.handlers[insts.OpCJ] = t.trCJ
	t.handlers[insts.OpCBEQZ] = t.cBranchHandler(insts.OpCBEQZ, tcc.CmpEQ)
	t.handlers[insts.OpCBNEZ] = t.cBranchHandler(insts.OpCBNEZ, tcc.CmpNE)
	t.handlers[insts.OpCSLLI] = t.trCSLLI
	t.handlers[insts.OpCFLDSP] = t.trCFLDSP
	t.handlers[insts.OpCLWSP] = t.trCLWSP
	t.handlers[insts.OpCFLWSP] = t.trCFLWSP
	t.handlers[insts.OpCMV] = t.trCMV
	t.handlers[insts.OpCJR] = t.trCJR
	t.handlers[insts.OpCADD] = t.trCADD
	t.handlers[insts.OpCJALR] = t.trCJALR
	t.handlers[insts.OpCEBREAK] = t.trCEBREAK
	t.handlers[insts.OpCFSDSP] = t.trCFSDSP
	t.handlers[insts.OpCSWSP] = t.trCSWSP
	t.handlers[insts.OpCFSWSP] = t.trCFSWSP
}

// spOffAddr emits x2 + offset, the address form shared by the
// stack-pointer-relative compressed accesses.
func (t *Translator) spOffAddr(b *tcc.Builder, off uint32) tcc.Value {
	return b.Assign(b.Add(t.xLoad(b, 2), b.Constant(uint64(off), 32)), 32)
}

func (t *Translator) trCADDI4SPN(b *tcc.Builder, ic *instr) Continuation {
	rd := cRdP(ic.word)
	uimm := ciwImm(ic.word)
	t.head(b, ic, insts.OpCADDI4SPN,
		fmt.Sprintf("c.addi4spn %s, %d", xa(rd), uimm))
	if uimm == 0 {
		t.raiseTrap(b, 0, 2)
		return t.tailEnd(b, ic, Branch)
	}
	sum := b.Assign(b.Add(t.xLoad(b, 2), b.Constant(uint64(uimm), 32)), 32)
	b.Store(sum, arch.RegX(rd))
	return t.tailCont(b, ic)
}

func (t *Translator) trCFLD(b *tcc.Builder, ic *instr) Continuation {
	rd, rs1 := cRdP(ic.word), cRs1P(ic.word)
	off := cldImm(ic.word)
	t.head(b, ic, insts.OpCFLD,
		fmt.Sprintf("c.fld %s, %d(%s)", fa(rd), off, xa(rs1)))
	addr := b.Assign(b.Add(t.xLoad(b, rs1), b.Constant(uint64(off), 32)), 32)
	b.Store(b.ReadMem(arch.SpaceMem, addr, 64), arch.RegF(rd))
	return t.tailCont(b, ic)
}

func (t *Translator) trCLW(b *tcc.Builder, ic *instr) Continuation {
	rd, rs1 := cRdP(ic.word), cRs1P(ic.word)
	off := clwImm(ic.word)
	t.head(b, ic, insts.OpCLW,
		fmt.Sprintf("c.lw %s, %d(%s)", xa(rd), off, xa(rs1)))
	addr := b.Assign(b.Add(t.xLoad(b, rs1), b.Constant(uint64(off), 32)), 32)
	b.Store(b.ReadMem(arch.SpaceMem, addr, 32), arch.RegX(rd))
	return t.tailCont(b, ic)
}

func (t *Translator) trCFLW(b *tcc.Builder, ic *instr) Continuation {
	rd, rs1 := cRdP(ic.word), cRs1P(ic.word)
	off := clwImm(ic.word)
	t.head(b, ic, insts.OpCFLW,
		fmt.Sprintf("c.flw %s, %d(%s)", fa(rd), off, xa(rs1)))
	addr := b.Assign(b.Add(t.xLoad(b, rs1), b.Constant(uint64(off), 32)), 32)
	b.Store(t.boxS(b, b.ReadMem(arch.SpaceMem, addr, 32)), arch.RegF(rd))
	return t.tailCont(b, ic)
}

func (t *Translator) trCFSD(b *tcc.Builder, ic *instr) Continuation {
	rs2, rs1 := cRs2P(ic.word), cRs1P(ic.word)
	off := cldImm(ic.word)
	t.head(b, ic, insts.OpCFSD,
		fmt.Sprintf("c.fsd %s, %d(%s)", fa(rs2), off, xa(rs1)))
	addr := b.Assign(b.Add(t.xLoad(b, rs1), b.Constant(uint64(off), 32)), 32)
	b.WriteMem(arch.SpaceMem, addr, t.fLoad(b, rs2))
	return t.tailCont(b, ic)
}

func (t *Translator) trCSW(b *tcc.Builder, ic *instr) Continuation {
	rs2, rs1 := cRs2P(ic.word), cRs1P(ic.word)
	off := clwImm(ic.word)
	t.head(b, ic, insts.OpCSW,
		fmt.Sprintf("c.sw %s, %d(%s)", xa(rs2), off, xa(rs1)))
	addr := b.Assign(b.Add(t.xLoad(b, rs1), b.Constant(uint64(off), 32)), 32)
	b.WriteMem(arch.SpaceMem, addr, t.xLoad(b, rs2))
	return t.tailCont(b, ic)
}

func (t *Translator) trCFSW(b *tcc.Builder, ic *instr) Continuation {
	rs2, rs1 := cRs2P(ic.word), cRs1P(ic.word)
	off := clwImm(ic.word)
	t.head(b, ic, insts.OpCFSW,
		fmt.Sprintf("c.fsw %s, %d(%s)", fa(rs2), off, xa(rs1)))
	addr := b.Assign(b.Add(t.xLoad(b, rs1), b.Constant(uint64(off), 32)), 32)
	b.WriteMem(arch.SpaceMem, addr, b.Trunc(t.fLoad(b, rs2), 32))
	return t.tailCont(b, ic)
}

// trDII handles the designated illegal instruction 0x0000.
func (t *Translator) trDII(b *tcc.Builder, ic *instr) Continuation {
	t.head(b, ic, insts.OpDII, "dii")
	t.raiseTrap(b, 0, 2)
	return t.tailEnd(b, ic, Branch)
}

func (t *Translator) trCADDI(b *tcc.Builder, ic *instr) Continuation {
	rs1 := cRd(ic.word)
	imm := ciImm(ic.word)
	t.head(b, ic, insts.OpCADDI,
		fmt.Sprintf("c.addi %s, %d", xa(rs1), int32(imm)))
	if rs1 != 0 {
		sum := b.Assign(b.Add(t.xLoad(b, rs1), b.Constant(uint64(imm), 32)), 32)
		b.Store(sum, arch.RegX(rs1))
	}
	return t.tailCont(b, ic)
}

func (t *Translator) trCNOP(b *tcc.Builder, ic *instr) Continuation {
	t.head(b, ic, insts.OpCNOP, "c.nop")
	return t.tailCont(b, ic)
}

func (t *Translator) trCJAL(b *tcc.Builder, ic *instr) Continuation {
	imm := cjImm(ic.word)
	t.head(b, ic, insts.OpCJAL, fmt.Sprintf("c.jal %d", int32(imm)))
	b.Store(b.Constant(uint64(ic.npc), 32), arch.RegX(1))
	b.Store(b.Constant(uint64(ic.pc+imm), 32), arch.RegNextPC)
	return t.tailEnd(b, ic, Branch)
}

func (t *Translator) trCLI(b *tcc.Builder, ic *instr) Continuation {
	rd := cRd(ic.word)
	imm := ciImm(ic.word)
	t.head(b, ic, insts.OpCLI, fmt.Sprintf("c.li %s, %d", xa(rd), int32(imm)))
	if rd == 0 {
		t.raiseTrap(b, 0, 2)
		return t.tailEnd(b, ic, Branch)
	}
	b.Store(b.Constant(uint64(imm), 32), arch.RegX(rd))
	return t.tailCont(b, ic)
}

func (t *Translator) trCLUI(b *tcc.Builder, ic *instr) Continuation {
	rd := cRd(ic.word)
	imm := cluiImm(ic.word)
	t.head(b, ic, insts.OpCLUI,
		fmt.Sprintf("c.lui %s, %#x", xa(rd), imm>>12&0x3F))
	if rd == 0 || imm == 0 {
		t.raiseTrap(b, 0, 2)
		return t.tailEnd(b, ic, Branch)
	}
	b.Store(b.Constant(uint64(imm), 32), arch.RegX(rd))
	return t.tailCont(b, ic)
}

func (t *Translator) trCADDI16SP(b *tcc.Builder, ic *instr) Continuation {
	imm := c16spImm(ic.word)
	t.head(b, ic, insts.OpCADDI16SP,
		fmt.Sprintf("c.addi16sp %d", int32(imm)))
	sum := b.Assign(b.Add(t.xLoad(b, 2), b.Constant(uint64(imm), 32)), 32)
	b.Store(sum, arch.RegX(2))
	return t.tailCont(b, ic)
}

func (t *Translator) cShiftHandler(op insts.Op, f binaryOp) handlerFn {
	return func(b *tcc.Builder, ic *instr) Continuation {
		rs1 := cRs1P(ic.word)
		shamt := cShamt(ic.word)
		t.head(b, ic, op, fmt.Sprintf("%s %s, %d", op, xa(rs1), shamt))
		v := b.Assign(f(b, t.xLoad(b, rs1), b.Constant(uint64(shamt), 32)), 32)
		b.Store(v, arch.RegX(rs1))
		return t.tailCont(b, ic)
	}
}

func (t *Translator) trCANDI(b *tcc.Builder, ic *instr) Continuation {
	rs1 := cRs1P(ic.word)
	imm := ciImm(ic.word)
	t.head(b, ic, insts.OpCANDI,
		fmt.Sprintf("c.andi %s, %d", xa(rs1), int32(imm)))
	v := b.Assign(b.And(t.xLoad(b, rs1), b.Constant(uint64(imm), 32)), 32)
	b.Store(v, arch.RegX(rs1))
	return t.tailCont(b, ic)
}

func (t *Translator) cArithHandler(op insts.Op, f binaryOp) handlerFn {
	return func(b *tcc.Builder, ic *instr) Continuation {
		rd, rs2 := cRs1P(ic.word), cRs2P(ic.word)
		t.head(b, ic, op, fmt.Sprintf("%s %s, %s", op, xa(rd), xa(rs2)))
		v := b.Assign(f(b, t.xLoad(b, rd), t.xLoad(b, rs2)), 32)
		b.Store(v, arch.RegX(rd))
		return t.tailCont(b, ic)
	}
}

func (t *Translator) trCJ(b *tcc.Builder, ic *instr) Continuation {
	imm := cjImm(ic.word)
	t.head(b, ic, insts.OpCJ, fmt.Sprintf("c.j %d", int32(imm)))
	b.Store(b.Constant(uint64(ic.pc+imm), 32), arch.RegNextPC)
	return t.tailEnd(b, ic, Branch)
}

func (t *Translator) cBranchHandler(op insts.Op, p tcc.Predicate) handlerFn {
	return func(b *tcc.Builder, ic *instr) Continuation {
		rs1 := cRs1P(ic.word)
		imm := cbImm(ic.word)
		t.head(b, ic, op, fmt.Sprintf("%s %s, %d", op, xa(rs1), int32(imm)))
		cond := b.Assign(b.ICmp(p, t.xLoad(b, rs1), b.Constant(0, 32)), 32)
		taken := ic.pc + imm
		target := b.Choose(cond,
			b.Constant(uint64(taken), 32),
			b.Constant(uint64(ic.npc), 32))
		b.Store(target, arch.RegNextPC)
		selfBranch := uint64(1)
		if taken == ic.pc {
			selfBranch = 0
		}
		b.Store(b.Constant(selfBranch, 32), arch.RegLastBranch)
		return t.tailEnd(b, ic, Branch)
	}
}

func (t *Translator) trCSLLI(b *tcc.Builder, ic *instr) Continuation {
	rs1 := cRd(ic.word)
	shamt := cShamt(ic.word)
	t.head(b, ic, insts.OpCSLLI,
		fmt.Sprintf("c.slli %s, %d", xa(rs1), shamt))
	if rs1 == 0 {
		t.raiseTrap(b, 0, 2)
		return t.tailEnd(b, ic, Branch)
	}
	v := b.Assign(b.Shl(t.xLoad(b, rs1), b.Constant(uint64(shamt), 32)), 32)
	b.Store(v, arch.RegX(rs1))
	return t.tailCont(b, ic)
}

func (t *Translator) trCFLDSP(b *tcc.Builder, ic *instr) Continuation {
	rd := cRd(ic.word)
	off := cldspImm(ic.word)
	t.head(b, ic, insts.OpCFLDSP,
		fmt.Sprintf("c.fldsp %s, %d(sp)", fa(rd), off))
	addr := t.spOffAddr(b, off)
	b.Store(b.ReadMem(arch.SpaceMem, addr, 64), arch.RegF(rd))
	return t.tailCont(b, ic)
}

func (t *Translator) trCLWSP(b *tcc.Builder, ic *instr) Continuation {
	rd := cRd(ic.word)
	off := clwspImm(ic.word)
	t.head(b, ic, insts.OpCLWSP,
		fmt.Sprintf("c.lwsp %s, %d(sp)", xa(rd), off))
	addr := t.spOffAddr(b, off)
	v := b.ReadMem(arch.SpaceMem, addr, 32)
	if rd != 0 {
		b.Store(v, arch.RegX(rd))
	}
	return t.tailCont(b, ic)
}

func (t *Translator) trCFLWSP(b *tcc.Builder, ic *instr) Continuation {
	rd := cRd(ic.word)
	off := clwspImm(ic.word)
	t.head(b, ic, insts.OpCFLWSP,
		fmt.Sprintf("c.flwsp %s, %d(sp)", fa(rd), off))
	addr := t.spOffAddr(b, off)
	b.Store(t.boxS(b, b.ReadMem(arch.SpaceMem, addr, 32)), arch.RegF(rd))
	return t.tailCont(b, ic)
}

func (t *Translator) trCMV(b *tcc.Builder, ic *instr) Continuation {
	rd, rs2 := cRd(ic.word), cRs2(ic.word)
	t.head(b, ic, insts.OpCMV, fmt.Sprintf("c.mv %s, %s", xa(rd), xa(rs2)))
	if rd != 0 {
		b.Store(b.Assign(t.xLoad(b, rs2), 32), arch.RegX(rd))
	}
	return t.tailCont(b, ic)
}

func (t *Translator) trCJR(b *tcc.Builder, ic *instr) Continuation {
	rs1 := cRd(ic.word)
	t.head(b, ic, insts.OpCJR, fmt.Sprintf("c.jr %s", xa(rs1)))
	target := b.Assign(b.And(t.xLoad(b, rs1), b.Constant(0xFFFFFFFE, 32)), 32)
	b.Store(target, arch.RegNextPC)
	b.Store(b.Constant(uint64(arch.LastBranchIndirect), 32), arch.RegLastBranch)
	return t.tailEnd(b, ic, Branch)
}

func (t *Translator) trCADD(b *tcc.Builder, ic *instr) Continuation {
	rd, rs2 := cRd(ic.word), cRs2(ic.word)
	t.head(b, ic, insts.OpCADD, fmt.Sprintf("c.add %s, %s", xa(rd), xa(rs2)))
	if rd != 0 {
		sum := b.Assign(b.Add(t.xLoad(b, rd), t.xLoad(b, rs2)), 32)
		b.Store(sum, arch.RegX(rd))
	}
	return t.tailCont(b, ic)
}

func (t *Translator) trCJALR(b *tcc.Builder, ic *instr) Continuation {
	rs1 := cRd(ic.word)
	t.head(b, ic, insts.OpCJALR, fmt.Sprintf("c.jalr %s", xa(rs1)))
	target := b.Assign(b.And(t.xLoad(b, rs1), b.Constant(0xFFFFFFFE, 32)), 32)
	b.Store(b.Constant(uint64(ic.npc), 32), arch.RegX(1))
	b.Store(target, arch.RegNextPC)
	b.Store(b.Constant(uint64(arch.LastBranchIndirect), 32), arch.RegLastBranch)
	return t.tailEnd(b, ic, Branch)
}

func (t *Translator) trCEBREAK(b *tcc.Builder, ic *instr) Continuation {
	t.head(b, ic, insts.OpCEBREAK, "c.ebreak")
	t.raiseTrap(b, 0, 3)
	return t.tailEnd(b, ic, Branch)
}

func (t *Translator) trCFSDSP(b *tcc.Builder, ic *instr) Continuation {
	rs2 := cRs2(ic.word)
	off := csdspImm(ic.word)
	t.head(b, ic, insts.OpCFSDSP,
		fmt.Sprintf("c.fsdsp %s, %d(sp)", fa(rs2), off))
	addr := t.spOffAddr(b, off)
	b.WriteMem(arch.SpaceMem, addr, t.fLoad(b, rs2))
	return t.tailCont(b, ic)
}

func (t *Translator) trCSWSP(b *tcc.Builder, ic *instr) Continuation {
	rs2 := cRs2(ic.word)
	off := cswspImm(ic.word)
	t.head(b, ic, insts.OpCSWSP,
		fmt.Sprintf("c.swsp %s, %d(sp)", xa(rs2), off))
	addr := t.spOffAddr(b, off)
	b.WriteMem(arch.SpaceMem, addr, t.xLoad(b, rs2))
	return t.tailCont(b, ic)
}

func (t *Translator) trCFSWSP(b *tcc.Builder, ic *instr) Continuation {
	rs2 := cRs2(ic.word)
	off := cswspImm(ic.word)
	t.head(b, ic, insts.OpCFSWSP,
		fmt.Sprintf("c.fswsp %s, %d(sp)", fa(rs2), off))
	addr := t.spOffAddr(b, off)
	b.WriteMem(arch.SpaceMem, addr, b.Trunc(t.fLoad(b, rs2), 32))
	return t.tailCont(b, ic)
}
