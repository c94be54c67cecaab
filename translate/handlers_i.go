package translate

import (
	"fmt"

	"github.com/SanSalvad-or/DBT-RISE-RISCV/arch"
	"github.com/SanSalvad-or/DBT-RISE-RISCV/insts"
	"github.com/SanSalvad-or/DBT-RISE-RISCV/tcc"
)

func (t *Translator) initIntHandlers() {
	t.handlers[insts.OpIllegal] = t.trIllegal
	t.handlers[insts.OpLUI] = t.trLUI
	t.handlers[insts.OpAUIPC] = t.trAUIPC
	t.handlers[insts.OpJAL] = t.trJAL
	t.handlers[insts.OpJALR] = t.trJALR
	t.handlers[insts.OpBEQ] = t.branchHandler(insts.OpBEQ, tcc.CmpEQ)
	t.handlers[insts.OpBNE] = t.branchHandler(insts.OpBNE, tcc.CmpNE)
	t.handlers[insts.OpBLT] = t.branchHandler(insts.OpBLT, tcc.CmpSLT)
	t.handlers[insts.OpBGE] = t.branchHandler(insts.OpBGE, tcc.CmpSGE)
	t.handlers[insts.OpBLTU] = t.branchHandler(insts.OpBLTU, tcc.CmpULT)
	t.handlers[insts.OpBGEU] = t.branchHandler(insts.OpBGEU, tcc.CmpUGE)
	t.handlers[insts.OpLB] = t.loadHandler(insts.OpLB, 8, true)
	t.handlers[insts.OpLH] = t.loadHandler(insts.OpLH, 16, true)
	t.handlers[insts.OpLW] = t.loadHandler(insts.OpLW, 32, true)
	t.handlers[insts.OpLBU] = t.loadHandler(insts.OpLBU, 8, false)
	t.handlers[insts.OpLHU] = t.loadHandler(insts.OpLHU, 16, false)
	t.handlers[insts.OpSB] = t.storeHandler(insts.OpSB, 8)
	t.handlers[insts.OpSH] = t.storeHandler(insts.OpSH, 16)
	t.handlers[insts.OpSW] = t.storeHandler(insts.OpSW, 32)
	t.handlers[insts.OpADDI] = t.trADDI
	t.handlers[insts.OpSLTI] = t.trSLTI
	t.handlers[insts.OpSLTIU] = t.trSLTIU
	t.handlers[insts.OpXORI] = t.aluImmHandler(insts.OpXORI, (*tcc.Builder).Xor)
	t.handlers[insts.OpORI] = t.aluImmHandler(insts.OpORI, (*tcc.Builder).Or)
	t.handlers[insts.OpANDI] = t.aluImmHandler(insts.OpANDI, (*tcc.Builder).And)
	t.handlers[insts.OpSLLI] = t.shiftImmHandler(insts.OpSLLI, (*tcc.Builder).Shl)
	t.handlers[insts.OpSRLI] = t.shiftImmHandler(insts.OpSRLI, (*tcc.Builder).LShr)
	t.handlers[insts.OpSRAI] = t.shiftImmHandler(insts.OpSRAI, (*tcc.Builder).AShr)
	t.handlers[insts.OpADD] = t.aluRegHandler(insts.OpADD, (*tcc.Builder).Add)
	t.handlers[insts.OpSUB] = t.aluRegHandler(insts.OpSUB, (*tcc.Builder).Sub)
	t.handlers[insts.OpSLL] = t.shiftRegHandler(insts.OpSLL, (*tcc.Builder).Shl)
	t.handlers[insts.OpSLT] = t.trSLT
	t.handlers[insts.OpSLTU] = t.trSLTU
	t.handlers[insts.OpXOR] = t.aluRegHandler(insts.OpXOR, (*tcc.Builder).Xor)
	t.handlers[insts.OpSRL] = t.shiftRegHandler(insts.OpSRL, (*tcc.Builder).LShr)
	t.handlers[insts.OpSRA] = t.shiftRegHandler(insts.OpSRA, (*tcc.Builder).AShr)
	t.handlers[insts.OpOR] = t.aluRegHandler(insts.OpOR, (*tcc.Builder).Or)
	t.handlers[insts.OpAND] = t.aluRegHandler(insts.OpAND, (*tcc.Builder).And)
	t.handlers[insts.OpFENCE] = t.trFENCE
	t.handlers[insts.OpFENCEI] = t.trFENCEI
	t.handlers[insts.OpECALL] = t.trECALL
	t.handlers[insts.OpEBREAK] = t.trEBREAK
	t.handlers[insts.OpURET] = t.retHandler(insts.OpURET, 0)
	t.handlers[insts.OpSRET] = t.retHandler(insts.OpSRET, 1)
	t.handlers[insts.OpMRET] = t.retHandler(insts.OpMRET, 3)
	t.handlers[insts.OpWFI] = t.trWFI
	t.handlers[insts.OpSFENCEVMA] = t.trSFENCEVMA
	t.handlers[insts.OpCSRRW] = t.trCSRRW
	t.handlers[insts.OpCSRRS] = t.csrSetClearHandler(insts.OpCSRRS, true)
	t.handlers[insts.OpCSRRC] = t.csrSetClearHandler(insts.OpCSRRC, false)
	t.handlers[insts.OpCSRRWI] = t.trCSRRWI
	t.handlers[insts.OpCSRRSI] = t.csrSetClearImmHandler(insts.OpCSRRSI, true)
	t.handlers[insts.OpCSRRCI] = t.csrSetClearImmHandler(insts.OpCSRRCI, false)
}

// trIllegal is the table default: it raises the illegal-instruction trap
// in the emitted code and ends the unit.
func (t *Translator) trIllegal(b *tcc.Builder, ic *instr) Continuation {
	t.head(b, ic, insts.OpIllegal, fmt.Sprintf(".word %#x", ic.word))
	t.raiseTrap(b, 0, 2)
	return t.tailEnd(b, ic, Branch)
}

func (t *Translator) trLUI(b *tcc.Builder, ic *instr) Continuation {
	rd, imm := rdOf(ic.word), immU(ic.word)
	t.head(b, ic, insts.OpLUI, fmt.Sprintf("lui %s, %#x", xa(rd), imm>>12))
	if rd != 0 {
		b.Store(b.Constant(uint64(imm), 32), arch.RegX(rd))
	}
	return t.tailCont(b, ic)
}

func (t *Translator) trAUIPC(b *tcc.Builder, ic *instr) Continuation {
	rd, imm := rdOf(ic.word), immU(ic.word)
	t.head(b, ic, insts.OpAUIPC, fmt.Sprintf("auipc %s, %#x", xa(rd), imm>>12))
	if rd != 0 {
		b.Store(b.Constant(uint64(ic.pc+imm), 32), arch.RegX(rd))
	}
	return t.tailCont(b, ic)
}

func (t *Translator) trJAL(b *tcc.Builder, ic *instr) Continuation {
	rd, imm := rdOf(ic.word), immJ(ic.word)
	t.head(b, ic, insts.OpJAL, fmt.Sprintf("jal %s, %d", xa(rd), int32(imm)))
	if rd != 0 {
		b.Store(b.Constant(uint64(ic.pc+4), 32), arch.RegX(rd))
	}
	b.Store(b.Constant(uint64(ic.pc+imm), 32), arch.RegNextPC)
	return t.tailEnd(b, ic, Branch)
}

func (t *Translator) trJALR(b *tcc.Builder, ic *instr) Continuation {
	rd, rs1, imm := rdOf(ic.word), rs1Of(ic.word), immI(ic.word)
	t.head(b, ic, insts.OpJALR,
		fmt.Sprintf("jalr %s, %s, %d", xa(rd), xa(rs1), int32(imm)))
	target := b.Assign(b.And(
		b.Add(t.xLoad(b, rs1), b.Constant(uint64(imm), 32)),
		b.Constant(0xFFFFFFFE, 32)), 32)
	if rd != 0 {
		b.Store(b.Constant(uint64(ic.pc+4), 32), arch.RegX(rd))
	}
	b.Store(target, arch.RegNextPC)
	b.Store(b.Constant(uint64(arch.LastBranchIndirect), 32), arch.RegLastBranch)
	return t.tailEnd(b, ic, Branch)
}

// branchHandler builds the handler for one conditional branch: NEXT_PC is
// chosen between taken target and fallthrough, and LAST_BRANCH records
// whether the taken target leaves the current instruction.
func (t *Translator) branchHandler(op insts.Op, p tcc.Predicate) handlerFn {
	return func(b *tcc.Builder, ic *instr) Continuation {
		rs1, rs2, imm := rs1Of(ic.word), rs2Of(ic.word), immB(ic.word)
		t.head(b, ic, op,
			fmt.Sprintf("%s %s, %s, %d", op, xa(rs1), xa(rs2), int32(imm)))
		cond := b.Assign(b.ICmp(p, t.xLoad(b, rs1), t.xLoad(b, rs2)), 32)
		taken := ic.pc + imm
		target := b.Choose(cond,
			b.Constant(uint64(taken), 32),
			b.Constant(uint64(ic.pc+4), 32))
		b.Store(target, arch.RegNextPC)
		selfBranch := uint64(1)
		if taken == ic.pc {
			selfBranch = 0
		}
		b.Store(b.Constant(selfBranch, 32), arch.RegLastBranch)
		return t.tailEnd(b, ic, Branch)
	}
}

func (t *Translator) loadHandler(op insts.Op, bits uint, signed bool) handlerFn {
	return func(b *tcc.Builder, ic *instr) Continuation {
		rd, rs1, imm := rdOf(ic.word), rs1Of(ic.word), immI(ic.word)
		t.head(b, ic, op,
			fmt.Sprintf("%s %s, %d(%s)", op, xa(rd), int32(imm), xa(rs1)))
		addr := b.Assign(b.Add(t.xLoad(b, rs1), b.Constant(uint64(imm), 32)), 32)
		v := b.ReadMem(arch.SpaceMem, addr, bits)
		if rd != 0 {
			if bits < 32 {
				b.Store(b.Ext(v, 32, signed), arch.RegX(rd))
			} else {
				b.Store(v, arch.RegX(rd))
			}
		}
		return t.tailCont(b, ic)
	}
}

func (t *Translator) storeHandler(op insts.Op, bits uint) handlerFn {
	return func(b *tcc.Builder, ic *instr) Continuation {
		rs1, rs2, imm := rs1Of(ic.word), rs2Of(ic.word), immS(ic.word)
		t.head(b, ic, op,
			fmt.Sprintf("%s %s, %d(%s)", op, xa(rs2), int32(imm), xa(rs1)))
		addr := b.Assign(b.Add(t.xLoad(b, rs1), b.Constant(uint64(imm), 32)), 32)
		v := t.xLoad(b, rs2)
		if bits < 32 {
			v = b.Trunc(v, bits)
		}
		b.WriteMem(arch.SpaceMem, addr, v)
		return t.tailCont(b, ic)
	}
}

func (t *Translator) trADDI(b *tcc.Builder, ic *instr) Continuation {
	rd, rs1, imm := rdOf(ic.word), rs1Of(ic.word), immI(ic.word)
	t.head(b, ic, insts.OpADDI,
		fmt.Sprintf("addi %s, %s, %d", xa(rd), xa(rs1), int32(imm)))
	if rd != 0 {
		sum := b.Assign(b.Add(t.xLoad(b, rs1), b.Constant(uint64(imm), 32)), 32)
		b.Store(sum, arch.RegX(rd))
	}
	return t.tailCont(b, ic)
}

func (t *Translator) trSLTI(b *tcc.Builder, ic *instr) Continuation {
	rd, rs1, imm := rdOf(ic.word), rs1Of(ic.word), immI(ic.word)
	t.head(b, ic, insts.OpSLTI,
		fmt.Sprintf("slti %s, %s, %d", xa(rd), xa(rs1), int32(imm)))
	if rd != 0 {
		lt := b.ICmp(tcc.CmpSLT, t.xLoad(b, rs1), b.Constant(uint64(imm), 32))
		b.Store(b.Choose(lt, b.Constant(1, 32), b.Constant(0, 32)), arch.RegX(rd))
	}
	return t.tailCont(b, ic)
}

func (t *Translator) trSLTIU(b *tcc.Builder, ic *instr) Continuation {
	rd, rs1, imm := rdOf(ic.word), rs1Of(ic.word), immI(ic.word)
	t.head(b, ic, insts.OpSLTIU,
		fmt.Sprintf("sltiu %s, %s, %d", xa(rd), xa(rs1), int32(imm)))
	if rd != 0 {
		lt := b.ICmp(tcc.CmpULT, t.xLoad(b, rs1), b.Constant(uint64(imm), 32))
		b.Store(b.Choose(lt, b.Constant(1, 32), b.Constant(0, 32)), arch.RegX(rd))
	}
	return t.tailCont(b, ic)
}

type binaryOp func(b *tcc.Builder, x, y tcc.Value) tcc.Value

func (t *Translator) aluImmHandler(op insts.Op, f binaryOp) handlerFn {
	return func(b *tcc.Builder, ic *instr) Continuation {
		rd, rs1, imm := rdOf(ic.word), rs1Of(ic.word), immI(ic.word)
		t.head(b, ic, op,
			fmt.Sprintf("%s %s, %s, %d", op, xa(rd), xa(rs1), int32(imm)))
		if rd != 0 {
			v := b.Assign(f(b, t.xLoad(b, rs1), b.Constant(uint64(imm), 32)), 32)
			b.Store(v, arch.RegX(rd))
		}
		return t.tailCont(b, ic)
	}
}

// shiftImmHandler covers SLLI/SRLI/SRAI. The reserved-shamt check is kept
// even though well-formed RV32 encodings cannot reach it.
func (t *Translator) shiftImmHandler(op insts.Op, f binaryOp) handlerFn {
	return func(b *tcc.Builder, ic *instr) Continuation {
		rd, rs1 := rdOf(ic.word), rs1Of(ic.word)
		shamt := insts.BitSub(ic.word, 20, 6)
		t.head(b, ic, op,
			fmt.Sprintf("%s %s, %s, %d", op, xa(rd), xa(rs1), shamt))
		if shamt > 31 {
			t.raiseTrap(b, 0, 0)
			return t.tailEnd(b, ic, Branch)
		}
		if rd != 0 {
			v := b.Assign(f(b, t.xLoad(b, rs1), b.Constant(uint64(shamt), 32)), 32)
			b.Store(v, arch.RegX(rd))
		}
		return t.tailCont(b, ic)
	}
}

func (t *Translator) aluRegHandler(op insts.Op, f binaryOp) handlerFn {
	return func(b *tcc.Builder, ic *instr) Continuation {
		rd, rs1, rs2 := rdOf(ic.word), rs1Of(ic.word), rs2Of(ic.word)
		t.head(b, ic, op,
			fmt.Sprintf("%s %s, %s, %s", op, xa(rd), xa(rs1), xa(rs2)))
		if rd != 0 {
			v := b.Assign(f(b, t.xLoad(b, rs1), t.xLoad(b, rs2)), 32)
			b.Store(v, arch.RegX(rd))
		}
		return t.tailCont(b, ic)
	}
}

// shiftRegHandler masks the shift amount to the low five bits of rs2.
func (t *Translator) shiftRegHandler(op insts.Op, f binaryOp) handlerFn {
	return func(b *tcc.Builder, ic *instr) Continuation {
		rd, rs1, rs2 := rdOf(ic.word), rs1Of(ic.word), rs2Of(ic.word)
		t.head(b, ic, op,
			fmt.Sprintf("%s %s, %s, %s", op, xa(rd), xa(rs1), xa(rs2)))
		if rd != 0 {
			sh := b.And(t.xLoad(b, rs2), b.Constant(31, 32))
			v := b.Assign(f(b, t.xLoad(b, rs1), sh), 32)
			b.Store(v, arch.RegX(rd))
		}
		return t.tailCont(b, ic)
	}
}

func (t *Translator) trSLT(b *tcc.Builder, ic *instr) Continuation {
	rd, rs1, rs2 := rdOf(ic.word), rs1Of(ic.word), rs2Of(ic.word)
	t.head(b, ic, insts.OpSLT,
		fmt.Sprintf("slt %s, %s, %s", xa(rd), xa(rs1), xa(rs2)))
	if rd != 0 {
		lt := b.ICmp(tcc.CmpSLT, t.xLoad(b, rs1), t.xLoad(b, rs2))
		b.Store(b.Choose(lt, b.Constant(1, 32), b.Constant(0, 32)), arch.RegX(rd))
	}
	return t.tailCont(b, ic)
}

func (t *Translator) trSLTU(b *tcc.Builder, ic *instr) Continuation {
	rd, rs1, rs2 := rdOf(ic.word), rs1Of(ic.word), rs2Of(ic.word)
	t.head(b, ic, insts.OpSLTU,
		fmt.Sprintf("sltu %s, %s, %s", xa(rd), xa(rs1), xa(rs2)))
	if rd != 0 {
		lt := b.ICmp(tcc.CmpULT, t.xLoad(b, rs1), t.xLoad(b, rs2))
		b.Store(b.Choose(lt, b.Constant(1, 32), b.Constant(0, 32)), arch.RegX(rd))
	}
	return t.tailCont(b, ic)
}

func (t *Translator) trFENCE(b *tcc.Builder, ic *instr) Continuation {
	pred := insts.BitSub(ic.word, 24, 4)
	succ := insts.BitSub(ic.word, 20, 4)
	t.head(b, ic, insts.OpFENCE, "fence")
	b.WriteMem(arch.SpaceFence, b.Constant(0, 32),
		b.Constant(uint64(pred<<4|succ), 32))
	return t.tailCont(b, ic)
}

func (t *Translator) trFENCEI(b *tcc.Builder, ic *instr) Continuation {
	imm := insts.BitSub(ic.word, 20, 12)
	t.head(b, ic, insts.OpFENCEI, "fence.i")
	b.WriteMem(arch.SpaceFence, b.Constant(1, 32), b.Constant(uint64(imm), 32))
	b.Store(b.Constant(uint64(ic.npc), 32), arch.RegNextPC)
	b.Store(b.Constant(uint64(arch.LastBranchIndirect), 32), arch.RegLastBranch)
	return t.tailEnd(b, ic, Flush)
}

func (t *Translator) trECALL(b *tcc.Builder, ic *instr) Continuation {
	t.head(b, ic, insts.OpECALL, "ecall")
	t.raiseTrap(b, 0, 11)
	return t.tailEnd(b, ic, Branch)
}

func (t *Translator) trEBREAK(b *tcc.Builder, ic *instr) Continuation {
	t.head(b, ic, insts.OpEBREAK, "ebreak")
	t.raiseTrap(b, 0, 3)
	return t.tailEnd(b, ic, Branch)
}

func (t *Translator) retHandler(op insts.Op, lvl uint32) handlerFn {
	return func(b *tcc.Builder, ic *instr) Continuation {
		t.head(b, ic, op, op.String())
		t.leaveTrap(b, lvl)
		return t.tailEnd(b, ic, Branch)
	}
}

func (t *Translator) trWFI(b *tcc.Builder, ic *instr) Continuation {
	t.head(b, ic, insts.OpWFI, "wfi")
	t.genWait(b, 1)
	return t.tailCont(b, ic)
}

func (t *Translator) trSFENCEVMA(b *tcc.Builder, ic *instr) Continuation {
	rs1, rs2 := rs1Of(ic.word), rs2Of(ic.word)
	t.head(b, ic, insts.OpSFENCEVMA,
		fmt.Sprintf("sfence.vma %s, %s", xa(rs1), xa(rs2)))
	b.WriteMem(arch.SpaceFence, b.Constant(2, 32), t.xLoad(b, rs1))
	b.WriteMem(arch.SpaceFence, b.Constant(3, 32), t.xLoad(b, rs2))
	return t.tailCont(b, ic)
}

func (t *Translator) trCSRRW(b *tcc.Builder, ic *instr) Continuation {
	rd, rs1 := rdOf(ic.word), rs1Of(ic.word)
	csr := insts.BitSub(ic.word, 20, 12)
	t.head(b, ic, insts.OpCSRRW,
		fmt.Sprintf("csrrw %s, %#x, %s", xa(rd), csr, xa(rs1)))
	wr := b.Assign(t.xLoad(b, rs1), 32)
	if rd != 0 {
		old := b.ReadMem(arch.SpaceCSR, b.Constant(uint64(csr), 32), 32)
		b.WriteMem(arch.SpaceCSR, b.Constant(uint64(csr), 32), wr)
		b.Store(old, arch.RegX(rd))
	} else {
		// rd == x0: the CSR read and its side effects are skipped.
		b.WriteMem(arch.SpaceCSR, b.Constant(uint64(csr), 32), wr)
	}
	return t.tailCont(b, ic)
}

func (t *Translator) csrSetClearHandler(op insts.Op, set bool) handlerFn {
	return func(b *tcc.Builder, ic *instr) Continuation {
		rd, rs1 := rdOf(ic.word), rs1Of(ic.word)
		csr := insts.BitSub(ic.word, 20, 12)
		t.head(b, ic, op,
			fmt.Sprintf("%s %s, %#x, %s", op, xa(rd), csr, xa(rs1)))
		old := b.ReadMem(arch.SpaceCSR, b.Constant(uint64(csr), 32), 32)
		if rs1 != 0 {
			// rs1 == x0 selects the read-only form: no CSR write.
			mask := t.xLoad(b, rs1)
			var v tcc.Value
			if set {
				v = b.Or(old, mask)
			} else {
				v = b.And(old, b.Not(mask))
			}
			b.WriteMem(arch.SpaceCSR, b.Constant(uint64(csr), 32), b.Assign(v, 32))
		}
		if rd != 0 {
			b.Store(old, arch.RegX(rd))
		}
		return t.tailCont(b, ic)
	}
}

func (t *Translator) trCSRRWI(b *tcc.Builder, ic *instr) Continuation {
	rd := rdOf(ic.word)
	zimm := rs1Of(ic.word)
	csr := insts.BitSub(ic.word, 20, 12)
	t.head(b, ic, insts.OpCSRRWI,
		fmt.Sprintf("csrrwi %s, %#x, %d", xa(rd), csr, zimm))
	if rd != 0 {
		old := b.ReadMem(arch.SpaceCSR, b.Constant(uint64(csr), 32), 32)
		b.WriteMem(arch.SpaceCSR, b.Constant(uint64(csr), 32), b.Constant(uint64(zimm), 32))
		b.Store(old, arch.RegX(rd))
	} else {
		b.WriteMem(arch.SpaceCSR, b.Constant(uint64(csr), 32), b.Constant(uint64(zimm), 32))
	}
	return t.tailCont(b, ic)
}

func (t *Translator) csrSetClearImmHandler(op insts.Op, set bool) handlerFn {
	return func(b *tcc.Builder, ic *instr) Continuation {
		rd := rdOf(ic.word)
		zimm := rs1Of(ic.word)
		csr := insts.BitSub(ic.word, 20, 12)
		t.head(b, ic, op,
			fmt.Sprintf("%s %s, %#x, %d", op, xa(rd), csr, zimm))
		old := b.ReadMem(arch.SpaceCSR, b.Constant(uint64(csr), 32), 32)
		if zimm != 0 {
			// A zero immediate selects the read-only form: no CSR write.
			var v tcc.Value
			if set {
				v = b.Or(old, b.Constant(uint64(zimm), 32))
			} else {
				v = b.And(old, b.Constant(uint64(^zimm), 32))
			}
			b.WriteMem(arch.SpaceCSR, b.Constant(uint64(csr), 32), b.Assign(v, 32))
		}
		if rd != 0 {
			b.Store(old, arch.RegX(rd))
		}
		return t.tailCont(b, ic)
	}
}
