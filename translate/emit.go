package translate

import (
	"strings"

	"github.com/SanSalvad-or/DBT-RISE-RISCV/arch"
	"github.com/SanSalvad-or/DBT-RISE-RISCV/insts"
	"github.com/SanSalvad-or/DBT-RISE-RISCV/tcc"
)

// labelFor builds the per-instruction local label, e.g. FADD_S_0x00001000.
func labelFor(op insts.Op, pc uint32) string {
	name := strings.ToUpper(strings.ReplaceAll(op.String(), ".", "_"))
	return name + "_" + hex32(pc)
}

func hex32(v uint32) string {
	const digits = "0123456789abcdef"
	out := []byte("0x00000000")
	for i := 0; i < 8; i++ {
		out[9-i] = digits[v>>(4*uint(i))&0xF]
	}
	return string(out)
}

// head emits the common instruction prologue: local label, PRE_SYNC,
// optional disassembly, the cur_pc_val materialization, and the opening of
// the per-instruction scope. Callers decode their fields first so the
// disassembly text is available.
func (t *Translator) head(b *tcc.Builder, ic *instr, op insts.Op, disass string) {
	b.Label(labelFor(op, ic.pc))
	t.state.GenSync(b, arch.PreSync, ic.serial)
	if t.disass && disass != "" {
		b.Appendf("print_disass(core_ptr, %sU, \"%s\");", hex32(ic.pc), disass)
	}
	b.Appendf("cur_pc_val = %sU;", hex32(ic.pc))
	b.Appendf("*pc = cur_pc_val;")
	b.OpenScope()
}

// tailCont closes a non-terminating instruction: scope close, the
// fallthrough NEXT_PC write, POST_SYNC, and the trap check.
func (t *Translator) tailCont(b *tcc.Builder, ic *instr) Continuation {
	b.CloseScope()
	b.Store(b.Constant(uint64(ic.npc), 32), arch.RegNextPC)
	t.state.GenSync(b, arch.PostSync, ic.serial)
	t.trapCheck(b)
	return Continue
}

// tailEnd closes a terminating instruction; the body has already written
// NEXT_PC.
func (t *Translator) tailEnd(b *tcc.Builder, ic *instr, k Continuation) Continuation {
	b.CloseScope()
	t.state.GenSync(b, arch.PostSync, ic.serial)
	t.trapCheck(b)
	return k
}

// trapCheck emits the per-instruction pending-trap test.
func (t *Translator) trapCheck(b *tcc.Builder) {
	b.Appendf("if (*trap_state != 0) goto trap_entry;")
}

// raiseTrap emits the trap-word store for raise_trap(trapID, cause); the
// envelope's trap check routes control to trap_entry.
func (t *Translator) raiseTrap(b *tcc.Builder, trapID, cause uint32) {
	b.Store(b.Constant(uint64(arch.PackTrap(cause, trapID)), 32), arch.RegTrapState)
}

// leaveTrap emits the trap-return sequence for privilege level lvl:
// the leave_trap host call, a CSR-channel read of the level's epc into
// NEXT_PC, and the indirect-branch sentinel.
func (t *Translator) leaveTrap(b *tcc.Builder, lvl uint32) {
	b.Appendf("leave_trap(core_ptr, %d);", lvl)
	epc := b.ReadMem(arch.SpaceCSR, b.Constant(uint64(lvl<<8|0x41), 32), arch.XLen)
	b.Store(epc, arch.RegNextPC)
	b.Store(b.Constant(uint64(arch.LastBranchIndirect), 32), arch.RegLastBranch)
}

// genWait emits the wait hook used by WFI.
func (t *Translator) genWait(b *tcc.Builder, n int) {
	b.Appendf("wait_for(core_ptr, %d);", n)
}

// xLoad reads integer register i; x0 reads as the constant zero.
func (t *Translator) xLoad(b *tcc.Builder, i uint32) tcc.Value {
	if i == 0 {
		return b.Constant(0, 32)
	}
	return b.Load(arch.RegX(i), 0)
}

// fLoad reads floating register i (raw 64-bit contents).
func (t *Translator) fLoad(b *tcc.Builder, i uint32) tcc.Value {
	return b.Load(arch.RegF(i), 0)
}

// unboxS reads floating register i as a single-precision payload through
// the softfloat unbox helper.
func (t *Translator) unboxS(b *tcc.Builder, i uint32) tcc.Value {
	return b.CallF("unbox_s", 32, t.fLoad(b, i))
}

// boxS NaN-boxes a 32-bit value for storage into a 64-bit F register.
func (t *Translator) boxS(b *tcc.Builder, v tcc.Value) tcc.Value {
	return b.Or(b.Ext(v, 64, false), b.Constant(0xFFFFFFFF00000000, 64))
}

// rmValue yields the rounding-mode operand for a softfloat call: the
// static rm field when it names a real mode, otherwise the low FCSR byte.
func (t *Translator) rmValue(b *tcc.Builder, rm uint32) tcc.Value {
	if rm <= 6 {
		return b.Constant(uint64(rm), 32)
	}
	return b.Assign(b.And(b.Load(arch.RegFCSR, 0), b.Constant(0xFF, 32)), 32)
}

// updateFFlags folds the softfloat sticky flags into the low FCSR bits.
func (t *Translator) updateFFlags(b *tcc.Builder) {
	flags := b.CallF("fget_flags", 32)
	fcsr := b.Load(arch.RegFCSR, 0)
	merged := b.Or(
		b.And(fcsr, b.Constant(0xFFFFFFE0, 32)),
		b.And(flags, b.Constant(0x1F, 32)),
	)
	b.Store(merged, arch.RegFCSR)
}

// Field accessors for the 32-bit formats.

func rdOf(w uint32) uint32  { return insts.BitSub(w, 7, 5) }
func rs1Of(w uint32) uint32 { return insts.BitSub(w, 15, 5) }
func rs2Of(w uint32) uint32 { return insts.BitSub(w, 20, 5) }
func rs3Of(w uint32) uint32 { return insts.BitSub(w, 27, 5) }
func rmOf(w uint32) uint32  { return insts.BitSub(w, 12, 3) }

func immI(w uint32) uint32 {
	return insts.SignExtend32(insts.BitSub(w, 20, 12), 12)
}

func immS(w uint32) uint32 {
	return insts.SignExtend32(insts.BitSub(w, 25, 7)<<5|insts.BitSub(w, 7, 5), 12)
}

func immB(w uint32) uint32 {
	v := insts.BitSub(w, 31, 1)<<12 |
		insts.BitSub(w, 7, 1)<<11 |
		insts.BitSub(w, 25, 6)<<5 |
		insts.BitSub(w, 8, 4)<<1
	return insts.SignExtend32(v, 13)
}

func immU(w uint32) uint32 {
	return insts.BitSub(w, 12, 20) << 12
}

func immJ(w uint32) uint32 {
	v := insts.BitSub(w, 31, 1)<<20 |
		insts.BitSub(w, 12, 8)<<12 |
		insts.BitSub(w, 20, 1)<<11 |
		insts.BitSub(w, 21, 10)<<1
	return insts.SignExtend32(v, 21)
}

// Field accessors for the compressed formats. Primed registers map the
// 3-bit fields onto x8..x15 / f8..f15.

func cRd(w uint32) uint32   { return insts.BitSub(w, 7, 5) }
func cRs2(w uint32) uint32  { return insts.BitSub(w, 2, 5) }
func cRdP(w uint32) uint32  { return insts.BitSub(w, 2, 3) + 8 }
func cRs1P(w uint32) uint32 { return insts.BitSub(w, 7, 3) + 8 }
func cRs2P(w uint32) uint32 { return insts.BitSub(w, 2, 3) + 8 }

// ciwImm decodes the C.ADDI4SPN zero-extended immediate.
func ciwImm(w uint32) uint32 {
	return insts.BitSub(w, 11, 2)<<4 |
		insts.BitSub(w, 7, 4)<<6 |
		insts.BitSub(w, 6, 1)<<2 |
		insts.BitSub(w, 5, 1)<<3
}

// clwImm decodes the word-aligned C.LW/C.SW offset.
func clwImm(w uint32) uint32 {
	return insts.BitSub(w, 10, 3)<<3 |
		insts.BitSub(w, 6, 1)<<2 |
		insts.BitSub(w, 5, 1)<<6
}

// cldImm decodes the double-aligned C.FLD/C.FSD offset.
func cldImm(w uint32) uint32 {
	return insts.BitSub(w, 10, 3)<<3 | insts.BitSub(w, 5, 2)<<6
}

// ciImm decodes the sign-extended 6-bit CI immediate.
func ciImm(w uint32) uint32 {
	return insts.SignExtend32(insts.BitSub(w, 12, 1)<<5|insts.BitSub(w, 2, 5), 6)
}

// cluiImm decodes the sign-extended C.LUI immediate (already shifted).
func cluiImm(w uint32) uint32 {
	return insts.SignExtend32(insts.BitSub(w, 12, 1)<<17|insts.BitSub(w, 2, 5)<<12, 18)
}

// c16spImm decodes the C.ADDI16SP immediate.
func c16spImm(w uint32) uint32 {
	v := insts.BitSub(w, 12, 1)<<9 |
		insts.BitSub(w, 6, 1)<<4 |
		insts.BitSub(w, 5, 1)<<6 |
		insts.BitSub(w, 3, 2)<<7 |
		insts.BitSub(w, 2, 1)<<5
	return insts.SignExtend32(v, 10)
}

// cjImm decodes the C.J/C.JAL target offset.
func cjImm(w uint32) uint32 {
	v := insts.BitSub(w, 12, 1)<<11 |
		insts.BitSub(w, 11, 1)<<4 |
		insts.BitSub(w, 9, 2)<<8 |
		insts.BitSub(w, 8, 1)<<10 |
		insts.BitSub(w, 7, 1)<<6 |
		insts.BitSub(w, 6, 1)<<7 |
		insts.BitSub(w, 3, 3)<<1 |
		insts.BitSub(w, 2, 1)<<5
	return insts.SignExtend32(v, 12)
}

// cbImm decodes the C.BEQZ/C.BNEZ target offset.
func cbImm(w uint32) uint32 {
	v := insts.BitSub(w, 12, 1)<<8 |
		insts.BitSub(w, 10, 2)<<3 |
		insts.BitSub(w, 5, 2)<<6 |
		insts.BitSub(w, 3, 2)<<1 |
		insts.BitSub(w, 2, 1)<<5
	return insts.SignExtend32(v, 9)
}

// cShamt decodes the compressed shift amount.
func cShamt(w uint32) uint32 {
	return insts.BitSub(w, 12, 1)<<5 | insts.BitSub(w, 2, 5)
}

// clwspImm decodes the C.LWSP/C.FLWSP offset.
func clwspImm(w uint32) uint32 {
	return insts.BitSub(w, 12, 1)<<5 |
		insts.BitSub(w, 4, 3)<<2 |
		insts.BitSub(w, 2, 2)<<6
}

// cldspImm decodes the C.FLDSP offset.
func cldspImm(w uint32) uint32 {
	return insts.BitSub(w, 12, 1)<<5 |
		insts.BitSub(w, 5, 2)<<3 |
		insts.BitSub(w, 2, 3)<<6
}

// cswspImm decodes the C.SWSP/C.FSWSP offset.
func cswspImm(w uint32) uint32 {
	return insts.BitSub(w, 9, 4)<<2 | insts.BitSub(w, 7, 2)<<6
}

// csdspImm decodes the C.FSDSP offset.
func csdspImm(w uint32) uint32 {
	return insts.BitSub(w, 10, 3)<<3 | insts.BitSub(w, 7, 3)<<6
}

// xa returns the disassembly alias of integer register i.
func xa(i uint32) string { return arch.RegAlias(arch.RegX(i)) }

// fa returns the disassembly name of floating register i.
func fa(i uint32) string { return arch.RegAlias(arch.RegF(i)) }
