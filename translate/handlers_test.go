package translate_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/SanSalvad-or/DBT-RISE-RISCV/translate"
)

// translateOne translates a single instruction with a block limit of one.
func translateOne(code []byte) *translate.Unit {
	unit, err := translateBytes(0x1000, code, translate.WithBlockLimit(1))
	Expect(err).NotTo(HaveOccurred())
	return unit
}

var _ = Describe("Integer handlers", func() {
	It("should mask register shift amounts to five bits", func() {
		unit := translateOne(words(0x003110B3)) // sll x1, x2, x3
		Expect(unit.Source).To(ContainSubstring("(*x3 & 0x1fU)"))
	})

	It("should emit the division corner cases as selects", func() {
		unit := translateOne(words(0x0220C1B3)) // div x3, x1, x2
		Expect(unit.Source).To(ContainSubstring("0xffffffffU"))
		Expect(unit.Source).To(ContainSubstring("0x80000000U"))
		Expect(unit.Source).To(ContainSubstring(" ? "))
		Expect(unit.Source).To(ContainSubstring("(int32_t)"))
	})

	It("should give DIVU the all-ones quotient on division by zero", func() {
		unit := translateOne(words(0x0220D1B3)) // divu x3, x1, x2
		Expect(unit.Source).To(ContainSubstring("? 0xffffffffU :"))
	})

	It("should hand REM the dividend on division by zero", func() {
		unit := translateOne(words(0x0220E1B3)) // rem x3, x1, x2
		Expect(unit.Source).To(ContainSubstring("? v0 :"))
	})

	It("should sign-extend byte loads and zero-extend unsigned ones", func() {
		lb := translateOne(words(0x00008083)) // lb x1, 0(x1)
		Expect(lb.Source).To(ContainSubstring("(int32_t)(int8_t)"))

		lbu := translateOne(words(0x0000C083)) // lbu x1, 0(x1)
		Expect(lbu.Source).NotTo(ContainSubstring("(int8_t)"))
	})

	It("should truncate narrow stores", func() {
		unit := translateOne(words(0x00110023)) // sb x1, 0(x2)
		Expect(unit.Source).To(ContainSubstring("(uint8_t)"))
		Expect(unit.Source).To(ContainSubstring("SPACE_MEM"))
	})
})

var _ = Describe("Control-flow handlers", func() {
	It("should link and mask the JALR target", func() {
		unit := translateOne(words(0x000300E7)) // jalr x1, x6, 0
		Expect(unit.Source).To(ContainSubstring("& 0xfffffffeU"))
		Expect(unit.Source).To(ContainSubstring("*x1 = 0x1004U;"))
		Expect(unit.Source).To(ContainSubstring("*last_branch = 0xffffffffU;"))
		Expect(unit.End).To(Equal(translate.Branch))
	})

	It("should flag a self-branch with LAST_BRANCH zero", func() {
		unit := translateOne(words(0x00000063)) // beq x0, x0, 0
		Expect(unit.Source).To(ContainSubstring("*last_branch = 0x0U;"))
	})

	It("should link the return address for JAL", func() {
		unit := translateOne(words(0x008000EF)) // jal x1, 8
		Expect(unit.Source).To(ContainSubstring("*x1 = 0x1004U;"))
		Expect(unit.Source).To(ContainSubstring("*next_pc = 0x1008U;"))
		Expect(unit.End).To(Equal(translate.Branch))
	})
})

var _ = Describe("System handlers", func() {
	It("should raise the environment-call trap", func() {
		unit := translateOne(words(0x00000073)) // ecall
		Expect(unit.Source).To(ContainSubstring("*trap_state = 0x800b0000U;"))
		Expect(unit.End).To(Equal(translate.Branch))
	})

	It("should raise the breakpoint trap", func() {
		unit := translateOne(words(0x00100073)) // ebreak
		Expect(unit.Source).To(ContainSubstring("*trap_state = 0x80030000U;"))
	})

	It("should return from machine traps through the CSR channel", func() {
		unit := translateOne(words(0x30200073)) // mret
		Expect(unit.Source).To(ContainSubstring("leave_trap(core_ptr, 3);"))
		Expect(unit.Source).To(ContainSubstring(
			"read_mem(core_ptr, SPACE_CSR, 0x341U, 32)"))
		Expect(unit.Source).To(ContainSubstring("*last_branch = 0xffffffffU;"))
		Expect(unit.End).To(Equal(translate.Branch))
	})

	It("should read the supervisor epc for SRET", func() {
		unit := translateOne(words(0x10200073)) // sret
		Expect(unit.Source).To(ContainSubstring(
			"read_mem(core_ptr, SPACE_CSR, 0x141U, 32)"))
	})

	It("should emit the wait hook for WFI and fall through", func() {
		unit := translateOne(words(0x10500073)) // wfi
		Expect(unit.Source).To(ContainSubstring("wait_for(core_ptr, 1);"))
		Expect(unit.End).To(Equal(translate.Continue))
	})

	It("should write the ordering bits to the fence channel", func() {
		unit := translateOne(words(0x0FF0000F)) // fence iorw, iorw
		Expect(unit.Source).To(ContainSubstring(
			"write_mem(core_ptr, SPACE_FENCE, 0x0U, (uint64_t)0xffU, 32);"))
		Expect(unit.End).To(Equal(translate.Continue))
	})

	It("should flush on FENCE.I", func() {
		unit := translateOne(words(0x0000100F)) // fence.i
		Expect(unit.Source).To(ContainSubstring("SPACE_FENCE, 0x1U"))
		Expect(unit.Source).To(ContainSubstring("*last_branch = 0xffffffffU;"))
		Expect(unit.End).To(Equal(translate.Flush))
	})

	It("should write both operands for SFENCE.VMA", func() {
		unit := translateOne(words(0x12208073)) // sfence.vma x1, x2
		Expect(unit.Source).To(ContainSubstring("SPACE_FENCE, 0x2U"))
		Expect(unit.Source).To(ContainSubstring("SPACE_FENCE, 0x3U"))
	})
})

var _ = Describe("CSR handlers", func() {
	It("should read then write for CSRRW with a destination", func() {
		unit := translateOne(words(0x341110F3)) // csrrw x1, mepc, x2
		Expect(unit.Source).To(ContainSubstring(
			"read_mem(core_ptr, SPACE_CSR, 0x341U, 32)"))
		Expect(unit.Source).To(ContainSubstring(
			"write_mem(core_ptr, SPACE_CSR, 0x341U"))
		Expect(unit.Source).To(ContainSubstring("*x1 = "))
	})

	It("should skip the CSR read for CSRRW with rd == x0", func() {
		unit := translateOne(words(0x34111073)) // csrrw x0, mepc, x2
		Expect(unit.Source).NotTo(ContainSubstring("read_mem"))
		Expect(unit.Source).To(ContainSubstring("write_mem(core_ptr, SPACE_CSR"))
	})

	It("should skip the CSR write for CSRRS with rs1 == x0", func() {
		unit := translateOne(words(0x341020F3)) // csrrs x1, mepc, x0
		Expect(unit.Source).To(ContainSubstring("read_mem(core_ptr, SPACE_CSR"))
		Expect(unit.Source).NotTo(ContainSubstring("write_mem"))
	})

	It("should clear with the complemented mask for CSRRC", func() {
		unit := translateOne(words(0x3410B0F3)) // csrrc x1, mepc, x1
		Expect(unit.Source).To(ContainSubstring("& (~*x1)"))
	})

	It("should skip the CSR write for a zero set immediate", func() {
		unit := translateOne(words(0x341060F3)) // csrrsi x1, mepc, 0
		Expect(unit.Source).NotTo(ContainSubstring("write_mem"))
	})
})

var _ = Describe("Atomic handlers", func() {
	It("should mark a reservation for LR.W", func() {
		unit := translateOne(words(0x100322AF)) // lr.w x5, (x6)
		Expect(unit.Source).To(ContainSubstring(
			"write_mem(core_ptr, SPACE_RES, v0, (uint64_t)0xffffffffU, 32);"))
		Expect(unit.Source).To(ContainSubstring("*x5 = "))
	})

	It("should store conditionally and report status for SC.W", func() {
		unit := translateOne(words(0x187322AF)) // sc.w x5, x7, (x6)
		Expect(unit.Source).To(ContainSubstring("read_mem(core_ptr, SPACE_RES"))
		Expect(unit.Source).To(ContainSubstring("write_mem(core_ptr, SPACE_MEM"))
		Expect(unit.Source).To(ContainSubstring("? 0x1U : 0x0U"))
	})

	It("should load old value and store the combined one for AMOADD.W", func() {
		unit := translateOne(words(0x007322AF)) // amoadd.w x5, x7, (x6)
		Expect(unit.Source).To(ContainSubstring("read_mem(core_ptr, SPACE_MEM"))
		Expect(unit.Source).To(ContainSubstring("write_mem(core_ptr, SPACE_MEM"))
		Expect(unit.Source).To(ContainSubstring("*x5 = "))
	})

	It("should compare-select for AMOMIN.W", func() {
		unit := translateOne(words(0x807322AF)) // amomin.w x5, x7, (x6)
		Expect(unit.Source).To(ContainSubstring("(int32_t)"))
		Expect(unit.Source).To(ContainSubstring(" ? "))
	})
})
