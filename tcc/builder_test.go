package tcc_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/SanSalvad-or/DBT-RISE-RISCV/arch"
	"github.com/SanSalvad-or/DBT-RISE-RISCV/tcc"
)

var _ = Describe("Builder", func() {
	var b *tcc.Builder

	BeforeEach(func() {
		b = tcc.NewBuilder(arch.EmitPlan())
		b.Prologue("block_00001000")
	})

	Describe("Prologue", func() {
		It("should open the unit function", func() {
			Expect(b.String()).To(ContainSubstring(
				"uint32_t block_00001000(uint8_t *regs, void *core_ptr) {"))
		})

		It("should declare the scalar control pointers", func() {
			src := b.String()
			Expect(src).To(ContainSubstring("uint32_t *const pc = (uint32_t *)(regs + 384);"))
			Expect(src).To(ContainSubstring("uint32_t *const next_pc = (uint32_t *)(regs + 388);"))
			Expect(src).To(ContainSubstring("uint32_t *const last_branch = (uint32_t *)(regs + 392);"))
			Expect(src).To(ContainSubstring("uint32_t *const fcsr = (uint32_t *)(regs + 396);"))
			Expect(src).To(ContainSubstring("uint32_t *const trap_state = (uint32_t *)(regs + 400);"))
		})

		It("should not declare X pointers up front", func() {
			Expect(b.String()).NotTo(ContainSubstring("*const x5"))
		})
	})

	Describe("register access", func() {
		It("should materialize an X pointer on first use only", func() {
			b.Store(b.Constant(7, 32), arch.RegX(5))
			b.Store(b.Constant(8, 32), arch.RegX(5))
			src := b.String()
			Expect(strings.Count(src, "uint32_t *const x5 = (uint32_t *)(regs + 20);")).
				To(Equal(1))
			Expect(src).To(ContainSubstring("*x5 = 0x7U;"))
			Expect(src).To(ContainSubstring("*x5 = 0x8U;"))
		})

		It("should hoist pointer declarations above scoped uses", func() {
			b.Label("ADDI_0x00001000")
			b.OpenScope()
			b.Store(b.Constant(7, 32), arch.RegX(5))
			b.CloseScope()
			src := b.String()
			decl := strings.Index(src, "*const x5")
			label := strings.Index(src, "ADDI_0x00001000:")
			Expect(decl).To(BeNumerically(">=", 0))
			Expect(decl).To(BeNumerically("<", label))
		})

		It("should track materialized registers in the defined-regs vector", func() {
			Expect(b.DefinedRegs()[5]).To(BeFalse())
			_ = b.Load(arch.RegX(5), 0)
			Expect(b.DefinedRegs()[5]).To(BeTrue())
			Expect(b.DefinedRegs()[6]).To(BeFalse())
		})

		It("should use 64-bit pointers for the F bank", func() {
			b.Store(b.Constant(0, 64), arch.RegF(3))
			Expect(b.String()).To(ContainSubstring(
				"uint64_t *const f3 = (uint64_t *)(regs + 152);"))
		})
	})

	Describe("expression nodes", func() {
		It("should assign fresh local names in sequence", func() {
			v0 := b.Assign(b.Constant(1, 32), 32)
			v1 := b.Assign(b.Constant(2, 32), 32)
			Expect(v0.Expr()).To(Equal("v0"))
			Expect(v1.Expr()).To(Equal("v1"))
		})

		It("should emit sign extension through signed casts", func() {
			v := b.Ext(tcc.V("v0", 8), 32, true)
			Expect(v.Expr()).To(Equal("((uint32_t)(int32_t)(int8_t)v0)"))
		})

		It("should emit zero extension through an unsigned cast", func() {
			v := b.Ext(tcc.V("v0", 8), 32, false)
			Expect(v.Expr()).To(Equal("((uint32_t)v0)"))
		})

		It("should emit signed comparison with signed casts", func() {
			v := b.ICmp(tcc.CmpSLT, tcc.V("a", 32), tcc.V("b", 32))
			Expect(v.Expr()).To(Equal("((int32_t)a < (int32_t)b)"))
		})

		It("should emit choose as a ternary", func() {
			v := b.Choose(tcc.V("c", 32), tcc.V("a", 32), tcc.V("b", 32))
			Expect(v.Expr()).To(Equal("(c ? a : b)"))
		})

		It("should emit arithmetic shift through a signed cast", func() {
			v := b.AShr(tcc.V("a", 32), tcc.V("n", 32))
			Expect(v.Expr()).To(Equal("((uint32_t)((int32_t)a >> n))"))
		})
	})

	Describe("memory channels", func() {
		It("should emit channel reads into fresh locals", func() {
			v := b.ReadMem(arch.SpaceMem, tcc.V("a", 32), 32)
			Expect(b.String()).To(ContainSubstring(
				"uint32_t " + v.Expr() + " = (uint32_t)read_mem(core_ptr, SPACE_MEM, a, 32);"))
		})

		It("should emit channel writes with the value width", func() {
			b.WriteMem(arch.SpaceCSR, b.Constant(0x341, 32), tcc.V("v1", 32))
			Expect(b.String()).To(ContainSubstring(
				"write_mem(core_ptr, SPACE_CSR, 0x341U, (uint64_t)v1, 32);"))
		})
	})

	Describe("scopes", func() {
		It("should balance scope depth", func() {
			b.OpenScope()
			Expect(b.ScopeDepth()).To(Equal(1))
			b.CloseScope()
			Expect(b.ScopeDepth()).To(Equal(0))
		})
	})

	Describe("CallF", func() {
		It("should materialize results of value-returning calls", func() {
			v := b.CallF("fadd_s", 32, tcc.V("a", 32), tcc.V("b", 32), tcc.V("rm", 32))
			Expect(b.String()).To(ContainSubstring(
				"uint32_t " + v.Expr() + " = fadd_s(a, b, rm);"))
		})

		It("should emit bare statements for zero-width calls", func() {
			v := b.CallF("leave_trap", 0, tcc.V("core_ptr", 32), tcc.V("3", 32))
			Expect(v.IsZero()).To(BeTrue())
			Expect(b.String()).To(ContainSubstring("leave_trap(core_ptr, 3);"))
		})
	})
})
