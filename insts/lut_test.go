package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/SanSalvad-or/DBT-RISE-RISCV/insts"
)

var _ = Describe("Decode Tables", func() {
	var tables *insts.Tables

	BeforeEach(func() {
		tables = insts.NewTables()
	})

	It("should pass the ordering consistency check", func() {
		Expect(tables.Verify()).To(Succeed())
	})

	It("should list one descriptor per RV32GC behavior", func() {
		Expect(insts.Descriptors).To(HaveLen(159))
	})

	Describe("32-bit classification", func() {
		// Hand-encoded words; the comments give the assembly.
		DescribeTable("routes well-formed encodings to their behavior",
			func(word uint32, want insts.Op) {
				d, ok := tables.Lookup(word)
				Expect(ok).To(BeTrue())
				Expect(d.Op).To(Equal(want))
			},
			Entry("addi x5, x0, 7", uint32(0x00700293), insts.OpADDI),
			Entry("lui x6, 0x12345", uint32(0x12345337), insts.OpLUI),
			Entry("beq x0, x0, 8", uint32(0x00000463), insts.OpBEQ),
			Entry("jal x1, 0", uint32(0x000000EF), insts.OpJAL),
			Entry("jalr x0, x1, 0", uint32(0x00008067), insts.OpJALR),
			Entry("lw x10, 4(x2)", uint32(0x00412503), insts.OpLW),
			Entry("sw x10, 4(x2)", uint32(0x00A12223), insts.OpSW),
			Entry("add x1, x2, x3", uint32(0x003100B3), insts.OpADD),
			Entry("sub x1, x2, x3", uint32(0x403100B3), insts.OpSUB),
			Entry("srai x1, x2, 3", uint32(0x40315093), insts.OpSRAI),
			Entry("srli x1, x2, 3", uint32(0x00315093), insts.OpSRLI),
			Entry("mul x3, x1, x2", uint32(0x022081B3), insts.OpMUL),
			Entry("div x3, x1, x2", uint32(0x0220C1B3), insts.OpDIV),
			Entry("remu x3, x1, x2", uint32(0x0220F1B3), insts.OpREMU),
			Entry("lr.w x5, (x6)", uint32(0x100322AF), insts.OpLRW),
			Entry("sc.w x5, x7, (x6)", uint32(0x187322AF), insts.OpSCW),
			Entry("amoadd.w x5, x7, (x6)", uint32(0x007322AF), insts.OpAMOADDW),
			Entry("amomaxu.w x5, x7, (x6)", uint32(0xE07322AF), insts.OpAMOMAXUW),
			Entry("fence", uint32(0x0FF0000F), insts.OpFENCE),
			Entry("fence.i", uint32(0x0000100F), insts.OpFENCEI),
			Entry("csrrw x1, mepc, x2", uint32(0x341110F3), insts.OpCSRRW),
			Entry("csrrsi x1, mepc, 3", uint32(0x3411E0F3), insts.OpCSRRSI),
			Entry("flw f1, 0(x2)", uint32(0x00012087), insts.OpFLW),
			Entry("fld f1, 0(x2)", uint32(0x00013087), insts.OpFLD),
			Entry("fadd.s f1, f2, f3", uint32(0x003100D3), insts.OpFADDS),
			Entry("fadd.d f1, f2, f3", uint32(0x023100D3), insts.OpFADDD),
			Entry("fmadd.s f1, f2, f3, f4", uint32(0x203100C3), insts.OpFMADDS),
			Entry("fmadd.d f1, f2, f3, f4", uint32(0x223100C3), insts.OpFMADDD),
			Entry("fsqrt.s f1, f2", uint32(0x580100D3), insts.OpFSQRTS),
			Entry("fclass.s x1, f2", uint32(0xE00110D3), insts.OpFCLASSS),
			Entry("fmv.x.w x1, f2", uint32(0xE00100D3), insts.OpFMVXW),
			Entry("fmv.w.x f1, x2", uint32(0xF00100D3), insts.OpFMVWX),
		)

		It("should discriminate ECALL from EBREAK through bit 20", func() {
			ecall, ok := tables.Lookup(0x00000073)
			Expect(ok).To(BeTrue())
			Expect(ecall.Op).To(Equal(insts.OpECALL))

			ebreak, ok := tables.Lookup(0x00100073)
			Expect(ok).To(BeTrue())
			Expect(ebreak.Op).To(Equal(insts.OpEBREAK))
		})

		It("should discriminate the FCVT signedness pairs", func() {
			w, ok := tables.Lookup(0xC00100D3) // fcvt.w.s x1, f2
			Expect(ok).To(BeTrue())
			Expect(w.Op).To(Equal(insts.OpFCVTWS))

			wu, ok := tables.Lookup(0xC01100D3) // fcvt.wu.s x1, f2
			Expect(ok).To(BeTrue())
			Expect(wu.Op).To(Equal(insts.OpFCVTWUS))
		})

		It("should discriminate the trap-return family", func() {
			for word, want := range map[uint32]insts.Op{
				0x00200073: insts.OpURET,
				0x10200073: insts.OpSRET,
				0x30200073: insts.OpMRET,
				0x10500073: insts.OpWFI,
			} {
				d, ok := tables.Lookup(word)
				Expect(ok).To(BeTrue())
				Expect(d.Op).To(Equal(want))
			}
		})

		It("should leave undefined slots empty", func() {
			// Opcode 1010111 (the vector space) is not described.
			_, ok := tables.Lookup(0x00000057)
			Expect(ok).To(BeFalse())
		})
	})

	Describe("16-bit classification", func() {
		DescribeTable("routes compressed encodings to their behavior",
			func(word uint32, want insts.Op) {
				d, ok := tables.Lookup(word)
				Expect(ok).To(BeTrue())
				Expect(d.Op).To(Equal(want))
			},
			Entry("c.addi4spn x8, 4", uint32(0x0040), insts.OpCADDI4SPN),
			Entry("c.lw x8, 0(x9)", uint32(0x4080), insts.OpCLW),
			Entry("c.sw x8, 0(x9)", uint32(0xC080), insts.OpCSW),
			Entry("c.fld f8, 0(x9)", uint32(0x2080), insts.OpCFLD),
			Entry("c.flw f8, 0(x9)", uint32(0x6080), insts.OpCFLW),
			Entry("c.addi x5, 1", uint32(0x0285), insts.OpCADDI),
			Entry("c.nop", uint32(0x0001), insts.OpCNOP),
			Entry("c.jal 2", uint32(0x2009), insts.OpCJAL),
			Entry("c.li x5, 1", uint32(0x4285), insts.OpCLI),
			Entry("c.lui x5, 1", uint32(0x6285), insts.OpCLUI),
			Entry("c.addi16sp 16", uint32(0x6141), insts.OpCADDI16SP),
			Entry("c.srli x8, 1", uint32(0x8005), insts.OpCSRLI),
			Entry("c.srai x8, 1", uint32(0x8405), insts.OpCSRAI),
			Entry("c.andi x8, 1", uint32(0x8805), insts.OpCANDI),
			Entry("c.sub x8, x9", uint32(0x8C05), insts.OpCSUB),
			Entry("c.xor x8, x9", uint32(0x8C25), insts.OpCXOR),
			Entry("c.or x8, x9", uint32(0x8C45), insts.OpCOR),
			Entry("c.and x8, x9", uint32(0x8C65), insts.OpCAND),
			Entry("c.j 2", uint32(0xA009), insts.OpCJ),
			Entry("c.beqz x8, 2", uint32(0xC009), insts.OpCBEQZ),
			Entry("c.bnez x8, 2", uint32(0xE009), insts.OpCBNEZ),
			Entry("c.slli x5, 1", uint32(0x0286), insts.OpCSLLI),
			Entry("c.lwsp x5, 0(sp)", uint32(0x4282), insts.OpCLWSP),
			Entry("c.fldsp f5, 0(sp)", uint32(0x2282), insts.OpCFLDSP),
			Entry("c.flwsp f5, 0(sp)", uint32(0x6282), insts.OpCFLWSP),
			Entry("c.mv x5, x6", uint32(0x829A), insts.OpCMV),
			Entry("c.jr x5", uint32(0x8282), insts.OpCJR),
			Entry("c.add x5, x6", uint32(0x929A), insts.OpCADD),
			Entry("c.jalr x5", uint32(0x9282), insts.OpCJALR),
			Entry("c.ebreak", uint32(0x9002), insts.OpCEBREAK),
			Entry("c.swsp x5, 0(sp)", uint32(0xC016), insts.OpCSWSP),
			Entry("c.fsdsp f5, 0(sp)", uint32(0xA016), insts.OpCFSDSP),
			Entry("c.fswsp f5, 0(sp)", uint32(0xE016), insts.OpCFSWSP),
		)

		It("should let DII claim the all-zero slot over C.ADDI4SPN", func() {
			d, ok := tables.Lookup(0x0000)
			Expect(ok).To(BeTrue())
			Expect(d.Op).To(Equal(insts.OpDII))
		})

		It("should keep C.ADDI4SPN for non-zero immediate fields", func() {
			d, ok := tables.Lookup(0x0020)
			Expect(ok).To(BeTrue())
			Expect(d.Op).To(Equal(insts.OpCADDI4SPN))
		})

		It("should populate every defined compressed funct3 group", func() {
			// One representative per quadrant/funct3 pair that the ISA
			// defines for RV32.
			words := []uint32{
				0x0040, 0x2080, 0x4080, 0x6080, 0xA080, 0xC080, 0xE080, // Q0
				0x0085, 0x2009, 0x4085, 0x6085, 0x8085, 0xA009, 0xC009, 0xE009, // Q1
				0x0086, 0x2082, 0x4082, 0x6082, 0x8082, 0xA086, 0xC086, 0xE086, // Q2
			}
			for _, w := range words {
				_, ok := tables.Lookup(w)
				Expect(ok).To(BeTrue(), "word %#06x", w)
			}
		})
	})

	Describe("ExtractFields", func() {
		It("should give distinct fingerprints to distinct funct7/funct3 forms", func() {
			add := insts.ExtractFields(0x003100B3)
			sub := insts.ExtractFields(0x403100B3)
			Expect(add).NotTo(Equal(sub))

			ecall := insts.ExtractFields(0x00000073)
			ebreak := insts.ExtractFields(0x00100073)
			Expect(ecall).NotTo(Equal(ebreak))
		})

		It("should ignore the rd and rs1 fields of the 32-bit formats", func() {
			// Same instruction, different rd/rs1: same slot.
			addiX5 := insts.ExtractFields(0x00700293) // addi x5, x0, 7
			addiX6 := insts.ExtractFields(0x00708313) // addi x6, x1, 7
			Expect(addiX5).To(Equal(addiX6))
		})
	})
})
