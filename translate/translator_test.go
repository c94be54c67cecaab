package translate_test

import (
	"encoding/binary"
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/SanSalvad-or/DBT-RISE-RISCV/translate"
)

// words packs 32-bit instruction words into little-endian bytes.
func words(ws ...uint32) []byte {
	buf := make([]byte, 4*len(ws))
	for i, w := range ws {
		binary.LittleEndian.PutUint32(buf[4*i:], w)
	}
	return buf
}

// halves packs 16-bit instruction half-words into little-endian bytes.
func halves(hs ...uint16) []byte {
	buf := make([]byte, 2*len(hs))
	for i, h := range hs {
		binary.LittleEndian.PutUint16(buf[2*i:], h)
	}
	return buf
}

// translateBytes loads code at pc into a fresh reference state and
// translates one block.
func translateBytes(pc uint32, code []byte, opts ...translate.Option) (*translate.Unit, error) {
	tr, state := translate.NewWithRV32(opts...)
	state.Memory().Write(pc, code)
	return tr.TranslateBlock(pc)
}

var _ = Describe("TranslateBlock", func() {
	Describe("scenario: addi x5, x0, 7", func() {
		var unit *translate.Unit

		BeforeEach(func() {
			var err error
			unit, err = translateBytes(0x1000, words(0x00700293),
				translate.WithBlockLimit(1))
			Expect(err).NotTo(HaveOccurred())
		})

		It("should write 7 into x5 and fall through to PC+4", func() {
			Expect(unit.Source).To(ContainSubstring("*x5 = "))
			Expect(unit.Source).To(ContainSubstring("0x7U"))
			Expect(unit.Source).To(ContainSubstring("*next_pc = 0x1004U;"))
		})

		It("should cut at the block limit without a terminator", func() {
			Expect(unit.InstCount).To(Equal(1))
			Expect(unit.End).To(Equal(translate.Continue))
			Expect(unit.EndPC).To(Equal(uint32(0x1004)))
		})

		It("should wrap the unit in the block function", func() {
			Expect(unit.Source).To(ContainSubstring(
				"uint32_t block_00001000(uint8_t *regs, void *core_ptr) {"))
			Expect(unit.Source).To(ContainSubstring("ADDI_0x00001000:"))
		})

		It("should emit the shared trap epilogue", func() {
			Expect(unit.Source).To(ContainSubstring("trap_entry:"))
			Expect(unit.Source).To(ContainSubstring(
				"enter_trap(core_ptr, *trap_state, *pc);"))
			Expect(unit.Source).To(ContainSubstring("return *next_pc;"))
		})
	})

	Describe("scenario: lui x6, 0x12345 ; addi x6, x6, 0x678", func() {
		It("should compose 0x12345678 from the two halves", func() {
			unit, err := translateBytes(0x1000, words(0x12345337, 0x67830313),
				translate.WithBlockLimit(2))
			Expect(err).NotTo(HaveOccurred())
			Expect(unit.InstCount).To(Equal(2))
			Expect(unit.Source).To(ContainSubstring("*x6 = 0x12345000U;"))
			Expect(unit.Source).To(ContainSubstring("0x678U"))
			Expect(unit.Source).To(ContainSubstring("*next_pc = 0x1008U;"))
		})
	})

	Describe("scenario: beq x0, x0, 8", func() {
		var unit *translate.Unit

		BeforeEach(func() {
			var err error
			unit, err = translateBytes(0x1000, words(0x00000463))
			Expect(err).NotTo(HaveOccurred())
		})

		It("should choose between target and fallthrough", func() {
			Expect(unit.Source).To(ContainSubstring("0x1008U"))
			Expect(unit.Source).To(ContainSubstring("0x1004U"))
			Expect(unit.Source).To(ContainSubstring("*next_pc = ("))
		})

		It("should mark a non-self branch in LAST_BRANCH", func() {
			Expect(unit.Source).To(ContainSubstring("*last_branch = 0x1U;"))
		})

		It("should terminate the unit with BRANCH", func() {
			Expect(unit.InstCount).To(Equal(1))
			Expect(unit.End).To(Equal(translate.Branch))
		})
	})

	Describe("scenario: jal x0, 0 (self loop)", func() {
		It("should stop the simulation instead of translating", func() {
			_, err := translateBytes(0x2000, words(0x0000006F))
			var stop *translate.SimulationStopped
			Expect(errors.As(err, &stop)).To(BeTrue())
			Expect(stop.Code).To(BeZero())
		})
	})

	Describe("scenario: c.j 0 (self loop)", func() {
		It("should stop the simulation instead of translating", func() {
			_, err := translateBytes(0x2000, halves(0xA001))
			var stop *translate.SimulationStopped
			Expect(errors.As(err, &stop)).To(BeTrue())
		})
	})

	Describe("scenario: half-word 0x0000 (DII)", func() {
		It("should raise the illegal-instruction trap", func() {
			unit, err := translateBytes(0x1000, halves(0x0000))
			Expect(err).NotTo(HaveOccurred())
			Expect(unit.Source).To(ContainSubstring("*trap_state = 0x80020000U;"))
			Expect(unit.End).To(Equal(translate.Branch))
		})
	})

	Describe("scenario: mul x3, x1, x2", func() {
		It("should emit the widened signed product", func() {
			unit, err := translateBytes(0x1000, words(0x022081B3),
				translate.WithBlockLimit(1))
			Expect(err).NotTo(HaveOccurred())
			Expect(unit.Source).To(ContainSubstring("(int64_t)(int32_t)"))
			Expect(unit.Source).To(ContainSubstring("*x3 = "))
		})
	})

	Describe("fetch", func() {
		It("should fault on unmapped addresses", func() {
			tr, _ := translate.NewWithRV32()
			_, err := tr.TranslateBlock(0x5000)
			var fault *translate.AccessFault
			Expect(errors.As(err, &fault)).To(BeTrue())
			Expect(fault.PC).To(Equal(uint32(0x5000)))
		})

		It("should not read the next page for a compressed instruction at a page edge", func() {
			// c.nop at 0x1FFE; the following page stays unmapped.
			unit, err := translateBytes(0x1FFE, halves(0x0001),
				translate.WithBlockLimit(1))
			Expect(err).NotTo(HaveOccurred())
			Expect(unit.InstCount).To(Equal(1))
			Expect(unit.Source).To(ContainSubstring("C_NOP_0x00001ffe:"))
		})

		It("should fault when a 32-bit fetch crosses into an unmapped page", func() {
			tr, state := translate.NewWithRV32()
			state.Memory().Write(0x1FFE, []byte{0x13, 0x00}) // low half of addi
			_, err := tr.TranslateBlock(0x1FFE)
			var fault *translate.AccessFault
			Expect(errors.As(err, &fault)).To(BeTrue())
			Expect(fault.PC).To(Equal(uint32(0x1FFE)))
		})

		It("should fetch across mapped page boundaries through independent translations", func() {
			tr, state := translate.NewWithRV32()
			state.Memory().Write(0x1FFE, words(0x00700293)) // spans two pages
			unit, err := tr.TranslateBlock(0x1FFE)
			Expect(err).NotTo(HaveOccurred())
			Expect(unit.Source).To(ContainSubstring("ADDI_0x00001ffe:"))
		})
	})

	Describe("envelope invariants", func() {
		var unit *translate.Unit

		BeforeEach(func() {
			var err error
			unit, err = translateBytes(0x1000, words(0x00700293, 0x00000463))
			Expect(err).NotTo(HaveOccurred())
			Expect(unit.InstCount).To(Equal(2))
		})

		It("should emit exactly one sync pair per instruction", func() {
			Expect(strings.Count(unit.Source, "pre_sync(")).To(Equal(2))
			Expect(strings.Count(unit.Source, "post_sync(")).To(Equal(2))
		})

		It("should emit exactly one trap check per instruction", func() {
			Expect(strings.Count(unit.Source,
				"if (*trap_state != 0) goto trap_entry;")).To(Equal(2))
		})

		It("should carry the serial index in the sync calls", func() {
			Expect(unit.Source).To(ContainSubstring("pre_sync(core_ptr, 0);"))
			Expect(unit.Source).To(ContainSubstring("pre_sync(core_ptr, 1);"))
			Expect(unit.Source).To(ContainSubstring("post_sync(core_ptr, 1);"))
		})

		It("should write NEXT_PC once per non-terminating instruction", func() {
			Expect(strings.Count(unit.Source, "*next_pc = 0x1004U;")).To(Equal(1))
		})
	})

	Describe("X0 suppression", func() {
		It("should never store to x0", func() {
			// addi x0, x0, 0 ; div x0, x1, x2 ; lw x0, 0(x1)
			unit, err := translateBytes(0x1000,
				words(0x00000013, 0x0220C033, 0x0000A003),
				translate.WithBlockLimit(3))
			Expect(err).NotTo(HaveOccurred())
			Expect(unit.Source).NotTo(ContainSubstring("*x0 ="))
			Expect(unit.Source).NotTo(ContainSubstring("*const x0"))
		})
	})

	Describe("disassembly", func() {
		translateWith := func(disass bool) string {
			unit, err := translateBytes(0x1000, words(0x12345337, 0x00000463),
				translate.WithDisassembly(disass))
			Expect(err).NotTo(HaveOccurred())
			return unit.Source
		}

		It("should emit print_disass calls only when enabled", func() {
			Expect(translateWith(true)).To(ContainSubstring("print_disass(core_ptr, 0x00001000U, \"lui t1, 0x12345\");"))
			Expect(translateWith(false)).NotTo(ContainSubstring("print_disass("))
		})

		It("should change nothing but the print_disass lines", func() {
			withDisass := translateWith(true)
			withoutDisass := translateWith(false)

			var kept []string
			for _, line := range strings.Split(withDisass, "\n") {
				if strings.Contains(line, "print_disass(") {
					continue
				}
				kept = append(kept, line)
			}
			Expect(strings.Join(kept, "\n")).To(Equal(withoutDisass))
		})
	})
})
