package arch_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/SanSalvad-or/DBT-RISE-RISCV/arch"
)

var _ = Describe("RV32 State", func() {
	var s *arch.RV32

	BeforeEach(func() {
		s = arch.NewRV32()
	})

	Describe("Memory", func() {
		It("should fail reads of unmapped pages", func() {
			var buf [4]byte
			Expect(s.Read(0x5000, buf[:])).NotTo(Succeed())
		})

		It("should read back written bytes", func() {
			s.Memory().Write(0x1000, []byte{0x93, 0x02, 0x70, 0x00})
			var buf [4]byte
			Expect(s.Read(0x1000, buf[:])).To(Succeed())
			Expect(buf).To(Equal([4]byte{0x93, 0x02, 0x70, 0x00}))
		})

		It("should span page boundaries on write and read", func() {
			s.Memory().Write(0x1FFE, []byte{0x01, 0x02, 0x03, 0x04})
			Expect(s.Memory().Read16(0x1FFE)).To(Equal(uint16(0x0201)))
			Expect(s.Memory().Read16(0x2000)).To(Equal(uint16(0x0403)))
		})
	})

	Describe("V2P", func() {
		It("should identity-map by default", func() {
			p, err := s.V2P(0x1234)
			Expect(err).NotTo(HaveOccurred())
			Expect(p).To(Equal(uint32(0x1234)))
		})

		It("should honor page remaps", func() {
			s.MapPage(0x4000, 0x8000)
			p, err := s.V2P(0x4ABC)
			Expect(err).NotTo(HaveOccurred())
			Expect(p).To(Equal(uint32(0x8ABC)))
		})
	})

	Describe("memory channels", func() {
		It("should service MEM reads and writes", func() {
			Expect(s.WriteMem(arch.SpaceMem, 0x1000, 0xDEADBEEF, 32)).To(Succeed())
			v, err := s.ReadMem(arch.SpaceMem, 0x1000, 32)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(uint64(0xDEADBEEF)))
		})

		It("should service the reservation channel", func() {
			v, err := s.ReadMem(arch.SpaceRes, 0x2000, 32)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(BeZero())

			Expect(s.WriteMem(arch.SpaceRes, 0x2000, 0xFFFFFFFF, 32)).To(Succeed())
			v, err = s.ReadMem(arch.SpaceRes, 0x2000, 32)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(uint64(0xFFFFFFFF)))
		})

		It("should service the fence channel slots", func() {
			Expect(s.WriteMem(arch.SpaceFence, 0, 0xFF, 32)).To(Succeed())
			Expect(s.Fence(0)).To(Equal(uint32(0xFF)))
		})

		It("should service CSR accesses and reject unknown numbers", func() {
			Expect(s.WriteMem(arch.SpaceCSR, arch.CSRMEPC, 0x2000, 32)).To(Succeed())
			v, err := s.ReadMem(arch.SpaceCSR, arch.CSRMEPC, 32)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(uint64(0x2000)))

			_, err = s.ReadMem(arch.SpaceCSR, 0x7C0, 32)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("registers", func() {
		It("should keep X0 pinned to zero", func() {
			s.WriteReg(0, 0x1234)
			Expect(s.X[0]).To(BeZero())
			s.WriteReg(5, 0x1234)
			Expect(s.X[5]).To(Equal(uint32(0x1234)))
		})
	})
})

var _ = Describe("Trap word", func() {
	It("should pack pending marker, cause, and trap id", func() {
		w := arch.PackTrap(2, 0)
		Expect(w).To(Equal(uint32(0x80020000)))
		Expect(arch.TrapPending(w)).To(BeTrue())
		Expect(arch.TrapCause(w)).To(Equal(uint32(2)))
		Expect(arch.TrapID(w)).To(BeZero())
	})

	It("should round-trip the environment-call cause", func() {
		w := arch.PackTrap(11, 0)
		Expect(arch.TrapCause(w)).To(Equal(uint32(11)))
	})
})

var _ = Describe("Register index space", func() {
	It("should lay out X, F, and the scalar slots contiguously", func() {
		Expect(arch.RegByteOffset(arch.RegX(0))).To(Equal(uint(0)))
		Expect(arch.RegByteOffset(arch.RegX(5))).To(Equal(uint(20)))
		Expect(arch.RegByteOffset(arch.RegF(0))).To(Equal(uint(128)))
		Expect(arch.RegByteOffset(arch.RegPC)).To(Equal(uint(384)))
		Expect(arch.RegByteOffset(arch.RegTrapState)).To(Equal(uint(400)))
	})

	It("should expose 64-bit widths only for the F bank", func() {
		Expect(arch.RegBitWidth(arch.RegX(31))).To(Equal(uint(32)))
		Expect(arch.RegBitWidth(arch.RegF(0))).To(Equal(uint(64)))
		Expect(arch.RegBitWidth(arch.RegFCSR)).To(Equal(uint(32)))
	})

	It("should name registers by ABI alias", func() {
		Expect(arch.RegAlias(arch.RegX(0))).To(Equal("zero"))
		Expect(arch.RegAlias(arch.RegX(2))).To(Equal("sp"))
		Expect(arch.RegAlias(arch.RegX(10))).To(Equal("a0"))
		Expect(arch.RegAlias(arch.RegF(3))).To(Equal("f3"))
	})
})
