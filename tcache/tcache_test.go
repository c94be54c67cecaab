package tcache_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/SanSalvad-or/DBT-RISE-RISCV/tcache"
	"github.com/SanSalvad-or/DBT-RISE-RISCV/translate"
)

func unitAt(pc uint32) *translate.Unit {
	return &translate.Unit{
		StartPC:   pc,
		EndPC:     pc + 4,
		Source:    "uint32_t block(uint8_t *regs, void *core_ptr) { return 0; }\n",
		InstCount: 1,
		End:       translate.Branch,
	}
}

var _ = Describe("Cache", func() {
	var c *tcache.Cache

	BeforeEach(func() {
		c = tcache.New(tcache.Config{Sets: 4, Ways: 2})
	})

	It("should miss on an empty cache", func() {
		_, ok := c.Get(0x1000)
		Expect(ok).To(BeFalse())
		Expect(c.Stats().Misses).To(Equal(uint64(1)))
	})

	It("should return installed units", func() {
		u := unitAt(0x1000)
		c.Put(0x1000, u)

		got, ok := c.Get(0x1000)
		Expect(ok).To(BeTrue())
		Expect(got).To(BeIdenticalTo(u))
		Expect(c.Stats().Hits).To(Equal(uint64(1)))
	})

	It("should keep units at distinct addresses apart", func() {
		c.Put(0x1000, unitAt(0x1000))
		c.Put(0x2000, unitAt(0x2000))

		got, ok := c.Get(0x2000)
		Expect(ok).To(BeTrue())
		Expect(got.StartPC).To(Equal(uint32(0x2000)))
	})

	It("should evict within a full set", func() {
		// With 4 sets of 2 ways and 2-byte granularity, addresses 0x0,
		// 0x8, 0x10 land in set 0.
		c.Put(0x0, unitAt(0x0))
		c.Put(0x8, unitAt(0x8))
		c.Put(0x10, unitAt(0x10))

		Expect(c.Stats().Evictions).To(Equal(uint64(1)))
		_, ok := c.Get(0x10)
		Expect(ok).To(BeTrue())
	})

	It("should invalidate a single unit", func() {
		c.Put(0x1000, unitAt(0x1000))
		c.Invalidate(0x1000)

		_, ok := c.Get(0x1000)
		Expect(ok).To(BeFalse())
	})

	It("should drop everything on InvalidateAll", func() {
		c.Put(0x1000, unitAt(0x1000))
		c.Put(0x2000, unitAt(0x2000))

		c.InvalidateAll()

		_, ok := c.Get(0x1000)
		Expect(ok).To(BeFalse())
		_, ok = c.Get(0x2000)
		Expect(ok).To(BeFalse())
		Expect(c.Stats().Flushes).To(Equal(uint64(1)))
	})
})
