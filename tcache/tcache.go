// Package tcache caches translation units by guest start address, using
// Akita cache components for set/way and LRU bookkeeping. A FLUSH block
// terminator maps to InvalidateAll.
package tcache

import (
	akitacache "github.com/sarchlab/akita/v4/mem/cache"

	"github.com/SanSalvad-or/DBT-RISE-RISCV/translate"
)

// Config holds translation-cache geometry.
type Config struct {
	// Sets is the number of directory sets.
	Sets int
	// Ways is the associativity.
	Ways int
}

// DefaultConfig returns a geometry sized for typical guest working sets.
func DefaultConfig() Config {
	return Config{Sets: 256, Ways: 4}
}

// Statistics holds cache counters.
type Statistics struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Flushes   uint64
}

// Cache is the translation cache. One directory block tracks one
// translation unit; unit sources live alongside the directory, indexed by
// (set, way).
type Cache struct {
	config    Config
	directory *akitacache.DirectoryImpl
	units     []*translate.Unit
	stats     Statistics
}

// unitGranularity is the directory "block size". Units are keyed by their
// start PC; two bytes is the smallest instruction alignment, so no two
// units share a block.
const unitGranularity = 2

// New creates a translation cache with the given geometry.
func New(config Config) *Cache {
	return &Cache{
		config: config,
		directory: akitacache.NewDirectory(
			config.Sets,
			config.Ways,
			unitGranularity,
			akitacache.NewLRUVictimFinder(),
		),
		units: make([]*translate.Unit, config.Sets*config.Ways),
	}
}

// Config returns the cache geometry.
func (c *Cache) Config() Config { return c.config }

// Stats returns the cache counters.
func (c *Cache) Stats() Statistics { return c.stats }

func (c *Cache) slot(block *akitacache.Block) int {
	return block.SetID*c.config.Ways + block.WayID
}

// Get looks up the unit translated at pc.
func (c *Cache) Get(pc uint32) (*translate.Unit, bool) {
	block := c.directory.Lookup(0, uint64(pc))
	if block == nil || !block.IsValid {
		c.stats.Misses++
		return nil, false
	}
	u := c.units[c.slot(block)]
	if u == nil || u.StartPC != pc {
		c.stats.Misses++
		return nil, false
	}
	c.stats.Hits++
	c.directory.Visit(block)
	return u, true
}

// Put installs a unit, evicting the LRU way of its set if needed.
func (c *Cache) Put(pc uint32, u *translate.Unit) {
	victim := c.directory.FindVictim(uint64(pc))
	if victim == nil {
		return
	}
	if victim.IsValid {
		c.stats.Evictions++
	}
	victim.Tag = uint64(pc)
	victim.IsValid = true
	victim.IsDirty = false
	c.units[c.slot(victim)] = u
	c.directory.Visit(victim)
}

// Invalidate drops the unit translated at pc, if cached.
func (c *Cache) Invalidate(pc uint32) {
	block := c.directory.Lookup(0, uint64(pc))
	if block == nil || !block.IsValid {
		return
	}
	if u := c.units[c.slot(block)]; u == nil || u.StartPC != pc {
		return
	}
	block.IsValid = false
	c.units[c.slot(block)] = nil
}

// InvalidateAll drops every cached unit. FENCE.I-terminated blocks require
// this before execution continues.
func (c *Cache) InvalidateAll() {
	c.stats.Flushes++
	for set := 0; set < c.config.Sets; set++ {
		for way := 0; way < c.config.Ways; way++ {
			i := set*c.config.Ways + way
			if c.units[i] == nil {
				continue
			}
			if block := c.directory.Lookup(0, uint64(c.units[i].StartPC)); block != nil {
				block.IsValid = false
			}
			c.units[i] = nil
		}
	}
}
