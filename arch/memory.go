package arch

import "fmt"

// PageSize is the guest page size in bytes.
const PageSize = int(PGMask) + 1

// Memory is a sparse, page-granular physical memory. Reads of unmapped
// pages fail; writes allocate.
type Memory struct {
	pages map[uint32][]byte
}

// NewMemory creates an empty physical memory.
func NewMemory() *Memory {
	return &Memory{pages: make(map[uint32][]byte)}
}

func (m *Memory) page(paddr uint32, alloc bool) []byte {
	base := paddr &^ PGMask
	p, ok := m.pages[base]
	if !ok && alloc {
		p = make([]byte, PageSize)
		m.pages[base] = p
	}
	return p
}

// Read copies len(buf) bytes starting at paddr into buf. It fails on the
// first unmapped page it touches.
func (m *Memory) Read(paddr uint32, buf []byte) error {
	for n := 0; n < len(buf); {
		p := m.page(paddr, false)
		if p == nil {
			return fmt.Errorf("read of unmapped address %#010x", paddr)
		}
		off := int(paddr & PGMask)
		c := copy(buf[n:], p[off:])
		n += c
		paddr += uint32(c)
	}
	return nil
}

// Write copies buf into memory starting at paddr, allocating pages as
// needed.
func (m *Memory) Write(paddr uint32, buf []byte) {
	for n := 0; n < len(buf); {
		p := m.page(paddr, true)
		off := int(paddr & PGMask)
		c := copy(p[off:], buf[n:])
		n += c
		paddr += uint32(c)
	}
}

// Read8 reads one byte. Unmapped addresses read as zero.
func (m *Memory) Read8(paddr uint32) byte {
	var b [1]byte
	if err := m.Read(paddr, b[:]); err != nil {
		return 0
	}
	return b[0]
}

// Write8 writes one byte.
func (m *Memory) Write8(paddr uint32, v byte) {
	m.Write(paddr, []byte{v})
}

// Read16 reads a little-endian half-word.
func (m *Memory) Read16(paddr uint32) uint16 {
	var b [2]byte
	if err := m.Read(paddr, b[:]); err != nil {
		return 0
	}
	return uint16(b[0]) | uint16(b[1])<<8
}

// Read32 reads a little-endian word.
func (m *Memory) Read32(paddr uint32) uint32 {
	var b [4]byte
	if err := m.Read(paddr, b[:]); err != nil {
		return 0
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// Write32 writes a little-endian word.
func (m *Memory) Write32(paddr uint32, v uint32) {
	m.Write(paddr, []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)})
}

// Mapped reports whether the page containing paddr is mapped.
func (m *Memory) Mapped(paddr uint32) bool {
	return m.page(paddr, false) != nil
}
