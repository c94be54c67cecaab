package arch

import "fmt"

// RV32 is the reference architectural state: register banks, physical
// memory behind an identity-mapped v2p (with optional per-page remaps),
// the CSR bank, the LR/SC reservation set, and the fence side channel.
type RV32 struct {
	// X holds the integer register file. X[0] stays zero; the handlers
	// suppress writes to it and WriteReg keeps it pinned as a backstop.
	X [32]uint32

	// F holds the floating register file. Single-precision values are
	// NaN-boxed: upper 32 bits all ones.
	F [32]uint64

	// Scalar control slots.
	PC         uint32
	NextPC     uint32
	LastBranch uint32
	FCSR       uint32
	TrapState  uint32

	mem  *Memory
	csrs *CSRBank

	// remap overrides the identity v2p for individual pages.
	remap map[uint32]uint32

	// reservations marks addresses claimed by LR.W.
	reservations map[uint32]uint32

	// fence holds the fence side channel slots (fence, fence.i, vma rs1,
	// vma rs2).
	fence [4]uint32
}

// NewRV32 creates a reference state with empty memory.
func NewRV32() *RV32 {
	return &RV32{
		mem:          NewMemory(),
		csrs:         NewCSRBank(),
		remap:        make(map[uint32]uint32),
		reservations: make(map[uint32]uint32),
	}
}

// Memory returns the physical memory.
func (s *RV32) Memory() *Memory { return s.mem }

// CSRs returns the CSR bank.
func (s *RV32) CSRs() *CSRBank { return s.csrs }

// MapPage overrides the identity translation of the page containing vaddr
// so it resolves into the page containing paddr.
func (s *RV32) MapPage(vaddr, paddr uint32) {
	s.remap[vaddr&^PGMask] = paddr &^ PGMask
}

// V2P translates a guest virtual address. Translation itself always
// succeeds (identity plus remaps); accessibility is decided by Read.
func (s *RV32) V2P(vaddr uint32) (uint32, error) {
	if base, ok := s.remap[vaddr&^PGMask]; ok {
		return base | vaddr&PGMask, nil
	}
	return vaddr, nil
}

// Read copies guest physical memory, failing on unmapped pages.
func (s *RV32) Read(paddr uint32, buf []byte) error {
	return s.mem.Read(paddr, buf)
}

// GenSync emits the default instrumentation hooks: a pre_sync/post_sync
// call carrying the instruction's serial index.
func (s *RV32) GenSync(e Emitter, phase SyncPhase, serial int) {
	switch phase {
	case PreSync:
		e.Appendf("pre_sync(core_ptr, %d);", serial)
	case PostSync:
		e.Appendf("post_sync(core_ptr, %d);", serial)
	}
}

// WriteReg sets integer register i. Register 0 stays zero.
func (s *RV32) WriteReg(i uint32, v uint32) {
	if i == 0 {
		return
	}
	s.X[i] = v
}

// ReadMem services the emitted read_mem ABI against this state.
func (s *RV32) ReadMem(space Space, addr uint32, bits uint) (uint64, error) {
	switch space {
	case SpaceMem:
		buf := make([]byte, bits/8)
		if err := s.mem.Read(addr, buf); err != nil {
			return 0, err
		}
		var v uint64
		for i := len(buf) - 1; i >= 0; i-- {
			v = v<<8 | uint64(buf[i])
		}
		return v, nil
	case SpaceCSR:
		v, err := s.csrs.Read(uint16(addr))
		return uint64(v), err
	case SpaceRes:
		return uint64(s.reservations[addr]), nil
	case SpaceFence:
		if int(addr) < len(s.fence) {
			return uint64(s.fence[addr]), nil
		}
		return 0, fmt.Errorf("fence channel: no slot %d", addr)
	}
	return 0, fmt.Errorf("read from unknown space %d", space)
}

// WriteMem services the emitted write_mem ABI against this state.
func (s *RV32) WriteMem(space Space, addr uint32, v uint64, bits uint) error {
	switch space {
	case SpaceMem:
		buf := make([]byte, bits/8)
		for i := range buf {
			buf[i] = byte(v >> (8 * uint(i)))
		}
		s.mem.Write(addr, buf)
		return nil
	case SpaceCSR:
		return s.csrs.Write(uint16(addr), uint32(v))
	case SpaceRes:
		s.reservations[addr] = uint32(v)
		return nil
	case SpaceFence:
		if int(addr) < len(s.fence) {
			s.fence[addr] = uint32(v)
			return nil
		}
		return fmt.Errorf("fence channel: no slot %d", addr)
	}
	return fmt.Errorf("write to unknown space %d", space)
}

// Fence returns the value last written to fence channel slot i.
func (s *RV32) Fence(i int) uint32 { return s.fence[i] }

// TrapCause unpacks the cause field of the trap word.
func TrapCause(trapState uint32) uint32 { return trapState >> 16 & 0xFF }

// TrapID unpacks the trap id field of the trap word.
func TrapID(trapState uint32) uint32 { return trapState & 0xFFFF }

// TrapPending reports whether the trap word marks a pending trap.
func TrapPending(trapState uint32) bool { return trapState>>24 == 0x80 }

// PackTrap builds the trap word: high byte 0x80 marks the pending trap,
// bits [23:16] hold the cause, bits [15:0] the trap id.
func PackTrap(cause, trapID uint32) uint32 {
	return 0x80<<24 | (cause&0xFF)<<16 | trapID&0xFFFF
}
