// Package arch defines the architectural-state contract the translator
// emits code against, plus a reference RV32 implementation of it.
package arch

import "fmt"

// XLen is the guest register width in bits.
const XLen = 32

// PGMask masks the in-page offset bits of a guest address; page size is
// PGMask+1.
const PGMask uint32 = 0xFFF

// Space tags one of the memory channels of the architectural state.
type Space int

// Memory channels. Emitted source refers to them by the symbolic names that
// Name returns, not by their numeric values.
const (
	SpaceMem Space = iota
	SpaceCSR
	SpaceFence
	SpaceRes
)

var spaceNames = [...]string{"SPACE_MEM", "SPACE_CSR", "SPACE_FENCE", "SPACE_RES"}

// Name returns the symbolic constant the emitted code uses for the channel.
func (s Space) Name() string {
	if int(s) < len(spaceNames) {
		return spaceNames[s]
	}
	return "SPACE_?"
}

// SyncPhase distinguishes the instrumentation hook before an instruction's
// semantics from the one after.
type SyncPhase int

// Sync phases.
const (
	PreSync SyncPhase = iota
	PostSync
)

// Register index space. X and F registers occupy two contiguous banks,
// followed by the scalar control slots.
const (
	RegX0         = 0
	RegF0         = 32
	RegPC         = 64
	RegNextPC     = 65
	RegLastBranch = 66
	RegFCSR       = 67
	RegTrapState  = 68
	NumRegs       = 69
)

// RegX returns the index of integer register i.
func RegX(i uint32) uint { return RegX0 + uint(i) }

// RegF returns the index of floating register i.
func RegF(i uint32) uint { return RegF0 + uint(i) }

// LastBranchIndirect is the LAST_BRANCH sentinel for an indirect branch
// target; downstream must not inline-chain past it.
const LastBranchIndirect uint32 = 0xFFFFFFFF

// RegBitWidth returns the storage width of register index i in bits.
func RegBitWidth(i uint) uint {
	if i >= RegF0 && i < RegF0+32 {
		return 64
	}
	return 32
}

// RegByteOffset returns the byte offset of register index i inside the
// packed register block handed to emitted code.
func RegByteOffset(i uint) uint {
	switch {
	case i < RegF0:
		return i * 4
	case i < RegPC:
		return 128 + (i-RegF0)*8
	default:
		return 384 + (i-RegPC)*4
	}
}

// xAliases holds the RISC-V ABI names of the integer registers, used by
// disassembly output.
var xAliases = [32]string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}

var scalarNames = [...]string{"pc", "next_pc", "last_branch", "fcsr", "trap_state"}

// RegAlias returns the disassembly name of register index i.
func RegAlias(i uint) string {
	switch {
	case i < RegF0:
		return xAliases[i]
	case i < RegPC:
		return fName(i - RegF0)
	default:
		return scalarNames[i-RegPC]
	}
}

// RegPointerName returns the C identifier of the pointer local that emitted
// code dereferences for register index i.
func RegPointerName(i uint) string {
	switch {
	case i < RegF0:
		return xName(i)
	case i < RegPC:
		return fName(i - RegF0)
	default:
		return scalarNames[i-RegPC]
	}
}

var xNames, fNames [32]string

func init() {
	for i := 0; i < 32; i++ {
		xNames[i] = fmt.Sprintf("x%d", i)
		fNames[i] = fmt.Sprintf("f%d", i)
	}
}

func xName(i uint) string { return xNames[i] }
func fName(i uint) string { return fNames[i] }

// Emitter is the fragment sink GenSync writes through. *tcc.Builder
// satisfies it.
type Emitter interface {
	Appendf(format string, args ...any)
}

// State is the contract the translator consumes. It covers guest address
// translation and physical reads for instruction fetch, and the
// per-instruction instrumentation hook.
type State interface {
	// V2P translates a guest virtual address to a physical address.
	V2P(vaddr uint32) (uint32, error)

	// Read copies len(buf) bytes of guest memory starting at paddr.
	Read(paddr uint32, buf []byte) error

	// GenSync emits the instrumentation hook for the given phase of the
	// instruction with the given serial index.
	GenSync(e Emitter, phase SyncPhase, serial int)
}
