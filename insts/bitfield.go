// Package insts provides RV32GC instruction descriptors and the two-level
// lookup tables used to classify fetched instruction words.
package insts

// BitSub extracts the width-bit field of word starting at bit position lo.
func BitSub(word uint32, lo, width uint) uint32 {
	return (word >> lo) & ((1 << width) - 1)
}

// SignExtend32 replicates bit bits-1 of v into all higher bits of a
// 32-bit word.
func SignExtend32(v uint32, bits uint) uint32 {
	shift := 32 - bits
	return uint32(int32(v<<shift) >> shift)
}

// SignExtend64 replicates bit bits-1 of v into all higher bits of a
// 64-bit word.
func SignExtend64(v uint64, bits uint) uint64 {
	shift := 64 - bits
	return uint64(int64(v<<shift) >> shift)
}
