// Package translate implements the RV32GC dynamic binary translator core:
// instruction fetch, the per-opcode translation handlers, and the block
// driver that assembles translation units.
package translate

import "fmt"

// AccessFault reports an instruction fetch from an unmapped or protected
// guest address.
type AccessFault struct {
	// PC is the faulting guest program counter.
	PC uint32
}

func (e *AccessFault) Error() string {
	return fmt.Sprintf("access fault fetching %#010x", e.PC)
}

// SimulationStopped reports that the fetch-side guard recognized a
// self-loop idiom and ended the translation pass.
type SimulationStopped struct {
	// Code is the exit code the guard supplies.
	Code int
}

func (e *SimulationStopped) Error() string {
	return fmt.Sprintf("simulation stopped with exit code %d", e.Code)
}
