package arch

import "github.com/SanSalvad-or/DBT-RISE-RISCV/tcc"

// EmitPlan describes the packed register block to the unit builder: one
// slot per register index, with the scalar control slots fixed in the
// prologue and the X/F banks materialized on demand.
func EmitPlan() tcc.Plan {
	slots := make([]tcc.RegSlot, NumRegs)
	for i := uint(0); i < NumRegs; i++ {
		slots[i] = tcc.RegSlot{
			Name:   RegPointerName(i),
			Offset: RegByteOffset(i),
			Bits:   RegBitWidth(i),
			Fixed:  i >= RegPC,
		}
	}
	return tcc.Plan{Slots: slots}
}
