package translate

import (
	"fmt"

	"github.com/SanSalvad-or/DBT-RISE-RISCV/arch"
	"github.com/SanSalvad-or/DBT-RISE-RISCV/insts"
	"github.com/SanSalvad-or/DBT-RISE-RISCV/tcc"
)

// Continuation classifies how an instruction ends a translation unit.
type Continuation int

const (
	// Continue falls through to the next instruction.
	Continue Continuation = iota
	// Branch ends the unit; the target may be direct or indirect.
	Branch
	// Flush ends the unit and requires downstream to invalidate cached
	// translations (FENCE.I).
	Flush
)

func (c Continuation) String() string {
	switch c {
	case Continue:
		return "CONT"
	case Branch:
		return "BRANCH"
	case Flush:
		return "FLUSH"
	}
	return "?"
}

// Unit is one translated block: the emitted source text and the shape of
// its ending.
type Unit struct {
	// StartPC is the guest address the unit begins at.
	StartPC uint32
	// Source is the emitted C source text.
	Source string
	// EndPC is the fallthrough address after the unit's last instruction.
	EndPC uint32
	// InstCount is the number of guest instructions in the unit.
	InstCount int
	// End is the terminating continuation kind (Branch or Flush; Continue
	// when the unit was cut by the block limit).
	End Continuation
}

// instr carries the per-instruction translation context. Handlers read pc
// and word; the driver pre-advances npc by the instruction size.
type instr struct {
	pc     uint32
	npc    uint32
	word   uint32
	serial int
}

type handlerFn func(b *tcc.Builder, ic *instr) Continuation

// Translator turns guest instruction streams into translation units. It
// borrows the architectural state it fetches from; NewWithRV32 constructs
// and owns a fresh reference state instead.
type Translator struct {
	state      arch.State
	tables     *insts.Tables
	handlers   [insts.NumOps]handlerFn
	plan       tcc.Plan
	disass     bool
	blockLimit int
}

// Option configures a Translator.
type Option func(*Translator)

// WithDisassembly enables print_disass calls in the emitted source.
func WithDisassembly(on bool) Option {
	return func(t *Translator) {
		t.disass = on
	}
}

// WithBlockLimit caps the number of instructions per translation unit.
// A value of 0 means no limit.
func WithBlockLimit(n int) Option {
	return func(t *Translator) {
		t.blockLimit = n
	}
}

// New creates a translator over a borrowed architectural state.
func New(state arch.State, opts ...Option) *Translator {
	t := &Translator{
		state:  state,
		tables: insts.NewTables(),
		plan:   arch.EmitPlan(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.initIntHandlers()
	t.initMulHandlers()
	t.initAtomicHandlers()
	t.initFloatHandlers()
	t.initDoubleHandlers()
	t.initCompressedHandlers()
	return t
}

// NewWithRV32 creates a translator that owns a fresh reference RV32 state,
// returning both.
func NewWithRV32(opts ...Option) (*Translator, *arch.RV32) {
	state := arch.NewRV32()
	return New(state, opts...), state
}

// State returns the architectural state the translator fetches from.
func (t *Translator) State() arch.State { return t.state }

// fetch obtains the instruction word at pc: 2 or 4 bytes, honoring page
// boundaries, with the self-loop guard applied before classification.
func (t *Translator) fetch(pc uint32) (word uint32, size uint32, err error) {
	phys, err := t.state.V2P(pc)
	if err != nil {
		return 0, 0, &AccessFault{PC: pc}
	}

	var buf [4]byte
	if pc&^arch.PGMask != (pc+2)&^arch.PGMask {
		// The 4-byte window crosses a page: read the halves through
		// independent translations, and skip the second half entirely
		// when the first one is a complete compressed instruction.
		if err := t.state.Read(phys, buf[:2]); err != nil {
			return 0, 0, &AccessFault{PC: pc}
		}
		half := uint32(buf[0]) | uint32(buf[1])<<8
		if half&0x3 != 0x3 {
			word, size = half, 2
		} else {
			phys2, err := t.state.V2P(pc + 2)
			if err != nil {
				return 0, 0, &AccessFault{PC: pc}
			}
			if err := t.state.Read(phys2, buf[2:]); err != nil {
				return 0, 0, &AccessFault{PC: pc}
			}
			word = half | uint32(buf[2])<<16 | uint32(buf[3])<<24
			size = 4
		}
	} else {
		if err := t.state.Read(phys, buf[:]); err != nil {
			return 0, 0, &AccessFault{PC: pc}
		}
		word = uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24
		if word&0x3 != 0x3 {
			word, size = word&0xFFFF, 2
		} else {
			size = 4
		}
	}

	// Self-loop idioms translate to blocks that can never exit; stop the
	// simulation instead.
	if size == 4 && word == 0x0000006F || size == 2 && word == 0xA001 {
		return 0, 0, &SimulationStopped{Code: 0}
	}
	return word, size, nil
}

// TranslateBlock generates the source for one translation unit starting at
// the given guest PC. It fails with *AccessFault or *SimulationStopped
// from the fetch side; lookup misses translate to the illegal-instruction
// handler instead of failing.
func (t *Translator) TranslateBlock(pc uint32) (*Unit, error) {
	b := tcc.NewBuilder(t.plan)
	b.Prologue(fmt.Sprintf("block_%08x", pc))

	start := pc
	serial := 0
	end := Continue
	for {
		word, size, err := t.fetch(pc)
		if err != nil {
			return nil, err
		}

		op := insts.OpIllegal
		if d, ok := t.tables.Lookup(word); ok {
			op = d.Op
		}

		ic := &instr{pc: pc, npc: pc + size, word: word, serial: serial}
		end = t.handlers[op](b, ic)
		serial++
		pc = ic.npc

		if end != Continue {
			break
		}
		if t.blockLimit > 0 && serial >= t.blockLimit {
			break
		}
	}

	b.Appendf("return *next_pc;")
	b.Label("trap_entry")
	b.Appendf("enter_trap(core_ptr, *trap_state, *pc);")
	b.Store(b.Constant(uint64(arch.LastBranchIndirect), 32), arch.RegLastBranch)
	b.Appendf("return *next_pc;")
	b.CloseFunction()

	return &Unit{
		StartPC:   start,
		EndPC:     pc,
		Source:    b.String(),
		InstCount: serial,
		End:       end,
	}, nil
}
