// Package main provides the rv32dbt CLI: it loads an RV32 ELF binary,
// translates blocks starting at the entry point, and prints the emitted
// source for each translation unit.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/xyproto/env/v2"

	"github.com/SanSalvad-or/DBT-RISE-RISCV/arch"
	"github.com/SanSalvad-or/DBT-RISE-RISCV/loader"
	"github.com/SanSalvad-or/DBT-RISE-RISCV/tcache"
	"github.com/SanSalvad-or/DBT-RISE-RISCV/translate"
)

var (
	disass  = flag.Bool("disass", env.Bool("RV32DBT_DISASS"), "Emit print_disass calls into the translated source")
	limit   = flag.Int("limit", env.Int("RV32DBT_BLOCK_LIMIT", 0), "Maximum instructions per translation unit (0 = unlimited)")
	blocks  = flag.Int("n", 16, "Maximum number of blocks to translate")
	verbose = flag.Bool("v", false, "Verbose output")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: rv32dbt [options] <program.elf>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	programPath := flag.Arg(0)

	prog, err := loader.Load(programPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		fmt.Printf("Loaded: %s\n", programPath)
		fmt.Printf("Entry point: 0x%X\n", prog.EntryPoint)
		fmt.Printf("Segments: %d\n", len(prog.Segments))
	}

	state := arch.NewRV32()
	for _, seg := range prog.Segments {
		state.Memory().Write(seg.VirtAddr, seg.Data)
		// Zero-fill BSS (memsize > filesize).
		for off := uint32(len(seg.Data)); off < seg.MemSize; off++ {
			state.Memory().Write8(seg.VirtAddr+off, 0)
		}
	}

	translator := translate.New(state,
		translate.WithDisassembly(*disass),
		translate.WithBlockLimit(*limit),
	)
	cache := tcache.New(tcache.DefaultConfig())

	os.Exit(run(translator, cache, prog.EntryPoint, *blocks, *verbose))
}

// run translates linearly-chained blocks starting at entry, stopping at the
// first unit that ends in a branch or flush terminator, a fault, or the
// block-count bound.
func run(translator *translate.Translator, cache *tcache.Cache, entry uint32, maxBlocks int, verbose bool) int {
	pc := entry
	for i := 0; i < maxBlocks; i++ {
		unit, ok := cache.Get(pc)
		if !ok {
			var err error
			unit, err = translator.TranslateBlock(pc)
			if err != nil {
				var stop *translate.SimulationStopped
				var fault *translate.AccessFault
				switch {
				case errors.As(err, &stop):
					if verbose {
						fmt.Printf("Simulation stopped at 0x%08X (exit code %d)\n", pc, stop.Code)
					}
					return stop.Code
				case errors.As(err, &fault):
					fmt.Fprintf(os.Stderr, "Access fault fetching 0x%08X\n", fault.PC)
					return 1
				default:
					fmt.Fprintf(os.Stderr, "Translation error: %v\n", err)
					return 1
				}
			}
			cache.Put(pc, unit)
		}

		fmt.Printf("// unit at 0x%08X: %d instructions, ends with %s\n",
			unit.StartPC, unit.InstCount, unit.End)
		fmt.Print(unit.Source)

		if unit.End == translate.Flush {
			cache.InvalidateAll()
		}

		next, ok := directSuccessor(unit)
		if !ok {
			if verbose {
				fmt.Printf("Stopping at block terminator after 0x%08X\n", unit.StartPC)
			}
			return 0
		}
		pc = next
	}

	if verbose {
		stats := cache.Stats()
		fmt.Printf("Translated %d blocks (%d cache hits, %d misses)\n",
			maxBlocks, stats.Hits, stats.Misses)
	}
	return 0
}

// directSuccessor picks the next block start for linear chaining. Without
// executing the unit the taken target of its terminator is unknown, so
// chaining only continues across block-limit cuts, where the next
// instruction is the unit's fallthrough address.
func directSuccessor(unit *translate.Unit) (uint32, bool) {
	if unit.End != translate.Continue {
		return 0, false
	}
	return unit.EndPC, true
}
