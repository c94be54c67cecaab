// Package main provides the entry point for the RV32GC dynamic binary
// translator.
//
// For the full CLI, use: go run ./cmd/rv32dbt
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("rv32dbt - RV32GC dynamic binary translator")
	fmt.Println("")
	fmt.Println("Usage: rv32dbt [options] <program.elf>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -disass    Emit disassembly calls into the translated source")
	fmt.Println("  -limit n   Maximum instructions per translation unit")
	fmt.Println("  -n blocks  Maximum number of blocks to translate")
	fmt.Println("  -v         Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/rv32dbt' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/rv32dbt' instead.")
	}
}
