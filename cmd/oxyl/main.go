// Command oxyl is the CLI entry point for the oxyl toolchain.
//
// Usage:
//
//	oxyl lower <file> [-o out.c]        Lower a source file to C
//	oxyl parse <file> [--format f]      Print the FST as json, yaml or sexpr
//	oxyl fmt   <file> [-w]              Format a source file
//	oxyl check <file>                   Report unbound and shadowed names
//	oxyl build                          Lower the project entry from oxyl.toml
//	oxyl repl                           Start interactive REPL
//	oxyl version                        Print version information
//
// A file argument of "-" reads standard input.
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}
