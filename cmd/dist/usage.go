package main

import (
	"flag"
	"fmt"
	"os"
)

// usage returns a FlagSet.Usage func that prints helpText and the flag
// defaults to stderr, then exits 2 — the usage-error exit code from
// spec.md §6.
func usage(fset *flag.FlagSet, helpText string) func() {
	return func() {
		fmt.Fprint(os.Stderr, helpText)
		fset.PrintDefaults()
		os.Exit(2)
	}
}
