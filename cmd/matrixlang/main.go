// Command matrixlang parses, type-checks, and evaluates Matrix Language
// programs, following the teacher's cmd/dwscript entrypoint shape.
package main

import (
	"fmt"
	"os"

	"github.com/dedzsinator/matrixlang/cmd/matrixlang/cmd"
)

func main() {
	if err := cmd.Root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
