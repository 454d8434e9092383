// Package cmd implements the matrixlang CLI command tree, grounded on the
// teacher's cmd/dwscript command tree shape: a cobra root command with
// persistent flags shared by every subcommand.
package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagParseOnly bool
	flagJIT       bool
	flagGUI       bool
	flagVerbose   bool
	flagREPL      bool
)

// trace logs a pipeline stage timestamp to stderr when --verbose is set.
var trace = log.New(os.Stderr, "", log.Ltime|log.Lmicroseconds)

func traceStage(stage string) {
	if flagVerbose {
		trace.Printf("[%s]", stage)
	}
}

// Root is the matrixlang root command; main.go calls Root.Execute().
var Root = &cobra.Command{
	Use:   "matrixlang [script]",
	Short: "Run Matrix Language programs",
	Long: "matrixlang parses, type-checks, and evaluates Matrix Language " +
		"source files, including programs that drive the XPBD physics solver.",
	Args: cobra.MaximumNArgs(1),
	RunE: runMain,
}

func init() {
	Root.PersistentFlags().BoolVar(&flagParseOnly, "parse-only", false, "parse and type-check, dump the AST as JSON, do not evaluate")
	Root.PersistentFlags().BoolVarP(&flagJIT, "jit", "j", false, "reuse a warmed interpreter across repeated runs in this process (no-op on this host)")
	Root.PersistentFlags().BoolVar(&flagGUI, "gui", false, "open a live visualization window for physics scenes (unsupported on this host; falls back to headless)")
	Root.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "trace each pipeline stage (lex, parse, typecheck, eval) to stderr")
	Root.PersistentFlags().BoolVarP(&flagREPL, "repl", "r", false, "start an interactive session instead of running a file (equivalent to the repl subcommand)")
	Root.AddCommand(replCmd)
}
