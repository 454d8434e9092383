package cmd

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dedzsinator/matrixlang/internal/config"
	"github.com/dedzsinator/matrixlang/internal/diag"
	"github.com/dedzsinator/matrixlang/internal/interp"
	"github.com/dedzsinator/matrixlang/internal/types"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive Matrix Language session",
	RunE:  runREPL,
}

// runREPL reads one line at a time, parsing and evaluating it as a
// standalone program against one persistent interpreter, whose global
// environment keeps earlier lines' definitions. Each line is type-checked
// by a fresh checker that knows only the builtins, so a line naming a
// binding from an earlier line is rejected as an undefined variable
// before it reaches the interpreter.
func runREPL(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(".")
	if err != nil {
		return err
	}
	applyPhysicsDefaults(cfg)

	interpreter := interp.New()
	interpreter.WaitTimeout = time.Duration(cfg.Async.WaitTimeoutSeconds) * time.Second
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print(cfg.REPL.Prompt)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			fmt.Print(cfg.REPL.Prompt)
			continue
		}
		prog, errs := parseSource(line, "<repl>")
		if len(errs) > 0 {
			reportErrors(errs)
			fmt.Print(cfg.REPL.Prompt)
			continue
		}
		checker := types.NewChecker()
		if typeErrs := checker.CheckProgram(prog); len(typeErrs) > 0 {
			reportErrors(typeErrs)
			fmt.Print(cfg.REPL.Prompt)
			continue
		}
		result, err := interpreter.Run(prog)
		if err != nil {
			if de, ok := err.(*diag.Error); ok {
				fmt.Fprintln(os.Stderr, de.Format(true))
			} else {
				fmt.Fprintln(os.Stderr, err)
			}
			fmt.Print(cfg.REPL.Prompt)
			continue
		}
		if result != nil {
			fmt.Println(result)
		}
		fmt.Print(cfg.REPL.Prompt)
	}
	fmt.Println()
	return scanner.Err()
}
