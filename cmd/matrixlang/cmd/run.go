package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/dedzsinator/matrixlang/internal/ast"
	"github.com/dedzsinator/matrixlang/internal/config"
	"github.com/dedzsinator/matrixlang/internal/diag"
	"github.com/dedzsinator/matrixlang/internal/interp"
	"github.com/dedzsinator/matrixlang/internal/lexer"
	"github.com/dedzsinator/matrixlang/internal/parser"
	"github.com/dedzsinator/matrixlang/internal/physics"
	"github.com/dedzsinator/matrixlang/internal/types"
)

// applyPhysicsDefaults overrides the hardcoded gravity/solver constants
// every new physics.PhysicsWorld starts with, from the loaded
// .matrixlangrc.yaml (spec's own physics section is silent on
// configuration, so this is the ambient config layer's only domain hook).
func applyPhysicsDefaults(cfg *config.Config) {
	g := cfg.Solver.Gravity
	gravity := physics.Vec3{X: 0, Y: -9.81, Z: 0}
	if len(g) == 3 {
		gravity = physics.Vec3{X: g[0], Y: g[1], Z: g[2]}
	}
	physics.SetDefaults(gravity, cfg.Solver.Iterations, cfg.Solver.Omega, cfg.Solver.Tolerance)
}

func runMain(cmd *cobra.Command, args []string) error {
	if flagGUI {
		log.Println("matrixlang: --gui requested but this build has no display backend; falling back to headless execution")
	}
	if flagJIT {
		log.Println("matrixlang: --jit requested but this build has no JIT path; running on the tree-walking interpreter")
	}

	if flagREPL || len(args) == 0 {
		return runREPL(cmd, args)
	}

	src, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	traceStage("lex")
	traceStage("parse")
	prog, errs := parseSource(string(src), args[0])
	if len(errs) > 0 {
		reportErrors(errs)
		os.Exit(1)
	}

	traceStage("typecheck")
	checker := types.NewChecker()
	typeErrs := checker.CheckProgram(prog)
	if len(typeErrs) > 0 {
		reportErrors(typeErrs)
		os.Exit(1)
	}

	if flagParseOnly {
		return dumpAST(prog)
	}

	cfg, err := config.Load(filepath.Dir(args[0]))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	applyPhysicsDefaults(cfg)

	traceStage("eval")
	interpreter := interp.New()
	interpreter.WaitTimeout = time.Duration(cfg.Async.WaitTimeoutSeconds) * time.Second
	result, err := interpreter.Run(prog)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if result != nil {
		fmt.Println(result)
	}
	return nil
}

func parseSource(src, filename string) (*ast.Program, []*diag.Error) {
	l := lexer.New(src)
	p := parser.New(l)
	prog := p.ParseProgram()
	errs := p.Errors()
	for _, e := range errs {
		e.File = filename
		e.Source = src
	}
	return prog, errs
}

func reportErrors(errs []*diag.Error) {
	fmt.Fprint(os.Stderr, diag.FormatAll(errs, true))
}

// dumpAST renders the parsed program as JSON, built incrementally with
// sjson, queried once for a summary line via gjson, then pretty-printed
// for the terminal via tidwall/pretty (spec §6's --parse-only surface).
func dumpAST(prog *ast.Program) error {
	raw, err := json.Marshal(interp.ToJSONValue(prog))
	if err != nil {
		return err
	}
	withMeta, err := sjson.SetBytes(raw, "meta.tool", "matrixlang")
	if err != nil {
		return err
	}
	itemCount := gjson.GetBytes(withMeta, "items.#").Int()
	fmt.Fprintf(os.Stderr, "# %d top-level item(s)\n", itemCount)
	os.Stdout.Write(pretty.Pretty(withMeta))
	return nil
}
