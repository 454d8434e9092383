package parser

import (
	"testing"

	"github.com/dedzsinator/matrixlang/internal/ast"
	"github.com/dedzsinator/matrixlang/internal/lexer"
)

func parseOne(t *testing.T, src string) *ast.Program {
	t.Helper()
	l := lexer.New(src)
	p := New(l)
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("unexpected parse errors for %q: %v", src, errs)
	}
	return prog
}

func TestParsesBinaryPrecedence(t *testing.T) {
	prog := parseOne(t, "1 + 2 * 3;")
	item := prog.Items[0].(*ast.ExprItem)
	bin, ok := item.X.(*ast.BinaryOp)
	if !ok || bin.Op != "+" {
		t.Fatalf("expected top-level +, got %#v", item.X)
	}
	rhs, ok := bin.Right.(*ast.BinaryOp)
	if !ok || rhs.Op != "*" {
		t.Fatalf("expected right-hand * term, got %#v", bin.Right)
	}
}

func TestDisambiguatesLambdaFromGrouping(t *testing.T) {
	prog := parseOne(t, "(x + 1);")
	item := prog.Items[0].(*ast.ExprItem)
	if _, ok := item.X.(*ast.BinaryOp); !ok {
		t.Fatalf("expected grouped binary expression, got %#v", item.X)
	}

	prog2 := parseOne(t, "(a, b) => a + b;")
	item2 := prog2.Items[0].(*ast.ExprItem)
	if _, ok := item2.X.(*ast.Lambda); !ok {
		t.Fatalf("expected lambda, got %#v", item2.X)
	}
}

func TestStructLiteralSuppressedInIfCondition(t *testing.T) {
	prog := parseOne(t, "if flag { 1 } else { 2 };")
	item := prog.Items[0].(*ast.ExprItem)
	ifExpr, ok := item.X.(*ast.IfExpression)
	if !ok {
		t.Fatalf("expected if expression, got %#v", item.X)
	}
	if _, ok := ifExpr.Cond.(*ast.Identifier); !ok {
		t.Fatalf("expected bare identifier condition, got %#v", ifExpr.Cond)
	}
}

func TestStructCreationOutsideCondition(t *testing.T) {
	prog := parseOne(t, "let p = Point { x: 1, y: 2 };")
	lb := prog.Items[0].(*ast.LetBinding)
	sc, ok := lb.Value.(*ast.StructCreation)
	if !ok || sc.TypeName != "Point" {
		t.Fatalf("expected StructCreation, got %#v", lb.Value)
	}
}

func TestMatchWithStructPattern(t *testing.T) {
	prog := parseOne(t, `
let r = match p {
  Point { x: 0, y: 0 } => "origin",
  _ => "elsewhere"
};`)
	lb := prog.Items[0].(*ast.LetBinding)
	m, ok := lb.Value.(*ast.Match)
	if !ok || len(m.Arms) != 2 {
		t.Fatalf("expected a 2-arm match, got %#v", lb.Value)
	}
	if _, ok := m.Arms[0].Pattern.(*ast.StructPattern); !ok {
		t.Fatalf("expected struct pattern, got %#v", m.Arms[0].Pattern)
	}
}

func TestForLoopParses(t *testing.T) {
	prog := parseOne(t, "for i in 0..10 { print(i); };")
	item := prog.Items[0].(*ast.ExprItem)
	forExpr, ok := item.X.(*ast.ForExpr)
	if !ok || forExpr.Var != "i" {
		t.Fatalf("expected ForExpr over i, got %#v", item.X)
	}
}

func TestMatrixComprehensionMultiGenerator(t *testing.T) {
	prog := parseOne(t, "[x + y | x in xs, y in ys];")
	item := prog.Items[0].(*ast.ExprItem)
	comp, ok := item.X.(*ast.MatrixComprehension)
	if !ok || len(comp.Generators) != 2 {
		t.Fatalf("expected 2-generator comprehension, got %#v", item.X)
	}
}
