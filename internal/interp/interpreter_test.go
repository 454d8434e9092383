package interp

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/assert"

	"github.com/dedzsinator/matrixlang/internal/lexer"
	"github.com/dedzsinator/matrixlang/internal/parser"
)

func run(t *testing.T, src string) Value {
	t.Helper()
	l := lexer.New(src)
	p := parser.New(l)
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	it := New()
	v, err := it.Run(prog)
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}
	return v
}

func TestArithmetic(t *testing.T) {
	v := run(t, "1 + 2 * 3;")
	assert.Equal(t, IntValue(7), v)
}

func TestIntDivisionByZero(t *testing.T) {
	l := lexer.New("1 / 0;")
	p := parser.New(l)
	prog := p.ParseProgram()
	it := New()
	_, err := it.Run(prog)
	assert.Error(t, err)
}

func TestIfExpression(t *testing.T) {
	v := run(t, `if true { 1 } else { 2 };`)
	assert.Equal(t, IntValue(1), v)
}

func TestMatchArms(t *testing.T) {
	v := run(t, `match 2 { 1 => "one", 2 => "two", _ => "other" };`)
	assert.Equal(t, StringValue("two"), v)
}

func TestMatrixTranspose(t *testing.T) {
	v := run(t, `[[1, 2], [3, 4]]';`)
	m, ok := v.(MatrixValue)
	assert.True(t, ok)
	assert.Equal(t, 2, m.Rows)
	assert.Equal(t, 2, m.Cols)
	assert.Equal(t, 2.0, m.At(1, 0))
}

func TestComprehension(t *testing.T) {
	v := run(t, `[x * 2 | x in [1, 2, 3]];`)
	arr, ok := v.(ArrayValue)
	assert.True(t, ok)
	assert.Len(t, arr.Elements, 3)
	assert.Equal(t, IntValue(6), arr.Elements[2])
}

func TestLambdaAndCall(t *testing.T) {
	v := run(t, `let add = (a, b) => a + b; add(3, 4);`)
	assert.Equal(t, IntValue(7), v)
}

func TestFunctionDefRecursion(t *testing.T) {
	v := run(t, `
fn fact(n) -> Int {
  if n <= 1 { 1 } else { n * fact(n - 1) }
}
fact(5);
`)
	assert.Equal(t, IntValue(120), v)
}

func TestSpawnAndWait(t *testing.T) {
	v := run(t, `let h = spawn (2 + 2); wait(h);`)
	assert.Equal(t, IntValue(4), v)
}

func TestProgramSnapshot(t *testing.T) {
	v := run(t, `
struct Point { x: Int, y: Int }
let p = Point { x: 1, y: 2 };
p.x + p.y;
`)
	snaps.MatchSnapshot(t, v.String())
}
