package types

import (
	"testing"

	"github.com/dedzsinator/matrixlang/internal/lexer"
	"github.com/dedzsinator/matrixlang/internal/parser"
)

func checkSrc(t *testing.T, src string) []error {
	t.Helper()
	l := lexer.New(src)
	p := parser.New(l)
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	c := NewChecker()
	diagErrs := c.CheckProgram(prog)
	errs := make([]error, len(diagErrs))
	for i, e := range diagErrs {
		errs[i] = e
	}
	return errs
}

func TestUnifyOccursCheck(t *testing.T) {
	s := NewSubstitution()
	v := TypeVar{ID: 1}
	err := Unify(v, Array{Elem: v}, s)
	if err == nil {
		t.Fatal("expected occurs-check failure, got nil")
	}
}

func TestUnifyDimensionMismatch(t *testing.T) {
	s := NewSubstitution()
	r3, c3 := 3, 3
	r2, c2 := 2, 2
	err := Unify(Matrix{Elem: Float{}, Rows: &r3, Cols: &c3}, Matrix{Elem: Float{}, Rows: &r2, Cols: &c2}, s)
	if err == nil {
		t.Fatal("expected dimension mismatch error, got nil")
	}
}

func TestUnifyFunctionArity(t *testing.T) {
	s := NewSubstitution()
	a := Function{Params: []Type{Int{}}, Return: Int{}}
	b := Function{Params: []Type{Int{}, Int{}}, Return: Int{}}
	if err := Unify(a, b, s); err == nil {
		t.Fatal("expected arity mismatch error, got nil")
	}
}

func TestCheckSimpleArithmetic(t *testing.T) {
	if errs := checkSrc(t, "1 + 2;"); len(errs) != 0 {
		t.Fatalf("unexpected type errors: %v", errs)
	}
}

func TestCheckTypeMismatchReported(t *testing.T) {
	errs := checkSrc(t, `fn f(x: Int) -> Int { x } f(true);`)
	if len(errs) == 0 {
		t.Fatal("expected a type mismatch error for f(true)")
	}
}

func TestCheckUndefinedVariable(t *testing.T) {
	errs := checkSrc(t, "y;")
	if len(errs) == 0 {
		t.Fatal("expected an undefined-variable error")
	}
}

func TestCheckBuiltinCallsTypeCheck(t *testing.T) {
	if errs := checkSrc(t, "sqrt(4.0);"); len(errs) != 0 {
		t.Fatalf("unexpected type errors calling a builtin: %v", errs)
	}
}

func TestCheckPhysicsBuiltinsTypeCheck(t *testing.T) {
	src := `let w = create_physics_world();
add_rigid_body(w, "sphere", 1.0, [0.0, 10.0, 0.0]);
physics_step(w);
get_object_position(w, 0);`
	if errs := checkSrc(t, src); len(errs) != 0 {
		t.Fatalf("unexpected type errors calling physics builtins: %v", errs)
	}
}

func TestGeneralizeProducesPolymorphicScheme(t *testing.T) {
	env := NewTypeEnv()
	s := NewSubstitution()
	id := Function{Params: []Type{TypeVar{ID: 1}}, Return: TypeVar{ID: 1}}
	sc := env.Generalize(id, s)
	if len(sc.Vars) != 1 {
		t.Fatalf("expected 1 generalized variable, got %d", len(sc.Vars))
	}
}
