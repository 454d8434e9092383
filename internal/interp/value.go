// Package interp implements a tree-walking evaluator for the Matrix
// Language AST: a lexically-scoped Environment, a closed Value sum type,
// and late-bound function closures.
package interp

import (
	"fmt"
	"strings"

	"github.com/dedzsinator/matrixlang/internal/ast"
	"github.com/google/uuid"
)

// Value is the runtime sum type every expression evaluates to.
type Value interface {
	valueNode()
	String() string
}

type IntValue int64

func (IntValue) valueNode()        {}
func (v IntValue) String() string  { return fmt.Sprintf("%d", int64(v)) }

type FloatValue float64

func (FloatValue) valueNode()       {}
func (v FloatValue) String() string { return fmt.Sprintf("%g", float64(v)) }

type BoolValue bool

func (BoolValue) valueNode()       {}
func (v BoolValue) String() string { return fmt.Sprintf("%t", bool(v)) }

type StringValue string

func (StringValue) valueNode()       {}
func (v StringValue) String() string { return string(v) }

type UnitValue struct{}

func (UnitValue) valueNode()      {}
func (UnitValue) String() string  { return "()" }

type ArrayValue struct{ Elements []Value }

func (ArrayValue) valueNode() {}
func (a ArrayValue) String() string {
	parts := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// MatrixValue stores its elements flat, row-major, alongside its declared
// dimensions, so transpose/multiply can work over plain index arithmetic
// instead of a slice-of-slices.
type MatrixValue struct {
	Rows, Cols int
	Data       []float64
}

func NewMatrix(rows, cols int) MatrixValue {
	return MatrixValue{Rows: rows, Cols: cols, Data: make([]float64, rows*cols)}
}

func (m MatrixValue) At(r, c int) float64     { return m.Data[r*m.Cols+c] }
func (m *MatrixValue) Set(r, c int, v float64) { m.Data[r*m.Cols+c] = v }

func (MatrixValue) valueNode() {}
func (m MatrixValue) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for r := 0; r < m.Rows; r++ {
		if r > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('[')
		for c := 0; c < m.Cols; c++ {
			if c > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%g", m.At(r, c))
		}
		b.WriteByte(']')
	}
	b.WriteByte(']')
	return b.String()
}

func (m MatrixValue) Transpose() MatrixValue {
	t := NewMatrix(m.Cols, m.Rows)
	for r := 0; r < m.Rows; r++ {
		for c := 0; c < m.Cols; c++ {
			t.Set(c, r, m.At(r, c))
		}
	}
	return t
}

func (m MatrixValue) Multiply(o MatrixValue) (MatrixValue, error) {
	if m.Cols != o.Rows {
		return MatrixValue{}, fmt.Errorf("matrix dimension mismatch: %dx%d * %dx%d", m.Rows, m.Cols, o.Rows, o.Cols)
	}
	out := NewMatrix(m.Rows, o.Cols)
	for r := 0; r < m.Rows; r++ {
		for c := 0; c < o.Cols; c++ {
			var sum float64
			for k := 0; k < m.Cols; k++ {
				sum += m.At(r, k) * o.At(k, c)
			}
			out.Set(r, c, sum)
		}
	}
	return out, nil
}

// StructValue is an instance of a named struct type.
type StructValue struct {
	TypeName string
	Fields   map[string]Value
}

func (StructValue) valueNode() {}
func (s StructValue) String() string {
	return s.TypeName + "{...}"
}

// OptionValue represents Some(v) (Present true) or None.
type OptionValue struct {
	Present bool
	Inner   Value
}

func (OptionValue) valueNode() {}
func (o OptionValue) String() string {
	if !o.Present {
		return "None"
	}
	return "Some(" + o.Inner.String() + ")"
}

// FunctionValue is a user-defined closure: its parameter names, body, and
// the Environment frame it closed over at definition time.
type FunctionValue struct {
	Params []string
	Body   ast.Expr
	Env    *Environment
	Name   string // "" for anonymous lambdas, used only in error messages
}

func (FunctionValue) valueNode()      {}
func (f FunctionValue) String() string {
	if f.Name != "" {
		return "fn " + f.Name
	}
	return "lambda"
}

// BuiltinFunction wraps a host-implemented function (math, I/O, the
// physics bridge) in the same Value shape as a user-defined FunctionValue.
type BuiltinFunction struct {
	Name string
	Fn   func(args []Value) (Value, error)
}

func (BuiltinFunction) valueNode()       {}
func (b BuiltinFunction) String() string { return "builtin " + b.Name }

// asyncCell is the single-assignment completion slot a spawned goroutine
// writes to and `wait` reads from. It must be heap-allocated and shared by
// pointer: AsyncHandle itself is copied by value (returned from evalSpawn,
// stored in a Value interface, passed through let bindings), and a plain
// non-pointer result/err field would freeze at whatever zero value it held
// at copy time instead of observing the goroutine's eventual write.
type asyncCell struct {
	done   chan struct{}
	result Value
	err    error
}

// AsyncHandle is the value a `spawn` expression yields and `wait` consumes;
// uuid.New() keys it so handles stay unique across the process even after
// their goroutine completes (spec §5's spawn/wait contract).
type AsyncHandle struct {
	ID   uuid.UUID
	cell *asyncCell
}

func (AsyncHandle) valueNode()       {}
func (h AsyncHandle) String() string { return "Future<" + h.ID.String() + ">" }

// PhysicsWorldValue wraps a physics.PhysicsWorld handle so it can flow
// through the interpreter like any other value. It is its own value kind,
// not an Int: it prints as PhysicsWorld<n>, the checker types it as
// PhysicsWorld, and == between two world values yields false.
type PhysicsWorldValue struct{ Handle int64 }

func (PhysicsWorldValue) valueNode()       {}
func (p PhysicsWorldValue) String() string { return fmt.Sprintf("PhysicsWorld<%d>", p.Handle) }

// GpuValue wraps the result of a `gpu { }` directive; on this host it is
// computed by the same CPU path as everything else, but kept tagged so the
// checker's GPU<T> contract has a runtime counterpart (spec §6).
type GpuValue struct{ Inner Value }

func (GpuValue) valueNode()       {}
func (g GpuValue) String() string { return g.Inner.String() }

// Truthy implements the language's boolean-context coercion, used by `if`
// conditions, match-arm and comprehension guards, and `&&`/`||`.
func Truthy(v Value) bool {
	b, ok := v.(BoolValue)
	return ok && bool(b)
}
