package interp

import (
	"math"

	"github.com/dedzsinator/matrixlang/internal/ast"
	"github.com/dedzsinator/matrixlang/internal/diag"
)

func (it *Interpreter) evalUnaryOp(env *Environment, n *ast.UnaryOp) (Value, error) {
	v, err := it.Eval(env, n.Operand)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case "!":
		return BoolValue(!bool(v.(BoolValue))), nil
	case "'":
		if m, ok := v.(MatrixValue); ok {
			return m.Transpose(), nil
		}
		return v, nil
	case "-":
		switch x := v.(type) {
		case IntValue:
			return IntValue(-x), nil
		case FloatValue:
			return FloatValue(-x), nil
		}
		return nil, diag.New(diag.KindType, n.Span(), "cannot negate value %s", v)
	default:
		return nil, diag.New(diag.KindType, n.Span(), "unknown unary operator %q", n.Op)
	}
}

func (it *Interpreter) evalBinaryOp(env *Environment, n *ast.BinaryOp) (Value, error) {
	if n.Op == "&&" {
		l, err := it.Eval(env, n.Left)
		if err != nil {
			return nil, err
		}
		if !Truthy(l) {
			return BoolValue(false), nil
		}
		r, err := it.Eval(env, n.Right)
		if err != nil {
			return nil, err
		}
		return BoolValue(Truthy(r)), nil
	}
	if n.Op == "||" {
		l, err := it.Eval(env, n.Left)
		if err != nil {
			return nil, err
		}
		if Truthy(l) {
			return BoolValue(true), nil
		}
		r, err := it.Eval(env, n.Right)
		if err != nil {
			return nil, err
		}
		return BoolValue(Truthy(r)), nil
	}

	l, err := it.Eval(env, n.Left)
	if err != nil {
		return nil, err
	}
	r, err := it.Eval(env, n.Right)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case "==":
		return BoolValue(valuesEqual(l, r)), nil
	case "!=":
		return BoolValue(!valuesEqual(l, r)), nil
	case "<", "<=", ">", ">=":
		return compareOrdered(n.Op, l, r, n.Span())
	case "+", "-", "*", "/", "%", "^":
		return arithmetic(n.Op, l, r, n.Span())
	default:
		return nil, diag.New(diag.KindType, n.Span(), "unknown binary operator %q", n.Op)
	}
}

func compareOrdered(op string, l, r Value, span diag.Span) (Value, error) {
	lf, lok := numeric(l)
	rf, rok := numeric(r)
	if !lok || !rok {
		return nil, diag.New(diag.KindTypeMismatch, span, "cannot compare %s and %s", l, r)
	}
	switch op {
	case "<":
		return BoolValue(lf < rf), nil
	case "<=":
		return BoolValue(lf <= rf), nil
	case ">":
		return BoolValue(lf > rf), nil
	default:
		return BoolValue(lf >= rf), nil
	}
}

func numeric(v Value) (float64, bool) {
	switch n := v.(type) {
	case IntValue:
		return float64(n), true
	case FloatValue:
		return float64(n), true
	default:
		return 0, false
	}
}

// arithmetic evaluates +,-,*,/,%,^ with Int/Int staying Int (wrapping on
// overflow per Go's native int64 semantics, the Open Question resolution
// recorded in DESIGN.md), any Float operand promoting to Float, dispatch
// to Matrix arithmetic when either side is a Matrix, and `+` joining two
// Strings. Vec3 values (structs) are not handled here, so arithmetic on
// them is a runtime type error.
func arithmetic(op string, l, r Value, span diag.Span) (Value, error) {
	if lm, ok := l.(MatrixValue); ok {
		if rm, ok := r.(MatrixValue); ok {
			return matrixArith(op, lm, rm, span)
		}
		if rf, ok := numeric(r); ok {
			return matrixScalar(op, lm, rf), nil
		}
	}
	if rm, ok := r.(MatrixValue); ok {
		if lf, ok := numeric(l); ok {
			return matrixScalar(op, rm, lf), nil
		}
	}

	li, lIsInt := l.(IntValue)
	ri, rIsInt := r.(IntValue)
	if lIsInt && rIsInt {
		return intArith(op, int64(li), int64(ri), span)
	}
	lf, lok := numeric(l)
	rf, rok := numeric(r)
	if lok && rok {
		return floatArith(op, lf, rf, span)
	}
	if ls, ok := l.(StringValue); ok && op == "+" {
		if rs, ok := r.(StringValue); ok {
			return StringValue(string(ls) + string(rs)), nil
		}
	}
	return nil, diag.New(diag.KindTypeMismatch, span, "unsupported operand types for %q: %s, %s", op, l, r)
}

func intArith(op string, l, r int64, span diag.Span) (Value, error) {
	switch op {
	case "+":
		return IntValue(l + r), nil
	case "-":
		return IntValue(l - r), nil
	case "*":
		return IntValue(l * r), nil
	case "/":
		if r == 0 {
			return nil, diag.New(diag.KindDivisionByZero, span, "integer division by zero")
		}
		return IntValue(l / r), nil
	case "%":
		if r == 0 {
			return nil, diag.New(diag.KindDivisionByZero, span, "integer modulo by zero")
		}
		return IntValue(l % r), nil
	case "^":
		return IntValue(intPow(l, r)), nil
	}
	return nil, diag.New(diag.KindType, span, "unknown operator %q", op)
}

func intPow(base, exp int64) int64 {
	if exp < 0 {
		return 0
	}
	var result int64 = 1
	for ; exp > 0; exp-- {
		result *= base
	}
	return result
}

func floatArith(op string, l, r float64, span diag.Span) (Value, error) {
	switch op {
	case "+":
		return FloatValue(l + r), nil
	case "-":
		return FloatValue(l - r), nil
	case "*":
		return FloatValue(l * r), nil
	case "/":
		if r == 0 {
			return nil, diag.New(diag.KindDivisionByZero, span, "float division by zero")
		}
		return FloatValue(l / r), nil
	case "%":
		if r == 0 {
			return nil, diag.New(diag.KindDivisionByZero, span, "float modulo by zero")
		}
		return FloatValue(floatMod(l, r)), nil
	case "^":
		return FloatValue(math.Pow(l, r)), nil
	}
	return nil, diag.New(diag.KindType, span, "unknown operator %q", op)
}

func floatMod(l, r float64) float64 {
	q := l - r*float64(int64(l/r))
	return q
}

func matrixArith(op string, l, r MatrixValue, span diag.Span) (Value, error) {
	switch op {
	case "+", "-":
		if l.Rows != r.Rows || l.Cols != r.Cols {
			return nil, diag.New(diag.KindTypeMismatch, span, "matrix dimension mismatch in %q", op)
		}
		out := NewMatrix(l.Rows, l.Cols)
		for i := range out.Data {
			if op == "+" {
				out.Data[i] = l.Data[i] + r.Data[i]
			} else {
				out.Data[i] = l.Data[i] - r.Data[i]
			}
		}
		return out, nil
	case "*":
		out, err := l.Multiply(r)
		if err != nil {
			return nil, diag.New(diag.KindTypeMismatch, span, "%s", err.Error())
		}
		return out, nil
	}
	return nil, diag.New(diag.KindType, span, "unsupported matrix operator %q", op)
}

func matrixScalar(op string, m MatrixValue, s float64) Value {
	out := NewMatrix(m.Rows, m.Cols)
	for i, v := range m.Data {
		switch op {
		case "*":
			out.Data[i] = v * s
		case "/":
			out.Data[i] = v / s
		case "+":
			out.Data[i] = v + s
		case "-":
			out.Data[i] = v - s
		}
	}
	return out
}

func (it *Interpreter) evalIndex(env *Environment, n *ast.IndexExpr) (Value, error) {
	obj, err := it.Eval(env, n.Object)
	if err != nil {
		return nil, err
	}
	idx, err := it.Eval(env, n.Index)
	if err != nil {
		return nil, err
	}
	i, ok := idx.(IntValue)
	if !ok {
		return nil, diag.New(diag.KindType, n.Span(), "index must be an Int")
	}
	switch o := obj.(type) {
	case ArrayValue:
		if int(i) < 0 || int(i) >= len(o.Elements) {
			return nil, diag.New(diag.KindIndexOutOfBounds, n.Span(), "index %d out of bounds for array of length %d", i, len(o.Elements))
		}
		return o.Elements[i], nil
	case MatrixValue:
		if int(i) < 0 || int(i) >= o.Rows {
			return nil, diag.New(diag.KindIndexOutOfBounds, n.Span(), "row index %d out of bounds", i)
		}
		row := make([]Value, o.Cols)
		for c := 0; c < o.Cols; c++ {
			row[c] = FloatValue(o.At(int(i), c))
		}
		return ArrayValue{Elements: row}, nil
	default:
		return nil, diag.New(diag.KindIndexOutOfBounds, n.Span(), "type is not indexable")
	}
}

func (it *Interpreter) evalCall(env *Environment, n *ast.FunctionCall) (Value, error) {
	callee, err := it.Eval(env, n.Callee)
	if err != nil {
		return nil, err
	}
	args := make([]Value, len(n.Args))
	for i, a := range n.Args {
		v, err := it.Eval(env, a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return it.Apply(callee, args, n.Span())
}

// Apply invokes a FunctionValue or BuiltinFunction with args, the one
// entry point both direct calls and higher-order builtins (e.g. map-style
// combinators) share.
func (it *Interpreter) Apply(callee Value, args []Value, span diag.Span) (Value, error) {
	switch fn := callee.(type) {
	case BuiltinFunction:
		return fn.Fn(args)
	case FunctionValue:
		if len(fn.Params) != len(args) {
			return nil, diag.New(diag.KindFunctionCall, span, "expected %d arguments, got %d", len(fn.Params), len(args))
		}
		callEnv := fn.Env.Child()
		for i, p := range fn.Params {
			callEnv.Define(p, args[i])
		}
		return it.Eval(callEnv, fn.Body)
	default:
		return nil, diag.New(diag.KindFunctionCall, span, "cannot call non-function value %s", callee)
	}
}
