package interp

import (
	"fmt"
	"math"
	"time"

	"github.com/dedzsinator/matrixlang/internal/ast"
	"github.com/dedzsinator/matrixlang/internal/diag"
)

// Interpreter tree-walks a parsed Program, evaluating every node the
// checker has already validated. Runtime type mismatches that the checker
// cannot rule out statically (e.g. division by zero, index bounds, pattern
// exhaustiveness) are reported as diag.Error values here instead.
type Interpreter struct {
	Global *Environment
	// WaitTimeout overrides DefaultWaitTimeout when non-zero, set from
	// .matrixlangrc.yaml's async.wait_timeout_seconds.
	WaitTimeout time.Duration
	// requiredFields records, per struct type, the field names declared
	// without `??` (the checker enforces the same rule statically; this
	// lets StructCreation fail fast at runtime too when a value reaches
	// the interpreter without having gone through the checker, e.g. a
	// program built directly by a test).
	requiredFields map[string][]string
}

func New() *Interpreter {
	it := &Interpreter{Global: NewEnvironment(), requiredFields: make(map[string][]string)}
	RegisterBuiltins(it.Global)
	return it
}

// Run evaluates every item in program order. Typeclass definitions have
// no runtime effect of their own (struct values carry their field data
// directly); an instance definition binds each of its methods in Global
// as `Type::method`; function, struct, and let items populate
// Global/requiredFields. The value of the program is the value of its
// last ExprItem, or Unit.
func (it *Interpreter) Run(prog *ast.Program) (Value, error) {
	for _, item := range prog.Items {
		if fd, ok := item.(*ast.FunctionDef); ok {
			it.Global.Define(fd.Name, it.closureOf(fd, it.Global))
		}
		if sd, ok := item.(*ast.StructDef); ok {
			var required []string
			for _, f := range sd.Fields {
				if !f.Optional {
					required = append(required, f.Name)
				}
			}
			it.requiredFields[sd.Name] = required
		}
	}
	var result Value = UnitValue{}
	for _, item := range prog.Items {
		v, err := it.evalItem(it.Global, item)
		if err != nil {
			return nil, err
		}
		if v != nil {
			result = v
		}
	}
	return result, nil
}

func (it *Interpreter) closureOf(fd *ast.FunctionDef, env *Environment) FunctionValue {
	params := make([]string, len(fd.Params))
	for i, p := range fd.Params {
		params[i] = p.Name
	}
	return FunctionValue{Params: params, Body: fd.Body, Env: env, Name: fd.Name}
}

func (it *Interpreter) evalItem(env *Environment, item ast.Item) (Value, error) {
	switch i := item.(type) {
	case *ast.FunctionDef:
		return nil, nil // already bound in Run so recursive calls resolve
	case *ast.InstanceDef:
		for _, m := range i.Methods {
			env.Define(i.ForType.String()+"::"+m.Name, it.closureOf(m, env))
		}
		return nil, nil
	case *ast.StructDef, *ast.TypeclassDef, *ast.Import:
		return nil, nil
	case *ast.LetBinding:
		v, err := it.Eval(env, i.Value)
		if err != nil {
			return nil, err
		}
		env.Define(i.Name, v)
		return nil, nil
	case *ast.ExprItem:
		return it.Eval(env, i.X)
	default:
		return nil, fmt.Errorf("unhandled item %T", item)
	}
}

// Eval evaluates a single expression under env.
func (it *Interpreter) Eval(env *Environment, e ast.Expr) (Value, error) {
	switch n := e.(type) {
	case *ast.IntLiteral:
		return IntValue(n.Value), nil
	case *ast.FloatLiteral:
		return FloatValue(n.Value), nil
	case *ast.BoolLiteral:
		return BoolValue(n.Value), nil
	case *ast.StringLiteral:
		return StringValue(n.Value), nil

	case *ast.Identifier:
		v, ok := env.Lookup(n.Name)
		if !ok {
			return nil, diag.New(diag.KindUndefinedVar, n.Span(), "undefined variable %q", n.Name)
		}
		return v, nil

	case *ast.BinaryOp:
		return it.evalBinaryOp(env, n)

	case *ast.UnaryOp:
		return it.evalUnaryOp(env, n)

	case *ast.FunctionCall:
		return it.evalCall(env, n)

	case *ast.FieldAccess:
		obj, err := it.Eval(env, n.Object)
		if err != nil {
			return nil, err
		}
		sv, ok := obj.(StructValue)
		if !ok {
			return nil, diag.New(diag.KindFieldNotFound, n.Span(), "cannot access field %q on non-struct value", n.Field)
		}
		fv, ok := sv.Fields[n.Field]
		if !ok {
			return nil, diag.New(diag.KindFieldNotFound, n.Span(), "struct %s has no field %q", sv.TypeName, n.Field)
		}
		return fv, nil

	case *ast.OptionalAccess:
		obj, err := it.Eval(env, n.Object)
		if err != nil {
			return nil, err
		}
		if sv, ok := obj.(StructValue); ok {
			if fv, ok := sv.Fields[n.Field]; ok {
				if opt, isOpt := fv.(OptionValue); isOpt {
					if opt.Present {
						return opt.Inner, nil
					}
				} else {
					return fv, nil
				}
			}
		}
		return it.Eval(env, n.Fallback)

	case *ast.IndexExpr:
		return it.evalIndex(env, n)

	case *ast.StructCreation:
		fields := make(map[string]Value, len(n.Fields))
		for name, expr := range n.Fields {
			v, err := it.Eval(env, expr)
			if err != nil {
				return nil, err
			}
			fields[name] = v
		}
		for _, name := range it.requiredFields[n.TypeName] {
			if _, ok := fields[name]; !ok {
				return nil, diag.New(diag.KindFieldNotFound, n.Span(), "struct %s is missing required field %q", n.TypeName, name)
			}
		}
		return StructValue{TypeName: n.TypeName, Fields: fields}, nil

	case *ast.ArrayLiteral:
		elems := make([]Value, len(n.Elements))
		for i, el := range n.Elements {
			v, err := it.Eval(env, el)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return ArrayValue{Elements: elems}, nil

	case *ast.MatrixLiteral:
		rows := len(n.Rows)
		cols := 0
		if rows > 0 {
			cols = len(n.Rows[0])
		}
		m := NewMatrix(rows, cols)
		for r, row := range n.Rows {
			for c, el := range row {
				v, err := it.Eval(env, el)
				if err != nil {
					return nil, err
				}
				m.Set(r, c, asFloat(v))
			}
		}
		return m, nil

	case *ast.MatrixComprehension:
		return it.evalComprehension(env, n)

	case *ast.IfExpression:
		cond, err := it.Eval(env, n.Cond)
		if err != nil {
			return nil, err
		}
		if Truthy(cond) {
			return it.Eval(env, n.Then)
		}
		if n.Else != nil {
			return it.Eval(env, n.Else)
		}
		return UnitValue{}, nil

	case *ast.Match:
		return it.evalMatch(env, n)

	case *ast.Let:
		letEnv := env.Child()
		for _, b := range n.Bindings {
			v, err := it.Eval(letEnv, b.Value)
			if err != nil {
				return nil, err
			}
			letEnv.Define(b.Name, v)
		}
		return it.Eval(letEnv, n.Body)

	case *ast.Lambda:
		params := make([]string, len(n.Params))
		for i, p := range n.Params {
			params[i] = p.Name
		}
		return FunctionValue{Params: params, Body: n.Body, Env: env}, nil

	case *ast.Block:
		return it.evalBlock(env, n)

	case *ast.Parallel:
		return it.evalParallel(env, n)

	case *ast.Spawn:
		return it.evalSpawn(env, n)

	case *ast.Wait:
		return it.evalWait(env, n)

	case *ast.GpuDirective:
		inner, err := it.Eval(env, n.Body)
		if err != nil {
			return nil, err
		}
		return GpuValue{Inner: inner}, nil

	case *ast.Range:
		start, err := it.Eval(env, n.Start)
		if err != nil {
			return nil, err
		}
		end, err := it.Eval(env, n.End)
		if err != nil {
			return nil, err
		}
		hi := int64(end.(IntValue))
		if n.Inclusive {
			hi++
		}
		elems := make([]Value, 0, hi-int64(start.(IntValue)))
		for i := int64(start.(IntValue)); i < hi; i++ {
			elems = append(elems, IntValue(i))
		}
		return ArrayValue{Elements: elems}, nil

	case *ast.ForExpr:
		return it.evalFor(env, n)

	default:
		return nil, fmt.Errorf("unhandled expression node %T", e)
	}
}

func (it *Interpreter) evalBlock(env *Environment, b *ast.Block) (Value, error) {
	blockEnv := env.Child()
	for _, stmt := range b.Statements {
		if err := it.evalStmt(blockEnv, stmt); err != nil {
			return nil, err
		}
	}
	if b.Result == nil {
		return UnitValue{}, nil
	}
	return it.Eval(blockEnv, b.Result)
}

func (it *Interpreter) evalStmt(env *Environment, s ast.Stmt) error {
	switch st := s.(type) {
	case *ast.ExprStmt:
		_, err := it.Eval(env, st.X)
		return err
	case *ast.LetStmt:
		v, err := it.Eval(env, st.Value)
		if err != nil {
			return err
		}
		env.Define(st.Name, v)
		return nil
	case *ast.AssignStmt:
		v, err := it.Eval(env, st.Value)
		if err != nil {
			return err
		}
		id, ok := st.Target.(*ast.Identifier)
		if !ok {
			return diag.New(diag.KindType, st.Span(), "unsupported assignment target")
		}
		if !env.Assign(id.Name, v) {
			return diag.New(diag.KindUndefinedVar, st.Span(), "undefined variable %q", id.Name)
		}
		return nil
	default:
		return fmt.Errorf("unhandled statement %T", s)
	}
}

func (it *Interpreter) evalFor(env *Environment, n *ast.ForExpr) (Value, error) {
	iterable, err := it.Eval(env, n.Iterable)
	if err != nil {
		return nil, err
	}
	arr, ok := iterable.(ArrayValue)
	if !ok {
		return nil, diag.New(diag.KindType, n.Span(), "for loop requires an iterable")
	}
	for _, el := range arr.Elements {
		loopEnv := env.Child()
		loopEnv.Define(n.Var, el)
		if _, err := it.Eval(loopEnv, n.Body); err != nil {
			return nil, err
		}
	}
	return UnitValue{}, nil
}

func (it *Interpreter) evalComprehension(env *Environment, n *ast.MatrixComprehension) (Value, error) {
	var result []Value
	var walk func(genIdx int, genEnv *Environment) error
	walk = func(genIdx int, genEnv *Environment) error {
		if genIdx == len(n.Generators) {
			v, err := it.Eval(genEnv, n.Element)
			if err != nil {
				return err
			}
			result = append(result, v)
			return nil
		}
		gen := n.Generators[genIdx]
		iterable, err := it.Eval(genEnv, gen.Iterable)
		if err != nil {
			return err
		}
		arr, ok := iterable.(ArrayValue)
		if !ok {
			return diag.New(diag.KindType, gen.Iterable.Span(), "comprehension generator requires an iterable")
		}
		for _, el := range arr.Elements {
			innerEnv := genEnv.Child()
			innerEnv.Define(gen.Var, el)
			if gen.Guard != nil {
				g, err := it.Eval(innerEnv, gen.Guard)
				if err != nil {
					return err
				}
				if !Truthy(g) {
					continue
				}
			}
			if err := walk(genIdx+1, innerEnv); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(0, env); err != nil {
		return nil, err
	}
	return ArrayValue{Elements: result}, nil
}

func (it *Interpreter) evalMatch(env *Environment, n *ast.Match) (Value, error) {
	subject, err := it.Eval(env, n.Subject)
	if err != nil {
		return nil, err
	}
	for _, arm := range n.Arms {
		armEnv := env.Child()
		if !it.matchPattern(armEnv, arm.Pattern, subject) {
			continue
		}
		if arm.Guard != nil {
			g, err := it.Eval(armEnv, arm.Guard)
			if err != nil {
				return nil, err
			}
			if !Truthy(g) {
				continue
			}
		}
		return it.Eval(armEnv, arm.Body)
	}
	return nil, diag.New(diag.KindPatternMatch, n.Span(), "no match arm matched value %s", subject)
}

func (it *Interpreter) matchPattern(env *Environment, pat ast.Pattern, v Value) bool {
	switch p := pat.(type) {
	case *ast.WildcardPattern:
		return true
	case *ast.IdentPattern:
		env.Define(p.Name, v)
		return true
	case *ast.LiteralPattern:
		lit, err := it.Eval(env, p.Value)
		if err != nil {
			return false
		}
		return valuesEqual(lit, v)
	case *ast.SomePattern:
		opt, ok := v.(OptionValue)
		return ok && opt.Present && it.matchPattern(env, p.Inner, opt.Inner)
	case *ast.NonePattern:
		opt, ok := v.(OptionValue)
		return ok && !opt.Present
	case *ast.StructPattern:
		sv, ok := v.(StructValue)
		if !ok || sv.TypeName != p.TypeName {
			return false
		}
		for name, sub := range p.Fields {
			fv, ok := sv.Fields[name]
			if !ok || !it.matchPattern(env, sub, fv) {
				return false
			}
		}
		return true
	case *ast.ArrayPattern:
		av, ok := v.(ArrayValue)
		if !ok || len(av.Elements) != len(p.Elements) {
			return false
		}
		for i, sub := range p.Elements {
			if !it.matchPattern(env, sub, av.Elements[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// floatEpsilon is the tolerance spec §3.4/§4.4 require Float equality to use
// instead of Go's exact `==` ("floats compared with epsilon").
const floatEpsilon = 2.220446049250313e-16

func valuesEqual(a, b Value) bool {
	switch av := a.(type) {
	case IntValue:
		bv, ok := b.(IntValue)
		return ok && av == bv
	case FloatValue:
		bv, ok := b.(FloatValue)
		return ok && math.Abs(float64(av)-float64(bv)) < floatEpsilon
	case BoolValue:
		bv, ok := b.(BoolValue)
		return ok && av == bv
	case StringValue:
		bv, ok := b.(StringValue)
		return ok && av == bv
	default:
		return false
	}
}

func asFloat(v Value) float64 {
	switch n := v.(type) {
	case IntValue:
		return float64(n)
	case FloatValue:
		return float64(n)
	default:
		return math.NaN()
	}
}
