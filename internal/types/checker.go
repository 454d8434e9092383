package types

import (
	"github.com/dedzsinator/matrixlang/internal/ast"
	"github.com/dedzsinator/matrixlang/internal/diag"
)

// Checker implements a Hindley-Milner variant (Algorithm W with explicit
// let-generalization) over the Matrix Language AST, grounded end-to-end on
// original_source/matrix-lang/src/types/checker.rs's Checker struct
// (env stack + substitution + fresh-variable counter).
type Checker struct {
	Structs    *StructRegistry
	Classes    *TypeclassRegistry
	subst      *Substitution
	nextVar    int
	errors     []*diag.Error
	returnType Type // expected return type of the function currently being checked, nil outside one
}

func NewChecker() *Checker {
	return &Checker{
		Structs: NewStructRegistry(),
		Classes: NewTypeclassRegistry(),
		subst:   NewSubstitution(),
	}
}

func (c *Checker) Errors() []*diag.Error { return c.errors }

func (c *Checker) fresh() Type {
	c.nextVar++
	return TypeVar{ID: c.nextVar}
}

func (c *Checker) errf(span diag.Span, kind diag.Kind, format string, args ...any) {
	c.errors = append(c.errors, diag.New(kind, span, format, args...))
}

func (c *Checker) unify(span diag.Span, a, b Type) Type {
	if err := Unify(a, b, c.subst); err != nil {
		c.errf(span, diag.KindTypeMismatch, "%s", err.Error())
	}
	return c.subst.Apply(a)
}

// Resolve converts surface syntax TypeExpr into the internal Type universe.
// A missing annotation (nil) becomes a fresh variable; a bare name that is
// neither built in nor a registered struct is treated as a struct
// forward-reference, not as a type parameter.
func (c *Checker) Resolve(te *ast.TypeExpr) Type {
	if te == nil {
		return c.fresh()
	}
	if te.Name == "Function" {
		params := make([]Type, len(te.Params))
		for i, p := range te.Params {
			params[i] = c.Resolve(p)
		}
		return Function{Params: params, Return: c.Resolve(te.Return)}
	}
	switch te.Name {
	case "Int":
		return Int{}
	case "Float":
		return Float{}
	case "Bool":
		return Bool{}
	case "String":
		return String{}
	case "Unit":
		return Unit{}
	case "Vec3":
		return Vec3Type{}
	case "Quaternion":
		return QuaternionType{}
	case "RigidBody":
		return RigidBodyType{}
	case "PhysicsWorld":
		return PhysicsWorldType{}
	case "Array":
		if len(te.Args) == 1 {
			return Array{Elem: c.Resolve(te.Args[0])}
		}
	case "Matrix":
		var elemT Type = Float{}
		if len(te.Args) >= 1 {
			elemT = c.Resolve(te.Args[0])
		}
		return Matrix{Elem: elemT, Rows: te.Rows, Cols: te.Cols}
	case "Option":
		if len(te.Args) == 1 {
			return Option{Elem: c.Resolve(te.Args[0])}
		}
	case "Future":
		if len(te.Args) == 1 {
			return Future{Elem: c.Resolve(te.Args[0])}
		}
	case "GPU":
		if len(te.Args) == 1 {
			return GPU{Elem: c.Resolve(te.Args[0])}
		}
	}
	if c.Structs.Exists(te.Name) {
		return Struct{Name: te.Name}
	}
	if len(te.Args) > 0 {
		args := make([]Type, len(te.Args))
		for i, a := range te.Args {
			args[i] = c.Resolve(a)
		}
		return TypeApp{Name: te.Name, Args: args}
	}
	// Unknown bare name: treat as a struct forward-reference; the registry
	// pass runs before bodies are checked so legitimate names are already
	// known by the time this matters.
	return Struct{Name: te.Name}
}

// CheckProgram type-checks every item, in two passes so function and
// struct definitions may reference each other regardless of declaration
// order (spec §4.3 "forward references within one module").
func (c *Checker) CheckProgram(prog *ast.Program) []*diag.Error {
	env := NewTypeEnv()
	registerBuiltins(env)
	registerBuiltinStructs(c.Structs)

	for _, item := range prog.Items {
		if sd, ok := item.(*ast.StructDef); ok {
			fields := make(map[string]Type, len(sd.Fields))
			var order []string
			for _, f := range sd.Fields {
				ft := c.Resolve(f.Type)
				if f.Optional {
					ft = Option{Elem: ft}
				}
				fields[f.Name] = ft
				order = append(order, f.Name)
			}
			c.Structs.Define(sd.Name, order, fields)
		}
	}
	for _, item := range prog.Items {
		if tc, ok := item.(*ast.TypeclassDef); ok {
			methods := make(map[string]Function, len(tc.Methods))
			for _, m := range tc.Methods {
				params := make([]Type, len(m.Params))
				for i, p := range m.Params {
					params[i] = c.Resolve(p.Type)
				}
				methods[m.Name] = Function{Params: params, Return: c.Resolve(m.Return)}
			}
			c.Classes.Define(&TypeclassDef{Name: tc.Name, Methods: methods})
		}
	}
	for _, item := range prog.Items {
		if fd, ok := item.(*ast.FunctionDef); ok {
			sig := c.signatureOf(fd)
			env.Define(fd.Name, Scheme{Type: sig})
		}
	}

	for _, item := range prog.Items {
		c.checkItem(env, item)
	}
	return c.errors
}

func (c *Checker) signatureOf(fd *ast.FunctionDef) Type {
	params := make([]Type, len(fd.Params))
	for i, p := range fd.Params {
		params[i] = c.Resolve(p.Type)
	}
	return Function{Params: params, Return: c.Resolve(fd.ReturnType)}
}

func (c *Checker) checkItem(env *TypeEnv, item ast.Item) {
	switch it := item.(type) {
	case *ast.StructDef, *ast.TypeclassDef:
		// already registered above.
	case *ast.FunctionDef:
		c.checkFunctionDef(env, it)
	case *ast.InstanceDef:
		c.checkInstanceDef(env, it)
	case *ast.LetBinding:
		vt := c.inferExpr(env, it.Value)
		if it.Type != nil {
			vt = c.unify(it.Span(), vt, c.Resolve(it.Type))
		}
		env.Define(it.Name, env.Generalize(vt, c.subst))
	case *ast.Import:
		// module resolution is a host/CLI concern (spec §6); nothing to
		// check at the type level for a bare import path.
	case *ast.ExprItem:
		c.inferExpr(env, it.X)
	}
}

func (c *Checker) checkFunctionDef(env *TypeEnv, fd *ast.FunctionDef) {
	fnEnv := env.Push()
	paramTypes := make([]Type, len(fd.Params))
	for i, p := range fd.Params {
		pt := c.Resolve(p.Type)
		paramTypes[i] = pt
		fnEnv.Define(p.Name, Scheme{Type: pt})
	}
	retType := c.Resolve(fd.ReturnType)

	prevReturn := c.returnType
	c.returnType = retType
	bodyType := c.inferExpr(fnEnv, fd.Body)
	c.returnType = prevReturn

	c.unify(fd.Span(), bodyType, retType)
}

func (c *Checker) checkInstanceDef(env *TypeEnv, inst *ast.InstanceDef) {
	forType := c.Resolve(inst.ForType)
	c.Classes.AddInstance(inst.Typeclass, TypeName(forType))
	for _, m := range inst.Methods {
		c.checkFunctionDef(env, m)
	}
}

// inferExpr is the core of Algorithm W: it returns the type of e under env,
// recording unification failures as diagnostics rather than aborting, so
// one bad expression doesn't suppress sibling errors.
func (c *Checker) inferExpr(env *TypeEnv, e ast.Expr) Type {
	switch n := e.(type) {
	case *ast.IntLiteral:
		return Int{}
	case *ast.FloatLiteral:
		return Float{}
	case *ast.BoolLiteral:
		return Bool{}
	case *ast.StringLiteral:
		return String{}

	case *ast.Identifier:
		sc, ok := env.Lookup(n.Name)
		if !ok {
			c.errf(n.Span(), diag.KindUndefinedVar, "undefined variable %q", n.Name)
			return c.fresh()
		}
		return Instantiate(sc, c.fresh, c.subst)

	case *ast.BinaryOp:
		return c.inferBinaryOp(env, n)

	case *ast.UnaryOp:
		operand := c.inferExpr(env, n.Operand)
		switch n.Op {
		case "!":
			return c.unify(n.Span(), operand, Bool{})
		case "'":
			// transpose: Matrix<T,r,c> -> Matrix<T,c,r>.
			if m, ok := c.subst.Apply(operand).(Matrix); ok {
				return Matrix{Elem: m.Elem, Rows: m.Cols, Cols: m.Rows}
			}
			return operand
		default: // unary minus
			return operand
		}

	case *ast.FunctionCall:
		return c.inferCall(env, n)

	case *ast.FieldAccess:
		objType := c.subst.Apply(c.inferExpr(env, n.Object))
		st, ok := objType.(Struct)
		if !ok {
			c.errf(n.Span(), diag.KindFieldNotFound, "cannot access field %q on non-struct type %s", n.Field, objType)
			return c.fresh()
		}
		ft, ok := c.Structs.FieldType(st.Name, n.Field)
		if !ok {
			c.errf(n.Span(), diag.KindFieldNotFound, "struct %s has no field %q", st.Name, n.Field)
			return c.fresh()
		}
		return ft

	case *ast.OptionalAccess:
		objType := c.subst.Apply(c.inferExpr(env, n.Object))
		var fieldType Type = c.fresh()
		if st, ok := objType.(Struct); ok {
			if ft, ok := c.Structs.FieldType(st.Name, n.Field); ok {
				fieldType = ft
			}
		}
		inner := fieldType
		if opt, ok := c.subst.Apply(fieldType).(Option); ok {
			inner = opt.Elem
		}
		fallback := c.inferExpr(env, n.Fallback)
		return c.unify(n.Span(), inner, fallback)

	case *ast.IndexExpr:
		objType := c.subst.Apply(c.inferExpr(env, n.Object))
		idxType := c.inferExpr(env, n.Index)
		c.unify(n.Index.Span(), idxType, Int{})
		switch o := objType.(type) {
		case Array:
			return o.Elem
		case Matrix:
			return o.Elem
		default:
			c.errf(n.Span(), diag.KindIndexOutOfBounds, "type %s is not indexable", objType)
			return c.fresh()
		}

	case *ast.StructCreation:
		if !c.Structs.Exists(n.TypeName) {
			c.errf(n.Span(), diag.KindType, "unknown struct type %q", n.TypeName)
			for _, v := range n.Fields {
				c.inferExpr(env, v)
			}
			return Struct{Name: n.TypeName}
		}
		for name, valueExpr := range n.Fields {
			vt := c.inferExpr(env, valueExpr)
			ft, ok := c.Structs.FieldType(n.TypeName, name)
			if !ok {
				c.errf(valueExpr.Span(), diag.KindFieldNotFound, "struct %s has no field %q", n.TypeName, name)
				continue
			}
			c.unify(valueExpr.Span(), vt, ft)
		}
		// Every field not wrapped in Option must be supplied (spec §4.4
		// "struct creation requires all non-optional fields").
		for _, name := range c.Structs.FieldOrder(n.TypeName) {
			if _, given := n.Fields[name]; given {
				continue
			}
			ft, _ := c.Structs.FieldType(n.TypeName, name)
			if _, optional := ft.(Option); !optional {
				c.errf(n.Span(), diag.KindFieldNotFound, "struct %s is missing required field %q", n.TypeName, name)
			}
		}
		return Struct{Name: n.TypeName}

	case *ast.ArrayLiteral:
		elem := c.fresh()
		for _, el := range n.Elements {
			et := c.inferExpr(env, el)
			elem = c.unify(el.Span(), elem, et)
		}
		return Array{Elem: elem}

	case *ast.MatrixLiteral:
		elem := Type(Float{})
		rows := len(n.Rows)
		cols := 0
		if rows > 0 {
			cols = len(n.Rows[0])
		}
		for _, row := range n.Rows {
			for _, el := range row {
				et := c.inferExpr(env, el)
				elem = c.unify(el.Span(), elem, et)
			}
		}
		return Matrix{Elem: elem, Rows: &rows, Cols: &cols}

	case *ast.MatrixComprehension:
		genEnv := env.Push()
		for _, g := range n.Generators {
			it := c.subst.Apply(c.inferExpr(genEnv, g.Iterable))
			var elemType Type = c.fresh()
			switch v := it.(type) {
			case Array:
				elemType = v.Elem
			case TypeApp:
				if v.Name == "Range" {
					elemType = Int{}
				}
			}
			genEnv.Define(g.Var, Scheme{Type: elemType})
			if g.Guard != nil {
				c.unify(g.Guard.Span(), c.inferExpr(genEnv, g.Guard), Bool{})
			}
		}
		elem := c.inferExpr(genEnv, n.Element)
		return Array{Elem: elem}

	case *ast.IfExpression:
		c.unify(n.Cond.Span(), c.inferExpr(env, n.Cond), Bool{})
		thenT := c.inferExpr(env, n.Then)
		if n.Else == nil {
			return Unit{}
		}
		elseT := c.inferExpr(env, n.Else)
		return c.unify(n.Span(), thenT, elseT)

	case *ast.Match:
		subj := c.inferExpr(env, n.Subject)
		result := c.fresh()
		for _, arm := range n.Arms {
			armEnv := env.Push()
			c.inferPattern(armEnv, arm.Pattern, subj)
			if arm.Guard != nil {
				c.unify(arm.Guard.Span(), c.inferExpr(armEnv, arm.Guard), Bool{})
			}
			bodyT := c.inferExpr(armEnv, arm.Body)
			result = c.unify(arm.Body.Span(), result, bodyT)
		}
		return result

	case *ast.Let:
		letEnv := env.Push()
		for _, b := range n.Bindings {
			vt := c.inferExpr(letEnv, b.Value)
			letEnv.Define(b.Name, letEnv.Generalize(vt, c.subst))
		}
		return c.inferExpr(letEnv, n.Body)

	case *ast.Lambda:
		lamEnv := env.Push()
		params := make([]Type, len(n.Params))
		for i, p := range n.Params {
			pt := c.Resolve(p.Type)
			params[i] = pt
			lamEnv.Define(p.Name, Scheme{Type: pt})
		}
		ret := c.inferExpr(lamEnv, n.Body)
		return Function{Params: params, Return: ret}

	case *ast.Block:
		return c.inferBlock(env, n)

	case *ast.Parallel:
		for _, sub := range n.Exprs {
			c.inferExpr(env, sub)
		}
		return Array{Elem: Future{Elem: c.fresh()}}

	case *ast.Spawn:
		inner := c.inferExpr(env, n.Expr)
		return Future{Elem: inner}

	case *ast.Wait:
		h := c.subst.Apply(c.inferExpr(env, n.Handle))
		if f, ok := h.(Future); ok {
			return f.Elem
		}
		return c.fresh()

	case *ast.GpuDirective:
		inner := c.inferExpr(env, n.Body)
		return GPU{Elem: inner}

	case *ast.Range:
		c.unify(n.Start.Span(), c.inferExpr(env, n.Start), Int{})
		c.unify(n.End.Span(), c.inferExpr(env, n.End), Int{})
		return TypeApp{Name: "Range", Args: []Type{Int{}}}

	case *ast.ForExpr:
		forEnv := env.Push()
		it := c.subst.Apply(c.inferExpr(forEnv, n.Iterable))
		elemType := Type(Int{})
		if arr, ok := it.(Array); ok {
			elemType = arr.Elem
		}
		forEnv.Define(n.Var, Scheme{Type: elemType})
		c.inferExpr(forEnv, n.Body)
		return Unit{}

	default:
		c.errf(e.Span(), diag.KindType, "unsupported expression node %T", e)
		return c.fresh()
	}
}

func (c *Checker) inferBinaryOp(env *TypeEnv, n *ast.BinaryOp) Type {
	lt := c.inferExpr(env, n.Left)
	rt := c.inferExpr(env, n.Right)
	switch n.Op {
	case "&&", "||":
		c.unify(n.Left.Span(), lt, Bool{})
		c.unify(n.Right.Span(), rt, Bool{})
		return Bool{}
	case "==", "!=":
		c.unify(n.Span(), lt, rt)
		return Bool{}
	case "<", "<=", ">", ">=":
		c.unify(n.Span(), lt, rt)
		return Bool{}
	case "*":
		// Matrix multiplication only checks the inner dimension (spec §4.3
		// "MatMul(Matrix(T,r1,Some(c)), Matrix(T,Some(c),c2)) ->
		// Matrix(T,r1,c2)"), unlike the elementwise "+"/"-" cases below
		// which require identical shapes on both sides.
		lm, lok := c.subst.Apply(lt).(Matrix)
		rm, rok := c.subst.Apply(rt).(Matrix)
		if lok && rok {
			return c.inferMatMul(n, lm, rm)
		}
		return c.inferArithOp(n, lt, rt)
	case "+", "-", "/", "%", "^":
		return c.inferArithOp(n, lt, rt)
	default:
		return c.unify(n.Span(), lt, rt)
	}
}

// inferMatMul checks only the shared inner dimension (cols of the left
// matrix against rows of the right one), per spec §4.3's dimension-
// propagation rule; unknown dimensions unify with anything.
func (c *Checker) inferMatMul(n *ast.BinaryOp, lm, rm Matrix) Type {
	elem := c.unify(n.Span(), lm.Elem, rm.Elem)
	if lm.Cols != nil && rm.Rows != nil && *lm.Cols != *rm.Rows {
		c.errf(n.Span(), diag.KindTypeMismatch,
			"matrix multiply dimension mismatch: %d columns vs %d rows", *lm.Cols, *rm.Rows)
	}
	return Matrix{Elem: elem, Rows: lm.Rows, Cols: rm.Cols}
}

func (c *Checker) inferArithOp(n *ast.BinaryOp, lt, rt Type) Type {
	result := c.unify(n.Span(), lt, rt)
	resolved := c.subst.Apply(result)
	switch resolved.(type) {
	case Int, Float, Matrix, Vec3Type, TypeVar:
		// always-arithmetic types, or not yet resolved.
	default:
		if !c.Classes.Satisfies("Addable", TypeName(resolved)) {
			c.errf(n.Span(), diag.KindTypeMismatch, "type %s does not implement Addable", resolved)
		}
	}
	return result
}

func (c *Checker) inferCall(env *TypeEnv, n *ast.FunctionCall) Type {
	calleeType := c.subst.Apply(c.inferExpr(env, n.Callee))
	args := make([]Type, len(n.Args))
	for i, a := range n.Args {
		args[i] = c.inferExpr(env, a)
	}
	fn, ok := calleeType.(Function)
	if !ok {
		if tv, isVar := calleeType.(TypeVar); isVar {
			ret := c.fresh()
			guess := Function{Params: args, Return: ret}
			c.unify(n.Span(), tv, guess)
			return ret
		}
		c.errf(n.Span(), diag.KindFunctionCall, "cannot call non-function type %s", calleeType)
		return c.fresh()
	}
	if len(fn.Params) != len(args) {
		c.errf(n.Span(), diag.KindFunctionCall, "expected %d arguments, got %d", len(fn.Params), len(args))
		return fn.Return
	}
	for i := range args {
		c.unify(n.Args[i].Span(), args[i], fn.Params[i])
	}
	return fn.Return
}

func (c *Checker) inferBlock(env *TypeEnv, b *ast.Block) Type {
	blockEnv := env.Push()
	for _, stmt := range b.Statements {
		c.inferStmt(blockEnv, stmt)
	}
	if b.Result == nil {
		return Unit{}
	}
	return c.inferExpr(blockEnv, b.Result)
}

func (c *Checker) inferStmt(env *TypeEnv, s ast.Stmt) {
	switch st := s.(type) {
	case *ast.ExprStmt:
		c.inferExpr(env, st.X)
	case *ast.LetStmt:
		vt := c.inferExpr(env, st.Value)
		if st.Type != nil {
			vt = c.unify(st.Span(), vt, c.Resolve(st.Type))
		}
		env.Define(st.Name, env.Generalize(vt, c.subst))
	case *ast.AssignStmt:
		target := c.inferExpr(env, st.Target)
		value := c.inferExpr(env, st.Value)
		c.unify(st.Span(), target, value)
	}
}

// inferPattern binds the identifiers a pattern introduces into env and
// unifies structural expectations against the scrutinee's type.
func (c *Checker) inferPattern(env *TypeEnv, pat ast.Pattern, scrutinee Type) {
	switch p := pat.(type) {
	case *ast.WildcardPattern:
	case *ast.IdentPattern:
		env.Define(p.Name, Scheme{Type: scrutinee})
	case *ast.LiteralPattern:
		lt := c.inferExpr(env, p.Value)
		c.unify(p.Span(), lt, scrutinee)
	case *ast.SomePattern:
		inner := c.fresh()
		c.unify(p.Span(), scrutinee, Option{Elem: inner})
		c.inferPattern(env, p.Inner, inner)
	case *ast.NonePattern:
		c.unify(p.Span(), scrutinee, Option{Elem: c.fresh()})
	case *ast.StructPattern:
		st, ok := c.subst.Apply(scrutinee).(Struct)
		if !ok {
			st = Struct{Name: p.TypeName}
			c.unify(p.Span(), scrutinee, st)
		}
		for name, sub := range p.Fields {
			ft, ok := c.Structs.FieldType(st.Name, name)
			if !ok {
				c.errf(p.Span(), diag.KindFieldNotFound, "struct %s has no field %q", st.Name, name)
				ft = c.fresh()
			}
			c.inferPattern(env, sub, ft)
		}
	case *ast.ArrayPattern:
		elem := c.fresh()
		c.unify(p.Span(), scrutinee, Array{Elem: elem})
		for _, el := range p.Elements {
			c.inferPattern(env, el, elem)
		}
	}
}
