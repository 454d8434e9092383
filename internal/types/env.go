package types

// Scheme is a let-polymorphic type: a type with a set of quantified
// variable ids that Instantiate replaces with fresh variables at each use.
type Scheme struct {
	Vars []int
	Type Type
}

// TypeEnv is a chain of lexical scopes mapping identifiers to schemes,
// mirroring the Environment shape the interpreter uses for values
// (spec §4.4) so the checker's scoping matches the interpreter's exactly.
type TypeEnv struct {
	parent *TypeEnv
	vars   map[string]Scheme
}

func NewTypeEnv() *TypeEnv {
	return &TypeEnv{vars: make(map[string]Scheme)}
}

func (e *TypeEnv) Push() *TypeEnv {
	return &TypeEnv{parent: e, vars: make(map[string]Scheme)}
}

func (e *TypeEnv) Define(name string, sc Scheme) {
	e.vars[name] = sc
}

func (e *TypeEnv) Lookup(name string) (Scheme, bool) {
	for env := e; env != nil; env = env.parent {
		if sc, ok := env.vars[name]; ok {
			return sc, true
		}
	}
	return Scheme{}, false
}

// Generalize closes over every free variable in t that isn't already free
// in the enclosing environment, producing a let-polymorphic scheme.
func (e *TypeEnv) Generalize(t Type, s *Substitution) Scheme {
	free := map[int]bool{}
	s.FreeVars(t, free)
	envFree := map[int]bool{}
	for env := e; env != nil; env = env.parent {
		for _, sc := range env.vars {
			s.FreeVars(sc.Type, envFree)
		}
	}
	var vars []int
	for id := range free {
		if !envFree[id] {
			vars = append(vars, id)
		}
	}
	return Scheme{Vars: vars, Type: t}
}

// Instantiate replaces every quantified variable in sc with a fresh
// TypeVar minted by fresh, yielding a monomorphic type for this use site.
func Instantiate(sc Scheme, fresh func() Type, s *Substitution) Type {
	if len(sc.Vars) == 0 {
		return sc.Type
	}
	mapping := make(map[int]Type, len(sc.Vars))
	for _, id := range sc.Vars {
		mapping[id] = fresh()
	}
	return substituteVars(sc.Type, mapping)
}

func substituteVars(t Type, mapping map[int]Type) Type {
	switch v := t.(type) {
	case TypeVar:
		if nt, ok := mapping[v.ID]; ok {
			return nt
		}
		return v
	case Array:
		return Array{Elem: substituteVars(v.Elem, mapping)}
	case Matrix:
		return Matrix{Elem: substituteVars(v.Elem, mapping), Rows: v.Rows, Cols: v.Cols}
	case Function:
		params := make([]Type, len(v.Params))
		for i, p := range v.Params {
			params[i] = substituteVars(p, mapping)
		}
		return Function{Params: params, Return: substituteVars(v.Return, mapping)}
	case TypeApp:
		args := make([]Type, len(v.Args))
		for i, a := range v.Args {
			args[i] = substituteVars(a, mapping)
		}
		return TypeApp{Name: v.Name, Args: args}
	case Option:
		return Option{Elem: substituteVars(v.Elem, mapping)}
	case Future:
		return Future{Elem: substituteVars(v.Elem, mapping)}
	case GPU:
		return GPU{Elem: substituteVars(v.Elem, mapping)}
	default:
		return t
	}
}
