package types

// Substitution maps type-variable ids to their resolved Type, grounded on
// original_source/matrix-lang/src/types/checker.rs's HashMap<usize, Type>
// substitution (no union-find; lookups chase chains explicitly).
type Substitution struct {
	m map[int]Type
}

func NewSubstitution() *Substitution {
	return &Substitution{m: make(map[int]Type)}
}

func (s *Substitution) Bind(id int, t Type) { s.m[id] = t }

func (s *Substitution) lookup(id int) (Type, bool) {
	t, ok := s.m[id]
	return t, ok
}

// Apply recursively replaces every TypeVar reachable in t with its bound
// type, following chains of bound variables to a fixed point.
func (s *Substitution) Apply(t Type) Type {
	switch v := t.(type) {
	case TypeVar:
		if bound, ok := s.lookup(v.ID); ok {
			return s.Apply(bound)
		}
		return v
	case Array:
		return Array{Elem: s.Apply(v.Elem)}
	case Matrix:
		return Matrix{Elem: s.Apply(v.Elem), Rows: v.Rows, Cols: v.Cols}
	case Function:
		params := make([]Type, len(v.Params))
		for i, p := range v.Params {
			params[i] = s.Apply(p)
		}
		return Function{Params: params, Return: s.Apply(v.Return)}
	case TypeApp:
		args := make([]Type, len(v.Args))
		for i, a := range v.Args {
			args[i] = s.Apply(a)
		}
		return TypeApp{Name: v.Name, Args: args}
	case Option:
		return Option{Elem: s.Apply(v.Elem)}
	case Future:
		return Future{Elem: s.Apply(v.Elem)}
	case GPU:
		return GPU{Elem: s.Apply(v.Elem)}
	default:
		return t
	}
}

// occurs reports whether the variable id occurs free in t, after chasing
// any existing bindings; used to reject infinite types such as 't0 = Array<'t0>.
func (s *Substitution) occurs(id int, t Type) bool {
	switch v := t.(type) {
	case TypeVar:
		if bound, ok := s.lookup(v.ID); ok {
			return s.occurs(id, bound)
		}
		return v.ID == id
	case Array:
		return s.occurs(id, v.Elem)
	case Matrix:
		return s.occurs(id, v.Elem)
	case Function:
		for _, p := range v.Params {
			if s.occurs(id, p) {
				return true
			}
		}
		return s.occurs(id, v.Return)
	case TypeApp:
		for _, a := range v.Args {
			if s.occurs(id, a) {
				return true
			}
		}
		return false
	case Option:
		return s.occurs(id, v.Elem)
	case Future:
		return s.occurs(id, v.Elem)
	case GPU:
		return s.occurs(id, v.Elem)
	default:
		return false
	}
}

// FreeVars collects the ids of every unbound TypeVar reachable in t, used
// by generalize to compute a scheme's quantified variables.
func (s *Substitution) FreeVars(t Type, into map[int]bool) {
	switch v := s.Apply(t).(type) {
	case TypeVar:
		into[v.ID] = true
	case Array:
		s.FreeVars(v.Elem, into)
	case Matrix:
		s.FreeVars(v.Elem, into)
	case Function:
		for _, p := range v.Params {
			s.FreeVars(p, into)
		}
		s.FreeVars(v.Return, into)
	case TypeApp:
		for _, a := range v.Args {
			s.FreeVars(a, into)
		}
	case Option:
		s.FreeVars(v.Elem, into)
	case Future:
		s.FreeVars(v.Elem, into)
	case GPU:
		s.FreeVars(v.Elem, into)
	}
}
