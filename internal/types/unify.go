package types

import "fmt"

// UnifyError reports two types that cannot be made equal, or an occurs-check
// failure; the checker wraps it in a diag.Error carrying the offending
// expression's span.
type UnifyError struct {
	Left, Right Type
	Reason      string
}

func (e *UnifyError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("cannot unify %s with %s: %s", e.Left, e.Right, e.Reason)
	}
	return fmt.Sprintf("cannot unify %s with %s", e.Left, e.Right)
}

// Unify attempts to make a and b equal under s, recording new bindings in
// s as needed. Grounded case-for-case on
// original_source/matrix-lang/src/types/checker.rs's unify()/bind_type_var():
// a HashMap-based substitution with explicit occurs-check, no union-find.
func Unify(a, b Type, s *Substitution) error {
	a = s.Apply(a)
	b = s.Apply(b)

	switch l := a.(type) {
	case TypeVar:
		return bindVar(l.ID, b, s)
	default:
		if r, ok := b.(TypeVar); ok {
			return bindVar(r.ID, a, s)
		}
	}

	switch l := a.(type) {
	case Int:
		if _, ok := b.(Int); ok {
			return nil
		}
	case Float:
		if _, ok := b.(Float); ok {
			return nil
		}
	case Bool:
		if _, ok := b.(Bool); ok {
			return nil
		}
	case String:
		if _, ok := b.(String); ok {
			return nil
		}
	case Unit:
		if _, ok := b.(Unit); ok {
			return nil
		}
	case Vec3Type:
		if _, ok := b.(Vec3Type); ok {
			return nil
		}
	case QuaternionType:
		if _, ok := b.(QuaternionType); ok {
			return nil
		}
	case RigidBodyType:
		if _, ok := b.(RigidBodyType); ok {
			return nil
		}
	case PhysicsWorldType:
		if _, ok := b.(PhysicsWorldType); ok {
			return nil
		}
	case Array:
		if r, ok := b.(Array); ok {
			return Unify(l.Elem, r.Elem, s)
		}
	case Matrix:
		if r, ok := b.(Matrix); ok {
			if !SameDim(l.Rows, r.Rows) || !SameDim(l.Cols, r.Cols) {
				return &UnifyError{Left: a, Right: b, Reason: "dimension mismatch"}
			}
			return Unify(l.Elem, r.Elem, s)
		}
	case Function:
		if r, ok := b.(Function); ok {
			if len(l.Params) != len(r.Params) {
				return &UnifyError{Left: a, Right: b, Reason: "arity mismatch"}
			}
			for i := range l.Params {
				if err := Unify(l.Params[i], r.Params[i], s); err != nil {
					return err
				}
			}
			return Unify(l.Return, r.Return, s)
		}
	case Struct:
		if r, ok := b.(Struct); ok && l.Name == r.Name {
			return nil
		}
	case TypeApp:
		if r, ok := b.(TypeApp); ok && l.Name == r.Name && len(l.Args) == len(r.Args) {
			for i := range l.Args {
				if err := Unify(l.Args[i], r.Args[i], s); err != nil {
					return err
				}
			}
			return nil
		}
	case Option:
		if r, ok := b.(Option); ok {
			return Unify(l.Elem, r.Elem, s)
		}
	case Future:
		if r, ok := b.(Future); ok {
			return Unify(l.Elem, r.Elem, s)
		}
	case GPU:
		if r, ok := b.(GPU); ok {
			return Unify(l.Elem, r.Elem, s)
		}
		// A GPU<T> host-observes as T (spec §6): unify transparently.
		return Unify(l.Elem, b, s)
	}
	if r, ok := b.(GPU); ok {
		return Unify(a, r.Elem, s)
	}
	return &UnifyError{Left: a, Right: b}
}

func bindVar(id int, t Type, s *Substitution) error {
	if v, ok := t.(TypeVar); ok && v.ID == id {
		return nil
	}
	if s.occurs(id, t) {
		return &UnifyError{Left: TypeVar{ID: id}, Right: t, Reason: "occurs check failed"}
	}
	s.Bind(id, t)
	return nil
}
