package ast

import (
	"strings"

	"github.com/dedzsinator/matrixlang/internal/diag"
)

// TypeExpr is the surface syntax for a type annotation, e.g. `Int`,
// `Array<Float>`, `Matrix<Float, 3, 3>`, `Option<Int>`, `(Int, Int) -> Int`.
// It is resolved to an internal/types.Type by the checker.
type TypeExpr struct {
	Name     string      // e.g. "Int", "Array", "Matrix", "Option", "Function"
	Args     []*TypeExpr // generic type arguments
	Rows     *int        // Matrix row dimension, if statically known
	Cols     *int        // Matrix column dimension, if statically known
	Params   []*TypeExpr // Function parameter types (Name == "Function")
	Return   *TypeExpr   // Function return type
	Span_    diag.Span
}

func (n *TypeExpr) Span() diag.Span { return n.Span_ }
func (n *TypeExpr) String() string {
	if n.Name == "Function" {
		parts := make([]string, len(n.Params))
		for i, p := range n.Params {
			parts[i] = p.String()
		}
		return "(" + strings.Join(parts, ", ") + ") -> " + n.Return.String()
	}
	if len(n.Args) == 0 {
		return n.Name
	}
	parts := make([]string, len(n.Args))
	for i, a := range n.Args {
		parts[i] = a.String()
	}
	return n.Name + "<" + strings.Join(parts, ", ") + ">"
}
