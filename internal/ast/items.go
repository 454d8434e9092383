package ast

import (
	"strings"

	"github.com/dedzsinator/matrixlang/internal/diag"
)

// StructField is one field of a StructDef.
type StructField struct {
	Name     string
	Type     *TypeExpr
	Optional bool
}

type StructDef struct {
	Name   string
	Fields []StructField
	Span_  diag.Span
}

func (n *StructDef) Span() diag.Span { return n.Span_ }
func (n *StructDef) String() string  { return "struct " + n.Name }
func (*StructDef) itemNode()         {}

// TypeclassDef declares a named constraint with required method
// signatures, e.g. `typeclass Addable { fn add(a: Self, b: Self) -> Self }`.
type TypeclassDef struct {
	Name    string
	Methods []FunctionSig
	Span_   diag.Span
}

func (n *TypeclassDef) Span() diag.Span { return n.Span_ }
func (n *TypeclassDef) String() string  { return "typeclass " + n.Name }
func (*TypeclassDef) itemNode()         {}

// FunctionSig is a bare signature, used by typeclass method declarations.
type FunctionSig struct {
	Name   string
	Params []LambdaParam
	Return *TypeExpr
}

// InstanceDef implements a typeclass for a concrete type.
type InstanceDef struct {
	Typeclass string
	ForType   *TypeExpr
	Methods   []*FunctionDef
	Span_     diag.Span
}

func (n *InstanceDef) Span() diag.Span { return n.Span_ }
func (n *InstanceDef) String() string {
	return "instance " + n.Typeclass + " for " + n.ForType.String()
}
func (*InstanceDef) itemNode() {}

// FunctionDef is a top-level or nested named function declaration,
// `fn name(params) -> RetType = body` or `fn name(params) -> RetType { body }`.
type FunctionDef struct {
	Name       string
	Params     []LambdaParam
	ReturnType *TypeExpr
	Body       Expr
	Span_      diag.Span
}

func (n *FunctionDef) Span() diag.Span { return n.Span_ }
func (n *FunctionDef) String() string {
	names := make([]string, len(n.Params))
	for i, p := range n.Params {
		names[i] = p.Name
	}
	return "fn " + n.Name + "(" + strings.Join(names, ", ") + ")"
}
func (*FunctionDef) itemNode() {}

// LetBinding is a top-level `let name = value;` item.
type LetBinding struct {
	Name  string
	Type  *TypeExpr
	Value Expr
	Span_ diag.Span
}

func (n *LetBinding) Span() diag.Span { return n.Span_ }
func (n *LetBinding) String() string  { return "let " + n.Name + " = " + n.Value.String() + ";" }
func (*LetBinding) itemNode()         {}

// Import brings another module's exported bindings into scope.
type Import struct {
	Path  string
	Span_ diag.Span
}

func (n *Import) Span() diag.Span { return n.Span_ }
func (n *Import) String() string  { return "import " + n.Path + ";" }
func (*Import) itemNode()         {}

// ExprItem lets a bare top-level expression (e.g. the trailing result of a
// script) appear in Program.Items.
type ExprItem struct {
	X     Expr
	Span_ diag.Span
}

func (n *ExprItem) Span() diag.Span { return n.Span_ }
func (n *ExprItem) String() string  { return n.X.String() }
func (*ExprItem) itemNode()         {}
