package ast

import (
	"fmt"
	"strings"

	"github.com/dedzsinator/matrixlang/internal/diag"
)

// ---- literals ----

type IntLiteral struct {
	Value int64
	Span_ diag.Span
}

func (n *IntLiteral) Span() diag.Span { return n.Span_ }
func (n *IntLiteral) String() string  { return fmt.Sprintf("%d", n.Value) }
func (*IntLiteral) exprNode()         {}

type FloatLiteral struct {
	Value float64
	Span_ diag.Span
}

func (n *FloatLiteral) Span() diag.Span { return n.Span_ }
func (n *FloatLiteral) String() string  { return fmt.Sprintf("%g", n.Value) }
func (*FloatLiteral) exprNode()         {}

type BoolLiteral struct {
	Value bool
	Span_ diag.Span
}

func (n *BoolLiteral) Span() diag.Span { return n.Span_ }
func (n *BoolLiteral) String() string  { return fmt.Sprintf("%t", n.Value) }
func (*BoolLiteral) exprNode()         {}

type StringLiteral struct {
	Value string
	Span_ diag.Span
}

func (n *StringLiteral) Span() diag.Span { return n.Span_ }
func (n *StringLiteral) String() string  { return fmt.Sprintf("%q", n.Value) }
func (*StringLiteral) exprNode()         {}

// Identifier is a variable or function reference.
type Identifier struct {
	Name  string
	Span_ diag.Span
}

func (n *Identifier) Span() diag.Span { return n.Span_ }
func (n *Identifier) String() string  { return n.Name }
func (*Identifier) exprNode()         {}

// ---- operators ----

type BinaryOp struct {
	Op          string
	Left, Right Expr
	Span_       diag.Span
}

func (n *BinaryOp) Span() diag.Span { return n.Span_ }
func (n *BinaryOp) String() string  { return fmt.Sprintf("(%s %s %s)", n.Left, n.Op, n.Right) }
func (*BinaryOp) exprNode()         {}

type UnaryOp struct {
	Op      string
	Operand Expr
	Span_   diag.Span
}

func (n *UnaryOp) Span() diag.Span { return n.Span_ }
func (n *UnaryOp) String() string  { return fmt.Sprintf("(%s%s)", n.Op, n.Operand) }
func (*UnaryOp) exprNode()         {}

// ---- calls / access ----

type FunctionCall struct {
	Callee Expr
	Args   []Expr
	Span_  diag.Span
}

func (n *FunctionCall) Span() diag.Span { return n.Span_ }
func (n *FunctionCall) String() string {
	parts := make([]string, len(n.Args))
	for i, a := range n.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", n.Callee, strings.Join(parts, ", "))
}
func (*FunctionCall) exprNode() {}

type FieldAccess struct {
	Object Expr
	Field  string
	Span_  diag.Span
}

func (n *FieldAccess) Span() diag.Span { return n.Span_ }
func (n *FieldAccess) String() string  { return fmt.Sprintf("%s.%s", n.Object, n.Field) }
func (*FieldAccess) exprNode()         {}

// OptionalAccess is `expr.field ?? fallback`; it may only follow a field
// access per spec §4.2.
type OptionalAccess struct {
	Object   Expr
	Field    string
	Fallback Expr
	Span_    diag.Span
}

func (n *OptionalAccess) Span() diag.Span { return n.Span_ }
func (n *OptionalAccess) String() string {
	return fmt.Sprintf("%s.%s ?? %s", n.Object, n.Field, n.Fallback)
}
func (*OptionalAccess) exprNode() {}

type IndexExpr struct {
	Object Expr
	Index  Expr
	Span_  diag.Span
}

func (n *IndexExpr) Span() diag.Span { return n.Span_ }
func (n *IndexExpr) String() string  { return fmt.Sprintf("%s[%s]", n.Object, n.Index) }
func (*IndexExpr) exprNode()         {}

// ---- composite literals ----

type StructCreation struct {
	TypeName string
	Fields   map[string]Expr
	Order    []string // field names in source order, for deterministic errors
	Span_    diag.Span
}

func (n *StructCreation) Span() diag.Span { return n.Span_ }
func (n *StructCreation) String() string  { return n.TypeName + "{...}" }
func (*StructCreation) exprNode()         {}

type ArrayLiteral struct {
	Elements []Expr
	Span_    diag.Span
}

func (n *ArrayLiteral) Span() diag.Span { return n.Span_ }
func (n *ArrayLiteral) String() string {
	parts := make([]string, len(n.Elements))
	for i, e := range n.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (*ArrayLiteral) exprNode() {}

// MatrixLiteral is an array of row arrays, e.g. [[1,2],[3,4]].
type MatrixLiteral struct {
	Rows  [][]Expr
	Span_ diag.Span
}

func (n *MatrixLiteral) Span() diag.Span { return n.Span_ }
func (n *MatrixLiteral) String() string  { return "[[matrix]]" }
func (*MatrixLiteral) exprNode()         {}

// Generator is one `var in iterable (if guard)?` clause of a comprehension.
type Generator struct {
	Var      string
	Iterable Expr
	Guard    Expr // may be nil
}

// MatrixComprehension is `[expr | gen, gen, ...]`.
type MatrixComprehension struct {
	Element    Expr
	Generators []Generator
	Span_      diag.Span
}

func (n *MatrixComprehension) Span() diag.Span { return n.Span_ }
func (n *MatrixComprehension) String() string  { return "[comprehension]" }
func (*MatrixComprehension) exprNode()         {}

// ---- control flow expressions ----

type IfExpression struct {
	Cond       Expr
	Then       Expr
	Else       Expr // nil if no else branch
	Span_      diag.Span
}

func (n *IfExpression) Span() diag.Span { return n.Span_ }
func (n *IfExpression) String() string  { return fmt.Sprintf("if %s then %s", n.Cond, n.Then) }
func (*IfExpression) exprNode()         {}

type MatchArm struct {
	Pattern Pattern
	Guard   Expr // may be nil
	Body    Expr
}

type Match struct {
	Subject Expr
	Arms    []MatchArm
	Span_   diag.Span
}

func (n *Match) Span() diag.Span { return n.Span_ }
func (n *Match) String() string  { return fmt.Sprintf("match %s {...}", n.Subject) }
func (*Match) exprNode()         {}

type LetBindingExpr struct {
	Name  string
	Value Expr
}

// Let is `let x = v1, y = v2, ...; body`, a local binding expression.
type Let struct {
	Bindings []LetBindingExpr
	Body     Expr
	Span_    diag.Span
}

func (n *Let) Span() diag.Span { return n.Span_ }
func (n *Let) String() string  { return "let ... ; " + n.Body.String() }
func (*Let) exprNode()         {}

type LambdaParam struct {
	Name string
	Type *TypeExpr // may be nil (inferred)
}

type Lambda struct {
	Params []LambdaParam
	Body   Expr
	Span_  diag.Span
}

func (n *Lambda) Span() diag.Span { return n.Span_ }
func (n *Lambda) String() string  { return "lambda" }
func (*Lambda) exprNode()         {}

// Block is `{ stmt; stmt; result? }`.
type Block struct {
	Statements []Stmt
	Result     Expr // may be nil
	Span_      diag.Span
}

func (n *Block) Span() diag.Span { return n.Span_ }
func (n *Block) String() string  { return "{ block }" }
func (*Block) exprNode()         {}

// Parallel is `parallel { e1; e2; ... }`.
type Parallel struct {
	Exprs []Expr
	Span_ diag.Span
}

func (n *Parallel) Span() diag.Span { return n.Span_ }
func (n *Parallel) String() string  { return "parallel {...}" }
func (*Parallel) exprNode()         {}

type Spawn struct {
	Expr  Expr
	Span_ diag.Span
}

func (n *Spawn) Span() diag.Span { return n.Span_ }
func (n *Spawn) String() string  { return "spawn " + n.Expr.String() }
func (*Spawn) exprNode()         {}

type Wait struct {
	Handle Expr
	Span_  diag.Span
}

func (n *Wait) Span() diag.Span { return n.Span_ }
func (n *Wait) String() string  { return "wait " + n.Handle.String() }
func (*Wait) exprNode()         {}

// GpuDirective is `gpu { expr }`, a hint that expr may be offloaded to a
// compute sink; the interpreter guarantees identical results either way.
type GpuDirective struct {
	Kernel string // optional kernel name hint, "" if unspecified
	Body   Expr
	Span_  diag.Span
}

func (n *GpuDirective) Span() diag.Span { return n.Span_ }
func (n *GpuDirective) String() string  { return "gpu {...}" }
func (*GpuDirective) exprNode()         {}

type Range struct {
	Start, End Expr
	Inclusive  bool
	Span_      diag.Span
}

func (n *Range) Span() diag.Span { return n.Span_ }
func (n *Range) String() string {
	op := ".."
	if n.Inclusive {
		op = "..="
	}
	return fmt.Sprintf("%s%s%s", n.Start, op, n.End)
}
func (*Range) exprNode() {}

// ForExpr is `for name in iterable { body }` (Var is a plain identifier,
// `_` included), sugar evaluated the same way a single-generator
// comprehension is driven, but for side effects; it always yields Unit.
// Supplemented per spec.md's own end-to-end scenario #5, which uses this
// construct; see DESIGN.md's Open Question decisions.
type ForExpr struct {
	Var      string
	Iterable Expr
	Body     Expr
	Span_    diag.Span
}

func (n *ForExpr) Span() diag.Span { return n.Span_ }
func (n *ForExpr) String() string  { return fmt.Sprintf("for %s in %s {...}", n.Var, n.Iterable) }
func (*ForExpr) exprNode()         {}
