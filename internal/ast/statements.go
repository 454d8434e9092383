package ast

import "github.com/dedzsinator/matrixlang/internal/diag"

// Stmt is a statement inside a Block: either a bare expression evaluated
// for effect, or a local LetBinding item.
type Stmt interface {
	Node
	stmtNode()
}

// ExprStmt wraps an expression used as a statement (its value is discarded
// unless it is the block's trailing result, which the parser represents
// separately via Block.Result).
type ExprStmt struct {
	X     Expr
	Span_ diag.Span
}

func (n *ExprStmt) Span() diag.Span { return n.Span_ }
func (n *ExprStmt) String() string  { return n.X.String() + ";" }
func (*ExprStmt) stmtNode()         {}

// LetStmt is a `let name = value;` statement inside a block (as distinct
// from the Let *expression* form `let x = v; body`).
type LetStmt struct {
	Name  string
	Type  *TypeExpr // optional annotation
	Value Expr
	Span_ diag.Span
}

func (n *LetStmt) Span() diag.Span { return n.Span_ }
func (n *LetStmt) String() string  { return "let " + n.Name + " = " + n.Value.String() + ";" }
func (*LetStmt) stmtNode()         {}

// AssignStmt is `target = value;`, a mutation of an existing binding
// (Environment.assign, not a new definition).
type AssignStmt struct {
	Target Expr // Identifier, FieldAccess, or IndexExpr
	Value  Expr
	Span_  diag.Span
}

func (n *AssignStmt) Span() diag.Span { return n.Span_ }
func (n *AssignStmt) String() string  { return n.Target.String() + " = " + n.Value.String() + ";" }
func (*AssignStmt) stmtNode()         {}
