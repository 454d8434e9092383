// Package ast defines the Matrix Language abstract syntax tree. Every node
// carries the Span it was parsed from.
package ast

import "github.com/dedzsinator/matrixlang/internal/diag"

// Node is the base interface implemented by every AST node.
type Node interface {
	Span() diag.Span
	String() string
}

// Expr is any node that produces a value when evaluated.
type Expr interface {
	Node
	exprNode()
}

// Item is a top-level or block-level declaration (not an expression).
type Item interface {
	Node
	itemNode()
}

// Program is the root of a parsed source file: a sequence of items, the
// last of which may be an expression evaluated for the program's result
// (a script is just a Block without enclosing braces).
type Program struct {
	Items []Item
	Span_ diag.Span
}

func (p *Program) Span() diag.Span { return p.Span_ }
func (p *Program) String() string  { return "Program" }
