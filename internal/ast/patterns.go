package ast

import (
	"strings"

	"github.com/dedzsinator/matrixlang/internal/diag"
)

// Pattern is the sum type used by match arms and let-destructuring.
type Pattern interface {
	Node
	patternNode()
}

type WildcardPattern struct{ Span_ diag.Span }

func (n *WildcardPattern) Span() diag.Span { return n.Span_ }
func (n *WildcardPattern) String() string  { return "_" }
func (*WildcardPattern) patternNode()      {}

type IdentPattern struct {
	Name  string
	Span_ diag.Span
}

func (n *IdentPattern) Span() diag.Span { return n.Span_ }
func (n *IdentPattern) String() string  { return n.Name }
func (*IdentPattern) patternNode()      {}

// LiteralPattern matches Int/Float/Bool/String literal values structurally.
type LiteralPattern struct {
	Value Expr // one of IntLiteral/FloatLiteral/BoolLiteral/StringLiteral
	Span_ diag.Span
}

func (n *LiteralPattern) Span() diag.Span { return n.Span_ }
func (n *LiteralPattern) String() string  { return n.Value.String() }
func (*LiteralPattern) patternNode()      {}

// SomePattern matches Option values that are present, binding Inner.
type SomePattern struct {
	Inner Pattern
	Span_ diag.Span
}

func (n *SomePattern) Span() diag.Span { return n.Span_ }
func (n *SomePattern) String() string  { return "Some(" + n.Inner.String() + ")" }
func (*SomePattern) patternNode()      {}

type NonePattern struct{ Span_ diag.Span }

func (n *NonePattern) Span() diag.Span { return n.Span_ }
func (n *NonePattern) String() string  { return "None" }
func (*NonePattern) patternNode()      {}

// StructPattern matches by struct name and recursively on named fields.
type StructPattern struct {
	TypeName string
	Fields   map[string]Pattern
	Span_    diag.Span
}

func (n *StructPattern) Span() diag.Span { return n.Span_ }
func (n *StructPattern) String() string  { return n.TypeName + "{...}" }
func (*StructPattern) patternNode()      {}

// ArrayPattern matches only on equal length with recursive element match.
type ArrayPattern struct {
	Elements []Pattern
	Span_    diag.Span
}

func (n *ArrayPattern) Span() diag.Span { return n.Span_ }
func (n *ArrayPattern) String() string {
	parts := make([]string, len(n.Elements))
	for i, e := range n.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (*ArrayPattern) patternNode() {}
