// Package parser builds the Matrix Language AST via recursive descent with
// precedence climbing for binary operators, over a buffered, backtrackable
// token cursor.
package parser

import (
	"github.com/dedzsinator/matrixlang/internal/ast"
	"github.com/dedzsinator/matrixlang/internal/diag"
	"github.com/dedzsinator/matrixlang/internal/lexer"
)

// precedence levels, low to high, matching spec §4.2's table.
const (
	_ int = iota
	precLowest
	precOr        // ||
	precAnd       // &&
	precEquality  // == !=
	precRelational // < <= > >=
	precAdditive  // + -
	precMultiplicative // * / % ^
	precUnary     // unary - ! '
	precPostfix   // call . [] ?? struct-init
)

var binaryPrecedence = map[lexer.TokenType]int{
	lexer.OR:      precOr,
	lexer.AND:     precAnd,
	lexer.EQ:      precEquality,
	lexer.NEQ:     precEquality,
	lexer.LT:      precRelational,
	lexer.LE:      precRelational,
	lexer.GT:      precRelational,
	lexer.GE:      precRelational,
	lexer.PLUS:    precAdditive,
	lexer.MINUS:   precAdditive,
	lexer.STAR:    precMultiplicative,
	lexer.SLASH:   precMultiplicative,
	lexer.PERCENT: precMultiplicative,
	lexer.CARET:   precMultiplicative,
}

// Parser consumes tokens from a Lexer and builds an AST, accumulating
// structured errors instead of panicking (spec §4.2 error policy). Tokens
// are buffered so the parser can look arbitrarily far ahead and backtrack,
// the same capability the teacher's TokenCursor provides over its lexer.
type Parser struct {
	l      *lexer.Lexer
	tokens []lexer.Token // buffered tokens, grown lazily
	index  int           // position of `cur` within tokens
	cur    lexer.Token
	peek   lexer.Token

	errors []*diag.Error

	// noStructLiteral suppresses parsing `{` immediately after a primary
	// identifier as a struct-init postfix, used while parsing the
	// condition/iterable of if/match/for so that the following block is
	// never swallowed as a struct literal body.
	noStructLiteral int
}

// New creates a Parser reading tokens from l.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	p.tokens = append(p.tokens, l.NextToken())
	p.cur = p.tokens[0]
	p.peek = p.peekAt(1)
	return p
}

// peekAt ensures tokens up to index n are buffered and returns tokens[n].
func (p *Parser) peekAt(n int) lexer.Token {
	for len(p.tokens) <= n {
		p.tokens = append(p.tokens, p.l.NextToken())
	}
	return p.tokens[n]
}

// PeekN returns the token n positions ahead of cur (PeekN(0) == cur).
func (p *Parser) PeekN(n int) lexer.Token {
	return p.peekAt(p.index + n)
}

// mark returns a position that can later be passed to reset to backtrack.
func (p *Parser) mark() int { return p.index }

func (p *Parser) reset(pos int) {
	p.index = pos
	p.cur = p.tokens[p.index]
	p.peek = p.peekAt(p.index + 1)
}

func (p *Parser) next() {
	p.index++
	p.cur = p.peekAt(p.index)
	p.peek = p.peekAt(p.index + 1)
}

func (p *Parser) Errors() []*diag.Error { return p.errors }

func (p *Parser) errorf(span diag.Span, format string, args ...any) {
	p.errors = append(p.errors, diag.New(diag.KindParse, span, format, args...))
}

func (p *Parser) expectPeek(t lexer.TokenType) bool {
	if p.peek.Type == t {
		p.next()
		return true
	}
	p.errorf(p.peek.Span, "expected %s, found %s (%q)", t, p.peek.Type, p.peek.Literal)
	return false
}

func (p *Parser) expectCur(t lexer.TokenType) bool {
	if p.cur.Type == t {
		return true
	}
	p.errorf(p.cur.Span, "expected %s, found %s (%q)", t, p.cur.Type, p.cur.Literal)
	return false
}

// ParseProgram parses the entire token stream into a Program, resynchronizing
// at top-level item boundaries on error (spec §4.2).
func (p *Parser) ParseProgram() *ast.Program {
	start := p.cur.Span
	prog := &ast.Program{}
	for p.cur.Type != lexer.EOF {
		before := len(p.errors)
		item := p.parseItem()
		if item != nil {
			prog.Items = append(prog.Items, item)
		}
		if len(p.errors) > before {
			p.synchronize()
		}
	}
	prog.Span_ = diag.Join(start, p.cur.Span)
	return prog
}

// synchronize skips tokens until a likely item boundary (SEMICOLON, or a
// keyword that starts a new item) so one malformed item doesn't prevent
// the parser from reporting errors in the rest of the file.
func (p *Parser) synchronize() {
	for p.cur.Type != lexer.EOF {
		if p.cur.Type == lexer.SEMICOLON {
			p.next()
			return
		}
		switch p.cur.Type {
		case lexer.LET, lexer.FN, lexer.STRUCT, lexer.TYPECLASS, lexer.INSTANCE, lexer.IMPORT:
			return
		}
		p.next()
	}
}
