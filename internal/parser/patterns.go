package parser

import (
	"github.com/dedzsinator/matrixlang/internal/ast"
	"github.com/dedzsinator/matrixlang/internal/diag"
	"github.com/dedzsinator/matrixlang/internal/lexer"
)

// looksUpperCase reports whether name starts with an uppercase letter,
// the convention this grammar uses to distinguish a struct type name
// (PascalCase) from a plain binding identifier in pattern position.
func looksUpperCase(name string) bool {
	if name == "" {
		return false
	}
	r := name[0]
	return r >= 'A' && r <= 'Z'
}

func (p *Parser) parsePattern() ast.Pattern {
	switch p.cur.Type {
	case lexer.IDENT:
		if p.cur.Literal == "_" {
			span := p.cur.Span
			p.next()
			return &ast.WildcardPattern{Span_: span}
		}
		name := p.cur.Literal
		span := p.cur.Span
		p.next()
		if p.cur.Type == lexer.LBRACE && looksUpperCase(name) {
			return p.parseStructPatternFields(name, span)
		}
		return &ast.IdentPattern{Name: name, Span_: span}
	case lexer.INT:
		lit := p.parseIntLiteral()
		return &ast.LiteralPattern{Value: lit, Span_: lit.Span()}
	case lexer.FLOAT:
		lit := p.parseFloatLiteral()
		return &ast.LiteralPattern{Value: lit, Span_: lit.Span()}
	case lexer.STRING:
		span := p.cur.Span
		lit := &ast.StringLiteral{Value: p.cur.Literal, Span_: span}
		p.next()
		return &ast.LiteralPattern{Value: lit, Span_: span}
	case lexer.TRUE, lexer.FALSE:
		span := p.cur.Span
		lit := &ast.BoolLiteral{Value: p.cur.Type == lexer.TRUE, Span_: span}
		p.next()
		return &ast.LiteralPattern{Value: lit, Span_: span}
	case lexer.SOME:
		start := p.cur.Span
		p.next()
		p.expectCur(lexer.LPAREN)
		p.next()
		inner := p.parsePattern()
		endSpan := p.cur.Span
		p.expectCur(lexer.RPAREN)
		p.next()
		return &ast.SomePattern{Inner: inner, Span_: diag.Join(start, endSpan)}
	case lexer.NONE:
		span := p.cur.Span
		p.next()
		return &ast.NonePattern{Span_: span}
	case lexer.LBRACKET:
		return p.parseArrayPattern()
	default:
		p.errorf(p.cur.Span, "unexpected token %s in pattern", p.cur.Type)
		span := p.cur.Span
		p.next()
		return &ast.WildcardPattern{Span_: span}
	}
}

func (p *Parser) parseArrayPattern() ast.Pattern {
	start := p.cur.Span
	p.next()
	var elems []ast.Pattern
	for p.cur.Type != lexer.RBRACKET && p.cur.Type != lexer.EOF {
		elems = append(elems, p.parsePattern())
		if p.cur.Type == lexer.COMMA {
			p.next()
		}
	}
	endSpan := p.cur.Span
	p.expectCur(lexer.RBRACKET)
	p.next()
	return &ast.ArrayPattern{Elements: elems, Span_: diag.Join(start, endSpan)}
}

// parseStructPatternFields handles `Name{field: pat, ...}` appearing as a
// match pattern; unlike struct *creation*, this path is only reached from
// parsePattern when the parser sees IDENT followed by '{' in pattern
// position: parsePattern's IDENT case above delegates to it for the
// field-list loop.
func (p *Parser) parseStructPatternFields(typeName string, start diag.Span) ast.Pattern {
	p.next() // consume '{'
	fields := map[string]ast.Pattern{}
	for p.cur.Type != lexer.RBRACE && p.cur.Type != lexer.EOF {
		name := p.cur.Literal
		p.expectCur(lexer.IDENT)
		p.next()
		p.expectCur(lexer.COLON)
		p.next()
		fields[name] = p.parsePattern()
		if p.cur.Type == lexer.COMMA {
			p.next()
		}
	}
	endSpan := p.cur.Span
	p.expectCur(lexer.RBRACE)
	p.next()
	return &ast.StructPattern{TypeName: typeName, Fields: fields, Span_: diag.Join(start, endSpan)}
}
