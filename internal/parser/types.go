package parser

import (
	"strconv"

	"github.com/dedzsinator/matrixlang/internal/ast"
	"github.com/dedzsinator/matrixlang/internal/lexer"
)

// parseTypeExpr parses a type annotation: a bare name, a generic
// application `Name<Arg, ...>`, a Matrix with optional literal dimensions
// `Matrix<Float, 3, 3>`, or a function type `(T, T) -> T`.
func (p *Parser) parseTypeExpr() *ast.TypeExpr {
	start := p.cur.Span

	if p.cur.Type == lexer.LPAREN {
		p.next()
		var params []*ast.TypeExpr
		for p.cur.Type != lexer.RPAREN && p.cur.Type != lexer.EOF {
			params = append(params, p.parseTypeExpr())
			if p.cur.Type == lexer.COMMA {
				p.next()
			}
		}
		p.expectCur(lexer.RPAREN)
		p.next()
		p.expectCur(lexer.ARROW)
		p.next()
		ret := p.parseTypeExpr()
		return &ast.TypeExpr{Name: "Function", Params: params, Return: ret, Span_: start}
	}

	name := p.cur.Literal
	if !p.expectCur(lexer.IDENT) {
		p.next()
		return &ast.TypeExpr{Name: "Unit", Span_: start}
	}
	p.next()

	te := &ast.TypeExpr{Name: name, Span_: start}
	if p.cur.Type == lexer.LT {
		p.next()
		if name == "Matrix" {
			te.Args = append(te.Args, p.parseTypeExpr())
			if p.cur.Type == lexer.COMMA {
				p.next()
				te.Rows = p.parseOptionalDim()
			}
			if p.cur.Type == lexer.COMMA {
				p.next()
				te.Cols = p.parseOptionalDim()
			}
		} else {
			for p.cur.Type != lexer.GT && p.cur.Type != lexer.EOF {
				te.Args = append(te.Args, p.parseTypeExpr())
				if p.cur.Type == lexer.COMMA {
					p.next()
				}
			}
		}
		p.expectCur(lexer.GT)
		p.next()
	}
	return te
}

func (p *Parser) parseOptionalDim() *int {
	if p.cur.Type == lexer.IDENT && p.cur.Literal == "_" {
		p.next()
		return nil
	}
	if p.cur.Type == lexer.INT {
		v, _ := strconv.Atoi(p.cur.Literal)
		p.next()
		return &v
	}
	return nil
}
