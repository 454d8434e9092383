package parser

import (
	"github.com/dedzsinator/matrixlang/internal/ast"
	"github.com/dedzsinator/matrixlang/internal/lexer"
)

func (p *Parser) parseItem() ast.Item {
	switch p.cur.Type {
	case lexer.STRUCT:
		return p.parseStructDef()
	case lexer.TYPECLASS:
		return p.parseTypeclassDef()
	case lexer.INSTANCE:
		return p.parseInstanceDef()
	case lexer.FN:
		return p.parseFunctionDef()
	case lexer.LET:
		return p.parseLetItem()
	case lexer.IMPORT:
		return p.parseImport()
	default:
		start := p.cur.Span
		expr := p.parseExpression(precLowest)
		if p.cur.Type == lexer.SEMICOLON {
			p.next()
		}
		return &ast.ExprItem{X: expr, Span_: start}
	}
}

func (p *Parser) parseStructDef() ast.Item {
	start := p.cur.Span
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	name := p.cur.Literal
	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	p.next()
	var fields []ast.StructField
	for p.cur.Type != lexer.RBRACE && p.cur.Type != lexer.EOF {
		if !p.expectCur(lexer.IDENT) {
			return nil
		}
		fname := p.cur.Literal
		optional := false
		if p.peek.Type == lexer.QUESTION2 {
			optional = true
			p.next()
		}
		if !p.expectPeek(lexer.COLON) {
			return nil
		}
		p.next()
		ftype := p.parseTypeExpr()
		fields = append(fields, ast.StructField{Name: fname, Type: ftype, Optional: optional})
		if p.cur.Type == lexer.COMMA {
			p.next()
		}
	}
	p.expectCur(lexer.RBRACE)
	p.next()
	return &ast.StructDef{Name: name, Fields: fields, Span_: start}
}

func (p *Parser) parseTypeclassDef() ast.Item {
	start := p.cur.Span
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	name := p.cur.Literal
	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	p.next()
	var methods []ast.FunctionSig
	for p.cur.Type != lexer.RBRACE && p.cur.Type != lexer.EOF {
		if !p.expectCur(lexer.FN) {
			return nil
		}
		methods = append(methods, p.parseFunctionSig())
		if p.cur.Type == lexer.SEMICOLON {
			p.next()
		}
	}
	p.expectCur(lexer.RBRACE)
	p.next()
	return &ast.TypeclassDef{Name: name, Methods: methods, Span_: start}
}

func (p *Parser) parseFunctionSig() ast.FunctionSig {
	p.next() // consume 'fn'
	name := p.cur.Literal
	p.expectCur(lexer.IDENT)
	params := p.parseParamList()
	var ret *ast.TypeExpr
	if p.cur.Type == lexer.ARROW {
		p.next()
		ret = p.parseTypeExpr()
	}
	return ast.FunctionSig{Name: name, Params: params, Return: ret}
}

func (p *Parser) parseInstanceDef() ast.Item {
	start := p.cur.Span
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	typeclass := p.cur.Literal
	if p.peek.Type == lexer.FOR {
		p.next()
	} else {
		p.errorf(p.peek.Span, "expected 'for', found %s", p.peek.Type)
	}
	p.next()
	forType := p.parseTypeExpr()
	if !p.expectCur(lexer.LBRACE) {
		return nil
	}
	p.next()
	var methods []*ast.FunctionDef
	for p.cur.Type != lexer.RBRACE && p.cur.Type != lexer.EOF {
		if fd, ok := p.parseFunctionDef().(*ast.FunctionDef); ok {
			methods = append(methods, fd)
		}
	}
	p.expectCur(lexer.RBRACE)
	p.next()
	return &ast.InstanceDef{Typeclass: typeclass, ForType: forType, Methods: methods, Span_: start}
}

func (p *Parser) parseParamList() []ast.LambdaParam {
	var params []ast.LambdaParam
	if !p.expectCur(lexer.LPAREN) {
		return params
	}
	p.next()
	for p.cur.Type != lexer.RPAREN && p.cur.Type != lexer.EOF {
		name := p.cur.Literal
		p.expectCur(lexer.IDENT)
		var typ *ast.TypeExpr
		if p.peek.Type == lexer.COLON {
			p.next()
			p.next()
			typ = p.parseTypeExpr()
		} else {
			p.next()
		}
		params = append(params, ast.LambdaParam{Name: name, Type: typ})
		if p.cur.Type == lexer.COMMA {
			p.next()
		}
	}
	p.expectCur(lexer.RPAREN)
	p.next()
	return params
}

func (p *Parser) parseFunctionDef() ast.Item {
	start := p.cur.Span
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	name := p.cur.Literal
	p.next()
	params := p.parseParamList()
	var ret *ast.TypeExpr
	if p.cur.Type == lexer.ARROW {
		p.next()
		ret = p.parseTypeExpr()
	}
	var body ast.Expr
	if p.cur.Type == lexer.ASSIGN {
		p.next()
		body = p.parseExpression(precLowest)
	} else if p.cur.Type == lexer.LBRACE {
		body = p.parseBlock()
	} else {
		p.errorf(p.cur.Span, "expected '=' or '{' to start function body, found %s", p.cur.Type)
	}
	if p.cur.Type == lexer.SEMICOLON {
		p.next()
	}
	return &ast.FunctionDef{Name: name, Params: params, ReturnType: ret, Body: body, Span_: start}
}

func (p *Parser) parseLetItem() ast.Item {
	start := p.cur.Span
	p.next()
	name := p.cur.Literal
	p.expectCur(lexer.IDENT)
	var typ *ast.TypeExpr
	if p.peek.Type == lexer.COLON {
		p.next()
		p.next()
		typ = p.parseTypeExpr()
	} else {
		p.next()
	}
	if !p.expectCur(lexer.ASSIGN) {
		return nil
	}
	p.next()
	value := p.parseExpression(precLowest)
	if p.cur.Type == lexer.SEMICOLON {
		p.next()
	}
	return &ast.LetBinding{Name: name, Type: typ, Value: value, Span_: start}
}

func (p *Parser) parseImport() ast.Item {
	start := p.cur.Span
	p.next()
	path := p.cur.Literal
	if p.cur.Type != lexer.STRING && p.cur.Type != lexer.IDENT {
		p.errorf(p.cur.Span, "expected module path after import, found %s", p.cur.Type)
	}
	p.next()
	if p.cur.Type == lexer.SEMICOLON {
		p.next()
	}
	return &ast.Import{Path: path, Span_: start}
}
