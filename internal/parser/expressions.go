package parser

import (
	"strconv"

	"github.com/dedzsinator/matrixlang/internal/ast"
	"github.com/dedzsinator/matrixlang/internal/diag"
	"github.com/dedzsinator/matrixlang/internal/lexer"
)

// parseExpression is the precedence-climbing entry point: it parses a
// prefix term then repeatedly folds in infix/postfix operators whose
// precedence is at least minPrec (spec §4.2 table).
func (p *Parser) parseExpression(minPrec int) ast.Expr {
	left := p.parsePrefix()
	if left == nil {
		return left
	}
	left = p.parsePostfixChain(left)

	for {
		prec, ok := binaryPrecedence[p.cur.Type]
		if !ok || prec < minPrec {
			return left
		}
		op := p.cur
		nextMinPrec := prec + 1 // all binary ops here are left-associative
		p.next()
		right := p.parseExpression(nextMinPrec)
		left = &ast.BinaryOp{Op: op.Literal, Left: left, Right: right, Span_: diag.Join(left.Span(), right.Span())}
		left = p.parsePostfixChain(left)
	}
}

// parsePostfixChain applies call/field/index/transpose/?? postfixes
// (spec precedence level 8) until none apply.
func (p *Parser) parsePostfixChain(left ast.Expr) ast.Expr {
	for {
		switch p.cur.Type {
		case lexer.LPAREN:
			left = p.parseCallArgs(left)
		case lexer.DOT:
			left = p.parseFieldOrOptional(left)
		case lexer.LBRACKET:
			left = p.parseIndex(left)
		case lexer.QUOTE:
			span := diag.Join(left.Span(), p.cur.Span)
			p.next()
			left = &ast.UnaryOp{Op: "'", Operand: left, Span_: span}
		case lexer.LBRACE:
			if p.noStructLiteral > 0 {
				return left
			}
			if id, ok := left.(*ast.Identifier); ok {
				left = p.parseStructCreation(id)
				continue
			}
			return left
		default:
			return left
		}
	}
}

func (p *Parser) parseCallArgs(callee ast.Expr) ast.Expr {
	start := callee.Span()
	p.next() // consume '('
	var args []ast.Expr
	for p.cur.Type != lexer.RPAREN && p.cur.Type != lexer.EOF {
		args = append(args, p.parseExpression(precLowest))
		if p.cur.Type == lexer.COMMA {
			p.next()
		}
	}
	endSpan := p.cur.Span
	p.expectCur(lexer.RPAREN)
	p.next()
	return &ast.FunctionCall{Callee: callee, Args: args, Span_: diag.Join(start, endSpan)}
}

func (p *Parser) parseFieldOrOptional(obj ast.Expr) ast.Expr {
	start := obj.Span()
	p.next() // consume '.'
	field := p.cur.Literal
	p.expectCur(lexer.IDENT)
	p.next()
	if p.cur.Type == lexer.QUESTION2 {
		fbSpan := p.cur.Span
		p.next()
		fallback := p.parseExpression(precPostfix)
		return &ast.OptionalAccess{Object: obj, Field: field, Fallback: fallback, Span_: diag.Join(start, fbSpan)}
	}
	return &ast.FieldAccess{Object: obj, Field: field, Span_: diag.Join(start, obj.Span())}
}

func (p *Parser) parseIndex(obj ast.Expr) ast.Expr {
	start := obj.Span()
	p.next() // consume '['
	idx := p.parseExpression(precLowest)
	endSpan := p.cur.Span
	p.expectCur(lexer.RBRACKET)
	p.next()
	return &ast.IndexExpr{Object: obj, Index: idx, Span_: diag.Join(start, endSpan)}
}

func (p *Parser) parseStructCreation(id *ast.Identifier) ast.Expr {
	start := id.Span()
	p.next() // consume '{'
	fields := map[string]ast.Expr{}
	var order []string
	for p.cur.Type != lexer.RBRACE && p.cur.Type != lexer.EOF {
		name := p.cur.Literal
		p.expectCur(lexer.IDENT)
		p.next()
		p.expectCur(lexer.COLON)
		p.next()
		val := p.parseExpression(precLowest)
		fields[name] = val
		order = append(order, name)
		if p.cur.Type == lexer.COMMA {
			p.next()
		}
	}
	endSpan := p.cur.Span
	p.expectCur(lexer.RBRACE)
	p.next()
	return &ast.StructCreation{TypeName: id.Name, Fields: fields, Order: order, Span_: diag.Join(start, endSpan)}
}

// parsePrefix parses a unary operator or a primary term.
func (p *Parser) parsePrefix() ast.Expr {
	switch p.cur.Type {
	case lexer.MINUS, lexer.BANG:
		op := p.cur
		p.next()
		operand := p.parseExpression(precUnary)
		return &ast.UnaryOp{Op: op.Literal, Operand: operand, Span_: diag.Join(op.Span, operand.Span())}
	default:
		return p.parsePrimary()
	}
}

func (p *Parser) parsePrimary() ast.Expr {
	switch p.cur.Type {
	case lexer.INT:
		return p.parseIntLiteral()
	case lexer.FLOAT:
		return p.parseFloatLiteral()
	case lexer.STRING:
		tok := p.cur
		p.next()
		return &ast.StringLiteral{Value: tok.Literal, Span_: tok.Span}
	case lexer.TRUE, lexer.FALSE:
		tok := p.cur
		p.next()
		return &ast.BoolLiteral{Value: tok.Type == lexer.TRUE, Span_: tok.Span}
	case lexer.IDENT:
		tok := p.cur
		p.next()
		return &ast.Identifier{Name: tok.Literal, Span_: tok.Span}
	case lexer.LPAREN:
		return p.parseParenOrLambda()
	case lexer.LBRACKET:
		return p.parseBracketExpr()
	case lexer.IF:
		return p.parseIf()
	case lexer.MATCH:
		return p.parseMatch()
	case lexer.LET:
		return p.parseLetExpr()
	case lexer.LBRACE:
		return p.parseBlock()
	case lexer.PARALLEL:
		return p.parseParallel()
	case lexer.SPAWN:
		return p.parseSpawn()
	case lexer.WAIT:
		return p.parseWait()
	case lexer.GPU:
		return p.parseGpu()
	case lexer.FOR:
		return p.parseFor()
	case lexer.SOME:
		return p.parseSomeCall()
	case lexer.NONE:
		tok := p.cur
		p.next()
		return &ast.Identifier{Name: "None", Span_: tok.Span}
	default:
		p.errorf(p.cur.Span, "unexpected token %s (%q)", p.cur.Type, p.cur.Literal)
		span := p.cur.Span
		p.next()
		return &ast.Identifier{Name: "<error>", Span_: span}
	}
}

func (p *Parser) parseSomeCall() ast.Expr {
	tok := p.cur
	p.next()
	if p.cur.Type != lexer.LPAREN {
		return &ast.Identifier{Name: "Some", Span_: tok.Span}
	}
	callee := &ast.Identifier{Name: "Some", Span_: tok.Span}
	return p.parseCallArgs(callee)
}

func (p *Parser) parseIntLiteral() ast.Expr {
	tok := p.cur
	v, err := strconv.ParseInt(tok.Literal, 10, 64)
	if err != nil {
		p.errorf(tok.Span, "invalid integer literal %q", tok.Literal)
	}
	p.next()
	return &ast.IntLiteral{Value: v, Span_: tok.Span}
}

func (p *Parser) parseFloatLiteral() ast.Expr {
	tok := p.cur
	v, err := strconv.ParseFloat(tok.Literal, 64)
	if err != nil {
		p.errorf(tok.Span, "invalid float literal %q", tok.Literal)
	}
	p.next()
	return &ast.FloatLiteral{Value: v, Span_: tok.Span}
}

// parseParenOrLambda disambiguates `(expr)`, `(a: T, b: T) => body`, and
// `(a, b) => body` by scanning ahead for a matching ')' followed by '=>'.
func (p *Parser) parseParenOrLambda() ast.Expr {
	if p.looksLikeLambdaParams() {
		return p.parseLambda()
	}
	start := p.cur.Span
	p.next() // consume '('
	inner := p.parseExpression(precLowest)
	endSpan := p.cur.Span
	p.expectCur(lexer.RPAREN)
	p.next()
	_ = start
	_ = endSpan
	return inner
}

// looksLikeLambdaParams scans forward from the current '(' to its
// matching ')' using the buffered token cursor (no AST built, no errors
// recorded) and reports whether that ')' is followed by '=>' or '->', the
// only two ways a lambda parameter list can continue.
func (p *Parser) looksLikeLambdaParams() bool {
	depth := 0
	i := 0
	for {
		tok := p.PeekN(i)
		if tok.Type == lexer.EOF {
			return false
		}
		if tok.Type == lexer.LPAREN {
			depth++
		} else if tok.Type == lexer.RPAREN {
			depth--
			if depth == 0 {
				after := p.PeekN(i + 1)
				return after.Type == lexer.FATARROW || after.Type == lexer.ARROW
			}
		}
		i++
	}
}

func (p *Parser) parseLambda() ast.Expr {
	start := p.cur.Span
	params := p.parseParamList()
	if p.cur.Type == lexer.FATARROW {
		p.next()
	} else if p.cur.Type == lexer.ARROW {
		p.next()
	} else {
		p.errorf(p.cur.Span, "expected '=>' or '->' in lambda, found %s", p.cur.Type)
	}
	body := p.parseExpression(precLowest)
	return &ast.Lambda{Params: params, Body: body, Span_: diag.Join(start, body.Span())}
}

// parseBracketExpr parses `[a, b, c]`, `[[1,2],[3,4]]`, a Range `a..b`, or
// a comprehension `[expr | gen, ...]`.
func (p *Parser) parseBracketExpr() ast.Expr {
	start := p.cur.Span
	p.next() // consume '['
	if p.cur.Type == lexer.RBRACKET {
		p.next()
		return &ast.ArrayLiteral{Span_: start}
	}

	first := p.parseExpression(precLowest)

	if p.cur.Type == lexer.PIPE {
		return p.parseComprehension(start, first)
	}

	if p.cur.Type == lexer.DOTDOT || p.cur.Type == lexer.DOTDOTEQ {
		inclusive := p.cur.Type == lexer.DOTDOTEQ
		p.next()
		end := p.parseExpression(precLowest)
		endSpan := p.cur.Span
		p.expectCur(lexer.RBRACKET)
		p.next()
		return &ast.Range{Start: first, End: end, Inclusive: inclusive, Span_: diag.Join(start, endSpan)}
	}

	if _, isRow := first.(*ast.ArrayLiteral); isRow && p.cur.Type == lexer.COMMA {
		return p.parseMatrixLiteral(start, first)
	}

	elements := []ast.Expr{first}
	for p.cur.Type == lexer.COMMA {
		p.next()
		if p.cur.Type == lexer.RBRACKET {
			break
		}
		elements = append(elements, p.parseExpression(precLowest))
	}
	endSpan := p.cur.Span
	p.expectCur(lexer.RBRACKET)
	p.next()
	return &ast.ArrayLiteral{Elements: elements, Span_: diag.Join(start, endSpan)}
}

func (p *Parser) parseMatrixLiteral(start diag.Span, firstRow ast.Expr) ast.Expr {
	rows := [][]ast.Expr{firstRow.(*ast.ArrayLiteral).Elements}
	for p.cur.Type == lexer.COMMA {
		p.next()
		if p.cur.Type == lexer.RBRACKET {
			break
		}
		row := p.parseExpression(precLowest)
		arr, ok := row.(*ast.ArrayLiteral)
		if !ok {
			p.errorf(row.Span(), "matrix rows must all be array literals")
			continue
		}
		rows = append(rows, arr.Elements)
	}
	endSpan := p.cur.Span
	p.expectCur(lexer.RBRACKET)
	p.next()
	return &ast.MatrixLiteral{Rows: rows, Span_: diag.Join(start, endSpan)}
}

// parseComprehension parses the `| gen (if guard)?, gen, ...` tail of
// `[expr | var in iter (if guard)?, ...]`, iterating every generator in
// source order (spec §4.4, §9 open question resolution).
func (p *Parser) parseComprehension(start diag.Span, element ast.Expr) ast.Expr {
	p.next() // consume '|'
	var gens []ast.Generator
	for {
		name := p.cur.Literal
		p.expectCur(lexer.IDENT)
		p.next()
		p.expectCur(lexer.IN)
		p.next()
		p.noStructLiteral++
		iter := p.parseExpression(precLowest)
		p.noStructLiteral--
		var guard ast.Expr
		if p.cur.Type == lexer.IF {
			p.next()
			guard = p.parseExpression(precLowest)
		}
		gens = append(gens, ast.Generator{Var: name, Iterable: iter, Guard: guard})
		if p.cur.Type == lexer.COMMA {
			p.next()
			continue
		}
		break
	}
	endSpan := p.cur.Span
	p.expectCur(lexer.RBRACKET)
	p.next()
	return &ast.MatrixComprehension{Element: element, Generators: gens, Span_: diag.Join(start, endSpan)}
}

func (p *Parser) parseIf() ast.Expr {
	start := p.cur.Span
	p.next()
	p.noStructLiteral++
	cond := p.parseExpression(precLowest)
	p.noStructLiteral--
	then := p.parseBlock()
	var els ast.Expr
	if p.cur.Type == lexer.ELSE {
		p.next()
		if p.cur.Type == lexer.IF {
			els = p.parseIf()
		} else {
			els = p.parseBlock()
		}
	}
	endSpan := then.Span()
	if els != nil {
		endSpan = els.Span()
	}
	return &ast.IfExpression{Cond: cond, Then: then, Else: els, Span_: diag.Join(start, endSpan)}
}

func (p *Parser) parseMatch() ast.Expr {
	start := p.cur.Span
	p.next()
	p.noStructLiteral++
	subject := p.parseExpression(precLowest)
	p.noStructLiteral--
	if !p.expectCur(lexer.LBRACE) {
		return &ast.Match{Subject: subject, Span_: start}
	}
	p.next()
	var arms []ast.MatchArm
	for p.cur.Type != lexer.RBRACE && p.cur.Type != lexer.EOF {
		pat := p.parsePattern()
		var guard ast.Expr
		if p.cur.Type == lexer.IF {
			p.next()
			guard = p.parseExpression(precLowest)
		}
		p.expectCur(lexer.FATARROW)
		p.next()
		body := p.parseExpression(precLowest)
		arms = append(arms, ast.MatchArm{Pattern: pat, Guard: guard, Body: body})
		if p.cur.Type == lexer.COMMA {
			p.next()
		}
	}
	endSpan := p.cur.Span
	p.expectCur(lexer.RBRACE)
	p.next()
	return &ast.Match{Subject: subject, Arms: arms, Span_: diag.Join(start, endSpan)}
}

func (p *Parser) parseLetExpr() ast.Expr {
	start := p.cur.Span
	p.next()
	var bindings []ast.LetBindingExpr
	for {
		name := p.cur.Literal
		p.expectCur(lexer.IDENT)
		p.next()
		if p.cur.Type == lexer.COLON {
			p.next()
			p.parseTypeExpr()
		}
		p.expectCur(lexer.ASSIGN)
		p.next()
		val := p.parseExpression(precLowest)
		bindings = append(bindings, ast.LetBindingExpr{Name: name, Value: val})
		if p.cur.Type == lexer.COMMA {
			p.next()
			continue
		}
		break
	}
	if p.cur.Type == lexer.SEMICOLON {
		p.next()
	}
	body := p.parseExpression(precLowest)
	return &ast.Let{Bindings: bindings, Body: body, Span_: diag.Join(start, body.Span())}
}

// parseBlock parses `{ stmt; stmt; result? }`. A trailing expression with
// no semicolon is the block's result; everything else is a Stmt.
func (p *Parser) parseBlock() *ast.Block {
	start := p.cur.Span
	if !p.expectCur(lexer.LBRACE) {
		return &ast.Block{Span_: start}
	}
	p.next()
	blk := &ast.Block{Span_: start}
	for p.cur.Type != lexer.RBRACE && p.cur.Type != lexer.EOF {
		stmt, isResult := p.parseBlockStmt()
		if isResult {
			blk.Result = stmt.(*ast.ExprStmt).X
			break
		}
		blk.Statements = append(blk.Statements, stmt)
	}
	endSpan := p.cur.Span
	p.expectCur(lexer.RBRACE)
	p.next()
	blk.Span_ = diag.Join(start, endSpan)
	return blk
}

func (p *Parser) parseBlockStmt() (ast.Stmt, bool) {
	start := p.cur.Span
	if p.cur.Type == lexer.LET {
		p.next()
		name := p.cur.Literal
		p.expectCur(lexer.IDENT)
		p.next()
		var typ *ast.TypeExpr
		if p.cur.Type == lexer.COLON {
			p.next()
			typ = p.parseTypeExpr()
		}
		p.expectCur(lexer.ASSIGN)
		p.next()
		val := p.parseExpression(precLowest)
		if p.cur.Type == lexer.SEMICOLON {
			p.next()
		}
		return &ast.LetStmt{Name: name, Type: typ, Value: val, Span_: diag.Join(start, val.Span())}, false
	}

	expr := p.parseExpression(precLowest)

	if p.cur.Type == lexer.ASSIGN {
		p.next()
		val := p.parseExpression(precLowest)
		if p.cur.Type == lexer.SEMICOLON {
			p.next()
		}
		return &ast.AssignStmt{Target: expr, Value: val, Span_: diag.Join(start, val.Span())}, false
	}

	if p.cur.Type == lexer.SEMICOLON {
		p.next()
		return &ast.ExprStmt{X: expr, Span_: diag.Join(start, expr.Span())}, false
	}
	// No semicolon: treat the expression as the block's trailing result.
	return &ast.ExprStmt{X: expr, Span_: diag.Join(start, expr.Span())}, true
}

func (p *Parser) parseParallel() ast.Expr {
	start := p.cur.Span
	p.next()
	if !p.expectCur(lexer.LBRACE) {
		return &ast.Parallel{Span_: start}
	}
	p.next()
	var exprs []ast.Expr
	for p.cur.Type != lexer.RBRACE && p.cur.Type != lexer.EOF {
		exprs = append(exprs, p.parseExpression(precLowest))
		if p.cur.Type == lexer.SEMICOLON {
			p.next()
		}
	}
	endSpan := p.cur.Span
	p.expectCur(lexer.RBRACE)
	p.next()
	return &ast.Parallel{Exprs: exprs, Span_: diag.Join(start, endSpan)}
}

func (p *Parser) parseSpawn() ast.Expr {
	start := p.cur.Span
	p.next()
	e := p.parseExpression(precUnary)
	return &ast.Spawn{Expr: e, Span_: diag.Join(start, e.Span())}
}

func (p *Parser) parseWait() ast.Expr {
	start := p.cur.Span
	p.next()
	e := p.parseExpression(precUnary)
	return &ast.Wait{Handle: e, Span_: diag.Join(start, e.Span())}
}

func (p *Parser) parseGpu() ast.Expr {
	start := p.cur.Span
	p.next()
	kernel := ""
	if p.cur.Type == lexer.LPAREN {
		p.next()
		if p.cur.Type == lexer.STRING {
			kernel = p.cur.Literal
			p.next()
		}
		p.expectCur(lexer.RPAREN)
		p.next()
	}
	body := p.parseBlock()
	return &ast.GpuDirective{Kernel: kernel, Body: body, Span_: diag.Join(start, body.Span())}
}

func (p *Parser) parseFor() ast.Expr {
	start := p.cur.Span
	p.next()
	name := p.cur.Literal
	p.expectCur(lexer.IDENT)
	p.next()
	p.expectCur(lexer.IN)
	p.next()
	p.noStructLiteral++
	iter := p.parseExpression(precLowest)
	if p.cur.Type == lexer.DOTDOT || p.cur.Type == lexer.DOTDOTEQ {
		inclusive := p.cur.Type == lexer.DOTDOTEQ
		p.next()
		end := p.parseExpression(precLowest)
		iter = &ast.Range{Start: iter, End: end, Inclusive: inclusive, Span_: diag.Join(iter.Span(), end.Span())}
	}
	p.noStructLiteral--
	body := p.parseBlock()
	return &ast.ForExpr{Var: name, Iterable: iter, Body: body, Span_: diag.Join(start, body.Span())}
}
