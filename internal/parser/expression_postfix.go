package parser

import (
	"tpyparser/internal/ast"
	"tpyparser/internal/diag"
	"tpyparser/internal/source"
	"tpyparser/internal/token"
)

// parsePostfixExpr обрабатывает постфиксные операторы: .attr, (args), [index].
func (p *Parser) parsePostfixExpr() ast.ExprID {
	expr := p.parsePrimaryExpr()
	for {
		switch p.peek().Kind {
		case token.Dot:
			expr = p.parseAttribute(expr)
		case token.LParen:
			expr = p.parseCall(expr)
		case token.LBracket:
			expr = p.parseSubscript(expr)
		default:
			return expr
		}
	}
}

// parseAttribute: после точки имя может ещё не быть набрано ("math."),
// тогда атрибут остаётся пустым: автодополнению этого достаточно.
func (p *Parser) parseAttribute(value ast.ExprID) ast.ExprID {
	dot := p.advance()
	tok := p.peek()
	switch {
	case tok.Kind == token.Ident:
		p.advance()
		return p.arenas.Exprs.NewAttribute(p.exprSpan(value).Cover(tok.Span), value, tok.Text, tok.Span)
	case tok.Kind.IsKeyword():
		p.report(diag.SynKeywordAsName, diag.SevError, tok.Span, tok.Text)
		p.advance()
		return p.arenas.Exprs.NewAttribute(p.exprSpan(value).Cover(tok.Span), value, tok.Text, tok.Span)
	}
	p.err(diag.SynExpectedName)
	return p.arenas.Exprs.NewAttribute(p.exprSpan(value).Cover(dot.Span), value, "", dot.Span.At())
}

func (p *Parser) parseCall(fn ast.ExprID) ast.ExprID {
	if !p.enter() {
		p.leave()
		p.skipLine()
		return fn
	}
	defer p.leave()

	open := p.advance()
	var args []ast.Arg
	for !p.at(token.RParen) && !p.atLineEnd() {
		arg, ok := p.parseArg()
		if !ok {
			break
		}
		if arg.Kind == ast.ArgPositional && p.atCompFor() {
			// f(x for x in y): генератор как единственный аргумент
			clauses := p.parseCompClauses()
			gen := p.arenas.Exprs.NewComp(ast.ExprGenerator, arg.Span.Cover(p.lastSpan), arg.Value, ast.NoExprID, clauses)
			arg.Value, arg.Span = gen, p.exprSpan(gen)
		}
		args = append(args, arg)
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		if p.at(token.RParen) || !p.missingComma() {
			break
		}
	}
	end := p.closeBracket(open)
	return p.arenas.Exprs.NewCall(p.exprSpan(fn).Cover(end), fn, args)
}

func (p *Parser) parseArg() (ast.Arg, bool) {
	tok := p.peek()
	switch {
	case tok.Kind == token.Star:
		p.advance()
		v := p.parseTest()
		return ast.Arg{Kind: ast.ArgStar, Value: v, Span: tok.Span.Cover(p.exprSpan(v))}, true
	case tok.Kind == token.DoubleStar:
		p.advance()
		v := p.parseTest()
		return ast.Arg{Kind: ast.ArgDoubleStar, Value: v, Span: tok.Span.Cover(p.exprSpan(v))}, true
	case (tok.Kind == token.Ident || tok.Kind.IsKeyword()) && p.peekN(1).Kind == token.Assign:
		if tok.Kind != token.Ident {
			p.report(diag.SynKeywordAsName, diag.SevError, tok.Span, tok.Text)
		}
		p.advance()
		p.advance() // =
		v := p.parseTest()
		return ast.Arg{Kind: ast.ArgKeyword, Name: tok.Text, Value: v, Span: tok.Span.Cover(p.exprSpan(v))}, true
	case !canStartExpr(tok.Kind):
		return ast.Arg{}, false
	}
	v := p.parseNamedTest()
	if p.at(token.Assign) {
		// f(a.b=1): присваивание там, где ждали выражение
		p.report(diag.SynAssignInCondition, diag.SevError, p.peek().Span)
		p.advance()
		p.parseTest()
	}
	return ast.Arg{Kind: ast.ArgPositional, Value: v, Span: p.exprSpan(v)}, true
}

func (p *Parser) parseSubscript(value ast.ExprID) ast.ExprID {
	if !p.enter() {
		p.leave()
		p.skipLine()
		return value
	}
	defer p.leave()

	open := p.advance()
	var index ast.ExprID
	if p.at(token.RBracket) {
		p.err(diag.SynExpectedExpr)
		index = p.bad()
	} else {
		index = p.parseSliceList()
	}
	end := p.closeBracket(open)
	return p.arenas.Exprs.NewSubscript(p.exprSpan(value).Cover(end), value, index)
}

func (p *Parser) parseSliceList() ast.ExprID {
	first := p.parseSliceItem()
	if !p.at(token.Comma) {
		return first
	}
	elts := []ast.ExprID{first}
	for p.at(token.Comma) {
		p.advance()
		if p.at(token.RBracket) || p.atLineEnd() {
			break
		}
		elts = append(elts, p.parseSliceItem())
	}
	return p.arenas.Exprs.NewSeq(ast.ExprTuple, p.exprSpan(first).Cover(p.lastSpan), elts)
}

func (p *Parser) parseSliceItem() ast.ExprID {
	start := p.peek().Span
	var lower ast.ExprID
	if !p.at(token.Colon) {
		lower = p.parseListItem(true, true)
		if !p.at(token.Colon) {
			return lower
		}
	}
	p.advance() // :
	sliceEnd := func() bool {
		return p.at_or(token.Colon, token.Comma, token.RBracket) || p.atLineEnd()
	}
	var upper, step ast.ExprID
	if !sliceEnd() {
		upper = p.parseTest()
	}
	if p.at(token.Colon) {
		p.advance()
		if !sliceEnd() {
			step = p.parseTest()
		}
	}
	sp := source.Span{File: start.File, Start: start.Start, End: p.lastSpan.End}
	return p.arenas.Exprs.NewSlice(sp, lower, upper, step)
}
