package parser

import (
	"tpyparser/internal/ast"
	"tpyparser/internal/diag"
	"tpyparser/internal/source"
	"tpyparser/internal/token"
)

// parseTestList: список выражений через запятую ("a, *b"), одиночный элемент
// возвращается как есть, иначе Tuple.
func (p *Parser) parseTestList() ast.ExprID {
	return p.parseExprList(true, false)
}

// parseExprList разбирает элементы через запятую. allowStar разрешает *x;
// named разрешает моржовый оператор в элементах.
func (p *Parser) parseExprList(allowStar, named bool) ast.ExprID {
	first := p.parseListItem(allowStar, named)
	if !p.at(token.Comma) {
		if e := p.arenas.Exprs.Get(first); e != nil && e.Kind == ast.ExprStarred {
			p.report(diag.SynStarredNotAllowed, diag.SevError, e.Span)
		}
		return first
	}
	elts := []ast.ExprID{first}
	for p.at(token.Comma) {
		p.advance()
		if !canStartExpr(p.peek().Kind) && !p.at(token.Star) {
			break // висячая запятая
		}
		elts = append(elts, p.parseListItem(allowStar, named))
	}
	sp := p.exprSpan(first).Cover(p.lastSpan)
	return p.arenas.Exprs.NewSeq(ast.ExprTuple, sp, elts)
}

func (p *Parser) parseListItem(allowStar, named bool) ast.ExprID {
	if p.at(token.Star) {
		star := p.advance()
		if !allowStar {
			p.report(diag.SynStarredNotAllowed, diag.SevError, star.Span)
		}
		value := p.parseBinaryExpr(precBitwiseOr)
		return p.arenas.Exprs.NewValue(ast.ExprStarred, star.Span.Cover(p.exprSpan(value)), value)
	}
	if named {
		return p.parseNamedTest()
	}
	return p.parseTest()
}

// parseNamedTest: test с возможным "name := value".
func (p *Parser) parseNamedTest() ast.ExprID {
	if p.at(token.Ident) && p.peekN(1).Kind == token.ColonEq {
		nameTok := p.advance()
		p.advance() // :=
		target := p.arenas.Exprs.NewName(nameTok.Span, nameTok.Text)
		value := p.parseTest()
		return p.arenas.Exprs.NewNamed(nameTok.Span.Cover(p.exprSpan(value)), target, value)
	}
	return p.parseTest()
}

// parseTest: главная точка входа для одного выражения: lambda и тернарный оператор.
func (p *Parser) parseTest() ast.ExprID {
	if !p.enter() {
		p.leave()
		p.skipLine()
		return p.bad()
	}
	defer p.leave()

	if p.at(token.KwLambda) {
		return p.parseLambda(true)
	}
	body := p.parseOr()
	if !p.at(token.KwIf) {
		return body
	}
	p.advance()
	test := p.parseOr()
	var orelse ast.ExprID
	if p.at(token.KwElse) {
		p.advance()
		orelse = p.parseTest()
	} else {
		p.err(diag.SynExpectedToken, "else")
		orelse = p.bad()
	}
	return p.arenas.Exprs.NewTernary(p.exprSpan(body).Cover(p.exprSpan(orelse)), test, body, orelse)
}

// parseTestNoCond: выражение без тернарного оператора (после if в comprehension).
func (p *Parser) parseTestNoCond() ast.ExprID {
	if p.at(token.KwLambda) {
		return p.parseLambda(false)
	}
	return p.parseOr()
}

func (p *Parser) parseLambda(allowCond bool) ast.ExprID {
	kw := p.advance()
	params := p.parseParams(token.Colon, true)
	p.expect(token.Colon)
	var body ast.ExprID
	if allowCond {
		body = p.parseTest()
	} else {
		body = p.parseTestNoCond()
	}
	return p.arenas.Exprs.NewLambda(kw.Span.Cover(p.exprSpan(body)), params, body)
}

func (p *Parser) parseOr() ast.ExprID {
	left := p.parseAnd()
	for p.at(token.KwOr) {
		p.advance()
		right := p.parseAnd()
		left = p.arenas.Exprs.NewBinary(p.exprSpan(left).Cover(p.exprSpan(right)), ast.OpOr, left, right)
	}
	return left
}

func (p *Parser) parseAnd() ast.ExprID {
	left := p.parseNot()
	for p.at(token.KwAnd) {
		p.advance()
		right := p.parseNot()
		left = p.arenas.Exprs.NewBinary(p.exprSpan(left).Cover(p.exprSpan(right)), ast.OpAnd, left, right)
	}
	return left
}

func (p *Parser) parseNot() ast.ExprID {
	if !p.at(token.KwNot) {
		return p.parseComparison()
	}
	if !p.enter() {
		p.leave()
		p.skipLine()
		return p.bad()
	}
	defer p.leave()
	kw := p.advance()
	operand := p.parseNot()
	return p.arenas.Exprs.NewUnary(kw.Span.Cover(p.exprSpan(operand)), ast.OpNot, operand)
}

// parseComparison собирает цепочку сравнений a < b <= c в один узел.
func (p *Parser) parseComparison() ast.ExprID {
	left := p.parseBinaryExpr(precBitwiseOr)
	var (
		ops         []ast.CompareOp
		comparators []ast.ExprID
	)
	for {
		op, n := p.compareOp()
		if n == 0 {
			break
		}
		for range n {
			p.advance()
		}
		ops = append(ops, op)
		comparators = append(comparators, p.parseBinaryExpr(precBitwiseOr))
	}
	if len(ops) == 0 {
		return left
	}
	sp := p.exprSpan(left).Cover(p.exprSpan(comparators[len(comparators)-1]))
	return p.arenas.Exprs.NewCompare(sp, left, ops, comparators)
}

// parseBinaryExpr реализует Pratt parsing для бинарных операторов
// minPrec - минимальный приоритет для текущего уровня
func (p *Parser) parseBinaryExpr(minPrec int) ast.ExprID {
	left := p.parseUnaryExpr()
	for {
		prec := p.getBinaryOperatorPrec(p.peek().Kind)
		if prec < minPrec || prec < 0 {
			break
		}
		opTok := p.advance()
		right := p.parseBinaryExpr(prec + 1)
		finalSpan := p.exprSpan(left).Cover(p.exprSpan(right))
		left = p.arenas.Exprs.NewBinary(finalSpan, binaryOps[opTok.Kind], left, right)
	}
	return left
}

// parseUnaryExpr обрабатывает унарные операторы (префиксы)
func (p *Parser) parseUnaryExpr() ast.ExprID {
	var op ast.UnaryOp
	switch p.peek().Kind {
	case token.Minus:
		op = ast.OpNeg
	case token.Plus:
		op = ast.OpPos
	case token.Tilde:
		op = ast.OpInvert
	default:
		return p.parsePower()
	}
	if !p.enter() {
		p.leave()
		p.skipLine()
		return p.bad()
	}
	defer p.leave()
	opTok := p.advance()
	operand := p.parseUnaryExpr()
	return p.arenas.Exprs.NewUnary(opTok.Span.Cover(p.exprSpan(operand)), op, operand)
}

// parsePower: правоассоциативная степень, -x**2 == -(x**2), x**-1 допустимо.
func (p *Parser) parsePower() ast.ExprID {
	base := p.parseAwait()
	if p.at(token.DoubleStar) || (p.opts.SagePower && p.at(token.Caret)) {
		p.advance()
		exp := p.parseUnaryExpr()
		return p.arenas.Exprs.NewBinary(p.exprSpan(base).Cover(p.exprSpan(exp)), ast.OpPow, base, exp)
	}
	return base
}

func (p *Parser) parseAwait() ast.ExprID {
	if !p.at(token.KwAwait) {
		return p.parsePostfixExpr()
	}
	kw := p.advance()
	value := p.parsePostfixExpr()
	return p.arenas.Exprs.NewValue(ast.ExprAwait, kw.Span.Cover(p.exprSpan(value)), value)
}

// parseYield: "yield", "yield x, y" или "yield from x". Текущий токен: yield.
func (p *Parser) parseYield() ast.ExprID {
	kw := p.advance()
	if p.at(token.KwFrom) {
		p.advance()
		value := p.parseTest()
		return p.arenas.Exprs.NewValue(ast.ExprYieldFrom, kw.Span.Cover(p.exprSpan(value)), value)
	}
	if !canStartExpr(p.peek().Kind) && !p.at(token.Star) {
		return p.arenas.Exprs.NewValue(ast.ExprYield, kw.Span, ast.NoExprID)
	}
	value := p.parseExprList(true, false)
	return p.arenas.Exprs.NewValue(ast.ExprYield, kw.Span.Cover(p.exprSpan(value)), value)
}

// parseTargetList: цели for/comprehension: выражения уровня "|" через запятую,
// чтобы не съесть "in".
func (p *Parser) parseTargetList() ast.ExprID {
	item := func() ast.ExprID {
		if p.at(token.Star) {
			star := p.advance()
			v := p.parseBinaryExpr(precBitwiseOr)
			return p.arenas.Exprs.NewValue(ast.ExprStarred, star.Span.Cover(p.exprSpan(v)), v)
		}
		return p.parseBinaryExpr(precBitwiseOr)
	}
	first := item()
	if !p.at(token.Comma) {
		return first
	}
	elts := []ast.ExprID{first}
	for p.at(token.Comma) {
		p.advance()
		if !canStartExpr(p.peek().Kind) && !p.at(token.Star) {
			break
		}
		elts = append(elts, item())
	}
	return p.arenas.Exprs.NewSeq(ast.ExprTuple, p.exprSpan(first).Cover(p.lastSpan), elts)
}

func (p *Parser) atCompFor() bool {
	return p.at(token.KwFor) || (p.at(token.KwAsync) && p.peekN(1).Kind == token.KwFor)
}

// parseCompClauses: "for x in y if c" (повторяемые).
func (p *Parser) parseCompClauses() []ast.Comprehension {
	var clauses []ast.Comprehension
	for p.atCompFor() {
		async := false
		if p.at(token.KwAsync) {
			p.advance()
			async = true
		}
		p.advance() // for
		target := p.parseTargetList()
		p.checkTarget(target)
		p.expect(token.KwIn)
		iter := p.parseOr()
		var ifs []ast.ExprID
		for p.at(token.KwIf) {
			p.advance()
			ifs = append(ifs, p.parseTestNoCond())
		}
		clauses = append(clauses, ast.Comprehension{Target: target, Iter: iter, Ifs: ifs, Async: async})
	}
	return clauses
}

// missingComma: следующий токен начинает новый элемент, а запятой нет.
func (p *Parser) missingComma() bool {
	if !canStartExpr(p.peek().Kind) && !p.at_or(token.Star, token.DoubleStar) {
		return false
	}
	if p.at(token.Invalid) {
		return false
	}
	p.report(diag.SynMissingComma, diag.SevError, source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.peek().Span.Start})
	return true
}
