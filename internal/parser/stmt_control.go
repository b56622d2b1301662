package parser

import (
	"tpyparser/internal/ast"
	"tpyparser/internal/diag"
	"tpyparser/internal/source"
	"tpyparser/internal/token"
)

// parseCondition: условие if/elif/while. "if x = 3:" репортится как
// сравнение, записанное через '=', и достраивается до x == 3.
func (p *Parser) parseCondition() ast.ExprID {
	test := p.parseNamedTest()
	if !p.at(token.Assign) {
		return test
	}
	eq := p.advance()
	p.report(diag.SynAssignInCondition, diag.SevError, eq.Span)
	right := p.parseTest()
	sp := p.exprSpan(test).Cover(p.exprSpan(right))
	return p.arenas.Exprs.NewCompare(sp, test, []ast.CompareOp{ast.CmpEq}, []ast.ExprID{right})
}

func (p *Parser) parseIfStmt() ast.StmtID {
	kw := p.advance()
	test := p.parseCondition()
	body := p.parseClause("if")
	return p.parseIfTail(kw.Span, test, body)
}

// parseIfTail: elif превращается во вложенный If в ветке orelse.
func (p *Parser) parseIfTail(start source.Span, test ast.ExprID, body []ast.StmtID) ast.StmtID {
	var orelse []ast.StmtID
	switch {
	case p.at(token.KwElif):
		p.beginStmt()
		kw := p.advance()
		elifTest := p.parseCondition()
		elifBody := p.parseClause("elif")
		orelse = []ast.StmtID{p.parseIfTail(kw.Span, elifTest, elifBody)}
	case p.at(token.KwElse):
		orelse = p.parseElse()
	}
	return p.arenas.Stmts.NewIf(p.spanFrom(start), test, body, orelse)
}

func (p *Parser) parseElse() []ast.StmtID {
	if !p.at(token.KwElse) {
		return nil
	}
	p.beginStmt()
	p.advance()
	return p.parseClause("else")
}

func (p *Parser) parseWhileStmt() ast.StmtID {
	kw := p.advance()
	test := p.parseCondition()
	body := p.parseClause("while")
	orelse := p.parseElse()
	return p.arenas.Stmts.NewWhile(p.spanFrom(kw.Span), test, body, orelse)
}

func (p *Parser) parseForStmt(start source.Span, async bool) ast.StmtID {
	p.advance() // for
	target := p.parseTargetList()
	p.checkTarget(target)
	var iter ast.ExprID
	if _, ok := p.expect(token.KwIn); ok {
		iter = p.parseTestList()
	} else {
		p.skipUntil(token.Colon)
		iter = p.bad()
	}
	body := p.parseClause("for")
	orelse := p.parseElse()
	return p.arenas.Stmts.NewFor(p.spanFrom(start), ast.StmtForData{
		Target: target,
		Iter:   iter,
		Body:   body,
		Orelse: orelse,
		Async:  async,
	})
}

// parseRepeatStmt: "repeat n:" или бесконечный "repeat:".
func (p *Parser) parseRepeatStmt() ast.StmtID {
	kw := p.advance()
	var count ast.ExprID
	if !p.at(token.Colon) && !p.atLineEnd() {
		count = p.parseTest()
	}
	body := p.parseClause("repeat")
	return p.arenas.Stmts.NewRepeat(p.spanFrom(kw.Span), count, body)
}

func (p *Parser) parseTryStmt() ast.StmtID {
	kw := p.advance()
	var data ast.StmtTryData
	data.Body = p.parseClause("try")
	for p.at(token.KwExcept) {
		data.Handlers = append(data.Handlers, p.parseExceptHandler())
	}
	if len(data.Handlers) > 0 {
		data.Orelse = p.parseElse()
	}
	if p.at(token.KwFinally) {
		p.beginStmt()
		p.advance()
		data.Finally = p.parseClause("finally")
	}
	if len(data.Handlers) == 0 && data.Finally == nil {
		p.beginStmt()
		p.report(diag.SynTryWithoutHandler, diag.SevError, kw.Span)
	}
	return p.arenas.Stmts.NewTry(p.spanFrom(kw.Span), data)
}

// parseExceptHandler: except [E [as name]]:: под Python 2 ещё "except E, name".
func (p *Parser) parseExceptHandler() ast.ExceptHandler {
	p.beginStmt()
	kw := p.advance()
	var h ast.ExceptHandler
	if !p.at(token.Colon) && !p.atLineEnd() {
		h.Type = p.parseTest()
		switch {
		case p.at(token.KwAs):
			p.advance()
			h.Name, h.NameSpan, _ = p.parseName()
		case p.at(token.Comma) && p.opts.Dialect.PythonVersion < 3:
			p.advance()
			target := p.parseTest()
			if name, ok := p.arenas.Exprs.Name(target); ok {
				h.Name, h.NameSpan = name.Name, p.exprSpan(target)
			}
		case p.at(token.Comma):
			// except A, B: под Python 3: нужен кортеж
			p.report(diag.SynExpectedToken, diag.SevError, p.peek().Span, ":")
			p.skipUntil(token.Colon)
		}
	}
	h.Body = p.parseClause("except")
	h.Span = p.spanFrom(kw.Span)
	return h
}

func (p *Parser) parseWithStmt(start source.Span, async bool) ast.StmtID {
	p.advance() // with
	var items []ast.WithItem
	for {
		ctx := p.parseTest()
		var target ast.ExprID
		if p.at(token.KwAs) {
			p.advance()
			target = p.parseTargetList()
			p.checkTarget(target)
		}
		items = append(items, ast.WithItem{Context: ctx, Target: target})
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	body := p.parseClause("with")
	return p.arenas.Stmts.NewWith(p.spanFrom(start), items, body, async)
}

// parseAsyncStmt: async def / async for / async with (Python 3).
func (p *Parser) parseAsyncStmt() ast.StmtID {
	kw := p.advance()
	switch p.peek().Kind {
	case token.KwDef:
		return p.parseFuncDef(kw.Span, nil, true)
	case token.KwFor:
		return p.parseForStmt(kw.Span, true)
	case token.KwWith:
		return p.parseWithStmt(kw.Span, true)
	}
	p.unexpected()
	p.skipLine()
	return p.badWithBody(kw.Span)
}

// badWithBody закрывает сломанный заголовок; если за ним идёт блок, он
// разбирается и сохраняется внутри StmtBad.
func (p *Parser) badWithBody(start source.Span) ast.StmtID {
	var body []ast.StmtID
	if p.at(token.Newline) {
		p.advance()
		if p.at(token.Indent) {
			p.advance()
			body = p.parseBlock()
		}
	}
	return p.arenas.Stmts.NewBad(p.spanFrom(start), body)
}
