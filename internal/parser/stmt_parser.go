package parser

import (
	"tpyparser/internal/ast"
	"tpyparser/internal/diag"
	"tpyparser/internal/source"
	"tpyparser/internal/token"
)

// parseStatement выбирает по первому токену нужный распознаватель.
func (p *Parser) parseStatement() []ast.StmtID {
	p.beginStmt()
	tok := p.peek()
	switch tok.Kind {
	case token.KwIf:
		return p.one(p.parseIfStmt())
	case token.KwWhile:
		return p.one(p.parseWhileStmt())
	case token.KwFor:
		return p.one(p.parseForStmt(tok.Span, false))
	case token.KwTry:
		return p.one(p.parseTryStmt())
	case token.KwWith:
		return p.one(p.parseWithStmt(tok.Span, false))
	case token.KwDef:
		return p.one(p.parseFuncDef(tok.Span, nil, false))
	case token.KwClass:
		return p.one(p.parseClassDef(tok.Span, nil))
	case token.At:
		return p.one(p.parseDecorated())
	case token.KwRepeat:
		return p.one(p.parseRepeatStmt())
	case token.KwAsync:
		return p.one(p.parseAsyncStmt())
	case token.KwElif, token.KwElse, token.KwExcept, token.KwFinally:
		return p.one(p.parseOrphanClause())
	case token.Ident:
		if tok.Text == "match" && p.looksLikeMatch() {
			return p.one(p.parseMatchStmt())
		}
	}
	return p.parseSimpleLine()
}

func (p *Parser) one(id ast.StmtID) []ast.StmtID {
	if !id.IsValid() {
		return nil
	}
	return []ast.StmtID{id}
}

// parseSimpleLine: простые операторы через ';' до конца логической строки.
// После ошибки пропускаем хвост строки; если дальше идёт отступ, тело
// разбирается и прицепляется к StmtBad, чтобы вложенные операторы сохранились.
func (p *Parser) parseSimpleLine() []ast.StmtID {
	start := p.peek().Span
	var out []ast.StmtID
	for {
		out = append(out, p.parseSimpleStmt())
		if !p.at(token.Semicolon) {
			break
		}
		p.advance()
		if p.atLineEnd() {
			break
		}
		p.beginStmtKeepFailed()
	}
	if !p.atLineEnd() {
		p.unexpected()
		p.skipLine()
	}
	failed := p.failed
	if p.at(token.Newline) {
		p.advance()
	}
	if failed && p.at(token.Indent) {
		p.advance()
		body := p.parseBlock()
		out = append(out, p.arenas.Stmts.NewBad(start.Cover(p.lastSpan), body))
	}
	return out
}

// beginStmtKeepFailed: следующий оператор в той же строке после ';'.
func (p *Parser) beginStmtKeepFailed() {
	if !p.failed {
		p.stmtStart = p.peek().Span.Start
	}
}

func (p *Parser) parseSimpleStmt() ast.StmtID {
	tok := p.peek()
	switch tok.Kind {
	case token.KwPass:
		p.advance()
		return p.arenas.Stmts.New(ast.StmtPass, tok.Span)
	case token.KwBreak:
		p.advance()
		return p.arenas.Stmts.New(ast.StmtBreak, tok.Span)
	case token.KwContinue:
		p.advance()
		return p.arenas.Stmts.New(ast.StmtContinue, tok.Span)
	case token.KwReturn:
		p.advance()
		var value ast.ExprID
		if canStartExpr(p.peek().Kind) || p.at(token.Star) {
			value = p.parseTestList()
		}
		return p.arenas.Stmts.NewValue(ast.StmtReturn, p.spanFrom(tok.Span), value)
	case token.KwRaise:
		return p.parseRaise()
	case token.KwGlobal, token.KwNonlocal:
		return p.parseNamesDecl()
	case token.KwDel:
		p.advance()
		targets := p.parseTargetList()
		var list []ast.ExprID
		if seq, ok := p.arenas.Exprs.Seq(targets); ok && p.arenas.Exprs.Get(targets).Kind == ast.ExprTuple {
			list = seq.Elts
		} else {
			list = []ast.ExprID{targets}
		}
		for _, t := range list {
			p.checkTarget(t)
		}
		return p.arenas.Stmts.NewDel(p.spanFrom(tok.Span), list)
	case token.KwAssert:
		p.advance()
		test := p.parseTest()
		var msg ast.ExprID
		if p.at(token.Comma) {
			p.advance()
			msg = p.parseTest()
		}
		return p.arenas.Stmts.NewAssert(p.spanFrom(tok.Span), test, msg)
	case token.KwImport:
		return p.parseImport()
	case token.KwFrom:
		return p.parseImportFrom()
	case token.KwPrint:
		return p.parsePrintStmt()
	case token.KwExec:
		return p.parseExecStmt()
	case token.KwYield:
		value := p.parseYield()
		return p.arenas.Stmts.NewValue(ast.StmtExpr, p.exprSpan(value), value)
	}
	if tok.Kind.IsKeyword() && !canStartExpr(tok.Kind) {
		p.unexpected()
		p.skipLine()
		return p.arenas.Stmts.NewBad(p.spanFrom(tok.Span), nil)
	}
	return p.parseExprStmt()
}

// parseExprStmt: выражение, присваивание (в т.ч. цепочкой), += и аннотация.
func (p *Parser) parseExprStmt() ast.StmtID {
	start := p.peek()
	first := p.parseStmtExprList()

	if stmt, ok := p.parsePy3PrintLike(start, first); ok {
		return stmt
	}

	switch k := p.peek().Kind; {
	case k == token.Assign:
		targets := []ast.ExprID{first}
		var value ast.ExprID
		for p.at(token.Assign) {
			p.advance()
			if p.at(token.KwYield) {
				value = p.parseYield()
			} else {
				value = p.parseStmtExprList()
			}
			if p.at(token.Assign) {
				targets = append(targets, value)
			}
		}
		for _, t := range targets {
			p.checkTarget(t)
		}
		return p.arenas.Stmts.NewAssign(p.spanFrom(start.Span), targets, value)
	case k.IsAugAssign():
		op := augAssignOps[p.advance().Kind]
		if e := p.arenas.Exprs.Get(first); e != nil && (e.Kind == ast.ExprTuple || e.Kind == ast.ExprList) {
			p.report(diag.SynInvalidTarget, diag.SevError, e.Span, "tuple")
		} else {
			p.checkTarget(first)
		}
		var value ast.ExprID
		if p.at(token.KwYield) {
			value = p.parseYield()
		} else {
			value = p.parseTestList()
		}
		return p.arenas.Stmts.NewAugAssign(p.spanFrom(start.Span), first, op, value)
	case k == token.Colon && p.isAnnotatable(first):
		p.advance()
		ann := p.parseTest()
		var value ast.ExprID
		if p.at(token.Assign) {
			p.advance()
			value = p.parseTestList()
		}
		return p.arenas.Stmts.NewAnnAssign(p.spanFrom(start.Span), first, ann, value)
	}

	if e := p.arenas.Exprs.Get(first); e != nil && e.Kind == ast.ExprBad {
		return p.arenas.Stmts.NewBad(p.spanFrom(start.Span), nil)
	}
	return p.arenas.Stmts.NewValue(ast.StmtExpr, p.exprSpan(first), first)
}

// parseStmtExprList: список выражений на уровне оператора; одиночное *x
// допустимо только как цель присваивания, поэтому проверяется позже.
func (p *Parser) parseStmtExprList() ast.ExprID {
	first := p.parseListItem(true, false)
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
			break
		}
		elts = append(elts, p.parseListItem(true, false))
	}
	return p.arenas.Exprs.NewSeq(ast.ExprTuple, p.exprSpan(first).Cover(p.lastSpan), elts)
}

func (p *Parser) isAnnotatable(id ast.ExprID) bool {
	e := p.arenas.Exprs.Get(id)
	if e == nil {
		return false
	}
	switch e.Kind {
	case ast.ExprName, ast.ExprAttribute, ast.ExprSubscript:
		return true
	}
	return false
}

func (p *Parser) parseRaise() ast.StmtID {
	kw := p.advance()
	var exc, cause ast.ExprID
	if canStartExpr(p.peek().Kind) {
		exc = p.parseTest()
		switch {
		case p.at(token.KwFrom):
			p.advance()
			cause = p.parseTest()
		case p.at(token.Comma) && p.opts.Dialect.PythonVersion < 3:
			// raise E, "message"[, traceback]: значение кладём в Cause
			p.advance()
			cause = p.parseTest()
			if p.at(token.Comma) {
				p.advance()
				p.parseTest()
			}
		}
	}
	return p.arenas.Stmts.NewRaise(p.spanFrom(kw.Span), exc, cause)
}

func (p *Parser) parseNamesDecl() ast.StmtID {
	kw := p.advance()
	kind := ast.StmtGlobal
	if kw.Kind == token.KwNonlocal {
		kind = ast.StmtNonlocal
	}
	var (
		names []string
		spans []source.Span
	)
	for {
		name, sp, _ := p.parseName()
		if name != "" {
			names = append(names, name)
			spans = append(spans, sp)
		}
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	return p.arenas.Stmts.NewNames(kind, p.spanFrom(kw.Span), names, spans)
}

// parseSuite: тело составного оператора после двоеточия: либо простые
// операторы в той же строке, либо NEWLINE INDENT блок DEDENT.
func (p *Parser) parseSuite(kw string) []ast.StmtID {
	if !p.at(token.Newline) {
		if p.atLineEnd() {
			p.report(diag.SynExpectedIndent, diag.SevError, p.getDiagnosticSpan(), quoteKw(kw))
			return nil
		}
		return p.parseSimpleLine()
	}
	p.advance()
	if !p.at(token.Indent) {
		p.report(diag.SynExpectedIndent, diag.SevError, p.peek().Span.Head(), quoteKw(kw))
		return nil
	}
	p.advance()
	return p.parseBlock()
}

// expectColon: двоеточие в конце заголовка. Если заголовок закончился без
// него, двоеточие синтезируется; при мусоре до двоеточия он пропускается.
func (p *Parser) expectColon(kw string) {
	if p.at(token.Colon) {
		p.advance()
		return
	}
	if p.atLineEnd() {
		at := p.lastSpan.At()
		p.diagnose(diag.SynMissingColon, diag.SevError, at, quoteKw(kw)).
			Replace("insert ':'", at, ":").
			Emit()
		return
	}
	p.unexpected()
	p.skipUntil(token.Colon)
	if p.at(token.Colon) {
		p.advance()
	}
}

// parseClause: заголовок ключевого слова уже разобран, дальше ':' и тело.
func (p *Parser) parseClause(kw string) []ast.StmtID {
	p.expectColon(kw)
	return p.parseSuite(kw)
}

// parseOrphanClause: else/elif/except/finally без своего заголовка.
// Тело всё равно разбирается.
func (p *Parser) parseOrphanClause() ast.StmtID {
	kw := p.advance()
	owner := "if"
	switch kw.Kind {
	case token.KwExcept, token.KwFinally:
		owner = "try"
	}
	p.report(diag.SynOrphanClause, diag.SevError, kw.Span, kw.Text, owner)
	p.skipUntil(token.Colon)
	body := p.parseClause(kw.Text)
	return p.arenas.Stmts.NewBad(p.spanFrom(kw.Span), body)
}

func quoteKw(kw string) string {
	return "'" + kw + "'"
}
