package parser

import (
	"slices"

	"tpyparser/internal/ast"
	"tpyparser/internal/diag"
	"tpyparser/internal/source"
	"tpyparser/internal/token"
)

func (p *Parser) peek() token.Token {
	return p.toks[p.pos]
}

// peekN смотрит на n токенов вперёд; за концом: EOF.
func (p *Parser) peekN(n int) token.Token {
	if i := p.pos + n; i < len(p.toks) {
		return p.toks[i]
	}
	return p.toks[len(p.toks)-1]
}

func (p *Parser) at(k token.Kind) bool {
	return p.toks[p.pos].Kind == k
}

func (p *Parser) at_or(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.toks[p.pos].Kind)
}

// atLineEnd: логическая строка закончилась.
func (p *Parser) atLineEnd() bool {
	return p.at_or(token.Newline, token.EOF, token.Dedent, token.Indent)
}

// atSoft: идентификатор с заданным текстом (match, case, _).
func (p *Parser) atSoft(word string) bool {
	tok := p.peek()
	return tok.Kind == token.Ident && tok.Text == word
}

// advance: съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.toks[p.pos]
	if tok.Kind != token.EOF {
		p.pos++
		p.lastSpan = tok.Span
	}
	if tok.Kind == token.Invalid {
		// лексер уже сообщил об ошибке
		p.failed = true
	}
	return tok
}

// getDiagnosticSpan: возвращает лучший span для диагностики.
// На конце строки указываем сразу после последнего съеденного токена.
func (p *Parser) getDiagnosticSpan() source.Span {
	peek := p.peek()
	switch peek.Kind {
	case token.Newline, token.EOF, token.Dedent, token.Indent:
		if p.pos > 0 {
			return p.lastSpan.At()
		}
	}
	return peek.Span
}

// beginStmt сбрасывает состояние ошибок перед новым оператором или заголовком.
func (p *Parser) beginStmt() {
	p.failed = false
	p.stmtStart = p.peek().Span.Start
}

// lexErrorIn: была ли ошибка лексера в [start, end].
func (p *Parser) lexErrorIn(start, end uint32) bool {
	i, _ := slices.BinarySearch(p.lexErrs, start)
	return i < len(p.lexErrs) && p.lexErrs[i] <= end
}

// diagnose: одна ошибка на оператор: повторные ошибки в том же операторе
// и ошибки в операторе, где уже отметился лексер, подавляются. Для
// подавленной ошибки возвращается nil; вызывающий добавляет правки и Emit.
func (p *Parser) diagnose(code diag.Code, sev diag.Severity, sp source.Span, args ...string) *diag.ReportBuilder {
	if sev >= diag.SevError {
		upto := max(sp.End, p.peek().Span.End)
		if p.failed || p.lexErrorIn(p.stmtStart, upto) {
			p.failed = true
			return nil
		}
		p.failed = true
	}
	return diag.Build(p.opts.Reporter, sev, code, sp, args...)
}

// report is diagnose without fixes.
func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, args ...string) bool {
	b := p.diagnose(code, sev, sp, args...)
	b.Emit()
	return b != nil
}

// репортует ошибку и передает текущий спан
func (p *Parser) err(code diag.Code, args ...string) bool {
	return p.report(code, diag.SevError, p.getDiagnosticSpan(), args...)
}

// unexpected сообщает о неожиданном текущем токене.
func (p *Parser) unexpected() bool {
	tok := p.peek()
	switch {
	case tok.Kind == token.Invalid:
		p.failed = true
		return false
	case tok.Kind.IsCloseBracket():
		return p.report(diag.SynUnmatchedBracket, diag.SevError, tok.Span, tok.Kind.String())
	case tok.Kind == token.Newline || tok.Kind == token.EOF:
		return p.err(diag.SynExpectedExpr)
	case tok.Kind == token.Indent:
		return p.report(diag.SynUnexpectedIndent, diag.SevError, tok.Span)
	}
	return p.report(diag.SynUnexpectedToken, diag.SevError, tok.Span, tok.Describe())
}

// expect: ожидаем конкретный токен. Если нет: репортим и возвращаем (invalid,false).
func (p *Parser) expect(k token.Kind) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	sp := p.getDiagnosticSpan()
	if p.at(token.Invalid) {
		p.failed = true
	} else {
		p.report(diag.SynExpectedToken, diag.SevError, sp, k.String())
	}
	return token.Token{Kind: token.Invalid, Span: sp}, false
}

// skipLine: panic mode: пропускаем всё до конца логической строки.
func (p *Parser) skipLine() {
	for !p.atLineEnd() {
		p.advance()
	}
}

// skipUntil пропускает токены до одного из kinds на текущем уровне скобок
// или до конца строки.
func (p *Parser) skipUntil(kinds ...token.Kind) {
	depth := 0
	for !p.atLineEnd() {
		k := p.peek().Kind
		if depth == 0 && slices.Contains(kinds, k) {
			return
		}
		switch {
		case k.IsOpenBracket():
			depth++
		case k.IsCloseBracket():
			if depth == 0 {
				return
			}
			depth--
		}
		p.advance()
	}
}

// closeBracket съедает закрывающую скобку для open. Незакрытая к концу строки
// скобка репортится в позиции открывающей.
func (p *Parser) closeBracket(open token.Token) source.Span {
	closing := open.Kind.Closing()
	if p.at(closing) {
		return p.advance().Span
	}
	if p.atLineEnd() {
		p.report(diag.SynUnclosedBracket, diag.SevError, open.Span, open.Kind.String())
		return p.lastSpan.At()
	}
	p.unexpected()
	p.skipUntil(closing)
	if p.at(closing) {
		return p.advance().Span
	}
	return p.lastSpan.At()
}

// enter/leave ограничивают глубину рекурсии.
func (p *Parser) enter() bool {
	p.depth++
	if p.depth > p.opts.MaxDepth {
		p.report(diag.SynTooDeep, diag.SevError, p.getDiagnosticSpan())
		return false
	}
	return true
}

func (p *Parser) leave() {
	p.depth--
}

func (p *Parser) exprSpan(id ast.ExprID) source.Span {
	if e := p.arenas.Exprs.Get(id); e != nil && id.IsValid() {
		return e.Span
	}
	return p.lastSpan.At()
}

func (p *Parser) stmtSpan(id ast.StmtID) source.Span {
	if s := p.arenas.Stmts.Get(id); s != nil && id.IsValid() {
		return s.Span
	}
	return p.lastSpan.At()
}

// spanFrom: от начала start до конца последнего съеденного токена.
func (p *Parser) spanFrom(start source.Span) source.Span {
	if p.lastSpan.End < start.Start {
		return start.Head()
	}
	return source.Span{File: start.File, Start: start.Start, End: p.lastSpan.End}
}

// bad создаёт плейсхолдер, схлопнутый в точку восстановления.
func (p *Parser) bad() ast.ExprID {
	return p.arenas.Exprs.NewBad(p.getDiagnosticSpan().Head())
}

// parseName ожидает идентификатор. Ключевое слово на месте имени репортится
// отдельно и принимается как имя, чтобы разбор продолжился.
func (p *Parser) parseName() (string, source.Span, bool) {
	tok := p.peek()
	switch {
	case tok.Kind == token.Ident:
		p.advance()
		return tok.Text, tok.Span, true
	case tok.Kind.IsKeyword():
		p.report(diag.SynKeywordAsName, diag.SevError, tok.Span, tok.Text)
		p.advance()
		return tok.Text, tok.Span, false
	case tok.Kind == token.Invalid:
		p.advance()
		return "", tok.Span, false
	}
	p.err(diag.SynExpectedName)
	return "", p.getDiagnosticSpan().Head(), false
}
