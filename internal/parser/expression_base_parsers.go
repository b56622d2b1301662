package parser

import (
	"tpyparser/internal/ast"
	"tpyparser/internal/diag"
	"tpyparser/internal/token"
)

// parsePrimaryExpr: атомы: имена, литералы, скобочные формы.
// На неожиданном токене репортит и возвращает Bad, не съедая токен.
func (p *Parser) parsePrimaryExpr() ast.ExprID {
	tok := p.peek()
	switch tok.Kind {
	case token.Ident:
		p.advance()
		return p.arenas.Exprs.NewName(tok.Span, tok.Text)
	case token.IntLit:
		p.advance()
		return p.arenas.Exprs.NewLiteral(tok.Span, ast.LitInt, tok.Text)
	case token.FloatLit:
		p.advance()
		return p.arenas.Exprs.NewLiteral(tok.Span, ast.LitFloat, tok.Text)
	case token.ImagLit:
		p.advance()
		return p.arenas.Exprs.NewLiteral(tok.Span, ast.LitImag, tok.Text)
	case token.StringLit:
		return p.parseStrings()
	case token.KwTrue:
		p.advance()
		return p.arenas.Exprs.NewLiteral(tok.Span, ast.LitTrue, tok.Text)
	case token.KwFalse:
		p.advance()
		return p.arenas.Exprs.NewLiteral(tok.Span, ast.LitFalse, tok.Text)
	case token.KwNone:
		p.advance()
		return p.arenas.Exprs.NewLiteral(tok.Span, ast.LitNone, tok.Text)
	case token.Ellipsis:
		p.advance()
		return p.arenas.Exprs.NewLiteral(tok.Span, ast.LitEllipsis, tok.Text)
	case token.LParen:
		return p.parseParenExpr()
	case token.LBracket:
		return p.parseListExpr()
	case token.LBrace:
		return p.parseBraceExpr()
	case token.Backtick:
		return p.parseRepr()
	case token.Invalid:
		p.advance()
		return p.arenas.Exprs.NewBad(tok.Span)
	case token.Star:
		p.report(diag.SynStarredNotAllowed, diag.SevError, tok.Span)
		p.advance()
		value := p.parsePrimaryExpr()
		return p.arenas.Exprs.NewValue(ast.ExprStarred, tok.Span.Cover(p.exprSpan(value)), value)
	}
	p.unexpected()
	return p.bad()
}

// parseParenExpr: (), (x), (x,), (x, y), (x for x in y), (yield x).
func (p *Parser) parseParenExpr() ast.ExprID {
	if !p.enter() {
		p.leave()
		p.skipLine()
		return p.bad()
	}
	defer p.leave()

	open := p.advance()
	if p.at(token.RParen) {
		end := p.advance()
		return p.arenas.Exprs.NewSeq(ast.ExprTuple, open.Span.Cover(end.Span), nil)
	}
	if p.at(token.KwYield) {
		y := p.parseYield()
		p.closeBracket(open)
		return y
	}
	first := p.parseListItem(true, true)
	if p.atCompFor() {
		clauses := p.parseCompClauses()
		end := p.closeBracket(open)
		return p.arenas.Exprs.NewComp(ast.ExprGenerator, open.Span.Cover(end), first, ast.NoExprID, clauses)
	}
	if !p.at(token.Comma) && !p.missingCommaIn(token.RParen) {
		p.closeBracket(open)
		if e := p.arenas.Exprs.Get(first); e != nil && e.Kind == ast.ExprStarred {
			p.report(diag.SynStarredNotAllowed, diag.SevError, e.Span)
		}
		return first
	}
	elts := p.parseSeqTail(first, token.RParen)
	end := p.closeBracket(open)
	return p.arenas.Exprs.NewSeq(ast.ExprTuple, open.Span.Cover(end), elts)
}

// missingCommaIn: как missingComma, но только если элемент не закрыт скобкой.
func (p *Parser) missingCommaIn(closing token.Kind) bool {
	if p.at(closing) {
		return false
	}
	return p.missingComma()
}

// parseSeqTail дочитывает элементы после first до закрывающей скобки.
// Пропущенная запятая репортится и синтезируется.
func (p *Parser) parseSeqTail(first ast.ExprID, closing token.Kind) []ast.ExprID {
	elts := []ast.ExprID{first}
	for {
		switch {
		case p.at(token.Comma):
			p.advance()
		case p.at(closing) || p.atLineEnd():
			return elts
		case !p.missingComma():
			return elts
		}
		if p.at(closing) || p.atLineEnd() {
			return elts
		}
		if !canStartExpr(p.peek().Kind) && !p.at(token.Star) {
			return elts
		}
		elts = append(elts, p.parseListItem(true, true))
	}
}

func (p *Parser) parseListExpr() ast.ExprID {
	if !p.enter() {
		p.leave()
		p.skipLine()
		return p.bad()
	}
	defer p.leave()

	open := p.advance()
	if p.at(token.RBracket) {
		end := p.advance()
		return p.arenas.Exprs.NewSeq(ast.ExprList, open.Span.Cover(end.Span), nil)
	}
	first := p.parseListItem(true, true)
	if p.atCompFor() {
		clauses := p.parseCompClauses()
		end := p.closeBracket(open)
		return p.arenas.Exprs.NewComp(ast.ExprListComp, open.Span.Cover(end), first, ast.NoExprID, clauses)
	}
	elts := p.parseSeqTail(first, token.RBracket)
	end := p.closeBracket(open)
	return p.arenas.Exprs.NewSeq(ast.ExprList, open.Span.Cover(end), elts)
}

// parseBraceExpr: {}, {k: v}, {**m}, {x}, comprehension-формы.
func (p *Parser) parseBraceExpr() ast.ExprID {
	if !p.enter() {
		p.leave()
		p.skipLine()
		return p.bad()
	}
	defer p.leave()

	open := p.advance()
	if p.at(token.RBrace) {
		end := p.advance()
		return p.arenas.Exprs.NewDict(open.Span.Cover(end.Span), nil, nil)
	}
	if p.at(token.DoubleStar) {
		return p.parseDictTail(open, nil, nil)
	}
	first := p.parseListItem(true, true)
	if p.at(token.Colon) {
		p.advance()
		value := p.parseTest()
		if p.atCompFor() {
			clauses := p.parseCompClauses()
			end := p.closeBracket(open)
			return p.arenas.Exprs.NewComp(ast.ExprDictComp, open.Span.Cover(end), first, value, clauses)
		}
		return p.parseDictTail(open, []ast.ExprID{first}, []ast.ExprID{value})
	}
	if p.atCompFor() {
		clauses := p.parseCompClauses()
		end := p.closeBracket(open)
		return p.arenas.Exprs.NewComp(ast.ExprSetComp, open.Span.Cover(end), first, ast.NoExprID, clauses)
	}
	elts := p.parseSeqTail(first, token.RBrace)
	end := p.closeBracket(open)
	return p.arenas.Exprs.NewSeq(ast.ExprSet, open.Span.Cover(end), elts)
}

// parseDictTail дочитывает пары "k: v" и "**m" до '}'.
func (p *Parser) parseDictTail(open token.Token, keys, values []ast.ExprID) ast.ExprID {
	needComma := len(keys) > 0
	for !p.at(token.RBrace) && !p.atLineEnd() {
		if needComma {
			if p.at(token.Comma) {
				p.advance()
				if p.at(token.RBrace) {
					break
				}
			} else if !p.missingComma() {
				break
			}
		}
		needComma = true
		if p.at(token.DoubleStar) {
			p.advance()
			keys = append(keys, ast.NoExprID)
			values = append(values, p.parseBinaryExpr(precBitwiseOr))
			continue
		}
		key := p.parseTest()
		var value ast.ExprID
		if _, ok := p.expect(token.Colon); ok {
			value = p.parseTest()
		} else {
			value = p.bad()
		}
		keys = append(keys, key)
		values = append(values, value)
	}
	end := p.closeBracket(open)
	return p.arenas.Exprs.NewDict(open.Span.Cover(end), keys, values)
}

// parseRepr: `x` (Python 2).
func (p *Parser) parseRepr() ast.ExprID {
	open := p.advance()
	value := p.parseTestList()
	end := p.lastSpan
	if _, ok := p.expect(token.Backtick); ok {
		end = p.lastSpan
	}
	return p.arenas.Exprs.NewValue(ast.ExprRepr, open.Span.Cover(end), value)
}
