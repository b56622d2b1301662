package parser

import (
	"tpyparser/internal/ast"
	"tpyparser/internal/diag"
	"tpyparser/internal/source"
	"tpyparser/internal/token"
)

// looksLikeMatch: "match": мягкое ключевое слово. Считаем строку оператором
// match, только если она заканчивается ':' и следующий блок начинается с case.
func (p *Parser) looksLikeMatch() bool {
	switch k := p.peekN(1).Kind; {
	case k == token.Assign, k == token.Dot, k == token.Colon, k == token.Comma,
		k.IsAugAssign(), k == token.Newline, k == token.EOF, k == token.RParen:
		return false
	}
	i := p.pos + 1
	for i < len(p.toks) && p.toks[i].Kind != token.Newline && p.toks[i].Kind != token.EOF {
		i++
	}
	if i+2 >= len(p.toks) || p.toks[i-1].Kind != token.Colon {
		return false
	}
	next := p.toks[i+1]
	caseTok := p.toks[i+2]
	return next.Kind == token.Indent && caseTok.Kind == token.Ident && caseTok.Text == "case"
}

func (p *Parser) parseMatchStmt() ast.StmtID {
	kw := p.advance()
	subject := p.parseExprList(true, true)
	p.expectColon("match")
	var cases []ast.MatchCase
	if p.at(token.Newline) {
		p.advance()
	}
	if !p.at(token.Indent) {
		p.report(diag.SynExpectedIndent, diag.SevError, p.getDiagnosticSpan(), quoteKw("match"))
		return p.arenas.Stmts.NewMatch(p.spanFrom(kw.Span), subject, nil)
	}
	p.advance()
	for !p.at_or(token.Dedent, token.EOF) {
		if p.at(token.Newline) {
			p.advance()
			continue
		}
		p.beginStmt()
		if !p.atSoft("case") {
			// посторонний оператор внутри match: репортим и разбираем как обычный
			p.unexpected()
			p.parseStatementOrBlock()
			continue
		}
		cases = append(cases, p.parseCase())
	}
	if p.at(token.Dedent) {
		p.advance()
	}
	return p.arenas.Stmts.NewMatch(p.spanFrom(kw.Span), subject, cases)
}

func (p *Parser) parseCase() ast.MatchCase {
	kw := p.advance()
	var c ast.MatchCase
	c.Pattern = p.parsePatterns()
	if p.at(token.KwIf) {
		p.advance()
		c.Guard = p.parseNamedTest()
	}
	c.Body = p.parseClause("case")
	c.Span = p.spanFrom(kw.Span)
	return c
}

func (p *Parser) newPattern(pat ast.Pattern) ast.PatternID {
	return p.arenas.Patterns.New(pat)
}

func (p *Parser) patternSpan(id ast.PatternID) source.Span {
	if pat := p.arenas.Patterns.Get(id); pat != nil && id.IsValid() {
		return pat.Span
	}
	return p.lastSpan.At()
}

// parsePatterns: верхний уровень case: "a, b" без скобок даёт последовательность.
func (p *Parser) parsePatterns() ast.PatternID {
	first := p.parseAsPattern()
	if !p.at(token.Comma) {
		return first
	}
	items := []ast.PatternID{first}
	for p.at(token.Comma) {
		p.advance()
		if p.at_or(token.Colon, token.KwIf) || p.atLineEnd() {
			break
		}
		items = append(items, p.parseAsPattern())
	}
	return p.newPattern(ast.Pattern{Kind: ast.PatSequence, Span: p.patternSpan(first).Cover(p.lastSpan), Patterns: items})
}

func (p *Parser) parseAsPattern() ast.PatternID {
	inner := p.parseOrPattern()
	if !p.at(token.KwAs) {
		return inner
	}
	p.advance()
	name, nameSpan, _ := p.parseName()
	return p.newPattern(ast.Pattern{
		Kind:     ast.PatAs,
		Span:     p.patternSpan(inner).Cover(nameSpan),
		Name:     name,
		NameSpan: nameSpan,
		Patterns: []ast.PatternID{inner},
	})
}

func (p *Parser) parseOrPattern() ast.PatternID {
	first := p.parseClosedPattern()
	if !p.at(token.Pipe) {
		return first
	}
	alts := []ast.PatternID{first}
	for p.at(token.Pipe) {
		p.advance()
		alts = append(alts, p.parseClosedPattern())
	}
	return p.newPattern(ast.Pattern{Kind: ast.PatOr, Span: p.patternSpan(first).Cover(p.lastSpan), Patterns: alts})
}

func (p *Parser) parseClosedPattern() ast.PatternID {
	if !p.enter() {
		p.leave()
		p.skipUntil(token.Colon)
		return p.newPattern(ast.Pattern{Kind: ast.PatBad, Span: p.getDiagnosticSpan().Head()})
	}
	defer p.leave()

	tok := p.peek()
	switch tok.Kind {
	case token.Minus, token.IntLit, token.FloatLit, token.ImagLit, token.StringLit,
		token.KwTrue, token.KwFalse, token.KwNone:
		value := p.parseBinaryExpr(precAdditive)
		return p.newPattern(ast.Pattern{Kind: ast.PatValue, Span: p.exprSpan(value), Value: value})
	case token.Ident:
		return p.parseNamePattern()
	case token.Star:
		p.advance()
		name, sp, _ := p.parseName()
		if name == "_" {
			name = ""
		}
		return p.newPattern(ast.Pattern{Kind: ast.PatStar, Span: tok.Span.Cover(sp), Name: name, NameSpan: sp})
	case token.LParen:
		open := p.advance()
		if p.at(token.RParen) {
			end := p.advance()
			return p.newPattern(ast.Pattern{Kind: ast.PatSequence, Span: open.Span.Cover(end.Span)})
		}
		first := p.parseAsPattern()
		if !p.at(token.Comma) {
			p.closeBracket(open)
			return first
		}
		items := p.parsePatternTail(first, token.RParen)
		end := p.closeBracket(open)
		return p.newPattern(ast.Pattern{Kind: ast.PatSequence, Span: open.Span.Cover(end), Patterns: items})
	case token.LBracket:
		open := p.advance()
		var items []ast.PatternID
		if !p.at(token.RBracket) {
			items = p.parsePatternTail(p.parseAsPattern(), token.RBracket)
		}
		end := p.closeBracket(open)
		return p.newPattern(ast.Pattern{Kind: ast.PatSequence, Span: open.Span.Cover(end), Patterns: items})
	case token.LBrace:
		return p.parseMappingPattern()
	}
	p.report(diag.SynBadPattern, diag.SevError, tok.Span)
	p.skipUntil(token.Colon)
	return p.newPattern(ast.Pattern{Kind: ast.PatBad, Span: tok.Span})
}

func (p *Parser) parsePatternTail(first ast.PatternID, closing token.Kind) []ast.PatternID {
	items := []ast.PatternID{first}
	for p.at(token.Comma) {
		p.advance()
		if p.at(closing) || p.atLineEnd() {
			break
		}
		items = append(items, p.parseAsPattern())
	}
	return items
}

// parseNamePattern: _ | name | a.b.c | Cls(...)
func (p *Parser) parseNamePattern() ast.PatternID {
	tok := p.advance()
	if !p.at_or(token.Dot, token.LParen) {
		if tok.Text == "_" {
			return p.newPattern(ast.Pattern{Kind: ast.PatWildcard, Span: tok.Span, Name: "_"})
		}
		return p.newPattern(ast.Pattern{Kind: ast.PatCapture, Span: tok.Span, Name: tok.Text, NameSpan: tok.Span})
	}
	value := p.arenas.Exprs.NewName(tok.Span, tok.Text)
	for p.at(token.Dot) {
		value = p.parseAttribute(value)
	}
	if !p.at(token.LParen) {
		return p.newPattern(ast.Pattern{Kind: ast.PatValue, Span: p.exprSpan(value), Value: value})
	}

	open := p.advance()
	pat := ast.Pattern{Kind: ast.PatClass, Class: value}
	for !p.at(token.RParen) && !p.atLineEnd() {
		if p.at(token.Ident) && p.peekN(1).Kind == token.Assign {
			name := p.advance()
			p.advance() // =
			pat.KwdNames = append(pat.KwdNames, name.Text)
			pat.KwdPatterns = append(pat.KwdPatterns, p.parseAsPattern())
		} else {
			if len(pat.KwdNames) > 0 {
				p.report(diag.SynBadPattern, diag.SevError, p.peek().Span)
			}
			pat.Patterns = append(pat.Patterns, p.parseAsPattern())
		}
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	end := p.closeBracket(open)
	pat.Span = p.exprSpan(value).Cover(end)
	return p.newPattern(pat)
}

// parseMappingPattern: {key: pattern, **rest}
func (p *Parser) parseMappingPattern() ast.PatternID {
	open := p.advance()
	pat := ast.Pattern{Kind: ast.PatMapping}
	for !p.at(token.RBrace) && !p.atLineEnd() {
		if p.at(token.DoubleStar) {
			p.advance()
			pat.Name, pat.NameSpan, _ = p.parseName()
		} else {
			key := p.parseBinaryExpr(precAdditive)
			p.expect(token.Colon)
			pat.Keys = append(pat.Keys, key)
			pat.Patterns = append(pat.Patterns, p.parseAsPattern())
		}
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	end := p.closeBracket(open)
	pat.Span = open.Span.Cover(end)
	return p.newPattern(pat)
}
