package parser

import (
	"tpyparser/internal/ast"
	"tpyparser/internal/diag"
	"tpyparser/internal/source"
	"tpyparser/internal/token"
)

// parseDecorated: одна или несколько строк "@expr", затем def или class.
func (p *Parser) parseDecorated() ast.StmtID {
	start := p.peek().Span
	var decorators []ast.ExprID
	for p.at(token.At) {
		p.beginStmt()
		p.advance()
		decorators = append(decorators, p.parseNamedTest())
		if !p.atLineEnd() {
			p.unexpected()
			p.skipLine()
		}
		if p.at(token.Newline) {
			p.advance()
		}
	}
	p.beginStmt()
	switch {
	case p.at(token.KwDef):
		return p.parseFuncDef(start, decorators, false)
	case p.at(token.KwAsync) && p.peekN(1).Kind == token.KwDef:
		p.advance()
		return p.parseFuncDef(start, decorators, true)
	case p.at(token.KwClass):
		return p.parseClassDef(start, decorators)
	}
	p.report(diag.SynBadDecorator, diag.SevError, p.peek().Span)
	return p.arenas.Stmts.NewBad(p.spanFrom(start), nil)
}

// parseFuncDef: def name(params) [-> ann]: body
func (p *Parser) parseFuncDef(start source.Span, decorators []ast.ExprID, async bool) ast.StmtID {
	p.advance() // def
	name, nameSpan, _ := p.parseName()
	data := ast.StmtFuncDefData{
		Name:       name,
		NameSpan:   nameSpan,
		Decorators: decorators,
		Async:      async,
	}

	if open, ok := p.expect(token.LParen); ok {
		data.Params = p.parseParams(token.RParen, false)
		switch {
		case p.at(token.RParen):
			p.advance()
		case p.at(token.Colon):
			// ')' перед ':' синтезируется; сам список уже отрепорчен
		case p.atLineEnd():
			p.report(diag.SynUnclosedBracket, diag.SevError, open.Span, "(")
		default:
			p.report(diag.SynBadParameters, diag.SevError, p.peek().Span)
			p.skipUntil(token.RParen, token.Colon)
			if p.at(token.RParen) {
				p.advance()
			}
		}
	} else {
		p.skipUntil(token.Colon)
	}

	if p.at(token.Arrow) {
		p.advance()
		data.Returns = p.parseTest()
	}
	data.Body = p.parseClause("def")
	data.Doc = p.docstring(data.Body)
	return p.arenas.Stmts.NewFuncDef(p.spanFrom(start), data)
}

// parseParams разбирает параметры до closing (')' у def, ':' у lambda).
// Закрывающий токен не съедается.
func (p *Parser) parseParams(closing token.Kind, lambda bool) ast.Params {
	var (
		params     ast.Params
		seen       = map[string]bool{}
		sawDefault bool
		sawStar    bool // после * или *args: только keyword-only
		sawSlash   bool
	)
	add := func(prm ast.Param) bool {
		if prm.Name != "" && seen[prm.Name] {
			p.report(diag.SynDuplicateArgument, diag.SevError, prm.NameSpan, prm.Name)
			return false
		}
		seen[prm.Name] = true
		return true
	}

	for !p.at(closing) && !p.atLineEnd() {
		tok := p.peek()
		switch {
		case tok.Kind == token.Slash:
			p.advance()
			if sawSlash || sawStar || len(params.Args) == 0 {
				p.report(diag.SynBadParameters, diag.SevError, tok.Span)
			}
			sawSlash = true
			params.PosOnly = append(params.PosOnly, params.Args...)
			params.Args = nil
		case tok.Kind == token.Star:
			p.advance()
			if sawStar {
				p.report(diag.SynBadParameters, diag.SevError, tok.Span)
			}
			sawStar = true
			if p.at(token.Ident) {
				prm := p.parseParam(lambda, false)
				add(prm)
				params.VarArg = &prm
			}
		case tok.Kind == token.DoubleStar:
			p.advance()
			prm := p.parseParam(lambda, false)
			add(prm)
			params.KwArg = &prm
		case tok.Kind == token.Ident || tok.Kind.IsKeyword():
			if params.KwArg != nil {
				p.report(diag.SynBadParameters, diag.SevError, tok.Span)
			}
			prm := p.parseParam(lambda, true)
			add(prm)
			switch {
			case sawStar:
				params.KwOnly = append(params.KwOnly, prm)
			default:
				if prm.Default.IsValid() {
					sawDefault = true
				} else if sawDefault {
					p.report(diag.SynDefaultOrder, diag.SevError, prm.NameSpan)
				}
				params.Args = append(params.Args, prm)
			}
		default:
			p.report(diag.SynBadParameters, diag.SevError, tok.Span)
			return params
		}

		if p.at(token.Comma) {
			p.advance()
			continue
		}
		if !p.at(closing) && !p.atLineEnd() {
			if !(lambda && p.at(token.Colon)) {
				p.report(diag.SynBadParameters, diag.SevError, p.peek().Span)
			}
			return params
		}
	}
	return params
}

// parseParam: name [: annotation] [= default]
func (p *Parser) parseParam(lambda, allowDefault bool) ast.Param {
	name, sp, _ := p.parseName()
	prm := ast.Param{Name: name, NameSpan: sp}
	if !lambda && p.at(token.Colon) {
		p.advance()
		prm.Annotation = p.parseTest()
	}
	if allowDefault && p.at(token.Assign) {
		p.advance()
		prm.Default = p.parseTest()
	}
	return prm
}

// parseClassDef: class Name[(bases, kw=v)]: body
func (p *Parser) parseClassDef(start source.Span, decorators []ast.ExprID) ast.StmtID {
	p.advance() // class
	name, nameSpan, _ := p.parseName()
	data := ast.StmtClassDefData{Name: name, NameSpan: nameSpan, Decorators: decorators}
	if p.at(token.LParen) {
		call := p.parseCall(ast.NoExprID)
		if c, ok := p.arenas.Exprs.Call(call); ok {
			for _, a := range c.Args {
				switch a.Kind {
				case ast.ArgKeyword, ast.ArgDoubleStar:
					data.Keywords = append(data.Keywords, a)
				default:
					data.Bases = append(data.Bases, a.Value)
				}
			}
		}
	}
	data.Body = p.parseClause("class")
	data.Doc = p.docstring(data.Body)
	return p.arenas.Stmts.NewClassDef(p.spanFrom(start), data)
}

// docstring: текст первой строки-литерала тела.
func (p *Parser) docstring(body []ast.StmtID) string {
	if len(body) == 0 {
		return ""
	}
	v, ok := p.arenas.Stmts.Value(body[0])
	if !ok || p.arenas.Stmts.Get(body[0]).Kind != ast.StmtExpr {
		return ""
	}
	lit, ok := p.arenas.Exprs.Literal(v.Value)
	if !ok || lit.Kind != ast.LitString {
		return ""
	}
	return StringValue(lit.Text)
}
