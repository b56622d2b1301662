package parser

import (
	"strings"

	"tpyparser/internal/ast"
	"tpyparser/internal/diag"
	"tpyparser/internal/source"
	"tpyparser/internal/token"
)

// parseImport: import a.b [as c], d
func (p *Parser) parseImport() ast.StmtID {
	kw := p.advance()
	var names []ast.Alias
	for {
		alias, ok := p.parseAlias(true)
		if ok {
			names = append(names, alias)
		}
		if !ok || !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	return p.arenas.Stmts.NewImport(p.spanFrom(kw.Span), names)
}

// parseAlias: имя (с точками, если dotted) и необязательное "as имя".
func (p *Parser) parseAlias(dotted bool) (ast.Alias, bool) {
	var alias ast.Alias
	var (
		name string
		sp   source.Span
	)
	if dotted {
		name, sp, _ = p.parseDottedName()
	} else {
		name, sp, _ = p.parseName()
	}
	if name == "" {
		return alias, false
	}
	alias.Name, alias.Span = name, sp
	if p.at(token.KwAs) {
		p.advance()
		asName, asSpan, _ := p.parseName()
		alias.AsName = asName
		alias.Span = sp.Cover(asSpan)
	}
	return alias, true
}

// parseDottedName: a.b.c. Незаконченное имя ("import os.") сохраняется как есть.
func (p *Parser) parseDottedName() (string, source.Span, bool) {
	first, sp, ok := p.parseName()
	if first == "" {
		return "", sp, false
	}
	parts := []string{first}
	for p.at(token.Dot) {
		dot := p.advance()
		sp = sp.Cover(dot.Span)
		part, partSpan, partOK := p.parseName()
		if part == "" {
			return strings.Join(parts, ".") + ".", sp, false
		}
		ok = ok && partOK
		parts = append(parts, part)
		sp = sp.Cover(partSpan)
	}
	return strings.Join(parts, "."), sp, ok
}

// parseImportFrom: from [.]*module import (a as b, c) | *
func (p *Parser) parseImportFrom() ast.StmtID {
	kw := p.advance()
	var data ast.StmtImportFromData
	for p.at_or(token.Dot, token.Ellipsis) {
		if p.advance().Kind == token.Ellipsis {
			data.Level += 3
		} else {
			data.Level++
		}
	}
	if !p.at(token.KwImport) {
		data.Module, data.ModuleSpan, _ = p.parseDottedName()
	}
	if _, ok := p.expect(token.KwImport); !ok {
		return p.arenas.Stmts.NewImportFrom(p.spanFrom(kw.Span), data)
	}

	switch {
	case p.at(token.Star):
		p.advance()
		data.Star = true
	case p.at(token.LParen):
		open := p.advance()
		for !p.at(token.RParen) && !p.atLineEnd() {
			alias, ok := p.parseAlias(false)
			if !ok {
				break
			}
			data.Names = append(data.Names, alias)
			if !p.at(token.Comma) {
				break
			}
			p.advance()
		}
		p.closeBracket(open)
	default:
		for {
			alias, ok := p.parseAlias(false)
			if !ok {
				break
			}
			data.Names = append(data.Names, alias)
			if !p.at(token.Comma) {
				break
			}
			p.advance()
			if p.atLineEnd() {
				p.report(diag.SynExpectedName, diag.SevError, p.getDiagnosticSpan())
				break
			}
		}
	}
	return p.arenas.Stmts.NewImportFrom(p.spanFrom(kw.Span), data)
}
