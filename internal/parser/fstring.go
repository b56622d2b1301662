package parser

import (
	"strings"

	"tpyparser/internal/ast"
	"tpyparser/internal/diag"
	"tpyparser/internal/lexer"
	"tpyparser/internal/token"
)

// parseStrings склеивает соседние строковые литералы ("a" "b") в один узел.
// Если хоть один из них f-строка, получается FString с вложенными выражениями.
func (p *Parser) parseStrings() ast.ExprID {
	first := p.advance()
	sp := first.Span
	isF := first.IsFString()
	bytes := strings.ContainsRune(first.StringPrefix(), 'b')
	parts := []token.Token{first}
	for p.at(token.StringLit) {
		tok := p.advance()
		sp = sp.Cover(tok.Span)
		isF = isF || tok.IsFString()
		parts = append(parts, tok)
	}
	text := p.file.Text(sp)
	if !isF {
		kind := ast.LitString
		if bytes {
			kind = ast.LitBytes
		}
		return p.arenas.Exprs.NewLiteral(sp, kind, text)
	}
	var values []ast.ExprID
	for _, tok := range parts {
		if tok.IsFString() {
			values = append(values, p.parseFStringFields(tok)...)
		}
	}
	return p.arenas.Exprs.NewFString(sp, text, values)
}

// fieldRange: байтовый диапазон выражения внутри f-строки.
type fieldRange struct{ start, end uint32 }

// parseFStringFields разбирает выражения в {...} на их настоящих смещениях.
func (p *Parser) parseFStringFields(tok token.Token) []ast.ExprID {
	var out []ast.ExprID
	for _, r := range fstringFields(tok.Text, tok.Span.Start) {
		if id := p.parseFragment(r); id.IsValid() {
			out = append(out, id)
		}
	}
	return out
}

// parseFragment: отдельный парсер над диапазоном, с общими аренами и репортером.
func (p *Parser) parseFragment(r fieldRange) ast.ExprID {
	lx := lexer.NewFragment(p.file, r.start, r.end, lexer.Options{
		Reporter:                    p.opts.Reporter,
		Dialect:                     p.opts.Dialect,
		TranslateUnicodePunctuation: p.opts.TranslateUnicodePunctuation,
	})
	sub := newParser(p.file, lx.All(), p.arenas, p.opts)
	sub.lexErrs = p.lexErrs
	sub.stmtStart = p.stmtStart
	sub.failed = p.failed
	sub.depth = p.depth
	if sub.at(token.EOF) {
		sub.report(diag.SynExpectedExpr, diag.SevError, sub.peek().Span)
		p.failed = sub.failed
		return ast.NoExprID
	}
	id := sub.parseTestList()
	if !sub.at(token.EOF) {
		sub.unexpected()
	}
	p.failed = sub.failed
	return id
}

// fstringFields находит поля замены в тексте f-строки. base: смещение токена.
func fstringFields(text string, base uint32) []fieldRange {
	q := strings.IndexAny(text, "'\"")
	if q < 0 {
		return nil
	}
	quote := text[q]
	open := 1
	if strings.HasPrefix(text[q:], strings.Repeat(string(quote), 3)) {
		open = 3
	}
	body := text[q+open:]
	if strings.HasSuffix(body, text[q:q+open]) && len(body) >= open {
		body = body[:len(body)-open]
	}
	offset := base + uint32(q+open)

	var out []fieldRange
	var scan func(s string, off uint32)
	scan = func(s string, off uint32) {
		for i := 0; i < len(s); i++ {
			switch s[i] {
			case '{':
				if i+1 < len(s) && s[i+1] == '{' {
					i++
					continue
				}
				end, specStart, close := fieldEnd(s, i+1)
				out = append(out, fieldRange{start: off + uint32(i+1), end: off + uint32(end)})
				if specStart >= 0 && specStart < close {
					// вложенные поля в спецификации формата: {x:{width}}
					scan(s[specStart:close], off+uint32(specStart))
				}
				i = close
			case '}':
				if i+1 < len(s) && s[i+1] == '}' {
					i++
				}
			}
		}
	}
	scan(body, offset)
	return out
}

// fieldEnd возвращает конец выражения (перед '!', ':', '=' или '}'), начало
// спецификации формата (или -1) и позицию закрывающей '}'.
func fieldEnd(s string, i int) (end, specStart, close int) {
	depth := 0
	end, specStart = -1, -1
	for ; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\'' || c == '"':
			j := strings.IndexByte(s[i+1:], c)
			if j < 0 {
				i = len(s) - 1
				continue
			}
			i += j + 1
		case c == '(' || c == '[' || c == '{':
			depth++
		case (c == ')' || c == ']') && depth > 0:
			depth--
		case c == '}' && depth > 0:
			depth--
		case depth == 0 && c == '}':
			if end < 0 {
				end = i
			}
			return end, specStart, i
		case depth == 0 && c == '!' && (i+1 >= len(s) || s[i+1] != '='):
			if end < 0 {
				end = i
			}
		case depth == 0 && c == '=' && i+1 < len(s) && (s[i+1] == '}' || s[i+1] == '!' || s[i+1] == ':') &&
			i > 0 && !strings.ContainsRune("=!<>", rune(s[i-1])):
			if end < 0 {
				end = i
			}
		case depth == 0 && c == ':' && end < 0:
			end = i
			specStart = i + 1
		case depth == 0 && c == ':' && specStart < 0:
			specStart = i + 1
		}
	}
	if end < 0 {
		end = len(s)
	}
	return end, specStart, len(s)
}
