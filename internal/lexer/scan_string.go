package lexer

import (
	"strings"

	"tpyparser/internal/diag"
	"tpyparser/internal/token"
)

var stringPrefixes = map[string]bool{
	"r": true, "u": true, "b": true, "f": true,
	"br": true, "rb": true, "fr": true, "rf": true, "ur": true,
}

// atStringPrefix: курсор на префиксе строки (r, b, f, rb, ...) сразу перед кавычкой?
func (lx *Lexer) atStringPrefix() bool {
	content := lx.file.Content
	limit := int(lx.cursor.Limit)
	i := int(lx.cursor.Off)
	j := i
	for j < limit && j-i < 3 && isIdentStartByte(content[j]) {
		j++
	}
	if j == i || j >= limit || !stringPrefixes[strings.ToLower(string(content[i:j]))] {
		return false
	}
	if content[j] == '"' || content[j] == '\'' {
		return true
	}
	r, q := lx.quoteAt(uint32(j))
	return r != 0 && q != 0
}

// quoteAt распознаёт типографскую кавычку в позиции off.
func (lx *Lexer) quoteAt(off uint32) (rune, byte) {
	save := lx.cursor.Off
	lx.cursor.Off = off
	r, _ := lx.peekRune()
	lx.cursor.Off = save
	if t, ok := punctuationFor(r); ok && (t == "\"" || t == "'") {
		return r, t[0]
	}
	return 0, 0
}

// scanString: префикс, одинарные/тройные кавычки, escape-последовательности
// пропускаются без глубокой валидации. Незакрытая строка: диагностика, но
// токен остаётся StringLit, чтобы парсер продолжил разбор.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	for isIdentStartByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}

	var quote byte
	smart := false
	switch b := lx.cursor.Peek(); b {
	case '"', '\'':
		quote = b
		lx.cursor.Bump()
	default:
		qStart := lx.cursor.Mark()
		r, q := lx.quoteAt(lx.cursor.Off)
		lx.bumpRune()
		quote, smart = q, true
		lx.reportPunctuation(lx.cursor.SpanFrom(qStart), r, string(q), true)
	}

	triple := false
	if !smart {
		if lx.cursor.Peek() == quote && lx.cursor.PeekAt(1) == quote {
			lx.cursor.Bump()
			lx.cursor.Bump()
			triple = true
		}
	}

	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case b == '\\':
			lx.cursor.Bump()
			lx.cursor.Eat('\r')
			lx.cursor.Bump()
			continue
		case b == '\n' && !triple:
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexUnterminatedString, sp)
			return token.Token{Kind: token.StringLit, Span: sp, Text: lx.text(sp)}
		case b == quote:
			if !triple {
				lx.cursor.Bump()
				return lx.stringToken(start)
			}
			if lx.tryOp(string([]byte{quote, quote, quote})) {
				return lx.stringToken(start)
			}
			lx.cursor.Bump()
			continue
		case b >= utf8RuneSelf && smart:
			qStart := lx.cursor.Mark()
			if r, q := lx.quoteAt(lx.cursor.Off); q == quote {
				lx.bumpRune()
				lx.reportPunctuation(lx.cursor.SpanFrom(qStart), r, string(q), false)
				return lx.stringToken(start)
			}
			lx.bumpRune()
			continue
		}
		lx.cursor.Bump()
	}

	// EOF без закрывающей кавычки
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedString, sp)
	return token.Token{Kind: token.StringLit, Span: sp, Text: lx.text(sp)}
}

func (lx *Lexer) stringToken(start Mark) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.StringLit, Span: sp, Text: lx.text(sp)}
}
