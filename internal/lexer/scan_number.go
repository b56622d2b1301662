package lexer

import (
	"strings"

	"tpyparser/internal/diag"
	"tpyparser/internal/token"
)

// Поддержка: 0, 123, 1_000, 0b..., 0o..., 0x..., 1.0, 1e-3, .5, 3j,
// а также Python 2: 10L и 0777.
// Неверные формы: репорт, токен по возможности завершаем.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit
	bad := false

	digits := func(ok func(byte) bool) int {
		return lx.cursor.EatWhile(func(b byte) bool { return b == '_' || ok(b) })
	}

	if lx.cursor.Peek() == '0' {
		var valid func(byte) bool
		switch lx.cursor.PeekAt(1) {
		case 'x', 'X':
			valid = isHex
		case 'o', 'O':
			valid = func(b byte) bool { return b >= '0' && b <= '7' }
		case 'b', 'B':
			valid = func(b byte) bool { return b == '0' || b == '1' }
		}
		if valid != nil {
			lx.cursor.Bump()
			lx.cursor.Bump()
			if digits(valid) == 0 {
				bad = true
			}
			return lx.finishNumber(start, token.IntLit, bad)
		}
	}

	digits(isDec)
	if lx.cursor.Peek() == '.' {
		// Python читает "1." как float
		if lx.cursor.PeekAt(1) != '.' {
			lx.cursor.Bump()
			kind = token.FloatLit
			digits(isDec)
		}
	}
	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		mark := lx.cursor.Mark()
		lx.cursor.Bump()
		if s := lx.cursor.Peek(); s == '+' || s == '-' {
			lx.cursor.Bump()
		}
		if digits(isDec) == 0 {
			// "1e" без порядка: хвост уйдёт в finishNumber как ошибка
			lx.cursor.Reset(mark)
		} else {
			kind = token.FloatLit
		}
	}
	if b := lx.cursor.Peek(); b == 'j' || b == 'J' {
		lx.cursor.Bump()
		kind = token.ImagLit
	}
	return lx.finishNumber(start, kind, bad)
}

func (lx *Lexer) finishNumber(start Mark, kind token.Kind, bad bool) token.Token {
	long := false
	if b := lx.cursor.Peek(); kind == token.IntLit && (b == 'l' || b == 'L') {
		lx.cursor.Bump()
		long = true
	}
	// "1abc": хвост идентификатора, прилипший к числу
	for isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
		bad = true
	}
	sp := lx.cursor.SpanFrom(start)
	text := lx.text(sp)

	if bad || strings.HasSuffix(strings.TrimRight(text, "lLjJ"), "_") || strings.Contains(text, "__") {
		lx.errLex(diag.LexBadNumber, sp, text)
		return token.Token{Kind: kind, Span: sp, Text: text}
	}
	if lx.opts.Dialect.PythonVersion >= 3 {
		if long || isLegacyOctal(text, kind) {
			lx.errLex(diag.LexPy2Number, sp, text)
		}
	}
	return token.Token{Kind: kind, Span: sp, Text: text}
}

// isLegacyOctal: "0777" (но не "0", "00" или "0.5").
func isLegacyOctal(text string, kind token.Kind) bool {
	if kind != token.IntLit || len(text) < 2 || text[0] != '0' {
		return false
	}
	digits := strings.TrimRight(text, "lL")
	return strings.Trim(digits, "0_") != "" && isDec(digits[1])
}
