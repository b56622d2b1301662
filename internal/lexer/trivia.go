package lexer

import (
	"unicode"

	"tpyparser/internal/diag"
	"tpyparser/internal/token"
)

// collectInlineTrivia собирает trivia внутри строки:
// - ' ', '\t', '\r', '\f' коалесцируются в один TriviaSpace
// - '#...' до '\n' -> TriviaComment
// - '\' + '\n' -> TriviaContinuation (явное продолжение строки)
// - юникодные пробелы (NBSP и т.п.) считаются пробелом с диагностикой
func (lx *Lexer) collectInlineTrivia() {
	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()
		b := lx.cursor.Peek()

		switch {
		case b == ' ' || b == '\t' || b == '\r' || b == '\f':
			lx.cursor.EatWhile(isInlineSpace)
			lx.hold = append(lx.hold, lx.trivia(token.TriviaSpace, start))
			continue

		case b == '#':
			lx.scanComment()
			continue

		case b == '\\':
			if lx.atContinuation() {
				continue
			}

		case b >= utf8RuneSelf:
			if lx.scanUnicodeSpace() {
				continue
			}
		}
		return
	}
}

func (lx *Lexer) scanComment() {
	start := lx.cursor.Mark()
	lx.cursor.EatWhile(func(b byte) bool { return b != '\n' })
	lx.hold = append(lx.hold, lx.trivia(token.TriviaComment, start))
}

// atContinuation потребляет "\\\n" (допускается "\\\r\n").
func (lx *Lexer) atContinuation() bool {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	lx.cursor.Eat('\r')
	if lx.cursor.Eat('\n') {
		lx.hold = append(lx.hold, lx.trivia(token.TriviaContinuation, start))
		return true
	}
	lx.cursor.Reset(start)
	return false
}

func (lx *Lexer) scanUnicodeSpace() bool {
	r, _ := lx.peekRune()
	if !unicode.IsSpace(r) {
		return false
	}
	start := lx.cursor.Mark()
	lx.bumpRune()
	sp := lx.cursor.SpanFrom(start)
	if lx.opts.TranslateUnicodePunctuation {
		lx.warnLex(diag.LexPunctuationReplaced, sp, describeRune(r), " ")
	} else {
		lx.errReplace(diag.LexUnicodePunctuation, sp, " ", describeRune(r), " ")
	}
	lx.hold = append(lx.hold, lx.trivia(token.TriviaSpace, start))
	return true
}

func isInlineSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\f'
}
