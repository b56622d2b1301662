package lexer

import (
	"golang.org/x/text/width"

	"tpyparser/internal/diag"
	"tpyparser/internal/source"
	"tpyparser/internal/token"
)

// Типографские и «похожие» символы, которые ученики часто вставляют из
// текстовых редакторов. Полноширинные формы (！, （, ＝ ...) сворачиваются
// через width.Fold и в таблице не перечислены.
var punctuation = map[rune]string{
	'“': "\"", '”': "\"", '„': "\"", '‟': "\"", '«': "\"", '»': "\"",
	'″': "\"", '‘': "'", '’': "'", '‚': "'", '‛': "'", '′': "'",
	'´': "'", '‹': "'", '›': "'",
	'–': "-", '—': "-", '−': "-", '‐': "-", '‑': "-",
	'×': "*", '⋅': "*", '∗': "*", '÷': "/", '⁄': "/", '∕': "/",
	'≤': "<=", '≥': ">=", '≠': "!=", '≡': "==", '≔': ":=",
	'→': "->", '…': "...", '、': ",", '。': ".", '·': "*",
	'∶': ":", 'ː': ":", ';': ";",
}

// punctuationFor returns the ASCII replacement for a look-alike rune.
func punctuationFor(r rune) (string, bool) {
	if r < utf8RuneSelf {
		return "", false
	}
	if t, ok := punctuation[r]; ok {
		return t, true
	}
	folded := width.Fold.String(string(r))
	if len(folded) == 1 && folded[0] < utf8RuneSelf && !isIdentContinueByte(folded[0]) && folded[0] > ' ' {
		return folded, true
	}
	return "", false
}

// scanUnicode разбирает не-ASCII символ вне строки и комментария.
func (lx *Lexer) scanUnicode() token.Token {
	r, _ := lx.peekRune()
	if isIdentStartRune(r) {
		return lx.scanIdentOrKeyword()
	}
	t, ok := punctuationFor(r)
	if ok && (t == "\"" || t == "'") {
		return lx.scanString()
	}

	start := lx.cursor.Mark()
	lx.bumpRune()
	sp := lx.cursor.SpanFrom(start)
	if !ok {
		text := lx.text(sp)
		lx.errLex(diag.LexInvalidChar, sp, text)
		return token.Token{Kind: token.Invalid, Span: sp, Text: text}
	}

	lx.reportPunctuation(sp, r, t, true)
	if k, known := operators[t]; known && lx.opts.TranslateUnicodePunctuation {
		return token.Token{Kind: k, Span: sp, Text: t}
	}
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}

// reportPunctuation: при включённой трансляции: предупреждение на каждую
// замену, иначе ошибка (только для первой кавычки строки, primary == true).
func (lx *Lexer) reportPunctuation(sp source.Span, r rune, replacement string, primary bool) {
	if lx.opts.TranslateUnicodePunctuation {
		lx.warnLex(diag.LexPunctuationReplaced, sp, describeRune(r), replacement)
		return
	}
	switch {
	case !primary:
	case replacement == `"` || replacement == "'":
		// закрывающая кавычка тоже типографская, одна правка строку не починит
		lx.errLex(diag.LexUnicodePunctuation, sp, describeRune(r), replacement)
	default:
		lx.errReplace(diag.LexUnicodePunctuation, sp, replacement, describeRune(r), replacement)
	}
}
