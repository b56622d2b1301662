package lexer

import (
	"tpyparser/internal/diag"
	"tpyparser/internal/token"
)

const tabSize = 8

// startLine пропускает пустые строки и строки-комментарии, затем сравнивает
// отступ первой значимой строки со стеком и ставит INDENT/DEDENT в очередь.
func (lx *Lexer) startLine() {
	for {
		start := lx.cursor.Mark()
		col8, col1 := lx.scanIndentation()
		if lx.cursor.Off > uint32(start) {
			lx.hold = append(lx.hold, lx.trivia(token.TriviaSpace, start))
		}
		if lx.cursor.EOF() {
			lx.atLineStart = false
			return
		}
		switch lx.cursor.Peek() {
		case '\n':
			nl := lx.cursor.Mark()
			lx.cursor.Bump()
			lx.hold = append(lx.hold, lx.trivia(token.TriviaNewline, nl))
			continue
		case '#':
			lx.scanComment()
			continue
		}
		lx.atLineStart = false
		lx.applyIndent(col8, col1)
		return
	}
}

// scanIndentation потребляет ведущие пробелы/табы и возвращает ширину отступа
// в двух метриках; их расхождение означает неоднозначное смешение.
func (lx *Lexer) scanIndentation() (col8, col1 int) {
	for !lx.cursor.EOF() {
		switch lx.cursor.Peek() {
		case ' ':
			col8++
			col1++
		case '\t':
			col8 = (col8/tabSize + 1) * tabSize
			col1++
		case '\f':
			col8, col1 = 0, 0
		case '\r':
		default:
			return col8, col1
		}
		lx.cursor.Bump()
	}
	return col8, col1
}

func (lx *Lexer) applyIndent(col8, col1 int) {
	at := lx.emptySpan()
	top := lx.indents[len(lx.indents)-1]

	switch {
	case col8 == top.col8:
		if col1 != top.col1 {
			lx.errLex(diag.LexTabsSpacesMix, at)
		}
	case col8 > top.col8:
		if col1 <= top.col1 {
			lx.errLex(diag.LexTabsSpacesMix, at)
		}
		lx.indents = append(lx.indents, indentLevel{col8: col8, col1: col1})
		lx.queue = append(lx.queue, token.Token{Kind: token.Indent, Span: at})
	default:
		for len(lx.indents) > 1 && lx.indents[len(lx.indents)-1].col8 > col8 {
			lx.indents = lx.indents[:len(lx.indents)-1]
			lx.queue = append(lx.queue, token.Token{Kind: token.Dedent, Span: at})
		}
		top = lx.indents[len(lx.indents)-1]
		switch {
		case top.col8 != col8:
			lx.errLex(diag.LexBadDedent, at)
		case top.col1 != col1:
			lx.errLex(diag.LexTabsSpacesMix, at)
		}
	}
}

// Depth returns the current indentation depth (number of open blocks).
func (lx *Lexer) Depth() int {
	return len(lx.indents) - 1
}
