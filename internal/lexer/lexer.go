package lexer

import (
	"tpyparser/internal/source"
	"tpyparser/internal/token"
)

type indentLevel struct {
	col8 int // колонка при шаге табуляции 8
	col1 int // колонка при шаге табуляции 1
}

type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	hold   []token.Trivia // накопленные leading trivia
	queue  []token.Token  // синтезированные токены (INDENT/DEDENT/NEWLINE/EOF)

	indents     []indentLevel
	brackets    []token.Token // открытые скобки
	atLineStart bool
	lineHasToks bool
	fragment    bool // лексинг фрагмента (f-string): без NEWLINE/INDENT
	done        bool
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:        file,
		cursor:      NewCursor(file),
		opts:        opts,
		indents:     []indentLevel{{}},
		atLineStart: true,
	}
}

// NewFragment creates a lexer over [start, end) that behaves as if it were
// inside brackets: line breaks are insignificant and no indentation tokens are
// produced. Used for expressions embedded in f-strings.
func NewFragment(file *source.File, start, end uint32, opts Options) *Lexer {
	return &Lexer{
		file:     file,
		cursor:   NewCursorRange(file, start, end),
		opts:     opts,
		indents:  []indentLevel{{}},
		fragment: true,
	}
}

// Tokenize lexes the whole file; the result always ends with EOF.
func Tokenize(file *source.File, opts Options) []token.Token {
	return New(file, opts).All()
}

// All drains the lexer.
func (lx *Lexer) All() []token.Token {
	toks := make([]token.Token, 0, len(lx.file.Content)/3+4)
	for {
		tok := lx.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

// Next возвращает следующий значимый токен с уже собранным Leading.
// После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	for {
		if len(lx.queue) > 0 {
			tok := lx.queue[0]
			lx.queue = lx.queue[1:]
			return tok
		}
		if lx.done {
			return token.Token{Kind: token.EOF, Span: lx.emptySpan()}
		}
		if lx.atLineStart && !lx.fragment {
			lx.startLine()
			if len(lx.queue) > 0 || lx.done {
				continue
			}
		}

		lx.collectInlineTrivia()

		if lx.cursor.EOF() {
			lx.endOfInput()
			continue
		}

		if lx.cursor.Peek() == '\n' {
			if tok, ok := lx.lineBreak(); ok {
				return tok
			}
			continue
		}

		tok := lx.scanToken()
		tok.Leading = lx.hold
		lx.hold = nil
		lx.lineHasToks = true
		lx.trackBracket(tok)
		return tok
	}
}

func (lx *Lexer) scanToken() token.Token {
	ch := lx.cursor.Peek()
	switch {
	case isIdentStartByte(ch):
		if lx.atStringPrefix() {
			return lx.scanString()
		}
		return lx.scanIdentOrKeyword()
	case ch >= utf8RuneSelf:
		return lx.scanUnicode()
	case isDec(ch):
		return lx.scanNumber()
	case ch == '.' && lx.isNumberAfterDot():
		return lx.scanNumber()
	case ch == '"' || ch == '\'':
		return lx.scanString()
	default:
		return lx.scanOperatorOrPunct()
	}
}

// lineBreak обрабатывает '\n' вне комментария.
func (lx *Lexer) lineBreak() (token.Token, bool) {
	start := lx.cursor.Mark()
	if len(lx.brackets) > 0 || lx.fragment {
		// неявное продолжение строки внутри скобок
		lx.cursor.Bump()
		if !lx.fragment && lx.nextLineStartsStatement() {
			// незакрытая скобка не должна проглотить следующий оператор
			lx.brackets = lx.brackets[:0]
			return lx.newline(lx.cursor.SpanFrom(start)), true
		}
		lx.hold = append(lx.hold, lx.trivia(token.TriviaNewline, start))
		return token.Token{}, false
	}
	lx.cursor.Bump()
	if !lx.lineHasToks {
		lx.hold = append(lx.hold, lx.trivia(token.TriviaNewline, start))
		lx.atLineStart = true
		return token.Token{}, false
	}
	return lx.newline(lx.cursor.SpanFrom(start)), true
}

func (lx *Lexer) newline(sp source.Span) token.Token {
	lx.atLineStart = true
	lx.lineHasToks = false
	tok := token.Token{Kind: token.Newline, Span: sp, Text: "\n", Leading: lx.hold}
	lx.hold = nil
	return tok
}

// endOfInput ставит в очередь завершающие NEWLINE, DEDENT* и EOF.
func (lx *Lexer) endOfInput() {
	sp := lx.emptySpan()
	if lx.lineHasToks && !lx.fragment {
		lx.queue = append(lx.queue, lx.newline(sp))
	}
	for len(lx.indents) > 1 {
		lx.indents = lx.indents[:len(lx.indents)-1]
		lx.queue = append(lx.queue, token.Token{Kind: token.Dedent, Span: sp})
	}
	lx.queue = append(lx.queue, token.Token{Kind: token.EOF, Span: sp, Leading: lx.hold})
	lx.hold = nil
	lx.done = true
}

func (lx *Lexer) trackBracket(tok token.Token) {
	switch {
	case tok.Kind.IsOpenBracket():
		lx.brackets = append(lx.brackets, tok)
	case tok.Kind.IsCloseBracket():
		if n := len(lx.brackets); n > 0 {
			lx.brackets = lx.brackets[:n-1]
		}
	}
}

// nextLineStartsStatement смотрит вперёд (без потребления): начинается ли
// следующая непустая строка с ключевого слова, допустимого только в начале оператора.
func (lx *Lexer) nextLineStartsStatement() bool {
	content := lx.file.Content
	i := int(lx.cursor.Off)
	limit := int(lx.cursor.Limit)
	for i < limit {
		for i < limit && isInlineSpace(content[i]) {
			i++
		}
		if i >= limit {
			return false
		}
		switch content[i] {
		case '\n':
			i++
			continue
		case '#':
			for i < limit && content[i] != '\n' {
				i++
			}
			continue
		}
		j := i
		for j < limit && isIdentContinueByte(content[j]) {
			j++
		}
		if j == i {
			return false
		}
		k, ok := token.LookupKeyword(string(content[i:j]), lx.opts.Dialect)
		return ok && token.StatementOnlyKeyword(k)
	}
	return false
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) trivia(kind token.TriviaKind, start Mark) token.Trivia {
	sp := lx.cursor.SpanFrom(start)
	return token.Trivia{Kind: kind, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

func (lx *Lexer) text(sp source.Span) string {
	return string(lx.file.Content[sp.Start:sp.End])
}
