package completion

import (
	"strings"

	"tpyparser/internal/source"
	"tpyparser/internal/token"
)

// ContextKind says what kind of name is expected at the cursor.
type ContextKind uint8

const (
	ContextNone ContextKind = iota
	ContextScope
	ContextAttribute
	ContextImport     // "import a.b|" or "from a|"
	ContextFromImport // "from m import x|"
)

func (k ContextKind) String() string {
	switch k {
	case ContextScope:
		return "scope"
	case ContextAttribute:
		return "attribute"
	case ContextImport:
		return "import"
	case ContextFromImport:
		return "from-import"
	default:
		return "none"
	}
}

// Context is the token-level view of the cursor position.
type Context struct {
	Kind   ContextKind
	Prefix string // partial identifier ending at the cursor
	// Dot is the index of the '.' for ContextAttribute.
	Dot int
	// Module is the dotted module typed so far: "a.b." while completing
	// "import a.b.c", or the source module of "from m import".
	Module string
}

// classify inspects the tokens around off. A nil result means the cursor is
// somewhere no name can be completed: a string, a comment, a number, or a
// name being declared.
func classify(file *source.File, toks []token.Token, off uint32) *Context {
	if inComment(toks, off) {
		return nil
	}
	i := -1
	for j, t := range toks {
		if t.Span.Start >= off {
			break
		}
		switch t.Kind {
		case token.Indent, token.Dedent, token.EOF:
			continue
		}
		i = j
	}

	ctx := &Context{Kind: ContextScope, Dot: -1}
	prev := i
	if i >= 0 {
		t := toks[i]
		switch {
		case t.Kind == token.StringLit:
			if off < t.Span.End || (off == t.Span.End && unterminated(t.Text)) {
				return nil
			}
		case t.Kind == token.IntLit || t.Kind == token.FloatLit || t.Kind == token.ImagLit:
			if off <= t.Span.End {
				return nil
			}
		case (t.Kind == token.Ident || t.Kind.IsKeyword()) && off <= t.Span.End:
			ctx.Prefix = file.Text(source.Span{File: t.Span.File, Start: t.Span.Start, End: off})
			prev = i - 1
		}
	}
	for prev >= 0 && (toks[prev].Kind == token.Indent || toks[prev].Kind == token.Dedent) {
		prev--
	}
	if prev < 0 {
		return ctx
	}

	switch toks[prev].Kind {
	case token.KwDef, token.KwClass, token.KwAs:
		return nil
	case token.Newline, token.Semicolon:
		return ctx
	}

	if line := lineStart(toks, prev); toks[line].Kind == token.KwImport || toks[line].Kind == token.KwFrom {
		return importContext(toks, line, prev, ctx)
	}
	if toks[prev].Kind == token.Dot {
		ctx.Kind = ContextAttribute
		ctx.Dot = prev
	}
	return ctx
}

// importContext handles cursors on an import line.
func importContext(toks []token.Token, line, prev int, ctx *Context) *Context {
	importAt := -1
	for j := line; j <= prev; j++ {
		if toks[j].Kind == token.KwImport {
			importAt = j
		}
	}
	if toks[line].Kind == token.KwFrom && importAt >= 0 {
		ctx.Kind = ContextFromImport
		ctx.Module = dotted(toks[line+1 : importAt])
		return ctx
	}
	// модуль, набранный до курсора: от последней запятой или ключевого слова
	start := prev + 1
	for start-1 > line && (toks[start-1].Kind == token.Ident || toks[start-1].Kind == token.Dot) {
		start--
	}
	ctx.Kind = ContextImport
	ctx.Module = dotted(toks[start : prev+1])
	return ctx
}

func dotted(toks []token.Token) string {
	var b strings.Builder
	for _, t := range toks {
		switch t.Kind {
		case token.Ident, token.Dot:
			b.WriteString(t.Text)
		}
	}
	return b.String()
}

// lineStart returns the index of the first token of the logical line that
// contains toks[i].
func lineStart(toks []token.Token, i int) int {
	for j := i; j > 0; j-- {
		switch toks[j-1].Kind {
		case token.Newline, token.Indent, token.Dedent, token.Semicolon:
			return j
		}
	}
	return 0
}

func inComment(toks []token.Token, off uint32) bool {
	for _, t := range toks {
		for _, tr := range t.Leading {
			if tr.Kind == token.TriviaComment && tr.Span.Start < off && off <= tr.Span.End {
				return true
			}
		}
	}
	return false
}

// unterminated reports whether a string token lacks its closing quote.
func unterminated(text string) bool {
	i := strings.IndexAny(text, `'"`)
	if i < 0 {
		return true
	}
	body := text[i:]
	q := body[:1]
	if strings.HasPrefix(body, strings.Repeat(q, 3)) {
		q = strings.Repeat(q, 3)
	}
	if len(body) < 2*len(q) || !strings.HasSuffix(body, q) {
		return true
	}
	// "abc\": экранированная кавычка не закрывает строку
	n := 0
	for j := len(body) - len(q) - 1; j >= 0 && body[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}
