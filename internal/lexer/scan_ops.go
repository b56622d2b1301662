package lexer

import (
	"tpyparser/internal/diag"
	"tpyparser/internal/token"
)

var operators = map[string]token.Kind{
	"**=": token.DoubleStarAssign, "//=": token.DoubleSlashAssign, ">>=": token.ShrAssign,
	"<<=": token.ShlAssign, "...": token.Ellipsis,

	"**": token.DoubleStar, "//": token.DoubleSlash, "<<": token.Shl, ">>": token.Shr,
	"<=": token.LtEq, ">=": token.GtEq, "==": token.EqEq, "!=": token.NotEq, "<>": token.LtGt,
	"->": token.Arrow, ":=": token.ColonEq, "+=": token.PlusAssign, "-=": token.MinusAssign,
	"*=": token.StarAssign, "/=": token.SlashAssign, "%=": token.PercentAssign,
	"@=": token.AtAssign, "&=": token.AmpAssign, "|=": token.PipeAssign, "^=": token.CaretAssign,

	"+": token.Plus, "-": token.Minus, "*": token.Star, "/": token.Slash, "%": token.Percent,
	"@": token.At, "&": token.Amp, "|": token.Pipe, "^": token.Caret, "~": token.Tilde,
	"<": token.Lt, ">": token.Gt, "(": token.LParen, ")": token.RParen, "[": token.LBracket,
	"]": token.RBracket, "{": token.LBrace, "}": token.RBrace, ",": token.Comma,
	":": token.Colon, ".": token.Dot, ";": token.Semicolon, "=": token.Assign, "`": token.Backtick,
}

// Жадность: сначала 3-символьные, затем 2-символьные, затем 1-символьные.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	content := lx.file.Content
	limit := lx.cursor.Limit
	for n := uint32(3); n >= 1; n-- {
		end := lx.cursor.Off + n
		if end > limit {
			continue
		}
		text := string(content[lx.cursor.Off:end])
		k, ok := operators[text]
		if !ok {
			continue
		}
		if k == token.LtGt && lx.opts.Dialect.PythonVersion >= 3 {
			continue
		}
		if k == token.Backtick && lx.opts.Dialect.PythonVersion >= 3 {
			break
		}
		lx.cursor.Off = end
		return token.Token{Kind: k, Span: lx.cursor.SpanFrom(start), Text: text}
	}

	// неизвестный символ: '$', '?', '!', одиночный '\' ...
	lx.bumpRune()
	sp := lx.cursor.SpanFrom(start)
	text := lx.text(sp)
	lx.errLex(diag.LexInvalidChar, sp, text)
	return token.Token{Kind: token.Invalid, Span: sp, Text: text}
}
