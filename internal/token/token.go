package token

import (
	"strings"

	"tpyparser/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsLiteral reports whether the token is a numeric or string literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, FloatLit, ImagLit, StringLit:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	return t.Kind.IsKeyword()
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// IsStatementEnd reports whether the token closes a logical line.
func (t Token) IsStatementEnd() bool {
	return t.Kind == Newline || t.Kind == EOF || t.Kind == Semicolon
}

// StringPrefix returns the lowercase prefix letters of a string literal ("rb", "f", ...).
func (t Token) StringPrefix() string {
	if t.Kind != StringLit {
		return ""
	}
	i := strings.IndexAny(t.Text, "'\"")
	if i <= 0 {
		return ""
	}
	return strings.ToLower(t.Text[:i])
}

// IsFString reports whether the token is a formatted string literal.
func (t Token) IsFString() bool {
	return strings.ContainsRune(t.StringPrefix(), 'f')
}

// Describe renders the token for diagnostics: "'+'", "name 'x'", "end of line".
func (t Token) Describe() string {
	switch t.Kind {
	case Ident:
		return "name '" + t.Text + "'"
	case IntLit, FloatLit, ImagLit:
		return "number " + t.Text
	case StringLit:
		return "string"
	case Newline:
		return "end of line"
	case EOF:
		return "end of input"
	case Indent:
		return "indent"
	case Dedent:
		return "dedent"
	case Invalid:
		return "'" + t.Text + "'"
	}
	return "'" + t.Kind.String() + "'"
}
