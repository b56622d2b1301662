package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"tpyparser/internal/source"
	"tpyparser/internal/token"
)

type TokenOutput struct {
	Kind    string   `json:"kind" msgpack:"kind"`
	Text    string   `json:"text,omitempty" msgpack:"text,omitempty"`
	Line    uint32   `json:"line" msgpack:"line"`
	Column  uint32   `json:"column" msgpack:"column"`
	Start   uint32   `json:"start" msgpack:"start"`
	End     uint32   `json:"end" msgpack:"end"`
	Leading []string `json:"leading,omitempty" msgpack:"leading,omitempty"`
}

func leadingKinds(tok token.Token) []string {
	var out []string
	for _, tr := range tok.Leading {
		out = append(out, tr.Kind.String())
	}
	return out
}

// FormatTokensPretty выводит токены в человекочитаемом формате.
func FormatTokensPretty(w io.Writer, tokens []token.Token, f *source.File) error {
	for i, tok := range tokens {
		start, end := f.Position(tok.Span.Start), f.Position(tok.Span.End)
		if _, err := fmt.Fprintf(w, "%3d: %-15s", i+1, tok.Kind.String()); err != nil {
			return err
		}
		if tok.Text != "" {
			fmt.Fprintf(w, " %q", tok.Text)
		}
		fmt.Fprintf(w, " at %d:%d-%d:%d", start.Line, start.Column, end.Line, end.Column)
		if leading := leadingKinds(tok); len(leading) > 0 {
			fmt.Fprintf(w, " (leading: %s)", strings.Join(leading, ", "))
		}
		fmt.Fprintln(w)
		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// BuildTokensOutput converts tokens to the serialized form, stopping at EOF.
func BuildTokensOutput(tokens []token.Token, f *source.File) []TokenOutput {
	out := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		pos := f.Position(tok.Span.Start)
		out = append(out, TokenOutput{
			Kind:    tok.Kind.String(),
			Text:    tok.Text,
			Line:    pos.Line,
			Column:  pos.Column,
			Start:   tok.Span.Start,
			End:     tok.Span.End,
			Leading: leadingKinds(tok),
		})
		if tok.Kind == token.EOF {
			break
		}
	}
	return out
}

// FormatTokensJSON выводит токены в JSON формате.
func FormatTokensJSON(w io.Writer, tokens []token.Token, f *source.File) error {
	return encodeJSON(w, BuildTokensOutput(tokens, f))
}

func FormatTokensMsgpack(w io.Writer, tokens []token.Token, f *source.File) error {
	return encodeMsgpack(w, BuildTokensOutput(tokens, f))
}
