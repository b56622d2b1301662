package token_test

import (
	"testing"

	"tpyparser/internal/token"
)

func TestLookupKeywordDialects(t *testing.T) {
	py2 := token.Dialect{PythonVersion: 2}
	py3 := token.Dialect{PythonVersion: 3}
	tests := []struct {
		word    string
		dialect token.Dialect
		want    token.Kind
		ok      bool
	}{
		{"def", py3, token.KwDef, true},
		{"print", py2, token.KwPrint, true},
		{"print", py3, token.Ident, false},
		{"exec", py3, token.Ident, false},
		{"nonlocal", py2, token.Ident, false},
		{"nonlocal", py3, token.KwNonlocal, true},
		{"repeat", py3, token.Ident, false},
		{"repeat", token.Dialect{PythonVersion: 3, RepeatStatement: true}, token.KwRepeat, true},
		{"match", py3, token.Ident, false},
		{"Def", py3, token.Ident, false},
	}
	for _, tt := range tests {
		got, ok := token.LookupKeyword(tt.word, tt.dialect)
		if got != tt.want || ok != tt.ok {
			t.Errorf("LookupKeyword(%q, %+v) = %v, %v; want %v, %v", tt.word, tt.dialect, got, ok, tt.want, tt.ok)
		}
	}
}

func TestKindString(t *testing.T) {
	cases := map[token.Kind]string{
		token.KwDef:       "def",
		token.KwNone:      "None",
		token.DoubleSlash: "//",
		token.ColonEq:     ":=",
		token.Newline:     "NEWLINE",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", k, got, want)
		}
	}
}

func TestKindClasses(t *testing.T) {
	if !token.KwYield.IsKeyword() || token.Ident.IsKeyword() || token.Plus.IsKeyword() {
		t.Fatalf("IsKeyword classification broken")
	}
	if !token.ShrAssign.IsAugAssign() || token.Assign.IsAugAssign() {
		t.Fatalf("IsAugAssign classification broken")
	}
	if token.LBracket.Closing() != token.RBracket || token.Comma.Closing() != token.Invalid {
		t.Fatalf("Closing mapping broken")
	}
}

func TestStringPrefix(t *testing.T) {
	cases := []struct {
		text   string
		prefix string
		fstr   bool
	}{
		{`"plain"`, "", false},
		{`rb'\d'`, "rb", false},
		{`F"{x}"`, "f", true},
		{`Rf'''{x}'''`, "rf", true},
	}
	for _, tc := range cases {
		tok := token.Token{Kind: token.StringLit, Text: tc.text}
		if got := tok.StringPrefix(); got != tc.prefix {
			t.Errorf("StringPrefix(%s) = %q, want %q", tc.text, got, tc.prefix)
		}
		if got := tok.IsFString(); got != tc.fstr {
			t.Errorf("IsFString(%s) = %v", tc.text, got)
		}
	}
}
