package messages

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"tpyparser/internal/diag"
)

func TestEveryCodeHasEnglishTemplate(t *testing.T) {
	cats, err := Builtin()
	if err != nil {
		t.Fatalf("Builtin: %v", err)
	}
	for lang, cat := range cats {
		for _, c := range diag.Codes() {
			if _, ok := cat.Messages[c.ID()]; !ok {
				t.Errorf("%s: no template for %s", lang, c.ID())
			}
		}
	}
}

func TestLanguages(t *testing.T) {
	r := MustRegistry()
	got := r.Languages()
	want := []string{"de", "en", "fr"}
	if len(got) != len(want) {
		t.Fatalf("Languages = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Languages = %v, want %v", got, want)
		}
	}
	if r.Language() != "en" {
		t.Errorf("default language = %q", r.Language())
	}
}

func TestSetLanguage(t *testing.T) {
	r := MustRegistry()
	if err := r.SetLanguage("de-CH"); err != nil {
		t.Fatalf("SetLanguage(de-CH): %v", err)
	}
	if r.Language() != "de" {
		t.Fatalf("language = %q", r.Language())
	}

	err := r.SetLanguage("xx")
	var ule *UnknownLanguageError
	if !errors.As(err, &ule) || ule.Language != "xx" {
		t.Fatalf("expected UnknownLanguageError, got %v", err)
	}
	if r.Language() != "de" {
		t.Fatalf("failed SetLanguage must not change state, got %q", r.Language())
	}
}

func TestFallbackChain(t *testing.T) {
	r := MustRegistry()
	if got := r.Render("E009", []string{"'if'"}); got != "missing ':' after 'if'" {
		t.Errorf("builtin = %q", got)
	}

	r.SetMessage("E001", "Custom: {0}")
	if got := r.Render("E001", []string{"'x'"}); got != "Custom: 'x'" {
		t.Errorf("override = %q", got)
	}

	// переопределение действует только для активного языка
	if err := r.SetLanguage("fr"); err != nil {
		t.Fatal(err)
	}
	if got := r.Render("E001", []string{"'x'"}); got == "Custom: 'x'" {
		t.Errorf("override leaked into fr")
	}

	// язык без шаблона -> язык по умолчанию
	r.AddCatalog(&Catalog{Language: "it", Messages: map[string]string{}})
	if err := r.SetLanguage("it"); err != nil {
		t.Fatal(err)
	}
	if got := r.Render("E001", []string{"'x'"}); got != "Custom: 'x'" {
		t.Errorf("default-language override = %q", got)
	}

	if got := r.Render("E999", nil); got != "unknown error E999" {
		t.Errorf("generic = %q", got)
	}
}

func TestUnknownCodeOverrideIsStored(t *testing.T) {
	r := MustRegistry()
	r.SetMessage("e777", "later {code}")
	if got := r.Render("E777", nil); got != "later E777" {
		t.Errorf("Render = %q", got)
	}
}

func TestFormat(t *testing.T) {
	cases := []struct {
		tmpl string
		args []string
		want string
	}{
		{"plain", nil, "plain"},
		{"{0} and {1}", []string{"a", "b"}, "a and b"},
		{"{1}{0}", []string{"a", "b"}, "ba"},
		{"missing {2}!", []string{"a"}, "missing !"},
		{"{code}: {0}", []string{"x"}, "E001: x"},
		{"set {x} {", nil, "set {x} {"},
	}
	for _, tc := range cases {
		if got := Format(tc.tmpl, "E001", tc.args); got != tc.want {
			t.Errorf("Format(%q) = %q, want %q", tc.tmpl, got, tc.want)
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	r := MustRegistry()
	c := r.Clone()
	c.SetMessage("E001", "clone")
	if r.Render("E001", []string{"x"}) == "clone" {
		t.Fatalf("clone shares overrides")
	}
}

func TestLoadCatalogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "it.toml")
	data := "language = \"it\"\nname = \"Italiano\"\n[messages]\nE001 = \"sintassi non valida: {0}\"\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	c, err := LoadCatalogFile(path)
	if err != nil {
		t.Fatalf("LoadCatalogFile: %v", err)
	}
	r := MustRegistry()
	r.AddCatalog(c)
	if err := r.SetLanguage("it"); err != nil {
		t.Fatal(err)
	}
	if got := r.Render("E001", []string{"x"}); got != "sintassi non valida: x" {
		t.Errorf("Render = %q", got)
	}
	if r.LanguageName("it") != "Italiano" {
		t.Errorf("name = %q", r.LanguageName("it"))
	}
}
