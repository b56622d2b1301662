package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"tpyparser/internal/diag"
	"tpyparser/internal/source"
)

func divisionBag(path, src string) (*diag.Bag, *source.FileSet) {
	fs := source.NewFileSet()
	id := fs.AddVirtual(path, []byte(src))
	bag := diag.NewBag(10)
	start := uint32(strings.Index(src, "1 / 0"))
	bag.Add(diag.New(diag.SevWarning, diag.SemDivisionByZero, source.Span{File: id, Start: start, End: start + 5}))
	return bag, fs
}

func TestPrettyCaretUnderline(t *testing.T) {
	bag, fs := divisionBag("prog.py", "x = 1 / 0\n")
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})

	want := "prog.py:1:5: warning W002: Division by zero\n" +
		"1 | x = 1 / 0\n" +
		"  |     ^~~~~\n"
	if got := buf.String(); got != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrettyWideCharacters(t *testing.T) {
	// "数" занимает две экранные колонки
	bag, fs := divisionBag("prog.py", "数 = 1 / 0\n")
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})
	lines := strings.Split(buf.String(), "\n")
	if !strings.HasPrefix(lines[0], "prog.py:1:5:") {
		t.Errorf("header uses code point columns: %q", lines[0])
	}
	if lines[2] != "  |      ^~~~~" {
		t.Errorf("caret line = %q", lines[2])
	}
}

func TestPrettyMessageHook(t *testing.T) {
	bag, fs := divisionBag("prog.py", "x = 1 / 0\n")
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Message: func(d diag.Diagnostic) string {
		return "деление на ноль"
	}})
	if !strings.Contains(buf.String(), "W002: деление на ноль") {
		t.Errorf("hook ignored:\n%s", buf.String())
	}
}

func TestPrettyContextLines(t *testing.T) {
	bag, fs := divisionBag("prog.py", "a = 1\nx = 1 / 0\nb = 2\n")
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1})
	out := buf.String()
	for _, want := range []string{"1 | a = 1", "2 | x = 1 / 0", "3 | b = 2"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestPathModes(t *testing.T) {
	tests := []struct {
		name     string
		pathMode PathMode
		want     string
	}{
		{"as is", PathModeAsIs, "lessons/week1/prog.py"},
		{"basename", PathModeBasename, "prog.py:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bag, fs := divisionBag("lessons/week1/prog.py", "x = 1 / 0\n")
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.pathMode})
			out := buf.String()
			if !strings.HasPrefix(out, tt.want) {
				t.Errorf("expected %q prefix, got %q", tt.want, out)
			}
			if tt.pathMode == PathModeBasename && strings.Contains(out, "week1") {
				t.Errorf("basename mode leaked directory: %q", out)
			}
		})
	}
}

func TestPrettyColor(t *testing.T) {
	bag, fs := divisionBag("prog.py", "x = 1 / 0\n")
	var plain, colored bytes.Buffer
	Pretty(&plain, bag, fs, PrettyOpts{})
	Pretty(&colored, bag, fs, PrettyOpts{Color: true})
	if strings.Contains(plain.String(), "\x1b[") {
		t.Errorf("escape codes without Color: %q", plain.String())
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Errorf("no escape codes with Color: %q", colored.String())
	}
}

func TestShort(t *testing.T) {
	bag, fs := divisionBag("prog.py", "y = 2\nx = 1 / 0\n")
	var buf bytes.Buffer
	Short(&buf, bag, fs, PrettyOpts{})
	if got, want := buf.String(), "prog.py:2:5: W002 Division by zero\n"; got != want {
		t.Errorf("Short() = %q, want %q", got, want)
	}
}
