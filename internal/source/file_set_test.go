package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAddVirtualLineIdx(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.py", []byte("a\nb\n"))
	file := fs.Get(id)

	if len(file.LineIdx) != 2 || file.LineIdx[0] != 1 || file.LineIdx[1] != 3 {
		t.Fatalf("unexpected line index: %v", file.LineIdx)
	}
	if file.Flags&FileVirtual == 0 {
		t.Errorf("expected FileVirtual flag")
	}
}

func TestAddKeepsEveryVersion(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("pkg/../test.py", []byte("x = 1"), 0)
	id2 := fs.Add("test.py", []byte("x = 2"), 0)
	if id1 == id2 || fs.Len() != 2 {
		t.Fatalf("ids = %d, %d; len = %d", id1, id2, fs.Len())
	}
	if got := fs.Get(id1).Path; got != "test.py" {
		t.Errorf("path = %q, want cleaned", got)
	}
	if string(fs.Get(id1).Content) != "x = 1" {
		t.Errorf("old version must stay reachable")
	}
}

func TestPositionCountsCodePoints(t *testing.T) {
	f := NewVirtualFile("u.py", "s = 'äö'\nx = ü + 1\n")
	// "ü" is preceded by four code points on line 2.
	off := uint32(len("s = 'äö'\nx = "))
	pos := f.Position(off)
	if pos.Line != 2 || pos.Column != 4 {
		t.Fatalf("Position(%d) = %+v, want line 2 column 4", off, pos)
	}

	after := off + uint32(len("ü"))
	if pos := f.Position(after); pos.Column != 5 {
		t.Fatalf("Position after ü = %+v, want column 5", pos)
	}
}

func TestPositionAtNewlineAndEOF(t *testing.T) {
	f := NewVirtualFile("n.py", "ab\ncd")
	if pos := f.Position(2); pos.Line != 1 || pos.Column != 2 {
		t.Errorf("newline position = %+v", pos)
	}
	if pos := f.Position(3); pos.Line != 2 || pos.Column != 0 {
		t.Errorf("line start position = %+v", pos)
	}
	if pos := f.Position(f.Len()); pos.Line != 2 || pos.Column != 2 {
		t.Errorf("EOF position = %+v", pos)
	}
}

func TestByteOffset(t *testing.T) {
	f := NewVirtualFile("b.py", "aé b")
	cases := []struct {
		runes int
		want  uint32
		ok    bool
	}{
		{0, 0, true},
		{1, 1, true},
		{2, 3, true},
		{4, 5, true},
		{5, 0, false},
		{-1, 0, false},
	}
	for _, tc := range cases {
		got, ok := f.ByteOffset(tc.runes)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Errorf("ByteOffset(%d) = %d, %v; want %d, %v", tc.runes, got, ok, tc.want, tc.ok)
		}
	}
}

func TestGetLine(t *testing.T) {
	f := NewVirtualFile("l.py", "first\nsecond\n")
	if got := f.GetLine(1); got != "first" {
		t.Errorf("line 1 = %q", got)
	}
	if got := f.GetLine(2); got != "second" {
		t.Errorf("line 2 = %q", got)
	}
	if got := f.GetLine(3); got != "" {
		t.Errorf("line 3 = %q", got)
	}
	if got := f.GetLine(9); got != "" {
		t.Errorf("line 9 = %q", got)
	}
}

func TestLoadNormalizesCRLFAndBOM(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crlf.py")
	if err := os.WriteFile(path, []byte("\xEF\xBB\xBFa = 1\r\nb = 2\r\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	file := fs.Get(id)
	if string(file.Content) != "a = 1\nb = 2\n" {
		t.Errorf("content = %q", file.Content)
	}
	if file.Flags&FileHadBOM == 0 || file.Flags&FileNormalizedNewlines == 0 {
		t.Errorf("flags = %b", file.Flags)
	}
}

func TestDecodeLoneCarriageReturn(t *testing.T) {
	content, flags := decode([]byte("a = 1\rb = 2\r\n"))
	if string(content) != "a = 1\nb = 2\n" {
		t.Errorf("content = %q", content)
	}
	if flags != FileNormalizedNewlines {
		t.Errorf("flags = %b", flags)
	}
	if _, flags := decode([]byte("x\n")); flags != 0 {
		t.Errorf("clean input flagged: %b", flags)
	}
}

func TestLineCol(t *testing.T) {
	f := NewVirtualFile("c.py", "ab\n\tcd")
	if lc := f.LineCol(4); lc.Line != 2 || lc.Col != 2 {
		t.Errorf("LineCol(4) = %+v", lc)
	}
}
