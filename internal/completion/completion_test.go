package completion

import (
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"tpyparser/internal/modules"
	"tpyparser/internal/parser"
	"tpyparser/internal/source"
	"tpyparser/internal/symbols"
	"tpyparser/internal/token"
)

var py3 = token.Dialect{PythonVersion: 3}

func registry() *modules.Registry {
	r := modules.NewRegistry()
	r.Define("shapes", "def area(radius) -> float: ...\nclass Circle:\n    r: float\n", modules.FormatStub)
	r.Define("os", "def getcwd() -> str: ...\n", modules.FormatStub)
	r.Define("os.path", "def join(a, *p) -> str: ...\n", modules.FormatStub)
	return r
}

// complete runs a request at the end of src.
func complete(t *testing.T, src string, filter bool) *Result {
	t.Helper()
	return completeAt(t, src, uint32(len(src)), filter)
}

func completeAt(t *testing.T, src string, off uint32, filter bool) *Result {
	t.Helper()
	file := source.NewVirtualFile("test.py", src)
	res := parser.ParseFile(file, parser.Options{Dialect: py3})
	return Complete(file, res.Tree, res.Tokens, off, Options{Modules: registry(), Dialect: py3, Filter: filter})
}

func find(r *Result, name string) *Candidate {
	for i := range r.Items {
		if r.Items[i].Name == name {
			return &r.Items[i]
		}
	}
	return nil
}

func TestModuleAttribute(t *testing.T) {
	src := "import shapes\nshapes.ar"
	r := completeAt(t, src, 23, true)
	if r == nil {
		t.Fatalf("no completion context")
	}
	if r.Context.Kind != ContextAttribute || r.Context.Prefix != "ar" {
		t.Fatalf("context = %+v", r.Context)
	}
	if diff := cmp.Diff([]string{"area"}, r.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	area := r.Items[0]
	if area.Kind != symbols.SymbolFunction || area.Type != "function" {
		t.Errorf("area = %+v", area)
	}
	if diff := cmp.Diff([]string{"radius"}, area.Params()); diff != "" {
		t.Errorf("params mismatch (-want +got):\n%s", diff)
	}
	if area.Signature.Returns != "float" {
		t.Errorf("returns = %q", area.Signature.Returns)
	}
}

func TestModuleAttributeWithoutPrefix(t *testing.T) {
	r := complete(t, "import shapes\nshapes.", false)
	if diff := cmp.Diff([]string{"area", "Circle"}, r.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if c := r.Items[1]; c.Kind != symbols.SymbolClass || c.Type != "class" {
		t.Errorf("Circle = %+v", c)
	}
}

func TestSubmoduleAttribute(t *testing.T) {
	r := complete(t, "import os\nos.", false)
	if diff := cmp.Diff([]string{"getcwd", "path"}, r.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestNoContext(t *testing.T) {
	tests := []struct {
		name string
		src  string
		off  int // -1: end of src
	}{
		{"comment", "x = 1  # co", -1},
		{"unterminated string", `s = "ab`, -1},
		{"inside string", `s = "abc" + t`, 7},
		{"number", "x = 12", -1},
		{"def name", "def fo", -1},
		{"class name", "class Sha", -1},
		{"as name", "import math as m", -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			off := tt.off
			if off < 0 {
				off = len(tt.src)
			}
			if r := completeAt(t, tt.src, uint32(off), true); r != nil {
				t.Fatalf("expected no context, got %+v", r.Context)
			}
		})
	}
}

func TestAfterClosedString(t *testing.T) {
	r := complete(t, `s = "abc"`, false)
	if r == nil || r.Context.Kind != ContextScope {
		t.Fatalf("expected scope context after a closed string, got %+v", r)
	}
}

func TestStringLiteralMembers(t *testing.T) {
	r := complete(t, `"abc".up`, true)
	if diff := cmp.Diff([]string{"upper"}, r.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestImportContext(t *testing.T) {
	r := complete(t, "import ma", true)
	if r.Context.Kind != ContextImport {
		t.Fatalf("context = %+v", r.Context)
	}
	if diff := cmp.Diff([]string{"math"}, r.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}

	r = complete(t, "import os.", false)
	if diff := cmp.Diff([]string{"path"}, r.Names()); diff != "" {
		t.Fatalf("dotted import mismatch (-want +got):\n%s", diff)
	}

	r = complete(t, "from sha", true)
	if diff := cmp.Diff([]string{"shapes"}, r.Names()); diff != "" {
		t.Fatalf("from mismatch (-want +got):\n%s", diff)
	}
}

func TestFromImportContext(t *testing.T) {
	r := complete(t, "from math import sq", true)
	if r.Context.Kind != ContextFromImport || r.Context.Module != "math" {
		t.Fatalf("context = %+v", r.Context)
	}
	if diff := cmp.Diff([]string{"sqrt"}, r.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestSelfAttributes(t *testing.T) {
	src := `class Point:
    def __init__(self, x):
        self.x = x
        self.y = 0
    def norm(self):
        return self.`
	r := complete(t, src, false)
	if diff := cmp.Diff([]string{"norm", "x", "y"}, r.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if got := find(r, "y").Type; got != "int" {
		t.Errorf("y type = %q, want int", got)
	}

	r = complete(t, src[:len(src)-len("self.")]+"self.__", false)
	if find(r, "__init__") == nil {
		t.Errorf("dunder must be offered once the prefix starts with __: %v", r.Names())
	}
}

func TestInstanceMembers(t *testing.T) {
	src := "import shapes\nc = shapes.Circle()\nc."
	r := complete(t, src, false)
	if diff := cmp.Diff([]string{"r"}, r.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if got := r.Items[0].Type; got != "float" {
		t.Errorf("r type = %q, want float", got)
	}
}

func TestScopeNames(t *testing.T) {
	src := "count = 1\ndef go(limit):\n    co"
	r := complete(t, src, true)
	if r.Context.Kind != ContextScope || r.Context.Prefix != "co" {
		t.Fatalf("context = %+v", r.Context)
	}
	for _, want := range []string{"count", "complex", "continue"} {
		if find(r, want) == nil {
			t.Errorf("%s missing from %v", want, r.Names())
		}
	}
	if c := find(r, "continue"); c != nil && (c.Kind != symbols.SymbolKeyword || c.Type != "keyword") {
		t.Errorf("continue = %+v", c)
	}

	r = complete(t, "count = 1\ndef go(limit):\n    li", true)
	if diff := cmp.Diff([]string{"limit", "list"}, r.Names()); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestLocalShadowsBuiltin(t *testing.T) {
	r := complete(t, "len = 3\nle", true)
	c := find(r, "len")
	if c == nil {
		t.Fatalf("len missing")
	}
	if c.Kind != symbols.SymbolVariable || c.Provenance != symbols.ProvLocal || c.Type != "int" {
		t.Errorf("len = %+v", c)
	}
	n := 0
	for _, name := range r.Names() {
		if name == "len" {
			n++
		}
	}
	if n != 1 {
		t.Errorf("len offered %d times", n)
	}
}

func TestRankingIsCaseInsensitive(t *testing.T) {
	r := complete(t, "Zeta = 1\nalpha = 2\n", false)
	names := r.Names()
	a, z := slices.Index(names, "alpha"), slices.Index(names, "Zeta")
	if a < 0 || z < 0 || a > z {
		t.Fatalf("alpha at %d, Zeta at %d", a, z)
	}
	if !slices.IsSortedFunc(r.Items, func(x, y Candidate) int {
		return strings.Compare(strings.ToLower(x.Name), strings.ToLower(y.Name))
	}) {
		t.Errorf("items not sorted: %v", names)
	}
}

func TestUnknownReceiver(t *testing.T) {
	r := complete(t, "mystery.", false)
	if r == nil || r.Context.Kind != ContextAttribute {
		t.Fatalf("context = %+v", r)
	}
	if r.Items != nil && len(r.Items) != 0 {
		t.Fatalf("expected no candidates, got %v", r.Names())
	}
}

func TestStarImport(t *testing.T) {
	r := complete(t, "from shapes import *\nar", true)
	c := find(r, "area")
	if c == nil || c.Provenance != symbols.ProvStub {
		t.Fatalf("area from star import = %+v", c)
	}
}
