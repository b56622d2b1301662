package symbols

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"tpyparser/internal/ast"
	"tpyparser/internal/diag"
	"tpyparser/internal/parser"
	"tpyparser/internal/source"
	"tpyparser/internal/token"
)

const pointSrc = `import math
x = 1
class Point:
    def __init__(self, x, y):
        self.x = x
        self.y = y
    def norm(self):
        return 0
def f(a, b=2, *args, c, **kw):
    total = a
    return total
p = Point(1, 2)
`

func parse(t *testing.T, input string) *ast.Tree {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.py", []byte(input)))
	res := parser.ParseFile(file, parser.Options{
		Dialect:  token.Dialect{PythonVersion: 3},
		Reporter: diag.BagReporter{Bag: diag.NewBag(0)},
	})
	return res.Tree
}

func names(list []*Symbol) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		out = append(out, s.Name)
	}
	return out
}

func scopeAt(t *testing.T, tbl *Table, src, marker string) ScopeID {
	t.Helper()
	off := strings.Index(src, marker)
	if off < 0 {
		t.Fatalf("marker %q not found", marker)
	}
	return tbl.Innermost(uint32(off))
}

func TestCollectModuleScope(t *testing.T) {
	tbl := Collect(parse(t, pointSrc))
	root := tbl.Scopes.Get(tbl.Root)
	if diff := cmp.Diff([]string{"math", "x", "Point", "f", "p"}, names(root.Symbols)); diff != "" {
		t.Fatalf("module symbols mismatch (-want +got):\n%s", diff)
	}
	if got := root.NameIndex["math"]; got.Kind != SymbolModule || got.Module != "math" {
		t.Fatalf("math = %+v", got)
	}
}

func TestClassMembersAndSignature(t *testing.T) {
	tbl := Collect(parse(t, pointSrc))
	point := tbl.Lookup(tbl.Root, "Point")
	if point == nil || point.Kind != SymbolClass {
		t.Fatalf("Point not collected: %+v", point)
	}
	if diff := cmp.Diff([]string{"__init__", "norm", "x", "y"}, names(point.Members)); diff != "" {
		t.Fatalf("members mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"x", "y"}, point.Signature.Params()); diff != "" {
		t.Fatalf("constructor params mismatch (-want +got):\n%s", diff)
	}
	if !point.Signature.FirstParamIsSelfOrCls {
		t.Fatalf("expected self flag on __init__ signature")
	}
}

func TestFunctionScopeLookup(t *testing.T) {
	tbl := Collect(parse(t, pointSrc))
	fn := scopeAt(t, tbl, pointSrc, "total = a")
	if k := tbl.Scopes.Get(fn).Kind; k != ScopeFunction {
		t.Fatalf("innermost scope kind = %v, want function", k)
	}
	for _, name := range []string{"total", "a", "kw", "x", "Point"} {
		if tbl.Lookup(fn, name) == nil {
			t.Errorf("%s not visible inside f", name)
		}
	}
	if s := tbl.Lookup(fn, "a"); s.Kind != SymbolParam {
		t.Errorf("a kind = %v, want param", s.Kind)
	}
	if tbl.Lookup(tbl.Root, "total") != nil {
		t.Errorf("local leaked to module scope")
	}
}

func TestClassBodyHiddenFromMethods(t *testing.T) {
	tbl := Collect(parse(t, pointSrc))
	norm := scopeAt(t, tbl, pointSrc, "return 0")
	self := tbl.Lookup(norm, "self")
	if self == nil || self.Type != "Point" {
		t.Fatalf("self = %+v, want type Point", self)
	}
	if tbl.Lookup(norm, "norm") != nil {
		t.Fatalf("class attribute visible as a bare name inside a method")
	}
	if cls := tbl.EnclosingClass(norm); cls == nil || cls.Name != "Point" {
		t.Fatalf("EnclosingClass = %v", cls)
	}
}

func TestShadowing(t *testing.T) {
	src := "x = 1\ndef g(x):\n    y = x\n"
	tbl := Collect(parse(t, src))
	g := scopeAt(t, tbl, src, "y = x")
	visible := tbl.Visible(g)
	var kinds []SymbolKind
	for _, s := range visible {
		if s.Name == "x" {
			kinds = append(kinds, s.Kind)
		}
	}
	if diff := cmp.Diff([]SymbolKind{SymbolParam}, kinds); diff != "" {
		t.Fatalf("x resolution mismatch (-want +got):\n%s", diff)
	}
}

func TestComprehensionAndWalrus(t *testing.T) {
	src := "def h(items):\n    out = [v for v in items if (n := v)]\n    return n\n"
	tbl := Collect(parse(t, src))
	h := scopeAt(t, tbl, src, "return n")
	if tbl.Lookup(h, "n") == nil {
		t.Fatalf("walrus target must bind in the enclosing function")
	}
	if tbl.Lookup(h, "v") != nil {
		t.Fatalf("comprehension variable leaked into the function")
	}
	comp := scopeAt(t, tbl, src, "v for")
	if tbl.Scopes.Get(comp).Kind != ScopeComprehension || tbl.Lookup(comp, "v") == nil {
		t.Fatalf("comprehension scope missing its target")
	}
}

func TestImports(t *testing.T) {
	src := "import os.path\nimport numpy as np\nfrom shapes import area as a\nfrom turtle import *\n"
	tbl := Collect(parse(t, src))
	os := tbl.Lookup(tbl.Root, "os")
	if os == nil || os.Module != "os" {
		t.Fatalf("os = %+v", os)
	}
	if np := tbl.Lookup(tbl.Root, "np"); np == nil || np.Module != "numpy" {
		t.Fatalf("np = %+v", np)
	}
	a := tbl.Lookup(tbl.Root, "a")
	if a == nil || a.Kind != SymbolImportRef || a.Module != "shapes" || a.Import != "area" {
		t.Fatalf("a = %+v", a)
	}
	if diff := cmp.Diff([]string{"turtle"}, tbl.StarImports); diff != "" {
		t.Fatalf("star imports mismatch (-want +got):\n%s", diff)
	}
}

func TestBrokenBodyStillCollected(t *testing.T) {
	src := "def f(a):\n    y = (a +\n    z = 3\n"
	tbl := Collect(parse(t, src))
	if tbl.Lookup(tbl.Root, "f") == nil {
		t.Fatalf("f missing after recovery")
	}
	inner := tbl.Innermost(uint32(len(src) - 1))
	if tbl.Lookup(inner, "a") == nil {
		t.Fatalf("parameter not visible at end of broken body")
	}
}

func TestSignatureRendering(t *testing.T) {
	tree := parse(t, "def f(p, /, a: int, b=2, *args, c, d: str = 'x', **kw) -> float:\n    pass\n")
	tbl := Collect(tree)
	sig := tbl.Lookup(tbl.Root, "f").Signature
	if got, want := sig.String(), "(p, /, a: int, b=2, *args, c, d: str = 'x', **kw) -> float"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
	if diff := cmp.Diff([]string{"p", "a", "b", "*args", "c", "d", "**kw"}, sig.Params()); diff != "" {
		t.Fatalf("Params mismatch (-want +got):\n%s", diff)
	}
	if !sig.PositionalOrKeyword[1].HasDefault || sig.PositionalOrKeyword[1].Default != "2" {
		t.Fatalf("default of b lost: %+v", sig.PositionalOrKeyword[1])
	}
}

// fakeResolver: минимальный набор builtins и модулей.
type fakeResolver struct {
	builtins map[string]*Symbol
	modules  map[string]*Symbol
}

func (r fakeResolver) Builtin(name string) *Symbol { return r.builtins[name] }
func (r fakeResolver) Module(name string) *Symbol  { return r.modules[name] }

func newFakeResolver() fakeResolver {
	class := func(name string, members ...string) *Symbol {
		s := &Symbol{Name: name, Kind: SymbolClass, Provenance: ProvBuiltin}
		for _, m := range members {
			s.Members = append(s.Members, &Symbol{Name: m, Kind: SymbolFunction, Provenance: ProvBuiltin})
		}
		return s
	}
	float := class("float", "is_integer")
	str := class("str", "upper", "lower")
	math := &Symbol{Name: "math", Kind: SymbolModule, Provenance: ProvStub, Members: []*Symbol{
		{Name: "sqrt", Kind: SymbolFunction, Module: "math", Signature: &Signature{
			PositionalOrKeyword: []Arg{{Name: "x"}}, Returns: "float",
		}},
		{Name: "pi", Kind: SymbolVariable, Type: "float", Module: "math"},
	}}
	return fakeResolver{
		builtins: map[string]*Symbol{"float": float, "str": str, "int": class("int", "bit_length"), "len": {Name: "len", Kind: SymbolFunction}},
		modules:  map[string]*Symbol{"math": math},
	}
}

func lastExpr(t *testing.T, tree *ast.Tree) ast.ExprID {
	t.Helper()
	id := tree.Body[len(tree.Body)-1]
	v, ok := tree.Stmts.Value(id)
	if !ok || tree.Stmt(id).Kind != ast.StmtExpr {
		t.Fatalf("last statement is not an expression")
	}
	return v.Value
}

func TestInferTypes(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"string literal", "s = 'abc'\ns\n", "str"},
		{"module call return", "import math\nr = math.sqrt(2)\nr\n", "float"},
		{"module variable", "import math\nmath.pi\n", "float"},
		{"from import", "from math import sqrt\nsqrt(4)\n", "float"},
		{"constructor", "class A:\n    pass\na = A()\na\n", "A"},
		{"annotated", "n: int = f()\nn\n", "int"},
		{"instance attribute", pointSrc + "p.x\n", ""},
		{"self attribute type", "class B:\n    def __init__(self):\n        self.name = 'b'\nB().name\n", "str"},
		{"inherited method", "class A:\n    def m(self) -> str:\n        pass\nclass C(A):\n    pass\nC().m()\n", "str"},
		{"unknown", "q\n", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := parse(t, tt.src)
			in := &Inferrer{Tree: tree, Table: Collect(tree), Resolver: newFakeResolver()}
			got := in.TypeOf(in.Table.Root, lastExpr(t, tree))
			name := ""
			if got != nil {
				name = got.Name
			}
			if name != tt.want {
				t.Fatalf("TypeOf = %q, want %q", name, tt.want)
			}
		})
	}
}

func TestMembersIncludeBases(t *testing.T) {
	src := "class A:\n    def a(self):\n        pass\nclass B(A):\n    def b(self):\n        pass\n"
	tree := parse(t, src)
	in := &Inferrer{Tree: tree, Table: Collect(tree)}
	b := in.Lookup(in.Table.Root, "B")
	if diff := cmp.Diff([]string{"b", "a"}, names(in.Members(b))); diff != "" {
		t.Fatalf("members mismatch (-want +got):\n%s", diff)
	}
}

func TestCyclicBasesTerminate(t *testing.T) {
	src := "class A(B):\n    pass\nclass B(A):\n    pass\n"
	tree := parse(t, src)
	in := &Inferrer{Tree: tree, Table: Collect(tree)}
	_ = in.Members(in.Lookup(in.Table.Root, "A"))
}
