package parser

import (
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"tpyparser/internal/ast"
	"tpyparser/internal/diag"
	"tpyparser/internal/source"
	"tpyparser/internal/token"
)

var py2 = Options{Dialect: token.Dialect{PythonVersion: 2}}

func py3() Options {
	return Options{Dialect: token.Dialect{PythonVersion: 3}}
}

func parseSource(t *testing.T, input string) (*ast.Tree, *diag.Bag) {
	return parseSourceWithOptions(t, input, py3())
}

func parseSourceWithOptions(t *testing.T, input string, opts Options) (*ast.Tree, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.py", []byte(input)))
	bag := diag.NewBag(100)
	opts.Reporter = diag.BagReporter{Bag: bag}
	res := ParseFile(file, opts)
	if res.Tree == nil {
		t.Fatalf("ParseFile returned nil tree")
	}
	bag.Sort()
	return res.Tree, bag
}

func codes(bag *diag.Bag) []string {
	out := make([]string, 0, bag.Len())
	for _, d := range bag.Items() {
		out = append(out, d.Code.ID())
	}
	return out
}

func diagnosticsSummary(bag *diag.Bag) string {
	if bag.Len() == 0 {
		return "<none>"
	}
	lines := make([]string, 0, bag.Len())
	for _, d := range bag.Items() {
		lines = append(lines, fmt.Sprintf("[%s] %s %v", d.Code.ID(), d.Primary, d.Args))
	}
	return strings.Join(lines, "; ")
}

func TestRecoveryDiagnostics(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  Options
		want  []string
	}{
		{"clean module", "import math\nx = math.sqrt(2)\nif x > 1:\n    print(x)\n", py3(), nil},
		{"bad parameter list", "def f(:\n    pass\n", py3(), []string{"E019"}},
		{"missing colon", "if x\n    pass\n", py3(), []string{"E009"}},
		{"missing colon on def", "def f()\n    return 1\n", py3(), []string{"E009"}},
		{"assignment in condition", "if x = 1:\n    pass\n", py3(), []string{"E030"}},
		{"orphan else", "else:\n    pass\n", py3(), []string{"E022"}},
		{"try without handler", "try:\n    pass\nx = 1\n", py3(), []string{"E023"}},
		{"unclosed bracket before def", "x = (1, 2\ndef f():\n    pass\n", py3(), []string{"E010"}},
		{"unmatched bracket", "x = )\n", py3(), []string{"E011"}},
		{"duplicate argument", "def f(a, a):\n    pass\n", py3(), []string{"E024"}},
		{"default order", "def f(a=1, b):\n    pass\n", py3(), []string{"E029"}},
		{"keyword as name", "def class():\n    pass\n", py3(), []string{"E031"}},
		{"missing comma", "x = [1 2]\n", py3(), []string{"E028"}},
		{"call is not a target", "f() = 3\n", py3(), []string{"E020"}},
		{"expected indent", "if x:\npass\n", py3(), []string{"E008"}},
		{"unexpected indent", "x = 1\n    y = 2\n", py3(), []string{"E007"}},
		{"print statement in python 3", "print 'hi'\n", py3(), []string{"E014"}},
		{"print statement in python 2", "print 'hi'\n", py2, nil},
		{"print chevron in python 2", "print >>f, 'hi',\n", py2, nil},
		{"exec in python 2", "exec code in g, l\n", py2, nil},
		{"except comma in python 2", "try:\n    pass\nexcept E, e:\n    pass\n", py2, nil},
		{"one error per statement", "x = = = 3\n", py3(), []string{"E001"}},
		{"errors on separate lines", "x = = 3\ny = 4\nz = )\n", py3(), []string{"E001", "E011"}},
		{"smart quotes", "print(\u201chi\u201d)\n", py3(), []string{"E003"}},
		{"walrus and lambda", "if (n := len(a)) > 10:\n    f = lambda x, *a, k=1, **kw: x\n", py3(), nil},
		{"comprehensions", "y = [i * j for i in range(3) if i for j in range(i)]\nd = {k: v for k, v in d.items()}\n", py3(), nil},
		{"decorated class", "@dataclass\nclass P(Base, metaclass=M):\n    '''doc'''\n    x: int = 0\n", py3(), nil},
		{"try except else finally", "try:\n    f()\nexcept (A, B) as e:\n    raise X from e\nelse:\n    pass\nfinally:\n    g()\n", py3(), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, bag := parseSourceWithOptions(t, tt.input, tt.opts)
			if diff := cmp.Diff(tt.want, codes(bag), cmpEmpty); diff != "" {
				t.Fatalf("codes mismatch (-want +got):\n%s\nall: %s", diff, diagnosticsSummary(bag))
			}
		})
	}
}

// nil и пустой срез считаем равными
var cmpEmpty = cmp.Comparer(func(a, b []string) bool {
	return slices.Equal(a, b)
})

func TestBadParameterListKeepsBody(t *testing.T) {
	tree, bag := parseSource(t, "def f(:\n    pass\n")
	if bag.Len() != 1 {
		t.Fatalf("want exactly one diagnostic, got %s", diagnosticsSummary(bag))
	}
	d := bag.Items()[0]
	if d.Code != diag.SynBadParameters || d.Primary.Start != 6 {
		t.Fatalf("unexpected diagnostic %s", diagnosticsSummary(bag))
	}
	if len(tree.Body) != 1 {
		t.Fatalf("want one top-level statement, got %d", len(tree.Body))
	}
	fn, ok := tree.Stmts.FuncDef(tree.Body[0])
	if !ok || fn.Name != "f" {
		t.Fatalf("expected def f, got %v", tree.Stmt(tree.Body[0]).Kind)
	}
	if len(fn.Body) != 1 || tree.Stmt(fn.Body[0]).Kind != ast.StmtPass {
		t.Fatalf("pass statement lost from body")
	}
}

func TestFailedHeaderKeepsNestedBlock(t *testing.T) {
	tree, bag := parseSource(t, "for 1 in x:\n    y = 2\n")
	if !bag.HasErrors() {
		t.Fatalf("expected an error")
	}
	found := false
	tree.InspectStmts(func(id ast.StmtID, _ int) bool {
		if a, ok := tree.Stmts.Assign(id); ok {
			if n, ok := tree.Exprs.Name(a.Targets[0]); ok && n.Name == "y" {
				found = true
			}
		}
		return true
	})
	if !found {
		t.Fatalf("assignment inside failed for-loop was dropped")
	}
}

func TestTopLevelStatementCount(t *testing.T) {
	input := `import os
from math import (sin, cos)
x = 1; y = 2
def f(a, b=2, *args, c, **kw):
    return a

class C:
    pass

for i in range(3):
    print(i)
else:
    pass
with open(p) as fh, lock:
    pass
`
	tree, bag := parseSource(t, input)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(bag))
	}
	if len(tree.Body) != 8 {
		t.Fatalf("want 8 top-level statements, got %d", len(tree.Body))
	}
	fn, _ := tree.Stmts.FuncDef(tree.Body[4])
	if fn == nil {
		t.Fatalf("statement 4 is %v", tree.Stmt(tree.Body[4]).Kind)
	}
	if len(fn.Params.Args) != 2 || fn.Params.VarArg == nil || len(fn.Params.KwOnly) != 1 || fn.Params.KwArg == nil {
		t.Fatalf("unexpected params: %+v", fn.Params)
	}
}

func TestPython3PrintSynthesizesCall(t *testing.T) {
	tree, _ := parseSource(t, "print 'a', b\n")
	v, ok := tree.Stmts.Value(tree.Body[0])
	if !ok {
		t.Fatalf("expected expression statement")
	}
	call, ok := tree.Exprs.Call(v.Value)
	if !ok || len(call.Args) != 2 {
		t.Fatalf("expected print call with 2 args")
	}
}

func TestEvalMode(t *testing.T) {
	opts := py3()
	opts.EvalMode = true
	_, bag := parseSourceWithOptions(t, "1 + 2 * x\n", opts)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(bag))
	}
	_, bag = parseSourceWithOptions(t, "1 + 2\nx = 3\n", opts)
	if diff := cmp.Diff([]string{"E027"}, codes(bag)); diff != "" {
		t.Fatalf("codes mismatch (-want +got):\n%s", diff)
	}
}

func TestSagePower(t *testing.T) {
	opts := py3()
	opts.SagePower = true
	tree, bag := parseSourceWithOptions(t, "y = x ^ 2\n", opts)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(bag))
	}
	a, _ := tree.Stmts.Assign(tree.Body[0])
	bin, ok := tree.Exprs.Binary(a.Value)
	if !ok || bin.Op != ast.OpPow {
		t.Fatalf("'^' must parse as power under sage mode")
	}
}

func TestRepeatStatement(t *testing.T) {
	opts := py3()
	opts.Dialect.RepeatStatement = true
	tree, bag := parseSourceWithOptions(t, "repeat 4:\n    forward(100)\n", opts)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(bag))
	}
	if r, ok := tree.Stmts.Repeat(tree.Body[0]); !ok || len(r.Body) != 1 {
		t.Fatalf("expected repeat with one statement")
	}
}

func TestMatchStatement(t *testing.T) {
	input := `match cmd:
    case [a, *rest] as whole if a:
        pass
    case {"k": 1, **others}:
        pass
    case Point(0, y=-1) | None:
        pass
    case _:
        pass
`
	tree, bag := parseSource(t, input)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(bag))
	}
	m, ok := tree.Stmts.Match(tree.Body[0])
	if !ok {
		t.Fatalf("expected match statement, got %v", tree.Stmt(tree.Body[0]).Kind)
	}
	if len(m.Cases) != 4 {
		t.Fatalf("want 4 cases, got %d", len(m.Cases))
	}
	if diff := cmp.Diff([]string{"a", "rest", "whole"}, tree.Patterns.Bindings(m.Cases[0].Pattern)); diff != "" {
		t.Fatalf("bindings mismatch (-want +got):\n%s", diff)
	}
	if !m.Cases[0].Guard.IsValid() {
		t.Fatalf("guard lost")
	}
	wantKinds := []ast.PatternKind{ast.PatAs, ast.PatMapping, ast.PatOr, ast.PatWildcard}
	for i, c := range m.Cases {
		if got := tree.Patterns.Get(c.Pattern).Kind; got != wantKinds[i] {
			t.Errorf("case %d: pattern kind %v, want %v", i, got, wantKinds[i])
		}
	}
}

func TestMatchAsIdentifier(t *testing.T) {
	tree, bag := parseSource(t, "match = 3\nmatch.x = 1\n")
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(bag))
	}
	for _, id := range tree.Body {
		if tree.Stmt(id).Kind != ast.StmtAssign {
			t.Fatalf("match used as a name must stay an assignment")
		}
	}
}

func TestFStringFields(t *testing.T) {
	tree, bag := parseSource(t, "s = f\"a{x + 1}b{y}\"\n")
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(bag))
	}
	a, _ := tree.Stmts.Assign(tree.Body[0])
	fs, ok := tree.Exprs.FString(a.Value)
	if !ok {
		t.Fatalf("expected f-string, got %v", tree.Expr(a.Value).Kind)
	}
	if len(fs.Values) != 2 {
		t.Fatalf("want 2 embedded expressions, got %d", len(fs.Values))
	}
	first := tree.Expr(fs.Values[0])
	if first.Kind != ast.ExprBinary || tree.Text(first.Span) != "x + 1" {
		t.Fatalf("embedded expression has wrong span: %q", tree.Text(first.Span))
	}
}

func TestDepthLimit(t *testing.T) {
	input := "x = " + strings.Repeat("(", 500) + "1\n"
	_, bag := parseSource(t, input)
	if diff := cmp.Diff([]string{"E012"}, codes(bag)); diff != "" {
		t.Fatalf("codes mismatch (-want +got):\n%s", diff)
	}
}

func TestPathologicalInputTerminates(t *testing.T) {
	inputs := []string{
		")]}:=,,\n\t\t  @@@ def (((\n",
		strings.Repeat("[{(", 300),
		strings.Repeat("else:\n", 50),
		"\x00\x01 $ ? `",
		strings.Repeat("if x:\n ", 100),
		"lambda: lambda: lambda",
		"class\ndef\nimport\nfrom . import",
	}
	for _, in := range inputs {
		_, bag := parseSource(t, in)
		if !bag.HasErrors() {
			t.Errorf("%q: expected diagnostics", in)
		}
	}
}

func TestStringValue(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`'abc'`, "abc"},
		{`"a\nb"`, "a\nb"},
		{`r'a\n'`, `a\n`},
		{`'''doc'''`, "doc"},
		{`'ab' "cd"`, "abcd"},
		{`b'\x41'`, "A"},
	}
	for _, tt := range tests {
		if got := StringValue(tt.in); got != tt.want {
			t.Errorf("StringValue(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
