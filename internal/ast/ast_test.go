package ast

import (
	"testing"

	"tpyparser/internal/source"
)

func TestArenaIDsAreOneBased(t *testing.T) {
	a := NewArena[int](0)
	if got := a.Get(0); got != nil {
		t.Fatalf("Get(0) = %v, want nil", got)
	}
	id := a.Allocate(42)
	if id != 1 {
		t.Fatalf("first id = %d, want 1", id)
	}
	if *a.Get(id) != 42 {
		t.Fatalf("Get(%d) = %d", id, *a.Get(id))
	}
	if a.Len() != 1 {
		t.Fatalf("Len = %d", a.Len())
	}
	if got := a.Get(7); got != nil {
		t.Fatalf("Get past the end = %v, want nil", got)
	}
	a.Allocate(43)
	var ids []uint32
	for id, v := range a.All() {
		ids = append(ids, id)
		if *v != 41+int(id) {
			t.Fatalf("All yields %d for id %d", *v, id)
		}
	}
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 2 {
		t.Fatalf("All ids = %v", ids)
	}
}

func TestExprAccessorsCheckKind(t *testing.T) {
	e := NewExprs(0)
	sp := source.Span{Start: 0, End: 1}
	name := e.NewName(sp, "x")
	lit := e.NewLiteral(sp, LitInt, "1")

	if d, ok := e.Name(name); !ok || d.Name != "x" {
		t.Fatalf("Name(name) = %v, %v", d, ok)
	}
	if _, ok := e.Name(lit); ok {
		t.Fatalf("Name(literal) should fail")
	}
	if _, ok := e.Literal(NoExprID); ok {
		t.Fatalf("Literal(NoExprID) should fail")
	}
	if _, ok := e.Name(ExprID(999)); ok {
		t.Fatalf("out of range id should fail")
	}

	list := e.NewSeq(ExprList, sp, []ExprID{name, lit})
	if d, ok := e.Seq(list); !ok || len(d.Elts) != 2 {
		t.Fatalf("Seq(list) = %v, %v", d, ok)
	}
	star := e.NewValue(ExprStarred, sp, name)
	if d, ok := e.Value(star); !ok || d.Value != name {
		t.Fatalf("Value(star) = %v, %v", d, ok)
	}
}

func TestChildrenOrder(t *testing.T) {
	e := NewExprs(0)
	sp := source.Span{}
	a := e.NewName(sp, "a")
	b := e.NewName(sp, "b")
	c := e.NewName(sp, "c")
	call := e.NewCall(sp, a, []Arg{{Kind: ArgPositional, Value: b}, {Kind: ArgKeyword, Name: "k", Value: c}})

	got := e.Children(call)
	want := []ExprID{a, b, c}
	if len(got) != len(want) {
		t.Fatalf("children = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("children[%d] = %d, want %d", i, got[i], want[i])
		}
	}

	slice := e.NewSlice(sp, NoExprID, b, NoExprID)
	if got := e.Children(slice); len(got) != 1 || got[0] != b {
		t.Fatalf("slice children = %v", got)
	}
}

func buildSample() *Tree {
	// if x:
	//     pass
	// else:
	//     y = 1
	src := "if x:\n    pass\nelse:\n    y = 1\n"
	f := source.NewVirtualFile("sample.py", src)
	b := NewBuilder(Hints{})
	x := b.Exprs.NewName(f.Span(3, 4), "x")
	pass := b.Stmts.New(StmtPass, f.Span(10, 14))
	y := b.Exprs.NewName(f.Span(25, 26), "y")
	one := b.Exprs.NewLiteral(f.Span(29, 30), LitInt, "1")
	assign := b.Stmts.NewAssign(f.Span(25, 30), []ExprID{y}, one)
	ifs := b.Stmts.NewIf(f.Span(0, 30), x, []StmtID{pass}, []StmtID{assign})
	return b.Finish(f, []StmtID{ifs})
}

func TestInspectStmtsVisitsNested(t *testing.T) {
	tree := buildSample()
	var kinds []StmtKind
	tree.InspectStmts(func(id StmtID, _ int) bool {
		kinds = append(kinds, tree.Stmt(id).Kind)
		return true
	})
	want := []StmtKind{StmtIf, StmtPass, StmtAssign}
	if len(kinds) != len(want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("kinds[%d] = %v, want %v", i, kinds[i], want[i])
		}
	}
	if tree.StmtCount() != 3 {
		t.Fatalf("StmtCount = %d", tree.StmtCount())
	}
}

func TestExportPositions(t *testing.T) {
	tree := buildSample()
	root := tree.Export()
	if root.Kind != "Module" || len(root.Children) != 1 {
		t.Fatalf("root = %+v", root)
	}
	if st := root.Children[0]; st.Line != 1 || st.Column != 0 {
		t.Fatalf("if node = %+v, want line 1 column 0", st)
	}
	var names []*Node
	root.Walk(func(n *Node) bool {
		if n.Kind == "Name" {
			names = append(names, n)
		}
		return true
	})
	if len(names) != 2 {
		t.Fatalf("found %d Name nodes", len(names))
	}
	y := names[1]
	if y.Name != "y" || y.Line != 4 || y.Column != 4 {
		t.Fatalf("y node = %+v, want line 4 column 4", y)
	}
}

func TestPatternBindings(t *testing.T) {
	p := NewPatterns(0)
	a := p.New(Pattern{Kind: PatCapture, Name: "a"})
	w := p.New(Pattern{Kind: PatWildcard, Name: "_"})
	rest := p.New(Pattern{Kind: PatStar, Name: "rest"})
	seq := p.New(Pattern{Kind: PatSequence, Patterns: []PatternID{a, w, rest}})
	as := p.New(Pattern{Kind: PatAs, Name: "whole", Patterns: []PatternID{seq}})

	got := p.Bindings(as)
	want := []string{"a", "rest", "whole"}
	if len(got) != len(want) {
		t.Fatalf("bindings = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("bindings[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestAliasBound(t *testing.T) {
	cases := []struct {
		alias Alias
		want  string
	}{
		{Alias{Name: "math"}, "math"},
		{Alias{Name: "os.path"}, "os"},
		{Alias{Name: "os.path", AsName: "p"}, "p"},
	}
	for _, tc := range cases {
		if got := tc.alias.Bound(); got != tc.want {
			t.Errorf("%+v.Bound() = %q, want %q", tc.alias, got, tc.want)
		}
	}
}
