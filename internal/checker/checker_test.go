package checker

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"tpyparser/internal/diag"
	"tpyparser/internal/parser"
	"tpyparser/internal/source"
	"tpyparser/internal/token"
)

func checkSource(t *testing.T, input string, opts Options) *diag.Bag {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.py", []byte(input)))
	bag := diag.NewBag(0)
	rep := diag.BagReporter{Bag: bag}
	if opts.PythonVersion == 0 {
		opts.PythonVersion = 3
	}
	res := parser.ParseFile(file, parser.Options{
		Dialect:  token.Dialect{PythonVersion: opts.PythonVersion},
		Reporter: rep,
	})
	opts.Reporter = rep
	Check(res.Tree, opts)
	Finalize(bag, false)
	return bag
}

func codes(bag *diag.Bag) []string {
	var out []string
	for _, d := range bag.Items() {
		out = append(out, d.Code.ID())
	}
	return out
}

func TestContextPass(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"return at module level", "return 1\n", []string{"E017"}},
		{"return in function", "def f():\n    return 1\n", nil},
		{"return in class body", "class C:\n    return 1\n", []string{"E017"}},
		{"break outside loop", "if x:\n    break\n", []string{"E018"}},
		{"continue in loop", "for i in x:\n    if i:\n        continue\n", nil},
		{"break in loop else", "while x:\n    pass\nelse:\n    break\n", []string{"E018"}},
		{"break in nested def", "while x:\n    def f():\n        break\n", []string{"E018"}},
		{"yield at module level", "x = yield 1\n", []string{"E026"}},
		{"yield in lambda", "f = lambda: (yield)\n", nil},
		{"nonlocal at module level", "nonlocal x\n", []string{"E035"}},
		{"await outside async", "def f():\n    await g()\n", []string{"E038"}},
		{"await in async def", "async def f():\n    await g()\n", nil},
		{"unused comparison", "x == 1\n", []string{"W004"}},
		{"chained comparison is fine", "a < b < c\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := codes(checkSource(t, tt.input, Options{}))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("codes mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDeadCode(t *testing.T) {
	input := `def f(x):
    return x
    print(x)
    print(x)

for i in y:
    if i:
        continue
        i += 1
    break
`
	bag := checkSource(t, input, Options{RejectDeadCode: true})
	if diff := cmp.Diff([]string{"E033", "E033"}, codes(bag)); diff != "" {
		t.Fatalf("codes mismatch (-want +got):\n%s", diff)
	}
	if got := bag.Items()[0].Primary.Start; got != 27 {
		t.Fatalf("dead code reported at %d, want 27", got)
	}

	bag = checkSource(t, input, Options{})
	if bag.Len() != 0 {
		t.Fatalf("dead code must be ignored when the flag is off, got %v", codes(bag))
	}
}

func TestDivision(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  Options
		want  []string
	}{
		{"literal zero", "x = a / 0\n", Options{}, []string{"W002"}},
		{"float zero modulo", "x = a % 0.0\n", Options{}, []string{"W002"}},
		{"aug assign", "x //= 0\n", Options{}, []string{"W002"}},
		{"non zero", "x = a / 0x10\n", Options{}, nil},
		{"range with true division", "for i in range(n / 2):\n    pass\n", Options{NewDivision: true}, []string{"W003"}},
		{"subscript with true division", "x = a[n / 2]\n", Options{NewDivision: true}, []string{"W003"}},
		{"floor division is fine", "x = a[n // 2]\n", Options{NewDivision: true}, nil},
		{"classic division", "for i in range(n / 2):\n    pass\n", Options{PythonVersion: 2}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := codes(checkSource(t, tt.input, tt.opts))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("codes mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTrueDivisionFix(t *testing.T) {
	src := "for i in range((n)/2):\n    pass\n"
	bag := checkSource(t, src, Options{NewDivision: true})
	if bag.Len() != 1 || len(bag.Items()[0].Fixes) != 1 {
		t.Fatalf("diagnostics = %+v", bag.Items())
	}
	edit := bag.Items()[0].Fixes[0].Edits[0]
	fixed := src[:edit.Span.Start] + edit.NewText + src[edit.Span.End:]
	if want := "for i in range((n)//2):\n    pass\n"; fixed != want {
		t.Fatalf("fixed = %q, want %q", fixed, want)
	}
	if bag := checkSource(t, fixed, Options{NewDivision: true}); bag.Len() != 0 {
		t.Fatalf("fixed source still warns: %+v", bag.Items())
	}
}

func TestFinalizePromotesAndSorts(t *testing.T) {
	bag := diag.NewBag(0)
	bag.Add(diag.New(diag.SevWarning, diag.SemDivisionByZero, source.Span{Start: 10, End: 11}))
	bag.Add(diag.New(diag.SevError, diag.SynUnexpectedToken, source.Span{Start: 2, End: 3}))
	bag.Add(diag.New(diag.SevError, diag.SynUnexpectedToken, source.Span{Start: 2, End: 3}))
	Finalize(bag, true)
	if bag.Len() != 2 {
		t.Fatalf("want duplicates removed, got %d items", bag.Len())
	}
	if bag.Items()[0].Code != diag.SynUnexpectedToken || bag.Items()[1].Severity != diag.SevError {
		t.Fatalf("unexpected order or severity: %+v", bag.Items())
	}
}
