package testkit

import (
	"testing"

	"tpyparser/internal/parser"
	"tpyparser/internal/source"
	"tpyparser/internal/token"
)

func TestCheckSpanInvariants(t *testing.T) {
	sources := map[string]string{
		"valid":     "def f(a, b=1):\n    if a:\n        return b\n    return a\nprint(f(2))\n",
		"broken":    "def f(:\n    x = (1,\nprint x\n",
		"empty":     "",
		"unicode":   "имя = \"дом\" + 'a'\n",
		"truncated": "class A(\n",
	}
	for name, src := range sources {
		t.Run(name, func(t *testing.T) {
			file := source.NewVirtualFile(name+".py", src)
			res := parser.ParseFile(file, parser.Options{Dialect: token.Dialect{PythonVersion: 3}})
			if err := CheckSpanInvariants(res.Tree); err != nil {
				t.Fatal(err)
			}
		})
	}
}

func TestCheckSpanInvariantsNilTree(t *testing.T) {
	if err := CheckSpanInvariants(nil); err == nil {
		t.Fatal("expected an error for a nil tree")
	}
}
