package modules

import (
	"strings"

	"tpyparser/internal/ast"
	"tpyparser/internal/diag"
	"tpyparser/internal/parser"
	"tpyparser/internal/source"
	"tpyparser/internal/symbols"
	"tpyparser/internal/token"
)

const maxStubProblems = 64

// loadStub parses a Python-syntax stub with the regular parser and keeps the
// module-level declarations. Stubs are always read as Python 3.
//
// A broken stub is parsed a second time block by block, so an unclosed
// bracket cannot swallow the declarations after it; the pass that keeps
// more members wins.
func loadStub(name, body string) ([]*symbols.Symbol, []Problem) {
	members, problems := parseStub(name, body, 0)
	if len(problems) == 0 {
		return members, problems
	}
	var salvaged []*symbols.Symbol
	var salvageProblems []Problem
	for _, blk := range topLevelBlocks(body) {
		m, p := parseStub(name, blk.text, blk.line-1)
		for _, s := range m {
			salvaged = appendMember(salvaged, s)
		}
		salvageProblems = append(salvageProblems, p...)
	}
	if len(salvaged) > len(members) {
		return salvaged, salvageProblems
	}
	return members, problems
}

func parseStub(name, body string, lineBase int) ([]*symbols.Symbol, []Problem) {
	file := source.NewVirtualFile(name+".pyi", body)
	bag := diag.NewBag(maxStubProblems)
	res := parser.ParseFile(file, parser.Options{
		Dialect:  token.Dialect{PythonVersion: 3},
		Reporter: diag.BagReporter{Bag: bag},
	})
	bag.Sort()
	var problems []Problem
	for _, d := range bag.Errors() {
		problems = append(problems, Problem{
			Line: lineBase + int(file.Position(d.Primary.Start).Line),
			Msg:  d.Code.ID() + " " + d.Code.Title(),
		})
	}

	tbl := symbols.Collect(res.Tree)
	members := tbl.Scopes.Get(tbl.Root).Symbols
	detach(res.Tree, members, 0)
	return members, problems
}

type stubBlock struct {
	line int // 1-based first line
	text string
}

// topLevelBlocks splits body at lines that start in column 0. Decorators
// stay with the definition below them; closing brackets and lines inside a
// triple-quoted string continue the current block.
func topLevelBlocks(body string) []stubBlock {
	var blocks []stubBlock
	var cur strings.Builder
	start, n := 1, 0
	afterDecorator, inString := false, false
	for line := range strings.Lines(body) {
		n++
		opens := !inString && startsBlock(line)
		if strings.Count(line, `"""`)%2 == 1 || strings.Count(line, "'''")%2 == 1 {
			inString = !inString
		}
		if opens && cur.Len() > 0 && !afterDecorator {
			blocks = append(blocks, stubBlock{line: start, text: cur.String()})
			cur.Reset()
		}
		if cur.Len() == 0 {
			start = n
		}
		if opens {
			afterDecorator = strings.HasPrefix(line, "@")
		}
		cur.WriteString(line)
	}
	if cur.Len() > 0 {
		blocks = append(blocks, stubBlock{line: start, text: cur.String()})
	}
	return blocks
}

func startsBlock(line string) bool {
	if line == "" {
		return false
	}
	switch line[0] {
	case ' ', '\t', '\n', '\r', '#', ')', ']', '}':
		return false
	}
	return true
}

// detach drops references into the stub's tree: values become type tags
// where the value says what it is, spans are cleared.
func detach(tree *ast.Tree, list []*symbols.Symbol, depth int) {
	if depth > 8 {
		return
	}
	for _, s := range list {
		if s.Type == "" && s.Kind == symbols.SymbolVariable {
			s.Type = valueType(tree, s.Value)
		}
		s.Value = ast.NoExprID
		s.Scope = symbols.NoScopeID
		s.Span = source.Span{}
		if s.Kind == symbols.SymbolClass {
			detach(tree, s.Members, depth+1)
		}
	}
}

// valueType names the type of a stub value: literals, displays and calls of
// a plain name ("origin = Point()").
func valueType(tree *ast.Tree, id ast.ExprID) string {
	e := tree.Expr(id)
	if e == nil || !id.IsValid() {
		return ""
	}
	switch e.Kind {
	case ast.ExprLiteral:
		lit, _ := tree.Exprs.Literal(id)
		if lit.Kind == ast.LitNone || lit.Kind == ast.LitEllipsis {
			return ""
		}
		return lit.Kind.TypeName()
	case ast.ExprFString:
		return "str"
	case ast.ExprList, ast.ExprListComp:
		return "list"
	case ast.ExprTuple:
		return "tuple"
	case ast.ExprSet, ast.ExprSetComp:
		return "set"
	case ast.ExprDict, ast.ExprDictComp:
		return "dict"
	case ast.ExprUnary:
		u, _ := tree.Exprs.Unary(id)
		return valueType(tree, u.Operand)
	case ast.ExprCall:
		call, _ := tree.Exprs.Call(id)
		if fn := tree.Expr(call.Func); fn != nil && (fn.Kind == ast.ExprName || fn.Kind == ast.ExprAttribute) {
			return tree.Text(fn.Span)
		}
	}
	return ""
}
