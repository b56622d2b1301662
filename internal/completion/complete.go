// Package completion answers "which names are valid here" for a cursor in a
// possibly broken source file.
package completion

import (
	"slices"
	"strings"

	"tpyparser/internal/ast"
	"tpyparser/internal/source"
	"tpyparser/internal/symbols"
	"tpyparser/internal/token"
)

// Modules resolves imports and built-in names.
type Modules interface {
	symbols.Resolver
	// Names lists every importable module.
	Names() []string
}

// Options configure one completion request.
type Options struct {
	Modules Modules
	Dialect token.Dialect
	// Filter keeps only candidates starting with the typed prefix.
	Filter bool
}

// Candidate is one completion, ready for presentation.
type Candidate struct {
	Name       string
	Kind       symbols.SymbolKind
	Type       string
	Doc        string
	Signature  *symbols.Signature
	Provenance symbols.Provenance
}

// Params is the legacy flat parameter list; nil for non-callables.
func (c Candidate) Params() []string {
	if c.Signature == nil {
		return nil
	}
	out := c.Signature.Params()
	if out == nil {
		out = []string{}
	}
	return out
}

// Result lists ranked candidates for one context.
type Result struct {
	Context Context
	Items   []Candidate
}

// Names returns the candidate names in rank order.
func (r *Result) Names() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.Items))
	for i, c := range r.Items {
		out[i] = c.Name
	}
	return out
}

// Complete computes the candidates at byte offset off. tree and toks come
// from one tolerant parse of file. It returns nil when the cursor is not in
// a place where a name can be completed.
func Complete(file *source.File, tree *ast.Tree, toks []token.Token, off uint32, opts Options) *Result {
	ctx := classify(file, toks, off)
	if ctx == nil {
		return nil
	}
	c := completer{
		file: file,
		opts: opts,
		seen: make(map[string]bool),
	}
	c.table = symbols.Collect(tree)
	c.in = &symbols.Inferrer{Tree: tree, Table: c.table}
	if opts.Modules != nil {
		c.in.Resolver = opts.Modules
	}
	c.scope = c.table.Innermost(off)
	c.prefix = ctx.Prefix

	switch ctx.Kind {
	case ContextAttribute:
		c.attribute(tree, toks, ctx.Dot)
	case ContextImport:
		c.modules(ctx.Module)
	case ContextFromImport:
		c.fromImport(ctx.Module)
	default:
		c.scopeNames()
	}
	rank(c.items)
	return &Result{Context: *ctx, Items: c.items}
}

type completer struct {
	file   *source.File
	opts   Options
	table  *symbols.Table
	in     *symbols.Inferrer
	scope  symbols.ScopeID
	prefix string
	seen   map[string]bool
	items  []Candidate
}

// scopeNames: локальные имена, затем star-импорты, builtins и ключевые
// слова. Первое вхождение имени затеняет остальные.
func (c *completer) scopeNames() {
	for _, s := range c.table.Visible(c.scope) {
		c.add(s.Name, s)
	}
	if c.opts.Modules != nil {
		for i := len(c.table.StarImports) - 1; i >= 0; i-- {
			if mod := c.opts.Modules.Module(c.table.StarImports[i]); mod != nil {
				for _, s := range mod.Members {
					c.add(s.Name, s)
				}
			}
		}
		if b := c.opts.Modules.Module(builtinsModule); b != nil {
			for _, s := range b.Members {
				c.add(s.Name, s)
			}
		}
	}
	for _, kw := range token.Keywords(c.opts.Dialect) {
		c.add(kw, &symbols.Symbol{Name: kw, Kind: symbols.SymbolKeyword, Provenance: symbols.ProvBuiltin})
	}
}

const builtinsModule = "builtins"

// attribute completes members of the expression before toks[dot].
func (c *completer) attribute(tree *ast.Tree, toks []token.Token, dot int) {
	var owner *symbols.Symbol
	if recv, ok := receiver(tree, toks[dot].Span.Start); ok {
		owner = c.in.TypeOf(c.scope, recv)
	} else {
		owner = c.chain(toks, dot)
	}
	if owner == nil {
		return
	}
	for _, s := range c.in.Members(owner) {
		c.add(s.Name, s)
	}
	if owner.Kind == symbols.SymbolModule && c.opts.Modules != nil {
		// подмодули: "os." предлагает path, если os.path зарегистрирован
		c.submodules(owner.Name + ".")
	}
}

// receiver finds the outermost postfix expression that ends right before
// the dot.
func receiver(tree *ast.Tree, end uint32) (ast.ExprID, bool) {
	best := ast.NoExprID
	var bestStart uint32
	for raw, e := range tree.Exprs.Arena.All() {
		id := ast.ExprID(raw)
		if e.Span.End != end || e.Span.Empty() {
			continue
		}
		switch e.Kind {
		case ast.ExprName, ast.ExprAttribute, ast.ExprCall, ast.ExprSubscript, ast.ExprLiteral,
			ast.ExprFString, ast.ExprList, ast.ExprDict, ast.ExprSet,
			ast.ExprListComp, ast.ExprSetComp, ast.ExprDictComp:
		case ast.ExprTuple:
			// "a, b.": точка относится к b, а не к кортежу
			if !strings.HasPrefix(tree.Text(e.Span), "(") {
				continue
			}
		default:
			continue
		}
		if !best.IsValid() || e.Span.Start < bestStart {
			best, bestStart = id, e.Span.Start
		}
	}
	return best, best.IsValid()
}

// chain resolves "a.b.c" from tokens when the parse lost the expression.
func (c *completer) chain(toks []token.Token, dot int) *symbols.Symbol {
	var names []string
	for j := dot - 1; j >= 0 && toks[j].Kind == token.Ident; j -= 2 {
		names = append(names, toks[j].Text)
		if j == 0 || toks[j-1].Kind != token.Dot {
			break
		}
	}
	if len(names) == 0 {
		return nil
	}
	slices.Reverse(names)
	cur := c.in.TypeOfSymbol(c.scope, c.in.Lookup(c.scope, names[0]))
	for _, n := range names[1:] {
		cur = c.in.TypeOfSymbol(c.scope, c.in.MemberOf(cur, n))
	}
	return cur
}

// modules completes module names after "import" or "from". base is the
// dotted part already typed, including its trailing dot.
func (c *completer) modules(base string) {
	if c.opts.Modules == nil {
		return
	}
	c.submodules(base)
}

func (c *completer) submodules(base string) {
	for _, name := range c.opts.Modules.Names() {
		if name == builtinsModule || !strings.HasPrefix(name, base) {
			continue
		}
		part, _, _ := strings.Cut(name[len(base):], ".")
		if part == "" {
			continue
		}
		sym := c.opts.Modules.Module(base + part)
		if sym == nil {
			sym = &symbols.Symbol{Name: part, Kind: symbols.SymbolModule, Provenance: symbols.ProvStub}
		}
		c.add(part, sym)
	}
}

func (c *completer) fromImport(module string) {
	if c.opts.Modules == nil {
		return
	}
	if mod := c.opts.Modules.Module(module); mod != nil {
		for _, s := range mod.Members {
			c.add(s.Name, s)
		}
	}
	c.submodules(module + ".")
}

// add records a candidate unless the name was already offered, is hidden or
// does not match the prefix.
func (c *completer) add(name string, s *symbols.Symbol) {
	if name == "" || c.seen[name] || s == nil {
		return
	}
	if isDunder(name) && !strings.HasPrefix(c.prefix, "__") {
		return
	}
	if c.opts.Filter && !strings.HasPrefix(name, c.prefix) {
		return
	}
	c.seen[name] = true

	target := c.in.Follow(s)
	cand := Candidate{
		Name:       name,
		Kind:       target.Kind,
		Doc:        target.Doc,
		Provenance: s.Provenance,
	}
	if target.IsCallable() {
		cand.Signature = target.Signature
		if cand.Signature == nil {
			cand.Signature = &symbols.Signature{}
		}
	}
	cand.Type = c.typeName(target)
	c.items = append(c.items, cand)
}

// typeName is the presentation type of a candidate.
func (c *completer) typeName(s *symbols.Symbol) string {
	switch s.Kind {
	case symbols.SymbolVariable, symbols.SymbolParam:
		if t := c.in.TypeOfSymbol(c.scope, s); t != nil {
			if t.Kind == symbols.SymbolModule {
				return "module"
			}
			return t.Name
		}
		return s.Type
	case symbols.SymbolImportRef:
		return "import"
	}
	return s.TypeTag()
}

func isDunder(name string) bool {
	return len(name) > 4 && strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__")
}

// rank sorts case-insensitively by name; local names beat stubs, stubs beat
// builtins.
func rank(items []Candidate) {
	slices.SortStableFunc(items, func(a, b Candidate) int {
		if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
			return c
		}
		if a.Provenance != b.Provenance {
			return int(a.Provenance) - int(b.Provenance)
		}
		return strings.Compare(a.Name, b.Name)
	})
}
