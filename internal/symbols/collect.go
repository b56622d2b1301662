package symbols

import (
	"strings"

	"tpyparser/internal/ast"
	"tpyparser/internal/source"
)

// Collect builds the scope tree of a (possibly partial) parse. Statements
// produced by error recovery are walked like any other, so names declared
// before or inside a broken statement stay visible.
func Collect(tree *ast.Tree) *Table {
	t := NewTable(tree.Span)
	c := collector{tree: tree, table: t}
	c.block(tree.Body, t.Root, tree.Span.End, nil)
	return t
}

// method описывает метод, в теле которого собираются атрибуты self.x.
type method struct {
	self  string
	attrs *[]*Symbol
}

type collector struct {
	tree  *ast.Tree
	table *Table
}

// block walks ids in scope; limit is where the enclosing region ends.
func (c *collector) block(ids []ast.StmtID, scope ScopeID, limit uint32, m *method) {
	for i, id := range ids {
		end := limit
		if i+1 < len(ids) {
			if next := c.tree.Stmt(ids[i+1]); next != nil && next.Span.Start > 0 {
				end = next.Span.Start - 1
			}
		}
		c.stmt(id, scope, end, m)
	}
}

func (c *collector) stmt(id ast.StmtID, scope ScopeID, limit uint32, m *method) {
	st := c.tree.Stmt(id)
	if st == nil {
		return
	}
	for _, e := range c.tree.StmtExprs(id) {
		c.expr(e, scope)
	}

	switch st.Kind {
	case ast.StmtFuncDef:
		c.funcDef(id, scope, limit)
		return
	case ast.StmtClassDef:
		c.classDef(id, scope, limit)
		return
	case ast.StmtAssign:
		d, _ := c.tree.Stmts.Assign(id)
		for _, target := range d.Targets {
			c.bindTarget(target, scope, d.Value, "", m)
		}
	case ast.StmtAugAssign:
		d, _ := c.tree.Stmts.AugAssign(id)
		if n, ok := c.tree.Exprs.Name(d.Target); ok && c.table.Lookup(scope, n.Name) == nil {
			c.declareVar(scope, n.Name, c.tree.Expr(d.Target).Span, ast.NoExprID, "")
		}
	case ast.StmtAnnAssign:
		d, _ := c.tree.Stmts.AnnAssign(id)
		c.bindTarget(d.Target, scope, d.Value, c.text(d.Annotation), m)
	case ast.StmtFor:
		d, _ := c.tree.Stmts.For(id)
		c.bindTarget(d.Target, scope, ast.NoExprID, "", m)
	case ast.StmtWith:
		d, _ := c.tree.Stmts.With(id)
		for _, it := range d.Items {
			c.bindTarget(it.Target, scope, ast.NoExprID, "", m)
		}
	case ast.StmtTry:
		d, _ := c.tree.Stmts.Try(id)
		for _, h := range d.Handlers {
			if h.Name != "" {
				c.declareVar(scope, h.Name, h.NameSpan, ast.NoExprID, "")
			}
		}
	case ast.StmtImport:
		d, _ := c.tree.Stmts.Import(id)
		for _, a := range d.Names {
			target := a.Name
			if a.AsName == "" {
				// "import os.path" связывает только os
				target, _, _ = strings.Cut(a.Name, ".")
			}
			c.table.Declare(scope, &Symbol{Name: a.Bound(), Kind: SymbolModule, Module: target, Span: a.Span})
		}
	case ast.StmtImportFrom:
		d, _ := c.tree.Stmts.ImportFrom(id)
		if d.Level > 0 || d.Module == "" {
			break
		}
		if d.Star {
			c.table.StarImports = append(c.table.StarImports, d.Module)
			break
		}
		for _, a := range d.Names {
			c.table.Declare(scope, &Symbol{Name: a.Bound(), Kind: SymbolImportRef, Module: d.Module, Import: a.Name, Span: a.Span})
		}
	case ast.StmtMatch:
		d, _ := c.tree.Stmts.Match(id)
		for _, cs := range d.Cases {
			for _, name := range c.tree.Patterns.Bindings(cs.Pattern) {
				c.declareVar(scope, name, c.tree.Patterns.Get(cs.Pattern).Span, ast.NoExprID, "")
			}
		}
	}

	for _, b := range c.tree.Blocks(id) {
		c.block(b, scope, limit, m)
	}
}

func (c *collector) funcDef(id ast.StmtID, scope ScopeID, limit uint32) {
	d, _ := c.tree.Stmts.FuncDef(id)
	parent := c.table.Scopes.Get(scope)
	isMethod := parent.Kind == ScopeClass
	sym := &Symbol{
		Name:      d.Name,
		Kind:      SymbolFunction,
		Signature: FromParams(c.tree, d.Params, d.Returns, isMethod),
		Doc:       d.Doc,
		Span:      d.NameSpan,
	}
	c.table.Declare(scope, sym)

	fnScope := c.table.Scopes.New(ScopeFunction, scope, id, c.region(d.NameSpan, limit))
	var m *method
	if isMethod {
		c.table.Scopes.Get(fnScope).Class = parent.Class
	}
	for i, p := range d.Params.All() {
		ps := &Symbol{Name: p.Name, Kind: SymbolParam, Type: c.text(p.Annotation), Span: p.NameSpan}
		if i == 0 && isMethod && sym.Signature.FirstParamIsSelfOrCls {
			ps.Type = parent.Class.Name
			m = &method{self: p.Name, attrs: &parent.Class.Members}
		}
		c.table.Declare(fnScope, ps)
	}
	c.block(d.Body, fnScope, limit, m)
}

func (c *collector) classDef(id ast.StmtID, scope ScopeID, limit uint32) {
	d, _ := c.tree.Stmts.ClassDef(id)
	sym := &Symbol{
		Name: d.Name,
		Kind: SymbolClass,
		Doc:  d.Doc,
		Span: d.NameSpan,
	}
	for _, b := range d.Bases {
		sym.Bases = append(sym.Bases, c.text(b))
	}
	sym = c.table.Declare(scope, sym)

	clsScope := c.table.Scopes.New(ScopeClass, scope, id, c.region(d.NameSpan, limit))
	c.table.Scopes.Get(clsScope).Class = sym
	c.block(d.Body, clsScope, limit, nil)

	// члены класса: объявления тела, затем атрибуты self.x из методов
	instance := sym.Members
	sym.Members = append([]*Symbol(nil), c.table.Scopes.Get(clsScope).Symbols...)
	for _, a := range instance {
		if sym.Member(a.Name) == nil {
			sym.Members = append(sym.Members, a)
		}
	}
	if init := sym.Member("__init__"); init != nil && init.Signature != nil {
		sym.Signature = init.Signature
	}
}

// region: от конца заголовка до конца области видимости.
func (c *collector) region(header source.Span, limit uint32) source.Span {
	end := max(limit, header.End)
	return source.Span{File: header.File, Start: header.End, End: end}
}

// bindTarget declares the names a target binds. Attribute targets on self
// inside a method become instance attributes of the class.
func (c *collector) bindTarget(target ast.ExprID, scope ScopeID, value ast.ExprID, typ string, m *method) {
	e := c.tree.Expr(target)
	if e == nil || !target.IsValid() {
		return
	}
	switch e.Kind {
	case ast.ExprName:
		n, _ := c.tree.Exprs.Name(target)
		c.declareVar(scope, n.Name, e.Span, value, typ)
	case ast.ExprTuple, ast.ExprList:
		seq, _ := c.tree.Exprs.Seq(target)
		for _, elt := range seq.Elts {
			c.bindTarget(elt, scope, ast.NoExprID, "", m)
		}
	case ast.ExprStarred:
		v, _ := c.tree.Exprs.Value(target)
		c.bindTarget(v.Value, scope, ast.NoExprID, "list", m)
	case ast.ExprAttribute:
		if m == nil {
			return
		}
		a, _ := c.tree.Exprs.Attribute(target)
		if n, ok := c.tree.Exprs.Name(a.Value); ok && n.Name == m.self && a.Attr != "" {
			for _, prev := range *m.attrs {
				if prev.Name == a.Attr {
					return
				}
			}
			*m.attrs = append(*m.attrs, &Symbol{Name: a.Attr, Kind: SymbolVariable, Type: typ, Value: value, Scope: scope, Span: a.AttrSpan})
		}
	}
}

func (c *collector) declareVar(scope ScopeID, name string, sp source.Span, value ast.ExprID, typ string) {
	c.table.Declare(scope, &Symbol{Name: name, Kind: SymbolVariable, Type: typ, Value: value, Scope: scope, Span: sp})
}

// expr opens scopes for lambdas and comprehensions and binds walrus targets.
func (c *collector) expr(id ast.ExprID, scope ScopeID) {
	c.tree.InspectExpr(id, func(e ast.ExprID) bool {
		ex := c.tree.Expr(e)
		switch ex.Kind {
		case ast.ExprLambda:
			l, _ := c.tree.Exprs.Lambda(e)
			for _, p := range l.Params.All() {
				c.expr(p.Default, scope)
			}
			ls := c.table.Scopes.New(ScopeLambda, scope, 0, ex.Span)
			for _, p := range l.Params.All() {
				c.table.Declare(ls, &Symbol{Name: p.Name, Kind: SymbolParam, Span: p.NameSpan})
			}
			c.expr(l.Body, ls)
			return false
		case ast.ExprListComp, ast.ExprSetComp, ast.ExprDictComp, ast.ExprGenerator:
			comp, _ := c.tree.Exprs.Comp(e)
			cs := c.table.Scopes.New(ScopeComprehension, scope, 0, ex.Span)
			for _, cl := range comp.Clauses {
				c.expr(cl.Iter, cs)
				c.bindTarget(cl.Target, cs, ast.NoExprID, "", nil)
				for _, cond := range cl.Ifs {
					c.expr(cond, cs)
				}
			}
			c.expr(comp.Elt, cs)
			c.expr(comp.Value, cs)
			return false
		case ast.ExprNamed:
			nd, _ := c.tree.Exprs.Named(e)
			if n, ok := c.tree.Exprs.Name(nd.Target); ok {
				c.table.Declare(c.bindingScope(scope), &Symbol{Name: n.Name, Kind: SymbolVariable, Value: nd.Value, Scope: scope, Span: c.tree.Expr(nd.Target).Span})
			}
		}
		return true
	})
}

// bindingScope: := внутри comprehension связывает имя во внешней функции.
func (c *collector) bindingScope(id ScopeID) ScopeID {
	for cur := id; cur.IsValid(); {
		sc := c.table.Scopes.Get(cur)
		if sc.Kind != ScopeComprehension {
			return cur
		}
		cur = sc.Parent
	}
	return id
}

func (c *collector) text(id ast.ExprID) string {
	if e := c.tree.Expr(id); e != nil && id.IsValid() {
		return c.tree.Text(e.Span)
	}
	return ""
}
