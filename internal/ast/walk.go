package ast

// Blocks returns the nested statement lists of a compound statement in source
// order. Except handlers and match cases contribute one block each.
func (t *Tree) Blocks(id StmtID) [][]StmtID {
	st := t.Stmts.Get(id)
	if st == nil {
		return nil
	}
	switch st.Kind {
	case StmtIf:
		d, _ := t.Stmts.If(id)
		return [][]StmtID{d.Body, d.Orelse}
	case StmtWhile:
		d, _ := t.Stmts.While(id)
		return [][]StmtID{d.Body, d.Orelse}
	case StmtFor:
		d, _ := t.Stmts.For(id)
		return [][]StmtID{d.Body, d.Orelse}
	case StmtRepeat:
		d, _ := t.Stmts.Repeat(id)
		return [][]StmtID{d.Body}
	case StmtTry:
		d, _ := t.Stmts.Try(id)
		out := [][]StmtID{d.Body}
		for _, h := range d.Handlers {
			out = append(out, h.Body)
		}
		return append(out, d.Orelse, d.Finally)
	case StmtWith:
		d, _ := t.Stmts.With(id)
		return [][]StmtID{d.Body}
	case StmtFuncDef:
		d, _ := t.Stmts.FuncDef(id)
		return [][]StmtID{d.Body}
	case StmtClassDef:
		d, _ := t.Stmts.ClassDef(id)
		return [][]StmtID{d.Body}
	case StmtMatch:
		d, _ := t.Stmts.Match(id)
		out := make([][]StmtID, 0, len(d.Cases))
		for _, c := range d.Cases {
			out = append(out, c.Body)
		}
		return out
	case StmtBad:
		if d, ok := t.Stmts.Bad(id); ok {
			return [][]StmtID{d.Body}
		}
	}
	return nil
}

// StmtExprs returns the expressions owned directly by a statement (not by its
// nested blocks), in source order.
func (t *Tree) StmtExprs(id StmtID) []ExprID {
	st := t.Stmts.Get(id)
	if st == nil {
		return nil
	}
	var out []ExprID
	add := func(ids ...ExprID) {
		for _, e := range ids {
			if e.IsValid() {
				out = append(out, e)
			}
		}
	}
	params := func(p *Params) {
		for _, prm := range p.All() {
			add(prm.Annotation, prm.Default)
		}
	}
	switch st.Kind {
	case StmtExpr, StmtReturn:
		d, _ := t.Stmts.Value(id)
		add(d.Value)
	case StmtAssign:
		d, _ := t.Stmts.Assign(id)
		add(d.Targets...)
		add(d.Value)
	case StmtAugAssign:
		d, _ := t.Stmts.AugAssign(id)
		add(d.Target, d.Value)
	case StmtAnnAssign:
		d, _ := t.Stmts.AnnAssign(id)
		add(d.Target, d.Annotation, d.Value)
	case StmtRaise:
		d, _ := t.Stmts.Raise(id)
		add(d.Exc, d.Cause)
	case StmtDel:
		d, _ := t.Stmts.Del(id)
		add(d.Targets...)
	case StmtAssert:
		d, _ := t.Stmts.Assert(id)
		add(d.Test, d.Msg)
	case StmtPrint:
		d, _ := t.Stmts.Print(id)
		add(d.Dest)
		add(d.Values...)
	case StmtExec:
		d, _ := t.Stmts.Exec(id)
		add(d.Body, d.Globals, d.Locals)
	case StmtIf:
		d, _ := t.Stmts.If(id)
		add(d.Test)
	case StmtWhile:
		d, _ := t.Stmts.While(id)
		add(d.Test)
	case StmtFor:
		d, _ := t.Stmts.For(id)
		add(d.Target, d.Iter)
	case StmtRepeat:
		d, _ := t.Stmts.Repeat(id)
		add(d.Count)
	case StmtTry:
		d, _ := t.Stmts.Try(id)
		for _, h := range d.Handlers {
			add(h.Type)
		}
	case StmtWith:
		d, _ := t.Stmts.With(id)
		for _, it := range d.Items {
			add(it.Context, it.Target)
		}
	case StmtFuncDef:
		d, _ := t.Stmts.FuncDef(id)
		add(d.Decorators...)
		params(&d.Params)
		add(d.Returns)
	case StmtClassDef:
		d, _ := t.Stmts.ClassDef(id)
		add(d.Decorators...)
		add(d.Bases...)
		for _, k := range d.Keywords {
			add(k.Value)
		}
	case StmtMatch:
		d, _ := t.Stmts.Match(id)
		add(d.Subject)
		for _, c := range d.Cases {
			add(c.Guard)
		}
	}
	return out
}

// InspectStmts walks every statement in pre-order. Returning false from fn
// skips the statement's nested blocks.
func (t *Tree) InspectStmts(fn func(id StmtID, depth int) bool) {
	var walk func(ids []StmtID, depth int)
	walk = func(ids []StmtID, depth int) {
		for _, id := range ids {
			if !fn(id, depth) {
				continue
			}
			for _, b := range t.Blocks(id) {
				walk(b, depth+1)
			}
		}
	}
	walk(t.Body, 0)
}

// InspectExpr walks an expression tree in pre-order. Returning false from fn
// skips the children of the current node.
func (t *Tree) InspectExpr(id ExprID, fn func(id ExprID) bool) {
	if !id.IsValid() || !fn(id) {
		return
	}
	for _, c := range t.Exprs.Children(id) {
		t.InspectExpr(c, fn)
	}
}

// StmtCount returns the number of statements in the tree, nested ones included.
func (t *Tree) StmtCount() int {
	n := 0
	t.InspectStmts(func(StmtID, int) bool {
		n++
		return true
	})
	return n
}
