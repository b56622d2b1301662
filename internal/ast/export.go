package ast

import (
	"strings"

	"tpyparser/internal/source"
)

// Node is an untyped view of a tree node for consumers that do not want to
// depend on the arena layout (CLI dumps, JSON/msgpack output, tests).
type Node struct {
	Kind      string  `json:"kind" msgpack:"kind"`
	Name      string  `json:"name,omitempty" msgpack:"name,omitempty"`
	Value     string  `json:"value,omitempty" msgpack:"value,omitempty"`
	Op        string  `json:"op,omitempty" msgpack:"op,omitempty"`
	Line      uint32  `json:"line" msgpack:"line"`
	Column    uint32  `json:"column" msgpack:"column"`
	EndLine   uint32  `json:"endLine" msgpack:"endLine"`
	EndColumn uint32  `json:"endColumn" msgpack:"endColumn"`
	Children  []*Node `json:"children,omitempty" msgpack:"children,omitempty"`
}

// Export converts the tree into a Node rooted at a "Module" node.
func (t *Tree) Export() *Node {
	root := t.node("Module", t.Span)
	root.Children = t.exportStmts(t.Body)
	return root
}

func (t *Tree) node(kind string, sp source.Span) *Node {
	start := t.Position(sp.Start)
	end := t.Position(sp.End)
	return &Node{
		Kind:      kind,
		Line:      start.Line,
		Column:    start.Column,
		EndLine:   end.Line,
		EndColumn: end.Column,
	}
}

func (t *Tree) exportStmts(ids []StmtID) []*Node {
	out := make([]*Node, 0, len(ids))
	for _, id := range ids {
		if n := t.exportStmt(id); n != nil {
			out = append(out, n)
		}
	}
	return out
}

// block wraps a statement list into a named pseudo-node ("body", "orelse", ...).
func (t *Tree) block(label string, ids []StmtID) *Node {
	if len(ids) == 0 {
		return nil
	}
	first, last := t.Stmts.Get(ids[0]), t.Stmts.Get(ids[len(ids)-1])
	if first == nil || last == nil {
		return nil
	}
	n := t.node(label, first.Span.Cover(last.Span))
	n.Children = t.exportStmts(ids)
	return n
}

func appendNodes(dst []*Node, nodes ...*Node) []*Node {
	for _, n := range nodes {
		if n != nil {
			dst = append(dst, n)
		}
	}
	return dst
}

func (t *Tree) exportStmt(id StmtID) *Node {
	st := t.Stmts.Get(id)
	if st == nil {
		return nil
	}
	n := t.node(st.Kind.String(), st.Span)
	switch st.Kind {
	case StmtImport:
		d, _ := t.Stmts.Import(id)
		for _, a := range d.Names {
			alias := t.node("alias", a.Span)
			alias.Name, alias.Value = a.Name, a.AsName
			n.Children = append(n.Children, alias)
		}
	case StmtImportFrom:
		d, _ := t.Stmts.ImportFrom(id)
		n.Name = strings.Repeat(".", d.Level) + d.Module
		if d.Star {
			n.Value = "*"
		}
		for _, a := range d.Names {
			alias := t.node("alias", a.Span)
			alias.Name, alias.Value = a.Name, a.AsName
			n.Children = append(n.Children, alias)
		}
		return n
	case StmtGlobal, StmtNonlocal:
		d, _ := t.Stmts.NamesDecl(id)
		n.Name = strings.Join(d.Names, ",")
		return n
	case StmtAugAssign:
		d, _ := t.Stmts.AugAssign(id)
		n.Op = d.Op.String() + "="
	case StmtFuncDef:
		d, _ := t.Stmts.FuncDef(id)
		n.Name = d.Name
		for _, p := range d.Params.All() {
			arg := t.node("arg", p.NameSpan)
			arg.Name = p.Name
			n.Children = append(n.Children, arg)
		}
	case StmtClassDef:
		d, _ := t.Stmts.ClassDef(id)
		n.Name = d.Name
	case StmtTry:
		d, _ := t.Stmts.Try(id)
		n.Children = appendNodes(n.Children, t.block("body", d.Body))
		for _, h := range d.Handlers {
			hn := t.node("ExceptHandler", h.Span)
			hn.Name = h.Name
			hn.Children = appendNodes(hn.Children, t.exportExpr(h.Type))
			hn.Children = append(hn.Children, t.exportStmts(h.Body)...)
			n.Children = append(n.Children, hn)
		}
		n.Children = appendNodes(n.Children, t.block("orelse", d.Orelse), t.block("finalbody", d.Finally))
		return n
	case StmtMatch:
		d, _ := t.Stmts.Match(id)
		n.Children = appendNodes(n.Children, t.exportExpr(d.Subject))
		for _, c := range d.Cases {
			cn := t.node("match_case", c.Span)
			cn.Children = appendNodes(cn.Children, t.exportPattern(c.Pattern), t.exportExpr(c.Guard))
			cn.Children = append(cn.Children, t.exportStmts(c.Body)...)
			n.Children = append(n.Children, cn)
		}
		return n
	}
	for _, e := range t.StmtExprs(id) {
		n.Children = appendNodes(n.Children, t.exportExpr(e))
	}
	labels := []string{"body", "orelse"}
	for i, b := range t.Blocks(id) {
		label := "body"
		if i < len(labels) {
			label = labels[i]
		}
		n.Children = appendNodes(n.Children, t.block(label, b))
	}
	return n
}

func (t *Tree) exportExpr(id ExprID) *Node {
	ex := t.Exprs.Get(id)
	if ex == nil || !id.IsValid() {
		return nil
	}
	n := t.node(ex.Kind.String(), ex.Span)
	switch ex.Kind {
	case ExprName:
		d, _ := t.Exprs.Name(id)
		n.Name = d.Name
	case ExprLiteral:
		d, _ := t.Exprs.Literal(id)
		n.Value = d.Text
		n.Op = d.Kind.TypeName()
	case ExprFString:
		d, _ := t.Exprs.FString(id)
		n.Value = d.Text
	case ExprAttribute:
		d, _ := t.Exprs.Attribute(id)
		n.Name = d.Attr
	case ExprBinary:
		d, _ := t.Exprs.Binary(id)
		n.Op = d.Op.String()
	case ExprUnary:
		d, _ := t.Exprs.Unary(id)
		n.Op = d.Op.String()
	case ExprCompare:
		d, _ := t.Exprs.Compare(id)
		ops := make([]string, len(d.Ops))
		for i, op := range d.Ops {
			ops[i] = op.String()
		}
		n.Op = strings.Join(ops, " ")
	case ExprCall:
		d, _ := t.Exprs.Call(id)
		n.Children = appendNodes(n.Children, t.exportExpr(d.Func))
		for _, a := range d.Args {
			an := t.exportExpr(a.Value)
			if an == nil {
				continue
			}
			if a.Kind == ArgKeyword {
				kw := t.node("keyword", a.Span)
				kw.Name = a.Name
				kw.Children = []*Node{an}
				an = kw
			}
			n.Children = append(n.Children, an)
		}
		return n
	}
	for _, c := range t.Exprs.Children(id) {
		n.Children = appendNodes(n.Children, t.exportExpr(c))
	}
	return n
}

func (t *Tree) exportPattern(id PatternID) *Node {
	p := t.Patterns.Get(id)
	if p == nil || !id.IsValid() {
		return nil
	}
	n := t.node(p.Kind.String(), p.Span)
	n.Name = p.Name
	n.Children = appendNodes(n.Children, t.exportExpr(p.Value), t.exportExpr(p.Class))
	for _, k := range p.Keys {
		n.Children = appendNodes(n.Children, t.exportExpr(k))
	}
	for _, sub := range p.Patterns {
		n.Children = appendNodes(n.Children, t.exportPattern(sub))
	}
	for i, sub := range p.KwdPatterns {
		kn := t.exportPattern(sub)
		if kn != nil && i < len(p.KwdNames) {
			kn.Name = p.KwdNames[i] + "=" + kn.Name
		}
		n.Children = appendNodes(n.Children, kn)
	}
	return n
}

// Walk visits n and its descendants in pre-order.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}
