package ast

import (
	"tpyparser/internal/source"
)

type Hints struct{ Stmts, Exprs, Patterns uint }

// Builder owns the arenas a parse allocates into.
type Builder struct {
	Stmts    *Stmts
	Exprs    *Exprs
	Patterns *Patterns
}

func NewBuilder(hints Hints) *Builder {
	if hints.Stmts == 0 {
		hints.Stmts = 1 << 8
	}
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 9 // выражений обычно в пару раз больше
	}
	return &Builder{
		Stmts:    NewStmts(hints.Stmts),
		Exprs:    NewExprs(hints.Exprs),
		Patterns: NewPatterns(hints.Patterns),
	}
}

// Finish seals the arenas into a Tree for file.
func (b *Builder) Finish(file *source.File, body []StmtID) *Tree {
	var span source.Span
	if file != nil {
		span = source.Span{File: file.ID, Start: 0, End: file.Len()}
	}
	return &Tree{
		File:     file,
		Body:     body,
		Stmts:    b.Stmts,
		Exprs:    b.Exprs,
		Patterns: b.Patterns,
		Span:     span,
	}
}

// Tree is the result of one parse. It is owned by the caller and never shared
// between parses.
type Tree struct {
	File     *source.File
	Body     []StmtID // top-level statements
	Stmts    *Stmts
	Exprs    *Exprs
	Patterns *Patterns
	Span     source.Span
}

// Stmt is shorthand for t.Stmts.Get.
func (t *Tree) Stmt(id StmtID) *Stmt { return t.Stmts.Get(id) }

// Expr is shorthand for t.Exprs.Get.
func (t *Tree) Expr(id ExprID) *Expr { return t.Exprs.Get(id) }

// Position maps a byte offset to a 1-based line and 0-based code point column.
func (t *Tree) Position(off uint32) source.Position {
	if t.File == nil {
		return source.Position{}
	}
	return t.File.Position(off)
}

// Text returns the source text covered by sp.
func (t *Tree) Text(sp source.Span) string {
	if t.File == nil {
		return ""
	}
	return t.File.Text(sp)
}
