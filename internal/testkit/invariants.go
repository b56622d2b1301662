// Package testkit holds shared checks for parser tests.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"tpyparser/internal/ast"
	"tpyparser/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed tree:
// 1) tree.Span belongs to the file and stays within its content
// 2) every statement and expression span is well-formed and inside tree.Span
// 3) sibling statements appear in source order
func CheckSpanInvariants(tree *ast.Tree) error {
	if tree == nil || tree.File == nil {
		return fmt.Errorf("nil tree or file")
	}
	lenContent, err := safecast.Conv[uint32](len(tree.File.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if tree.Span.File != tree.File.ID {
		return fmt.Errorf("tree span points to different file id: got=%d want=%d", tree.Span.File, tree.File.ID)
	}
	if tree.Span.End < tree.Span.Start || tree.Span.End > lenContent {
		return fmt.Errorf("tree span %v outside content of %d bytes", tree.Span, lenContent)
	}

	inside := func(what string, sp source.Span) error {
		if sp.End < sp.Start {
			return fmt.Errorf("inverted %s span: %v", what, sp)
		}
		if sp.File != tree.File.ID {
			return fmt.Errorf("%s span file mismatch: got=%d want=%d", what, sp.File, tree.File.ID)
		}
		if sp.Start < tree.Span.Start || sp.End > tree.Span.End {
			return fmt.Errorf("%s span %v is outside tree span %v", what, sp, tree.Span)
		}
		return nil
	}

	var firstErr error
	check := func(ids []ast.StmtID) {
		var prev uint32
		for i, id := range ids {
			st := tree.Stmt(id)
			if st == nil {
				firstErr = fmt.Errorf("nil statement for id=%d", id)
				return
			}
			if err := inside("statement", st.Span); err != nil {
				firstErr = err
				return
			}
			if i > 0 && st.Span.Start < prev {
				firstErr = fmt.Errorf("statement %v starts before its predecessor at %d", st.Span, prev)
				return
			}
			prev = st.Span.Start
		}
	}

	check(tree.Body)
	tree.InspectStmts(func(id ast.StmtID, _ int) bool {
		if firstErr != nil {
			return false
		}
		for _, b := range tree.Blocks(id) {
			check(b)
		}
		for _, e := range tree.StmtExprs(id) {
			tree.InspectExpr(e, func(x ast.ExprID) bool {
				if firstErr != nil {
					return false
				}
				ex := tree.Expr(x)
				if ex == nil {
					firstErr = fmt.Errorf("nil expression for id=%d", x)
					return false
				}
				if err := inside("expression", ex.Span); err != nil {
					firstErr = err
					return false
				}
				return true
			})
		}
		return firstErr == nil
	})
	return firstErr
}
