package checker

import (
	"tpyparser/internal/ast"
	"tpyparser/internal/diag"
)

// scope: где находится оператор.
type scope struct {
	fn     bool
	async  bool
	loop   bool
	module bool
}

// checkContext reports statements and expressions that are illegal where
// they appear: return/yield outside a function, break/continue outside a
// loop, nonlocal at module level, await outside async def. Bare equality
// comparisons used as statements get a warning.
func (c *checker) checkContext() {
	c.contextBlock(c.tree.Body, scope{module: true})
}

func (c *checker) contextBlock(ids []ast.StmtID, sc scope) {
	for _, id := range ids {
		c.contextStmt(id, sc)
	}
}

func (c *checker) contextStmt(id ast.StmtID, sc scope) {
	st := c.tree.Stmt(id)
	if st == nil {
		return
	}
	switch st.Kind {
	case ast.StmtBad:
		// оператор уже отрепорчен парсером
		return
	case ast.StmtReturn:
		if !sc.fn {
			c.errorAt(diag.SemReturnOutsideFunction, st.Span)
		}
	case ast.StmtBreak, ast.StmtContinue:
		if !sc.loop {
			word := "break"
			if st.Kind == ast.StmtContinue {
				word = "continue"
			}
			c.errorAt(diag.SemLoopControlOutside, st.Span, word)
		}
	case ast.StmtNonlocal:
		if sc.module {
			c.errorAt(diag.SemNonlocalAtModule, st.Span)
		}
	case ast.StmtExpr:
		if v, ok := c.tree.Stmts.Value(id); ok {
			if cmp, ok := c.tree.Exprs.Compare(v.Value); ok && len(cmp.Ops) == 1 && cmp.Ops[0] == ast.CmpEq {
				c.warnAt(diag.SemUnusedComparison, st.Span)
			}
		}
	}

	for _, e := range c.tree.StmtExprs(id) {
		c.contextExpr(e, sc)
	}

	switch st.Kind {
	case ast.StmtFuncDef:
		d, _ := c.tree.Stmts.FuncDef(id)
		c.contextBlock(d.Body, scope{fn: true, async: d.Async})
	case ast.StmtClassDef:
		d, _ := c.tree.Stmts.ClassDef(id)
		c.contextBlock(d.Body, scope{})
	case ast.StmtWhile:
		d, _ := c.tree.Stmts.While(id)
		c.loopBody(d.Body, d.Orelse, sc)
	case ast.StmtFor:
		d, _ := c.tree.Stmts.For(id)
		c.loopBody(d.Body, d.Orelse, sc)
	case ast.StmtRepeat:
		d, _ := c.tree.Stmts.Repeat(id)
		c.loopBody(d.Body, nil, sc)
	default:
		for _, b := range c.tree.Blocks(id) {
			c.contextBlock(b, sc)
		}
	}
}

// loopBody: break/continue разрешены в теле, а else-ветка живёт во внешнем контексте.
func (c *checker) loopBody(body, orelse []ast.StmtID, sc scope) {
	inner := sc
	inner.loop = true
	c.contextBlock(body, inner)
	c.contextBlock(orelse, sc)
}

func (c *checker) contextExpr(id ast.ExprID, sc scope) {
	c.tree.InspectExpr(id, func(e ast.ExprID) bool {
		ex := c.tree.Expr(e)
		switch ex.Kind {
		case ast.ExprLambda:
			// у лямбды своя функция: yield внутри допустим, await: нет
			if l, ok := c.tree.Exprs.Lambda(e); ok {
				c.contextExpr(l.Body, scope{fn: true})
			}
			return false
		case ast.ExprYield, ast.ExprYieldFrom:
			if !sc.fn {
				c.errorAt(diag.SemYieldOutsideFunction, ex.Span)
			}
		case ast.ExprAwait:
			if !sc.async && c.opts.PythonVersion >= 3 {
				c.errorAt(diag.SemAwaitOutsideAsync, ex.Span)
			}
		}
		return true
	})
}
