package checker

import (
	"strconv"
	"strings"

	"tpyparser/internal/ast"
	"tpyparser/internal/diag"
	"tpyparser/internal/source"
)

// checkDivision: деление на литеральный ноль: всегда; '/' там, где нужен
// int (аргументы range, индексы, счётчик repeat): только при true division.
func (c *checker) checkDivision() {
	c.tree.InspectStmts(func(id ast.StmtID, _ int) bool {
		st := c.tree.Stmt(id)
		switch st.Kind {
		case ast.StmtAugAssign:
			if d, ok := c.tree.Stmts.AugAssign(id); ok && isDivision(d.Op) && c.isZero(d.Value) {
				c.warnAt(diag.SemDivisionByZero, c.tree.Expr(d.Value).Span)
			}
		case ast.StmtRepeat:
			if d, ok := c.tree.Stmts.Repeat(id); ok {
				c.needInt(d.Count)
			}
		}
		for _, e := range c.tree.StmtExprs(id) {
			c.divisionExpr(e)
		}
		return true
	})
}

func (c *checker) divisionExpr(id ast.ExprID) {
	c.tree.InspectExpr(id, func(e ast.ExprID) bool {
		switch c.tree.Expr(e).Kind {
		case ast.ExprBinary:
			d, _ := c.tree.Exprs.Binary(e)
			if isDivision(d.Op) && c.isZero(d.Right) {
				c.warnAt(diag.SemDivisionByZero, c.tree.Expr(d.Right).Span)
			}
		case ast.ExprSubscript:
			d, _ := c.tree.Exprs.Subscript(e)
			c.needInt(d.Index)
			if s, ok := c.tree.Exprs.Slice(d.Index); ok {
				c.needInt(s.Lower)
				c.needInt(s.Upper)
				c.needInt(s.Step)
			}
		case ast.ExprCall:
			d, _ := c.tree.Exprs.Call(e)
			if n, ok := c.tree.Exprs.Name(d.Func); ok && (n.Name == "range" || n.Name == "xrange") {
				for _, a := range d.Args {
					if a.Kind == ast.ArgPositional {
						c.needInt(a.Value)
					}
				}
			}
		}
		return true
	})
}

// needInt: выражение используется как целое.
func (c *checker) needInt(id ast.ExprID) {
	if !c.opts.NewDivision {
		return
	}
	d, ok := c.tree.Exprs.Binary(id)
	if !ok || d.Op != ast.OpDiv {
		return
	}
	b := diag.ReportWarning(c.opts.Reporter, diag.SemTrueDivisionInt, c.tree.Expr(id).Span)
	// оператор ищем между операндами: скобки операнда в его span не входят
	left, right := c.tree.Expr(d.Left).Span, c.tree.Expr(d.Right).Span
	if left.End <= right.Start {
		gap := source.Span{File: left.File, Start: left.End, End: right.Start}
		if i := strings.IndexByte(c.tree.Text(gap), '/'); i >= 0 {
			at := gap.Start + uint32(i)
			b.Replace("use '//'", source.Span{File: gap.File, Start: at, End: at + 1}, "//")
		}
	}
	b.Emit()
}

func isDivision(op ast.BinaryOp) bool {
	return op == ast.OpDiv || op == ast.OpFloorDiv || op == ast.OpMod
}

// isZero: числовой литерал, равный нулю (0, 0.0, 0x0, 0L, 0j).
func (c *checker) isZero(id ast.ExprID) bool {
	lit, ok := c.tree.Exprs.Literal(id)
	if !ok {
		return false
	}
	text := strings.ToLower(lit.Text)
	switch lit.Kind {
	case ast.LitInt:
		text = strings.TrimSuffix(text, "l")
		if len(text) > 1 && text[0] == '0' && text[1] >= '0' && text[1] <= '9' {
			// старый восьмеричный литерал 0777
			text = "0o" + text[1:]
		}
		n, err := strconv.ParseInt(text, 0, 64)
		return err == nil && n == 0
	case ast.LitFloat, ast.LitImag:
		text = strings.ReplaceAll(strings.TrimSuffix(text, "j"), "_", "")
		f, err := strconv.ParseFloat(text, 64)
		return err == nil && f == 0
	}
	return false
}
