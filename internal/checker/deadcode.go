package checker

import (
	"tpyparser/internal/ast"
	"tpyparser/internal/diag"
)

// checkDeadCode flags the first statement after return/raise/break/continue
// in the same block. One diagnostic per block.
func (c *checker) checkDeadCode() {
	c.deadBlock(c.tree.Body)
}

func (c *checker) deadBlock(ids []ast.StmtID) {
	terminated := false
	for _, id := range ids {
		st := c.tree.Stmt(id)
		if st == nil {
			continue
		}
		if terminated {
			c.errorAt(diag.SemDeadCode, st.Span)
			// остаток блока уже недостижим, повторно не репортим
			for _, rest := range ids {
				c.deadNested(rest)
			}
			return
		}
		switch st.Kind {
		case ast.StmtReturn, ast.StmtRaise, ast.StmtBreak, ast.StmtContinue:
			terminated = true
		}
	}
	for _, id := range ids {
		c.deadNested(id)
	}
}

func (c *checker) deadNested(id ast.StmtID) {
	for _, b := range c.tree.Blocks(id) {
		c.deadBlock(b)
	}
}
