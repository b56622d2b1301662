package parser

import (
	"tpyparser/internal/ast"
	"tpyparser/internal/diag"
	"tpyparser/internal/source"
	"tpyparser/internal/token"
)

// parsePrintStmt: print как оператор (Python 2): print [>>dest,] a, b[,]
func (p *Parser) parsePrintStmt() ast.StmtID {
	kw := p.advance()
	var dest ast.ExprID
	if p.at(token.Shr) {
		p.advance()
		dest = p.parseTest()
		if p.at(token.Comma) {
			p.advance()
		}
	}
	var values []ast.ExprID
	trailing := false
	for canStartExpr(p.peek().Kind) {
		values = append(values, p.parseTest())
		trailing = false
		if !p.at(token.Comma) {
			break
		}
		p.advance()
		trailing = true
	}
	return p.arenas.Stmts.NewPrint(p.spanFrom(kw.Span), dest, values, trailing)
}

// parseExecStmt: exec code [in globals[, locals]] (Python 2).
func (p *Parser) parseExecStmt() ast.StmtID {
	kw := p.advance()
	body := p.parseBinaryExpr(precBitwiseOr)
	var globals, locals ast.ExprID
	if p.at(token.KwIn) {
		p.advance()
		globals = p.parseTest()
		if p.at(token.Comma) {
			p.advance()
			locals = p.parseTest()
		}
	}
	return p.arenas.Stmts.NewExec(p.spanFrom(kw.Span), body, globals, locals)
}

// parsePy3PrintLike ловит print/exec в стиле Python 2 под Python 3:
// "print 'hi'" и "print >>f, x". Остаток строки разбирается как аргументы
// вызова, чтобы дерево осталось пригодным для автодополнения.
func (p *Parser) parsePy3PrintLike(start token.Token, first ast.ExprID) (ast.StmtID, bool) {
	if p.opts.Dialect.PythonVersion < 3 || start.Kind != token.Ident {
		return ast.NoStmtID, false
	}
	var code diag.Code
	switch start.Text {
	case "print":
		code = diag.SynPrintStatement
	case "exec":
		code = diag.SynExecStatement
	default:
		return ast.NoStmtID, false
	}

	if name, ok := p.arenas.Exprs.Name(first); ok && name.Name == start.Text {
		if !canStartExpr(p.peek().Kind) || p.at(token.LParen) {
			return ast.NoStmtID, false
		}
		b := p.diagnose(code, diag.SevError, start.Span)
		var args []ast.Arg
		for canStartExpr(p.peek().Kind) {
			v := p.parseTest()
			args = append(args, ast.Arg{Kind: ast.ArgPositional, Value: v, Span: p.exprSpan(v)})
			if !p.at(token.Comma) {
				break
			}
			p.advance()
		}
		if len(args) > 0 {
			// print 'hi' -> print('hi')
			lparen := source.Span{File: start.Span.File, Start: start.Span.End, End: args[0].Span.Start}
			b.WithFix("call "+start.Text+"()",
				diag.FixEdit{Span: lparen, NewText: "("},
				diag.FixEdit{Span: p.lastSpan.At(), NewText: ")"})
		}
		b.Emit()
		call := p.arenas.Exprs.NewCall(p.spanFrom(start.Span), first, args)
		return p.arenas.Stmts.NewValue(ast.StmtExpr, p.exprSpan(call), call), true
	}

	// print >>f, x
	lead := first
	if seq, ok := p.arenas.Exprs.Seq(first); ok && len(seq.Elts) > 0 && p.arenas.Exprs.Get(first).Kind == ast.ExprTuple {
		lead = seq.Elts[0]
	}
	if bin, ok := p.arenas.Exprs.Binary(lead); ok && bin.Op == ast.OpShr && code == diag.SynPrintStatement {
		if name, ok := p.arenas.Exprs.Name(bin.Left); ok && name.Name == "print" {
			p.report(code, diag.SevError, start.Span)
			return p.arenas.Stmts.NewValue(ast.StmtExpr, p.exprSpan(first), first), true
		}
	}
	return ast.NoStmtID, false
}
