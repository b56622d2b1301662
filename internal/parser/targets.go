package parser

import (
	"tpyparser/internal/ast"
	"tpyparser/internal/diag"
)

// checkTarget проверяет, что выражение может стоять слева от '=' (а также в
// for, with-as, del). Неверная цель репортится один раз.
func (p *Parser) checkTarget(id ast.ExprID) bool {
	e := p.arenas.Exprs.Get(id)
	if e == nil || !id.IsValid() {
		return true
	}
	switch e.Kind {
	case ast.ExprName, ast.ExprAttribute, ast.ExprSubscript, ast.ExprBad:
		return true
	case ast.ExprTuple, ast.ExprList:
		seq, _ := p.arenas.Exprs.Seq(id)
		ok := true
		for _, elt := range seq.Elts {
			if ee := p.arenas.Exprs.Get(elt); ee != nil && ee.Kind == ast.ExprStarred {
				inner, _ := p.arenas.Exprs.Value(elt)
				ok = p.checkTarget(inner.Value) && ok
				continue
			}
			ok = p.checkTarget(elt) && ok
		}
		return ok
	case ast.ExprStarred:
		p.report(diag.SynStarredNotAllowed, diag.SevError, e.Span)
		return false
	}
	p.report(diag.SynInvalidTarget, diag.SevError, e.Span, p.describeExpr(id))
	return false
}

// describeExpr: короткое название выражения для сообщений об ошибках.
func (p *Parser) describeExpr(id ast.ExprID) string {
	e := p.arenas.Exprs.Get(id)
	if e == nil {
		return "expression"
	}
	switch e.Kind {
	case ast.ExprLiteral:
		lit, _ := p.arenas.Exprs.Literal(id)
		switch lit.Kind {
		case ast.LitTrue, ast.LitFalse, ast.LitNone, ast.LitEllipsis:
			return lit.Text
		}
		return "literal"
	case ast.ExprFString:
		return "f-string expression"
	case ast.ExprCall:
		return "function call"
	case ast.ExprCompare:
		return "comparison"
	case ast.ExprLambda:
		return "lambda"
	case ast.ExprTernary:
		return "conditional expression"
	case ast.ExprDict, ast.ExprSet:
		return e.Kind.String() + " display"
	case ast.ExprListComp, ast.ExprSetComp, ast.ExprDictComp:
		return "comprehension"
	case ast.ExprGenerator:
		return "generator expression"
	case ast.ExprYield, ast.ExprYieldFrom:
		return "yield expression"
	case ast.ExprAwait:
		return "await expression"
	case ast.ExprNamed:
		return "named expression"
	}
	return "expression"
}
