package parser

import (
	"tpyparser/internal/ast"
	"tpyparser/internal/token"
)

// Таблица приоритетов для бинарных операторов уровня "выражение".
// Чем больше число, тем выше приоритет. Сравнения, not/and/or и ** разбираются отдельно.
const (
	precBitwiseOr      = 1 // |
	precBitwiseXor     = 2 // ^
	precBitwiseAnd     = 3 // &
	precShift          = 4 // << >>
	precAdditive       = 5 // + -
	precMultiplicative = 6 // * / // % @
)

// getBinaryOperatorPrec возвращает приоритет оператора или -1.
func (p *Parser) getBinaryOperatorPrec(kind token.Kind) int {
	switch kind {
	case token.Pipe:
		return precBitwiseOr
	case token.Caret:
		if p.opts.SagePower {
			return -1 // разбирается как степень
		}
		return precBitwiseXor
	case token.Amp:
		return precBitwiseAnd
	case token.Shl, token.Shr:
		return precShift
	case token.Plus, token.Minus:
		return precAdditive
	case token.Star, token.Slash, token.DoubleSlash, token.Percent, token.At:
		return precMultiplicative
	default:
		return -1
	}
}

var binaryOps = map[token.Kind]ast.BinaryOp{
	token.Plus:        ast.OpAdd,
	token.Minus:       ast.OpSub,
	token.Star:        ast.OpMul,
	token.At:          ast.OpMatMul,
	token.Slash:       ast.OpDiv,
	token.DoubleSlash: ast.OpFloorDiv,
	token.Percent:     ast.OpMod,
	token.DoubleStar:  ast.OpPow,
	token.Shl:         ast.OpShl,
	token.Shr:         ast.OpShr,
	token.Pipe:        ast.OpBitOr,
	token.Caret:       ast.OpBitXor,
	token.Amp:         ast.OpBitAnd,
}

var augAssignOps = map[token.Kind]ast.BinaryOp{
	token.PlusAssign:        ast.OpAdd,
	token.MinusAssign:       ast.OpSub,
	token.StarAssign:        ast.OpMul,
	token.AtAssign:          ast.OpMatMul,
	token.SlashAssign:       ast.OpDiv,
	token.DoubleSlashAssign: ast.OpFloorDiv,
	token.PercentAssign:     ast.OpMod,
	token.DoubleStarAssign:  ast.OpPow,
	token.ShlAssign:         ast.OpShl,
	token.ShrAssign:         ast.OpShr,
	token.PipeAssign:        ast.OpBitOr,
	token.CaretAssign:       ast.OpBitXor,
	token.AmpAssign:         ast.OpBitAnd,
}

// compareOp распознаёт оператор сравнения в текущей позиции, включая
// двухсловные "not in" и "is not". Возвращает число токенов оператора.
func (p *Parser) compareOp() (ast.CompareOp, int) {
	switch p.peek().Kind {
	case token.EqEq:
		return ast.CmpEq, 1
	case token.NotEq, token.LtGt:
		return ast.CmpNotEq, 1
	case token.Lt:
		return ast.CmpLt, 1
	case token.LtEq:
		return ast.CmpLtE, 1
	case token.Gt:
		return ast.CmpGt, 1
	case token.GtEq:
		return ast.CmpGtE, 1
	case token.KwIn:
		return ast.CmpIn, 1
	case token.KwIs:
		if p.peekN(1).Kind == token.KwNot {
			return ast.CmpIsNot, 2
		}
		return ast.CmpIs, 1
	case token.KwNot:
		if p.peekN(1).Kind == token.KwIn {
			return ast.CmpNotIn, 2
		}
	}
	return 0, 0
}

// canStartExpr: может ли токен начинать выражение.
func canStartExpr(k token.Kind) bool {
	switch k {
	case token.Ident, token.IntLit, token.FloatLit, token.ImagLit, token.StringLit,
		token.KwTrue, token.KwFalse, token.KwNone, token.KwNot, token.KwLambda, token.KwAwait,
		token.LParen, token.LBracket, token.LBrace, token.Minus, token.Plus, token.Tilde,
		token.Ellipsis, token.Backtick, token.Invalid:
		return true
	}
	return false
}
