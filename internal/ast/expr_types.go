package ast

import (
	"tpyparser/internal/source"
)

// ExprKind enumerates the different kinds of expressions.
type ExprKind uint8

const (
	// ExprBad is a placeholder produced by error recovery.
	ExprBad ExprKind = iota
	ExprName
	ExprLiteral
	ExprFString
	ExprAttribute
	ExprSubscript
	ExprSlice
	ExprCall
	ExprBinary
	ExprUnary
	ExprCompare
	ExprTernary
	ExprLambda
	ExprTuple
	ExprList
	ExprSet
	ExprDict
	ExprListComp
	ExprSetComp
	ExprDictComp
	ExprGenerator
	ExprStarred
	ExprYield
	ExprYieldFrom
	ExprAwait
	ExprNamed // x := v
	ExprRepr  // `x` (Python 2)
)

var exprKindNames = [...]string{
	ExprBad: "Bad", ExprName: "Name", ExprLiteral: "Literal", ExprFString: "FString",
	ExprAttribute: "Attribute", ExprSubscript: "Subscript", ExprSlice: "Slice", ExprCall: "Call",
	ExprBinary: "BinOp", ExprUnary: "UnaryOp", ExprCompare: "Compare", ExprTernary: "IfExp",
	ExprLambda: "Lambda", ExprTuple: "Tuple", ExprList: "List", ExprSet: "Set", ExprDict: "Dict",
	ExprListComp: "ListComp", ExprSetComp: "SetComp", ExprDictComp: "DictComp",
	ExprGenerator: "GeneratorExp", ExprStarred: "Starred", ExprYield: "Yield",
	ExprYieldFrom: "YieldFrom", ExprAwait: "Await", ExprNamed: "NamedExpr", ExprRepr: "Repr",
}

func (k ExprKind) String() string {
	if int(k) < len(exprKindNames) {
		return exprKindNames[k]
	}
	return "Unknown"
}

// Expr represents an expression node in the AST.
type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
}

// LitKind classifies literal expressions.
type LitKind uint8

const (
	LitInt LitKind = iota
	LitFloat
	LitImag
	LitString
	LitBytes
	LitTrue
	LitFalse
	LitNone
	LitEllipsis
)

var litKindNames = [...]string{"int", "float", "complex", "str", "bytes", "bool", "bool", "None", "ellipsis"}

// TypeName returns the Python type name of the literal.
func (k LitKind) TypeName() string {
	if int(k) < len(litKindNames) {
		return litKindNames[k]
	}
	return ""
}

// BinaryOp enumerates binary and boolean operators.
type BinaryOp uint8

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpMatMul
	OpDiv
	OpFloorDiv
	OpMod
	OpPow
	OpShl
	OpShr
	OpBitOr
	OpBitXor
	OpBitAnd
	OpAnd
	OpOr
)

var binaryOpNames = [...]string{"+", "-", "*", "@", "/", "//", "%", "**", "<<", ">>", "|", "^", "&", "and", "or"}

func (op BinaryOp) String() string {
	if int(op) < len(binaryOpNames) {
		return binaryOpNames[op]
	}
	return "?"
}

// UnaryOp enumerates unary operators.
type UnaryOp uint8

const (
	OpNot UnaryOp = iota
	OpNeg
	OpPos
	OpInvert
)

var unaryOpNames = [...]string{"not", "-", "+", "~"}

func (op UnaryOp) String() string {
	if int(op) < len(unaryOpNames) {
		return unaryOpNames[op]
	}
	return "?"
}

// CompareOp enumerates comparison operators.
type CompareOp uint8

const (
	CmpEq CompareOp = iota
	CmpNotEq
	CmpLt
	CmpLtE
	CmpGt
	CmpGtE
	CmpIs
	CmpIsNot
	CmpIn
	CmpNotIn
)

var compareOpNames = [...]string{"==", "!=", "<", "<=", ">", ">=", "is", "is not", "in", "not in"}

func (op CompareOp) String() string {
	if int(op) < len(compareOpNames) {
		return compareOpNames[op]
	}
	return "?"
}

// ArgKind distinguishes call argument forms.
type ArgKind uint8

const (
	ArgPositional ArgKind = iota
	ArgKeyword            // name=value
	ArgStar               // *value
	ArgDoubleStar         // **value
)

// Arg is one call argument (or class keyword).
type Arg struct {
	Kind  ArgKind
	Name  string
	Value ExprID
	Span  source.Span
}

// Param is a declared function or lambda parameter.
type Param struct {
	Name       string
	NameSpan   source.Span
	Annotation ExprID
	Default    ExprID
}

// Params groups parameters the way a call binds them.
type Params struct {
	PosOnly []Param
	Args    []Param
	VarArg  *Param
	KwOnly  []Param
	KwArg   *Param
}

// All returns every parameter in declaration order.
func (p *Params) All() []Param {
	out := make([]Param, 0, len(p.PosOnly)+len(p.Args)+len(p.KwOnly)+2)
	out = append(out, p.PosOnly...)
	out = append(out, p.Args...)
	if p.VarArg != nil {
		out = append(out, *p.VarArg)
	}
	out = append(out, p.KwOnly...)
	if p.KwArg != nil {
		out = append(out, *p.KwArg)
	}
	return out
}

// Comprehension is one "for ... in ... if ..." clause.
type Comprehension struct {
	Target ExprID
	Iter   ExprID
	Ifs    []ExprID
	Async  bool
}

type ExprNameData struct {
	Name string
}

type ExprLiteralData struct {
	Kind LitKind
	Text string
}

type ExprFStringData struct {
	Text   string
	Values []ExprID // выражения внутри {...}
}

type ExprAttributeData struct {
	Value    ExprID
	Attr     string
	AttrSpan source.Span // пустой, если имя атрибута ещё не набрано ("obj.")
}

type ExprSubscriptData struct {
	Value ExprID
	Index ExprID
}

type ExprSliceData struct {
	Lower ExprID
	Upper ExprID
	Step  ExprID
}

type ExprCallData struct {
	Func ExprID
	Args []Arg
}

type ExprBinaryData struct {
	Op    BinaryOp
	Left  ExprID
	Right ExprID
}

type ExprUnaryData struct {
	Op      UnaryOp
	Operand ExprID
}

type ExprCompareData struct {
	Left        ExprID
	Ops         []CompareOp
	Comparators []ExprID
}

type ExprTernaryData struct {
	Test ExprID
	Body ExprID
	Else ExprID
}

type ExprLambdaData struct {
	Params Params
	Body   ExprID
}

// ExprSeqData: payload для Tuple, List и Set.
type ExprSeqData struct {
	Elts []ExprID
}

type ExprDictData struct {
	Keys   []ExprID // NoExprID для **mapping
	Values []ExprID
}

// ExprCompData: payload для всех comprehension-форм; Value только у DictComp.
type ExprCompData struct {
	Elt     ExprID
	Value   ExprID
	Clauses []Comprehension
}

// ExprValueData: payload для Starred, Yield, YieldFrom, Await, Repr.
type ExprValueData struct {
	Value ExprID
}

type ExprNamedData struct {
	Target ExprID
	Value  ExprID
}
