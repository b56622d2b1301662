package ast

import (
	"tpyparser/internal/source"
)

type StmtKind uint8

const (
	// StmtBad wraps a statement that failed to parse; Body keeps whatever block followed it.
	StmtBad StmtKind = iota
	StmtExpr
	StmtAssign
	StmtAugAssign
	StmtAnnAssign
	StmtPass
	StmtBreak
	StmtContinue
	StmtReturn
	StmtRaise
	StmtDel
	StmtGlobal
	StmtNonlocal
	StmtAssert
	StmtImport
	StmtImportFrom
	StmtPrint // Python 2
	StmtExec  // Python 2
	StmtIf
	StmtWhile
	StmtFor
	StmtRepeat
	StmtTry
	StmtWith
	StmtFuncDef
	StmtClassDef
	StmtMatch
)

var stmtKindNames = [...]string{
	StmtBad: "Bad", StmtExpr: "Expr", StmtAssign: "Assign", StmtAugAssign: "AugAssign",
	StmtAnnAssign: "AnnAssign", StmtPass: "Pass", StmtBreak: "Break", StmtContinue: "Continue",
	StmtReturn: "Return", StmtRaise: "Raise", StmtDel: "Delete", StmtGlobal: "Global",
	StmtNonlocal: "Nonlocal", StmtAssert: "Assert", StmtImport: "Import", StmtImportFrom: "ImportFrom",
	StmtPrint: "Print", StmtExec: "Exec", StmtIf: "If", StmtWhile: "While", StmtFor: "For",
	StmtRepeat: "Repeat", StmtTry: "Try", StmtWith: "With", StmtFuncDef: "FunctionDef",
	StmtClassDef: "ClassDef", StmtMatch: "Match",
}

func (k StmtKind) String() string {
	if int(k) < len(stmtKindNames) {
		return stmtKindNames[k]
	}
	return "Unknown"
}

// IsCompound reports whether statements of this kind own nested blocks.
func (k StmtKind) IsCompound() bool {
	switch k {
	case StmtIf, StmtWhile, StmtFor, StmtRepeat, StmtTry, StmtWith, StmtFuncDef, StmtClassDef, StmtMatch, StmtBad:
		return true
	}
	return false
}

type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	Payload PayloadID
}

// StmtValueData: payload для Expr и Return (Value может отсутствовать).
type StmtValueData struct {
	Value ExprID
}

type StmtAssignData struct {
	Targets []ExprID // a = b = 1 -> [a, b]
	Value   ExprID
}

type StmtAugAssignData struct {
	Target ExprID
	Op     BinaryOp
	Value  ExprID
}

type StmtAnnAssignData struct {
	Target     ExprID
	Annotation ExprID
	Value      ExprID
}

type StmtRaiseData struct {
	Exc   ExprID
	Cause ExprID
}

// StmtTargetsData: payload для del.
type StmtTargetsData struct {
	Targets []ExprID
}

// StmtNamesData: payload для global и nonlocal.
type StmtNamesData struct {
	Names []string
	Spans []source.Span
}

type StmtAssertData struct {
	Test ExprID
	Msg  ExprID
}

// Alias is one "name as asname" entry of an import.
type Alias struct {
	Name   string // dotted for plain imports
	AsName string
	Span   source.Span
}

// Bound returns the name the alias introduces into scope.
func (a Alias) Bound() string {
	if a.AsName != "" {
		return a.AsName
	}
	for i := 0; i < len(a.Name); i++ {
		if a.Name[i] == '.' {
			return a.Name[:i]
		}
	}
	return a.Name
}

type StmtImportData struct {
	Names []Alias
}

type StmtImportFromData struct {
	Module     string
	ModuleSpan source.Span
	Level      int // количество ведущих точек
	Names      []Alias
	Star       bool
}

type StmtPrintData struct {
	Dest          ExprID // print >>dest, ...
	Values        []ExprID
	TrailingComma bool
}

type StmtExecData struct {
	Body    ExprID
	Globals ExprID
	Locals  ExprID
}

type StmtIfData struct {
	Test   ExprID
	Body   []StmtID
	Orelse []StmtID // elif хранится как вложенный If
}

type StmtWhileData struct {
	Test   ExprID
	Body   []StmtID
	Orelse []StmtID
}

type StmtForData struct {
	Target ExprID
	Iter   ExprID
	Body   []StmtID
	Orelse []StmtID
	Async  bool
}

// StmtRepeatData: "repeat n:"; Count отсутствует для бесконечного цикла.
type StmtRepeatData struct {
	Count ExprID
	Body  []StmtID
}

type ExceptHandler struct {
	Type     ExprID
	Name     string
	NameSpan source.Span
	Body     []StmtID
	Span     source.Span
}

type StmtTryData struct {
	Body     []StmtID
	Handlers []ExceptHandler
	Orelse   []StmtID
	Finally  []StmtID
}

type WithItem struct {
	Context ExprID
	Target  ExprID
}

type StmtWithData struct {
	Items []WithItem
	Body  []StmtID
	Async bool
}

type StmtFuncDefData struct {
	Name       string
	NameSpan   source.Span
	Params     Params
	Returns    ExprID
	Body       []StmtID
	Decorators []ExprID
	Async      bool
	Doc        string
}

type StmtClassDefData struct {
	Name       string
	NameSpan   source.Span
	Bases      []ExprID
	Keywords   []Arg
	Body       []StmtID
	Decorators []ExprID
	Doc        string
}

type MatchCase struct {
	Pattern PatternID
	Guard   ExprID
	Body    []StmtID
	Span    source.Span
}

type StmtMatchData struct {
	Subject ExprID
	Cases   []MatchCase
}

type StmtBadData struct {
	Body []StmtID
}
