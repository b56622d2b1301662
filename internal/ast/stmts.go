package ast

import (
	"tpyparser/internal/source"
)

// Stmts manages allocation of statements. Payload-free kinds (pass, break, continue)
// carry NoPayloadID.
type Stmts struct {
	Arena       *Arena[Stmt]
	Values      *Arena[StmtValueData]
	Assigns     *Arena[StmtAssignData]
	AugAssigns  *Arena[StmtAugAssignData]
	AnnAssigns  *Arena[StmtAnnAssignData]
	Raises      *Arena[StmtRaiseData]
	Targets     *Arena[StmtTargetsData]
	Names       *Arena[StmtNamesData]
	Asserts     *Arena[StmtAssertData]
	Imports     *Arena[StmtImportData]
	ImportFroms *Arena[StmtImportFromData]
	Prints      *Arena[StmtPrintData]
	Execs       *Arena[StmtExecData]
	Ifs         *Arena[StmtIfData]
	Whiles      *Arena[StmtWhileData]
	Fors        *Arena[StmtForData]
	Repeats     *Arena[StmtRepeatData]
	Tries       *Arena[StmtTryData]
	Withs       *Arena[StmtWithData]
	FuncDefs    *Arena[StmtFuncDefData]
	ClassDefs   *Arena[StmtClassDefData]
	Matches     *Arena[StmtMatchData]
	Bads        *Arena[StmtBadData]
}

func NewStmts(capHint uint) *Stmts {
	if capHint == 0 {
		capHint = 1 << 8
	}
	small := capHint/8 + 1
	return &Stmts{
		Arena:       NewArena[Stmt](capHint),
		Values:      NewArena[StmtValueData](capHint),
		Assigns:     NewArena[StmtAssignData](capHint),
		AugAssigns:  NewArena[StmtAugAssignData](small),
		AnnAssigns:  NewArena[StmtAnnAssignData](small),
		Raises:      NewArena[StmtRaiseData](small),
		Targets:     NewArena[StmtTargetsData](small),
		Names:       NewArena[StmtNamesData](small),
		Asserts:     NewArena[StmtAssertData](small),
		Imports:     NewArena[StmtImportData](small),
		ImportFroms: NewArena[StmtImportFromData](small),
		Prints:      NewArena[StmtPrintData](small),
		Execs:       NewArena[StmtExecData](small),
		Ifs:         NewArena[StmtIfData](small),
		Whiles:      NewArena[StmtWhileData](small),
		Fors:        NewArena[StmtForData](small),
		Repeats:     NewArena[StmtRepeatData](small),
		Tries:       NewArena[StmtTryData](small),
		Withs:       NewArena[StmtWithData](small),
		FuncDefs:    NewArena[StmtFuncDefData](small),
		ClassDefs:   NewArena[StmtClassDefData](small),
		Matches:     NewArena[StmtMatchData](small),
		Bads:        NewArena[StmtBadData](small),
	}
}

// New allocates a statement without payload.
func (s *Stmts) New(kind StmtKind, span source.Span) StmtID {
	return s.new(kind, span, NoPayloadID)
}

func (s *Stmts) new(kind StmtKind, span source.Span, payload PayloadID) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{
		Kind:    kind,
		Span:    span,
		Payload: payload,
	}))
}

func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}

func (s *Stmts) Len() int {
	return int(s.Arena.Len())
}

func stmtPayload[T any](s *Stmts, id StmtID, arena *Arena[T], kinds ...StmtKind) (*T, bool) {
	st := s.Get(id)
	if st == nil || !st.Payload.IsValid() {
		return nil, false
	}
	for _, k := range kinds {
		if st.Kind == k {
			return arena.Get(uint32(st.Payload)), true
		}
	}
	return nil, false
}

func (s *Stmts) NewValue(kind StmtKind, span source.Span, value ExprID) StmtID {
	p := s.Values.Allocate(StmtValueData{Value: value})
	return s.new(kind, span, PayloadID(p))
}

// Value returns the payload of an expression statement or return.
func (s *Stmts) Value(id StmtID) (*StmtValueData, bool) {
	return stmtPayload(s, id, s.Values, StmtExpr, StmtReturn)
}

func (s *Stmts) NewAssign(span source.Span, targets []ExprID, value ExprID) StmtID {
	p := s.Assigns.Allocate(StmtAssignData{Targets: append([]ExprID(nil), targets...), Value: value})
	return s.new(StmtAssign, span, PayloadID(p))
}

func (s *Stmts) Assign(id StmtID) (*StmtAssignData, bool) {
	return stmtPayload(s, id, s.Assigns, StmtAssign)
}

func (s *Stmts) NewAugAssign(span source.Span, target ExprID, op BinaryOp, value ExprID) StmtID {
	p := s.AugAssigns.Allocate(StmtAugAssignData{Target: target, Op: op, Value: value})
	return s.new(StmtAugAssign, span, PayloadID(p))
}

func (s *Stmts) AugAssign(id StmtID) (*StmtAugAssignData, bool) {
	return stmtPayload(s, id, s.AugAssigns, StmtAugAssign)
}

func (s *Stmts) NewAnnAssign(span source.Span, target, annotation, value ExprID) StmtID {
	p := s.AnnAssigns.Allocate(StmtAnnAssignData{Target: target, Annotation: annotation, Value: value})
	return s.new(StmtAnnAssign, span, PayloadID(p))
}

func (s *Stmts) AnnAssign(id StmtID) (*StmtAnnAssignData, bool) {
	return stmtPayload(s, id, s.AnnAssigns, StmtAnnAssign)
}

func (s *Stmts) NewRaise(span source.Span, exc, cause ExprID) StmtID {
	p := s.Raises.Allocate(StmtRaiseData{Exc: exc, Cause: cause})
	return s.new(StmtRaise, span, PayloadID(p))
}

func (s *Stmts) Raise(id StmtID) (*StmtRaiseData, bool) {
	return stmtPayload(s, id, s.Raises, StmtRaise)
}

func (s *Stmts) NewDel(span source.Span, targets []ExprID) StmtID {
	p := s.Targets.Allocate(StmtTargetsData{Targets: append([]ExprID(nil), targets...)})
	return s.new(StmtDel, span, PayloadID(p))
}

func (s *Stmts) Del(id StmtID) (*StmtTargetsData, bool) {
	return stmtPayload(s, id, s.Targets, StmtDel)
}

// NewNames creates a global or nonlocal declaration.
func (s *Stmts) NewNames(kind StmtKind, span source.Span, names []string, spans []source.Span) StmtID {
	p := s.Names.Allocate(StmtNamesData{
		Names: append([]string(nil), names...),
		Spans: append([]source.Span(nil), spans...),
	})
	return s.new(kind, span, PayloadID(p))
}

func (s *Stmts) NamesDecl(id StmtID) (*StmtNamesData, bool) {
	return stmtPayload(s, id, s.Names, StmtGlobal, StmtNonlocal)
}

func (s *Stmts) NewAssert(span source.Span, test, msg ExprID) StmtID {
	p := s.Asserts.Allocate(StmtAssertData{Test: test, Msg: msg})
	return s.new(StmtAssert, span, PayloadID(p))
}

func (s *Stmts) Assert(id StmtID) (*StmtAssertData, bool) {
	return stmtPayload(s, id, s.Asserts, StmtAssert)
}

func (s *Stmts) NewImport(span source.Span, names []Alias) StmtID {
	p := s.Imports.Allocate(StmtImportData{Names: append([]Alias(nil), names...)})
	return s.new(StmtImport, span, PayloadID(p))
}

func (s *Stmts) Import(id StmtID) (*StmtImportData, bool) {
	return stmtPayload(s, id, s.Imports, StmtImport)
}

func (s *Stmts) NewImportFrom(span source.Span, data StmtImportFromData) StmtID {
	data.Names = append([]Alias(nil), data.Names...)
	p := s.ImportFroms.Allocate(data)
	return s.new(StmtImportFrom, span, PayloadID(p))
}

func (s *Stmts) ImportFrom(id StmtID) (*StmtImportFromData, bool) {
	return stmtPayload(s, id, s.ImportFroms, StmtImportFrom)
}

func (s *Stmts) NewPrint(span source.Span, dest ExprID, values []ExprID, trailingComma bool) StmtID {
	p := s.Prints.Allocate(StmtPrintData{Dest: dest, Values: append([]ExprID(nil), values...), TrailingComma: trailingComma})
	return s.new(StmtPrint, span, PayloadID(p))
}

func (s *Stmts) Print(id StmtID) (*StmtPrintData, bool) {
	return stmtPayload(s, id, s.Prints, StmtPrint)
}

func (s *Stmts) NewExec(span source.Span, body, globals, locals ExprID) StmtID {
	p := s.Execs.Allocate(StmtExecData{Body: body, Globals: globals, Locals: locals})
	return s.new(StmtExec, span, PayloadID(p))
}

func (s *Stmts) Exec(id StmtID) (*StmtExecData, bool) {
	return stmtPayload(s, id, s.Execs, StmtExec)
}

func (s *Stmts) NewIf(span source.Span, test ExprID, body, orelse []StmtID) StmtID {
	p := s.Ifs.Allocate(StmtIfData{Test: test, Body: body, Orelse: orelse})
	return s.new(StmtIf, span, PayloadID(p))
}

func (s *Stmts) If(id StmtID) (*StmtIfData, bool) {
	return stmtPayload(s, id, s.Ifs, StmtIf)
}

func (s *Stmts) NewWhile(span source.Span, test ExprID, body, orelse []StmtID) StmtID {
	p := s.Whiles.Allocate(StmtWhileData{Test: test, Body: body, Orelse: orelse})
	return s.new(StmtWhile, span, PayloadID(p))
}

func (s *Stmts) While(id StmtID) (*StmtWhileData, bool) {
	return stmtPayload(s, id, s.Whiles, StmtWhile)
}

func (s *Stmts) NewFor(span source.Span, data StmtForData) StmtID {
	p := s.Fors.Allocate(data)
	return s.new(StmtFor, span, PayloadID(p))
}

func (s *Stmts) For(id StmtID) (*StmtForData, bool) {
	return stmtPayload(s, id, s.Fors, StmtFor)
}

func (s *Stmts) NewRepeat(span source.Span, count ExprID, body []StmtID) StmtID {
	p := s.Repeats.Allocate(StmtRepeatData{Count: count, Body: body})
	return s.new(StmtRepeat, span, PayloadID(p))
}

func (s *Stmts) Repeat(id StmtID) (*StmtRepeatData, bool) {
	return stmtPayload(s, id, s.Repeats, StmtRepeat)
}

func (s *Stmts) NewTry(span source.Span, data StmtTryData) StmtID {
	p := s.Tries.Allocate(data)
	return s.new(StmtTry, span, PayloadID(p))
}

func (s *Stmts) Try(id StmtID) (*StmtTryData, bool) {
	return stmtPayload(s, id, s.Tries, StmtTry)
}

func (s *Stmts) NewWith(span source.Span, items []WithItem, body []StmtID, async bool) StmtID {
	p := s.Withs.Allocate(StmtWithData{Items: append([]WithItem(nil), items...), Body: body, Async: async})
	return s.new(StmtWith, span, PayloadID(p))
}

func (s *Stmts) With(id StmtID) (*StmtWithData, bool) {
	return stmtPayload(s, id, s.Withs, StmtWith)
}

func (s *Stmts) NewFuncDef(span source.Span, data StmtFuncDefData) StmtID {
	p := s.FuncDefs.Allocate(data)
	return s.new(StmtFuncDef, span, PayloadID(p))
}

func (s *Stmts) FuncDef(id StmtID) (*StmtFuncDefData, bool) {
	return stmtPayload(s, id, s.FuncDefs, StmtFuncDef)
}

func (s *Stmts) NewClassDef(span source.Span, data StmtClassDefData) StmtID {
	p := s.ClassDefs.Allocate(data)
	return s.new(StmtClassDef, span, PayloadID(p))
}

func (s *Stmts) ClassDef(id StmtID) (*StmtClassDefData, bool) {
	return stmtPayload(s, id, s.ClassDefs, StmtClassDef)
}

func (s *Stmts) NewMatch(span source.Span, subject ExprID, cases []MatchCase) StmtID {
	p := s.Matches.Allocate(StmtMatchData{Subject: subject, Cases: cases})
	return s.new(StmtMatch, span, PayloadID(p))
}

func (s *Stmts) Match(id StmtID) (*StmtMatchData, bool) {
	return stmtPayload(s, id, s.Matches, StmtMatch)
}

// NewBad records a broken statement; body is the block parsed after a failed header, if any.
func (s *Stmts) NewBad(span source.Span, body []StmtID) StmtID {
	p := s.Bads.Allocate(StmtBadData{Body: body})
	return s.new(StmtBad, span, PayloadID(p))
}

func (s *Stmts) Bad(id StmtID) (*StmtBadData, bool) {
	return stmtPayload(s, id, s.Bads, StmtBad)
}
