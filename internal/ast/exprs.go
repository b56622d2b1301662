package ast

import (
	"tpyparser/internal/source"
)

// Exprs manages allocation of expressions.
type Exprs struct {
	Arena      *Arena[Expr]
	Names      *Arena[ExprNameData]
	Literals   *Arena[ExprLiteralData]
	FStrings   *Arena[ExprFStringData]
	Attributes *Arena[ExprAttributeData]
	Subscripts *Arena[ExprSubscriptData]
	Slices     *Arena[ExprSliceData]
	Calls      *Arena[ExprCallData]
	Binaries   *Arena[ExprBinaryData]
	Unaries    *Arena[ExprUnaryData]
	Compares   *Arena[ExprCompareData]
	Ternaries  *Arena[ExprTernaryData]
	Lambdas    *Arena[ExprLambdaData]
	Seqs       *Arena[ExprSeqData]
	Dicts      *Arena[ExprDictData]
	Comps      *Arena[ExprCompData]
	Values     *Arena[ExprValueData]
	Nameds     *Arena[ExprNamedData]
}

// NewExprs creates a new Exprs with per-kind arenas preallocated using capHint as the initial capacity.
// If capHint is 0, a default capacity of 1<<8 is used.
func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 8
	}
	small := capHint/4 + 1
	return &Exprs{
		Arena:      NewArena[Expr](capHint),
		Names:      NewArena[ExprNameData](capHint),
		Literals:   NewArena[ExprLiteralData](capHint),
		FStrings:   NewArena[ExprFStringData](small),
		Attributes: NewArena[ExprAttributeData](small),
		Subscripts: NewArena[ExprSubscriptData](small),
		Slices:     NewArena[ExprSliceData](small),
		Calls:      NewArena[ExprCallData](small),
		Binaries:   NewArena[ExprBinaryData](small),
		Unaries:    NewArena[ExprUnaryData](small),
		Compares:   NewArena[ExprCompareData](small),
		Ternaries:  NewArena[ExprTernaryData](small),
		Lambdas:    NewArena[ExprLambdaData](small),
		Seqs:       NewArena[ExprSeqData](small),
		Dicts:      NewArena[ExprDictData](small),
		Comps:      NewArena[ExprCompData](small),
		Values:     NewArena[ExprValueData](small),
		Nameds:     NewArena[ExprNamedData](small),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, payload PayloadID) ExprID {
	return ExprID(e.Arena.Allocate(Expr{
		Kind:    kind,
		Span:    span,
		Payload: payload,
	}))
}

// Get returns the expression with the given ID.
func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

// Len returns the number of allocated expressions.
func (e *Exprs) Len() int {
	return int(e.Arena.Len())
}

func payload[T any](e *Exprs, id ExprID, arena *Arena[T], kinds ...ExprKind) (*T, bool) {
	expr := e.Get(id)
	if expr == nil {
		return nil, false
	}
	for _, k := range kinds {
		if expr.Kind == k {
			return arena.Get(uint32(expr.Payload)), true
		}
	}
	return nil, false
}

// NewBad creates a placeholder expression covering span.
func (e *Exprs) NewBad(span source.Span) ExprID {
	return e.new(ExprBad, span, NoPayloadID)
}

// NewName creates a new identifier expression.
func (e *Exprs) NewName(span source.Span, name string) ExprID {
	p := e.Names.Allocate(ExprNameData{Name: name})
	return e.new(ExprName, span, PayloadID(p))
}

// Name returns the identifier data for the given expression ID.
func (e *Exprs) Name(id ExprID) (*ExprNameData, bool) {
	return payload(e, id, e.Names, ExprName)
}

// NewLiteral creates a new literal expression.
func (e *Exprs) NewLiteral(span source.Span, kind LitKind, text string) ExprID {
	p := e.Literals.Allocate(ExprLiteralData{Kind: kind, Text: text})
	return e.new(ExprLiteral, span, PayloadID(p))
}

// Literal returns the literal data for the given expression ID.
func (e *Exprs) Literal(id ExprID) (*ExprLiteralData, bool) {
	return payload(e, id, e.Literals, ExprLiteral)
}

func (e *Exprs) NewFString(span source.Span, text string, values []ExprID) ExprID {
	p := e.FStrings.Allocate(ExprFStringData{Text: text, Values: append([]ExprID(nil), values...)})
	return e.new(ExprFString, span, PayloadID(p))
}

func (e *Exprs) FString(id ExprID) (*ExprFStringData, bool) {
	return payload(e, id, e.FStrings, ExprFString)
}

// NewAttribute creates "value.attr". attrSpan may be empty while the name is still being typed.
func (e *Exprs) NewAttribute(span source.Span, value ExprID, attr string, attrSpan source.Span) ExprID {
	p := e.Attributes.Allocate(ExprAttributeData{Value: value, Attr: attr, AttrSpan: attrSpan})
	return e.new(ExprAttribute, span, PayloadID(p))
}

func (e *Exprs) Attribute(id ExprID) (*ExprAttributeData, bool) {
	return payload(e, id, e.Attributes, ExprAttribute)
}

func (e *Exprs) NewSubscript(span source.Span, value, index ExprID) ExprID {
	p := e.Subscripts.Allocate(ExprSubscriptData{Value: value, Index: index})
	return e.new(ExprSubscript, span, PayloadID(p))
}

func (e *Exprs) Subscript(id ExprID) (*ExprSubscriptData, bool) {
	return payload(e, id, e.Subscripts, ExprSubscript)
}

func (e *Exprs) NewSlice(span source.Span, lower, upper, step ExprID) ExprID {
	p := e.Slices.Allocate(ExprSliceData{Lower: lower, Upper: upper, Step: step})
	return e.new(ExprSlice, span, PayloadID(p))
}

func (e *Exprs) Slice(id ExprID) (*ExprSliceData, bool) {
	return payload(e, id, e.Slices, ExprSlice)
}

// NewCall creates a new function call expression.
func (e *Exprs) NewCall(span source.Span, fn ExprID, args []Arg) ExprID {
	p := e.Calls.Allocate(ExprCallData{Func: fn, Args: append([]Arg(nil), args...)})
	return e.new(ExprCall, span, PayloadID(p))
}

// Call returns the call data for the given expression ID.
func (e *Exprs) Call(id ExprID) (*ExprCallData, bool) {
	return payload(e, id, e.Calls, ExprCall)
}

// NewBinary creates a new binary expression.
func (e *Exprs) NewBinary(span source.Span, op BinaryOp, left, right ExprID) ExprID {
	p := e.Binaries.Allocate(ExprBinaryData{Op: op, Left: left, Right: right})
	return e.new(ExprBinary, span, PayloadID(p))
}

// Binary returns the binary data for the given expression ID.
func (e *Exprs) Binary(id ExprID) (*ExprBinaryData, bool) {
	return payload(e, id, e.Binaries, ExprBinary)
}

// NewUnary creates a new unary expression.
func (e *Exprs) NewUnary(span source.Span, op UnaryOp, operand ExprID) ExprID {
	p := e.Unaries.Allocate(ExprUnaryData{Op: op, Operand: operand})
	return e.new(ExprUnary, span, PayloadID(p))
}

// Unary returns the unary data for the given expression ID.
func (e *Exprs) Unary(id ExprID) (*ExprUnaryData, bool) {
	return payload(e, id, e.Unaries, ExprUnary)
}

func (e *Exprs) NewCompare(span source.Span, left ExprID, ops []CompareOp, comparators []ExprID) ExprID {
	p := e.Compares.Allocate(ExprCompareData{
		Left:        left,
		Ops:         append([]CompareOp(nil), ops...),
		Comparators: append([]ExprID(nil), comparators...),
	})
	return e.new(ExprCompare, span, PayloadID(p))
}

func (e *Exprs) Compare(id ExprID) (*ExprCompareData, bool) {
	return payload(e, id, e.Compares, ExprCompare)
}

// NewTernary creates "body if test else orelse".
func (e *Exprs) NewTernary(span source.Span, test, body, orelse ExprID) ExprID {
	p := e.Ternaries.Allocate(ExprTernaryData{Test: test, Body: body, Else: orelse})
	return e.new(ExprTernary, span, PayloadID(p))
}

func (e *Exprs) Ternary(id ExprID) (*ExprTernaryData, bool) {
	return payload(e, id, e.Ternaries, ExprTernary)
}

func (e *Exprs) NewLambda(span source.Span, params Params, body ExprID) ExprID {
	p := e.Lambdas.Allocate(ExprLambdaData{Params: params, Body: body})
	return e.new(ExprLambda, span, PayloadID(p))
}

func (e *Exprs) Lambda(id ExprID) (*ExprLambdaData, bool) {
	return payload(e, id, e.Lambdas, ExprLambda)
}

// NewSeq creates a tuple, list or set display.
func (e *Exprs) NewSeq(kind ExprKind, span source.Span, elts []ExprID) ExprID {
	p := e.Seqs.Allocate(ExprSeqData{Elts: append([]ExprID(nil), elts...)})
	return e.new(kind, span, PayloadID(p))
}

// Seq returns elements of a tuple, list or set.
func (e *Exprs) Seq(id ExprID) (*ExprSeqData, bool) {
	return payload(e, id, e.Seqs, ExprTuple, ExprList, ExprSet)
}

func (e *Exprs) NewDict(span source.Span, keys, values []ExprID) ExprID {
	p := e.Dicts.Allocate(ExprDictData{
		Keys:   append([]ExprID(nil), keys...),
		Values: append([]ExprID(nil), values...),
	})
	return e.new(ExprDict, span, PayloadID(p))
}

func (e *Exprs) Dict(id ExprID) (*ExprDictData, bool) {
	return payload(e, id, e.Dicts, ExprDict)
}

// NewComp creates a comprehension of the given kind. value is used by DictComp only.
func (e *Exprs) NewComp(kind ExprKind, span source.Span, elt, value ExprID, clauses []Comprehension) ExprID {
	p := e.Comps.Allocate(ExprCompData{Elt: elt, Value: value, Clauses: append([]Comprehension(nil), clauses...)})
	return e.new(kind, span, PayloadID(p))
}

func (e *Exprs) Comp(id ExprID) (*ExprCompData, bool) {
	return payload(e, id, e.Comps, ExprListComp, ExprSetComp, ExprDictComp, ExprGenerator)
}

// NewValue creates a single-operand wrapper: starred, yield, yield from, await or repr.
func (e *Exprs) NewValue(kind ExprKind, span source.Span, value ExprID) ExprID {
	p := e.Values.Allocate(ExprValueData{Value: value})
	return e.new(kind, span, PayloadID(p))
}

func (e *Exprs) Value(id ExprID) (*ExprValueData, bool) {
	return payload(e, id, e.Values, ExprStarred, ExprYield, ExprYieldFrom, ExprAwait, ExprRepr)
}

func (e *Exprs) NewNamed(span source.Span, target, value ExprID) ExprID {
	p := e.Nameds.Allocate(ExprNamedData{Target: target, Value: value})
	return e.new(ExprNamed, span, PayloadID(p))
}

func (e *Exprs) Named(id ExprID) (*ExprNamedData, bool) {
	return payload(e, id, e.Nameds, ExprNamed)
}

// Children returns direct sub-expressions of id in source order.
// Lambda bodies and defaults are included, comprehension clauses too.
func (e *Exprs) Children(id ExprID) []ExprID {
	expr := e.Get(id)
	if expr == nil {
		return nil
	}
	var out []ExprID
	add := func(ids ...ExprID) {
		for _, c := range ids {
			if c.IsValid() {
				out = append(out, c)
			}
		}
	}
	switch expr.Kind {
	case ExprFString:
		d, _ := e.FString(id)
		add(d.Values...)
	case ExprAttribute:
		d, _ := e.Attribute(id)
		add(d.Value)
	case ExprSubscript:
		d, _ := e.Subscript(id)
		add(d.Value, d.Index)
	case ExprSlice:
		d, _ := e.Slice(id)
		add(d.Lower, d.Upper, d.Step)
	case ExprCall:
		d, _ := e.Call(id)
		add(d.Func)
		for _, a := range d.Args {
			add(a.Value)
		}
	case ExprBinary:
		d, _ := e.Binary(id)
		add(d.Left, d.Right)
	case ExprUnary:
		d, _ := e.Unary(id)
		add(d.Operand)
	case ExprCompare:
		d, _ := e.Compare(id)
		add(d.Left)
		add(d.Comparators...)
	case ExprTernary:
		d, _ := e.Ternary(id)
		add(d.Body, d.Test, d.Else)
	case ExprLambda:
		d, _ := e.Lambda(id)
		for _, p := range d.Params.All() {
			add(p.Default)
		}
		add(d.Body)
	case ExprTuple, ExprList, ExprSet:
		d, _ := e.Seq(id)
		add(d.Elts...)
	case ExprDict:
		d, _ := e.Dict(id)
		for i := range d.Values {
			if i < len(d.Keys) {
				add(d.Keys[i])
			}
			add(d.Values[i])
		}
	case ExprListComp, ExprSetComp, ExprDictComp, ExprGenerator:
		d, _ := e.Comp(id)
		add(d.Elt, d.Value)
		for _, c := range d.Clauses {
			add(c.Target, c.Iter)
			add(c.Ifs...)
		}
	case ExprStarred, ExprYield, ExprYieldFrom, ExprAwait, ExprRepr:
		d, _ := e.Value(id)
		add(d.Value)
	case ExprNamed:
		d, _ := e.Named(id)
		add(d.Target, d.Value)
	}
	return out
}
