package ast

import (
	"tpyparser/internal/source"
)

// PatternKind enumerates match/case pattern forms.
type PatternKind uint8

const (
	PatBad PatternKind = iota
	PatWildcard // _
	PatCapture  // name
	PatValue    // literal or dotted name
	PatSequence // [p, ...] / (p, ...)
	PatMapping  // {k: p, **rest}
	PatClass    // C(p, k=p)
	PatOr       // p | q
	PatAs       // p as name
	PatStar     // *name
)

var patternKindNames = [...]string{"Bad", "MatchWildcard", "MatchAs", "MatchValue", "MatchSequence", "MatchMapping", "MatchClass", "MatchOr", "MatchAs", "MatchStar"}

func (k PatternKind) String() string {
	if int(k) < len(patternKindNames) {
		return patternKindNames[k]
	}
	return "Unknown"
}

// Pattern: плоская структура; используемые поля зависят от Kind.
type Pattern struct {
	Kind        PatternKind
	Span        source.Span
	Name        string      // Capture, As, Star, rest for Mapping
	NameSpan    source.Span // span of Name
	Value       ExprID      // Value
	Class       ExprID      // Class
	Patterns    []PatternID // Sequence, Or, Class positional, As inner (single)
	Keys        []ExprID    // Mapping
	KwdNames    []string    // Class
	KwdPatterns []PatternID // Class
}

type Patterns struct {
	Arena *Arena[Pattern]
}

func NewPatterns(capHint uint) *Patterns {
	if capHint == 0 {
		capHint = 1 << 4
	}
	return &Patterns{Arena: NewArena[Pattern](capHint)}
}

func (p *Patterns) New(pat Pattern) PatternID {
	return PatternID(p.Arena.Allocate(pat))
}

func (p *Patterns) Get(id PatternID) *Pattern {
	return p.Arena.Get(uint32(id))
}

// Bindings returns the capture names a pattern introduces, in source order.
func (p *Patterns) Bindings(id PatternID) []string {
	var out []string
	var walk func(PatternID)
	walk = func(id PatternID) {
		pat := p.Get(id)
		if pat == nil {
			return
		}
		switch pat.Kind {
		case PatCapture, PatStar:
			if pat.Name != "" && pat.Name != "_" {
				out = append(out, pat.Name)
			}
		case PatAs:
			for _, sub := range pat.Patterns {
				walk(sub)
			}
			if pat.Name != "" {
				out = append(out, pat.Name)
			}
			return
		case PatMapping:
			for _, sub := range pat.Patterns {
				walk(sub)
			}
			if pat.Name != "" {
				out = append(out, pat.Name)
			}
			return
		}
		for _, sub := range pat.Patterns {
			walk(sub)
		}
		for _, sub := range pat.KwdPatterns {
			walk(sub)
		}
	}
	walk(id)
	return out
}
