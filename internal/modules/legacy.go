package modules

import (
	"strings"

	"github.com/alecthomas/participle/v2"

	"tpyparser/internal/symbols"
)

// Legacy plain-text format, one entry per line, documentation after a tab
// or " -- ":
//
//	forward(distance)	Moves the turtle forward.
//	speed -- Current speed.
//	class Turtle(object)
//	    left(self, angle)
//
// Indented lines belong to the class line above them.

var legacyParser = participle.MustBuild[legacyEntry](
	participle.Lexer(compactLexer),
	participle.Elide("Whitespace", "Comment"),
)

type legacyEntry struct {
	Class   bool        `parser:"@'class'?"`
	Name    string      `parser:"@Ident"`
	Call    *legacyCall `parser:"@@?"`
	Returns string      `parser:"( '->' @( Ident ( '.' Ident )* ( '[' ( Ident | '.' | ',' )* ']' )? ) )?"`
	Type    string      `parser:"( ':' @( Ident ( '.' Ident )* ( '[' ( Ident | '.' | ',' )* ']' )? ) )?"`
}

type legacyCall struct {
	Open   string          `parser:"@'('"`
	Params []*compactParam `parser:"( @@ ( ',' @@ )* )? ')'"`
}

func loadLegacy(body string) ([]*symbols.Symbol, []Problem) {
	var (
		members  []*symbols.Symbol
		problems []Problem
		class    *symbols.Symbol
	)
	lineNo := 0
	for line := range strings.Lines(body) {
		lineNo++
		line = strings.TrimRight(line, "\r\n")
		t := strings.TrimSpace(line)
		if t == "" || strings.HasPrefix(t, "#") {
			continue
		}
		indented := line[0] == ' ' || line[0] == '\t'
		decl, doc := splitLegacyDoc(t)
		decl = strings.TrimSuffix(strings.TrimSpace(decl), ":")
		e, err := legacyParser.ParseString("", decl)
		if err != nil {
			problems = append(problems, Problem{Line: lineNo, Msg: err.Error()})
			continue
		}

		if e.Class {
			cls := &symbols.Symbol{Name: e.Name, Kind: symbols.SymbolClass, Doc: doc}
			if e.Call != nil {
				for _, p := range e.Call.Params {
					if p.Arg != nil {
						cls.Bases = append(cls.Bases, p.Arg.Name)
					}
				}
			}
			members = appendMember(members, cls)
			class = cls
			continue
		}
		var owner *symbols.Symbol
		if indented && class != nil {
			owner = class
		} else {
			class = nil
		}

		sym := &symbols.Symbol{Name: e.Name, Kind: symbols.SymbolVariable, Type: e.Type, Doc: doc}
		if e.Call != nil {
			sig, problem := signatureOf(e.Call.Params, e.Returns, owner != nil)
			if problem != "" {
				problems = append(problems, Problem{Line: lineNo, Msg: problem})
				continue
			}
			sym.Kind, sym.Signature = symbols.SymbolFunction, sig
		}
		if owner != nil {
			owner.Members = appendMember(owner.Members, sym)
			if sym.Name == "__init__" {
				owner.Signature = sym.Signature
			}
			continue
		}
		members = appendMember(members, sym)
	}
	return members, problems
}

// splitLegacyDoc cuts the documentation off an entry line.
func splitLegacyDoc(t string) (string, string) {
	if decl, doc, ok := strings.Cut(t, "\t"); ok {
		return decl, strings.TrimSpace(doc)
	}
	if decl, doc, ok := strings.Cut(t, " -- "); ok {
		return decl, strings.TrimSpace(doc)
	}
	return t, ""
}
