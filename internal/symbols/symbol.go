package symbols

import (
	"tpyparser/internal/ast"
	"tpyparser/internal/source"
)

// SymbolKind classifies the semantic meaning of a symbol.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolModule
	SymbolClass
	SymbolFunction
	SymbolVariable
	SymbolParam
	SymbolKeyword
	SymbolImportRef // "from m import x" до разрешения через реестр модулей
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolModule:
		return "module"
	case SymbolClass:
		return "class"
	case SymbolFunction:
		return "function"
	case SymbolVariable:
		return "variable"
	case SymbolParam:
		return "param"
	case SymbolKeyword:
		return "keyword"
	case SymbolImportRef:
		return "import"
	default:
		return "invalid"
	}
}

// Provenance says where a symbol came from. Lower values win ties when
// candidates with equal names are ranked.
type Provenance uint8

const (
	ProvLocal Provenance = iota
	ProvStub
	ProvBuiltin
)

func (p Provenance) String() string {
	switch p {
	case ProvLocal:
		return "local"
	case ProvStub:
		return "stub"
	default:
		return "builtin"
	}
}

// Symbol describes a named entity visible somewhere. Symbols from module
// stubs are shared between engines and must be treated as read-only.
type Symbol struct {
	Name       string     `msgpack:"name"`
	Kind       SymbolKind `msgpack:"kind"`
	Type       string     `msgpack:"type,omitempty"` // declared type tag, "": неизвестен
	Signature  *Signature `msgpack:"sig,omitempty"`
	Doc        string     `msgpack:"doc,omitempty"`
	Provenance Provenance `msgpack:"prov"`
	Members    []*Symbol  `msgpack:"members,omitempty"` // class and module members in declaration order
	Bases      []string   `msgpack:"bases,omitempty"`   // class bases as written
	Module     string     `msgpack:"module,omitempty"`  // module the symbol was defined in, or the target of an import
	Import     string     `msgpack:"import,omitempty"`  // for "from m import x": имя x внутри Module

	// local symbols only
	Span  source.Span `msgpack:"-"`
	Value ast.ExprID  `msgpack:"-"` // assigned value for deferred inference
	Scope ScopeID     `msgpack:"-"` // where Value is evaluated
}

// Member returns the direct member with the given name.
func (s *Symbol) Member(name string) *Symbol {
	if s == nil {
		return nil
	}
	for _, m := range s.Members {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// IsCallable reports whether completing the symbol should offer a call.
func (s *Symbol) IsCallable() bool {
	return s != nil && (s.Kind == SymbolFunction || s.Kind == SymbolClass)
}

// TypeTag is the presentation type: the declared tag, or the symbol kind
// for modules, classes and functions.
func (s *Symbol) TypeTag() string {
	switch {
	case s == nil:
		return ""
	case s.Type != "":
		return s.Type
	case s.Kind == SymbolModule, s.Kind == SymbolClass, s.Kind == SymbolFunction, s.Kind == SymbolKeyword:
		return s.Kind.String()
	}
	return ""
}
