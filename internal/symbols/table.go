package symbols

import (
	"tpyparser/internal/source"
)

// Table is the scope tree of one parsed file.
type Table struct {
	Scopes *Scopes
	Root   ScopeID
	// StarImports lists modules imported with "from m import *", in order.
	StarImports []string
}

// NewTable creates a table with a module scope covering span.
func NewTable(span source.Span) *Table {
	t := &Table{Scopes: NewScopes(0)}
	t.Root = t.Scopes.New(ScopeModule, NoScopeID, 0, span)
	return t
}

// Declare binds sym in scope. A later plain assignment does not replace a
// parameter, function or class of the same name; anything else is replaced
// in place so declaration order is kept.
func (t *Table) Declare(id ScopeID, sym *Symbol) *Symbol {
	sc := t.Scopes.Get(id)
	if sc == nil || sym == nil || sym.Name == "" {
		return sym
	}
	if prev, ok := sc.NameIndex[sym.Name]; ok {
		if prev.Kind == SymbolParam || (prev.Kind != SymbolVariable && sym.Kind == SymbolVariable) {
			return prev
		}
		*prev = *sym
		return prev
	}
	sc.NameIndex[sym.Name] = sym
	sc.Symbols = append(sc.Symbols, sym)
	return sym
}

// Innermost returns the deepest scope whose span contains off.
func (t *Table) Innermost(off uint32) ScopeID {
	cur := t.Root
	for {
		sc := t.Scopes.Get(cur)
		next := NoScopeID
		for _, child := range sc.Children {
			if t.Scopes.Get(child).Span.Contains(off) {
				next = child
			}
		}
		if !next.IsValid() {
			return cur
		}
		cur = next
	}
}

// chain yields the scopes searched from id outward. Class bodies are only
// visible to themselves, not to methods nested in them.
func (t *Table) chain(id ScopeID, fn func(*Scope) bool) {
	for cur, first := id, true; cur.IsValid(); first = false {
		sc := t.Scopes.Get(cur)
		if sc == nil {
			return
		}
		if first || sc.Kind != ScopeClass {
			if !fn(sc) {
				return
			}
		}
		cur = sc.Parent
	}
}

// Lookup resolves name from scope id outward.
func (t *Table) Lookup(id ScopeID, name string) *Symbol {
	var found *Symbol
	t.chain(id, func(sc *Scope) bool {
		if s, ok := sc.NameIndex[name]; ok {
			found = s
			return false
		}
		return true
	})
	return found
}

// Visible returns every name visible from scope id; inner scopes shadow
// outer ones.
func (t *Table) Visible(id ScopeID) []*Symbol {
	seen := make(map[string]bool)
	var out []*Symbol
	t.chain(id, func(sc *Scope) bool {
		for _, s := range sc.Symbols {
			if !seen[s.Name] {
				seen[s.Name] = true
				out = append(out, s)
			}
		}
		return true
	})
	return out
}

// EnclosingClass returns the class a method scope belongs to, if any.
func (t *Table) EnclosingClass(id ScopeID) *Symbol {
	for cur := id; cur.IsValid(); {
		sc := t.Scopes.Get(cur)
		if sc == nil {
			return nil
		}
		if sc.Class != nil {
			return sc.Class
		}
		if sc.Kind == ScopeFunction || sc.Kind == ScopeModule {
			return nil
		}
		cur = sc.Parent
	}
	return nil
}
