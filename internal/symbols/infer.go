package symbols

import (
	"strings"

	"tpyparser/internal/ast"
)

// Resolver supplies the names a file does not define itself.
type Resolver interface {
	// Builtin returns a symbol of the builtins module.
	Builtin(name string) *Symbol
	// Module returns the module symbol for an importable name.
	Module(name string) *Symbol
}

const maxInferDepth = 24

// Inferrer answers "what is this expression" for completion. Results are
// approximations: unknown means nil, never an error.
type Inferrer struct {
	Tree     *ast.Tree
	Table    *Table
	Resolver Resolver

	depth int
}

// Lookup resolves a bare name at scope, falling back to star imports and
// builtins. Import references are followed.
func (in *Inferrer) Lookup(scope ScopeID, name string) *Symbol {
	if s := in.Table.Lookup(scope, name); s != nil {
		return in.Follow(s)
	}
	if in.Resolver == nil {
		return nil
	}
	for i := len(in.Table.StarImports) - 1; i >= 0; i-- {
		if s := in.Resolver.Module(in.Table.StarImports[i]).Member(name); s != nil {
			return s
		}
	}
	return in.Resolver.Builtin(name)
}

// Follow replaces import references with what they name: a module member
// or a submodule.
func (in *Inferrer) Follow(s *Symbol) *Symbol {
	if s == nil || in.Resolver == nil {
		return s
	}
	switch s.Kind {
	case SymbolModule:
		if m := in.Resolver.Module(s.Module); m != nil {
			return m
		}
	case SymbolImportRef:
		if m := in.Resolver.Module(s.Module); m != nil {
			if member := m.Member(s.Import); member != nil {
				return member
			}
		}
		if m := in.Resolver.Module(s.Module + "." + s.Import); m != nil {
			return m
		}
	}
	return s
}

// SymbolOf returns the symbol an expression names: a Name or an attribute
// chain.
func (in *Inferrer) SymbolOf(scope ScopeID, id ast.ExprID) *Symbol {
	if !in.enter() {
		return nil
	}
	defer in.leave()
	e := in.Tree.Expr(id)
	if e == nil || !id.IsValid() {
		return nil
	}
	switch e.Kind {
	case ast.ExprName:
		n, _ := in.Tree.Exprs.Name(id)
		return in.Lookup(scope, n.Name)
	case ast.ExprAttribute:
		a, _ := in.Tree.Exprs.Attribute(id)
		return in.MemberOf(in.TypeOf(scope, a.Value), a.Attr)
	}
	return nil
}

// TypeOf returns the class or module symbol whose members describe the
// value of an expression.
func (in *Inferrer) TypeOf(scope ScopeID, id ast.ExprID) *Symbol {
	if !in.enter() {
		return nil
	}
	defer in.leave()
	e := in.Tree.Expr(id)
	if e == nil || !id.IsValid() {
		return nil
	}
	switch e.Kind {
	case ast.ExprName, ast.ExprAttribute:
		return in.TypeOfSymbol(scope, in.SymbolOf(scope, id))
	case ast.ExprLiteral:
		lit, _ := in.Tree.Exprs.Literal(id)
		return in.builtinType(lit.Kind.TypeName())
	case ast.ExprFString:
		return in.builtinType("str")
	case ast.ExprList, ast.ExprListComp:
		return in.builtinType("list")
	case ast.ExprTuple:
		return in.builtinType("tuple")
	case ast.ExprSet, ast.ExprSetComp:
		return in.builtinType("set")
	case ast.ExprDict, ast.ExprDictComp:
		return in.builtinType("dict")
	case ast.ExprCall:
		call, _ := in.Tree.Exprs.Call(id)
		fn := in.SymbolOf(scope, call.Func)
		switch {
		case fn == nil:
			return nil
		case fn.Kind == SymbolClass:
			return fn
		case fn.Signature != nil && fn.Signature.Returns != "":
			return in.ResolveType(scope, fn.Signature.Returns, fn.Module)
		}
	case ast.ExprBinary:
		b, _ := in.Tree.Exprs.Binary(id)
		left := in.TypeOf(scope, b.Left)
		if left != nil && left == in.TypeOf(scope, b.Right) {
			return left
		}
	case ast.ExprCompare:
		return in.builtinType("bool")
	case ast.ExprSubscript:
		s, _ := in.Tree.Exprs.Subscript(id)
		if t := in.TypeOf(scope, s.Value); t != nil && t.Name == "str" {
			return t
		}
	}
	return nil
}

// TypeOfSymbol: модули и классы описывают себя сами, у переменных берём
// объявленный тип или тип присвоенного значения.
func (in *Inferrer) TypeOfSymbol(scope ScopeID, s *Symbol) *Symbol {
	if s == nil {
		return nil
	}
	switch s.Kind {
	case SymbolModule, SymbolClass:
		return s
	case SymbolFunction:
		return in.builtinType("function")
	}
	if s.Type != "" {
		return in.ResolveType(scope, s.Type, s.Module)
	}
	if s.Value.IsValid() && s.Provenance == ProvLocal {
		if s.Scope.IsValid() {
			scope = s.Scope
		}
		return in.TypeOf(scope, s.Value)
	}
	return nil
}

// ResolveType maps a type tag to a class symbol. home is the module the tag
// was written in; "" means the current file.
func (in *Inferrer) ResolveType(scope ScopeID, tag, home string) *Symbol {
	tag = strings.Trim(strings.TrimSpace(tag), `"'`)
	if i := strings.IndexByte(tag, '['); i >= 0 {
		tag = tag[:i]
	}
	if tag == "" || tag == "None" {
		return nil
	}
	if head, rest, dotted := strings.Cut(tag, "."); dotted {
		var cur *Symbol
		if in.Resolver != nil {
			cur = in.Resolver.Module(head)
		}
		if cur == nil {
			cur = in.Lookup(scope, head)
		}
		for _, part := range strings.Split(rest, ".") {
			cur = in.MemberOf(cur, part)
		}
		return cur
	}
	if home != "" && in.Resolver != nil {
		if s := in.Resolver.Module(home).Member(tag); s != nil && s.Kind == SymbolClass {
			return s
		}
	}
	if s := in.Lookup(scope, tag); s != nil && s.Kind == SymbolClass {
		return s
	}
	return in.builtinType(tag)
}

// MemberOf looks name up on a class (bases included) or module.
func (in *Inferrer) MemberOf(owner *Symbol, name string) *Symbol {
	for _, m := range in.Members(owner) {
		if m.Name == name {
			return in.Follow(m)
		}
	}
	return nil
}

// Members lists the members of a class including inherited ones, or the
// members of a module. Nearer definitions come first.
func (in *Inferrer) Members(owner *Symbol) []*Symbol {
	if owner == nil || !in.enter() {
		return nil
	}
	defer in.leave()
	if owner.Kind != SymbolClass || len(owner.Bases) == 0 {
		return owner.Members
	}
	seen := make(map[string]bool, len(owner.Members))
	out := make([]*Symbol, 0, len(owner.Members))
	add := func(list []*Symbol) {
		for _, m := range list {
			if !seen[m.Name] {
				seen[m.Name] = true
				out = append(out, m)
			}
		}
	}
	add(owner.Members)
	for _, b := range owner.Bases {
		base := in.ResolveType(in.Table.Root, b, owner.Module)
		if base != nil && base != owner {
			add(in.Members(base))
		}
	}
	return out
}

func (in *Inferrer) builtinType(name string) *Symbol {
	if in.Resolver == nil {
		return nil
	}
	if s := in.Resolver.Builtin(name); s != nil && s.Kind == SymbolClass {
		return s
	}
	return nil
}

func (in *Inferrer) enter() bool {
	in.depth++
	if in.depth > maxInferDepth {
		in.depth--
		return false
	}
	return true
}

func (in *Inferrer) leave() {
	in.depth--
}
