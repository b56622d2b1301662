// Package modules loads module stubs into symbol sets and keeps them in a
// registry. Three body formats are accepted: Python stub syntax, a compact
// one-declaration-per-line format and the legacy plain-text format.
package modules

import (
	"fmt"
	"strings"

	"tpyparser/internal/symbols"
)

// Format selects the grammar of a stub body.
type Format uint8

const (
	FormatAuto Format = iota
	FormatStub
	FormatCompact
	FormatLegacy
)

func (f Format) String() string {
	switch f {
	case FormatStub:
		return "stub"
	case FormatCompact:
		return "compact"
	case FormatLegacy:
		return "legacy"
	default:
		return "auto"
	}
}

// ParseFormat accepts the format names used by the CLI and the public API.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "stub", "pyi", "python":
		return FormatStub, nil
	case "compact", "tpy":
		return FormatCompact, nil
	case "legacy", "text", "plain":
		return FormatLegacy, nil
	}
	return FormatAuto, fmt.Errorf("unknown module format %q", s)
}

// Problem is a malformed part of a stub body. Problems never fail a load.
type Problem struct {
	Line int    `msgpack:"line"` // 1-based
	Msg  string `msgpack:"msg"`
}

func (p Problem) String() string {
	return fmt.Sprintf("line %d: %s", p.Line, p.Msg)
}

// Module is one loaded stub. A loaded module is immutable; redefining a name
// replaces the whole value in the registry.
type Module struct {
	Name     string          `msgpack:"name"`
	Format   Format          `msgpack:"format"`
	Symbol   *symbols.Symbol `msgpack:"symbol"`
	Problems []Problem       `msgpack:"problems,omitempty"`
}

// Member returns a top-level name of the module.
func (m *Module) Member(name string) *symbols.Symbol {
	if m == nil {
		return nil
	}
	return m.Symbol.Member(name)
}

// Load parses body under format and builds a module named name. It never
// fails: malformed parts become Problems and are left out.
func Load(name, body string, format Format) *Module {
	if format == FormatAuto {
		format = Detect(body)
	}
	var (
		members  []*symbols.Symbol
		problems []Problem
	)
	switch format {
	case FormatCompact:
		members, problems = loadCompact(body)
	case FormatLegacy:
		members, problems = loadLegacy(body)
	default:
		format = FormatStub
		members, problems = loadStub(name, body)
	}
	mod := &symbols.Symbol{
		Name:       name,
		Kind:       symbols.SymbolModule,
		Module:     name,
		Provenance: symbols.ProvStub,
		Members:    members,
	}
	stamp(mod.Members, name, symbols.ProvStub)
	return &Module{Name: name, Format: format, Symbol: mod, Problems: problems}
}

// stamp marks symbols as coming from module name. Import references keep
// the module they point at.
func stamp(list []*symbols.Symbol, name string, prov symbols.Provenance) {
	for _, s := range list {
		s.Provenance = prov
		if s.Kind != symbols.SymbolModule && s.Kind != symbols.SymbolImportRef {
			s.Module = name
		}
		stamp(s.Members, name, prov)
	}
}

// Detect guesses the format of a body from its first declarations.
func Detect(body string) Format {
	for line := range strings.Lines(body) {
		t := strings.TrimSpace(line)
		if t == "" || strings.HasPrefix(t, "#") {
			continue
		}
		// docstring модуля: только stub-формат знает строковые литералы
		if startsWithString(t) {
			return FormatStub
		}
		head, _, _ := strings.Cut(t, " ")
		switch head {
		case "fn", "var":
			return FormatCompact
		case "def", "import", "from", "@overload", "async":
			return FormatStub
		case "class":
			if strings.HasSuffix(t, ":") {
				return FormatStub
			}
			if strings.Contains(t, `"`) {
				return FormatCompact
			}
			return FormatLegacy
		}
		if strings.HasPrefix(t, "@") || strings.Contains(t, " = ") || looksAnnotated(t) {
			return FormatStub
		}
		return FormatLegacy
	}
	return FormatStub
}

// startsWithString matches a line opening with a string literal, prefixes
// such as r or b included.
func startsWithString(t string) bool {
	t = strings.TrimLeft(t, "rRbBuUfF")
	return strings.HasPrefix(t, `"`) || strings.HasPrefix(t, "'")
}

// looksAnnotated matches "name: type" lines.
func looksAnnotated(t string) bool {
	name, rest, ok := strings.Cut(t, ":")
	if !ok || rest == "" || strings.ContainsAny(name, "( ") {
		return false
	}
	return true
}
