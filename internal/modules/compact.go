package modules

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"tpyparser/internal/symbols"
)

// Compact format, one declaration per line:
//
//	fn area(radius: float) -> float "Area of a circle."
//	var PI: float = 3.14159 "Ratio of circumference to diameter."
//	class Shape(Base) "A drawable shape."
//	fn Shape.scale(self, k: float = 1.0) -> Shape

var compactLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "String", Pattern: `"(\\.|[^"\\])*"|'(\\.|[^'\\])*'`},
	{Name: "Number", Pattern: `\d+(\.\d*)?([eE][-+]?\d+)?|\.\d+`},
	{Name: "Arrow", Pattern: `->`},
	{Name: "Ident", Pattern: `[\p{L}_][\p{L}\p{N}_]*`},
	{Name: "Punct", Pattern: `\*\*|[*().,:=\[\]/|-]`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
})

var compactParser = participle.MustBuild[compactLine](
	participle.Lexer(compactLexer),
	participle.Elide("Whitespace", "Comment"),
)

type compactLine struct {
	Fn    *compactFn    `parser:"  @@"`
	Var   *compactVar   `parser:"| @@"`
	Class *compactClass `parser:"| @@"`
}

type compactFn struct {
	Path    []string        `parser:"'fn' @Ident ( '.' @Ident )*"`
	Params  []*compactParam `parser:"'(' ( @@ ( ',' @@ )* )? ')'"`
	Returns string          `parser:"( '->' @( Ident ( '.' Ident )* ( '[' ( Ident | '.' | ',' )* ']' )? ) )?"`
	Doc     *string         `parser:"@String?"`
}

type compactParam struct {
	Slash bool         `parser:"  @'/'"`
	Star  *compactStar `parser:"| @@"`
	Arg   *compactArg  `parser:"| @@"`
}

type compactStar struct {
	Stars string      `parser:"@( '**' | '*' )"`
	Arg   *compactArg `parser:"@@?"`
}

type compactArg struct {
	Name    string  `parser:"@Ident"`
	Type    string  `parser:"( ':' @( Ident ( '.' Ident )* ( '[' ( Ident | '.' | ',' )* ']' )? ) )?"`
	Default *string `parser:"( '=' @( '-'? ( Number | String | Ident ) ) )?"`
}

type compactVar struct {
	Arg *compactArg `parser:"'var' @@"`
	Doc *string     `parser:"@String?"`
}

type compactClass struct {
	Name  string   `parser:"'class' @Ident"`
	Bases []string `parser:"( '(' ( @( Ident ( '.' Ident )* ) ( ',' @( Ident ( '.' Ident )* ) )* )? ')' )?"`
	Doc   *string  `parser:"@String?"`
}

// loadCompact parses each line on its own so one bad line costs only itself.
func loadCompact(body string) ([]*symbols.Symbol, []Problem) {
	var (
		members  []*symbols.Symbol
		problems []Problem
		classes  = map[string]*symbols.Symbol{}
	)
	lineNo := 0
	for line := range strings.Lines(body) {
		lineNo++
		t := strings.TrimSpace(line)
		if t == "" || strings.HasPrefix(t, "#") {
			continue
		}
		decl, err := compactParser.ParseString("", t)
		if err != nil {
			problems = append(problems, Problem{Line: lineNo, Msg: err.Error()})
			continue
		}
		switch {
		case decl.Class != nil:
			cls := &symbols.Symbol{
				Name:  decl.Class.Name,
				Kind:  symbols.SymbolClass,
				Bases: decl.Class.Bases,
				Doc:   unquoteDoc(decl.Class.Doc),
			}
			if prev, ok := classes[cls.Name]; ok {
				// повторное объявление дополняет класс, методы сохраняются
				prev.Bases, prev.Doc = cls.Bases, cls.Doc
				continue
			}
			classes[cls.Name] = cls
			members = append(members, cls)
		case decl.Var != nil:
			v := &symbols.Symbol{
				Name: decl.Var.Arg.Name,
				Kind: symbols.SymbolVariable,
				Type: decl.Var.Arg.Type,
				Doc:  unquoteDoc(decl.Var.Doc),
			}
			if v.Type == "" && decl.Var.Arg.Default != nil {
				v.Type = literalType(*decl.Var.Arg.Default)
			}
			members = appendMember(members, v)
		case decl.Fn != nil:
			fn, owner, problem := compactFunction(decl.Fn, classes)
			if problem != "" {
				problems = append(problems, Problem{Line: lineNo, Msg: problem})
				continue
			}
			if owner != nil {
				owner.Members = appendMember(owner.Members, fn)
				if fn.Name == "__init__" {
					owner.Signature = fn.Signature
				}
				continue
			}
			members = appendMember(members, fn)
		}
	}
	return members, problems
}

func compactFunction(d *compactFn, classes map[string]*symbols.Symbol) (*symbols.Symbol, *symbols.Symbol, string) {
	var owner *symbols.Symbol
	switch len(d.Path) {
	case 1:
	case 2:
		owner = classes[d.Path[0]]
		if owner == nil {
			return nil, nil, "method of undeclared class " + d.Path[0]
		}
	default:
		return nil, nil, "nested path " + strings.Join(d.Path, ".")
	}
	sig, problem := signatureOf(d.Params, d.Returns, owner != nil)
	if problem != "" {
		return nil, nil, problem
	}
	return &symbols.Symbol{
		Name:      d.Path[len(d.Path)-1],
		Kind:      symbols.SymbolFunction,
		Signature: sig,
		Doc:       unquoteDoc(d.Doc),
	}, owner, ""
}

// signatureOf sorts parameters into their groups. A "/" moves everything
// before it to the positional-only group.
func signatureOf(params []*compactParam, returns string, method bool) (*symbols.Signature, string) {
	sig := &symbols.Signature{Returns: returns}
	keywordOnly := false
	seen := map[string]bool{}
	for _, p := range params {
		switch {
		case p.Slash:
			sig.PositionalOnly = append(sig.PositionalOnly, sig.PositionalOrKeyword...)
			sig.PositionalOrKeyword = nil
		case p.Star != nil:
			if p.Star.Stars == "**" {
				if p.Star.Arg == nil {
					return nil, "missing name after **"
				}
				sig.VarKwargs = &symbols.VarArg{Name: p.Star.Arg.Name, Type: p.Star.Arg.Type}
				break
			}
			keywordOnly = true
			if p.Star.Arg != nil {
				sig.VarArgs = &symbols.VarArg{Name: p.Star.Arg.Name, Type: p.Star.Arg.Type}
			}
		case p.Arg != nil:
			if seen[p.Arg.Name] {
				return nil, "duplicate parameter " + p.Arg.Name
			}
			seen[p.Arg.Name] = true
			a := symbols.Arg{Name: p.Arg.Name, Type: p.Arg.Type}
			if p.Arg.Default != nil {
				a.Default, a.HasDefault = *p.Arg.Default, true
			}
			if keywordOnly {
				sig.KeywordOnly = append(sig.KeywordOnly, a)
			} else {
				sig.PositionalOrKeyword = append(sig.PositionalOrKeyword, a)
			}
		}
	}
	if method {
		first := ""
		switch {
		case len(sig.PositionalOnly) > 0:
			first = sig.PositionalOnly[0].Name
		case len(sig.PositionalOrKeyword) > 0:
			first = sig.PositionalOrKeyword[0].Name
		}
		sig.FirstParamIsSelfOrCls = first == "self" || first == "cls"
	}
	return sig, ""
}

// appendMember replaces an earlier member of the same name.
func appendMember(list []*symbols.Symbol, s *symbols.Symbol) []*symbols.Symbol {
	for i, prev := range list {
		if prev.Name == s.Name {
			list[i] = s
			return list
		}
	}
	return append(list, s)
}

func unquoteDoc(s *string) string {
	if s == nil || len(*s) < 2 {
		return ""
	}
	raw := *s
	if raw[0] == '\'' {
		raw = `"` + strings.ReplaceAll(strings.ReplaceAll(raw[1:len(raw)-1], `\'`, `'`), `"`, `\"`) + `"`
	}
	if out, err := strconv.Unquote(raw); err == nil {
		return out
	}
	return (*s)[1 : len(*s)-1]
}

// literalType names the type of a default value as written.
func literalType(v string) string {
	v = strings.TrimPrefix(v, "-")
	switch {
	case v == "":
		return ""
	case v[0] == '"' || v[0] == '\'':
		return "str"
	case v == "True" || v == "False":
		return "bool"
	case v[0] >= '0' && v[0] <= '9' || v[0] == '.':
		if strings.ContainsAny(v, ".eE") && !strings.HasPrefix(v, "0x") {
			return "float"
		}
		return "int"
	}
	return ""
}
