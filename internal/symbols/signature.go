package symbols

import (
	"strings"

	"tpyparser/internal/ast"
)

// Arg is one named parameter of a signature.
type Arg struct {
	Name       string `msgpack:"n"`
	Default    string `msgpack:"d,omitempty"` // literal text of the default
	HasDefault bool   `msgpack:"h,omitempty"`
	Type       string `msgpack:"t,omitempty"`
}

// VarArg is *args or **kwargs.
type VarArg struct {
	Name string `msgpack:"n"`
	Type string `msgpack:"t,omitempty"`
}

// Signature keeps parameter groups in declaration order.
type Signature struct {
	PositionalOnly        []Arg   `msgpack:"po,omitempty"`
	PositionalOrKeyword   []Arg   `msgpack:"pk,omitempty"`
	VarArgs               *VarArg `msgpack:"va,omitempty"`
	KeywordOnly           []Arg   `msgpack:"ko,omitempty"`
	VarKwargs             *VarArg `msgpack:"vk,omitempty"`
	FirstParamIsSelfOrCls bool    `msgpack:"self,omitempty"`
	Returns               string  `msgpack:"r,omitempty"`
}

// FromParams builds a signature from parsed parameters. Defaults and
// annotations keep their source text.
func FromParams(tree *ast.Tree, params ast.Params, returns ast.ExprID, method bool) *Signature {
	text := func(id ast.ExprID) string {
		if e := tree.Expr(id); e != nil && id.IsValid() {
			return tree.Text(e.Span)
		}
		return ""
	}
	arg := func(p ast.Param) Arg {
		a := Arg{Name: p.Name, Type: text(p.Annotation)}
		if p.Default.IsValid() {
			a.Default, a.HasDefault = text(p.Default), true
		}
		return a
	}
	sig := &Signature{Returns: text(returns)}
	for _, p := range params.PosOnly {
		sig.PositionalOnly = append(sig.PositionalOnly, arg(p))
	}
	for _, p := range params.Args {
		sig.PositionalOrKeyword = append(sig.PositionalOrKeyword, arg(p))
	}
	for _, p := range params.KwOnly {
		sig.KeywordOnly = append(sig.KeywordOnly, arg(p))
	}
	if params.VarArg != nil {
		sig.VarArgs = &VarArg{Name: params.VarArg.Name, Type: text(params.VarArg.Annotation)}
	}
	if params.KwArg != nil {
		sig.VarKwargs = &VarArg{Name: params.KwArg.Name, Type: text(params.KwArg.Annotation)}
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
	return sig
}

// Params is the flat legacy rendering: parameter names in order, varargs
// with their stars, self/cls dropped.
func (s *Signature) Params() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.PositionalOnly)+len(s.PositionalOrKeyword)+len(s.KeywordOnly)+2)
	skip := s.FirstParamIsSelfOrCls
	add := func(args []Arg) {
		for _, a := range args {
			if skip {
				skip = false
				continue
			}
			out = append(out, a.Name)
		}
	}
	add(s.PositionalOnly)
	add(s.PositionalOrKeyword)
	if s.VarArgs != nil {
		out = append(out, "*"+s.VarArgs.Name)
	}
	add(s.KeywordOnly)
	if s.VarKwargs != nil {
		out = append(out, "**"+s.VarKwargs.Name)
	}
	return out
}

// String renders the signature the way Python prints it: "(a, b=1, *c, d, **e) -> T".
func (s *Signature) String() string {
	if s == nil {
		return "()"
	}
	var parts []string
	one := func(a Arg) string {
		t := a.Name
		if a.Type != "" {
			t += ": " + a.Type
		}
		if a.HasDefault {
			if a.Type != "" {
				t += " = " + a.Default
			} else {
				t += "=" + a.Default
			}
		}
		return t
	}
	for _, a := range s.PositionalOnly {
		parts = append(parts, one(a))
	}
	if len(s.PositionalOnly) > 0 {
		parts = append(parts, "/")
	}
	for _, a := range s.PositionalOrKeyword {
		parts = append(parts, one(a))
	}
	switch {
	case s.VarArgs != nil:
		parts = append(parts, "*"+s.VarArgs.Name)
	case len(s.KeywordOnly) > 0:
		parts = append(parts, "*")
	}
	for _, a := range s.KeywordOnly {
		parts = append(parts, one(a))
	}
	if s.VarKwargs != nil {
		parts = append(parts, "**"+s.VarKwargs.Name)
	}
	out := "(" + strings.Join(parts, ", ") + ")"
	if s.Returns != "" {
		out += " -> " + s.Returns
	}
	return out
}
