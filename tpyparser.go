// Package tpyparser is an error-tolerant parser and code-intelligence engine
// for the TigerPython teaching dialect of Python.
//
// An Engine owns its dialect flags, message catalogs and module registry.
// The package-level functions operate on a process-wide default Engine.
//
//	errs := tpyparser.FindAllErrors("def f(:\n    pass\n")
//	for _, e := range errs {
//		fmt.Printf("%d:%d %s %s\n", e.Line, e.Offset, e.Code, e.Msg)
//	}
package tpyparser

import (
	"context"
	"fmt"
	"slices"

	"tpyparser/internal/ast"
	"tpyparser/internal/config"
	"tpyparser/internal/diag"
	"tpyparser/internal/driver"
	"tpyparser/internal/messages"
	"tpyparser/internal/modules"
	"tpyparser/internal/trace"
)

// Config is the dialect record. Start from DefaultConfig; a zero
// PythonVersion is read as 3.
type Config = config.Config

// DefaultConfig returns Python 3 with true division.
func DefaultConfig() Config { return config.Default() }

// Tree is the best-effort parse tree returned by Parse.
type Tree = ast.Node

// ErrorInfo is one diagnostic in its public shape. Line is 1-based, Offset is
// the 0-based column counted in Unicode code points.
type ErrorInfo struct {
	Line   int    `json:"line"`
	Offset int    `json:"offset"`
	Msg    string `json:"msg"`
	Code   string `json:"code"`
}

// Engine is one isolated analysis context. It is not safe for concurrent
// use; give each goroutine its own Engine (see Clone).
type Engine struct {
	cfg    Config
	msgs   *messages.Registry
	mods   *modules.Registry
	cache  *driver.ResultCache
	tracer trace.Tracer
}

// Options configure NewEngine.
type Options struct {
	Config Config
	// Modules seeds the registry; nil selects the built-in modules only.
	Modules *modules.Registry
	// CacheSize bounds the parse cache; 0 selects the default.
	CacheSize int
	Tracer    trace.Tracer
}

// NewEngine builds an engine with the embedded message catalogs.
func NewEngine(opts Options) (*Engine, error) {
	if opts.Config.PythonVersion == 0 {
		opts.Config.PythonVersion = 3
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, &ConfigurationError{Op: "config", Err: err}
	}
	msgs, err := messages.NewRegistry()
	if err != nil {
		return nil, fmt.Errorf("load message catalogs: %w", err)
	}
	if opts.Config.Language != "" {
		if err := msgs.SetLanguage(opts.Config.Language); err != nil {
			return nil, &ConfigurationError{Op: "language", Err: err}
		}
	}
	mods := opts.Modules
	if mods == nil {
		mods = modules.NewRegistry()
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.Nop
	}
	e := &Engine{
		cfg:    opts.Config,
		msgs:   msgs,
		mods:   mods,
		cache:  driver.NewResultCache(opts.CacheSize),
		tracer: tracer,
	}
	e.cfg.Language = msgs.Language()
	return e, nil
}

// MustEngine is NewEngine for callers that treat a broken setup as fatal.
func MustEngine(opts Options) *Engine {
	e, err := NewEngine(opts)
	if err != nil {
		panic(err)
	}
	return e
}

// Clone returns an independent engine with the same flags, language,
// message overrides and modules. Loaded modules are immutable and shared.
func (e *Engine) Clone() *Engine {
	return &Engine{
		cfg:    e.cfg,
		msgs:   e.msgs.Clone(),
		mods:   e.mods.Clone(),
		cache:  driver.NewResultCache(0),
		tracer: e.tracer,
	}
}

// Modules exposes the module registry of the engine.
func (e *Engine) Modules() *modules.Registry { return e.mods }

// analyze runs one tolerant parse under the current flags. Repeated calls
// with the same source and flags share a cached result.
func (e *Engine) analyze(src string) *driver.Result {
	ctx := trace.WithTracer(context.Background(), e.tracer)
	return e.cache.Analyze(ctx, "<source>", []byte(src), driver.Options{Config: e.cfg})
}

// Diagnostics returns every diagnostic of src, warnings included, in
// position order.
func (e *Engine) Diagnostics(src string) []diag.Diagnostic {
	return slices.Clone(e.analyze(src).Bag.Items())
}

// FindAllErrors returns the error-severity diagnostics of src sorted by
// (line, offset). The result is never nil.
func (e *Engine) FindAllErrors(src string) []ErrorInfo {
	res := e.analyze(src)
	errs := res.Errors()
	out := make([]ErrorInfo, 0, len(errs))
	for _, d := range errs {
		out = append(out, e.errorInfo(res, d))
	}
	return out
}

// CheckSyntax returns the first error of src, or nil.
func (e *Engine) CheckSyntax(src string) *ErrorInfo {
	errs := e.FindAllErrors(src)
	if len(errs) == 0 {
		return nil
	}
	return &errs[0]
}

// Parse returns the best-effort tree of src. It is built even for invalid
// input and belongs to the caller.
func (e *Engine) Parse(src string) *Tree {
	return e.analyze(src).Tree.Export()
}

// Message renders d in the active language.
func (e *Engine) Message(d diag.Diagnostic) string {
	return e.msgs.Render(d.Code.ID(), d.Args)
}

func (e *Engine) errorInfo(res *driver.Result, d diag.Diagnostic) ErrorInfo {
	pos := res.File.Position(d.Primary.Start)
	return ErrorInfo{
		Line:   int(pos.Line),
		Offset: int(pos.Column),
		Msg:    e.Message(d),
		Code:   d.Code.ID(),
	}
}
