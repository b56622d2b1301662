// Package driver runs the analysis pipeline (lex, parse, check) over one
// source file or a batch of files.
package driver

import (
	"context"
	"fmt"
	"strconv"

	"tpyparser/internal/ast"
	"tpyparser/internal/checker"
	"tpyparser/internal/config"
	"tpyparser/internal/diag"
	"tpyparser/internal/parser"
	"tpyparser/internal/source"
	"tpyparser/internal/token"
	"tpyparser/internal/trace"
)

// Options configure one analysis.
type Options struct {
	Config         config.Config
	MaxDiagnostics int // 0: без ограничения
	Observer       PhaseObserver
}

// Result is everything one tolerant parse produces. It is shared by cached
// lookups and must be treated as read-only.
type Result struct {
	File    *source.File
	Tokens  []token.Token
	Tree    *ast.Tree
	Bag     *diag.Bag
	Timings Timings
}

// Errors returns the error-severity diagnostics in position order.
func (r *Result) Errors() []diag.Diagnostic {
	if r == nil || r.Bag == nil {
		return nil
	}
	return r.Bag.Errors()
}

// Analyze parses and checks file under opts.Config. It never fails: every
// problem in the source becomes a diagnostic in Result.Bag.
func Analyze(ctx context.Context, file *source.File, opts Options) *Result {
	tracer := trace.FromContext(ctx)
	root := trace.Begin(tracer, trace.ScopeFile, "file:"+source.BaseName(file.Path), trace.ParentSpan(ctx))
	res := &Result{File: file, Bag: diag.NewBag(opts.MaxDiagnostics)}
	reporter := diag.BagReporter{Bag: res.Bag}
	cfg := opts.Config

	phase := res.begin(tracer, root, opts.Observer, "parse")
	parsed := parser.ParseFile(file, parser.Options{
		Dialect:                     cfg.Dialect(),
		SagePower:                   cfg.SagePower,
		EvalMode:                    cfg.EvalMode,
		TranslateUnicodePunctuation: cfg.TranslateUnicodePunctuation,
		Reporter:                    reporter,
	})
	res.Tree, res.Tokens = parsed.Tree, parsed.Tokens
	phase.end(strconv.Itoa(len(res.Tokens)) + " tokens")

	phase = res.begin(tracer, root, opts.Observer, "check")
	checker.Check(res.Tree, checker.Options{
		Reporter:       reporter,
		PythonVersion:  cfg.PythonVersion,
		RejectDeadCode: cfg.RejectDeadCode,
		NewDivision:    cfg.NewDivision,
	})
	checker.Finalize(res.Bag, cfg.WarningAsErrors)
	phase.end(strconv.Itoa(res.Bag.Len()) + " diagnostics")

	root.WithExtra("diagnostics", strconv.Itoa(res.Bag.Len())).End("")
	return res
}

// AnalyzeSource wraps src in a virtual file and analyzes it.
func AnalyzeSource(ctx context.Context, name string, src []byte, opts Options) *Result {
	fs := source.NewFileSet()
	return Analyze(ctx, fs.Get(fs.AddVirtual(name, src)), opts)
}

// AnalyzePath loads a file from disk and analyzes it.
func AnalyzePath(ctx context.Context, path string, opts Options) (*Result, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return Analyze(ctx, fs.Get(id), opts), nil
}
