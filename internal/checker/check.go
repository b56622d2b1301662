// Package checker runs the static passes that follow parsing: statement
// context, dead code and division semantics. Passes only report; the tree is
// never modified.
package checker

import (
	"tpyparser/internal/ast"
	"tpyparser/internal/diag"
	"tpyparser/internal/source"
)

// Options configure the passes over one tree.
type Options struct {
	Reporter       diag.Reporter
	PythonVersion  int
	RejectDeadCode bool
	NewDivision    bool
}

// Check runs the passes in order: context, dead code, division.
func Check(tree *ast.Tree, opts Options) {
	if tree == nil || opts.Reporter == nil {
		return
	}
	c := checker{tree: tree, opts: opts}
	c.checkContext()
	if opts.RejectDeadCode {
		c.checkDeadCode()
	}
	c.checkDivision()
}

// Finalize is the last pass over the collected diagnostics: optional
// promotion of warnings, then stable ordering and deduplication.
func Finalize(bag *diag.Bag, warningAsErrors bool) {
	if bag == nil {
		return
	}
	if warningAsErrors {
		bag.PromoteWarnings()
	}
	bag.Sort()
	bag.Dedup()
}

type checker struct {
	tree *ast.Tree
	opts Options
}

func (c *checker) errorAt(code diag.Code, sp source.Span, args ...string) {
	c.opts.Reporter.Report(code, diag.SevError, sp, args, nil, nil)
}

func (c *checker) warnAt(code diag.Code, sp source.Span, args ...string) {
	c.opts.Reporter.Report(code, diag.SevWarning, sp, args, nil, nil)
}
