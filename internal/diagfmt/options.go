// Package diagfmt renders diagnostics, token streams and syntax trees for
// the command line: colored text, JSON and msgpack.
package diagfmt

import (
	"path/filepath"

	"tpyparser/internal/diag"
)

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	PathModeAsIs PathMode = iota
	PathModeAbsolute
	PathModeBasename
)

// ParsePathMode accepts "", "absolute" and "basename".
func ParsePathMode(s string) PathMode {
	switch s {
	case "absolute", "abs":
		return PathModeAbsolute
	case "basename", "base":
		return PathModeBasename
	}
	return PathModeAsIs
}

func formatPath(path string, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(path); err == nil {
			return filepath.ToSlash(abs)
		}
	case PathModeBasename:
		return filepath.Base(path)
	}
	return path
}

// MessageFunc renders the text of a diagnostic. Formatters fall back to
// Diagnostic.Message and then to the code title when it is nil.
type MessageFunc func(d diag.Diagnostic) string

func message(fn MessageFunc, d diag.Diagnostic) string {
	if fn != nil {
		if m := fn(d); m != "" {
			return m
		}
	}
	if d.Message != "" {
		return d.Message
	}
	return d.Code.Title()
}

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	Context   int // строк контекста вокруг основной
	PathMode  PathMode
	Width     int // обрезка строк исходника, 0: без ограничения
	ShowNotes bool
	Message   MessageFunc
}

// JSONOpts configures JSON and msgpack output of diagnostics.
type JSONOpts struct {
	PathMode     PathMode
	Max          int // обрезка вывода, не Bag
	IncludeNotes bool
	Message      MessageFunc
}
