package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"tpyparser/internal/diag"
	"tpyparser/internal/source"
)

type palette struct {
	err, warn, info, path, gutter, caret, note *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		path:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
		note:   color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.path, p.gutter, p.caret, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty writes bag in compiler style:
//
//	prog.py:3:7: error E001: Unexpected token ':'
//	   3 | def f(:
//	     |       ^
//
// Columns are 1-based code points. The bag is expected to be sorted.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		f := fs.Get(d.Primary.File)
		prettyOne(w, p, f, d, opts)
	}
}

func prettyOne(w io.Writer, p palette, f *source.File, d diag.Diagnostic, opts PrettyOpts) {
	pos := f.Position(d.Primary.Start)
	sev := strings.ToLower(d.Severity.String())
	fmt.Fprintf(w, "%s: %s %s\n",
		p.path.Sprintf("%s:%d:%d", formatPath(f.Path, opts.PathMode), pos.Line, pos.Column+1),
		p.severity(d.Severity).Sprintf("%s %s:", sev, d.Code.ID()),
		message(opts.Message, d),
	)
	if len(f.Content) > 0 {
		snippet(w, p, f, d.Primary, opts)
	}
	if opts.ShowNotes {
		for _, n := range d.Notes {
			np := f.Position(n.Span.Start)
			fmt.Fprintf(w, "  %s %d:%d: %s\n", p.note.Sprint("note:"), np.Line, np.Column+1, n.Msg)
		}
	}
}

func snippet(w io.Writer, p palette, f *source.File, sp source.Span, opts PrettyOpts) {
	ex := lineExcerpt(f, sp)
	first := ex.line - min(ex.line-1, uint32(max(opts.Context, 0)))
	last := ex.line + uint32(max(opts.Context, 0))
	width := len(strconv.FormatUint(uint64(last), 10))
	for ln := first; ln <= last; ln++ {
		text := ex.text
		if ln != ex.line {
			if ln > uint32(len(f.LineIdx))+1 {
				break
			}
			text = expandTabs(strings.TrimRight(f.GetLine(ln), "\r\n"))
		}
		fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*d |", width, ln), truncate(text, opts.Width))
		if ln == ex.line {
			fmt.Fprintf(w, "%s %s%s\n", p.gutter.Sprintf("%*s |", width, ""),
				strings.Repeat(" ", ex.pad), p.caret.Sprint("^"+strings.Repeat("~", ex.span-1)))
		}
	}
}

// Short writes one line per diagnostic, for editors and grep:
//
//	prog.py:3:7: E001 Unexpected token ':'
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	for _, d := range bag.Items() {
		f := fs.Get(d.Primary.File)
		pos := f.Position(d.Primary.Start)
		fmt.Fprintf(w, "%s:%d:%d: %s %s\n", formatPath(f.Path, opts.PathMode), pos.Line, pos.Column+1, d.Code.ID(), message(opts.Message, d))
	}
}
