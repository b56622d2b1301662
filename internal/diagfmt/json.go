package diagfmt

import (
	"encoding/json"
	"io"

	"tpyparser/internal/diag"
	"tpyparser/internal/source"
)

// LocationJSON is a span resolved to public positions: 1-based lines and
// 0-based code point columns.
type LocationJSON struct {
	File      string `json:"file" msgpack:"file"`
	StartByte uint32 `json:"start_byte" msgpack:"start_byte"`
	EndByte   uint32 `json:"end_byte" msgpack:"end_byte"`
	Line      uint32 `json:"line" msgpack:"line"`
	Column    uint32 `json:"column" msgpack:"column"`
	EndLine   uint32 `json:"end_line" msgpack:"end_line"`
	EndColumn uint32 `json:"end_column" msgpack:"end_column"`
}

type NoteJSON struct {
	Message  string       `json:"message" msgpack:"message"`
	Location LocationJSON `json:"location" msgpack:"location"`
}

type FixEditJSON struct {
	Location LocationJSON `json:"location" msgpack:"location"`
	NewText  string       `json:"new_text" msgpack:"new_text"`
	OldText  string       `json:"old_text,omitempty" msgpack:"old_text,omitempty"`
}

type FixJSON struct {
	Title string        `json:"title" msgpack:"title"`
	Edits []FixEditJSON `json:"edits,omitempty" msgpack:"edits,omitempty"`
}

type DiagnosticJSON struct {
	Severity string       `json:"severity" msgpack:"severity"`
	Code     string       `json:"code" msgpack:"code"`
	Message  string       `json:"message" msgpack:"message"`
	Location LocationJSON `json:"location" msgpack:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty" msgpack:"notes,omitempty"`
	Fixes    []FixJSON    `json:"fixes,omitempty" msgpack:"fixes,omitempty"`
}

// DiagnosticsOutput is the root of the JSON output for one file.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics" msgpack:"diagnostics"`
	Count       int              `json:"count" msgpack:"count"`
}

// FileDiagnostics is one entry of a batch report.
type FileDiagnostics struct {
	Path  string `json:"path" msgpack:"path"`
	Error string `json:"error,omitempty" msgpack:"error,omitempty"`
	DiagnosticsOutput
}

// BatchOutput is the root of the JSON output for `check` over many files.
type BatchOutput struct {
	Files    []FileDiagnostics `json:"files" msgpack:"files"`
	Errors   int               `json:"errors" msgpack:"errors"`
	Warnings int               `json:"warnings" msgpack:"warnings"`
}

func makeLocation(span source.Span, f *source.File, mode PathMode) LocationJSON {
	start, end := f.Position(span.Start), f.Position(span.End)
	return LocationJSON{
		File:      formatPath(f.Path, mode),
		StartByte: span.Start,
		EndByte:   span.End,
		Line:      start.Line,
		Column:    start.Column,
		EndLine:   end.Line,
		EndColumn: end.Column,
	}
}

// BuildDiagnosticsOutput формирует структуру вывода без сериализации.
func BuildDiagnosticsOutput(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	items := bag.Items()
	if opts.Max > 0 && opts.Max < len(items) {
		items = items[:opts.Max]
	}
	out := DiagnosticsOutput{Diagnostics: make([]DiagnosticJSON, 0, len(items))}
	for _, d := range items {
		f := fs.Get(d.Primary.File)
		dj := DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Message:  message(opts.Message, d),
			Location: makeLocation(d.Primary, f, opts.PathMode),
		}
		if opts.IncludeNotes {
			for _, n := range d.Notes {
				dj.Notes = append(dj.Notes, NoteJSON{Message: n.Msg, Location: makeLocation(n.Span, f, opts.PathMode)})
			}
		}
		for _, fix := range d.Fixes {
			fj := FixJSON{Title: fix.Title}
			for _, e := range fix.Edits {
				fj.Edits = append(fj.Edits, FixEditJSON{
					Location: makeLocation(e.Span, f, opts.PathMode),
					NewText:  e.NewText,
					OldText:  f.Text(e.Span),
				})
			}
			dj.Fixes = append(dj.Fixes, fj)
		}
		out.Diagnostics = append(out.Diagnostics, dj)
	}
	out.Count = len(out.Diagnostics)
	return out
}

// JSON writes the diagnostics of bag as indented JSON.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	return encodeJSON(w, BuildDiagnosticsOutput(bag, fs, opts))
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
