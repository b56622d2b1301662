package diagfmt

import (
	"io"

	"tpyparser/internal/diag"
	"tpyparser/internal/source"
)

// BatchEntry is what the formatters need from one checked file.
type BatchEntry struct {
	Path string
	Bag  *diag.Bag
	Err  error
}

// BuildBatchOutput collects per-file outputs in the given order.
func BuildBatchOutput(entries []BatchEntry, fs *source.FileSet, opts JSONOpts) BatchOutput {
	out := BatchOutput{Files: make([]FileDiagnostics, 0, len(entries))}
	for _, e := range entries {
		fd := FileDiagnostics{Path: formatPath(e.Path, opts.PathMode)}
		if e.Err != nil {
			fd.Error = e.Err.Error()
		}
		if e.Bag != nil {
			fd.DiagnosticsOutput = BuildDiagnosticsOutput(e.Bag, fs, opts)
			for _, d := range e.Bag.Items() {
				switch d.Severity {
				case diag.SevError:
					out.Errors++
				case diag.SevWarning:
					out.Warnings++
				}
			}
		} else {
			fd.Diagnostics = []DiagnosticJSON{}
		}
		out.Files = append(out.Files, fd)
	}
	return out
}

// BatchJSON writes a batch report as indented JSON.
func BatchJSON(w io.Writer, entries []BatchEntry, fs *source.FileSet, opts JSONOpts) error {
	return encodeJSON(w, BuildBatchOutput(entries, fs, opts))
}

// BatchMsgpack writes a batch report as msgpack.
func BatchMsgpack(w io.Writer, entries []BatchEntry, fs *source.FileSet, opts JSONOpts) error {
	return encodeMsgpack(w, BuildBatchOutput(entries, fs, opts))
}
