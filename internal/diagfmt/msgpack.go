package diagfmt

import (
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"tpyparser/internal/diag"
	"tpyparser/internal/source"
)

// Msgpack writes the same structure as JSON in msgpack encoding.
func Msgpack(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	return encodeMsgpack(w, BuildDiagnosticsOutput(bag, fs, opts))
}

func encodeMsgpack(w io.Writer, v any) error {
	return msgpack.NewEncoder(w).Encode(v)
}
