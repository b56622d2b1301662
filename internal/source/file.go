package source

import (
	"fmt"
	"slices"
	"unicode/utf8"

	"fortio.org/safecast"
)

type FileID uint32

// FileFlags record what happened to the bytes on the way in.
type FileFlags uint8

const (
	FileVirtual FileFlags = 1 << iota // не с диска: тест, stdin, API
	FileHadBOM
	FileNormalizedNewlines
)

// File is one immutable source text with its line index.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	// LineIdx holds the byte offset of every '\n'.
	LineIdx []uint32
	Flags   FileFlags
}

// LineCol is a 1-based line and a 1-based byte column, for renderers.
type LineCol struct {
	Line uint32
	Col  uint32
}

// Position is the public contract: 1-based line, 0-based column in code
// points.
type Position struct {
	Line   uint32
	Column uint32
}

// NewVirtualFile builds a file outside any FileSet. content is kept
// byte for byte, so offsets match the caller's text.
func NewVirtualFile(name, content string) *File {
	f := newFile(0, name, []byte(content), FileVirtual)
	return &f
}

func newFile(id FileID, path string, content []byte, flags FileFlags) File {
	var idx []uint32
	for i, b := range content {
		if b == '\n' {
			idx = append(idx, uint32(i))
		}
	}
	return File{ID: id, Path: path, Content: content, LineIdx: idx, Flags: flags}
}

func (f *File) Len() uint32 {
	n, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("%s: file too large: %w", f.Path, err))
	}
	return n
}

func (f *File) Span(start, end uint32) Span {
	return Span{File: f.ID, Start: start, End: end}
}

// Text returns the source covered by sp, clipped to the file.
func (f *File) Text(sp Span) string {
	end := min(sp.End, f.Len())
	if sp.Start >= end {
		return ""
	}
	return string(f.Content[sp.Start:end])
}

// line returns the 0-based line holding off.
func (f *File) line(off uint32) int {
	n, _ := slices.BinarySearch(f.LineIdx, off)
	return n
}

func (f *File) lineStart(line int) uint32 {
	if line <= 0 {
		return 0
	}
	return f.LineIdx[line-1] + 1
}

func (f *File) LineCol(off uint32) LineCol {
	line := f.line(off)
	return LineCol{Line: uint32(line) + 1, Col: off - f.lineStart(line) + 1}
}

func (f *File) Position(off uint32) Position {
	off = min(off, f.Len())
	line := f.line(off)
	col := utf8.RuneCount(f.Content[f.lineStart(line):off])
	return Position{Line: uint32(line) + 1, Column: uint32(col)}
}

// ByteOffset maps a 0-based code point index onto a byte offset; false when
// n is outside [0, number of code points].
func (f *File) ByteOffset(n int) (uint32, bool) {
	if n < 0 {
		return 0, false
	}
	off := 0
	for ; n > 0; n-- {
		if off >= len(f.Content) {
			return 0, false
		}
		_, size := utf8.DecodeRune(f.Content[off:])
		off += size
	}
	return uint32(off), true
}

// GetLine returns line n (1-based) without its newline; "" past the end.
func (f *File) GetLine(n uint32) string {
	if n == 0 || int(n) > len(f.LineIdx)+1 {
		return ""
	}
	start := f.lineStart(int(n) - 1)
	end := f.Len()
	if int(n) <= len(f.LineIdx) {
		end = f.LineIdx[n-1]
	}
	return string(f.Content[start:end])
}
