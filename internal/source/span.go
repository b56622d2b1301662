package source

import "fmt"

// Span is a half-open byte range [Start, End) in one file.
type Span struct {
	File  FileID
	Start uint32
	End   uint32
}

func (s Span) Empty() bool { return s.Start >= s.End }

func (s Span) Len() uint32 {
	if s.Empty() {
		return 0
	}
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Cover returns the smallest span holding both s and other. Spans from
// different files are not merged: s is returned unchanged.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	s.Start = min(s.Start, other.Start)
	s.End = max(s.End, other.End)
	return s
}

// Contains treats End as inclusive: a cursor right after a token still
// touches it.
func (s Span) Contains(off uint32) bool {
	return s.Start <= off && off <= s.End
}

// At is the empty span at the end of s.
func (s Span) At() Span { return Span{File: s.File, Start: s.End, End: s.End} }

// Head is the empty span at the start of s.
func (s Span) Head() Span { return Span{File: s.File, Start: s.Start, End: s.Start} }
