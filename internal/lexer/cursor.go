package lexer

import (
	"fmt"

	"fortio.org/safecast"

	"tpyparser/internal/source"
)

// Cursor walks the bytes of one file up to Limit. Fragment lexers (fields of
// f-strings) use a Limit below the end of the file.
type Cursor struct {
	File  *source.File
	Off   uint32
	Limit uint32 // exclusive
}

// NewCursor covers the whole file.
func NewCursor(f *source.File) Cursor {
	return NewCursorRange(f, 0, ^uint32(0))
}

// NewCursorRange restricts the cursor to [start, end) clamped to the file.
func NewCursorRange(f *source.File, start, end uint32) Cursor {
	size, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	limit := min(end, size)
	return Cursor{File: f, Off: min(start, limit), Limit: limit}
}

// EOF: дошли до границы диапазона
func (c *Cursor) EOF() bool {
	return c.Off >= c.Limit
}

// PeekAt returns the byte n positions ahead, or 0 past the limit. Python
// source never needs a literal NUL to be matched, so 0 doubles as "none".
func (c *Cursor) PeekAt(n uint32) byte {
	i := c.Off + n
	if i < c.Off || i >= c.Limit {
		return 0
	}
	return c.File.Content[i]
}

// Peek is PeekAt(0).
func (c *Cursor) Peek() byte {
	return c.PeekAt(0)
}

// Rest is the unread part of the range.
func (c *Cursor) Rest() []byte {
	if c.EOF() {
		return nil
	}
	return c.File.Content[c.Off:c.Limit]
}

// Bump съедает один байт и возвращает его.
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.File.Content[c.Off]
	c.Off++
	return b
}

// Eat consumes the next byte if it is b.
func (c *Cursor) Eat(b byte) bool {
	if c.Peek() == b && !c.EOF() {
		c.Off++
		return true
	}
	return false
}

// EatWhile consumes bytes while pred holds and returns how many it took.
func (c *Cursor) EatWhile(pred func(byte) bool) int {
	n := 0
	for !c.EOF() && pred(c.File.Content[c.Off]) {
		c.Off++
		n++
	}
	return n
}

// Mark is a saved offset.
type Mark uint32

func (c *Cursor) Mark() Mark {
	return Mark(c.Off)
}

// SpanFrom covers the bytes read since m.
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{
		File:  c.File.ID,
		Start: uint32(m),
		End:   c.Off,
	}
}

// Reset rewinds to m.
func (c *Cursor) Reset(m Mark) {
	c.Off = uint32(m)
}
