package trace

import (
	"io"
	"os"
	"sync"
)

// StreamTracer writes each event to w as it arrives.
type StreamTracer struct {
	gate
	format Format
	mu     sync.Mutex
	w      io.Writer
}

func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	return &StreamTracer{gate: gate{level}, format: format, w: w}
}

func (s *StreamTracer) Emit(ev *Event) {
	if !s.admits(ev) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ev.Seq = NextSeq()
	// трасса не должна ломать анализ
	_, _ = s.w.Write(FormatEvent(ev, s.format)) //nolint:errcheck
}

func (s *StreamTracer) Flush() error {
	switch w := s.w.(type) {
	case interface{ Flush() error }:
		return w.Flush()
	case *os.File:
		_ = w.Sync() //nolint:errcheck // stderr не умеет fsync
	}
	return nil
}

// Close flushes, then closes w unless it is stdout or stderr.
func (s *StreamTracer) Close() error {
	err := s.Flush()
	if s.w == os.Stderr || s.w == os.Stdout {
		return err
	}
	if c, ok := s.w.(io.Closer); ok {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
