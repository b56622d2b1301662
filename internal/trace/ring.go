package trace

import (
	"io"
	"slices"
	"sync"
)

// RingTracer keeps the most recent events in memory, for a dump at exit.
type RingTracer struct {
	gate
	mu    sync.Mutex
	buf   []Event
	total uint64 // сколько событий принято за всё время
}

// NewRingTracer creates a ring; capacity <= 0 selects 4096.
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = 4096
	}
	return &RingTracer{gate: gate{level}, buf: make([]Event, capacity)}
}

func (r *RingTracer) Emit(ev *Event) {
	if !r.admits(ev) {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	slot := r.total % uint64(len(r.buf))
	r.buf[slot] = *ev
	r.buf[slot].Seq = NextSeq()
	r.total++
}

// Snapshot returns the kept events oldest first.
func (r *RingTracer) Snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := uint64(len(r.buf))
	if r.total <= n {
		return slices.Clone(r.buf[:r.total])
	}
	head := r.total % n
	return slices.Concat(r.buf[head:], r.buf[:head])
}

// Dump writes the kept events to w.
func (r *RingTracer) Dump(w io.Writer, format Format) error {
	for _, ev := range r.Snapshot() {
		if _, err := w.Write(FormatEvent(&ev, format)); err != nil {
			return err
		}
	}
	return nil
}

func (r *RingTracer) Flush() error { return nil }
func (r *RingTracer) Close() error { return nil }
