package trace

import "errors"

// MultiTracer fans events out to several tracers.
type MultiTracer struct {
	gate
	sinks []Tracer
}

// NewMultiTracer combines tracers, skipping nil ones. It admits what the
// most verbose part admits; each part filters on its own.
func NewMultiTracer(tracers ...Tracer) *MultiTracer {
	m := &MultiTracer{}
	for _, t := range tracers {
		if t != nil {
			m.sinks = append(m.sinks, t)
			m.level = max(m.level, t.Level())
		}
	}
	return m
}

func (m *MultiTracer) Emit(ev *Event) {
	for _, t := range m.sinks {
		cp := *ev // Seq у каждого свой
		t.Emit(&cp)
	}
}

func (m *MultiTracer) Flush() error {
	return m.each(Tracer.Flush)
}

func (m *MultiTracer) Close() error {
	return m.each(Tracer.Close)
}

func (m *MultiTracer) each(fn func(Tracer) error) error {
	errs := make([]error, 0, len(m.sinks))
	for _, t := range m.sinks {
		errs = append(errs, fn(t))
	}
	return errors.Join(errs...)
}
