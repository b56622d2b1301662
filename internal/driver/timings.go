package driver

import (
	"fmt"
	"strings"
	"time"

	"tpyparser/internal/trace"
)

// PhaseTiming is the duration of one pipeline phase.
type PhaseTiming struct {
	Name    string        `json:"name" msgpack:"name"`
	Elapsed time.Duration `json:"elapsed_ns" msgpack:"elapsed"`
}

// Timings lists phases in execution order.
type Timings []PhaseTiming

// Total sums all phases.
func (t Timings) Total() time.Duration {
	var sum time.Duration
	for _, p := range t {
		sum += p.Elapsed
	}
	return sum
}

// String renders "parse 1.20ms, check 0.31ms (total 1.51ms)".
func (t Timings) String() string {
	parts := make([]string, 0, len(t))
	for _, p := range t {
		parts = append(parts, fmt.Sprintf("%s %.2fms", p.Name, ms(p.Elapsed)))
	}
	return fmt.Sprintf("%s (total %.2fms)", strings.Join(parts, ", "), ms(t.Total()))
}

func ms(d time.Duration) float64 { return float64(d.Microseconds()) / 1000 }

// PhaseEvent is sent to an Options.Observer when a phase of one file starts
// (Done false) and again when it ends, with Elapsed filled in.
type PhaseEvent struct {
	Path    string
	Name    string
	Done    bool
	Elapsed time.Duration
}

type PhaseObserver func(PhaseEvent)

type phase struct {
	res      *Result
	span     *trace.Span
	observer PhaseObserver
	name     string
}

func (r *Result) begin(t trace.Tracer, parent *trace.Span, obs PhaseObserver, name string) phase {
	if obs != nil {
		obs(PhaseEvent{Path: r.File.Path, Name: name})
	}
	return phase{res: r, span: trace.Begin(t, trace.ScopePass, name, parent.ID()), observer: obs, name: name}
}

func (p phase) end(detail string) {
	d := p.span.End(detail)
	p.res.Timings = append(p.res.Timings, PhaseTiming{Name: p.name, Elapsed: d})
	if p.observer != nil {
		p.observer(PhaseEvent{Path: p.res.File.Path, Name: p.name, Done: true, Elapsed: d})
	}
}
