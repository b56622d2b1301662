package trace

import (
	"context"
	"sync/atomic"
	"time"
)

var (
	seq    atomic.Uint64
	spanID atomic.Uint64
)

// NextSeq numbers events in the order sinks accept them.
func NextSeq() uint64 { return seq.Add(1) }

// Span is one timed operation. A nil *Span is valid and does nothing.
type Span struct {
	tracer Tracer // nil: только замер времени
	begin  Event
}

// Begin opens a span under parent (a span ID, 0 for none). The result is
// always usable; when t filters the scope out it only measures time.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	sp := &Span{begin: Event{Time: time.Now(), Scope: scope, Name: name, ParentID: parent}}
	if t == nil || !t.Level().Allows(scope, KindSpanBegin) {
		return sp
	}
	sp.tracer = t
	sp.begin.SpanID = spanID.Add(1)
	ev := sp.begin
	ev.Kind = KindSpanBegin
	t.Emit(&ev)
	return sp
}

// End emits the closing event and returns the span duration.
func (s *Span) End(detail string) time.Duration {
	if s == nil {
		return 0
	}
	elapsed := time.Since(s.begin.Time)
	if s.tracer != nil {
		ev := s.begin
		ev.Time, ev.Kind, ev.Detail, ev.Elapsed = time.Now(), KindSpanEnd, detail, elapsed
		s.tracer.Emit(&ev)
	}
	return elapsed
}

// WithExtra attaches key=value to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || s.tracer == nil {
		return s
	}
	if s.begin.Extra == nil {
		s.begin.Extra = map[string]string{}
	}
	s.begin.Extra[key] = value
	return s
}

// ID is 0 for nil and untraced spans.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.begin.SpanID
}

// Point emits an instant event.
func Point(t Tracer, scope Scope, name, detail string) {
	if t == nil || !t.Level().Allows(scope, KindPoint) {
		return
	}
	t.Emit(&Event{Time: time.Now(), Kind: KindPoint, Scope: scope, Name: name, Detail: detail})
}

type ctxKey struct{}

// carrier is what a context holds: the tracer and the current parent span.
type carrier struct {
	tracer Tracer
	parent uint64
}

func fromCtx(ctx context.Context) carrier {
	if ctx != nil {
		if c, ok := ctx.Value(ctxKey{}).(carrier); ok {
			return c
		}
	}
	return carrier{tracer: Nop}
}

// FromContext returns the tracer attached to ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	return fromCtx(ctx).tracer
}

// WithTracer attaches t to ctx; the parent span is reset.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, ctxKey{}, carrier{tracer: t})
}

// ParentSpan returns the span ID stored by WithSpan, or 0.
func ParentSpan(ctx context.Context) uint64 {
	return fromCtx(ctx).parent
}

// WithSpan makes sp the parent of spans begun under the returned context.
func WithSpan(ctx context.Context, sp *Span) context.Context {
	c := fromCtx(ctx)
	c.parent = sp.ID()
	return context.WithValue(ctx, ctxKey{}, c)
}
