// Package trace records analysis phases: driver operations, per-file work
// and the lex/parse/check passes inside them.
//
// Tracing is off by default and costs one interface call per phase when
// disabled. The CLI enables it with
//
//	tpyparser check --trace=- --trace-level=phase prog.py
//
// Tracers:
//
//   - Nop: discards everything
//   - StreamTracer: writes each event as it happens (text or NDJSON)
//   - RingTracer: keeps the last N events for a dump after a failure
//   - ZapTracer: forwards events to a zap logger
//   - MultiTracer: fans out to several of the above
//
// Tracers travel through context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	sp := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "parse", 0)
//	defer sp.End("")
package trace
