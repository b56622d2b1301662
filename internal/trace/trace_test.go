package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLevelAllows(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		kind  Kind
		want  bool
	}{
		{LevelOff, ScopeDriver, KindSpanBegin, false},
		{LevelDriver, ScopeDriver, KindSpanEnd, true},
		{LevelDriver, ScopePass, KindSpanEnd, false},
		{LevelPhase, ScopePass, KindSpanBegin, true},
		{LevelPhase, ScopeFile, KindPoint, false},
		{LevelDebug, ScopePass, KindPoint, true},
	}
	for _, tt := range tests {
		if got := tt.level.Allows(tt.scope, tt.kind); got != tt.want {
			t.Errorf("%v.Allows(%v, %v) = %v, want %v", tt.level, tt.scope, tt.kind, got, tt.want)
		}
	}
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)
	root := Begin(tr, ScopeDriver, "check", 0)
	sp := Begin(tr, ScopePass, "parse", root.ID())
	sp.WithExtra("tokens", "12").End("")
	Point(tr, ScopePass, "ignored", "")
	root.End("1 file")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[1], "  → parse") {
		t.Errorf("child span not indented: %q", lines[1])
	}
	if !strings.Contains(lines[2], "← parse") || !strings.Contains(lines[2], "{tokens=12}") {
		t.Errorf("end line = %q", lines[2])
	}
	if !strings.Contains(lines[3], "(1 file)") {
		t.Errorf("detail missing: %q", lines[3])
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	Point(tr, ScopeFile, "stub:math", "loaded")
	var ev map[string]any
	if err := json.Unmarshal(buf.Bytes(), &ev); err != nil {
		t.Fatalf("unmarshal: %v (%q)", err, buf.String())
	}
	if ev["name"] != "stub:math" || ev["kind"] != "point" || ev["scope"] != "file" {
		t.Errorf("event = %v", ev)
	}
}

func TestRingTracerWraps(t *testing.T) {
	tr := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		Point(tr, ScopePass, name, "")
	}
	snap := tr.Snapshot()
	var got []string
	for _, ev := range snap {
		got = append(got, ev.Name)
	}
	if strings.Join(got, ",") != "c,d,e" {
		t.Fatalf("snapshot = %v", got)
	}
	var buf bytes.Buffer
	if err := tr.Dump(&buf, FormatText); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if strings.Count(buf.String(), "\n") != 3 {
		t.Errorf("dump = %q", buf.String())
	}
}

func TestZapTracer(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	tr := NewZapTracer(zap.New(core), LevelPhase)
	Begin(tr, ScopeFile, "file:prog.py", 0).End("ok")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("got %d entries", len(entries))
	}
	end := entries[1]
	if end.Level != zapcore.InfoLevel || end.Message != "file:prog.py" {
		t.Errorf("end entry = %+v", end)
	}
	if end.ContextMap()["detail"] != "ok" {
		t.Errorf("fields = %v", end.ContextMap())
	}
}

func TestNewOffIsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff, Mode: ModeStream})
	if err != nil || tr != Nop {
		t.Fatalf("New(off) = %v, %v", tr, err)
	}
	if d := Begin(tr, ScopeDriver, "x", 0).End(""); d < 0 {
		t.Errorf("negative duration")
	}
}

func TestParseHelpers(t *testing.T) {
	if l, err := ParseLevel("PHASE"); err != nil || l != LevelPhase {
		t.Errorf("ParseLevel = %v, %v", l, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Errorf("expected error")
	}
	if m, err := ParseMode("log"); err != nil || m != ModeLog {
		t.Errorf("ParseMode = %v, %v", m, err)
	}
	if f, err := ParseFormat("json"); err != nil || f != FormatNDJSON {
		t.Errorf("ParseFormat = %v, %v", f, err)
	}
}

func TestParseErrorListsChoices(t *testing.T) {
	_, err := ParseMode("disk")
	if err == nil || !strings.Contains(err.Error(), "stream|ring|both|log") {
		t.Fatalf("err = %v", err)
	}
	if f, err := ParseFormat(""); err != nil || f != FormatText {
		t.Errorf("ParseFormat(\"\") = %v, %v", f, err)
	}
}

func TestContextCarriesParent(t *testing.T) {
	tr := NewRingTracer(8, LevelPhase)
	ctx := WithTracer(context.Background(), tr)
	root := Begin(FromContext(ctx), ScopeDriver, "batch", ParentSpan(ctx))
	ctx = WithSpan(ctx, root)
	if FromContext(ctx) != Tracer(tr) {
		t.Fatalf("tracer lost by WithSpan")
	}
	child := Begin(FromContext(ctx), ScopeFile, "file:a.py", ParentSpan(ctx))
	child.End("")
	root.End("")

	snap := tr.Snapshot()
	if len(snap) != 4 || snap[1].ParentID != root.ID() || snap[1].ParentID == 0 {
		t.Fatalf("events = %+v", snap)
	}
	if ParentSpan(context.Background()) != 0 || FromContext(context.Background()) != Nop {
		t.Errorf("empty context must yield Nop and no parent")
	}
}
