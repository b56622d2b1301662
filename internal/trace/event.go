package trace

import (
	"fmt"
	"strings"
	"time"
)

// Kind is the type of a trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
)

// Scope is the granularity of an event; lower values are coarser.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // команда целиком: batch, запрос
	ScopeFile                    // один файл или stub модуля
	ScopePass                    // lex, parse, check, complete
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff Level = iota
	LevelDriver
	LevelPhase // плюс файлы и проходы
	LevelDebug // плюс точечные события
)

var (
	kindNames  = []string{KindSpanBegin: "begin", KindSpanEnd: "end", KindPoint: "point"}
	scopeNames = []string{ScopeDriver: "driver", ScopeFile: "file", ScopePass: "pass"}
	levelNames = []string{LevelOff: "off", LevelDriver: "driver", LevelPhase: "phase", LevelDebug: "debug"}
)

func nameOf[T ~uint8](names []string, v T) string {
	if int(v) < len(names) && names[v] != "" {
		return names[v]
	}
	return "unknown"
}

// parseName maps s onto its index in names, case-insensitively. The empty
// string selects def.
func parseName[T ~uint8](names []string, s string, def T, what string) (T, error) {
	if s == "" {
		return def, nil
	}
	for i, n := range names {
		if n != "" && strings.EqualFold(n, s) {
			return T(i), nil
		}
	}
	return def, fmt.Errorf("invalid trace %s: %q (expected: %s)", what, s, strings.Join(nonEmpty(names), "|"))
}

func nonEmpty(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n != "" {
			out = append(out, n)
		}
	}
	return out
}

func (k Kind) String() string  { return nameOf(kindNames, k) }
func (s Scope) String() string { return nameOf(scopeNames, s) }
func (l Level) String() string { return nameOf(levelNames, l) }

// ParseLevel converts a flag value to a Level.
func ParseLevel(s string) (Level, error) {
	return parseName(levelNames, s, LevelOff, "level")
}

// Allows reports whether an event of the given scope and kind passes l.
// Driver keeps driver spans only, phase adds every span, debug adds points.
func (l Level) Allows(scope Scope, kind Kind) bool {
	if kind == KindPoint {
		return l >= LevelDebug
	}
	if scope == ScopeDriver {
		return l >= LevelDriver
	}
	return l >= LevelPhase
}

// Event is a single trace record.
type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 для корневых
	Name     string // "parse", "check", "file:prog.py"
	Detail   string
	Elapsed  time.Duration // только для KindSpanEnd
	Extra    map[string]string
}
