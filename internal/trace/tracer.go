package trace

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
)

// Tracer receives trace events. Implementations must be safe for
// concurrent use: batch workers share one tracer.
type Tracer interface {
	Emit(ev *Event)
	Flush() error
	Close() error
	Level() Level
}

// gate is the level filter every sink embeds.
type gate struct{ level Level }

func (g gate) Level() Level { return g.level }

func (g gate) admits(ev *Event) bool { return g.level.Allows(ev.Scope, ev.Kind) }

type nopTracer struct{ gate }

func (nopTracer) Emit(*Event)  {}
func (nopTracer) Flush() error { return nil }
func (nopTracer) Close() error { return nil }

// Nop discards every event.
var Nop Tracer = nopTracer{}

// StorageMode selects where events go.
type StorageMode uint8

const (
	ModeStream StorageMode = iota + 1
	ModeRing
	ModeBoth
	ModeLog // через zap-логгер
)

var modeNames = []string{ModeStream: "stream", ModeRing: "ring", ModeBoth: "both", ModeLog: "log"}

func (m StorageMode) String() string { return nameOf(modeNames, m) }

func ParseMode(s string) (StorageMode, error) {
	return parseName(modeNames, s, ModeStream, "mode")
}

// Config describes a tracer.
type Config struct {
	Level      Level
	Mode       StorageMode
	Format     Format
	Output     io.Writer   // важнее OutputPath
	OutputPath string      // "-" или "": stderr
	RingSize   int         // 0: 4096
	Logger     *zap.Logger // для ModeLog; nil: логгер поверх Output
}

// New builds the tracer described by cfg. LevelOff always yields Nop.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	if cfg.Format == FormatText && strings.HasSuffix(cfg.OutputPath, ".ndjson") {
		cfg.Format = FormatNDJSON
	}
	if cfg.Mode == ModeRing {
		return NewRingTracer(cfg.RingSize, cfg.Level), nil
	}
	if cfg.Mode == ModeLog && cfg.Logger != nil {
		return NewZapTracer(cfg.Logger, cfg.Level), nil
	}

	w, err := openOutput(cfg)
	if err != nil {
		return nil, err
	}
	switch cfg.Mode {
	case ModeStream, 0:
		return NewStreamTracer(w, cfg.Level, cfg.Format), nil
	case ModeBoth:
		return NewMultiTracer(NewStreamTracer(w, cfg.Level, cfg.Format), NewRingTracer(cfg.RingSize, cfg.Level)), nil
	case ModeLog:
		return NewZapTracer(NewLogger(w, cfg.Format == FormatNDJSON, true), cfg.Level), nil
	}
	return nil, fmt.Errorf("unknown storage mode: %v", cfg.Mode)
}

func openOutput(cfg Config) (io.Writer, error) {
	switch {
	case cfg.Output != nil:
		return cfg.Output, nil
	case cfg.OutputPath == "" || cfg.OutputPath == "-":
		return os.Stderr, nil
	}
	// #nosec G304 -- путь из командной строки
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("open trace output: %w", err)
	}
	return f, nil
}
