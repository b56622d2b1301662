package trace

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the CLI logger: console or JSON encoding on w. debug
// lowers the threshold from info to debug.
func NewLogger(w io.Writer, json, debug bool) *zap.Logger {
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = "time"
	var encoder zapcore.Encoder
	if json {
		encoder = zapcore.NewJSONEncoder(enc)
	} else {
		encoder = zapcore.NewConsoleEncoder(enc)
	}
	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}
	core := zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(w)), zap.NewAtomicLevelAt(level))
	return zap.New(core)
}

// ZapTracer logs trace events: span ends at info, everything else at debug.
type ZapTracer struct {
	gate
	logger *zap.Logger
}

func NewZapTracer(logger *zap.Logger, level Level) *ZapTracer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapTracer{gate: gate{level}, logger: logger.Named("trace")}
}

func (t *ZapTracer) Emit(ev *Event) {
	if !t.admits(ev) {
		return
	}
	ev.Seq = NextSeq()
	fields := make([]zap.Field, 0, 6+len(ev.Extra))
	fields = append(fields,
		zap.String("scope", ev.Scope.String()),
		zap.Uint64("span", ev.SpanID),
	)
	if ev.ParentID != 0 {
		fields = append(fields, zap.Uint64("parent", ev.ParentID))
	}
	if ev.Detail != "" {
		fields = append(fields, zap.String("detail", ev.Detail))
	}
	for k, v := range ev.Extra {
		fields = append(fields, zap.String(k, v))
	}
	switch ev.Kind {
	case KindSpanEnd:
		fields = append(fields, zap.Duration("elapsed", ev.Elapsed))
		t.logger.Info(ev.Name, fields...)
	default:
		t.logger.Debug(ev.Kind.String()+" "+ev.Name, fields...)
	}
}

func (t *ZapTracer) Flush() error {
	// Sync на консоли возвращает EINVAL, это не ошибка трассы
	_ = t.logger.Sync() //nolint:errcheck
	return nil
}

func (t *ZapTracer) Close() error { return t.Flush() }
