package observe

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"
)

// LogLevel orders log severities.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = [...]string{"debug", "info", "warn", "error"}

func (l LogLevel) String() string {
	if l < LevelDebug || l > LevelError {
		return "info"
	}
	return levelNames[l]
}

// ParseLogLevel maps a level name to its LogLevel. Unknown names fall
// back to info.
func ParseLogLevel(s string) LogLevel {
	for i, name := range levelNames {
		if name == s {
			return LogLevel(i)
		}
	}
	return LevelInfo
}

// structuredLogger writes one JSON object per line.
type structuredLogger struct {
	threshold LogLevel
	base      map[string]any

	mu sync.Mutex
	w  io.Writer
}

// NewLogger writes JSON lines to stderr at the given level.
func NewLogger(level string) Logger {
	return NewLoggerWithWriter(level, os.Stderr)
}

// NewLoggerWithWriter writes JSON lines to w at the given level.
func NewLoggerWithWriter(level string, w io.Writer) Logger {
	return &structuredLogger{
		threshold: ParseLogLevel(level),
		base:      map[string]any{},
		w:         w,
	}
}

// WithProbe returns a child logger that stamps probe attributes on every
// entry it writes.
func (l *structuredLogger) WithProbe(meta ProbeMeta) Logger {
	base := make(map[string]any, len(l.base)+2)
	for k, v := range l.base {
		base[k] = v
	}
	base["probe.op"] = meta.Op
	if meta.Provider != "" {
		base["probe.provider"] = meta.Provider
	}
	return &structuredLogger{threshold: l.threshold, base: base, w: l.w}
}

func (l *structuredLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	l.emit(LevelDebug, msg, fields)
}

func (l *structuredLogger) Info(ctx context.Context, msg string, fields ...Field) {
	l.emit(LevelInfo, msg, fields)
}

func (l *structuredLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	l.emit(LevelWarn, msg, fields)
}

func (l *structuredLogger) Error(ctx context.Context, msg string, fields ...Field) {
	l.emit(LevelError, msg, fields)
}

func (l *structuredLogger) emit(level LogLevel, msg string, fields []Field) {
	if level < l.threshold {
		return
	}

	// Base attributes first so the entry's own keys always win.
	entry := make(map[string]any, len(l.base)+len(fields)+3)
	for k, v := range l.base {
		entry[k] = v
	}
	entry["timestamp"] = time.Now().UTC().Format(time.RFC3339Nano)
	entry["level"] = level.String()
	entry["msg"] = msg
	for _, f := range fields {
		entry[f.Key] = fieldValue(f)
	}

	line, err := json.Marshal(entry)
	if err != nil {
		return
	}
	line = append(line, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.w.Write(line)
}

// fieldValue masks fields whose keys name credential material.
func fieldValue(f Field) any {
	if redactedKeys[f.Key] {
		return "[REDACTED]"
	}
	return f.Value
}

// redactedKeys indexes RedactedFields for the per-field check in emit.
var redactedKeys = func() map[string]bool {
	m := make(map[string]bool, len(RedactedFields))
	for _, k := range RedactedFields {
		m[k] = true
	}
	return m
}()

var _ Logger = (*structuredLogger)(nil)
