// Package logger wraps log/slog behind a small context-aware interface.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// callerSkip skips runtime.Callers, callerOf, emit and the Logger method.
const callerSkip = 4

// Logger defines the logging interface.
type Logger interface {
	Info(ctx context.Context, msg string, fields ...Field)
	Error(ctx context.Context, msg string, fields ...Field)
	Debug(ctx context.Context, msg string, fields ...Field)
	Warn(ctx context.Context, msg string, fields ...Field)
	// Fatal logs at error level and exits the process.
	Fatal(ctx context.Context, msg string, fields ...Field)

	Named(name string) Logger
}

// Field is a key-value pair attached to a log line.
type Field struct {
	Key   string
	Value interface{}
}

// Field constructors.
func String(key, val string) Field                 { return Field{Key: key, Value: val} }
func Int(key string, val int) Field                { return Field{Key: key, Value: val} }
func Float64(key string, val float64) Field        { return Field{Key: key, Value: val} }
func Bool(key string, val bool) Field              { return Field{Key: key, Value: val} }
func Duration(key string, val time.Duration) Field { return Field{Key: key, Value: val} }
func Any(key string, val interface{}) Field        { return Field{Key: key, Value: val} }
func Error(err error) Field                        { return Field{Key: "error", Value: err} }

type ctxFieldsKey struct{}

// ContextWithFields returns a child of ctx whose log lines carry fields.
// Fields accumulate across nested calls.
func ContextWithFields(ctx context.Context, fields ...Field) context.Context {
	prev := FieldsFrom(ctx)
	all := make([]Field, 0, len(prev)+len(fields))
	all = append(all, prev...)
	all = append(all, fields...)
	return context.WithValue(ctx, ctxFieldsKey{}, all)
}

// FieldsFrom returns the fields stored on ctx by ContextWithFields.
func FieldsFrom(ctx context.Context) []Field {
	if ctx == nil {
		return nil
	}
	fields, _ := ctx.Value(ctxFieldsKey{}).([]Field)
	return fields
}

type slogLogger struct {
	h *slog.Logger
}

func (l *slogLogger) Named(name string) Logger {
	return &slogLogger{h: l.h.WithGroup(name)}
}

func (l *slogLogger) Info(ctx context.Context, msg string, fields ...Field) {
	l.emit(ctx, slog.LevelInfo, msg, fields)
}

func (l *slogLogger) Error(ctx context.Context, msg string, fields ...Field) {
	l.emit(ctx, slog.LevelError, msg, fields)
}

func (l *slogLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	l.emit(ctx, slog.LevelDebug, msg, fields)
}

func (l *slogLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	l.emit(ctx, slog.LevelWarn, msg, fields)
}

func (l *slogLogger) Fatal(ctx context.Context, msg string, fields ...Field) {
	l.emit(ctx, slog.LevelError, msg, fields)
	os.Exit(1)
}

func (l *slogLogger) emit(ctx context.Context, level slog.Level, msg string, fields []Field) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !l.h.Enabled(ctx, level) {
		return
	}
	scoped := FieldsFrom(ctx)
	attrs := make([]slog.Attr, 0, len(scoped)+len(fields)+1)
	for _, f := range scoped {
		attrs = append(attrs, slog.Any(f.Key, f.Value))
	}
	for _, f := range fields {
		attrs = append(attrs, slog.Any(f.Key, f.Value))
	}
	attrs = append(attrs, slog.String("source", callerOf(callerSkip)))
	l.h.LogAttrs(ctx, level, msg, attrs...)
}

// callerOf returns file:line of the frame skip levels up, relative to the
// working directory when possible.
func callerOf(skip int) string {
	pcs := make([]uintptr, 1)
	if runtime.Callers(skip, pcs) == 0 {
		return "unknown:0"
	}
	frame, _ := runtime.CallersFrames(pcs).Next()
	file := frame.File
	if cwd, err := os.Getwd(); err == nil {
		if rel, err := filepath.Rel(cwd, file); err == nil {
			file = rel
		}
	} else {
		file = filepath.Base(file)
	}
	return file + ":" + strconv.Itoa(frame.Line)
}

var (
	global   Logger
	levelVar slog.LevelVar
)

// Output formats accepted by InitWithOptions.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Options configures the global logger.
type Options struct {
	// Writer receives log lines; defaults to os.Stdout.
	Writer io.Writer
	// Format is FormatText (default) or FormatJSON.
	Format string
}

// Init installs a text logger on stdout at info level.
func Init() error {
	return InitWithOptions(Options{})
}

// InitWithOptions installs the global logger at info level.
func InitWithOptions(opts Options) error {
	w := opts.Writer
	if w == nil {
		w = os.Stdout
	}
	ho := &slog.HandlerOptions{Level: &levelVar}

	var h slog.Handler
	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "", FormatText:
		h = slog.NewTextHandler(w, ho)
	case FormatJSON:
		h = slog.NewJSONHandler(w, ho)
	default:
		return fmt.Errorf("unknown log format: %s", opts.Format)
	}
	levelVar.Set(slog.LevelInfo)
	global = &slogLogger{h: slog.New(h)}
	return nil
}

// Nop returns a logger that discards everything. The global logger is untouched.
func Nop() Logger {
	return &slogLogger{h: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// Get returns the global logger. It panics before Init.
func Get() Logger {
	if global == nil {
		panic("logger not initialized. Call logger.Init() first")
	}
	return global
}

// Named returns the global logger under a group.
func Named(name string) Logger {
	return Get().Named(name)
}

// Sync is a no-op: slog handlers write through.
func Sync() error { return nil }

// SetLevel sets the minimum level of the global logger.
func SetLevel(level slog.Level) { levelVar.Set(level) }

// SetLevelString parses and sets the logging level.
// Accepts: debug, info, warn/warning, error (case-insensitive).
func SetLevelString(level string) error {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		SetLevel(slog.LevelDebug)
	case "", "info":
		SetLevel(slog.LevelInfo)
	case "warn", "warning":
		SetLevel(slog.LevelWarn)
	case "error":
		SetLevel(slog.LevelError)
	default:
		return fmt.Errorf("unknown log level: %s", level)
	}
	return nil
}
