package logs

import (
	"io"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger writes JSON lines with a timestamp and event fields. A nil or
// disabled Logger discards everything.
type Logger struct {
	z       *zap.Logger
	f       *os.File
	enabled bool
}

// Options selects where and how verbosely events are logged.
type Options struct {
	Enabled bool
	File    string
	Debug   bool
}

// OptionsFromEnv applies EBLANSHELL_LOG and EBLANSHELL_LOG_FILE on top of
// base. Logging is enabled if EBLANSHELL_LOG is set to a truthy value or if
// EBLANSHELL_LOG_FILE is provided.
func OptionsFromEnv(base Options) Options {
	if v := os.Getenv("EBLANSHELL_LOG"); v != "" && v != "0" && v != "false" {
		base.Enabled = true
	}
	if lf := os.Getenv("EBLANSHELL_LOG_FILE"); lf != "" {
		base.Enabled = true
		base.File = lf
	}
	return base
}

// NewFromEnv returns a logger configured from the environment only.
func NewFromEnv() *Logger {
	return Open(OptionsFromEnv(Options{}))
}

// Open returns a logger appending to o.File (./eblanshell.log when empty).
// It returns a disabled logger when o.Enabled is false or the file cannot
// be opened.
func Open(o Options) *Logger {
	if !o.Enabled {
		return &Logger{}
	}
	lf := o.File
	if lf == "" {
		lf = filepath.Join(".", "eblanshell.log")
	}
	f, err := os.OpenFile(lf, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		// If we cannot open the requested file, disable logging silently.
		return &Logger{}
	}
	l := NewWriter(f, o.Debug)
	l.f = f
	return l
}

// NewWriter returns an enabled logger writing JSON lines to w.
func NewWriter(w io.Writer, debug bool) *Logger {
	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "time"
	enc.MessageKey = "event"
	enc.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.AddSync(w), level)
	return &Logger{z: zap.New(core), enabled: true}
}

// Enabled reports whether events are written anywhere.
func (l *Logger) Enabled() bool { return l != nil && l.enabled }

// With returns a child logger that adds fields to every event.
func (l *Logger) With(fields map[string]any) *Logger {
	if !l.Enabled() {
		return l
	}
	return &Logger{z: l.z.With(toFields(fields)...), enabled: true}
}

// Close flushes and closes the underlying file if enabled.
func (l *Logger) Close() {
	if !l.Enabled() {
		return
	}
	_ = l.z.Sync()
	if l.f != nil {
		_ = l.f.Close()
	}
}

// Event writes an info line with the event name and fields.
// Common fields: key, action, line, col, lines, file, session.
func (l *Logger) Event(event string, fields map[string]any) {
	if !l.Enabled() {
		return
	}
	l.z.Info(event, toFields(fields)...)
}

// Debug writes a debug line; dropped unless the logger was opened with Debug.
func (l *Logger) Debug(event string, fields map[string]any) {
	if !l.Enabled() {
		return
	}
	l.z.Debug(event, toFields(fields)...)
}

// Error writes an error line carrying err.
func (l *Logger) Error(event string, err error, fields map[string]any) {
	if !l.Enabled() {
		return
	}
	l.z.Error(event, append(toFields(fields), zap.Error(err))...)
}

func toFields(fields map[string]any) []zap.Field {
	names := make([]string, 0, len(fields))
	for k := range fields {
		names = append(names, k)
	}
	sort.Strings(names)
	out := make([]zap.Field, 0, len(names))
	for _, k := range names {
		out = append(out, zap.Any(k, fields[k]))
	}
	return out
}
