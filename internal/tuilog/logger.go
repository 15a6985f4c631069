// Package tuilog provides file-based logging for rootmind.
// The TUI owns the terminal, so nothing may be written to stdout or stderr
// while it runs; everything goes to a rotating log file instead.
package tuilog

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Level orders log severities.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	}
	return fmt.Sprintf("LEVEL(%d)", int(l))
}

// Options controls rotation of the log file.
type Options struct {
	MaxSizeMB  int // rotate after this many megabytes
	MaxBackups int
	MaxAgeDays int
	Compress   bool
	Level      Level
}

// DefaultOptions keeps a few small rotated files.
var DefaultOptions = Options{
	MaxSizeMB:  10,
	MaxBackups: 3,
	MaxAgeDays: 14,
	Level:      LevelInfo,
}

// Logger writes leveled key-value lines. The zero value discards everything.
type Logger struct {
	mu    sync.Mutex
	out   io.WriteCloser
	level Level
	now   func() time.Time
}

var (
	// Log is the global logger instance.
	Log     = &Logger{}
	logOnce sync.Once
)

// Init points the global logger at path with DefaultOptions.
// If path is empty, logging stays disabled.
func Init(path string) error {
	return InitWithOptions(path, DefaultOptions)
}

// InitWithOptions is Init with explicit rotation settings. Only the first
// call with a non-empty path takes effect.
func InitWithOptions(path string, opts Options) error {
	if path == "" {
		return nil
	}
	logOnce.Do(func() {
		Log.attach(newRotator(path, opts), opts.Level)
		Log.Info("logger initialized", "path", path)
	})
	return nil
}

func newRotator(path string, opts Options) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   opts.Compress,
	}
}

// New returns a Logger writing to w. Used by tests and by callers that want
// a private log.
func New(w io.Writer, level Level) *Logger {
	l := &Logger{}
	l.attach(nopCloser{w}, level)
	return l
}

func (l *Logger) attach(w io.WriteCloser, level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = w
	l.level = level
}

// SetLevel changes the minimum level written.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	l.level = level
	l.mu.Unlock()
}

// Close closes the log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.out == nil {
		return nil
	}
	err := l.out.Close()
	l.out = nil
	return err
}

// Enabled returns whether logging is active.
func (l *Logger) Enabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.out != nil
}

// Writer returns the underlying io.Writer for use with other logging libraries.
func (l *Logger) Writer() io.Writer {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.out == nil {
		return io.Discard
	}
	return l.out
}

func (l *Logger) log(level Level, msg string, keyvals ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.out == nil || level < l.level {
		return
	}

	now := time.Now
	if l.now != nil {
		now = l.now
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] %s", now().Format("15:04:05.000"), level, msg)
	for i := 0; i < len(keyvals)-1; i += 2 {
		fmt.Fprintf(&b, " %v=%v", keyvals[i], keyvals[i+1])
	}
	if len(keyvals)%2 == 1 {
		fmt.Fprintf(&b, " %v=<missing>", keyvals[len(keyvals)-1])
	}
	b.WriteByte('\n')
	_, _ = io.WriteString(l.out, b.String())
}

// Debug logs a debug message with optional key-value pairs.
func (l *Logger) Debug(msg string, keyvals ...any) {
	l.log(LevelDebug, msg, keyvals...)
}

// Info logs an info message with optional key-value pairs.
func (l *Logger) Info(msg string, keyvals ...any) {
	l.log(LevelInfo, msg, keyvals...)
}

// Warn logs a warning message with optional key-value pairs.
func (l *Logger) Warn(msg string, keyvals ...any) {
	l.log(LevelWarn, msg, keyvals...)
}

// Error logs an error message with optional key-value pairs.
func (l *Logger) Error(msg string, keyvals ...any) {
	l.log(LevelError, msg, keyvals...)
}

// Debugf logs a formatted debug message.
func (l *Logger) Debugf(format string, args ...any) {
	l.log(LevelDebug, fmt.Sprintf(format, args...))
}

// Infof logs a formatted info message.
func (l *Logger) Infof(format string, args ...any) {
	l.log(LevelInfo, fmt.Sprintf(format, args...))
}

// Warnf logs a formatted warning message.
func (l *Logger) Warnf(format string, args ...any) {
	l.log(LevelWarn, fmt.Sprintf(format, args...))
}

// Errorf logs a formatted error message.
func (l *Logger) Errorf(format string, args ...any) {
	l.log(LevelError, fmt.Sprintf(format, args...))
}

// Timed logs the duration of an operation. Usage:
//
//	defer tuilog.Log.Timed("upload")()
func (l *Logger) Timed(operation string) func() {
	if !l.Enabled() {
		return func() {}
	}
	start := time.Now()
	l.Debug(operation, "status", "started")
	return func() {
		l.Debug(operation, "status", "completed", "duration", time.Since(start))
	}
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
