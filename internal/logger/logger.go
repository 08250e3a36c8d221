// Package logger is a small levelled logger on top of zerolog. Messages keep
// a "[component]" prefix at the call site; the prefix becomes the
// "component" field of the record and can carry its own level override. The
// terminal belongs to the UI, so output normally goes to a file.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
	OFF
)

var levelNames = map[Level]string{
	DEBUG: "DEBUG",
	INFO:  "INFO",
	WARN:  "WARN",
	ERROR: "ERROR",
}

var zerologLevels = map[Level]zerolog.Level{
	DEBUG: zerolog.DebugLevel,
	INFO:  zerolog.InfoLevel,
	WARN:  zerolog.WarnLevel,
	ERROR: zerolog.ErrorLevel,
}

// TimeFormat is the timestamp layout of console records.
const TimeFormat = "2006-01-02 15:04:05.000"

// ParseLevel converts a level name (case-insensitive) to a Level.
// Unknown names map to WARN. A numeric verbosity is also accepted
// ("0" off ... "4" debug), as are "trace" and "warning".
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE", "DEBUG", "4":
		return DEBUG
	case "INFO", "3":
		return INFO
	case "WARN", "WARNING", "2":
		return WARN
	case "ERROR", "1":
		return ERROR
	case "OFF", "NONE", "0":
		return OFF
	default:
		return WARN
	}
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "OFF"
}

type Logger struct {
	mu            sync.RWMutex
	level         Level
	packageLevels map[string]Level
	zl            zerolog.Logger
	closer        io.Closer
}

var defaultLogger = New(WARN, io.Discard)

// New creates a logger writing human-readable records to w.
func New(level Level, w io.Writer) *Logger {
	return &Logger{
		level:         level,
		packageLevels: map[string]Level{},
		zl:            newZerolog(w),
	}
}

func newZerolog(w io.Writer) zerolog.Logger {
	if w == io.Discard {
		return zerolog.Nop()
	}
	out := zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: TimeFormat}
	return zerolog.New(out).With().Timestamp().Logger()
}

// SetLevel sets the global logger level.
func SetLevel(level Level) {
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()
	defaultLogger.level = level
}

// SetPackageLevels sets per-component level overrides, keyed by the
// component name (e.g. "mirror", "sonos").
func SetPackageLevels(levels map[string]Level) {
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()
	defaultLogger.packageLevels = levels
}

// SetOutput redirects the global logger.
func SetOutput(w io.Writer) {
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()
	defaultLogger.zl = newZerolog(w)
}

// OpenFile appends global log output to the file at path, creating parent
// directories. Close releases the file.
func OpenFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()
	if defaultLogger.closer != nil {
		_ = defaultLogger.closer.Close()
	}
	defaultLogger.zl = newZerolog(f)
	defaultLogger.closer = f
	return nil
}

// Close closes the log file opened by OpenFile.
func Close() {
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()
	if defaultLogger.closer != nil {
		_ = defaultLogger.closer.Close()
		defaultLogger.closer = nil
	}
	defaultLogger.zl = zerolog.Nop()
}

// splitComponent separates a "[component] rest" message into its parts.
// Messages without a prefix have an empty component.
func splitComponent(msg string) (component, rest string) {
	if len(msg) < 3 || msg[0] != '[' {
		return "", msg
	}
	end := strings.IndexByte(msg[1:], ']')
	if end < 0 {
		return "", msg
	}
	return msg[1 : end+1], strings.TrimPrefix(msg[end+2:], " ")
}

func (l *Logger) enabled(level Level, component string) bool {
	if component != "" {
		if pkgLevel, ok := l.packageLevels[component]; ok {
			return level >= pkgLevel && pkgLevel != OFF
		}
	}
	return level >= l.level && l.level != OFF
}

func (l *Logger) logf(level Level, msg string, args ...any) {
	component, rest := splitComponent(msg)
	l.mu.RLock()
	defer l.mu.RUnlock()
	if !l.enabled(level, component) {
		return
	}
	ev := l.zl.WithLevel(zerologLevels[level])
	if component != "" {
		ev = ev.Str("component", component)
	}
	ev.Msgf(rest, args...)
}

// Debug logs a debug message.
func Debug(msg string, args ...any) { defaultLogger.logf(DEBUG, msg, args...) }

// Info logs an info message.
func Info(msg string, args ...any) { defaultLogger.logf(INFO, msg, args...) }

// Warn logs a warning message.
func Warn(msg string, args ...any) { defaultLogger.logf(WARN, msg, args...) }

// Error logs an error message.
func Error(msg string, args ...any) { defaultLogger.logf(ERROR, msg, args...) }
