package log

import (
	"fmt"
	"io"
	"log"
	"os"
)

// LogLevel orders message severities; a logger emits messages at or above
// its configured level.
type LogLevel int

const (
	// LogLevelDebug includes per-wave scheduling detail.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo covers run lifecycle messages.
	LogLevelInfo
	// LogLevelWarn covers recoverable oddities.
	LogLevelWarn
	// LogLevelError covers run and node failures.
	LogLevelError
	// LogLevelNone silences the logger entirely.
	LogLevelNone
)

// Logger is what the execution engine logs through. All methods take a
// printf-style format.
type Logger interface {
	Debug(format string, v ...any)
	Info(format string, v ...any)
	Warn(format string, v ...any)
	Error(format string, v ...any)
}

// DefaultLogger writes level-prefixed lines through Go's standard log
// package.
type DefaultLogger struct {
	logger *log.Logger
	level  LogLevel
}

// NewDefaultLogger creates a DefaultLogger writing to stderr.
func NewDefaultLogger(level LogLevel) *DefaultLogger {
	return &DefaultLogger{
		logger: log.New(os.Stderr, "[flowdag] ", log.LstdFlags),
		level:  level,
	}
}

// NewCustomLogger creates a DefaultLogger writing to out.
func NewCustomLogger(out io.Writer, level LogLevel) *DefaultLogger {
	return &DefaultLogger{
		logger: log.New(out, "[flowdag] ", log.LstdFlags),
		level:  level,
	}
}

func (l *DefaultLogger) Debug(format string, v ...any) {
	if l.level <= LogLevelDebug {
		l.logger.Printf("[DEBUG] "+format, v...)
	}
}

func (l *DefaultLogger) Info(format string, v ...any) {
	if l.level <= LogLevelInfo {
		l.logger.Printf("[INFO] "+format, v...)
	}
}

func (l *DefaultLogger) Warn(format string, v ...any) {
	if l.level <= LogLevelWarn {
		l.logger.Printf("[WARN] "+format, v...)
	}
}

func (l *DefaultLogger) Error(format string, v ...any) {
	if l.level <= LogLevelError {
		l.logger.Printf("[ERROR] "+format, v...)
	}
}

// NoOpLogger discards everything. Hand it to Options.Logger to silence a
// single run.
type NoOpLogger struct{}

func (l *NoOpLogger) Debug(format string, v ...any) {}
func (l *NoOpLogger) Info(format string, v ...any)  {}
func (l *NoOpLogger) Warn(format string, v ...any)  {}
func (l *NoOpLogger) Error(format string, v ...any) {}

// String returns the level's name.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	case LogLevelNone:
		return "NONE"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", l)
	}
}

var defaultLogger Logger = NewDefaultLogger(LogLevelInfo)

// SetDefaultLogger replaces the logger the engine falls back to when an
// Execute call carries no Logger of its own.
func SetDefaultLogger(logger Logger) {
	defaultLogger = logger
}

// GetDefaultLogger returns the current fallback logger.
func GetDefaultLogger() Logger {
	return defaultLogger
}

// Debug logs through the fallback logger.
func Debug(format string, v ...any) {
	defaultLogger.Debug(format, v...)
}

// Info logs through the fallback logger.
func Info(format string, v ...any) {
	defaultLogger.Info(format, v...)
}

// Error logs through the fallback logger.
func Error(format string, v ...any) {
	defaultLogger.Error(format, v...)
}
