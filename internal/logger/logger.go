package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// LogLevel represents the severity level of a log message
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

// String returns the string representation of a log level
func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l LogLevel) zerologLevel() zerolog.Level {
	switch l {
	case DEBUG:
		return zerolog.DebugLevel
	case WARN:
		return zerolog.WarnLevel
	case ERROR:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// ParseLogLevel converts a string to a LogLevel
func ParseLogLevel(level string) LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return DEBUG
	case "info":
		return INFO
	case "warn", "warning":
		return WARN
	case "error":
		return ERROR
	default:
		return INFO
	}
}

// Logger is a component-scoped logger
type Logger struct {
	component string
	zl        zerolog.Logger
}

var (
	globalLogger *Logger
	globalFile   *os.File
	globalMu     sync.RWMutex
)

// Initialize sets up the global logger with console and file output.
// An empty logFile logs to the console only.
func Initialize(logFile string, level string) error {
	var writers []io.Writer
	writers = append(writers, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var file *os.File
	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}

		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		file = f
		writers = append(writers, f)
	}

	return install(zerolog.MultiLevelWriter(writers...), ParseLogLevel(level), file)
}

// InitializeWriter sets up the global logger on an arbitrary writer.
func InitializeWriter(w io.Writer, level string) error {
	return install(w, ParseLogLevel(level), nil)
}

func install(w io.Writer, level LogLevel, file *os.File) error {
	zl := zerolog.New(w).Level(level.zerologLevel()).With().Timestamp().Logger()

	globalMu.Lock()
	defer globalMu.Unlock()

	if globalFile != nil {
		globalFile.Close()
	}
	globalFile = file
	globalLogger = &Logger{component: "main", zl: zl}
	return nil
}

// NewComponentLogger creates a new logger for a specific component
func NewComponentLogger(component string) *Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()

	if globalLogger == nil {
		// Fallback to stderr if global logger not initialized
		zl := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
			Level(zerolog.InfoLevel).With().Timestamp().Logger()
		return &Logger{component: component, zl: zl.With().Str("component", component).Logger()}
	}

	return &Logger{
		component: component,
		zl:        globalLogger.zl.With().Str("component", component).Logger(),
	}
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	l.zl.Debug().Msgf(format, args...)
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	l.zl.Info().Msgf(format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.zl.Warn().Msgf(format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.zl.Error().Msgf(format, args...)
}

// ErrorWithContext logs an error with additional context
func (l *Logger) ErrorWithContext(err error, context string, args ...interface{}) {
	l.zl.Error().Err(err).Msgf(context, args...)
}

// WithField returns a new logger with an additional field
func (l *Logger) WithField(key, value string) *Logger {
	return &Logger{
		component: l.component,
		zl:        l.zl.With().Str(key, value).Logger(),
	}
}

func global() *Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

// Global logging functions for backward compatibility
func Debug(format string, args ...interface{}) {
	if l := global(); l != nil {
		l.Debug(format, args...)
	}
}

func Info(format string, args ...interface{}) {
	if l := global(); l != nil {
		l.Info(format, args...)
	} else {
		fmt.Fprintf(os.Stderr, "[INFO] "+format+"\n", args...)
	}
}

func Warn(format string, args ...interface{}) {
	if l := global(); l != nil {
		l.Warn(format, args...)
	} else {
		fmt.Fprintf(os.Stderr, "[WARN] "+format+"\n", args...)
	}
}

func Error(format string, args ...interface{}) {
	if l := global(); l != nil {
		l.Error(format, args...)
	} else {
		fmt.Fprintf(os.Stderr, "[ERROR] "+format+"\n", args...)
	}
}

func ErrorWithContext(err error, context string, args ...interface{}) {
	if l := global(); l != nil {
		l.ErrorWithContext(err, context, args...)
	} else {
		fmt.Fprintf(os.Stderr, "[ERROR] %s: %v\n", fmt.Sprintf(context, args...), err)
	}
}
