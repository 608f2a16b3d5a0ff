package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// LogLevel is a thin enum for user friendly level configuration decoupled from slog.
type LogLevel int

const (
	// LogLevelDebug is the debug logging level.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo is the informational logging level.
	LogLevelInfo
	// LogLevelWarn is the warning logging level.
	LogLevelWarn
	// LogLevelError is the error logging level.
	LogLevelError
)

// String returns the string representation of the log level.
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
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a case-insensitive level name to a LogLevel.
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LogLevelDebug, nil
	case "", "info":
		return LogLevelInfo, nil
	case "warn", "warning":
		return LogLevelWarn, nil
	case "error":
		return LogLevelError, nil
	default:
		return LogLevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// Logger defines the minimal logging interface. Arguments after msg are
// slog-style key/value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SessionLogger wraps slog.Logger adding contextual cloning helpers and
// domain convenience methods. With* methods return copies.
type SessionLogger struct {
	logger    *slog.Logger
	level     LogLevel
	component string
	sessionID string
	advisor   string
}

// LoggerConfig configures construction of a SessionLogger.
type LoggerConfig struct {
	Level     LogLevel
	Format    string // json or text
	Output    io.Writer
	AddSource bool
	Component string
	SessionID string
}

// DefaultLoggerConfig returns a baseline text info level configuration
// writing to stderr, which keeps stdout free for the discussion itself.
func DefaultLoggerConfig() *LoggerConfig {
	return &LoggerConfig{Level: LogLevelInfo, Format: "text", Output: os.Stderr}
}

// NewLogger builds a SessionLogger from a config (or defaults if nil).
func NewLogger(cfg *LoggerConfig) *SessionLogger {
	if cfg == nil {
		cfg = DefaultLoggerConfig()
	}
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: slogLevel(cfg.Level), AddSource: cfg.AddSource}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	return &SessionLogger{logger: slog.New(handler), level: cfg.Level, component: cfg.Component, sessionID: cfg.SessionID}
}

func slogLevel(l LogLevel) slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelInfo:
		return slog.LevelInfo
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *SessionLogger) clone() *SessionLogger {
	nl := *l
	return &nl
}

// WithComponent sets the logical component (round, moderation, server, ...).
func (l *SessionLogger) WithComponent(c string) *SessionLogger {
	nl := l.clone()
	nl.component = c
	return nl
}

// WithSession attaches a session identifier.
func (l *SessionLogger) WithSession(id string) *SessionLogger {
	nl := l.clone()
	nl.sessionID = id
	return nl
}

// WithAdvisor attaches an advisor name.
func (l *SessionLogger) WithAdvisor(name string) *SessionLogger {
	nl := l.clone()
	nl.advisor = name
	return nl
}

func (l *SessionLogger) buildAttrs() []slog.Attr {
	attrs := make([]slog.Attr, 0, 3)
	if l.component != "" {
		attrs = append(attrs, slog.String("component", l.component))
	}
	if l.sessionID != "" {
		attrs = append(attrs, slog.String("session_id", l.sessionID))
	}
	if l.advisor != "" {
		attrs = append(attrs, slog.String("advisor", l.advisor))
	}
	return attrs
}

func (l *SessionLogger) log(level slog.Level, allowed bool, msg string, args ...any) {
	if !allowed {
		return
	}
	r := slog.NewRecord(time.Now(), level, msg, 0)
	r.AddAttrs(l.buildAttrs()...)
	r.Add(args...)
	_ = l.logger.Handler().Handle(context.Background(), r)
}

// Debug logs at debug level.
func (l *SessionLogger) Debug(msg string, args ...any) {
	l.log(slog.LevelDebug, l.level <= LogLevelDebug, msg, args...)
}

// Info logs at info level.
func (l *SessionLogger) Info(msg string, args ...any) {
	l.log(slog.LevelInfo, l.level <= LogLevelInfo, msg, args...)
}

// Warn logs at warn level.
func (l *SessionLogger) Warn(msg string, args ...any) {
	l.log(slog.LevelWarn, l.level <= LogLevelWarn, msg, args...)
}

// Error logs at error level.
func (l *SessionLogger) Error(msg string, args ...any) {
	l.log(slog.LevelError, l.level <= LogLevelError, msg, args...)
}

// LogLLMCall records model call latency and success.
func (l *SessionLogger) LogLLMCall(model string, dur time.Duration, success bool, err error) {
	args := []any{"model", model, "duration", dur, "success", success}
	if err != nil {
		args = append(args, "error", err.Error())
	}
	if !success {
		l.Error("LLM call failed", args...)
		return
	}
	l.Info("LLM call completed", args...)
}

// LogRound records the outcome of one discussion round.
func (l *SessionLogger) LogRound(round, responses, failures int, dur time.Duration) {
	l.Info("Round completed", "round", round, "responses", responses, "failures", failures, "duration", dur)
}

// LogLLMCall records a model call on any Logger, using the richer
// SessionLogger form when available.
func LogLLMCall(l Logger, model string, dur time.Duration, err error) {
	if sl, ok := l.(*SessionLogger); ok {
		sl.LogLLMCall(model, dur, err == nil, err)
		return
	}
	if err != nil {
		l.Warn("LLM call failed", "model", model, "duration", dur, "error", err)
		return
	}
	l.Debug("LLM call completed", "model", model, "duration", dur)
}

// LogRound records a round outcome on any Logger.
func LogRound(l Logger, round, responses, failures int, dur time.Duration) {
	if sl, ok := l.(*SessionLogger); ok {
		sl.LogRound(round, responses, failures, dur)
		return
	}
	l.Info("Round completed", "round", round, "responses", responses, "failures", failures, "duration", dur)
}

// Component tags l with a component name when it is a SessionLogger.
func Component(l Logger, name string) Logger {
	if sl, ok := l.(*SessionLogger); ok {
		return sl.WithComponent(name)
	}
	return OrNoop(l)
}

// Advisor tags l with an advisor name when it is a SessionLogger.
func Advisor(l Logger, name string) Logger {
	if sl, ok := l.(*SessionLogger); ok {
		return sl.WithAdvisor(name)
	}
	return OrNoop(l)
}

// OrNoop returns l, or a NoOpLogger when l is nil.
func OrNoop(l Logger) Logger {
	if l == nil {
		return NoOpLogger{}
	}
	return l
}

// NoOpLogger discards all log messages. Useful for testing or when logging is disabled.
type NoOpLogger struct{}

// Debug logs a debug message.
func (NoOpLogger) Debug(string, ...any) {}

// Info logs an informational message.
func (NoOpLogger) Info(string, ...any) {}

// Warn logs a warning message.
func (NoOpLogger) Warn(string, ...any) {}

// Error logs an error message.
func (NoOpLogger) Error(string, ...any) {}

// NewSlogLogger creates a new SessionLogger with the specified configuration.
func NewSlogLogger(level LogLevel, format string, addSource bool) *SessionLogger {
	cfg := DefaultLoggerConfig()
	cfg.Level = level
	if format != "" {
		cfg.Format = format
	}
	cfg.AddSource = addSource
	return NewLogger(cfg)
}
