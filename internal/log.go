package internal

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel represents different logging verbosity levels
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

// Logger provides leveled, printf-style logging on top of zap.
type Logger struct {
	level  LogLevel
	sugar  *zap.SugaredLogger
	prefix string
}

// ParseLogLevel maps ERROR/WARN/INFO/DEBUG to a LogLevel, defaulting to info.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ERROR":
		return LogLevelError
	case "WARN", "WARNING":
		return LogLevelWarn
	case "DEBUG", "TRACE":
		return LogLevelDebug
	default:
		return LogLevelInfo
	}
}

// NewLogger creates a logger. mode "prod" selects zap's JSON production
// encoder, anything else the console development encoder.
func NewLogger(level LogLevel, mode string) (*Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(mode) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level.zapLevel())
	cfg.DisableStacktrace = true

	zl, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	return &Logger{level: level, sugar: zl.Sugar()}, nil
}

// NewDefaultLogger creates a logger based on the LOG_LEVEL and LOG_MODE
// environment variables. It never fails; a broken zap config falls back to
// a no-op logger.
func NewDefaultLogger() *Logger {
	l, err := NewLogger(ParseLogLevel(os.Getenv("LOG_LEVEL")), os.Getenv("LOG_MODE"))
	if err != nil {
		return NewNopLogger()
	}
	return l
}

// NewNopLogger returns a logger that discards everything. Used by tests.
func NewNopLogger() *Logger {
	return &Logger{level: LogLevelError, sugar: zap.NewNop().Sugar()}
}

// Named returns a child logger whose messages are prefixed with [name].
func (l *Logger) Named(name string) *Logger {
	return &Logger{level: l.level, sugar: l.sugar, prefix: "[" + name + "] "}
}

// With returns a child logger carrying structured fields.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{level: l.level, sugar: l.sugar.With(keysAndValues...), prefix: l.prefix}
}

// Error logs error messages
func (l *Logger) Error(format string, args ...interface{}) {
	l.sugar.Errorf(l.prefix+format, args...)
}

// Warn logs warning messages
func (l *Logger) Warn(format string, args ...interface{}) {
	l.sugar.Warnf(l.prefix+format, args...)
}

// Info logs info messages
func (l *Logger) Info(format string, args ...interface{}) {
	l.sugar.Infof(l.prefix+format, args...)
}

// Debug logs debug messages
func (l *Logger) Debug(format string, args ...interface{}) {
	l.sugar.Debugf(l.prefix+format, args...)
}

// GetLevel returns the current log level
func (l *Logger) GetLevel() LogLevel {
	return l.level
}

// Sync flushes buffered entries.
func (l *Logger) Sync() {
	_ = l.sugar.Sync()
}

func (lv LogLevel) zapLevel() zapcore.Level {
	switch lv {
	case LogLevelError:
		return zapcore.ErrorLevel
	case LogLevelWarn:
		return zapcore.WarnLevel
	case LogLevelDebug:
		return zapcore.DebugLevel
	default:
		return zapcore.InfoLevel
	}
}

// Global logger instance
var DefaultLogger = NewDefaultLogger()
