// Package yalogger provides a structured logging interface with a logrus-backed
// implementation, built around immutable context propagation: every With* call
// returns a new Logger rather than mutating the receiver.
package yalogger

import (
	"github.com/google/uuid"
)

// Config defines the configuration options for the logger.
//
// BaseLoggerType: The type of logger to use (e.g., Logrus).
// Level: The minimum log level to output (e.g., Info).
// FullTimestamp: Whether to include the full timestamp in log messages.
// DisableTimestamp: Whether to disable timestamps in log messages.
// TimestampFormat: The format to use for timestamps in log messages.
type Config struct {
	BaseLoggerType   BaseLoggerType
	Level            Level
	FullTimestamp    bool
	DisableTimestamp bool
	TimestampFormat  string
}

// BaseLogger is an interface for creating new Logger instances.
type BaseLogger interface {
	// NewLogger creates a new Logger instance from the base logger.
	NewLogger() Logger
}

// Logger defines a structured logging interface with support for various log levels,
// formatting, and context-aware logging using key-value fields.
type Logger interface {
	// Info logs a message at the Info level.
	Info(msg string)

	// Infof logs a formatted message at the Info level.
	Infof(format string, args ...any)

	// Trace logs a message at the Trace level (very low-level debugging).
	Trace(msg string)

	// Tracef logs a formatted message at the Trace level.
	Tracef(format string, args ...any)

	// Error logs a message at the Error level.
	Error(msg string)

	// Errorf logs a formatted message at the Error level.
	Errorf(format string, args ...any)

	// Warn logs a message at the Warn level.
	Warn(msg string)

	// Warnf logs a formatted message at the Warn level.
	Warnf(format string, args ...any)

	// Debug logs a message at the Debug level.
	Debug(msg string)

	// Debugf logs a formatted message at the Debug level.
	Debugf(format string, args ...any)

	// Fatal logs a message at the Fatal level and terminates the application.
	Fatal(msg string)

	// Fatalf logs a formatted message at the Fatal level.
	Fatalf(format string, args ...any)

	// WithField returns a new logger with a single field added to the context.
	WithField(key string, value any) Logger

	// WithFields returns a new logger with multiple fields added to the context.
	WithFields(fields map[string]any) Logger

	// WithRequestStringID returns a new logger with a string request ID in the context.
	WithRequestStringID(id string) Logger

	// WithRequestUUID returns a new logger with a UUID request ID in the context.
	WithRequestUUID(id uuid.UUID) Logger

	// WithRequestID returns a new logger with a numeric request ID.
	WithRequestID(id uint64) Logger

	// WithRandomRequestID returns a new logger with a randomly generated request ID.
	WithRandomRequestID() Logger

	// WithUserID returns a new logger with a user ID in the context.
	WithUserID(userID uint64) Logger

	// GetFields returns the current log context fields as a map.
	GetFields() map[string]any

	// DeleteField removes a field from the current log context.
	DeleteField(key string)

	// GetField returns the value of a field from the current log context.
	GetField(key string) any
}
