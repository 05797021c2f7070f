package yalogger

import (
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// logrusAdapter is an adapter that implements the Logger interface using a logrus.Entry.
// It wraps a logrus.Entry to provide structured logging.
type logrusAdapter struct {
	entry *logrus.Entry
}

// baseLogrus holds a reference to a logrus.Logger instance.
// It serves as the base logger from which new Logger instances can be created.
type baseLogrus struct {
	logger *logrus.Logger
}

// NewBaseLogger creates and configures a new base logger based on the provided configuration.
//
// Notes:
//
//   - If the logger type specified in config is not supported, the function panics.
func NewBaseLogger(config *Config) BaseLogger {
	if config == nil {
		config = &Config{
			BaseLoggerType:   Logrus,
			Level:            DebugLevel,
			FullTimestamp:    false,
			TimestampFormat:  "2006-01-02 15:04:05",
			DisableTimestamp: true,
		}
	}

	switch config.BaseLoggerType {
	case Logrus:
		base := logrus.New()
		base.SetLevel(logrus.Level(config.Level))
		base.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:    config.FullTimestamp,
			TimestampFormat:  config.TimestampFormat,
			DisableTimestamp: config.DisableTimestamp,
		})

		return &baseLogrus{logger: base}
	default:
		panic("Unsupported logger type, you are a teapot!!!")
	}
}

// NewLogger creates a new Logger instance from the base logrus logger.
func (b *baseLogrus) NewLogger() Logger {
	return &logrusAdapter{entry: logrus.NewEntry(b.logger)}
}

func (l *logrusAdapter) Info(msg string) { l.entry.Info(msg) }

func (l *logrusAdapter) Infof(format string, args ...any) { l.entry.Infof(format, args...) }

func (l *logrusAdapter) Error(msg string) { l.entry.Error(msg) }

func (l *logrusAdapter) Errorf(format string, args ...any) { l.entry.Errorf(format, args...) }

func (l *logrusAdapter) Warn(msg string) { l.entry.Warn(msg) }

func (l *logrusAdapter) Warnf(format string, args ...any) { l.entry.Warnf(format, args...) }

func (l *logrusAdapter) Debug(msg string) { l.entry.Debug(msg) }

func (l *logrusAdapter) Debugf(format string, args ...any) { l.entry.Debugf(format, args...) }

func (l *logrusAdapter) Fatal(msg string) { l.entry.Fatal(msg) }

func (l *logrusAdapter) Fatalf(format string, args ...any) { l.entry.Fatalf(format, args...) }

func (l *logrusAdapter) Trace(msg string) { l.entry.Trace(msg) }

func (l *logrusAdapter) Tracef(format string, args ...any) { l.entry.Tracef(format, args...) }

// WithField returns a new Logger with a single key-value pair added to the log context.
func (l *logrusAdapter) WithField(key string, value any) Logger {
	return &logrusAdapter{entry: l.entry.WithField(key, value)}
}

// WithFields returns a new Logger with multiple key-value pairs added to the log context.
func (l *logrusAdapter) WithFields(fields map[string]any) Logger {
	return &logrusAdapter{entry: l.entry.WithFields(fields)}
}

// WithRequestStringID returns a new Logger with a string request ID added to the context.
func (l *logrusAdapter) WithRequestStringID(id string) Logger {
	return &logrusAdapter{entry: l.entry.WithField(KeyRequestID, id)}
}

// WithRequestUUID returns a new Logger with a UUID-based request ID added to the context.
func (l *logrusAdapter) WithRequestUUID(id uuid.UUID) Logger {
	return &logrusAdapter{entry: l.entry.WithField(KeyRequestID, id.String())}
}

// WithRequestID returns a new Logger with a numeric request ID added to the context.
func (l *logrusAdapter) WithRequestID(id uint64) Logger {
	return &logrusAdapter{entry: l.entry.WithField(KeyRequestID, id)}
}

// WithRandomRequestID returns a new Logger with a randomly generated numeric request ID.
func (l *logrusAdapter) WithRandomRequestID() Logger {
	return &logrusAdapter{entry: l.entry.WithField(KeyRequestID, rand.Uint64())}
}

// WithUserID returns a new Logger with a user ID added to the log context.
func (l *logrusAdapter) WithUserID(userID uint64) Logger {
	return &logrusAdapter{entry: l.entry.WithField(KeyUserID, userID)}
}

// GetFields returns the current log context fields as a map.
func (l *logrusAdapter) GetFields() map[string]any {
	return l.entry.Data
}

// GetField returns the value of a specific field from the log context.
func (l *logrusAdapter) GetField(key string) any {
	val, ok := l.entry.Data[key]
	if !ok {
		return nil
	}

	return val
}

// DeleteField removes a field from the current log context.
func (l *logrusAdapter) DeleteField(key string) {
	delete(l.entry.Data, key)
}
