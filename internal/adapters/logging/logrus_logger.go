package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/andrescamacho/starport-go/internal/domain/shared"
	"github.com/andrescamacho/starport-go/internal/infrastructure/config"
)

// LogrusLogger adapts a logrus entry to the Log(level, message, metadata) port
type LogrusLogger struct {
	entry *logrus.Entry
}

// NewLogrusLogger wraps an existing logrus logger
func NewLogrusLogger(l *logrus.Logger) *LogrusLogger {
	return &LogrusLogger{entry: logrus.NewEntry(l)}
}

// NewFromConfig builds a logger for the configured level, format and output.
// The returned closer releases the log file when output is "file".
func NewFromConfig(cfg config.LoggingConfig) (*LogrusLogger, io.Closer, error) {
	l := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level: %w", err)
	}
	l.SetLevel(level)
	l.SetReportCaller(cfg.IncludeCaller)

	switch cfg.Format {
	case "text":
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		l.SetFormatter(&logrus.JSONFormatter{})
	}

	var closer io.Closer = nopCloser{}
	switch cfg.Output {
	case "stderr":
		l.SetOutput(os.Stderr)
	case "file":
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		l.SetOutput(f)
		closer = f
	default:
		l.SetOutput(os.Stdout)
	}

	return NewLogrusLogger(l), closer, nil
}

// With returns a logger that adds the field to every entry
func (l *LogrusLogger) With(key string, value interface{}) *LogrusLogger {
	return &LogrusLogger{entry: l.entry.WithField(key, value)}
}

// Log implements shared.Logger
func (l *LogrusLogger) Log(level, message string, metadata map[string]interface{}) {
	entry := l.entry
	if len(metadata) > 0 {
		entry = entry.WithFields(logrus.Fields(metadata))
	}
	entry.Log(toLogrusLevel(level), message)
}

func toLogrusLevel(level string) logrus.Level {
	switch level {
	case shared.LevelDebug:
		return logrus.DebugLevel
	case shared.LevelWarn, "WARN":
		return logrus.WarnLevel
	case shared.LevelError:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
