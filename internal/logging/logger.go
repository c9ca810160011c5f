package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Format selects the log line encoding.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

// New creates a logger writing to output at the given level.
//
// An unknown level falls back to info and is reported as a warning on the
// new logger.
func New(level string, output io.Writer, format Format) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(output)

	switch format {
	case FormatJSON:
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		})
	default:
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "15:04:05",
		})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logger.Warnf("Invalid log level %s, defaulting to info", level)
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	return logger
}

// OpenFile opens path for appending log lines, creating parent directories.
func OpenFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return f, nil
}

// Component returns an entry tagged with the name of the component logging
// through it.
func Component(logger *logrus.Logger, name string) *logrus.Entry {
	return logger.WithField("component", name)
}

// NewOperationID returns a fresh correlation id for one controller call.
func NewOperationID() string {
	return uuid.NewString()
}

// Operation tags entry with a fresh operation id so that every line logged
// during one call can be correlated.
func Operation(entry *logrus.Entry) *logrus.Entry {
	return entry.WithField("op", NewOperationID())
}

// Discard returns an entry that drops everything. Useful as a default when
// no logger is configured.
func Discard() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}
