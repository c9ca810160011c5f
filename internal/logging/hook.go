package logging

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Record is a log entry captured by a Hook.
type Record struct {
	Time    time.Time
	Level   logrus.Level
	Message string
	Fields  logrus.Fields
}

// Hook captures log entries so a UI can show them.
//
// Entries may be fired from any goroutine; they are buffered and collected
// with Drain, usually once per frame. When the buffer is full new entries
// are dropped rather than blocking the caller.
type Hook struct {
	levels  []logrus.Level
	records chan Record
}

// NewHook creates a hook that captures entries at minLevel or more severe,
// buffering up to size of them.
func NewHook(minLevel logrus.Level, size int) *Hook {
	var levels []logrus.Level
	for _, level := range logrus.AllLevels {
		if level <= minLevel {
			levels = append(levels, level)
		}
	}
	return &Hook{
		levels:  levels,
		records: make(chan Record, size),
	}
}

// Levels implements logrus.Hook.
func (h *Hook) Levels() []logrus.Level {
	return h.levels
}

// Fire implements logrus.Hook.
func (h *Hook) Fire(entry *logrus.Entry) error {
	fields := make(logrus.Fields, len(entry.Data))
	for k, v := range entry.Data {
		fields[k] = v
	}

	select {
	case h.records <- Record{Time: entry.Time, Level: entry.Level, Message: entry.Message, Fields: fields}:
	default:
	}
	return nil
}

// Drain returns every buffered record without blocking.
func (h *Hook) Drain() []Record {
	var out []Record
	for {
		select {
		case r := <-h.records:
			out = append(out, r)
		default:
			return out
		}
	}
}
