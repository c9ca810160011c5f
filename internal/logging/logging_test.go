package logging

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func TestNew_Level(t *testing.T) {
	tests := []struct {
		level string
		want  logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"warn", logrus.WarnLevel},
		{"nonsense", logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(tt.level, &buf, FormatText)
			if logger.GetLevel() != tt.want {
				t.Errorf("level = %v, want %v", logger.GetLevel(), tt.want)
			}
		})
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New("info", &buf, FormatJSON)

	Operation(Component(logger, "download")).Info("Saved video")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	if line["message"] != "Saved video" || line["component"] != "download" {
		t.Errorf("line = %v", line)
	}
	op, _ := line["op"].(string)
	if _, err := uuid.Parse(op); err != nil {
		t.Errorf("op = %q, want a uuid", op)
	}
}

func TestHook(t *testing.T) {
	var buf bytes.Buffer
	logger := New("debug", &buf, FormatText)
	hook := NewHook(logrus.InfoLevel, 2)
	logger.AddHook(hook)

	logger.Debug("not captured")
	logger.WithField("video_id", "abc").Info("first")
	logger.Warn("second")
	logger.Error("dropped, buffer full")

	records := hook.Drain()
	if len(records) != 2 {
		t.Fatalf("Drain() returned %d records, want 2", len(records))
	}
	if records[0].Message != "first" || records[0].Fields["video_id"] != "abc" {
		t.Errorf("records[0] = %+v", records[0])
	}
	if records[1].Level != logrus.WarnLevel {
		t.Errorf("records[1].Level = %v, want warning", records[1].Level)
	}
	if more := hook.Drain(); len(more) != 0 {
		t.Errorf("second Drain() = %v, want empty", more)
	}

	if !strings.Contains(buf.String(), "dropped, buffer full") {
		t.Error("a full hook must not stop the logger writing")
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	f, err := OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile() unexpected error: %v", err)
	}
	defer f.Close()

	logger := New("info", f, FormatJSON)
	logger.Info("hello")
}
