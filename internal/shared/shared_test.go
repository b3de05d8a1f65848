package shared

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestFormatTimestamp(t *testing.T) {
	t.Run("Zero Time", func(t *testing.T) {
		if got := FormatTimestamp(time.Time{}); got != "" {
			t.Errorf("expected empty string for zero time, got %q", got)
		}
	})

	t.Run("Known Time", func(t *testing.T) {
		ts := time.Date(2024, time.March, 7, 14, 30, 0, 0, time.Local)
		got := FormatTimestamp(ts)
		if !strings.Contains(got, "Mar 7, 2024") {
			t.Errorf("expected formatted date to contain 'Mar 7, 2024', got %q", got)
		}
	})
}

func TestLoggerHelpers(t *testing.T) {
	t.Run("WithLogger carries the fields", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)

		WithLogger(logger, "component", "api").Error("boom")

		if !strings.Contains(buf.String(), "component=api") {
			t.Errorf("expected component field in output, got %q", buf.String())
		}
	})

	t.Run("SetLogLevel enables debug output", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)

		logger.Debug("hidden")
		if buf.Len() != 0 {
			t.Fatalf("expected debug to be suppressed by default, got %q", buf.String())
		}

		SetLogLevel(logger, log.DebugLevel)
		logger.Debug("visible")
		if !strings.Contains(buf.String(), "visible") {
			t.Errorf("expected debug output after lowering the level, got %q", buf.String())
		}
	})
}

func TestGenerateID(t *testing.T) {
	a := GenerateID()
	b := GenerateID()

	if a == "" || b == "" {
		t.Fatal("expected non-empty IDs")
	}
	if a == b {
		t.Error("expected distinct IDs")
	}
}

func TestMarshalJSON(t *testing.T) {
	data := map[string]string{"key": "value"}

	compact, err := MarshalJSON(data, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(compact) != `{"key":"value"}` {
		t.Errorf("unexpected compact output: %s", compact)
	}

	pretty, err := MarshalJSON(data, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(pretty), "\n") {
		t.Error("expected pretty output to be indented")
	}
}
