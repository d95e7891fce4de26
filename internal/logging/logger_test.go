package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func captureLog(t *testing.T, emit func(Logger)) map[string]any {
	t.Helper()

	var buf bytes.Buffer
	logger := NewZerologAdapter(zerolog.New(&buf))
	emit(logger)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	return entry
}

func TestZerologAdapter_FieldTypes(t *testing.T) {
	entry := captureLog(t, func(l Logger) {
		l.Info("agent finished",
			String("operation", "assistant 2"),
			Int("attempts", 2),
			Uint64("bytes", 1024),
			Float64("cpu", 42.5),
			Duration("elapsed", 1500*time.Millisecond),
			Err(errors.New("late failure")))
	})

	if entry["message"] != "agent finished" {
		t.Errorf("message = %v", entry["message"])
	}
	if entry["level"] != "info" {
		t.Errorf("level = %v", entry["level"])
	}
	if entry["operation"] != "assistant 2" {
		t.Errorf("operation = %v", entry["operation"])
	}
	if entry["attempts"] != float64(2) {
		t.Errorf("attempts = %v", entry["attempts"])
	}
	if entry["bytes"] != float64(1024) {
		t.Errorf("bytes = %v", entry["bytes"])
	}
	if entry["cpu"] != 42.5 {
		t.Errorf("cpu = %v", entry["cpu"])
	}
	if entry["error"] != "late failure" {
		t.Errorf("error = %v", entry["error"])
	}
}

func TestZerologAdapter_Levels(t *testing.T) {
	levels := map[string]func(Logger){
		"debug": func(l Logger) { l.Debug("m") },
		"info":  func(l Logger) { l.Info("m") },
		"warn":  func(l Logger) { l.Warn("m") },
		"error": func(l Logger) { l.Error("m") },
	}

	for want, emit := range levels {
		entry := captureLog(t, emit)
		if entry["level"] != want {
			t.Errorf("level = %v, want %q", entry["level"], want)
		}
	}
}

func TestNewFileLogger_WritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewFileLogger(&buf)
	logger.Info("run created", String("runId", "abc"))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("not JSON: %v", err)
	}
	if entry["runId"] != "abc" {
		t.Errorf("runId = %v", entry["runId"])
	}
	if _, ok := entry["time"]; !ok {
		t.Error("timestamp missing")
	}
}

func TestNopLogger(t *testing.T) {
	// Must not panic with or without fields.
	var l Logger = NopLogger{}
	l.Debug("d")
	l.Info("i", String("k", "v"))
	l.Warn("w", Err(errors.New("e")))
	l.Error("e")
}
