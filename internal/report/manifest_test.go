package report

import (
	"encoding/json"
	"os"
	"testing"
	"time"
)

func TestManifest_WriteAndReload(t *testing.T) {
	dir, err := NewRunDir(t.TempDir(), "test query", "md", time.Now())
	if err != nil {
		t.Fatal(err)
	}

	now := time.Date(2026, 8, 27, 12, 30, 0, 0, time.UTC)
	m := NewManifest("run-123", "test query", "markdown", "/src", "cursor-agent", "gpt-5", now)
	m.AssistantCount = 3
	m.Focuses = []string{"a", "b", "c"}

	if err := m.Write(dir); err != nil {
		t.Fatalf("write: %v", err)
	}

	data, err := os.ReadFile(dir.ManifestFile())
	if err != nil {
		t.Fatal(err)
	}

	var reloaded Manifest
	if err := json.Unmarshal(data, &reloaded); err != nil {
		t.Fatalf("manifest is not valid JSON: %v", err)
	}

	if reloaded.RunID != "run-123" || reloaded.Query != "test query" || reloaded.AssistantCount != 3 {
		t.Errorf("reloaded = %+v", reloaded)
	}
	if reloaded.Timestamp != "2026-08-27T12:30:00Z" {
		t.Errorf("Timestamp = %q", reloaded.Timestamp)
	}
	if len(reloaded.Focuses) != 3 {
		t.Errorf("Focuses = %v", reloaded.Focuses)
	}
}

func TestManifest_OmitsEmptyOptionalFields(t *testing.T) {
	dir, err := NewRunDir(t.TempDir(), "q", "md", time.Now())
	if err != nil {
		t.Fatal(err)
	}

	m := NewManifest("id", "q", "markdown", "", "cursor-agent", "gpt-5", time.Now())
	if err := m.Write(dir); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(dir.ManifestFile())
	if err != nil {
		t.Fatal(err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"workdir", "assistantCount", "focuses"} {
		if _, present := raw[key]; present {
			t.Errorf("key %q present before planning", key)
		}
	}
}
