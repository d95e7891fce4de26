package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeRolesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roles.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadRoles(t *testing.T) {
	path := writeRolesFile(t, `
roles:
  - name: Economic Analyst
    focus: market sizing and cost structures
  - focus: regulatory landscape
`)

	focuses, err := LoadRoles(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(focuses) != 2 {
		t.Fatalf("len = %d, want 2", len(focuses))
	}
	if focuses[0] != "Economic Analyst: market sizing and cost structures" {
		t.Errorf("focuses[0] = %q", focuses[0])
	}
	if focuses[1] != "regulatory landscape" {
		t.Errorf("focuses[1] = %q", focuses[1])
	}
}

func TestLoadRoles_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty file", ""},
		{"no roles key", "other: value"},
		{"empty roles list", "roles: []"},
		{"role with empty focus", "roles:\n  - name: X\n    focus: \"\""},
		{"not yaml", "{{{{"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeRolesFile(t, tt.content)
			if _, err := LoadRoles(path); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoadRoles_MissingFile(t *testing.T) {
	if _, err := LoadRoles(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
