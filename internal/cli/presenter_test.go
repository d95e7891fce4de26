package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ccheavy/ccheavy/internal/orchestration"
	"github.com/ccheavy/ccheavy/internal/ui"
)

func TestPresentSummaryTable(t *testing.T) {
	ui.InitTheme(true)

	results := []orchestration.AssistantResult{
		{Index: 1, Focus: "Factual research", Duration: 42 * time.Second, Attempts: 1},
		{Index: 2, Focus: "Risks", Duration: 90 * time.Second, Attempts: 2, Err: errors.New("empty output")},
	}

	var out bytes.Buffer
	PresentSummaryTable(results, &out)
	got := out.String()

	for _, want := range []string{
		"Research Summary",
		"Assistant", "Duration", "Attempts", "Status",
		"RA-1: Factual research",
		"RA-2: Risks",
		"✓ Success",
		"✗ Failure (empty output)",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("table missing %q:\n%s", want, got)
		}
	}
}

func TestPresentSummaryTable_Alignment(t *testing.T) {
	ui.InitTheme(true)

	results := []orchestration.AssistantResult{
		{Index: 1, Focus: "Short", Duration: time.Second, Attempts: 1},
		{Index: 2, Focus: "A much longer focus description", Duration: time.Second, Attempts: 1},
	}

	var out bytes.Buffer
	PresentSummaryTable(results, &out)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	var statusCols []int
	for _, line := range lines {
		if idx := strings.Index(line, "✓ Success"); idx >= 0 {
			statusCols = append(statusCols, idx)
		}
	}
	if len(statusCols) != 2 || statusCols[0] != statusCols[1] {
		t.Errorf("status column misaligned: %v", statusCols)
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("ab", 3); got != "ab   " {
		t.Errorf("padRight(ab, 3) = %q", got)
	}
	if got := padRight("ab", 0); got != "ab" {
		t.Errorf("padRight(ab, 0) = %q", got)
	}
	if got := padRight("ab", -1); got != "ab" {
		t.Errorf("padRight(ab, -1) = %q", got)
	}
}

func TestPrintCompletion(t *testing.T) {
	ui.InitTheme(true)

	var out bytes.Buffer
	PrintCompletion("/outputs/2026-08-27-q", 90*time.Second, &out)
	if !strings.Contains(out.String(), "/outputs/2026-08-27-q") {
		t.Errorf("output = %q", out.String())
	}
	if !strings.Contains(out.String(), "1m30s") {
		t.Errorf("total time missing: %q", out.String())
	}
}
