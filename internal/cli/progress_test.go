package cli

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/briandowns/spinner"

	"github.com/ccheavy/ccheavy/internal/orchestration"
	"github.com/ccheavy/ccheavy/internal/ui"
)

// MockSpinner for testing
type MockSpinner struct {
	mu      sync.Mutex
	started int
	stopped int
	suffix  string
}

func (m *MockSpinner) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started++
}

func (m *MockSpinner) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped++
}

func (m *MockSpinner) UpdateSuffix(suffix string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.suffix = suffix
}

func (m *MockSpinner) lastSuffix() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.suffix
}

// withMockSpinner swaps the spinner constructor for the test's lifetime.
func withMockSpinner(t *testing.T) *MockSpinner {
	t.Helper()
	mock := &MockSpinner{}
	orig := newSpinner
	newSpinner = func(...spinner.Option) Spinner { return mock }
	t.Cleanup(func() { newSpinner = orig })
	return mock
}

func TestDisplayProgress_EventLines(t *testing.T) {
	ui.InitTheme(true)
	mock := withMockSpinner(t)

	events := []orchestration.Event{
		{Kind: orchestration.EventLaunched, Index: 1, Focus: "alpha", Dir: "/tmp/a"},
		{Kind: orchestration.EventLaunched, Index: 2, Focus: "beta", Dir: "/tmp/b"},
		{Kind: orchestration.EventRetrying, Index: 2, Focus: "beta"},
		{Kind: orchestration.EventCompleted, Index: 1, Focus: "alpha"},
		{Kind: orchestration.EventFailed, Index: 2, Focus: "beta"},
	}

	ch := make(chan orchestration.Event, len(events))
	for _, ev := range events {
		ch <- ev
	}
	close(ch)

	var out bytes.Buffer
	var wg sync.WaitGroup
	wg.Add(1)
	CLIProgressReporter{}.DisplayProgress(&wg, ch, 2, &out)
	wg.Wait()

	got := out.String()
	for _, want := range []string{
		"Launched RA1 (alpha)", "/tmp/a",
		"Launched RA2 (beta)",
		"Retrying RA2",
		"RA2 failed after retries",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q in %q", want, got)
		}
	}

	suffix := mock.lastSuffix()
	if !strings.Contains(suffix, "2/2 assistants done") {
		t.Errorf("suffix = %q", suffix)
	}
	if !strings.Contains(suffix, "(1 failed)") {
		t.Errorf("suffix missing failure count: %q", suffix)
	}
	if mock.started == 0 || mock.stopped == 0 {
		t.Error("spinner never driven")
	}
}

func TestDisplayProgress_NoEvents(t *testing.T) {
	ui.InitTheme(true)
	mock := withMockSpinner(t)

	ch := make(chan orchestration.Event)
	close(ch)

	var out bytes.Buffer
	var wg sync.WaitGroup
	wg.Add(1)
	DisplayProgress(&wg, ch, 3, &out)
	wg.Wait()

	if !strings.Contains(mock.lastSuffix(), "0/3 assistants done") {
		t.Errorf("suffix = %q", mock.lastSuffix())
	}
}
