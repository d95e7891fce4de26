package tui

import (
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ccheavy/ccheavy/internal/orchestration"
)

// programRef is a shared reference to the tea.Program.
// Because bubbletea copies the model on every Update, we need a pointer
// that survives copies so the bridge goroutines can send messages.
type programRef struct {
	mu      sync.RWMutex
	program *tea.Program
}

// SetProgram sets the tea.Program reference (thread-safe).
func (r *programRef) SetProgram(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Send sends a message to the bubbletea program (thread-safe).
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// TUIProgressReporter implements orchestration.ProgressReporter.
// It drains the event channel and forwards each lifecycle event as a
// bubbletea message.
type TUIProgressReporter struct {
	ref *programRef
}

// Verify interface compliance.
var _ orchestration.ProgressReporter = (*TUIProgressReporter)(nil)

// DisplayProgress drains the event channel and sends AssistantEventMsg
// to the TUI.
func (t *TUIProgressReporter) DisplayProgress(wg *sync.WaitGroup, events <-chan orchestration.Event, _ int, _ io.Writer) {
	defer wg.Done()

	for ev := range events {
		t.ref.Send(AssistantEventMsg{Event: ev})
	}
	t.ref.Send(EventsDoneMsg{})
}

// ReportPhase forwards a pipeline phase transition to the TUI.
func (t *TUIProgressReporter) ReportPhase(phase string) {
	t.ref.Send(PhaseMsg{Phase: phase})
}
