package orchestration

import (
	"io"
	"sync"
	"time"
)

// EventKind identifies a progress event emitted while assistants run.
type EventKind int

const (
	// EventLaunched is emitted when an assistant subprocess starts.
	EventLaunched EventKind = iota
	// EventRetrying is emitted before an assistant's single retry attempt.
	EventRetrying
	// EventCompleted is emitted when an assistant produced usable findings.
	EventCompleted
	// EventFailed is emitted when an assistant exhausted its retry budget.
	EventFailed
)

// Event is a single progress update from an assistant worker.
type Event struct {
	// Kind classifies the update.
	Kind EventKind
	// Index is the 1-based assistant index.
	Index int
	// Focus is the assistant's focus area, for display.
	Focus string
	// Dir is the directory the assistant runs in, for display on launch.
	Dir string
}

// EventBufferMultiplier sizes the event channel buffer per assistant. Each
// worker emits at most a handful of events, so a small multiplier keeps
// workers from blocking on a slow display.
const EventBufferMultiplier = 4

// AssistantResult encapsulates the outcome of a single research assistant.
// It is the shared domain type between orchestration and presentation.
type AssistantResult struct {
	// Index is the 1-based assistant index.
	Index int
	// Focus is the assigned focus area.
	Focus string
	// FindingsFile is the path of the findings artifact.
	FindingsFile string
	// Duration is the total time spent including the retry.
	Duration time.Duration
	// Attempts is the number of subprocess invocations (1 or 2).
	Attempts int
	// Err is non-nil when the assistant produced no usable findings.
	Err error
}

// ProgressReporter defines the interface for displaying fan-out progress.
// Implementations consume the event channel until it is closed; the
// orchestrator never blocks on presentation concerns.
type ProgressReporter interface {
	// DisplayProgress consumes events in a separate goroutine until the
	// channel is closed, then signals wg.
	DisplayProgress(wg *sync.WaitGroup, events <-chan Event, numAssistants int, out io.Writer)
}

// ProgressReporterFunc is a function adapter that implements ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, events <-chan Event, numAssistants int, out io.Writer)

// DisplayProgress calls the underlying function.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, events <-chan Event, numAssistants int, out io.Writer) {
	f(wg, events, numAssistants, out)
}

// NullProgressReporter drains the event channel without displaying anything.
// Useful for quiet mode or testing.
type NullProgressReporter struct{}

// DisplayProgress drains the channel without output.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, events <-chan Event, _ int, _ io.Writer) {
	defer wg.Done()
	for range events {
		// Drain channel silently
	}
}
