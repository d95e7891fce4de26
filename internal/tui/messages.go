package tui

import (
	"time"

	"github.com/ccheavy/ccheavy/internal/orchestration"
)

// AssistantEventMsg wraps an orchestration lifecycle event for the dashboard.
type AssistantEventMsg struct {
	Event orchestration.Event
}

// EventsDoneMsg signals that the event channel has been fully drained.
type EventsDoneMsg struct{}

// ResearchCompleteMsg signals that the whole pipeline finished.
type ResearchCompleteMsg struct {
	ExitCode int
}

// PhaseMsg announces a pipeline phase transition (planning, research,
// synthesis) so the dashboard can label the current activity.
type PhaseMsg struct {
	Phase string
}

// TickMsg drives periodic refresh of the elapsed timer and load sampling.
type TickMsg time.Time

// SysStatsMsg carries a system-wide CPU and memory sample.
type SysStatsMsg struct {
	CPUPercent float64
	MemPercent float64
}

// ContextCancelledMsg signals that the run context was cancelled externally.
type ContextCancelledMsg struct {
	Err error
}
