package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	apperrors "github.com/ccheavy/ccheavy/internal/errors"
	"github.com/ccheavy/ccheavy/internal/format"
	"github.com/ccheavy/ccheavy/internal/orchestration"
	"github.com/ccheavy/ccheavy/internal/sysmon"
)

// assistantStatus is the lifecycle state of one research assistant row.
type assistantStatus int

const (
	statusRunning assistantStatus = iota
	statusRetrying
	statusDone
	statusFailed
)

// assistantRow tracks the dashboard state of one research assistant.
type assistantRow struct {
	index   int
	focus   string
	status  assistantStatus
	started time.Time
	elapsed time.Duration
}

// RunFunc executes the research pipeline with the given reporter and
// returns the process exit code. The application wires its planning,
// fan-out, and synthesis phases into this closure.
type RunFunc func(ctx context.Context, reporter *TUIProgressReporter) int

// Model is the root bubbletea model for the research dashboard.
type Model struct {
	header HeaderModel
	keymap KeyMap

	ctx    context.Context
	cancel context.CancelFunc
	runFn  RunFunc
	ref    *programRef

	query    string
	rows     map[int]*assistantRow
	done     bool
	paused   bool
	exitCode int

	cpuPercent float64
	memPercent float64

	width  int
	height int
}

// NewModel creates a new dashboard model.
func NewModel(parentCtx context.Context, query string, runFn RunFunc, version string) Model {
	ctx, cancel := context.WithCancel(parentCtx)

	return Model{
		header:   NewHeaderModel(version),
		keymap:   DefaultKeyMap(),
		ctx:      ctx,
		cancel:   cancel,
		runFn:    runFn,
		ref:      &programRef{},
		query:    query,
		rows:     make(map[int]*assistantRow),
		exitCode: apperrors.ExitSuccess,
	}
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		startResearchCmd(m.ref, m.ctx, m.runFn),
		watchContextCmd(m.ctx),
	)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.header.SetWidth(m.width)
		return m, nil

	case PhaseMsg:
		m.header.SetPhase(msg.Phase)
		return m, nil

	case AssistantEventMsg:
		m.applyEvent(msg.Event)
		return m, nil

	case EventsDoneMsg:
		return m, nil

	case ResearchCompleteMsg:
		m.done = true
		m.exitCode = msg.ExitCode
		m.header.SetDone()
		return m, nil

	case TickMsg:
		if m.done {
			return m, nil
		}
		if !m.paused {
			return m, tea.Batch(sampleSysStatsCmd(), tickCmd())
		}
		return m, tickCmd()

	case SysStatsMsg:
		m.cpuPercent = msg.CPUPercent
		m.memPercent = msg.MemPercent
		return m, nil

	case ContextCancelledMsg:
		m.done = true
		m.header.SetDone()
		return m, tea.Quit
	}

	return m, nil
}

// applyEvent folds an orchestration lifecycle event into the row table.
func (m *Model) applyEvent(ev orchestration.Event) {
	row, ok := m.rows[ev.Index]
	if !ok {
		row = &assistantRow{index: ev.Index, focus: ev.Focus, started: time.Now()}
		m.rows[ev.Index] = row
	}
	if ev.Focus != "" {
		row.focus = ev.Focus
	}
	switch ev.Kind {
	case orchestration.EventLaunched:
		row.status = statusRunning
		row.started = time.Now()
	case orchestration.EventRetrying:
		row.status = statusRetrying
	case orchestration.EventCompleted:
		row.status = statusDone
		row.elapsed = time.Since(row.started)
	case orchestration.EventFailed:
		row.status = statusFailed
		row.elapsed = time.Since(row.started)
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Pause):
		m.paused = !m.paused
		return m, nil
	}

	return m, nil
}

// View renders the entire dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	header := m.header.View()
	body := panelStyle.Width(m.width - 2).Render(m.renderBody())
	footer := m.renderFooter()

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// renderBody renders the query line and the assistant status rows.
func (m Model) renderBody() string {
	var b strings.Builder

	b.WriteString(queryStyle.Render("Query: " + m.query))
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(statusPendingStyle.Render("  Waiting for the planning orchestrator..."))
		return b.String()
	}

	indexes := make([]int, 0, len(m.rows))
	for i := range m.rows {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)

	for _, i := range indexes {
		row := m.rows[i]
		var status string
		switch row.status {
		case statusRunning:
			status = statusRunningStyle.Render(fmt.Sprintf("● running %s", format.FormatElapsed(time.Since(row.started))))
		case statusRetrying:
			status = statusRetryStyle.Render("↻ retrying")
		case statusDone:
			status = statusDoneStyle.Render(fmt.Sprintf("✓ done in %s", format.FormatExecutionDuration(row.elapsed)))
		case statusFailed:
			status = statusErrorStyle.Render(fmt.Sprintf("✗ failed after %s", format.FormatExecutionDuration(row.elapsed)))
		}
		b.WriteString(fmt.Sprintf("  %s  %s  %s\n",
			rowLabelStyle.Render(fmt.Sprintf("RA-%d", row.index)),
			status,
			rowFocusStyle.Render(row.focus)))
	}

	return b.String()
}

// renderFooter renders the key hints and the system load sample.
func (m Model) renderFooter() string {
	keys := footerKeyStyle.Render("q") + footerDescStyle.Render(" quit  ") +
		footerKeyStyle.Render("p") + footerDescStyle.Render(" pause")
	load := loadStyle.Render(fmt.Sprintf("CPU %.0f%%  MEM %.0f%%", m.cpuPercent, m.memPercent))

	gap := m.width - lipgloss.Width(keys) - lipgloss.Width(load)
	if gap < 1 {
		gap = 1
	}
	return keys + spaces(gap) + load
}

// Run is the public entry point for the TUI mode.
// It creates the bubbletea program, runs it, and returns the exit code.
func Run(ctx context.Context, query string, runFn RunFunc, version string) int {
	// Rebuild styles from the current ui theme (set by app.Run via InitTheme).
	initTUIStyles()

	model := NewModel(ctx, query, runFn, version)
	defer model.cancel()

	p := tea.NewProgram(model, tea.WithAltScreen())
	// Inject the program reference before running so bridge goroutines can Send.
	model.ref.SetProgram(p)

	finalModel, err := p.Run()
	if err != nil {
		return apperrors.ExitErrorGeneric
	}

	if m, ok := finalModel.(Model); ok {
		m.cancel()
		return m.exitCode
	}
	return apperrors.ExitSuccess
}

// startResearchCmd returns a tea.Cmd that launches the research pipeline.
func startResearchCmd(ref *programRef, ctx context.Context, runFn RunFunc) tea.Cmd {
	return func() tea.Msg {
		reporter := &TUIProgressReporter{ref: ref}
		exitCode := runFn(ctx, reporter)
		return ResearchCompleteMsg{ExitCode: exitCode}
	}
}

// tickCmd returns a command that sends a TickMsg after 500ms.
func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// sampleSysStatsCmd reads system-wide CPU and memory stats and returns a SysStatsMsg.
func sampleSysStatsCmd() tea.Cmd {
	return func() tea.Msg {
		s := sysmon.Sample()
		return SysStatsMsg{
			CPUPercent: s.CPUPercent,
			MemPercent: s.MemPercent,
		}
	}
}

// watchContextCmd waits for context cancellation and sends a message.
func watchContextCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err()}
	}
}
