package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ccheavy/ccheavy/internal/ui"
)

// Style variables for the TUI dashboard.
// Initialized from the ui theme system via initTUIStyles().
var (
	panelStyle        lipgloss.Style
	headerStyle       lipgloss.Style
	titleStyle        lipgloss.Style
	versionStyle      lipgloss.Style
	elapsedStyle      lipgloss.Style
	phaseStyle        lipgloss.Style
	queryStyle        lipgloss.Style
	rowLabelStyle     lipgloss.Style
	rowFocusStyle     lipgloss.Style
	statusPendingStyle lipgloss.Style
	statusRunningStyle lipgloss.Style
	statusRetryStyle   lipgloss.Style
	statusDoneStyle    lipgloss.Style
	statusErrorStyle   lipgloss.Style
	footerKeyStyle    lipgloss.Style
	footerDescStyle   lipgloss.Style
	loadStyle         lipgloss.Style
)

func init() {
	initTUIStyles()
}

// initTUIStyles rebuilds all TUI styles from the current ui theme.
// Called at package init and again from Run() after InitTheme has been invoked.
func initTUIStyles() {
	t := ui.GetCurrentTUITheme()

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Background(t.Bg).
		Foreground(t.Text)

	headerStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent).
		Background(t.Bg).
		Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent)

	versionStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	elapsedStyle = lipgloss.NewStyle().
		Foreground(t.Accent)

	phaseStyle = lipgloss.NewStyle().
		Foreground(t.Warning).
		Bold(true)

	queryStyle = lipgloss.NewStyle().
		Foreground(t.Text).
		Italic(true)

	rowLabelStyle = lipgloss.NewStyle().
		Foreground(t.Info)

	rowFocusStyle = lipgloss.NewStyle().
		Foreground(t.Text)

	statusPendingStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	statusRunningStyle = lipgloss.NewStyle().
		Foreground(t.Accent)

	statusRetryStyle = lipgloss.NewStyle().
		Foreground(t.Warning)

	statusDoneStyle = lipgloss.NewStyle().
		Foreground(t.Success).
		Bold(true)

	statusErrorStyle = lipgloss.NewStyle().
		Foreground(t.Error).
		Bold(true)

	footerKeyStyle = lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	footerDescStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	loadStyle = lipgloss.NewStyle().
		Foreground(t.Warning)
}
