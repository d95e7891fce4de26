package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/ccheavy/ccheavy/internal/format"
	"github.com/ccheavy/ccheavy/internal/orchestration"
	"github.com/ccheavy/ccheavy/internal/ui"
)

// PresentSummaryTable displays the per-assistant result table with focus
// areas, durations, attempts, and status in a formatted tabular layout.
// Uses manual padding to correctly handle ANSI color codes.
func PresentSummaryTable(results []orchestration.AssistantResult, out io.Writer) {
	fmt.Fprintf(out, "\n--- Research Summary ---\n")

	// Find the maximum focus width for proper alignment
	maxNameLen := len("Assistant")
	maxDurationLen := len("Duration")
	for _, res := range results {
		if name := assistantLabel(res); len(name) > maxNameLen {
			maxNameLen = len(name)
		}
		if d := format.FormatExecutionDuration(res.Duration); len(d) > maxDurationLen {
			maxDurationLen = len(d)
		}
	}

	fmt.Fprintf(out, "%sAssistant%s%s   %sDuration%s%s   %sAttempts%s   %sStatus%s\n",
		ui.ColorUnderline(), ui.ColorReset(), padRight("", maxNameLen-len("Assistant")),
		ui.ColorUnderline(), ui.ColorReset(), padRight("", maxDurationLen-len("Duration")),
		ui.ColorUnderline(), ui.ColorReset(),
		ui.ColorUnderline(), ui.ColorReset())

	for _, res := range results {
		var status string
		if res.Err != nil {
			status = fmt.Sprintf("%s✗ Failure (%v)%s", ui.ColorRed(), res.Err, ui.ColorReset())
		} else {
			status = fmt.Sprintf("%s✓ Success%s", ui.ColorGreen(), ui.ColorReset())
		}
		name := assistantLabel(res)
		duration := format.FormatExecutionDuration(res.Duration)
		fmt.Fprintf(out, "%s%s%s%s   %s%s%s%s   %d          %s\n",
			ui.ColorBlue(), name, ui.ColorReset(), padRight("", maxNameLen-len(name)),
			ui.ColorYellow(), duration, ui.ColorReset(), padRight("", maxDurationLen-len(duration)),
			res.Attempts, status)
	}
}

// assistantLabel renders the row label "RA-3: focus".
func assistantLabel(res orchestration.AssistantResult) string {
	return fmt.Sprintf("RA-%d: %s", res.Index, res.Focus)
}

// padRight returns a string of spaces with the given length appended to s.
func padRight(s string, length int) string {
	if length <= 0 {
		return s
	}
	return s + fmt.Sprintf("%*s", length, "")
}

// PrintCompletion writes the total wall time and the final pointer to the run
// outputs.
func PrintCompletion(outputDir string, elapsed time.Duration, out io.Writer) {
	fmt.Fprintf(out, "\n%sParallel research complete in %s. Outputs saved under: %s%s\n",
		ui.ColorGreen(), format.FormatExecutionDuration(elapsed), outputDir, ui.ColorReset())
}
