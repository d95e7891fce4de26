package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/ccheavy/ccheavy/internal/format"
	"github.com/ccheavy/ccheavy/internal/orchestration"
	"github.com/ccheavy/ccheavy/internal/sysmon"
	"github.com/ccheavy/ccheavy/internal/ui"
)

// CLIProgressReporter implements orchestration.ProgressReporter for terminal
// output. It prints a line per assistant lifecycle event and keeps a spinner
// with the aggregate status and system load in its suffix.
type CLIProgressReporter struct{}

// Verify that CLIProgressReporter implements orchestration.ProgressReporter.
var _ orchestration.ProgressReporter = CLIProgressReporter{}

// DisplayProgress consumes assistant events until the channel closes.
func (CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, events <-chan orchestration.Event, numAssistants int, out io.Writer) {
	DisplayProgress(wg, events, numAssistants, out)
}

// DisplayProgress drives the spinner display for a research fan-out. The
// spinner suffix aggregates completion counts, elapsed time, and a system
// load sample; individual lifecycle events print above it.
func DisplayProgress(wg *sync.WaitGroup, events <-chan orchestration.Event, numAssistants int, out io.Writer) {
	defer wg.Done()

	s := newSpinner(spinner.WithWriter(out))
	s.Start()
	defer s.Stop()

	start := time.Now()
	done, failed := 0, 0
	load := sysmon.Sample()

	ticker := time.NewTicker(loadSampleInterval)
	defer ticker.Stop()

	updateSuffix := func() {
		failedNote := ""
		if failed > 0 {
			failedNote = fmt.Sprintf(" (%d failed)", failed)
		}
		s.UpdateSuffix(fmt.Sprintf(" %d/%d assistants done%s · %s · CPU %.0f%% MEM %.0f%%",
			done, numAssistants, failedNote, format.FormatElapsed(time.Since(start)), load.CPUPercent, load.MemPercent))
	}
	updateSuffix()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			switch ev.Kind {
			case orchestration.EventLaunched:
				s.Stop()
				fmt.Fprintf(out, "%s✓ Launched RA%d (%s) from: %s%s\n",
					ui.ColorGreen(), ev.Index, ev.Focus, ev.Dir, ui.ColorReset())
				s.Start()
			case orchestration.EventRetrying:
				s.Stop()
				fmt.Fprintf(out, "%s↻ Retrying RA%d (%s)%s\n",
					ui.ColorYellow(), ev.Index, ev.Focus, ui.ColorReset())
				s.Start()
			case orchestration.EventCompleted:
				done++
			case orchestration.EventFailed:
				done++
				failed++
				s.Stop()
				fmt.Fprintf(out, "%s✗ RA%d failed after retries (%s)%s\n",
					ui.ColorRed(), ev.Index, ev.Focus, ui.ColorReset())
				s.Start()
			}
			updateSuffix()
		case <-ticker.C:
			load = sysmon.Sample()
			updateSuffix()
		}
	}
}
