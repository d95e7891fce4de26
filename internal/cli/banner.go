package cli

import (
	"fmt"
	"io"

	"github.com/ccheavy/ccheavy/internal/config"
	"github.com/ccheavy/ccheavy/internal/ui"
)

// PrintBanner writes the application banner.
func PrintBanner(out io.Writer) {
	fmt.Fprint(out, ui.ColorPrimary())
	fmt.Fprintln(out, "╔════════════════════════════════════════╗")
	fmt.Fprintln(out, "║        ccheavy · Heavy Research        ║")
	fmt.Fprintln(out, "╚════════════════════════════════════════╝")
	fmt.Fprintln(out, ui.ColorReset())
}

// PrintExecutionConfig summarizes the run settings before launch.
func PrintExecutionConfig(cfg config.AppConfig, outputDir string, out io.Writer) {
	fmt.Fprintf(out, "%sQuery:%s %s\n", ui.ColorYellow(), ui.ColorReset(), cfg.Query)
	fmt.Fprintf(out, "%sOutput:%s %s\n", ui.ColorYellow(), ui.ColorReset(), outputDir)
	workDir := cfg.WorkDir
	if workDir == "" {
		workDir = "(none)"
	}
	fmt.Fprintf(out, "%sWorking Dir:%s %s\n", ui.ColorYellow(), ui.ColorReset(), workDir)
	fmt.Fprintf(out, "%sAgent:%s %s (model %s)\n", ui.ColorYellow(), ui.ColorReset(), cfg.AgentBin, cfg.Model)
}

// PrintManualInstructions explains how to drive the agent by hand after the
// user declined the automated run. promptFile is the orchestration prompt
// artifact written for this purpose.
func PrintManualInstructions(promptFile, outputDir, workDir, agentBin, model string, out io.Writer) {
	fmt.Fprintf(out, "\n%s══ Manual Run Instructions ══%s\n", ui.ColorPrimary(), ui.ColorReset())
	fmt.Fprintf(out, "\n%sTo start:%s\n", ui.ColorYellow(), ui.ColorReset())

	invocation := fmt.Sprintf(`%s -p "$(cat %q)" --model %q --output-format text`, agentBin, promptFile, model)
	if workDir != "" {
		fmt.Fprintf(out, "1. Run: %scd %q && %s%s\n", ui.ColorGreen(), workDir, invocation, ui.ColorReset())
	} else {
		fmt.Fprintf(out, "1. Run: %s%s%s\n", ui.ColorGreen(), invocation, ui.ColorReset())
	}

	fmt.Fprintln(out, "\n2. The agent will print outputs. Save the blocks to files under:")
	fmt.Fprintf(out, "   %s%s%s\n", ui.ColorBlue(), outputDir, ui.ColorReset())
}

// PrintInstallHint tells the user how to obtain the agent binary after the
// availability check failed.
func PrintInstallHint(agentBin string, out io.Writer) {
	fmt.Fprintf(out, "%s%s command not found. Please ensure the agent CLI is installed.%s\n",
		ui.ColorRed(), agentBin, ui.ColorReset())
	fmt.Fprintf(out, "%sInstall: %scurl https://cursor.com/install -fsS | bash%s\n",
		ui.ColorYellow(), ui.ColorGreen(), ui.ColorReset())
}
