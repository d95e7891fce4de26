package orchestration

import (
	"context"
	"fmt"
	"strings"

	"github.com/ccheavy/ccheavy/internal/agent"
	apperrors "github.com/ccheavy/ccheavy/internal/errors"
	"github.com/ccheavy/ccheavy/internal/plan"
	"github.com/ccheavy/ccheavy/internal/report"
)

// BuildSynthesisInput assembles the synthesis prompt: the planner-provided
// instruction block (or the default senior-analyst one) followed by every
// assistant's findings wrapped in BEGIN/END markers. Missing findings are
// replaced by a placeholder note so the synthesizing agent knows about the
// gap instead of silently working from fewer perspectives.
func BuildSynthesisInput(p plan.Plan, format string, dir report.RunDir) string {
	var b strings.Builder

	if p.SynthesisPrompt != "" {
		b.WriteString(p.SynthesisPrompt)
	} else {
		b.WriteString(plan.DefaultSynthesisPrompt(format))
	}
	b.WriteString("\n\n")

	for i := 1; i <= p.AssistantCount; i++ {
		fmt.Fprintf(&b, "\n===== BEGIN RA-%d =====\n", i)
		if content, nonEmpty := report.ReadArtifact(dir.FindingsFile(i)); nonEmpty {
			b.WriteString(content)
		} else {
			fmt.Fprintf(&b, "RA-%d output not found", i)
		}
		fmt.Fprintf(&b, "\n===== END RA-%d =====\n\n", i)
	}

	return b.String()
}

// RunSynthesis assembles the synthesis input, persists it, and executes the
// final agent call writing the synthesized report. The invocation follows the
// standard retry policy (one retry on failure or empty output).
func (o *Orchestrator) RunSynthesis(ctx context.Context, req ResearchRequest) error {
	input := BuildSynthesisInput(req.Plan, req.Format, req.Dir)
	if err := report.WriteArtifact(req.Dir.SynthesisInputFile(), input); err != nil {
		return err
	}

	runDir, cleanup, err := agent.WorkDirFor(req.WorkDir)
	if err != nil {
		return err
	}
	defer cleanup()

	_, err = o.invokeWithRetry(ctx, "synthesis", input, runDir, req.Dir.FinalAnalysisFile(), req.Dir.SynthesisStderrLog(), nil)
	if err != nil && !apperrors.IsContextError(err) {
		return apperrors.WrapError(err, "synthesis failed")
	}
	return err
}
