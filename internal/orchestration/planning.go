package orchestration

import (
	"context"

	"github.com/ccheavy/ccheavy/internal/agent"
	apperrors "github.com/ccheavy/ccheavy/internal/errors"
	"github.com/ccheavy/ccheavy/internal/logging"
	"github.com/ccheavy/ccheavy/internal/plan"
	"github.com/ccheavy/ccheavy/internal/report"
)

// planningAttempts bounds the planning call: one attempt plus one retry when
// the planner omits the required synthesis prompt.
const planningAttempts = 2

// RunPlanning executes the planning orchestrator call and parses its tagged
// output. The raw session is kept in the run directory for inspection. The
// call is retried once when it succeeds but omits the required synthesis
// prompt; after both attempts a PlanError is returned.
func (o *Orchestrator) RunPlanning(ctx context.Context, query string, dir report.RunDir, workDir string) (plan.Session, error) {
	prompt := plan.PlanningPrompt(query)

	runDir, cleanup, err := agent.WorkDirFor(workDir)
	if err != nil {
		return plan.Session{}, err
	}
	defer cleanup()

	var lastErr error
	for attempt := 1; attempt <= planningAttempts; attempt++ {
		if attempt > 1 {
			o.Log.Warn("planning did not provide a synthesis prompt, retrying")
			if o.Metrics != nil {
				o.Metrics.ObserveRetry()
			}
		}

		lastErr = o.invoke(ctx, "planning", prompt, runDir, dir.PlanningSessionLog(), dir.PlanningStderrLog())
		if lastErr != nil {
			if apperrors.IsContextError(lastErr) {
				return plan.Session{}, lastErr
			}
			o.Log.Warn("planning invocation failed", logging.Err(lastErr))
			continue
		}

		content, _ := report.ReadArtifact(dir.PlanningSessionLog())
		session := plan.ParseSession(content)
		if session.Plan.SynthesisPrompt != "" {
			return session, nil
		}
	}

	if lastErr != nil {
		return plan.Session{}, apperrors.WrapError(lastErr, "planning orchestrator failed")
	}
	return plan.Session{}, apperrors.NewPlanError("planning orchestrator did not provide required synthesis prompt")
}
