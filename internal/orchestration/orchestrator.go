package orchestration

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/ccheavy/ccheavy/internal/agent"
	apperrors "github.com/ccheavy/ccheavy/internal/errors"
	"github.com/ccheavy/ccheavy/internal/logging"
	"github.com/ccheavy/ccheavy/internal/metrics"
	"github.com/ccheavy/ccheavy/internal/plan"
	"github.com/ccheavy/ccheavy/internal/report"
)

// DefaultRetryDelay is the pause before the single retry of a failed or empty
// assistant invocation.
const DefaultRetryDelay = time.Second

// DefaultLaunchInterval paces worker launches so a burst of agent processes
// does not hit the provider at the exact same instant.
const DefaultLaunchInterval = 500 * time.Millisecond

// Orchestrator coordinates agent invocations for a research run.
type Orchestrator struct {
	// Runner invokes the external agent.
	Runner agent.Runner
	// Metrics records invocation outcomes. Nil disables recording.
	Metrics *metrics.Metrics
	// Log receives structured events.
	Log logging.Logger
	// Limiter paces worker launches.
	Limiter *rate.Limiter
	// RetryDelay is the pause before the single retry.
	RetryDelay time.Duration
}

// New creates an Orchestrator with the default pacing and retry delay.
func New(runner agent.Runner, m *metrics.Metrics, log logging.Logger) *Orchestrator {
	if log == nil {
		log = logging.NopLogger{}
	}
	return &Orchestrator{
		Runner:     runner,
		Metrics:    m,
		Log:        log,
		Limiter:    rate.NewLimiter(rate.Every(DefaultLaunchInterval), 1),
		RetryDelay: DefaultRetryDelay,
	}
}

// ResearchRequest bundles the inputs of the fan-out phase.
type ResearchRequest struct {
	// Query is the research question.
	Query string
	// Format is the requested output format name ("markdown" or "text").
	Format string
	// Plan is the normalized research plan.
	Plan plan.Plan
	// Dir is the run directory artifacts are written into.
	Dir report.RunDir
	// WorkDir is the user-specified working directory; empty means each
	// worker runs in its own temp directory.
	WorkDir string
}

// ExecuteResearch runs the parallel research phase: one worker per assistant,
// each invoking the agent subprocess with a focus-specific prompt and its own
// findings/stderr files, retried once on failure or empty output. A failed
// assistant does not abort the run; partial findings still feed synthesis.
//
// Results are indexed 1..AssistantCount in the returned slice (position i-1).
func (o *Orchestrator) ExecuteResearch(ctx context.Context, req ResearchRequest, reporter ProgressReporter, out io.Writer) []AssistantResult {
	count := req.Plan.AssistantCount
	results := make([]AssistantResult, count)
	events := make(chan Event, count*EventBufferMultiplier)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go reporter.DisplayProgress(&displayWg, events, count, out)

	g, ctx := errgroup.WithContext(ctx)
	for i := 1; i <= count; i++ {
		idx := i
		focus := req.Plan.Focuses[idx]

		// Pace launches; on cancellation workers still run and record
		// the context error in their result.
		if err := o.Limiter.Wait(ctx); err != nil {
			o.Log.Debug("launch pacing interrupted", logging.Err(err))
		}

		g.Go(func() error {
			results[idx-1] = o.runAssistant(ctx, req, idx, focus, events)
			return nil
		})
	}

	g.Wait()
	close(events)
	displayWg.Wait()

	return results
}

// runAssistant executes one assistant with the retry policy: a first attempt,
// and on failure or empty output a single retry after RetryDelay. Exhausted
// retries append a failure note to the findings file so the synthesis input
// documents the gap.
func (o *Orchestrator) runAssistant(ctx context.Context, req ResearchRequest, idx int, focus string, events chan<- Event) AssistantResult {
	result := AssistantResult{
		Index:        idx,
		Focus:        focus,
		FindingsFile: req.Dir.FindingsFile(idx),
	}
	op := fmt.Sprintf("assistant %d", idx)
	prompt := plan.AssistantPrompt(idx, focus, req.Query, req.Format)

	runDir, cleanup, err := agent.WorkDirFor(req.WorkDir)
	if err != nil {
		result.Err = err
		events <- Event{Kind: EventFailed, Index: idx, Focus: focus}
		return result
	}
	defer cleanup()

	events <- Event{Kind: EventLaunched, Index: idx, Focus: focus, Dir: runDir}
	start := time.Now()

	onRetry := func() {
		events <- Event{Kind: EventRetrying, Index: idx, Focus: focus}
	}
	result.Attempts, err = o.invokeWithRetry(ctx, op, prompt, runDir, result.FindingsFile, req.Dir.StderrLog(idx), onRetry)

	result.Duration = time.Since(start)
	result.Err = err

	if err != nil {
		note := fmt.Sprintf("\nRA-%d: agent invocation failed. See %s\n", idx, req.Dir.StderrLog(idx))
		if appendErr := report.AppendNote(result.FindingsFile, note); appendErr != nil {
			o.Log.Warn("could not record failure note", logging.Int("assistant", idx), logging.Err(appendErr))
		}
		events <- Event{Kind: EventFailed, Index: idx, Focus: focus}
		return result
	}

	events <- Event{Kind: EventCompleted, Index: idx, Focus: focus}
	return result
}

// invokeWithRetry applies the run policy to a single operation: a first
// attempt, and on failure or empty output one retry after RetryDelay. Context
// cancellation is never retried. onRetry, when non-nil, is called before the
// retry attempt so callers can surface it.
func (o *Orchestrator) invokeWithRetry(ctx context.Context, op, prompt, runDir, outputFile, errFile string, onRetry func()) (attempts int, err error) {
	attempts = 1
	err = o.invoke(ctx, op, prompt, runDir, outputFile, errFile)
	if err == nil || apperrors.IsContextError(err) {
		return attempts, err
	}

	if onRetry != nil {
		onRetry()
	}
	if o.Metrics != nil {
		o.Metrics.ObserveRetry()
	}
	o.Log.Warn("retrying agent invocation", logging.String("operation", op), logging.Err(err))

	select {
	case <-time.After(o.RetryDelay):
	case <-ctx.Done():
	}

	attempts = 2
	err = o.invoke(ctx, op, prompt, runDir, outputFile, errFile)
	return attempts, err
}

// invoke performs a single agent subprocess run with stdout routed to
// outputFile and stderr to errFile, enforcing the non-empty output rule.
func (o *Orchestrator) invoke(ctx context.Context, op, prompt, runDir, outputFile, errFile string) error {
	start := time.Now()

	outF, err := os.Create(outputFile)
	if err != nil {
		return apperrors.WrapError(err, "create output file for %s", op)
	}
	errF, err := os.Create(errFile)
	if err != nil {
		outF.Close()
		return apperrors.WrapError(err, "create stderr file for %s", op)
	}

	runErr := o.Runner.Run(ctx, op, prompt, runDir, outF, errF)
	outF.Close()
	errF.Close()
	elapsed := time.Since(start)

	if runErr != nil {
		o.observe(metrics.OutcomeFailure, elapsed)
		return runErr
	}

	if _, nonEmpty := report.ReadArtifact(outputFile); !nonEmpty {
		o.observe(metrics.OutcomeEmpty, elapsed)
		return apperrors.EmptyOutputError{Operation: op}
	}

	o.observe(metrics.OutcomeSuccess, elapsed)
	return nil
}

func (o *Orchestrator) observe(outcome string, elapsed time.Duration) {
	if o.Metrics != nil {
		o.Metrics.ObserveInvocation(outcome, elapsed)
	}
}
