package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ccheavy/ccheavy/internal/agent"
	"github.com/ccheavy/ccheavy/internal/cli"
	"github.com/ccheavy/ccheavy/internal/config"
	apperrors "github.com/ccheavy/ccheavy/internal/errors"
	"github.com/ccheavy/ccheavy/internal/logging"
	"github.com/ccheavy/ccheavy/internal/orchestration"
	"github.com/ccheavy/ccheavy/internal/plan"
	"github.com/ccheavy/ccheavy/internal/report"
	"github.com/ccheavy/ccheavy/internal/tui"
	"github.com/ccheavy/ccheavy/internal/ui"
)

// tracerName identifies this instrumentation scope.
const tracerName = "github.com/ccheavy/ccheavy/internal/app"

// researchRun carries the resolved state of one research run through the
// pipeline phases.
type researchRun struct {
	app           *Application
	orch          *orchestration.Orchestrator
	dir           report.RunDir
	manifest      report.Manifest
	customFocuses []string
}

// runResearch orchestrates the execution of a research run end to end:
// input resolution, preflight, run directory setup, confirmation, and the
// plan / fan-out / synthesis pipeline.
func (a *Application) runResearch(ctx context.Context, out io.Writer) int {
	cfg := &a.Config

	if !cfg.Quiet && !cfg.TUI {
		cli.PrintBanner(out)
	}

	// No query on the command line means interactive mode, which needs a
	// terminal. The confirmation it ends with covers the run; a declined
	// answer there is final and switches straight to manual mode.
	confirmed := cfg.Yes
	promptPending := !cfg.Yes
	if cfg.Query == "" {
		if cfg.Quiet || cfg.TUI || cfg.Yes {
			fmt.Fprintln(a.ErrWriter, "Error: a research query is required in non-interactive mode")
			return apperrors.ExitErrorConfig
		}
		proceed, err := cli.InteractiveInput(cfg, a.In, out)
		if err != nil {
			fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
			return apperrors.ExitErrorConfig
		}
		if cfg.Format != config.FormatMarkdown && cfg.Format != config.FormatText {
			fmt.Fprintf(a.ErrWriter, "Error: invalid format %q\n", cfg.Format)
			return apperrors.ExitErrorConfig
		}
		confirmed = proceed
		promptPending = false
	}

	if cfg.WorkDir != "" {
		if info, err := os.Stat(cfg.WorkDir); err != nil || !info.IsDir() {
			a.Log.Warn("workdir is not a directory, agents will run in temp dirs",
				logging.String("workdir", cfg.WorkDir))
			cfg.WorkDir = ""
		}
	}

	var customFocuses []string
	if cfg.RolesFile != "" {
		focuses, err := config.LoadRoles(cfg.RolesFile)
		if err != nil {
			fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
			return apperrors.ExitErrorConfig
		}
		customFocuses = focuses
	}

	if err := agent.CheckAvailable(ctx, cfg.AgentBin); err != nil {
		a.Log.Error("agent preflight failed", logging.Err(err))
		cli.PrintInstallHint(cfg.AgentBin, a.ErrWriter)
		return apperrors.ExitErrorGeneric
	}

	dir, err := report.NewRunDir(cfg.OutputDir, cfg.Query, cfg.Ext(), time.Now())
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorGeneric
	}

	manifest := report.NewManifest(uuid.NewString(), cfg.Query, cfg.Format, cfg.WorkDir, cfg.AgentBin, cfg.Model, time.Now())
	if err := manifest.Write(dir); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	a.Log.Info("run created",
		logging.String("runId", manifest.RunID),
		logging.String("dir", dir.Path))

	if !cfg.Quiet && !cfg.TUI {
		cli.PrintExecutionConfig(*cfg, dir.Path, out)
	}

	// A command-line query still gets a confirmation unless --yes was
	// given; declining switches to manual mode.
	if !confirmed && promptPending && !cfg.Quiet && !cfg.TUI {
		proceed, err := cli.Confirm(bufio.NewReader(a.In), out, "Proceed with automated research? (Y/n)")
		if err != nil {
			fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
			return apperrors.ExitErrorConfig
		}
		confirmed = proceed
	} else if cfg.Quiet || cfg.TUI {
		confirmed = true
	}

	if !confirmed {
		return a.runManual(dir, out)
	}

	runner := a.Runner
	if runner == nil {
		runner = agent.NewCLIRunner(cfg.AgentBin, cfg.Model, cfg.Timeout, a.Log)
	}

	run := &researchRun{
		app:           a,
		orch:          orchestration.New(runner, a.Metrics, a.Log),
		dir:           dir,
		manifest:      manifest,
		customFocuses: customFocuses,
	}

	if cfg.TUI {
		runFn := func(ctx context.Context, reporter *tui.TUIProgressReporter) int {
			_, code := run.execute(ctx, reporter, reporter.ReportPhase, io.Discard)
			return code
		}
		return tui.Run(ctx, cfg.Query, runFn, Version)
	}

	return run.executeCLI(ctx, out)
}

// runManual writes the self-contained orchestration prompt and explains how
// to drive the agent by hand.
func (a *Application) runManual(dir report.RunDir, out io.Writer) int {
	prompt := plan.OrchestrationPrompt(a.Config.Query, dir.Path, a.Config.WorkDir)
	if err := report.WriteArtifact(dir.OrchestrationPromptFile(), prompt); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	cli.PrintManualInstructions(dir.OrchestrationPromptFile(), dir.Path, a.Config.WorkDir, a.Config.AgentBin, a.Config.Model, out)
	return apperrors.ExitSuccess
}

// executeCLI runs the pipeline with terminal progress output and presents the
// summary afterwards.
func (r *researchRun) executeCLI(ctx context.Context, out io.Writer) int {
	cfg := r.app.Config

	var reporter orchestration.ProgressReporter
	progressOut := out
	if cfg.Quiet {
		progressOut = io.Discard
		reporter = orchestration.NullProgressReporter{}
	} else {
		reporter = cli.CLIProgressReporter{}
	}

	phase := func(name string) {
		if !cfg.Quiet {
			fmt.Fprintf(out, "\n%s▶ %s%s\n", ui.ColorPrimary(), name, ui.ColorReset())
		}
	}

	start := time.Now()
	results, code := r.execute(ctx, reporter, phase, progressOut)

	if !cfg.Quiet && len(results) > 0 {
		cli.PresentSummaryTable(results, out)
	}
	if code == apperrors.ExitSuccess {
		if cfg.Quiet {
			// Quiet mode prints only the final report path for scripting.
			fmt.Fprintln(out, r.dir.FinalAnalysisFile())
		} else {
			cli.PrintCompletion(r.dir.Path, time.Since(start), out)
		}
	}
	return code
}

// execute runs the three pipeline phases: planning, parallel research, and
// synthesis. Each phase is traced; the reporter receives assistant lifecycle
// events during the fan-out.
func (r *researchRun) execute(ctx context.Context, reporter orchestration.ProgressReporter, phase func(string), progressOut io.Writer) ([]orchestration.AssistantResult, int) {
	cfg := r.app.Config
	tracer := otel.Tracer(tracerName)

	ctx, span := tracer.Start(ctx, "research.run", trace.WithAttributes(
		attribute.String("run.id", r.manifest.RunID),
		attribute.String("run.format", cfg.Format)))
	defer span.End()

	phase("Planning")
	session, err := r.runPlanningPhase(ctx, tracer)
	if err != nil {
		r.app.Log.Error("planning failed", logging.Err(err))
		span.SetStatus(codes.Error, "planning failed")
		fmt.Fprintf(r.app.ErrWriter, "Error: %v\n", err)
		return nil, apperrors.ExitCodeForError(err)
	}

	p := session.Plan
	p.Normalize(cfg.Agents, r.customFocuses)
	r.persistPlan(session, p)

	// A planning session that already delivered the final analysis makes
	// the fan-out redundant.
	if session.FinalText != "" {
		if err := report.WriteArtifact(r.dir.FinalAnalysisFile(), session.FinalText); err != nil {
			fmt.Fprintf(r.app.ErrWriter, "Error: %v\n", err)
			return nil, apperrors.ExitErrorGeneric
		}
		r.app.Log.Info("planner delivered final analysis directly")
		return nil, apperrors.ExitSuccess
	}

	phase("Research")
	req := orchestration.ResearchRequest{
		Query:   cfg.Query,
		Format:  cfg.Format,
		Plan:    p,
		Dir:     r.dir,
		WorkDir: cfg.WorkDir,
	}
	rctx, rspan := tracer.Start(ctx, "research.fanout",
		trace.WithAttributes(attribute.Int("assistants", p.AssistantCount)))
	results := r.orch.ExecuteResearch(rctx, req, reporter, progressOut)
	rspan.End()

	if ctx.Err() != nil {
		span.SetStatus(codes.Error, "interrupted")
		return results, apperrors.ExitCodeForError(ctx.Err())
	}

	phase("Synthesis")
	sctx, sspan := tracer.Start(ctx, "research.synthesis")
	err = r.orch.RunSynthesis(sctx, req)
	sspan.End()
	if err != nil {
		r.app.Log.Error("synthesis failed", logging.Err(err))
		span.SetStatus(codes.Error, "synthesis failed")
		fmt.Fprintf(r.app.ErrWriter, "Error: %v\n", err)
		if apperrors.IsContextError(err) {
			return results, apperrors.ExitCodeForError(err)
		}
		// Findings survive a failed synthesis; the exit code flags the
		// missing final report.
		return results, apperrors.ExitErrorPlan
	}

	return results, apperrors.ExitSuccess
}

// runPlanningPhase executes the traced planning call.
func (r *researchRun) runPlanningPhase(ctx context.Context, tracer trace.Tracer) (plan.Session, error) {
	pctx, pspan := tracer.Start(ctx, "research.plan")
	defer pspan.End()
	return r.orch.RunPlanning(pctx, r.app.Config.Query, r.dir, r.app.Config.WorkDir)
}

// persistPlan writes the research-plan artifact, any findings the planner
// emitted directly, and the updated manifest.
func (r *researchRun) persistPlan(session plan.Session, p plan.Plan) {
	planText := p.PlanText
	if planText == "" {
		planText = plan.FallbackPlanText(r.app.Config.Query, p)
	}
	if err := report.WriteArtifact(r.dir.PlanFile(), planText); err != nil {
		r.app.Log.Warn("could not write research plan", logging.Err(err))
	}

	for i, findings := range session.Findings {
		if i < 1 || i > p.AssistantCount {
			continue
		}
		if err := report.WriteArtifact(r.dir.FindingsFile(i), findings); err != nil {
			r.app.Log.Warn("could not write planner findings", logging.Int("assistant", i), logging.Err(err))
		}
	}

	r.manifest.AssistantCount = p.AssistantCount
	r.manifest.Focuses = p.FocusList()
	if err := r.manifest.Write(r.dir); err != nil {
		r.app.Log.Warn("could not update run manifest", logging.Err(err))
	}

	r.app.Log.Info("plan decided",
		logging.Int("assistants", p.AssistantCount),
		logging.Int("plannerFindings", len(session.Findings)))
}
