// Package agent wraps invocation of the external AI agent binary. The binary
// (and the model behind it) is an opaque collaborator: this package only
// builds the argv, routes stdout/stderr, applies the per-invocation timeout,
// and reports whether the subprocess exited cleanly.
package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	apperrors "github.com/ccheavy/ccheavy/internal/errors"
	"github.com/ccheavy/ccheavy/internal/logging"
)

// Runner abstracts a single agent invocation so orchestration can be tested
// without spawning real subprocesses.
type Runner interface {
	// Run invokes the agent with the given prompt, writing the agent's
	// stdout and stderr to the provided writers. dir is the working
	// directory for the subprocess; empty means the process inherits the
	// current one. Run returns an error for non-zero exit, a missing
	// binary, or context cancellation.
	Run(ctx context.Context, op, prompt, dir string, stdout, stderr io.Writer) error
}

// CLIRunner invokes the agent CLI as `<bin> -p <prompt> --model <model>
// --output-format text`.
type CLIRunner struct {
	// Bin is the agent binary name or path.
	Bin string
	// Model is passed through to the agent's --model flag.
	Model string
	// Timeout bounds each invocation. Zero means no per-invocation bound
	// beyond the caller's context.
	Timeout time.Duration
	// Log receives debug events for each invocation.
	Log logging.Logger
}

// NewCLIRunner creates a runner for the given binary and model.
func NewCLIRunner(bin, model string, timeout time.Duration, log logging.Logger) *CLIRunner {
	if log == nil {
		log = logging.NopLogger{}
	}
	return &CLIRunner{Bin: bin, Model: model, Timeout: timeout, Log: log}
}

// Verify interface compliance.
var _ Runner = (*CLIRunner)(nil)

// Run executes one agent subprocess. Context deadline expiry is reported as a
// TimeoutError naming the operation so callers can map it to the timeout exit
// code.
func (r *CLIRunner) Run(ctx context.Context, op, prompt, dir string, stdout, stderr io.Writer) error {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, r.Bin, "-p", prompt, "--model", r.Model, "--output-format", "text")
	cmd.Dir = dir
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	start := time.Now()
	r.Log.Debug("launching agent",
		logging.String("operation", op),
		logging.String("bin", r.Bin),
		logging.String("dir", dir))

	err := cmd.Run()
	elapsed := time.Since(start)

	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			r.Log.Warn("agent timed out", logging.String("operation", op), logging.Duration("elapsed", elapsed))
			return apperrors.TimeoutError{Operation: op, Limit: r.Timeout}
		}
		r.Log.Warn("agent failed",
			logging.String("operation", op),
			logging.Duration("elapsed", elapsed),
			logging.Err(err))
		return apperrors.AgentError{Operation: op, Cause: err}
	}

	r.Log.Debug("agent finished", logging.String("operation", op), logging.Duration("elapsed", elapsed))
	return nil
}

// CheckAvailable verifies the agent binary is installed and runnable by
// invoking `<bin> --help` with output discarded.
func CheckAvailable(ctx context.Context, bin string) error {
	cmd := exec.CommandContext(ctx, bin, "--help")
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("agent binary %q not available: %w", bin, err)
	}
	return nil
}

// WorkDirFor resolves the directory an invocation should run in. When base is
// set it is used directly; otherwise a fresh temp directory is created and
// returned together with a cleanup function.
func WorkDirFor(base string) (dir string, cleanup func(), err error) {
	if base != "" {
		return base, func() {}, nil
	}
	tmp, err := os.MkdirTemp("", "ccheavy-agent-")
	if err != nil {
		return "", nil, fmt.Errorf("create temp run directory: %w", err)
	}
	return tmp, func() { _ = os.RemoveAll(tmp) }, nil
}
