// Package app wires configuration, logging, metrics, and the orchestration
// pipeline into the runnable application. It owns mode dispatch (interactive,
// automated, manual, TUI, quiet) and the mapping from pipeline outcomes to
// process exit codes.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/ccheavy/ccheavy/internal/agent"
	"github.com/ccheavy/ccheavy/internal/config"
	apperrors "github.com/ccheavy/ccheavy/internal/errors"
	"github.com/ccheavy/ccheavy/internal/logging"
	"github.com/ccheavy/ccheavy/internal/metrics"
	"github.com/ccheavy/ccheavy/internal/ui"
)

// Application represents the ccheavy application instance.
type Application struct {
	Config    config.AppConfig
	Runner    agent.Runner
	Metrics   *metrics.Metrics
	Log       logging.Logger
	ErrWriter io.Writer
	// In is the interactive input source, os.Stdin unless overridden.
	In io.Reader
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithRunner sets a custom agent runner, replacing the CLI subprocess runner.
func WithRunner(r agent.Runner) AppOption {
	return func(a *Application) { a.Runner = r }
}

// WithLogger sets a custom logger, replacing the default console logger.
func WithLogger(l logging.Logger) AppOption {
	return func(a *Application) { a.Log = l }
}

// WithInput sets the interactive input source.
func WithInput(in io.Reader) AppOption {
	return func(a *Application) { a.In = in }
}

// New creates a new Application instance by parsing command-line arguments.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter, In: os.Stdin, Metrics: metrics.New()}
	for _, opt := range opts {
		opt(app)
	}

	programName := "ccheavy"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}

	app.Config = cfg
	return app, nil
}

// Run executes the application based on the configured mode.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	ui.InitTheme(a.Config.NoColor)
	zerolog.SetGlobalLevel(a.logLevel())

	if code, cleanup := a.setupLogger(); code != apperrors.ExitSuccess {
		return code
	} else if cleanup != nil {
		defer cleanup()
	}

	if a.Config.MetricsAddr != "" {
		shutdown := a.Metrics.Serve(a.Config.MetricsAddr)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = shutdown(shutdownCtx)
		}()
	}

	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	return a.runResearch(ctx, out)
}

// logLevel resolves the zerolog level from the quiet/verbose flags.
func (a *Application) logLevel() zerolog.Level {
	switch {
	case a.Config.Verbose:
		return zerolog.DebugLevel
	case a.Config.Quiet:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}

// setupLogger initializes the structured logger unless one was injected. A
// configured --log-file switches from console to JSON output; the returned
// cleanup closes it.
func (a *Application) setupLogger() (int, func()) {
	if a.Log != nil {
		return apperrors.ExitSuccess, nil
	}
	if a.Config.LogFile == "" {
		a.Log = logging.NewDefaultLogger()
		return apperrors.ExitSuccess, nil
	}

	f, err := os.OpenFile(a.Config.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Cannot open log file: %v\n", err)
		return apperrors.ExitErrorConfig, nil
	}
	a.Log = logging.NewFileLogger(f)
	return apperrors.ExitSuccess, func() { _ = f.Close() }
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
