// Package config defines the application configuration and its resolution
// chain: CLI flags > environment variables (CCHEAVY_ prefix) > defaults.
package config

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	apperrors "github.com/ccheavy/ccheavy/internal/errors"
)

// EnvPrefix is prepended to every environment variable override key.
const EnvPrefix = "CCHEAVY_"

// Output formats accepted by --format.
const (
	FormatMarkdown = "markdown"
	FormatText     = "text"
)

// Defaults for agent invocation.
const (
	DefaultAgentBin  = "cursor-agent"
	DefaultModel     = "gpt-5"
	DefaultTimeout   = 10 * time.Minute
	DefaultOutputDir = "./outputs"
)

// AppConfig holds the full runtime configuration of a research run.
type AppConfig struct {
	// Query is the free-text research question. Empty means interactive mode.
	Query string
	// Format is the output format: "markdown" or "text".
	Format string
	// WorkDir is the optional directory agent subprocesses run in.
	WorkDir string
	// Yes skips the confirmation prompt and runs immediately.
	Yes bool
	// Agents forces the assistant count (0 = planner decides).
	Agents int
	// AgentBin is the external agent binary to invoke.
	AgentBin string
	// Model is the model identifier passed to the agent binary.
	Model string
	// Timeout bounds each agent subprocess invocation.
	Timeout time.Duration
	// RolesFile is an optional YAML file of custom assistant focus areas.
	RolesFile string
	// OutputDir is the root under which run directories are created.
	OutputDir string
	// Quiet suppresses the banner and progress output.
	Quiet bool
	// Verbose enables debug logging.
	Verbose bool
	// LogFile is an optional path for the structured JSON run log.
	LogFile string
	// MetricsAddr optionally exposes Prometheus metrics on this address.
	MetricsAddr string
	// TUI enables the live dashboard instead of spinner output.
	TUI bool
	// NoColor disables ANSI colors in terminal output.
	NoColor bool
}

// Ext returns the artifact file extension for the configured format.
func (c AppConfig) Ext() string {
	if c.Format == FormatText {
		return "txt"
	}
	return "md"
}

// ParseConfig parses command-line arguments into an AppConfig and applies
// environment overrides for flags that were not explicitly set.
//
// The returned error is flag.ErrHelp when --help was requested, or a
// ConfigError for invalid values.
func ParseConfig(programName string, args []string, errWriter io.Writer) (AppConfig, error) {
	cfg := AppConfig{
		Format:    FormatMarkdown,
		AgentBin:  DefaultAgentBin,
		Model:     DefaultModel,
		Timeout:   DefaultTimeout,
		OutputDir: DefaultOutputDir,
	}

	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errWriter)

	fs.StringVar(&cfg.Format, "format", cfg.Format, "Output format: markdown or text")
	fs.StringVar(&cfg.Format, "f", cfg.Format, "Alias for --format")
	fs.StringVar(&cfg.WorkDir, "workdir", "", "Working directory agents analyze (absolute path)")
	fs.StringVar(&cfg.WorkDir, "w", "", "Alias for --workdir")
	fs.BoolVar(&cfg.Yes, "yes", false, "Skip the confirmation prompt and run immediately")
	fs.BoolVar(&cfg.Yes, "no-prompt", false, "Alias for --yes")
	fs.IntVar(&cfg.Agents, "agents", 0, "Force the assistant count (0 = planner decides, otherwise 2-8)")
	fs.StringVar(&cfg.AgentBin, "agent-bin", cfg.AgentBin, "External agent binary to invoke")
	fs.StringVar(&cfg.Model, "model", cfg.Model, "Model identifier passed to the agent")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Per-invocation subprocess timeout")
	fs.StringVar(&cfg.RolesFile, "roles", "", "YAML file of custom assistant focus areas")
	fs.StringVar(&cfg.OutputDir, "output-dir", cfg.OutputDir, "Root directory for run outputs")
	fs.BoolVar(&cfg.Quiet, "quiet", false, "Suppress banner and progress output")
	fs.BoolVar(&cfg.Quiet, "q", false, "Alias for --quiet")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Enable debug logging")
	fs.BoolVar(&cfg.Verbose, "v", false, "Alias for --verbose")
	fs.StringVar(&cfg.LogFile, "log-file", "", "Write a structured JSON run log to this path")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", "", "Expose Prometheus metrics on this address (e.g. :9090)")
	fs.BoolVar(&cfg.TUI, "tui", false, "Run with the live dashboard instead of spinner output")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "Disable colored output")

	fs.Usage = func() {
		fmt.Fprintf(errWriter, "Usage: %s [flags] [\"research query\"]\n\n", programName)
		fmt.Fprintf(errWriter, "Orchestrates parallel research assistants over an external AI agent CLI\nand synthesizes their findings into a single report.\n\n")
		fmt.Fprintf(errWriter, "When no query is given, an interactive prompt collects one.\n\nFlags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}

	// Everything after the flags is the query; allow unquoted multi-word input.
	cfg.Query = strings.TrimSpace(strings.Join(fs.Args(), " "))

	applyEnvOverrides(&cfg, fs)

	if err := validate(cfg); err != nil {
		// The flag package prints its own parse errors; validation errors
		// surface the same way so every rejected invocation is diagnosed.
		fmt.Fprintf(errWriter, "Error: %v\n", err)
		return AppConfig{}, err
	}
	return cfg, nil
}

// validate enforces flag value constraints after env overrides are applied.
func validate(cfg AppConfig) error {
	if cfg.Format != FormatMarkdown && cfg.Format != FormatText {
		return apperrors.NewConfigError("invalid --format %q: must be %q or %q", cfg.Format, FormatMarkdown, FormatText)
	}
	if cfg.Agents != 0 && (cfg.Agents < 2 || cfg.Agents > 8) {
		return apperrors.NewConfigError("invalid --agents %d: must be 0 (planner decides) or between 2 and 8", cfg.Agents)
	}
	if cfg.Timeout <= 0 {
		return apperrors.NewConfigError("invalid --timeout %s: must be positive", cfg.Timeout)
	}
	if cfg.AgentBin == "" {
		return apperrors.NewConfigError("--agent-bin must not be empty")
	}
	if cfg.Quiet && cfg.TUI {
		return apperrors.NewConfigError("--quiet and --tui are mutually exclusive")
	}
	return nil
}
