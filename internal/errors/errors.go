package apperrors

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess       = 0   // Indicates successful execution.
	ExitErrorGeneric  = 1   // Indicates a generic error.
	ExitErrorTimeout  = 2   // Indicates the operation timed out.
	ExitErrorPlan     = 3   // Indicates planning or synthesis failed after retries.
	ExitErrorConfig   = 4   // Indicates a configuration error.
	ExitErrorCanceled = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect
// user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// AgentError encapsulates a failed external agent invocation while preserving
// the original cause. This allows for structured error handling and inspection
// of what went wrong when the subprocess was executed.
type AgentError struct {
	// Operation is the pipeline step that invoked the agent
	// (e.g., "planning", "assistant 3", "synthesis").
	Operation string
	// Cause is the underlying error that triggered this agent error.
	Cause error
}

// Error returns a formatted message naming the failed operation.
func (e AgentError) Error() string {
	return fmt.Sprintf("agent invocation for %s failed: %v", e.Operation, e.Cause)
}

// Unwrap returns the original wrapped error, allowing for error chain
// inspection (e.g., using errors.Is or errors.As).
func (e AgentError) Unwrap() error { return e.Cause }

// EmptyOutputError indicates the agent subprocess exited successfully but
// produced no usable (non-whitespace) output. Callers treat this the same as
// a failed invocation and apply the retry policy.
type EmptyOutputError struct {
	// Operation is the pipeline step whose output was empty.
	Operation string
}

// Error returns a formatted message describing the empty output.
func (e EmptyOutputError) Error() string {
	return fmt.Sprintf("agent produced empty output for %s", e.Operation)
}

// TimeoutError represents an agent invocation timeout. It captures the
// operation name and the duration limit that was exceeded.
type TimeoutError struct {
	// Operation is the name of the operation that timed out.
	Operation string
	// Limit is the duration after which the operation was considered timed out.
	Limit time.Duration
}

// Error returns a formatted message describing the timeout.
func (e TimeoutError) Error() string {
	return fmt.Sprintf("operation %q timed out after %s", e.Operation, e.Limit)
}

// PlanError indicates the planning orchestrator did not deliver a usable plan
// (most commonly a missing synthesis prompt) after the retry budget was spent.
type PlanError struct {
	// Message explains what the planner failed to provide.
	Message string
}

// Error returns the error message for a PlanError.
func (e PlanError) Error() string { return e.Message }

// NewPlanError creates a new PlanError with a formatted message.
func NewPlanError(format string, a ...any) error {
	return PlanError{Message: fmt.Sprintf(format, a...)}
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline
// exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ExitCodeForError maps an error to the application exit code. Context
// cancellation is distinguished from deadline expiry so that Ctrl-C and
// timeouts report differently to the OS.
func ExitCodeForError(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, context.DeadlineExceeded):
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	case errors.As(err, &ConfigError{}):
		return ExitErrorConfig
	case errors.As(err, &PlanError{}):
		return ExitErrorPlan
	default:
		var timeout TimeoutError
		if errors.As(err, &timeout) {
			return ExitErrorTimeout
		}
		return ExitErrorGeneric
	}
}
