package apperrors

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"generic", errors.New("boom"), ExitErrorGeneric},
		{"config", NewConfigError("bad flag"), ExitErrorConfig},
		{"plan", NewPlanError("no prompt"), ExitErrorPlan},
		{"timeout type", TimeoutError{Operation: "synthesis", Limit: time.Minute}, ExitErrorTimeout},
		{"deadline", context.DeadlineExceeded, ExitErrorTimeout},
		{"canceled", context.Canceled, ExitErrorCanceled},
		{"agent", AgentError{Operation: "assistant 1", Cause: errors.New("exit 1")}, ExitErrorGeneric},
		{"empty output", EmptyOutputError{Operation: "assistant 1"}, ExitErrorGeneric},
		{"wrapped config", WrapError(NewConfigError("bad"), "while parsing"), ExitErrorConfig},
		{"wrapped plan", WrapError(NewPlanError("missing"), "planning"), ExitErrorPlan},
		{"wrapped timeout", fmt.Errorf("run: %w", TimeoutError{Operation: "x", Limit: time.Second}), ExitErrorTimeout},
		{"wrapped cancel", fmt.Errorf("run: %w", context.Canceled), ExitErrorCanceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCodeForError(tt.err); got != tt.want {
				t.Errorf("ExitCodeForError(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestAgentError_Unwrap(t *testing.T) {
	cause := errors.New("exit status 2")
	err := AgentError{Operation: "planning", Cause: cause}

	if !errors.Is(err, cause) {
		t.Error("Unwrap chain broken")
	}
	if msg := err.Error(); msg != `agent invocation for planning failed: exit status 2` {
		t.Errorf("Error() = %q", msg)
	}
}

func TestWrapError(t *testing.T) {
	if WrapError(nil, "ctx") != nil {
		t.Error("wrapping nil must return nil")
	}

	base := errors.New("base")
	wrapped := WrapError(base, "doing %s", "thing")
	if !errors.Is(wrapped, base) {
		t.Error("wrapped error lost its cause")
	}
	if wrapped.Error() != "doing thing: base" {
		t.Errorf("Error() = %q", wrapped.Error())
	}
}

func TestIsContextError(t *testing.T) {
	if !IsContextError(context.Canceled) || !IsContextError(context.DeadlineExceeded) {
		t.Error("direct context errors not recognized")
	}
	if !IsContextError(fmt.Errorf("op: %w", context.Canceled)) {
		t.Error("wrapped context error not recognized")
	}
	if IsContextError(errors.New("other")) {
		t.Error("unrelated error misclassified")
	}
	if IsContextError(nil) {
		t.Error("nil misclassified")
	}
}

func TestErrorMessages(t *testing.T) {
	if got := (EmptyOutputError{Operation: "assistant 3"}).Error(); got != "agent produced empty output for assistant 3" {
		t.Errorf("EmptyOutputError = %q", got)
	}
	if got := (TimeoutError{Operation: "synthesis", Limit: 10 * time.Minute}).Error(); got != `operation "synthesis" timed out after 10m0s` {
		t.Errorf("TimeoutError = %q", got)
	}
}
