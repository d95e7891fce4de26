package agent

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	apperrors "github.com/ccheavy/ccheavy/internal/errors"
)

// writeStubAgent creates an executable shell script standing in for the agent
// binary and returns its path.
func writeStubAgent(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub agent scripts require a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "stub-agent")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCLIRunner_Run_Success(t *testing.T) {
	// The stub echoes the prompt ($2 after -p) so we can verify the argv
	// contract end to end.
	bin := writeStubAgent(t, `echo "prompt=$2 model=$4 fmt=$6"`)
	runner := NewCLIRunner(bin, "gpt-5", time.Minute, nil)

	var stdout, stderr bytes.Buffer
	err := runner.Run(context.Background(), "test", "hello world", "", &stdout, &stderr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := stdout.String()
	if !strings.Contains(got, "prompt=hello world") {
		t.Errorf("prompt not passed through -p: %q", got)
	}
	if !strings.Contains(got, "model=gpt-5") {
		t.Errorf("model not passed through --model: %q", got)
	}
	if !strings.Contains(got, "fmt=text") {
		t.Errorf("output format not text: %q", got)
	}
}

func TestCLIRunner_Run_RoutesStderr(t *testing.T) {
	bin := writeStubAgent(t, `echo out; echo diagnostics >&2`)
	runner := NewCLIRunner(bin, "gpt-5", time.Minute, nil)

	var stdout, stderr bytes.Buffer
	if err := runner.Run(context.Background(), "test", "p", "", &stdout, &stderr); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(stdout.String(), "out") {
		t.Errorf("stdout = %q", stdout.String())
	}
	if !strings.Contains(stderr.String(), "diagnostics") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestCLIRunner_Run_NonZeroExit(t *testing.T) {
	bin := writeStubAgent(t, `exit 3`)
	runner := NewCLIRunner(bin, "gpt-5", time.Minute, nil)

	err := runner.Run(context.Background(), "assistant 2", "p", "", &bytes.Buffer{}, &bytes.Buffer{})
	if err == nil {
		t.Fatal("expected an error")
	}

	var agentErr apperrors.AgentError
	if !errors.As(err, &agentErr) {
		t.Fatalf("error type = %T", err)
	}
	if agentErr.Operation != "assistant 2" {
		t.Errorf("Operation = %q", agentErr.Operation)
	}
}

func TestCLIRunner_Run_Timeout(t *testing.T) {
	bin := writeStubAgent(t, `sleep 10`)
	runner := NewCLIRunner(bin, "gpt-5", 50*time.Millisecond, nil)

	start := time.Now()
	err := runner.Run(context.Background(), "synthesis", "p", "", &bytes.Buffer{}, &bytes.Buffer{})
	if time.Since(start) > 5*time.Second {
		t.Fatal("timeout not enforced")
	}

	var timeoutErr apperrors.TimeoutError
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("error type = %T (%v)", err, err)
	}
	if timeoutErr.Operation != "synthesis" {
		t.Errorf("Operation = %q", timeoutErr.Operation)
	}
}

func TestCLIRunner_Run_MissingBinary(t *testing.T) {
	runner := NewCLIRunner(filepath.Join(t.TempDir(), "nope"), "gpt-5", time.Minute, nil)

	err := runner.Run(context.Background(), "planning", "p", "", &bytes.Buffer{}, &bytes.Buffer{})
	var agentErr apperrors.AgentError
	if !errors.As(err, &agentErr) {
		t.Fatalf("error type = %T", err)
	}
}

func TestCLIRunner_Run_UsesWorkingDir(t *testing.T) {
	bin := writeStubAgent(t, `pwd`)
	runner := NewCLIRunner(bin, "gpt-5", time.Minute, nil)

	dir := t.TempDir()
	var stdout bytes.Buffer
	if err := runner.Run(context.Background(), "test", "p", dir, &stdout, &bytes.Buffer{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := strings.TrimSpace(stdout.String())
	want, _ := filepath.EvalSymlinks(dir)
	if resolved, err := filepath.EvalSymlinks(got); err != nil || resolved != want {
		t.Errorf("subprocess cwd = %q, want %q", got, dir)
	}
}

func TestCheckAvailable(t *testing.T) {
	bin := writeStubAgent(t, `[ "$1" = "--help" ] && exit 0; exit 1`)
	if err := CheckAvailable(context.Background(), bin); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := CheckAvailable(context.Background(), filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected an error for a missing binary")
	}
}

func TestWorkDirFor(t *testing.T) {
	dir, cleanup, err := WorkDirFor("/explicit")
	if err != nil || dir != "/explicit" {
		t.Errorf("dir = %q, err = %v", dir, err)
	}
	cleanup()

	tmp, cleanup, err := WorkDirFor("")
	if err != nil {
		t.Fatal(err)
	}
	if _, statErr := os.Stat(tmp); statErr != nil {
		t.Errorf("temp dir missing: %v", statErr)
	}
	cleanup()
	if _, statErr := os.Stat(tmp); !os.IsNotExist(statErr) {
		t.Errorf("temp dir survived cleanup")
	}
}
