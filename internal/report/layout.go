// Package report owns the filesystem layout of a research run: the
// timestamped run directory, the per-assistant artifact paths, and the run
// manifest. All entities of the system are files; this package is the single
// place that knows where each one lives.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// MaxSlugLength caps the query-derived directory name component.
const MaxSlugLength = 60

var (
	nonSlugChars    = regexp.MustCompile(`[^a-z0-9 ]`)
	spaceRuns       = regexp.MustCompile(` +`)
	hyphenRuns      = regexp.MustCompile(`-+`)
	trailingPartial = regexp.MustCompile(`-[^-]*$`)
)

// Slug generates a folder-friendly name from a query: lowercase, special
// characters collapsed to hyphens, truncated at MaxSlugLength without a
// trailing partial word.
func Slug(query string) string {
	clean := nonSlugChars.ReplaceAllString(strings.ToLower(query), " ")
	clean = spaceRuns.ReplaceAllString(clean, "-")
	clean = hyphenRuns.ReplaceAllString(clean, "-")
	clean = strings.Trim(clean, "-")

	if len(clean) > MaxSlugLength {
		clean = clean[:MaxSlugLength]
		clean = trailingPartial.ReplaceAllString(clean, "")
	}
	return clean
}

// RunDir represents a single run's output directory and knows the path of
// every artifact inside it.
type RunDir struct {
	// Path is the absolute path of the run directory.
	Path string
	// Ext is the artifact extension without the dot ("md" or "txt").
	Ext string
}

// NewRunDir creates the run directory `<root>/<YYYY-MM-DD>-<slug>/` together
// with its assistants/ subdirectory and returns the resolved layout.
func NewRunDir(root, query, ext string, now time.Time) (RunDir, error) {
	name := fmt.Sprintf("%s-%s", now.Format("2006-01-02"), Slug(query))
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(filepath.Join(dir, "assistants"), 0o755); err != nil {
		return RunDir{}, fmt.Errorf("create run directory: %w", err)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return RunDir{}, fmt.Errorf("resolve run directory: %w", err)
	}
	return RunDir{Path: abs, Ext: ext}, nil
}

// AssistantsDir returns the directory holding per-assistant artifacts.
func (r RunDir) AssistantsDir() string { return filepath.Join(r.Path, "assistants") }

// PlanFile returns the research plan artifact path.
func (r RunDir) PlanFile() string {
	return filepath.Join(r.Path, "research-plan."+r.Ext)
}

// OrchestrationPromptFile returns the manual-mode prompt artifact path.
func (r RunDir) OrchestrationPromptFile() string {
	return filepath.Join(r.Path, "orchestration-prompt."+r.Ext)
}

// PlanningSessionLog returns the raw planning session output path.
func (r RunDir) PlanningSessionLog() string {
	return filepath.Join(r.Path, "planning-session.log")
}

// PlanningStderrLog returns the planning call's stderr capture path.
func (r RunDir) PlanningStderrLog() string {
	return filepath.Join(r.Path, "planning-stderr.log")
}

// SynthesisStderrLog returns the synthesis call's stderr capture path.
func (r RunDir) SynthesisStderrLog() string {
	return filepath.Join(r.Path, "synthesis-stderr.log")
}

// FindingsFile returns the findings artifact path for assistant i (1-based).
func (r RunDir) FindingsFile(i int) string {
	return filepath.Join(r.AssistantsDir(), fmt.Sprintf("ra-%d-findings.%s", i, r.Ext))
}

// StderrLog returns the stderr capture path for assistant i (1-based).
func (r RunDir) StderrLog(i int) string {
	return filepath.Join(r.AssistantsDir(), fmt.Sprintf("ra-%d-stderr.log", i))
}

// SynthesisInputFile returns the assembled synthesis input path.
func (r RunDir) SynthesisInputFile() string {
	return filepath.Join(r.Path, "synthesis-input.txt")
}

// FinalAnalysisFile returns the synthesized report path.
func (r RunDir) FinalAnalysisFile() string {
	return filepath.Join(r.Path, "final-analysis."+r.Ext)
}

// ManifestFile returns the run manifest path.
func (r RunDir) ManifestFile() string { return filepath.Join(r.Path, "run.json") }

// WriteArtifact writes content to path, creating parent directories as needed.
func WriteArtifact(path, content string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create artifact directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write artifact %s: %w", filepath.Base(path), err)
	}
	return nil
}

// AppendNote appends a line to an existing artifact, used to record a failure
// note after retries are exhausted. Errors are returned but callers may treat
// them as non-fatal.
func AppendNote(path, note string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(note)
	return err
}

// ReadArtifact reads an artifact and reports whether it holds non-whitespace
// content. A missing file reads as empty.
func ReadArtifact(path string) (content string, nonEmpty bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	return string(data), strings.TrimSpace(string(data)) != ""
}
