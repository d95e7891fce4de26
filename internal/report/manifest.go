package report

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Manifest is the on-disk run.json contract for a research run. It is the
// initial snapshot at run creation time, updated once the plan is decided, and
// is intended to be stable and easy to inspect.
type Manifest struct {
	RunID     string `json:"runId"`
	Query     string `json:"query"`
	Format    string `json:"format"`
	WorkDir   string `json:"workdir,omitempty"`
	AgentBin  string `json:"agentBin"`
	Model     string `json:"model"`
	// Timestamp is when the run was created (RFC3339Nano, UTC).
	Timestamp string `json:"timestamp"`

	// AssistantCount and Focuses are filled in after planning.
	AssistantCount int      `json:"assistantCount,omitempty"`
	Focuses        []string `json:"focuses,omitempty"`
}

// NewManifest creates a manifest snapshot for a freshly created run.
func NewManifest(runID, query, format, workDir, agentBin, model string, now time.Time) Manifest {
	return Manifest{
		RunID:     runID,
		Query:     query,
		Format:    format,
		WorkDir:   workDir,
		AgentBin:  agentBin,
		Model:     model,
		Timestamp: now.UTC().Format(time.RFC3339Nano),
	}
}

// Write persists the manifest into the run directory.
func (m Manifest) Write(dir RunDir) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode run manifest: %w", err)
	}
	if err := os.WriteFile(dir.ManifestFile(), append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write run manifest: %w", err)
	}
	return nil
}
