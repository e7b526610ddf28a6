package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/cwbudde/algo-validate/check"
)

// SchemaVersion identifies the JSON report layout for downstream tooling.
const SchemaVersion = 1

// JSON renders the machine-readable batch report: every field of every
// engine report, wrapped with a schema version for CI gating.
type JSON struct {
	// Now overrides the timestamp source, for reproducible tests.
	Now func() time.Time
}

// FileName implements Renderer.
func (j *JSON) FileName() string { return "report.json" }

type jsonBatch struct {
	SchemaVersion int            `json:"schemaVersion"`
	GeneratedAt   time.Time      `json:"generatedAt"`
	Engines       []check.Report `json:"engines"`
}

// Render implements Renderer.
func (j *JSON) Render(w io.Writer, reports []check.Report) error {
	now := time.Now
	if j.Now != nil {
		now = j.Now
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(jsonBatch{
		SchemaVersion: SchemaVersion,
		GeneratedAt:   now().UTC(),
		Engines:       bySeverity(reports),
	})
}
