// Package report renders a batch of engine reports into the four output
// encodings: summary text, detailed text, HTML table, and JSON. All
// renderers share one traversal of the report collection; adding a format
// means adding a Renderer, not re-deriving aggregation.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/cwbudde/algo-validate/check"
	"github.com/cwbudde/algo-validate/severity"
)

// Renderer writes one encoding of a report batch.
type Renderer interface {
	// FileName is the output file name used by WriteAll.
	FileName() string

	// Render writes the encoded batch.
	Render(w io.Writer, reports []check.Report) error
}

// DefaultRenderers returns all four standard renderers.
func DefaultRenderers() []Renderer {
	return []Renderer{
		&Summary{TopOffenders: 10},
		&Detailed{},
		&HTMLTable{},
		&JSON{},
	}
}

// WriteAll renders the batch into dir with every renderer. A write failure
// aborts immediately: a batch without a report has no observable outcome.
func WriteAll(dir string, reports []check.Report, renderers ...Renderer) error {
	if len(renderers) == 0 {
		renderers = DefaultRenderers()
	}

	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		return fmt.Errorf("report: create output dir: %w", err)
	}

	for _, r := range renderers {
		path := filepath.Join(dir, r.FileName())

		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("report: create %s: %w", path, err)
		}

		err = r.Render(f, reports)
		if cerr := f.Close(); err == nil {
			err = cerr
		}

		if err != nil {
			return fmt.Errorf("report: write %s: %w", path, err)
		}
	}

	return nil
}

// bucketCounts tallies reports per severity bucket.
func bucketCounts(reports []check.Report) map[string]int {
	counts := map[string]int{
		"perfect":  0,
		"minor":    0,
		"major":    0,
		"critical": 0,
	}

	for _, r := range reports {
		counts[severity.Bucket(r.Severity)]++
	}

	return counts
}

// bySeverity returns the reports sorted worst-first, ties broken by id for
// stable output.
func bySeverity(reports []check.Report) []check.Report {
	sorted := make([]check.Report, len(reports))
	copy(sorted, reports)

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Severity != sorted[j].Severity {
			return sorted[i].Severity > sorted[j].Severity
		}

		return sorted[i].Identity.ID < sorted[j].Identity.ID
	})

	return sorted
}

// primaryIssue returns the most severe recommendation of a report, or "".
func primaryIssue(r check.Report) string {
	if len(r.Recommendations) == 0 {
		return ""
	}

	return r.Recommendations[0]
}

func passFail(pass bool) string {
	if pass {
		return "pass"
	}

	return "FAIL"
}
