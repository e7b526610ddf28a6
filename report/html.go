package report

import (
	"html/template"
	"io"

	"github.com/cwbudde/algo-validate/check"
	"github.com/cwbudde/algo-validate/severity"
)

// HTMLTable renders one severity-colored row per engine, suitable for a
// browser.
type HTMLTable struct{}

// FileName implements Renderer.
func (h *HTMLTable) FileName() string { return "report.html" }

var htmlTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Engine Validation Report</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ccc; padding: 6px 10px; text-align: left; }
th { background: #f0f0f0; }
.perfect { background: #e8f5e9; }
.minor { background: #fffde7; }
.major { background: #fff3e0; }
.critical { background: #ffebee; }
</style>
</head>
<body>
<h1>Engine Validation Report</h1>
<table>
<tr>
<th>ID</th><th>Engine</th><th>Severity</th><th>Class</th>
<th>Safety</th><th>Quality</th><th>Peak CPU</th><th>Primary Issue</th>
</tr>
{{range .}}<tr class="{{.Bucket}}">
<td>{{.ID}}</td><td>{{.Name}}</td><td>{{.Severity}}</td><td>{{.Bucket}}</td>
<td>{{.Safety}}</td><td>{{.Quality}}</td><td>{{printf "%.1f%%" .PeakCPU}}</td><td>{{.Issue}}</td>
</tr>
{{end}}</table>
</body>
</html>
`))

type htmlRow struct {
	ID       int
	Name     string
	Severity int
	Bucket   string
	Safety   string
	Quality  string
	PeakCPU  float64
	Issue    string
}

// Render implements Renderer.
func (h *HTMLTable) Render(w io.Writer, reports []check.Report) error {
	rows := make([]htmlRow, 0, len(reports))

	for _, r := range bySeverity(reports) {
		rows = append(rows, htmlRow{
			ID:       r.Identity.ID,
			Name:     r.Identity.Name,
			Severity: r.Severity,
			Bucket:   severity.Bucket(r.Severity),
			Safety:   passFail(r.Safety.FailureCount() == 0),
			Quality:  passFail(r.Quality.FailureCount() == 0),
			PeakCPU:  r.Performance.PeakCPUPercent,
			Issue:    primaryIssue(r),
		})
	}

	return htmlTmpl.Execute(w, rows)
}
