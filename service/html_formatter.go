package service

import (
	"html/template"
	"io"
	"strings"

	"github.com/ludo-technologies/rsbridge/domain"
)

// HTMLData represents the data for HTML template
type HTMLData struct {
	GeneratedAt string
	Version     string
	Summary     domain.IngestSummary
	Projects    []domain.ProjectResult
	Severities  []severityCount
	Warnings    []string
	Errors      []string
}

type severityCount struct {
	Name  string
	Count int
}

// WriteHTML writes the ingestion response as a standalone HTML page
func (f *OutputFormatterImpl) WriteHTML(response *domain.IngestResponse, writer io.Writer) error {
	data := HTMLData{
		GeneratedAt: response.GeneratedAt,
		Version:     response.Version,
		Summary:     response.Summary,
		Projects:    response.Projects,
		Warnings:    response.Warnings,
		Errors:      response.Errors,
	}
	for _, sev := range []domain.Severity{domain.SeverityCritical, domain.SeverityMajor, domain.SeverityMinor, domain.SeverityInfo} {
		data.Severities = append(data.Severities, severityCount{Name: string(sev), Count: response.Summary.BySeverity[string(sev)]})
	}

	funcMap := template.FuncMap{
		"upper":     strings.ToUpper,
		"firstLine": firstLine,
		"kindClass": func(kind domain.TargetKind) string {
			if kind == domain.TargetProject {
				return "target-project"
			}
			return "target-file"
		},
	}

	tmpl, err := template.New("ingest").Funcs(funcMap).Parse(htmlTemplate)
	if err != nil {
		return err
	}
	return tmpl.Execute(writer, data)
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>rsbridge Ingestion Report</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            line-height: 1.6;
            color: #333;
            background: #eef1f6;
            min-height: 100vh;
        }
        .container { max-width: 1200px; margin: 0 auto; padding: 20px; }
        .card {
            background: white;
            border-radius: 10px;
            padding: 30px;
            margin-bottom: 20px;
            box-shadow: 0 10px 30px rgba(0,0,0,0.08);
        }
        h1 { color: #3f51b5; margin-bottom: 10px; }
        .subtitle { color: #666; font-size: 14px; }
        .metric-grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(160px, 1fr));
            gap: 20px;
            margin: 20px 0;
        }
        .metric-card { background: #f8f9fa; padding: 20px; border-radius: 8px; text-align: center; }
        .metric-value { font-size: 32px; font-weight: bold; color: #3f51b5; }
        .metric-label { color: #666; margin-top: 5px; }
        .table { width: 100%; border-collapse: collapse; margin: 20px 0; }
        .table th, .table td { padding: 10px; text-align: left; border-bottom: 1px solid #ddd; vertical-align: top; }
        .table th { background: #f8f9fa; font-weight: 600; }
        .severity-critical { color: #d32f2f; font-weight: bold; }
        .severity-major { color: #f57c00; font-weight: bold; }
        .severity-minor { color: #fbc02d; }
        .severity-info { color: #1976d2; }
        .target-project { font-style: italic; }
        .clean { color: #4caf50; font-weight: bold; }
        .notes li { margin-left: 20px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="card">
            <h1>rsbridge Ingestion Report</h1>
            <p class="subtitle">Generated: {{.GeneratedAt}} | Version: {{.Version}}</p>
            <div class="metric-grid">
                <div class="metric-card">
                    <div class="metric-value">{{.Summary.ProjectsAnalyzed}}</div>
                    <div class="metric-label">Projects</div>
                </div>
                <div class="metric-card">
                    <div class="metric-value">{{.Summary.ReportsParsed}}</div>
                    <div class="metric-label">Reports</div>
                </div>
                <div class="metric-card">
                    <div class="metric-value">{{.Summary.TotalViolations}}</div>
                    <div class="metric-label">Violations</div>
                </div>
                <div class="metric-card">
                    <div class="metric-value">{{.Summary.MissingTypes}}</div>
                    <div class="metric-label">Unknown Issue Types</div>
                </div>
                {{range .Severities}}
                <div class="metric-card">
                    <div class="metric-value severity-{{.Name}}">{{.Count}}</div>
                    <div class="metric-label">{{upper .Name}}</div>
                </div>
                {{end}}
            </div>
        </div>

        {{range .Projects}}
        <div class="card">
            <h2>{{.Name}}</h2>
            {{if .Violations}}
            <table class="table">
                <thead>
                    <tr>
                        <th>Location</th>
                        <th>Severity</th>
                        <th>Rule</th>
                        <th>Message</th>
                    </tr>
                </thead>
                <tbody>
                    {{range .Violations}}
                    <tr>
                        <td class="{{kindClass .Target.Kind}}">{{.Target.Location}}</td>
                        <td class="severity-{{.Severity}}">{{upper (printf "%s" .Severity)}}</td>
                        <td>{{.RuleKey}}</td>
                        <td>{{firstLine .Message}}</td>
                    </tr>
                    {{end}}
                </tbody>
            </table>
            {{else}}
            <p class="clean">No violations found</p>
            {{end}}
        </div>
        {{end}}

        {{if or .Warnings .Errors}}
        <div class="card">
            {{if .Warnings}}
            <h3>Warnings</h3>
            <ul class="notes">{{range .Warnings}}<li>{{.}}</li>{{end}}</ul>
            {{end}}
            {{if .Errors}}
            <h3>Errors</h3>
            <ul class="notes">{{range .Errors}}<li>{{.}}</li>{{end}}</ul>
            {{end}}
        </div>
        {{end}}
    </div>
</body>
</html>`
