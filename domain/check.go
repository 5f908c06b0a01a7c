package domain

// CheckResult represents the result of a quality gate over ingested violations
type CheckResult struct {
	Passed      bool             `json:"passed" yaml:"passed"`
	ExitCode    int              `json:"exit_code" yaml:"exit_code"`
	Violations  []CheckViolation `json:"violations" yaml:"violations"`
	Summary     CheckSummary     `json:"summary" yaml:"summary"`
	Duration    int64            `json:"duration_ms" yaml:"duration_ms"`
	GeneratedAt string           `json:"generated_at" yaml:"generated_at"`
	Version     string           `json:"version" yaml:"version"`
}

// CheckViolation represents a single violation at or above the failing severity
type CheckViolation struct {
	Project  string `json:"project" yaml:"project"`
	Rule     string `json:"rule" yaml:"rule"`
	Severity string `json:"severity" yaml:"severity"`
	Message  string `json:"message" yaml:"message"`
	Location string `json:"location,omitempty" yaml:"location,omitempty"`
}

// CheckSummary provides aggregate statistics
type CheckSummary struct {
	ProjectsAnalyzed  int    `json:"projects_analyzed" yaml:"projects_analyzed"`
	ReportsParsed     int    `json:"reports_parsed" yaml:"reports_parsed"`
	TotalViolations   int    `json:"total_violations" yaml:"total_violations"`
	FailingViolations int    `json:"failing_violations" yaml:"failing_violations"`
	MissingTypes      int    `json:"missing_types" yaml:"missing_types"`
	FailOn            string `json:"fail_on" yaml:"fail_on"`
}
