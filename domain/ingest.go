package domain

import (
	"context"
	"io"
)

// OutputFormat represents the supported output formats
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
	OutputFormatHTML OutputFormat = "html"
)

// ExecutionMode selects how reports are obtained
type ExecutionMode string

const (
	// ModeReuseReport parses reports that already exist on disk
	ModeReuseReport ExecutionMode = "reuse_report"

	// ModeRun launches the analyzer and parses the report it writes
	ModeRun ExecutionMode = "run"

	// ModeSkip disables ingestion entirely
	ModeSkip ExecutionMode = "skip"
)

// IngestRequest represents a request to ingest analyzer reports
type IngestRequest struct {
	// Solution file (.sln) the reports refer to
	SolutionPath string

	// Projects to analyze; empty means every project of the solution
	Projects []string

	// Language selects the rule repository ("cs" or "vbnet")
	Language string

	// IncludeAllFiles keeps findings in files outside the analyzed project
	IncludeAllFiles bool

	// SourceCharset is the declared encoding of the reports
	SourceCharset string

	// ExcludePatterns are gitignore-style patterns relative to the solution directory
	ExcludePatterns []string

	// Report acquisition
	Mode            ExecutionMode
	ReportPaths     []string // explicit report files, override ReportPattern
	ReportPattern   string
	InstallDir      string
	SettingsPattern string
	ExtraArgs       []string
	TimeoutMinutes  int

	// Custom rule definitions appended to the default catalog
	CustomRules     string
	CustomRulesFile string

	// Output configuration
	OutputFormat    OutputFormat
	OutputWriter    io.Writer
	OutputDirectory string // where generated reports go in run mode
	ShowDetails     bool

	// Sink additionally receives every violation as it is produced. Projects
	// are ingested concurrently, so it must be safe for concurrent use.
	Sink ViolationSink

	// Concurrency across projects
	MaxConcurrency int
	TimeoutSeconds int

	// Configuration
	ConfigPath string
}

// ProjectResult holds the violations produced for one project
type ProjectResult struct {
	Name         string      `json:"name" yaml:"name"`
	Reports      []string    `json:"reports" yaml:"reports"`
	Violations   []Violation `json:"violations" yaml:"violations"`
	MissingTypes []string    `json:"missing_types,omitempty" yaml:"missing_types,omitempty"`
	Skipped      int         `json:"skipped_findings" yaml:"skipped_findings"`
}

// IngestSummary represents aggregate statistics of an ingestion run
type IngestSummary struct {
	ProjectsAnalyzed  int            `json:"projects_analyzed" yaml:"projects_analyzed"`
	ReportsParsed     int            `json:"reports_parsed" yaml:"reports_parsed"`
	TotalViolations   int            `json:"total_violations" yaml:"total_violations"`
	FileViolations    int            `json:"file_violations" yaml:"file_violations"`
	ProjectViolations int            `json:"project_violations" yaml:"project_violations"`
	MissingTypes      int            `json:"missing_types" yaml:"missing_types"`
	BySeverity        map[string]int `json:"by_severity,omitempty" yaml:"by_severity,omitempty"`
}

// IngestResponse represents the complete ingestion result
type IngestResponse struct {
	Projects []ProjectResult `json:"projects" yaml:"projects"`
	Summary  IngestSummary   `json:"summary" yaml:"summary"`

	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Errors   []string `json:"errors,omitempty" yaml:"errors,omitempty"`

	GeneratedAt string `json:"generated_at" yaml:"generated_at"`
	Version     string `json:"version" yaml:"version"`
}

// CalculateSummary recomputes Summary from Projects
func (r *IngestResponse) CalculateSummary() {
	summary := IngestSummary{BySeverity: map[string]int{}}
	missing := map[string]struct{}{}
	for _, p := range r.Projects {
		summary.ProjectsAnalyzed++
		summary.ReportsParsed += len(p.Reports)
		for _, v := range p.Violations {
			summary.TotalViolations++
			summary.BySeverity[string(v.Severity)]++
			if v.Target.Kind == TargetFile {
				summary.FileViolations++
			} else {
				summary.ProjectViolations++
			}
		}
		for _, id := range p.MissingTypes {
			missing[id] = struct{}{}
		}
	}
	summary.MissingTypes = len(missing)
	r.Summary = summary
}

// OutputFormatter defines the interface for formatting ingestion results
type OutputFormatter interface {
	// Write writes the formatted response to the writer
	Write(response *IngestResponse, format OutputFormat, writer io.Writer) error

	// WriteRules writes a rule listing to the writer
	WriteRules(rules []Rule, format OutputFormat, writer io.Writer) error
}

// ConfigurationLoader defines the interface for loading configuration
type ConfigurationLoader interface {
	// LoadConfig loads configuration from the specified path
	LoadConfig(path string) (*IngestRequest, error)

	// LoadDefaultConfig loads the default configuration
	LoadDefaultConfig() *IngestRequest

	// MergeConfig merges CLI flags with configuration file
	MergeConfig(base *IngestRequest, override *IngestRequest) *IngestRequest
}

// IngestService turns the reports of a solution into violations
type IngestService interface {
	Ingest(ctx context.Context, req *IngestRequest) (*IngestResponse, error)
}
