package service

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ludo-technologies/rsbridge/domain"
	"gopkg.in/yaml.v3"
)

// OutputFormatterImpl implements the OutputFormatter interface
type OutputFormatterImpl struct{}

// NewOutputFormatter creates a new output formatter
func NewOutputFormatter() *OutputFormatterImpl {
	return &OutputFormatterImpl{}
}

// WriteJSON writes data as JSON to the writer
func WriteJSON(writer io.Writer, data interface{}) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// WriteYAML writes data as YAML to the writer
func WriteYAML(writer io.Writer, data interface{}) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return err
	}
	return encoder.Close()
}

func unsupportedFormat(format domain.OutputFormat) error {
	return domain.NewInvalidInputError(fmt.Sprintf("unsupported output format: %s", format), nil)
}

// Write writes the ingestion response in the specified format
func (f *OutputFormatterImpl) Write(response *domain.IngestResponse, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatJSON:
		return WriteJSON(writer, response)
	case domain.OutputFormatYAML:
		return WriteYAML(writer, response)
	case domain.OutputFormatHTML:
		return f.WriteHTML(response, writer)
	case domain.OutputFormatText, "":
		return f.writeIngestText(response, writer)
	default:
		return unsupportedFormat(format)
	}
}

// WriteRules writes a rule listing in the specified format
func (f *OutputFormatterImpl) WriteRules(rules []domain.Rule, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatJSON:
		return WriteJSON(writer, rules)
	case domain.OutputFormatYAML:
		return WriteYAML(writer, rules)
	case domain.OutputFormatText, "":
		return f.writeRulesText(rules, writer)
	default:
		return unsupportedFormat(format)
	}
}

// WriteCheck writes a quality gate result in the specified format
func (f *OutputFormatterImpl) WriteCheck(result *domain.CheckResult, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatJSON:
		return WriteJSON(writer, result)
	case domain.OutputFormatYAML:
		return WriteYAML(writer, result)
	case domain.OutputFormatText, "":
		return f.writeCheckText(result, writer)
	default:
		return unsupportedFormat(format)
	}
}

func (f *OutputFormatterImpl) writeIngestText(response *domain.IngestResponse, writer io.Writer) error {
	fmt.Fprintf(writer, "\n=== rsbridge Ingestion Report ===\n")
	fmt.Fprintf(writer, "Generated: %s\n", response.GeneratedAt)
	fmt.Fprintf(writer, "Version: %s\n\n", response.Version)

	s := response.Summary
	fmt.Fprintf(writer, "Summary:\n")
	fmt.Fprintf(writer, "  Projects analyzed: %d\n", s.ProjectsAnalyzed)
	fmt.Fprintf(writer, "  Reports parsed: %d\n", s.ReportsParsed)
	fmt.Fprintf(writer, "  Violations: %d (%d file, %d project)\n", s.TotalViolations, s.FileViolations, s.ProjectViolations)
	if s.MissingTypes > 0 {
		fmt.Fprintf(writer, "  Unknown issue types: %d\n", s.MissingTypes)
	}
	if len(s.BySeverity) > 0 {
		fmt.Fprintf(writer, "\nSeverity Distribution:\n")
		for _, sev := range []domain.Severity{domain.SeverityCritical, domain.SeverityMajor, domain.SeverityMinor, domain.SeverityInfo} {
			if n := s.BySeverity[string(sev)]; n > 0 {
				fmt.Fprintf(writer, "  %s: %d\n", strings.ToUpper(string(sev)), n)
			}
		}
	}

	for _, p := range response.Projects {
		fmt.Fprintf(writer, "\n%s:\n", p.Name)
		if len(p.Violations) == 0 {
			fmt.Fprintf(writer, "  No violations found.\n")
			continue
		}
		for _, v := range p.Violations {
			fmt.Fprintf(writer, "  %s [%s] %s: %s\n", v.Target.Location(), strings.ToUpper(string(v.Severity)), v.RuleKey, firstLine(v.Message))
		}
	}

	if len(response.Warnings) > 0 {
		fmt.Fprintf(writer, "\nWarnings:\n")
		for _, w := range response.Warnings {
			fmt.Fprintf(writer, "  - %s\n", w)
		}
	}
	if len(response.Errors) > 0 {
		fmt.Fprintf(writer, "\nErrors:\n")
		for _, e := range response.Errors {
			fmt.Fprintf(writer, "  - %s\n", e)
		}
	}
	return nil
}

func (f *OutputFormatterImpl) writeRulesText(rules []domain.Rule, writer io.Writer) error {
	sorted := make([]domain.Rule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Repository != sorted[j].Repository {
			return sorted[i].Repository < sorted[j].Repository
		}
		return sorted[i].Key < sorted[j].Key
	})

	repository := ""
	for _, r := range sorted {
		if r.Repository != repository {
			repository = r.Repository
			fmt.Fprintf(writer, "%s:\n", repository)
		}
		fmt.Fprintf(writer, "  %-48s %-8s %s\n", r.Key, r.Severity, r.Name)
	}
	fmt.Fprintf(writer, "\n%d rules\n", len(sorted))
	return nil
}

func (f *OutputFormatterImpl) writeCheckText(result *domain.CheckResult, writer io.Writer) error {
	for _, v := range result.Violations {
		fmt.Fprintf(writer, "%s [%s] %s: %s\n", v.Location, strings.ToUpper(v.Severity), v.Rule, firstLine(v.Message))
	}
	status := "passed"
	if !result.Passed {
		status = "failed"
	}
	fmt.Fprintf(writer, "\nCheck %s: %d of %d violations at or above %s (%d projects, %d reports)\n",
		status, result.Summary.FailingViolations, result.Summary.TotalViolations, result.Summary.FailOn,
		result.Summary.ProjectsAnalyzed, result.Summary.ReportsParsed)
	return nil
}

// firstLine keeps multi-line messages (the unknown issue type summary) on one row
func firstLine(message string) string {
	if i := strings.IndexByte(message, '\n'); i >= 0 {
		return message[:i] + " ..."
	}
	return message
}
