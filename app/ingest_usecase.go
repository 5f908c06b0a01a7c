package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ludo-technologies/rsbridge/domain"
	"github.com/ludo-technologies/rsbridge/internal/version"
)

// IngestUseCase orchestrates the ingestion workflow: resolve the solution,
// ingest its reports and write the result
type IngestUseCase struct {
	service    domain.IngestService
	formatter  domain.OutputFormatter
	fileHelper *FileHelper
}

// NewIngestUseCase creates a new ingest use case
func NewIngestUseCase(service domain.IngestService, formatter domain.OutputFormatter) *IngestUseCase {
	return &IngestUseCase{
		service:    service,
		formatter:  formatter,
		fileHelper: NewFileHelper(),
	}
}

// Ingest resolves the solution and runs the ingestion without writing output
func (uc *IngestUseCase) Ingest(ctx context.Context, req domain.IngestRequest) (*domain.IngestResponse, error) {
	if req.Mode != domain.ModeSkip {
		solution, err := ResolveSolutionPath(uc.fileHelper, req.SolutionPath)
		if err != nil {
			return nil, err
		}
		req.SolutionPath = solution
	}

	return uc.service.Ingest(ctx, &req)
}

// Execute ingests and writes the response to req.OutputWriter (stdout when nil)
func (uc *IngestUseCase) Execute(ctx context.Context, req domain.IngestRequest) (*domain.IngestResponse, error) {
	response, err := uc.Ingest(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := uc.formatter.Write(response, req.OutputFormat, writerOrStdout(req.OutputWriter)); err != nil {
		return nil, fmt.Errorf("failed to write output: %w", err)
	}
	return response, nil
}

// Check ingests and evaluates the violations against failOn
func (uc *IngestUseCase) Check(ctx context.Context, req domain.IngestRequest, failOn domain.Severity) (*domain.CheckResult, error) {
	start := time.Now()
	response, err := uc.Ingest(ctx, req)
	if err != nil {
		return nil, err
	}
	result := EvaluateCheck(response, failOn)
	result.Duration = time.Since(start).Milliseconds()
	return result, nil
}

// EvaluateCheck fails when any violation is at or above failOn
func EvaluateCheck(response *domain.IngestResponse, failOn domain.Severity) *domain.CheckResult {
	result := &domain.CheckResult{
		Violations:  []domain.CheckViolation{},
		GeneratedAt: time.Now().Format(time.RFC3339),
		Version:     version.Version,
		Summary: domain.CheckSummary{
			ProjectsAnalyzed: response.Summary.ProjectsAnalyzed,
			ReportsParsed:    response.Summary.ReportsParsed,
			TotalViolations:  response.Summary.TotalViolations,
			MissingTypes:     response.Summary.MissingTypes,
			FailOn:           string(failOn),
		},
	}

	for _, p := range response.Projects {
		for _, v := range p.Violations {
			if v.Severity.Level() < failOn.Level() {
				continue
			}
			result.Violations = append(result.Violations, domain.CheckViolation{
				Project:  p.Name,
				Rule:     v.RuleKey,
				Severity: string(v.Severity),
				Message:  v.Message,
				Location: v.Target.Location(),
			})
		}
	}

	result.Summary.FailingViolations = len(result.Violations)
	result.Passed = len(result.Violations) == 0
	if !result.Passed {
		result.ExitCode = 1
	}
	return result
}

func writerOrStdout(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}

// IngestUseCaseBuilder provides a builder pattern for creating IngestUseCase
type IngestUseCaseBuilder struct {
	service    domain.IngestService
	formatter  domain.OutputFormatter
	fileHelper *FileHelper
}

// NewIngestUseCaseBuilder creates a new builder
func NewIngestUseCaseBuilder() *IngestUseCaseBuilder {
	return &IngestUseCaseBuilder{}
}

// WithService sets the ingest service
func (b *IngestUseCaseBuilder) WithService(service domain.IngestService) *IngestUseCaseBuilder {
	b.service = service
	return b
}

// WithFormatter sets the output formatter
func (b *IngestUseCaseBuilder) WithFormatter(formatter domain.OutputFormatter) *IngestUseCaseBuilder {
	b.formatter = formatter
	return b
}

// WithFileHelper sets the file helper
func (b *IngestUseCaseBuilder) WithFileHelper(fileHelper *FileHelper) *IngestUseCaseBuilder {
	b.fileHelper = fileHelper
	return b
}

// Build creates the IngestUseCase with the configured dependencies
func (b *IngestUseCaseBuilder) Build() (*IngestUseCase, error) {
	if b.service == nil {
		return nil, fmt.Errorf("ingest service is required")
	}
	if b.formatter == nil {
		return nil, fmt.Errorf("output formatter is required")
	}

	uc := &IngestUseCase{
		service:    b.service,
		formatter:  b.formatter,
		fileHelper: b.fileHelper,
	}
	if uc.fileHelper == nil {
		uc.fileHelper = NewFileHelper()
	}
	return uc, nil
}
