package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/ludo-technologies/rsbridge/domain"
	"github.com/ludo-technologies/rsbridge/internal/catalog"
	"github.com/ludo-technologies/rsbridge/internal/command"
	"github.com/ludo-technologies/rsbridge/internal/config"
	"github.com/ludo-technologies/rsbridge/internal/report"
	"github.com/ludo-technologies/rsbridge/internal/runner"
	"github.com/ludo-technologies/rsbridge/internal/version"
	"github.com/ludo-technologies/rsbridge/internal/workspace"
	"github.com/sirupsen/logrus"
)

// IngestServiceImpl resolves the reports of every selected project of a
// solution into violations
type IngestServiceImpl struct {
	logger   logrus.FieldLogger
	progress domain.ProgressManager

	// executor launches the analyzer in run mode; nil uses os/exec
	executor runner.CommandExecutor
}

// NewIngestService creates a new ingest service
func NewIngestService(logger logrus.FieldLogger) *IngestServiceImpl {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &IngestServiceImpl{logger: logger}
}

// NewIngestServiceWithProgress creates a new ingest service with progress reporting
func NewIngestServiceWithProgress(logger logrus.FieldLogger, pm domain.ProgressManager) *IngestServiceImpl {
	s := NewIngestService(logger)
	s.progress = pm
	return s
}

// SetCommandExecutor replaces the executor used to launch the analyzer
func (s *IngestServiceImpl) SetCommandExecutor(executor runner.CommandExecutor) {
	s.executor = executor
}

// session is everything shared by the projects of one ingestion
type session struct {
	req        *domain.IngestRequest
	solution   *workspace.Solution
	catalog    *catalog.Catalog
	exclusions *workspace.Exclusions
}

// Ingest runs one ingestion. Any project failing aborts the whole run.
func (s *IngestServiceImpl) Ingest(ctx context.Context, req *domain.IngestRequest) (*domain.IngestResponse, error) {
	response := &domain.IngestResponse{
		Projects:    []domain.ProjectResult{},
		GeneratedAt: time.Now().Format(time.RFC3339),
		Version:     version.Version,
	}

	if req.Mode == domain.ModeSkip {
		s.logger.Info("Ingestion skipped (runner.mode is skip)")
		response.Warnings = append(response.Warnings, "ingestion skipped: runner mode is skip")
		response.CalculateSummary()
		return response, nil
	}

	sess, projects, err := s.prepare(req)
	if err != nil {
		return nil, err
	}

	tasks := make([]*projectTask, 0, len(projects))
	executable := make([]domain.ExecutableTask, 0, len(projects))
	for _, p := range projects {
		t := &projectTask{service: s, session: sess, project: p}
		tasks = append(tasks, t)
		executable = append(executable, t)
	}

	opts := ExecutorOptions{
		MaxConcurrency: req.MaxConcurrency,
		Timeout:        time.Duration(req.TimeoutSeconds) * time.Second,
		Progress:       s.progress,
	}
	if req.Mode == domain.ModeRun {
		opts.Timeout = runTimeout(req, len(projects))
	}
	executor := NewParallelExecutor(opts)
	if err := executor.Execute(ctx, executable); err != nil {
		if IsTimeout(err) {
			return nil, domain.NewRunnerError(fmt.Sprintf("ingestion did not finish within %s", opts.Timeout), err)
		}
		return nil, err
	}

	for _, t := range tasks {
		response.Projects = append(response.Projects, t.result)
		for _, id := range t.result.MissingTypes {
			response.Warnings = append(response.Warnings,
				fmt.Sprintf("[%s] issue type %s is not in the rule catalog", t.result.Name, id))
		}
	}
	response.CalculateSummary()

	return response, nil
}

// runTimeout leaves every analyzer execution its full time limit, even when run one after another
func runTimeout(req *domain.IngestRequest, projects int) time.Duration {
	if req.TimeoutMinutes <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(req.TimeoutMinutes*projects)*time.Minute + DefaultTimeout
}

// Rules builds the rule catalog described by req
func (s *IngestServiceImpl) Rules(req *domain.IngestRequest) (*catalog.Catalog, error) {
	return catalog.Build(catalog.Options{
		Language:        req.Language,
		CustomRules:     req.CustomRules,
		CustomRulesFile: req.CustomRulesFile,
		Logger:          s.logger,
	})
}

// Commands returns the analyzer invocation of every selected project
func (s *IngestServiceImpl) Commands(req *domain.IngestRequest) ([]domain.Invocation, error) {
	sess, projects, err := s.prepare(req)
	if err != nil {
		return nil, err
	}

	executable, err := runner.LocateExecutable(req.InstallDir)
	if err != nil {
		s.logger.WithError(err).Debug("Analyzer executable not found, using its default name")
		executable = filepath.Join(req.InstallDir, "inspectcode.exe")
	}

	invocations := make([]domain.Invocation, 0, len(projects))
	for _, p := range projects {
		inv, err := s.builder(sess, p, executable).Build()
		if err != nil {
			return nil, err
		}
		invocations = append(invocations, inv)
	}
	return invocations, nil
}

// prepare loads the solution and catalog and selects the projects
func (s *IngestServiceImpl) prepare(req *domain.IngestRequest) (*session, []workspace.Project, error) {
	if req.SolutionPath == "" {
		return nil, nil, domain.NewInvalidInputError("a solution file is required (analysis.solution or the solution argument)", nil)
	}

	sln, err := workspace.LoadSolution(req.SolutionPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, domain.NewNotFoundError(fmt.Sprintf("solution %s not found", req.SolutionPath), err)
		}
		return nil, nil, domain.NewInvalidInputError(fmt.Sprintf("unable to load solution %s", req.SolutionPath), err)
	}

	projects, err := selectProjects(sln, req.Projects)
	if err != nil {
		return nil, nil, err
	}

	rules, err := s.Rules(req)
	if err != nil {
		return nil, nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"solution": sln.File,
		"projects": len(projects),
		"rules":    rules.Len(),
	}).Debug("Prepared ingestion")

	return &session{
		req:        req,
		solution:   sln,
		catalog:    rules,
		exclusions: workspace.NewExclusions(sln.Dir, req.ExcludePatterns),
	}, projects, nil
}

func selectProjects(sln *workspace.Solution, names []string) ([]workspace.Project, error) {
	if len(names) == 0 {
		if len(sln.Projects) == 0 {
			return nil, domain.NewNotFoundError(fmt.Sprintf("solution %s declares no projects", sln.File), nil)
		}
		return sln.Projects, nil
	}

	projects := make([]workspace.Project, 0, len(names))
	for _, name := range names {
		p, ok := sln.Project(name)
		if !ok {
			return nil, domain.NewNotFoundError(
				fmt.Sprintf("project %q is not part of solution %s (known: %v)", name, sln.File, sln.ProjectNames()), nil)
		}
		projects = append(projects, p)
	}
	return projects, nil
}

func (s *IngestServiceImpl) builder(sess *session, p workspace.Project, executable string) command.Builder {
	return command.Builder{
		Executable:      executable,
		Solution:        sess.solution,
		Project:         p,
		SettingsPattern: sess.req.SettingsPattern,
		ReportFile:      generatedReportPath(sess, p),
		ExtraArgs:       sess.req.ExtraArgs,
		Logger:          s.logger,
	}
}

// generatedReportPath is where the analyzer writes the report of p in run mode
func generatedReportPath(sess *session, p workspace.Project) string {
	dir := sess.req.OutputDirectory
	if dir == "" {
		dir = sess.solution.Dir
	}
	name := sess.req.ReportPattern
	if name == "" || filepath.Base(name) != name {
		name = config.DefaultReportFileName
	}
	return filepath.Join(dir, p.Name+"."+name)
}

// projectTask ingests the reports of one project
type projectTask struct {
	service *IngestServiceImpl
	session *session
	project workspace.Project
	result  domain.ProjectResult
}

func (t *projectTask) Name() string {
	return t.project.Name
}

func (t *projectTask) IsEnabled() bool {
	return true
}

func (t *projectTask) Execute(ctx context.Context) (interface{}, error) {
	logger := t.service.logger.WithField("project", t.project.Name)

	reports, err := t.reports(ctx)
	if err != nil {
		return nil, err
	}

	sink := NewCollectingSink()
	var target domain.ViolationSink = sink
	if t.session.req.Sink != nil {
		target = FanOutSink{sink, t.session.req.Sink}
	}
	parser, err := report.NewParser(report.Options{
		Catalog:         t.session.catalog,
		Solution:        t.session.solution,
		Project:         t.project,
		Exclusions:      t.session.exclusions,
		IncludeAllFiles: t.session.req.IncludeAllFiles,
		SourceCharset:   t.session.req.SourceCharset,
		Sink:            target,
		Logger:          logger,
	})
	if err != nil {
		return nil, err
	}

	result := domain.ProjectResult{Name: t.project.Name, Reports: reports}
	missing := map[string]struct{}{}
	for _, path := range reports {
		run, err := parser.Parse(path)
		if err != nil {
			return nil, err
		}
		result.Skipped += run.Dropped
		for _, id := range run.Missing.IDs() {
			if _, seen := missing[id]; !seen {
				missing[id] = struct{}{}
				result.MissingTypes = append(result.MissingTypes, id)
			}
		}
	}
	result.Violations = sink.Violations()

	logger.WithFields(logrus.Fields{
		"reports":    len(reports),
		"violations": len(result.Violations),
	}).Info("Project ingested")

	t.result = result
	return result, nil
}

// reports returns the report files of the project, running the analyzer first in run mode
func (t *projectTask) reports(ctx context.Context) ([]string, error) {
	req := t.session.req

	if req.Mode == domain.ModeRun {
		return t.run(ctx)
	}

	if len(req.ReportPaths) > 0 {
		paths := make([]string, 0, len(req.ReportPaths))
		for _, p := range req.ReportPaths {
			paths = append(paths, t.session.solution.Resolve(p))
		}
		return paths, nil
	}

	pattern := req.ReportPattern
	if pattern == "" {
		pattern = config.DefaultReportFileName
	}
	project := t.project
	found, err := t.session.solution.FindFiles(&project, pattern)
	if err != nil {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("invalid report pattern %q", pattern), err)
	}
	if len(found) == 0 {
		return nil, domain.NewNotFoundError(
			fmt.Sprintf("no InspectCode report matching %q for project %s", pattern, t.project.Name), nil)
	}
	return found, nil
}

func (t *projectTask) run(ctx context.Context) ([]string, error) {
	req := t.session.req

	executable, err := runner.LocateExecutable(req.InstallDir)
	if err != nil {
		return nil, err
	}

	inv, err := t.service.builder(t.session, t.project, executable).Build()
	if err != nil {
		return nil, err
	}

	reportFile := generatedReportPath(t.session, t.project)
	if err := os.MkdirAll(filepath.Dir(reportFile), 0755); err != nil {
		return nil, domain.NewRunnerError(fmt.Sprintf("unable to create report directory for %s", reportFile), err)
	}

	logger := t.service.logger.WithField("project", t.project.Name)
	r := runner.New(req.TimeoutMinutes, logger)
	if t.service.executor != nil {
		r.Executor = t.service.executor
	}

	logger.Info("Launching InspectCode")
	if err := r.Run(ctx, inv); err != nil {
		return nil, err
	}

	reportPath, _ := filepath.Abs(reportFile)
	return []string{reportPath}, nil
}
