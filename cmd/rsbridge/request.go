package main

import (
	"github.com/ludo-technologies/rsbridge/domain"
	"github.com/ludo-technologies/rsbridge/internal/config"
	"github.com/ludo-technologies/rsbridge/internal/logging"
	"github.com/ludo-technologies/rsbridge/service"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// requestFlags are the flags shared by the commands that ingest reports
type requestFlags struct {
	projects        []string
	reports         []string
	mode            string
	language        string
	format          string
	jsonOutput      bool
	includeAllFiles bool
	charset         string
	excludes        []string
	installDir      string
	outputDir       string
	customRules     string
	maxConcurrency  int
}

func (f *requestFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&f.projects, "project", "p", nil,
		"Projects to analyze (default: every project of the solution)")
	cmd.Flags().StringSliceVarP(&f.reports, "report", "r", nil,
		"Report files to parse, relative to the solution directory (overrides runner.report_path)")
	cmd.Flags().StringVarP(&f.mode, "mode", "m", "",
		"Execution mode: reuse_report, run, skip")
	cmd.Flags().StringVarP(&f.language, "language", "l", "",
		"Rule repository language: cs, vbnet")
	cmd.Flags().StringVarP(&f.format, "format", "f", "",
		"Output format: text, json, yaml, html")
	cmd.Flags().BoolVar(&f.jsonOutput, "json", false,
		"Output results as JSON (shorthand for --format json)")
	cmd.Flags().BoolVar(&f.includeAllFiles, "include-all-files", false,
		"Keep findings in files of other projects")
	cmd.Flags().StringVar(&f.charset, "charset", "",
		"Encoding of the reports (default: the XML declaration)")
	cmd.Flags().StringSliceVarP(&f.excludes, "exclude", "e", nil,
		"Additional exclude patterns, relative to the solution directory")
	cmd.Flags().StringVar(&f.installDir, "install-dir", "",
		"Directory holding the InspectCode executable (run mode)")
	cmd.Flags().StringVarP(&f.outputDir, "output-dir", "o", "",
		"Directory for generated reports (run mode)")
	cmd.Flags().StringVar(&f.customRules, "custom-rules", "",
		"File holding additional <IssueType .../> definitions")
	cmd.Flags().IntVar(&f.maxConcurrency, "max-concurrency", 0,
		"Number of projects ingested concurrently")
}

// load merges the discovered configuration with the flags and builds the
// logger. The request is validated when validate is set.
func (f *requestFlags) load(cmd *cobra.Command, args []string, validate bool) (*domain.IngestRequest, *logrus.Logger, error) {
	solution := ""
	if len(args) > 0 {
		solution = args[0]
	}
	configPath := flagString(cmd, "config")

	cfg, err := config.LoadConfigWithTarget(configPath, solution)
	if err != nil {
		return nil, nil, domain.NewConfigError("failed to load configuration", err)
	}

	logger, err := logging.New(logging.Options{
		Level:   cfg.Logging.Level,
		Verbose: flagBool(cmd, "verbose"),
		Quiet:   flagBool(cmd, "quiet"),
		Output:  cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, nil, domain.NewConfigError("invalid logging configuration", err)
	}

	loader := service.NewConfigurationLoader()
	base := loader.FromConfig(cfg)

	format := f.format
	if f.jsonOutput {
		format = string(domain.OutputFormatJSON)
	}
	override := &domain.IngestRequest{
		SolutionPath:    solution,
		Projects:        f.projects,
		Language:        f.language,
		IncludeAllFiles: f.includeAllFiles,
		SourceCharset:   f.charset,
		ExcludePatterns: f.excludes,
		Mode:            domain.ExecutionMode(f.mode),
		ReportPaths:     f.reports,
		InstallDir:      f.installDir,
		CustomRulesFile: f.customRules,
		OutputFormat:    domain.OutputFormat(format),
		OutputWriter:    cmd.OutOrStdout(),
		OutputDirectory: f.outputDir,
		MaxConcurrency:  f.maxConcurrency,
		ConfigPath:      configPath,
	}
	req := loader.MergeConfig(base, override)

	if validate {
		if err := loader.ValidateConfig(req); err != nil {
			return nil, nil, err
		}
	}

	logger.WithFields(logrus.Fields{
		"solution": req.SolutionPath,
		"mode":     req.Mode,
		"language": req.Language,
	}).Debug("Configuration loaded")

	return req, logger, nil
}

// flagString reads a local or inherited flag, returning "" when it is not defined
func flagString(cmd *cobra.Command, name string) string {
	if cmd.Flags().Lookup(name) == nil {
		return ""
	}
	v, _ := cmd.Flags().GetString(name)
	return v
}

// flagBool reads a local or inherited flag, returning false when it is not defined
func flagBool(cmd *cobra.Command, name string) bool {
	if cmd.Flags().Lookup(name) == nil {
		return false
	}
	v, _ := cmd.Flags().GetBool(name)
	return v
}
