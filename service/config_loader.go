package service

import (
	"fmt"

	"github.com/ludo-technologies/rsbridge/domain"
	"github.com/ludo-technologies/rsbridge/internal/config"
)

// ConfigurationLoaderImpl implements the ConfigurationLoader interface
type ConfigurationLoaderImpl struct{}

// NewConfigurationLoader creates a new configuration loader service
func NewConfigurationLoader() *ConfigurationLoaderImpl {
	return &ConfigurationLoaderImpl{}
}

// LoadConfig loads configuration from the specified path
func (c *ConfigurationLoaderImpl) LoadConfig(path string) (*domain.IngestRequest, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration file", err)
	}
	req := c.convertToIngestRequest(cfg)
	req.ConfigPath = path
	return req, nil
}

// LoadConfigForSolution discovers the configuration from the solution directory upward
func (c *ConfigurationLoaderImpl) LoadConfigForSolution(configPath, solutionPath string) (*domain.IngestRequest, error) {
	cfg, err := config.LoadConfigWithTarget(configPath, solutionPath)
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration file", err)
	}
	req := c.convertToIngestRequest(cfg)
	req.ConfigPath = configPath
	return req, nil
}

// LoadDefaultConfig loads the discovered configuration, or the built-in defaults when none is usable
func (c *ConfigurationLoaderImpl) LoadDefaultConfig() *domain.IngestRequest {
	cfg, err := config.LoadConfigWithTarget("", "")
	if err == nil {
		return c.convertToIngestRequest(cfg)
	}
	return c.convertToIngestRequest(config.DefaultConfig())
}

// MergeConfig overlays the values set in override (command-line flags) on base
func (c *ConfigurationLoaderImpl) MergeConfig(base *domain.IngestRequest, override *domain.IngestRequest) *domain.IngestRequest {
	merged := *base

	if override.SolutionPath != "" {
		merged.SolutionPath = override.SolutionPath
	}
	if len(override.Projects) > 0 {
		merged.Projects = override.Projects
	}
	if override.Language != "" {
		merged.Language = override.Language
	}
	if override.IncludeAllFiles {
		merged.IncludeAllFiles = true
	}
	if override.SourceCharset != "" {
		merged.SourceCharset = override.SourceCharset
	}
	if len(override.ExcludePatterns) > 0 {
		merged.ExcludePatterns = append(append([]string{}, base.ExcludePatterns...), override.ExcludePatterns...)
	}

	if override.Mode != "" {
		merged.Mode = override.Mode
	}
	if len(override.ReportPaths) > 0 {
		merged.ReportPaths = override.ReportPaths
	}
	if override.ReportPattern != "" {
		merged.ReportPattern = override.ReportPattern
	}
	if override.InstallDir != "" {
		merged.InstallDir = override.InstallDir
	}
	if override.SettingsPattern != "" {
		merged.SettingsPattern = override.SettingsPattern
	}
	if len(override.ExtraArgs) > 0 {
		merged.ExtraArgs = override.ExtraArgs
	}
	if override.TimeoutMinutes > 0 {
		merged.TimeoutMinutes = override.TimeoutMinutes
	}

	if override.CustomRules != "" {
		merged.CustomRules = override.CustomRules
	}
	if override.CustomRulesFile != "" {
		merged.CustomRulesFile = override.CustomRulesFile
	}

	if override.OutputFormat != "" {
		merged.OutputFormat = override.OutputFormat
	}
	if override.OutputWriter != nil {
		merged.OutputWriter = override.OutputWriter
	}
	if override.OutputDirectory != "" {
		merged.OutputDirectory = override.OutputDirectory
	}
	if override.ShowDetails {
		merged.ShowDetails = true
	}
	if override.Sink != nil {
		merged.Sink = override.Sink
	}

	if override.MaxConcurrency > 0 {
		merged.MaxConcurrency = override.MaxConcurrency
	}
	if override.TimeoutSeconds > 0 {
		merged.TimeoutSeconds = override.TimeoutSeconds
	}

	if override.ConfigPath != "" {
		merged.ConfigPath = override.ConfigPath
	}

	return &merged
}

// FromConfig converts an already loaded configuration
func (c *ConfigurationLoaderImpl) FromConfig(cfg *config.Config) *domain.IngestRequest {
	return c.convertToIngestRequest(cfg)
}

func (c *ConfigurationLoaderImpl) convertToIngestRequest(cfg *config.Config) *domain.IngestRequest {
	return &domain.IngestRequest{
		SolutionPath:    cfg.Analysis.Solution,
		Projects:        cfg.Analysis.Projects,
		Language:        cfg.Analysis.Language,
		IncludeAllFiles: cfg.Analysis.IncludeAllFiles,
		SourceCharset:   cfg.Analysis.SourceCharset,
		ExcludePatterns: cfg.Analysis.ExcludePatterns,

		Mode:            domain.ExecutionMode(cfg.Runner.Mode),
		ReportPattern:   cfg.Runner.ReportPathOrDefault(),
		InstallDir:      cfg.Runner.InstallDir,
		SettingsPattern: cfg.Runner.SettingsPattern,
		ExtraArgs:       cfg.Runner.ExtraArgs,
		TimeoutMinutes:  cfg.Runner.TimeoutMinutes,

		CustomRules:     cfg.Rules.CustomRules,
		CustomRulesFile: cfg.Rules.CustomRulesFile,

		OutputFormat:    domain.OutputFormat(cfg.Output.Format),
		OutputDirectory: cfg.Output.Directory,
		ShowDetails:     cfg.Output.ShowDetails,

		MaxConcurrency: cfg.Performance.MaxGoroutines,
		TimeoutSeconds: cfg.Performance.TimeoutSeconds,
	}
}

// ValidateConfig validates a merged request before it is run
func (c *ConfigurationLoaderImpl) ValidateConfig(req *domain.IngestRequest) error {
	switch req.Language {
	case "cs", "vbnet":
	default:
		return domain.NewInvalidInputError(fmt.Sprintf("invalid language: %s (must be one of: cs, vbnet)", req.Language), nil)
	}

	switch req.Mode {
	case domain.ModeReuseReport, domain.ModeRun, domain.ModeSkip:
	default:
		return domain.NewInvalidInputError(fmt.Sprintf("invalid mode: %s (must be one of: reuse_report, run, skip)", req.Mode), nil)
	}

	if req.Mode != domain.ModeSkip && req.SolutionPath == "" {
		return domain.NewInvalidInputError("a solution file is required (analysis.solution or the solution argument)", nil)
	}

	if req.Mode == domain.ModeRun {
		if req.InstallDir == "" {
			return domain.NewInvalidInputError("runner.install_dir is required in run mode", nil)
		}
		if len(req.ReportPaths) > 0 {
			return domain.NewInvalidInputError("explicit report files cannot be combined with run mode", nil)
		}
	}

	if req.TimeoutMinutes < 0 {
		return domain.NewInvalidInputError(fmt.Sprintf("timeout minutes cannot be negative, got %d", req.TimeoutMinutes), nil)
	}
	if req.MaxConcurrency < 0 {
		return domain.NewInvalidInputError(fmt.Sprintf("max concurrency cannot be negative, got %d", req.MaxConcurrency), nil)
	}

	switch req.OutputFormat {
	case domain.OutputFormatText, domain.OutputFormatJSON, domain.OutputFormatYAML, domain.OutputFormatHTML:
	default:
		return domain.NewInvalidInputError(fmt.Sprintf("invalid output format: %s (must be one of: text, json, yaml, html)", req.OutputFormat), nil)
	}

	return nil
}
