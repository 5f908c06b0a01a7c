package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ludo-technologies/rsbridge/internal/constants"
	"github.com/spf13/viper"
)

// Default runner settings
const (
	// DefaultReportFileName is the report InspectCode writes, and the one reused when no report_path is set
	DefaultReportFileName = "resharper-report.xml"

	// DefaultTimeoutMinutes bounds one analyzer execution
	DefaultTimeoutMinutes = 20

	// DefaultLanguage selects the C# rule repository
	DefaultLanguage = "cs"
)

// Execution modes
const (
	ModeReuseReport = "reuse_report"
	ModeRun         = "run"
	ModeSkip        = "skip"
)

// EnvPrefix is the prefix of environment variable overrides (RSBRIDGE_ANALYSIS_SOLUTION, ...)
const EnvPrefix = constants.EnvVarPrefix

// Config represents the main configuration structure
type Config struct {
	// Analysis holds the solution and project selection
	Analysis AnalysisConfig `json:"analysis" mapstructure:"analysis" yaml:"analysis"`

	// Rules holds custom rule definitions
	Rules RulesConfig `json:"rules" mapstructure:"rules" yaml:"rules"`

	// Runner holds the analyzer execution settings
	Runner RunnerConfig `json:"runner" mapstructure:"runner" yaml:"runner"`

	// Output holds output formatting configuration
	Output OutputConfig `json:"output" mapstructure:"output" yaml:"output"`

	// Performance holds concurrency settings
	Performance PerformanceConfig `json:"performance" mapstructure:"performance" yaml:"performance"`

	// Logging holds logger settings
	Logging LoggingConfig `json:"logging" mapstructure:"logging" yaml:"logging"`
}

// AnalysisConfig holds general analysis configuration
type AnalysisConfig struct {
	// Solution is the .sln file; report paths are relative to its directory
	Solution string `json:"solution" mapstructure:"solution" yaml:"solution"`

	// Projects restricts the analysis to these project names (empty = every project)
	Projects []string `json:"projects" mapstructure:"projects" yaml:"projects"`

	// Language selects the rule repository: cs or vbnet
	Language string `json:"language" mapstructure:"language" yaml:"language"`

	// IncludeAllFiles keeps findings in files that belong to another project
	IncludeAllFiles bool `json:"include_all_files" mapstructure:"include_all_files" yaml:"include_all_files"`

	// SourceCharset is the encoding of the report (empty = use the XML declaration)
	SourceCharset string `json:"source_charset" mapstructure:"source_charset" yaml:"source_charset"`

	// ExcludePatterns are gitignore-style patterns relative to the solution directory
	ExcludePatterns []string `json:"exclude_patterns" mapstructure:"exclude_patterns" yaml:"exclude_patterns"`
}

// RulesConfig holds operator-supplied rule definitions
type RulesConfig struct {
	// CustomRules is a fragment of <IssueType .../> elements
	CustomRules string `json:"custom_rules" mapstructure:"custom_rules" yaml:"custom_rules"`

	// CustomRulesFile points to a file holding such a fragment
	CustomRulesFile string `json:"custom_rules_file" mapstructure:"custom_rules_file" yaml:"custom_rules_file"`
}

// RunnerConfig holds the InspectCode execution settings
type RunnerConfig struct {
	// Mode is reuse_report, run or skip
	Mode string `json:"mode" mapstructure:"mode" yaml:"mode"`

	// InstallDir is the directory holding inspectcode.exe / inspectcode.sh
	InstallDir string `json:"install_dir" mapstructure:"install_dir" yaml:"install_dir"`

	// ReportPath is the report to reuse (may be a pattern) or the file to generate
	ReportPath string `json:"report_path" mapstructure:"report_path" yaml:"report_path"`

	// SettingsPattern selects the .DotSettings profile passed to the analyzer
	SettingsPattern string `json:"settings_pattern" mapstructure:"settings_pattern" yaml:"settings_pattern"`

	// ExtraArgs are appended to the analyzer command line
	ExtraArgs []string `json:"extra_args" mapstructure:"extra_args" yaml:"extra_args"`

	// TimeoutMinutes bounds each analyzer execution (0 = no limit)
	TimeoutMinutes int `json:"timeout_minutes" mapstructure:"timeout_minutes" yaml:"timeout_minutes"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	// Format specifies the output format: text, json, yaml, html
	Format string `json:"format" mapstructure:"format" yaml:"format"`

	// Directory specifies where generated reports go (empty = solution directory)
	Directory string `json:"directory" mapstructure:"directory" yaml:"directory"`

	// ShowDetails lists every violation instead of the per-project summary
	ShowDetails bool `json:"show_details" mapstructure:"show_details" yaml:"show_details"`
}

// PerformanceConfig holds concurrency settings for multi-project runs
type PerformanceConfig struct {
	// MaxGoroutines bounds the number of projects parsed concurrently (0 = default)
	MaxGoroutines int `json:"max_goroutines" mapstructure:"max_goroutines" yaml:"max_goroutines"`

	// TimeoutSeconds bounds a whole ingestion (0 = default)
	TimeoutSeconds int `json:"timeout_seconds" mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	// Level is a logrus level name: debug, info, warn, error
	Level string `json:"level" mapstructure:"level" yaml:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			Projects:        []string{},
			Language:        DefaultLanguage,
			IncludeAllFiles: false,
			ExcludePatterns: []string{
				"bin/",
				"obj/",
				"packages/",
				"*.Designer.cs",
				"*.g.cs",
			},
		},
		Runner: RunnerConfig{
			Mode:           ModeReuseReport,
			ExtraArgs:      []string{},
			TimeoutMinutes: DefaultTimeoutMinutes,
		},
		Output: OutputConfig{
			Format:      "text",
			ShowDetails: false,
		},
		Performance: PerformanceConfig{
			MaxGoroutines:  4,
			TimeoutSeconds: 300,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from file or returns default config
func LoadConfig(configPath string) (*Config, error) {
	return LoadConfigWithTarget(configPath, "")
}

// LoadConfigWithTarget loads configuration with target path context.
// When configPath is empty the file is discovered from targetPath upward.
func LoadConfigWithTarget(configPath string, targetPath string) (*Config, error) {
	if configPath == "" {
		configPath = findDefaultConfig(targetPath)
	}
	return loadConfigFromFile(configPath)
}

// loadConfigFromFile reads a configuration file (if any) and applies environment overrides
func loadConfigFromFile(configPath string) (*Config, error) {
	// Create a new viper instance to avoid race conditions
	v := viper.New()
	config := DefaultConfig()
	setDefaults(v, config)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Relative paths in a config file are relative to the file
	if configPath != "" {
		config.resolvePaths(filepath.Dir(configPath))
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults registers every key so environment overrides apply without a config file
func setDefaults(v *viper.Viper, c *Config) {
	v.SetDefault("analysis.solution", c.Analysis.Solution)
	v.SetDefault("analysis.projects", c.Analysis.Projects)
	v.SetDefault("analysis.language", c.Analysis.Language)
	v.SetDefault("analysis.include_all_files", c.Analysis.IncludeAllFiles)
	v.SetDefault("analysis.source_charset", c.Analysis.SourceCharset)
	v.SetDefault("analysis.exclude_patterns", c.Analysis.ExcludePatterns)
	v.SetDefault("rules.custom_rules", c.Rules.CustomRules)
	v.SetDefault("rules.custom_rules_file", c.Rules.CustomRulesFile)
	v.SetDefault("runner.mode", c.Runner.Mode)
	v.SetDefault("runner.install_dir", c.Runner.InstallDir)
	v.SetDefault("runner.report_path", c.Runner.ReportPath)
	v.SetDefault("runner.settings_pattern", c.Runner.SettingsPattern)
	v.SetDefault("runner.extra_args", c.Runner.ExtraArgs)
	v.SetDefault("runner.timeout_minutes", c.Runner.TimeoutMinutes)
	v.SetDefault("output.format", c.Output.Format)
	v.SetDefault("output.directory", c.Output.Directory)
	v.SetDefault("output.show_details", c.Output.ShowDetails)
	v.SetDefault("performance.max_goroutines", c.Performance.MaxGoroutines)
	v.SetDefault("performance.timeout_seconds", c.Performance.TimeoutSeconds)
	v.SetDefault("logging.level", c.Logging.Level)
}

func (c *Config) resolvePaths(base string) {
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}
	c.Analysis.Solution = resolve(c.Analysis.Solution)
	c.Rules.CustomRulesFile = resolve(c.Rules.CustomRulesFile)
	c.Runner.InstallDir = resolve(c.Runner.InstallDir)
}

// searchConfigInDirectory searches for configuration files in a specific directory
func searchConfigInDirectory(dir string, candidates []string) string {
	for _, candidate := range candidates {
		path := filepath.Join(dir, candidate)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigFileCandidates lists the discoverable config file names in order of preference
var ConfigFileCandidates = []string{
	constants.ConfigFileName,
	"rsbridge.yml",
	".rsbridge.yaml",
	".rsbridge.yml",
	"rsbridge.json",
	".rsbridge.toml",
}

// findDefaultConfig looks for default configuration files in common locations
// targetPath is the solution file or directory being analyzed
func findDefaultConfig(targetPath string) string {
	candidates := ConfigFileCandidates

	// If targetPath is provided, search from there upward
	if targetPath != "" {
		absPath, err := filepath.Abs(targetPath)
		if err == nil {
			// If it's a file, start from its directory
			info, err := os.Stat(absPath)
			if err == nil && !info.IsDir() {
				absPath = filepath.Dir(absPath)
			}

			// Handle Windows edge cases: volume roots (C:\), UNC paths (\\server\share)
			volume := filepath.VolumeName(absPath)
			for dir := absPath; ; dir = filepath.Dir(dir) {
				if config := searchConfigInDirectory(dir, candidates); config != "" {
					return config
				}

				parent := filepath.Dir(dir)
				if parent == dir ||
					dir == volume ||
					(volume != "" && dir == volume+string(filepath.Separator)) {
					break
				}
			}
		}
	}

	// Fallback to current directory
	if config := searchConfigInDirectory(".", candidates); config != "" {
		return config
	}

	// Check XDG config directory (Linux/Mac standard)
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		if config := searchConfigInDirectory(filepath.Join(xdgConfig, constants.ToolName), candidates); config != "" {
			return config
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		configDir := filepath.Join(home, ".config", constants.ToolName)
		if config := searchConfigInDirectory(configDir, candidates); config != "" {
			return config
		}
	}

	// Check RSBRIDGE_CONFIG environment variable as fallback
	if envConfig := os.Getenv(EnvPrefix + "_CONFIG"); envConfig != "" {
		if _, err := os.Stat(envConfig); err == nil {
			return envConfig
		}
	}

	return ""
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	validLanguages := map[string]bool{
		"cs":    true,
		"vbnet": true,
	}
	if !validLanguages[c.Analysis.Language] {
		return fmt.Errorf("invalid analysis.language '%s', must be one of: cs, vbnet", c.Analysis.Language)
	}

	validModes := map[string]bool{
		ModeReuseReport: true,
		ModeRun:         true,
		ModeSkip:        true,
	}
	if !validModes[c.Runner.Mode] {
		return fmt.Errorf("invalid runner.mode '%s', must be one of: reuse_report, run, skip", c.Runner.Mode)
	}

	if c.Runner.TimeoutMinutes < 0 {
		return fmt.Errorf("runner.timeout_minutes must be >= 0, got %d", c.Runner.TimeoutMinutes)
	}

	validFormats := map[string]bool{
		"text": true,
		"json": true,
		"yaml": true,
		"html": true,
	}
	if !validFormats[c.Output.Format] {
		return fmt.Errorf("invalid output.format '%s', must be one of: text, json, yaml, html", c.Output.Format)
	}

	if c.Performance.MaxGoroutines < 0 {
		return fmt.Errorf("performance.max_goroutines must be >= 0, got %d", c.Performance.MaxGoroutines)
	}
	if c.Performance.TimeoutSeconds < 0 {
		return fmt.Errorf("performance.timeout_seconds must be >= 0, got %d", c.Performance.TimeoutSeconds)
	}

	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if c.Logging.Level != "" && !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("invalid logging.level '%s', must be one of: trace, debug, info, warn, error", c.Logging.Level)
	}

	return nil
}

// ReportPathOrDefault returns the configured report path or the default report file name
func (r *RunnerConfig) ReportPathOrDefault() string {
	if r.ReportPath != "" {
		return r.ReportPath
	}
	return DefaultReportFileName
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(config *Config, path string) error {
	// Create a new viper instance to avoid race conditions
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("analysis", config.Analysis)
	v.Set("rules", config.Rules)
	v.Set("runner", config.Runner)
	v.Set("output", config.Output)
	v.Set("performance", config.Performance)
	v.Set("logging", config.Logging)

	return v.WriteConfig()
}
