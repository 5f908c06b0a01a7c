package config

import (
	"strconv"
	"strings"
)

// Language is the language of the solution's projects
type Language string

const (
	LanguageCSharp Language = "cs"
	LanguageVBNet  Language = "vbnet"
)

// LanguagePreset holds configuration presets for a language
type LanguagePreset struct {
	ExcludePatterns []string
	SettingsPattern string
}

// GetLanguagePresets returns presets for the supported languages
func GetLanguagePresets() map[Language]LanguagePreset {
	return map[Language]LanguagePreset{
		LanguageCSharp: {
			ExcludePatterns: []string{
				"bin/",
				"obj/",
				"packages/",
				"*.Designer.cs",
				"*.g.cs",
				"*.g.i.cs",
			},
			SettingsPattern: "*.sln.DotSettings",
		},
		LanguageVBNet: {
			ExcludePatterns: []string{
				"bin/",
				"obj/",
				"packages/",
				"*.Designer.vb",
				"*.g.vb",
			},
			SettingsPattern: "*.sln.DotSettings",
		},
	}
}

// GetFullConfigTemplate returns the documented config template as YAML
func GetFullConfigTemplate(language Language, mode string) string {
	preset, ok := GetLanguagePresets()[language]
	if !ok {
		language = LanguageCSharp
		preset = GetLanguagePresets()[LanguageCSharp]
	}
	if mode == "" {
		mode = ModeReuseReport
	}

	return `# rsbridge configuration
# Every key can be overridden with an environment variable,
# e.g. RSBRIDGE_ANALYSIS_SOLUTION or RSBRIDGE_RUNNER_MODE.

# ============================================================================
# ANALYSIS
# ============================================================================
analysis:
  # Solution file; report paths are relative to its directory
  solution: ""

  # Projects to analyze (empty = every project of the solution)
  projects: []

  # Rule repository language: cs or vbnet
  language: ` + string(language) + `

  # Keep findings in files that belong to another project.
  # Their messages are annotated with "(for file <name> line <n>)".
  include_all_files: false

  # Encoding of the report (empty = trust the XML declaration)
  source_charset: ""

  # gitignore-style patterns, relative to the solution directory
  exclude_patterns: ` + formatYAMLList(preset.ExcludePatterns) + `

# ============================================================================
# RULES
# ============================================================================
rules:
  # Extra <IssueType .../> definitions, e.g. the ones listed in the
  # unknown issue types violation of a previous run
  custom_rules: ""

  # File holding extra <IssueType .../> definitions
  custom_rules_file: ""

# ============================================================================
# RUNNER
# ============================================================================
runner:
  # reuse_report: parse an existing report
  # run:          launch InspectCode, then parse its report
  # skip:         do nothing
  mode: ` + mode + `

  # Directory holding inspectcode.exe / inspectcode.sh (run mode)
  install_dir: ""

  # Report to reuse (patterns allowed) or to generate
  report_path: ` + DefaultReportFileName + `

  # .DotSettings profile passed to InspectCode (must match at most one file)
  settings_pattern: "` + preset.SettingsPattern + `"

  # Extra InspectCode arguments
  extra_args: []

  # Maximum duration of one InspectCode execution (0 = no limit)
  timeout_minutes: ` + strconv.Itoa(DefaultTimeoutMinutes) + `

# ============================================================================
# OUTPUT
# ============================================================================
output:
  # text, json, yaml or html (html applies to ingest only)
  format: text

  # Directory for generated reports (empty = solution directory)
  directory: ""

  # List every violation
  show_details: true

performance:
  # Projects parsed concurrently
  max_goroutines: 4
  timeout_seconds: 300

logging:
  # trace, debug, info, warn, error
  level: info
`
}

// GetMinimalConfigTemplate returns a minimal config template
func GetMinimalConfigTemplate() string {
	return `# rsbridge configuration (minimal)
analysis:
  solution: ""
  language: cs

runner:
  mode: reuse_report
  report_path: ` + DefaultReportFileName + `
`
}

// formatYAMLList formats a string slice as an indented YAML block list
func formatYAMLList(items []string) string {
	if len(items) == 0 {
		return "[]"
	}

	var sb strings.Builder
	for _, item := range items {
		sb.WriteString("\n    - \"")
		sb.WriteString(item)
		sb.WriteString("\"")
	}
	return sb.String()
}
