package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Severity represents the normalized severity of a rule
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityMajor    Severity = "major"
	SeverityMinor    Severity = "minor"
	SeverityInfo     Severity = "info"
)

// Level returns the severity as an integer for comparison (higher is more severe)
func (s Severity) Level() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityMajor:
		return 3
	case SeverityMinor:
		return 2
	case SeverityInfo:
		return 1
	default:
		return 3
	}
}

// ParseSeverity parses a severity name, case-insensitively
func ParseSeverity(name string) (Severity, error) {
	switch s := Severity(strings.ToLower(strings.TrimSpace(name))); s {
	case SeverityCritical, SeverityMajor, SeverityMinor, SeverityInfo:
		return s, nil
	}
	return "", NewInvalidInputError(fmt.Sprintf("unknown severity %q (must be one of: critical, major, minor, info)", name), nil)
}

// Rule is a known issue type definition from the rule catalog
type Rule struct {
	// Key is the bare issue type id (e.g. "UnusedVariable")
	Key string `json:"key" yaml:"key"`

	// ConfigKey is the composite lookup key "<prefix>#<issue type id>"
	ConfigKey string `json:"config_key" yaml:"config_key"`

	// Repository is the repository the rule belongs to (e.g. "resharper-cs")
	Repository string `json:"repository" yaml:"repository"`

	Name        string   `json:"name" yaml:"name"`
	Category    string   `json:"category,omitempty" yaml:"category,omitempty"`
	CategoryID  string   `json:"category_id,omitempty" yaml:"category_id,omitempty"`
	Severity    Severity `json:"severity" yaml:"severity"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	WikiURL     string   `json:"wiki_url,omitempty" yaml:"wiki_url,omitempty"`
}

// TargetKind tells whether a violation is attached to a file or to a project
type TargetKind string

const (
	TargetFile    TargetKind = "file"
	TargetProject TargetKind = "project"
)

// Target is the resource a violation is attached to
type Target struct {
	Kind TargetKind `json:"kind" yaml:"kind"`

	// Path is the file path relative to the solution directory (file targets only)
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// Line is the 1-based line number, nil when the finding carried none
	Line *int `json:"line,omitempty" yaml:"line,omitempty"`

	// Project is the name of the project under analysis
	Project string `json:"project" yaml:"project"`
}

// FileTarget creates a file-level target
func FileTarget(project, path string, line *int) Target {
	return Target{Kind: TargetFile, Path: path, Line: line, Project: project}
}

// ProjectTarget creates a project-level target
func ProjectTarget(project string) Target {
	return Target{Kind: TargetProject, Project: project}
}

// Location renders the target as path:line, path or the project name
func (t Target) Location() string {
	if t.Kind == TargetProject {
		return t.Project
	}
	if t.Line != nil {
		return fmt.Sprintf("%s:%d", t.Path, *t.Line)
	}
	return t.Path
}

// Violation is a normalized, sink-ready record of one accepted finding
type Violation struct {
	RuleKey   string   `json:"rule_key" yaml:"rule_key"`
	ConfigKey string   `json:"config_key" yaml:"config_key"`
	Severity  Severity `json:"severity" yaml:"severity"`
	Message   string   `json:"message" yaml:"message"`
	Target    Target   `json:"target" yaml:"target"`
}

// NewViolation creates a violation of rule against target
func NewViolation(rule Rule, target Target, message string) Violation {
	return Violation{
		RuleKey:   rule.Key,
		ConfigKey: rule.ConfigKey,
		Severity:  rule.Severity,
		Message:   message,
		Target:    target,
	}
}

// Finding is one reported issue inside a report
type Finding struct {
	TypeID  string
	File    string
	Line    string // raw attribute value
	Message string

	// LinePresent is set when the Line attribute exists, even if empty
	LinePresent bool
}

// HasLine reports whether the finding carried a Line attribute
func (f Finding) HasLine() bool {
	return f.LinePresent || f.Line != ""
}

// LineNumber parses the Line attribute
func (f Finding) LineNumber() (int, error) {
	return strconv.Atoi(f.Line)
}

// ViolationSink accepts finished violations
type ViolationSink interface {
	Save(v Violation)
}

// ViolationSinkFunc adapts a function to ViolationSink
type ViolationSinkFunc func(v Violation)

// Save calls f(v)
func (f ViolationSinkFunc) Save(v Violation) {
	f(v)
}

// Invocation describes a command line for the external analyzer
type Invocation struct {
	Executable string   `json:"executable" yaml:"executable"`
	Args       []string `json:"args" yaml:"args"`
}
