// Package command builds the InspectCode command line for one project.
package command

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ludo-technologies/rsbridge/domain"
	"github.com/ludo-technologies/rsbridge/internal/workspace"
	"github.com/sirupsen/logrus"
)

// Builder describes the analyzer invocation for one project of a solution
type Builder struct {
	Executable string
	Solution   *workspace.Solution
	Project    workspace.Project

	// SettingsPattern selects the .DotSettings profile; it may contain wildcards
	// but must match at most one file
	SettingsPattern string

	ReportFile string
	ExtraArgs  []string
	Logger     logrus.FieldLogger
}

// Build returns the invocation. Arguments always come in the order
// /project, /profile (when a settings file matched), /output, extra
// arguments, solution file.
func (b Builder) Build() (domain.Invocation, error) {
	if b.Solution == nil || b.Solution.File == "" {
		return domain.Invocation{}, domain.NewInvalidInputError("solution file is required to build the analyzer command", nil)
	}
	if b.Project.Name == "" {
		return domain.Invocation{}, domain.NewInvalidInputError("project name is required to build the analyzer command", nil)
	}
	if b.ReportFile == "" {
		return domain.Invocation{}, domain.NewInvalidInputError("report file is required to build the analyzer command", nil)
	}

	logger := b.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	logger.Debugf("- Analyzer program          : %s", b.Executable)
	logger.Debugf("- Project name              : %s", b.Project.Name)
	args := []string{"/project=" + b.Project.Name}

	settings, err := b.settingsFile()
	if err != nil {
		return domain.Invocation{}, err
	}
	if settings != "" {
		logger.Debugf("- DotSettings file          : %s", settings)
		args = append(args, "/profile="+settings)
	} else {
		logger.Debug("- DotSettings file          : <not set>")
	}

	report, err := filepath.Abs(b.ReportFile)
	if err != nil {
		return domain.Invocation{}, domain.NewInvalidInputError(fmt.Sprintf("invalid report file %s", b.ReportFile), err)
	}
	logger.Debugf("- Report file               : %s", report)
	args = append(args, "/output="+report)

	for _, a := range b.ExtraArgs {
		if strings.TrimSpace(a) != "" {
			args = append(args, a)
		}
	}
	logger.Debugf("- Additional parameters     : %v", b.ExtraArgs)

	logger.Debugf("- Solution file             : %s", b.Solution.File)
	args = append(args, b.Solution.File)

	return domain.Invocation{Executable: b.Executable, Args: args}, nil
}

// settingsFile resolves SettingsPattern to a single absolute path, or "" when
// no pattern is set or nothing matches
func (b Builder) settingsFile() (string, error) {
	if strings.TrimSpace(b.SettingsPattern) == "" {
		return "", nil
	}

	project := b.Project
	files, err := b.Solution.FindFiles(&project, b.SettingsPattern)
	if err != nil {
		return "", domain.NewInvalidInputError(fmt.Sprintf("invalid settings pattern %q", b.SettingsPattern), err)
	}

	switch len(files) {
	case 0:
		return "", nil
	case 1:
		return files[0], nil
	default:
		return "", domain.NewAmbiguousSettingsError(
			fmt.Sprintf("more than one file matched the settings pattern %q: %s", b.SettingsPattern, strings.Join(files, ", ")), nil)
	}
}
