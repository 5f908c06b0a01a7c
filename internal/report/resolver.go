package report

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ludo-technologies/rsbridge/domain"
	"github.com/ludo-technologies/rsbridge/internal/catalog"
	"github.com/ludo-technologies/rsbridge/internal/workspace"
	"github.com/sirupsen/logrus"
)

// RuleFinder looks up rule records by repository and config key
type RuleFinder interface {
	Find(repositoryKey, configKey string) (domain.Rule, bool)
}

// Resolver turns findings of the project under analysis into violations
type Resolver struct {
	rules           RuleFinder
	repository      string
	solution        *workspace.Solution
	project         workspace.Project
	exclusions      *workspace.Exclusions
	includeAllFiles bool
	logger          logrus.FieldLogger
}

// Lookup resolves an issue type id to its rule
func (r *Resolver) Lookup(typeID string) (domain.Rule, bool) {
	configKey := catalog.ConfigKey(typeID)
	r.logger.Debugf("Searching for rule '%s' in repository '%s'", configKey, r.repository)
	return r.rules.Find(r.repository, configKey)
}

// Attach builds the violation of rule for finding.
//
// The boolean result is false when the finding is dropped because its file
// is excluded or belongs to another project. A file that cannot be represented
// as an analyzable unit is attached to the project instead. Any other failure
// is returned.
func (r *Resolver) Attach(rule domain.Rule, f domain.Finding) (domain.Violation, bool, error) {
	source := r.solution.Resolve(f.File)

	if r.exclusions.IsExcluded(source) {
		r.logger.Debugf("File is marked as excluded, so not reporting violation: %s", f.File)
		return domain.Violation{}, false, nil
	}

	inProject := r.project.Contains(source)
	if !r.includeAllFiles && !inProject {
		r.logger.Debugf("Violation not being saved for file outside project %s: %s", r.project.Name, f.File)
		return domain.Violation{}, false, nil
	}

	v, err := r.attachToFile(rule, f, source, inProject)
	if err == nil {
		return v, true, nil
	}
	if !errors.Is(err, workspace.ErrNotRepresentable) && !errors.Is(err, errBadLine) {
		return domain.Violation{}, false, err
	}

	r.logger.WithError(err).Warnf("Violation could not be saved against file, associating to project %s instead: %s", r.project.Name, source)
	message := f.Message + fileAnnotation(source, f)
	return domain.NewViolation(rule, domain.ProjectTarget(r.project.Name), strings.TrimSpace(message)), true, nil
}

var errBadLine = errors.New("invalid line number")

func (r *Resolver) attachToFile(rule domain.Rule, f domain.Finding, source string, inProject bool) (domain.Violation, error) {
	unit, err := r.solution.FileUnit(source)
	if err != nil {
		return domain.Violation{}, err
	}

	var line *int
	if f.HasLine() {
		n, err := f.LineNumber()
		if err != nil || n < 1 {
			return domain.Violation{}, fmt.Errorf("%w %q for %s", errBadLine, f.Line, f.File)
		}
		line = &n
	}

	message := f.Message
	if !inProject {
		message += fileAnnotation(source, f)
	}

	return domain.NewViolation(rule, domain.FileTarget(r.project.Name, unit, line), strings.TrimSpace(message)), nil
}

// fileAnnotation renders " (for file <name>[ line <n>])"
func fileAnnotation(source string, f domain.Finding) string {
	s := " (for file " + filepath.Base(source)
	if f.HasLine() {
		s += " line " + f.Line
	}
	return s + ")"
}

// MissingTypes composes the synthetic violation listing the ids recorded in
// tracker. It returns false when nothing is missing or when the synthetic
// rule is not in the catalog.
func (r *Resolver) MissingTypes(tracker *MissingTypeTracker, registry *IssueTypeRegistry) (domain.Violation, bool) {
	if !tracker.HasMissing() {
		return domain.Violation{}, false
	}

	summary := tracker.Summary(registry)
	r.logger.Warn(summary)

	rule, ok := r.rules.Find(r.repository, catalog.UnknownIssueTypeKey)
	if !ok {
		r.logger.Warnf("Could not find rule for %s", catalog.UnknownIssueTypeKey)
		return domain.Violation{}, false
	}
	return domain.NewViolation(rule, domain.ProjectTarget(r.project.Name), strings.TrimSpace(summary)), true
}
