// Package catalog holds the rule definitions findings are resolved against.
//
// A Catalog is built once per session from the embedded default rule set plus
// optional operator-supplied custom rules, and is read-only afterwards, so a
// single instance can be shared by concurrent report parsers.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/ludo-technologies/rsbridge/domain"
	"github.com/sirupsen/logrus"
)

const (
	// ConfigKeyPrefix prefixes every rule config key
	ConfigKeyPrefix = "ReSharperInspectCode"

	// UnknownIssueTypeID is the synthetic rule used to report issue types missing from the catalog
	UnknownIssueTypeID = "Sonar.UnknownIssueType"

	// RepositoryPrefix prefixes the per-language repository key
	RepositoryPrefix = "resharper"
)

// DefaultRulesXML contains the embedded default rule set
//
//go:embed rules/default_rules.xml
var DefaultRulesXML string

// ConfigKey returns the composite lookup key for an issue type id
func ConfigKey(typeID string) string {
	return ConfigKeyPrefix + "#" + typeID
}

// UnknownIssueTypeKey is the config key of the synthetic missing-types rule
var UnknownIssueTypeKey = ConfigKey(UnknownIssueTypeID)

// RepositoryKey returns the repository key for a language ("cs", "vbnet")
func RepositoryKey(language string) string {
	return RepositoryPrefix + "-" + language
}

// Catalog maps rule config keys to rule records
type Catalog struct {
	repository string
	rules      []domain.Rule
	index      map[string]int
}

// New creates a catalog from rules. When a config key is defined more than
// once all definitions are kept in Rules, and lookups return the first one.
func New(repository string, rules []domain.Rule) *Catalog {
	c := &Catalog{
		repository: repository,
		rules:      make([]domain.Rule, 0, len(rules)),
		index:      make(map[string]int, len(rules)),
	}
	for _, r := range rules {
		r.Repository = repository
		c.rules = append(c.rules, r)
		if _, exists := c.index[r.ConfigKey]; !exists {
			c.index[r.ConfigKey] = len(c.rules) - 1
		}
	}
	return c
}

// Find returns the rule registered under configKey in repositoryKey
func (c *Catalog) Find(repositoryKey, configKey string) (domain.Rule, bool) {
	if c == nil || repositoryKey != c.repository {
		return domain.Rule{}, false
	}
	i, ok := c.index[configKey]
	if !ok {
		return domain.Rule{}, false
	}
	return c.rules[i], true
}

// Repository returns the repository key of the catalog
func (c *Catalog) Repository() string {
	return c.repository
}

// Rules returns a copy of every rule, in definition order
func (c *Catalog) Rules() []domain.Rule {
	out := make([]domain.Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

// Len returns the number of rule definitions, duplicates included
func (c *Catalog) Len() int {
	return len(c.rules)
}

// Options configures catalog construction
type Options struct {
	// Language selects the repository ("cs" or "vbnet")
	Language string

	// CustomRules is a fragment of <IssueType .../> elements
	CustomRules string

	// CustomRulesFile is a file holding a fragment of <IssueType .../> elements
	CustomRulesFile string

	Logger logrus.FieldLogger
}

// Build creates a catalog from the embedded default rules and the custom
// rules in opts. Custom rules that fail to load are logged and skipped.
func Build(opts Options) (*Catalog, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	language := opts.Language
	if language == "" {
		language = "cs"
	}
	repository := RepositoryKey(language)

	rules, err := ParseRules(strings.NewReader(DefaultRulesXML), repository)
	if err != nil {
		return nil, domain.NewConfigError("failed to load default rules", err)
	}
	logger.WithField("count", len(rules)).Debug("Loaded default rules")

	if strings.TrimSpace(opts.CustomRules) != "" {
		rules = append(rules, parseCustomRules(opts.CustomRules, repository, "inline", logger)...)
	}

	if opts.CustomRulesFile != "" {
		content, err := os.ReadFile(opts.CustomRulesFile)
		if err != nil {
			logger.WithError(err).Warnf("Error reading custom rules file %s", opts.CustomRulesFile)
		} else if len(bytes.TrimSpace(content)) > 0 {
			rules = append(rules, parseCustomRules(string(content), repository, opts.CustomRulesFile, logger)...)
		}
	}

	return New(repository, rules), nil
}

// WrapCustomRules wraps an IssueType fragment in a rules document envelope
func WrapCustomRules(fragment string) string {
	return "<Report><IssueTypes>" + fragment + "</IssueTypes></Report>"
}

func parseCustomRules(fragment, repository, source string, logger logrus.FieldLogger) []domain.Rule {
	rules, err := ParseRules(strings.NewReader(WrapCustomRules(fragment)), repository)
	if err != nil {
		logger.WithError(err).WithField("source", source).Warn("Error parsing custom rules")
		return nil
	}
	logger.WithFields(logrus.Fields{"source": source, "count": len(rules)}).Debug("Loaded custom rules")
	return rules
}

// String implements fmt.Stringer
func (c *Catalog) String() string {
	return fmt.Sprintf("catalog %s (%d rules)", c.repository, len(c.rules))
}
