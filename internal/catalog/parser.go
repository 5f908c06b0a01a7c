package catalog

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ludo-technologies/rsbridge/domain"
)

// ParseRules reads IssueType definitions from a rules document.
//
// The document uses the same grammar as the IssueTypes block of an analyzer
// report: <Report><IssueTypes><IssueType Id=".." .../></IssueTypes></Report>.
// IssueType elements outside an IssueTypes block are ignored.
func ParseRules(r io.Reader, repository string) ([]domain.Rule, error) {
	decoder := xml.NewDecoder(r)

	var rules []domain.Rule
	var stack []string

	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse rules: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "IssueType" && len(stack) > 0 && stack[len(stack)-1] == "IssueTypes" {
				rule, err := ruleFromElement(t, repository)
				if err != nil {
					return nil, err
				}
				rules = append(rules, rule)
			}
			stack = append(stack, t.Name.Local)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		}
	}

	return rules, nil
}

func ruleFromElement(el xml.StartElement, repository string) (domain.Rule, error) {
	attrs := make(map[string]string, len(el.Attr))
	for _, a := range el.Attr {
		attrs[a.Name.Local] = a.Value
	}

	id := strings.TrimSpace(attrs["Id"])
	if id == "" {
		return domain.Rule{}, fmt.Errorf("IssueType without Id attribute")
	}

	name := attrs["Description"]
	if name == "" {
		name = id
	}

	return domain.Rule{
		Key:         id,
		ConfigKey:   ConfigKey(id),
		Repository:  repository,
		Name:        name,
		Category:    attrs["Category"],
		CategoryID:  attrs["CategoryId"],
		Severity:    MapSeverity(attrs["Severity"]),
		Description: attrs["Description"],
		WikiURL:     attrs["WikiUrl"],
	}, nil
}

// MapSeverity converts an analyzer severity into a normalized severity
func MapSeverity(severity string) domain.Severity {
	switch strings.ToUpper(strings.TrimSpace(severity)) {
	case "ERROR":
		return domain.SeverityCritical
	case "WARNING":
		return domain.SeverityMajor
	case "SUGGESTION":
		return domain.SeverityMinor
	case "HINT", "DO_NOT_SHOW":
		return domain.SeverityInfo
	default:
		return domain.SeverityMajor
	}
}
