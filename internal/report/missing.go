package report

import (
	"sort"
	"strings"
)

const missingTypesHeader = "The following IssueTypes are not known to the rule catalog.\n" +
	"Add the following text to the 'custom rules' setting (rules.custom_rules) " +
	"so they are reported on the next run:\n"

// issueTypeNotFound replaces the definition of an id the report never described
const issueTypeNotFound = " -IssueType not found- "

// MissingTypeTracker collects the issue type ids that failed catalog lookup during one run
type MissingTypeTracker struct {
	ids map[string]struct{}
}

// NewMissingTypeTracker creates an empty tracker
func NewMissingTypeTracker() *MissingTypeTracker {
	return &MissingTypeTracker{ids: make(map[string]struct{})}
}

// Record adds typeID to the missing set
func (t *MissingTypeTracker) Record(typeID string) {
	t.ids[typeID] = struct{}{}
}

// HasMissing reports whether any id was recorded
func (t *MissingTypeTracker) HasMissing() bool {
	return t != nil && len(t.ids) > 0
}

// IDs returns the recorded ids in sorted order
func (t *MissingTypeTracker) IDs() []string {
	if t == nil {
		return nil
	}
	ids := make([]string, 0, len(t.ids))
	for id := range t.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Summary composes the operator-facing text listing every missing id, using
// the registry definitions when the report described them.
func (t *MissingTypeTracker) Summary(registry *IssueTypeRegistry) string {
	var b strings.Builder
	b.WriteString(missingTypesHeader)
	for _, id := range t.IDs() {
		if entry, ok := registry.Lookup(id); ok {
			b.WriteString(entry.Tag())
			b.WriteString("\n")
		} else {
			b.WriteString(id)
			b.WriteString(issueTypeNotFound)
			b.WriteString("\n")
		}
	}
	return b.String()
}
