package report

import (
	"encoding/xml"
	"strings"
)

// IssueTypeEntry is the verbatim attribute set of one IssueType element
type IssueTypeEntry struct {
	ID         string
	Attributes []xml.Attr
}

// Tag renders the entry as a self-closing IssueType element in document attribute order
func (e IssueTypeEntry) Tag() string {
	var b strings.Builder
	b.WriteString("<IssueType")
	for _, attr := range e.Attributes {
		b.WriteByte(' ')
		b.WriteString(attr.Name.Local)
		b.WriteString(`="`)
		_ = xml.EscapeText(&b, []byte(attr.Value))
		b.WriteByte('"')
	}
	b.WriteString(" />")
	return b.String()
}

// IssueTypeRegistry caches the IssueType metadata seen during one parse run
type IssueTypeRegistry struct {
	entries map[string]IssueTypeEntry
}

// NewIssueTypeRegistry creates an empty registry
func NewIssueTypeRegistry() *IssueTypeRegistry {
	return &IssueTypeRegistry{entries: make(map[string]IssueTypeEntry)}
}

// Add stores the attributes of an IssueType element under its Id attribute.
// Elements without an Id are ignored. A later definition replaces an earlier one.
func (r *IssueTypeRegistry) Add(attrs []xml.Attr) {
	id := attrValue(attrs, "Id")
	if id == "" {
		return
	}
	copied := make([]xml.Attr, len(attrs))
	copy(copied, attrs)
	r.entries[id] = IssueTypeEntry{ID: id, Attributes: copied}
}

// Lookup returns the entry registered for id
func (r *IssueTypeRegistry) Lookup(id string) (IssueTypeEntry, bool) {
	if r == nil {
		return IssueTypeEntry{}, false
	}
	e, ok := r.entries[id]
	return e, ok
}

// Len returns the number of registered issue types
func (r *IssueTypeRegistry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.entries)
}

func attrValue(attrs []xml.Attr, name string) string {
	v, _ := lookupAttr(attrs, name)
	return v
}

func lookupAttr(attrs []xml.Attr, name string) (string, bool) {
	for _, a := range attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}
