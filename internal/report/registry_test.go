package report

import (
	"encoding/xml"
	"strings"
	"testing"
)

func attrs(pairs ...string) []xml.Attr {
	out := make([]xml.Attr, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, xml.Attr{Name: xml.Name{Local: pairs[i]}, Value: pairs[i+1]})
	}
	return out
}

func TestIssueTypeRegistry(t *testing.T) {
	reg := NewIssueTypeRegistry()
	reg.Add(attrs("Id", "A", "Severity", "WARNING"))
	reg.Add(attrs("Severity", "ERROR"))
	reg.Add(attrs("Id", "B", "Description", `Use "var" <here>`))

	if reg.Len() != 2 {
		t.Errorf("Expected 2 entries (entry without Id ignored), got %d", reg.Len())
	}

	a, ok := reg.Lookup("A")
	if !ok {
		t.Fatal("Expected entry A")
	}
	if got := a.Tag(); got != `<IssueType Id="A" Severity="WARNING" />` {
		t.Errorf("Unexpected tag: %s", got)
	}

	b, _ := reg.Lookup("B")
	if got := b.Tag(); got != `<IssueType Id="B" Description="Use &#34;var&#34; &lt;here&gt;" />` {
		t.Errorf("Unexpected escaped tag: %s", got)
	}

	reg.Add(attrs("Id", "A", "Severity", "HINT"))
	a, _ = reg.Lookup("A")
	if !strings.Contains(a.Tag(), "HINT") {
		t.Errorf("Expected later definition to replace earlier one, got %s", a.Tag())
	}

	var none *IssueTypeRegistry
	if _, ok := none.Lookup("A"); ok || none.Len() != 0 {
		t.Error("nil registry should be empty")
	}
}

func TestMissingTypeTracker(t *testing.T) {
	tracker := NewMissingTypeTracker()
	if tracker.HasMissing() {
		t.Error("New tracker should have nothing missing")
	}

	tracker.Record("Zeta")
	tracker.Record("Alpha")
	tracker.Record("Zeta")

	if !tracker.HasMissing() {
		t.Error("Expected missing ids")
	}
	ids := tracker.IDs()
	if len(ids) != 2 || ids[0] != "Alpha" || ids[1] != "Zeta" {
		t.Errorf("Expected sorted unique ids, got %v", ids)
	}

	reg := NewIssueTypeRegistry()
	reg.Add(attrs("Id", "Zeta", "Category", "Misc"))

	summary := tracker.Summary(reg)
	if !strings.HasPrefix(summary, missingTypesHeader) {
		t.Errorf("Summary should start with the header:\n%s", summary)
	}
	if !strings.Contains(summary, "Alpha"+issueTypeNotFound) {
		t.Errorf("Expected placeholder for Alpha:\n%s", summary)
	}
	if !strings.Contains(summary, `<IssueType Id="Zeta" Category="Misc" />`+"\n") {
		t.Errorf("Expected Zeta definition:\n%s", summary)
	}

	var none *MissingTypeTracker
	if none.HasMissing() || none.IDs() != nil {
		t.Error("nil tracker should be empty")
	}
}
