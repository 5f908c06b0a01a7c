package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ludo-technologies/rsbridge/domain"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestBuild_DefaultRules(t *testing.T) {
	cat, err := Build(Options{Language: "cs"})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if cat.Repository() != "resharper-cs" {
		t.Errorf("Expected repository 'resharper-cs', got '%s'", cat.Repository())
	}
	if cat.Len() == 0 {
		t.Fatal("Default catalog should not be empty")
	}

	rule, ok := cat.Find("resharper-cs", ConfigKey("UnusedVariable"))
	if !ok {
		t.Fatal("UnusedVariable should be in the default rules")
	}
	if rule.Severity != domain.SeverityMajor {
		t.Errorf("Expected severity major, got %s", rule.Severity)
	}
	if rule.Name != "Unused local variable" {
		t.Errorf("Unexpected name: %s", rule.Name)
	}

	if _, ok := cat.Find("resharper-cs", UnknownIssueTypeKey); !ok {
		t.Error("Synthetic unknown issue type rule should be in the default rules")
	}
}

func TestBuild_DefaultLanguage(t *testing.T) {
	cat, err := Build(Options{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if cat.Repository() != RepositoryKey("cs") {
		t.Errorf("Expected cs repository by default, got %s", cat.Repository())
	}
}

func TestCatalog_FindWrongRepository(t *testing.T) {
	cat, err := Build(Options{Language: "vbnet"})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if _, ok := cat.Find("resharper-cs", ConfigKey("UnusedVariable")); ok {
		t.Error("Find should not match a different repository")
	}
	if _, ok := cat.Find("resharper-vbnet", ConfigKey("UnusedVariable")); !ok {
		t.Error("Find should match the catalog repository")
	}
}

func TestBuild_CustomRules(t *testing.T) {
	custom := `<IssueType Id="MyCustomRule" Category="Custom" Description="Custom rule" Severity="ERROR" />`

	cat, err := Build(Options{Language: "cs", CustomRules: custom})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	rule, ok := cat.Find("resharper-cs", ConfigKey("MyCustomRule"))
	if !ok {
		t.Fatal("Custom rule should be found")
	}
	if rule.Severity != domain.SeverityCritical {
		t.Errorf("Expected critical severity, got %s", rule.Severity)
	}
}

func TestBuild_MalformedCustomRulesKeepDefaults(t *testing.T) {
	logger, hook := test.NewNullLogger()

	cat, err := Build(Options{
		Language:    "cs",
		CustomRules: `<IssueType Id="Broken" `,
		Logger:      logger,
	})
	if err != nil {
		t.Fatalf("Malformed custom rules must not fail the build: %v", err)
	}

	if _, ok := cat.Find("resharper-cs", ConfigKey("UnusedVariable")); !ok {
		t.Error("Default rules should still be usable")
	}
	if _, ok := cat.Find("resharper-cs", ConfigKey("Broken")); ok {
		t.Error("Broken custom rule should not be registered")
	}

	entry := hook.LastEntry()
	if entry == nil || entry.Level != logrus.WarnLevel {
		t.Fatal("Expected a warning for malformed custom rules")
	}
	if !strings.Contains(entry.Message, "custom rules") {
		t.Errorf("Unexpected log message: %s", entry.Message)
	}
}

func TestBuild_CustomRulesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.xml")
	content := `<IssueType Id="FromFile" Severity="HINT" />`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write custom rules: %v", err)
	}

	cat, err := Build(Options{Language: "cs", CustomRulesFile: path})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	rule, ok := cat.Find("resharper-cs", ConfigKey("FromFile"))
	if !ok {
		t.Fatal("Rule from file should be found")
	}
	if rule.Name != "FromFile" {
		t.Errorf("Name should fall back to the id, got %s", rule.Name)
	}
	if rule.Severity != domain.SeverityInfo {
		t.Errorf("Expected info severity, got %s", rule.Severity)
	}
}

func TestBuild_MissingCustomRulesFile(t *testing.T) {
	logger, hook := test.NewNullLogger()

	cat, err := Build(Options{Language: "cs", CustomRulesFile: "/nonexistent/rules.xml", Logger: logger})
	if err != nil {
		t.Fatalf("Missing custom rules file must not fail the build: %v", err)
	}
	if cat.Len() == 0 {
		t.Error("Default rules should be loaded")
	}
	if len(hook.AllEntries()) == 0 {
		t.Error("Expected a warning to be logged")
	}
}

func TestCatalog_DuplicateKeysFirstWins(t *testing.T) {
	rules := []domain.Rule{
		{Key: "Dup", ConfigKey: ConfigKey("Dup"), Name: "first"},
		{Key: "Dup", ConfigKey: ConfigKey("Dup"), Name: "second"},
	}
	cat := New("resharper-cs", rules)

	if cat.Len() != 2 {
		t.Errorf("Duplicates should coexist, got %d rules", cat.Len())
	}
	rule, ok := cat.Find("resharper-cs", ConfigKey("Dup"))
	if !ok {
		t.Fatal("Dup should be found")
	}
	if rule.Name != "first" {
		t.Errorf("Lookup should return the first definition, got %s", rule.Name)
	}
}

func TestCatalog_RulesReturnsCopy(t *testing.T) {
	cat := New("resharper-cs", []domain.Rule{{Key: "A", ConfigKey: ConfigKey("A"), Name: "a"}})

	rules := cat.Rules()
	rules[0].Name = "mutated"

	rule, _ := cat.Find("resharper-cs", ConfigKey("A"))
	if rule.Name != "a" {
		t.Error("Mutating Rules() result should not affect the catalog")
	}
}

func TestCatalog_NilFind(t *testing.T) {
	var cat *Catalog
	if _, ok := cat.Find("resharper-cs", ConfigKey("A")); ok {
		t.Error("nil catalog should find nothing")
	}
}

func TestParseRules_IgnoresIssueTypeOutsideBlock(t *testing.T) {
	doc := `<Report><IssueType Id="Stray" /><IssueTypes><IssueType Id="Kept" /></IssueTypes></Report>`

	rules, err := ParseRules(strings.NewReader(doc), "resharper-cs")
	if err != nil {
		t.Fatalf("ParseRules failed: %v", err)
	}
	if len(rules) != 1 || rules[0].Key != "Kept" {
		t.Errorf("Expected only 'Kept', got %+v", rules)
	}
}

func TestParseRules_MissingID(t *testing.T) {
	doc := WrapCustomRules(`<IssueType Category="x" />`)
	if _, err := ParseRules(strings.NewReader(doc), "resharper-cs"); err == nil {
		t.Error("Expected error for IssueType without Id")
	}
}

func TestMapSeverity(t *testing.T) {
	tests := []struct {
		input    string
		expected domain.Severity
	}{
		{"ERROR", domain.SeverityCritical},
		{"WARNING", domain.SeverityMajor},
		{"SUGGESTION", domain.SeverityMinor},
		{"HINT", domain.SeverityInfo},
		{"DO_NOT_SHOW", domain.SeverityInfo},
		{"warning", domain.SeverityMajor},
		{"", domain.SeverityMajor},
	}

	for _, tt := range tests {
		if got := MapSeverity(tt.input); got != tt.expected {
			t.Errorf("MapSeverity(%q) = %s, expected %s", tt.input, got, tt.expected)
		}
	}
}
