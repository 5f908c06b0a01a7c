package service

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ludo-technologies/rsbridge/domain"
)

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	if err := NewOutputFormatter().Write(sampleResponse(), domain.OutputFormatHTML, &buf); err != nil {
		t.Fatalf("Write html failed: %v", err)
	}
	output := buf.String()

	for _, want := range []string{
		"<!DOCTYPE html>",
		"<title>rsbridge Ingestion Report</title>",
		"<h2>Core</h2>",
		"Core/Class1.cs:12",
		`class="target-project">Core</td>`,
		"UnusedVariable",
		"Local variable &#39;x&#39; is never used",
		"The following IssueTypes are not known to the rule catalog. ...",
		"No violations found",
		"unknown issue type CustomType",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected HTML to contain %q", want)
		}
	}
}

func TestWriteHTML_EscapesMessages(t *testing.T) {
	response := &domain.IngestResponse{
		Projects: []domain.ProjectResult{{
			Name: "Core",
			Violations: []domain.Violation{{
				RuleKey:  "Custom",
				Severity: domain.SeverityMajor,
				Message:  "<script>alert(1)</script>",
				Target:   domain.ProjectTarget("Core"),
			}},
		}},
	}
	response.CalculateSummary()

	var buf bytes.Buffer
	if err := NewOutputFormatter().WriteHTML(response, &buf); err != nil {
		t.Fatalf("WriteHTML failed: %v", err)
	}
	if strings.Contains(buf.String(), "<script>alert(1)</script>") {
		t.Error("messages must be escaped")
	}
	if !strings.Contains(buf.String(), "&lt;script&gt;") {
		t.Error("expected the escaped message")
	}
}

func TestWriteRules_HTMLUnsupported(t *testing.T) {
	var buf bytes.Buffer
	err := NewOutputFormatter().WriteRules(nil, domain.OutputFormatHTML, &buf)
	if !domain.HasCode(err, domain.ErrCodeInvalidInput) {
		t.Errorf("Expected INVALID_INPUT for html rules, got %v", err)
	}
}
