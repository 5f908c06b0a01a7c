package domain

import (
	"errors"
	"fmt"
	"testing"
)

// Error tests

func TestDomainError_Error(t *testing.T) {
	// Without cause
	err := DomainError{
		Code:    "TEST_ERROR",
		Message: "Test message",
	}
	expected := "[TEST_ERROR] Test message"
	if err.Error() != expected {
		t.Errorf("Expected '%s', got '%s'", expected, err.Error())
	}

	// With cause
	cause := errors.New("underlying error")
	errWithCause := DomainError{
		Code:    "TEST_ERROR",
		Message: "Test message",
		Cause:   cause,
	}
	expectedWithCause := "[TEST_ERROR] Test message: underlying error"
	if errWithCause.Error() != expectedWithCause {
		t.Errorf("Expected '%s', got '%s'", expectedWithCause, errWithCause.Error())
	}
}

func TestDomainError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := DomainError{
		Code:    "TEST_ERROR",
		Message: "Test message",
		Cause:   cause,
	}

	unwrapped := err.Unwrap()
	if unwrapped != cause {
		t.Error("Unwrap should return the cause")
	}

	// Without cause
	errNoCause := DomainError{
		Code:    "TEST_ERROR",
		Message: "Test message",
	}
	if errNoCause.Unwrap() != nil {
		t.Error("Unwrap should return nil when no cause")
	}
}

func TestNewDomainError(t *testing.T) {
	cause := errors.New("cause")
	err := NewDomainError("CODE", "message", cause)

	domainErr, ok := err.(DomainError)
	if !ok {
		t.Fatal("Should return DomainError type")
	}
	if domainErr.Code != "CODE" {
		t.Errorf("Expected code 'CODE', got '%s'", domainErr.Code)
	}
	if domainErr.Message != "message" {
		t.Errorf("Expected message 'message', got '%s'", domainErr.Message)
	}
	if domainErr.Cause != cause {
		t.Error("Cause should be set")
	}
}

func TestNewInvalidInputError(t *testing.T) {
	cause := errors.New("invalid")
	err := NewInvalidInputError("bad input", cause)

	domainErr := err.(DomainError)
	if domainErr.Code != ErrCodeInvalidInput {
		t.Errorf("Expected code '%s', got '%s'", ErrCodeInvalidInput, domainErr.Code)
	}
}

func TestNewReportReadError(t *testing.T) {
	err := NewReportReadError("cannot read report: /tmp/report.xml", nil)

	domainErr := err.(DomainError)
	if domainErr.Code != ErrCodeReportRead {
		t.Errorf("Expected code '%s', got '%s'", ErrCodeReportRead, domainErr.Code)
	}
	if domainErr.Message != "cannot read report: /tmp/report.xml" {
		t.Errorf("Unexpected message: %s", domainErr.Message)
	}
}

func TestErrorConstructors_Codes(t *testing.T) {
	tests := []struct {
		err  error
		code string
	}{
		{NewConfigError("invalid config", nil), ErrCodeConfigError},
		{NewAmbiguousSettingsError("two matches", nil), ErrCodeAmbiguousSettings},
		{NewRunnerError("exit 1", nil), ErrCodeRunner},
		{NewNotFoundError("no report", nil), ErrCodeNotFound},
	}

	for _, tt := range tests {
		domainErr, ok := tt.err.(DomainError)
		if !ok {
			t.Fatalf("Expected DomainError, got %T", tt.err)
		}
		if domainErr.Code != tt.code {
			t.Errorf("Expected code '%s', got '%s'", tt.code, domainErr.Code)
		}
	}
}

func TestHasCode(t *testing.T) {
	inner := NewReportReadError("broken", errors.New("EOF"))
	wrapped := fmt.Errorf("project Core: %w", inner)

	if !HasCode(wrapped, ErrCodeReportRead) {
		t.Error("HasCode should find the code through fmt.Errorf wrapping")
	}
	if HasCode(wrapped, ErrCodeConfigError) {
		t.Error("HasCode should not match a different code")
	}
	if HasCode(errors.New("plain"), ErrCodeReportRead) {
		t.Error("HasCode should be false for plain errors")
	}
	if HasCode(nil, ErrCodeReportRead) {
		t.Error("HasCode should be false for nil")
	}
}

func TestHasCode_JoinedErrors(t *testing.T) {
	joined := errors.Join(errors.New("plain"), NewRunnerError("exit status 3", nil))

	if !HasCode(joined, ErrCodeRunner) {
		t.Error("HasCode should search every joined error")
	}
	if HasCode(joined, ErrCodeNotFound) {
		t.Error("HasCode should not match a code no joined error carries")
	}
}

func TestSeverity_Level(t *testing.T) {
	if SeverityCritical.Level() <= SeverityMajor.Level() {
		t.Error("critical should rank above major")
	}
	if SeverityMajor.Level() <= SeverityMinor.Level() {
		t.Error("major should rank above minor")
	}
	if SeverityMinor.Level() <= SeverityInfo.Level() {
		t.Error("minor should rank above info")
	}
	if Severity("bogus").Level() != SeverityMajor.Level() {
		t.Error("unknown severity should rank as major")
	}
}

func TestTarget_Location(t *testing.T) {
	line := 12
	tests := []struct {
		name     string
		target   Target
		expected string
	}{
		{"file with line", FileTarget("Core", "src/A.cs", &line), "src/A.cs:12"},
		{"file without line", FileTarget("Core", "src/A.cs", nil), "src/A.cs"},
		{"project", ProjectTarget("Core"), "Core"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.target.Location(); got != tt.expected {
				t.Errorf("Location() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestNewViolation(t *testing.T) {
	rule := Rule{Key: "UnusedVariable", ConfigKey: "ReSharperInspectCode#UnusedVariable", Severity: SeverityMajor}
	v := NewViolation(rule, ProjectTarget("Core"), "msg")

	if v.RuleKey != "UnusedVariable" || v.ConfigKey != rule.ConfigKey {
		t.Errorf("Unexpected rule keys: %+v", v)
	}
	if v.Severity != SeverityMajor {
		t.Errorf("Expected severity major, got %s", v.Severity)
	}
	if v.Target.Kind != TargetProject {
		t.Errorf("Expected project target, got %s", v.Target.Kind)
	}
}

func TestFinding_LineNumber(t *testing.T) {
	f := Finding{Line: "42"}
	if !f.HasLine() {
		t.Fatal("HasLine should be true")
	}
	n, err := f.LineNumber()
	if err != nil || n != 42 {
		t.Errorf("LineNumber() = %d, %v", n, err)
	}

	if (Finding{}).HasLine() {
		t.Error("HasLine should be false for empty Line")
	}
	empty := Finding{LinePresent: true}
	if !empty.HasLine() {
		t.Error("HasLine should be true for a present but empty Line")
	}
	if _, err := empty.LineNumber(); err == nil {
		t.Error("LineNumber should fail for an empty Line")
	}
	if _, err := (Finding{Line: "x"}).LineNumber(); err == nil {
		t.Error("LineNumber should fail for non-numeric input")
	}
}

func TestIngestResponse_CalculateSummary(t *testing.T) {
	line := 3
	resp := &IngestResponse{
		Projects: []ProjectResult{
			{
				Name:    "Core",
				Reports: []string{"a.xml"},
				Violations: []Violation{
					{Severity: SeverityMajor, Target: FileTarget("Core", "A.cs", &line)},
					{Severity: SeverityInfo, Target: ProjectTarget("Core")},
				},
				MissingTypes: []string{"X"},
			},
			{
				Name:         "Web",
				Reports:      []string{"a.xml"},
				Violations:   []Violation{{Severity: SeverityMajor, Target: FileTarget("Web", "B.cs", nil)}},
				MissingTypes: []string{"X", "Y"},
			},
		},
	}

	resp.CalculateSummary()

	s := resp.Summary
	if s.ProjectsAnalyzed != 2 || s.ReportsParsed != 2 {
		t.Errorf("Unexpected counts: %+v", s)
	}
	if s.TotalViolations != 3 || s.FileViolations != 2 || s.ProjectViolations != 1 {
		t.Errorf("Unexpected violation counts: %+v", s)
	}
	if s.MissingTypes != 2 {
		t.Errorf("Expected 2 distinct missing types, got %d", s.MissingTypes)
	}
	if s.BySeverity["major"] != 2 {
		t.Errorf("Expected 2 major violations, got %d", s.BySeverity["major"])
	}
}

func TestViolationSinkFunc(t *testing.T) {
	var got []Violation
	var sink ViolationSink = ViolationSinkFunc(func(v Violation) { got = append(got, v) })
	sink.Save(Violation{Message: "m"})

	if len(got) != 1 || got[0].Message != "m" {
		t.Errorf("Sink did not receive violation: %+v", got)
	}
}
