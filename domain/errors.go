package domain

import "fmt"

// Error codes used across rsbridge
const (
	ErrCodeInvalidInput      = "INVALID_INPUT"
	ErrCodeConfigError       = "CONFIG_ERROR"
	ErrCodeReportRead        = "REPORT_READ_ERROR"
	ErrCodeAmbiguousSettings = "AMBIGUOUS_SETTINGS"
	ErrCodeRunner            = "RUNNER_ERROR"
	ErrCodeNotFound          = "NOT_FOUND"
)

// DomainError represents a categorized error with an optional cause
type DomainError struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface
func (e DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause
func (e DomainError) Unwrap() error {
	return e.Cause
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string, cause error) error {
	return DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewInvalidInputError creates an error for invalid user input
func NewInvalidInputError(message string, cause error) error {
	return NewDomainError(ErrCodeInvalidInput, message, cause)
}

// NewConfigError creates an error for configuration problems
func NewConfigError(message string, cause error) error {
	return NewDomainError(ErrCodeConfigError, message, cause)
}

// NewReportReadError creates an error for a report that cannot be opened or read
func NewReportReadError(message string, cause error) error {
	return NewDomainError(ErrCodeReportRead, message, cause)
}

// NewAmbiguousSettingsError creates an error for a settings pattern matching several files
func NewAmbiguousSettingsError(message string, cause error) error {
	return NewDomainError(ErrCodeAmbiguousSettings, message, cause)
}

// NewRunnerError creates an error for a failed analyzer execution
func NewRunnerError(message string, cause error) error {
	return NewDomainError(ErrCodeRunner, message, cause)
}

// NewNotFoundError creates an error for a missing resource
func NewNotFoundError(message string, cause error) error {
	return NewDomainError(ErrCodeNotFound, message, cause)
}

// HasCode reports whether err, or any error it wraps, is a DomainError
// carrying the given code
func HasCode(err error, code string) bool {
	switch e := err.(type) {
	case nil:
		return false
	case DomainError:
		if e.Code == code {
			return true
		}
	}
	switch u := err.(type) {
	case interface{ Unwrap() error }:
		return HasCode(u.Unwrap(), code)
	case interface{ Unwrap() []error }:
		for _, inner := range u.Unwrap() {
			if HasCode(inner, code) {
				return true
			}
		}
	}
	return false
}
