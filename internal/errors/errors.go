// Package errors provides a lightweight structured error type (OryxError)
// for category-based classification of detection, resolution and composition
// failures and their mapping to CLI exit codes.
package errors

import (
	stdErrors "errors"
	"fmt"
)

// ErrorCategory represents the category of an Oryx error for classification
type ErrorCategory string

const (
	// Fatal pipeline outcomes
	CategoryUnsupportedPlatform  ErrorCategory = "unsupported-platform"
	CategoryUnsupportedVersion   ErrorCategory = "unsupported-version"
	CategoryInvalidUsage         ErrorCategory = "invalid-usage"
	CategoryConfigurationMissing ErrorCategory = "configuration-missing"

	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// Recovered locally, never abort a build on their own
	CategoryDetector      ErrorCategory = "detector"
	CategoryChecker       ErrorCategory = "checker"
	CategoryLineProcessor ErrorCategory = "line-processor"

	// Build, runtime and infrastructure errors
	CategoryBuild      ErrorCategory = "build"
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryRuntime    ErrorCategory = "runtime"
	CategoryInternal   ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
	SeverityInfo    ErrorSeverity = "info"    // Informational, no impact
)

// OryxError is a structured error with category, severity and context
type OryxError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`

	// ExitCode overrides the category based exit code when non-zero.
	ExitCode int `json:"exit_code,omitempty"`
}

// ContextFields carries structured context for OryxError
type ContextFields map[string]any

// Error implements the error interface
func (e *OryxError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *OryxError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *OryxError) WithContext(key string, value any) *OryxError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new OryxError
func New(category ErrorCategory, severity ErrorSeverity, message string) *OryxError {
	return &OryxError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new OryxError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *OryxError {
	return &OryxError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// As finds the first OryxError in err's chain.
func As(err error) (*OryxError, bool) {
	var oe *OryxError
	if stdErrors.As(err, &oe) {
		return oe, true
	}
	return nil, false
}

// IsCategory checks if an error (or anything it wraps) belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	if oe, ok := As(err); ok {
		return oe.Category == category
	}
	return false
}

// GetCategory extracts the category from an error, or returns CategoryInternal if not an OryxError
func GetCategory(err error) ErrorCategory {
	if oe, ok := As(err); ok {
		return oe.Category
	}
	return CategoryInternal
}

// IsRecoverable reports whether the error belongs to a category that is
// logged and swallowed rather than propagated.
func IsRecoverable(err error) bool {
	switch GetCategory(err) {
	case CategoryDetector, CategoryChecker, CategoryLineProcessor:
		return true
	default:
		return false
	}
}
