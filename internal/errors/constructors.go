package errors

import (
	"fmt"
	"strings"
)

// Convenience functions for common error patterns

// Platform and version errors

func UnsupportedPlatform(message string) *OryxError {
	return New(CategoryUnsupportedPlatform, SeverityFatal, message)
}

func UnsupportedVersion(platform, requested string, supported []string) *OryxError {
	msg := fmt.Sprintf("platform '%s' does not support version '%s'", platform, requested)
	if len(supported) > 0 {
		msg += ". Supported versions: " + strings.Join(supported, ", ")
	}
	return New(CategoryUnsupportedVersion, SeverityFatal, msg).
		WithContext("platform", platform).
		WithContext("version", requested)
}

func InvalidUsage(message string) *OryxError {
	return New(CategoryInvalidUsage, SeverityFatal, message)
}

// Config errors

func ConfigurationMissing(key string) *OryxError {
	return New(CategoryConfigurationMissing, SeverityFatal,
		fmt.Sprintf("environment variable '%s' is required", key)).
		WithContext("key", key)
}

func ConfigNotFound(path string) *OryxError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ValidationFailed(field, reason string) *OryxError {
	return New(CategoryValidation, SeverityFatal, reason).
		WithContext("field", field)
}

// Recoverable failures

func DetectorFailure(platform string, cause error) *OryxError {
	return Wrap(cause, CategoryDetector, SeverityError, "platform detection failed").
		WithContext("platform", platform)
}

func CheckerFailure(checker string, cause error) *OryxError {
	return Wrap(cause, CategoryChecker, SeverityWarning, "checker failed").
		WithContext("checker", checker)
}

func LineProcessorFailure(processor string, cause error) *OryxError {
	return Wrap(cause, CategoryLineProcessor, SeverityWarning, "line processor failed").
		WithContext("processor", processor)
}

// Build pipeline errors

func BuildFailed(stage string, cause error) *OryxError {
	return Wrap(cause, CategoryBuild, SeverityFatal, "build failed").
		WithContext("stage", stage)
}

func ScriptFailed(script string, exitCode int) *OryxError {
	e := New(CategoryBuild, SeverityFatal, fmt.Sprintf("script exited with code %d", exitCode)).
		WithContext("script", script)
	e.ExitCode = exitCode
	return e
}

func WorkspaceError(operation string, cause error) *OryxError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "workspace operation failed").
		WithContext("operation", operation)
}

// Internal errors

func InternalError(message string, cause error) *OryxError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
