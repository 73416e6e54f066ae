package errors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// CLIErrorAdapter handles error presentation and exit code determination for CLI applications.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
	out     io.Writer
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
		out:     os.Stderr,
	}
}

// ExitCodeFor determines the appropriate exit code for an error.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}

	if oe, ok := As(err); ok {
		return a.exitCodeFromOryx(oe)
	}

	return 1
}

// exitCodeFromOryx maps OryxError to exit codes.
func (a *CLIErrorAdapter) exitCodeFromOryx(err *OryxError) int {
	if err.ExitCode != 0 {
		return err.ExitCode
	}
	switch err.Category {
	case CategoryValidation, CategoryInvalidUsage:
		return 2 // Invalid usage
	case CategoryUnsupportedPlatform:
		return 3
	case CategoryUnsupportedVersion:
		return 4
	case CategoryConfig, CategoryConfigurationMissing:
		return 7 // Configuration error
	case CategoryBuild, CategoryFileSystem:
		return 11 // Build error
	case CategoryRuntime:
		return 12 // Runtime error
	case CategoryInternal:
		return 10 // Internal error
	default:
		return 1 // General error
	}
}

// FormatError formats an error for user-friendly display.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}

	if oe, ok := As(err); ok {
		return a.formatOryx(oe)
	}

	return fmt.Sprintf("Error: %v", err)
}

func (a *CLIErrorAdapter) formatOryx(err *OryxError) string {
	if a.verbose {
		return err.Error()
	}

	switch err.Category {
	case CategoryConfig, CategoryValidation, CategoryInvalidUsage, CategoryConfigurationMissing,
		CategoryUnsupportedPlatform, CategoryUnsupportedVersion:
		return err.Message
	default:
		return fmt.Sprintf("%s: %s", err.Category, err.Message)
	}
}

// Report logs and prints an error and returns the exit code to use.
func (a *CLIErrorAdapter) Report(err error) int {
	if err == nil {
		return 0
	}
	if a.shouldLog(err) {
		a.logError(err)
	}
	_, _ = fmt.Fprintf(a.out, "%s\n", a.FormatError(err))
	return a.ExitCodeFor(err)
}

// HandleError processes an error and exits the program with appropriate code.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}
	os.Exit(a.Report(err))
}

// shouldLog determines if an error should be logged.
func (a *CLIErrorAdapter) shouldLog(err error) bool {
	if a.verbose {
		return true
	}

	if oe, ok := As(err); ok {
		return oe.Category == CategoryInternal ||
			oe.Category == CategoryRuntime
	}

	return true
}

// logError logs an error with appropriate level and context.
func (a *CLIErrorAdapter) logError(err error) {
	if oe, ok := As(err); ok {
		level := slogLevelFromSeverity(oe.Severity)
		attrs := []slog.Attr{
			slog.String("category", string(oe.Category)),
		}
		for k, v := range oe.Context {
			attrs = append(attrs, slog.Any(k, v))
		}
		if oe.Cause != nil {
			attrs = append(attrs, slog.String("cause", oe.Cause.Error()))
		}

		a.logger.LogAttrs(context.Background(), level, oe.Message, attrs...)
		return
	}

	a.logger.Error("Unclassified error", "error", err)
}

func slogLevelFromSeverity(severity ErrorSeverity) slog.Level {
	switch severity {
	case SeverityInfo:
		return slog.LevelInfo
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
