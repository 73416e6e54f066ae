package build

import (
	"context"
	"time"

	"github.com/nitrek/Oryx/internal/compose"
	"github.com/nitrek/Oryx/internal/sourcerepo"
)

// BuildService is the canonical interface for turning a source directory into
// build output. The CLI commands are thin wrappers over it.
type BuildService interface {
	// GenerateScript detects platforms and composes the build script without
	// running it.
	GenerateScript(ctx context.Context, repo sourcerepo.SourceRepo) (*compose.Result, error)

	// Build generates the build script and runs it against the repository.
	Build(ctx context.Context, repo sourcerepo.SourceRepo) (*BuildResult, error)

	// Prepare installs the SDKs a repository needs without building it.
	Prepare(ctx context.Context, repo sourcerepo.SourceRepo, req PrepRequest) (*PrepResult, error)
}

// BuildResult contains the outcome of a build execution.
type BuildResult struct {
	// Status indicates overall build outcome.
	Status BuildStatus

	OperationID string
	CommitID    string

	// ScriptPath is where build.sh was written. It only survives the build
	// when a fixed temp directory was requested.
	ScriptPath string

	// ExitCode is the build script's exit code.
	ExitCode int

	// Generated is the composed script with its manifest and checker messages.
	Generated *compose.Result

	// PipDownloads is the number of packages pip reported downloading.
	PipDownloads int

	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// BuildStatus represents the outcome of a build execution.
type BuildStatus string

const (
	// BuildStatusSuccess indicates the build script exited with 0.
	BuildStatusSuccess BuildStatus = "success"

	// BuildStatusFailed indicates generation failed or the script exited non-zero.
	BuildStatusFailed BuildStatus = "failed"

	// BuildStatusCancelled indicates the context was cancelled.
	BuildStatusCancelled BuildStatus = "cancelled"
)

// IsTerminal returns true if the status represents a final state.
func (s BuildStatus) IsTerminal() bool {
	return s == BuildStatusSuccess || s == BuildStatusFailed || s == BuildStatusCancelled
}

// IsSuccess returns true if the build completed successfully.
func (s BuildStatus) IsSuccess() bool {
	return s == BuildStatusSuccess
}

func (r *BuildResult) finish(status BuildStatus) {
	r.Status = status
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)
}
