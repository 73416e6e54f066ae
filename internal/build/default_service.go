package build

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/nitrek/Oryx/internal/checkers"
	"github.com/nitrek/Oryx/internal/compose"
	"github.com/nitrek/Oryx/internal/config"
	oerrors "github.com/nitrek/Oryx/internal/errors"
	"github.com/nitrek/Oryx/internal/executor"
	"github.com/nitrek/Oryx/internal/logfields"
	"github.com/nitrek/Oryx/internal/metrics"
	"github.com/nitrek/Oryx/internal/observability"
	"github.com/nitrek/Oryx/internal/platform"
	"github.com/nitrek/Oryx/internal/sourcerepo"
	"github.com/nitrek/Oryx/internal/version"
	"github.com/nitrek/Oryx/internal/workspace"
)

// Script names inside the workspace.
const (
	BuildScriptName = "build.sh"
	SetupScriptName = "setupEnvironment.sh"
)

// Build outcome labels for metrics.
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
)

// DefaultBuildService is the standard implementation of BuildService.
type DefaultBuildService struct {
	opts      *config.Options
	registry  *platform.Registry
	generator *compose.Generator

	// Optional dependencies that can be injected
	workspaceFactory func() *workspace.Manager
	shell            string
	recorder         metrics.Recorder
	stdout           io.Writer
	stderr           io.Writer
	newOperationID   func() string
}

// NewBuildService creates a service over the given options and platforms.
func NewBuildService(opts *config.Options, registry *platform.Registry) *DefaultBuildService {
	s := &DefaultBuildService{
		opts:           opts,
		registry:       registry,
		generator:      compose.NewGenerator(registry),
		shell:          "bash",
		recorder:       metrics.NoopRecorder{},
		stdout:         os.Stdout,
		stderr:         os.Stderr,
		newOperationID: uuid.NewString,
	}
	s.workspaceFactory = func() *workspace.Manager {
		if s.opts.TempDir != "" {
			return workspace.NewFixedManager(s.opts.TempDir)
		}
		return workspace.NewManager("")
	}
	return s
}

// WithRecorder sets the metrics recorder for every stage.
func (s *DefaultBuildService) WithRecorder(rec metrics.Recorder) *DefaultBuildService {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	s.recorder = rec
	s.generator.WithRecorder(rec)
	return s
}

// WithOutput redirects the console streams the scripts write to.
func (s *DefaultBuildService) WithOutput(stdout, stderr io.Writer) *DefaultBuildService {
	s.stdout = stdout
	s.stderr = stderr
	return s
}

// WithWorkspaceFactory allows injecting a custom workspace factory (for testing).
func (s *DefaultBuildService) WithWorkspaceFactory(factory func() *workspace.Manager) *DefaultBuildService {
	s.workspaceFactory = factory
	return s
}

// WithShell sets the interpreter used to run generated scripts.
func (s *DefaultBuildService) WithShell(shell string) *DefaultBuildService {
	s.shell = shell
	return s
}

// WithCheckers replaces the built-in checkers.
func (s *DefaultBuildService) WithCheckers(c ...checkers.Checker) *DefaultBuildService {
	s.generator.WithCheckers(c...)
	return s
}

// NewContext creates the per-run repository context. The source commit comes
// from the options (SCM_COMMIT_ID) and falls back to the repository's HEAD.
func (s *DefaultBuildService) NewContext(ctx context.Context, repo sourcerepo.SourceRepo) (context.Context, *platform.RepositoryContext) {
	opts := s.opts.Clone()
	if opts.SourceCommitID == "" {
		commit, err := repo.GitCommitID()
		switch {
		case err == nil:
			opts.SourceCommitID = commit
		case errors.Is(err, sourcerepo.ErrNotGitRepository):
		default:
			slog.Warn("Could not read source commit", logfields.Path(repo.RootPath()), logfields.Error(err))
		}
	}

	operationID := s.newOperationID()
	ctx = observability.WithOperationID(ctx, operationID)
	return ctx, platform.NewRepositoryContext(repo, operationID, opts)
}

// GenerateScript runs detection and composition for repo.
func (s *DefaultBuildService) GenerateScript(ctx context.Context, repo sourcerepo.SourceRepo) (*compose.Result, error) {
	ctx, rc := s.NewContext(ctx, repo)
	return s.generate(ctx, rc)
}

func (s *DefaultBuildService) generate(ctx context.Context, rc *platform.RepositoryContext) (*compose.Result, error) {
	ctx = observability.WithStage(ctx, "generate")
	observability.DebugContext(ctx, "Generating build script", logfields.Path(rc.SourceRepo.RootPath()))

	res, err := s.generator.Generate(rc)
	if err != nil {
		observability.ErrorContext(ctx, "Build script generation failed", logfields.Error(err))
		return nil, err
	}
	if len(res.Messages) > 0 {
		checkers.Print(s.stdout, res.Messages)
	} else {
		observability.DebugContext(ctx, "No checker messages emitted")
	}
	return res, nil
}

// Build executes the complete pipeline: generate, write build.sh, run it.
func (s *DefaultBuildService) Build(ctx context.Context, repo sourcerepo.SourceRepo) (*BuildResult, error) {
	ctx, rc := s.NewContext(ctx, repo)
	result := &BuildResult{
		StartTime:   time.Now(),
		OperationID: rc.OperationID,
		CommitID:    rc.Options.SourceCommitID,
	}
	s.writeHeader(result)

	generated, err := s.generate(ctx, rc)
	if err != nil {
		return s.fail(result, err)
	}
	result.Generated = generated

	ws := s.workspaceFactory()
	if err := ws.Create(); err != nil {
		return s.fail(result, oerrors.WorkspaceError("create", err))
	}
	defer func() {
		if err := ws.Cleanup(); err != nil {
			observability.WarnContext(ctx, "Failed to clean up workspace", logfields.Error(err))
		}
	}()

	scriptPath, err := ws.WriteScript(BuildScriptName, generated.Script)
	if err != nil {
		return s.fail(result, oerrors.WorkspaceError("write build script", err))
	}
	result.ScriptPath = scriptPath
	observability.DebugContext(ctx, "Build script written", logfields.File(scriptPath))

	pip := &executor.PipDownloadCounter{}
	exec := executor.New(executor.NewSpanTimer(s.recorder, executor.BuildHookSpans()...), pip).
		WithRecorder(s.recorder)

	runCtx := observability.WithStage(ctx, "run")
	_, _ = fmt.Fprintln(s.stdout)
	code, err := exec.Run(runCtx, executor.Command{
		Path:   s.shell,
		Args:   scriptArgs(scriptPath, repo.RootPath(), rc.Options),
		Dir:    repo.RootPath(),
		Stdout: s.stdout,
		Stderr: s.stderr,
	})
	result.PipDownloads = pip.Count()
	if ctx.Err() != nil {
		result.finish(BuildStatusCancelled)
		s.recorder.IncBuildOutcome(OutcomeFailed)
		return result, oerrors.Wrap(ctx.Err(), oerrors.CategoryRuntime, oerrors.SeverityFatal, "build cancelled")
	}
	if err != nil {
		return s.fail(result, oerrors.BuildFailed("run", err))
	}
	result.ExitCode = code
	if pip.Count() > 0 {
		observability.InfoContext(runCtx, "Pip downloads", logfields.Count(pip.Count()))
	}

	if code != 0 {
		observability.ErrorContext(runCtx, "Error running build script", logfields.ExitCode(code),
			slog.String("oryx_version", version.Version))
		e := oerrors.ScriptFailed(BuildScriptName, code)
		e.Cause = ErrScriptFailed
		return s.fail(result, e)
	}

	result.finish(BuildStatusSuccess)
	s.recorder.IncBuildOutcome(OutcomeSuccess)
	s.recorder.ObserveStageDuration("build", result.Duration)
	observability.InfoContext(ctx, "Build completed", logfields.DurationMS(float64(result.Duration.Milliseconds())))
	return result, nil
}

// scriptArgs are the build script's positional arguments:
// SOURCE_DIR DESTINATION_DIR INTERMEDIATE_DIR FORCE.
func scriptArgs(scriptPath, sourceDir string, opts *config.Options) []string {
	force := "False"
	if opts.Force {
		force = "True"
	}
	return []string{scriptPath, sourceDir, opts.DestinationDir, opts.IntermediateDir, force}
}

func (s *DefaultBuildService) fail(result *BuildResult, err error) (*BuildResult, error) {
	result.finish(BuildStatusFailed)
	s.recorder.IncBuildOutcome(OutcomeFailed)
	return result, err
}

func (s *DefaultBuildService) writeHeader(result *BuildResult) {
	label := color.New(color.Bold)
	line := func(k, v string) {
		_, _ = label.Fprintf(s.stdout, "%-20s", k+":")
		_, _ = fmt.Fprintln(s.stdout, v)
	}
	line("Oryx Version", version.Version)
	line("Build Operation ID", result.OperationID)
	if result.CommitID != "" {
		line("Repository Commit", result.CommitID)
	}
}
