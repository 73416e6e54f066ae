package build

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/nitrek/Oryx/internal/config"
	oerrors "github.com/nitrek/Oryx/internal/errors"
	"github.com/nitrek/Oryx/internal/executor"
	"github.com/nitrek/Oryx/internal/logfields"
	"github.com/nitrek/Oryx/internal/observability"
	"github.com/nitrek/Oryx/internal/platform"
	"github.com/nitrek/Oryx/internal/sourcerepo"
	"github.com/nitrek/Oryx/internal/templates"
)

// PrepRequest selects which SDKs Prepare installs.
type PrepRequest struct {
	// SkipDetection uses the explicit platform list instead of detecting.
	SkipDetection bool
	// PlatformsAndVersions is a comma separated list of name[=version].
	PlatformsAndVersions string
	// PlatformsAndVersionsFile holds one name[=version] per line.
	PlatformsAndVersionsFile string
}

// PrepResult describes a finished environment setup.
type PrepResult struct {
	OperationID string
	Platforms   []*platform.DetectorResult
	ScriptPath  string
	ExitCode    int
}

// Prepare installs the SDKs for the requested or detected platforms by
// running the environment setup script from the source directory.
func (s *DefaultBuildService) Prepare(ctx context.Context, repo sourcerepo.SourceRepo, req PrepRequest) (*PrepResult, error) {
	ctx, rc := s.NewContext(ctx, repo)
	ctx = observability.WithStage(ctx, "prep")
	result := &PrepResult{OperationID: rc.OperationID}

	var (
		results []*platform.DetectorResult
		err     error
	)
	if req.SkipDetection {
		results, err = s.requestedPlatforms(rc, req)
	} else {
		results, err = s.generator.Resolver().DetectAll(rc)
		if err == nil && len(results) == 0 {
			err = oerrors.Wrap(ErrNoPlatformsDetected, oerrors.CategoryUnsupportedPlatform, oerrors.SeverityFatal,
				"no platforms detected in the source directory")
		}
	}
	if err != nil {
		return nil, err
	}
	result.Platforms = results

	snippets := make([]string, 0, len(results))
	for _, r := range results {
		p, ok := s.registry.Lookup(r.Platform)
		if !ok {
			continue
		}
		observability.InfoContext(ctx, "Preparing platform", logfields.Platform(r.Platform), logfields.Version(r.PlatformVersion))
		snippet, err := p.InstallSnippet(rc, r)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(snippet) != "" {
			snippets = append(snippets, snippet)
		}
	}

	script, err := templates.Render(templates.SetupEnvironment, templates.SetupEnvironmentProps{InstallSnippets: snippets})
	if err != nil {
		return nil, oerrors.InternalError("failed to render environment setup script", err)
	}

	ws := s.workspaceFactory()
	if err := ws.Create(); err != nil {
		return nil, oerrors.WorkspaceError("create", err)
	}
	defer func() {
		if err := ws.Cleanup(); err != nil {
			observability.WarnContext(ctx, "Failed to clean up workspace", logfields.Error(err))
		}
	}()

	path, err := ws.WriteScript(SetupScriptName, script)
	if err != nil {
		return nil, oerrors.WorkspaceError("write setup script", err)
	}
	result.ScriptPath = path

	code, err := executor.New().WithRecorder(s.recorder).Run(ctx, executor.Command{
		Path:   s.shell,
		Args:   []string{path},
		Dir:    repo.RootPath(),
		Stdout: s.stdout,
		Stderr: s.stderr,
	})
	if err != nil {
		return nil, oerrors.BuildFailed("prep", err)
	}
	result.ExitCode = code
	if code != 0 {
		e := oerrors.ScriptFailed(SetupScriptName, code)
		e.Cause = ErrScriptFailed
		return result, e
	}
	return result, nil
}

// requestedPlatforms turns the explicit platform list into results, in
// registry order. Requested versions win over configured overrides.
func (s *DefaultBuildService) requestedPlatforms(rc *platform.RepositoryContext, req PrepRequest) ([]*platform.DetectorResult, error) {
	var (
		requested map[string]string
		err       error
	)
	switch {
	case strings.TrimSpace(req.PlatformsAndVersions) != "":
		requested, err = ParsePlatformsAndVersions(strings.Split(req.PlatformsAndVersions, ","))
	case req.PlatformsAndVersionsFile != "":
		requested, err = ReadPlatformsAndVersionsFile(req.PlatformsAndVersionsFile)
	default:
		return nil, oerrors.InvalidUsage("platforms and versions are required when detection is skipped")
	}
	if err != nil {
		return nil, err
	}
	if len(requested) == 0 {
		return nil, oerrors.ValidationFailed("platforms-and-versions", "no platforms were supplied")
	}

	byName := make(map[string]string, len(requested))
	for name, v := range requested {
		p, ok := s.registry.Lookup(name)
		if !ok {
			return nil, oerrors.Wrap(fmt.Errorf("%w: %s", ErrUnknownPlatform, name),
				oerrors.CategoryValidation, oerrors.SeverityFatal,
				fmt.Sprintf("platform '%s' is not valid, supported platforms are: %s",
					name, strings.Join(s.registry.Names(), ", "))).
				WithContext("platform", name)
		}
		byName[p.Name()] = v
	}

	var out []*platform.DetectorResult
	for _, p := range s.registry.All() {
		requestedVersion, ok := byName[p.Name()]
		if !ok {
			continue
		}
		v, err := p.ResolveRequestedVersion(rc, requestedVersion)
		if err != nil {
			return nil, err
		}
		out = append(out, &platform.DetectorResult{Platform: p.Name(), PlatformVersion: v})
	}
	return out, nil
}

// ParsePlatformsAndVersions parses name[=version] entries. Blank entries and
// entries starting with '#' are skipped; a bare name requests the default.
func ParsePlatformsAndVersions(entries []string) (map[string]string, error) {
	var b strings.Builder
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" || strings.HasPrefix(entry, "#") {
			continue
		}
		if !strings.Contains(entry, "=") {
			entry += "="
		}
		b.WriteString(entry)
		b.WriteByte('\n')
	}
	parsed, err := godotenv.Unmarshal(b.String())
	if err != nil {
		return nil, oerrors.ValidationFailed("platforms-and-versions", fmt.Sprintf("invalid platforms and versions: %v", err))
	}
	return parsed, nil
}

// ReadPlatformsAndVersionsFile reads one name[=version] entry per line.
func ReadPlatformsAndVersionsFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, oerrors.ConfigNotFound(path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return ParsePlatformsAndVersions(strings.Split(string(data), "\n"))
}

// EnableForPrep returns options that allow SDK installation regardless of
// the configured dynamic-install switch.
func EnableForPrep(opts *config.Options) *config.Options {
	c := opts.Clone()
	c.EnableDynamicInstall = true
	return c
}
