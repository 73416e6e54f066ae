// Package compose turns per-platform snippets into the final build script and
// its manifest.
package compose

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	oerrors "github.com/nitrek/Oryx/internal/errors"
	"github.com/nitrek/Oryx/internal/logfields"
	"github.com/nitrek/Oryx/internal/manifest"
	"github.com/nitrek/Oryx/internal/platform"
	"github.com/nitrek/Oryx/internal/templates"
	"github.com/nitrek/Oryx/internal/util/paths"
	"github.com/nitrek/Oryx/internal/util/sets"
)

// UnableToDetectPlatformMessage is reported when no platform contributed a
// build snippet.
const UnableToDetectPlatformMessage = "Could not detect any platform in the source directory."

// Input is everything Compose needs besides the repository context.
type Input struct {
	// InstallScript sets up SDKs for every detected platform.
	InstallScript string
	Snippets      []*platform.Snippet
	// ToolVersions maps platform name to the version benv should select.
	ToolVersions            map[string]string
	ExcludeFromIntermediate []string
	ExcludeFromOutput       []string
	// Detected lists every detection result, compatible or not.
	Detected []*platform.DetectorResult
}

// Compose renders the build script. A full-script snippet replaces the whole
// composition and yields no manifest.
func Compose(ctx *platform.RepositoryContext, in Input) (string, manifest.Manifest, error) {
	for _, s := range in.Snippets {
		if s != nil && s.IsFullScript {
			slog.Info("Platform supplied a full build script")
			return s.ScriptText, nil, nil
		}
	}
	if len(in.Snippets) == 0 {
		return "", nil, oerrors.UnsupportedPlatform(UnableToDetectPlatformMessage)
	}

	opts := ctx.Options
	m := manifest.Manifest{}
	texts := make([]string, 0, len(in.Snippets))
	copySource := true
	for _, s := range in.Snippets {
		m.Merge(s.BuildProperties)
		texts = append(texts, s.ScriptText)
		copySource = copySource && s.CopySourceToDestination
	}
	m[manifest.KeyOperationID] = ctx.OperationID
	for _, r := range in.Detected {
		if r != nil && r.Platform != "" {
			m.AppendList(manifest.KeyPlatformName, r.Platform)
		}
	}
	if opts.AppType != "" {
		m[manifest.KeyAppType] = opts.AppType
	}
	if opts.SourceCommitID != "" {
		m[manifest.KeySourceCommit] = opts.SourceCommitID
	}

	intermediate := sets.NewOrdered(in.ExcludeFromIntermediate...)
	intermediate.Add(".git")
	output := sets.NewOrdered(in.ExcludeFromOutput...)
	output.Add(".git")

	preBuild, err := hookCommand(ctx, opts.PreBuildCommand, opts.PreBuildScriptPath)
	if err != nil {
		return "", nil, err
	}
	postBuild, err := hookCommand(ctx, opts.PostBuildCommand, opts.PostBuildScriptPath)
	if err != nil {
		return "", nil, err
	}

	nestedPath, nested := paths.RelativeInside(opts.DestinationDir, opts.SourceDir)
	if nested {
		slog.Debug("Destination directory is inside the source directory", logfields.Path(opts.DestinationDir))
	}

	script, err := templates.Render(templates.BaseBashScript, templates.BaseScriptProps{
		OsPackagesToInstall:        opts.RequiredOsPackages,
		PlatformInstallationScript: in.InstallScript,
		BenvArgs:                   BenvArgs(in.ToolVersions),
		BuildScriptSnippets:        texts,
		PreBuildCommand:            preBuild,
		PostBuildCommand:           postBuild,

		DirectoriesToExcludeFromCopyToIntermediateDir: intermediate.Items(),
		DirectoriesToExcludeFromCopyToBuildOutputDir:  output.Items(),

		ManifestFileName: manifest.FileName,
		ManifestDir:      opts.ManifestDir,
		BuildProperties:  m,

		OutputDirectoryIsNested:                          nested,
		NestedOutputPath:                                 nestedPath,
		CopySourceDirectoryContentToDestinationDirectory: copySource,
	})
	if err != nil {
		return "", nil, oerrors.InternalError("render build script", err)
	}
	return script, m, nil
}

// BenvArgs formats tool versions as sorted platform=version pairs. Platforms
// without a version are left to benv's defaults.
func BenvArgs(tools map[string]string) string {
	pairs := make([]string, 0, len(tools))
	for _, k := range manifest.Manifest(tools).Keys() {
		if tools[k] == "" {
			continue
		}
		pairs = append(pairs, fmt.Sprintf("%s=%s", k, tools[k]))
	}
	return strings.Join(pairs, " ")
}

// hookCommand returns the inline command, or a line running the script at
// scriptPath (relative to the source directory) after making it executable.
func hookCommand(ctx *platform.RepositoryContext, command, scriptPath string) (string, error) {
	if command != "" && scriptPath != "" {
		return "", oerrors.InvalidUsage("a build hook can be either a command or a script path, not both")
	}
	if command != "" {
		return command, nil
	}
	if scriptPath == "" {
		return "", nil
	}
	if !filepath.IsAbs(scriptPath) {
		scriptPath = filepath.Join(ctx.SourceRepo.RootPath(), scriptPath)
	}
	quoted := templates.ShellQuote(scriptPath)
	return "chmod +x " + quoted + "\n" + quoted, nil
}
