// Package python builds Python apps into a virtual environment or a package
// directory.
package python

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/nitrek/Oryx/internal/config"
	oerrors "github.com/nitrek/Oryx/internal/errors"
	"github.com/nitrek/Oryx/internal/installer"
	"github.com/nitrek/Oryx/internal/logfields"
	"github.com/nitrek/Oryx/internal/platform"
	"github.com/nitrek/Oryx/internal/sourcerepo"
	"github.com/nitrek/Oryx/internal/templates"
	"github.com/nitrek/Oryx/internal/versions"
)

// Build properties.
const (
	VirtualEnvNameProperty      = "virtualenv_name"
	PackageDirProperty          = "packagedir"
	CompressVirtualEnvProperty  = "compress_virtualenv"
	EnableCollectStaticProperty = "enable_collectstatic"

	ZipOption   = "zip"
	TarGzOption = "tar-gz"
)

// Manifest keys.
const (
	ManifestPythonVersion            = "PythonVersion"
	ManifestVirtualEnvName           = "virtualenv_name"
	ManifestPackageDir               = "packagedir"
	ManifestCompressedVirtualEnvFile = "compressedVirtualEnvFile"
)

// DefaultPackageDir is where packages land when a package directory build
// leaves one behind in the source tree.
const DefaultPackageDir = "__oryx_packages__"

// Platform is the Python platform.
type Platform struct {
	platform.Base
	detector Detector
}

var _ platform.Platform = (*Platform)(nil)

// New returns the Python platform.
func New(opts *config.Options, catalog versions.Catalog, inst *installer.Installer) *Platform {
	return &Platform{Base: platform.Base{
		PlatformName: config.PlatformPython,
		Options:      opts,
		Catalog:      catalog,
		Installer:    inst,
	}}
}

func (p *Platform) Detect(ctx *platform.RepositoryContext) (*platform.DetectorResult, error) {
	result, err := p.detector.Detect(ctx.SourceRepo)
	if err != nil || result == nil {
		return nil, err
	}
	return p.Resolved(ctx, result)
}

func (p *Platform) IsCleanRepo(repo sourcerepo.SourceRepo) bool {
	return !repo.DirExists(DefaultPackageDir)
}

func (p *Platform) GenerateSnippet(ctx *platform.RepositoryContext, result *platform.DetectorResult) (*platform.Snippet, error) {
	props := map[string]string{ManifestPythonVersion: result.PlatformVersion}

	packageDir := strings.TrimSpace(ctx.Properties[PackageDirProperty])
	venvName := strings.TrimSpace(ctx.Properties[VirtualEnvNameProperty])
	if packageDir != "" && venvName != "" {
		return nil, oerrors.InvalidUsage(fmt.Sprintf(
			"options '%s' and '%s' are mutually exclusive; provide only the target package directory or the virtual environment name",
			PackageDirProperty, VirtualEnvNameProperty)).
			WithContext("platform", config.PlatformPython)
	}

	if packageDir == "" {
		if venvName == "" {
			venvName = DefaultVirtualEnvName(result.PlatformVersion)
		}
		props[ManifestVirtualEnvName] = venvName
	} else {
		props[ManifestPackageDir] = packageDir
	}

	var module, params string
	if venvName != "" {
		var err error
		module, params, err = virtualEnvModule(result.PlatformVersion)
		if err != nil {
			return nil, err
		}
		slog.Debug("Using virtual environment",
			logfields.Name(venvName), logfields.Platform(config.PlatformPython), logfields.Version(result.PlatformVersion))
	}

	_, compressCmd, compressedFile := packOptions(ctx, venvName)
	if compressedFile != "" {
		props[ManifestCompressedVirtualEnvFile] = compressedFile
	}

	logDependencies(ctx.SourceRepo, result.PlatformVersion)

	_, collectStatic := ctx.Property(EnableCollectStaticProperty)
	script, err := templates.Render(templates.PythonSnippet, templates.PythonSnippetProps{
		VirtualEnvironmentName:       venvName,
		VirtualEnvironmentModule:     module,
		VirtualEnvironmentParams:     params,
		PackagesDirectory:            packageDir,
		RequirementsTxtPath:          RequirementsFileName,
		CompressVirtualEnvCommand:    compressCmd,
		CompressedVirtualEnvFileName: compressedFile,
		EnableCollectStatic:          collectStatic,
	})
	if err != nil {
		return nil, err
	}
	return &platform.Snippet{
		ScriptText:              script,
		BuildProperties:         props,
		CopySourceToDestination: true,
	}, nil
}

func (p *Platform) ExcludedFromIntermediateDir(ctx *platform.RepositoryContext) []string {
	dirs := []string{DefaultPackageDir}
	if venv := strings.TrimSpace(ctx.Properties[VirtualEnvNameProperty]); venv != "" {
		dirs = append(dirs, venv, venv+".zip", venv+".tar.gz")
	}
	return dirs
}

// ExcludedFromBuildOutputDir drops the virtual environment from the output
// when it has been shipped as an archive instead.
func (p *Platform) ExcludedFromBuildOutputDir(ctx *platform.RepositoryContext) []string {
	venv := strings.TrimSpace(ctx.Properties[VirtualEnvNameProperty])
	if venv == "" {
		return nil
	}
	packed, _, _ := packOptions(ctx, venv)
	if packed {
		return []string{venv}
	}
	return nil
}

// DefaultVirtualEnvName is pythonenv followed by the major.minor version.
func DefaultVirtualEnvName(version string) string {
	parts := strings.Split(version, ".")
	if len(parts) > 1 {
		version = parts[0] + "." + parts[1]
	}
	return "pythonenv" + version
}

func virtualEnvModule(version string) (module, params string, err error) {
	major, _, _ := strings.Cut(version, ".")
	switch major {
	case "2":
		return "virtualenv", "", nil
	case "3":
		return "venv", "--copies", nil
	}
	return "", "", oerrors.UnsupportedVersion(config.PlatformPython, version, nil)
}

// packOptions reads compress_virtualenv. A property given without a value
// means tar-gz.
func packOptions(ctx *platform.RepositoryContext, venvName string) (packed bool, command, fileName string) {
	option, ok := ctx.Property(CompressVirtualEnvProperty)
	if !ok {
		return false, "", ""
	}
	switch {
	case option == "" || strings.EqualFold(option, TarGzOption):
		return true, "tar -zcf", venvName + ".tar.gz"
	case strings.EqualFold(option, ZipOption):
		return true, "zip -y -q -r", venvName + ".zip"
	}
	slog.Warn("Unknown virtual environment compression option", logfields.Name(option))
	return false, "", ""
}

func logDependencies(repo sourcerepo.SourceRepo, version string) {
	if !repo.FileExists(RequirementsFileName) {
		return
	}
	lines, err := repo.ReadAllLines(RequirementsFileName)
	if err != nil {
		slog.Warn("Could not read dependencies", logfields.File(RequirementsFileName), logfields.Error(err))
		return
	}
	var deps []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		deps = append(deps, line)
	}
	slog.Info("Python dependencies",
		logfields.Platform(config.PlatformPython), logfields.Version(version),
		logfields.Count(len(deps)), slog.String("dependencies", strings.Join(deps, ",")))
}
