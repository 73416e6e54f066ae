// Package dotnet builds .NET Core projects with dotnet publish.
package dotnet

import (
	"github.com/nitrek/Oryx/internal/config"
	oerrors "github.com/nitrek/Oryx/internal/errors"
	"github.com/nitrek/Oryx/internal/installer"
	"github.com/nitrek/Oryx/internal/platform"
	"github.com/nitrek/Oryx/internal/templates"
	"github.com/nitrek/Oryx/internal/versions"
)

const (
	ManifestRuntimeVersion = "DotNetCoreRuntimeVersion"
	ManifestSdkVersion     = "DotNetCoreSdkVersion"
	ConfigurationProperty  = "configuration"
	defaultConfiguration   = "Release"
)

type Platform struct {
	platform.Base
	detector Detector
}

var (
	_ platform.Platform = (*Platform)(nil)
	_ platform.Aliased  = (*Platform)(nil)
)

func New(opts *config.Options, catalog versions.Catalog, inst *installer.Installer) *Platform {
	return &Platform{Base: platform.Base{
		PlatformName: config.PlatformDotNet,
		Options:      opts,
		Catalog:      catalog,
		Installer:    inst,
	}}
}

func (p *Platform) Aliases() []string { return []string{"dotnetcore"} }

func (p *Platform) Detect(ctx *platform.RepositoryContext) (*platform.DetectorResult, error) {
	result, err := p.detector.Detect(ctx.SourceRepo)
	if err != nil || result == nil {
		return nil, err
	}
	return p.Resolved(ctx, result)
}

// SdkVersion is the global.json SDK when pinned, otherwise the SDK that ships
// the runtime.
func (p *Platform) SdkVersion(result *platform.DetectorResult) (string, error) {
	if sdk := result.Property(SdkVersionProperty); sdk != "" {
		return sdk, nil
	}
	if sdk, ok := p.Catalog.Sdks[result.PlatformVersion]; ok {
		return sdk, nil
	}
	return "", oerrors.UnsupportedVersion(config.PlatformDotNet, result.PlatformVersion, p.Catalog.Supported).
		WithContext("reason", "no SDK known for runtime")
}

func (p *Platform) GenerateSnippet(ctx *platform.RepositoryContext, result *platform.DetectorResult) (*platform.Snippet, error) {
	projectFile := result.Property(ProjectFileProperty)
	if projectFile == "" {
		var err error
		if projectFile, err = FindProjectFile(ctx.SourceRepo); err != nil {
			return nil, err
		}
	}
	if projectFile == "" {
		return nil, nil
	}

	sdk, err := p.SdkVersion(result)
	if err != nil {
		return nil, err
	}

	configuration := defaultConfiguration
	if c, ok := ctx.Property(ConfigurationProperty); ok && c != "" {
		configuration = c
	}
	script, err := templates.Render(templates.DotNetSnippet, templates.DotNetSnippetProps{
		ProjectFile:   projectFile,
		Configuration: configuration,
	})
	if err != nil {
		return nil, err
	}
	return &platform.Snippet{
		ScriptText: script,
		BuildProperties: map[string]string{
			ManifestRuntimeVersion: result.PlatformVersion,
			ManifestSdkVersion:     sdk,
		},
		// dotnet publish writes the output itself.
		CopySourceToDestination: false,
	}, nil
}

func (p *Platform) InstallSnippet(_ *platform.RepositoryContext, result *platform.DetectorResult) (string, error) {
	if !p.Options.EnableDynamicInstall {
		return "", nil
	}
	pinned := result.Property(SdkVersionProperty)
	if p.Installer.IsDotNetInstalled(result.PlatformVersion, pinned) {
		return "", nil
	}
	sdk, err := p.SdkVersion(result)
	if err != nil {
		return "", err
	}
	return p.Installer.DotNetInstallSnippet(result.PlatformVersion, sdk)
}

func (p *Platform) ExcludedFromIntermediateDir(*platform.RepositoryContext) []string {
	return []string{"bin", "obj"}
}
