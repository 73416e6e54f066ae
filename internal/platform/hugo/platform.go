// Package hugo builds static sites with the Hugo binary.
package hugo

import (
	"log/slog"

	"github.com/nitrek/Oryx/internal/config"
	"github.com/nitrek/Oryx/internal/installer"
	"github.com/nitrek/Oryx/internal/logfields"
	"github.com/nitrek/Oryx/internal/platform"
	"github.com/nitrek/Oryx/internal/templates"
	"github.com/nitrek/Oryx/internal/versions"
)

const ManifestHugoVersion = "HugoVersion"

type Platform struct {
	platform.Base
	detector Detector
}

var _ platform.Platform = (*Platform)(nil)

func New(opts *config.Options, catalog versions.Catalog, inst *installer.Installer) *Platform {
	return &Platform{Base: platform.Base{
		PlatformName: config.PlatformHugo,
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

func (p *Platform) GenerateSnippet(_ *platform.RepositoryContext, result *platform.DetectorResult) (*platform.Snippet, error) {
	configFile := result.Property(ConfigFileProperty)
	if configFile == "" {
		configFile = configFileNames[0]
	}
	script, err := templates.Render(templates.HugoSnippet, templates.HugoSnippetProps{ConfigFile: configFile})
	if err != nil {
		return nil, err
	}
	return &platform.Snippet{
		ScriptText:      script,
		BuildProperties: map[string]string{ManifestHugoVersion: result.PlatformVersion},
	}, nil
}

// InstallSnippet fetches Hugo from its GitHub release rather than SDK storage.
func (p *Platform) InstallSnippet(_ *platform.RepositoryContext, result *platform.DetectorResult) (string, error) {
	if !p.Options.EnableDynamicInstall {
		return "", nil
	}
	if p.Installer.IsInstalled(config.PlatformHugo, result.PlatformVersion) {
		slog.Debug("Hugo already installed", logfields.Version(result.PlatformVersion))
		return "", nil
	}
	return p.Installer.HugoInstallSnippet(result.PlatformVersion)
}

