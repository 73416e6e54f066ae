// Package nodejs builds Node apps with npm or yarn.
package nodejs

import (
	"github.com/nitrek/Oryx/internal/config"
	"github.com/nitrek/Oryx/internal/installer"
	"github.com/nitrek/Oryx/internal/platform"
	"github.com/nitrek/Oryx/internal/sourcerepo"
	"github.com/nitrek/Oryx/internal/templates"
	"github.com/nitrek/Oryx/internal/versions"
)

const (
	ManifestNodeVersion = "NodeVersion"
	NodeModulesDir      = "node_modules"
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
		PlatformName: config.PlatformNodeJS,
		Options:      opts,
		Catalog:      catalog,
		Installer:    inst,
	}}
}

func (p *Platform) Aliases() []string { return []string{"node"} }

func (p *Platform) Detect(ctx *platform.RepositoryContext) (*platform.DetectorResult, error) {
	result, err := p.detector.Detect(ctx.SourceRepo)
	if err != nil || result == nil {
		return nil, err
	}
	return p.Resolved(ctx, result)
}

func (p *Platform) IsCleanRepo(repo sourcerepo.SourceRepo) bool {
	return !repo.DirExists(NodeModulesDir)
}

func (p *Platform) GenerateSnippet(ctx *platform.RepositoryContext, result *platform.DetectorResult) (*platform.Snippet, error) {
	props := templates.NodeSnippetProps{
		PackageInstallCommand: "npm install",
		HasYarnLock:           ctx.SourceRepo.FileExists(YarnLockFileName),
	}
	runner := "npm run"
	if props.HasYarnLock {
		props.PackageInstallCommand = "yarn install --prefer-offline"
		runner = "yarn run"
	}
	if pkg := ReadPackageJSON(ctx.SourceRepo); pkg != nil {
		if _, ok := pkg.Scripts["build"]; ok {
			props.NpmRunBuildCommand = runner + " build"
		}
	}

	script, err := templates.Render(templates.NodeSnippet, props)
	if err != nil {
		return nil, err
	}
	return &platform.Snippet{
		ScriptText:              script,
		BuildProperties:         map[string]string{ManifestNodeVersion: result.PlatformVersion},
		CopySourceToDestination: true,
	}, nil
}

func (p *Platform) ExcludedFromIntermediateDir(*platform.RepositoryContext) []string {
	return []string{NodeModulesDir}
}
