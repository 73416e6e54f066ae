// Package php builds PHP apps, running composer when composer.json exists.
package php

import (
	"github.com/nitrek/Oryx/internal/config"
	"github.com/nitrek/Oryx/internal/installer"
	"github.com/nitrek/Oryx/internal/platform"
	"github.com/nitrek/Oryx/internal/sourcerepo"
	"github.com/nitrek/Oryx/internal/templates"
	"github.com/nitrek/Oryx/internal/versions"
)

const ManifestPhpVersion = "PhpVersion"

type Platform struct {
	platform.Base
	detector Detector
}

var _ platform.Platform = (*Platform)(nil)

func New(opts *config.Options, catalog versions.Catalog, inst *installer.Installer) *Platform {
	return &Platform{Base: platform.Base{
		PlatformName: config.PlatformPHP,
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

func (p *Platform) GenerateSnippet(ctx *platform.RepositoryContext, result *platform.DetectorResult) (*platform.Snippet, error) {
	script, err := templates.Render(templates.PhpSnippet, templates.PhpSnippetProps{
		HasComposerJSON: ctx.SourceRepo.FileExists(ComposerFileName),
	})
	if err != nil {
		return nil, err
	}
	return &platform.Snippet{
		ScriptText:              script,
		BuildProperties:         map[string]string{ManifestPhpVersion: result.PlatformVersion},
		CopySourceToDestination: true,
	}, nil
}

// IsCleanRepo is false once composer has populated vendor/.
func (p *Platform) IsCleanRepo(repo sourcerepo.SourceRepo) bool {
	return !repo.DirExists("vendor")
}
