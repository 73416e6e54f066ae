package commands

import (
	"context"
	"log/slog"

	"github.com/nitrek/Oryx/internal/build"
	"github.com/nitrek/Oryx/internal/config"
	"github.com/nitrek/Oryx/internal/sourcerepo"
)

// PrepCmd implements the 'prep' command.
type PrepCmd struct {
	SourceDir                string `arg:"" optional:"" type:"path" default:"." help:"Source directory"`
	SkipDetection            bool   `name:"skip-detection" help:"Install the given platforms instead of detecting them"`
	PlatformsAndVersions     string `name:"platforms-and-versions" help:"Comma separated name=version list, e.g. nodejs=12.16.1,python"`
	PlatformsAndVersionsFile string `name:"platforms-and-versions-file" type:"path" help:"File with one name=version per line"`
	TempDir                  string `name:"temp-dir" help:"Directory for the generated setup script"`
}

func (p *PrepCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	if !p.SkipDetection && (p.PlatformsAndVersions != "" || p.PlatformsAndVersionsFile != "") {
		slog.Warn("Platforms and versions are ignored unless --skip-detection is set")
	}

	opts, err := loadOptions(root, SourceFlags{SourceDir: p.SourceDir}, func(o *config.Options) {
		setIf(&o.TempDir, absIf(p.TempDir))
	})
	if err != nil {
		return err
	}
	s, err := newSession(g, build.EnableForPrep(opts))
	if err != nil {
		return err
	}
	defer s.flushMetrics()

	repo, err := sourcerepo.NewLocal(opts.SourceDir)
	if err != nil {
		return err
	}
	_, err = s.service.Prepare(ctx, repo, build.PrepRequest{
		SkipDetection:            p.SkipDetection,
		PlatformsAndVersions:     p.PlatformsAndVersions,
		PlatformsAndVersionsFile: p.PlatformsAndVersionsFile,
	})
	return err
}
