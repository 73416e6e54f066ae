package commands

import (
	"context"

	"github.com/nitrek/Oryx/internal/config"
	"github.com/nitrek/Oryx/internal/sourcerepo"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	SourceFlags

	Output       string `short:"o" help:"Destination directory for the build output (default: build in place)"`
	Force        bool   `short:"f" help:"Replace the content of a non-empty destination directory"`
	Intermediate string `short:"i" name:"intermediate-dir" help:"Directory the source is copied to before building"`
	ManifestDir  string `name:"manifest-dir" help:"Directory the build manifest is written to (default: output)"`
	TempDir      string `name:"temp-dir" help:"Directory for generated scripts; kept after the build"`
}

func (b *BuildCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	opts, err := loadOptions(root, b.SourceFlags, func(o *config.Options) {
		setIf(&o.DestinationDir, absIf(b.Output))
		setIf(&o.IntermediateDir, absIf(b.Intermediate))
		setIf(&o.ManifestDir, absIf(b.ManifestDir))
		setIf(&o.TempDir, absIf(b.TempDir))
		o.Force = o.Force || b.Force
	})
	if err != nil {
		return err
	}
	s, err := newSession(g, opts)
	if err != nil {
		return err
	}
	defer s.flushMetrics()

	repo, err := sourcerepo.NewLocal(opts.SourceDir)
	if err != nil {
		return err
	}
	_, err = s.service.Build(ctx, repo)
	return err
}
