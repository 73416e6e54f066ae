package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/nitrek/Oryx/internal/config"
	oerrors "github.com/nitrek/Oryx/internal/errors"
	"github.com/nitrek/Oryx/internal/sourcerepo"
)

// BuildScriptCmd implements the 'build-script' command.
type BuildScriptCmd struct {
	SourceFlags

	Output      string `short:"o" help:"File to write the script to (default: standard output)"`
	ManifestDir string `name:"manifest-dir" help:"Directory the build manifest is written to"`
}

func (b *BuildScriptCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	opts, err := loadOptions(root, b.SourceFlags, func(o *config.Options) {
		setIf(&o.ManifestDir, absIf(b.ManifestDir))
	})
	if err != nil {
		return err
	}
	s, err := newSession(g, opts)
	if err != nil {
		return err
	}
	defer s.flushMetrics()
	if b.Output == "" {
		// Keep standard output for the script itself.
		s.service.WithOutput(g.Stderr, g.Stderr)
	}

	repo, err := sourcerepo.NewLocal(opts.SourceDir)
	if err != nil {
		return err
	}
	res, err := s.service.GenerateScript(ctx, repo)
	if err != nil {
		return err
	}

	if b.Output == "" {
		_, err = fmt.Fprint(g.Stdout, res.Script)
		return err
	}
	// #nosec G306 -- the script is meant to be executed
	if err := os.WriteFile(b.Output, []byte(res.Script), 0o700); err != nil {
		return oerrors.WorkspaceError("write build script", err)
	}
	_, _ = fmt.Fprintf(g.Stdout, "Script written to '%s'\n", b.Output)
	return nil
}
