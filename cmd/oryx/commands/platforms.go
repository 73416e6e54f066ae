package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// PlatformsCmd implements the 'platforms' command.
type PlatformsCmd struct {
	JSON bool `name:"json" help:"Print the result as JSON"`
}

type platformInfo struct {
	Name     string   `json:"name"`
	Versions []string `json:"versions"`
}

func (p *PlatformsCmd) Run(_ context.Context, g *Global, root *CLI) error {
	opts, err := loadOptions(root, SourceFlags{SourceDir: "."}, nil)
	if err != nil {
		return err
	}
	s, err := newSession(g, opts)
	if err != nil {
		return err
	}

	var infos []platformInfo
	for _, pl := range s.registry.All() {
		if !opts.IsPlatformEnabled(pl.Name()) {
			continue
		}
		infos = append(infos, platformInfo{Name: pl.Name(), Versions: pl.SupportedVersions()})
	}

	if p.JSON {
		enc := json.NewEncoder(g.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}
	bold := color.New(color.Bold)
	for _, info := range infos {
		_, _ = bold.Fprintf(g.Stdout, "%s:\n", info.Name)
		_, _ = fmt.Fprintf(g.Stdout, "  Versions: %s\n", strings.Join(info.Versions, ", "))
	}
	return nil
}
