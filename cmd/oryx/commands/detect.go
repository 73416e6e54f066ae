package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"

	"github.com/nitrek/Oryx/internal/compat"
	oerrors "github.com/nitrek/Oryx/internal/errors"
	"github.com/nitrek/Oryx/internal/sourcerepo"
)

// NoPlatformDetectedMessage is printed when no detector matches.
const NoPlatformDetectedMessage = "Could not detect any platform in the source directory."

// DetectCmd implements the 'detect' command.
type DetectCmd struct {
	SourceFlags

	JSON bool `name:"json" help:"Print the result as JSON"`
}

type detectedPlatform struct {
	Platform   string            `json:"platform"`
	Version    string            `json:"version,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
	Error      string            `json:"error,omitempty"`
}

func (d *DetectCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	opts, err := loadOptions(root, d.SourceFlags, nil)
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
	_, rc := s.service.NewContext(ctx, repo)
	outcomes := compat.NewResolver(s.registry).WithRecorder(s.recorder).DetectEach(rc)

	rows, firstErr := detectedRows(outcomes)
	if d.JSON {
		enc := json.NewEncoder(g.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rows); err != nil {
			return err
		}
	} else {
		printDetected(g.Stdout, rows)
	}

	if firstErr != nil {
		return firstErr
	}
	if len(rows) == 0 {
		return oerrors.UnsupportedPlatform(NoPlatformDetectedMessage)
	}
	return nil
}

func detectedRows(outcomes []compat.Outcome) ([]detectedPlatform, error) {
	rows := make([]detectedPlatform, 0, len(outcomes))
	var firstErr error
	for _, o := range outcomes {
		row := detectedPlatform{Platform: o.Platform}
		if o.Result != nil {
			row.Version = o.Result.PlatformVersion
			row.Properties = o.Result.AdditionalProperties
		}
		if o.Err != nil {
			row.Error = o.Err.Error()
			if oe, ok := oerrors.As(o.Err); ok {
				row.Error = oe.Message
			}
			if firstErr == nil {
				firstErr = o.Err
			}
		}
		rows = append(rows, row)
	}
	return rows, firstErr
}

func printDetected(w io.Writer, rows []detectedPlatform) {
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(w, NoPlatformDetectedMessage)
		return
	}
	bold := color.New(color.Bold)
	failed := color.New(color.FgRed)
	_, _ = fmt.Fprintln(w, "Detected following platforms:")
	for _, r := range rows {
		_, _ = bold.Fprintf(w, "  %s: ", r.Platform)
		if r.Error != "" {
			_, _ = failed.Fprintln(w, r.Error)
			continue
		}
		_, _ = fmt.Fprintln(w, r.Version)
		keys := make([]string, 0, len(r.Properties))
		for k := range r.Properties {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			_, _ = fmt.Fprintf(w, "    %s: %s\n", k, r.Properties[k])
		}
	}
}
