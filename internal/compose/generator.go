package compose

import (
	"log/slog"
	"strings"
	"time"

	"github.com/nitrek/Oryx/internal/checkers"
	"github.com/nitrek/Oryx/internal/compat"
	"github.com/nitrek/Oryx/internal/logfields"
	"github.com/nitrek/Oryx/internal/manifest"
	"github.com/nitrek/Oryx/internal/metrics"
	"github.com/nitrek/Oryx/internal/platform"
)

// Result is a generated build script and what went into it.
type Result struct {
	Script   string
	Manifest manifest.Manifest
	Detected []*platform.DetectorResult
	Messages []checkers.Message
}

// Generator runs detection, compatibility, checkers and composition in one
// sequential pass.
type Generator struct {
	registry *platform.Registry
	resolver *compat.Resolver
	checkers []checkers.Checker
	recorder metrics.Recorder
}

func NewGenerator(registry *platform.Registry) *Generator {
	return &Generator{
		registry: registry,
		resolver: compat.NewResolver(registry),
		checkers: checkers.Default(),
		recorder: metrics.NoopRecorder{},
	}
}

// WithRecorder sets the metrics recorder. A nil recorder disables metrics.
func (g *Generator) WithRecorder(rec metrics.Recorder) *Generator {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	g.recorder = rec
	g.resolver.WithRecorder(rec)
	return g
}

// WithCheckers replaces the built-in checkers.
func (g *Generator) WithCheckers(c ...checkers.Checker) *Generator {
	g.checkers = c
	return g
}

// Resolver exposes the detection resolver for commands that only detect.
func (g *Generator) Resolver() *compat.Resolver { return g.resolver }

// Generate produces the build script for the repository.
func (g *Generator) Generate(ctx *platform.RepositoryContext) (*Result, error) {
	start := time.Now()
	defer func() { g.recorder.ObserveStageDuration("generate", time.Since(start)) }()

	// Every detected platform gets its SDK, even one that does not build:
	// a .NET app with a node front end needs both toolchains.
	detected, err := g.resolver.DetectAll(ctx)
	if err != nil {
		return nil, err
	}
	installScript, err := g.InstallScript(ctx, detected)
	if err != nil {
		return nil, err
	}

	tools := make(map[string]string, len(detected))
	for _, r := range detected {
		tools[r.Platform] = r.PlatformVersion
	}

	entries, err := g.resolver.GetCompatiblePlatforms(ctx, detected)
	if err != nil {
		return nil, err
	}
	excludeIntermediate, excludeOutput := compat.Exclusions(ctx, entries)

	snippets := make([]*platform.Snippet, 0, len(entries))
	for _, e := range entries {
		clean := "clean"
		if !e.Platform.IsCleanRepo(ctx.SourceRepo) {
			clean = "not clean"
		}
		slog.Debug("Repository state", logfields.Platform(e.Platform.Name()), logfields.Name(clean))

		snippet, err := e.Platform.GenerateSnippet(ctx, e.Result)
		if err != nil {
			return nil, err
		}
		if snippet == nil {
			slog.Warn("Platform produced no build snippet", logfields.Platform(e.Platform.Name()))
			continue
		}
		slog.Debug("Platform used", logfields.Platform(e.Platform.Name()), logfields.Version(e.Result.PlatformVersion))
		snippets = append(snippets, snippet)
	}

	res := &Result{Detected: detected}
	if ctx.Options.EnableCheckers {
		res.Messages = checkers.Run(ctx.SourceRepo, tools, g.checkers, g.recorder)
	} else {
		slog.Info("Checkers disabled")
	}

	res.Script, res.Manifest, err = Compose(ctx, Input{
		InstallScript:           installScript,
		Snippets:                snippets,
		ToolVersions:            tools,
		ExcludeFromIntermediate: excludeIntermediate,
		ExcludeFromOutput:       excludeOutput,
		Detected:                detected,
	})
	if err != nil {
		g.recorder.IncStageResult("generate", metrics.ResultFatal)
		return nil, err
	}
	g.recorder.IncStageResult("generate", metrics.ResultSuccess)
	return res, nil
}

// InstallScript joins the install snippets of results, skipping platforms
// that need nothing installed.
func (g *Generator) InstallScript(ctx *platform.RepositoryContext, results []*platform.DetectorResult) (string, error) {
	var parts []string
	for _, r := range results {
		p, ok := g.registry.Lookup(r.Platform)
		if !ok {
			continue
		}
		snippet, err := p.InstallSnippet(ctx, r)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(snippet) != "" {
			parts = append(parts, snippet)
		}
	}
	return strings.Join(parts, "\n"), nil
}
