package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/nitrek/Oryx/internal/build"
	"github.com/nitrek/Oryx/internal/config"
	oerrors "github.com/nitrek/Oryx/internal/errors"
	"github.com/nitrek/Oryx/internal/installer"
	"github.com/nitrek/Oryx/internal/logfields"
	"github.com/nitrek/Oryx/internal/metrics"
	"github.com/nitrek/Oryx/internal/platform"
	"github.com/nitrek/Oryx/internal/platform/builtin"
)

// DefaultConfigFile is read when present; a missing default file is not an error.
const DefaultConfigFile = "oryx.yaml"

// EnvLogLevel overrides the level chosen by --verbose.
const EnvLogLevel = "ORYX_LOG_LEVEL"

// Global carries the console streams shared by every subcommand.
type Global struct {
	Stdout io.Writer
	Stderr io.Writer
}

// CLI definition & global flags.
type CLI struct {
	Config      string           `short:"c" help:"Configuration file path" default:"oryx.yaml"`
	Verbose     bool             `short:"v" help:"Enable verbose logging"`
	ShowVersion kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build       BuildCmd       `cmd:"" help:"Generate and run a build script for the source directory"`
	BuildScript BuildScriptCmd `cmd:"" name:"build-script" help:"Generate the build script without running it"`
	Prep        PrepCmd        `cmd:"" help:"Install the SDKs the source directory needs"`
	Detect      DetectCmd      `cmd:"" help:"Detect platforms and versions used by the source directory"`
	Platforms   PlatformsCmd   `cmd:"" help:"List the supported platforms and their versions"`
	Version     VersionCmd     `cmd:"" help:"Print version information"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLogLevel(c.Verbose)}))
	slog.SetDefault(logger)
	return nil
}

// parseLogLevel picks debug for --verbose; ORYX_LOG_LEVEL wins when set.
func parseLogLevel(verbose bool) slog.Level {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	switch strings.ToLower(strings.TrimSpace(os.Getenv(EnvLogLevel))) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return level
}

// SourceFlags are shared by every command that reads a source directory.
type SourceFlags struct {
	SourceDir       string   `arg:"" optional:"" type:"path" default:"." help:"Source directory"`
	Platform        string   `name:"platform" help:"Platform to build (skips detection for the others)"`
	PlatformVersion string   `name:"platform-version" help:"Version of the platform given with --platform"`
	Properties      []string `short:"p" name:"property" sep:"none" help:"Build property as key=value"`
	AppType         string   `name:"apptype" help:"Application type: functions or static-sites"`
}

// loadOptions layers the config file, build.env, the environment and flags.
func loadOptions(root *CLI, src SourceFlags, apply func(*config.Options)) (*config.Options, error) {
	sourceDir, err := filepath.Abs(src.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("resolve source directory: %w", err)
	}

	opts, err := config.Load(config.LoadRequest{
		ConfigPath: root.Config,
		Required:   root.Config != DefaultConfigFile,
		SourceDir:  sourceDir,
		Environ:    config.EnvironMap(os.Environ()),
	})
	if err != nil {
		return nil, err
	}

	setIf(&opts.PlatformName, src.Platform)
	setIf(&opts.PlatformVersion, src.PlatformVersion)
	setIf(&opts.AppType, src.AppType)
	props, err := ParseProperties(src.Properties)
	if err != nil {
		return nil, err
	}
	for k, v := range props {
		opts.Properties[k] = v
	}
	if apply != nil {
		apply(opts)
	}

	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

// ParseProperties parses key=value build properties. A missing '=' gives an
// empty value; surrounding double quotes are removed from the value.
func ParseProperties(raw []string) (map[string]string, error) {
	out := make(map[string]string, len(raw))
	for _, p := range raw {
		key, value, _ := strings.Cut(p, "=")
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, oerrors.InvalidUsage(fmt.Sprintf("invalid build property '%s', expected key=value", p))
		}
		out[key] = strings.Trim(strings.TrimSpace(value), `"`)
	}
	return out, nil
}

func absIf(p string) string {
	if p == "" {
		return ""
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// session is everything a command needs once options are final.
type session struct {
	opts     *config.Options
	registry *platform.Registry
	service  *build.DefaultBuildService
	recorder metrics.Recorder

	promRegistry *prom.Registry
}

func newSession(g *Global, opts *config.Options) (*session, error) {
	rt := &session{opts: opts, recorder: metrics.NoopRecorder{}}
	if opts.MetricsFile != "" {
		rt.promRegistry = prom.NewRegistry()
		rt.recorder = metrics.NewPrometheusRecorder(rt.promRegistry)
	}

	registry, err := builtin.NewRegistry(opts, installer.New(opts, rt.recorder))
	if err != nil {
		return nil, err
	}
	rt.registry = registry
	rt.service = build.NewBuildService(opts, registry).
		WithRecorder(rt.recorder).
		WithOutput(g.Stdout, g.Stderr)
	return rt, nil
}

// flushMetrics writes the metrics textfile when one was requested.
func (rt *session) flushMetrics() {
	if rt.promRegistry == nil {
		return
	}
	if err := metrics.WriteTextfile(rt.opts.MetricsFile, rt.promRegistry); err != nil {
		slog.Warn("Failed to write metrics", logfields.Path(rt.opts.MetricsFile), logfields.Error(err))
	}
}
