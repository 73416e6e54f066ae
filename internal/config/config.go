package config

import (
	"maps"
	"slices"
	"strings"
)

// Platform names as they appear in configuration keys, manifests and the
// platforms-and-versions syntax.
const (
	PlatformDotNet = "dotnet"
	PlatformNodeJS = "nodejs"
	PlatformPython = "python"
	PlatformPHP    = "php"
	PlatformHugo   = "hugo"
)

// Default values applied before any source is read.
const (
	DefaultConfigFile            = "oryx.yaml"
	DefaultDynamicInstallRootDir = "/tmp/oryx/platforms"
	BuildEnvironmentFileName     = "build.env"
	DefaultBuiltInRoot           = "/opt"
)

// App types accepted by Validate.
const (
	AppTypeFunctions   = "functions"
	AppTypeStaticSites = "static-sites"
)

// Options is the single, immutable configuration snapshot for one invocation.
// It is built by Load, adjusted by CLI flags, validated once and then passed by
// pointer to every component. No component reads the environment itself.
type Options struct {
	SourceDir       string
	DestinationDir  string
	IntermediateDir string
	ManifestDir     string
	TempDir         string
	// Force lets the build replace a non-empty destination directory.
	Force bool

	// Explicit platform request (PLATFORM_NAME / PLATFORM_VERSION or --platform).
	PlatformName    string
	PlatformVersion string

	// Build properties supplied with -p key=value.
	Properties map[string]string

	AppType string

	EnableMultiPlatformBuild bool
	EnableCheckers           bool
	EnableDynamicInstall     bool
	DynamicInstallRootDir    string
	SdkStorageBaseURL        string

	PreBuildCommand     string
	PreBuildScriptPath  string
	PostBuildCommand    string
	PostBuildScriptPath string

	RequiredOsPackages []string

	// SourceCommitID comes from SCM_COMMIT_ID; the build falls back to git HEAD.
	SourceCommitID string

	MetricsFile string

	Platforms map[string]PlatformOptions
}

// PlatformOptions carries per-platform switches and catalog overrides.
type PlatformOptions struct {
	Disabled bool `yaml:"disabled"`
	// Version is the explicit user override (e.g. PYTHON_VERSION).
	Version           string   `yaml:"version"`
	DefaultVersion    string   `yaml:"default_version"`
	SupportedVersions []string `yaml:"supported_versions"`
	BuiltInDir        string   `yaml:"built_in_dir"`
}

// Defaults returns Options with every default applied.
func Defaults() *Options {
	opts := &Options{
		EnableCheckers:        true,
		DynamicInstallRootDir: DefaultDynamicInstallRootDir,
		Properties:            map[string]string{},
		Platforms:             map[string]PlatformOptions{},
	}
	for _, name := range KnownPlatforms() {
		opts.Platforms[name] = PlatformOptions{BuiltInDir: DefaultBuiltInRoot + "/" + name}
	}
	return opts
}

// KnownPlatforms lists the built-in platform names in registration order.
func KnownPlatforms() []string {
	return []string{PlatformDotNet, PlatformNodeJS, PlatformPython, PlatformPHP, PlatformHugo}
}

// Platform returns the options for a platform, zero valued when unknown.
func (o *Options) Platform(name string) PlatformOptions {
	if o == nil || o.Platforms == nil {
		return PlatformOptions{}
	}
	return o.Platforms[strings.ToLower(name)]
}

// IsPlatformEnabled reports whether builds for the platform are allowed.
func (o *Options) IsPlatformEnabled(name string) bool {
	return !o.Platform(name).Disabled
}

// Property returns a build property and whether it was supplied at all.
// A property supplied with an empty value is still reported as present.
func (o *Options) Property(key string) (string, bool) {
	if o == nil || o.Properties == nil {
		return "", false
	}
	v, ok := o.Properties[key]
	return v, ok
}

// Clone returns a deep copy so callers can derive per-command variants.
func (o *Options) Clone() *Options {
	c := *o
	c.Properties = maps.Clone(o.Properties)
	c.RequiredOsPackages = slices.Clone(o.RequiredOsPackages)
	c.Platforms = make(map[string]PlatformOptions, len(o.Platforms))
	for k, v := range o.Platforms {
		v.SupportedVersions = slices.Clone(v.SupportedVersions)
		c.Platforms[k] = v
	}
	return &c
}

func (o *Options) updatePlatform(name string, fn func(*PlatformOptions)) {
	if o.Platforms == nil {
		o.Platforms = map[string]PlatformOptions{}
	}
	name = strings.ToLower(name)
	p := o.Platforms[name]
	fn(&p)
	o.Platforms[name] = p
}
