package config

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	oerrors "github.com/nitrek/Oryx/internal/errors"
	"github.com/nitrek/Oryx/internal/logfields"
)

// fileConfig is the on-disk YAML shape. Pointers distinguish "unset" from
// an explicit false so file values only override defaults they mention.
type fileConfig struct {
	MultiPlatformBuild *bool    `yaml:"multi_platform_build"`
	Checkers           *bool    `yaml:"checkers"`
	AppType            string   `yaml:"app_type"`
	ManifestDir        string   `yaml:"manifest_dir"`
	RequiredOsPackages []string `yaml:"required_os_packages"`
	MetricsFile        string   `yaml:"metrics_file"`

	DynamicInstall struct {
		Enabled           *bool  `yaml:"enabled"`
		RootDir           string `yaml:"root_dir"`
		SdkStorageBaseURL string `yaml:"sdk_storage_base_url"`
	} `yaml:"dynamic_install"`

	PreBuild  hookConfig `yaml:"pre_build"`
	PostBuild hookConfig `yaml:"post_build"`

	Platforms map[string]PlatformOptions `yaml:"platforms"`
}

type hookConfig struct {
	Command    string `yaml:"command"`
	ScriptPath string `yaml:"script_path"`
}

// LoadRequest names the sources Load reads.
type LoadRequest struct {
	// ConfigPath is optional; a missing file is only an error when Required is set.
	ConfigPath string
	Required   bool
	// SourceDir is where build.env is looked up.
	SourceDir string
	// Environ is the process environment (see EnvironMap).
	Environ map[string]string
}

// Load builds Options from defaults, the YAML file, build.env and the
// environment, in that order of increasing precedence.
func Load(req LoadRequest) (*Options, error) {
	opts := Defaults()
	opts.SourceDir = req.SourceDir

	if req.ConfigPath != "" {
		if err := applyFile(opts, req.ConfigPath, req.Required); err != nil {
			return nil, err
		}
	}

	buildEnv, err := ReadBuildEnvFile(req.SourceDir)
	if err != nil {
		return nil, err
	}
	if len(buildEnv) > 0 {
		slog.Debug("Loaded build environment file", logfields.Path(req.SourceDir), logfields.Count(len(buildEnv)))
	}
	if err := applyEnv(opts, buildEnv); err != nil {
		return nil, fmt.Errorf("%s: %w", BuildEnvironmentFileName, err)
	}
	if err := applyEnv(opts, req.Environ); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}
	return opts, nil
}

func applyFile(opts *Options, path string, required bool) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if required {
			return oerrors.ConfigNotFound(path)
		}
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expanded := os.ExpandEnv(string(data))

	var fc fileConfig
	if err := yaml.Unmarshal([]byte(expanded), &fc); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if fc.MultiPlatformBuild != nil {
		opts.EnableMultiPlatformBuild = *fc.MultiPlatformBuild
	}
	if fc.Checkers != nil {
		opts.EnableCheckers = *fc.Checkers
	}
	if fc.DynamicInstall.Enabled != nil {
		opts.EnableDynamicInstall = *fc.DynamicInstall.Enabled
	}
	setIf(&opts.DynamicInstallRootDir, fc.DynamicInstall.RootDir)
	setIf(&opts.SdkStorageBaseURL, fc.DynamicInstall.SdkStorageBaseURL)
	setIf(&opts.AppType, fc.AppType)
	setIf(&opts.ManifestDir, fc.ManifestDir)
	setIf(&opts.MetricsFile, fc.MetricsFile)
	setIf(&opts.PreBuildCommand, fc.PreBuild.Command)
	setIf(&opts.PreBuildScriptPath, fc.PreBuild.ScriptPath)
	setIf(&opts.PostBuildCommand, fc.PostBuild.Command)
	setIf(&opts.PostBuildScriptPath, fc.PostBuild.ScriptPath)
	if len(fc.RequiredOsPackages) > 0 {
		opts.RequiredOsPackages = fc.RequiredOsPackages
	}

	for name, p := range fc.Platforms {
		opts.updatePlatform(name, func(dst *PlatformOptions) {
			dst.Disabled = p.Disabled
			setIf(&dst.Version, p.Version)
			setIf(&dst.DefaultVersion, p.DefaultVersion)
			setIf(&dst.BuiltInDir, p.BuiltInDir)
			if len(p.SupportedVersions) > 0 {
				dst.SupportedVersions = p.SupportedVersions
			}
		})
	}
	return nil
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
