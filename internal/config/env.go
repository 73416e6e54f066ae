package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment and build.env keys.
const (
	EnvPlatformName             = "PLATFORM_NAME"
	EnvPlatformVersion          = "PLATFORM_VERSION"
	EnvEnableMultiPlatformBuild = "ENABLE_MULTIPLATFORM_BUILD"
	EnvDisableCheckers          = "DISABLE_CHECKERS"
	EnvEnableDynamicInstall     = "ENABLE_DYNAMIC_INSTALL"
	EnvDynamicInstallRootDir    = "DYNAMIC_INSTALL_ROOT_DIR"
	EnvSdkStorageBaseURL        = "ORYX_SDK_STORAGE_BASE_URL"
	EnvPreBuildCommand          = "PRE_BUILD_COMMAND"
	EnvPreBuildScriptPath       = "PRE_BUILD_SCRIPT_PATH"
	EnvPostBuildCommand         = "POST_BUILD_COMMAND"
	EnvPostBuildScriptPath      = "POST_BUILD_SCRIPT_PATH"
	EnvRequiredOsPackages       = "REQUIRED_OS_PACKAGES"
	EnvAppType                  = "ORYX_APP_TYPE"
	EnvMetricsFile              = "ORYX_METRICS_FILE"
	EnvSourceCommitID           = "SCM_COMMIT_ID"
)

// per-platform keys: explicit version override and disable switch.
var platformEnvKeys = map[string]struct {
	version string
	disable string
}{
	PlatformDotNet: {"DOTNET_VERSION", "DISABLE_DOTNETCORE_BUILD"},
	PlatformNodeJS: {"NODE_VERSION", "DISABLE_NODEJS_BUILD"},
	PlatformPython: {"PYTHON_VERSION", "DISABLE_PYTHON_BUILD"},
	PlatformPHP:    {"PHP_VERSION", "DISABLE_PHP_BUILD"},
	PlatformHugo:   {"HUGO_VERSION", "DISABLE_HUGO_BUILD"},
}

// EnvironMap converts os.Environ() style entries into a map.
func EnvironMap(environ []string) map[string]string {
	out := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		out[k] = v
	}
	return out
}

// ReadBuildEnvFile parses the optional build.env file at the root of the source
// directory. A missing file yields an empty map.
func ReadBuildEnvFile(sourceDir string) (map[string]string, error) {
	if sourceDir == "" {
		return map[string]string{}, nil
	}
	path := filepath.Join(sourceDir, BuildEnvironmentFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	values, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return values, nil
}

// applyEnv overlays key/value settings (from build.env or the process
// environment) onto opts. Unknown keys are ignored.
func applyEnv(opts *Options, env map[string]string) error {
	str := func(key string, dst *string) {
		if v, ok := env[key]; ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	boolean := func(key string, apply func(bool)) error {
		v, ok := env[key]
		if !ok || strings.TrimSpace(v) == "" {
			return nil
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q", key, v)
		}
		apply(b)
		return nil
	}

	str(EnvPlatformName, &opts.PlatformName)
	str(EnvPlatformVersion, &opts.PlatformVersion)
	str(EnvDynamicInstallRootDir, &opts.DynamicInstallRootDir)
	str(EnvSdkStorageBaseURL, &opts.SdkStorageBaseURL)
	str(EnvPreBuildCommand, &opts.PreBuildCommand)
	str(EnvPreBuildScriptPath, &opts.PreBuildScriptPath)
	str(EnvPostBuildCommand, &opts.PostBuildCommand)
	str(EnvPostBuildScriptPath, &opts.PostBuildScriptPath)
	str(EnvAppType, &opts.AppType)
	str(EnvMetricsFile, &opts.MetricsFile)
	str(EnvSourceCommitID, &opts.SourceCommitID)

	if v, ok := env[EnvRequiredOsPackages]; ok && strings.TrimSpace(v) != "" {
		opts.RequiredOsPackages = SplitList(v)
	}

	if err := boolean(EnvEnableMultiPlatformBuild, func(b bool) { opts.EnableMultiPlatformBuild = b }); err != nil {
		return err
	}
	if err := boolean(EnvDisableCheckers, func(b bool) { opts.EnableCheckers = !b }); err != nil {
		return err
	}
	if err := boolean(EnvEnableDynamicInstall, func(b bool) { opts.EnableDynamicInstall = b }); err != nil {
		return err
	}

	for name, keys := range platformEnvKeys {
		if v, ok := env[keys.version]; ok && strings.TrimSpace(v) != "" {
			version := strings.TrimSpace(v)
			opts.updatePlatform(name, func(p *PlatformOptions) { p.Version = version })
		}
		platform := name
		if err := boolean(keys.disable, func(b bool) {
			opts.updatePlatform(platform, func(p *PlatformOptions) { p.Disabled = b })
		}); err != nil {
			return err
		}
	}
	return nil
}

// SplitList splits a comma separated list, trimming blanks and dropping empties.
func SplitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
