package installer

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/nitrek/Oryx/internal/config"
	oerrors "github.com/nitrek/Oryx/internal/errors"
	"github.com/nitrek/Oryx/internal/logfields"
	"github.com/nitrek/Oryx/internal/metrics"
	"github.com/nitrek/Oryx/internal/templates"
	"github.com/nitrek/Oryx/internal/versions"
)

const (
	// SentinelFileName marks a completed dynamic install.
	SentinelFileName = ".oryx-sdkdownload-sentinel"
	// ChecksumHeaderName carries the archive's sha512 in the storage response.
	ChecksumHeaderName = "x-ms-meta-checksum"
)

// Installer answers install questions against the configured built-in and
// dynamic install roots.
type Installer struct {
	opts     *config.Options
	recorder metrics.Recorder
}

// New returns an Installer. A nil recorder disables metrics.
func New(opts *config.Options, recorder metrics.Recorder) *Installer {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Installer{opts: opts, recorder: recorder}
}

// VersionDir is where a dynamic install of platform/version lives.
func (i *Installer) VersionDir(platform, version string) string {
	return filepath.Join(i.opts.DynamicInstallRootDir, platform, version)
}

// IsInstalled reports whether version is available, either baked into the
// image under the platform's built-in directory or dynamically installed with
// its sentinel present.
func (i *Installer) IsInstalled(platform, version string) bool {
	installed := isVersionInstalled(version,
		i.opts.Platform(platform).BuiltInDir,
		filepath.Join(i.opts.DynamicInstallRootDir, platform))
	i.recorder.IncInstallDecision(platform, installed)
	return installed
}

// InstallSnippet returns the download, verify and extract fragment for
// platform/version. An empty targetDir installs under the dynamic root.
func (i *Installer) InstallSnippet(platform, version, targetDir string) (string, error) {
	baseURL, err := i.storageBaseURL()
	if err != nil {
		return "", err
	}
	if targetDir == "" {
		targetDir = i.VersionDir(platform, version)
	}
	slog.Debug("Generating SDK install snippet",
		logfields.Platform(platform), logfields.Version(version), logfields.Path(targetDir))

	return templates.Render(templates.PlatformInstall, templates.InstallProps{
		PlatformName:       platform,
		Version:            version,
		DirectoryToInstall: targetDir,
		BaseURL:            baseURL,
		ChecksumHeader:     ChecksumHeaderName,
		SentinelFileName:   SentinelFileName,
	})
}

func (i *Installer) storageBaseURL() (string, error) {
	base := strings.TrimSpace(i.opts.SdkStorageBaseURL)
	if base == "" {
		return "", oerrors.ConfigurationMissing(config.EnvSdkStorageBaseURL)
	}
	return strings.TrimRight(base, "/"), nil
}

// isVersionInstalled checks the built-in directory first, where presence is
// enough, then the dynamic directory, where the sentinel is required.
func isVersionInstalled(version, builtInDir, dynamicDir string) bool {
	if _, ok := findVersionDir(builtInDir, version); ok {
		return true
	}
	dir, ok := findVersionDir(dynamicDir, version)
	if !ok {
		return false
	}
	_, err := os.Stat(filepath.Join(dir, SentinelFileName))
	return err == nil
}

// findVersionDir matches version against the directory names under root,
// ignoring case.
func findVersionDir(root, version string) (string, bool) {
	if root == "" || version == "" {
		return "", false
	}
	names, err := versions.FromDirectory(root)
	if err != nil {
		slog.Debug("Could not list install directory", logfields.Path(root), logfields.Error(err))
		return "", false
	}
	for _, name := range names {
		if strings.EqualFold(name, version) {
			return filepath.Join(root, name), true
		}
	}
	return "", false
}
