package platform

import (
	"log/slog"
	"strings"

	"github.com/nitrek/Oryx/internal/config"
	"github.com/nitrek/Oryx/internal/installer"
	"github.com/nitrek/Oryx/internal/logfields"
	"github.com/nitrek/Oryx/internal/sourcerepo"
	"github.com/nitrek/Oryx/internal/versions"
)

// Base carries what every platform shares. Concrete platforms embed it and
// override the methods whose behavior differs.
type Base struct {
	PlatformName string
	Options      *config.Options
	Catalog      versions.Catalog
	Installer    *installer.Installer
}

func (b *Base) Name() string { return b.PlatformName }

func (b *Base) SupportedVersions() []string {
	return append([]string(nil), b.Catalog.Supported...)
}

func (b *Base) IsEnabled(*RepositoryContext) bool {
	return b.Options.IsPlatformEnabled(b.PlatformName)
}

func (b *Base) IsEnabledForMultiPlatformBuild(*RepositoryContext) bool { return true }

func (b *Base) IsCleanRepo(sourcerepo.SourceRepo) bool { return true }

func (b *Base) ExcludedFromIntermediateDir(*RepositoryContext) []string { return nil }

func (b *Base) ExcludedFromBuildOutputDir(*RepositoryContext) []string { return nil }

// ExplicitVersion is the user override for this platform. A version given
// together with the matching platform name wins over the per-platform
// setting.
func (b *Base) ExplicitVersion() string {
	o := b.Options
	if o.PlatformVersion != "" && strings.EqualFold(o.PlatformName, b.PlatformName) {
		return o.PlatformVersion
	}
	return o.Platform(b.PlatformName).Version
}

// ResolveVersion picks the explicit override, then the detected version, then
// the catalog default, and matches the winner against the catalog.
func (b *Base) ResolveVersion(ctx *RepositoryContext, detected string) (string, error) {
	return b.ResolveRequestedVersion(ctx, versions.Pick(b.ExplicitVersion(), detected))
}

func (b *Base) ResolveRequestedVersion(_ *RepositoryContext, requested string) (string, error) {
	requested = versions.Pick(requested, b.Catalog.Default)
	resolved, err := versions.Resolve(requested, b.Catalog)
	if err != nil {
		return "", err
	}
	slog.Debug("Resolved platform version",
		logfields.Platform(b.PlatformName), logfields.Requested(requested), logfields.Version(resolved))
	return resolved, nil
}

// InstallSnippet installs result's version into the dynamic root when dynamic
// install is on and the version is not present yet.
func (b *Base) InstallSnippet(_ *RepositoryContext, result *DetectorResult) (string, error) {
	if !b.Options.EnableDynamicInstall {
		slog.Debug("Dynamic install not enabled", logfields.Platform(b.PlatformName))
		return "", nil
	}
	if b.Installer.IsInstalled(b.PlatformName, result.PlatformVersion) {
		slog.Debug("Version already installed, skipping install",
			logfields.Platform(b.PlatformName), logfields.Version(result.PlatformVersion))
		return "", nil
	}
	return b.Installer.InstallSnippet(b.PlatformName, result.PlatformVersion, "")
}

// Resolved copies result with its version resolved.
func (b *Base) Resolved(ctx *RepositoryContext, result *DetectorResult) (*DetectorResult, error) {
	if result == nil {
		return nil, nil
	}
	v, err := b.ResolveVersion(ctx, result.PlatformVersion)
	if err != nil {
		return nil, err
	}
	out := *result
	out.PlatformVersion = v
	return &out, nil
}
