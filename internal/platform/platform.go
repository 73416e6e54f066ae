package platform

import "github.com/nitrek/Oryx/internal/sourcerepo"

// Platform is the capability set of one runtime.
type Platform interface {
	Name() string
	SupportedVersions() []string

	// Detect returns nil, nil when the platform does not apply. A returned
	// result carries the resolved version.
	Detect(ctx *RepositoryContext) (*DetectorResult, error)
	// ResolveVersion applies the override hierarchy and catalog matching.
	ResolveVersion(ctx *RepositoryContext, detected string) (string, error)
	// ResolveRequestedVersion matches a version the caller asked for by name,
	// ignoring configured overrides. An empty request uses the default.
	ResolveRequestedVersion(ctx *RepositoryContext, requested string) (string, error)

	IsEnabled(ctx *RepositoryContext) bool
	IsEnabledForMultiPlatformBuild(ctx *RepositoryContext) bool
	IsCleanRepo(repo sourcerepo.SourceRepo) bool

	GenerateSnippet(ctx *RepositoryContext, result *DetectorResult) (*Snippet, error)
	// InstallSnippet returns "" when nothing needs installing.
	InstallSnippet(ctx *RepositoryContext, result *DetectorResult) (string, error)

	ExcludedFromIntermediateDir(ctx *RepositoryContext) []string
	ExcludedFromBuildOutputDir(ctx *RepositoryContext) []string
}

// Aliased is implemented by platforms reachable under extra names.
type Aliased interface {
	Aliases() []string
}
