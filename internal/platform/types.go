package platform

import (
	"maps"

	"github.com/nitrek/Oryx/internal/config"
	"github.com/nitrek/Oryx/internal/sourcerepo"
)

// RepositoryContext is created once per invocation and is read-only afterwards.
type RepositoryContext struct {
	SourceRepo  sourcerepo.SourceRepo
	OperationID string
	// Properties are the -p key=value build properties.
	Properties map[string]string
	Options    *config.Options
}

// NewRepositoryContext builds a context whose properties come from opts.
func NewRepositoryContext(repo sourcerepo.SourceRepo, operationID string, opts *config.Options) *RepositoryContext {
	return &RepositoryContext{
		SourceRepo:  repo,
		OperationID: operationID,
		Properties:  maps.Clone(opts.Properties),
		Options:     opts,
	}
}

// Property returns a build property and whether it was supplied.
func (c *RepositoryContext) Property(key string) (string, bool) {
	v, ok := c.Properties[key]
	return v, ok
}

// DetectorResult is what a detector learned about one platform. An empty
// PlatformVersion means the platform applies but declares no version.
type DetectorResult struct {
	Platform             string            `json:"platform"`
	PlatformVersion      string            `json:"version,omitempty"`
	AdditionalProperties map[string]string `json:"properties,omitempty"`
}

// Property returns an additional property or "".
func (r *DetectorResult) Property(key string) string {
	if r == nil || r.AdditionalProperties == nil {
		return ""
	}
	return r.AdditionalProperties[key]
}

// Snippet is one platform's contribution to the build script.
type Snippet struct {
	ScriptText      string
	BuildProperties map[string]string
	// IsFullScript replaces the whole composed script with ScriptText.
	IsFullScript bool
	// CopySourceToDestination asks for the source tree to be copied to the
	// destination after the build.
	CopySourceToDestination bool
}
