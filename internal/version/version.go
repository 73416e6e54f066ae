package version

import "fmt"

// Version contains the application version information.
// This should be set via build-time ldflags in production:
// go build -ldflags "-X github.com/nitrek/Oryx/internal/version.Version=v0.4.0".
var Version = "unknown"

// BuildInfo contains additional build metadata.
var (
	BuildTime  = "unknown"
	GitCommit  = "unknown"
	ReleaseTag = "unknown"
)

// String renders the build info the way the version command prints it.
func String() string {
	return fmt.Sprintf("Version: %s, Commit: %s, ReleaseTagName: %s, BuildTime: %s",
		Version, GitCommit, ReleaseTag, BuildTime)
}
