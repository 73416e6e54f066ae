package sourcerepo

import "errors"

// ErrNotGitRepository is returned by GitCommitID when the tree carries no
// git metadata.
var ErrNotGitRepository = errors.New("source directory is not a git repository")

// SourceRepo is a read-only view of a source tree. Paths are relative to
// RootPath and use forward slashes.
type SourceRepo interface {
	RootPath() string
	FileExists(path ...string) bool
	DirExists(path ...string) bool
	ReadFile(path ...string) (string, error)
	ReadAllLines(path ...string) ([]string, error)
	// EnumerateFiles returns relative paths whose base name matches the glob
	// pattern. Without recursive only the root directory is searched.
	EnumerateFiles(pattern string, recursive bool) ([]string, error)
	GitCommitID() (string, error)
}
