package python

import (
	"log/slog"
	"strings"

	"github.com/nitrek/Oryx/internal/config"
	"github.com/nitrek/Oryx/internal/logfields"
	"github.com/nitrek/Oryx/internal/platform"
	"github.com/nitrek/Oryx/internal/sourcerepo"
)

const (
	RequirementsFileName = "requirements.txt"
	RuntimeFileName      = "runtime.txt"
	runtimeVersionPrefix = "python-"
)

// Detector recognizes Python apps: a requirements.txt together with either a
// root level .py file or a runtime.txt naming python.
type Detector struct{}

func (Detector) Detect(repo sourcerepo.SourceRepo) (*platform.DetectorResult, error) {
	if !repo.FileExists(RequirementsFileName) {
		slog.Debug("No requirements.txt at the root", logfields.Platform(config.PlatformPython))
		return nil, nil
	}

	pyFiles, err := repo.EnumerateFiles("*.py", false)
	if err != nil {
		return nil, err
	}
	if len(pyFiles) == 0 && !runtimeFileNamesPython(repo) {
		return nil, nil
	}

	return &platform.DetectorResult{
		Platform:        config.PlatformPython,
		PlatformVersion: runtimeVersion(repo),
	}, nil
}

func runtimeFileNamesPython(repo sourcerepo.SourceRepo) bool {
	if !repo.FileExists(RuntimeFileName) {
		return false
	}
	text, err := repo.ReadFile(RuntimeFileName)
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(text), "python")
}

// runtimeVersion reads "python-X.Y[.Z]" from runtime.txt. Anything else
// declares no version.
func runtimeVersion(repo sourcerepo.SourceRepo) string {
	if !repo.FileExists(RuntimeFileName) {
		return ""
	}
	text, err := repo.ReadFile(RuntimeFileName)
	if err != nil {
		slog.Warn("Could not read runtime.txt", logfields.Error(err))
		return ""
	}
	line, _, _ := strings.Cut(strings.TrimSpace(text), "\n")
	v, ok := strings.CutPrefix(strings.TrimSpace(line), runtimeVersionPrefix)
	if !ok {
		return ""
	}
	return strings.TrimSpace(v)
}
