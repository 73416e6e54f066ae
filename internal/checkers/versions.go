package checkers

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/nitrek/Oryx/internal/config"
	"github.com/nitrek/Oryx/internal/sourcerepo"
)

const nodeOldestSupportedMajor = 12

// NodeVersionChecker warns about Node.js versions past end of life.
type NodeVersionChecker struct{}

func (NodeVersionChecker) Name() string { return "node-version" }

func (NodeVersionChecker) Applies(tools map[string]string) bool {
	_, ok := tools[config.PlatformNodeJS]
	return ok
}

func (NodeVersionChecker) CheckSourceRepo(sourcerepo.SourceRepo) []Message { return nil }

func (NodeVersionChecker) CheckToolVersions(tools map[string]string) []Message {
	v, ok := parse(tools[config.PlatformNodeJS])
	if !ok || v.Major() >= nodeOldestSupportedMajor {
		return nil
	}
	return []Message{{
		Level: LevelWarning,
		Content: fmt.Sprintf("An outdated version of Node.js was detected (%s). "+
			"Versions older than %d.x are end of life; consider updating.", v.Original(), nodeOldestSupportedMajor),
	}}
}

// PythonVersionChecker warns about Python 2.
type PythonVersionChecker struct{}

func (PythonVersionChecker) Name() string { return "python-version" }

func (PythonVersionChecker) Applies(tools map[string]string) bool {
	_, ok := tools[config.PlatformPython]
	return ok
}

func (PythonVersionChecker) CheckSourceRepo(sourcerepo.SourceRepo) []Message { return nil }

func (PythonVersionChecker) CheckToolVersions(tools map[string]string) []Message {
	v, ok := parse(tools[config.PlatformPython])
	if !ok || v.Major() != 2 {
		return nil
	}
	return []Message{{
		Level:   LevelWarning,
		Content: fmt.Sprintf("Python %s is end of life; consider moving to Python 3.", v.Original()),
	}}
}

func parse(raw string) (*semver.Version, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false
	}
	v, err := semver.NewVersion(raw)
	if err != nil {
		return nil, false
	}
	return v, true
}
