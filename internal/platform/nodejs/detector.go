package nodejs

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/nitrek/Oryx/internal/config"
	"github.com/nitrek/Oryx/internal/logfields"
	"github.com/nitrek/Oryx/internal/platform"
	"github.com/nitrek/Oryx/internal/sourcerepo"
)

const (
	PackageJSONFileName = "package.json"
	YarnLockFileName    = "yarn.lock"
)

// Files whose presence marks a Node app when there is no package.json.
var startupFiles = []string{"server.js", "app.js"}

// IIS default documents. A repo carrying one of these and no package.json is
// served by IIS, not Node.
var iisStartupFiles = []string{
	"default.htm", "default.html", "default.asp",
	"index.htm", "index.html", "iisstart.htm",
	"default.aspx", "index.php",
}

// PackageJSON is the subset of package.json the build reads.
type PackageJSON struct {
	Engines struct {
		Node string `json:"node"`
		Npm  string `json:"npm"`
	} `json:"engines"`
	Scripts map[string]string `json:"scripts"`
}

// ReadPackageJSON parses package.json at the repo root. It returns nil when
// the file is absent or malformed.
func ReadPackageJSON(repo sourcerepo.SourceRepo) *PackageJSON {
	if !repo.FileExists(PackageJSONFileName) {
		return nil
	}
	text, err := repo.ReadFile(PackageJSONFileName)
	if err != nil {
		slog.Warn("Could not read package.json", logfields.Error(err))
		return nil
	}
	var pkg PackageJSON
	if err := json.Unmarshal([]byte(text), &pkg); err != nil {
		slog.Warn("Malformed package.json, ignoring declared versions",
			logfields.File(PackageJSONFileName), logfields.Error(err))
		return nil
	}
	return &pkg
}

// Detector recognizes Node apps from root level files only.
type Detector struct{}

func (Detector) Detect(repo sourcerepo.SourceRepo) (*platform.DetectorResult, error) {
	hasPackageJSON := repo.FileExists(PackageJSONFileName)
	if !hasPackageJSON {
		found := false
		for _, f := range startupFiles {
			if repo.FileExists(f) {
				found = true
				break
			}
		}
		if !found {
			return nil, nil
		}
		for _, f := range iisStartupFiles {
			if repo.FileExists(f) {
				slog.Debug("IIS startup file present, not a Node app", logfields.File(f))
				return nil, nil
			}
		}
	}

	result := &platform.DetectorResult{Platform: config.PlatformNodeJS}
	if pkg := ReadPackageJSON(repo); pkg != nil {
		result.PlatformVersion = strings.TrimSpace(pkg.Engines.Node)
	}
	return result, nil
}
