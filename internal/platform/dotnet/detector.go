package dotnet

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
	GlobalJSONFileName = "global.json"

	// Detector result properties.
	ProjectFileProperty = "projectFile"
	SdkVersionProperty  = "sdkVersion"
)

var targetFrameworkVersions = map[string]string{
	"netcoreapp1.0": "1.1",
	"netcoreapp1.1": "1.1",
	"netcoreapp2.0": "2.1",
	"netcoreapp2.1": "2.1",
	"netcoreapp2.2": "2.2",
	"netcoreapp3.0": "3.0",
	"netcoreapp3.1": "3.1",
	"net5.0":        "5.0",
}

// RuntimeVersionFor maps a target framework moniker to a runtime line.
func RuntimeVersionFor(tfm string) (string, bool) {
	v, ok := targetFrameworkVersions[strings.ToLower(strings.TrimSpace(tfm))]
	return v, ok
}

// Detector recognizes .NET Core projects.
type Detector struct{}

func (Detector) Detect(repo sourcerepo.SourceRepo) (*platform.DetectorResult, error) {
	rel, err := FindProjectFile(repo)
	if err != nil {
		return nil, err
	}
	if rel == "" {
		return nil, nil
	}

	project, err := parseProject(repo, rel)
	if err != nil {
		slog.Warn("Could not parse project file", logfields.File(rel), logfields.Error(err))
		return nil, nil
	}
	tfm := project.targetFramework()
	if tfm == "" {
		slog.Debug("No TargetFramework in project file", logfields.File(rel))
		return nil, nil
	}
	runtime, ok := RuntimeVersionFor(tfm)
	if !ok {
		slog.Debug("Unknown target framework", logfields.File(rel), logfields.Name(tfm))
		return nil, nil
	}

	props := map[string]string{ProjectFileProperty: rel}
	if sdk := globalJSONSdkVersion(repo); sdk != "" {
		props[SdkVersionProperty] = sdk
	}
	return &platform.DetectorResult{
		Platform:             config.PlatformDotNet,
		PlatformVersion:      runtime,
		AdditionalProperties: props,
	}, nil
}

func globalJSONSdkVersion(repo sourcerepo.SourceRepo) string {
	if !repo.FileExists(GlobalJSONFileName) {
		return ""
	}
	text, err := repo.ReadFile(GlobalJSONFileName)
	if err != nil {
		return ""
	}
	var doc struct {
		Sdk struct {
			Version string `json:"version"`
		} `json:"sdk"`
	}
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		slog.Warn("Malformed global.json, ignoring SDK version", logfields.Error(err))
		return ""
	}
	return strings.TrimSpace(doc.Sdk.Version)
}
