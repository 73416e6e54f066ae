package hugo

import (
	"github.com/nitrek/Oryx/internal/config"
	"github.com/nitrek/Oryx/internal/platform"
	"github.com/nitrek/Oryx/internal/sourcerepo"
)

const ConfigFileProperty = "configFile"

var (
	configFileNames = []string{
		"config.toml", "config.yaml", "config.yml", "config.json",
		"hugo.toml", "hugo.yaml", "hugo.yml", "hugo.json",
	}
	siteDirs = []string{"content", "layouts", "archetypes"}
)

// Detector recognizes a Hugo site: a config file next to one of the standard
// site directories.
type Detector struct{}

func (Detector) Detect(repo sourcerepo.SourceRepo) (*platform.DetectorResult, error) {
	configFile := ""
	for _, name := range configFileNames {
		if repo.FileExists(name) {
			configFile = name
			break
		}
	}
	if configFile == "" {
		return nil, nil
	}
	for _, dir := range siteDirs {
		if repo.DirExists(dir) {
			return &platform.DetectorResult{
				Platform:             config.PlatformHugo,
				AdditionalProperties: map[string]string{ConfigFileProperty: configFile},
			}, nil
		}
	}
	return nil, nil
}
