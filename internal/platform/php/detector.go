package php

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/nitrek/Oryx/internal/config"
	"github.com/nitrek/Oryx/internal/logfields"
	"github.com/nitrek/Oryx/internal/platform"
	"github.com/nitrek/Oryx/internal/sourcerepo"
)

const ComposerFileName = "composer.json"

// ComposerJSON is the part of composer.json that matters for detection.
type ComposerJSON struct {
	Require map[string]string `json:"require"`
}

// ReadComposerJSON parses composer.json. A malformed file is logged and
// treated as absent.
func ReadComposerJSON(repo sourcerepo.SourceRepo) *ComposerJSON {
	if !repo.FileExists(ComposerFileName) {
		return nil
	}
	text, err := repo.ReadFile(ComposerFileName)
	if err != nil {
		slog.Warn("Could not read composer.json", logfields.Error(err))
		return nil
	}
	var c ComposerJSON
	if err := json.Unmarshal([]byte(text), &c); err != nil {
		slog.Warn("Malformed composer.json, ignoring declared PHP version", logfields.Error(err))
		return nil
	}
	return &c
}

type Detector struct{}

func (Detector) Detect(repo sourcerepo.SourceRepo) (*platform.DetectorResult, error) {
	composer := ReadComposerJSON(repo)
	if composer == nil && !repo.FileExists(ComposerFileName) {
		phpFiles, err := repo.EnumerateFiles("*.php", false)
		if err != nil {
			return nil, err
		}
		if len(phpFiles) == 0 {
			return nil, nil
		}
	}

	var version string
	if composer != nil {
		version = strings.TrimSpace(composer.Require["php"])
	}
	return &platform.DetectorResult{Platform: config.PlatformPHP, PlatformVersion: version}, nil
}
