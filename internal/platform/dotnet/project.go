package dotnet

import (
	"encoding/xml"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	oerrors "github.com/nitrek/Oryx/internal/errors"
	"github.com/nitrek/Oryx/internal/logfields"
	"github.com/nitrek/Oryx/internal/sourcerepo"
)

const (
	CSharpProjectPattern = "*.csproj"
	FSharpProjectPattern = "*.fsproj"

	webSdk           = "Microsoft.NET.Sdk.Web"
	functionsPackage = "Microsoft.NET.Sdk.Functions"
)

// projectFile is the subset of an MSBuild project the detector reads.
type projectFile struct {
	XMLName        xml.Name `xml:"Project"`
	Sdk            string   `xml:"Sdk,attr"`
	PropertyGroups []struct {
		TargetFramework string `xml:"TargetFramework"`
	} `xml:"PropertyGroup"`
	ItemGroups []struct {
		PackageReferences []struct {
			Include string `xml:"Include,attr"`
		} `xml:"PackageReference"`
	} `xml:"ItemGroup"`
}

func (p *projectFile) targetFramework() string {
	for _, pg := range p.PropertyGroups {
		if tf := strings.TrimSpace(pg.TargetFramework); tf != "" {
			return tf
		}
	}
	return ""
}

func (p *projectFile) isWebApp() bool {
	return strings.EqualFold(strings.TrimSpace(p.Sdk), webSdk)
}

func (p *projectFile) isFunctionsApp() bool {
	for _, ig := range p.ItemGroups {
		for _, ref := range ig.PackageReferences {
			if strings.EqualFold(ref.Include, functionsPackage) {
				return true
			}
		}
	}
	return false
}

func parseProject(repo sourcerepo.SourceRepo, rel string) (*projectFile, error) {
	text, err := repo.ReadFile(rel)
	if err != nil {
		return nil, err
	}
	var p projectFile
	if err := xml.Unmarshal([]byte(text), &p); err != nil {
		return nil, fmt.Errorf("parse %s: %w", rel, err)
	}
	return &p, nil
}

// FindProjectFile picks the project to build. A project at the root wins.
// Otherwise the whole tree is probed for a single web project, then for a
// single Azure Functions project. More than one candidate of the winning kind
// is ambiguous.
func FindProjectFile(repo sourcerepo.SourceRepo) (string, error) {
	for _, pattern := range []string{CSharpProjectPattern, FSharpProjectPattern} {
		root, err := repo.EnumerateFiles(pattern, false)
		if err != nil {
			return "", err
		}
		if len(root) > 0 {
			sort.Strings(root)
			return root[0], nil
		}
	}

	var all []string
	for _, pattern := range []string{CSharpProjectPattern, FSharpProjectPattern} {
		found, err := repo.EnumerateFiles(pattern, true)
		if err != nil {
			return "", err
		}
		all = append(all, found...)
	}
	sort.Strings(all)

	var web, functions []string
	for _, rel := range all {
		p, err := parseProject(repo, rel)
		if err != nil {
			slog.Warn("Skipping unreadable project file", logfields.File(rel), logfields.Error(err))
			continue
		}
		switch {
		case p.isWebApp():
			web = append(web, rel)
		case p.isFunctionsApp():
			functions = append(functions, rel)
		}
	}

	for _, candidates := range [][]string{web, functions} {
		switch len(candidates) {
		case 0:
			continue
		case 1:
			return candidates[0], nil
		default:
			return "", oerrors.InvalidUsage(
				"Ambiguity in selecting a project to build. Found multiple projects: " +
					strings.Join(candidates, ", ")).
				WithContext("platform", "dotnet")
		}
	}
	return "", nil
}
