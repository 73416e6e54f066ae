// Package templates renders the bash scripts the build emits from embedded
// text/template files.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/nitrek/Oryx/internal/manifest"
)

//go:embed scripts/*.sh.tmpl
var scriptFS embed.FS

// Template identifiers.
const (
	BaseBashScript   = "base"
	PlatformInstall  = "install"
	DotNetInstall    = "dotnet-install"
	HugoInstall      = "hugo-install"
	SetupEnvironment = "setup-environment"
	PythonSnippet    = "python"
	NodeSnippet      = "nodejs"
	DotNetSnippet    = "dotnet"
	PhpSnippet       = "php"
	HugoSnippet      = "hugo"
)

// Markers printed around the pre and post build commands so output
// processors can time them.
const (
	PreBuildCommandPrologue  = "Executing pre-build command..."
	PreBuildCommandEpilogue  = "Finished executing pre-build command."
	PostBuildCommandPrologue = "Executing post-build command..."
	PostBuildCommandEpilogue = "Finished executing post-build command."
)

var funcs = template.FuncMap{
	"quote":  ShellQuote,
	"join":   strings.Join,
	"keys":   sortedKeys,
	"marker": markerFor,

	"manifestEntry": manifest.FormatEntry,
}

var parsed = template.Must(
	template.New("scripts").Funcs(funcs).Option("missingkey=error").ParseFS(scriptFS, "scripts/*.sh.tmpl"),
)

// Render renders the template with the given id. It is a pure function of its
// inputs.
func Render(templateID string, props any) (string, error) {
	tpl := parsed.Lookup(templateID + ".sh.tmpl")
	if tpl == nil {
		return "", fmt.Errorf("unknown script template %q", templateID)
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, props); err != nil {
		return "", fmt.Errorf("render %s script: %w", templateID, err)
	}
	return buf.String(), nil
}

// ShellQuote wraps s in single quotes for bash.
func ShellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

func sortedKeys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func markerFor(name string) (string, error) {
	switch name {
	case "pre-prologue":
		return PreBuildCommandPrologue, nil
	case "pre-epilogue":
		return PreBuildCommandEpilogue, nil
	case "post-prologue":
		return PostBuildCommandPrologue, nil
	case "post-epilogue":
		return PostBuildCommandEpilogue, nil
	}
	return "", fmt.Errorf("unknown marker %q", name)
}
