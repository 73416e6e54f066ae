package dotnet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nitrek/Oryx/internal/config"
	oerrors "github.com/nitrek/Oryx/internal/errors"
	"github.com/nitrek/Oryx/internal/installer"
	"github.com/nitrek/Oryx/internal/platform"
	"github.com/nitrek/Oryx/internal/sourcerepo"
	"github.com/nitrek/Oryx/internal/versions"
)

func project(sdk, tfm string, packages ...string) string {
	s := `<Project Sdk="` + sdk + `">
  <PropertyGroup>
    <OutputType>Exe</OutputType>
    <TargetFramework>` + tfm + `</TargetFramework>
  </PropertyGroup>
`
	if len(packages) > 0 {
		s += "  <ItemGroup>\n"
		for _, p := range packages {
			s += `    <PackageReference Include="` + p + `" Version="1.0.0" />` + "\n"
		}
		s += "  </ItemGroup>\n"
	}
	return s + "</Project>\n"
}

func catalog() versions.Catalog {
	return versions.Catalog{
		Platform:  config.PlatformDotNet,
		Default:   "3.1",
		Supported: []string{"1.1.13", "2.1.17", "2.2.8", "3.0.3", "3.1.3"},
		Sdks:      map[string]string{"2.1.17": "2.1.805", "3.1.3": "3.1.201"},
	}
}

func newPlatform(t *testing.T, opts *config.Options) *Platform {
	t.Helper()
	if opts == nil {
		opts = config.Defaults()
	}
	opts.DynamicInstallRootDir = t.TempDir()
	return New(opts, catalog(), installer.New(opts, nil))
}

func repoCtx(repo sourcerepo.SourceRepo, opts *config.Options) *platform.RepositoryContext {
	return &platform.RepositoryContext{SourceRepo: repo, OperationID: "op", Properties: map[string]string{}, Options: opts}
}

func TestDetector(t *testing.T) {
	tests := []struct {
		name        string
		files       map[string]string
		wantNil     bool
		wantVersion string
		wantProject string
	}{
		{
			name:        "csproj at root",
			files:       map[string]string{"app.csproj": project("Microsoft.NET.Sdk", "netcoreapp2.1")},
			wantVersion: "2.1",
			wantProject: "app.csproj",
		},
		{
			name:        "fsproj at root",
			files:       map[string]string{"app.fsproj": project("Microsoft.NET.Sdk", "netcoreapp3.1")},
			wantVersion: "3.1",
			wantProject: "app.fsproj",
		},
		{
			name:        "netcoreapp1.0 maps to 1.1",
			files:       map[string]string{"app.csproj": project("Microsoft.NET.Sdk", "netcoreapp1.0")},
			wantVersion: "1.1",
			wantProject: "app.csproj",
		},
		{
			name:    "unknown target framework",
			files:   map[string]string{"app.csproj": project("Microsoft.NET.Sdk", "net462")},
			wantNil: true,
		},
		{
			name:    "no project file",
			files:   map[string]string{"readme.md": ""},
			wantNil: true,
		},
		{
			name: "nested web app",
			files: map[string]string{
				"src/Web/Web.csproj":  project("Microsoft.NET.Sdk.Web", "netcoreapp3.0"),
				"src/Lib/Lib.csproj":  project("Microsoft.NET.Sdk", "netcoreapp3.0"),
				"test/Test/Te.csproj": project("Microsoft.NET.Sdk", "netcoreapp3.0"),
			},
			wantVersion: "3.0",
			wantProject: "src/Web/Web.csproj",
		},
		{
			name: "web app preferred over functions",
			files: map[string]string{
				"src/Web/Web.csproj":   project("Microsoft.NET.Sdk.Web", "netcoreapp2.2"),
				"src/Func/Func.csproj": project("Microsoft.NET.Sdk", "netcoreapp2.1", "Microsoft.NET.Sdk.Functions"),
			},
			wantVersion: "2.2",
			wantProject: "src/Web/Web.csproj",
		},
		{
			name: "nested functions app",
			files: map[string]string{
				"src/Func/Func.csproj": project("Microsoft.NET.Sdk", "netcoreapp2.1", "Microsoft.NET.Sdk.Functions"),
			},
			wantVersion: "2.1",
			wantProject: "src/Func/Func.csproj",
		},
		{
			name:    "nested library only",
			files:   map[string]string{"src/Lib/Lib.csproj": project("Microsoft.NET.Sdk", "netcoreapp3.0")},
			wantNil: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Detector{}.Detect(sourcerepo.NewMemory(tt.files))
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, res)
				return
			}
			require.NotNil(t, res)
			assert.Equal(t, config.PlatformDotNet, res.Platform)
			assert.Equal(t, tt.wantVersion, res.PlatformVersion)
			assert.Equal(t, tt.wantProject, res.Property(ProjectFileProperty))
		})
	}
}

func TestFindProjectFile_Ambiguous(t *testing.T) {
	repo := sourcerepo.NewMemory(map[string]string{
		"a/A.csproj": project("Microsoft.NET.Sdk.Web", "netcoreapp3.1"),
		"b/B.fsproj": project("Microsoft.NET.Sdk.Web", "netcoreapp3.1"),
	})
	_, err := FindProjectFile(repo)
	require.Error(t, err)
	assert.True(t, oerrors.IsCategory(err, oerrors.CategoryInvalidUsage))
	assert.Contains(t, err.Error(), "Ambiguity in selecting a project to build. Found multiple projects: a/A.csproj, b/B.fsproj")
}

func TestDetector_GlobalJSON(t *testing.T) {
	repo := sourcerepo.NewMemory(map[string]string{
		"app.csproj":  project("Microsoft.NET.Sdk", "netcoreapp3.1"),
		"global.json": `{"sdk": {"version": "3.1.100"}}`,
	})
	res, err := Detector{}.Detect(repo)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "3.1.100", res.Property(SdkVersionProperty))

	repo.Add("global.json", "{not json")
	res, err = Detector{}.Detect(repo)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Empty(t, res.Property(SdkVersionProperty))
}

func TestPlatform_DetectResolvesRuntime(t *testing.T) {
	p := newPlatform(t, nil)
	repo := sourcerepo.NewMemory(map[string]string{"app.csproj": project("Microsoft.NET.Sdk.Web", "netcoreapp3.1")})
	res, err := p.Detect(repoCtx(repo, p.Options))
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "3.1.3", res.PlatformVersion)
	assert.Equal(t, []string{"dotnetcore"}, p.Aliases())
}

func TestPlatform_GenerateSnippet(t *testing.T) {
	p := newPlatform(t, nil)
	repo := sourcerepo.NewMemory(map[string]string{"src/Web/Web.csproj": project("Microsoft.NET.Sdk.Web", "netcoreapp3.1")})
	ctx := repoCtx(repo, p.Options)

	res, err := p.Detect(ctx)
	require.NoError(t, err)
	snippet, err := p.GenerateSnippet(ctx, res)
	require.NoError(t, err)
	require.NotNil(t, snippet)

	assert.Contains(t, snippet.ScriptText, "dotnet publish 'src/Web/Web.csproj' -c Release")
	assert.False(t, snippet.CopySourceToDestination)
	assert.Equal(t, "3.1.3", snippet.BuildProperties[ManifestRuntimeVersion])
	assert.Equal(t, "3.1.201", snippet.BuildProperties[ManifestSdkVersion])
	assert.Equal(t, []string{"bin", "obj"}, p.ExcludedFromIntermediateDir(ctx))

	ctx.Properties[ConfigurationProperty] = "Debug"
	snippet, err = p.GenerateSnippet(ctx, res)
	require.NoError(t, err)
	assert.Contains(t, snippet.ScriptText, "-c Debug")
}

func TestPlatform_SdkVersion(t *testing.T) {
	p := newPlatform(t, nil)

	sdk, err := p.SdkVersion(&platform.DetectorResult{PlatformVersion: "2.1.17"})
	require.NoError(t, err)
	assert.Equal(t, "2.1.805", sdk)

	sdk, err = p.SdkVersion(&platform.DetectorResult{
		PlatformVersion:      "2.1.17",
		AdditionalProperties: map[string]string{SdkVersionProperty: "2.1.300"},
	})
	require.NoError(t, err)
	assert.Equal(t, "2.1.300", sdk)

	_, err = p.SdkVersion(&platform.DetectorResult{PlatformVersion: "2.2.8"})
	require.Error(t, err)
	assert.True(t, oerrors.IsCategory(err, oerrors.CategoryUnsupportedVersion))
}

func TestPlatform_InstallSnippet(t *testing.T) {
	opts := config.Defaults()
	opts.EnableDynamicInstall = true
	opts.SdkStorageBaseURL = "https://sdks.example.com"
	p := newPlatform(t, opts)
	res := &platform.DetectorResult{Platform: config.PlatformDotNet, PlatformVersion: "3.1.3"}

	script, err := p.InstallSnippet(repoCtx(sourcerepo.NewMemory(nil), opts), res)
	require.NoError(t, err)
	assert.Contains(t, script, "/dotnet/dotnet-3.1.201.tar.gz")
	assert.Contains(t, script, filepath.Join(opts.DynamicInstallRootDir, "dotnet", "runtimes", "3.1.3"))

	// Once the runtime carries the sentinel nothing is installed.
	runtimeDir := filepath.Join(opts.DynamicInstallRootDir, "dotnet", "runtimes", "3.1.3")
	require.NoError(t, os.MkdirAll(runtimeDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(runtimeDir, installer.SentinelFileName), nil, 0o600))
	script, err = p.InstallSnippet(repoCtx(sourcerepo.NewMemory(nil), opts), res)
	require.NoError(t, err)
	assert.Empty(t, script)
}
