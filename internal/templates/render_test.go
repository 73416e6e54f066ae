package templates

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_UnknownTemplate(t *testing.T) {
	_, err := Render("does-not-exist", nil)
	require.Error(t, err)
}

func TestRender_BaseScript(t *testing.T) {
	props := BaseScriptProps{
		BuildScriptSnippets: []string{"echo python-step", "echo node-step"},
		PreBuildCommand:     "echo before",
		PostBuildCommand:    "echo after",
		DirectoriesToExcludeFromCopyToIntermediateDir: []string{"node_modules", ".git"},
		DirectoriesToExcludeFromCopyToBuildOutputDir:  []string{"pythonenv3.8", ".git"},
		ManifestFileName: "oryx-manifest.toml",
		BuildProperties: map[string]string{
			"PythonVersion": "3.8.2",
			"NodeVersion":   "12.16.1",
			"PlatformName":  "python,nodejs",
		},
		CopySourceDirectoryContentToDestinationDirectory: true,
	}

	script, err := Render(BaseBashScript, props)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(script, "#!/bin/bash\nset -e\n"))
	assert.Contains(t, script, `excludedDirectories+=(--exclude 'node_modules')`)
	assert.Contains(t, script, `excludedDirectories+=(--exclude 'pythonenv3.8')`)
	assert.Contains(t, script, `rsync -rcE --links "${excludedDirectories[@]}" . "$DESTINATION_DIR"`)
	assert.Contains(t, script, `MANIFEST_DIR="$DESTINATION_DIR"`)
	assert.NotContains(t, script, "apt-get")

	// Pre-build runs before the snippets, post-build after, each framed by markers.
	order := []string{
		PreBuildCommandPrologue, "echo before", PreBuildCommandEpilogue,
		"echo python-step", "echo node-step",
		PostBuildCommandPrologue, "echo after", PostBuildCommandEpilogue,
	}
	last := -1
	for _, s := range order {
		idx := strings.Index(script, s)
		require.Greater(t, idx, last, s)
		last = idx
	}

	// Manifest lines are sorted by key.
	n := strings.Index(script, `'NodeVersion = "12.16.1"'`)
	p := strings.Index(script, `'PlatformName = "python,nodejs"'`)
	py := strings.Index(script, `'PythonVersion = "3.8.2"'`)
	require.True(t, n > 0 && p > n && py > p)
}

func TestRender_BaseScript_NestedOutputAndNoCopy(t *testing.T) {
	props := BaseScriptProps{
		ManifestFileName:        "oryx-manifest.toml",
		ManifestDir:             "/tmp/manifest dir",
		OutputDirectoryIsNested: true,
		NestedOutputPath:        "site/out",
		OsPackagesToInstall:     []string{"libgdiplus", "curl"},
	}
	script, err := Render(BaseBashScript, props)
	require.NoError(t, err)
	assert.NotContains(t, script, "Copying files to destination directory")
	assert.Contains(t, script, "apt-get install -y --no-install-recommends libgdiplus curl")
	assert.Contains(t, script, `MANIFEST_DIR='/tmp/manifest dir'`)

	props.CopySourceDirectoryContentToDestinationDirectory = true
	script, err = Render(BaseBashScript, props)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(script, `excludedDirectories+=(--exclude '/site/out')`))
}

func TestRender_InstallSnippet_Order(t *testing.T) {
	script, err := Render(PlatformInstall, InstallProps{
		PlatformName:       "python",
		Version:            "3.8.2",
		DirectoryToInstall: "/tmp/oryx/platforms/python/3.8.2",
		BaseURL:            "https://sdks.example.com",
		ChecksumHeader:     "x-ms-meta-checksum",
		SentinelFileName:   ".oryx-sdkdownload-sentinel",
	})
	require.NoError(t, err)

	steps := []string{
		"PLATFORM_SETUP_START=$SECONDS",
		"rm -rf '/tmp/oryx/platforms/python/3.8.2'",
		"mkdir -p '/tmp/oryx/platforms/python/3.8.2'",
		"cd '/tmp/oryx/platforms/python/3.8.2'",
		`curl -D headers.txt -SL "https://sdks.example.com/python/python-3.8.2.tar.gz" --output 3.8.2.tar.gz`,
		`headerName="x-ms-meta-checksum"`,
		"sha512sum -c -",
		"tar -xzf 3.8.2.tar.gz",
		"rm -f 3.8.2.tar.gz",
		"echo > '/tmp/oryx/platforms/python/3.8.2/.oryx-sdkdownload-sentinel'",
	}
	last := -1
	for _, s := range steps {
		idx := strings.Index(script, s)
		require.Greater(t, idx, last, s)
		last = idx
	}
	assert.True(t, strings.HasSuffix(strings.TrimSpace(script), "/.oryx-sdkdownload-sentinel'"))
}

func TestRender_SetupEnvironment(t *testing.T) {
	script, err := Render(SetupEnvironment, SetupEnvironmentProps{InstallSnippets: []string{"echo one", "echo two"}})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(script, "#!/bin/bash\nset -e\n"))
	assert.Contains(t, script, `echo "Setting up environment..."`)
	assert.Contains(t, script, "(\necho one\n)")
	assert.Contains(t, script, "(\necho two\n)")
}

func TestRender_MissingFieldFails(t *testing.T) {
	_, err := Render(HugoSnippet, map[string]string{})
	require.Error(t, err)
}

func TestShellQuote(t *testing.T) {
	assert.Equal(t, `'plain'`, ShellQuote("plain"))
	assert.Equal(t, `'it'"'"'s'`, ShellQuote("it's"))
}
