package installer

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nitrek/Oryx/internal/config"
	oerrors "github.com/nitrek/Oryx/internal/errors"
	"github.com/nitrek/Oryx/internal/metrics"
)

type countingRecorder struct {
	installed, missing int
	metrics.NoopRecorder
}

func (c *countingRecorder) IncInstallDecision(_ string, alreadyInstalled bool) {
	if alreadyInstalled {
		c.installed++
	} else {
		c.missing++
	}
}

func newTestInstaller(t *testing.T) (*Installer, *config.Options) {
	t.Helper()
	opts := config.Defaults()
	opts.DynamicInstallRootDir = t.TempDir()
	opts.SdkStorageBaseURL = "https://sdks.example.com/"
	for _, name := range config.KnownPlatforms() {
		p := opts.Platform(name)
		p.BuiltInDir = filepath.Join(t.TempDir(), "builtin", name)
		opts.Platforms[name] = p
	}
	return New(opts, nil), opts
}

func mkdir(t *testing.T, parts ...string) string {
	t.Helper()
	p := filepath.Join(parts...)
	require.NoError(t, os.MkdirAll(p, 0o750))
	return p
}

func TestIsInstalled_SentinelProtocol(t *testing.T) {
	inst, opts := newTestInstaller(t)
	rec := &countingRecorder{}
	inst.recorder = rec

	assert.False(t, inst.IsInstalled("python", "3.8.2"))

	// A partial download leaves the directory without a sentinel.
	dir := mkdir(t, opts.DynamicInstallRootDir, "python", "3.8.2")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "3.8.2.tar.gz"), []byte("partial"), 0o600))
	assert.False(t, inst.IsInstalled("python", "3.8.2"))

	require.NoError(t, os.WriteFile(filepath.Join(dir, SentinelFileName), []byte("\n"), 0o600))
	for range 3 {
		assert.True(t, inst.IsInstalled("python", "3.8.2"))
	}
	assert.Equal(t, 3, rec.installed)
	assert.Equal(t, 2, rec.missing)
}

func TestIsInstalled_BuiltInNeedsNoSentinel(t *testing.T) {
	inst, opts := newTestInstaller(t)
	mkdir(t, opts.Platform("nodejs").BuiltInDir, "12.16.1")
	assert.True(t, inst.IsInstalled("nodejs", "12.16.1"))
	assert.False(t, inst.IsInstalled("nodejs", "10.19.0"))
}

func TestIsInstalled_CaseInsensitive(t *testing.T) {
	inst, opts := newTestInstaller(t)
	dir := mkdir(t, opts.DynamicInstallRootDir, "python", "3.9.0B1")
	require.NoError(t, os.WriteFile(filepath.Join(dir, SentinelFileName), nil, 0o600))
	assert.True(t, inst.IsInstalled("python", "3.9.0b1"))
}

func TestInstallSnippet(t *testing.T) {
	inst, opts := newTestInstaller(t)
	script, err := inst.InstallSnippet("python", "3.8.2", "")
	require.NoError(t, err)

	dir := filepath.Join(opts.DynamicInstallRootDir, "python", "3.8.2")
	assert.Contains(t, script, `"https://sdks.example.com/python/python-3.8.2.tar.gz"`)
	assert.Contains(t, script, `headerName="x-ms-meta-checksum"`)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(script),
		"echo > '"+filepath.Join(dir, SentinelFileName)+"'"))

	verify := strings.Index(script, "sha512sum -c")
	extract := strings.Index(script, "tar -xzf")
	sentinel := strings.Index(script, SentinelFileName)
	assert.True(t, verify < extract && extract < sentinel)
}

const fakeCurl = `#!/bin/sh
while [ $# -gt 0 ]; do
  case "$1" in
    -D) hdr="$2"; shift ;;
    --output) out="$2"; shift ;;
  esac
  shift
done
printf 'x-ms-meta-checksum: 00ff\r\n' > "$hdr"
printf 'corrupt' > "$out"
`

func TestInstallSnippet_ChecksumMismatchAborts(t *testing.T) {
	for _, tool := range []string{"bash", "sha512sum"} {
		if _, err := exec.LookPath(tool); err != nil {
			t.Skipf("%s not available", tool)
		}
	}
	inst, opts := newTestInstaller(t)
	script, err := inst.InstallSnippet("python", "3.8.2", "")
	require.NoError(t, err)

	bin := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(bin, "curl"), []byte(fakeCurl), 0o700)) //nolint:gosec // test shim
	t.Setenv("PATH", bin+string(os.PathListSeparator)+os.Getenv("PATH"))

	cmd := exec.Command("bash", "-e", "-c", script)
	out, err := cmd.CombinedOutput()
	require.Error(t, err, string(out))
	assert.Contains(t, string(out), "Verifying checksum...")
	assert.NotContains(t, string(out), "Extracting contents...")

	dir := filepath.Join(opts.DynamicInstallRootDir, "python", "3.8.2")
	assert.NoFileExists(t, filepath.Join(dir, SentinelFileName))
	assert.FileExists(t, filepath.Join(dir, "3.8.2.tar.gz"))
	assert.False(t, inst.IsInstalled("python", "3.8.2"))
}

func TestInstallSnippet_RequiresBaseURL(t *testing.T) {
	inst, opts := newTestInstaller(t)
	opts.SdkStorageBaseURL = "  "
	_, err := inst.InstallSnippet("php", "7.4.3", "")
	require.Error(t, err)
	assert.True(t, oerrors.IsCategory(err, oerrors.CategoryConfigurationMissing))
	assert.Contains(t, err.Error(), config.EnvSdkStorageBaseURL)
}

func TestDotNet(t *testing.T) {
	inst, opts := newTestInstaller(t)
	script, err := inst.DotNetInstallSnippet("3.1.3", "3.1.201")
	require.NoError(t, err)

	sdkDir := filepath.Join(opts.DynamicInstallRootDir, "dotnet", "sdks", "3.1.201")
	runtimeDir := filepath.Join(opts.DynamicInstallRootDir, "dotnet", "runtimes", "3.1.3")
	assert.Contains(t, script, "mkdir -p '"+sdkDir+"'")
	assert.Contains(t, script, "/dotnet/dotnet-3.1.201.tar.gz")
	assert.Contains(t, script, "echo '3.1.201' > '"+filepath.Join(runtimeDir, "sdkVersion.txt")+"'")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(script),
		"echo > '"+filepath.Join(runtimeDir, SentinelFileName)+"'"))

	assert.False(t, inst.IsDotNetInstalled("3.1.3", ""))
	mkdir(t, runtimeDir)
	require.NoError(t, os.WriteFile(filepath.Join(runtimeDir, SentinelFileName), nil, 0o600))
	assert.True(t, inst.IsDotNetInstalled("3.1.3", ""))

	// A pinned SDK is looked up in the SDK tree instead.
	assert.False(t, inst.IsDotNetInstalled("3.1.3", "3.1.201"))
	mkdir(t, sdkDir)
	require.NoError(t, os.WriteFile(filepath.Join(sdkDir, SentinelFileName), nil, 0o600))
	assert.True(t, inst.IsDotNetInstalled("3.1.3", "3.1.201"))
}

func TestHugoInstallSnippet(t *testing.T) {
	inst, _ := newTestInstaller(t)
	inst.opts.SdkStorageBaseURL = ""
	script, err := inst.HugoInstallSnippet("0.69.2")
	require.NoError(t, err)
	assert.Contains(t, script,
		`curl -fsSLO --compressed "https://github.com/gohugoio/hugo/releases/download/v0.69.2/hugo_extended_0.69.2_Linux-64bit.tar.gz"`)
	assert.NotContains(t, script, "sha512sum")
	assert.Contains(t, script, SentinelFileName)
}
