package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/nitrek/Oryx/internal/errors"
)

func parse(t *testing.T, args ...string) (*kong.Context, *CLI) {
	t.Helper()
	cli := &CLI{}
	parser, err := kong.New(cli, kong.Vars{"version": "test"}, kong.Exit(func(int) {}))
	require.NoError(t, err)
	kctx, err := parser.Parse(args)
	require.NoError(t, err)
	return kctx, cli
}

func TestParseProperties(t *testing.T) {
	props, err := ParseProperties([]string{"virtualenv_name=myenv", `compress_virtualenv="tar-gz"`, "packagedir", "a=b=c"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"virtualenv_name":     "myenv",
		"compress_virtualenv": "tar-gz",
		"packagedir":          "",
		"a":                   "b=c",
	}, props)

	_, err = ParseProperties([]string{"=value"})
	require.Error(t, err)
	assert.True(t, oerrors.IsCategory(err, oerrors.CategoryInvalidUsage))
}

func TestParseLogLevel(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	assert.Equal(t, slog.LevelInfo, parseLogLevel(false))
	assert.Equal(t, slog.LevelDebug, parseLogLevel(true))

	t.Setenv(EnvLogLevel, "WARN")
	assert.Equal(t, slog.LevelWarn, parseLogLevel(true))
}

func TestCLI_ParsesBuildFlags(t *testing.T) {
	src := t.TempDir()
	kctx, cli := parse(t, "build", src, "-o", "/out", "-p", "a=1,2", "-p", "b=2", "--platform", "python", "--platform-version", "3.8", "-f")
	assert.Equal(t, "build <source-dir>", kctx.Command())
	assert.True(t, cli.Build.Force)
	assert.Equal(t, src, cli.Build.SourceDir)
	assert.Equal(t, "/out", cli.Build.Output)
	assert.Equal(t, []string{"a=1,2", "b=2"}, cli.Build.Properties)
	assert.Equal(t, "python", cli.Build.Platform)
	assert.Equal(t, DefaultConfigFile, cli.Config)
}

func TestCLI_ParsesPrepFlags(t *testing.T) {
	kctx, cli := parse(t, "prep", "--skip-detection", "--platforms-and-versions", "nodejs=12.16.1,python")
	assert.Equal(t, "prep", kctx.Command())
	assert.True(t, cli.Prep.SkipDetection)
	assert.Equal(t, "nodejs=12.16.1,python", cli.Prep.PlatformsAndVersions)
}

func TestLoadOptions_FlagsWin(t *testing.T) {
	src := t.TempDir()
	t.Setenv("PLATFORM_NAME", "nodejs")
	root := &CLI{Config: DefaultConfigFile}

	opts, err := loadOptions(root, SourceFlags{SourceDir: src, Platform: "python", Properties: []string{"x=1"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, "python", opts.PlatformName)
	assert.Equal(t, "1", opts.Properties["x"])
	assert.Equal(t, src, opts.SourceDir)
}

func TestLoadOptions_ExplicitConfigMustExist(t *testing.T) {
	root := &CLI{Config: filepath.Join(t.TempDir(), "missing.yaml")}
	_, err := loadOptions(root, SourceFlags{SourceDir: t.TempDir()}, nil)
	require.Error(t, err)
	assert.True(t, oerrors.IsCategory(err, oerrors.CategoryConfig))
}

func TestLoadOptions_Validates(t *testing.T) {
	root := &CLI{Config: DefaultConfigFile}
	t.Setenv("PLATFORM_NAME", "")
	_, err := loadOptions(root, SourceFlags{SourceDir: t.TempDir(), PlatformVersion: "3.8"}, nil)
	require.Error(t, err)
	assert.True(t, oerrors.IsCategory(err, oerrors.CategoryValidation))
}

func TestDetectCmd_JSON(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "package.json"),
		[]byte(`{"name":"app","engines":{"node":"12.16.1"}}`), 0o600))
	t.Setenv("NODE_VERSION", "")

	var stdout, stderr bytes.Buffer
	cmd := &DetectCmd{SourceFlags: SourceFlags{SourceDir: src}, JSON: true}
	err := cmd.Run(context.Background(), &Global{Stdout: &stdout, Stderr: &stderr}, &CLI{Config: DefaultConfigFile})
	require.NoError(t, err)

	var rows []detectedPlatform
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "nodejs", rows[0].Platform)
	assert.Equal(t, "12.16.1", rows[0].Version)
}

func TestDetectCmd_NothingDetected(t *testing.T) {
	var stdout bytes.Buffer
	cmd := &DetectCmd{SourceFlags: SourceFlags{SourceDir: t.TempDir()}}
	err := cmd.Run(context.Background(), &Global{Stdout: &stdout, Stderr: &stdout}, &CLI{Config: DefaultConfigFile})
	require.Error(t, err)
	assert.True(t, oerrors.IsCategory(err, oerrors.CategoryUnsupportedPlatform))
	assert.Contains(t, stdout.String(), NoPlatformDetectedMessage)
}

func TestPlatformsCmd_ListsEnabled(t *testing.T) {
	t.Setenv("DISABLE_PHP_BUILD", "true")
	var stdout bytes.Buffer
	cmd := &PlatformsCmd{JSON: true}
	require.NoError(t, cmd.Run(context.Background(), &Global{Stdout: &stdout, Stderr: &stdout}, &CLI{Config: DefaultConfigFile}))

	var infos []platformInfo
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &infos))
	var names []string
	for _, i := range infos {
		names = append(names, i.Name)
		assert.NotEmpty(t, i.Versions, i.Name)
	}
	assert.Equal(t, []string{"dotnet", "nodejs", "python", "hugo"}, names)
}

func TestVersionCmd(t *testing.T) {
	var stdout bytes.Buffer
	require.NoError(t, (&VersionCmd{}).Run(&Global{Stdout: &stdout}))
	assert.Contains(t, stdout.String(), "Version:")
}
