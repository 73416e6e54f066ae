package versions

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nitrek/Oryx/internal/config"
	oerrors "github.com/nitrek/Oryx/internal/errors"
)

func pythonCatalog() Catalog {
	return Catalog{
		Platform:  "python",
		Default:   "3.7.0",
		Supported: []string{"2.7.17", "3.6.10", "3.7.0", "3.7.7", "3.8.2", "3.8.0b3", "3.9.0b1", "3.9.0b4"},
	}
}

func TestPartition(t *testing.T) {
	final, preview := pythonCatalog().Partition()
	assert.Equal(t, []string{"2.7.17", "3.6.10", "3.7.0", "3.7.7", "3.8.2"}, final)
	assert.Equal(t, []string{"3.8.0b3", "3.9.0b1", "3.9.0b4"}, preview)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		requested string
		want      string
	}{
		{"", "3.7.0"},
		{"3", "3.8.2"},
		{"3.7", "3.7.7"},
		{"3.7.0", "3.7.0"},
		{"3.6.1", "3.6.10"},
		{">=3.6 <3.8", "3.7.7"},
		{"~2.7", "2.7.17"},
		{"3.9", "3.9.0b4"},
		{"3.9.0b1", "3.9.0b1"},
		{"3.8.0b", "3.8.0b3"},
	}
	for _, tt := range tests {
		t.Run(tt.requested, func(t *testing.T) {
			got, err := Resolve(tt.requested, pythonCatalog())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			again, err := Resolve(tt.requested, pythonCatalog())
			require.NoError(t, err)
			assert.Equal(t, got, again)
		})
	}
}

func TestResolve_NearestPatch(t *testing.T) {
	c := Catalog{Platform: "nodejs", Supported: []string{"6.11.2", "8.17.0"}}
	got, err := Resolve("6.11.0", c)
	require.NoError(t, err)
	assert.Equal(t, "6.11.2", got)
}

func TestResolve_Unsupported(t *testing.T) {
	_, err := Resolve("4.0", pythonCatalog())
	require.Error(t, err)
	assert.True(t, oerrors.IsCategory(err, oerrors.CategoryUnsupportedVersion))
	assert.Contains(t, err.Error(), "python")
	assert.Contains(t, err.Error(), "4.0")

	_, err = Resolve("not a range", Catalog{Platform: "php", Supported: []string{"7.4.3"}})
	require.Error(t, err)
}

func TestResolve_NoDefaultTakesLatest(t *testing.T) {
	got, err := Resolve("", Catalog{Supported: []string{"1.0.0", "1.10.0", "1.9.0"}})
	require.NoError(t, err)
	assert.Equal(t, "1.10.0", got)
}

func TestPick_Hierarchy(t *testing.T) {
	assert.Equal(t, "3.8", Pick("3.8", "3.7", "3.6", "3.7.0"))
	assert.Equal(t, "3.7", Pick("", "3.7", "3.6", "3.7.0"))
	assert.Equal(t, "3.6", Pick("", " ", "3.6", "3.7.0"))
	assert.Equal(t, "3.7.0", Pick("", "", "", "3.7.0"))
	assert.Empty(t, Pick())
}

func TestBuiltIn(t *testing.T) {
	all, err := BuiltIn()
	require.NoError(t, err)
	for _, name := range config.KnownPlatforms() {
		c, ok := all[name]
		require.True(t, ok, name)
		assert.Equal(t, name, c.Platform)
		assert.NotEmpty(t, c.Default)
		_, err := Resolve("", c)
		require.NoError(t, err, name)
	}
	assert.Equal(t, "3.7.0", all["python"].Default)
}

func TestForPlatform_Overrides(t *testing.T) {
	opts := config.Defaults()
	opts.Platforms["nodejs"] = config.PlatformOptions{DefaultVersion: "10", SupportedVersions: []string{"10.1.0", "10.2.0"}}

	c, err := ForPlatform("nodejs", opts)
	require.NoError(t, err)
	got, err := Resolve("", c)
	require.NoError(t, err)
	assert.Equal(t, "10.2.0", got)
}

func TestFromDirectory(t *testing.T) {
	dir := t.TempDir()
	for _, d := range []string{"3.8.2", "3.7.7", ".hidden"} {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, d), 0o750))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "file"), nil, 0o600))

	got, err := FromDirectory(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"3.7.7", "3.8.2"}, got)

	got, err = FromDirectory(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Empty(t, got)
}
