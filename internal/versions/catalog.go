package versions

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/nitrek/Oryx/internal/config"
)

//go:embed catalogs.yaml
var builtInCatalogs []byte

// Catalog is the ordered set of supported versions for one platform.
type Catalog struct {
	Platform  string   `yaml:"-"`
	Default   string   `yaml:"default"`
	Supported []string `yaml:"supported"`

	// Sdks maps a runtime version to the SDK that ships it (.NET only).
	Sdks map[string]string `yaml:"sdks"`
}

// IsPreview reports whether a version string contains letters.
func IsPreview(v string) bool {
	return strings.IndexFunc(v, unicode.IsLetter) >= 0
}

// Partition splits the catalog into final and preview versions, keeping the
// catalog order within each part.
func (c Catalog) Partition() (final, preview []string) {
	for _, v := range c.Supported {
		if IsPreview(v) {
			preview = append(preview, v)
		} else {
			final = append(final, v)
		}
	}
	return final, preview
}

// Contains reports whether v is listed, ignoring case.
func (c Catalog) Contains(v string) bool {
	for _, s := range c.Supported {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}

// WithOverrides applies configured supported and default versions.
func (c Catalog) WithOverrides(o config.PlatformOptions) Catalog {
	if len(o.SupportedVersions) > 0 {
		c.Supported = append([]string(nil), o.SupportedVersions...)
	}
	if o.DefaultVersion != "" {
		c.Default = o.DefaultVersion
	}
	return c
}

// BuiltIn returns the catalogs compiled into the binary, keyed by platform.
func BuiltIn() (map[string]Catalog, error) {
	var raw map[string]Catalog
	if err := yaml.Unmarshal(builtInCatalogs, &raw); err != nil {
		return nil, fmt.Errorf("parse built-in catalogs: %w", err)
	}
	for name, c := range raw {
		c.Platform = name
		raw[name] = c
	}
	return raw, nil
}

// ForPlatform returns the built-in catalog for a platform with configured
// overrides applied. Unknown platforms get an empty catalog.
func ForPlatform(name string, opts *config.Options) (Catalog, error) {
	all, err := BuiltIn()
	if err != nil {
		return Catalog{}, err
	}
	c, ok := all[name]
	if !ok {
		c = Catalog{Platform: name}
	}
	return c.WithOverrides(opts.Platform(name)), nil
}

// FromDirectory lists the version directories installed under dir, sorted.
// A missing directory yields no versions.
func FromDirectory(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}
