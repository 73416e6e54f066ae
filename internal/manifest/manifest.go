// Package manifest models the build manifest: the flat TOML record of what
// was built and with which versions.
package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the manifest written into the manifest directory.
const FileName = "oryx-manifest.toml"

// Keys every build writes.
const (
	KeyOperationID  = "OperationId"
	KeyPlatformName = "PlatformName"
	KeyAppType      = "AppType"
	KeySourceCommit = "SourceDirectoryCommitId"
)

// Manifest maps manifest keys to values.
type Manifest map[string]string

// Keys returns the keys sorted.
func (m Manifest) Keys() []string {
	return slices.Sorted(maps.Keys(m))
}

// Merge copies other into m, overwriting existing keys.
func (m Manifest) Merge(other map[string]string) {
	maps.Copy(m, other)
}

// AppendList adds value to a comma separated list under key.
func (m Manifest) AppendList(key, value string) {
	if cur, ok := m[key]; ok && cur != "" {
		m[key] = cur + "," + value
		return
	}
	m[key] = value
}

// Encode writes the manifest as TOML, one key per line, sorted by key.
func (m Manifest) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(map[string]string(m))
}

// FormatEntry renders a single key = "value" line exactly as Encode would,
// without the trailing newline. The build script writes its manifest with it.
func FormatEntry(key, value string) (string, error) {
	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(map[string]string{key: value}); err != nil {
		return "", fmt.Errorf("encode manifest entry %q: %w", key, err)
	}
	return strings.TrimSuffix(sb.String(), "\n"), nil
}

// Hash is a stable digest of the manifest contents.
func (m Manifest) Hash() string {
	h := sha256.New()
	_ = m.Encode(h)
	return hex.EncodeToString(h.Sum(nil))
}

// Parse reads a manifest. Non-string values are kept in their TOML text form.
func Parse(r io.Reader) (Manifest, error) {
	var raw map[string]any
	if _, err := toml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	m := make(Manifest, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case string:
			m[k] = val
		default:
			m[k] = fmt.Sprint(val)
		}
	}
	return m, nil
}

// Read loads the manifest from dir.
func Read(dir string) (Manifest, error) {
	f, err := os.Open(filepath.Join(dir, FileName))
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return Parse(f)
}

// Write stores the manifest in dir, creating dir when needed.
func Write(dir string, m Manifest) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create manifest dir: %w", err)
	}
	f, err := os.Create(filepath.Join(dir, FileName))
	if err != nil {
		return fmt.Errorf("create manifest: %w", err)
	}
	if err := m.Encode(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write manifest: %w", err)
	}
	return f.Close()
}
