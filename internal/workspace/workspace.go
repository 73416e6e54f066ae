package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/nitrek/Oryx/internal/logfields"
)

// Manager owns one build's temporary directory.
type Manager struct {
	baseDir string
	dir     string
	fixed   bool // If true, dir is caller owned and never removed
}

// NewManager creates a manager for an ephemeral directory under baseDir,
// or the system temp dir when baseDir is empty.
func NewManager(baseDir string) *Manager {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	return &Manager{baseDir: baseDir}
}

// NewFixedManager uses dir as the workspace and never deletes it.
func NewFixedManager(dir string) *Manager {
	return &Manager{baseDir: filepath.Dir(dir), dir: dir, fixed: true}
}

// Create makes the workspace directory.
func (m *Manager) Create() error {
	if m.fixed {
		if err := os.MkdirAll(m.dir, 0o750); err != nil {
			return fmt.Errorf("failed to create workspace directory: %w", err)
		}
		slog.Debug("Using fixed workspace", logfields.Path(m.dir))
		return nil
	}

	name := fmt.Sprintf("oryx-%s-%s", time.Now().Format("20060102-150405"), uuid.NewString()[:8])
	dir := filepath.Join(m.baseDir, name)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create workspace directory: %w", err)
	}
	m.dir = dir
	slog.Debug("Created workspace", logfields.Path(dir))
	return nil
}

// Path returns the workspace directory, "" before Create.
func (m *Manager) Path() string {
	return m.dir
}

// WriteScript writes an executable script into the workspace and returns its
// path.
func (m *Manager) WriteScript(name, content string) (string, error) {
	if m.dir == "" {
		return "", fmt.Errorf("workspace not created")
	}
	path := filepath.Join(m.dir, name)
	// #nosec G306 -- the script must be executable by the build user
	if err := os.WriteFile(path, []byte(content), 0o700); err != nil {
		return "", fmt.Errorf("failed to write script %s: %w", name, err)
	}
	slog.Debug("Wrote script", logfields.File(path))
	return path, nil
}

// Cleanup removes an ephemeral workspace. Fixed workspaces are kept.
func (m *Manager) Cleanup() error {
	if m.dir == "" || m.fixed {
		return nil
	}
	if err := os.RemoveAll(m.dir); err != nil {
		return fmt.Errorf("failed to cleanup workspace: %w", err)
	}
	slog.Debug("Cleaned up workspace", logfields.Path(m.dir))
	m.dir = ""
	return nil
}
