package sourcerepo

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
)

// Local is a SourceRepo over a directory on disk.
type Local struct {
	root string
}

// NewLocal returns a Local rooted at dir. The directory must exist.
func NewLocal(dir string) (*Local, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve source directory %s: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("source directory %s: %w", abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source directory %s is not a directory", abs)
	}
	return &Local{root: abs}, nil
}

func (l *Local) RootPath() string { return l.root }

func (l *Local) join(parts []string) string {
	return filepath.Join(append([]string{l.root}, parts...)...)
}

func (l *Local) FileExists(path ...string) bool {
	info, err := os.Stat(l.join(path))
	return err == nil && !info.IsDir()
}

func (l *Local) DirExists(path ...string) bool {
	info, err := os.Stat(l.join(path))
	return err == nil && info.IsDir()
}

func (l *Local) ReadFile(path ...string) (string, error) {
	// #nosec G304 - path is confined to the source root
	data, err := os.ReadFile(l.join(path))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (l *Local) ReadAllLines(path ...string) ([]string, error) {
	// #nosec G304 - path is confined to the source root
	f, err := os.Open(l.join(path))
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var lines []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines, sc.Err()
}

func (l *Local) EnumerateFiles(pattern string, recursive bool) ([]string, error) {
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	if !recursive {
		entries, err := os.ReadDir(l.root)
		if err != nil {
			return nil, err
		}
		var out []string
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if ok, _ := filepath.Match(pattern, e.Name()); ok {
				out = append(out, e.Name())
			}
		}
		return out, nil
	}

	var out []string
	err := filepath.WalkDir(l.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if ok, _ := filepath.Match(pattern, d.Name()); ok {
			rel, relErr := filepath.Rel(l.root, p)
			if relErr != nil {
				return relErr
			}
			out = append(out, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

// GitCommitID returns the HEAD commit of the source tree. It opens the
// repository with go-git and falls back to reading .git/HEAD directly, which
// copes with worktrees go-git cannot open.
func (l *Local) GitCommitID() (string, error) {
	repo, err := git.PlainOpen(l.root)
	if err == nil {
		head, headErr := repo.Head()
		if headErr == nil {
			return head.Hash().String(), nil
		}
		err = headErr
	}
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return "", ErrNotGitRepository
	}

	id, readErr := readHead(l.root)
	if readErr != nil {
		return "", fmt.Errorf("read git HEAD: %w", err)
	}
	return id, nil
}

// readHead reads .git/HEAD and resolves a symbolic ref if present.
func readHead(root string) (string, error) {
	// #nosec G304 - fixed location under the source root
	data, err := os.ReadFile(filepath.Join(root, ".git", "HEAD"))
	if err != nil {
		return "", err
	}
	line := strings.TrimSpace(string(data))
	if ref, ok := strings.CutPrefix(line, "ref:"); ok {
		refPath := filepath.Join(root, ".git", filepath.FromSlash(strings.TrimSpace(ref)))
		// #nosec G304 - ref path is under .git
		refData, refErr := os.ReadFile(refPath)
		if refErr != nil {
			return "", refErr
		}
		return strings.TrimSpace(string(refData)), nil
	}
	return line, nil
}
