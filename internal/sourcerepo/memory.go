package sourcerepo

import (
	"io/fs"
	"path"
	"sort"
	"strings"
)

// Memory is an in-memory SourceRepo keyed by slash separated relative paths.
type Memory struct {
	Root     string
	Files    map[string]string
	CommitID string
}

// NewMemory returns a Memory holding the given files.
func NewMemory(files map[string]string) *Memory {
	if files == nil {
		files = map[string]string{}
	}
	return &Memory{Root: "/memory", Files: files}
}

// Add stores a file and returns the repo for chaining.
func (m *Memory) Add(name, content string) *Memory {
	m.Files[path.Clean(name)] = content
	return m
}

func (m *Memory) RootPath() string { return m.Root }

func key(parts []string) string { return path.Clean(path.Join(parts...)) }

func (m *Memory) FileExists(p ...string) bool {
	_, ok := m.Files[key(p)]
	return ok
}

func (m *Memory) DirExists(p ...string) bool {
	prefix := key(p) + "/"
	for name := range m.Files {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

func (m *Memory) ReadFile(p ...string) (string, error) {
	content, ok := m.Files[key(p)]
	if !ok {
		return "", &fs.PathError{Op: "open", Path: key(p), Err: fs.ErrNotExist}
	}
	return content, nil
}

func (m *Memory) ReadAllLines(p ...string) ([]string, error) {
	content, err := m.ReadFile(p...)
	if err != nil {
		return nil, err
	}
	content = strings.TrimSuffix(content, "\n")
	if content == "" {
		return nil, nil
	}
	return strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n"), nil
}

func (m *Memory) EnumerateFiles(pattern string, recursive bool) ([]string, error) {
	if _, err := path.Match(pattern, ""); err != nil {
		return nil, err
	}
	var out []string
	for name := range m.Files {
		if !recursive && strings.Contains(name, "/") {
			continue
		}
		if ok, _ := path.Match(pattern, path.Base(name)); ok {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *Memory) GitCommitID() (string, error) {
	if m.CommitID == "" {
		return "", ErrNotGitRepository
	}
	return m.CommitID, nil
}
