package sourcerepo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ SourceRepo = (*Local)(nil)
	_ SourceRepo = (*Memory)(nil)
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
}

func TestLocal_FileQueries(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "requirements.txt", "flask\n# comment\nrequests\n")
	writeFile(t, root, "app.py", "print('hi')")
	writeFile(t, root, "pkg/module.py", "")
	writeFile(t, root, ".git/config", "")

	repo, err := NewLocal(root)
	require.NoError(t, err)

	assert.True(t, repo.FileExists("requirements.txt"))
	assert.False(t, repo.FileExists("pkg"))
	assert.True(t, repo.DirExists("pkg"))
	assert.False(t, repo.DirExists("app.py"))

	lines, err := repo.ReadAllLines("requirements.txt")
	require.NoError(t, err)
	assert.Equal(t, []string{"flask", "# comment", "requests"}, lines)

	top, err := repo.EnumerateFiles("*.py", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"app.py"}, top)

	all, err := repo.EnumerateFiles("*.py", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"app.py", "pkg/module.py"}, all)

	_, err = repo.EnumerateFiles("[", false)
	require.Error(t, err)
}

func TestNewLocal_RejectsFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "f", "")
	_, err := NewLocal(filepath.Join(root, "f"))
	require.Error(t, err)
	_, err = NewLocal(filepath.Join(root, "missing"))
	require.Error(t, err)
}

func TestLocal_GitCommitID(t *testing.T) {
	root := t.TempDir()
	repo, err := NewLocal(root)
	require.NoError(t, err)

	_, err = repo.GitCommitID()
	require.ErrorIs(t, err, ErrNotGitRepository)

	g, err := git.PlainInit(root, false)
	require.NoError(t, err)
	writeFile(t, root, "package.json", "{}")
	w, err := g.Worktree()
	require.NoError(t, err)
	_, err = w.Add("package.json")
	require.NoError(t, err)
	hash, err := w.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "Test User", Email: "test@example.com"},
	})
	require.NoError(t, err)

	id, err := repo.GitCommitID()
	require.NoError(t, err)
	assert.Equal(t, hash.String(), id)
}

func TestReadHead_SymbolicRef(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".git/HEAD", "ref: refs/heads/main\n")
	writeFile(t, root, ".git/refs/heads/main", "abc123\n")

	id, err := readHead(root)
	require.NoError(t, err)
	assert.Equal(t, "abc123", id)
}

func TestMemory(t *testing.T) {
	m := NewMemory(nil).
		Add("package.json", `{"name":"x"}`).
		Add("src/index.js", "").
		Add("server.js", "")

	assert.True(t, m.FileExists("package.json"))
	assert.True(t, m.FileExists("src", "index.js"))
	assert.True(t, m.DirExists("src"))
	assert.False(t, m.DirExists("lib"))

	top, err := m.EnumerateFiles("*.js", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"server.js"}, top)

	all, err := m.EnumerateFiles("*.js", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"server.js", "src/index.js"}, all)

	_, err = m.ReadFile("missing")
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = m.GitCommitID()
	require.ErrorIs(t, err, ErrNotGitRepository)
	m.CommitID = "deadbeef"
	id, err := m.GitCommitID()
	require.NoError(t, err)
	assert.Equal(t, "deadbeef", id)
}
