package gitref

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogsmith/internal/foundation/errors"
)

func initRepo(t *testing.T) (*git.Repository, string, plumbing.Hash) {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o600))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("a.txt")
	require.NoError(t, err)
	hash, err := wt.Commit("a", &git.CommitOptions{Author: &object.Signature{Name: "tester", Email: "t@example.com", When: time.Now()}})
	require.NoError(t, err)
	return repo, dir, hash
}

func TestResolve_Order(t *testing.T) {
	_, dir, _ := initRepo(t)

	t.Setenv(EnvVar, "refs/heads/ci")
	ref, src := Resolve("v1.2", dir)
	assert.Equal(t, "v1.2", ref)
	assert.Equal(t, SourceConfig, src)

	ref, src = Resolve("", dir)
	assert.Equal(t, "refs/heads/ci", ref)
	assert.Equal(t, SourceEnv, src)

	t.Setenv(EnvVar, "")
	ref, src = Resolve("", dir)
	assert.Contains(t, []string{"master", "main"}, ref)
	assert.Equal(t, SourceGit, src)

	ref, src = Resolve("", t.TempDir())
	assert.Equal(t, Default, ref)
	assert.Equal(t, SourceDefault, src)
}

func TestHeadRef_Subdirectory(t *testing.T) {
	_, dir, _ := initRepo(t)
	sub := filepath.Join(dir, "source", "posts")
	require.NoError(t, os.MkdirAll(sub, 0o750))

	ref, err := HeadRef(sub)
	require.NoError(t, err)
	assert.Contains(t, []string{"master", "main"}, ref)
}

func TestHeadRef_Detached(t *testing.T) {
	repo, dir, hash := initRepo(t)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, wt.Checkout(&git.CheckoutOptions{Hash: hash}))

	ref, err := HeadRef(dir)
	require.NoError(t, err)
	assert.Equal(t, hash.String(), ref)
}

func TestHeadRef_NotARepository(t *testing.T) {
	_, err := HeadRef(t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryGit))
}
