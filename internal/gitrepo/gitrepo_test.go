package gitrepo

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var commitTime = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

// initRepo creates a repository with one commit and returns its path and hash.
func initRepo(t *testing.T) (string, *git.Repository, plumbing.Hash) {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("hello\n"), 0o644))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("README.md")
	require.NoError(t, err)

	sig := &object.Signature{Name: "Tester", Email: "tester@example.com", When: commitTime}
	hash, err := wt.Commit("initial", &git.CommitOptions{Author: sig, Committer: sig})
	require.NoError(t, err)

	return dir, repo, hash
}

func TestOriginURL(t *testing.T) {
	dir, repo, _ := initRepo(t)
	_, err := repo.CreateRemote(&config.RemoteConfig{
		Name: "origin",
		URLs: []string{"git@github.com:owner/name.git"},
	})
	require.NoError(t, err)

	r, err := Open(filepath.Join(dir))
	require.NoError(t, err)

	url, err := r.OriginURL()
	require.NoError(t, err)
	assert.Equal(t, "git@github.com:owner/name.git", url)
}

func TestOriginURLMissing(t *testing.T) {
	dir, _, _ := initRepo(t)

	r, err := Open(dir)
	require.NoError(t, err)

	_, err = r.OriginURL()
	assert.ErrorIs(t, err, ErrNoOrigin)
}

func TestOpenDetectsParentRepository(t *testing.T) {
	dir, _, _ := initRepo(t)
	sub := filepath.Join(dir, "nested", "deeper")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	_, err := Open(sub)
	assert.NoError(t, err)
}

func TestOpenNotARepository(t *testing.T) {
	_, err := Open(t.TempDir())
	assert.Error(t, err)
}

func TestListTags(t *testing.T) {
	dir, repo, hash := initRepo(t)

	_, err := repo.CreateTag("v1.0.0", hash, nil)
	require.NoError(t, err)
	_, err = repo.CreateTag("v1.1.0", hash, &git.CreateTagOptions{
		Tagger:  &object.Signature{Name: "Tester", Email: "tester@example.com", When: commitTime},
		Message: "annotated release",
	})
	require.NoError(t, err)

	r, err := Open(dir)
	require.NoError(t, err)

	tags, err := r.ListTags()
	require.NoError(t, err)
	require.Len(t, tags, 2)

	assert.Equal(t, "v1.0.0", tags[0].Name)
	assert.Equal(t, "v1.1.0", tags[1].Name)
	// both the lightweight and the annotated tag resolve to the commit
	assert.Equal(t, hash.String(), tags[0].Commit.SHA)
	assert.Equal(t, hash.String(), tags[1].Commit.SHA)
}

func TestCommitDate(t *testing.T) {
	dir, _, hash := initRepo(t)

	r, err := Open(dir)
	require.NoError(t, err)

	when, err := r.CommitDate(hash.String())
	require.NoError(t, err)
	assert.True(t, commitTime.Equal(when), "got %s", when)

	_, err = r.CommitDate(plumbing.ZeroHash.String())
	assert.Error(t, err)
}
