package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"taglog/internal/apperr"
	"taglog/internal/logger"
)

// run executes the command tree with args and returns stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	prev := logger.Logger
	t.Cleanup(func() { logger.Logger = prev })

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// localRepo creates a working tree with an origin remote and the given tags
// and makes it the current directory.
func localRepo(t *testing.T, origin string, tags ...string) string {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	_, err = repo.CreateRemote(&gitconfig.RemoteConfig{Name: "origin", URLs: []string{origin}})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\n"), 0o644))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("main.go")
	require.NoError(t, err)
	sig := &object.Signature{Name: "Dev", Email: "dev@example.com", When: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)}
	hash, err := wt.Commit("init", &git.CommitOptions{Author: sig, Committer: sig})
	require.NoError(t, err)

	for _, tag := range tags {
		_, err := repo.CreateTag(tag, hash, nil)
		require.NoError(t, err)
	}

	t.Chdir(dir)
	t.Setenv("GITHUB_TOKEN", "")
	return dir
}

func TestRootCmdStructure(t *testing.T) {
	cmd := NewRootCmd()
	assert.Equal(t, "taglog", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	for _, name := range []string{"config", "log-level"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}
	for _, name := range []string{"url", "prefix", "output", "source", "dry-run", "dates", "bump"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Subset(t, names, []string{"generate", "tags", "init", "version"})
}

func TestGenerateLocalSource(t *testing.T) {
	dir := localRepo(t, "git@git.example.org:team/tool.git", "v0.1.0", "v0.2.0", "nightly")

	_, _, err := run(t, "generate", "--prefix", "v", "--dates", "commit")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "CHANGELOG.md"))
	require.NoError(t, err)
	want := `# Changelog of team/tool

## Unreleased

Content

## [v0.2.0](https://git.example.org/team/tool/releases/tag/v0.2.0) (2024-01-02)

Content

## [v0.1.0](https://git.example.org/team/tool/releases/tag/v0.1.0) (2024-01-02)

Content
`
	assert.Equal(t, want, string(data))
}

func TestRootRunsGenerateWithDryRun(t *testing.T) {
	dir := localRepo(t, "git@git.example.org:team/tool.git", "1.0.0")

	stdout, _, err := run(t, "--dry-run", "--summary", "-o", "docs/CHANGES.md")
	require.NoError(t, err)

	assert.Contains(t, stdout, "+## [1.0.0](https://git.example.org/team/tool/releases/tag/1.0.0) (date)")
	assert.Contains(t, stdout, "Changelog Summary")
	_, statErr := os.Stat(filepath.Join(dir, "docs", "CHANGES.md"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestGenerateBumpFlag(t *testing.T) {
	localRepo(t, "git@git.example.org:team/tool.git", "v1.4.2")

	stdout, _, err := run(t, "generate", "--prefix", "v", "--dry-run", "--summary", "--bump", "major")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Next Major")
	assert.Contains(t, stdout, "v2.0.0")

	_, _, err = run(t, "generate", "--bump", "huge")
	require.Error(t, err)
	assert.Equal(t, apperr.ExitFormat, apperr.ExitCode(err))
}

func TestGenerateInvalidTagExitCode(t *testing.T) {
	localRepo(t, "git@git.example.org:team/tool.git", "v1.0.0", "v1.0")

	_, _, err := run(t, "generate", "--prefix", "v")
	require.Error(t, err)
	assert.Equal(t, apperr.ExitFormat, apperr.ExitCode(err))
}

func TestGenerateRejectsUnknownSource(t *testing.T) {
	localRepo(t, "git@git.example.org:team/tool.git")

	_, _, err := run(t, "generate", "--source", "svn")
	require.Error(t, err)
	assert.True(t, apperr.IsFormat(err))
}

func TestGenerateGitHubSource(t *testing.T) {
	dir := localRepo(t, "git@github.com:owner/name.git")

	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if r.URL.Path != "/repos/owner/name/tags" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`[{"name":"v2.0.0","commit":{"sha":"bbb"}},{"name":"v1.0.0","commit":{"sha":"aaa"}}]`))
	}))
	t.Cleanup(srv.Close)

	t.Setenv("TAGLOG_API_URL", srv.URL)
	t.Setenv("TAGLOG_TOKEN", "t0ken")

	_, _, err := run(t, "--prefix", "v")
	require.NoError(t, err)
	assert.Equal(t, "Bearer t0ken", auth)

	data, err := os.ReadFile(filepath.Join(dir, "CHANGELOG.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "## [v2.0.0](https://github.com/owner/name/releases/tag/v2.0.0) (date)")
}

func TestGenerateGitHubErrorExitCode(t *testing.T) {
	localRepo(t, "git@github.com:owner/name.git")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)
	t.Setenv("TAGLOG_API_URL", srv.URL)

	_, _, err := run(t)
	require.Error(t, err)
	assert.Equal(t, apperr.ExitProtocol, apperr.ExitCode(err))
}

func TestTagsYAML(t *testing.T) {
	localRepo(t, "https://git.example.org/team/tool.git", "v1.0.0", "v1.1.0-rc.1", "v1.0.0+build.7")

	stdout, _, err := run(t, "tags", "--prefix", "v", "--format", "yaml")
	require.NoError(t, err)

	var rows []tagRow
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "v1.1.0-rc.1", rows[0].Tag)
	assert.True(t, rows[0].PreRelease)
	assert.Equal(t, "1.0.0", rows[1].Version)
	assert.Equal(t, "https://git.example.org/team/tool/releases/tag/v1.1.0-rc.1", rows[0].ReleaseURL)
}

func TestTagsText(t *testing.T) {
	localRepo(t, "https://git.example.org/team/tool.git", "2.0.0", "10.0.0")

	stdout, _, err := run(t, "tags")
	require.NoError(t, err)
	assert.Regexp(t, `^10\.0\.0\s+10\.0\.0\s+\w{8}\n2\.0\.0\s+2\.0\.0\s+\w{8}\n$`, stdout)
}

func TestTagsRejectsUnknownFormat(t *testing.T) {
	_, _, err := run(t, "tags", "--format", "json")
	require.Error(t, err)
	assert.True(t, apperr.IsFormat(err))
}

func TestInitWritesConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	stdout, _, err := run(t, "init")
	require.NoError(t, err)
	assert.Contains(t, stdout, ".taglog.yml")

	data, err := os.ReadFile(".taglog.yml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "destination: CHANGELOG.md")

	_, _, err = run(t, "init")
	assert.Error(t, err, "existing file must not be overwritten")

	_, _, err = run(t, "init", "--force")
	assert.NoError(t, err)
}

func TestVersionCmd(t *testing.T) {
	stdout, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "taglog dev")
}

func TestLogLevelFlagOverridesConfig(t *testing.T) {
	localRepo(t, "git@git.example.org:team/tool.git", "1.0.0")
	require.NoError(t, os.WriteFile(".taglog.yml", []byte("log_level: error\n"), 0o644))

	_, stderr, err := run(t, "tags", "--log-level", "debug")
	require.NoError(t, err)
	assert.Contains(t, stderr, "[tags]")
}
