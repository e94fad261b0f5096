package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taglog/internal/apperr"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "taglog.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GITHUB_TOKEN", "")

	cfg, err := LoadWithOptions(LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, "CHANGELOG.md", cfg.Destination)
	assert.Equal(t, SourceAuto, cfg.Source)
	assert.Equal(t, DatesPlaceholder, cfg.Dates)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, ".", cfg.RepoPath)
	assert.Equal(t, "patch", cfg.Bump)
	assert.Empty(t, cfg.TagPrefix)
	assert.False(t, cfg.HasToken())
}

func TestLoadProjectFile(t *testing.T) {
	path := writeConfig(t, `
repository_url: git@github.com:owner/name.git
tag_prefix: v
destination: docs/CHANGES.md
source: github
timeout: 30s
max_concurrency: 4
skip_invalid_tags: true
dates: commit
bump: minor
`)

	cfg, err := LoadWithOptions(LoadOptions{ConfigPath: path, SkipEnv: true})
	require.NoError(t, err)

	assert.Equal(t, "git@github.com:owner/name.git", cfg.RepositoryURL)
	assert.Equal(t, "v", cfg.TagPrefix)
	assert.Equal(t, "docs/CHANGES.md", cfg.Destination)
	assert.Equal(t, SourceGitHub, cfg.Source)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, 4, cfg.MaxConcurrency)
	assert.True(t, cfg.SkipInvalidTags)
	assert.Equal(t, DatesCommit, cfg.Dates)
	assert.Equal(t, "minor", cfg.Bump)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, "tag_prefix: v\ndestination: FILE.md\n")
	t.Setenv("TAGLOG_TAG_PREFIX", "release-")
	t.Setenv("TAGLOG_DRY_RUN", "true")
	t.Setenv("TAGLOG_TIMEOUT", "5s")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "release-", cfg.TagPrefix)
	assert.Equal(t, "FILE.md", cfg.Destination)
	assert.True(t, cfg.DryRun)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
}

func TestTokenFallsBackToGitHubToken(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GITHUB_TOKEN", "ghp_fallback")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "ghp_fallback", cfg.Token)

	t.Setenv("TAGLOG_TOKEN", "explicit")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "explicit", cfg.Token)
}

func TestExplicitConfigPathMustExist(t *testing.T) {
	_, err := LoadWithOptions(LoadOptions{ConfigPath: filepath.Join(t.TempDir(), "missing.yml"), SkipEnv: true})
	assert.Error(t, err)
}

func TestMalformedYAML(t *testing.T) {
	path := writeConfig(t, "tag_prefix: [unterminated\n")
	_, err := LoadWithOptions(LoadOptions{ConfigPath: path, SkipEnv: true})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Configuration {
		return Configuration{
			Destination: "CHANGELOG.md",
			Source:      SourceAuto,
			Dates:       DatesPlaceholder,
			Timeout:     time.Second,
			Bump:        "patch",
		}
	}

	tests := map[string]struct {
		mutate  func(*Configuration)
		wantErr bool
	}{
		"defaults":          {mutate: func(*Configuration) {}},
		"local source":      {mutate: func(c *Configuration) { c.Source = SourceLocal }},
		"unknown source":    {mutate: func(c *Configuration) { c.Source = "gitlab" }, wantErr: true},
		"unknown dates":     {mutate: func(c *Configuration) { c.Dates = "tagger" }, wantErr: true},
		"negative workers":  {mutate: func(c *Configuration) { c.MaxConcurrency = -1 }, wantErr: true},
		"negative timeout":  {mutate: func(c *Configuration) { c.Timeout = -time.Second }, wantErr: true},
		"empty destination": {mutate: func(c *Configuration) { c.Destination = " " }, wantErr: true},
		"bad log level":     {mutate: func(c *Configuration) { c.LogLevel = "loud" }, wantErr: true},
		"good log level":    {mutate: func(c *Configuration) { c.LogLevel = "debug" }},
		"major bump":        {mutate: func(c *Configuration) { c.Bump = "Major" }},
		"unknown bump":      {mutate: func(c *Configuration) { c.Bump = "huge" }, wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, apperr.IsFormat(err))
			assert.Equal(t, apperr.ExitFormat, apperr.ExitCode(err))
		})
	}
}
