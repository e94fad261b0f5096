// Package config loads taglog settings with koanf.
//
// Priority: CLI flags > environment variables > project config > defaults.
// The project config is .taglog.yml in the working directory unless a path
// is given. Environment variables use the TAGLOG_ prefix, for example
// TAGLOG_TAG_PREFIX=v. GITHUB_TOKEN is used when no token is configured.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"taglog/internal/apperr"
	"taglog/internal/logger"
	"taglog/internal/version"
)

// DefaultPath is the project config file read when no path is given.
const DefaultPath = ".taglog.yml"

const envPrefix = "TAGLOG_"

// Tag sources.
const (
	SourceAuto   = "auto"
	SourceGitHub = "github"
	SourceLocal  = "local"
)

// Release date modes.
const (
	DatesPlaceholder = "placeholder"
	DatesCommit      = "commit"
)

// Configuration is the resolved set of taglog settings.
type Configuration struct {
	RepositoryURL   string        `koanf:"repository_url"`
	TagPrefix       string        `koanf:"tag_prefix"`
	Destination     string        `koanf:"destination"`
	Source          string        `koanf:"source"`
	Token           string        `koanf:"token"`
	APIURL          string        `koanf:"api_url"`
	Timeout         time.Duration `koanf:"timeout"`
	MaxConcurrency  int           `koanf:"max_concurrency"`
	SkipInvalidTags bool          `koanf:"skip_invalid_tags"`
	Dates           string        `koanf:"dates"`
	DryRun          bool          `koanf:"dry_run"`
	LogLevel        string        `koanf:"log_level"`
	RepoPath        string        `koanf:"repo_path"`
	Bump            string        `koanf:"bump"`
}

// LoadOptions controls where configuration is read from.
type LoadOptions struct {
	// ConfigPath overrides DefaultPath. An explicit path must exist.
	ConfigPath string
	// SkipEnv disables the environment provider.
	SkipEnv bool
}

// Load reads configuration from the given file path (or DefaultPath) and the environment.
func Load(configPath string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ConfigPath: configPath})
}

// LoadWithOptions loads configuration with custom options.
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")

	for key, value := range GetDefaults() {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("setting default %s: %w", key, err)
		}
	}

	if err := loadProjectConfig(k, opts.ConfigPath); err != nil {
		return nil, err
	}

	if !opts.SkipEnv {
		if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
			return nil, fmt.Errorf("loading environment config: %w", err)
		}
	}

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if cfg.Token == "" && !opts.SkipEnv {
		cfg.Token = strings.TrimSpace(os.Getenv("GITHUB_TOKEN"))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadProjectConfig(k *koanf.Koanf, customPath string) error {
	path := customPath
	if path == "" {
		path = DefaultPath
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && customPath == "" {
			return nil
		}
		return fmt.Errorf("reading config %s: %w", path, err)
	}

	logger.Debug("[config] loading", "path", path)
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("loading config %s: %w", path, err)
	}
	return nil
}

// envTransform converts environment variable names to config keys.
// Example: TAGLOG_TAG_PREFIX -> tag_prefix
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, envPrefix))
}

// Validate rejects values no command can run with.
func (c *Configuration) Validate() error {
	switch c.Source {
	case SourceAuto, SourceGitHub, SourceLocal:
	default:
		return apperr.NewFormatError("source", c.Source)
	}
	switch c.Dates {
	case DatesPlaceholder, DatesCommit:
	default:
		return apperr.NewFormatError("dates mode", c.Dates)
	}
	if c.MaxConcurrency < 0 {
		return apperr.NewFormatError("max_concurrency", fmt.Sprint(c.MaxConcurrency))
	}
	if c.Timeout < 0 {
		return apperr.NewFormatError("timeout", c.Timeout.String())
	}
	if strings.TrimSpace(c.Destination) == "" {
		return apperr.NewFormatError("destination", c.Destination)
	}
	if _, err := version.ParseVersionType(c.Bump); err != nil {
		return apperr.NewFormatError("bump", c.Bump)
	}
	if c.LogLevel != "" {
		if _, err := logger.ParseLevel(c.LogLevel); err != nil {
			return apperr.NewFormatError("log_level", c.LogLevel)
		}
	}
	return nil
}

// HasToken reports whether API requests will be authenticated.
func (c *Configuration) HasToken() bool {
	return c.Token != ""
}
