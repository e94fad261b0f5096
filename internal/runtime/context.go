package runtime

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"taglog/internal/apperr"
	"taglog/internal/config"
	"taglog/internal/gitrepo"
	"taglog/internal/logger"
	"taglog/internal/repository"
	"taglog/internal/version"
)

// Context captures the resolved state for one taglog run.
// It is built from configuration plus, when no URL is configured, the
// origin remote of the working tree.
type Context struct {
	RepositoryURL string
	URLFromOrigin bool
	Repository    repository.Repository

	Source          Source
	TagPrefix       string
	Destination     string
	RepoPath        string
	Dates           string
	DryRun          bool
	SkipInvalidTags bool
	MaxConcurrency  int

	APIURL  string
	Token   string
	Timeout time.Duration

	// Version forecast metadata
	BumpType    version.VersionType
	LatestTag   string
	NextVersion string
}

// LoadContext resolves the repository and run settings from cfg.
func LoadContext(cfg *config.Configuration) (Context, error) {
	rawURL := strings.TrimSpace(cfg.RepositoryURL)
	fromOrigin := false
	if rawURL == "" {
		origin, err := originURL(cfg.RepoPath)
		if err != nil {
			return Context{}, fmt.Errorf("no repository URL configured: %w", err)
		}
		rawURL = origin
		fromOrigin = true
	}

	repo, err := repository.Parse(rawURL)
	if err != nil {
		return Context{}, err
	}

	bump, err := version.ParseVersionType(cfg.Bump)
	if err != nil {
		return Context{}, apperr.NewFormatError("bump", cfg.Bump)
	}

	ctx := Context{
		RepositoryURL:   rawURL,
		URLFromOrigin:   fromOrigin,
		Repository:      repo,
		TagPrefix:       cfg.TagPrefix,
		Destination:     cfg.Destination,
		RepoPath:        cfg.RepoPath,
		Dates:           cfg.Dates,
		DryRun:          cfg.DryRun,
		SkipInvalidTags: cfg.SkipInvalidTags,
		MaxConcurrency:  cfg.MaxConcurrency,
		APIURL:          cfg.APIURL,
		Token:           cfg.Token,
		Timeout:         cfg.Timeout,
		BumpType:        bump,
	}
	ctx.Source = ResolveSource(ctx, Source(cfg.Source))
	if ctx.Source == SourceGitHub && !cfg.HasToken() {
		logger.Info("[github] no token configured; requests are anonymous and rate limited")
	}

	logger.Debug("[run] context resolved",
		"repository", repo.Slug(),
		"host", repo.Host,
		"source", ctx.Source,
		"prefix", ctx.TagPrefix,
		"destination", ctx.Destination,
	)
	return ctx, nil
}

func originURL(path string) (string, error) {
	repo, err := gitrepo.Open(path)
	if err != nil {
		return "", err
	}
	url, err := repo.OriginURL()
	if errors.Is(err, gitrepo.ErrNoOrigin) {
		return "", fmt.Errorf("%w; set repository_url or pass --url", err)
	}
	return url, err
}

// PrintSummary emits a scannable report of the run.
// NOTE: pointer receiver so the computed forecast fields persist.
func (c *Context) PrintSummary(w io.Writer, res *Result) {
	bold := color.New(color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	fmt.Fprintln(w, bold("Changelog Summary"))
	fmt.Fprintln(w, "-----------------")

	// ── Repository ──────────────────────────────────────────────────────────────
	fmt.Fprintln(w, bold("Repository"))
	fmt.Fprintf(w, "  Repository            : %s\n", c.Repository.Slug())
	fmt.Fprintf(w, "  Host                  : %s\n", c.Repository.Host)
	fmt.Fprintf(w, "  URL                   : %s\n", c.describeURL())
	fmt.Fprintf(w, "  Tag Source            : %s\n", c.Source)
	fmt.Fprintf(w, "  Tag Prefix            : %s\n", formatOrNone(c.TagPrefix))
	fmt.Fprintf(w, "  Destination           : %s\n", c.Destination)
	fmt.Fprintf(w, "  Dry Run Mode          : %s\n", emoji(c.DryRun))
	fmt.Fprintln(w)

	if res == nil {
		return
	}

	// ── Tags ────────────────────────────────────────────────────────────────────
	fmt.Fprintln(w, bold("Tags"))
	fmt.Fprintf(w, "  Tags Retrieved        : %d\n", res.Tags)
	fmt.Fprintf(w, "  Changelog Entries     : %d\n", len(res.Entries))
	if len(res.Skipped) > 0 {
		fmt.Fprintf(w, "  Skipped (invalid)     : %s\n", yellow(strings.Join(res.Skipped, ", ")))
	}
	if len(res.Entries) > 0 {
		c.LatestTag = res.Entries[0].Tag.Name
		fmt.Fprintf(w, "  Latest Tag            : %s\n", c.LatestTag)
	} else {
		fmt.Fprintf(w, "  Latest Tag            : %s\n", formatOrNone(""))
	}
	if next, err := version.ForecastNext(c.LatestTag, c.TagPrefix, c.BumpType); err == nil {
		c.NextVersion = next
		fmt.Fprintf(w, "  Next %-17s: %s\n", c.BumpType.String(), c.NextVersion)
	} else {
		fmt.Fprintf(w, "  Next %-17s: (error) %v\n", c.BumpType.String(), err)
	}
	fmt.Fprintln(w)

	// ── Changelog ───────────────────────────────────────────────────────────────
	fmt.Fprintln(w, bold("Changelog"))
	fmt.Fprintf(w, "  Existing File         : %s\n", emoji(res.Existed))
	if len(res.Added) == 0 {
		fmt.Fprintf(w, "  New Versions          : %s\n", formatOrNone(""))
	} else {
		names := make([]string, len(res.Added))
		for i, e := range res.Added {
			names[i] = e.Tag.Name
		}
		fmt.Fprintf(w, "  New Versions          : %s\n", green(strings.Join(names, ", ")))
	}
	if len(res.Malformed) > 0 {
		fmt.Fprintf(w, "  Unparsed Headings     : %s\n", yellow(fmt.Sprint(len(res.Malformed))))
	}
	fmt.Fprintf(w, "  Written               : %s\n", emoji(res.Written))
	fmt.Fprintln(w)
}

func (c Context) describeURL() string {
	if c.URLFromOrigin {
		return fmt.Sprintf("%s (origin remote)", c.RepositoryURL)
	}
	return c.RepositoryURL
}
