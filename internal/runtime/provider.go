package runtime

import (
	"context"
	"fmt"
	"sync"
	"time"

	"taglog/internal/gitrepo"
	"taglog/internal/repository"
	"taglog/pkg/github"
)

// TagProvider supplies the tags of one repository and the dates of the
// commits they point to.
type TagProvider interface {
	Name() string
	ListTags(ctx context.Context) ([]github.Tag, error)
	CommitDate(ctx context.Context, sha string) (time.Time, error)
}

// NewProvider builds the provider for c.Source.
func NewProvider(c Context) (TagProvider, error) {
	switch c.Source {
	case SourceGitHub:
		baseURL := c.APIURL
		if baseURL == "" {
			baseURL = c.Repository.APIBaseURL()
		}
		client, err := github.NewClient(github.Options{
			BaseURL:        baseURL,
			Token:          c.Token,
			Timeout:        c.Timeout,
			MaxConcurrency: c.MaxConcurrency,
		})
		if err != nil {
			return nil, err
		}
		return &githubProvider{client: client, repo: c.Repository}, nil
	case SourceLocal:
		repo, err := gitrepo.Open(c.RepoPath)
		if err != nil {
			return nil, err
		}
		return &localProvider{repo: repo}, nil
	default:
		return nil, fmt.Errorf("unsupported tag source %q", c.Source)
	}
}

type githubProvider struct {
	client *github.Client
	repo   repository.Repository
}

func (p *githubProvider) Name() string {
	return "github " + p.client.BaseURL()
}

func (p *githubProvider) ListTags(ctx context.Context) ([]github.Tag, error) {
	return p.client.Tags.ListTags(ctx, p.repo.Owner, p.repo.Name)
}

func (p *githubProvider) CommitDate(ctx context.Context, sha string) (time.Time, error) {
	return p.client.Commits.CommitDate(ctx, p.repo.Owner, p.repo.Name, sha)
}

// localProvider reads tags from the working tree. go-git repositories are not
// safe for concurrent use, so lookups are serialised.
type localProvider struct {
	mu   sync.Mutex
	repo *gitrepo.Repo
}

func (p *localProvider) Name() string {
	return "local"
}

func (p *localProvider) ListTags(ctx context.Context) ([]github.Tag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.repo.ListTags()
}

func (p *localProvider) CommitDate(ctx context.Context, sha string) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.repo.CommitDate(sha)
}
