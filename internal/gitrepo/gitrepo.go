// Package gitrepo reads the local working tree with go-git: the origin remote
// URL used as the default repository, and the tag list used by the local tag
// source.
package gitrepo

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"taglog/internal/logger"
	"taglog/pkg/github"
)

// ErrNoOrigin is returned when the repository has no "origin" remote.
var ErrNoOrigin = errors.New("repository has no origin remote")

// Repo is an opened local repository.
type Repo struct {
	repo *git.Repository
}

// Open opens the repository containing path, walking up to the .git directory.
// If path is empty, the current working directory is used.
func Open(path string) (*Repo, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logger.Debug("[git] opening repository", "path", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}
	return &Repo{repo: repo}, nil
}

// OriginURL returns the first URL of the "origin" remote.
func (r *Repo) OriginURL() (string, error) {
	remote, err := r.repo.Remote("origin")
	if err != nil {
		if errors.Is(err, git.ErrRemoteNotFound) {
			return "", ErrNoOrigin
		}
		return "", fmt.Errorf("reading origin remote: %w", err)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", ErrNoOrigin
	}
	logger.Debug("[git] origin", "url", urls[0])
	return urls[0], nil
}

// ListTags returns every tag with the commit it points to, ordered by name.
// Annotated tags are peeled to their commit.
func (r *Repo) ListTags() ([]github.Tag, error) {
	iter, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer iter.Close()

	var tags []github.Tag
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		sha, err := r.peel(ref.Hash())
		if err != nil {
			return fmt.Errorf("resolving tag %s: %w", ref.Name().Short(), err)
		}
		tags = append(tags, github.Tag{
			Name:   ref.Name().Short(),
			Commit: github.CommitRef{SHA: sha.String()},
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(tags, func(i, j int) bool {
		return tags[i].Name < tags[j].Name
	})
	logger.Debug("[git] tags listed", "count", len(tags))
	return tags, nil
}

// CommitDate returns the committer time of the commit with the given hash.
func (r *Repo) CommitDate(sha string) (time.Time, error) {
	commit, err := r.repo.CommitObject(plumbing.NewHash(sha))
	if err != nil {
		return time.Time{}, fmt.Errorf("reading commit %s: %w", sha, err)
	}
	return commit.Committer.When, nil
}

// peel follows annotated tag objects down to the commit hash.
func (r *Repo) peel(h plumbing.Hash) (plumbing.Hash, error) {
	tag, err := r.repo.TagObject(h)
	switch {
	case errors.Is(err, plumbing.ErrObjectNotFound):
		// lightweight tag: the reference points at the commit itself
		return h, nil
	case err != nil:
		return plumbing.ZeroHash, err
	}

	commit, err := tag.Commit()
	if err != nil {
		if errors.Is(err, object.ErrUnsupportedObject) {
			return tag.Target, nil
		}
		return plumbing.ZeroHash, err
	}
	return commit.Hash, nil
}
