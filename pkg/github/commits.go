package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// CommitsService defines the interface for GitHub commit operations.
type CommitsService interface {
	GetCommit(ctx context.Context, owner, name, sha string) (Commit, error)
	CommitDate(ctx context.Context, owner, name, sha string) (time.Time, error)
}

// commitsService is a concrete implementation of CommitsService.
type commitsService struct {
	client *Client // A reference to the base GitHub client
}

// GetCommit fetches a single commit from the repository.
func (s *commitsService) GetCommit(ctx context.Context, owner, name, sha string) (Commit, error) {
	path := repoPath(owner, name) + "/commits/" + url.PathEscape(sha)
	respData, _, err := s.client.DoRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return Commit{}, fmt.Errorf("failed to get commit %s: %w", sha, err)
	}

	var commit Commit
	if err := json.Unmarshal(respData, &commit); err != nil {
		return Commit{}, fmt.Errorf("failed to unmarshal commit data: %w", err)
	}

	return commit, nil
}

// CommitDate returns the committer date of a commit.
func (s *commitsService) CommitDate(ctx context.Context, owner, name, sha string) (time.Time, error) {
	commit, err := s.GetCommit(ctx, owner, name, sha)
	if err != nil {
		return time.Time{}, err
	}
	date := commit.Commit.Committer.Date
	if date == "" {
		date = commit.Commit.Author.Date
	}
	t, err := time.Parse(time.RFC3339, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("commit %s has invalid date %q: %w", sha, date, err)
	}
	return t, nil
}
