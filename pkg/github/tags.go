package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"taglog/internal/paging"
)

type TagsService interface {
	ListTags(ctx context.Context, owner, name string) ([]Tag, error)
}

type tagsService struct {
	client         *Client
	maxConcurrency int
}

// ListTags retrieves every tag of the repository, following pagination.
// Tags come back in the order the API lists them, page by page.
// If the repository has no tags, it returns an empty slice.
func (s *tagsService) ListTags(ctx context.Context, owner, name string) ([]Tag, error) {
	path := repoPath(owner, name) + "/tags"

	fetch := func(ctx context.Context, page int) (paging.Page[Tag], error) {
		query := url.Values{}
		query.Set("per_page", strconv.Itoa(paging.PerPage))
		query.Set("page", strconv.Itoa(page))

		respData, header, err := s.client.DoRequest(ctx, http.MethodGet, path, query)
		if err != nil {
			return paging.Page[Tag]{}, fmt.Errorf("failed to fetch tags: %w", err)
		}

		var tags []Tag
		if err := json.Unmarshal(respData, &tags); err != nil {
			return paging.Page[Tag]{}, fmt.Errorf("failed to parse tag list: %w", err)
		}
		return paging.Page[Tag]{Items: tags, Header: header}, nil
	}

	tags, err := paging.FetchAll(ctx, fetch, paging.WithMaxConcurrency(s.maxConcurrency))
	if err != nil {
		return nil, fmt.Errorf("listing tags of %s/%s: %w", owner, name, err)
	}
	if tags == nil {
		tags = []Tag{}
	}
	return tags, nil
}
