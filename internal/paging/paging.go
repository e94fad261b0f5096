// Package paging retrieves complete collections from page-based APIs that
// advertise their page count through an RFC 8288 Link header.
//
// The first page is fetched on its own; if it carries a rel="last" link, the
// remaining pages are fetched concurrently and stitched back together in page
// order, never in completion order.
package paging

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"taglog/internal/apperr"
)

// PerPage is the page size requested from paginated endpoints.
const PerPage = 100

// MaxPages bounds the rel="last" page number accepted from a server.
const MaxPages = 1000

// Page is one page of results together with the response headers.
type Page[T any] struct {
	Items  []T
	Header http.Header
}

// FetchFunc fetches a single 1-based page.
type FetchFunc[T any] func(ctx context.Context, page int) (Page[T], error)

type options struct {
	maxConcurrency int
}

// Option configures FetchAll.
type Option func(*options)

// WithMaxConcurrency bounds the number of in-flight page fetches. Zero or a
// negative value means no limit.
func WithMaxConcurrency(n int) Option {
	return func(o *options) {
		o.maxConcurrency = n
	}
}

// FetchAll returns every item of the collection, page 1 first and the rest in
// ascending page order. The first failing page aborts the whole fetch and
// cancels the context seen by the other in-flight pages.
func FetchAll[T any](ctx context.Context, fetch FetchFunc[T], opts ...Option) ([]T, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	first, err := fetch(ctx, 1)
	if err != nil {
		return nil, fmt.Errorf("fetching page 1: %w", err)
	}

	link := first.Header.Get("Link")
	if link == "" {
		return first.Items, nil
	}

	last, err := LastPage(link)
	if err != nil {
		return nil, err
	}
	if last <= 1 {
		return first.Items, nil
	}

	// slots[i] holds page i+2; each goroutine owns exactly one slot.
	slots := make([][]T, last-1)

	g, gctx := errgroup.WithContext(ctx)
	if o.maxConcurrency > 0 {
		g.SetLimit(o.maxConcurrency)
	}
	for page := 2; page <= last; page++ {
		g.Go(func() error {
			p, err := fetch(gctx, page)
			if err != nil {
				return fmt.Errorf("fetching page %d: %w", page, err)
			}
			slots[page-2] = p.Items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := len(first.Items)
	for _, s := range slots {
		total += len(s)
	}
	items := make([]T, 0, total)
	items = append(items, first.Items...)
	for _, s := range slots {
		items = append(items, s...)
	}
	return items, nil
}

// LastPage extracts the page query parameter of the rel="last" entry of a
// Link header such as `<https://x/?page=2>; rel="next", <https://x/?page=5>; rel="last"`.
func LastPage(link string) (int, error) {
	for _, entry := range strings.Split(link, ",") {
		target, params, ok := strings.Cut(entry, ";")
		if !ok {
			continue
		}
		if !hasRel(params, "last") {
			continue
		}

		raw := strings.TrimSpace(target)
		if !strings.HasPrefix(raw, "<") || !strings.HasSuffix(raw, ">") {
			return 0, &apperr.PaginationError{Header: link, Reason: "malformed rel=\"last\" target"}
		}
		u, err := url.Parse(raw[1 : len(raw)-1])
		if err != nil {
			return 0, &apperr.PaginationError{Header: link, Reason: "unparsable rel=\"last\" URL: " + err.Error()}
		}
		page, err := strconv.Atoi(u.Query().Get("page"))
		if err != nil || page < 1 {
			return 0, &apperr.PaginationError{Header: link, Reason: "rel=\"last\" URL has no valid page parameter"}
		}
		if page > MaxPages {
			return 0, &apperr.PaginationError{Header: link, Reason: fmt.Sprintf("rel=\"last\" page %d exceeds the limit of %d", page, MaxPages)}
		}
		return page, nil
	}
	return 0, &apperr.PaginationError{Header: link, Reason: "could not find rel=\"last\" link"}
}

func hasRel(params, want string) bool {
	for _, p := range strings.Split(params, ";") {
		key, value, ok := strings.Cut(strings.TrimSpace(p), "=")
		if !ok || !strings.EqualFold(strings.TrimSpace(key), "rel") {
			continue
		}
		for _, rel := range strings.Fields(strings.Trim(strings.TrimSpace(value), `"`)) {
			if strings.EqualFold(rel, want) {
				return true
			}
		}
	}
	return false
}
