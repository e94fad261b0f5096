package github

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"taglog/internal/apperr"
)

const (
	DefaultBaseURL = "https://api.github.com"
	AcceptHeader   = "application/vnd.github+json"
	APIVersion     = "2022-11-28"
	DefaultTimeout = 10 * time.Second
)

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client

	// Services
	Tags    TagsService
	Commits CommitsService
}

// Options configures a Client. The token is optional; without it requests are
// anonymous and subject to lower rate limits.
type Options struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration
	HTTPClient *http.Client

	// MaxConcurrency bounds concurrent page fetches; zero means unlimited.
	MaxConcurrency int
}

// APIError represents an error response from the GitHub API.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

// Error returns a string representation of the APIError.
func (e *APIError) Error() string {
	return fmt.Sprintf("GitHub API error (%d): %s -- %s", e.StatusCode, e.Message, string(e.Body))
}

// NewClient creates a new GitHub REST client.
func NewClient(opts Options) (*Client, error) {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, errors.New("invalid GitHub base URL: " + err.Error())
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      strings.TrimSpace(opts.Token),
		httpClient: httpClient,
	}

	// Initialize services
	c.Tags = &tagsService{client: c, maxConcurrency: opts.MaxConcurrency}
	c.Commits = &commitsService{client: c}

	return c, nil
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// DoRequest sends a GET-style request to the GitHub API and returns the response
// body and headers. The 'path' is relative to the API root (e.g., "/repos/o/n/tags").
// Network failures and error statuses are returned as *apperr.TransportError;
// error statuses additionally wrap an *APIError.
func (c *Client) DoRequest(ctx context.Context, method, path string, query url.Values) ([]byte, http.Header, error) {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request [%s %s]: %w", method, fullURL, err)
	}

	req.Header.Set("Accept", AcceptHeader)
	req.Header.Set("X-GitHub-Api-Version", APIVersion)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, &apperr.TransportError{Op: method, URL: fullURL, Err: err}
	}
	defer resp.Body.Close()

	respData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, &apperr.TransportError{Op: method, URL: fullURL, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode >= 400 {
		return nil, nil, &apperr.TransportError{
			Op:  method,
			URL: fullURL,
			Err: &APIError{
				StatusCode: resp.StatusCode,
				Message:    http.StatusText(resp.StatusCode),
				Body:       respData,
			},
		}
	}

	return respData, resp.Header, nil
}

// repoPath builds "/repos/{owner}/{name}" with both segments escaped.
func repoPath(owner, name string) string {
	return fmt.Sprintf("/repos/%s/%s", url.PathEscape(owner), url.PathEscape(name))
}
