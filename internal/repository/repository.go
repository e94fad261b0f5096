// Package repository parses remote repository URLs into host, owner and name.
package repository

import (
	"fmt"
	"regexp"

	"taglog/internal/apperr"
)

const formatKind = "repository URL"

// Repository identifies a repository on a source-hosting service.
type Repository struct {
	Host  string
	Owner string
	Name  string
}

// Not completely accurate, but strict: the host is dot-separated domain labels,
// no trailing slash, no extra segments, and the .git suffix is required.
var urlFormats = func() []*regexp.Regexp {
	const (
		host = `(?:[A-Za-z0-9-]+\.)+[A-Za-z]{2,6}`
		part = `[\w.-]+`
	)
	return []*regexp.Regexp{
		// SSH: git@github.com:owner/name.git
		regexp.MustCompile(`^git@(` + host + `):(` + part + `)/(` + part + `)\.git$`),
		// HTTPS: https://github.com/owner/name.git
		regexp.MustCompile(`^https://(` + host + `)/(` + part + `)/(` + part + `)\.git$`),
	}
}()

// Parse extracts the repository identifier from an SSH or HTTPS clone URL.
func Parse(url string) (Repository, error) {
	for _, re := range urlFormats {
		if m := re.FindStringSubmatch(url); m != nil {
			return Repository{Host: m[1], Owner: m[2], Name: m[3]}, nil
		}
	}
	return Repository{}, apperr.NewFormatError(formatKind, url)
}

// URL returns the canonical HTTPS web URL, without the .git suffix.
func (r Repository) URL() string {
	return fmt.Sprintf("https://%s/%s/%s", r.Host, r.Owner, r.Name)
}

// Slug returns "owner/name".
func (r Repository) Slug() string {
	return r.Owner + "/" + r.Name
}

// ReleaseURL returns the web URL of the release page for a tag.
func (r Repository) ReleaseURL(tag string) string {
	return r.URL() + "/releases/tag/" + tag
}

// IsGitHub reports whether the repository is hosted on github.com.
func (r Repository) IsGitHub() bool {
	return r.Host == "github.com"
}

// APIBaseURL returns the REST API root for the repository's host. GitHub
// Enterprise servers expose the API under /api/v3.
func (r Repository) APIBaseURL() string {
	if r.IsGitHub() {
		return "https://api.github.com"
	}
	return fmt.Sprintf("https://%s/api/v3", r.Host)
}

func (r Repository) String() string {
	return r.Host + "/" + r.Slug()
}
