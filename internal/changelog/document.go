package changelog

import (
	"fmt"
	"slices"
	"strings"

	"taglog/internal/repository"
	"taglog/internal/version"
)

const (
	HeadingPrefix     = "## "
	UnreleasedHeading = HeadingPrefix + "Unreleased"
	DatePlaceholder   = "date"
	BodyPlaceholder   = "Content"
)

type scanState int

const (
	inHeader scanState = iota
	inUnreleased
	inRelease
)

// Document is a parsed changelog. It is built by Parse or NewDocument and
// rendered with Render; it is never edited in place.
type Document struct {
	prefix string

	header []string
	// footer holds every line from the first kept heading on, verbatim.
	footer []string

	versions []version.Version
	released map[version.Version]bool

	// Malformed lists "## " headings that are neither Unreleased nor a
	// parsable release heading. They are kept verbatim as prose.
	Malformed []string
}

// NewDocument returns an empty changelog titled after the repository.
func NewDocument(repo repository.Repository, prefix string) *Document {
	return &Document{
		prefix:   prefix,
		header:   []string{fmt.Sprintf("# Changelog of %s/%s", repo.Owner, repo.Name)},
		released: map[version.Version]bool{},
	}
}

// Parse scans an existing changelog. Every Unreleased block is dropped; release
// headings are parsed after stripping prefix from the bracketed version.
func Parse(text, prefix string) *Document {
	d := &Document{prefix: prefix, released: map[version.Version]bool{}}

	state := inHeader
	for _, line := range splitLines(text) {
		if strings.HasPrefix(line, HeadingPrefix) {
			if strings.TrimSpace(line) == UnreleasedHeading {
				state = inUnreleased
				continue
			}
			state = inRelease
			if v, ok := parseHeading(line, prefix); ok {
				d.versions = append(d.versions, v)
				d.released[v.Core()] = true
			} else {
				d.Malformed = append(d.Malformed, line)
			}
		}

		switch state {
		case inHeader:
			d.header = append(d.header, line)
		case inRelease:
			d.footer = append(d.footer, line)
		case inUnreleased:
			// stale unreleased notes are discarded
		}
	}
	return d
}

// Versions returns the release versions found in the document, in document order.
func (d *Document) Versions() []version.Version {
	return slices.Clone(d.versions)
}

// Has reports whether a release with the same core as v is already documented.
func (d *Document) Has(v version.Version) bool {
	return d.released[v.Core()]
}

// Pending returns the entries not yet documented, preserving their order.
func (d *Document) Pending(entries []Entry) []Entry {
	var pending []Entry
	for _, e := range entries {
		if !d.Has(e.Version) {
			pending = append(pending, e)
		}
	}
	return pending
}

// Render produces the full document: header, a fresh Unreleased block, one
// block per entry in the given order, then the existing release blocks.
func (d *Document) Render(repo repository.Repository, entries []Entry) string {
	var sections []string
	if header := trimTrailingBlank(d.header); len(header) > 0 {
		sections = append(sections, strings.Join(header, "\n"))
	}

	sections = append(sections, UnreleasedHeading+"\n\n"+BodyPlaceholder)

	for _, e := range entries {
		sections = append(sections, d.releaseBlock(repo, e))
	}

	if footer := trimTrailingBlank(d.footer); len(footer) > 0 {
		sections = append(sections, strings.Join(footer, "\n"))
	}

	return strings.TrimRight(strings.Join(sections, "\n\n"), " \t\r\n") + "\n"
}

func (d *Document) releaseBlock(repo repository.Repository, e Entry) string {
	name := e.Version.VersionString(d.prefix)
	date := e.Date
	if date == "" {
		date = DatePlaceholder
	}
	return fmt.Sprintf("%s[%s](%s) (%s)\n\n%s", HeadingPrefix, name, repo.ReleaseURL(name), date, BodyPlaceholder)
}

// MergeResult is the outcome of Merge.
type MergeResult struct {
	Text      string
	Added     []Entry
	Malformed []string
}

// Merge combines an existing changelog (exists=false means there is none yet)
// with the current entry set.
func Merge(existing string, exists bool, repo repository.Repository, prefix string, entries []Entry) MergeResult {
	var d *Document
	if exists {
		d = Parse(existing, prefix)
	} else {
		d = NewDocument(repo, prefix)
	}

	added := d.Pending(entries)
	return MergeResult{
		Text:      d.Render(repo, added),
		Added:     added,
		Malformed: d.Malformed,
	}
}

// parseHeading extracts the version from "## [<prefix><version>](...".
func parseHeading(line, prefix string) (version.Version, bool) {
	rest := strings.TrimPrefix(line, HeadingPrefix)
	if !strings.HasPrefix(rest, "[") {
		return version.Version{}, false
	}
	end := strings.Index(rest, "](")
	if end < 0 {
		return version.Version{}, false
	}
	name := rest[1:end]
	if !strings.HasPrefix(name, prefix) {
		return version.Version{}, false
	}
	v, err := version.Parse(strings.TrimPrefix(name, prefix))
	if err != nil {
		return version.Version{}, false
	}
	return v, true
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

func trimTrailingBlank(lines []string) []string {
	end := len(lines)
	for end > 0 && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return lines[:end]
}
