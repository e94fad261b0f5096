package changelog

import (
	"fmt"
	"slices"
	"strings"

	"taglog/internal/version"
	"taglog/pkg/github"
)

// Entry is one release to document.
type Entry struct {
	Version version.Version
	Tag     github.Tag
	// Date is rendered in the heading; empty means the placeholder is used.
	Date string
}

// BuildOptions controls how tag names that are not semantic versions are handled.
type BuildOptions struct {
	// SkipInvalid drops tags whose name (after the prefix) does not parse
	// instead of failing.
	SkipInvalid bool
	// OnInvalid, if set, is called for every skipped tag.
	OnInvalid func(tag github.Tag, err error)
}

// BuildEntries turns tags into changelog entries: tags without the prefix are
// ignored, the rest are parsed, sorted newest first, and reduced to one entry
// per version core. On ties the tag retrieved first wins.
func BuildEntries(tags []github.Tag, prefix string, opts BuildOptions) ([]Entry, error) {
	entries := make([]Entry, 0, len(tags))
	for _, tag := range tags {
		if !strings.HasPrefix(tag.Name, prefix) {
			continue
		}
		v, err := version.Parse(strings.TrimPrefix(tag.Name, prefix))
		if err != nil {
			if !opts.SkipInvalid {
				return nil, fmt.Errorf("tag %q: %w", tag.Name, err)
			}
			if opts.OnInvalid != nil {
				opts.OnInvalid(tag, err)
			}
			continue
		}
		entries = append(entries, Entry{Version: v, Tag: tag})
	}

	slices.SortStableFunc(entries, func(a, b Entry) int {
		return b.Version.Compare(a.Version)
	})

	seen := make(map[version.Version]bool, len(entries))
	distinct := entries[:0]
	for _, e := range entries {
		core := e.Version.Core()
		if seen[core] {
			continue
		}
		seen[core] = true
		distinct = append(distinct, e)
	}
	return distinct, nil
}
