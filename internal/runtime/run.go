package runtime

import (
	"context"
	"fmt"
	"io"

	"taglog/internal/changelog"
	"taglog/internal/config"
	"taglog/internal/logger"
	"taglog/pkg/github"
)

// Result describes what a run found and did.
type Result struct {
	Tags      int
	Entries   []changelog.Entry
	Skipped   []string
	Added     []changelog.Entry
	Malformed []string
	Existed   bool
	Written   bool
	Previous  string
	Text      string
}

// Collect fetches the tags and computes the ordered, de-duplicated entry set.
func Collect(ctx context.Context, c Context, p TagProvider) (*Result, error) {
	logger.Info("[tags] fetching", "repository", c.Repository.Slug(), "source", p.Name())

	tags, err := p.ListTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching tags of %s: %w", c.Repository.Slug(), err)
	}

	res := &Result{Tags: len(tags)}
	entries, err := changelog.BuildEntries(tags, c.TagPrefix, changelog.BuildOptions{
		SkipInvalid: c.SkipInvalidTags,
		OnInvalid: func(tag github.Tag, err error) {
			logger.Warn("[tags] skipping tag", "tag", tag.Name, "error", err)
			res.Skipped = append(res.Skipped, tag.Name)
		},
	})
	if err != nil {
		return nil, err
	}
	res.Entries = entries

	logger.Info("[tags] entries computed", "tags", res.Tags, "entries", len(entries))
	return res, nil
}

// Generate updates (or in dry-run mode previews) the changelog at c.Destination.
// The file is only touched once every new entry is fully known. In dry-run mode
// the diff is written to out.
func Generate(ctx context.Context, c Context, p TagProvider, out io.Writer) (*Result, error) {
	res, err := Collect(ctx, c, p)
	if err != nil {
		return nil, err
	}

	previous, exists, err := changelog.Load(c.Destination)
	if err != nil {
		return nil, err
	}
	res.Existed = exists
	res.Previous = previous

	var doc *changelog.Document
	if exists {
		doc = changelog.Parse(previous, c.TagPrefix)
	} else {
		doc = changelog.NewDocument(c.Repository, c.TagPrefix)
	}
	logger.Debug("[changelog] loaded", "path", c.Destination, "existing", exists, "documented", len(doc.Versions()))
	for _, line := range doc.Malformed {
		logger.Warn("[changelog] heading kept as prose", "line", line)
	}
	res.Malformed = doc.Malformed

	res.Added = doc.Pending(res.Entries)
	if c.Dates == config.DatesCommit && len(res.Added) > 0 {
		if err := resolveDates(ctx, p, res.Added, c.MaxConcurrency); err != nil {
			return nil, err
		}
	}

	res.Text = doc.Render(c.Repository, res.Added)

	switch {
	case c.DryRun:
		if diff := LineDiff(c.Destination, previous, res.Text); diff != "" {
			fmt.Fprint(out, diff)
		} else {
			fmt.Fprintf(out, "%s is up to date\n", c.Destination)
		}
		logger.Info("[changelog] dry-run: not writing", "path", c.Destination, "new", len(res.Added))
	case exists && previous == res.Text:
		logger.Info("[changelog] up to date", "path", c.Destination)
	default:
		if err := changelog.Write(c.Destination, res.Text); err != nil {
			return nil, err
		}
		res.Written = true
		logger.Info("[changelog] written", "path", c.Destination, "new", len(res.Added))
	}
	return res, nil
}
