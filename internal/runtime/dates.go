package runtime

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"taglog/internal/changelog"
	"taglog/internal/logger"
)

// resolveDates fills Date on every entry from the tagged commit, looking the
// commits up concurrently. The first failure cancels the remaining lookups.
func resolveDates(ctx context.Context, p TagProvider, entries []changelog.Entry, limit int) error {
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i := range entries {
		g.Go(func() error {
			e := &entries[i]
			when, err := p.CommitDate(ctx, e.Tag.Commit.SHA)
			if err != nil {
				return fmt.Errorf("resolving release date of %s: %w", e.Tag.Name, err)
			}
			e.Date = when.UTC().Format(time.DateOnly)
			logger.Debug("[dates] resolved", "tag", e.Tag.Name, "date", e.Date)
			return nil
		})
	}
	return g.Wait()
}
