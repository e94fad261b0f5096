package runtime

import "taglog/internal/config"

// Source selects where tags are read from.
type Source string

const (
	SourceAuto   Source = config.SourceAuto
	SourceGitHub Source = config.SourceGitHub
	SourceLocal  Source = config.SourceLocal
)

// ResolveSource picks the tag source. An explicit choice always wins; auto
// uses the GitHub API for github.com or a configured API URL, and the local
// working tree otherwise.
func ResolveSource(ctx Context, forced Source) Source {
	if forced != SourceAuto && forced != "" {
		return forced
	}
	switch {
	case ctx.APIURL != "":
		return SourceGitHub
	case ctx.Repository.IsGitHub():
		return SourceGitHub
	default:
		return SourceLocal
	}
}
