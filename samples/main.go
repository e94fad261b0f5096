// Lists the changelog entries of a GitHub repository and forecasts the next
// patch release.
//
//	go run ./samples git@github.com:owner/name.git v
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"taglog/internal/changelog"
	"taglog/internal/logger"
	"taglog/internal/repository"
	"taglog/internal/version"
	"taglog/pkg/github"
)

func main() {
	_ = godotenv.Load(".env")

	if len(os.Args) < 2 {
		logger.Fatal("usage: samples <repository-url> [tag-prefix]")
	}
	prefix := ""
	if len(os.Args) > 2 {
		prefix = os.Args[2]
	}

	repo, err := repository.Parse(os.Args[1])
	if err != nil {
		logger.Fatal("[repo] invalid repository", "error", err)
	}

	client, err := github.NewClient(github.Options{
		BaseURL: repo.APIBaseURL(),
		Token:   os.Getenv("GITHUB_TOKEN"),
	})
	if err != nil {
		logger.Fatal("[github] init failed", "error", err)
	}

	tags, err := client.Tags.ListTags(context.Background(), repo.Owner, repo.Name)
	if err != nil {
		logger.Fatal("[github] list tags failed", "error", err)
	}

	entries, err := changelog.BuildEntries(tags, prefix, changelog.BuildOptions{
		SkipInvalid: true,
		OnInvalid: func(tag github.Tag, err error) {
			logger.Warn("[tags] skipping tag", "tag", tag.Name, "error", err)
		},
	})
	if err != nil {
		logger.Fatal("[tags] building entries failed", "error", err)
	}

	for _, e := range entries {
		fmt.Printf("%-24s %s\n", e.Tag.Name, repo.ReleaseURL(e.Tag.Name))
	}

	latest := ""
	if len(entries) > 0 {
		latest = entries[0].Tag.Name
	}
	next, err := version.ForecastNext(latest, prefix, version.Patch)
	if err != nil {
		logger.Fatal("[version] forecast failed", "error", err)
	}
	fmt.Printf("latest=%q next=%s\n", latest, next)
}
