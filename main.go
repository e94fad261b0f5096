// taglog main entrypoint
//
// taglog keeps a Markdown changelog in sync with a repository's semantic-version
// tags. It reads tags from the GitHub API or the local working tree, adds a
// release block for every version not yet documented, and regenerates the
// Unreleased block.
//
// Keep this file simple: load .env, run the command tree, map the error to an
// exit code. All the heavy lifting stays internal.

package main

import (
	"os"

	"github.com/joho/godotenv"

	"taglog/internal/apperr"
	"taglog/internal/cli"
)

func main() {
	// Local overrides for dev runs (e.g. GITHUB_TOKEN); harmless when absent.
	_ = godotenv.Load(".env")

	if err := cli.Execute(); err != nil {
		os.Exit(apperr.ExitCode(err))
	}
}
