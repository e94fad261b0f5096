package cli

import (
	"fmt"
	goruntime "runtime"

	"github.com/spf13/cobra"
)

// Build information, set with -ldflags "-X taglog/internal/cli.Version=...".
var (
	Version = "dev"
	Commit  = "none"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the taglog version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "taglog %s (commit %s, %s)\n", Version, Commit, goruntime.Version())
		},
	}
}
