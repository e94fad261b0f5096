// Package cli wires taglog's commands with cobra.
package cli

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"taglog/internal/apperr"
	"taglog/internal/config"
	"taglog/internal/logger"
)

type rootOptions struct {
	configPath string
	logLevel   string
}

// Execute runs the taglog command tree with os.Args. Interrupts cancel the
// run's context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := NewRootCmd()
	err := cmd.ExecuteContext(ctx)
	if err != nil {
		logger.Error(err)
	}
	return err
}

// NewRootCmd builds the full command tree. Running the root command without a
// subcommand generates the changelog.
func NewRootCmd() *cobra.Command {
	root := &rootOptions{}
	gen := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "taglog",
		Short: "Generate a changelog from repository tags",
		Long: `taglog maintains a Markdown changelog with one section per semantic-version tag.

Tags are read from the GitHub API or the local working tree, sorted newest
first, and every version not yet in the changelog gets a release block.
Existing release blocks and hand-written text are kept; the Unreleased block
is regenerated on every run.`,
		Example: `  taglog                                   # update CHANGELOG.md from the origin remote
  taglog --prefix v --dry-run              # preview the changes
  taglog --url git@github.com:o/r.git -o docs/CHANGES.md
  taglog tags --format yaml                # list the computed entries`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, root, gen)
		},
	}

	cmd.PersistentFlags().StringVar(&root.configPath, "config", "", "Config file (default "+config.DefaultPath+")")
	cmd.PersistentFlags().StringVar(&root.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	addGenerateFlags(cmd, gen)

	cmd.AddCommand(
		newGenerateCmd(root),
		newTagsCmd(root),
		newInitCmd(),
		newVersionCmd(),
	)
	return cmd
}

// loadConfig reads configuration and configures logging for the command.
// The --log-level flag wins over the configured level.
func loadConfig(cmd *cobra.Command, root *rootOptions) (*config.Configuration, error) {
	cfg, err := config.Load(root.configPath)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = root.logLevel
	}
	if err := logger.Configure(cfg.LogLevel, cmd.ErrOrStderr()); err != nil {
		return nil, apperr.NewFormatError("log level", cfg.LogLevel)
	}
	return cfg, nil
}
