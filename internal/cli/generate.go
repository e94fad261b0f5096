package cli

import (
	"github.com/spf13/cobra"

	"taglog/internal/config"
	"taglog/internal/runtime"
)

type generateOptions struct {
	url     string
	prefix  string
	output  string
	source  string
	dates   string
	bump    string
	dryRun  bool
	summary bool
}

func newGenerateCmd(root *rootOptions) *cobra.Command {
	opts := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Create or update the changelog",
		Long: `Create or update the changelog.

Every semantic-version tag not yet documented gets a release block linking
to its release page. The file is written only after all tags have been
fetched and parsed, so a failed run leaves it untouched.`,
		Example: `  taglog generate --prefix v
  taglog generate --source local --dates commit
  taglog generate --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, root, opts)
		},
	}
	addGenerateFlags(cmd, opts)
	return cmd
}

func addGenerateFlags(cmd *cobra.Command, opts *generateOptions) {
	addRepoFlags(cmd, &opts.url, &opts.prefix, &opts.source)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Changelog file to write (default CHANGELOG.md)")
	cmd.Flags().StringVar(&opts.dates, "dates", "", "Release dates: placeholder or commit")
	cmd.Flags().StringVar(&opts.bump, "bump", "", "Release level forecast in the summary: major, minor or patch")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Print the diff instead of writing the file")
	cmd.Flags().BoolVar(&opts.summary, "summary", false, "Print a run summary")
}

func addRepoFlags(cmd *cobra.Command, url, prefix, source *string) {
	cmd.Flags().StringVar(url, "url", "", "Repository clone URL (default: origin remote)")
	cmd.Flags().StringVar(prefix, "prefix", "", "Tag prefix, e.g. v")
	cmd.Flags().StringVar(source, "source", "", "Tag source: auto, github or local")
}

// applyRepoFlags copies explicitly set repository flags over cfg.
func applyRepoFlags(cmd *cobra.Command, cfg *config.Configuration, url, prefix, source string) {
	if cmd.Flags().Changed("url") {
		cfg.RepositoryURL = url
	}
	if cmd.Flags().Changed("prefix") {
		cfg.TagPrefix = prefix
	}
	if cmd.Flags().Changed("source") {
		cfg.Source = source
	}
}

func runGenerate(cmd *cobra.Command, root *rootOptions, opts *generateOptions) error {
	cfg, err := loadConfig(cmd, root)
	if err != nil {
		return err
	}

	applyRepoFlags(cmd, cfg, opts.url, opts.prefix, opts.source)
	if cmd.Flags().Changed("output") {
		cfg.Destination = opts.output
	}
	if cmd.Flags().Changed("dates") {
		cfg.Dates = opts.dates
	}
	if cmd.Flags().Changed("bump") {
		cfg.Bump = opts.bump
	}
	if cmd.Flags().Changed("dry-run") {
		cfg.DryRun = opts.dryRun
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	rc, err := runtime.LoadContext(cfg)
	if err != nil {
		return err
	}
	provider, err := runtime.NewProvider(rc)
	if err != nil {
		return err
	}

	res, err := runtime.Generate(cmd.Context(), rc, provider, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	if opts.summary {
		rc.PrintSummary(cmd.OutOrStdout(), res)
	}
	return nil
}
