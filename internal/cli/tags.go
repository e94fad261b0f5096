package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"taglog/internal/apperr"
	"taglog/internal/changelog"
	"taglog/internal/runtime"
)

type tagsOptions struct {
	url    string
	prefix string
	source string
	format string
}

// tagRow is one entry in `taglog tags` output.
type tagRow struct {
	Tag        string `yaml:"tag"`
	Version    string `yaml:"version"`
	Commit     string `yaml:"commit,omitempty"`
	PreRelease bool   `yaml:"prerelease"`
	ReleaseURL string `yaml:"release_url"`
}

func newTagsCmd(root *rootOptions) *cobra.Command {
	opts := &tagsOptions{}
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "List the changelog entries computed from the repository tags",
		Long: `List the changelog entries computed from the repository tags, newest first.

Tags without the prefix are ignored and tags differing only in build
metadata are listed once.`,
		Example: `  taglog tags --prefix v
  taglog tags --format yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTags(cmd, root, opts)
		},
	}
	addRepoFlags(cmd, &opts.url, &opts.prefix, &opts.source)
	cmd.Flags().StringVar(&opts.format, "format", "text", "Output format: text or yaml")
	return cmd
}

func runTags(cmd *cobra.Command, root *rootOptions, opts *tagsOptions) error {
	if opts.format != "text" && opts.format != "yaml" {
		return apperr.NewFormatError("output format", opts.format)
	}

	cfg, err := loadConfig(cmd, root)
	if err != nil {
		return err
	}
	applyRepoFlags(cmd, cfg, opts.url, opts.prefix, opts.source)
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
	res, err := runtime.Collect(cmd.Context(), rc, provider)
	if err != nil {
		return err
	}

	rows := make([]tagRow, len(res.Entries))
	for i, e := range res.Entries {
		rows[i] = newTagRow(rc, e)
	}

	if opts.format == "yaml" {
		return writeYAML(cmd.OutOrStdout(), rows)
	}
	return writeText(cmd.OutOrStdout(), rows)
}

func newTagRow(rc runtime.Context, e changelog.Entry) tagRow {
	return tagRow{
		Tag:        e.Tag.Name,
		Version:    e.Version.String(),
		Commit:     e.Tag.Commit.SHA,
		PreRelease: e.Version.IsPreRelease(),
		ReleaseURL: rc.Repository.ReleaseURL(e.Tag.Name),
	}
}

func writeYAML(w io.Writer, rows []tagRow) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rows); err != nil {
		return fmt.Errorf("encoding tags: %w", err)
	}
	return enc.Close()
}

func writeText(w io.Writer, rows []tagRow) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, r := range rows {
		commit := r.Commit
		if len(commit) > 8 {
			commit = commit[:8]
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Tag, r.Version, commit)
	}
	return tw.Flush()
}
