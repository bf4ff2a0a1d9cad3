package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maxcell/portfolio/cmd/portfolio/internal/ui"
	"github.com/maxcell/portfolio/pkg/feed"
)

func newFeedCommand(opts *globalOptions) *cobra.Command {
	var (
		all    bool
		drafts bool
		strict bool
		asJSON bool
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Print the post feed shown on the home page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.loadSite(cmd, "")
			if err != nil {
				return err
			}
			if err := s.Reload(cmd.Context()); err != nil {
				return err
			}

			docs, err := s.Snapshot().Documents(cmd.Context())
			if err != nil {
				return err
			}

			feedOpts := feed.Options{
				ExcludeDrafts: !drafts,
				Limit:         s.Config.Feed.Limit,
				Strict:        strict,
			}
			if limit > 0 {
				feedOpts.Limit = limit
			}
			if all {
				feedOpts.Limit = 0
			}

			projection, err := feed.Project(docs, feedOpts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(projection.Items)
			}

			fmt.Fprint(out, ui.RenderFeed(s.Config.Feed.Heading, projection))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "List every post instead of the latest few")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Number of posts to list (defaults to feed.limit)")
	cmd.Flags().BoolVar(&drafts, "drafts", false, "Include drafts")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail on the first malformed post")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print label/target pairs as JSON")

	return cmd
}
