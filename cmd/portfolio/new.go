package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/maxcell/portfolio/cmd/portfolio/internal/ui"
	"github.com/maxcell/portfolio/pkg/content"
)

func newNewCommand(opts *globalOptions) *cobra.Command {
	var (
		post content.NewPost
		date string
	)

	cmd := &cobra.Command{
		Use:   "new [title]",
		Short: "Scaffold a new post",
		Long: `Creates <content dir>/<slug>.md with frontmatter. Without a title an
interactive form asks for the details.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.loadSite(cmd, "")
			if err != nil {
				return err
			}

			if len(args) == 1 {
				post.Title = args[0]
			}
			if date != "" {
				if post.Date, err = content.ParseDate(date); err != nil {
					return err
				}
			}

			if strings.TrimSpace(post.Title) == "" {
				if post, err = ui.RunNewPostForm(post); err != nil {
					return err
				}
			}

			path, err := content.WritePost(s.Path(s.Config.Paths.Content), post)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "📝 Created %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Publish date, YYYY-MM-DD (defaults to today)")
	cmd.Flags().StringVar(&post.Slug, "slug", "", "File name without .md (defaults to the slugified title)")
	cmd.Flags().BoolVar(&post.Draft, "draft", false, "Mark the post as a draft")

	return cmd
}
