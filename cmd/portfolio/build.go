package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func newBuildCommand(opts *globalOptions) *cobra.Command {
	var output string
	var clean bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render the site into the output directory",
		Long: `Renders every page, the 404 page and the stylesheet, and copies the
static directory. Pages whose content did not change are not rewritten.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			s, err := opts.loadSite(cmd, "")
			if err != nil {
				return err
			}
			if output != "" {
				s.Config.Paths.Output = output
			}

			if clean {
				fmt.Fprintln(out, "🧹 Cleaning output and cache...")
				for _, dir := range []string{s.Config.Paths.Output, s.Config.Paths.Cache} {
					if err := os.RemoveAll(s.Path(dir)); err != nil {
						return fmt.Errorf("failed to clean %s: %w", dir, err)
					}
				}
			}

			fmt.Fprintf(out, "🚀 Building site (%s)...\n", s.Config.Mode)
			result, err := s.Build(cmd.Context())
			if err != nil {
				return fmt.Errorf("build failed: %w", err)
			}

			for _, skipped := range result.Skipped {
				fmt.Fprintf(out, "⚠️  Skipped %s\n", skipped.Error())
			}
			fmt.Fprintf(out, "✅ Wrote %d files, %d unchanged, %d removed in %s\n",
				len(result.Written), len(result.Unchanged), len(result.Removed), result.Duration.Round(time.Millisecond))
			fmt.Fprintf(out, "📦 Output: %s\n", s.Path(s.Config.Paths.Output))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output directory (defaults to paths.output)")
	cmd.Flags().BoolVar(&clean, "clean", false, "Remove the output directory and page cache first")

	return cmd
}
