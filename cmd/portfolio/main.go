package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/maxcell/portfolio/internal/config"
	"github.com/maxcell/portfolio/internal/site"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

// globalOptions are the flags shared by every command
type globalOptions struct {
	root       string
	configPath string
	mode       string
	verbose    bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "portfolio",
		Short: "Build and preview the portfolio site",
		Long: `portfolio renders the personal site: a short bio, the latest posts
from the content directory and upcoming speaking engagements.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.root, "root", "C", ".", "Project directory")
	flags.StringVarP(&opts.configPath, "config", "c", config.FileName, "Config file, relative to the project directory")
	flags.StringVar(&opts.mode, "mode", "", "Override the configured mode (development or production)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newDevCommand(opts))
	rootCmd.AddCommand(newBuildCommand(opts))
	rootCmd.AddCommand(newFeedCommand(opts))
	rootCmd.AddCommand(newNewCommand(opts))

	return rootCmd
}

func (o *globalOptions) logger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func (o *globalOptions) configFile() string {
	if filepath.IsAbs(o.configPath) {
		return o.configPath
	}
	return filepath.Join(o.root, o.configPath)
}

// loadConfig reads the config file and applies the --mode override
func (o *globalOptions) loadConfig(defaultMode string) (*config.Config, error) {
	cfg, err := config.Load(o.configFile())
	if err != nil {
		return nil, err
	}

	mode := o.mode
	if mode == "" {
		mode = defaultMode
	}
	if mode != "" {
		cfg.Mode = mode
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// loadSite loads the config and creates a site logging to the command's
// error stream.
func (o *globalOptions) loadSite(cmd *cobra.Command, defaultMode string) (*site.Site, error) {
	cfg, err := o.loadConfig(defaultMode)
	if err != nil {
		return nil, err
	}
	return site.New(o.root, cfg, o.logger(cmd.ErrOrStderr())), nil
}
