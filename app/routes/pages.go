// Package routes defines the site's pages and registers them on a router.
package routes

import (
	"fmt"
	"log/slog"

	"github.com/maxcell/portfolio/internal/config"
	"github.com/maxcell/portfolio/pkg/content"
	"github.com/maxcell/portfolio/pkg/feed"
	"github.com/maxcell/portfolio/pkg/server"
)

// Paths of the generated pages
const (
	HomePath     = "/"
	GardenPath   = "/garden"
	FeedJSONPath = "/feed.json"
)

// Pages renders the site from a config and a content index
type Pages struct {
	Config *config.Config
	Index  content.Index
	Logger *slog.Logger
}

// Register adds every page to r
func (p *Pages) Register(r *server.Router) {
	r.AddRoute(HomePath, p.Home)
	r.AddRoute(GardenPath, p.Garden)
	r.AddAPIRoute(FeedJSONPath, p.FeedJSON)
	r.SetNotFound(p.NotFound)
	r.SetErrorPage(p.Error)
}

func (p *Pages) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.Default()
	}
	return p.Logger
}

// project loads the index and applies opts. Malformed documents fail in
// development and are logged and skipped otherwise.
func (p *Pages) project(ctx server.Ctx, opts feed.Options) ([]feed.DisplayItem, error) {
	docs, err := p.Index.Documents(ctx.Context())
	if err != nil {
		return nil, fmt.Errorf("failed to load posts: %w", err)
	}

	opts.Strict = p.Config.IsDevelopment()
	projection, err := feed.Project(docs, opts)
	if err != nil {
		return nil, err
	}

	for _, skipped := range projection.Skipped {
		p.logger().Warn("skipping malformed post",
			"slug", skipped.Slug,
			"source", skipped.SourcePath,
			"missing", skipped.Missing,
		)
	}
	return projection.Items, nil
}

// homeOptions are the feed settings for the home page
func (p *Pages) homeOptions() feed.Options {
	opts := feed.DefaultOptions()
	if p.Config.Feed.Limit > 0 {
		opts.Limit = p.Config.Feed.Limit
	}
	return opts
}
