package routes

import (
	"github.com/maxcell/portfolio/app/components"
	"github.com/maxcell/portfolio/pkg/server"
	"github.com/maxcell/portfolio/pkg/vdom"
)

// Home renders the bio, the latest posts and speaking engagements
func (p *Pages) Home(ctx server.Ctx) (*vdom.VNode, error) {
	items, err := p.project(ctx, p.homeOptions())
	if err != nil {
		return nil, err
	}

	cfg := p.Config
	return vdom.NewFragment(
		components.ShortAbout(cfg.Author, cfg.Social),
		components.SectionHeader(cfg.Feed.Heading, GardenPath, "All posts"),
		components.BlogList(items),
		components.SectionHeader("Speaking Engagements", "", ""),
		components.EngagementSection(cfg.Engagements),
	), nil
}
