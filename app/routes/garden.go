package routes

import (
	"github.com/maxcell/portfolio/app/components"
	"github.com/maxcell/portfolio/pkg/builder"
	"github.com/maxcell/portfolio/pkg/feed"
	"github.com/maxcell/portfolio/pkg/server"
	"github.com/maxcell/portfolio/pkg/vdom"
)

// Garden lists every published post, newest first
func (p *Pages) Garden(ctx server.Ctx) (*vdom.VNode, error) {
	items, err := p.project(ctx, feed.Options{ExcludeDrafts: true})
	if err != nil {
		return nil, err
	}

	var empty *vdom.VNode
	if len(items) == 0 {
		empty = builder.P().Text("Nothing planted yet.").Build()
	}

	return vdom.NewFragment(
		builder.H1().Text("All posts").Build(),
		empty,
		components.BlogList(items),
	), nil
}

// FeedJSON serves the home page feed as JSON
func (p *Pages) FeedJSON(ctx server.Ctx) (any, error) {
	return p.project(ctx, p.homeOptions())
}
