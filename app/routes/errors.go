package routes

import (
	"github.com/maxcell/portfolio/app/components"
	"github.com/maxcell/portfolio/pkg/builder"
	"github.com/maxcell/portfolio/pkg/server"
	"github.com/maxcell/portfolio/pkg/vdom"
)

// NotFound renders the 404 page
func (p *Pages) NotFound(ctx server.Ctx) (*vdom.VNode, error) {
	return vdom.NewFragment(
		builder.H1().Text("Page not found").Build(),
		builder.P().Children(
			vdom.NewText("There is nothing at this address. Try the "),
			components.Link(GardenPath, "list of all posts"),
			vdom.NewText(" instead."),
		).Build(),
	), nil
}

// Error renders the 500 page. In development the underlying error is shown.
func (p *Pages) Error(ctx server.Ctx) (*vdom.VNode, error) {
	var detail *vdom.VNode
	if p.Config.IsDevelopment() && ctx.Err() != nil {
		detail = builder.New("pre").Text(ctx.Err().Error()).Build()
	}

	return vdom.NewFragment(
		builder.H1().Text("Something went wrong").Build(),
		detail,
	), nil
}
