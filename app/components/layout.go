package components

import (
	"github.com/maxcell/portfolio/internal/config"
	"github.com/maxcell/portfolio/pkg/builder"
	"github.com/maxcell/portfolio/pkg/server"
	"github.com/maxcell/portfolio/pkg/styling"
	"github.com/maxcell/portfolio/pkg/vdom"
)

// StylesheetPath is where the combined component CSS is served
const StylesheetPath = "/styles.css"

var layoutStyle = styling.StyleWithRegistry(`
.page {
	max-width: 42rem;
	margin: 0 auto;
	padding: 2rem 1rem;
	font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
	line-height: 1.6;
	color: #222426;
}
.page-footer {
	margin-top: 3rem;
	font-size: 0.875rem;
	color: #5b5e61;
}
`)

// Layout wraps page bodies in the site document
func Layout(site config.SiteConfig) server.Layout {
	return server.LayoutFunc(func(child *vdom.VNode) *vdom.VNode {
		return Document(site, child)
	})
}

// Document renders a complete HTML page around body
func Document(site config.SiteConfig, body *vdom.VNode) *vdom.VNode {
	var description *vdom.VNode
	if site.Description != "" {
		description = builder.Meta().Name("description").Content(site.Description).Build()
	}

	return builder.Html().
		Lang(site.Lang).
		Children(
			builder.Head().Children(
				builder.Meta().Charset("utf-8").Build(),
				builder.Meta().Name("viewport").Content("width=device-width, initial-scale=1").Build(),
				builder.TitleTag().Text(site.Title).Build(),
				description,
				builder.LinkTag().Rel("stylesheet").Href(StylesheetPath).Build(),
			).Build(),
			builder.Body().Children(
				builder.Main().
					Class(layoutStyle.Class("page")).
					Children(body).
					Build(),
				builder.Footer().
					Class(layoutStyle.Class("page"), layoutStyle.Class("page-footer")).
					Children(Link("/", site.Title)).
					Build(),
			).Build(),
		).Build()
}
