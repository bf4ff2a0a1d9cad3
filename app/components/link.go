package components

import (
	"github.com/maxcell/portfolio/pkg/builder"
	"github.com/maxcell/portfolio/pkg/styling"
	"github.com/maxcell/portfolio/pkg/vdom"
)

var linkStyle = styling.StyleWithRegistry(`
.link {
	color: #8a2c83;
	text-decoration: underline;
}
.link:hover,
.link:focus {
	text-decoration: none;
}
`)

// Link renders an in-site anchor
func Link(href, label string) *vdom.VNode {
	return builder.A().Class(linkStyle.Class("link")).Href(href).Text(label).Build()
}

// ExternalLink renders an anchor that opens in a new tab
func ExternalLink(href, label string) *vdom.VNode {
	return builder.A().Class(linkStyle.Class("link")).Href(href).External().Text(label).Build()
}
