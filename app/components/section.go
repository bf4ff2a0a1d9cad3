package components

import (
	"github.com/maxcell/portfolio/pkg/builder"
	"github.com/maxcell/portfolio/pkg/styling"
	"github.com/maxcell/portfolio/pkg/vdom"
)

var sectionStyle = styling.StyleWithRegistry(`
.section-header {
	display: flex;
	flex-direction: row;
	justify-content: space-between;
	align-items: baseline;
}
`)

// SectionHeader renders an h2 with an optional link aligned to the right
func SectionHeader(title, href, label string) *vdom.VNode {
	var link *vdom.VNode
	if href != "" {
		link = Link(href, label)
	}

	return builder.Div().
		Class(sectionStyle.Class("section-header")).
		Children(
			builder.H2().Text(title).Build(),
			link,
		).Build()
}
