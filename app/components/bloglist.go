package components

import (
	"github.com/maxcell/portfolio/pkg/builder"
	"github.com/maxcell/portfolio/pkg/feed"
	"github.com/maxcell/portfolio/pkg/styling"
	"github.com/maxcell/portfolio/pkg/vdom"
)

var blogListStyle = styling.StyleWithRegistry(`
.blog-list {
	padding-left: 0;
}
.post-link {
	display: block;
	border-radius: 5px;
	font-weight: 700;
	padding: 0.5rem 1rem;
}
.post-link:link,
.post-link:visited {
	color: #222426;
}
.post-link:hover,
.post-link:focus {
	transition: background 0.1s ease-in-out 0s;
	background-color: hsla(303, 74%, 92%, 0.4);
	text-decoration: none;
}
`)

// BlogList renders feed items as an ordered list of links. An empty feed
// renders an empty list.
func BlogList(items []feed.DisplayItem) *vdom.VNode {
	children := make([]*vdom.VNode, 0, len(items))
	for _, item := range items {
		children = append(children, builder.Li().
			Key(item.Target).
			Children(
				builder.A().
					Class(blogListStyle.Class("post-link")).
					Href(item.Target).
					Text(item.Label).
					Build(),
			).Build())
	}

	return builder.Ol().
		Class("blog-list", blogListStyle.Class("blog-list")).
		Children(children...).
		Build()
}
