package components

import (
	"fmt"

	"github.com/maxcell/portfolio/internal/config"
	"github.com/maxcell/portfolio/pkg/builder"
	"github.com/maxcell/portfolio/pkg/vdom"
)

// ShortAbout renders the greeting, bio paragraph and social links
func ShortAbout(author config.AuthorConfig, social []config.SocialLink) *vdom.VNode {
	var bio *vdom.VNode
	if author.Bio != "" {
		bio = builder.P().Text(author.Bio).Build()
	}

	return vdom.NewFragment(
		builder.H1().Text(Greeting(author)).Build(),
		bio,
		SocialList(social),
	)
}

// Greeting formats the page heading, e.g. "Howdy, I'm Prince!"
func Greeting(author config.AuthorConfig) string {
	return fmt.Sprintf("%s, I'm %s!", author.Greeting, author.Name)
}

// SocialList renders one list item per profile link. It renders nothing
// when there are no links.
func SocialList(links []config.SocialLink) *vdom.VNode {
	if len(links) == 0 {
		return nil
	}

	items := make([]*vdom.VNode, 0, len(links))
	for _, link := range links {
		li := builder.Li()
		if link.Prefix != "" {
			li.Text(link.Prefix + " ")
		}
		items = append(items, li.Children(ExternalLink(link.URL, link.Label)).Build())
	}
	return builder.Ul().Children(items...).Build()
}
