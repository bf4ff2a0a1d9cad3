package components

import (
	"time"

	"github.com/maxcell/portfolio/internal/config"
	"github.com/maxcell/portfolio/pkg/builder"
	"github.com/maxcell/portfolio/pkg/styling"
	"github.com/maxcell/portfolio/pkg/vdom"
)

var engagementStyle = styling.StyleWithRegistry(`
.engagements {
	list-style: none;
	padding-left: 0;
}
.engagement {
	margin-bottom: 0.75rem;
}
.event {
	display: block;
	color: #5b5e61;
}
`)

// EngagementSection lists talks in the order they are configured
func EngagementSection(engagements []config.Engagement) *vdom.VNode {
	if len(engagements) == 0 {
		return builder.P().Text("No upcoming talks right now. Check back soon!").Build()
	}

	items := make([]*vdom.VNode, 0, len(engagements))
	for _, e := range engagements {
		items = append(items, engagementItem(e))
	}

	return builder.Ul().
		Class(engagementStyle.Class("engagements")).
		Children(items...).
		Build()
}

func engagementItem(e config.Engagement) *vdom.VNode {
	title := builder.Span().Text(e.Title).Build()
	if e.URL != "" {
		title = ExternalLink(e.URL, e.Title)
	}

	var detail *vdom.VNode
	if e.Event != "" || e.Date != "" {
		small := builder.Small().Class(engagementStyle.Class("event"))
		if e.Event != "" {
			small.Text(e.Event)
		}
		if e.Date != "" {
			if e.Event != "" {
				small.Text(" · ")
			}
			small.Children(formatDate(e.Date))
		}
		detail = small.Build()
	}

	return builder.Li().
		Class(engagementStyle.Class("engagement")).
		Children(title, detail).
		Build()
}

func formatDate(value string) *vdom.VNode {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return vdom.NewText(value)
	}
	return builder.Time().DateTime(value).Text(t.Format("January 2, 2006")).Build()
}
