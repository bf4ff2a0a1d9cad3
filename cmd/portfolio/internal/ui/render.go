package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/maxcell/portfolio/pkg/feed"
)

var (
	primaryColor = lipgloss.Color("#d97706")
	mutedColor   = lipgloss.Color("#94a3b8")
	errorColor   = lipgloss.Color("#ef4444")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Width(8)

	focusedStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(1, 2)
)

var fieldLabels = [fieldCount]string{"Title", "Date", "Slug"}

// View renders the form
func (m Model) View() string {
	if m.done || m.aborted {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("New post"))
	b.WriteString("\n")

	for i, input := range m.inputs {
		label := labelStyle.Render(fieldLabels[i])
		if i == m.focus {
			label = focusedStyle.Render(labelStyle.Render(fieldLabels[i]))
		}
		b.WriteString(label + input.View() + "\n")
	}

	draft := "[ ] draft"
	if m.draft {
		draft = "[x] draft"
	}
	b.WriteString("\n" + draft + "\n")

	if m.err != "" {
		b.WriteString("\n" + errorStyle.Render(m.err) + "\n")
	}

	keys := DefaultKeyMap
	help := fmt.Sprintf("%s • %s • %s • %s",
		keys.Next.Help().Key+" "+keys.Next.Help().Desc,
		keys.Submit.Help().Key+" "+keys.Submit.Help().Desc,
		keys.Draft.Help().Key+" "+keys.Draft.Help().Desc,
		keys.Quit.Help().Key+" "+keys.Quit.Help().Desc,
	)
	b.WriteString("\n" + mutedStyle.Render(help))

	return boxStyle.Render(b.String())
}

// RenderFeed renders a projection as a numbered list followed by the
// skipped documents.
func RenderFeed(heading string, p feed.Projection) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(heading))
	b.WriteString("\n")

	if len(p.Items) == 0 {
		b.WriteString(mutedStyle.Render("no published posts") + "\n")
	}

	width := len(fmt.Sprint(len(p.Items)))
	for i, item := range p.Items {
		num := mutedStyle.Render(fmt.Sprintf("%*d.", width, i+1))
		fmt.Fprintf(&b, "%s %s %s\n", num, focusedStyle.Render(item.Label), mutedStyle.Render(item.Target))
	}

	for _, skipped := range p.Skipped {
		b.WriteString(errorStyle.Render("skipped ") + skipped.Error() + "\n")
	}
	return b.String()
}
