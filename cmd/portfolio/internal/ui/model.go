// Package ui holds the terminal views of the portfolio CLI: the new post
// form and the feed listing.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/maxcell/portfolio/pkg/content"
)

// Form fields in tab order
const (
	FieldTitle = iota
	FieldDate
	FieldSlug
	fieldCount
)

// KeyMap defines the form's keyboard shortcuts
type KeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Submit key.Binding
	Draft  key.Binding
	Quit   key.Binding
}

var DefaultKeyMap = KeyMap{
	Next: key.NewBinding(
		key.WithKeys("tab", "down"),
		key.WithHelp("tab", "next field"),
	),
	Prev: key.NewBinding(
		key.WithKeys("shift+tab", "up"),
		key.WithHelp("shift+tab", "previous field"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "next / create"),
	),
	Draft: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("ctrl+d", "toggle draft"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "esc"),
		key.WithHelp("esc", "cancel"),
	),
}

// Model is the new post form
type Model struct {
	inputs  []textinput.Model
	focus   int
	draft   bool
	err     string
	post    content.NewPost
	done    bool
	aborted bool
}

// NewModel creates the form, prefilled from p. A zero date is shown as
// today.
func NewModel(p content.NewPost, today time.Time) Model {
	title := textinput.New()
	title.Placeholder = "My new post"
	title.CharLimit = 120
	title.SetValue(p.Title)

	date := textinput.New()
	date.Placeholder = "YYYY-MM-DD"
	date.CharLimit = 25
	if p.Date.IsZero() {
		p.Date = today
	}
	date.SetValue(p.Date.Format("2006-01-02"))

	slug := textinput.New()
	slug.Placeholder = "derived from the title"
	slug.CharLimit = 120
	slug.SetValue(p.Slug)

	m := Model{
		inputs: []textinput.Model{title, date, slug},
		draft:  p.Draft,
	}
	m.inputs[FieldTitle].Focus()
	return m
}

// Init starts the cursor blinking
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles key presses
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, DefaultKeyMap.Quit):
			m.aborted = true
			return m, tea.Quit

		case key.Matches(msg, DefaultKeyMap.Draft):
			m.draft = !m.draft
			return m, nil

		case key.Matches(msg, DefaultKeyMap.Next):
			return m, m.setFocus(m.focus + 1)

		case key.Matches(msg, DefaultKeyMap.Prev):
			return m, m.setFocus(m.focus - 1)

		case key.Matches(msg, DefaultKeyMap.Submit):
			if m.focus < fieldCount-1 {
				return m, m.setFocus(m.focus + 1)
			}
			post, err := m.validate()
			if err != nil {
				m.err = err.Error()
				return m, nil
			}
			m.post = post
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) setFocus(i int) tea.Cmd {
	i = (i + fieldCount) % fieldCount
	m.inputs[m.focus].Blur()
	m.focus = i
	return m.inputs[i].Focus()
}

func (m Model) validate() (content.NewPost, error) {
	title := strings.TrimSpace(m.inputs[FieldTitle].Value())
	if title == "" {
		return content.NewPost{}, fmt.Errorf("title is required")
	}

	date, err := content.ParseDate(strings.TrimSpace(m.inputs[FieldDate].Value()))
	if err != nil {
		return content.NewPost{}, err
	}

	slug := strings.TrimSpace(m.inputs[FieldSlug].Value())
	if slug == "" {
		slug = content.Slugify(title)
	}
	if strings.Trim(slug, "/") == "" {
		return content.NewPost{}, fmt.Errorf("cannot derive a slug from %q", title)
	}

	return content.NewPost{
		Title: title,
		Date:  date,
		Draft: m.draft,
		Slug:  slug,
	}, nil
}

// Result returns the submitted post. ok is false when the form was
// cancelled.
func (m Model) Result() (post content.NewPost, ok bool) {
	return m.post, m.done && !m.aborted
}
