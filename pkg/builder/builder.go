// Package builder provides a fluent API for assembling vdom trees.
//
//	builder.A().Href("/garden").Class(style.Class("more")).Text("All posts").Build()
package builder

import (
	"strings"

	"github.com/maxcell/portfolio/pkg/vdom"
)

// ElementBuilder accumulates props and children for a single element
type ElementBuilder struct {
	tag      string
	props    vdom.Props
	children []*vdom.VNode
}

// New starts a builder for an arbitrary tag
func New(tag string) *ElementBuilder {
	return &ElementBuilder{
		tag:   tag,
		props: make(vdom.Props),
	}
}

// Build finalizes the element
func (b *ElementBuilder) Build() *vdom.VNode {
	var props vdom.Props
	if len(b.props) > 0 {
		props = b.props
	}
	return vdom.NewElement(b.tag, props, b.children...)
}

// Children appends child nodes
func (b *ElementBuilder) Children(children ...*vdom.VNode) *ElementBuilder {
	b.children = append(b.children, children...)
	return b
}

// Text appends a text child
func (b *ElementBuilder) Text(text string) *ElementBuilder {
	b.children = append(b.children, vdom.NewText(text))
	return b
}

// Class appends to the class attribute; empty names are ignored
func (b *ElementBuilder) Class(names ...string) *ElementBuilder {
	var parts []string
	if existing, ok := b.props["class"].(string); ok && existing != "" {
		parts = append(parts, existing)
	}
	for _, name := range names {
		if name != "" {
			parts = append(parts, name)
		}
	}
	if len(parts) > 0 {
		b.props["class"] = strings.Join(parts, " ")
	}
	return b
}

// ID sets the id attribute
func (b *ElementBuilder) ID(id string) *ElementBuilder {
	b.props["id"] = id
	return b
}

// Key sets the list reconciliation key
func (b *ElementBuilder) Key(key string) *ElementBuilder {
	b.props["key"] = key
	return b
}

// Title sets the title attribute
func (b *ElementBuilder) Title(title string) *ElementBuilder {
	b.props["title"] = title
	return b
}

// Style sets an inline style attribute
func (b *ElementBuilder) Style(style string) *ElementBuilder {
	b.props["style"] = style
	return b
}

// === Element constructors ===

func Html() *ElementBuilder { return New("html") }
func Head() *ElementBuilder { return New("head") }
func Body() *ElementBuilder { return New("body") }
func Meta() *ElementBuilder { return New("meta") }
func LinkTag() *ElementBuilder { return New("link") }
func StyleTag() *ElementBuilder { return New("style") }
func Script() *ElementBuilder { return New("script") }
func TitleTag() *ElementBuilder { return New("title") }

func Div() *ElementBuilder { return New("div") }
func Span() *ElementBuilder { return New("span") }
func P() *ElementBuilder { return New("p") }
func A() *ElementBuilder { return New("a") }
func H1() *ElementBuilder { return New("h1") }
func H2() *ElementBuilder { return New("h2") }
func H3() *ElementBuilder { return New("h3") }
func Ul() *ElementBuilder { return New("ul") }
func Ol() *ElementBuilder { return New("ol") }
func Li() *ElementBuilder { return New("li") }
func Nav() *ElementBuilder { return New("nav") }
func Header() *ElementBuilder { return New("header") }
func Main() *ElementBuilder { return New("main") }
func Footer() *ElementBuilder { return New("footer") }
func Section() *ElementBuilder { return New("section") }
func Time() *ElementBuilder { return New("time") }
func Small() *ElementBuilder { return New("small") }
