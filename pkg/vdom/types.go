package vdom

import "strings"

// VKind represents the type of virtual node
type VKind uint8

const (
	// KindElement represents an HTML element node
	KindElement VKind = iota
	// KindText represents a text node
	KindText
	// KindFragment represents multiple children without a wrapping element
	KindFragment
)

// Props represents the attributes of a VNode
type Props map[string]any

// VNode represents a node in a page tree.
// Once built it is never modified; components return fresh trees on every render.
type VNode struct {
	// Kind determines the type of this node
	Kind VKind

	// Tag is the element tag name (e.g., "div", "a")
	// Only used when Kind == KindElement
	Tag string

	// Props contains the attributes for this node
	Props Props

	// Kids contains child nodes
	// For KindText, this is nil
	Kids []VNode

	// Key identifies list items, e.g. the slug of a post in a feed
	Key string

	// Text content (only used when Kind == KindText)
	Text string
}

// NewElement creates a new element VNode
func NewElement(tag string, props Props, children ...*VNode) *VNode {
	key := ""
	if props != nil {
		if k, ok := props["key"].(string); ok {
			key = k
		}
	}

	return &VNode{
		Kind:  KindElement,
		Tag:   tag,
		Props: props,
		Kids:  flatten(children),
		Key:   key,
	}
}

// NewText creates a new text VNode
func NewText(text string) *VNode {
	return &VNode{
		Kind: KindText,
		Text: text,
	}
}

// NewFragment creates a new fragment VNode
func NewFragment(children ...*VNode) *VNode {
	return &VNode{
		Kind: KindFragment,
		Kids: flatten(children),
	}
}

// flatten converts child pointers to values, dropping nils so that
// components can return nil for "render nothing".
func flatten(children []*VNode) []VNode {
	kids := make([]VNode, 0, len(children))
	for _, child := range children {
		if child != nil {
			kids = append(kids, *child)
		}
	}
	return kids
}

// IsElement returns true if this is an element node
func (v VNode) IsElement() bool {
	return v.Kind == KindElement
}

// IsText returns true if this is a text node
func (v VNode) IsText() bool {
	return v.Kind == KindText
}

// IsFragment returns true if this is a fragment node
func (v VNode) IsFragment() bool {
	return v.Kind == KindFragment
}

// GetKey returns the key of this node, handling the Props map safely
func (v VNode) GetKey() string {
	if v.Props != nil {
		if key, ok := v.Props["key"].(string); ok {
			return key
		}
	}
	return v.Key
}

// Attr returns the string form of an attribute, or "" when absent
func (v VNode) Attr(name string) string {
	if s, ok := v.Props[name].(string); ok {
		return s
	}
	return ""
}

// TextContent concatenates all text below this node
func (v VNode) TextContent() string {
	var sb strings.Builder
	v.collectText(&sb)
	return sb.String()
}

func (v VNode) collectText(sb *strings.Builder) {
	if v.Kind == KindText {
		sb.WriteString(v.Text)
		return
	}
	for i := range v.Kids {
		v.Kids[i].collectText(sb)
	}
}

// FindAll walks the tree depth-first and returns every element with the given tag
func (v *VNode) FindAll(tag string) []*VNode {
	var found []*VNode
	v.walk(func(n *VNode) {
		if n.Kind == KindElement && n.Tag == tag {
			found = append(found, n)
		}
	})
	return found
}

func (v *VNode) walk(fn func(*VNode)) {
	if v == nil {
		return
	}
	fn(v)
	for i := range v.Kids {
		v.Kids[i].walk(fn)
	}
}
