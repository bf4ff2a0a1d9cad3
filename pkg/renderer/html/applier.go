// Package html serializes vdom trees into static HTML documents.
package html

import (
	"fmt"
	"html"
	"io"
	"sort"
	"strings"

	"github.com/maxcell/portfolio/pkg/vdom"
)

// Doctype is written before the root element by RenderDocument
const Doctype = "<!DOCTYPE html>"

// voidElements are HTML elements that cannot have children
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// booleanAttributes are rendered bare when true and omitted otherwise
var booleanAttributes = map[string]bool{
	"async":    true,
	"defer":    true,
	"disabled": true,
	"hidden":   true,
	"open":     true,
	"required": true,
}

// Renderer writes VNodes as HTML. Attributes are emitted in sorted order
// so that the same tree always produces the same bytes.
type Renderer struct {
	w   io.Writer
	err error
}

// NewRenderer creates a renderer writing to w
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

// Render writes a VNode tree. The first write error aborts rendering.
func (r *Renderer) Render(node *vdom.VNode) error {
	if node == nil {
		return nil
	}
	r.renderNode(node, false)
	return r.err
}

func (r *Renderer) write(s string) {
	if r.err != nil {
		return
	}
	_, r.err = io.WriteString(r.w, s)
}

func (r *Renderer) renderNode(node *vdom.VNode, raw bool) {
	if node == nil || r.err != nil {
		return
	}

	switch node.Kind {
	case vdom.KindText:
		if raw {
			r.write(node.Text)
		} else {
			r.write(html.EscapeString(node.Text))
		}

	case vdom.KindElement:
		r.renderElement(node)

	case vdom.KindFragment:
		for i := range node.Kids {
			r.renderNode(&node.Kids[i], raw)
		}
	}
}

func (r *Renderer) renderElement(node *vdom.VNode) {
	r.write("<")
	r.write(node.Tag)
	r.renderAttributes(node.Props)
	r.write(">")

	if voidElements[node.Tag] {
		return
	}

	// script and style bodies are not escaped
	raw := node.Tag == "script" || node.Tag == "style"
	for i := range node.Kids {
		r.renderNode(&node.Kids[i], raw)
	}

	r.write("</")
	r.write(node.Tag)
	r.write(">")
}

func (r *Renderer) renderAttributes(props vdom.Props) {
	if len(props) == 0 {
		return
	}

	keys := make([]string, 0, len(props))
	for key := range props {
		if key == "key" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := props[key]
		if value == nil {
			continue
		}

		if booleanAttributes[key] {
			if v, ok := value.(bool); ok && v {
				r.write(" ")
				r.write(key)
			}
			continue
		}

		valueStr := fmt.Sprintf("%v", value)

		// Security: prevent javascript: URLs in href/src attributes
		if (key == "href" || key == "src") && isScriptURL(valueStr) {
			valueStr = "#"
		}

		r.write(" ")
		r.write(key)
		r.write(`="`)
		r.write(html.EscapeString(valueStr))
		r.write(`"`)
	}
}

func isScriptURL(value string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(value)), "javascript:")
}

// RenderToString renders a VNode to a string
func RenderToString(node *vdom.VNode) (string, error) {
	var buf strings.Builder
	if err := NewRenderer(&buf).Render(node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderDocument writes the doctype followed by the tree
func RenderDocument(w io.Writer, node *vdom.VNode) error {
	if _, err := io.WriteString(w, Doctype); err != nil {
		return err
	}
	return NewRenderer(w).Render(node)
}
