package server

import (
	"github.com/maxcell/portfolio/pkg/vdom"
)

// InjectScript returns a copy of doc with an inline script appended to its
// body. Trees that are not an <html> document are returned unchanged.
func InjectScript(doc *vdom.VNode, script string) *vdom.VNode {
	if doc == nil || doc.Kind != vdom.KindElement || doc.Tag != "html" {
		return doc
	}

	tag := vdom.NewElement("script", nil, vdom.NewText(script))

	out := *doc
	out.Kids = make([]vdom.VNode, len(doc.Kids))
	copy(out.Kids, doc.Kids)

	for i := range out.Kids {
		child := &out.Kids[i]
		if child.Kind == vdom.KindElement && child.Tag == "body" {
			kids := make([]vdom.VNode, len(child.Kids), len(child.Kids)+1)
			copy(kids, child.Kids)
			child.Kids = append(kids, *tag)
		}
	}

	return &out
}

// ScriptLayout wraps another layout and injects script into every page it
// produces. The dev server uses it for live reload.
func ScriptLayout(inner Layout, script string) Layout {
	return LayoutFunc(func(child *vdom.VNode) *vdom.VNode {
		if inner != nil {
			child = inner.Wrap(child)
		}
		return InjectScript(child, script)
	})
}
