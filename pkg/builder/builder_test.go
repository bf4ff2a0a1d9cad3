package builder

import (
	"testing"

	"github.com/maxcell/portfolio/pkg/vdom"
)

func TestElementBuilder_Build(t *testing.T) {
	node := A().
		Href("/garden").
		Class("more").
		Text("All posts").
		Build()

	if node.Kind != vdom.KindElement || node.Tag != "a" {
		t.Fatalf("expected <a> element, got kind=%d tag=%q", node.Kind, node.Tag)
	}
	if node.Attr("href") != "/garden" {
		t.Errorf("href = %q, want /garden", node.Attr("href"))
	}
	if node.TextContent() != "All posts" {
		t.Errorf("text = %q, want %q", node.TextContent(), "All posts")
	}
}

func TestElementBuilder_NoPropsIsNil(t *testing.T) {
	node := Li().Build()
	if node.Props != nil {
		t.Errorf("expected nil props for bare element, got %v", node.Props)
	}
}

func TestElementBuilder_ClassAppends(t *testing.T) {
	tests := []struct {
		name  string
		build func() *vdom.VNode
		want  string
	}{
		{
			name:  "single",
			build: func() *vdom.VNode { return Div().Class("a").Build() },
			want:  "a",
		},
		{
			name:  "chained",
			build: func() *vdom.VNode { return Div().Class("a").Class("b", "c").Build() },
			want:  "a b c",
		},
		{
			name:  "empty names ignored",
			build: func() *vdom.VNode { return Div().Class("", "a", "").Build() },
			want:  "a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.build().Attr("class"); got != tt.want {
				t.Errorf("class = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestElementBuilder_External(t *testing.T) {
	node := A().Href("https://github.com/example").External().Text("GitHub").Build()

	if node.Attr("target") != "_blank" {
		t.Errorf("target = %q, want _blank", node.Attr("target"))
	}
	if node.Attr("rel") != "noopener noreferrer" {
		t.Errorf("rel = %q, want %q", node.Attr("rel"), "noopener noreferrer")
	}
}

func TestElementBuilder_Key(t *testing.T) {
	node := Li().Key("/hello/").Build()
	if node.Key != "/hello/" {
		t.Errorf("Key = %q, want /hello/", node.Key)
	}
}
