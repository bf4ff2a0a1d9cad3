package styling

import (
	"reflect"
	"strings"
	"testing"
)

func TestStyle(t *testing.T) {
	css := `
		.blog-list {
			padding: 0.5rem 1rem;
		}
		.blog-list a:hover {
			background: hsla(303, 74%, 92%, 0.4);
		}
	`

	style := Style(css)

	if style.Hash == "" || !strings.HasPrefix(style.Hash, "_") {
		t.Errorf("Expected hash starting with _, got %q", style.Hash)
	}
	if style.Source != css {
		t.Error("Expected source CSS to be kept")
	}

	scoped := style.Class("blog-list")
	if scoped != style.Hash+"_blog-list" {
		t.Errorf("Class(blog-list) = %q", scoped)
	}
	if strings.Contains(style.CSS, " .blog-list") {
		t.Errorf("Expected selectors to be rewritten, got %s", style.CSS)
	}
	if !strings.Contains(style.CSS, "."+scoped+" a:hover") {
		t.Errorf("Expected descendant selector to use scoped name, got %s", style.CSS)
	}
}

func TestStyle_DeclarationsUntouched(t *testing.T) {
	style := Style(`.link { padding: 0.5rem 1rem; background: url(img.png); transition: background 0.1s ease-in-out 0s; }`)

	for _, want := range []string{"0.5rem", "url(img.png)", "0.1s"} {
		if !strings.Contains(style.CSS, want) {
			t.Errorf("Expected declaration %q to survive, got %s", want, style.CSS)
		}
	}
	if got := style.Names(); !reflect.DeepEqual(got, []string{"link"}) {
		t.Errorf("Names() = %v, want [link]", got)
	}
}

func TestStyle_Deterministic(t *testing.T) {
	a := Style(`.card { color: red; }`)
	b := Style(`.card { color: red; }`)
	if a.Hash != b.Hash || a.CSS != b.CSS {
		t.Error("Expected identical CSS to produce identical output")
	}

	c := Style(`.card { color: blue; }`)
	if c.Class("card") == a.Class("card") {
		t.Error("Expected different CSS to produce different class names")
	}
}

func TestComponentStyle_Classes(t *testing.T) {
	style := Style(`
		.btn { padding: 1rem; }
		.primary { background: blue; }
	`)

	combined := style.Classes("btn", "primary")
	parts := strings.Fields(combined)
	if len(parts) != 2 {
		t.Fatalf("Expected 2 classes, got %d", len(parts))
	}
	if parts[0] != style.Class("btn") || parts[1] != style.Class("primary") {
		t.Errorf("Classes() = %q", combined)
	}
}

func TestComponentStyle_Fallbacks(t *testing.T) {
	var nilStyle *ComponentStyle
	if nilStyle.Class("x") != "x" {
		t.Error("nil style should return the name unchanged")
	}
	if nilStyle.Has("x") {
		t.Error("nil style should have no classes")
	}

	style := Style(`.a { }`)
	if style.Class("missing") != "missing" {
		t.Error("unknown class should fall back to the original name")
	}
	if !style.Has("a") || style.Has("missing") {
		t.Error("Has() reported wrong membership")
	}
}

func TestRewriteSelectors(t *testing.T) {
	tests := []struct {
		name     string
		css      string
		expected []string
	}{
		{
			name:     "single",
			css:      `.card { color: red; }`,
			expected: []string{"card"},
		},
		{
			name:     "compound and pseudo",
			css:      `.card.active:hover, .card:focus { }`,
			expected: []string{"active", "card"},
		},
		{
			name: "media query",
			css: `
				.container { }
				@media (min-width: 768px) {
					.container .item { width: 50.5%; }
				}
			`,
			expected: []string{"container", "item"},
		},
		{
			name:     "comments removed",
			css:      `/* .ghost */ .real { }`,
			expected: []string{"real"},
		},
		{
			name:     "font-face body untouched",
			css:      `@font-face { src: url(font.woff2); } .text { }`,
			expected: []string{"text"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Style(tt.css).Names(); !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Names() = %v, want %v", got, tt.expected)
			}
		})
	}
}
