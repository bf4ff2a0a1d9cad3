// Package styling scopes component CSS by rewriting class selectors to
// content-hashed names.
package styling

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// ComponentStyle holds a component's scoped stylesheet and the mapping
// from the class names the author wrote to the names emitted in HTML.
type ComponentStyle struct {
	// Hash is derived from the source CSS, e.g. "_3f9a1c"
	Hash string

	// names maps original class names to hashed class names
	// e.g., "blog-list" -> "_3f9a1c_blog-list"
	names map[string]string

	// CSS is the rewritten stylesheet with scoped selectors
	CSS string

	// Source is the CSS as written
	Source string
}

// Style parses css and returns a ComponentStyle whose selectors have been
// rewritten to hashed class names. Identical input always yields identical
// names.
func Style(css string) *ComponentStyle {
	sum := sha256.Sum256([]byte(css))
	hash := "_" + hex.EncodeToString(sum[:])[:6]

	names := make(map[string]string)
	scoped := rewriteSelectors(removeComments(css), func(class string) string {
		scopedName, ok := names[class]
		if !ok {
			scopedName = hash + "_" + class
			names[class] = scopedName
		}
		return scopedName
	})

	return &ComponentStyle{
		Hash:   hash,
		names:  names,
		CSS:    scoped,
		Source: css,
	}
}

// rewriteSelectors walks the stylesheet and passes every class selector
// to rename. Declaration blocks are copied verbatim so values such as
// "0.5rem" or "url(a.png)" are never touched. @media and @supports
// bodies are treated as nested rule lists.
func rewriteSelectors(css string, rename func(string) string) string {
	var out strings.Builder
	out.Grow(len(css) + 64)

	preludeStart := 0
	i := 0
	for i < len(css) {
		c := css[i]
		switch {
		case c == '{':
			prelude := strings.TrimSpace(css[preludeStart:i])
			out.WriteByte(c)
			i++
			if !isGroupingRule(prelude) {
				// copy the declaration block, including nested braces
				depth := 1
				for i < len(css) && depth > 0 {
					switch css[i] {
					case '{':
						depth++
					case '}':
						depth--
					}
					out.WriteByte(css[i])
					i++
				}
			}
			preludeStart = i

		case c == '}' || c == ';':
			out.WriteByte(c)
			i++
			preludeStart = i

		case c == '.' && i+1 < len(css) && isIdentStart(css[i+1]):
			end := i + 1
			for end < len(css) && isIdentChar(css[end]) {
				end++
			}
			out.WriteByte('.')
			out.WriteString(rename(css[i+1 : end]))
			i = end

		default:
			out.WriteByte(c)
			i++
		}
	}
	return out.String()
}

func isGroupingRule(prelude string) bool {
	return strings.HasPrefix(prelude, "@media") || strings.HasPrefix(prelude, "@supports")
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '-' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// removeComments removes CSS comments from the string
func removeComments(css string) string {
	result := strings.Builder{}
	i := 0
	for i < len(css) {
		if i < len(css)-1 && css[i] == '/' && css[i+1] == '*' {
			i += 2
			for i < len(css)-1 {
				if css[i] == '*' && css[i+1] == '/' {
					i += 2
					break
				}
				i++
			}
		} else {
			result.WriteByte(css[i])
			i++
		}
	}
	return result.String()
}

// Class returns the hashed class name for the given original name.
// Unknown names are returned unchanged.
func (c *ComponentStyle) Class(name string) string {
	if c == nil {
		return name
	}
	if v, ok := c.names[name]; ok {
		return v
	}
	return name
}

// Classes returns multiple hashed class names separated by space
func (c *ComponentStyle) Classes(names ...string) string {
	scoped := make([]string, len(names))
	for i, name := range names {
		scoped[i] = c.Class(name)
	}
	return strings.Join(scoped, " ")
}

// Has returns whether a class name exists in this component's styles
func (c *ComponentStyle) Has(name string) bool {
	if c == nil || c.names == nil {
		return false
	}
	_, ok := c.names[name]
	return ok
}

// Names returns the original class names in sorted order
func (c *ComponentStyle) Names() []string {
	if c == nil {
		return nil
	}
	out := make([]string, 0, len(c.names))
	for name := range c.names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
