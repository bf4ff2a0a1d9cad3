package styling

import (
	"strings"
	"sync"
)

// Registry collects component styles in registration order
type Registry struct {
	mu     sync.RWMutex
	order  []string
	styles map[string]*ComponentStyle
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{styles: make(map[string]*ComponentStyle)}
}

// Register adds a style. Registering the same stylesheet twice is a no-op.
func (r *Registry) Register(style *ComponentStyle) {
	if style == nil || style.CSS == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.styles[style.Hash]; ok {
		return
	}
	r.styles[style.Hash] = style
	r.order = append(r.order, style.Hash)
}

// CSS concatenates every registered stylesheet
func (r *Registry) CSS() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var cssBuilder strings.Builder
	for _, hash := range r.order {
		cssBuilder.WriteString(strings.TrimSpace(r.styles[hash].CSS))
		cssBuilder.WriteString("\n")
	}
	return cssBuilder.String()
}

// Len returns the number of registered stylesheets
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Reset clears all registered styles
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = nil
	r.styles = make(map[string]*ComponentStyle)
}

var globalRegistry = NewRegistry()

// Register adds a component style to the global registry
func Register(style *ComponentStyle) {
	globalRegistry.Register(style)
}

// GetAllCSS returns all globally registered CSS as a single string
func GetAllCSS() string {
	return globalRegistry.CSS()
}

// Reset clears the global registry (useful for testing)
func Reset() {
	globalRegistry.Reset()
}

// StyleWithRegistry creates a new ComponentStyle and registers it globally.
// Components call it from package-level vars.
func StyleWithRegistry(css string) *ComponentStyle {
	style := Style(css)
	Register(style)
	return style
}
