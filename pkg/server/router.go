package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/maxcell/portfolio/pkg/renderer/html"
	"github.com/maxcell/portfolio/pkg/vdom"
)

// HandlerFunc is the signature for page handlers
type HandlerFunc func(ctx Ctx) (*vdom.VNode, error)

// APIHandlerFunc is the signature for JSON route handlers
type APIHandlerFunc func(ctx Ctx) (any, error)

// Middleware interface for before/after hooks
type Middleware interface {
	Before(ctx Ctx) error // return Stop() to abort chain
	After(ctx Ctx) error  // always called if Before succeeded
}

// RouteNode represents a node in the radix tree
type RouteNode struct {
	segment    string
	param      bool
	catchAll   bool
	paramName  string
	handler    HandlerFunc
	apiHandler APIHandlerFunc
	children   []*RouteNode
	middleware []Middleware
}

// Router maps paths to page handlers and renders their trees as HTML
type Router struct {
	root       *RouteNode
	notFound   HandlerFunc
	errorPage  HandlerFunc
	fallback   http.Handler
	layouts    *LayoutRegistry
	middleware []Middleware
	logger     *slog.Logger
	mu         sync.RWMutex
}

// NewRouter creates a new router instance. A nil logger uses slog.Default.
func NewRouter(logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		root:   &RouteNode{},
		logger: logger,
	}
}

// AddRoute registers a page handler for a path. Segments written as
// [name] capture one segment and [...name] capture the rest of the path.
func (r *Router) AddRoute(path string, handler HandlerFunc, middleware ...Middleware) {
	r.mu.Lock()
	defer r.mu.Unlock()

	node := r.insert(path)
	node.handler = handler
	node.middleware = middleware
}

// AddAPIRoute registers a JSON handler for a path
func (r *Router) AddAPIRoute(path string, handler APIHandlerFunc, middleware ...Middleware) {
	r.mu.Lock()
	defer r.mu.Unlock()

	node := r.insert(path)
	node.apiHandler = handler
	node.middleware = middleware
}

func (r *Router) insert(path string) *RouteNode {
	node := r.root
	for _, segment := range splitPath(path) {
		node = r.findOrCreateChild(node, segment)
	}
	return node
}

// Use adds global middleware
func (r *Router) Use(middleware ...Middleware) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.middleware = append(r.middleware, middleware...)
}

// SetNotFound sets the 404 handler
func (r *Router) SetNotFound(handler HandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notFound = handler
}

// SetErrorPage sets the 500 error handler
func (r *Router) SetErrorPage(handler HandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errorPage = handler
}

// SetFallback sets a handler tried before the 404 page, e.g. a file server
func (r *Router) SetFallback(handler http.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = handler
}

// SetLayouts sets the registry used to wrap page trees
func (r *Router) SetLayouts(layouts *LayoutRegistry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.layouts = layouts
}

// Match finds a handler for the given path. The handler is nil when no
// route matches.
func (r *Router) Match(path string) (HandlerFunc, map[string]string, []Middleware) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	params := make(map[string]string)

	node, matched := r.matchNode(r.root, splitPath(path), params)
	if !matched || (node.handler == nil && node.apiHandler == nil) {
		return nil, map[string]string{}, r.middleware
	}

	allMiddleware := append([]Middleware{}, r.middleware...)
	allMiddleware = append(allMiddleware, node.middleware...)

	if node.apiHandler != nil {
		return wrapAPIHandler(node.apiHandler), params, allMiddleware
	}

	return node.handler, params, allMiddleware
}

// ServeHTTP implements http.Handler
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	handler, params, middleware := r.Match(req.URL.Path)

	if handler == nil {
		r.mu.RLock()
		fallback := r.fallback
		r.mu.RUnlock()

		if fallback != nil {
			fallback.ServeHTTP(w, req)
			return
		}
		r.ServeNotFound(w, req)
		return
	}

	ctx := WithParams(NewContext(w, req, r.logger), params)
	r.serve(ctx, handler, middleware)
}

// ServeNotFound renders the 404 page. Fallback handlers call it for paths
// they cannot serve either.
func (r *Router) ServeNotFound(w http.ResponseWriter, req *http.Request) {
	r.mu.RLock()
	notFound := r.notFound
	middleware := append([]Middleware{}, r.middleware...)
	r.mu.RUnlock()

	ctx := NewContext(w, req, r.logger)
	ctx.Status(http.StatusNotFound)
	if notFound == nil {
		ctx.Text(http.StatusNotFound, "Not Found")
		return
	}
	r.serve(ctx, notFound, middleware)
}

func (r *Router) serve(ctx Ctx, handler HandlerFunc, middleware []Middleware) {
	defer func() {
		if err := recover(); err != nil {
			ctx.Logger().Error("panic in handler", "error", err)
			r.handleError(ctx, fmt.Errorf("internal server error: %v", err))
		}
	}()

	finalHandler := handler
	for i := len(middleware) - 1; i >= 0; i-- {
		mw := middleware[i]
		next := finalHandler
		finalHandler = func(c Ctx) (*vdom.VNode, error) {
			if err := mw.Before(c); err != nil {
				if errors.Is(err, ErrStop) {
					return nil, nil // Middleware handled response
				}
				return nil, err
			}

			result, err := next(c)

			if afterErr := mw.After(c); afterErr != nil {
				c.Logger().Error("error in After middleware", "error", afterErr)
			}

			return result, err
		}
	}

	vnode, err := finalHandler(ctx)
	if err != nil {
		r.handleError(ctx, err)
		return
	}

	// nil means the response was already written
	if vnode == nil {
		return
	}

	if err := r.writePage(ctx, ctx.StatusCode(), vnode); err != nil {
		r.handleError(ctx, fmt.Errorf("failed to render page: %w", err))
	}
}

func (r *Router) writePage(ctx Ctx, code int, vnode *vdom.VNode) error {
	r.mu.RLock()
	layouts := r.layouts
	r.mu.RUnlock()

	if layouts != nil {
		vnode = layouts.ApplyLayout(ctx.Path(), vnode)
	}

	var buf bytes.Buffer
	if err := html.RenderDocument(&buf, vnode); err != nil {
		return err
	}

	ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
	impl := ctx.(*ctxImpl)
	impl.markWritten(code)
	impl.w.WriteHeader(code)
	_, err := impl.w.Write(buf.Bytes())
	return err
}

// handleError renders the error page
func (r *Router) handleError(ctx Ctx, err error) {
	ctx.Logger().Error("handler error", "error", err)

	impl, ok := ctx.(*ctxImpl)
	if ok && impl.written() {
		return
	}
	ctx.Status(http.StatusInternalServerError)
	ctx = WithError(ctx, err)

	r.mu.RLock()
	errorPage := r.errorPage
	r.mu.RUnlock()

	if errorPage != nil {
		if vnode, pageErr := errorPage(ctx); pageErr == nil && vnode != nil {
			if renderErr := r.writePage(ctx, http.StatusInternalServerError, vnode); renderErr == nil {
				return
			}
		}
	}

	// Fallback error response
	ctx.Text(http.StatusInternalServerError, "Internal Server Error")
}

// Render runs the handler chain for path in-process and returns the
// status code and body that ServeHTTP would have written.
func (r *Router) Render(ctx context.Context, path string) (int, []byte, error) {
	return r.record(ctx, path, r.ServeHTTP)
}

// RenderNotFound renders the 404 page in-process
func (r *Router) RenderNotFound(ctx context.Context) (int, []byte, error) {
	return r.record(ctx, "/404.html", r.ServeNotFound)
}

func (r *Router) record(ctx context.Context, path string, serve http.HandlerFunc) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return 0, nil, err
	}

	rec := newResponseBuffer()
	serve(rec, req)
	return rec.code, rec.body.Bytes(), nil
}

// Routes lists every registered path without parameters, sorted
func (r *Router) Routes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var paths []string
	r.collectRoutes(r.root, "", &paths)
	sort.Strings(paths)
	return paths
}

func (r *Router) collectRoutes(node *RouteNode, prefix string, paths *[]string) {
	if node.param || node.catchAll {
		return
	}

	current := prefix
	if node.segment != "" {
		current = prefix + "/" + node.segment
	}

	if node.handler != nil || node.apiHandler != nil {
		if current == "" {
			*paths = append(*paths, "/")
		} else {
			*paths = append(*paths, current)
		}
	}

	for _, child := range node.children {
		r.collectRoutes(child, current, paths)
	}
}

// findOrCreateChild finds or creates a child node
func (r *Router) findOrCreateChild(parent *RouteNode, segment string) *RouteNode {
	if strings.HasPrefix(segment, "[") && strings.HasSuffix(segment, "]") {
		paramName := segment[1 : len(segment)-1]
		catchAll := strings.HasPrefix(paramName, "...")
		if catchAll {
			paramName = paramName[3:]
		}

		for _, child := range parent.children {
			if child.catchAll == catchAll && child.param == !catchAll && child.paramName == paramName {
				return child
			}
		}

		node := &RouteNode{
			segment:   segment,
			param:     !catchAll,
			catchAll:  catchAll,
			paramName: paramName,
		}
		parent.children = append(parent.children, node)
		return node
	}

	for _, child := range parent.children {
		if !child.param && !child.catchAll && child.segment == segment {
			return child
		}
	}

	node := &RouteNode{segment: segment}
	parent.children = append(parent.children, node)
	return node
}

// matchNode attempts to match a path against the tree
func (r *Router) matchNode(node *RouteNode, segments []string, params map[string]string) (*RouteNode, bool) {
	if len(segments) == 0 {
		return node, true
	}

	segment := segments[0]
	remaining := segments[1:]

	// Static match has the highest priority
	for _, child := range node.children {
		if !child.param && !child.catchAll && child.segment == segment {
			if result, ok := r.matchNode(child, remaining, params); ok {
				return result, true
			}
		}
	}

	for _, child := range node.children {
		if child.param && segment != "" {
			params[child.paramName] = segment
			if result, ok := r.matchNode(child, remaining, params); ok {
				return result, true
			}
			delete(params, child.paramName)
		}
	}

	// Catch-all has the lowest priority
	for _, child := range node.children {
		if child.catchAll {
			params[child.paramName] = strings.Join(segments, "/")
			return child, true
		}
	}

	return nil, false
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return []string{}
	}
	return strings.Split(path, "/")
}

func wrapAPIHandler(handler APIHandlerFunc) HandlerFunc {
	return func(ctx Ctx) (*vdom.VNode, error) {
		result, err := handler(ctx)
		if err != nil {
			return nil, err
		}

		if err := ctx.JSON(http.StatusOK, result); err != nil {
			return nil, err
		}

		// Return nil to indicate response was handled
		return nil, nil
	}
}

// responseBuffer is an in-memory http.ResponseWriter for Render
type responseBuffer struct {
	header http.Header
	code   int
	body   bytes.Buffer
}

func newResponseBuffer() *responseBuffer {
	return &responseBuffer{header: make(http.Header), code: http.StatusOK}
}

func (b *responseBuffer) Header() http.Header { return b.header }

func (b *responseBuffer) Write(p []byte) (int, error) { return b.body.Write(p) }

func (b *responseBuffer) WriteHeader(code int) { b.code = code }
