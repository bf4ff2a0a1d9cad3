package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
)

var (
	// ErrStop is a sentinel error used by middleware to stop the chain
	ErrStop = errors.New("server: stop middleware chain")
)

// Stop returns the sentinel error to halt middleware chain execution
func Stop() error {
	return ErrStop
}

// Ctx is passed through routing, middleware, and page handlers
type Ctx interface {
	// === Request ===
	Request() *http.Request  // raw request pointer (read-only)
	Context() context.Context // request context
	Path() string             // path without query string
	Method() string           // GET, POST, etc.
	Query() url.Values        // parsed query params
	Param(key string) string  // route param, "" if missing

	// === Response ===
	Status(code int)                 // set HTTP status (default 200)
	StatusCode() int                 // current status
	Header() http.Header             // writeable headers
	SetHeader(key, val string)       // convenience
	Redirect(url string, code int)   // sets 30x + Location header
	JSON(code int, v any) error      // serialise & write JSON
	Text(code int, msg string) error // write text/plain

	// Err is the error being rendered by the error page, or nil
	Err() error

	Logger() *slog.Logger // structured logger
}

// ctxImpl is the internal implementation of Ctx
type ctxImpl struct {
	req           *http.Request
	w             http.ResponseWriter
	params        map[string]string
	statusCode    int
	logger        *slog.Logger
	err           error
	headerWritten bool
	mu            sync.RWMutex
}

// NewContext creates a new context for handling a request
func NewContext(w http.ResponseWriter, r *http.Request, logger *slog.Logger) Ctx {
	if logger == nil {
		logger = slog.Default()
	}

	return &ctxImpl{
		req:        r,
		w:          w,
		params:     make(map[string]string),
		statusCode: http.StatusOK,
		logger: logger.With(
			"path", r.URL.Path,
			"method", r.Method,
		),
	}
}

// WithParams returns the context with route parameters set
func WithParams(ctx Ctx, params map[string]string) Ctx {
	if impl, ok := ctx.(*ctxImpl); ok {
		impl.mu.Lock()
		impl.params = params
		impl.mu.Unlock()
	}
	return ctx
}

// WithError returns the context carrying err for the error page
func WithError(ctx Ctx, err error) Ctx {
	if impl, ok := ctx.(*ctxImpl); ok {
		impl.mu.Lock()
		impl.err = err
		impl.mu.Unlock()
	}
	return ctx
}

// === Request Methods ===

func (c *ctxImpl) Request() *http.Request {
	return c.req
}

func (c *ctxImpl) Context() context.Context {
	return c.req.Context()
}

func (c *ctxImpl) Path() string {
	return c.req.URL.Path
}

func (c *ctxImpl) Method() string {
	return c.req.Method
}

func (c *ctxImpl) Query() url.Values {
	return c.req.URL.Query()
}

func (c *ctxImpl) Param(key string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.params[key]
}

// === Response Methods ===

func (c *ctxImpl) Status(code int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.headerWritten {
		c.logger.Warn("attempted to set status after headers written", "code", code)
		return
	}
	c.statusCode = code
}

func (c *ctxImpl) StatusCode() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.statusCode
}

func (c *ctxImpl) Header() http.Header {
	return c.w.Header()
}

func (c *ctxImpl) SetHeader(key, val string) {
	c.w.Header().Set(key, val)
}

func (c *ctxImpl) Redirect(url string, code int) {
	c.markWritten(code)
	http.Redirect(c.w, c.req, url, code)
}

func (c *ctxImpl) JSON(code int, v any) error {
	c.markWritten(code)

	c.w.Header().Set("Content-Type", "application/json")
	c.w.WriteHeader(code)

	encoder := json.NewEncoder(c.w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func (c *ctxImpl) Text(code int, msg string) error {
	c.markWritten(code)

	c.w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.w.WriteHeader(code)

	_, err := c.w.Write([]byte(msg))
	return err
}

func (c *ctxImpl) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

func (c *ctxImpl) Logger() *slog.Logger {
	return c.logger
}

func (c *ctxImpl) markWritten(code int) {
	c.mu.Lock()
	c.statusCode = code
	c.headerWritten = true
	c.mu.Unlock()
}

func (c *ctxImpl) written() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.headerWritten
}
