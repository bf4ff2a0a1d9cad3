// Package site assembles the config, content and pages into a router and
// writes static builds.
package site

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"

	"github.com/maxcell/portfolio/app/components"
	"github.com/maxcell/portfolio/app/routes"
	"github.com/maxcell/portfolio/internal/config"
	"github.com/maxcell/portfolio/pkg/content"
	"github.com/maxcell/portfolio/pkg/server"
	"github.com/maxcell/portfolio/pkg/styling"
)

// Site is one project rooted at a directory
type Site struct {
	Root   string
	Config *config.Config
	Logger *slog.Logger

	snapshot *Snapshot
}

// New creates a site. Relative paths in cfg are resolved against root.
func New(root string, cfg *config.Config, logger *slog.Logger) *Site {
	if logger == nil {
		logger = slog.Default()
	}
	return &Site{
		Root:     root,
		Config:   cfg,
		Logger:   logger,
		snapshot: &Snapshot{},
	}
}

// Path resolves a configured path against the project root
func (s *Site) Path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(s.Root, p)
}

// Snapshot returns the in-memory content index served by the router
func (s *Site) Snapshot() *Snapshot {
	return s.snapshot
}

// Reload re-reads the content directory into the snapshot. On failure the
// snapshot keeps serving the error until the next successful reload.
func (s *Site) Reload(ctx context.Context) error {
	start := time.Now()
	idx := content.NewFSIndex(os.DirFS(s.Path(s.Config.Paths.Content)), ".")

	docs, err := idx.Documents(ctx)
	for i := range docs {
		docs[i].SourcePath = filepath.Join(s.Config.Paths.Content, docs[i].SourcePath)
	}
	s.snapshot.Replace(docs, err)
	if err != nil {
		s.Logger.Error("content reload failed", "error", err)
		return err
	}

	s.Logger.Debug("content reloaded", "documents", len(docs), "duration", time.Since(start))
	return nil
}

// RouterOptions tweak the router for serving
type RouterOptions struct {
	// LiveReloadScript is injected into every page when set
	LiveReloadScript string

	// Extra is consulted for paths that match no page, before static files
	Extra *http.ServeMux

	// Quiet drops per-request content warnings; Build reports them once
	Quiet bool
}

// Router builds the page router over the current snapshot
func (s *Site) Router(opts RouterOptions) *server.Router {
	r := server.NewRouter(s.Logger)

	var layout server.Layout = components.Layout(s.Config.Site)
	if opts.LiveReloadScript != "" {
		layout = server.ScriptLayout(layout, opts.LiveReloadScript)
	}
	layouts := server.NewLayoutRegistry()
	layouts.Register("/", layout)
	r.SetLayouts(layouts)

	r.Use(server.MethodGuard{}, server.AccessLog{})
	if s.Config.IsDevelopment() {
		r.Use(server.NoStore{})
	}

	pages := &routes.Pages{
		Config: s.Config,
		Index:  s.snapshot,
		Logger: s.Logger,
	}
	if opts.Quiet {
		pages.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	pages.Register(r)

	r.SetFallback(s.assets(r, opts.Extra))
	return r
}

// assets serves the stylesheet, then extra, then the static directory.
// Anything else gets the router's 404 page.
func (s *Site) assets(r *server.Router, extra *http.ServeMux) http.Handler {
	static := s.Path(s.Config.Paths.Static)

	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path == components.StylesheetPath {
			w.Header().Set("Content-Type", "text/css; charset=utf-8")
			w.Write([]byte(styling.GetAllCSS()))
			return
		}

		if extra != nil {
			if h, pattern := extra.Handler(req); pattern != "" {
				h.ServeHTTP(w, req)
				return
			}
		}

		if static != "" {
			file := filepath.Join(static, filepath.FromSlash(path.Clean("/"+req.URL.Path)))
			if info, err := os.Stat(file); err == nil && !info.IsDir() {
				http.ServeFile(w, req, file)
				return
			}
		}

		r.ServeNotFound(w, req)
	})
}

// Snapshot is a content index swapped wholesale on reload
type Snapshot struct {
	mu   sync.RWMutex
	docs []content.Document
	err  error
}

// Replace swaps in a new set of documents or a load error
func (s *Snapshot) Replace(docs []content.Document, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = docs
	s.err = err
}

// Documents returns a copy of the current documents or the last load error
func (s *Snapshot) Documents(ctx context.Context) ([]content.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return nil, s.err
	}
	return append([]content.Document(nil), s.docs...), nil
}
