package site

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/maxcell/portfolio/app/components"
	"github.com/maxcell/portfolio/internal/cache"
	"github.com/maxcell/portfolio/pkg/feed"
	"github.com/maxcell/portfolio/pkg/styling"
)

// BuildResult summarizes a static build. Paths are relative to the output
// directory.
type BuildResult struct {
	Written   []string
	Unchanged []string
	Removed   []string
	Skipped   []*feed.MalformedDocumentError
	Duration  time.Duration
}

// Build renders every page, the 404 page and the stylesheet into the
// output directory and copies static files next to them. In development
// mode a malformed post fails the build before anything is written.
func (s *Site) Build(ctx context.Context) (*BuildResult, error) {
	start := time.Now()

	if err := s.Reload(ctx); err != nil {
		return nil, err
	}

	docs, err := s.snapshot.Documents(ctx)
	if err != nil {
		return nil, err
	}
	projection, err := feed.Project(docs, feed.Options{
		ExcludeDrafts: true,
		Strict:        s.Config.IsDevelopment(),
	})
	if err != nil {
		return nil, err
	}
	for _, skipped := range projection.Skipped {
		s.Logger.Warn("skipping malformed post",
			"slug", skipped.Slug,
			"source", skipped.SourcePath,
			"missing", skipped.Missing,
		)
	}

	pages, err := cache.Open(s.Path(s.Config.Paths.Cache))
	if err != nil {
		return nil, err
	}
	if reason := pages.Discarded(); reason != nil {
		s.Logger.Warn("rebuilding page cache", "error", reason)
	}

	w := &outputWriter{
		dir:    s.Path(s.Config.Paths.Output),
		cache:  pages,
		result: &BuildResult{Skipped: projection.Skipped},
	}

	r := s.Router(RouterOptions{Quiet: true})
	for _, route := range r.Routes() {
		code, body, err := r.Render(ctx, route)
		if err != nil {
			return nil, fmt.Errorf("failed to render %s: %w", route, err)
		}
		if code != http.StatusOK {
			return nil, fmt.Errorf("failed to render %s: status %d", route, code)
		}
		if err := w.write(OutputFile(route), body); err != nil {
			return nil, err
		}
	}

	_, body, err := r.RenderNotFound(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to render 404 page: %w", err)
	}
	if err := w.write("404.html", body); err != nil {
		return nil, err
	}

	if err := w.write(strings.TrimPrefix(components.StylesheetPath, "/"), []byte(styling.GetAllCSS())); err != nil {
		return nil, err
	}

	if err := w.copyDir(s.Path(s.Config.Paths.Static)); err != nil {
		return nil, err
	}

	if err := w.prune(); err != nil {
		return nil, err
	}
	if err := pages.Save(); err != nil {
		return nil, fmt.Errorf("failed to save page cache: %w", err)
	}

	w.result.Duration = time.Since(start)
	stats := pages.GetStats()
	s.Logger.Info("build finished",
		"written", len(w.result.Written),
		"unchanged", stats.Hits,
		"removed", len(w.result.Removed),
		"duration", w.result.Duration,
	)
	return w.result, nil
}

// OutputFile maps a route to its file below the output directory:
// "/" is index.html, "/garden" is garden/index.html and paths with an
// extension are kept as is.
func OutputFile(route string) string {
	route = strings.Trim(route, "/")
	switch {
	case route == "":
		return "index.html"
	case path.Ext(route) != "":
		return route
	default:
		return route + "/index.html"
	}
}

type outputWriter struct {
	dir      string
	cache    *cache.Cache
	result   *BuildResult
	produced []string
}

func (w *outputWriter) write(rel string, data []byte) error {
	w.produced = append(w.produced, rel)
	target := filepath.Join(w.dir, filepath.FromSlash(rel))

	if w.cache.Fresh(rel, target, data) {
		w.result.Unchanged = append(w.result.Unchanged, rel)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", rel, err)
	}
	if err := os.WriteFile(target, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", rel, err)
	}

	w.cache.Record(rel, data)
	w.result.Written = append(w.result.Written, rel)
	return nil
}

// copyDir copies every file below src into the output directory. A missing
// src is not an error.
func (w *outputWriter) copyDir(src string) error {
	if src == "" {
		return nil
	}
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return nil
	}

	return filepath.WalkDir(src, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return fmt.Errorf("error accessing %s: %w", p, walkErr)
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", p, err)
		}
		return w.write(filepath.ToSlash(rel), data)
	})
}

// prune deletes outputs from earlier builds that this build did not produce
func (w *outputWriter) prune() error {
	for _, rel := range w.cache.Prune(w.produced) {
		target := filepath.Join(w.dir, filepath.FromSlash(rel))
		if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove stale %s: %w", rel, err)
		}
		w.result.Removed = append(w.result.Removed, rel)
	}
	return nil
}
