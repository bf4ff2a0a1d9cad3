package site

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxcell/portfolio/internal/config"
	"github.com/maxcell/portfolio/pkg/feed"
)

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
}

func newProject(t *testing.T, mode string) (*Site, *bytes.Buffer) {
	t.Helper()
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "content/posts/first-post.md"), "---\ntitle: First post\ndate: 2019-01-02\n---\n\nHello.\n")
	writeFile(t, filepath.Join(root, "content/posts/second/index.md"), "---\ntitle: Second post\ndate: 2020-05-06\n---\n\nAgain.\n")
	writeFile(t, filepath.Join(root, "content/posts/wip.md"), "---\ntitle: Work in progress\ndate: 2021-01-01\ndraft: true\n---\n")
	writeFile(t, filepath.Join(root, "static/img/corgi.png"), "png")

	cfg := config.DefaultConfig()
	cfg.Mode = mode

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return New(root, cfg, logger), &logs
}

func TestOutputFile(t *testing.T) {
	tests := map[string]string{
		"/":          "index.html",
		"":           "index.html",
		"/garden":    "garden/index.html",
		"/garden/":   "garden/index.html",
		"/feed.json": "feed.json",
		"/a/b":       "a/b/index.html",
	}
	for route, want := range tests {
		assert.Equal(t, want, OutputFile(route), route)
	}
}

func TestSite_Reload(t *testing.T) {
	s, _ := newProject(t, config.Production)
	require.NoError(t, s.Reload(context.Background()))

	docs, err := s.Snapshot().Documents(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 3)

	bySlug := map[string]string{}
	for _, doc := range docs {
		bySlug[doc.Slug] = doc.SourcePath
	}
	assert.Equal(t, filepath.Join("content/posts", "first-post.md"), bySlug["/first-post/"])
	assert.Equal(t, filepath.Join("content/posts", "second/index.md"), bySlug["/second/"])
}

func TestSnapshot_Error(t *testing.T) {
	var snap Snapshot
	boom := errors.New("boom")
	snap.Replace(nil, boom)

	_, err := snap.Documents(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestSite_Router(t *testing.T) {
	s, _ := newProject(t, config.Production)
	require.NoError(t, s.Reload(context.Background()))

	extra := http.NewServeMux()
	extra.HandleFunc("/__ping", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pong"))
	})
	r := s.Router(RouterOptions{LiveReloadScript: "reload()", Extra: extra})

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	home := get("/")
	require.Equal(t, http.StatusOK, home.Code)
	body := home.Body.String()
	assert.Contains(t, body, ">Second post</a>")
	assert.Contains(t, body, ">First post</a>")
	assert.NotContains(t, body, "Work in progress")
	assert.Contains(t, body, "<script>reload()</script>")

	css := get("/styles.css")
	assert.Equal(t, http.StatusOK, css.Code)
	assert.Equal(t, "text/css; charset=utf-8", css.Header().Get("Content-Type"))
	assert.Contains(t, css.Body.String(), "post-link")

	assert.Equal(t, "png", get("/img/corgi.png").Body.String())
	assert.Equal(t, "pong", get("/__ping").Body.String())

	missing := get("/nope")
	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.Contains(t, missing.Body.String(), "Page not found")

	escape := get("/../../etc/passwd")
	assert.Equal(t, http.StatusNotFound, escape.Code)
}

func TestSite_Build(t *testing.T) {
	s, _ := newProject(t, config.Production)
	ctx := context.Background()

	result, err := s.Build(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"index.html",
		"garden/index.html",
		"feed.json",
		"404.html",
		"styles.css",
		"img/corgi.png",
	}, result.Written)
	assert.Empty(t, result.Unchanged)
	assert.Empty(t, result.Skipped)

	out := s.Path(s.Config.Paths.Output)
	index, err := os.ReadFile(filepath.Join(out, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(index), "<!DOCTYPE html>")
	assert.Contains(t, string(index), `href="/second/"`)
	assert.NotContains(t, string(index), "<script>")

	notFound, err := os.ReadFile(filepath.Join(out, "404.html"))
	require.NoError(t, err)
	assert.Contains(t, string(notFound), "Page not found")

	feedJSON, err := os.ReadFile(filepath.Join(out, "feed.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"label": "Second post", "target": "/second/"},
		{"label": "First post", "target": "/first-post/"}
	]`, string(feedJSON))

	t.Run("second build is unchanged", func(t *testing.T) {
		again, err := s.Build(ctx)
		require.NoError(t, err)
		assert.Empty(t, again.Written)
		assert.Len(t, again.Unchanged, 6)
		assert.Empty(t, again.Removed)
	})

	t.Run("removed static file is pruned", func(t *testing.T) {
		require.NoError(t, os.Remove(filepath.Join(s.Root, "static/img/corgi.png")))

		again, err := s.Build(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"img/corgi.png"}, again.Removed)
		assert.NoFileExists(t, filepath.Join(out, "img/corgi.png"))
	})

	t.Run("deleted output is rewritten", func(t *testing.T) {
		require.NoError(t, os.Remove(filepath.Join(out, "index.html")))

		again, err := s.Build(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"index.html"}, again.Written)
		assert.FileExists(t, filepath.Join(out, "index.html"))
	})
}

func TestSite_BuildMalformed(t *testing.T) {
	t.Run("production skips and reports", func(t *testing.T) {
		s, logs := newProject(t, config.Production)
		writeFile(t, filepath.Join(s.Root, "content/posts/untitled.md"), "---\ndate: 2022-01-01\n---\n")

		result, err := s.Build(context.Background())
		require.NoError(t, err)
		require.Len(t, result.Skipped, 1)
		assert.Equal(t, []string{"title"}, result.Skipped[0].Missing)
		assert.Equal(t, 1, bytes.Count(logs.Bytes(), []byte("skipping malformed post")))
	})

	t.Run("development fails before writing", func(t *testing.T) {
		s, _ := newProject(t, config.Development)
		writeFile(t, filepath.Join(s.Root, "content/posts/untitled.md"), "---\ndate: 2022-01-01\n---\n")

		_, err := s.Build(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, feed.ErrMalformedDocument)
		assert.NoDirExists(t, s.Path(s.Config.Paths.Output))
	})
}

func TestSite_BuildBadContent(t *testing.T) {
	s, _ := newProject(t, config.Production)
	s.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	writeFile(t, filepath.Join(s.Root, "content/posts/bad-date.md"), "---\ntitle: Bad\ndate: yesterday\n---\n")

	_, err := s.Build(context.Background())
	require.Error(t, err)

	_, err = s.Snapshot().Documents(context.Background())
	assert.Error(t, err, "snapshot keeps the load error")
}

func TestSite_BuildCorruptCache(t *testing.T) {
	s, logs := newProject(t, config.Production)
	writeFile(t, filepath.Join(s.Path(s.Config.Paths.Cache), "index.json"), "{not json")

	result, err := s.Build(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, result.Written)
	assert.Contains(t, logs.String(), "rebuilding page cache")
	assert.Contains(t, logs.String(), "discarded cache index")
}
