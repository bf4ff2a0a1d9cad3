package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxcell/portfolio/internal/config"
	"github.com/maxcell/portfolio/internal/site"
	"github.com/maxcell/portfolio/pkg/feed"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func project(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	posts := filepath.Join(root, "content", "posts")
	require.NoError(t, os.MkdirAll(posts, 0755))
	for name, body := range map[string]string{
		"old.md":   "---\ntitle: Old\ndate: 2018-01-01\n---\n",
		"new.md":   "---\ntitle: New\ndate: 2023-06-01\n---\n",
		"draft.md": "---\ntitle: Draft\ndate: 2024-01-01\ndraft: true\n---\n",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(posts, name), []byte(body), 0644))
	}
	return root
}

func TestFeedCommand(t *testing.T) {
	root := project(t)

	out, err := run(t, "feed", "--json", "-C", root)
	require.NoError(t, err)

	var items []feed.DisplayItem
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	assert.Equal(t, []feed.DisplayItem{
		{Label: "New", Target: "/new/"},
		{Label: "Old", Target: "/old/"},
	}, items)

	out, err = run(t, "feed", "--json", "--drafts", "-n", "1", "-C", root)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	assert.Equal(t, []feed.DisplayItem{{Label: "Draft", Target: "/draft/"}}, items)

	out, err = run(t, "feed", "-C", root)
	require.NoError(t, err)
	assert.Contains(t, out, "Articles")
	assert.Less(t, strings.Index(out, "New"), strings.Index(out, "Old"))
}

func TestFeedCommand_Strict(t *testing.T) {
	root := project(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "content/posts/untitled.md"), []byte("---\ndate: 2020-01-01\n---\n"), 0644))

	out, err := run(t, "feed", "-C", root)
	require.NoError(t, err)
	assert.Contains(t, out, "missing title")

	_, err = run(t, "feed", "--strict", "-C", root)
	assert.ErrorIs(t, err, feed.ErrMalformedDocument)
}

func TestNewCommand(t *testing.T) {
	root := project(t)

	out, err := run(t, "new", "Hello There", "--date", "2024-02-03", "--draft", "-C", root)
	require.NoError(t, err)
	assert.Contains(t, out, "hello-there.md")

	data, err := os.ReadFile(filepath.Join(root, "content/posts/hello-there.md"))
	require.NoError(t, err)
	assert.Equal(t, "---\ntitle: Hello There\ndate: \"2024-02-03\"\ndraft: true\n---\n\n", string(data))

	_, err = run(t, "new", "Hello There", "-C", root)
	assert.Error(t, err, "existing posts are not overwritten")

	_, err = run(t, "new", "Bad date", "--date", "tomorrow", "-C", root)
	assert.Error(t, err)
}

func TestBuildCommand(t *testing.T) {
	root := project(t)

	out, err := run(t, "build", "-C", root)
	require.NoError(t, err)
	assert.Contains(t, out, "Building site (production)")
	assert.FileExists(t, filepath.Join(root, "public", "index.html"))
	assert.FileExists(t, filepath.Join(root, "public", "garden", "index.html"))

	out, err = run(t, "build", "-C", root)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 0 files")

	out, err = run(t, "build", "--clean", "-o", "dist", "-C", root)
	require.NoError(t, err)
	assert.Contains(t, out, "Cleaning")
	assert.FileExists(t, filepath.Join(root, "dist", "index.html"))
}

func TestModeOverride(t *testing.T) {
	root := project(t)

	_, err := run(t, "feed", "--mode", "staging", "-C", root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mode")
}

func newTestDevServer(t *testing.T, root string) *devServer {
	t.Helper()
	opts := &globalOptions{root: root, configPath: config.FileName}
	cfg, err := opts.loadConfig(config.Development)
	require.NoError(t, err)

	s := &devServer{
		opts:      opts,
		logger:    opts.logger(&bytes.Buffer{}),
		out:       &bytes.Buffer{},
		wsClients: make(map[*websocket.Conn]bool),
	}
	require.NoError(t, s.swap(context.Background(), site.New(root, cfg, s.logger)))
	return s
}

func TestDevServer_Serve(t *testing.T) {
	root := project(t)
	s := newTestDevServer(t, root)

	w := httptest.NewRecorder()
	s.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), liveReloadPath)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestDevServer_Classify(t *testing.T) {
	root := project(t)
	s := newTestDevServer(t, root)

	assert.Equal(t, changeConfig, s.classify(filepath.Join(root, "site.yaml")))
	assert.Equal(t, changeContent, s.classify(filepath.Join(root, "content/posts/new.md")))
	assert.Equal(t, changeNone, s.classify(filepath.Join(root, "content/posts/.new.md.swp")))
	assert.Equal(t, changeStatic, s.classify(filepath.Join(root, "static/logo.svg")))
	assert.Equal(t, changeNone, s.classify(filepath.Join(root, "public/index.html")))
}

func TestDevServer_ReloadContent(t *testing.T) {
	root := project(t)
	s := newTestDevServer(t, root)

	require.NoError(t, os.WriteFile(filepath.Join(root, "content/posts/fresh.md"), []byte("---\ntitle: Fresh\ndate: 2025-01-01\n---\n"), 0644))
	s.handleFileChanges(context.Background(), []fsnotify.Event{{Name: filepath.Join(root, "content/posts/fresh.md"), Op: fsnotify.Create}})

	w := httptest.NewRecorder()
	s.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Contains(t, w.Body.String(), ">Fresh</a>")
}

func TestDevServer_ReloadConfig(t *testing.T) {
	root := project(t)
	s := newTestDevServer(t, root)

	require.NoError(t, os.WriteFile(filepath.Join(root, "site.yaml"), []byte("feed:\n  heading: Writing\n"), 0644))
	s.handleFileChanges(context.Background(), []fsnotify.Event{{Name: filepath.Join(root, "site.yaml"), Op: fsnotify.Write}})

	w := httptest.NewRecorder()
	s.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Contains(t, w.Body.String(), "<h2>Writing</h2>")
}

func TestDevServer_LiveReload(t *testing.T) {
	root := project(t)
	s := newTestDevServer(t, root)

	srv := httptest.NewServer(s)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+liveReloadPath, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		s.wsMutex.RLock()
		defer s.wsMutex.RUnlock()
		return len(s.wsClients) == 1
	}, time.Second, 10*time.Millisecond)

	s.notifyClients("reload", nil)

	var msg map[string]any
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "RELOAD", msg["type"])
}

func TestFeedCommand_ConfiguredLimit(t *testing.T) {
	root := project(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "site.yaml"), []byte("feed:\n  limit: 1\n"), 0644))

	out, err := run(t, "feed", "--json", "-C", root)
	require.NoError(t, err)

	var items []feed.DisplayItem
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	assert.Equal(t, []feed.DisplayItem{{Label: "New", Target: "/new/"}}, items)

	out, err = run(t, "feed", "--json", "-n", "2", "-C", root)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	assert.Len(t, items, 2)

	out, err = run(t, "feed", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "defaults to feed.limit")
}
