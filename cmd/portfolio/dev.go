package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/maxcell/portfolio/internal/config"
	"github.com/maxcell/portfolio/internal/site"
)

// liveReloadPath is the websocket endpoint pages connect to in dev mode
const liveReloadPath = "/__livereload"

const liveReloadScript = `(function () {
  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(proto + location.host + "` + liveReloadPath + `");
  ws.onmessage = function (event) {
    var msg = JSON.parse(event.data);
    if (msg.type === "RELOAD") location.reload();
    if (msg.type === "ERROR") console.error("[portfolio]", msg.message);
  };
})();`

type devServer struct {
	opts   *globalOptions
	logger *slog.Logger
	out    io.Writer

	mu      sync.RWMutex
	site    *site.Site
	handler http.Handler

	watcher   *fsnotify.Watcher
	wsClients map[*websocket.Conn]bool
	wsMutex   sync.RWMutex
	upgrader  websocket.Upgrader
}

func newDevCommand(opts *globalOptions) *cobra.Command {
	var port int
	var host string

	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Start the development server",
		Long: `Serves the site in development mode, reloading content and config on
change and refreshing open browser tabs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDev(cmd, opts, host, port)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to run the dev server on (defaults to dev.port)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind the dev server to (defaults to dev.host)")

	return cmd
}

func runDev(cmd *cobra.Command, opts *globalOptions, host string, port int) error {
	out := cmd.OutOrStdout()

	s, err := opts.loadSite(cmd, config.Development)
	if err != nil {
		return err
	}

	// CLI flags take precedence over the config file
	if port != 0 {
		s.Config.Dev.Port = port
	}
	if host != "" {
		s.Config.Dev.Host = host
	}

	server := &devServer{
		opts:      opts,
		logger:    s.Logger,
		out:       out,
		wsClients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Allow all origins in dev mode
				return true
			},
		},
	}

	fmt.Fprintln(out, "📚 Loading content...")
	if err := server.swap(cmd.Context(), s); err != nil {
		// Keep serving so the error page shows what is wrong
		fmt.Fprintf(out, "⚠️  %v\n", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()
	server.watcher = watcher

	if err := server.setupWatcher(); err != nil {
		return fmt.Errorf("failed to setup watcher: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go server.watchFiles(ctx)

	addr := s.Config.Addr()
	srv := &http.Server{
		Addr:    addr,
		Handler: server,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		<-sigChan
		fmt.Fprintln(out, "\n🛑 Shutting down dev server...")
		cancel()

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelShutdown()
		srv.Shutdown(shutdownCtx)
	}()

	fmt.Fprintf(out, "✨ Dev server running at http://%s\n", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ServeHTTP delegates to the router of the current site
func (s *devServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	h := s.handler
	s.mu.RUnlock()
	h.ServeHTTP(w, r)
}

// swap reloads the content of next and starts serving it. The router is
// swapped even when the reload fails so the error page is served.
func (s *devServer) swap(ctx context.Context, next *site.Site) error {
	err := next.Reload(ctx)

	extra := http.NewServeMux()
	extra.HandleFunc(liveReloadPath, s.handleWebSocket)

	router := next.Router(site.RouterOptions{
		LiveReloadScript: liveReloadScript,
		Extra:            extra,
	})

	s.mu.Lock()
	s.site = next
	s.handler = router
	s.mu.Unlock()
	return err
}

func (s *devServer) current() *site.Site {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.site
}

// setupWatcher watches the project directory, the content directory and
// the static directory, recursively for the latter two.
func (s *devServer) setupWatcher() error {
	cur := s.current()
	if err := s.watcher.Add(cur.Root); err != nil {
		return err
	}

	for _, dir := range []string{cur.Config.Paths.Content, cur.Config.Paths.Static} {
		if err := s.watchTree(cur.Path(dir)); err != nil {
			return err
		}
	}
	return nil
}

func (s *devServer) watchTree(root string) error {
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return nil
	}

	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Skip hidden directories
		if d.IsDir() && path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}

		if d.IsDir() {
			return s.watcher.Add(path)
		}
		return nil
	})
}

func (s *devServer) watchFiles(ctx context.Context) {
	debounce := time.NewTimer(0)
	<-debounce.C // drain initial timer

	var pendingEvents []fsnotify.Event

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}

			// New directories below content or static are watched too
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := s.watchTree(event.Name); err != nil {
						s.logger.Warn("failed to watch directory", "path", event.Name, "error", err)
					}
				}
			}

			if s.classify(event.Name) == changeNone {
				continue
			}

			pendingEvents = append(pendingEvents, event)
			debounce.Reset(100 * time.Millisecond)

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.logger.Error("watcher error", "error", err)

		case <-debounce.C:
			events := pendingEvents
			pendingEvents = nil

			if len(events) > 0 {
				s.handleFileChanges(ctx, events)
			}
		}
	}
}

type change int

const (
	changeNone change = iota
	changeStatic
	changeContent
	changeConfig
)

// classify tells what a changed file affects
func (s *devServer) classify(path string) change {
	cur := s.current()

	abs := func(p string) string {
		a, err := filepath.Abs(p)
		if err != nil {
			return filepath.Clean(p)
		}
		return a
	}
	within := func(dir string) bool {
		rel, err := filepath.Rel(abs(cur.Path(dir)), abs(path))
		return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
	}

	switch {
	case abs(path) == abs(s.opts.configFile()):
		return changeConfig
	case within(cur.Config.Paths.Content):
		if strings.HasPrefix(filepath.Base(path), ".") {
			return changeNone
		}
		return changeContent
	case within(cur.Config.Paths.Static):
		return changeStatic
	}
	return changeNone
}

func (s *devServer) handleFileChanges(ctx context.Context, events []fsnotify.Event) {
	var what change
	for _, event := range events {
		if c := s.classify(event.Name); c > what {
			what = c
		}
	}

	var err error
	switch what {
	case changeConfig:
		fmt.Fprintln(s.out, "⚙️  Config changed, reloading...")
		err = s.reloadConfig(ctx)
	case changeContent:
		fmt.Fprintln(s.out, "📝 Content changed, reloading...")
		err = s.current().Reload(ctx)
	case changeStatic:
		fmt.Fprintln(s.out, "🖼️  Static files changed")
	}

	if err != nil {
		fmt.Fprintf(s.out, "❌ Reload failed: %v\n", err)
		s.notifyClients("error", map[string]any{
			"message": err.Error(),
		})
	}

	// Reload either way so the error page replaces the stale page
	s.notifyClients("reload", nil)
}

// reloadConfig re-reads the config file and swaps in a new site. An invalid
// config keeps the current site.
func (s *devServer) reloadConfig(ctx context.Context) error {
	cfg, err := s.opts.loadConfig(config.Development)
	if err != nil {
		return err
	}

	cur := s.current()
	cfg.Dev = cur.Config.Dev
	return s.swap(ctx, site.New(cur.Root, cfg, s.logger))
}

func (s *devServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	s.wsMutex.Lock()
	s.wsClients[conn] = true
	s.wsMutex.Unlock()

	defer func() {
		s.wsMutex.Lock()
		delete(s.wsClients, conn)
		s.wsMutex.Unlock()
	}()

	// Pages never send anything; reading detects the close
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.logger.Debug("websocket closed", "error", err)
			}
			return
		}
	}
}

func (s *devServer) notifyClients(msgType string, data map[string]any) {
	s.wsMutex.Lock()
	defer s.wsMutex.Unlock()

	message := map[string]any{
		"type": strings.ToUpper(msgType),
	}
	for k, v := range data {
		message[k] = v
	}

	for client := range s.wsClients {
		if err := client.WriteJSON(message); err != nil {
			s.logger.Debug("failed to notify client", "error", err)
		}
	}
}
