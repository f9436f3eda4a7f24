// Package preview serves the generated site tree locally and rebuilds it
// when source files change.
package preview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/refsite/internal/autolink"
	"git.home.luguber.info/inful/refsite/internal/config"
	"git.home.luguber.info/inful/refsite/internal/logfields"
	"git.home.luguber.info/inful/refsite/internal/site"
)

const debounceInterval = 300 * time.Millisecond

// Server watches the source tree and rebuilds into outDir on change, while
// serving outDir over HTTP for inspection.
type Server struct {
	cfg     *config.Config
	srcRoot string
	outDir  string
	port    int

	registry *autolink.Registry
}

// NewServer creates a preview server. The registry is snapshotted per
// rebuild so concurrent registration cannot race a build.
func NewServer(cfg *config.Config, srcRoot, outDir string, port int, registry *autolink.Registry) *Server {
	if registry == nil {
		registry = autolink.StandardRegistry()
	}
	return &Server{cfg: cfg, srcRoot: srcRoot, outDir: outDir, port: port, registry: registry}
}

// Run builds once, then blocks serving and rebuilding until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	if err := s.rebuild(); err != nil {
		// The first build may legitimately fail while the user is still
		// editing; keep watching so a fix triggers a retry.
		slog.Error("Initial build failed", logfields.Error(err))
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = watcher.Close() }()
	if err := addDirsRecursive(watcher, s.srcRoot); err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           http.FileServer(http.Dir(s.outDir)),
		ReadHeaderTimeout: 5 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		slog.Info("Preview server listening", logfields.URL(fmt.Sprintf("http://localhost:%d", s.port)))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	rebuildReq, trigger := newDebouncer()
	go s.rebuildWorker(ctx, rebuildReq)

	for {
		select {
		case <-ctx.Done():
			return s.shutdown(httpServer)
		case err := <-serveErr:
			return err
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			s.handleEvent(watcher, ev, trigger)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(err))
		}
	}
}

func (s *Server) rebuild() error {
	gen := site.NewGenerator(s.cfg, s.srcRoot, s.outDir, s.registry.Snapshot())
	_, err := gen.Build()
	return err
}

// rebuildWorker serializes rebuilds: one at a time, with at most one queued
// behind the running one.
func (s *Server) rebuildWorker(ctx context.Context, rebuildReq chan struct{}) {
	var mu sync.Mutex
	running := false
	pending := false

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-rebuildReq:
			if !ok {
				return
			}
			mu.Lock()
			if running {
				pending = true
				mu.Unlock()
				continue
			}
			running = true
			mu.Unlock()

			slog.Info("Change detected, rebuilding")
			if err := s.rebuild(); err != nil {
				slog.Warn("Rebuild failed", logfields.Error(err))
			}

			mu.Lock()
			running = false
			if pending {
				pending = false
				mu.Unlock()
				select {
				case rebuildReq <- struct{}{}:
				default:
				}
			} else {
				mu.Unlock()
			}
		}
	}
}

func (s *Server) handleEvent(watcher *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	if shouldIgnoreEvent(ev.Name) {
		return
	}
	// Output written inside the watched tree must not retrigger a build.
	evAbs, err1 := filepath.Abs(ev.Name)
	outAbs, err2 := filepath.Abs(s.outDir)
	if err1 == nil && err2 == nil && within(evAbs, outAbs) {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = addDirsRecursive(watcher, ev.Name)
		}
	}
	slog.Debug("File change detected", logfields.Path(ev.Name))
	trigger()
}

func (s *Server) shutdown(httpServer *http.Server) error {
	slog.Info("Shutting down preview server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Warn("HTTP server shutdown error", logfields.Error(err))
	}
	return nil
}

// newDebouncer coalesces bursts of filesystem events into one rebuild
// request after a quiet interval.
func newDebouncer() (chan struct{}, func()) {
	var mu sync.Mutex
	var timer *time.Timer
	rebuildReq := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(debounceInterval, func() {
			select {
			case rebuildReq <- struct{}{}:
			default:
			}
		})
	}
	return rebuildReq, trigger
}

func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if strings.HasPrefix(filepath.Base(path), ".") && path != root {
				return filepath.SkipDir
			}
			if err := w.Add(path); err != nil {
				slog.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
			}
		}
		return nil
	})
}

// shouldIgnoreEvent filters events that never warrant a rebuild: hidden
// files and editor temp/swap artifacts.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}
	return base == "Thumbs.db"
}

func within(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || !strings.HasPrefix(rel, "..")
}
