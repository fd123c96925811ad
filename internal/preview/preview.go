// Package preview serves a built site locally and rebuilds it when sources
// change.
package preview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/blogsmith/internal/build"
	"git.home.luguber.info/inful/blogsmith/internal/config"
	"git.home.luguber.info/inful/blogsmith/internal/logfields"
	"git.home.luguber.info/inful/blogsmith/internal/metrics"
)

// BuildFunc runs one build of the site.
type BuildFunc func(ctx context.Context) (*build.BuildResult, error)

// Options configures a preview session.
type Options struct {
	Config *config.Config
	Build  BuildFunc
	// Gatherer enables /metrics when set. The endpoint is served on
	// MetricsListen when given, otherwise next to the site.
	Gatherer      prom.Gatherer
	MetricsListen string
	Logger        *slog.Logger
}

// buildStatus tracks the last build state for error display.
type buildStatus struct {
	mu           sync.RWMutex
	lastError    error
	hasGoodBuild bool
}

func (bs *buildStatus) setError(err error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = err
}

func (bs *buildStatus) setSuccess() {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = nil
	bs.hasGoodBuild = true
}

func (bs *buildStatus) getStatus() (hasError bool, err error, hasGoodBuild bool) {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.lastError != nil, bs.lastError, bs.hasGoodBuild
}

// Server is a running preview session.
type Server struct {
	opts   Options
	logger *slog.Logger
	status *buildStatus
}

// New validates opts and returns a preview server.
func New(opts Options) (*Server, error) {
	if opts.Config == nil {
		return nil, errors.New("preview requires a configuration")
	}
	if opts.Build == nil {
		return nil, errors.New("preview requires a build function")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{opts: opts, logger: logger, status: &buildStatus{}}, nil
}

// Run builds the site, serves it on serve.port and rebuilds on change until
// ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	cfg := s.opts.Config
	s.rebuild(ctx, "initial")

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Serve.Port))
	if err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Preview server stopped", logfields.Error(err))
		}
	}()
	s.logger.Info("Preview server listening",
		slog.Int("port", cfg.Serve.Port),
		slog.String("url", fmt.Sprintf("http://localhost:%d", cfg.Serve.Port)))

	servers := []*http.Server{srv}
	if s.opts.Gatherer != nil && s.opts.MetricsListen != "" {
		msrv, err := s.startMetricsServer()
		if err != nil {
			_ = srv.Close()
			return err
		}
		servers = append(servers, msrv)
	}

	watcher, err := setupFileWatcher(s.watchRoots(), s.logger)
	if err != nil {
		closeAll(servers)
		return err
	}
	defer func() { _ = watcher.Close() }()

	rebuildReq, trigger := setupRebuildDebouncer(debounceDelay)
	s.startRebuildWorker(ctx, rebuildReq)

	sched, err := s.startScheduler(trigger)
	if err != nil {
		closeAll(servers)
		return err
	}

	ignore := ignoreOutput(cfg.OutputDir())
	for {
		select {
		case <-ctx.Done():
			return s.shutdown(servers, sched)
		case ev, ok := <-watcher.Events:
			if !ok {
				return s.shutdown(servers, sched)
			}
			if ignore(ev.Name) {
				continue
			}
			handleFileEvent(watcher, ev, trigger, s.logger)
		case err, ok := <-watcher.Errors:
			if !ok {
				return s.shutdown(servers, sched)
			}
			s.logger.Warn("Watcher error", logfields.Error(err))
		}
	}
}

// Handler serves the output directory and, when a gatherer is configured,
// Prometheus metrics on /metrics. Until one build succeeds, the last build
// error is shown instead of the site.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	if s.opts.Gatherer != nil && s.opts.MetricsListen == "" {
		mux.Handle("/metrics", metrics.HTTPHandler(s.opts.Gatherer))
	}
	files := http.FileServer(http.Dir(s.opts.Config.OutputDir()))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if hasError, err, hasGood := s.status.getStatus(); hasError && !hasGood {
			http.Error(w, "build failed: "+err.Error(), http.StatusServiceUnavailable)
			return
		}
		files.ServeHTTP(w, r)
	})
	return mux
}

func (s *Server) rebuild(ctx context.Context, reason string) {
	res, err := s.opts.Build(ctx)
	if err == nil && res != nil && !res.Status.IsSuccess() {
		err = fmt.Errorf("build %s", res.Status)
	}
	if err != nil {
		s.logger.Warn("Rebuild failed", slog.String("reason", reason), logfields.Error(err))
		s.status.setError(err)
		return
	}
	s.status.setSuccess()
	s.logger.Info("Site rebuilt",
		slog.String("reason", reason),
		logfields.Count(res.Pages),
		logfields.DurationMS(float64(res.Duration.Microseconds())/1000))
}

// watchRoots lists the existing directories whose changes trigger a rebuild.
func (s *Server) watchRoots() []string {
	cfg := s.opts.Config
	candidates := append([]string{cfg.SourceDir(), cfg.ExamplesDir(), cfg.TemplatesDir()}, cfg.StaticDirs()...)
	seen := make(map[string]bool)
	var roots []string
	for _, dir := range candidates {
		if dir == "" || seen[dir] {
			continue
		}
		seen[dir] = true
		if st, err := os.Stat(dir); err == nil && st.IsDir() {
			roots = append(roots, dir)
		}
	}
	return roots
}

func (s *Server) startMetricsServer() (*http.Server, error) {
	ln, err := net.Listen("tcp", s.opts.MetricsListen)
	if err != nil {
		return nil, fmt.Errorf("failed to start metrics server: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(s.opts.Gatherer))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Metrics server stopped", logfields.Error(err))
		}
	}()
	s.logger.Info("Metrics listening", slog.String("addr", ln.Addr().String()))
	return srv, nil
}

func closeAll(servers []*http.Server) {
	for _, srv := range servers {
		_ = srv.Close()
	}
}

func (s *Server) shutdown(servers []*http.Server, sched *scheduler) error {
	s.logger.Info("Shutting down preview server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if sched != nil {
		if err := sched.stop(); err != nil {
			s.logger.Warn("Scheduler shutdown error", logfields.Error(err))
		}
	}
	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("HTTP server shutdown error", logfields.Error(err))
		}
	}
	return nil
}

// ignoreOutput reports events below the output directory, which every
// build rewrites.
func ignoreOutput(outputDir string) func(string) bool {
	abs, err := filepath.Abs(outputDir)
	if err != nil {
		abs = outputDir
	}
	return func(name string) bool {
		p, err := filepath.Abs(name)
		if err != nil {
			return false
		}
		rel, err := filepath.Rel(abs, p)
		return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
	}
}
