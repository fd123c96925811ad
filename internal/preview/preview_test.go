package preview

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
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogsmith/internal/build"
	"git.home.luguber.info/inful/blogsmith/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Parse([]byte("project:\n  name: Preview\n"))
	require.NoError(t, err)
	cfg.SetBaseDir(t.TempDir())
	return cfg
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func okBuild(context.Context) (*build.BuildResult, error) {
	return &build.BuildResult{Status: build.BuildStatusSuccess}, nil
}

func get(t *testing.T, h http.Handler, target string) (int, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	return rec.Code, string(body)
}

func TestNew_RequiresConfigAndBuild(t *testing.T) {
	_, err := New(Options{Build: okBuild})
	require.Error(t, err)
	_, err = New(Options{Config: testConfig(t)})
	require.Error(t, err)
}

func TestHandler_ServesOutput(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.MkdirAll(cfg.OutputDir(), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.OutputDir(), "index.html"), []byte("<p>home</p>"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.OutputDir(), "about.html"), []byte("<p>about</p>"), 0o600))

	s, err := New(Options{Config: cfg, Build: okBuild, Logger: quietLogger()})
	require.NoError(t, err)
	s.rebuild(context.Background(), "test")

	code, body := get(t, s.Handler(), "/")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "home")

	code, body = get(t, s.Handler(), "/about.html")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "about")

	code, _ = get(t, s.Handler(), "/metrics")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestHandler_ShowsErrorUntilFirstGoodBuild(t *testing.T) {
	cfg := testConfig(t)
	fail := true
	buildFn := func(context.Context) (*build.BuildResult, error) {
		if fail {
			return nil, errors.New("template missing")
		}
		return &build.BuildResult{Status: build.BuildStatusSuccess}, nil
	}
	s, err := New(Options{Config: cfg, Build: buildFn, Logger: quietLogger()})
	require.NoError(t, err)

	s.rebuild(context.Background(), "test")
	code, body := get(t, s.Handler(), "/")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Contains(t, body, "template missing")

	fail = false
	s.rebuild(context.Background(), "test")
	fail = true
	s.rebuild(context.Background(), "test")
	code, _ = get(t, s.Handler(), "/")
	assert.NotEqual(t, http.StatusServiceUnavailable, code)
}

func TestRebuild_FailedStatusIsAnError(t *testing.T) {
	buildFn := func(context.Context) (*build.BuildResult, error) {
		return &build.BuildResult{Status: build.BuildStatusFailed}, nil
	}
	s, err := New(Options{Config: testConfig(t), Build: buildFn, Logger: quietLogger()})
	require.NoError(t, err)
	s.rebuild(context.Background(), "test")

	hasError, _, hasGood := s.status.getStatus()
	assert.True(t, hasError)
	assert.False(t, hasGood)
}

func TestHandler_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "preview_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	s, err := New(Options{Config: testConfig(t), Build: okBuild, Gatherer: reg, Logger: quietLogger()})
	require.NoError(t, err)

	code, body := get(t, s.Handler(), "/metrics")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "preview_test_total")
}

func TestDebouncer_CoalescesTriggers(t *testing.T) {
	req, trigger := setupRebuildDebouncer(20 * time.Millisecond)
	for i := 0; i < 5; i++ {
		trigger()
	}

	select {
	case <-req:
	case <-time.After(time.Second):
		t.Fatal("no rebuild request")
	}
	select {
	case <-req:
		t.Fatal("triggers were not coalesced")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatchRoots_ExistingDirectoriesOnly(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.MkdirAll(cfg.SourceDir(), 0o750))
	require.NoError(t, os.MkdirAll(filepath.Join(cfg.SourceDir(), "_static"), 0o750))

	s, err := New(Options{Config: cfg, Build: okBuild})
	require.NoError(t, err)
	assert.Equal(t, []string{cfg.SourceDir(), filepath.Join(cfg.SourceDir(), "_static")}, s.watchRoots())
}

func TestIgnoreOutput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "build", "html")
	ignore := ignoreOutput(out)
	assert.True(t, ignore(filepath.Join(out, "index.html")))
	assert.True(t, ignore(filepath.Join(out, "posts", "a.html")))
	assert.False(t, ignore(filepath.Join(filepath.Dir(out), "other.html")))
	assert.False(t, ignore(filepath.Join(filepath.Dir(out), "html2", "x")))
}

func TestShouldIgnoreEvent(t *testing.T) {
	require.True(t, shouldIgnoreEvent("/tmp/.hidden.md"))
	require.True(t, shouldIgnoreEvent("/tmp/#foo#"))
	require.True(t, shouldIgnoreEvent("/tmp/foo.swp"))
	require.True(t, shouldIgnoreEvent("/tmp/foo.md~"))
	require.True(t, shouldIgnoreEvent("/tmp/.DS_Store"))
	require.False(t, shouldIgnoreEvent("/tmp/visible.md"))
}

func TestHandler_MetricsOnSeparateListener(t *testing.T) {
	s, err := New(Options{
		Config:        testConfig(t),
		Build:         okBuild,
		Gatherer:      prometheus.NewRegistry(),
		MetricsListen: "127.0.0.1:0",
		Logger:        quietLogger(),
	})
	require.NoError(t, err)
	s.rebuild(context.Background(), "test")

	code, _ := get(t, s.Handler(), "/metrics")
	assert.Equal(t, http.StatusNotFound, code)
}
