package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogsmith/internal/build"
	"git.home.luguber.info/inful/blogsmith/internal/config"
	"git.home.luguber.info/inful/blogsmith/internal/plugin"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	}
}

func zipEntries(t *testing.T, path string) map[string]string {
	t.Helper()
	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	out := make(map[string]string)
	for _, f := range r.File {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		_ = rc.Close()
		out[f.Name] = string(data)
	}
	return out
}

func TestPackageExamples(t *testing.T) {
	examples := t.TempDir()
	out := t.TempDir()
	writeFiles(t, examples, map[string]string{
		"web-api/main.go":             "package main\n",
		"web-api/internal/handler.go": "package internal\n",
		"web-api/node_modules/x/a.js": "ignored",
		"web-api/debug.log":           "ignored",
		"cli-tool/README.md":          "# cli\n",
		"loose.txt":                   "not an example",
	})

	results, err := PackageExamples(examples, out, []string{"**/node_modules", "**/*.log"})
	require.NoError(t, err)
	require.Len(t, results, 2)

	names := []string{results[0].Name, results[1].Name}
	sort.Strings(names)
	assert.Equal(t, []string{"cli-tool", "web-api"}, names)

	entries := zipEntries(t, filepath.Join(out, DownloadsDir, "web-api.zip"))
	assert.Equal(t, map[string]string{
		"web-api/main.go":             "package main\n",
		"web-api/internal/handler.go": "package internal\n",
	}, entries)

	entries = zipEntries(t, filepath.Join(out, DownloadsDir, "cli-tool.zip"))
	assert.Equal(t, map[string]string{"cli-tool/README.md": "# cli\n"}, entries)

	_, err = os.Stat(filepath.Join(out, DownloadsDir, "loose.txt.zip"))
	assert.True(t, os.IsNotExist(err))
}

func TestPackageExamples_ExcludedExampleDirectory(t *testing.T) {
	examples := t.TempDir()
	out := t.TempDir()
	writeFiles(t, examples, map[string]string{
		"keep/a.txt":  "a",
		"draft/b.txt": "b",
	})

	results, err := PackageExamples(examples, out, []string{"draft"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "keep", results[0].Name)
	assert.Equal(t, 1, results[0].Files)
}

func TestPackageExamples_MissingDirectory(t *testing.T) {
	_, err := PackageExamples(filepath.Join(t.TempDir(), "missing"), t.TempDir(), nil)
	require.Error(t, err)
}

func newSite(t *testing.T, examples bool) *config.Config {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{"source/index.md": "# Home\n"}
	if examples {
		files["examples/web-api/main.go"] = "package main\n"
	}
	writeFiles(t, dir, files)

	cfg, err := config.Parse([]byte("project:\n  name: Test\npaths:\n  examples: examples\n"))
	require.NoError(t, err)
	cfg.SetBaseDir(dir)
	return cfg
}

func runBuild(t *testing.T, cfg *config.Config) *build.BuildResult {
	t.Helper()
	registry := plugin.NewRegistry()
	registry.MustRegister(New())
	svc := build.NewBuildService().
		WithPlugins(registry).
		WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	res, err := svc.Run(context.Background(), build.BuildRequest{Config: cfg})
	require.NoError(t, err)
	return res
}

func TestPlugin_WritesArchivesAfterBuild(t *testing.T) {
	cfg := newSite(t, true)
	res := runBuild(t, cfg)
	assert.Equal(t, build.BuildStatusSuccess, res.Status)

	entries := zipEntries(t, filepath.Join(cfg.OutputDir(), DownloadsDir, "web-api.zip"))
	assert.Contains(t, entries, "web-api/main.go")
}

func TestPlugin_NoExamplesDirectory(t *testing.T) {
	cfg := newSite(t, false)
	res := runBuild(t, cfg)
	assert.Equal(t, build.BuildStatusSuccess, res.Status)

	_, err := os.Stat(filepath.Join(cfg.OutputDir(), DownloadsDir))
	assert.True(t, os.IsNotExist(err))
}

func TestPackageExamplesHook_SkipsFailedBuild(t *testing.T) {
	cfg := newSite(t, true)
	env := plugin.NewEnv(cfg, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)), nil)
	require.NoError(t, packageExamples(env, assert.AnError))

	_, err := os.Stat(filepath.Join(cfg.OutputDir(), DownloadsDir))
	assert.True(t, os.IsNotExist(err))
}
