package prolog

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogsmith/internal/build"
	"git.home.luguber.info/inful/blogsmith/internal/config"
	"git.home.luguber.info/inful/blogsmith/internal/pagedate"
	"git.home.luguber.info/inful/blogsmith/internal/plugin"
)

func TestClassSpan(t *testing.T) {
	assert.Equal(t, `<span class="strike">a &lt;b&gt;</span>`, ClassSpan("strike", "a <b>"))
}

func buildSite(t *testing.T, prolog config.PrologConfig, files map[string]string) (*build.BuildResult, *config.Config) {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, "source", filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	}
	cfg, err := config.Parse([]byte("project:\n  name: T\n"))
	require.NoError(t, err)
	cfg.SetBaseDir(dir)
	cfg.Prolog = prolog

	registry := plugin.NewRegistry()
	registry.MustRegister(pagedate.New(), New(cfg.Prolog))
	res, err := build.NewBuildService().
		WithPlugins(registry).
		WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))).
		Run(context.Background(), build.BuildRequest{Config: cfg})
	require.NoError(t, err)
	return res, cfg
}

func readPage(t *testing.T, cfg *config.Config, name string) string {
	t.Helper()
	data, err := os.ReadFile(build.PagePath(cfg.OutputDir(), name))
	require.NoError(t, err)
	return string(data)
}

var blogProlog = config.PrologConfig{
	ClassRoles: map[string]string{"underline": "underline", "strike": "strike"},
	Substitutions: map[string]config.Substitution{
		"pagedate": {Directive: "pagedate"},
		"cta":      {Raw: `<span class="cta">Need help?</span>`},
	},
}

func TestBuild_SubstitutionsAndClassRoles(t *testing.T) {
	res, cfg := buildSite(t, blogProlog, map[string]string{
		"index.md": "---\ndate: 2025-08-06\n---\n# Post\n\n|pagedate|\n\n{underline}`important` and {strike}`old`.\n\n|cta| |undefined|\n",
	})
	assert.Equal(t, 0, res.Warnings)

	page := readPage(t, cfg, "index")
	assert.Contains(t, page, `<p><time class="page-date" datetime="2025-08-06">6 August 2025</time></p>`)
	assert.Contains(t, page, `<span class="underline">important</span> and <span class="strike">old</span>.`)
	assert.Contains(t, page, `<span class="cta">Need help?</span> |undefined|`)
}

func TestBuild_PageDateSubstitutionWithoutDate(t *testing.T) {
	_, cfg := buildSite(t, blogProlog, map[string]string{
		"index.md": "# Post\n\n|pagedate|\n\nBody.\n",
	})

	page := readPage(t, cfg, "index")
	assert.NotContains(t, page, "<time")
	assert.NotContains(t, page, "<p></p>")
	assert.Contains(t, page, "<p>Body.</p>")
}

func TestBuild_UnknownSubstitutionDirective(t *testing.T) {
	res, cfg := buildSite(t, config.PrologConfig{
		Substitutions: map[string]config.Substitution{"x": {Directive: "nope"}},
	}, map[string]string{
		"index.md": "# Post\n\nsee |x|\n",
	})
	assert.Equal(t, 1, res.Warnings)
	assert.Contains(t, readPage(t, cfg, "index"), "see |x|")
}

func TestBuild_RawDirectiveSubstitution(t *testing.T) {
	_, cfg := buildSite(t, config.PrologConfig{
		Substitutions: map[string]config.Substitution{"br": {Directive: "raw", Args: "html"}},
	}, map[string]string{
		"index.md": "# Post\n\na|br|b\n",
	})
	// raw through a substitution has no content, so nothing is emitted.
	assert.Contains(t, readPage(t, cfg, "index"), "<p>ab</p>")
}
