package theme

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogsmith/internal/docmodel"
	"git.home.luguber.info/inful/blogsmith/internal/foundation/errors"
)

func TestLoad_Builtin(t *testing.T) {
	th, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "builtin", th.Source())

	var buf bytes.Buffer
	require.NoError(t, th.Render(&buf, PageData{
		SiteTitle:  "Blog",
		ShortTitle: "Blog",
		Title:      "Web API",
		Body:       `<p>hello</p>`,
		Meta:       []docmodel.Declaration{{Key: "date", Value: "2025-01-05"}},
		CSSFiles:   []string{"../_static/custom.css"},
		IndexURL:   "../index.html",
		TagsURL:    "../_tags/tagsindex.html",
		Copyright:  "2025, Someone",
	}))
	out := buf.String()
	assert.Contains(t, out, "<title>Web API - Blog</title>")
	assert.Contains(t, out, `<meta name="date" content="2025-01-05">`)
	assert.Contains(t, out, `<link rel="stylesheet" href="../_static/custom.css">`)
	assert.Contains(t, out, "<p>hello</p>")
	assert.Contains(t, out, `<a href="../_tags/tagsindex.html">Tags</a>`)
	assert.Contains(t, out, "&copy; 2025, Someone")
}

func TestLoad_Override(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, LayoutName), []byte(`<main>{{ .Body }}</main>`), 0o600))

	th, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, LayoutName), th.Source())

	var buf bytes.Buffer
	require.NoError(t, th.Render(&buf, PageData{Body: "<b>x</b>"}))
	assert.Equal(t, "<main><b>x</b></main>", buf.String())
}

func TestLoad_BadOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, LayoutName), []byte(`{{ .Body `), 0o600))

	_, err := Load(dir)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryRender))
}
