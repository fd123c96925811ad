package pagedate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark/ast"

	"git.home.luguber.info/inful/blogsmith/internal/docmodel"
	"git.home.luguber.info/inful/blogsmith/internal/markup"
	"git.home.luguber.info/inful/blogsmith/internal/metadata"
	"git.home.luguber.info/inful/blogsmith/internal/plugin"
)

// docWithMarkers builds "<p>Published MARKER</p>" followed by count-1
// paragraphs holding only a marker.
func docWithMarkers(name string, count int) *plugin.Document {
	root := ast.NewDocument()
	first := ast.NewParagraph()
	first.AppendChild(first, ast.NewString([]byte("Published ")))
	first.AppendChild(first, NewPageDate())
	root.AppendChild(root, first)
	for i := 1; i < count; i++ {
		p := ast.NewParagraph()
		p.AppendChild(p, NewPageDate())
		root.AppendChild(root, p)
	}
	return &plugin.Document{Name: name, Tree: root}
}

func render(t *testing.T, doc *plugin.Document) string {
	t.Helper()
	out, err := markup.Render(markup.New(markup.Options{}), doc.Source, doc.Tree)
	require.NoError(t, err)
	return out
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		raw, want string
		ok        bool
	}{
		{"2025-08-06", "6 August 2025", true},
		{"2025-01-05", "5 January 2025", true},
		{"2024-12-31", "31 December 2024", true},
		{"March 2025", "March 2025", false},
		{"2025-13-01", "2025-13-01", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := FormatDate(tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
		assert.Equal(t, tt.ok, ok, tt.raw)
	}
}

func TestMarkupEscapes(t *testing.T) {
	assert.Equal(t, `<time class="page-date" datetime="a&#34;b">x &lt;y&gt;</time>`, Markup(ClassPage, `a"b`, "x <y>"))
}

func TestCollectDates(t *testing.T) {
	env := plugin.NewEnv(nil, nil, nil)
	doc := &plugin.Document{Name: "posts/a", Declarations: []docmodel.Declaration{
		{Key: "title", Value: "A"},
		{Key: "date", Value: "2025-01-01"},
		{Key: "date", Value: "2025-01-05"},
	}}
	require.NoError(t, CollectDates(env, doc))
	d, ok := env.Metadata.Date("posts/a")
	require.True(t, ok)
	assert.Equal(t, "2025-01-05", d)

	require.NoError(t, CollectDates(env, &plugin.Document{Name: "posts/b"}))
	assert.False(t, env.Metadata.Has("posts/b"))
}

func TestRenderPageDates_NoDateRemovesMarkers(t *testing.T) {
	env := plugin.NewEnv(nil, nil, nil)
	doc := docWithMarkers("posts/a", 3)

	require.NoError(t, RenderPageDates(env, doc))
	assert.Empty(t, findMarkers(doc.Tree))

	out := render(t, doc)
	assert.NotContains(t, out, "<time")
	assert.Equal(t, "<p>Published </p>\n", out)
}

func TestRenderPageDates_ReplacesEveryMarker(t *testing.T) {
	env := plugin.NewEnv(nil, nil, nil)
	env.Metadata.Set("posts/a", metadata.DateKey, "2025-01-05")
	doc := docWithMarkers("posts/a", 2)

	require.NoError(t, RenderPageDates(env, doc))
	out := render(t, doc)
	want := `<time class="page-date" datetime="2025-01-05">5 January 2025</time>`
	assert.Equal(t, 2, strings.Count(out, want))
	assert.Equal(t, 2, strings.Count(out, "<time"))
}

func TestRenderPageDates_UnparseablePassesThrough(t *testing.T) {
	env := plugin.NewEnv(nil, nil, nil)
	env.Metadata.Set("posts/a", metadata.DateKey, "March 2025")
	doc := docWithMarkers("posts/a", 1)

	require.NoError(t, RenderPageDates(env, doc))
	assert.Contains(t, render(t, doc), `<time class="page-date" datetime="March 2025">March 2025</time>`)
}

func TestRenderPageDates_NoMarkers(t *testing.T) {
	env := plugin.NewEnv(nil, nil, nil)
	env.Metadata.Set("posts/a", metadata.DateKey, "2025-01-05")
	doc := &plugin.Document{Name: "posts/a", Tree: ast.NewDocument()}
	require.NoError(t, RenderPageDates(env, doc))
	assert.Equal(t, 0, doc.Tree.ChildCount())
}

func TestAnnotateTOC(t *testing.T) {
	store := metadata.NewStore()
	store.Set("foo", metadata.DateKey, "2025-01-05")

	out, n := AnnotateTOC(store, "index", `<a href="foo.html">Foo</a>`)
	assert.Equal(t, 1, n)
	assert.Equal(t, `<span><time class="toc-date" datetime="2025-01-05">2025-01-05</time><a href="foo.html">Foo</a></span>`, out)
}

func TestAnnotateTOC_UntouchedWithoutMetadata(t *testing.T) {
	store := metadata.NewStore()
	store.Set("foo", metadata.DateKey, "2025-01-05")

	bodies := []string{
		`<p>Intro</p><A HREF='bar.html' class=x>Bar</A> tail &amp; more`,
		`<a href="foo.html#frag">Foo</a>`,
		`<a href="foo.html?x=1">Foo</a>`,
		`<a href="foo.html"><span class="doc">Foo</span></a>`,
		`<a href="foo.htm">Foo</a>`,
		`<a href="foo.html"></a>`,
		`<a name="foo.html">Foo</a>`,
	}
	for _, body := range bodies {
		out, n := AnnotateTOC(store, "index", body)
		assert.Equal(t, 0, n, body)
		assert.Equal(t, body, out, body)
	}
}

func TestAnnotateTOC_RelativeToPage(t *testing.T) {
	store := metadata.NewStore()
	store.Set("posts/a", metadata.DateKey, "2025-02-01")
	store.Set("b", metadata.DateKey, "2025-03-01")

	body := `<li class="toctree-l1"><a class="reference internal" href="a.html">A</a></li>` +
		`<li><a href="b.html">B</a></li>` +
		`<li><a href="../b.html">Up</a></li>`
	out, n := AnnotateTOC(store, "posts/index", body)
	assert.Equal(t, 2, n)
	assert.Contains(t, out, `<span><time class="toc-date" datetime="2025-02-01">2025-02-01</time><a class="reference internal" href="a.html">A</a></span>`)
	assert.Contains(t, out, `<span><time class="toc-date" datetime="2025-03-01">2025-03-01</time><a href="b.html">B</a></span>`)
	// ".." is not resolved against the page directory.
	assert.Contains(t, out, `<li><a href="../b.html">Up</a></li>`)
}

func TestAnnotateTOC_UnescapesTarget(t *testing.T) {
	store := metadata.NewStore()
	store.Set("q&a", metadata.DateKey, "2025-04-01")

	out, n := AnnotateTOC(store, "index", `<a href="q&amp;a.html">Q&amp;A</a>`)
	assert.Equal(t, 1, n)
	assert.Equal(t, `<span><time class="toc-date" datetime="2025-04-01">2025-04-01</time><a href="q&amp;a.html">Q&amp;A</a></span>`, out)
}

func TestAnnotateTOC_LiteralWinsOverRelative(t *testing.T) {
	store := metadata.NewStore()
	store.Set("a", "title", "no date")
	store.Set("posts/a", metadata.DateKey, "2025-02-01")

	out, n := AnnotateTOC(store, "posts/index", `<a href="a.html">A</a>`)
	assert.Equal(t, 0, n)
	assert.Equal(t, `<a href="a.html">A</a>`, out)
}

func TestPurePath(t *testing.T) {
	assert.Equal(t, "a/b", purePath("./a//b/"))
	assert.Equal(t, "a/../b", purePath("a/../b"))
	assert.Equal(t, ".", purePath(""))
	assert.Equal(t, "posts", parentDir("posts/index"))
	assert.Equal(t, ".", parentDir("index"))
}

func TestRoleMarkup(t *testing.T) {
	tests := []struct {
		text, want string
		ok         bool
	}{
		{"2025-08-06", `<time class="page-date" datetime="2025-08-06">6 August 2025</time>`, true},
		{"06/08/2025<%d/%m/%Y>", `<time class="page-date" datetime="06/08/2025">6 August 2025</time>`, true},
		{"06/08/2025 <%d/%m/%Y>", `<time class="page-date" datetime="06/08/2025">6 August 2025</time>`, true},
		{"someday", `<time class="page-date" datetime="someday">someday</time>`, false},
		{"31/02/2025<%d/%m/%Y>", `<time class="page-date" datetime="31/02/2025">31/02/2025</time>`, false},
	}
	for _, tt := range tests {
		got, ok := RoleMarkup(tt.text)
		assert.Equal(t, tt.want, got, tt.text)
		assert.Equal(t, tt.ok, ok, tt.text)
	}
}

func TestDateRoleNode(t *testing.T) {
	env := plugin.NewEnv(nil, nil, nil)
	nodes, err := dateRole(plugin.RoleCall{Env: env, Name: RoleName, Text: "2025-08-06"})
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	raw, ok := nodes[0].(*markup.RawInline)
	require.True(t, ok)
	assert.Contains(t, raw.HTML, "6 August 2025")
}
