package plugin

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark/ast"
)

type stubPlugin struct {
	meta PluginMetadata
}

func (s stubPlugin) Metadata() PluginMetadata { return s.meta }
func (s stubPlugin) Setup(Registrar) error    { return nil }

func newStub(name string, typ PluginType) Plugin {
	return stubPlugin{meta: PluginMetadata{Name: name, Version: "v1.0.0", Type: typ}}
}

func TestPluginMetadataValidate(t *testing.T) {
	tests := []struct {
		name    string
		meta    PluginMetadata
		wantErr bool
	}{
		{"valid", PluginMetadata{Name: "tags", Version: "v1.0.0", Type: PluginTypeGenerator}, false},
		{"no name", PluginMetadata{Version: "v1.0.0", Type: PluginTypeSyntax}, true},
		{"no version", PluginMetadata{Name: "tags", Type: PluginTypeSyntax}, true},
		{"bad type", PluginMetadata{Name: "tags", Version: "v1.0.0", Type: "theme"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.meta.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
	assert.Equal(t, "tags@v1.0.0 (generator)", PluginMetadata{Name: "tags", Version: "v1.0.0", Type: PluginTypeGenerator}.String())
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(newStub("pagedate", PluginTypeTransform)))
	require.NoError(t, r.Register(newStub("tags", PluginTypeGenerator)))
	require.NoError(t, r.Register(newStub("archive", PluginTypePublisher)))

	require.Error(t, r.Register(newStub("tags", PluginTypeGenerator)))
	require.Error(t, r.Register(nil))
	require.Error(t, r.Register(newStub("", PluginTypeSyntax)))

	assert.True(t, r.Has("tags"))
	assert.Equal(t, 3, r.Count())

	names := []string{}
	for _, p := range r.List() {
		names = append(names, p.Metadata().Name)
	}
	assert.Equal(t, []string{"pagedate", "tags", "archive"}, names)
	assert.Len(t, r.ListByType(PluginTypePublisher), 1)

	_, err := r.Get("missing")
	assert.Error(t, err)
	p, err := r.Get("archive")
	require.NoError(t, err)
	assert.Equal(t, "archive", p.Metadata().Name)
}

func TestPluginError(t *testing.T) {
	cause := errors.New("boom")
	err := NewPluginError("archive", "build-finished", cause)
	assert.Equal(t, "plugin archive failed during build-finished: boom", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestRelativeURL(t *testing.T) {
	tests := []struct {
		from, to, anchor, want string
	}{
		{"index", "posts/web-api", "", "posts/web-api.html"},
		{"posts/a", "posts/b", "", "b.html"},
		{"posts/a", "index", "", "../index.html"},
		{"a/b/c", "a/d", "top", "../d.html#top"},
		{"_tags/go", "posts/a", "", "../posts/a.html"},
		{"posts/a", "posts/a", "intro", "a.html#intro"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RelativeURL(tt.from, tt.to, tt.anchor), tt.from+" -> "+tt.to)
	}
}

func TestEnv_DocumentsAndLabels(t *testing.T) {
	env := NewEnv(nil, nil, nil)
	env.AddDocument(&Document{Name: "posts/b", Title: "B"})
	env.AddDocument(&Document{Name: "index"})
	env.AddDocument(&Document{Name: "posts/a", Title: "A"})

	var names []string
	for _, d := range env.Documents() {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"index", "posts/a", "posts/b"}, names)
	assert.Equal(t, "A", env.Title("posts/a"))
	assert.Equal(t, "index", env.Title("index"))

	assert.True(t, env.SetLabel("intro", Label{Docname: "posts/a", Anchor: "intro", Title: "Intro"}))
	assert.False(t, env.SetLabel("intro", Label{Docname: "posts/b"}))
	l, ok := env.Label("intro")
	require.True(t, ok)
	assert.Equal(t, "posts/a", l.Docname)
}

func TestEnv_Warn(t *testing.T) {
	var buf bytes.Buffer
	env := NewEnv(nil, slog.New(slog.NewTextHandler(&buf, nil)), nil)
	env.Warn("unknown_role", "Unknown role", "role", "nope")
	assert.Equal(t, 1, env.Warnings())
	assert.Contains(t, buf.String(), "warning=unknown_role")
	assert.Contains(t, buf.String(), "role=nope")
}

func TestPageDir(t *testing.T) {
	assert.Equal(t, "", (&Page{Name: "index"}).Dir())
	assert.Equal(t, "posts/2025", (&Page{Name: "posts/2025/a"}).Dir())
}

func TestEnv_DirectiveLookup(t *testing.T) {
	env := NewEnv(nil, nil, nil)
	_, ok := env.Directive("raw")
	assert.False(t, ok)

	raw := DirectiveFunc(func(DirectiveCall) ([]ast.Node, error) { return nil, nil })
	env.SetDirectiveLookup(func(name string) (Directive, bool) {
		if name == "raw" {
			return raw, true
		}
		return nil, false
	})
	d, ok := env.Directive("raw")
	require.True(t, ok)
	assert.NotNil(t, d)
}
