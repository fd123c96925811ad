// Package redirects writes stub pages that forward retired document URLs
// to their new location.
package redirects

import (
	"bytes"
	"html/template"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/blogsmith/internal/build"
	"git.home.luguber.info/inful/blogsmith/internal/foundation/errors"
	"git.home.luguber.info/inful/blogsmith/internal/logfields"
	"git.home.luguber.info/inful/blogsmith/internal/plugin"
)

var stubTemplate = template.Must(template.New("redirect").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Redirecting</title>
<meta http-equiv="refresh" content="0; url={{ .URL }}">
<link rel="canonical" href="{{ .URL }}">
</head>
<body>
<p>This page has moved to <a href="{{ .URL }}">{{ .URL }}</a>.</p>
</body>
</html>
`))

// Redirect maps an old document name to a target URL.
type Redirect struct {
	From string
	To   string
}

// List returns the configured redirects sorted by source.
func List(cfg map[string]string) []Redirect {
	out := make([]Redirect, 0, len(cfg))
	for from, to := range cfg {
		out = append(out, Redirect{From: strings.TrimSuffix(strings.Trim(from, "/"), ".html"), To: to})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].From < out[j].From })
	return out
}

// TargetURL returns the href written into the stub for r. Absolute URLs and
// root-anchored paths are kept; other targets are taken relative to the site
// root.
func (r Redirect) TargetURL() string {
	if u, err := url.Parse(r.To); err == nil && u.IsAbs() {
		return r.To
	}
	if strings.HasPrefix(r.To, "/") {
		return r.To
	}
	return build.RootPrefix(r.From) + r.To
}

// Stub renders the redirect page for r.
func (r Redirect) Stub() ([]byte, error) {
	var buf bytes.Buffer
	if err := stubTemplate.Execute(&buf, struct{ URL string }{r.TargetURL()}); err != nil {
		return nil, errors.WrapError(err, errors.CategoryRender, "failed to render redirect").
			WithContext("from", r.From).
			Build()
	}
	return buf.Bytes(), nil
}

// Plugin writes redirect stubs after a successful build.
type Plugin struct{}

// New returns the redirects plugin.
func New() *Plugin { return &Plugin{} }

func (p *Plugin) Metadata() plugin.PluginMetadata {
	return plugin.PluginMetadata{
		Name:        "redirects",
		Version:     "v1.0.0",
		Type:        plugin.PluginTypePublisher,
		Description: "Redirect stubs for moved documents",
	}
}

func (p *Plugin) Setup(r plugin.Registrar) error {
	r.OnBuildFinished(writeRedirects)
	return nil
}

func writeRedirects(env *plugin.Env, buildErr error) error {
	if buildErr != nil || env.Config == nil {
		return nil
	}
	for _, r := range List(env.Config.Redirects) {
		target := build.PagePath(env.OutputDir, r.From)
		// Stubs left by an earlier build are rewritten; only pages of this
		// build are protected.
		if _, isPage := env.Doc(r.From); isPage {
			env.Warn("redirect_collision", "Redirect source is an existing page",
				logfields.Page(r.From), logfields.Path(target))
			continue
		}

		data, err := r.Stub()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to create redirect directory").
				WithContext("path", target).
				Build()
		}
		// #nosec G306 -- published site content is world readable
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to write redirect").
				WithContext("path", target).
				Build()
		}
		env.Logger.Debug("Wrote redirect", logfields.Page(r.From), logfields.Path(target))
	}
	return nil
}
