// Package extlinks provides roles that expand short names into external links.
package extlinks

import (
	"html"
	"strings"

	"github.com/yuin/goldmark/ast"

	"git.home.luguber.info/inful/blogsmith/internal/config"
	"git.home.luguber.info/inful/blogsmith/internal/docmodel"
	"git.home.luguber.info/inful/blogsmith/internal/markup"
	"git.home.luguber.info/inful/blogsmith/internal/plugin"
)

// RefPlaceholder in a pattern is replaced with the resolved git ref.
const RefPlaceholder = "{ref}"

// Link is one configured shortcut with the git ref applied.
type Link struct {
	Name    string
	Pattern string
	Caption string
}

// URL returns the link target for text.
func (l Link) URL(target string) string {
	return strings.Replace(l.Pattern, "%s", target, 1)
}

// Title returns the link text for target when no explicit title is given.
func (l Link) Title(target string) string {
	if l.Caption == "" {
		return l.URL(target)
	}
	return strings.Replace(l.Caption, "%s", target, 1)
}

// HTML renders role text into an external link.
func (l Link) HTML(text string) string {
	title, target, explicit := markup.SplitExplicitTitle(text)
	if !explicit {
		title = l.Title(target)
	}
	return `<a class="reference external" href="` + html.EscapeString(l.URL(target)) + `">` + html.EscapeString(title) + `</a>`
}

// Links builds the shortcuts of cfg with ref substituted, sorted by name.
func Links(cfg map[string]config.Extlink, ref string) []Link {
	out := make([]Link, 0, len(cfg))
	for _, name := range docmodel.SortedKeys(cfg) {
		e := cfg[name]
		out = append(out, Link{
			Name:    name,
			Pattern: strings.ReplaceAll(e.Pattern, RefPlaceholder, ref),
			Caption: e.Caption,
		})
	}
	return out
}

// Plugin registers one role per shortcut.
type Plugin struct {
	links []Link
}

// New returns the extlinks plugin for the configured shortcuts.
func New(cfg map[string]config.Extlink, ref string) *Plugin {
	return &Plugin{links: Links(cfg, ref)}
}

func (p *Plugin) Metadata() plugin.PluginMetadata {
	return plugin.PluginMetadata{
		Name:        "extlinks",
		Version:     "v1.0.0",
		Type:        plugin.PluginTypeSyntax,
		Description: "Shortcut roles for external links",
	}
}

func (p *Plugin) Setup(r plugin.Registrar) error {
	for _, l := range p.links {
		link := l
		err := r.RegisterRole(link.Name, plugin.RoleFunc(func(call plugin.RoleCall) ([]ast.Node, error) {
			return []ast.Node{markup.NewRawInline(link.HTML(call.Text))}, nil
		}))
		if err != nil {
			return err
		}
	}
	return nil
}
