// Package prolog provides the site-wide roles and substitutions every
// document can use.
package prolog

import (
	"html"
	"log/slog"

	"github.com/yuin/goldmark/ast"

	"git.home.luguber.info/inful/blogsmith/internal/config"
	"git.home.luguber.info/inful/blogsmith/internal/docmodel"
	"git.home.luguber.info/inful/blogsmith/internal/logfields"
	"git.home.luguber.info/inful/blogsmith/internal/markup"
	"git.home.luguber.info/inful/blogsmith/internal/plugin"
)

// Plugin registers class roles and expands substitutions.
type Plugin struct {
	cfg config.PrologConfig
}

// New returns the prolog plugin for cfg.
func New(cfg config.PrologConfig) *Plugin {
	return &Plugin{cfg: cfg}
}

func (p *Plugin) Metadata() plugin.PluginMetadata {
	return plugin.PluginMetadata{
		Name:        "prolog",
		Version:     "v1.0.0",
		Type:        plugin.PluginTypeSyntax,
		Description: "Class roles and site-wide substitutions",
	}
}

func (p *Plugin) Setup(r plugin.Registrar) error {
	for _, name := range docmodel.SortedKeys(p.cfg.ClassRoles) {
		if err := r.RegisterRole(name, classRole(p.cfg.ClassRoles[name])); err != nil {
			return err
		}
	}
	r.OnDocumentRead(p.expandSubstitutions)
	return nil
}

// classRole wraps the role text in a span with class.
func classRole(class string) plugin.RoleFunc {
	return func(call plugin.RoleCall) ([]ast.Node, error) {
		return []ast.Node{markup.NewRawInline(ClassSpan(class, call.Text))}, nil
	}
}

// ClassSpan returns text in a span carrying class.
func ClassSpan(class, text string) string {
	return `<span class="` + html.EscapeString(class) + `">` + html.EscapeString(text) + `</span>`
}

// expandSubstitutions replaces every |name| in doc. Raw substitutions become
// inline HTML; directive substitutions run the directive inline.
func (p *Plugin) expandSubstitutions(env *plugin.Env, doc *plugin.Document) error {
	var refs []*markup.Substitution
	_ = ast.Walk(doc.Tree, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if s, ok := n.(*markup.Substitution); ok && entering {
			refs = append(refs, s)
		}
		return ast.WalkContinue, nil
	})

	for _, ref := range refs {
		sub, ok := p.cfg.Substitutions[ref.Name]
		if !ok {
			continue
		}
		if sub.Directive == "" {
			markup.ReplaceNode(ref, []ast.Node{markup.NewRawInline(sub.Raw)})
			continue
		}

		d, ok := env.Directive(sub.Directive)
		if !ok {
			env.Warn("unknown_directive", "Substitution names an unknown directive",
				logfields.Docname(doc.Name), logfields.Directive(sub.Directive),
				slog.String("substitution", ref.Name))
			continue
		}
		node := &markup.Directive{Name: sub.Directive, Args: sub.Args, Options: map[string]string{}}
		nodes, err := d.Run(plugin.DirectiveCall{Env: env, Doc: doc, Node: node, Inline: true})
		if err != nil {
			env.Warn("directive_failed", "Substitution directive failed",
				logfields.Docname(doc.Name), logfields.Directive(sub.Directive), logfields.Error(err))
			continue
		}
		markup.ReplaceNode(ref, nodes)
	}
	return nil
}
