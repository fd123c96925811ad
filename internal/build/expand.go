package build

import (
	"github.com/yuin/goldmark/ast"

	"git.home.luguber.info/inful/blogsmith/internal/logfields"
	"git.home.luguber.info/inful/blogsmith/internal/markup"
	"git.home.luguber.info/inful/blogsmith/internal/plugin"
)

// expandDirectives runs the registered directive for every directive block.
// Unknown directives are left in place, render nothing and raise a warning.
func (b *builder) expandDirectives(doc *plugin.Document) {
	for _, node := range collectNodes[*markup.Directive](doc.Tree) {
		d, ok := b.hooks.directives[node.Name]
		if !ok {
			b.env.Warn("unknown_directive", "Unknown directive",
				logfields.Docname(doc.Name), logfields.Directive(node.Name))
			continue
		}
		nodes, err := d.fn.Run(plugin.DirectiveCall{Env: b.env, Doc: doc, Node: node})
		if err != nil {
			b.env.Warn("directive_failed", "Directive failed",
				logfields.Docname(doc.Name), logfields.Directive(node.Name),
				logfields.Plugin(d.plugin), logfields.Error(err))
			continue
		}
		markup.ReplaceNode(node, nodes)
	}
}

// expandRoles runs the registered role for every role occurrence. Unknown
// roles keep their text and raise a warning.
func (b *builder) expandRoles(doc *plugin.Document) {
	for _, node := range collectNodes[*markup.Role](doc.Tree) {
		r, ok := b.hooks.roles[node.Name]
		if !ok {
			b.env.Warn("unknown_role", "Unknown role",
				logfields.Docname(doc.Name), logfields.Role(node.Name))
			continue
		}
		nodes, err := r.fn.Run(plugin.RoleCall{Env: b.env, Doc: doc, Name: node.Name, Text: node.Content})
		if err != nil {
			b.env.Warn("role_failed", "Role failed",
				logfields.Docname(doc.Name), logfields.Role(node.Name),
				logfields.Plugin(r.plugin), logfields.Error(err))
			continue
		}
		markup.ReplaceNode(node, nodes)
	}
}

// collectNodes returns every node of type T in tree order.
func collectNodes[T ast.Node](root ast.Node) []T {
	var out []T
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if t, ok := n.(T); ok {
				out = append(out, t)
			}
		}
		return ast.WalkContinue, nil
	})
	return out
}
