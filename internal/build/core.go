package build

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/yuin/goldmark/ast"

	"git.home.luguber.info/inful/blogsmith/internal/logfields"
	"git.home.luguber.info/inful/blogsmith/internal/markup"
	"git.home.luguber.info/inful/blogsmith/internal/plugin"
)

// Built-in directive and role names.
const (
	DirectiveMeta    = "meta"
	DirectiveRaw     = "raw"
	DirectiveTocTree = "toctree"
	RoleDoc          = "doc"
	RoleRef          = "ref"
)

// corePlugin provides the syntax every site relies on. It is set up before
// any other plugin.
type corePlugin struct{}

func (corePlugin) Metadata() plugin.PluginMetadata {
	return plugin.PluginMetadata{
		Name:        "core",
		Version:     "v1.0.0",
		Type:        plugin.PluginTypeSyntax,
		Description: "meta, raw and toctree directives; doc and ref roles",
	}
}

func (corePlugin) Setup(r plugin.Registrar) error {
	directives := map[string]plugin.DirectiveFunc{
		DirectiveMeta:    metaDirective,
		DirectiveRaw:     rawDirective,
		DirectiveTocTree: tocTreeDirective,
	}
	for _, name := range []string{DirectiveMeta, DirectiveRaw, DirectiveTocTree} {
		if err := r.RegisterDirective(name, directives[name]); err != nil {
			return err
		}
	}
	if err := r.RegisterRole(RoleDoc, xrefRole(markup.RefTypeDoc)); err != nil {
		return err
	}
	return r.RegisterRole(RoleRef, xrefRole(markup.RefTypeRef))
}

// metaDirective turns each option into a metadata declaration.
func metaDirective(call plugin.DirectiveCall) ([]ast.Node, error) {
	out := make([]ast.Node, 0, len(call.Node.OptionOrder))
	for _, key := range call.Node.OptionOrder {
		out = append(out, markup.NewMeta(key, call.Node.Options[key]))
	}
	return out, nil
}

func rawDirective(call plugin.DirectiveCall) ([]ast.Node, error) {
	if format := strings.TrimSpace(call.Node.Args); format != "html" {
		call.Env.Warn("raw_format", "Ignoring raw content that is not html",
			slog.String("format", format), logfields.Docname(docName(call.Doc)))
		return nil, nil
	}
	content := call.Node.ContentText()
	if call.Inline {
		return []ast.Node{markup.NewRawInline(content)}, nil
	}
	return []ast.Node{markup.NewRawBlock(content + "\n")}, nil
}

func tocTreeDirective(call plugin.DirectiveCall) ([]ast.Node, error) {
	tree := &markup.TocTree{Caption: call.Node.Options["caption"]}
	if v, ok := call.Node.Options["maxdepth"]; ok {
		depth, err := strconv.Atoi(v)
		if err != nil {
			return nil, err
		}
		tree.MaxDepth = depth
	}
	_, tree.Glob = call.Node.Options["glob"]
	for _, line := range call.Node.Content {
		if entry := strings.TrimSpace(line); entry != "" {
			tree.Entries = append(tree.Entries, entry)
		}
	}
	return []ast.Node{tree}, nil
}

func xrefRole(refType string) plugin.RoleFunc {
	return func(call plugin.RoleCall) ([]ast.Node, error) {
		title, target, explicit := markup.SplitExplicitTitle(call.Text)
		return []ast.Node{markup.NewPendingXRef(refType, target, title, explicit)}, nil
	}
}

func docName(doc *plugin.Document) string {
	if doc == nil {
		return ""
	}
	return doc.Name
}
