package build

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"

	"git.home.luguber.info/inful/blogsmith/internal/config"
	"git.home.luguber.info/inful/blogsmith/internal/docmodel"
	"git.home.luguber.info/inful/blogsmith/internal/logfields"
	"git.home.luguber.info/inful/blogsmith/internal/markup"
	"git.home.luguber.info/inful/blogsmith/internal/plugin"
	"git.home.luguber.info/inful/blogsmith/internal/theme"
)

// builder holds the state shared by the phases of one run.
type builder struct {
	cfg   *config.Config
	env   *plugin.Env
	hooks *hooks
	md    goldmark.Markdown
	theme *theme.Theme

	pagesWritten int
}

func newMarkdown(cfg *config.Config, h *hooks) goldmark.Markdown {
	return markup.New(markup.Options{
		Substitutions: func(name string) bool {
			_, ok := cfg.Prolog.Substitutions[name]
			return ok
		},
		NodeRenderers: []renderer.NodeRenderer{h.nodeRenderer()},
	})
}

// readDocument parses one source file into a document and fires DocumentRead.
func (b *builder) readDocument(f sourceFile) (*plugin.Document, error) {
	parsed, err := docmodel.ParseFile(f.Path)
	if err != nil {
		return nil, err
	}

	source := parsed.Body()
	doc := &plugin.Document{
		Name:       f.Docname,
		SourcePath: f.Path,
		Parsed:     parsed,
		Source:     source,
		Tree:       markup.Parse(b.md, source),
	}

	b.expandDirectives(doc)
	b.expandRoles(doc)

	doc.Declarations = append(parsed.Declarations(), metaDeclarations(doc.Tree)...)
	doc.Title = documentTitle(doc)
	b.env.AddDocument(doc)
	b.registerSectionLabels(doc)

	for _, h := range b.hooks.documentRead {
		if err := h.fn(b.env, doc); err != nil {
			return nil, pluginFailure(h.plugin, "document-read", err)
		}
	}
	b.env.DocLogger(doc.Name).Debug("Read document", logfields.Path(f.Path))
	return doc, nil
}

// metaDeclarations returns the declarations made by meta nodes in tree order.
func metaDeclarations(tree ast.Node) []docmodel.Declaration {
	var out []docmodel.Declaration
	_ = ast.Walk(tree, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if m, ok := n.(*markup.Meta); ok {
				out = append(out, docmodel.Declaration{Key: m.Name, Value: m.Content})
			}
		}
		return ast.WalkContinue, nil
	})
	return out
}

// documentTitle uses the frontmatter title, then the first level-one
// heading, then a title derived from the document name.
func documentTitle(doc *plugin.Document) string {
	if v, ok := doc.Field("title"); ok {
		if t := docmodel.Stringify(v); t != "" {
			return t
		}
	}
	var title string
	_ = ast.Walk(doc.Tree, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if h, ok := n.(*ast.Heading); ok && entering && h.Level == 1 {
			title = markup.PlainText(h, doc.Source)
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	if title != "" {
		return title
	}
	return docmodel.TitleFromName(doc.Name)
}

// registerSectionLabels adds a cross-reference label for every heading.
func (b *builder) registerSectionLabels(doc *plugin.Document) {
	for _, h := range headings(doc.Tree) {
		text := markup.PlainText(h, doc.Source)
		name := markup.NormalizeLabel(text)
		if name == "" {
			continue
		}
		label := plugin.Label{Docname: doc.Name, Anchor: markup.HeadingID(h), Title: text}
		if !b.env.SetLabel(name, label) {
			b.env.Warn("duplicate_label", "Duplicate section label",
				logfields.Docname(doc.Name), labelAttr(name))
		}
	}
}

func headings(tree ast.Node) []*ast.Heading {
	var out []*ast.Heading
	_ = ast.Walk(tree, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if h, ok := n.(*ast.Heading); ok && entering {
			out = append(out, h)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return out
}
