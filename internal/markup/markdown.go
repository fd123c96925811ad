// Package markup configures goldmark for blogsmith sources: roles,
// substitutions, fenced directives and the node kinds they expand into.
package markup

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

const (
	priorityDirectiveTransformer   = 100
	priorityLinkRewriteTransformer = 200
	priorityInlineParser           = 100
	priorityNodeRenderer           = 100
)

// Options configures New.
type Options struct {
	// Substitutions reports whether |name| is a defined substitution.
	Substitutions func(name string) bool
	// NodeRenderers are additional renderers for plugin node kinds.
	NodeRenderers []renderer.NodeRenderer
}

// New returns a goldmark instance with GFM, auto heading IDs, raw HTML and
// the blogsmith syntax extensions.
func New(opts Options) goldmark.Markdown {
	renderers := []util.PrioritizedValue{
		util.Prioritized(NewNodeRenderer(), priorityNodeRenderer),
	}
	for _, r := range opts.NodeRenderers {
		renderers = append(renderers, util.Prioritized(r, priorityNodeRenderer))
	}

	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithInlineParsers(
				util.Prioritized(NewRoleParser(), priorityInlineParser),
				util.Prioritized(NewSubstitutionParser(opts.Substitutions), priorityInlineParser),
			),
			parser.WithASTTransformers(
				util.Prioritized(NewDirectiveTransformer(), priorityDirectiveTransformer),
				util.Prioritized(NewLinkRewriteTransformer(), priorityLinkRewriteTransformer),
			),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
			renderer.WithNodeRenderers(renderers...),
		),
	)
}

// Parse parses source into a document tree.
func Parse(md goldmark.Markdown, source []byte) ast.Node {
	return md.Parser().Parse(text.NewReader(source))
}

// Render renders a document tree to HTML.
func Render(md goldmark.Markdown, source []byte, doc ast.Node) (string, error) {
	var buf bytes.Buffer
	if err := md.Renderer().Render(&buf, source, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// PlainText returns the text content of n.
func PlainText(n ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		case *Role:
			title, _, _ := SplitExplicitTitle(t.Content)
			b.WriteString(title)
		case *PendingXRef:
			b.WriteString(t.Title)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

// HeadingID returns the id attribute assigned to a heading.
func HeadingID(h *ast.Heading) string {
	v, ok := h.AttributeString("id")
	if !ok {
		return ""
	}
	switch id := v.(type) {
	case []byte:
		return string(id)
	case string:
		return id
	}
	return ""
}

// NormalizeLabel lower-cases s and collapses internal whitespace.
func NormalizeLabel(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// ReplaceNode puts nodes where old is. Inline nodes replacing a block are
// grouped into paragraphs.
func ReplaceNode(old ast.Node, nodes []ast.Node) {
	parent := old.Parent()
	if parent == nil {
		return
	}
	blockContext := old.Type() == ast.TypeBlock

	var para *ast.Paragraph
	for _, n := range nodes {
		if blockContext && n.Type() == ast.TypeInline {
			if para == nil {
				para = ast.NewParagraph()
				parent.InsertBefore(parent, old, para)
			}
			para.AppendChild(para, n)
			continue
		}
		para = nil
		parent.InsertBefore(parent, old, n)
	}
	parent.RemoveChild(parent, old)
}
