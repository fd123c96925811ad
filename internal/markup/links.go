package markup

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

type linkRewriteTransformer struct{}

// NewLinkRewriteTransformer rewrites relative links to .md sources into links
// to the rendered .html pages.
func NewLinkRewriteTransformer() parser.ASTTransformer { return linkRewriteTransformer{} }

func (linkRewriteTransformer) Transform(node *ast.Document, _ text.Reader, _ parser.Context) {
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering && n.Kind() == ast.KindLink {
			link := n.(*ast.Link)
			link.Destination = []byte(RewriteSourceLink(string(link.Destination)))
		}
		return ast.WalkContinue, nil
	})
}

// RewriteSourceLink maps "post.md#x" to "post.html#x". Absolute URLs and
// non-Markdown targets are returned unchanged.
func RewriteSourceLink(dest string) string {
	if dest == "" || strings.HasPrefix(dest, "#") || strings.Contains(dest, "://") || strings.HasPrefix(dest, "mailto:") {
		return dest
	}
	path, suffix := dest, ""
	if i := strings.IndexAny(dest, "?#"); i >= 0 {
		path, suffix = dest[:i], dest[i:]
	}
	if !strings.HasSuffix(path, ".md") {
		return dest
	}
	return strings.TrimSuffix(path, ".md") + ".html" + suffix
}
