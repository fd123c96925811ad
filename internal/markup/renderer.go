package markup

import (
	"strconv"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// NodeRenderer renders the node kinds defined by this package.
type NodeRenderer struct{}

// NewNodeRenderer returns a renderer.NodeRenderer for markup node kinds.
func NewNodeRenderer() renderer.NodeRenderer { return NodeRenderer{} }

func (r NodeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindRawInline, r.renderRawInline)
	reg.Register(KindRawBlock, r.renderRawBlock)
	reg.Register(KindRole, r.renderRole)
	reg.Register(KindSubstitution, r.renderSubstitution)
	reg.Register(KindDirective, r.renderNothing)
	reg.Register(KindMeta, r.renderNothing)
	reg.Register(KindTocTree, r.renderTocTree)
	reg.Register(KindPendingXRef, r.renderPendingXRef)
}

func (NodeRenderer) renderRawInline(w util.BufWriter, _ []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString(n.(*RawInline).HTML)
	}
	return ast.WalkSkipChildren, nil
}

func (NodeRenderer) renderRawBlock(w util.BufWriter, _ []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.WriteString(n.(*RawBlock).HTML)
		_ = w.WriteByte('\n')
	}
	return ast.WalkSkipChildren, nil
}

// Roles left in the tree were not registered; their text is shown as is.
func (NodeRenderer) renderRole(w util.BufWriter, _ []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.Write(util.EscapeHTML([]byte(n.(*Role).Content)))
	}
	return ast.WalkSkipChildren, nil
}

func (NodeRenderer) renderSubstitution(w util.BufWriter, _ []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		_, _ = w.Write(util.EscapeHTML([]byte("|" + n.(*Substitution).Name + "|")))
	}
	return ast.WalkSkipChildren, nil
}

func (NodeRenderer) renderNothing(_ util.BufWriter, _ []byte, _ ast.Node, _ bool) (ast.WalkStatus, error) {
	return ast.WalkSkipChildren, nil
}

func (NodeRenderer) renderTocTree(w util.BufWriter, _ []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkSkipChildren, nil
	}
	tt := n.(*TocTree)
	_, _ = w.WriteString("<div class=\"toctree-wrapper compound\">\n")
	if tt.Caption != "" {
		_, _ = w.WriteString("<p class=\"caption\" role=\"heading\"><span class=\"caption-text\">")
		_, _ = w.Write(util.EscapeHTML([]byte(tt.Caption)))
		_, _ = w.WriteString("</span></p>\n")
	}
	writeTocItems(w, tt.Items, 1)
	_, _ = w.WriteString("</div>\n")
	return ast.WalkSkipChildren, nil
}

func writeTocItems(w util.BufWriter, items []TocItem, level int) {
	if len(items) == 0 {
		return
	}
	_, _ = w.WriteString("<ul>\n")
	for _, item := range items {
		_, _ = w.WriteString("<li class=\"toctree-l" + strconv.Itoa(level) + "\"><a class=\"reference internal\" href=\"")
		_, _ = w.Write(util.EscapeHTML([]byte(item.URL)))
		_, _ = w.WriteString("\">")
		_, _ = w.Write(util.EscapeHTML([]byte(item.Title)))
		_, _ = w.WriteString("</a>")
		if len(item.Children) > 0 {
			_ = w.WriteByte('\n')
			writeTocItems(w, item.Children, level+1)
		}
		_, _ = w.WriteString("</li>\n")
	}
	_, _ = w.WriteString("</ul>\n")
}

func (NodeRenderer) renderPendingXRef(w util.BufWriter, _ []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkSkipChildren, nil
	}
	x := n.(*PendingXRef)
	title := util.EscapeHTML([]byte(x.Title))
	spanClass := "std std-ref"
	if x.RefType == RefTypeDoc {
		spanClass = "doc"
	}
	if !x.Resolved {
		_, _ = w.WriteString("<span class=\"xref " + spanClass + "\">")
		_, _ = w.Write(title)
		_, _ = w.WriteString("</span>")
		return ast.WalkSkipChildren, nil
	}
	_, _ = w.WriteString("<a class=\"reference internal\" href=\"")
	_, _ = w.Write(util.EscapeHTML([]byte(x.URL)))
	_, _ = w.WriteString("\"><span class=\"" + spanClass + "\">")
	_, _ = w.Write(title)
	_, _ = w.WriteString("</span></a>")
	return ast.WalkSkipChildren, nil
}
