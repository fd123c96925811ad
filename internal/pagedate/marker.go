package pagedate

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/util"

	"git.home.luguber.info/inful/blogsmith/internal/plugin"
)

// KindPageDate is the node kind of a pagedate marker.
var KindPageDate = ast.NewNodeKind("PageDate")

// PageDate marks where the document's date is rendered once it is known.
type PageDate struct {
	ast.BaseInline
}

func NewPageDate() *PageDate { return &PageDate{} }

func (n *PageDate) Kind() ast.NodeKind { return KindPageDate }

func (n *PageDate) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

// pageDateDirective expands {pagedate} into a marker.
func pageDateDirective(plugin.DirectiveCall) ([]ast.Node, error) {
	return []ast.Node{NewPageDate()}, nil
}

// Markers are replaced during resolution; one that survives renders nothing.
func renderMarker(_ util.BufWriter, _ []byte, _ ast.Node, _ bool) (ast.WalkStatus, error) {
	return ast.WalkSkipChildren, nil
}
